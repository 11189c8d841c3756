package streamcache

// Sequence numbers are 32-bit and wrap modulo 2^32. Unsigned subtraction
// already behaves as modular arithmetic in Go, so the helpers below exist to
// name the two operations the caches perform, not to add logic. A distance is
// only meaningful when the caller bounds it by the acceptance window;
// unbounded, every pair of sequence numbers is simultaneously "ahead" and
// "behind" around the circle.

// seqDelta returns the forward distance from base to seq, mod 2^32.
func seqDelta(base, seq uint32) uint32 {
	return seq - base
}

// seqAdd advances s by n bytes, wrapping mod 2^32.
func seqAdd(s uint32, n int) uint32 {
	return s + uint32(n)
}
