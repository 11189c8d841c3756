package streamcache

// ring is a fixed-capacity byte array addressed with modular indexing, so
// capacity is reused without shifting data. head marks the array index of
// logical offset 0; which offsets hold valid bytes is the owner's business.
type ring struct {
	buf  []byte
	head int
}

func newRing(capacity int) ring {
	return ring{buf: make([]byte, capacity)}
}

func (r *ring) capacity() int {
	return len(r.buf)
}

// writeAt copies p into the ring starting at logical offset off, splitting
// at the array end. The caller guarantees off+len(p) <= capacity.
func (r *ring) writeAt(off int, p []byte) {
	pos := r.head + off
	if pos >= len(r.buf) {
		pos -= len(r.buf)
	}

	n := copy(r.buf[pos:], p)
	copy(r.buf, p[n:])
}

// read copies the first len(dst) logical bytes into dst, splitting at the
// array end. The caller guarantees len(dst) <= capacity.
func (r *ring) read(dst []byte) {
	n := copy(dst, r.buf[r.head:])
	if n < len(dst) {
		copy(dst[n:], r.buf)
	}
}

// advance moves head forward by n logical bytes, 0 <= n <= capacity.
func (r *ring) advance(n int) {
	r.head = (r.head + n) % len(r.buf)
}

// grow reallocates the ring at newCap, carrying the first keep logical bytes
// and normalizing head to 0.
func (r *ring) grow(newCap, keep int) {
	fresh := make([]byte, newCap)

	n := copy(fresh, r.buf[r.head:min(r.head+keep, len(r.buf))])
	copy(fresh[n:keep], r.buf)

	r.buf = fresh
	r.head = 0
}

// growTarget returns the capacity a ring should reallocate at to hold needed
// bytes: doubled, raised to needed, capped at limit. The result may still be
// short of needed when limit binds; the caller decides what that means.
func growTarget(cur, needed, limit int) int {
	return min(max(2*cur, needed), limit)
}
