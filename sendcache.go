package streamcache

import "fmt"

// SendStats are monotonic operation counters for a [SendCache], returned by
// value from [SendCache.Stats].
type SendStats struct {
	// Appends counts successful Append calls; AppendedBytes sums their
	// payload lengths.
	Appends       uint64
	AppendedBytes uint64

	// Invalidations counts InvalidateTo calls that advanced the base;
	// InvalidatedBytes sums the bytes they discarded.
	Invalidations    uint64
	InvalidatedBytes uint64

	// StaleInvalidations counts InvalidateTo calls ignored because the
	// requested sequence fell outside the acceptance window.
	StaleInvalidations uint64

	// Growths counts ring reallocations.
	Growths uint64
}

// SendCache retains bytes that have been transmitted but not yet
// acknowledged, so they can be re-read for retransmission.
//
// Bytes enter at the logical tail via [SendCache.Append] and leave from the
// logical head via [SendCache.InvalidateTo] as acknowledgments advance; the
// sequence number of the first retained byte is [SendCache.Sequence]. Reads
// are non-destructive peeks from the head.
//
// A SendCache is an unsynchronized state container owned by one connection
// direction; see the package documentation for the concurrency contract.
type SendCache struct {
	ring ring
	size int
	base uint32

	maxCapacity int
	window      uint32

	stats SendStats
}

// NewSendCache returns an empty cache whose first byte, once appended, has
// sequence number start.
func NewSendCache(start uint32, opts Options) (*SendCache, error) {
	g, err := opts.normalize()
	if err != nil {
		return nil, err
	}

	return &SendCache{
		ring:        newRing(g.initialCapacity),
		base:        start,
		maxCapacity: g.maxCapacity,
		window:      g.window,
	}, nil
}

// Append writes p at the logical tail.
//
// The ring grows as needed (doubling, capped at MaxCapacity). If the held
// bytes plus p do not fit even at MaxCapacity, Append returns [ErrFull] and
// the cache is unchanged.
func (c *SendCache) Append(p []byte) error {
	if len(p) == 0 {
		return nil
	}

	needed := c.size + len(p)
	if needed > c.ring.capacity() {
		newCap := growTarget(c.ring.capacity(), needed, c.maxCapacity)
		if needed > newCap {
			return fmt.Errorf("append %d bytes to %d held, max capacity %d: %w",
				len(p), c.size, c.maxCapacity, ErrFull)
		}

		c.ring.grow(newCap, c.size)
		c.stats.Growths++
	}

	c.ring.writeAt(c.size, p)
	c.size = needed

	c.stats.Appends++
	c.stats.AppendedBytes += uint64(len(p))

	return nil
}

// InvalidateTo discards all bytes before seq, typically because the peer
// acknowledged them.
//
// A seq further than the acceptance window ahead of the current base is
// treated as stale and ignored. Otherwise the base advances to seq even if
// that discards more bytes than are held (the held count floors at zero).
func (c *SendCache) InvalidateTo(seq uint32) {
	delta := seqDelta(c.base, seq)
	if delta > c.window {
		c.stats.StaleInvalidations++
		return
	}

	drop := min(int(delta), c.size)

	c.size -= drop
	if c.size == 0 {
		c.ring.head = 0
	} else {
		c.ring.advance(drop)
	}

	c.base = seq

	c.stats.Invalidations++
	c.stats.InvalidatedBytes += uint64(drop)
}

// Get peeks the first n held bytes without discarding them. It returns
// [ErrInsufficientData] if fewer than n bytes are held; asking for more than
// was buffered means the caller's accounting has diverged from the cache's.
func (c *SendCache) Get(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("get size must be >= 0, got %d: %w", n, ErrInvalidInput)
	}

	if n > c.size {
		return nil, fmt.Errorf("get %d bytes with %d held: %w", n, c.size, ErrInsufficientData)
	}

	out := make([]byte, n)
	c.ring.read(out)

	return out, nil
}

// GetAll peeks every held byte without discarding.
func (c *SendCache) GetAll() []byte {
	out := make([]byte, c.size)
	c.ring.read(out)

	return out
}

// Sequence returns the sequence number of the first held byte (equivalently,
// the highest acknowledgment applied so far).
func (c *SendCache) Sequence() uint32 {
	return c.base
}

// Len returns the number of held bytes.
func (c *SendCache) Len() int {
	return c.size
}

// Stats returns a snapshot of the operation counters.
func (c *SendCache) Stats() SendStats {
	return c.stats
}
