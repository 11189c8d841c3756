package streamcache

// Export internal state for testing.
// This file is only compiled during tests.

// CapacityForTesting returns the current ring capacity.
func (c *SendCache) CapacityForTesting() int {
	return c.ring.capacity()
}

// HeadForTesting returns the ring index of the first held byte.
func (c *SendCache) HeadForTesting() int {
	return c.ring.head
}

// CapacityForTesting returns the current ring capacity.
func (c *RecvCache) CapacityForTesting() int {
	return c.ring.capacity()
}

// SpanForTesting returns the recorded write extent from the release point.
func (c *RecvCache) SpanForTesting() int {
	return c.size
}

// RangeForTesting is one tracked filled interval in extended key space.
type RangeForTesting struct {
	Start  uint64
	Length int
}

// RangesForTesting returns the tracked intervals in ascending key order.
func (c *RecvCache) RangesForTesting() []RangeForTesting {
	out := make([]RangeForTesting, 0, c.ranges.Len())

	c.ranges.Ascend(func(it interval) bool {
		out = append(out, RangeForTesting{Start: it.start, Length: it.length})
		return true
	})

	return out
}
