package streamcache

import (
	"fmt"
	"math"

	"github.com/google/btree"
)

// interval is one filled sub-range ahead of the release point, keyed by its
// extended start. Intervals in the range map are disjoint and never abut;
// merging happens on insert.
type interval struct {
	start  uint64
	length int
}

func intervalLess(a, b interval) bool {
	return a.start < b.start
}

// RecvStats are monotonic operation counters for a [RecvCache], returned by
// value from [RecvCache.Stats].
type RecvStats struct {
	// Appends counts accepted Append calls; AppendedBytes sums their
	// payload lengths.
	Appends       uint64
	AppendedBytes uint64

	// StaleAppends counts Append calls ignored because the sequence fell
	// outside the acceptance window (duplicates of released data land
	// here too).
	StaleAppends uint64

	// Releases counts Append calls that returned bytes; ReleasedBytes
	// sums their lengths.
	Releases      uint64
	ReleasedBytes uint64

	// Growths counts ring reallocations.
	Growths uint64
}

// RecvCache absorbs received byte fragments in whatever order they arrive
// and releases the stream back in order.
//
// Each fragment is addressed by the absolute sequence number of its first
// byte. Fragments may arrive out of order, duplicated, or overlapping; the
// cache tracks which sub-ranges ahead of the release point are filled and,
// whenever a write makes the region at the release point contiguous,
// [RecvCache.Append] returns that region and the release point advances
// past it.
//
// Sequence numbers wrap mod 2^32. Internally the filled ranges are keyed by
// a 64-bit extension of the sequence so that ordering stays strict across a
// wrap; keys are re-anchored each time the release point wraps.
//
// A RecvCache is an unsynchronized state container owned by one connection
// direction; see the package documentation for the concurrency contract.
type RecvCache struct {
	ring ring

	// size spans from head to the furthest write extent. Bytes inside the
	// span are not necessarily filled; the range map knows which are.
	size int
	base uint32

	ranges *btree.BTreeG[interval]

	maxCapacity int
	window      uint32

	stats RecvStats
}

// NewRecvCache returns an empty cache expecting its first byte at sequence
// number start.
func NewRecvCache(start uint32, opts Options) (*RecvCache, error) {
	g, err := opts.normalize()
	if err != nil {
		return nil, err
	}

	return &RecvCache{
		ring:        newRing(g.initialCapacity),
		base:        start,
		ranges:      btree.NewG(2, intervalLess),
		maxCapacity: g.maxCapacity,
		window:      g.window,
	}, nil
}

// Append writes a received fragment at its sequence position and returns the
// contiguous run newly available at the release point, or nil while a gap
// remains.
//
// A fragment whose sequence lies further than the acceptance window ahead of
// the release point is treated as stale or duplicate and ignored (nil, nil).
// The ring grows as needed (doubling, capped at MaxCapacity); a fragment
// whose end position does not fit even at MaxCapacity returns [ErrFull] with
// the cache unchanged.
//
// The returned slice is freshly allocated and owned by the caller. A single
// call can release an arbitrarily long run: inserting a fragment merges it
// with every tracked range it touches, so the write that fills the last gap
// of a chain releases the whole chain at once.
func (c *RecvCache) Append(seq uint32, p []byte) ([]byte, error) {
	if len(p) == 0 {
		return nil, nil
	}

	offset := seqDelta(c.base, seq)
	if offset > c.window {
		c.stats.StaleAppends++
		return nil, nil
	}

	needed := int(offset) + len(p)
	if needed > c.ring.capacity() {
		newCap := growTarget(c.ring.capacity(), needed, c.maxCapacity)
		if needed > newCap {
			return nil, fmt.Errorf("write %d bytes at offset %d, max capacity %d: %w",
				len(p), offset, c.maxCapacity, ErrFull)
		}

		// Filled bytes are scattered across the whole ring, so carry all
		// of it, not just the recorded span.
		c.ring.grow(newCap, c.ring.capacity())
		c.stats.Growths++
	}

	c.ring.writeAt(int(offset), p)

	c.stats.Appends++
	c.stats.AppendedBytes += uint64(len(p))

	// Extend the span when the write's tail is ahead of the recorded
	// extent. The window bound doubles as the direction test: a tail
	// behind the extent computes, mod 2^32, to a huge forward distance.
	tail := seqAdd(seq, len(p))
	recordTail := seqAdd(c.base, c.size)
	if subTail := seqDelta(recordTail, tail); subTail <= c.window {
		c.size += int(subTail)
	}

	c.insertRange(seq, len(p))

	return c.popReady(), nil
}

// Sequence returns the release point: the sequence number of the next byte
// the consumer expects.
func (c *RecvCache) Sequence() uint32 {
	return c.base
}

// RemainingSize reports how many more bytes the ring could hold at its
// current capacity, saturated to 16 bits.
//
// This is the receive-window headroom a caller advertises to the remote
// sender. It is a saturating hint, not an exact count: capacity may still
// grow, and not every byte inside the span is filled.
func (c *RecvCache) RemainingSize() uint16 {
	free := c.ring.capacity() - c.size
	if free > math.MaxUint16 {
		return math.MaxUint16
	}

	return uint16(free)
}

// Stats returns a snapshot of the operation counters.
func (c *RecvCache) Stats() RecvStats {
	return c.stats
}

// extendKey maps seq into the cache's extended key space. A sequence that
// has wrapped relative to the release point (numerically smaller while
// logically ahead) keys one epoch up.
func (c *RecvCache) extendKey(seq uint32) uint64 {
	k := uint64(seq)
	if seq < c.base {
		k += 1 << 32
	}

	return k
}

// insertRange records the write [seq, seq+n) in the range map, folding the
// new interval and every tracked range it overlaps or abuts into one entry
// spanning from the smallest start to the furthest end.
func (c *RecvCache) insertRange(seq uint32, n int) {
	start := c.extendKey(seq)
	end := start + uint64(n)

	// Ranges keyed inside [start, end] fold in; the inclusive upper bound
	// captures a range that begins exactly at the write's tail.
	var folded []interval

	c.ranges.AscendRange(interval{start: start}, interval{start: end + 1}, func(it interval) bool {
		folded = append(folded, it)
		return true
	})

	for _, it := range folded {
		c.ranges.Delete(it)
		end = max(end, it.start+uint64(it.length))
	}

	// A predecessor reaching start absorbs the interval. Anything keyed at
	// start itself was folded above, so this finds strictly earlier starts.
	var (
		prev    interval
		hasPrev bool
	)

	c.ranges.DescendLessOrEqual(interval{start: start}, func(it interval) bool {
		prev, hasPrev = it, true
		return false
	})

	if hasPrev && prev.start+uint64(prev.length) >= start {
		c.ranges.Delete(prev)
		start = prev.start
		end = max(end, prev.start+uint64(prev.length))
	}

	c.ranges.ReplaceOrInsert(interval{start: start, length: int(end - start)})
}

// popReady releases the earliest tracked range if it touches the release
// point. At most one range is popped per call; merging keeps a contiguous
// chain in a single range, so one pop is always the full available run.
func (c *RecvCache) popReady() []byte {
	first, ok := c.ranges.Min()
	if !ok || uint32(first.start) != c.base {
		return nil
	}

	c.ranges.Delete(first)

	n := first.length

	// When the release point wraps past 2^32, every remaining key sits in
	// the next epoch; shift them back down to keep keys anchored near the
	// new base.
	newBase := seqAdd(c.base, n)
	if newBase < c.base {
		c.rebase()
	}

	out := make([]byte, n)
	c.ring.read(out)
	c.ring.advance(n)

	c.base = newBase
	c.size -= n

	c.stats.Releases++
	c.stats.ReleasedBytes += uint64(n)

	return out
}

// rebase shifts every tracked key down one epoch.
func (c *RecvCache) rebase() {
	shifted := make([]interval, 0, c.ranges.Len())

	c.ranges.Ascend(func(it interval) bool {
		shifted = append(shifted, interval{start: it.start - 1<<32, length: it.length})
		return true
	})

	c.ranges.Clear(false)

	for _, it := range shifted {
		c.ranges.ReplaceOrInsert(it)
	}
}
