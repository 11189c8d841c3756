package streamcache_test

import (
	"testing"

	"github.com/calvinalkan/streamcache"
)

// Steady-state send path: append a segment, acknowledge it, repeat. The ring
// never grows, so this measures the two-segment copies and the sequence
// bookkeeping alone.
func Benchmark_SendCache_Append_Invalidate_Cycle(b *testing.B) {
	c, err := streamcache.NewSendCache(0, streamcache.Options{})
	if err != nil {
		b.Fatal(err)
	}

	segment := make([]byte, 1460)
	seq := uint32(0)

	b.SetBytes(int64(len(segment)))
	b.ResetTimer()

	for range b.N {
		if err := c.Append(segment); err != nil {
			b.Fatal(err)
		}

		seq += uint32(len(segment))
		c.InvalidateTo(seq)
	}
}

// Retransmission peek against a half-full default ring.
func Benchmark_SendCache_Get(b *testing.B) {
	c, err := streamcache.NewSendCache(0, streamcache.Options{})
	if err != nil {
		b.Fatal(err)
	}

	if err := c.Append(make([]byte, 32<<10)); err != nil {
		b.Fatal(err)
	}

	b.SetBytes(1460)
	b.ResetTimer()

	for range b.N {
		if _, err := c.Get(1460); err != nil {
			b.Fatal(err)
		}
	}
}

// In-order arrival: every fragment releases immediately, so each iteration
// pays one range insert, one pop, and two copies.
func Benchmark_RecvCache_Append_In_Order(b *testing.B) {
	c, err := streamcache.NewRecvCache(0, streamcache.Options{})
	if err != nil {
		b.Fatal(err)
	}

	fragment := make([]byte, 1460)
	seq := uint32(0)

	b.SetBytes(int64(len(fragment)))
	b.ResetTimer()

	for range b.N {
		released, err := c.Append(seq, fragment)
		if err != nil {
			b.Fatal(err)
		}

		if len(released) != len(fragment) {
			b.Fatalf("expected full release, got %d bytes", len(released))
		}

		seq += uint32(len(fragment))
	}
}

// Worst-case arrival order: every even fragment lands one slot ahead and is
// held, every odd fragment fills the gap behind it, merging two ranges and
// releasing a doubled run.
func Benchmark_RecvCache_Append_Alternating(b *testing.B) {
	c, err := streamcache.NewRecvCache(0, streamcache.Options{})
	if err != nil {
		b.Fatal(err)
	}

	fragment := make([]byte, 1460)
	seq := uint32(0)

	b.SetBytes(int64(len(fragment)))
	b.ResetTimer()

	for i := range b.N {
		var at uint32
		if i%2 == 0 {
			at = seq + uint32(len(fragment)) // ahead, held
		} else {
			at = seq // fills the gap, releases both
		}

		if _, err := c.Append(at, fragment); err != nil {
			b.Fatal(err)
		}

		if i%2 == 1 {
			seq += 2 * uint32(len(fragment))
		}
	}
}
