package testutil

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/calvinalkan/streamcache"
	"github.com/calvinalkan/streamcache/model"
)

// fullCompareEveryN is how often the runners do a deep state comparison on
// top of the per-op checks.
const fullCompareEveryN = 5

// pattern returns n position-derived bytes starting at absolute stream
// position pos. Overlapping writes therefore agree on every shared byte, and
// a released byte can be checked against its position alone.
func pattern(pos uint64, n int) []byte {
	p := make([]byte, n)
	for i := range p {
		p[i] = byte(pos + uint64(i))
	}

	return p
}

// sameError fails the run unless both sides agree on the error class.
func sameError(t *testing.T, op int, desc string, got, want error) {
	t.Helper()

	if (got == nil) != (want == nil) {
		t.Fatalf("op %d %s: error mismatch: cache %v, model %v", op, desc, got, want)
	}

	if want != nil && !errors.Is(got, want) {
		t.Fatalf("op %d %s: error class mismatch: cache %v, model %v", op, desc, got, want)
	}
}

// RunSendOps drives a SendCache and its model through numOps seeded random
// operations, comparing observable state after every op.
func RunSendOps(t *testing.T, p Profile, rng *rand.Rand, numOps int) {
	t.Helper()

	cache, err := streamcache.NewSendCache(p.Start, p.Opts)
	require.NoError(t, err, "NewSendCache(%s)", p.Name)

	ref, err := model.NewSend(p.Start, p.Opts)
	require.NoError(t, err, "model.NewSend(%s)", p.Name)

	window := effWindow(p.Opts)
	written := uint64(p.Start)

	for i := range numOps {
		var opDesc string

		switch roll := rng.IntN(10); {
		case roll < 4: // append
			n := rng.IntN(48)
			frag := pattern(written, n)
			written += uint64(n)
			opDesc = fmt.Sprintf("Append(%d bytes)", n)

			sameError(t, i, opDesc, cache.Append(frag), ref.Append(frag))

		case roll < 7: // invalidate: held range, clamped, stale, behind
			base := ref.Sequence()

			var seq uint32

			switch rng.IntN(8) {
			case 0:
				seq = base - uint32(1+rng.IntN(64))
			case 1:
				seq = base + uint32(window+1+rng.IntN(64))
			default:
				seq = base + uint32(rng.IntN(ref.Len()+2))
			}

			opDesc = fmt.Sprintf("InvalidateTo(%d)", seq)

			cache.InvalidateTo(seq)
			ref.InvalidateTo(seq)

		case roll < 9: // peek: valid sizes plus negative and oversized
			n := rng.IntN(ref.Len()+3) - 1
			opDesc = fmt.Sprintf("Get(%d)", n)

			got, gotErr := cache.Get(n)
			want, wantErr := ref.Get(n)

			sameError(t, i, opDesc, gotErr, wantErr)

			if diff := cmp.Diff(want, got); diff != "" {
				t.Fatalf("op %d %s: peek mismatch (-model +cache):\n%s", i, opDesc, diff)
			}

		default: // full peek
			opDesc = "GetAll()"

			if diff := cmp.Diff(ref.GetAll(), cache.GetAll()); diff != "" {
				t.Fatalf("op %d %s: mismatch (-model +cache):\n%s", i, opDesc, diff)
			}
		}

		if got, want := cache.Sequence(), ref.Sequence(); got != want {
			t.Fatalf("op %d %s: sequence diverged: cache %d, model %d", i, opDesc, got, want)
		}

		if got, want := cache.Len(), ref.Len(); got != want {
			t.Fatalf("op %d %s: length diverged: cache %d, model %d", i, opDesc, got, want)
		}

		if i%fullCompareEveryN == 0 {
			if diff := cmp.Diff(ref.GetAll(), cache.GetAll()); diff != "" {
				t.Fatalf("op %d %s: held bytes diverged (-model +cache):\n%s", i, opDesc, diff)
			}
		}
	}
}

// RunRecvOps drives a RecvCache and its model through numOps seeded random
// fragment arrivals, comparing releases and observable state after every op.
func RunRecvOps(t *testing.T, p Profile, rng *rand.Rand, numOps int) {
	t.Helper()

	cache, err := streamcache.NewRecvCache(p.Start, p.Opts)
	require.NoError(t, err, "NewRecvCache(%s)", p.Name)

	ref, err := model.NewRecv(p.Start, p.Opts)
	require.NoError(t, err, "model.NewRecv(%s)", p.Name)

	window := effWindow(p.Opts)
	released := uint64(p.Start) // absolute position of the next expected release

	for i := range numOps {
		base := ref.Sequence()

		var seq uint32

		switch rng.IntN(8) {
		case 0: // behind the release point: duplicate of delivered data
			seq = base - uint32(1+rng.IntN(64))
		case 1: // just past the window
			seq = base + uint32(window+1+rng.IntN(64))
		default: // productive region, mostly near the release point
			if rng.IntN(4) == 0 {
				seq = base + uint32(rng.IntN(4096))
			} else {
				seq = base + uint32(rng.IntN(192))
			}
		}

		n := rng.IntN(24)
		delta := uint64(seq - base)
		frag := pattern(released+delta, n)
		opDesc := fmt.Sprintf("Append(%d, %d bytes)", seq, n)

		got, gotErr := cache.Append(seq, frag)
		want, wantErr := ref.Append(seq, frag)

		sameError(t, i, opDesc, gotErr, wantErr)

		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("op %d %s: release mismatch (-model +cache):\n%s", i, opDesc, diff)
		}

		// Released bytes must also match their absolute stream position,
		// independent of the model.
		for j, b := range got {
			if expect := byte(released + uint64(j)); b != expect {
				t.Fatalf("op %d %s: released byte %d is %#x, want %#x", i, opDesc, j, b, expect)
			}
		}

		released += uint64(len(got))

		if g, w := cache.Sequence(), ref.Sequence(); g != w {
			t.Fatalf("op %d %s: sequence diverged: cache %d, model %d", i, opDesc, g, w)
		}

		if i%fullCompareEveryN == 0 {
			if g, w := cache.RemainingSize(), ref.RemainingSize(); g != w {
				t.Fatalf("op %d %s: remaining size diverged: cache %d, model %d", i, opDesc, g, w)
			}
		}
	}
}
