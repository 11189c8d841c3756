// Package model provides in-memory reference implementations of the
// streamcache structures, used as oracles in randomized tests.
//
// The models favor obviousness over fidelity of representation: a flat byte
// slice for the send side, a map keyed by absolute 64-bit stream positions
// for the receive side. No rings, no wrapping bookkeeping beyond one unwrap
// step at the API boundary. Observable behavior must match the real
// implementation exactly; everything else is free to differ.
//
// The models resolve and validate Options independently of the streamcache
// package, so a defect in its normalization cannot hide in both places.
package model

import (
	"github.com/calvinalkan/streamcache"
)

// Option limits mirrored from the streamcache package.
const (
	maxCapacityBytes    = 1 << 30
	maxAcceptanceWindow = 1 << 30
)

// resolve applies defaulting and validation to opts.
func resolve(opts streamcache.Options) (initCap, maxCap int, window uint32, err error) {
	if opts.InitialCapacity < 0 || opts.MaxCapacity < 0 || opts.AcceptanceWindow < 0 {
		return 0, 0, 0, streamcache.ErrInvalidInput
	}

	initCap = opts.InitialCapacity
	if initCap == 0 {
		initCap = streamcache.DefaultInitialCapacity
	}

	maxCap = opts.MaxCapacity
	if maxCap == 0 {
		maxCap = 16 * initCap
	}

	w := opts.AcceptanceWindow
	if w == 0 {
		w = max(streamcache.DefaultAcceptanceWindow, maxCap)
	}

	if initCap > maxCapacityBytes || maxCap > maxCapacityBytes || maxCap < initCap {
		return 0, 0, 0, streamcache.ErrInvalidInput
	}

	if w > maxAcceptanceWindow || w < maxCap {
		return 0, 0, 0, streamcache.ErrInvalidInput
	}

	return initCap, maxCap, uint32(w), nil
}

// growTarget mirrors the ring growth policy.
func growTarget(cur, needed, limit int) int {
	return min(max(2*cur, needed), limit)
}

// Send models a send cache as a flat byte slice: index 0 is the byte at the
// base sequence, append extends the tail, invalidation re-slices the front.
type Send struct {
	base uint32
	buf  []byte

	capacity int
	maxCap   int
	window   uint32
}

// NewSend returns a send model with the given start sequence.
func NewSend(start uint32, opts streamcache.Options) (*Send, error) {
	initCap, maxCap, window, err := resolve(opts)
	if err != nil {
		return nil, err
	}

	return &Send{
		base:     start,
		capacity: initCap,
		maxCap:   maxCap,
		window:   window,
	}, nil
}

// Append retains p at the tail, applying the same growth arithmetic as the
// real ring.
func (m *Send) Append(p []byte) error {
	needed := len(m.buf) + len(p)
	if needed > m.capacity {
		newCap := growTarget(m.capacity, needed, m.maxCap)
		if needed > newCap {
			return streamcache.ErrFull
		}

		m.capacity = newCap
	}

	m.buf = append(m.buf, p...)

	return nil
}

// InvalidateTo discards everything before seq.
func (m *Send) InvalidateTo(seq uint32) {
	delta := seq - m.base
	if delta > m.window {
		return
	}

	drop := min(int(delta), len(m.buf))
	m.buf = append([]byte(nil), m.buf[drop:]...)
	m.base = seq
}

// Get peeks the first n retained bytes.
func (m *Send) Get(n int) ([]byte, error) {
	if n < 0 {
		return nil, streamcache.ErrInvalidInput
	}

	if n > len(m.buf) {
		return nil, streamcache.ErrInsufficientData
	}

	out := make([]byte, n)
	copy(out, m.buf)

	return out, nil
}

// GetAll peeks every retained byte.
func (m *Send) GetAll() []byte {
	out := make([]byte, len(m.buf))
	copy(out, m.buf)

	return out
}

// Sequence returns the sequence number of the first retained byte.
func (m *Send) Sequence() uint32 {
	return m.base
}

// Len returns the number of retained bytes.
func (m *Send) Len() int {
	return len(m.buf)
}

// Recv models a receive cache as filled bytes keyed by absolute stream
// position. next is the absolute release point; spanEnd the furthest
// position any accepted write has reached.
type Recv struct {
	next    uint64
	spanEnd uint64
	cells   map[uint64]byte

	capacity int
	maxCap   int
	window   uint32
}

// NewRecv returns a receive model expecting its first byte at start.
func NewRecv(start uint32, opts streamcache.Options) (*Recv, error) {
	initCap, maxCap, window, err := resolve(opts)
	if err != nil {
		return nil, err
	}

	return &Recv{
		next:     uint64(start),
		spanEnd:  uint64(start),
		cells:    make(map[uint64]byte),
		capacity: initCap,
		maxCap:   maxCap,
		window:   window,
	}, nil
}

// Append stores the fragment at its absolute position and returns the
// contiguous run available at the release point, if any.
func (m *Recv) Append(seq uint32, p []byte) ([]byte, error) {
	if len(p) == 0 {
		return nil, nil
	}

	delta := seq - uint32(m.next)
	if delta > m.window {
		return nil, nil
	}

	needed := int(delta) + len(p)
	if needed > m.capacity {
		newCap := growTarget(m.capacity, needed, m.maxCap)
		if needed > newCap {
			return nil, streamcache.ErrFull
		}

		m.capacity = newCap
	}

	abs := m.next + uint64(delta)
	for i, b := range p {
		m.cells[abs+uint64(i)] = b
	}

	if end := abs + uint64(len(p)); end > m.spanEnd {
		m.spanEnd = end
	}

	var run []byte

	for {
		b, ok := m.cells[m.next]
		if !ok {
			break
		}

		run = append(run, b)
		delete(m.cells, m.next)
		m.next++
	}

	return run, nil
}

// Sequence returns the release point.
func (m *Recv) Sequence() uint32 {
	return uint32(m.next)
}

// RemainingSize reports free capacity saturated to 16 bits.
func (m *Recv) RemainingSize() uint16 {
	free := m.capacity - int(m.spanEnd-m.next)
	if free > 0xFFFF {
		return 0xFFFF
	}

	return uint16(free)
}
