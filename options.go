package streamcache

import "fmt"

// Default geometry, matching the protocol the caches were built for: a ring
// that starts at one 16-bit window's worth of bytes and may grow 16x, inside
// an acceptance window comfortably wider than the largest possible ring.
const (
	// DefaultInitialCapacity is the ring allocation at creation.
	DefaultInitialCapacity = 64 << 10 // 64 KiB

	// DefaultMaxCapacity caps ring growth.
	DefaultMaxCapacity = 16 * DefaultInitialCapacity // 1 MiB

	// DefaultAcceptanceWindow is the maximum forward distance, in sequence
	// space, within which an incoming sequence number is treated as ahead
	// of the cache rather than stale.
	DefaultAcceptanceWindow = 4 << 20 // 4 MiB
)

// Options tune the capacity and window geometry of a cache.
//
// The zero value selects the defaults. All fields are fixed at creation;
// there is no reconfiguration after the fact.
type Options struct {
	// InitialCapacity is the ring allocation, in bytes, at creation.
	// 0 selects [DefaultInitialCapacity].
	InitialCapacity int

	// MaxCapacity is the ceiling, in bytes, for ring growth. The ring
	// doubles as needed up to this bound and never shrinks.
	// 0 selects 16x the effective InitialCapacity.
	MaxCapacity int

	// AcceptanceWindow is the maximum forward distance, in sequence space,
	// within which an incoming sequence number is accepted. Anything
	// further ahead is treated as stale or duplicate and ignored.
	//
	// Must be at least the effective MaxCapacity: every byte the ring can
	// hold has to be addressable inside the window, otherwise the span
	// accounting of the reordering cache becomes ambiguous near the window
	// edge. 0 selects [DefaultAcceptanceWindow] or the effective
	// MaxCapacity, whichever is larger.
	AcceptanceWindow int
}

// geometry is the validated, defaulted form of Options.
type geometry struct {
	initialCapacity int
	maxCapacity     int
	window          uint32
}

// normalize resolves zero fields to defaults and validates the result.
func (o Options) normalize() (geometry, error) {
	var g geometry

	switch {
	case o.InitialCapacity < 0:
		return g, fmt.Errorf("initial_capacity must be >= 0, got %d: %w", o.InitialCapacity, ErrInvalidInput)
	case o.MaxCapacity < 0:
		return g, fmt.Errorf("max_capacity must be >= 0, got %d: %w", o.MaxCapacity, ErrInvalidInput)
	case o.AcceptanceWindow < 0:
		return g, fmt.Errorf("acceptance_window must be >= 0, got %d: %w", o.AcceptanceWindow, ErrInvalidInput)
	}

	g.initialCapacity = o.InitialCapacity
	if g.initialCapacity == 0 {
		g.initialCapacity = DefaultInitialCapacity
	}

	g.maxCapacity = o.MaxCapacity
	if g.maxCapacity == 0 {
		g.maxCapacity = 16 * g.initialCapacity
	}

	window := o.AcceptanceWindow
	if window == 0 {
		window = max(DefaultAcceptanceWindow, g.maxCapacity)
	}

	switch {
	case g.initialCapacity > maxCapacityBytes:
		return geometry{}, fmt.Errorf("initial_capacity %d exceeds limit %d: %w", g.initialCapacity, maxCapacityBytes, ErrInvalidInput)
	case g.maxCapacity > maxCapacityBytes:
		return geometry{}, fmt.Errorf("max_capacity %d exceeds limit %d: %w", g.maxCapacity, maxCapacityBytes, ErrInvalidInput)
	case g.maxCapacity < g.initialCapacity:
		return geometry{}, fmt.Errorf("max_capacity %d below initial_capacity %d: %w", g.maxCapacity, g.initialCapacity, ErrInvalidInput)
	case window > maxAcceptanceWindow:
		return geometry{}, fmt.Errorf("acceptance_window %d exceeds limit %d: %w", window, maxAcceptanceWindow, ErrInvalidInput)
	case window < g.maxCapacity:
		return geometry{}, fmt.Errorf("acceptance_window %d below max_capacity %d: %w", window, g.maxCapacity, ErrInvalidInput)
	}

	g.window = uint32(window)

	return g, nil
}
