package streamcache

import "errors"

// Sentinel errors returned by streamcache operations.
//
// Callers should use [errors.Is] to check error types:
//
//	if errors.Is(err, streamcache.ErrFull) {
//	    // tear down the connection or stop accepting bytes upstream
//	}
var (
	// ErrFull indicates the cache cannot hold the requested bytes even
	// after growing to its maximum capacity.
	//
	// The cache is unchanged. Whether to tear down the connection or to
	// apply backpressure upstream is the caller's policy decision.
	//
	// Recovery: release data first (acknowledge on the send side, drain
	// releases on the receive side), or recreate with a larger
	// [Options.MaxCapacity].
	ErrFull = errors.New("streamcache: cache is full")

	// ErrInsufficientData indicates a peek asked for more bytes than the
	// cache currently holds.
	//
	// The send and receive paths agree on byte counts by construction, so
	// hitting this means the caller lost track of how much is buffered.
	//
	// This is a programming error.
	ErrInsufficientData = errors.New("streamcache: insufficient data")

	// ErrInvalidInput indicates invalid arguments were provided.
	//
	// Common causes: negative [Options] fields, MaxCapacity below
	// InitialCapacity, an acceptance window narrower than MaxCapacity,
	// negative peek sizes.
	//
	// This is a programming error.
	ErrInvalidInput = errors.New("streamcache: invalid input")
)
