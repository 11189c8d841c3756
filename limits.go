package streamcache

// Hardcoded implementation limits.
//
// These limits are intentionally generous; they exist primarily to:
//   - keep mod-2^32 sequence arithmetic unambiguous (a forward distance must
//     never be confusable with a backward one)
//   - bound allocations for configurations the project does not test
//
// All limit violations are treated as configuration errors and return
// ErrInvalidInput.
const (
	// Maximum allowed ring capacity (bytes), initial or grown.
	maxCapacityBytes = 1 << 30 // 1 GiB

	// Maximum allowed acceptance window (sequence-space distance).
	//
	// Must stay well below 2^31 so that "at most window ahead" identifies
	// a unique direction around the 32-bit sequence circle.
	maxAcceptanceWindow = 1 << 30
)
