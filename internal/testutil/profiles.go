// Package testutil drives streamcache caches and their reference models
// through identical deterministic operation sequences, failing the test on
// the first observable divergence.
package testutil

import (
	"github.com/calvinalkan/streamcache"
)

// Profile pins a cache geometry and start sequence for one deterministic run.
type Profile struct {
	Name  string
	Start uint32
	Opts  streamcache.Options
}

// tinyOpts keeps growth, ErrFull, and window boundaries a few dozen bytes
// away instead of megabytes away.
var tinyOpts = streamcache.Options{
	InitialCapacity:  32,
	MaxCapacity:      128,
	AcceptanceWindow: 128,
}

// Profiles ordered from most constrained to least constrained. The NearWrap
// entries start close enough to 2^32 that every run crosses the wrap.
func SendProfiles() []Profile {
	return []Profile{
		{Name: "Tiny", Start: 0, Opts: tinyOpts},
		{Name: "TinyNearWrap", Start: 0xFFFFFF80, Opts: tinyOpts},
		{Name: "Default", Start: 1<<31 - 7, Opts: streamcache.Options{}},
	}
}

func RecvProfiles() []Profile {
	return []Profile{
		{Name: "Tiny", Start: 0, Opts: tinyOpts},
		{Name: "TinyNearWrap", Start: 0xFFFFFF80, Opts: tinyOpts},
		{Name: "Default", Start: 1<<31 - 7, Opts: streamcache.Options{}},
		{Name: "DefaultNearWrap", Start: 0xFFFF0000, Opts: streamcache.Options{}},
	}
}

// effWindow mirrors the option normalization enough to aim operations at the
// window boundary. It only shapes distributions; both sides of a run always
// see the same sequence numbers regardless.
func effWindow(opts streamcache.Options) int {
	if opts.AcceptanceWindow != 0 {
		return opts.AcceptanceWindow
	}

	maxCap := opts.MaxCapacity
	if maxCap == 0 {
		init := opts.InitialCapacity
		if init == 0 {
			init = streamcache.DefaultInitialCapacity
		}

		maxCap = 16 * init
	}

	return max(streamcache.DefaultAcceptanceWindow, maxCap)
}
