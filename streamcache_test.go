// Deterministic tests comparing both caches against in-memory reference
// models. Uses seeded PRNG for reproducible operation sequences across
// multiple geometry profiles.
//
// Failures mean: the API returned wrong bytes or wrong errors.

package streamcache_test

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/calvinalkan/streamcache/internal/testutil"
)

func Test_SendCache_Matches_Model_When_Seeded_Random_Ops_Applied(t *testing.T) {
	t.Parallel()

	seedsPerProfile := 10
	if testing.Short() {
		seedsPerProfile = 2
	}

	numOps := 2000

	for _, profile := range testutil.SendProfiles() {
		for seedIndex := range seedsPerProfile {
			seed := uint64(seedIndex + 1)

			t.Run(fmt.Sprintf("%s/seed=%d", profile.Name, seed), func(t *testing.T) {
				t.Parallel()

				rng := rand.New(rand.NewPCG(seed, seed))
				testutil.RunSendOps(t, profile, rng, numOps)
			})
		}
	}
}

func Test_RecvCache_Matches_Model_When_Seeded_Random_Fragments_Applied(t *testing.T) {
	t.Parallel()

	seedsPerProfile := 10
	if testing.Short() {
		seedsPerProfile = 2
	}

	numOps := 2000

	for _, profile := range testutil.RecvProfiles() {
		for seedIndex := range seedsPerProfile {
			seed := uint64(10_000 + seedIndex + 1)

			t.Run(fmt.Sprintf("%s/seed=%d", profile.Name, seed), func(t *testing.T) {
				t.Parallel()

				rng := rand.New(rand.NewPCG(seed, seed))
				testutil.RunRecvOps(t, profile, rng, numOps)
			})
		}
	}
}
