package sequencer

import (
	"math/rand/v2"
	"time"
)

// Rand is the randomness the mapper and emitter draw from.
// *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	// IntN returns a value in [0, n)
	IntN(n int) int
}

// NewRand returns a seeded generator. Seed 0 seeds from the clock.
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// uniform returns a value in [lo, hi]
func uniform(rng Rand, lo, hi int) int {
	return lo + rng.IntN(hi-lo+1)
}
