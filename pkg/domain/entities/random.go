package entities

import "math/rand"

// RandomSource is the seedable draw stream threaded through a simulation run.
// *rand.Rand satisfies it.
type RandomSource interface {
	Intn(n int) int
}

// NewRandomSource returns an isolated source for one run
func NewRandomSource(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// UniformInt draws an integer uniformly from [low, high] inclusive. Exactly one
// draw is consumed even when low == high. Callers guarantee low <= high.
func UniformInt(rng RandomSource, low, high int) int {
	return low + rng.Intn(high-low+1)
}
