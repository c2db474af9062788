package core

import "math/rand"

// RNG is the deterministic pseudo-random source of the Constructor, Solver,
// and Deconstructor. Each engine run creates its own RNG from its seed and
// draws every random decision from it in a fixed source order, so identical
// seeds and inputs produce identical outputs (spec §5's ordering guarantee).
type RNG struct {
	r *rand.Rand
}

// NewRNG seeds a new deterministic generator from a 64-bit seed.
func NewRNG(seed int64) *RNG {
	return &RNG{r: rand.New(rand.NewSource(seed))}
}

// Float64 returns a pseudo-random number in [0.0, 1.0).
func (g *RNG) Float64() float64 {
	return g.r.Float64()
}

// IntN returns a pseudo-random int in [0, n).
func (g *RNG) IntN(n int) int {
	return g.r.Intn(n)
}

// Shuffle randomizes the order of a slice in place.
func Shuffle[T any](g *RNG, s []T) {
	g.r.Shuffle(len(s), func(i, j int) { s[i], s[j] = s[j], s[i] })
}

// Choice returns a uniformly random element of a non-empty slice.
func Choice[T any](g *RNG, s []T) T {
	return s[g.r.Intn(len(s))]
}
