package core

import "math/rand/v2"

// RNG is a thin convenience wrapper around math/rand/v2 for deterministic seeding.
type RNG struct {
	r *rand.Rand
}

// NewRNG creates a deterministic RNG using the provided seed.
func NewRNG(seed int64) *RNG {
	return &RNG{r: rand.New(rand.NewPCG(uint64(seed), 0))}
}

// IntN returns a random int in [0, n). It returns 0 when n <= 0.
func (r *RNG) IntN(n int) int {
	if n <= 0 {
		return 0
	}
	return r.r.IntN(n)
}

// Bool returns a random boolean value.
func (r *RNG) Bool() bool {
	return r.r.IntN(2) == 1
}

// Shuffle permutes n elements in place through swap using Fisher-Yates.
func (r *RNG) Shuffle(n int, swap func(i, j int)) {
	Shuffle(r, n, swap)
}

// Intn is the subset of a random source that Shuffle needs.
type Intn interface {
	IntN(n int) int
}

// Shuffle performs a Fisher-Yates shuffle of n elements driven by src. Every
// permutation is equally likely provided src.IntN is uniform.
func Shuffle(src Intn, n int, swap func(i, j int)) {
	for i := n - 1; i > 0; i-- {
		j := src.IntN(i + 1)
		swap(i, j)
	}
}

// Source exposes the underlying rand.Rand for advanced use.
func (r *RNG) Source() *rand.Rand { return r.r }
