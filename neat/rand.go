package neat

import "math/rand"

// RandSource is the single random source every mutation, crossover and initial-population
// decision must draw from. It wraps *rand.Rand so a host can inject a seed and get
// per-process-reproducible runs without requiring cross-platform bitwise determinism.
type RandSource struct {
	r *rand.Rand
}

// NewRandSource builds a seeded random source. Two sources built from the same seed and
// driven through the same call sequence produce the same decisions.
func NewRandSource(seed int64) *RandSource {
	return &RandSource{r: rand.New(rand.NewSource(seed))}
}

// Float64 returns a pseudo-random number in [0.0, 1.0).
func (s *RandSource) Float64() float64 { return s.r.Float64() }

// Intn returns a pseudo-random number in [0, n).
func (s *RandSource) Intn(n int) int { return s.r.Intn(n) }

// Bool returns true with probability p.
func (s *RandSource) Bool(p float64) bool { return s.r.Float64() < p }

// SignedRange returns a pseudo-random number uniform in [-mag, +mag].
func (s *RandSource) SignedRange(mag float64) float64 {
	return (s.r.Float64()*2 - 1) * mag
}
