package rng

import "math/rand/v2"

// Source is a thin wrapper around math/rand/v2's PCG for reproducible streams.
// A Source is not safe for concurrent use; give each goroutine its own.
type Source struct {
	pcg *rand.PCG
	r   *rand.Rand
}

// New creates a Source seeded with seed.
func New(seed int64) *Source {
	pcg := rand.NewPCG(uint64(seed), pcgStream)
	return &Source{pcg: pcg, r: rand.New(pcg)}
}

// pcgStream is the fixed second PCG word; only the first word varies by seed.
const pcgStream = 0x9e3779b97f4a7c15

// SetSeed resets the stream so the next draws repeat those of New(seed).
func (s *Source) SetSeed(seed int64) {
	s.pcg.Seed(uint64(seed), pcgStream)
}

// Float64 returns a value in [0, 1).
func (s *Source) Float64() float64 {
	return s.r.Float64()
}

// IntRange returns an integer in [lo, hi). It returns lo when hi <= lo.
func (s *Source) IntRange(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + s.r.IntN(hi-lo)
}

// Bool returns true with probability one half.
func (s *Source) Bool() bool {
	return s.r.IntN(2) == 1
}
