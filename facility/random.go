package facility

import (
	"math/rand/v2"
	"sync"
)

// Random is the source of all stochastic decisions. Implementations must be safe for concurrent use.
type Random interface {
	Float64() float64
	IntN(n int) int
	Int64N(n int64) int64
	Perm(n int) []int
}

type globalRandom struct{}

//nolint:gosec
func (globalRandom) Float64() float64 {
	return rand.Float64()
}

//nolint:gosec
func (globalRandom) IntN(n int) int {
	return rand.IntN(n)
}

//nolint:gosec
func (globalRandom) Int64N(n int64) int64 {
	return rand.Int64N(n)
}

//nolint:gosec
func (globalRandom) Perm(n int) []int {
	return rand.Perm(n)
}

// DefaultRandom returns the process wide random source.
func DefaultRandom() Random {
	return globalRandom{}
}

type seededRandom struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewSeededRandom returns a reproducible random source for tests and replays.
func NewSeededRandom(seed uint64) Random {
	return &seededRandom{rnd: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))} //nolint:gosec
}

func (s *seededRandom) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.rnd.Float64()
}

func (s *seededRandom) IntN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.rnd.IntN(n)
}

func (s *seededRandom) Int64N(n int64) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.rnd.Int64N(n)
}

func (s *seededRandom) Perm(n int) []int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.rnd.Perm(n)
}
