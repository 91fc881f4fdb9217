package battle

import (
	"math"
	"math/rand"
	"sync"
)

// Default jitter bounds: a factor is drawn from [DefaultMinFactor, DefaultMaxFactor).
const (
	DefaultMinFactor = 0.9
	DefaultMaxFactor = 1.1
)

// FactorSource yields the scaling factor applied to one side's raw total.
type FactorSource interface {
	Factor() float64
}

// RandFactorSource draws factors uniformly from [min, max). Safe for
// concurrent use.
type RandFactorSource struct {
	mu  sync.Mutex
	rng *rand.Rand
	min float64
	max float64
}

// NewRandFactorSource returns a source over [min, max) backed by rng. Invalid
// bounds fall back to the defaults.
func NewRandFactorSource(rng *rand.Rand, minFactor, maxFactor float64) *RandFactorSource {
	if minFactor <= 0 || maxFactor <= minFactor {
		minFactor, maxFactor = DefaultMinFactor, DefaultMaxFactor
	}
	return &RandFactorSource{rng: rng, min: minFactor, max: maxFactor}
}

// Factor implements FactorSource.
func (s *RandFactorSource) Factor() float64 {
	s.mu.Lock()
	f := s.rng.Float64()
	s.mu.Unlock()
	v := s.min + f*(s.max-s.min)
	// Rounding can land on max for draws close to 1; keep the range half-open.
	if v >= s.max {
		v = math.Nextafter(s.max, s.min)
	}
	return v
}

// FixedFactor always returns the same factor.
type FixedFactor float64

// Factor implements FactorSource.
func (f FixedFactor) Factor() float64 { return float64(f) }

// SequenceSource replays factors in order and then repeats the last one.
type SequenceSource struct {
	mu      sync.Mutex
	factors []float64
	next    int
}

// NewSequenceSource returns a source replaying factors. An empty sequence
// behaves like FixedFactor(1).
func NewSequenceSource(factors ...float64) *SequenceSource {
	return &SequenceSource{factors: factors}
}

// Factor implements FactorSource.
func (s *SequenceSource) Factor() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.factors) == 0 {
		return 1
	}
	i := s.next
	if i >= len(s.factors) {
		i = len(s.factors) - 1
	} else {
		s.next++
	}
	return s.factors[i]
}
