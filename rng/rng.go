// Package rng isolates randomness behind a small interface so every rule
// can be replayed from a fixed seed or a scripted sequence.
package rng

import "math/rand"

// Source is the random source consumed by layout, rules and schedulers.
type Source interface {
	// Float64 returns a value in [0, 1).
	Float64() float64
	// Intn returns a value in [0, n). n must be > 0.
	Intn(n int) int
}

// Rand adapts a seeded *rand.Rand to Source.
type Rand struct {
	r *rand.Rand
}

// New creates a seeded source.
func New(seed int64) *Rand {
	return &Rand{r: rand.New(rand.NewSource(seed))}
}

func (r *Rand) Float64() float64 { return r.r.Float64() }
func (r *Rand) Intn(n int) int     { return r.r.Intn(n) }

// Sequence replays a fixed list of values, cycling when exhausted.
// Intn is derived from the next value as floor(v*n), which mirrors how
// the rules turn uniform draws into indices.
type Sequence struct {
	values []float64
	next   int
}

// NewSequence creates a scripted source. An empty list always yields 0.
func NewSequence(values ...float64) *Sequence {
	return &Sequence{values: values}
}

func (s *Sequence) Float64() float64 {
	if len(s.values) == 0 {
		return 0
	}
	v := s.values[s.next%len(s.values)]
	s.next++
	return v
}

func (s *Sequence) Intn(n int) int {
	i := int(s.Float64() * float64(n))
	if i >= n {
		i = n - 1
	}
	return i
}

// Consumed reports how many values have been drawn.
func (s *Sequence) Consumed() int { return s.next }

// Between returns a value in [min, min+span).
func Between(src Source, min, span float64) float64 {
	return min + src.Float64()*span
}

// Chance reports whether a draw falls under p.
func Chance(src Source, p float64) bool {
	return src.Float64() < p
}

// Shuffle permutes n elements with a Fisher-Yates pass driven by src.
func Shuffle(src Source, n int, swap func(i, j int)) {
	for i := n - 1; i > 0; i-- {
		j := src.Intn(i + 1)
		swap(i, j)
	}
}
