package rng

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSequenceCycles(t *testing.T) {
	s := NewSequence(0.1, 0.5)
	assert.Equal(t, 0.1, s.Float64())
	assert.Equal(t, 0.5, s.Float64())
	assert.Equal(t, 0.1, s.Float64())
	assert.Equal(t, 3, s.Consumed())
}

func TestSequenceIntn(t *testing.T) {
	tests := []struct {
		v    float64
		n    int
		want int
	}{
		{0, 4, 0},
		{0.24, 4, 0},
		{0.25, 4, 1},
		{0.99, 4, 3},
		{1.0, 4, 3},
	}
	for _, tt := range tests {
		s := NewSequence(tt.v)
		if got := s.Intn(tt.n); got != tt.want {
			t.Errorf("Intn(%d) with %v = %d, want %d", tt.n, tt.v, got, tt.want)
		}
	}
}

func TestEmptySequence(t *testing.T) {
	s := NewSequence()
	assert.Equal(t, 0.0, s.Float64())
	assert.Equal(t, 0, s.Intn(10))
}

func TestSeededRandReproducible(t *testing.T) {
	a, b := New(7), New(7)
	for i := 0; i < 20; i++ {
		assert.Equal(t, a.Float64(), b.Float64())
		assert.Equal(t, a.Intn(100), b.Intn(100))
	}
}

func TestShuffleIsPermutation(t *testing.T) {
	xs := []int{0, 1, 2, 3, 4, 5}
	Shuffle(New(3), len(xs), func(i, j int) { xs[i], xs[j] = xs[j], xs[i] })

	seen := make(map[int]bool)
	for _, x := range xs {
		seen[x] = true
	}
	assert.Len(t, seen, 6)
}

func TestChanceAndBetween(t *testing.T) {
	s := NewSequence(0.3, 0.5)
	assert.True(t, Chance(s, 0.4))
	assert.InDelta(t, 80+0.5*40, Between(s, 80, 40), 1e-9)
}
