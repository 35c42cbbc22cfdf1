package effects

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/agievo/rng"
	"github.com/pthm-cable/agievo/sim"
)

func countKind(s *System, k Kind) int {
	n := 0
	for _, p := range s.Particles {
		if p.Kind == k {
			n++
		}
	}
	return n
}

func TestBurstExpires(t *testing.T) {
	s := New(rng.NewSequence(), 100)
	s.EmitBurst(10, 10, 5)
	require.Equal(t, 8, s.Count())

	for i := 0; i < 29; i++ {
		s.Update()
	}
	assert.Equal(t, 8, s.Count())
	s.Update()
	assert.Equal(t, 0, s.Count())
}

func TestCapacity(t *testing.T) {
	s := New(rng.NewSequence(), 5)
	s.EmitBurst(0, 0, 1)
	s.EmitCrash(0, 0)
	assert.Equal(t, 5, s.Count())
}

func TestCrashSinks(t *testing.T) {
	s := New(rng.NewSequence(0.5), 10)
	s.EmitCrash(0, 0)
	y := s.Particles[0].Y
	for i := 0; i < 5; i++ {
		s.Update()
	}
	assert.Greater(t, s.Particles[0].Y, y)
	assert.Less(t, s.Particles[0].LifeRatio(), float32(1))
}

func TestImproveRises(t *testing.T) {
	s := New(rng.NewSequence(0.5), 10)
	s.EmitImprove(0, 0)
	y := s.Particles[0].Y
	s.Update()
	assert.Less(t, s.Particles[0].Y, y)
}

func TestObserve(t *testing.T) {
	s := New(rng.NewSequence(), 100)
	entities := []sim.EntityView{
		{ID: "primary", Primary: true, Intelligence: 10},
		{ID: "algo-1", Intelligence: 2},
	}

	// First observation only records state.
	s.Observe(entities)
	assert.Equal(t, 0, s.Count())

	entities = append(entities, sim.EntityView{ID: "algo-2", Intelligence: 1, Size: 20})
	s.Observe(entities)
	assert.Equal(t, 8, countKind(s, KindSpawn))

	entities[1].Crashed = true
	entities[0].Intelligence = 11
	s.Observe(entities)
	assert.Equal(t, 6, countKind(s, KindCrash))
	assert.Equal(t, 4, countKind(s, KindImprove))

	// Staying crashed emits nothing new.
	before := s.Count()
	s.Observe(entities)
	assert.Equal(t, before, s.Count())
}

func TestForget(t *testing.T) {
	s := New(rng.NewSequence(), 100)
	s.Observe([]sim.EntityView{{ID: "primary"}})
	s.EmitCrash(0, 0)

	s.Forget()
	assert.Equal(t, 0, s.Count())

	// After a reset every entity looks new; nothing should burst.
	s.Observe([]sim.EntityView{{ID: "primary"}, {ID: "checkpoint-1"}})
	assert.Equal(t, 0, s.Count())
}
