package components

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEdgeTypeFor(t *testing.T) {
	tests := []struct {
		source, target Kind
		want           EdgeType
	}{
		{KindAlgorithm, KindAlgorithm, EdgeLearning},
		{KindCheckpoint, KindAlgorithm, EdgeKnowledge},
		{KindAlgorithm, KindCheckpoint, EdgeResource},
		{KindCheckpoint, KindCheckpoint, EdgeResource},
	}
	for _, tt := range tests {
		if got := EdgeTypeFor(tt.source, tt.target); got != tt.want {
			t.Errorf("EdgeTypeFor(%v, %v) = %v, want %v", tt.source, tt.target, got, tt.want)
		}
	}
}

func TestAlgorithmLearnRespectsCap(t *testing.T) {
	a := &Algorithm{MaxCapabilities: 2, Capabilities: NewCapabilitySet(CapLearn)}

	assert.False(t, a.Learn(CapLearn), "duplicate capability")
	assert.True(t, a.Learn(CapTeach))
	assert.False(t, a.Learn(CapCreate), "over cap")
	assert.Len(t, a.Capabilities, 2)
}

func TestAlgorithmBudget(t *testing.T) {
	a := &Algorithm{ResourceLimit: 100}
	a.Spend(30)
	assert.Equal(t, 30.0, a.ResourceUsage)
	a.Recover(50)
	assert.Equal(t, 0.0, a.ResourceUsage)
	assert.True(t, a.HasHeadroom())

	a.ResourceUsage = 100
	assert.False(t, a.HasHeadroom())

	p := &Algorithm{Primary: true, ResourceLimit: math.Inf(1)}
	p.Spend(1000)
	assert.Equal(t, 0.0, p.ResourceUsage)
	assert.True(t, p.HasHeadroom())
}

func TestCapabilitySet(t *testing.T) {
	s := NewCapabilitySet(CapLearn, CapTeach, CapLearn)
	assert.Equal(t, CapabilitySet{CapLearn, CapTeach}, s)
	assert.Equal(t, CapabilitySet{CapTeach}, s.Without(CapLearn))
	assert.Len(t, s.Missing(), len(AllCapabilities)-2)
	assert.Equal(t, "Self-Improvement", CapImprove.Info().Name)
	assert.False(t, Capability("fly").Valid())
}

func TestEdgeEndpoints(t *testing.T) {
	e := Edge{Source: "a", Target: "b"}
	assert.True(t, e.Joins("b", "a"))
	assert.Equal(t, "a", e.Other("b"))
	assert.True(t, e.Touches("b"))
	assert.False(t, e.Touches("c"))
}

func TestRemoveChild(t *testing.T) {
	a := &Algorithm{Children: []string{"x", "y", "z"}}
	a.RemoveChild("y")
	assert.Equal(t, []string{"x", "z"}, a.Children)
	a.RemoveChild("missing")
	assert.Len(t, a.Children, 2)
}
