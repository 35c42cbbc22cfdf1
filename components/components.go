// Package components defines ECS components and value types for the simulation.
package components

import "time"

// Kind distinguishes the two node archetypes.
type Kind uint8

const (
	KindAlgorithm Kind = iota
	KindCheckpoint
)

func (k Kind) String() string {
	if k == KindCheckpoint {
		return "checkpoint"
	}
	return "algorithm"
}

// Node holds identity shared by every entity on the canvas.
type Node struct {
	ID        string
	Kind      Kind
	CreatedAt time.Time
}

// Specialization decides which rule pair a non-primary algorithm favours each evolve step.
type Specialization uint8

const (
	SpecProcessing Specialization = iota // Train / Connect
	SpecMemory                           // Create / Improve
)

func (s Specialization) String() string {
	if s == SpecMemory {
		return "memory"
	}
	return "processing"
}

// Algorithm holds the evolving state of an algorithm node.
type Algorithm struct {
	Primary         bool
	Intelligence    float64
	LearningRate    float64
	Capabilities    CapabilitySet
	MaxCapabilities int
	ResourceUsage   float64
	ResourceLimit   float64 // +Inf for the primary
	EvolutionSpeed  float64
	Generation      int
	Parent          string // empty when orphaned or user-created
	Children        []string
	Specialization  Specialization
	FailedAttempts  int
	Crashed         bool // pending crash resolution
	LastEvolvedAt   time.Time
}

// HasHeadroom reports whether the algorithm may spend resources.
func (a *Algorithm) HasHeadroom() bool {
	return a.Primary || a.ResourceUsage < a.ResourceLimit
}

// Spend charges cost against the budget. The primary never pays.
func (a *Algorithm) Spend(cost float64) {
	if a.Primary {
		return
	}
	a.ResourceUsage += cost
}

// Recover returns amount to the budget, never dropping usage below zero.
func (a *Algorithm) Recover(amount float64) {
	a.ResourceUsage -= amount
	if a.ResourceUsage < 0 {
		a.ResourceUsage = 0
	}
}

// Learn adds a capability if it is new and the cap allows it.
func (a *Algorithm) Learn(c Capability) bool {
	if a.Capabilities.Has(c) || len(a.Capabilities) >= a.MaxCapabilities {
		return false
	}
	a.Capabilities = append(a.Capabilities, c)
	return true
}

// CanLearn reports whether another capability fits under the cap.
func (a *Algorithm) CanLearn() bool {
	return len(a.Capabilities) < a.MaxCapabilities
}

// RemoveChild detaches a child id from the children list.
func (a *Algorithm) RemoveChild(id string) {
	for i, c := range a.Children {
		if c == id {
			a.Children = append(a.Children[:i], a.Children[i+1:]...)
			return
		}
	}
}

// Checkpoint holds a passive knowledge source.
type Checkpoint struct {
	Knowledge         float64
	Accuracy          float64
	TeachingAbilities CapabilitySet
}

// EdgeType classifies a connection by its endpoint kinds.
type EdgeType uint8

const (
	EdgeLearning  EdgeType = iota // algorithm -> algorithm
	EdgeKnowledge                 // checkpoint -> algorithm
	EdgeResource                  // anything else
)

func (t EdgeType) String() string {
	switch t {
	case EdgeLearning:
		return "learning"
	case EdgeKnowledge:
		return "knowledge"
	default:
		return "resource"
	}
}

// EdgeTypeFor derives the connection type from endpoint kinds.
func EdgeTypeFor(source, target Kind) EdgeType {
	switch {
	case source == KindAlgorithm && target == KindAlgorithm:
		return EdgeLearning
	case source == KindCheckpoint && target == KindAlgorithm:
		return EdgeKnowledge
	default:
		return EdgeResource
	}
}

// Edge is a directed connection between two nodes. Existence is unique per unordered pair.
type Edge struct {
	ID            string
	Source        string
	Target        string
	Type          EdgeType
	Strength      float64
	TransferCount int
	CreatedAt     time.Time
}

// Touches reports whether id is an endpoint.
func (e Edge) Touches(id string) bool {
	return e.Source == id || e.Target == id
}

// Other returns the endpoint opposite id.
func (e Edge) Other(id string) string {
	if e.Source == id {
		return e.Target
	}
	return e.Source
}

// Joins reports whether the edge connects a and b in either direction.
func (e Edge) Joins(a, b string) bool {
	return (e.Source == a && e.Target == b) || (e.Source == b && e.Target == a)
}
