package sim

import (
	"math"

	"github.com/pthm-cable/agievo/components"
	"github.com/pthm-cable/agievo/eventlog"
)

// EntityView is the renderer's copy of one node.
type EntityView struct {
	ID       string
	Kind     components.Kind
	Primary  bool
	X, Y     float64
	Size     float64
	Crashed  bool
	Selected bool

	// Algorithm fields
	Intelligence    float64
	LearningRate    float64
	Capabilities    []components.Capability
	MaxCapabilities int
	ResourceUsage   float64
	ResourceLimit   float64
	Generation      int
	Specialization  components.Specialization
	FailedAttempts  int
	Parent          string
	Children        []string

	// Checkpoint fields
	Knowledge float64
	Accuracy  float64
}

// Snapshot is a consistent copy of everything the renderer and UI display.
type Snapshot struct {
	Entities []EntityView
	Edges    []components.Edge
	Signals  []SignalView

	Selected      string
	Connect       ConnectState
	ConnectSource string

	IntelligenceLevel float64
	Generation        int
	Algorithms        int
	Checkpoints       int
	Tick              int
	Speed             float64

	Log []eventlog.Entry
}

// Entity returns the view with the given id.
func (s *Snapshot) Entity(id string) (EntityView, bool) {
	for _, e := range s.Entities {
		if e.ID == id {
			return e, true
		}
	}
	return EntityView{}, false
}

// Snapshot copies the current state.
func (s *Simulation) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	g := s.graph
	selected := g.Selected()
	snap := Snapshot{
		Edges:             g.Edges(),
		Signals:           s.timeline.Signals(),
		Selected:          selected,
		Connect:           s.connect,
		ConnectSource:     s.connectSource,
		IntelligenceLevel: s.intelligenceLevel,
		Generation:        s.generation,
		Algorithms:        g.AlgorithmCount(),
		Checkpoints:       g.CheckpointCount(),
		Tick:              s.tick,
		Speed:             s.speed,
		Log:               s.log.Entries(),
	}

	ids := g.IDs()
	snap.Entities = make([]EntityView, 0, len(ids))
	for _, id := range ids {
		pos := g.Position(id)
		v := EntityView{
			ID:       id,
			X:        pos.X,
			Y:        pos.Y,
			Size:     g.Body(id).Size,
			Selected: id == selected,
		}
		if a := g.Algorithm(id); a != nil {
			v.Kind = components.KindAlgorithm
			v.Primary = a.Primary
			v.Crashed = a.Crashed
			v.Intelligence = a.Intelligence
			v.LearningRate = a.LearningRate
			v.Capabilities = a.Capabilities.Clone()
			v.MaxCapabilities = a.MaxCapabilities
			v.ResourceUsage = a.ResourceUsage
			v.ResourceLimit = a.ResourceLimit
			v.Generation = a.Generation
			v.Specialization = a.Specialization
			v.FailedAttempts = a.FailedAttempts
			v.Parent = a.Parent
			v.Children = append([]string(nil), a.Children...)
		} else if c := g.Checkpoint(id); c != nil {
			v.Kind = components.KindCheckpoint
			v.Knowledge = c.Knowledge
			v.Accuracy = c.Accuracy
			v.Capabilities = c.TeachingAbilities.Clone()
		}
		snap.Entities = append(snap.Entities, v)
	}
	return snap
}

// NodeAt returns the topmost entity whose footprint contains (x, y).
func (s *Snapshot) NodeAt(x, y float64) (string, bool) {
	for i := len(s.Entities) - 1; i >= 0; i-- {
		e := s.Entities[i]
		p := components.Position{X: e.X, Y: e.Y}
		if p.DistanceTo(components.Position{X: x, Y: y}) <= e.Size/2 {
			return e.ID, true
		}
	}
	return "", false
}

// EdgeAt returns the edge whose segment passes within tolerance of (x, y).
func (s *Snapshot) EdgeAt(x, y, tolerance float64) (string, bool) {
	pos := make(map[string]components.Position, len(s.Entities))
	for _, e := range s.Entities {
		pos[e.ID] = components.Position{X: e.X, Y: e.Y}
	}
	best, bestDist := "", tolerance
	for _, e := range s.Edges {
		a, okA := pos[e.Source]
		b, okB := pos[e.Target]
		if !okA || !okB {
			continue
		}
		if d := segmentDistance(a, b, components.Position{X: x, Y: y}); d <= bestDist {
			best, bestDist = e.ID, d
		}
	}
	return best, best != ""
}

func segmentDistance(a, b, p components.Position) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return a.DistanceTo(p)
	}
	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / lenSq
	t = math.Max(0, math.Min(1, t))
	return p.DistanceTo(components.Position{X: a.X + t*dx, Y: a.Y + t*dy})
}
