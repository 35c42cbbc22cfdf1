package graph

import (
	"fmt"

	"github.com/pthm-cable/agievo/components"
)

// Has reports whether id names a live node.
func (g *Graph) Has(id string) bool {
	_, ok := g.byID[id]
	return ok
}

// Kind returns the node kind for id.
func (g *Graph) Kind(id string) (components.Kind, bool) {
	e, ok := g.byID[id]
	if !ok {
		return 0, false
	}
	return g.nodeMap.Get(e).Kind, true
}

// Node returns identity data, or nil.
func (g *Graph) Node(id string) *components.Node {
	e, ok := g.byID[id]
	if !ok {
		return nil
	}
	return g.nodeMap.Get(e)
}

// Algorithm returns the algorithm component, or nil if id is absent or a checkpoint.
func (g *Graph) Algorithm(id string) *components.Algorithm {
	e, ok := g.byID[id]
	if !ok || g.nodeMap.Get(e).Kind != components.KindAlgorithm {
		return nil
	}
	return g.algoMap.Get(e)
}

// Checkpoint returns the checkpoint component, or nil if id is absent or an algorithm.
func (g *Graph) Checkpoint(id string) *components.Checkpoint {
	e, ok := g.byID[id]
	if !ok || g.nodeMap.Get(e).Kind != components.KindCheckpoint {
		return nil
	}
	return g.ckptMap.Get(e)
}

// Position returns the node position, or nil.
func (g *Graph) Position(id string) *components.Position {
	e, ok := g.byID[id]
	if !ok {
		return nil
	}
	return g.posMap.Get(e)
}

// Body returns the node footprint, or nil.
func (g *Graph) Body(id string) *components.Body {
	e, ok := g.byID[id]
	if !ok {
		return nil
	}
	return g.bodyMap.Get(e)
}

// SetPosition moves a node.
func (g *Graph) SetPosition(id string, x, y float64) error {
	pos := g.Position(id)
	if pos == nil {
		return fmt.Errorf("move %s: %w", id, ErrNotFound)
	}
	pos.X, pos.Y = x, y
	return nil
}

// BoostKnowledge adds amount to a checkpoint and returns the new total.
func (g *Graph) BoostKnowledge(id string, amount float64) (float64, error) {
	if !g.Has(id) {
		return 0, fmt.Errorf("boost %s: %w", id, ErrNotFound)
	}
	ckpt := g.Checkpoint(id)
	if ckpt == nil {
		return 0, fmt.Errorf("boost %s: %w", id, ErrNotCheckpoint)
	}
	ckpt.Knowledge += amount
	return ckpt.Knowledge, nil
}

// Primary returns the primary algorithm id, or "".
func (g *Graph) Primary() string { return g.primary }

// IDs returns every node id in set order.
func (g *Graph) IDs() []string {
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

// AlgorithmIDs returns algorithm ids in set order.
func (g *Graph) AlgorithmIDs() []string {
	return g.idsOf(components.KindAlgorithm)
}

// CheckpointIDs returns checkpoint ids in set order.
func (g *Graph) CheckpointIDs() []string {
	return g.idsOf(components.KindCheckpoint)
}

func (g *Graph) idsOf(kind components.Kind) []string {
	var out []string
	for _, id := range g.order {
		if g.nodeMap.Get(g.byID[id]).Kind == kind {
			out = append(out, id)
		}
	}
	return out
}

// Edges returns a copy of every edge in creation order.
func (g *Graph) Edges() []components.Edge {
	out := make([]components.Edge, len(g.edges))
	copy(out, g.edges)
	return out
}

// EdgesOf returns a copy of the edges touching id.
func (g *Graph) EdgesOf(id string) []components.Edge {
	var out []components.Edge
	for _, e := range g.edges {
		if e.Touches(id) {
			out = append(out, e)
		}
	}
	return out
}

// Edge returns the edge with the given id, or nil.
// The pointer is invalidated by the next node removal.
func (g *Graph) Edge(id string) *components.Edge {
	for i := range g.edges {
		if g.edges[i].ID == id {
			return &g.edges[i]
		}
	}
	return nil
}

// AlgorithmCount returns the number of live algorithms.
func (g *Graph) AlgorithmCount() int { return g.algorithms }

// CheckpointCount returns the number of live checkpoints.
func (g *Graph) CheckpointCount() int { return g.checkpoints }

// Len returns the number of live nodes.
func (g *Graph) Len() int { return len(g.order) }

// Select marks a node as selected.
func (g *Graph) Select(id string) error {
	if !g.Has(id) {
		return fmt.Errorf("select %s: %w", id, ErrNotFound)
	}
	g.selected = id
	return nil
}

// Selected returns the selected id, or "".
func (g *Graph) Selected() string { return g.selected }

// ClearSelection drops the selection.
func (g *Graph) ClearSelection() { g.selected = "" }
