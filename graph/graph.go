// Package graph stores the simulation's nodes in an ark ECS world and keeps
// the connection list, id counters and selection that reference them.
package graph

import (
	"errors"
	"fmt"
	"time"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/agievo/components"
)

var (
	ErrNotFound         = errors.New("entity not found")
	ErrDuplicateEdge    = errors.New("connection already exists")
	ErrSelfLoop         = errors.New("cannot connect a node to itself")
	ErrPrimaryProtected = errors.New("primary algorithm cannot be removed")
	ErrPrimaryExists    = errors.New("primary algorithm already exists")
	ErrNotCheckpoint    = errors.New("not a checkpoint")
)

// Graph holds every node and edge of one simulation run.
// Component pointers returned by lookups are valid until the next
// structural change (add or remove).
type Graph struct {
	world *ecs.World

	algoMapper *ecs.Map4[components.Node, components.Position, components.Body, components.Algorithm]
	ckptMapper *ecs.Map4[components.Node, components.Position, components.Body, components.Checkpoint]
	algoFilter *ecs.Filter2[components.Node, components.Algorithm]
	ckptFilter *ecs.Filter1[components.Checkpoint]

	nodeMap *ecs.Map1[components.Node]
	posMap  *ecs.Map1[components.Position]
	bodyMap *ecs.Map1[components.Body]
	algoMap *ecs.Map1[components.Algorithm]
	ckptMap *ecs.Map1[components.Checkpoint]

	order []string // insertion order defines set order
	byID  map[string]ecs.Entity
	edges []components.Edge

	primary  string
	selected string

	nextAlgorithm  int
	nextCheckpoint int
	nextEdge       int

	algorithms  int
	checkpoints int
}

// New creates an empty graph.
func New() *Graph {
	g := &Graph{}
	g.reset()
	return g
}

func (g *Graph) reset() {
	world := ecs.NewWorld()

	g.world = world
	g.algoMapper = ecs.NewMap4[components.Node, components.Position, components.Body, components.Algorithm](world)
	g.ckptMapper = ecs.NewMap4[components.Node, components.Position, components.Body, components.Checkpoint](world)
	g.algoFilter = ecs.NewFilter2[components.Node, components.Algorithm](world)
	g.ckptFilter = ecs.NewFilter1[components.Checkpoint](world)
	g.nodeMap = ecs.NewMap1[components.Node](world)
	g.posMap = ecs.NewMap1[components.Position](world)
	g.bodyMap = ecs.NewMap1[components.Body](world)
	g.algoMap = ecs.NewMap1[components.Algorithm](world)
	g.ckptMap = ecs.NewMap1[components.Checkpoint](world)

	g.order = g.order[:0]
	g.byID = make(map[string]ecs.Entity)
	g.edges = nil
	g.primary = ""
	g.selected = ""
	g.nextAlgorithm = 0
	g.nextCheckpoint = 0
	g.nextEdge = 0
	g.algorithms = 0
	g.checkpoints = 0
}

// Clear drops every node and edge and restarts id counters.
func (g *Graph) Clear() {
	g.reset()
}

// AddAlgorithm creates an algorithm node and returns its id.
// Only one primary may exist per run.
func (g *Graph) AddAlgorithm(pos components.Position, size float64, algo components.Algorithm, now time.Time) (string, error) {
	if algo.Primary && g.primary != "" {
		return "", ErrPrimaryExists
	}

	g.nextAlgorithm++
	id := fmt.Sprintf("algorithm-%d", g.nextAlgorithm)

	node := components.Node{ID: id, Kind: components.KindAlgorithm, CreatedAt: now}
	body := components.Body{Size: size}
	algo.Capabilities = algo.Capabilities.Clone()
	if algo.LastEvolvedAt.IsZero() {
		algo.LastEvolvedAt = now
	}

	e := g.algoMapper.NewEntity(&node, &pos, &body, &algo)
	g.byID[id] = e
	g.order = append(g.order, id)
	g.algorithms++
	if algo.Primary {
		g.primary = id
	}
	return id, nil
}

// AddCheckpoint creates a checkpoint node and returns its id.
func (g *Graph) AddCheckpoint(pos components.Position, size float64, ckpt components.Checkpoint, now time.Time) string {
	g.nextCheckpoint++
	id := fmt.Sprintf("checkpoint-%d", g.nextCheckpoint)

	node := components.Node{ID: id, Kind: components.KindCheckpoint, CreatedAt: now}
	body := components.Body{Size: size}
	ckpt.TeachingAbilities = ckpt.TeachingAbilities.Clone()

	e := g.ckptMapper.NewEntity(&node, &pos, &body, &ckpt)
	g.byID[id] = e
	g.order = append(g.order, id)
	g.checkpoints++
	return id
}

// Remove deletes a node, every edge touching it and any selection of it.
// Children of a removed algorithm are orphaned and it is detached from its parent.
func (g *Graph) Remove(id string) error {
	e, ok := g.byID[id]
	if !ok {
		return fmt.Errorf("remove %s: %w", id, ErrNotFound)
	}
	if id == g.primary {
		return fmt.Errorf("remove %s: %w", id, ErrPrimaryProtected)
	}

	node := g.nodeMap.Get(e)
	if node.Kind == components.KindAlgorithm {
		algo := g.algoMap.Get(e)
		if parent := g.Algorithm(algo.Parent); parent != nil {
			parent.RemoveChild(id)
		}
		for _, childID := range algo.Children {
			if child := g.Algorithm(childID); child != nil && child.Parent == id {
				child.Parent = ""
			}
		}
		g.algorithms--
	} else {
		g.checkpoints--
	}

	kept := g.edges[:0]
	for _, edge := range g.edges {
		if !edge.Touches(id) {
			kept = append(kept, edge)
		}
	}
	g.edges = kept

	if g.selected == id {
		g.selected = ""
	}

	for i, o := range g.order {
		if o == id {
			g.order = append(g.order[:i], g.order[i+1:]...)
			break
		}
	}
	delete(g.byID, id)
	g.world.RemoveEntity(e)
	return nil
}

// Connect adds a directed edge whose type is derived from the endpoint kinds.
// A second edge between the same unordered pair is rejected.
func (g *Graph) Connect(source, target string, strength float64, now time.Time) (components.Edge, error) {
	sk, ok := g.Kind(source)
	if !ok {
		return components.Edge{}, fmt.Errorf("connect %s: %w", source, ErrNotFound)
	}
	tk, ok := g.Kind(target)
	if !ok {
		return components.Edge{}, fmt.Errorf("connect %s: %w", target, ErrNotFound)
	}
	return g.ConnectTyped(source, target, components.EdgeTypeFor(sk, tk), strength, now)
}

// ConnectTyped adds a directed edge with an explicit type.
func (g *Graph) ConnectTyped(source, target string, typ components.EdgeType, strength float64, now time.Time) (components.Edge, error) {
	if source == target {
		return components.Edge{}, ErrSelfLoop
	}
	if !g.Has(source) {
		return components.Edge{}, fmt.Errorf("connect %s: %w", source, ErrNotFound)
	}
	if !g.Has(target) {
		return components.Edge{}, fmt.Errorf("connect %s: %w", target, ErrNotFound)
	}
	if g.Connected(source, target) {
		return components.Edge{}, fmt.Errorf("connection between %s and %s: %w", source, target, ErrDuplicateEdge)
	}

	g.nextEdge++
	edge := components.Edge{
		ID:        fmt.Sprintf("connection-%d", g.nextEdge),
		Source:    source,
		Target:    target,
		Type:      typ,
		Strength:  strength,
		CreatedAt: now,
	}
	g.edges = append(g.edges, edge)
	return edge, nil
}

// Connected reports whether an edge joins a and b in either direction.
func (g *Graph) Connected(a, b string) bool {
	for _, e := range g.edges {
		if e.Joins(a, b) {
			return true
		}
	}
	return false
}
