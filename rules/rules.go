// Package rules implements the interaction rules between nodes: learning,
// teaching, training, self-improvement, spawning, connection discovery and
// crashes. Every rule mutates the graph through Env and reports precondition
// failures as wrapped sentinel errors.
package rules

import (
	"errors"
	"fmt"
	"time"

	"github.com/pthm-cable/agievo/components"
	"github.com/pthm-cable/agievo/config"
	"github.com/pthm-cable/agievo/eventlog"
	"github.com/pthm-cable/agievo/graph"
	"github.com/pthm-cable/agievo/layout"
	"github.com/pthm-cable/agievo/rng"
)

var (
	ErrMissingCapability     = errors.New("missing capability")
	ErrInsufficientResources = errors.New("insufficient resources")
	ErrNotAlgorithm          = errors.New("not an algorithm")
	ErrNotCheckpoint         = graph.ErrNotCheckpoint
	ErrNotSmarter            = errors.New("teacher is not more intelligent than student")
	ErrPopulationFull        = errors.New("algorithm population cap reached")
	ErrPrimaryImmune         = errors.New("primary algorithm cannot crash")
)

// Timeline defers work onto the simulation clock.
type Timeline interface {
	// Signal animates a transfer along edgeID and runs done when it arrives.
	Signal(edgeID string, d time.Duration, done func())
	// After runs fn once d has elapsed.
	After(d time.Duration, fn func())
}

// Recorder receives rule outcomes for telemetry.
type Recorder interface {
	RecordBirth(kind components.Kind)
	RecordRemoval(kind components.Kind)
	RecordConnection()
	RecordTransfer()
	RecordCrash()
	RecordRecovery()
}

type nopRecorder struct{}

func (nopRecorder) RecordBirth(components.Kind)   {}
func (nopRecorder) RecordRemoval(components.Kind) {}
func (nopRecorder) RecordConnection()             {}
func (nopRecorder) RecordTransfer()               {}
func (nopRecorder) RecordCrash()                  {}
func (nopRecorder) RecordRecovery()               {}

// Env bundles the state a rule reads and mutates.
type Env struct {
	Graph    *graph.Graph
	Layout   *layout.Engine
	Rand     rng.Source
	Cfg      *config.Config
	Log      *eventlog.Log
	Timeline Timeline
	Now      func() time.Time
	Recorder Recorder // optional
}

func (env *Env) record() Recorder {
	if env.Recorder == nil {
		return nopRecorder{}
	}
	return env.Recorder
}

// algorithm resolves id to a live algorithm.
func (env *Env) algorithm(id string) (*components.Algorithm, error) {
	if !env.Graph.Has(id) {
		return nil, fmt.Errorf("%s: %w", id, graph.ErrNotFound)
	}
	a := env.Graph.Algorithm(id)
	if a == nil {
		return nil, fmt.Errorf("%s: %w", id, ErrNotAlgorithm)
	}
	return a, nil
}

func (env *Env) checkpoint(id string) (*components.Checkpoint, error) {
	if !env.Graph.Has(id) {
		return nil, fmt.Errorf("%s: %w", id, graph.ErrNotFound)
	}
	c := env.Graph.Checkpoint(id)
	if c == nil {
		return nil, fmt.Errorf("%s: %w", id, ErrNotCheckpoint)
	}
	return c, nil
}

// chance draws once from the env source.
func (env *Env) chance(p float64) bool {
	return rng.Chance(env.Rand, p)
}

// intn draws an index in [0, n), or 0 when n is not positive.
func (env *Env) intn(n int) int {
	if n <= 0 {
		return 0
	}
	return env.Rand.Intn(n)
}

// Footprints returns every node footprint in set order alongside its id.
func Footprints(g *graph.Graph) ([]string, []layout.Circle) {
	ids := g.IDs()
	circles := make([]layout.Circle, len(ids))
	primary := g.Primary()
	for i, id := range ids {
		pos := g.Position(id)
		circles[i] = layout.Circle{
			X:      pos.X,
			Y:      pos.Y,
			Size:   g.Body(id).Size,
			Pinned: id == primary,
		}
	}
	return ids, circles
}

// ApplyFootprints writes relaxed positions back to the graph.
func ApplyFootprints(g *graph.Graph, ids []string, circles []layout.Circle) {
	for i, id := range ids {
		if pos := g.Position(id); pos != nil {
			pos.X, pos.Y = circles[i].X, circles[i].Y
		}
	}
}

// Relax runs one force-directed pass over the whole graph.
func Relax(env *Env) int {
	ids, circles := Footprints(env.Graph)
	n := env.Layout.Relax(circles)
	ApplyFootprints(env.Graph, ids, circles)
	return n
}
