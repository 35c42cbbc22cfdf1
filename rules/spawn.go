package rules

import (
	"errors"
	"fmt"
	"math"

	"github.com/pthm-cable/agievo/components"
	"github.com/pthm-cable/agievo/graph"
)

// AlgorithmParams describes an algorithm to place on the canvas.
type AlgorithmParams struct {
	At           *components.Position // nil picks a random spot
	Intelligence float64
	Primary      bool
	Capabilities []components.Capability
	Generation   int
}

// place clamps the desired point and searches for a free spot near it.
func (env *Env) place(at *components.Position, size float64) components.Position {
	var x, y float64
	if at == nil {
		x, y = env.Layout.RandomPosition(size)
	} else {
		x, y = env.Layout.Bounds().Clamp(at.X, at.Y, size)
	}
	_, occupied := Footprints(env.Graph)
	x, y = env.Layout.FindPosition(x, y, size, occupied)
	return components.Position{X: x, Y: y}
}

// NewAlgorithm creates an algorithm node with randomized physical traits.
func NewAlgorithm(env *Env, p AlgorithmParams) (string, error) {
	cfg := env.Cfg
	base, variation := cfg.Algorithm.BaseSize, cfg.Algorithm.SizeVariation
	if p.Primary {
		base, variation = cfg.Primary.BaseSize, cfg.Primary.SizeVariation
	}
	size := base + float64(env.intn(variation))
	pos := env.place(p.At, size)

	caps := components.NewCapabilitySet(p.Capabilities...)
	if p.Primary && len(caps) == 0 {
		caps = components.NewCapabilitySet(components.CapLearn)
	}

	spec := components.SpecMemory
	if env.Rand.Float64() > 0.5 {
		spec = components.SpecProcessing
	}

	algo := components.Algorithm{
		Primary:        p.Primary,
		Intelligence:   p.Intelligence,
		Capabilities:   caps,
		Generation:     p.Generation,
		Specialization: spec,
	}
	if p.Primary {
		algo.ResourceLimit = math.Inf(1)
		algo.EvolutionSpeed = cfg.Primary.EvolutionSpeed
		algo.LearningRate = cfg.Primary.LearningRate
		algo.MaxCapabilities = cfg.Primary.MaxCapabilities
	} else {
		a := cfg.Algorithm
		algo.ResourceLimit = a.ResourceBase + p.Intelligence*a.ResourcePerIntelligence
		algo.EvolutionSpeed = a.EvolutionSpeedMin + env.Rand.Float64()*a.EvolutionSpeedRange
		algo.LearningRate = a.LearningRateMin + env.Rand.Float64()*a.LearningRateRange
		algo.MaxCapabilities = a.BaseCapabilities + int(math.Floor(p.Intelligence/2))
	}
	if len(algo.Capabilities) > algo.MaxCapabilities {
		algo.Capabilities = algo.Capabilities[:algo.MaxCapabilities]
	}

	id, err := env.Graph.AddAlgorithm(pos, size, algo, env.Now())
	if err != nil {
		env.Log.Errorf("Cannot create algorithm: %v", err)
		return "", err
	}
	env.record().RecordBirth(components.KindAlgorithm)

	if p.Primary {
		env.Log.Successf("Primary algorithm initialized with intelligence level %g", p.Intelligence)
	} else if spec == components.SpecProcessing {
		env.Log.Infof("New algorithm created with faster learning but limited storage")
	} else {
		env.Log.Infof("New algorithm created with larger storage but slower processing")
	}
	return id, nil
}

// NewCheckpoint creates a checkpoint node. Without abilities it draws one to
// three random catalogue entries, dropping duplicates.
func NewCheckpoint(env *Env, at *components.Position, knowledge float64, abilities []components.Capability) string {
	cfg := env.Cfg.Checkpoint
	size := cfg.SizeMin + float64(env.intn(cfg.SizeRange))
	pos := env.place(at, size)

	teach := components.NewCapabilitySet(abilities...)
	if len(teach) == 0 {
		n := env.intn(cfg.MaxTeachingAbilities) + 1
		for i := 0; i < n; i++ {
			c := components.AllCapabilities[env.Rand.Intn(len(components.AllCapabilities))]
			if !teach.Has(c) {
				teach = append(teach, c)
			}
		}
	}

	ckpt := components.Checkpoint{
		Knowledge:         knowledge,
		Accuracy:          cfg.AccuracyMin + env.Rand.Float64()*cfg.AccuracyRange,
		TeachingAbilities: teach,
	}
	id := env.Graph.AddCheckpoint(pos, size, ckpt, env.Now())
	env.record().RecordBirth(components.KindCheckpoint)
	env.Log.Infof("Checkpoint created with %d teaching capabilities", len(teach))
	return id
}

// Connect joins source to target with a random strength in [0.5, 1.0).
// Duplicates of the unordered pair are refused with a warning.
func Connect(env *Env, source, target string) (components.Edge, error) {
	if env.Graph.Connected(source, target) {
		env.Log.Warnf("Connection between %s and %s already exists", source, target)
		return components.Edge{}, fmt.Errorf("connection between %s and %s: %w", source, target, graph.ErrDuplicateEdge)
	}

	strength := 0.5 + env.Rand.Float64()*0.5
	edge, err := env.Graph.Connect(source, target, strength, env.Now())
	if err != nil {
		env.Log.Warnf("Cannot connect %s to %s: %v", source, target, err)
		return components.Edge{}, err
	}
	env.record().RecordConnection()
	env.Log.Infof("Created %s connection from %s to %s", edge.Type, source, target)
	return edge, nil
}

// Remove deletes a node and its edges, logging the outcome.
func Remove(env *Env, id string) error {
	kind, _ := env.Graph.Kind(id)
	err := env.Graph.Remove(id)
	switch {
	case err == nil:
		env.record().RecordRemoval(kind)
		env.Log.Infof("%s has been removed from the simulation", id)
	case errors.Is(err, graph.ErrPrimaryProtected):
		env.Log.Warnf("The primary algorithm cannot be deleted")
	default:
		env.Log.Warnf("Cannot remove %s: not found", id)
	}
	return err
}
