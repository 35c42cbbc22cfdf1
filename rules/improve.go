package rules

import (
	"fmt"
	"math"

	"github.com/pthm-cable/agievo/components"
	"github.com/pthm-cable/agievo/rng"
)

// SelfImprove raises intelligence by a random amount scaled by current
// intelligence and may raise the learning rate. Returns the improvement.
func SelfImprove(env *Env, id string) (float64, error) {
	a, err := env.algorithm(id)
	if err != nil {
		return 0, err
	}
	if !a.Capabilities.Has(components.CapImprove) {
		env.Log.Warnf("%s doesn't have self-improvement capability", id)
		return 0, fmt.Errorf("%s: %w", id, ErrMissingCapability)
	}

	r := env.Cfg.Rules
	if !a.HasHeadroom() {
		env.Log.Warnf("%s has insufficient resources for self-improvement", id)
		return 0, fmt.Errorf("%s: %w", id, ErrInsufficientResources)
	}
	a.Spend(r.ImproveCost)

	factor := r.ImproveRandomMin + env.Rand.Float64()*r.ImproveRandomRange
	improvement := r.ImproveBase * factor * (1 + a.Intelligence*r.ImproveIntelligenceFactor)
	a.Intelligence += improvement
	env.Log.Infof("%s self-improved, intelligence +%.2f", id, improvement)

	if env.chance(r.ImproveLearningRateChance) {
		a.LearningRate += r.ImproveLearningRateGain
		env.Log.Infof("%s improved learning efficiency to %.2f", id, a.LearningRate)
	}
	return improvement, nil
}

// CreateChild spawns a child near the parent carrying a share of its
// intelligence and one or two of its capabilities, joined by a parent to
// child edge. Returns the child id.
func CreateChild(env *Env, parentID string) (string, error) {
	p, err := env.algorithm(parentID)
	if err != nil {
		return "", err
	}
	if !p.Capabilities.Has(components.CapCreate) {
		env.Log.Warnf("%s doesn't have creation capability", parentID)
		return "", fmt.Errorf("%s: %w", parentID, ErrMissingCapability)
	}
	if limit := env.Cfg.Simulation.MaxAlgorithms; limit > 0 && env.Graph.AlgorithmCount() >= limit {
		env.Log.Warnf("%s cannot create: population limit of %d algorithms reached", parentID, limit)
		return "", fmt.Errorf("%s: %w", parentID, ErrPopulationFull)
	}

	r := env.Cfg.Rules
	if !p.HasHeadroom() {
		env.Log.Warnf("%s has insufficient resources to create child algorithm", parentID)
		return "", fmt.Errorf("%s: %w", parentID, ErrInsufficientResources)
	}
	p.Spend(r.CreateCost)

	origin := *env.Graph.Position(parentID)
	angle := env.Rand.Float64() * 2 * math.Pi
	dist := r.CreateDistanceMin + env.Rand.Float64()*r.CreateDistanceRange
	at := components.Position{
		X: origin.X + math.Cos(angle)*dist,
		Y: origin.Y + math.Sin(angle)*dist,
	}

	scale := r.CreateIntelligenceMin + env.Rand.Float64()*(1-r.CreateIntelligenceMin)
	intelligence := math.Max(r.CreateIntelligenceFloor, p.Intelligence*scale)

	count := 1 + int(math.Floor(env.Rand.Float64()*2))
	if count > len(p.Capabilities) {
		count = len(p.Capabilities)
	}
	pool := p.Capabilities.Clone()
	rng.Shuffle(env.Rand, len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })

	childID, err := NewAlgorithm(env, AlgorithmParams{
		At:           &at,
		Intelligence: intelligence,
		Capabilities: pool[:count],
		Generation:   p.Generation + 1,
	})
	if err != nil {
		return "", err
	}

	// Adding the child is a structural change; re-fetch both components.
	parent := env.Graph.Algorithm(parentID)
	child := env.Graph.Algorithm(childID)
	child.Parent = parentID
	parent.Children = append(parent.Children, childID)

	Connect(env, parentID, childID)
	env.Log.Infof("%s created child algorithm %s", parentID, childID)
	return childID, nil
}
