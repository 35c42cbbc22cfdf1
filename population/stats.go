package population

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/agievo/telemetry"
)

// Statistics summarises the current population.
func (n *Network) Statistics() telemetry.PopulationStats {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.statistics()
}

func (n *Network) statistics() telemetry.PopulationStats {
	var eff, gens []float64
	maxGen := 0

	query := n.filter.Query()
	for query.Next() {
		m := query.Get()
		eff = append(eff, m.Efficiency)
		gens = append(gens, float64(m.Generation))
		maxGen = max(maxGen, m.Generation)
	}

	stats := telemetry.PopulationStats{
		Cycle:         n.cycle,
		Population:    len(eff),
		Replacements:  n.replacements,
		MaxGeneration: maxGen,
	}
	if len(eff) == 0 {
		return stats
	}

	sort.Float64s(eff)
	stats.EfficiencyMean, stats.EfficiencyStd, _, stats.EfficiencyP50, _ = telemetry.ComputeDistribution(eff)
	stats.EfficiencyMax = floats.Max(eff)
	stats.GenerationMean = stat.Mean(gens, nil)
	return stats
}

// GenerationDistribution counts members per generation.
func (n *Network) GenerationDistribution() map[int]int {
	n.mu.Lock()
	defer n.mu.Unlock()

	dist := make(map[int]int)
	query := n.filter.Query()
	for query.Next() {
		dist[query.Get().Generation]++
	}
	return dist
}
