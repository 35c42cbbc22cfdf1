package graph

import (
	"github.com/pthm-cable/agievo/components"
	"gonum.org/v1/gonum/stat"
)

// IntelligenceLevel returns the weighted mean intelligence of all algorithms,
// the primary counting primaryWeight times. Zero when there are none.
func (g *Graph) IntelligenceLevel(primaryWeight float64) float64 {
	values, weights := g.IntelligenceSamples(primaryWeight)
	if len(values) == 0 {
		return 0
	}
	return stat.Mean(values, weights)
}

// IntelligenceSamples collects per-algorithm intelligence with matching weights.
func (g *Graph) IntelligenceSamples(primaryWeight float64) (values, weights []float64) {
	values = make([]float64, 0, g.algorithms)
	weights = make([]float64, 0, g.algorithms)

	query := g.algoFilter.Query()
	for query.Next() {
		_, algo := query.Get()
		w := 1.0
		if algo.Primary {
			w = primaryWeight
		}
		values = append(values, algo.Intelligence)
		weights = append(weights, w)
	}
	return values, weights
}

// TotalKnowledge sums knowledge over every checkpoint.
func (g *Graph) TotalKnowledge() float64 {
	var total float64
	query := g.ckptFilter.Query()
	for query.Next() {
		ckpt := query.Get()
		total += ckpt.Knowledge
	}
	return total
}

// CapabilityCounts tallies how many algorithms hold each capability.
func (g *Graph) CapabilityCounts() map[components.Capability]int {
	counts := make(map[components.Capability]int)
	query := g.algoFilter.Query()
	for query.Next() {
		_, algo := query.Get()
		for _, c := range algo.Capabilities {
			counts[c]++
		}
	}
	return counts
}
