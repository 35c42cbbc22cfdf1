// Package tuning searches population parameters with CMA-ES, scoring each
// candidate by headless population runs.
package tuning

import (
	"math"

	"github.com/pthm-cable/agievo/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
	Integer bool    // Rounded before it is applied
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of optimizable parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			// Parent selection
			{Name: "main_bias_chance", Path: "population.main_bias_chance", Min: 0, Max: 0.8, Default: 0.3},
			{Name: "generation_penalty", Path: "population.generation_penalty", Min: 0, Max: 0.3, Default: 0.1},
			{Name: "top_candidates", Path: "population.top_candidates", Min: 1, Max: 20, Default: 5, Integer: true},
			// Lineage limits
			{Name: "max_children", Path: "population.max_children", Min: 1, Max: 12, Default: 5, Integer: true},
			{Name: "max_generation", Path: "population.max_generation", Min: 1, Max: 12, Default: 5, Integer: true},
			// Cadence
			{Name: "spawn_every", Path: "population.spawn_every", Min: 1, Max: 20, Default: 5, Integer: true},
			{Name: "replace_every", Path: "population.replace_every", Min: 2, Max: 40, Default: 10, Integer: true},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp bounds every value and rounds the integer ones.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		val := math.Max(spec.Min, math.Min(v[i], spec.Max))
		if spec.Integer {
			val = math.Round(val)
		}
		clamped[i] = val
	}
	return clamped
}

// ApplyToConfig applies parameter values to a Config struct.
// Order must match Specs order.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	c := pv.Clamp(values)
	p := &cfg.Population
	p.MainBiasChance = c[0]
	p.GenerationPenalty = c[1]
	p.TopCandidates = int(c[2])
	p.MaxChildren = int(c[3])
	p.MaxGeneration = int(c[4])
	p.SpawnEvery = int(c[5])
	p.ReplaceEvery = int(c[6])
}

// ExtractFromConfig extracts current parameter values from a Config struct.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	p := cfg.Population
	return []float64{
		p.MainBiasChance,
		p.GenerationPenalty,
		float64(p.TopCandidates),
		float64(p.MaxChildren),
		float64(p.MaxGeneration),
		float64(p.SpawnEvery),
		float64(p.ReplaceEvery),
	}
}
