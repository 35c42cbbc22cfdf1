package tuning

import (
	"math"
	"sync"

	"github.com/pthm-cable/agievo/config"
	"github.com/pthm-cable/agievo/population"
	"github.com/pthm-cable/agievo/rng"
	"github.com/pthm-cable/agievo/telemetry"
)

// Evaluator runs headless population simulations and computes fitness.
type Evaluator struct {
	params     *ParamVector
	cycles     int
	initial    int
	seeds      []int64
	baseConfig *config.Config

	// Best run tracking
	mu          sync.Mutex
	bestFitness float64
	bestStats   telemetry.PopulationStats
	lastStats   telemetry.PopulationStats // mean of the most recent Evaluate call
}

// NewEvaluator creates a new evaluator. initial < 0 uses the config's
// initial_subs.
func NewEvaluator(params *ParamVector, cycles, initial int, seeds []int64, baseCfg *config.Config) *Evaluator {
	if initial < 0 {
		initial = baseCfg.Population.InitialSubs
	}
	return &Evaluator{
		params:      params,
		cycles:      cycles,
		initial:     initial,
		seeds:       seeds,
		baseConfig:  baseCfg,
		bestFitness: math.Inf(1),
	}
}

// BestStats returns the averaged statistics of the best evaluation.
func (e *Evaluator) BestStats() telemetry.PopulationStats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.bestStats
}

// LastStats returns the averaged statistics of the most recent evaluation.
func (e *Evaluator) LastStats() telemetry.PopulationStats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastStats
}

// Config returns a copy of the base config with x applied.
func (e *Evaluator) Config(x []float64) *config.Config {
	cfg := *e.baseConfig
	e.params.ApplyToConfig(&cfg, x)
	return &cfg
}

// Evaluate computes fitness for a raw parameter vector (lower = better).
func (e *Evaluator) Evaluate(x []float64) float64 {
	cfg := e.Config(x)

	// Seeds share nothing but the read-only config.
	results := make([]telemetry.PopulationStats, len(e.seeds))
	var wg sync.WaitGroup
	for i, seed := range e.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			results[idx] = e.runPopulation(cfg, s)
		}(i, seed)
	}
	wg.Wait()

	var total float64
	for _, r := range results {
		total += Fitness(r, cfg.Population.MaxGeneration)
	}
	avgFitness := total / float64(len(results))
	avg := meanStats(results)

	e.mu.Lock()
	if avgFitness < e.bestFitness {
		e.bestFitness = avgFitness
		e.bestStats = avg
	}
	e.lastStats = avg
	e.mu.Unlock()

	return avgFitness
}

// runPopulation executes a single headless population run.
func (e *Evaluator) runPopulation(cfg *config.Config, seed int64) telemetry.PopulationStats {
	net := population.New(cfg, rng.New(seed))
	net.Initialize()
	net.GenerateBatch(e.initial)
	for i := 0; i < e.cycles; i++ {
		net.RunCycle()
	}
	return net.Statistics()
}

// Fitness scores a finished run: -(mean efficiency * (1 + 0.2 * depth)),
// where depth is the mean generation relative to the generation limit.
// Efficiency dominates; lineage depth separates otherwise similar runs.
func Fitness(s telemetry.PopulationStats, maxGeneration int) float64 {
	depth := 0.0
	if maxGeneration > 0 {
		depth = clamp01(s.GenerationMean / float64(maxGeneration))
	}
	return -(s.EfficiencyMean * (1.0 + 0.2*depth))
}

func meanStats(runs []telemetry.PopulationStats) telemetry.PopulationStats {
	var out telemetry.PopulationStats
	if len(runs) == 0 {
		return out
	}
	n := float64(len(runs))
	for _, r := range runs {
		out.Cycle = r.Cycle
		out.Population += r.Population
		out.Replacements += r.Replacements
		if r.MaxGeneration > out.MaxGeneration {
			out.MaxGeneration = r.MaxGeneration
		}
		out.EfficiencyMean += r.EfficiencyMean / n
		out.EfficiencyStd += r.EfficiencyStd / n
		out.EfficiencyP50 += r.EfficiencyP50 / n
		out.EfficiencyMax = math.Max(out.EfficiencyMax, r.EfficiencyMax)
		out.GenerationMean += r.GenerationMean / n
	}
	out.Population /= len(runs)
	out.Replacements /= len(runs)
	return out
}

// clamp01 clamps x to [0, 1].
func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
