package tuning

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/agievo/config"
	"github.com/pthm-cable/agievo/telemetry"
)

func TestParamVectorRoundTrip(t *testing.T) {
	pv := NewParamVector()
	def := pv.DefaultVector()
	require.Len(t, def, pv.Dim())

	back := pv.Denormalize(pv.Normalize(def))
	for i := range def {
		assert.InDelta(t, def[i], back[i], 1e-9, pv.Specs[i].Name)
	}
}

func TestDefaultsMatchConfig(t *testing.T) {
	pv := NewParamVector()
	assert.Equal(t, pv.DefaultVector(), pv.ExtractFromConfig(config.Default()))
}

func TestClampBoundsAndRounds(t *testing.T) {
	pv := NewParamVector()
	v := pv.DefaultVector()
	v[0] = -1  // main_bias_chance below min
	v[2] = 7.6 // top_candidates rounds
	v[6] = 99  // replace_every above max

	c := pv.Clamp(v)
	assert.Equal(t, 0.0, c[0])
	assert.Equal(t, 8.0, c[2])
	assert.Equal(t, 40.0, c[6])
}

func TestApplyToConfig(t *testing.T) {
	pv := NewParamVector()
	cfg := config.Default()
	pv.ApplyToConfig(cfg, []float64{0.5, 0.05, 3.4, 2, 4, 3, 12})

	p := cfg.Population
	assert.Equal(t, 0.5, p.MainBiasChance)
	assert.Equal(t, 0.05, p.GenerationPenalty)
	assert.Equal(t, 3, p.TopCandidates)
	assert.Equal(t, 2, p.MaxChildren)
	assert.Equal(t, 4, p.MaxGeneration)
	assert.Equal(t, 3, p.SpawnEvery)
	assert.Equal(t, 12, p.ReplaceEvery)
}

func TestEvaluatorConfigLeavesBaseUntouched(t *testing.T) {
	base := config.Default()
	ev := NewEvaluator(NewParamVector(), 10, 2, []int64{1}, base)

	cfg := ev.Config([]float64{0.1, 0, 1, 1, 1, 1, 2})
	assert.Equal(t, 1, cfg.Population.MaxChildren)
	assert.Equal(t, 5, base.Population.MaxChildren)
}

func TestFitness(t *testing.T) {
	s := telemetry.PopulationStats{EfficiencyMean: 60, GenerationMean: 2.5}
	assert.InDelta(t, -66.0, Fitness(s, 5), 1e-9)
	assert.InDelta(t, -60.0, Fitness(s, 0), 1e-9)

	// Depth saturates at the generation limit.
	s.GenerationMean = 10
	assert.InDelta(t, -72.0, Fitness(s, 5), 1e-9)
}

func TestEvaluateIsDeterministic(t *testing.T) {
	pv := NewParamVector()
	ev := NewEvaluator(pv, 30, 3, []int64{1, 2}, config.Default())

	a := ev.Evaluate(pv.DefaultVector())
	b := ev.Evaluate(pv.DefaultVector())
	assert.Equal(t, a, b)
	assert.Less(t, a, 0.0)

	stats := ev.LastStats()
	assert.Equal(t, 30, stats.Cycle)
	assert.Greater(t, stats.Population, 1)
	assert.Equal(t, stats, ev.BestStats())
}

func TestRun(t *testing.T) {
	pv := NewParamVector()
	ev := NewEvaluator(pv, 20, 3, []int64{7}, config.Default())

	var seen int
	res, _ := Run(ev, Options{
		MaxEvals:   8,
		Population: 4,
		OnEval: func(e Eval) {
			seen++
			assert.Equal(t, seen, e.N)
			assert.Len(t, e.Params, pv.Dim())
		},
	})

	require.GreaterOrEqual(t, res.Evals, 1)
	assert.Equal(t, seen, res.Evals)
	require.Len(t, res.BestParams, pv.Dim())
	for i, spec := range pv.Specs {
		assert.GreaterOrEqual(t, res.BestParams[i], spec.Min, spec.Name)
		assert.LessOrEqual(t, res.BestParams[i], spec.Max, spec.Name)
	}
	assert.Less(t, res.BestFitness, 0.0)
}
