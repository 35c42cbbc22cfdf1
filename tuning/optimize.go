package tuning

import (
	"math"

	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/agievo/telemetry"
)

// Options controls a CMA-ES search.
type Options struct {
	MaxEvals   int
	Population int     // CMA-ES population size (0 = auto)
	StepSize   float64 // Initial step in normalized space (0 = 0.3)

	// OnEval is called after every evaluation, sequentially.
	OnEval func(Eval)
}

// Eval describes one finished evaluation.
type Eval struct {
	N       int
	Fitness float64
	Params  []float64 // clamped values actually used
	Stats   telemetry.PopulationStats
}

// Result is the outcome of a search.
type Result struct {
	Evals       int
	BestFitness float64
	BestParams  []float64
	BestStats   telemetry.PopulationStats
}

// Run minimizes the evaluator's fitness starting from the default
// parameters. The best evaluation seen is returned even when the optimizer
// stops with an error.
func Run(ev *Evaluator, opts Options) (Result, error) {
	params := ev.params
	dim := params.Dim()

	popSize := opts.Population
	if popSize == 0 {
		// Auto-size: 4 + floor(3*ln(n))
		popSize = 4 + int(3.0*math.Log(float64(dim)))
	}
	step := opts.StepSize
	if step == 0 {
		step = 0.3
	}

	res := Result{BestFitness: math.Inf(1)}
	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			clamped := params.Clamp(params.Denormalize(x))
			fitness := ev.Evaluate(clamped)

			res.Evals++
			if fitness < res.BestFitness {
				res.BestFitness = fitness
				res.BestParams = clamped
			}
			if opts.OnEval != nil {
				opts.OnEval(Eval{N: res.Evals, Fitness: fitness, Params: clamped, Stats: ev.LastStats()})
			}
			return fitness
		},
	}

	settings := &optimize.Settings{
		FuncEvaluations: opts.MaxEvals,
		Concurrent:      0, // Sequential evaluation
	}
	method := &optimize.CmaEsChol{
		InitStepSize: step,
		Population:   popSize,
	}

	initX := params.Normalize(params.DefaultVector())
	result, err := optimize.Minimize(problem, initX, settings, method)
	if res.BestParams == nil && result != nil {
		res.BestParams = params.Clamp(params.Denormalize(result.X))
	}
	res.BestStats = ev.BestStats()
	return res, err
}
