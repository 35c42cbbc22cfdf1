package telemetry

import (
	"log/slog"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a tick window.
type WindowStats struct {
	RunID           string  `csv:"run_id"`
	WindowStartTick int     `csv:"-"`
	WindowEndTick   int     `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Counts at window end
	Algorithms  int `csv:"algorithms"`
	Checkpoints int `csv:"checkpoints"`
	Edges       int `csv:"edges"`
	Generation  int `csv:"generation"`

	// Events during window
	AlgorithmBirths  int `csv:"algorithm_births"`
	CheckpointBirths int `csv:"checkpoint_births"`
	Removals         int `csv:"removals"`
	Connections      int `csv:"connections"`
	Transfers        int `csv:"transfers"`
	Crashes          int `csv:"crashes"`
	Recoveries       int `csv:"recoveries"`

	// Intelligence distribution (sampled at window end)
	IntelligenceLevel float64 `csv:"intelligence_level"` // primary-weighted
	IntelligenceMean  float64 `csv:"intelligence_mean"`
	IntelligenceStd   float64 `csv:"intelligence_std"`
	IntelligenceP10   float64 `csv:"intelligence_p10"`
	IntelligenceP50   float64 `csv:"intelligence_p50"`
	IntelligenceP90   float64 `csv:"intelligence_p90"`

	// Resource pressure, usage/limit of non-primary algorithms
	ResourceUseMean float64 `csv:"resource_use_mean"`
	ResourceUseP90  float64 `csv:"resource_use_p90"`

	TotalKnowledge float64 `csv:"total_knowledge"`
}

// PopulationStats is one statistics record of the hexagonal population.
type PopulationStats struct {
	RunID          string  `csv:"run_id"`
	Cycle          int     `csv:"cycle"`
	Population     int     `csv:"population"`
	Replacements   int     `csv:"replacements"`
	MaxGeneration  int     `csv:"max_generation"`
	EfficiencyMean float64 `csv:"efficiency_mean"`
	EfficiencyStd  float64 `csv:"efficiency_std"`
	EfficiencyP50  float64 `csv:"efficiency_p50"`
	EfficiencyMax  float64 `csv:"efficiency_max"`
	GenerationMean float64 `csv:"generation_mean"`
}

// Percentile returns the p-th empirical quantile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	p = math.Max(0, math.Min(1, p))
	return stat.Quantile(p, stat.Empirical, sorted, nil)
}

// ComputeDistribution calculates mean, standard deviation and percentiles.
// The standard deviation is the unbiased sample estimate; a single value has none.
func ComputeDistribution(values []float64) (mean, std, p10, p50, p90 float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0, 0
	}

	if n == 1 {
		mean = values[0]
	} else {
		mean, std = stat.MeanStdDev(values, nil)
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	p10 = Percentile(sorted, 0.10)
	p50 = Percentile(sorted, 0.50)
	p90 = Percentile(sorted, 0.90)

	return mean, std, p10, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", s.WindowStartTick),
		slog.Int("window_end", s.WindowEndTick),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("algorithms", s.Algorithms),
		slog.Int("checkpoints", s.Checkpoints),
		slog.Int("edges", s.Edges),
		slog.Int("generation", s.Generation),
		slog.Int("algorithm_births", s.AlgorithmBirths),
		slog.Int("checkpoint_births", s.CheckpointBirths),
		slog.Int("removals", s.Removals),
		slog.Int("connections", s.Connections),
		slog.Int("transfers", s.Transfers),
		slog.Int("crashes", s.Crashes),
		slog.Int("recoveries", s.Recoveries),
		slog.Float64("intelligence_level", s.IntelligenceLevel),
		slog.Float64("intelligence_mean", s.IntelligenceMean),
		slog.Float64("intelligence_std", s.IntelligenceStd),
		slog.Float64("intelligence_p10", s.IntelligenceP10),
		slog.Float64("intelligence_p50", s.IntelligenceP50),
		slog.Float64("intelligence_p90", s.IntelligenceP90),
		slog.Float64("resource_use_mean", s.ResourceUseMean),
		slog.Float64("resource_use_p90", s.ResourceUseP90),
		slog.Float64("total_knowledge", s.TotalKnowledge),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats", "window", s)
}

// LogStats logs the population record using slog.
func (s PopulationStats) LogStats() {
	slog.Info("population",
		"cycle", s.Cycle,
		"population", s.Population,
		"replacements", s.Replacements,
		"max_generation", s.MaxGeneration,
		"efficiency_mean", s.EfficiencyMean,
		"efficiency_std", s.EfficiencyStd,
		"efficiency_p50", s.EfficiencyP50,
		"efficiency_max", s.EfficiencyMax,
		"generation_mean", s.GenerationMean,
	)
}
