package cli

import (
	"encoding/csv"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/pthm-cable/agievo/config"
	"github.com/pthm-cable/agievo/tuning"
)

var (
	optCycles   int
	optSeeds    int
	optMaxEvals int
	optPop      int
)

var optimizeCmd = &cobra.Command{
	Use:   "optimize",
	Short: "Tune population parameters with CMA-ES",
	Long: "Search parent selection, lineage limits and spawn/replace cadence for the " +
		"population variant. Every candidate runs headless on several seeds and is " +
		"scored by final mean efficiency with a bonus for lineage depth.",
	RunE: runOptimize,
}

func init() {
	f := optimizeCmd.Flags()
	f.IntVar(&optCycles, "cycles", 200, "Population cycles per evaluation")
	f.IntVar(&optSeeds, "seeds", 3, "Number of seeds per evaluation")
	f.IntVar(&optMaxEvals, "max-evals", 200, "Maximum number of evaluations")
	f.IntVar(&optPop, "population", 0, "CMA-ES population size (0 = auto)")
}

// formatDuration formats a duration as HH:MM:SS or MM:SS for shorter durations.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}

func runOptimize(cmd *cobra.Command, args []string) error {
	if outputDir == "" {
		return errors.New("--output-dir is required")
	}
	if optSeeds < 1 || optCycles < 1 || optMaxEvals < 1 {
		return errors.New("--seeds, --cycles and --max-evals must be >= 1")
	}

	baseCfg := config.Cfg()
	om, err := openOutput(baseCfg)
	if err != nil {
		return err
	}
	defer om.Close()

	first := resolveSeed()
	evalSeeds := make([]int64, optSeeds)
	for i := range evalSeeds {
		evalSeeds[i] = first + int64(i*1000)
	}

	params := tuning.NewParamVector()
	evaluator := tuning.NewEvaluator(params, optCycles, -1, evalSeeds, baseCfg)

	logFile, err := os.Create(filepath.Join(om.Dir(), "optimize_log.csv"))
	if err != nil {
		return fmt.Errorf("create optimize log: %w", err)
	}
	defer logFile.Close()
	logWriter := csv.NewWriter(logFile)
	defer logWriter.Flush()

	header := []string{"eval", "fitness", "efficiency_mean", "generation_mean"}
	for _, spec := range params.Specs {
		header = append(header, spec.Name)
	}
	if err := logWriter.Write(header); err != nil {
		return fmt.Errorf("write optimize log: %w", err)
	}

	out := cmd.OutOrStdout()
	startTime := time.Now()
	fmt.Fprintf(out, "Starting CMA-ES optimization with %d parameters, max_evals=%d\n", params.Dim(), optMaxEvals)
	fmt.Fprintf(out, "Seeds per evaluation: %d, cycles per run: %d\n", optSeeds, optCycles)

	result, err := tuning.Run(evaluator, tuning.Options{
		MaxEvals:   optMaxEvals,
		Population: optPop,
		OnEval: func(e tuning.Eval) {
			row := []string{
				strconv.Itoa(e.N),
				strconv.FormatFloat(e.Fitness, 'f', 6, 64),
				strconv.FormatFloat(e.Stats.EfficiencyMean, 'f', 6, 64),
				strconv.FormatFloat(e.Stats.GenerationMean, 'f', 6, 64),
			}
			for _, v := range e.Params {
				row = append(row, strconv.FormatFloat(v, 'f', 6, 64))
			}
			if err := logWriter.Write(row); err != nil {
				slog.Error("failed to write optimize log", "error", err)
			}
			logWriter.Flush()

			elapsed := time.Since(startTime)
			remaining := time.Duration(optMaxEvals-e.N) * (elapsed / time.Duration(e.N))
			fmt.Fprintf(out, "Eval %d/%d: efficiency=%.2f generation=%.2f fitness=%.3f | elapsed: %s, ETA: %s\n",
				e.N, optMaxEvals, e.Stats.EfficiencyMean, e.Stats.GenerationMean, e.Fitness,
				formatDuration(elapsed), formatDuration(max(remaining, 0)))
		},
	})
	if err != nil {
		slog.Warn("optimization ended", "error", err)
	}
	if result.BestParams == nil {
		return errors.New("optimization produced no evaluations")
	}

	fmt.Fprintf(out, "\nOptimization complete after %d evaluations in %s\n", result.Evals, formatDuration(time.Since(startTime)))
	fmt.Fprintf(out, "Best fitness: %.3f (efficiency mean %.2f)\n", result.BestFitness, result.BestStats.EfficiencyMean)
	fmt.Fprintln(out, "\nBest parameters:")
	for i, spec := range params.Specs {
		fmt.Fprintf(out, "  %s: %.6f\n", spec.Path, result.BestParams[i])
	}

	best := evaluator.Config(result.BestParams)
	configOutPath := filepath.Join(om.Dir(), "best_config.yaml")
	if err := best.WriteYAML(configOutPath); err != nil {
		return err
	}
	fmt.Fprintf(out, "\nBest config saved to: %s\n", configOutPath)
	return nil
}
