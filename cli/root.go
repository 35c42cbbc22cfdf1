// Package cli wires the simulation engines to the command line.
package cli

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pthm-cable/agievo/config"
	"github.com/pthm-cable/agievo/eventlog"
	"github.com/pthm-cable/agievo/telemetry"
)

// Flags shared by every simulation command.
var (
	configPath string
	seed       int64
	outputDir  string
	logStats   bool
	quiet      bool
)

var rootCmd = &cobra.Command{
	Use:   "agievo",
	Short: "Self-improving AI evolution simulation",
	Long: "agievo grows a population of learning algorithms around a primary algorithm. " +
		"Run it headless for telemetry, or open the viewer to interact with the graph.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" {
			return nil
		}
		if err := config.Init(configPath); err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		return nil
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "Path to config.yaml (empty = use defaults)")
	pf.Int64Var(&seed, "seed", 0, "RNG seed (0 = time-based)")
	pf.StringVar(&outputDir, "output-dir", "", "Output directory for CSV logs and config snapshot")
	pf.BoolVar(&logStats, "log-stats", false, "Output window stats via slog")
	pf.BoolVar(&quiet, "quiet", false, "Do not echo event log entries to stderr")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(populationCmd)
	rootCmd.AddCommand(viewCmd)
	rootCmd.AddCommand(optimizeCmd)
}

// resolveSeed returns the seed flag, or a time-based seed when unset.
func resolveSeed() int64 {
	if seed != 0 {
		return seed
	}
	return time.Now().UnixNano()
}

// openOutput creates the run directory and writes the config snapshot.
// Returns nil when output is disabled.
func openOutput(cfg *config.Config) (*telemetry.OutputManager, error) {
	om, err := telemetry.NewOutputManager(outputDir)
	if err != nil {
		return nil, err
	}
	if err := om.WriteConfig(cfg); err != nil {
		om.Close()
		return nil, err
	}
	if om != nil {
		slog.Info("writing run output", "dir", om.Dir(), "run_id", om.RunID())
	}
	return om, nil
}

// newEventLog builds the event log for a run. Headless runs echo entries to
// stderr in colour.
func newEventLog(cfg *config.Config, console bool, opts ...eventlog.Option) *eventlog.Log {
	if console && !quiet {
		opts = append(opts, eventlog.WithSink(eventlog.NewConsoleSink(os.Stderr)))
	}
	return eventlog.New(cfg.Log.Capacity, opts...)
}
