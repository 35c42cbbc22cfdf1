package cli

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/spf13/cobra"

	"github.com/pthm-cable/agievo/config"
	"github.com/pthm-cable/agievo/population"
	"github.com/pthm-cable/agievo/rng"
	"github.com/pthm-cable/agievo/ui"
)

var (
	maxCycles   int
	initialSubs int
	viewNetwork bool
)

var populationCmd = &cobra.Command{
	Use:   "population",
	Short: "Run the hexagonal population variant",
	Long: "Grow a capped population of sub-algorithms under a main algorithm. Headless runs " +
		"cycle back to back; --view opens the hex viewer driven by the population tick.",
	RunE: runPopulation,
}

func init() {
	f := populationCmd.Flags()
	f.IntVar(&maxCycles, "max-cycles", 100, "Stop after N cycles in headless mode (0 = unlimited)")
	f.IntVar(&initialSubs, "initial", -1, "Sub-algorithms generated at start (-1 = use config)")
	f.BoolVar(&viewNetwork, "view", false, "Open the hex viewer instead of running headless")
}

func runPopulation(cmd *cobra.Command, args []string) error {
	cfg := config.Cfg()
	rngSeed := resolveSeed()

	om, err := openOutput(cfg)
	if err != nil {
		return err
	}
	defer om.Close()

	net := population.New(cfg, rng.New(rngSeed),
		population.WithLog(newEventLog(cfg, !viewNetwork)),
		population.WithOutput(om),
		population.WithStatsLogging(logStats),
	)
	net.Initialize()

	subs := cfg.Population.InitialSubs
	if initialSubs >= 0 {
		subs = initialSubs
	}
	net.GenerateBatch(subs)

	if viewNetwork {
		rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "AI Evolution: Population")
		defer rl.CloseWindow()
		rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

		ui.NewPopulationApp(net).Run()
		net.Pause()
		return nil
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("starting population run", "seed", rngSeed, "initial", subs, "max_cycles", maxCycles)
	for maxCycles == 0 || net.Cycle() < maxCycles {
		if ctx.Err() != nil {
			break
		}
		net.RunCycle()
	}

	stats := net.Statistics()
	stats.LogStats()
	if err := om.WritePopulation(stats); err != nil {
		return err
	}
	slog.Info("population run finished", "cycles", net.Cycle(), "generations", net.GenerationDistribution())
	return nil
}
