package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/pthm-cable/agievo/config"
	"github.com/pthm-cable/agievo/eventlog"
	"github.com/pthm-cable/agievo/rng"
	"github.com/pthm-cable/agievo/sim"
	"github.com/pthm-cable/agievo/telemetry"
)

var (
	maxTicks int
	speed    float64
	realtime bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the graph simulation headless",
	Long: "Run the graph simulation without graphics. By default ticks run back to back on a " +
		"simulated clock; --realtime uses the wall-clock scheduler instead.",
	RunE: runHeadless,
}

func init() {
	runCmd.Flags().IntVar(&maxTicks, "max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	runCmd.Flags().Float64Var(&speed, "speed", 1, "Speed multiplier")
	runCmd.Flags().BoolVar(&realtime, "realtime", false, "Tick on the wall clock instead of a simulated one")
}

// simClock is a manually advanced clock for back-to-back headless runs.
type simClock struct{ t time.Time }

func (c *simClock) Now() time.Time          { return c.t }
func (c *simClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func runHeadless(cmd *cobra.Command, args []string) error {
	cfg := config.Cfg()
	rngSeed := resolveSeed()

	om, err := openOutput(cfg)
	if err != nil {
		return err
	}
	defer om.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("starting headless simulation",
		"seed", rngSeed,
		"speed", speed,
		"max_ticks", maxTicks,
		"realtime", realtime,
	)

	if realtime {
		return runRealtime(ctx, cfg, rngSeed, om)
	}

	clock := &simClock{t: time.Now()}
	log := newEventLog(cfg, true, eventlog.WithClock(clock.Now))

	s := sim.New(cfg,
		sim.WithRand(rng.New(rngSeed)),
		sim.WithClock(clock.Now),
		sim.WithLog(log),
		sim.WithOutput(om),
		sim.WithStatsLogging(logStats),
	)
	if err := s.SetSpeed(speed); err != nil {
		return fmt.Errorf("set speed: %w", err)
	}

	frame := cfg.Derived.Frame
	for ticks := 0; maxTicks == 0 || ticks < maxTicks; ticks++ {
		if ctx.Err() != nil {
			slog.Info("interrupted", "tick", ticks)
			return nil
		}
		// Run the timeline at frame resolution between ticks so signal
		// arrivals and crash resolutions land in order.
		for elapsed := time.Duration(0); elapsed < s.TickInterval(); elapsed += frame {
			clock.Advance(frame)
			s.Advance()
		}
		s.Step()
	}

	slog.Info("max ticks reached", "tick", maxTicks)
	return nil
}

func runRealtime(ctx context.Context, cfg *config.Config, rngSeed int64, om *telemetry.OutputManager) error {
	s := sim.New(cfg,
		sim.WithRand(rng.New(rngSeed)),
		sim.WithLog(newEventLog(cfg, true)),
		sim.WithOutput(om),
		sim.WithStatsLogging(logStats),
	)
	sc := sim.NewScheduler(s)
	if err := sc.SetSpeed(speed); err != nil {
		return err
	}
	sc.Start()
	defer sc.Pause()

	poll := time.NewTicker(cfg.Derived.Frame)
	defer poll.Stop()
	for {
		select {
		case <-ctx.Done():
			slog.Info("interrupted", "tick", s.Snapshot().Tick)
			return nil
		case <-poll.C:
			if maxTicks > 0 && s.Snapshot().Tick >= maxTicks {
				slog.Info("max ticks reached", "tick", maxTicks)
				return nil
			}
		}
	}
}
