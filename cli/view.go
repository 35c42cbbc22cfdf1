package cli

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/spf13/cobra"

	"github.com/pthm-cable/agievo/config"
	"github.com/pthm-cable/agievo/rng"
	"github.com/pthm-cable/agievo/sim"
	"github.com/pthm-cable/agievo/ui"
)

var autostart bool

var viewCmd = &cobra.Command{
	Use:   "view",
	Short: "Open the interactive graph viewer",
	RunE:  runView,
}

func init() {
	viewCmd.Flags().BoolVar(&autostart, "start", false, "Start evolving as soon as the window opens")
	viewCmd.Flags().Float64Var(&speed, "speed", 1, "Speed multiplier")
}

func runView(cmd *cobra.Command, args []string) error {
	cfg := config.Cfg()

	om, err := openOutput(cfg)
	if err != nil {
		return err
	}
	defer om.Close()

	s := sim.New(cfg,
		sim.WithRand(rng.New(resolveSeed())),
		sim.WithLog(newEventLog(cfg, false)),
		sim.WithOutput(om),
		sim.WithStatsLogging(logStats),
	)
	sc := sim.NewScheduler(s)
	if err := sc.SetSpeed(speed); err != nil {
		return fmt.Errorf("set speed: %w", err)
	}

	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "AI Evolution")
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	if autostart {
		sc.Start()
	}
	ui.NewApp(cfg, s, sc).Run()
	sc.Pause()
	return nil
}
