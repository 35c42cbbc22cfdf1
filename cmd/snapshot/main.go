// Snapshot tool - runs the graph simulation headless and renders the final
// state to a PNG file for inspection.
//
// Usage: go run ./cmd/snapshot -ticks 500 -seed 7 -out graph.png
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/agievo/camera"
	"github.com/pthm-cable/agievo/config"
	"github.com/pthm-cable/agievo/eventlog"
	"github.com/pthm-cable/agievo/rng"
	"github.com/pthm-cable/agievo/sim"
	"github.com/pthm-cable/agievo/ui"
)

func main() {
	configPath := flag.String("config", "", "Config YAML file (empty = use defaults)")
	outPath := flag.String("out", "snapshot.png", "Output PNG path")
	ticks := flag.Int("ticks", 300, "Ticks to simulate before rendering")
	seed := flag.Int64("seed", 42, "RNG seed")
	grid := flag.Bool("grid", false, "Draw the background grid")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	now := time.Now()
	clock := func() time.Time { return now }
	s := sim.New(cfg,
		sim.WithRand(rng.New(*seed)),
		sim.WithClock(clock),
		sim.WithLog(eventlog.New(cfg.Log.Capacity, eventlog.WithClock(clock))),
	)
	for i := 0; i < *ticks; i++ {
		for elapsed := time.Duration(0); elapsed < s.TickInterval(); elapsed += cfg.Derived.Frame {
			now = now.Add(cfg.Derived.Frame)
			s.Advance()
		}
		s.Step()
	}
	snap := s.Snapshot()

	width, height := int32(cfg.World.Width), int32(cfg.World.Height)

	// Initialize raylib with hidden window
	rl.SetConfigFlags(rl.FlagWindowHidden)
	rl.InitWindow(width, height, "Snapshot")
	defer rl.CloseWindow()

	cam := camera.New(float32(width), float32(height), float32(width)/2, float32(height)/2)
	overlays := ui.NewOverlayRegistry()
	if *grid != overlays.IsEnabled(ui.OverlayGrid) {
		overlays.Toggle(ui.OverlayGrid)
	}
	canvas := ui.NewCanvas(cam, overlays)

	target := rl.LoadRenderTexture(width, height)
	defer rl.UnloadRenderTexture(target)

	rl.BeginTextureMode(target)
	rl.ClearBackground(ui.DefaultTheme().Background)
	canvas.Draw(&snap, rl.Rectangle{Width: float32(width), Height: float32(height)})
	rl.EndTextureMode()

	// Get image from texture and flip it (OpenGL convention)
	img := rl.LoadImageFromTexture(target.Texture)
	rl.ImageFlipVertical(img)

	success := rl.ExportImage(*img, *outPath)
	rl.UnloadImage(img)

	if success {
		fmt.Printf("Tick %d rendered to: %s (%dx%d, %d algorithms, %d checkpoints)\n",
			snap.Tick, *outPath, width, height, snap.Algorithms, snap.Checkpoints)
	} else {
		fmt.Fprintf(os.Stderr, "Failed to export image\n")
		os.Exit(1)
	}
}
