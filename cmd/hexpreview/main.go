// Hex layout preview tool - grows a population headless and shows its
// lattice layout, with sliders for the layout and growth parameters.
//
// Usage: go run ./cmd/hexpreview -config config.yaml
package main

import (
	"flag"
	"fmt"
	"log"
	"math"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/agievo/config"
	"github.com/pthm-cable/agievo/population"
	"github.com/pthm-cable/agievo/rng"
)

const (
	windowWidth  = 1100
	windowHeight = 720
	previewSize  = 680
	panelWidth   = windowWidth - previewSize - 30
)

// previewParams holds the values the sliders edit.
type previewParams struct {
	HexHeight   float32
	MaxLevel    int
	RingFactor  float32
	InitialSubs int
	Cycles      int
	Seed        int64
}

func main() {
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	flag.Parse()

	base, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	rl.InitWindow(windowWidth, windowHeight, "Hex Layout Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	params := previewParams{
		HexHeight:   float32(base.Layout.HexHeight),
		MaxLevel:    base.Layout.HexMaxLevel,
		RingFactor:  float32(base.Layout.OrphanRingFactor),
		InitialSubs: base.Population.InitialSubs,
		Cycles:      50,
		Seed:        12345,
	}

	var members []population.View
	var maxGen int
	needsRegen := true

	for !rl.WindowShouldClose() {
		if needsRegen {
			members, maxGen = grow(base, params)
			needsRegen = false
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		drawPreview(members, maxGen)
		rl.DrawText(fmt.Sprintf("Members: %d  Max generation: %d", len(members), maxGen),
			15, previewSize+25, 16, rl.DarkGray)

		// Control panel
		panelX := float32(previewSize + 20)
		panelY := float32(10)
		rl.DrawText("Layout Parameters", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		if v := slider(&panelY, panelX, "Hex height", fmt.Sprintf("%.0f", params.HexHeight), params.HexHeight, 10, 60); v != params.HexHeight {
			params.HexHeight = v
			needsRegen = true
		}
		if v := int(slider(&panelY, panelX, "Max level", fmt.Sprintf("%d", params.MaxLevel), float32(params.MaxLevel), 1, 20)); v != params.MaxLevel {
			params.MaxLevel = v
			needsRegen = true
		}
		if v := slider(&panelY, panelX, "Orphan ring (hex heights)", fmt.Sprintf("%.1f", params.RingFactor), params.RingFactor, 1, 20); v != params.RingFactor {
			params.RingFactor = v
			needsRegen = true
		}

		rl.DrawLine(int32(panelX), int32(panelY), int32(panelX)+int32(panelWidth)-20, int32(panelY), rl.LightGray)
		panelY += 15
		rl.DrawText("Growth", int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 25

		if v := int(slider(&panelY, panelX, "Initial sub-algorithms", fmt.Sprintf("%d", params.InitialSubs), float32(params.InitialSubs), 0, 100)); v != params.InitialSubs {
			params.InitialSubs = v
			needsRegen = true
		}
		if v := int(slider(&panelY, panelX, "Cycles", fmt.Sprintf("%d", params.Cycles), float32(params.Cycles), 0, 500)); v != params.Cycles {
			params.Cycles = v
			needsRegen = true
		}

		panelY += 10
		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Random Seed") {
			params.Seed = int64(rl.GetRandomValue(0, 99999))
			needsRegen = true
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Reset All") {
			params = previewParams{
				HexHeight:   float32(base.Layout.HexHeight),
				MaxLevel:    base.Layout.HexMaxLevel,
				RingFactor:  float32(base.Layout.OrphanRingFactor),
				InitialSubs: base.Population.InitialSubs,
				Cycles:      50,
				Seed:        params.Seed,
			}
			needsRegen = true
		}
		rl.DrawText(fmt.Sprintf("Seed: %d", params.Seed), int32(panelX), int32(panelY+40), 16, rl.DarkGray)

		rl.DrawText("Press C to copy YAML to clipboard", int32(panelX), int32(windowHeight-30), 12, rl.LightGray)
		if rl.IsKeyPressed(rl.KeyC) {
			if out, err := layoutYAML(base, params); err == nil {
				rl.SetClipboardText(out)
			}
		}

		rl.EndDrawing()
	}
}

// slider draws a labelled slider bar and advances y past it.
func slider(y *float32, x float32, label, value string, current, min, max float32) float32 {
	rl.DrawText(label, int32(x), int32(*y), 14, rl.Gray)
	*y += 18
	v := gui.SliderBar(
		rl.Rectangle{X: x, Y: *y, Width: float32(panelWidth - 80), Height: 20},
		fmt.Sprintf("%g", min), fmt.Sprintf("%g", max),
		current, min, max,
	)
	rl.DrawText(value, int32(x+float32(panelWidth-70)), int32(*y+2), 16, rl.DarkGray)
	*y += 35
	return v
}

// previewConfig returns a copy of base with the slider values applied.
func previewConfig(base *config.Config, p previewParams) *config.Config {
	cfg := *base
	cfg.Layout.HexHeight = float64(p.HexHeight)
	cfg.Layout.HexMaxLevel = p.MaxLevel
	cfg.Layout.OrphanRingFactor = float64(p.RingFactor)
	cfg.Population.InitialSubs = p.InitialSubs
	cfg.ComputeDerived()
	return &cfg
}

// grow runs a fresh population for p.Cycles cycles and lays it out.
func grow(base *config.Config, p previewParams) ([]population.View, int) {
	net := population.New(previewConfig(base, p), rng.New(p.Seed))
	net.Initialize()
	net.GenerateBatch(p.InitialSubs)
	for i := 0; i < p.Cycles; i++ {
		net.RunCycle()
	}
	net.Layout()
	return net.Members(), net.Statistics().MaxGeneration
}

// drawPreview fits the lattice into the preview square, coloured by generation.
func drawPreview(members []population.View, maxGen int) {
	rl.DrawRectangle(10, 10, previewSize, previewSize, rl.Color{R: 24, G: 26, B: 32, A: 255})
	rl.DrawRectangleLines(10, 10, previewSize, previewSize, rl.DarkGray)
	if len(members) == 0 {
		return
	}

	var extent float64
	for _, m := range members {
		extent = math.Max(extent, math.Max(math.Abs(m.X), math.Abs(m.Y))+m.Size)
	}
	scale := float32(1)
	if extent > 0 {
		scale = float32(previewSize/2-10) / float32(extent)
	}
	cx, cy := float32(10+previewSize/2), float32(10+previewSize/2)

	for _, m := range members {
		c := rl.Vector2{X: cx + float32(m.X)*scale, Y: cy + float32(m.Y)*scale}
		r := float32(m.Size) * scale
		hue := float32(0)
		if maxGen > 0 {
			hue = 220 * float32(m.Generation) / float32(maxGen)
		}
		col := rl.ColorFromHSV(hue, 0.6, 0.9)
		if m.Main {
			col = rl.Gold
		}
		rl.DrawPoly(c, 6, r, 30, col)
		rl.DrawPolyLines(c, 6, r, 30, rl.Black)
	}
}

// layoutYAML renders the edited sections as a config fragment.
func layoutYAML(base *config.Config, p previewParams) (string, error) {
	cfg := previewConfig(base, p)
	out, err := yaml.Marshal(struct {
		Layout     config.LayoutConfig     `yaml:"layout"`
		Population config.PopulationConfig `yaml:"population"`
	}{cfg.Layout, cfg.Population})
	return string(out), err
}
