package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/agievo/camera"
	"github.com/pthm-cable/agievo/inspector"
	"github.com/pthm-cable/agievo/population"
)

// batchSize is how many sub-algorithms the Generate button adds.
const batchSize = 10

// PopulationApp is the graphical viewer for the hexagonal population.
type PopulationApp struct {
	net      *population.Network
	camera   *camera.Camera
	renderer *Renderer
	logPanel *LogPanel

	selected string
	members  []population.View
	version  [3]int

	screenWidth, screenHeight float32
}

// NewPopulationApp builds the viewer. The raylib window must already be open.
func NewPopulationApp(net *population.Network) *PopulationApp {
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	cam := camera.New(w, h, -sidebarWidth/2, 0)
	return &PopulationApp{
		net:          net,
		camera:       cam,
		renderer:     NewRenderer(),
		logPanel:     NewLogPanel(int32(w)-420, int32(h)-200, 420, 10),
		version:      [3]int{-1, -1, -1},
		screenWidth:  w,
		screenHeight: h,
	}
}

// Run drives the window until it is closed.
func (p *PopulationApp) Run() {
	for !rl.WindowShouldClose() {
		p.Frame()
	}
}

// relayout recomputes hex positions when the population changed.
func (p *PopulationApp) relayout() {
	v := [3]int{p.net.Len(), p.net.Cycle(), p.net.Replacements()}
	if v == p.version {
		return
	}
	p.version = v
	p.net.Layout()
	p.members = p.net.Members()
}

// Frame handles input and draws one frame.
func (p *PopulationApp) Frame() {
	if rl.IsWindowResized() {
		p.screenWidth, p.screenHeight = float32(rl.GetScreenWidth()), float32(rl.GetScreenHeight())
		p.camera.Resize(p.screenWidth, p.screenHeight)
		p.logPanel.SetPosition(int32(p.screenWidth)-420, int32(p.screenHeight)-200)
	}
	p.relayout()
	p.handleInput()

	rl.BeginDrawing()
	rl.ClearBackground(p.renderer.Theme.Background)
	p.drawNetwork()
	p.drawStats()
	if p.selected != "" {
		p.drawInfo()
	}
	p.logPanel.Draw(p.net.Log().Entries())
	action := p.drawControls()
	rl.EndDrawing()

	switch action {
	case ActionStart:
		p.net.Start()
	case ActionPause:
		p.net.Pause()
	case ActionAddAlgorithm:
		p.net.GenerateBatch(batchSize)
	}
}

func (p *PopulationApp) handleInput() {
	mouse := rl.GetMousePosition()
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		p.camera.Step(wheel, mouse.X, mouse.Y)
	}
	if rl.IsMouseButtonDown(rl.MouseButtonRight) {
		d := rl.GetMouseDelta()
		p.camera.Pan(-d.X, -d.Y)
	}
	if rl.IsKeyPressed(rl.KeyHome) {
		p.camera.Reset()
	}
	if rl.IsKeyPressed(rl.KeySpace) {
		if !p.net.Start() {
			p.net.Pause()
		}
	}
	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) && mouse.X > sidebarWidth {
		wx, wy := p.camera.ScreenToWorld(mouse.X, mouse.Y)
		p.selected, _ = p.net.At(float64(wx), float64(wy))
	}
}

func (p *PopulationApp) drawNetwork() {
	t := p.renderer.Theme
	pos := make(map[string]rl.Vector2, len(p.members))
	for _, m := range p.members {
		sx, sy := p.camera.WorldToScreen(float32(m.X), float32(m.Y))
		pos[m.ID] = rl.Vector2{X: sx, Y: sy}
	}

	for _, m := range p.members {
		if parent, ok := pos[m.Parent]; ok {
			rl.DrawLineEx(parent, pos[m.ID], 1.5*p.camera.Zoom, rl.Color{R: 255, G: 255, B: 255, A: 50})
		}
	}

	for _, m := range p.members {
		c := pos[m.ID]
		r := float32(m.Size) * p.camera.Zoom
		color := t.Primary
		if !m.Main {
			color = t.Algorithm
			color.A = uint8(255 * m.Intensity)
		}
		rl.DrawPoly(c, 6, r, 30, color)
		rl.DrawPolyLines(c, 6, r, 30, t.PanelBorder)
		if m.ID == p.selected {
			rl.DrawPolyLinesEx(c, 6, r+4, 30, 2, t.Selected)
		}
		label := fmt.Sprintf("%.0f", m.Efficiency)
		w := rl.MeasureText(label, t.FontSize)
		rl.DrawText(label, int32(c.X)-w/2, int32(c.Y)-t.FontSize/2, t.FontSize, rl.White)
	}
}

func (p *PopulationApp) drawStats() {
	stats := p.net.Statistics()
	x := int32(sidebarWidth + 10)
	rl.DrawText("Population Network", x, 10, 20, rl.White)
	rl.DrawText(fmt.Sprintf("Population: %d | Cycle: %d | Replacements: %d | Max generation: %d",
		stats.Population, stats.Cycle, stats.Replacements, stats.MaxGeneration), x, 35, 16, rl.LightGray)
	rl.DrawText(fmt.Sprintf("Efficiency mean %.1f | median %.1f | max %.1f | std %.1f",
		stats.EfficiencyMean, stats.EfficiencyP50, stats.EfficiencyMax, stats.EfficiencyStd), x, 55, 16, rl.LightGray)
	rl.DrawText("Main: "+p.net.MainStatus(), x, 75, 16, rl.Yellow)
}

func (p *PopulationApp) drawInfo() {
	info, ok := p.net.Info(p.selected)
	if !ok {
		p.selected = ""
		return
	}
	r := p.renderer
	x, y := int32(p.screenWidth)-240, int32(100)
	r.DrawPanel(x, y, 240, 180)
	x += r.Theme.Padding
	y += r.Theme.Padding
	rl.DrawText(info.ID, x, y, 16, rl.White)
	y += r.Theme.LineHeight + 6
	for _, f := range inspector.ExtractFields(info) {
		if ratio, ok := f.Ratio(); ok && f.Widget == inspector.WidgetBar {
			y = r.DrawBar(x, y, f.Label, f.Text(), float32(ratio), false, 220)
			continue
		}
		y = r.DrawLabelValue(x, y, f.Label, f.Text())
	}
}

func (p *PopulationApp) drawControls() Action {
	r := p.renderer
	running := p.net.MainStatus() == "Active"
	buttons := []Button{
		{Label: "Start", Action: ActionStart, Enabled: !running},
		{Label: "Pause", Action: ActionPause, Enabled: running},
		{Label: fmt.Sprintf("Generate %d", batchSize), Action: ActionAddAlgorithm, Enabled: true},
	}
	r.DrawPanel(0, 0, sidebarWidth, int32(len(buttons))*28+r.Theme.Padding*2+r.Theme.LineHeight)
	y := float32(r.Theme.Padding)
	rl.DrawText("Controls", r.Theme.Padding, int32(y), 16, rl.White)
	y += float32(r.Theme.LineHeight + 4)

	action := ActionNone
	for _, b := range buttons {
		bounds := rl.Rectangle{X: float32(r.Theme.Padding), Y: y, Width: float32(sidebarWidth - 2*r.Theme.Padding), Height: 24}
		if r.DrawButton(bounds, b) {
			action = b.Action
		}
		y += 28
	}
	return action
}
