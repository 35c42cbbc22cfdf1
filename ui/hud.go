package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/agievo/eventlog"
	"github.com/pthm-cable/agievo/sim"
	"github.com/pthm-cable/agievo/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title         string
	State         sim.State
	Connect       sim.ConnectState
	ConnectSource string
	Intelligence  float64
	Generation    int
	Algorithms    int
	Checkpoints   int
	Tick          int
	Speed         float64
	FPS           int32
}

// HUDDataFrom fills the HUD fields from a snapshot.
func HUDDataFrom(snap *sim.Snapshot, state sim.State) HUDData {
	return HUDData{
		Title:         "AI Evolution",
		State:         state,
		Connect:       snap.Connect,
		ConnectSource: snap.ConnectSource,
		Intelligence:  snap.IntelligenceLevel,
		Generation:    snap.Generation,
		Algorithms:    snap.Algorithms,
		Checkpoints:   snap.Checkpoints,
		Tick:          snap.Tick,
		Speed:         snap.Speed,
		FPS:           rl.GetFPS(),
	}
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
	x        int32
}

// NewHUD creates a HUD whose text starts at column x.
func NewHUD(x int32) *HUD {
	return &HUD{renderer: NewRenderer(), x: x}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	rl.DrawText(data.Title, h.x, 10, 20, rl.White)

	rl.DrawText(
		fmt.Sprintf("Intelligence: %.2f | Generation: %d | Algorithms: %d | Checkpoints: %d",
			data.Intelligence, data.Generation, data.Algorithms, data.Checkpoints),
		h.x, 35, 16, rl.LightGray,
	)
	rl.DrawText(
		fmt.Sprintf("Tick: %d | Speed: %.2fx | FPS: %d", data.Tick, data.Speed, data.FPS),
		h.x, 55, 16, rl.LightGray,
	)

	status := "Running"
	switch data.State {
	case sim.Paused:
		status = "PAUSED"
	case sim.Stopped:
		status = "STOPPED"
	}
	rl.DrawText(status, h.x, 75, 16, rl.Yellow)

	switch data.Connect {
	case sim.ConnectAwaitingSource:
		rl.DrawText("Connect: click a source node", h.x+120, 75, 16, h.renderer.Theme.ConnectSource)
	case sim.ConnectAwaitingTarget:
		rl.DrawText(fmt.Sprintf("Connect: %s -> click a target", data.ConnectSource), h.x+120, 75, 16, h.renderer.Theme.ConnectSource)
	}
}

// DrawControls renders the key legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, h.x, screenHeight-25, 14, rl.Gray)
}

// LogPanel renders the newest event log entries.
type LogPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	lines    int
}

// NewLogPanel creates a log panel showing up to lines entries.
func NewLogPanel(x, y, width int32, lines int) *LogPanel {
	return &LogPanel{renderer: NewRenderer(), x: x, y: y, width: width, lines: lines}
}

// SetPosition updates the panel position.
func (l *LogPanel) SetPosition(x, y int32) {
	l.x = x
	l.y = y
}

func severityColor(s eventlog.Severity) rl.Color {
	switch s {
	case eventlog.Success:
		return rl.Green
	case eventlog.Warning:
		return rl.Orange
	case eventlog.Error:
		return rl.Red
	default:
		return rl.LightGray
	}
}

// Draw renders entries newest first.
func (l *LogPanel) Draw(entries []eventlog.Entry) {
	r := l.renderer
	padding := r.Theme.Padding
	height := int32(l.lines)*14 + padding*2 + r.Theme.LineHeight
	r.DrawPanel(l.x, l.y, l.width, height)

	y := l.y + padding
	rl.DrawText("Event Log", l.x+padding, y, 14, rl.White)
	y += r.Theme.LineHeight

	for i, e := range entries {
		if i >= l.lines {
			break
		}
		text := fmt.Sprintf("%s  %s", e.Time.Format("15:04:05"), e.Message)
		rl.DrawText(text, l.x+padding, y, 12, severityColor(e.Severity))
		y += 14
	}
}

// PerfPanel renders tick phase timings.
type PerfPanel struct {
	x, y int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{x: x, y: y}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	x, y := p.x, p.y

	rl.DrawText("Tick Performance", x, y, 16, rl.White)
	y += 20

	rl.DrawText(fmt.Sprintf("Avg: %s | p95: %s | Max: %s | %.1f ticks/s",
		stats.AvgTickDuration.Round(time.Microsecond),
		stats.P95TickDuration.Round(time.Microsecond),
		stats.MaxTickDuration.Round(time.Microsecond),
		stats.TicksPerSecond), x, y, 14, rl.Yellow)
	y += 16

	for _, phase := range telemetry.Phases {
		pct := stats.PhasePct[phase]
		color := rl.LightGray
		if pct > 50 {
			color = rl.Red
		} else if pct > 25 {
			color = rl.Orange
		}
		rl.DrawText(
			fmt.Sprintf("%-12s %8s %5.1f%%", phase, stats.PhaseAvg[phase].Round(time.Microsecond), pct),
			x, y, 12, color,
		)
		y += 14
	}
}
