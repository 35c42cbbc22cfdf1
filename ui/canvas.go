package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/agievo/camera"
	"github.com/pthm-cable/agievo/components"
	"github.com/pthm-cable/agievo/sim"
)

// Canvas draws the graph through a camera.
type Canvas struct {
	renderer *Renderer
	cam      *camera.Camera
	overlays *OverlayRegistry
}

// NewCanvas creates a canvas bound to cam.
func NewCanvas(cam *camera.Camera, overlays *OverlayRegistry) *Canvas {
	return &Canvas{renderer: NewRenderer(), cam: cam, overlays: overlays}
}

func (c *Canvas) screen(x, y float64) rl.Vector2 {
	sx, sy := c.cam.WorldToScreen(float32(x), float32(y))
	return rl.Vector2{X: sx, Y: sy}
}

// Draw renders edges, signals and nodes of snap.
func (c *Canvas) Draw(snap *sim.Snapshot, bounds rl.Rectangle) {
	if c.overlays.IsEnabled(OverlayGrid) {
		c.drawGrid(bounds, 50)
	}
	rl.DrawRectangleLinesEx(rl.Rectangle{
		X:      c.screen(0, 0).X,
		Y:      c.screen(0, 0).Y,
		Width:  bounds.Width * c.cam.Zoom,
		Height: bounds.Height * c.cam.Zoom,
	}, 1, c.renderer.Theme.PanelBorder)

	pos := make(map[string]rl.Vector2, len(snap.Entities))
	for _, e := range snap.Entities {
		pos[e.ID] = c.screen(e.X, e.Y)
	}

	if c.overlays.IsEnabled(OverlayLineage) {
		for _, e := range snap.Entities {
			if p, ok := pos[e.Parent]; ok {
				rl.DrawLineEx(p, pos[e.ID], 1, rl.Color{R: 255, G: 255, B: 255, A: 40})
			}
		}
	}

	for _, e := range snap.Edges {
		a, okA := pos[e.Source]
		b, okB := pos[e.Target]
		if !okA || !okB {
			continue
		}
		thick := float32(1.5)
		if c.overlays.IsEnabled(OverlayEdgeStrength) {
			thick = float32(1 + e.Strength*3)
		}
		rl.DrawLineEx(a, b, thick*c.cam.Zoom, EdgeColor(e.Type))
	}

	edges := make(map[string]components.Edge, len(snap.Edges))
	for _, e := range snap.Edges {
		edges[e.ID] = e
	}
	for _, sig := range snap.Signals {
		e, ok := edges[sig.EdgeID]
		if !ok {
			continue
		}
		a, b := pos[e.Source], pos[e.Target]
		p := rl.Vector2Lerp(a, b, float32(sig.Progress))
		color := rl.Color{R: 255, G: 230, B: 120, A: 255}
		if !sig.Automatic {
			color = rl.Color{R: 255, G: 120, B: 220, A: 255}
		}
		rl.DrawCircleV(p, 5*c.cam.Zoom, color)
	}

	for i := range snap.Entities {
		c.drawNode(&snap.Entities[i], pos[snap.Entities[i].ID], snap.ConnectSource)
	}
}

func (c *Canvas) drawNode(e *sim.EntityView, p rl.Vector2, connectSource string) {
	t := c.renderer.Theme
	r := float32(e.Size/2) * c.cam.Zoom
	if !c.cam.IsVisible(float32(e.X), float32(e.Y), float32(e.Size)) {
		return
	}

	var label string
	switch e.Kind {
	case components.KindCheckpoint:
		rl.DrawRectangleV(rl.Vector2{X: p.X - r, Y: p.Y - r}, rl.Vector2{X: 2 * r, Y: 2 * r}, t.Checkpoint)
		label = fmt.Sprintf("%.0f", e.Knowledge)
	default:
		color := t.Algorithm
		if e.Primary {
			color = t.Primary
		}
		if e.Crashed {
			color = t.Crashed
		}
		rl.DrawCircleV(p, r, color)
		if !e.Primary && e.ResourceLimit > 0 {
			// Resource arc around the node.
			usage := float32(e.ResourceUsage / e.ResourceLimit)
			rl.DrawRing(p, r+2, r+4, -90, -90+360*clamp01(usage), 24, t.BarFillLow)
		}
		label = fmt.Sprintf("%.1f", e.Intelligence)
	}

	if e.Selected {
		rl.DrawCircleLinesV(p, r+6, t.Selected)
	}
	if e.ID == connectSource {
		rl.DrawCircleLinesV(p, r+9, t.ConnectSource)
	}

	if c.overlays.IsEnabled(OverlayLabels) {
		w := rl.MeasureText(label, t.FontSize)
		rl.DrawText(label, int32(p.X)-w/2, int32(p.Y)-t.FontSize/2, t.FontSize, rl.Black)
	}
}

func (c *Canvas) drawGrid(bounds rl.Rectangle, spacing float32) {
	color := rl.Color{R: 255, G: 255, B: 255, A: 12}
	for x := float32(0); x <= bounds.Width; x += spacing {
		a := c.screen(float64(x), 0)
		b := c.screen(float64(x), float64(bounds.Height))
		rl.DrawLineV(a, b, color)
	}
	for y := float32(0); y <= bounds.Height; y += spacing {
		a := c.screen(0, float64(y))
		b := c.screen(float64(bounds.Width), float64(y))
		rl.DrawLineV(a, b, color)
	}
}
