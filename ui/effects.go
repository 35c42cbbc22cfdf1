package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/agievo/camera"
	"github.com/pthm-cable/agievo/effects"
)

// EffectsRenderer draws effect particles through the camera.
type EffectsRenderer struct {
	cam *camera.Camera
}

// NewEffectsRenderer creates a new effects renderer.
func NewEffectsRenderer(cam *camera.Camera) *EffectsRenderer {
	return &EffectsRenderer{cam: cam}
}

// Draw renders all particles.
func (r *EffectsRenderer) Draw(particles []effects.Particle) {
	for i := range particles {
		p := &particles[i]
		lifeRatio := p.LifeRatio()

		var color rl.Color
		switch p.Kind {
		case effects.KindSpawn:
			// Cyan
			color = rl.Color{R: 80, G: 200, B: 255, A: uint8(lifeRatio * 200)}
		case effects.KindCrash:
			// Red/brown
			color = rl.Color{R: 200, G: 70, B: 50, A: uint8(lifeRatio * 180)}
		case effects.KindImprove:
			// Gold
			color = rl.Color{R: 255, G: 210, B: 80, A: uint8(lifeRatio * 200)}
		}

		size := p.Size * lifeRatio * r.cam.Zoom
		if size < 0.5 {
			size = 0.5
		}
		sx, sy := r.cam.WorldToScreen(p.X, p.Y)
		rl.DrawCircleV(rl.Vector2{X: sx, Y: sy}, size, color)
	}
}
