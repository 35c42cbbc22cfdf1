// Package effects emits short-lived particles that give visual feedback for
// graph events: a node appearing, crashing, or gaining intelligence.
package effects

import (
	"math"

	"github.com/pthm-cable/agievo/rng"
	"github.com/pthm-cable/agievo/sim"
)

// Kind identifies the type of effect particle.
type Kind uint8

const (
	KindSpawn Kind = iota
	KindCrash
	KindImprove
)

// improveThreshold is the intelligence jump that counts as an improvement.
const improveThreshold = 0.5

// Particle is one visual feedback particle in canvas coordinates.
type Particle struct {
	X, Y       float32
	VelX, VelY float32
	Life       int32
	MaxLife    int32
	Kind       Kind
	Size       float32
}

// LifeRatio returns the remaining fraction of the particle's life.
func (p *Particle) LifeRatio() float32 {
	return float32(p.Life) / float32(p.MaxLife)
}

// System manages effect particles and detects the events that emit them.
type System struct {
	Particles    []Particle
	maxParticles int
	rand         rng.Source

	// Last observed state per entity
	seen map[string]observed
}

type observed struct {
	crashed      bool
	intelligence float64
}

// New creates a particle system holding at most max particles.
func New(src rng.Source, max int) *System {
	return &System{
		Particles:    make([]Particle, 0, max),
		maxParticles: max,
		rand:         src,
		seen:         make(map[string]observed),
	}
}

// Update advances every particle one frame and drops expired ones.
func (s *System) Update() {
	alive := 0
	for i := range s.Particles {
		p := &s.Particles[i]

		p.Life--
		if p.Life <= 0 {
			continue
		}

		switch p.Kind {
		case KindCrash:
			// Sink downward
			p.VelY += 0.02
		case KindImprove:
			// Float upward
			p.VelY -= 0.01
		case KindSpawn:
			// Slight gravity
			p.VelY += 0.005
		}

		// Drag
		p.VelX *= 0.95
		p.VelY *= 0.95

		p.X += p.VelX
		p.Y += p.VelY

		s.Particles[alive] = s.Particles[i]
		alive++
	}
	s.Particles = s.Particles[:alive]
}

// Observe compares entities against the previous frame and emits particles
// for new nodes, fresh crashes and intelligence gains. The first call only
// records state, as does any call after Forget.
func (s *System) Observe(entities []sim.EntityView) {
	first := len(s.seen) == 0
	next := make(map[string]observed, len(entities))
	for _, e := range entities {
		prev, known := s.seen[e.ID]
		next[e.ID] = observed{crashed: e.Crashed, intelligence: e.Intelligence}
		if first {
			continue
		}

		x, y := float32(e.X), float32(e.Y)
		switch {
		case !known:
			s.EmitBurst(x, y, float32(e.Size))
		case e.Crashed && !prev.crashed:
			s.EmitCrash(x, y)
		case e.Intelligence-prev.intelligence >= improveThreshold:
			s.EmitImprove(x, y)
		}
	}
	s.seen = next
}

// Forget drops the observed state, so the next Observe emits nothing.
// Used after a reset.
func (s *System) Forget() {
	clear(s.seen)
	s.Particles = s.Particles[:0]
}

// EmitBurst emits a radial burst of 8-14 particles around a new node.
func (s *System) EmitBurst(x, y, radius float32) {
	count := 8 + s.rand.Intn(7)
	for i := 0; i < count; i++ {
		angle := s.f32() * 2 * math.Pi
		speed := 0.5 + s.f32()*0.8
		ox := float32(math.Cos(float64(angle))) * radius
		oy := float32(math.Sin(float64(angle))) * radius
		life := int32(30 + s.rand.Intn(30))
		s.add(Particle{
			X:       x + ox,
			Y:       y + oy,
			VelX:    float32(math.Cos(float64(angle))) * speed,
			VelY:    float32(math.Sin(float64(angle))) * speed,
			Life:    life,
			MaxLife: life,
			Kind:    KindSpawn,
			Size:    2 + s.f32()*1.5,
		})
	}
}

// EmitCrash emits a handful of sinking particles.
func (s *System) EmitCrash(x, y float32) {
	for i := 0; i < 6; i++ {
		life := 80 + int32(s.rand.Intn(60))
		s.add(Particle{
			X:       x + (s.f32()-0.5)*8,
			Y:       y + (s.f32()-0.5)*8,
			VelX:    (s.f32() - 0.5) * 0.4,
			VelY:    s.f32() * 0.2,
			Life:    life,
			MaxLife: life,
			Kind:    KindCrash,
			Size:    2 + s.f32(),
		})
	}
}

// EmitImprove emits a few rising particles.
func (s *System) EmitImprove(x, y float32) {
	for i := 0; i < 4; i++ {
		life := 60 + int32(s.rand.Intn(40))
		s.add(Particle{
			X:       x + (s.f32()-0.5)*6,
			Y:       y + (s.f32()-0.5)*6,
			VelX:    (s.f32() - 0.5) * 0.3,
			VelY:    -s.f32() * 0.3,
			Life:    life,
			MaxLife: life,
			Kind:    KindImprove,
			Size:    1.5 + s.f32(),
		})
	}
}

func (s *System) add(p Particle) {
	if len(s.Particles) >= s.maxParticles {
		return
	}
	s.Particles = append(s.Particles, p)
}

func (s *System) f32() float32 { return float32(s.rand.Float64()) }

// Count returns the current number of active particles.
func (s *System) Count() int {
	return len(s.Particles)
}
