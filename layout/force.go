package layout

import "math"

// Relax runs one repulsion pass over every overlapping pair, in slice order,
// updating circles in place and clamping moved footprints to the canvas.
// A pinned circle never moves; its partner is pushed at double rate.
// Returns the number of overlapping pairs found.
func (e *Engine) Relax(circles []Circle) int {
	if len(circles) < 2 {
		return 0
	}

	overlapping := 0
	for i := range circles {
		a := &circles[i]
		for j := i + 1; j < len(circles); j++ {
			b := &circles[j]

			dx := b.X - a.X
			dy := b.Y - a.Y
			dist := math.Sqrt(dx*dx + dy*dy)
			minSep := e.MinSeparation(a.Size, b.Size)
			if dist >= minSep {
				continue
			}
			overlapping++

			// Coincident centres have no direction; separate along x.
			if dist == 0 {
				dx = 1
			}

			force := e.params.Repulsion * (minSep - dist) / minSep
			eff := math.Max(dist, e.params.MinDistance)
			fx := dx / eff * force
			fy := dy / eff * force

			if !a.Pinned {
				k := 1.0
				if b.Pinned {
					k = 2
				}
				a.X, a.Y = e.bounds.Clamp(a.X-fx*k, a.Y-fy*k, a.Size)
			}
			if !b.Pinned {
				k := 1.0
				if a.Pinned {
					k = 2
				}
				b.X, b.Y = e.bounds.Clamp(b.X+fx*k, b.Y+fy*k, b.Size)
			}
		}
	}

	return overlapping
}
