package layout

import "math"

// FindPosition returns (x, y) unchanged when a footprint of size fits there
// without overlapping any of occupied. Otherwise it sweeps concentric rings
// around the desired point and returns the first free in-bounds sample,
// falling back to a uniformly random in-bounds position.
func (e *Engine) FindPosition(x, y, size float64, occupied []Circle) (float64, float64) {
	e.grid.Clear()
	var maxSize float64
	for i, c := range occupied {
		e.grid.Insert(i, c.X, c.Y)
		maxSize = math.Max(maxSize, c.Size)
	}
	reach := size/2 + maxSize/2 + e.params.Padding

	free := func(cx, cy float64) bool {
		e.buf = e.grid.QueryRadiusInto(e.buf[:0], cx, cy, reach, -1)
		for _, n := range e.buf {
			if math.Sqrt(n.DistSq) < e.MinSeparation(size, occupied[n.Index].Size) {
				return false
			}
		}
		return true
	}

	if free(x, y) {
		return x, y
	}

	for attempt := 1; attempt <= e.params.MaxAttempts; attempt++ {
		radius := float64(attempt) * e.params.RingStep
		segments := e.params.MinSegments
		if s := int(radius / e.params.SegmentSpacing); s > segments {
			segments = s
		}

		for i := 0; i < segments; i++ {
			angle := float64(i) / float64(segments) * 2 * math.Pi
			cx := x + math.Cos(angle)*radius
			cy := y + math.Sin(angle)*radius

			if !e.bounds.Contains(cx, cy, size) {
				continue
			}
			if free(cx, cy) {
				return cx, cy
			}
		}
	}

	return e.RandomPosition(size)
}

// RandomPosition returns a uniformly random in-bounds centre for a footprint.
func (e *Engine) RandomPosition(size float64) (float64, float64) {
	x := e.src.Float64()*(e.bounds.Width-size) + size/2
	y := e.src.Float64()*(e.bounds.Height-size) + size/2
	return x, y
}

// Within returns the footprints of occupied whose centres lie within radius
// of (x, y), skipping index exclude. DX/DY/DistSq are relative to (x, y).
func (e *Engine) Within(x, y, radius float64, occupied []Circle, exclude int) []Neighbor {
	e.grid.Clear()
	for i, c := range occupied {
		e.grid.Insert(i, c.X, c.Y)
	}
	return e.grid.QueryRadiusInto(nil, x, y, radius, exclude)
}
