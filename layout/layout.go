// Package layout positions nodes on the canvas: non-overlapping placement,
// force relaxation and the hexagonal lineage layout.
package layout

import (
	"math"

	"github.com/pthm-cable/agievo/config"
	"github.com/pthm-cable/agievo/rng"
)

// Bounds is the canvas rectangle anchored at the origin.
type Bounds struct {
	Width, Height float64
}

// Contains reports whether a footprint of the given size lies fully inside.
func (b Bounds) Contains(x, y, size float64) bool {
	r := size / 2
	return x >= r && x <= b.Width-r && y >= r && y <= b.Height-r
}

// Clamp pulls a footprint back inside the canvas.
func (b Bounds) Clamp(x, y, size float64) (float64, float64) {
	r := size / 2
	return clamp(x, r, math.Max(r, b.Width-r)), clamp(y, r, math.Max(r, b.Height-r))
}

// Center returns the canvas midpoint.
func (b Bounds) Center() (float64, float64) {
	return b.Width / 2, b.Height / 2
}

// Circle is a node footprint as seen by the layout passes.
type Circle struct {
	X, Y   float64
	Size   float64
	Pinned bool // the primary: never displaced, pushes others at double rate
}

// Params holds layout constants.
type Params struct {
	Padding        float64
	RingStep       float64
	MaxAttempts    int
	MinSegments    int
	SegmentSpacing float64
	Repulsion      float64
	MinDistance    float64
	GridCellSize   float64
}

// ParamsFromConfig extracts layout constants from the config.
func ParamsFromConfig(cfg *config.Config) Params {
	l := cfg.Layout
	return Params{
		Padding:        l.Padding,
		RingStep:       l.RingStep,
		MaxAttempts:    l.MaxAttempts,
		MinSegments:    l.MinSegments,
		SegmentSpacing: l.SegmentSpacing,
		Repulsion:      l.Repulsion,
		MinDistance:    l.MinDistance,
		GridCellSize:   l.GridCellSize,
	}
}

// Engine runs placement and relaxation against fixed canvas bounds.
type Engine struct {
	params Params
	bounds Bounds
	src    rng.Source
	grid   *SpatialGrid
	buf    []Neighbor
}

// NewEngine creates a layout engine.
func NewEngine(params Params, bounds Bounds, src rng.Source) *Engine {
	return &Engine{
		params: params,
		bounds: bounds,
		src:    src,
		grid:   NewSpatialGrid(bounds.Width, bounds.Height, params.GridCellSize),
	}
}

// Bounds returns the canvas bounds.
func (e *Engine) Bounds() Bounds { return e.bounds }

// MinSeparation is the centre distance below which two footprints overlap.
func (e *Engine) MinSeparation(a, b float64) float64 {
	return (a+b)/2 + e.params.Padding
}

// Overlaps reports whether two footprints intersect under the padding rule.
func (e *Engine) Overlaps(a, b Circle) bool {
	return math.Hypot(b.X-a.X, b.Y-a.Y) < e.MinSeparation(a.Size, b.Size)
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
