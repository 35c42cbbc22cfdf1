// Package camera provides a 2D camera for the viewer canvas.
package camera

// Zoom limits and the step applied per wheel notch.
const (
	MinZoom  = 0.5
	MaxZoom  = 2.0
	ZoomStep = 0.1
)

// Camera maps canvas coordinates to screen pixels with pan and zoom.
// Panning is unbounded and does not wrap; nodes are kept inside the world
// by the layout, not here.
type Camera struct {
	// Position is the canvas point shown at the viewport centre
	X, Y float32

	// Zoom level (1.0 = 1:1)
	Zoom float32

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float32

	// Home is where Reset returns to
	HomeX, HomeY float32
}

// New creates a camera looking at (homeX, homeY) with 1:1 zoom.
func New(viewportW, viewportH, homeX, homeY float32) *Camera {
	return &Camera{
		X:         homeX,
		Y:         homeY,
		Zoom:      1.0,
		ViewportW: viewportW,
		ViewportH: viewportH,
		HomeX:     homeX,
		HomeY:     homeY,
	}
}

// WorldToScreen converts canvas coordinates to screen coordinates.
func (c *Camera) WorldToScreen(wx, wy float32) (sx, sy float32) {
	sx = c.ViewportW/2 + (wx-c.X)*c.Zoom
	sy = c.ViewportH/2 + (wy-c.Y)*c.Zoom
	return sx, sy
}

// ScreenToWorld converts screen coordinates to canvas coordinates.
func (c *Camera) ScreenToWorld(sx, sy float32) (wx, wy float32) {
	wx = c.X + (sx-c.ViewportW/2)/c.Zoom
	wy = c.Y + (sy-c.ViewportH/2)/c.Zoom
	return wx, wy
}

// IsVisible returns true if a circle at (wx, wy) with given radius
// could be visible on screen (conservative check for culling).
func (c *Camera) IsVisible(wx, wy, radius float32) bool {
	halfW := c.ViewportW/(2*c.Zoom) + radius
	halfH := c.ViewportH/(2*c.Zoom) + radius
	return absf(wx-c.X) <= halfW && absf(wy-c.Y) <= halfH
}

// Resize updates viewport dimensions.
func (c *Camera) Resize(viewportW, viewportH float32) {
	c.ViewportW = viewportW
	c.ViewportH = viewportH
}

// Pan moves the camera by the given delta in screen pixels.
func (c *Camera) Pan(dx, dy float32) {
	c.X += dx / c.Zoom
	c.Y += dy / c.Zoom
}

// SetZoom sets the zoom level, clamped to [MinZoom, MaxZoom].
func (c *Camera) SetZoom(zoom float32) {
	c.Zoom = clamp(zoom, MinZoom, MaxZoom)
}

// Step zooms in (notches > 0) or out by ZoomStep per notch, keeping the
// canvas point under (sx, sy) fixed on screen.
func (c *Camera) Step(notches, sx, sy float32) {
	wx, wy := c.ScreenToWorld(sx, sy)
	c.SetZoom(c.Zoom + notches*ZoomStep)
	c.X = wx - (sx-c.ViewportW/2)/c.Zoom
	c.Y = wy - (sy-c.ViewportH/2)/c.Zoom
}

// Reset returns the camera to its home position and zoom.
func (c *Camera) Reset() {
	c.X = c.HomeX
	c.Y = c.HomeY
	c.Zoom = 1.0
}

// VisibleWorldBounds returns the canvas bounds of the visible area.
func (c *Camera) VisibleWorldBounds() (minX, minY, maxX, maxY float32) {
	halfW := c.ViewportW / (2 * c.Zoom)
	halfH := c.ViewportH / (2 * c.Zoom)
	return c.X - halfW, c.Y - halfH, c.X + halfW, c.Y + halfH
}

func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

func clamp(x, min, max float32) float32 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
