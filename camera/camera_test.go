package camera

import (
	"math"
	"testing"
)

func near(a, b float32) bool { return math.Abs(float64(a-b)) < 0.01 }

func TestNew(t *testing.T) {
	cam := New(1280, 720, 500, 350)

	if cam.X != 500 || cam.Y != 350 {
		t.Errorf("expected camera at (500, 350), got (%f, %f)", cam.X, cam.Y)
	}
	if cam.Zoom != 1.0 {
		t.Errorf("expected zoom 1.0, got %f", cam.Zoom)
	}
}

func TestWorldToScreenCentered(t *testing.T) {
	cam := New(1280, 720, 500, 350)

	sx, sy := cam.WorldToScreen(500, 350)
	if !near(sx, 640) || !near(sy, 360) {
		t.Errorf("expected screen center (640, 360), got (%f, %f)", sx, sy)
	}
}

func TestScreenToWorldRoundtrip(t *testing.T) {
	cam := New(1280, 720, 0, 0)
	cam.SetZoom(1.7)
	cam.Pan(-300, 120)

	testCases := []struct{ sx, sy float32 }{
		{640, 360},  // center
		{100, 100},  // top-left
		{1200, 600}, // near bottom-right
	}

	for _, tc := range testCases {
		wx, wy := cam.ScreenToWorld(tc.sx, tc.sy)
		sx, sy := cam.WorldToScreen(wx, wy)
		if !near(sx, tc.sx) || !near(sy, tc.sy) {
			t.Errorf("roundtrip failed: (%f,%f) -> (%f,%f) -> (%f,%f)",
				tc.sx, tc.sy, wx, wy, sx, sy)
		}
	}
}

func TestPanDoesNotWrap(t *testing.T) {
	cam := New(1280, 720, 100, 100)
	cam.SetZoom(2)

	cam.Pan(-400, 0)

	if !near(cam.X, -100) {
		t.Errorf("expected X -100, got %f", cam.X)
	}

	// Far outside any world size, still no clamping.
	cam.Pan(0, 100000)
	if !near(cam.Y, 50100) {
		t.Errorf("expected Y 50100, got %f", cam.Y)
	}
}

func TestZoomClamp(t *testing.T) {
	cam := New(1280, 720, 0, 0)

	cam.SetZoom(0.1)
	if cam.Zoom != MinZoom {
		t.Errorf("expected zoom clamped to %v, got %f", MinZoom, cam.Zoom)
	}

	cam.SetZoom(10.0)
	if cam.Zoom != MaxZoom {
		t.Errorf("expected zoom clamped to %v, got %f", MaxZoom, cam.Zoom)
	}
}

func TestStepKeepsCursorAnchor(t *testing.T) {
	cam := New(1280, 720, 500, 350)

	wx, wy := cam.ScreenToWorld(200, 150)
	cam.Step(3, 200, 150)

	if !near(cam.Zoom, 1.3) {
		t.Errorf("expected zoom 1.3, got %f", cam.Zoom)
	}
	sx, sy := cam.WorldToScreen(wx, wy)
	if !near(sx, 200) || !near(sy, 150) {
		t.Errorf("anchor moved to (%f, %f)", sx, sy)
	}

	for i := 0; i < 30; i++ {
		cam.Step(-1, 640, 360)
	}
	if cam.Zoom != MinZoom {
		t.Errorf("expected zoom at floor, got %f", cam.Zoom)
	}
}

func TestIsVisible(t *testing.T) {
	cam := New(1280, 720, 1280, 720)

	// Visible range: (640, 360) to (1920, 1080)
	if !cam.IsVisible(1280, 720, 10) {
		t.Error("center should be visible")
	}
	if cam.IsVisible(2400, 1300, 10) {
		t.Error("far point should not be visible")
	}
	if !cam.IsVisible(600, 720, 100) {
		t.Error("edge point with large radius should be visible")
	}

	minX, minY, maxX, maxY := cam.VisibleWorldBounds()
	if minX != 640 || minY != 360 || maxX != 1920 || maxY != 1080 {
		t.Errorf("unexpected bounds (%f,%f)-(%f,%f)", minX, minY, maxX, maxY)
	}
}

func TestReset(t *testing.T) {
	cam := New(1280, 720, 500, 350)
	cam.X = 10
	cam.Y = 20
	cam.Zoom = 1.5

	cam.Reset()

	if cam.X != 500 || cam.Y != 350 {
		t.Errorf("expected position (500, 350), got (%f, %f)", cam.X, cam.Y)
	}
	if cam.Zoom != 1.0 {
		t.Errorf("expected zoom 1.0, got %f", cam.Zoom)
	}
}
