package layout

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/agievo/config"
	"github.com/pthm-cable/agievo/rng"
)

func testEngine(src rng.Source) *Engine {
	cfg := config.Default()
	return NewEngine(ParamsFromConfig(cfg), Bounds{Width: 1000, Height: 700}, src)
}

func TestFindPositionFreeSpotUnchanged(t *testing.T) {
	e := testEngine(rng.NewSequence(0.5))
	occupied := []Circle{{X: 100, Y: 100, Size: 40}}

	x, y := e.FindPosition(500, 400, 40, occupied)
	assert.Equal(t, 500.0, x)
	assert.Equal(t, 400.0, y)
}

func TestFindPositionAvoidsOverlap(t *testing.T) {
	e := testEngine(rng.NewSequence(0.5))
	occupied := []Circle{{X: 500, Y: 350, Size: 50}}

	x, y := e.FindPosition(500, 350, 40, occupied)
	d := math.Hypot(x-500, y-350)
	assert.GreaterOrEqual(t, d, e.MinSeparation(50, 40))
	assert.True(t, e.Bounds().Contains(x, y, 40))

	// First ring sample that clears (45+10) is radius 60 at angle 0.
	assert.InDelta(t, 560, x, 1e-9)
	assert.InDelta(t, 350, y, 1e-9)
}

func TestFindPositionSkipsOutOfBounds(t *testing.T) {
	e := testEngine(rng.NewSequence(0.5))
	occupied := []Circle{{X: 980, Y: 350, Size: 40}}

	x, y := e.FindPosition(980, 350, 40, occupied)
	assert.True(t, e.Bounds().Contains(x, y, 40), "got (%v, %v)", x, y)
}

func TestFindPositionFallsBackToRandom(t *testing.T) {
	e := NewEngine(Params{
		Padding: 10, RingStep: 20, MaxAttempts: 1, MinSegments: 8,
		SegmentSpacing: 10, Repulsion: 0.3, MinDistance: 5, GridCellSize: 100,
	}, Bounds{Width: 200, Height: 200}, rng.NewSequence(0.25, 0.75))
	occupied := []Circle{{X: 100, Y: 100, Size: 100}}

	x, y := e.FindPosition(100, 100, 20, occupied)
	assert.InDelta(t, 0.25*180+10, x, 1e-9)
	assert.InDelta(t, 0.75*180+10, y, 1e-9)
}

func TestRelaxSeparatesEqualPair(t *testing.T) {
	e := testEngine(rng.NewSequence())
	circles := []Circle{
		{X: 500, Y: 350, Size: 40},
		{X: 520, Y: 350, Size: 40},
	}

	prev := math.Hypot(circles[1].X-circles[0].X, circles[1].Y-circles[0].Y)
	for pass := 0; pass < 1000; pass++ {
		if e.Relax(circles) == 0 {
			break
		}
		d := math.Hypot(circles[1].X-circles[0].X, circles[1].Y-circles[0].Y)
		require.Greater(t, d, prev, "pass %d", pass)
		prev = d
		for _, c := range circles {
			require.True(t, e.Bounds().Contains(c.X, c.Y, c.Size))
		}
	}
	// Relaxation converges geometrically towards the minimum separation.
	assert.InDelta(t, e.MinSeparation(40, 40), prev, 0.01)
}

func TestRelaxPinnedNeverMoves(t *testing.T) {
	e := testEngine(rng.NewSequence())
	circles := []Circle{
		{X: 500, Y: 350, Size: 60, Pinned: true},
		{X: 530, Y: 350, Size: 40},
	}
	e.Relax(circles)

	assert.Equal(t, 500.0, circles[0].X)
	assert.Equal(t, 350.0, circles[0].Y)

	// Double rate: 2 * 0.3 * (60-30)/60 = 0.3
	assert.InDelta(t, 530.3, circles[1].X, 1e-9)
}

func TestRelaxCoincident(t *testing.T) {
	e := testEngine(rng.NewSequence())
	circles := []Circle{{X: 500, Y: 350, Size: 40}, {X: 500, Y: 350, Size: 40}}
	e.Relax(circles)
	assert.Less(t, circles[0].X, circles[1].X)
}

func TestRelaxClampsToBounds(t *testing.T) {
	e := testEngine(rng.NewSequence())
	circles := []Circle{{X: 20, Y: 20, Size: 40}, {X: 25, Y: 20, Size: 40}}
	for i := 0; i < 100; i++ {
		e.Relax(circles)
	}
	for _, c := range circles {
		assert.True(t, e.Bounds().Contains(c.X, c.Y, c.Size))
	}
}

func TestSpatialGridQuery(t *testing.T) {
	g := NewSpatialGrid(1000, 700, 100)
	g.Insert(0, 50, 50)
	g.Insert(1, 120, 50)
	g.Insert(2, 900, 600)
	g.Insert(3, -400, 50) // outside, bucketed at edge

	got := g.QueryRadiusInto(nil, 50, 50, 100, 0)
	ids := map[int]bool{}
	for _, n := range got {
		ids[n.Index] = true
	}
	assert.True(t, ids[1])
	assert.False(t, ids[0], "excluded")
	assert.False(t, ids[2])
	assert.False(t, ids[3], "outside radius")

	got = g.QueryRadiusInto(got[:0], -400, 50, 10, -1)
	require.Len(t, got, 1)
	assert.Equal(t, 3, got[0].Index)
}

func TestBoundsClamp(t *testing.T) {
	b := Bounds{Width: 100, Height: 100}
	x, y := b.Clamp(-5, 200, 20)
	assert.Equal(t, 10.0, x)
	assert.Equal(t, 90.0, y)
}

func TestHexLayout(t *testing.T) {
	cfg := config.Default()
	p := HexParamsFromConfig(cfg)
	nodes := []HexNode{
		{ID: "main", Children: []string{"a", "b"}, Efficiency: 100},
		{ID: "a", Efficiency: 40},
		{ID: "b", Efficiency: 70, Children: []string{"c"}},
		{ID: "c", Efficiency: 50},
		{ID: "orphan", Efficiency: 10},
	}

	pos := Hex(p, rng.NewSequence(0), "main", nodes)
	require.Len(t, pos, 5)

	assert.Equal(t, 0.0, pos["main"].X)
	// b is more efficient so it takes the first direction (right).
	assert.InDelta(t, p.Width*2, pos["b"].X, 1e-9)
	assert.InDelta(t, 0, pos["b"].Y, 1e-9)
	// a takes the next direction (bottom right).
	assert.InDelta(t, p.Width, pos["a"].X, 1e-9)
	assert.InDelta(t, p.Height*1.5, pos["a"].Y, 1e-9)
	// c hangs off b, first direction right.
	assert.InDelta(t, p.Width*4, pos["c"].X, 1e-9)
	// orphan at angle 0 on the ring.
	assert.InDelta(t, p.Height*p.RingFactor, pos["orphan"].X, 1e-9)

	seen := map[hexKey]bool{}
	for id, q := range pos {
		k := keyOf(q.X, q.Y)
		assert.False(t, seen[k], "cell reused by %s", id)
		seen[k] = true
	}
}

func TestHexLayoutWithoutMain(t *testing.T) {
	assert.Nil(t, Hex(HexParams{Height: 60, Width: 52, MaxLevel: 10, RingFactor: 5}, rng.NewSequence(), "main", nil))
}

func TestInHexagon(t *testing.T) {
	assert.True(t, InHexagon(0, 0, 0, 0, 20))
	assert.True(t, InHexagon(5, 5, 0, 0, 20))
	assert.False(t, InHexagon(30, 0, 0, 0, 20))
}

func TestWithin(t *testing.T) {
	e := testEngine(rng.NewSequence())
	occupied := []Circle{{X: 100, Y: 100}, {X: 150, Y: 100}, {X: 500, Y: 500}}
	got := e.Within(100, 100, 300, occupied, 0)
	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].Index)
	assert.InDelta(t, 2500, got[0].DistSq, 1e-9)
}
