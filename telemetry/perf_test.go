package telemetry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock advances only when told to.
type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestCollector(window int) (*PerfCollector, *fakeClock) {
	clk := &fakeClock{t: time.Unix(1000, 0)}
	pc := NewPerfCollector(window)
	pc.SetClock(clk.now)
	return pc, clk
}

// runTick records one tick spending relax and algo in the two phases.
func runTick(pc *PerfCollector, clk *fakeClock, relax, algo time.Duration) {
	pc.StartTick()
	pc.StartPhase(PhaseRelax)
	clk.advance(relax)
	pc.StartPhase(PhaseAlgorithms)
	clk.advance(algo)
	pc.EndTick()
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "relax", PhaseRelax.String())
	assert.Equal(t, "telemetry", PhaseTelemetry.String())
	assert.Equal(t, "unknown", Phase(200).String())
	assert.Len(t, Phases, int(numPhases))
}

func TestPerfCollectorPhases(t *testing.T) {
	pc, clk := newTestCollector(10)
	for i := 0; i < 5; i++ {
		runTick(pc, clk, 300*time.Microsecond, 100*time.Microsecond)
	}

	stats := pc.Stats()
	assert.Equal(t, 400*time.Microsecond, stats.AvgTickDuration)
	assert.Equal(t, 300*time.Microsecond, stats.PhaseAvg[PhaseRelax])
	assert.Equal(t, 100*time.Microsecond, stats.PhaseAvg[PhaseAlgorithms])
	assert.InDelta(t, 75, stats.PhasePct[PhaseRelax], 1e-9)
	assert.InDelta(t, 25, stats.PhasePct[PhaseAlgorithms], 1e-9)
	assert.InDelta(t, 2500, stats.TicksPerSecond, 1e-6)

	_, ok := stats.PhaseAvg[PhaseMetrics]
	assert.False(t, ok, "untimed phases are omitted")
}

func TestPerfCollectorRollingWindow(t *testing.T) {
	pc, clk := newTestCollector(3)
	runTick(pc, clk, 10*time.Millisecond, 0)
	for i := 0; i < 3; i++ {
		runTick(pc, clk, time.Millisecond, 0)
	}

	// The slow first tick has rolled out of the window.
	stats := pc.Stats()
	assert.Equal(t, time.Millisecond, stats.MaxTickDuration)
	assert.Equal(t, time.Millisecond, stats.AvgTickDuration)
}

func TestPerfCollectorMinMaxP95(t *testing.T) {
	pc, clk := newTestCollector(20)
	for i := 1; i <= 20; i++ {
		runTick(pc, clk, time.Duration(i)*time.Millisecond, 0)
	}

	stats := pc.Stats()
	assert.Equal(t, time.Millisecond, stats.MinTickDuration)
	assert.Equal(t, 20*time.Millisecond, stats.MaxTickDuration)
	assert.Equal(t, 19*time.Millisecond, stats.P95TickDuration)
	assert.Equal(t, 10500*time.Microsecond, stats.AvgTickDuration)
}

func TestPerfCollectorEmpty(t *testing.T) {
	pc, _ := newTestCollector(10)
	stats := pc.Stats()
	require.NotNil(t, stats.PhaseAvg)
	require.NotNil(t, stats.PhasePct)
	assert.Zero(t, stats.AvgTickDuration)
	assert.Zero(t, stats.TicksPerSecond)
}

func TestPerfCollectorRepeatedPhase(t *testing.T) {
	pc, clk := newTestCollector(1)
	pc.StartTick()
	pc.StartPhase(PhasePrimary)
	clk.advance(2 * time.Millisecond)
	pc.StartPhase(PhaseMetrics)
	clk.advance(time.Millisecond)
	pc.StartPhase(PhasePrimary)
	clk.advance(3 * time.Millisecond)
	pc.EndTick()

	stats := pc.Stats()
	assert.Equal(t, 5*time.Millisecond, stats.PhaseAvg[PhasePrimary])
	assert.Equal(t, time.Millisecond, stats.PhaseAvg[PhaseMetrics])
}

func TestRecordFrame(t *testing.T) {
	pc, clk := newTestCollector(10)
	pc.RecordFrame()
	assert.Zero(t, pc.Stats().FPS, "a single frame has no duration")

	clk.advance(20 * time.Millisecond)
	pc.RecordFrame()
	stats := pc.Stats()
	assert.Equal(t, 20*time.Millisecond, stats.FrameDuration)
	assert.InDelta(t, 50, stats.FPS, 1e-9)

	// A slow frame only nudges the smoothed duration.
	clk.advance(120 * time.Millisecond)
	pc.RecordFrame()
	assert.InDelta(t, float64(30*time.Millisecond), float64(pc.Stats().FrameDuration), 10)
}

func TestPerfStatsToCSV(t *testing.T) {
	stats := PerfStats{
		AvgTickDuration: 1500 * time.Microsecond,
		MinTickDuration: time.Millisecond,
		MaxTickDuration: 3 * time.Millisecond,
		P95TickDuration: 2 * time.Millisecond,
		TicksPerSecond:  666.6,
		PhasePct: map[Phase]float64{
			PhaseRelax:      40,
			PhaseAlgorithms: 35,
			PhaseTelemetry:  5,
		},
	}

	row := stats.ToCSV(1200)
	assert.Equal(t, 1200, row.WindowEnd)
	assert.Equal(t, int64(1500), row.AvgTickUS)
	assert.Equal(t, int64(2000), row.P95TickUS)
	assert.Equal(t, 40.0, row.RelaxPct)
	assert.Equal(t, 35.0, row.AlgorithmsPct)
	assert.Equal(t, 5.0, row.TelemetryPct)
	assert.Zero(t, row.PrimaryPct)
}
