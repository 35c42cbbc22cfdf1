package telemetry

import (
	"log/slog"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Phase is one timed section of a simulation tick.
type Phase uint8

const (
	PhaseRelax Phase = iota
	PhasePrimary
	PhaseAlgorithms
	PhaseMetrics
	PhaseTelemetry
	numPhases
)

var phaseNames = [numPhases]string{"relax", "primary", "algorithms", "metrics", "telemetry"}

func (p Phase) String() string {
	if p < numPhases {
		return phaseNames[p]
	}
	return "unknown"
}

// Phases lists the tick phases in execution order.
var Phases = []Phase{PhaseRelax, PhasePrimary, PhaseAlgorithms, PhaseMetrics, PhaseTelemetry}

// noPhase marks that no phase is open.
const noPhase = numPhases

// perfSample holds timing data for a single tick.
type perfSample struct {
	tick   time.Duration
	phases [numPhases]time.Duration
}

// PerfCollector keeps tick timings in a ring of the last windowSize ticks.
// It is not safe for concurrent use; the simulation lock guards it.
type PerfCollector struct {
	now     func() time.Time
	samples []perfSample
	next    int
	count   int

	current    perfSample
	tickStart  time.Time
	phaseStart time.Time
	open       Phase

	lastFrame time.Time
	frame     time.Duration // smoothed frame duration
}

// frameSmoothing is the weight of the newest frame in the smoothed duration.
const frameSmoothing = 0.1

// NewPerfCollector creates a collector averaging over windowSize ticks
// (60 when windowSize < 1).
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{
		now:     time.Now,
		samples: make([]perfSample, windowSize),
		open:    noPhase,
	}
}

// SetClock replaces the wall clock. Used by tests.
func (p *PerfCollector) SetClock(now func() time.Time) { p.now = now }

// StartTick begins timing a new simulation tick.
func (p *PerfCollector) StartTick() {
	p.tickStart = p.now()
	p.current = perfSample{}
	p.open = noPhase
}

// StartPhase closes the open phase, if any, and opens phase.
func (p *PerfCollector) StartPhase(phase Phase) {
	now := p.now()
	p.closePhase(now)
	p.phaseStart = now
	p.open = phase
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.open < numPhases {
		p.current.phases[p.open] += now.Sub(p.phaseStart)
	}
	p.open = noPhase
}

// EndTick closes the open phase and records the tick.
func (p *PerfCollector) EndTick() {
	now := p.now()
	p.closePhase(now)
	p.current.tick = now.Sub(p.tickStart)

	p.samples[p.next] = p.current
	p.next = (p.next + 1) % len(p.samples)
	if p.count < len(p.samples) {
		p.count++
	}
}

// RecordFrame marks a rendered frame. The frame duration is smoothed so the
// FPS readout does not flicker.
func (p *PerfCollector) RecordFrame() {
	now := p.now()
	if !p.lastFrame.IsZero() {
		d := now.Sub(p.lastFrame)
		if p.frame == 0 {
			p.frame = d
		} else {
			p.frame = time.Duration(float64(p.frame)*(1-frameSmoothing) + float64(d)*frameSmoothing)
		}
	}
	p.lastFrame = now
}

// PerfStats holds aggregated performance statistics.
type PerfStats struct {
	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration
	P95TickDuration time.Duration

	PhaseAvg map[Phase]time.Duration
	PhasePct map[Phase]float64 // share of the average tick, 0-100

	TicksPerSecond float64

	FrameDuration time.Duration
	FPS           float64
}

// Stats aggregates the current window.
func (p *PerfCollector) Stats() PerfStats {
	out := PerfStats{
		PhaseAvg:      make(map[Phase]time.Duration),
		PhasePct:      make(map[Phase]float64),
		FrameDuration: p.frame,
	}
	if p.frame > 0 {
		out.FPS = float64(time.Second) / float64(p.frame)
	}
	if p.count == 0 {
		return out
	}

	ticks := make([]float64, p.count)
	var phaseSum [numPhases]time.Duration
	for i := 0; i < p.count; i++ {
		s := p.samples[i]
		ticks[i] = float64(s.tick)
		for ph, d := range s.phases {
			phaseSum[ph] += d
		}
	}
	sort.Float64s(ticks)

	avg := stat.Mean(ticks, nil)
	out.AvgTickDuration = time.Duration(avg)
	out.MinTickDuration = time.Duration(ticks[0])
	out.MaxTickDuration = time.Duration(ticks[len(ticks)-1])
	out.P95TickDuration = time.Duration(stat.Quantile(0.95, stat.Empirical, ticks, nil))
	if avg > 0 {
		out.TicksPerSecond = float64(time.Second) / avg
	}

	for _, ph := range Phases {
		if phaseSum[ph] == 0 {
			continue
		}
		mean := phaseSum[ph] / time.Duration(p.count)
		out.PhaseAvg[ph] = mean
		if avg > 0 {
			out.PhasePct[ph] = float64(mean) / avg * 100
		}
	}
	return out
}

// LogStats logs performance statistics.
func (s PerfStats) LogStats() {
	slog.Info("perf", "perf", s)
}

// LogValue implements slog.LogValuer. Phases under 0.1% are omitted.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_tick_us", s.AvgTickDuration.Microseconds()),
		slog.Int64("p95_tick_us", s.P95TickDuration.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTickDuration.Microseconds()),
		slog.Int("ticks_per_sec", int(s.TicksPerSecond)),
	}
	if s.FPS > 0 {
		attrs = append(attrs, slog.Int("fps", int(s.FPS)))
	}
	for _, ph := range Phases {
		if pct := s.PhasePct[ph]; pct > 0.1 {
			attrs = append(attrs, slog.Float64(ph.String()+"_pct", float64(int(pct*10))/10))
		}
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is a flat struct for CSV export of performance stats.
type PerfStatsCSV struct {
	RunID         string  `csv:"run_id"`
	WindowEnd     int     `csv:"window_end"`
	AvgTickUS     int64   `csv:"avg_tick_us"`
	MinTickUS     int64   `csv:"min_tick_us"`
	MaxTickUS     int64   `csv:"max_tick_us"`
	P95TickUS     int64   `csv:"p95_tick_us"`
	TicksPerSec   float64 `csv:"ticks_per_sec"`
	FPS           float64 `csv:"fps"`
	RelaxPct      float64 `csv:"relax_pct"`
	PrimaryPct    float64 `csv:"primary_pct"`
	AlgorithmsPct float64 `csv:"algorithms_pct"`
	MetricsPct    float64 `csv:"metrics_pct"`
	TelemetryPct  float64 `csv:"telemetry_pct"`
}

// ToCSV flattens the stats for perf.csv.
func (s PerfStats) ToCSV(windowEnd int) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:     windowEnd,
		AvgTickUS:     s.AvgTickDuration.Microseconds(),
		MinTickUS:     s.MinTickDuration.Microseconds(),
		MaxTickUS:     s.MaxTickDuration.Microseconds(),
		P95TickUS:     s.P95TickDuration.Microseconds(),
		TicksPerSec:   s.TicksPerSecond,
		FPS:           s.FPS,
		RelaxPct:      s.PhasePct[PhaseRelax],
		PrimaryPct:    s.PhasePct[PhasePrimary],
		AlgorithmsPct: s.PhasePct[PhaseAlgorithms],
		MetricsPct:    s.PhasePct[PhaseMetrics],
		TelemetryPct:  s.PhasePct[PhaseTelemetry],
	}
}
