// Package sim owns the free-form simulation state: the graph, the timeline of
// pending signals and crash resolutions, the connect-mode state machine and
// the per-tick evolution loop. Every exported method holds the simulation
// lock for its whole duration, so ticks, frames and user actions never
// interleave.
package sim

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/pthm-cable/agievo/components"
	"github.com/pthm-cable/agievo/config"
	"github.com/pthm-cable/agievo/eventlog"
	"github.com/pthm-cable/agievo/graph"
	"github.com/pthm-cable/agievo/layout"
	"github.com/pthm-cable/agievo/rng"
	"github.com/pthm-cable/agievo/rules"
	"github.com/pthm-cable/agievo/telemetry"
)

// Primary update constants.
const (
	primaryAnnounceChance = 0.1
	primaryTrainBelow     = 0.3
	primaryConnectBelow   = 0.5
	primaryImproveBelow   = 0.7
	primaryCreateBelow    = 0.9
	primaryWeight         = 2.0
)

// ConnectState is the two-click connect mode.
type ConnectState uint8

const (
	ConnectIdle ConnectState = iota
	ConnectAwaitingSource
	ConnectAwaitingTarget
)

func (c ConnectState) String() string {
	switch c {
	case ConnectAwaitingSource:
		return "awaiting_source"
	case ConnectAwaitingTarget:
		return "awaiting_target"
	default:
		return "idle"
	}
}

// Simulation holds the complete free-form simulation state.
type Simulation struct {
	mu sync.Mutex

	cfg      *config.Config
	env      *rules.Env
	graph    *graph.Graph
	timeline *Timeline
	log      *eventlog.Log
	rand     rng.Source
	now      func() time.Time

	connect       ConnectState
	connectSource string

	tick              int
	generation        int
	intelligenceLevel float64
	speed             float64

	// Telemetry
	collector     *telemetry.Collector
	perf          *telemetry.PerfCollector
	bookmarks     *telemetry.BookmarkDetector
	output        *telemetry.OutputManager
	logStats      bool
	statsCallback func(telemetry.WindowStats)
}

// Option configures a Simulation.
type Option func(*Simulation)

// WithRand injects the random source. Defaults to a time-seeded source.
func WithRand(src rng.Source) Option {
	return func(s *Simulation) { s.rand = src }
}

// WithClock overrides the wall clock used for evolve cadence and signals.
func WithClock(now func() time.Time) Option {
	return func(s *Simulation) { s.now = now }
}

// WithLog uses an existing event log instead of creating one.
func WithLog(l *eventlog.Log) Option {
	return func(s *Simulation) { s.log = l }
}

// WithOutput streams telemetry windows to CSV.
func WithOutput(om *telemetry.OutputManager) Option {
	return func(s *Simulation) { s.output = om }
}

// WithStatsLogging logs every telemetry window through slog.
func WithStatsLogging(enabled bool) Option {
	return func(s *Simulation) { s.logStats = enabled }
}

// WithStatsCallback is called with every flushed telemetry window.
func WithStatsCallback(fn func(telemetry.WindowStats)) Option {
	return func(s *Simulation) { s.statsCallback = fn }
}

// New creates a simulation seeded with the primary algorithm and the
// initial checkpoint ring.
func New(cfg *config.Config, opts ...Option) *Simulation {
	s := &Simulation{
		cfg:   cfg,
		now:   time.Now,
		speed: cfg.Simulation.Speed,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rand == nil {
		s.rand = rng.New(time.Now().UnixNano())
	}
	if s.log == nil {
		s.log = eventlog.New(cfg.Log.Capacity, eventlog.WithClock(s.now))
	}

	s.graph = graph.New()
	s.timeline = NewTimeline(s.now)
	s.collector = telemetry.NewCollector(cfg.Telemetry.StatsWindow, cfg.Derived.BaseTick.Seconds())
	s.perf = telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow)
	s.bookmarks = telemetry.NewBookmarkDetector(10)

	bounds := layout.Bounds{Width: cfg.World.Width, Height: cfg.World.Height}
	s.env = &rules.Env{
		Graph:    s.graph,
		Layout:   layout.NewEngine(layout.ParamsFromConfig(cfg), bounds, s.rand),
		Rand:     s.rand,
		Cfg:      cfg,
		Log:      s.log,
		Timeline: s.timeline,
		Now:      s.now,
		Recorder: s.collector,
	}

	s.initialize()
	return s
}

// initialize places the primary at the canvas centre and the checkpoint ring
// around it, each checkpoint feeding the primary.
func (s *Simulation) initialize() {
	cfg := s.cfg.Simulation
	cx, cy := s.env.Layout.Bounds().Center()

	primary, err := rules.NewAlgorithm(s.env, rules.AlgorithmParams{
		At:           &components.Position{X: cx, Y: cy},
		Intelligence: cfg.PrimaryIntelligence,
		Primary:      true,
		Generation:   1,
	})
	if err != nil {
		return
	}

	n := cfg.InitialCheckpoints
	for i := 0; i < n; i++ {
		angle := float64(i) / float64(n) * 2 * math.Pi
		at := components.Position{
			X: cx + math.Cos(angle)*cfg.CheckpointRing,
			Y: cy + math.Sin(angle)*cfg.CheckpointRing,
		}
		ckpt := rules.NewCheckpoint(s.env, &at, s.cfg.Checkpoint.Knowledge, nil)
		rules.Connect(s.env, ckpt, primary)
	}

	s.intelligenceLevel = 1
	s.generation = 1
	s.log.Successf("Simulation initialized with 1 primary algorithm and %d checkpoints", n)
}

// Reset cancels all pending signals and crash resolutions, drops every node
// and edge and re-creates the initial state. The log is kept.
func (s *Simulation) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.timeline.Cancel()
	s.graph.Clear()
	s.connect = ConnectIdle
	s.connectSource = ""
	s.tick = 0
	s.collector.Reset()

	s.initialize()
	s.log.Successf("Simulation reset")
}

// Step runs one evolution tick.
func (s *Simulation) Step() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.step()
}

// Advance completes every due signal and delayed task. It is called at the
// frame cadence and returns the number of completed items.
func (s *Simulation) Advance() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timeline.Advance(s.guard)
}

// guard runs fn, turning a panic into an error entry.
func (s *Simulation) guard(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Errorf("Simulation fault: %v", r)
			slog.Error("recovered panic", "tick", s.tick, "panic", r)
		}
	}()
	fn()
}

// SetSpeed changes the global speed multiplier used for evolve cadences.
func (s *Simulation) SetSpeed(m float64) error {
	if m <= 0 || math.IsNaN(m) || math.IsInf(m, 0) {
		return fmt.Errorf("speed must be a positive number, got %v", m)
	}
	s.mu.Lock()
	s.speed = m
	s.mu.Unlock()
	return nil
}

// Speed returns the global speed multiplier.
func (s *Simulation) Speed() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.speed
}

// TickInterval returns the tick period at the current speed.
func (s *Simulation) TickInterval() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tickInterval()
}

func (s *Simulation) tickInterval() time.Duration {
	return time.Duration(float64(s.cfg.Derived.BaseTick) / s.speed)
}

// RecordFrame marks a rendered frame for the perf window's FPS figure.
func (s *Simulation) RecordFrame() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.perf.RecordFrame()
}

// Perf returns tick timing over the perf window.
func (s *Simulation) Perf() telemetry.PerfStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.perf.Stats()
}

// Log returns the event log.
func (s *Simulation) Log() *eventlog.Log { return s.log }

// Config returns the simulation configuration.
func (s *Simulation) Config() *config.Config { return s.cfg }

// lookupFailed reports whether err came from resolving an id rather than
// from a rule precondition, which the rules already log.
func lookupFailed(err error) bool {
	return errors.Is(err, graph.ErrNotFound) ||
		errors.Is(err, rules.ErrNotAlgorithm) ||
		errors.Is(err, rules.ErrNotCheckpoint)
}

func (s *Simulation) warnLookup(action string, err error) {
	if lookupFailed(err) {
		s.log.Warnf("Cannot %s: %v", action, err)
	}
}
