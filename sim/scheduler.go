package sim

import (
	"fmt"
	"sync"

	"github.com/pthm-cable/agievo/runner"
)

// State is the scheduler lifecycle state.
type State uint8

const (
	Stopped State = iota
	Running
	Paused
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Paused:
		return "paused"
	default:
		return "stopped"
	}
}

// Scheduler drives a Simulation: one tick timer while running, plus the
// frame-cadence timeline pump on the same goroutine.
type Scheduler struct {
	mu     sync.Mutex
	sim    *Simulation
	runner *runner.Runner
	state  State
}

// NewScheduler creates a stopped scheduler for s.
func NewScheduler(s *Simulation) *Scheduler {
	frame := s.Config().Derived.Frame
	return &Scheduler{
		sim: s,
		runner: runner.New(s.TickInterval(), s.Step,
			runner.WithFrame(frame, func() { s.Advance() })),
	}
}

// Start begins or resumes evolution. A running scheduler is left alone.
func (sc *Scheduler) Start() {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.state == Running {
		return
	}
	sc.runner.Start()
	sc.state = Running
	sc.sim.Log().Successf("Evolution process started")
}

// Pause stops ticking. No tick fires after Pause returns.
func (sc *Scheduler) Pause() {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.pauseLocked()
}

func (sc *Scheduler) pauseLocked() {
	if sc.state != Running {
		return
	}
	sc.runner.Stop()
	sc.state = Paused
	sc.sim.Log().Infof("Evolution process paused")
}

// Reset pauses, tears the simulation down and re-initializes it.
func (sc *Scheduler) Reset() {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	sc.pauseLocked()
	sc.sim.Reset()
	sc.state = Stopped
}

// SetSpeed changes the speed multiplier and re-times a running tick timer.
func (sc *Scheduler) SetSpeed(m float64) error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if err := sc.sim.SetSpeed(m); err != nil {
		return fmt.Errorf("set speed: %w", err)
	}
	sc.runner.SetInterval(sc.sim.TickInterval())
	return nil
}

// State returns the lifecycle state.
func (sc *Scheduler) State() State {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.state
}

// Simulation returns the driven simulation.
func (sc *Scheduler) Simulation() *Simulation { return sc.sim }
