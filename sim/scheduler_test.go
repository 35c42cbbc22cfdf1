package sim

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/agievo/config"
	"github.com/pthm-cable/agievo/eventlog"
)

func fastConfig() *config.Config {
	cfg := config.Default()
	cfg.Simulation.BaseTickMs = 5
	cfg.Simulation.FrameMs = 2
	cfg.ComputeDerived()
	return cfg
}

func TestSchedulerLifecycle(t *testing.T) {
	s, _ := newSimWith(t, fastConfig(), 1)
	sc := NewScheduler(s)
	assert.Equal(t, Stopped, sc.State())

	sc.Start()
	assert.Equal(t, Running, sc.State())
	assert.Eventually(t, func() bool { return s.Snapshot().Tick >= 3 }, 2*time.Second, 5*time.Millisecond)

	sc.Pause()
	assert.Equal(t, Paused, sc.State())
	ticks := s.Snapshot().Tick
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, ticks, s.Snapshot().Tick, "tick fired after pause")

	sc.Start()
	assert.Eventually(t, func() bool { return s.Snapshot().Tick > ticks }, 2*time.Second, 5*time.Millisecond)

	sc.Reset()
	assert.Equal(t, Stopped, sc.State())
	snap := s.Snapshot()
	assert.Zero(t, snap.Tick)
	assert.Equal(t, 3, snap.Checkpoints)

	entries := s.Log().Entries()
	assert.True(t, hasMessage(entries, eventlog.Success, "Evolution process started"))
	assert.True(t, hasMessage(entries, eventlog.Info, "Evolution process paused"))
}

func TestSchedulerStartTwice(t *testing.T) {
	s, _ := newSim(t)
	sc := NewScheduler(s)
	defer sc.Pause()

	sc.Start()
	sc.Start()

	started := 0
	for _, e := range s.Log().Entries() {
		if e.Message == "Evolution process started" {
			started++
		}
	}
	assert.Equal(t, 1, started)
}

func TestSchedulerSetSpeed(t *testing.T) {
	s, _ := newSim(t)
	sc := NewScheduler(s)

	assert.Error(t, sc.SetSpeed(0))
	assert.Error(t, sc.SetSpeed(-2))
	assert.Equal(t, time.Second, sc.runner.Interval())

	require.NoError(t, sc.SetSpeed(4))
	assert.Equal(t, 4.0, s.Speed())
	assert.Equal(t, 250*time.Millisecond, sc.runner.Interval())

	// Re-timing a running scheduler keeps exactly one timer alive.
	sc.Start()
	require.NoError(t, sc.SetSpeed(2))
	assert.True(t, sc.runner.Running())
	assert.Equal(t, 500*time.Millisecond, sc.runner.Interval())
	sc.Pause()
	assert.False(t, sc.runner.Running())
}
