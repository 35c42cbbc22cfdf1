package runner

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunnerTicks(t *testing.T) {
	var n atomic.Int32
	r := New(5*time.Millisecond, func() { n.Add(1) })

	require.True(t, r.Start())
	assert.False(t, r.Start(), "second Start is a no-op")
	assert.Eventually(t, func() bool { return n.Load() >= 3 }, time.Second, time.Millisecond)

	require.True(t, r.Stop())
	assert.False(t, r.Running())
}

func TestRunnerStopHaltsTicks(t *testing.T) {
	var n atomic.Int32
	r := New(2*time.Millisecond, func() { n.Add(1) })
	r.Start()
	assert.Eventually(t, func() bool { return n.Load() >= 1 }, time.Second, time.Millisecond)

	r.Stop()
	after := n.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, after, n.Load(), "no tick may fire after Stop returns")
	assert.False(t, r.Stop(), "Stop on a stopped runner")
}

func TestRunnerSetInterval(t *testing.T) {
	var n atomic.Int32
	r := New(time.Hour, func() { n.Add(1) })
	r.Start()
	defer r.Stop()

	r.SetInterval(2 * time.Millisecond)
	assert.Equal(t, 2*time.Millisecond, r.Interval())
	assert.True(t, r.Running())
	assert.Eventually(t, func() bool { return n.Load() >= 2 }, time.Second, time.Millisecond)
}

func TestRunnerSetIntervalWhileStopped(t *testing.T) {
	r := New(time.Second, func() {})
	r.SetInterval(10 * time.Millisecond)
	assert.False(t, r.Running())
	assert.Equal(t, 10*time.Millisecond, r.Interval())
}

func TestRunnerFrames(t *testing.T) {
	var ticks, frames atomic.Int32
	r := New(time.Hour, func() { ticks.Add(1) }, WithFrame(time.Millisecond, func() { frames.Add(1) }))
	r.Start()
	assert.Eventually(t, func() bool { return frames.Load() >= 3 }, time.Second, time.Millisecond)
	r.Stop()
	assert.Zero(t, ticks.Load())
}
