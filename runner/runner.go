// Package runner drives a periodic tick, plus an optional frame callback, on
// a background goroutine that can be started, stopped and re-timed.
package runner

import (
	"sync"
	"time"
)

// Runner calls tick every interval while running.
type Runner struct {
	mu       sync.Mutex
	interval time.Duration
	tick     func()

	frame   time.Duration
	onFrame func()

	stop chan struct{}
	done chan struct{}
}

// Option configures a Runner.
type Option func(*Runner)

// WithFrame also calls fn every d on the same goroutine.
func WithFrame(d time.Duration, fn func()) Option {
	return func(r *Runner) {
		r.frame = d
		r.onFrame = fn
	}
}

// New creates a stopped runner.
func New(interval time.Duration, tick func(), opts ...Option) *Runner {
	r := &Runner{interval: interval, tick: tick}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Start launches the tick goroutine. Returns false if already running.
func (r *Runner) Start() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stop != nil {
		return false
	}
	r.startLocked()
	return true
}

// Stop halts the goroutine and waits for it to exit, so no tick fires after
// Stop returns. Returns false if not running.
func (r *Runner) Stop() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stop == nil {
		return false
	}
	r.stopLocked()
	return true
}

// Running reports whether the goroutine is active.
func (r *Runner) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stop != nil
}

// Interval returns the current tick interval.
func (r *Runner) Interval() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.interval
}

// SetInterval replaces the tick interval. A running runner is stopped and
// restarted with the new period, so the old ticker never fires again.
func (r *Runner) SetInterval(d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.interval = d
	if r.stop != nil {
		r.stopLocked()
		r.startLocked()
	}
}

func (r *Runner) startLocked() {
	stop := make(chan struct{})
	done := make(chan struct{})
	r.stop, r.done = stop, done
	go r.loop(r.interval, stop, done)
}

func (r *Runner) stopLocked() {
	close(r.stop)
	<-r.done
	r.stop, r.done = nil, nil
}

func (r *Runner) loop(interval time.Duration, stop, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var frames <-chan time.Time
	if r.onFrame != nil && r.frame > 0 {
		ft := time.NewTicker(r.frame)
		defer ft.Stop()
		frames = ft.C
	}

	for {
		// Stop wins over a tick that became ready at the same time.
		select {
		case <-stop:
			return
		default:
		}

		select {
		case <-stop:
			return
		case <-ticker.C:
			r.tick()
		case <-frames:
			r.onFrame()
		}
	}
}
