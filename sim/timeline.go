package sim

import (
	"sort"
	"time"
)

// SignalView is an in-flight transfer animation for the renderer.
type SignalView struct {
	EdgeID    string
	Progress  float64 // 0 at the source, 1 at the target
	Automatic bool
}

// timed is a cancelable task with an explicit start, duration and continuation.
type timed struct {
	seq      int
	start    time.Time
	duration time.Duration
	edgeID   string // empty for plain delayed tasks
	auto     bool
	done     func() // nil for manual signals
}

func (t *timed) due() time.Time { return t.start.Add(t.duration) }

// Timeline schedules signals and delayed tasks on the simulation clock.
// It is not safe for concurrent use; Simulation serializes access.
type Timeline struct {
	now   func() time.Time
	seq   int
	items []*timed
}

// NewTimeline creates an empty timeline reading time from now.
func NewTimeline(now func() time.Time) *Timeline {
	return &Timeline{now: now}
}

// Signal starts a transfer animation along edgeID. done runs once the signal
// arrives; a nil done makes it a purely visual signal.
func (t *Timeline) Signal(edgeID string, d time.Duration, done func()) {
	t.push(&timed{edgeID: edgeID, duration: d, auto: done != nil, done: done})
}

// After runs fn once d has elapsed.
func (t *Timeline) After(d time.Duration, fn func()) {
	t.push(&timed{duration: d, done: fn})
}

func (t *Timeline) push(item *timed) {
	t.seq++
	item.seq = t.seq
	item.start = t.now()
	t.items = append(t.items, item)
}

// Advance completes everything due, in due order, and returns how many items
// finished. Work scheduled by a continuation waits for the next Advance.
func (t *Timeline) Advance(run func(func())) int {
	now := t.now()

	var due, pending []*timed
	for _, item := range t.items {
		if !item.due().After(now) {
			due = append(due, item)
		} else {
			pending = append(pending, item)
		}
	}
	if len(due) == 0 {
		return 0
	}
	t.items = pending

	sort.SliceStable(due, func(i, j int) bool {
		di, dj := due[i].due(), due[j].due()
		if !di.Equal(dj) {
			return di.Before(dj)
		}
		return due[i].seq < due[j].seq
	})
	for _, item := range due {
		if item.done != nil {
			run(item.done)
		}
	}
	return len(due)
}

// Cancel drops every pending signal and task without running them.
func (t *Timeline) Cancel() {
	t.items = nil
}

// Pending returns the number of unfinished items.
func (t *Timeline) Pending() int {
	return len(t.items)
}

// Signals returns the in-flight signals with their progress.
func (t *Timeline) Signals() []SignalView {
	now := t.now()
	var out []SignalView
	for _, item := range t.items {
		if item.edgeID == "" {
			continue
		}
		p := 1.0
		if item.duration > 0 {
			p = float64(now.Sub(item.start)) / float64(item.duration)
		}
		out = append(out, SignalView{
			EdgeID:    item.edgeID,
			Progress:  min(max(p, 0), 1),
			Automatic: item.auto,
		})
	}
	return out
}
