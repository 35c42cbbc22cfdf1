// Package eventlog keeps the bounded, severity-tagged activity log shown to users.
package eventlog

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Severity tags an entry for display.
type Severity uint8

const (
	Info Severity = iota
	Success
	Warning
	Error
)

func (s Severity) String() string {
	switch s {
	case Success:
		return "success"
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return "info"
	}
}

// Entry is a single log line.
type Entry struct {
	Time     time.Time
	Severity Severity
	Message  string
}

// Sink receives every entry as it is added.
type Sink interface {
	Write(Entry)
}

// Log is a rolling log holding the newest entries first.
// It is safe for concurrent use.
type Log struct {
	mu       sync.Mutex
	capacity int
	entries  []Entry
	now      func() time.Time
	logger   *slog.Logger
	sinks    []Sink
}

// Option configures a Log.
type Option func(*Log)

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(l *Log) { l.now = now }
}

// WithLogger mirrors entries to the given slog logger instead of slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(l *Log) { l.logger = logger }
}

// WithSink attaches an extra sink.
func WithSink(s Sink) Option {
	return func(l *Log) { l.sinks = append(l.sinks, s) }
}

// New creates a log keeping at most capacity entries.
func New(capacity int, opts ...Option) *Log {
	if capacity < 1 {
		capacity = 100
	}
	l := &Log{
		capacity: capacity,
		entries:  make([]Entry, 0, capacity),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Add records a message. The oldest entry is dropped when full.
func (l *Log) Add(sev Severity, msg string) {
	l.mu.Lock()
	e := Entry{Time: l.now(), Severity: sev, Message: msg}
	if len(l.entries) < l.capacity {
		l.entries = append(l.entries, Entry{})
	}
	copy(l.entries[1:], l.entries[:len(l.entries)-1])
	l.entries[0] = e
	sinks := l.sinks
	l.mu.Unlock()

	l.mirror(e)
	for _, s := range sinks {
		s.Write(e)
	}
}

func (l *Log) mirror(e Entry) {
	logger := l.logger
	if logger == nil {
		logger = slog.Default()
	}
	level := slog.LevelInfo
	switch e.Severity {
	case Warning:
		level = slog.LevelWarn
	case Error:
		level = slog.LevelError
	}
	logger.Log(context.Background(), level, e.Message, "severity", e.Severity.String())
}

func (l *Log) Infof(format string, a ...any)    { l.Add(Info, fmt.Sprintf(format, a...)) }
func (l *Log) Successf(format string, a ...any) { l.Add(Success, fmt.Sprintf(format, a...)) }
func (l *Log) Warnf(format string, a ...any)    { l.Add(Warning, fmt.Sprintf(format, a...)) }
func (l *Log) Errorf(format string, a ...any)   { l.Add(Error, fmt.Sprintf(format, a...)) }

// Entries returns a copy, newest first.
func (l *Log) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of held entries.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Capacity returns the retention limit.
func (l *Log) Capacity() int { return l.capacity }

// Clear drops all entries.
func (l *Log) Clear() {
	l.mu.Lock()
	l.entries = l.entries[:0]
	l.mu.Unlock()
}
