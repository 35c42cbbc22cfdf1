package eventlog

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewestFirst(t *testing.T) {
	l := New(10, WithLogger(quietLogger()))
	l.Infof("first")
	l.Warnf("second")

	entries := l.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "second", entries[0].Message)
	assert.Equal(t, Warning, entries[0].Severity)
	assert.Equal(t, "first", entries[1].Message)
}

func TestBoundedCapacity(t *testing.T) {
	l := New(100, WithLogger(quietLogger()))
	for i := 0; i < 150; i++ {
		l.Infof("entry %d", i)
	}

	entries := l.Entries()
	assert.Len(t, entries, 100)
	assert.Equal(t, "entry 149", entries[0].Message)
	assert.Equal(t, "entry 50", entries[99].Message)
}

func TestClockAndClear(t *testing.T) {
	fixed := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	l := New(5, WithLogger(quietLogger()), WithClock(func() time.Time { return fixed }))
	l.Errorf("boom")
	assert.Equal(t, fixed, l.Entries()[0].Time)

	l.Clear()
	assert.Equal(t, 0, l.Len())
}

func TestMirrorsToSlog(t *testing.T) {
	var buf bytes.Buffer
	l := New(5, WithLogger(slog.New(slog.NewTextHandler(&buf, nil))))
	l.Warnf("careful")

	out := buf.String()
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "severity=warning")
	assert.Contains(t, out, "careful")
}

type recordingSink struct{ got []Entry }

func (r *recordingSink) Write(e Entry) { r.got = append(r.got, e) }

func TestSinks(t *testing.T) {
	rec := &recordingSink{}
	l := New(5, WithLogger(quietLogger()), WithSink(rec))
	l.Successf("done")
	require.Len(t, rec.got, 1)
	assert.Equal(t, Success, rec.got[0].Severity)
}

func TestConsoleSink(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	sink := NewConsoleSink(&buf)
	sink.Write(Entry{Time: time.Now(), Severity: Error, Message: "crashed"})
	sink.Write(Entry{Time: time.Now(), Severity: Info, Message: "hello"})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "✗ crashed")
	assert.Contains(t, lines[1], "hello")
}

func TestSeverityString(t *testing.T) {
	for sev, want := range map[Severity]string{Info: "info", Success: "success", Warning: "warning", Error: "error"} {
		assert.Equal(t, want, sev.String(), fmt.Sprint(sev))
	}
}
