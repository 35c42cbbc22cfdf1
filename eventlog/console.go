package eventlog

import (
	"io"
	"os"

	"github.com/fatih/color"
)

func init() {
	// Users can disable with NO_COLOR environment variable
	if os.Getenv("NO_COLOR") != "" {
		color.NoColor = true
	}
}

var (
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed, color.Bold)
)

// ConsoleSink prints entries in colour, one per line.
type ConsoleSink struct {
	w io.Writer
}

// NewConsoleSink writes to w, or stderr when w is nil.
func NewConsoleSink(w io.Writer) *ConsoleSink {
	if w == nil {
		w = os.Stderr
	}
	return &ConsoleSink{w: w}
}

func (c *ConsoleSink) Write(e Entry) {
	stamp := e.Time.Format("15:04:05")
	switch e.Severity {
	case Success:
		green.Fprintf(c.w, "%s ✓ %s\n", stamp, e.Message)
	case Warning:
		yellow.Fprintf(c.w, "%s ⚠ %s\n", stamp, e.Message)
	case Error:
		red.Fprintf(c.w, "%s ✗ %s\n", stamp, e.Message)
	default:
		color.New(color.Reset).Fprintf(c.w, "%s   %s\n", stamp, e.Message)
	}
}
