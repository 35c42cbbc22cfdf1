package telemetry

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"github.com/google/uuid"

	"github.com/pthm-cable/agievo/config"
)

// OutputManager handles structured run output with CSV logging.
// Every row is stamped with the run id.
type OutputManager struct {
	dir   string
	runID string

	telemetry  *csvStream
	perf       *csvStream
	bookmarks  *csvStream
	population *csvStream
}

// csvStream is one CSV file that writes its header with the first record.
type csvStream struct {
	file          *os.File
	headerWritten bool
}

// writeRow appends one record to s, emitting the header on first use.
func writeRow[T any](s *csvStream, what string, row T) error {
	rows := []T{row}
	var err error
	if s.headerWritten {
		err = gocsv.MarshalWithoutHeaders(rows, s.file)
	} else {
		err = gocsv.Marshal(rows, s.file)
		s.headerWritten = err == nil
	}
	if err != nil {
		return fmt.Errorf("writing %s: %w", what, err)
	}
	return nil
}

// NewOutputManager creates a new output manager under dir/<run id>.
// Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	runID := uuid.NewString()
	runDir := filepath.Join(dir, runID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: runDir, runID: runID}
	for _, f := range []struct {
		name   string
		stream **csvStream
	}{
		{"telemetry.csv", &om.telemetry},
		{"perf.csv", &om.perf},
		{"bookmarks.csv", &om.bookmarks},
		{"population.csv", &om.population},
	} {
		file, err := os.Create(filepath.Join(runDir, f.name))
		if err != nil {
			om.Close()
			return nil, fmt.Errorf("creating %s: %w", f.name, err)
		}
		*f.stream = &csvStream{file: file}
	}

	return om, nil
}

// WriteConfig saves the current configuration as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	configPath := filepath.Join(om.dir, "config.yaml")
	return cfg.WriteYAML(configPath)
}

// WriteTelemetry writes a window stats record to telemetry.csv.
func (om *OutputManager) WriteTelemetry(stats WindowStats) error {
	if om == nil {
		return nil
	}
	stats.RunID = om.runID
	return writeRow(om.telemetry, "telemetry", stats)
}

// WritePerf writes a performance stats record to perf.csv.
func (om *OutputManager) WritePerf(stats PerfStats, windowEnd int) error {
	if om == nil {
		return nil
	}
	record := stats.ToCSV(windowEnd)
	record.RunID = om.runID
	return writeRow(om.perf, "perf", record)
}

// WriteBookmark writes a bookmark record to bookmarks.csv.
func (om *OutputManager) WriteBookmark(b Bookmark) error {
	if om == nil {
		return nil
	}
	b.RunID = om.runID
	return writeRow(om.bookmarks, "bookmark", b)
}

// WritePopulation writes a population statistics record to population.csv.
func (om *OutputManager) WritePopulation(stats PopulationStats) error {
	if om == nil {
		return nil
	}
	stats.RunID = om.runID
	return writeRow(om.population, "population", stats)
}

// Dir returns the run output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// RunID returns the id stamped on every row.
func (om *OutputManager) RunID() string {
	if om == nil {
		return ""
	}
	return om.runID
}

// Close closes all output files, joining any errors.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}

	var errs []error
	for _, s := range []*csvStream{om.telemetry, om.perf, om.bookmarks, om.population} {
		if s != nil && s.file != nil {
			errs = append(errs, s.file.Close())
		}
	}
	return errors.Join(errs...)
}
