package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/agievo/config"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute(), buf.String())
	return buf.String()
}

// runDir returns the single run directory created under dir.
func runDir(t *testing.T, dir string) string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.True(t, entries[0].IsDir())
	return filepath.Join(dir, entries[0].Name())
}

func TestVersion(t *testing.T) {
	out := execute(t, "version")
	assert.Contains(t, out, "agievo dev")
}

func TestRootShowsCommands(t *testing.T) {
	out := execute(t, "--help")
	for _, name := range []string{"run", "population", "view", "optimize", "version"} {
		assert.Contains(t, out, name)
	}
}

func TestRunHeadless(t *testing.T) {
	dir := t.TempDir()
	execute(t, "run", "--max-ticks", "25", "--seed", "3", "--quiet", "--output-dir", dir)

	run := runDir(t, dir)
	assert.FileExists(t, filepath.Join(run, "config.yaml"))

	data, err := os.ReadFile(filepath.Join(run, "telemetry.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "intelligence_level")
}

func TestRunRejectsBadSpeed(t *testing.T) {
	rootCmd.SetArgs([]string{"run", "--max-ticks", "1", "--quiet", "--speed", "0", "--output-dir", ""})
	rootCmd.SetOut(new(bytes.Buffer))
	rootCmd.SetErr(new(bytes.Buffer))
	assert.Error(t, rootCmd.Execute())
	speed = 1
}

func TestPopulationHeadless(t *testing.T) {
	dir := t.TempDir()
	execute(t, "population", "--max-cycles", "20", "--initial", "3", "--seed", "1", "--quiet", "--output-dir", dir)

	data, err := os.ReadFile(filepath.Join(runDir(t, dir), "population.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "efficiency_mean")
}

func TestOptimize(t *testing.T) {
	dir := t.TempDir()
	out := execute(t, "optimize", "--cycles", "15", "--seeds", "1", "--max-evals", "4", "--population", "4",
		"--seed", "5", "--quiet", "--output-dir", dir)
	assert.Contains(t, out, "Best parameters:")

	run := runDir(t, dir)
	assert.FileExists(t, filepath.Join(run, "best_config.yaml"))
	data, err := os.ReadFile(filepath.Join(run, "optimize_log.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "main_bias_chance")

	_, err = config.Load(filepath.Join(run, "best_config.yaml"))
	assert.NoError(t, err)
}
