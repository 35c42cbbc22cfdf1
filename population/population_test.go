package population

import (
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/agievo/config"
	"github.com/pthm-cable/agievo/eventlog"
	"github.com/pthm-cable/agievo/rng"
)

func newNet(t *testing.T, cfg *config.Config, src rng.Source) *Network {
	t.Helper()
	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	n := New(cfg, src, WithLog(eventlog.New(cfg.Log.Capacity, eventlog.WithLogger(quiet))))
	n.Initialize()
	return n
}

// addSub inserts a member directly so setup consumes no random draws.
func addSub(n *Network, id, parent string, eff float64, gen int) {
	n.add(Member{ID: id, Parent: parent, Efficiency: eff, Generation: gen, Size: 30})
	if p := n.member(parent); p != nil {
		p.Children = append(p.Children, id)
	}
}

func TestLearn(t *testing.T) {
	cfg := config.Default().Population

	m := &Member{Efficiency: 50, LearningRate: 0.1}
	m.Learn(cfg, rng.NewSequence(0.5))
	assert.InDelta(t, 50+0.1*(1-50/95.0), m.Efficiency, 1e-9)
	assert.InDelta(t, 0.1*(1-50/95.0), m.LastImprovement, 1e-9)
	assert.Equal(t, 1, m.Age)

	top := &Member{Efficiency: 95, LearningRate: 0.2}
	top.Learn(cfg, rng.NewSequence(0.99))
	assert.Equal(t, 95.0, top.Efficiency)

	bottom := &Member{Efficiency: 0}
	bottom.Learn(cfg, rng.NewSequence(0))
	assert.Equal(t, 0.0, bottom.Efficiency)

	seq := rng.NewSequence(0.9)
	main := &Member{Main: true, Efficiency: 100, LearningRate: 0.2}
	main.Learn(cfg, seq)
	assert.Equal(t, 100.0, main.Efficiency)
	assert.Equal(t, 1, main.Age)
	assert.Zero(t, seq.Consumed())
}

func TestStatus(t *testing.T) {
	cases := []struct {
		m    Member
		want string
	}{
		{Member{Main: true, Efficiency: 10}, "Supervising"},
		{Member{Efficiency: 91}, "Excellent"},
		{Member{Efficiency: 90}, "Efficient"},
		{Member{Efficiency: 76}, "Efficient"},
		{Member{Efficiency: 60}, "Learning"},
		{Member{Efficiency: 50}, "Developing"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, c.m.Status(), "efficiency %.0f", c.m.Efficiency)
	}

	info := (&Member{ID: "sub-1", Efficiency: 80, Generation: 2}).Info()
	assert.Equal(t, "Sub-Algorithm", info.Type)
	assert.Equal(t, "Efficient", info.Status)
}

func TestInitialize(t *testing.T) {
	n := newNet(t, config.Default(), rng.New(1))
	n.Initialize()

	require.Equal(t, 1, n.Len())
	info, ok := n.Info(MainID)
	require.True(t, ok)
	assert.Equal(t, "Main Algorithm", info.Type)
	assert.Equal(t, AdminSpecialization, info.Specialization)
	assert.Equal(t, 100.0, info.Efficiency)
	assert.Zero(t, info.Generation)
}

func TestGenerateSubAlgorithm(t *testing.T) {
	n := newNet(t, config.Default(), rng.New(1))
	n.rand = rng.NewSequence(0.5, 0.5, 0.5, 0)

	id, ok := n.GenerateSubAlgorithm()
	require.True(t, ok)
	assert.Equal(t, "sub-1", id)

	members := n.Members()
	require.Len(t, members, 2)
	sub := members[1]
	assert.Equal(t, MainID, sub.Parent)
	assert.Equal(t, 1, sub.Generation)
	assert.InDelta(t, 55, sub.Efficiency, 1e-9)
	assert.InDelta(t, 0.15, sub.LearningRate, 1e-9)
	assert.InDelta(t, 0.7, sub.Intensity, 1e-9)
	assert.Equal(t, 32.0, sub.Size)
	assert.Equal(t, Specializations[0], sub.Specialization)
	assert.Equal(t, []string{"sub-1"}, members[0].Children)

	assert.Equal(t, 3, n.GenerateBatch(3))
	assert.Equal(t, 5, n.Len())
}

func TestGenerateWithoutMain(t *testing.T) {
	n := New(config.Default(), rng.New(1))
	_, ok := n.GenerateSubAlgorithm()
	assert.False(t, ok)
	assert.Zero(t, n.GenerateBatch(4))
}

func TestSelectParent(t *testing.T) {
	n := newNet(t, config.Default(), rng.New(1))

	seq := rng.NewSequence(0.9)
	n.rand = seq
	assert.Equal(t, MainID, n.SelectParent())
	assert.Zero(t, seq.Consumed(), "small populations always pick main")

	// main is full, so candidates rank s2, s4, s3, s5, s1 and the top two are eligible.
	for i, eff := range []float64{40, 80, 60, 70, 50} {
		addSub(n, []string{"s1", "s2", "s3", "s4", "s5"}[i], MainID, eff, 1)
	}

	n.rand = rng.NewSequence(0.29)
	assert.Equal(t, MainID, n.SelectParent())

	n.rand = rng.NewSequence(0.5, 0)
	assert.Equal(t, "s2", n.SelectParent())

	n.rand = rng.NewSequence(0.5, 0.99)
	assert.Equal(t, "s4", n.SelectParent())
}

func TestSelectParentZeroTopCandidates(t *testing.T) {
	cfg := config.Default()
	cfg.Population.TopCandidates = 0
	n := newNet(t, cfg, rng.New(1))
	for i, eff := range []float64{40, 80, 60, 70, 50} {
		addSub(n, []string{"s1", "s2", "s3", "s4", "s5"}[i], MainID, eff, 1)
	}

	n.rand = rng.NewSequence(0.5, 0.99)
	assert.Equal(t, "s2", n.SelectParent(), "the best candidate is always eligible")
}

func TestSelectParentSkipsExhausted(t *testing.T) {
	cfg := config.Default()
	n := newNet(t, cfg, rng.New(1))
	for i, id := range []string{"s1", "s2", "s3", "s4", "s5"} {
		addSub(n, id, MainID, float64(50+i), cfg.Population.MaxGeneration)
	}

	n.rand = rng.NewSequence(0.5, 0.99)
	assert.Equal(t, MainID, n.SelectParent(), "no eligible candidates falls back to main")
}

func TestRunCycleSpawnCadence(t *testing.T) {
	n := newNet(t, config.Default(), rng.New(3))

	for i := 1; i <= 4; i++ {
		stats := n.RunCycle()
		assert.Equal(t, i, stats.Cycle)
		assert.Equal(t, 1, stats.Total)
	}
	assert.Equal(t, 2, n.RunCycle().Total)
	assert.Equal(t, 5, n.Cycle())
}

func TestRunCycleReplacesAtCap(t *testing.T) {
	cfg := config.Default()
	cfg.Population.Cap = 6
	n := newNet(t, cfg, rng.New(7))
	require.Equal(t, 5, n.GenerateBatch(5))

	for i := 1; i < 10; i++ {
		stats := n.RunCycle()
		assert.Equal(t, 6, stats.Total)
		assert.Zero(t, stats.Replacements)
	}

	stats := n.RunCycle()
	assert.Equal(t, 10, stats.Cycle)
	assert.Equal(t, 6, stats.Total)
	assert.Equal(t, 1, stats.Replacements)
	assert.Equal(t, 1, n.Replacements())
}

func TestReplaceWeakestOrphansChildren(t *testing.T) {
	n := newNet(t, config.Default(), rng.New(1))
	addSub(n, "sub-1", MainID, 10, 1)
	addSub(n, "sub-2", "sub-1", 50, 2)
	n.nextSub = 2

	removed, added := n.ReplaceWeakest()
	assert.Equal(t, "sub-1", removed)
	assert.Equal(t, "sub-3", added)
	assert.Equal(t, 1, n.Replacements())

	_, ok := n.Info("sub-1")
	assert.False(t, ok)

	byID := map[string]View{}
	for _, m := range n.Members() {
		byID[m.ID] = m
	}
	assert.Empty(t, byID["sub-2"].Parent)
	assert.Equal(t, []string{"sub-3"}, byID[MainID].Children)
	assert.Equal(t, MainID, byID["sub-3"].Parent)

	entries := n.Log().Entries()
	require.NotEmpty(t, entries)
	assert.Equal(t, eventlog.Warning, entries[0].Severity)
	assert.Equal(t, "Replaced weakest algorithm sub-1 with sub-3", entries[0].Message)
}

func TestReplaceWeakestMainOnly(t *testing.T) {
	n := newNet(t, config.Default(), rng.New(1))
	removed, added := n.ReplaceWeakest()
	assert.Empty(t, removed)
	assert.Empty(t, added)
	assert.Zero(t, n.Replacements())
	assert.Equal(t, 1, n.Len())
}

func TestStatistics(t *testing.T) {
	n := newNet(t, config.Default(), rng.New(1))
	addSub(n, "sub-1", MainID, 40, 1)
	addSub(n, "sub-2", "sub-1", 70, 2)

	stats := n.Statistics()
	assert.Equal(t, 3, stats.Population)
	assert.Equal(t, 2, stats.MaxGeneration)
	assert.InDelta(t, 70, stats.EfficiencyMean, 1e-9)
	assert.InDelta(t, 30, stats.EfficiencyStd, 1e-9)
	assert.InDelta(t, 70, stats.EfficiencyP50, 1e-9)
	assert.InDelta(t, 100, stats.EfficiencyMax, 1e-9)
	assert.InDelta(t, 1, stats.GenerationMean, 1e-9)

	assert.Equal(t, map[int]int{0: 1, 1: 1, 2: 1}, n.GenerationDistribution())
}

func TestStatisticsEmpty(t *testing.T) {
	n := New(config.Default(), rng.New(1))
	stats := n.Statistics()
	assert.Zero(t, stats.Population)
	assert.Zero(t, stats.EfficiencyMax)
}

func TestLayoutAndHitTest(t *testing.T) {
	n := newNet(t, config.Default(), rng.New(1))
	addSub(n, "sub-1", MainID, 60, 1)

	positions := n.Layout()
	require.Len(t, positions, 2)
	assert.Zero(t, positions[MainID].X)
	assert.Zero(t, positions[MainID].Y)

	id, ok := n.At(0, 0)
	require.True(t, ok)
	assert.Equal(t, MainID, id)

	sub := positions["sub-1"]
	assert.NotEqual(t, positions[MainID], sub)
	id, ok = n.At(sub.X, sub.Y)
	require.True(t, ok)
	assert.Equal(t, "sub-1", id)

	for _, m := range n.Members() {
		assert.Equal(t, positions[m.ID].X, m.X)
		assert.Equal(t, positions[m.ID].Y, m.Y)
	}

	_, ok = n.At(10000, 10000)
	assert.False(t, ok)
}

func TestStartPause(t *testing.T) {
	cfg := config.Default()
	cfg.Population.TickMs = 5
	cfg.ComputeDerived()
	n := newNet(t, cfg, rng.New(1))
	assert.Equal(t, "Inactive", n.MainStatus())

	require.True(t, n.Start())
	assert.False(t, n.Start())
	assert.Equal(t, "Active", n.MainStatus())
	assert.Eventually(t, func() bool { return n.Cycle() >= 2 }, 2*time.Second, 5*time.Millisecond)

	require.True(t, n.Pause())
	assert.False(t, n.Pause())
	cycles := n.Cycle()
	time.Sleep(25 * time.Millisecond)
	assert.Equal(t, cycles, n.Cycle())
	assert.Equal(t, "Paused", n.MainStatus())
}

// failingSource panics on every draw.
type failingSource struct{}

func (failingSource) Float64() float64 { panic("rng exhausted") }
func (failingSource) Intn(int) int     { panic("rng exhausted") }

func TestRunCycleRecoversFromPanic(t *testing.T) {
	n := newNet(t, config.Default(), rng.New(1))
	addSub(n, "s1", MainID, 10, 1)
	n.rand = failingSource{}

	var stats CycleStats
	assert.NotPanics(t, func() { stats = n.RunCycle() })
	assert.Equal(t, 1, stats.Cycle)
	assert.Equal(t, 2, stats.Total)

	found := false
	for _, e := range n.Log().Entries() {
		if e.Severity == eventlog.Error && strings.Contains(e.Message, "rng exhausted") {
			found = true
		}
	}
	assert.True(t, found, "panic is recorded in the event log")

	// The lock was released and the next cycle runs normally.
	n.rand = rng.New(2)
	assert.Equal(t, 2, n.RunCycle().Cycle)
}
