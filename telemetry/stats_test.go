package telemetry

import (
	"math"
	"testing"

	"github.com/pthm-cable/agievo/components"
)

func TestPercentile(t *testing.T) {
	tests := []struct {
		name   string
		sorted []float64
		p      float64
		want   float64
	}{
		{"empty slice", []float64{}, 0.5, 0},
		{"single element", []float64{5.0}, 0.5, 5.0},
		{"p0", []float64{1, 2, 3, 4, 5}, 0.0, 1.0},
		{"p100", []float64{1, 2, 3, 4, 5}, 1.0, 5.0},
		{"p50 odd", []float64{1, 2, 3, 4, 5}, 0.5, 3.0},
		{"p50 even", []float64{1, 2, 3, 4}, 0.5, 2.0},
		{"p10", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.1, 1.0},
		{"p90", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.9, 9.0},
		{"out of range", []float64{1, 2, 3}, 1.5, 3.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Percentile(tt.sorted, tt.p)
			if math.Abs(got-tt.want) > 0.001 {
				t.Errorf("Percentile(%v, %v) = %v, want %v", tt.sorted, tt.p, got, tt.want)
			}
		})
	}
}

func TestComputeDistribution(t *testing.T) {
	values := []float64{1.0, 0.9, 0.8, 0.7, 0.6, 0.5, 0.4, 0.3, 0.2, 0.1}
	mean, std, p10, p50, p90 := ComputeDistribution(values)

	if math.Abs(mean-0.55) > 0.001 {
		t.Errorf("mean = %v, want 0.55", mean)
	}
	if math.Abs(std-0.3028) > 0.001 {
		t.Errorf("std = %v, want ~0.3028", std)
	}
	if math.Abs(p10-0.1) > 0.001 {
		t.Errorf("p10 = %v, want 0.1", p10)
	}
	if math.Abs(p50-0.5) > 0.001 {
		t.Errorf("p50 = %v, want 0.5", p50)
	}
	if math.Abs(p90-0.9) > 0.001 {
		t.Errorf("p90 = %v, want 0.9", p90)
	}

	// Input order is preserved.
	if values[0] != 1.0 {
		t.Error("ComputeDistribution sorted its input")
	}
}

func TestComputeDistributionEdgeCases(t *testing.T) {
	mean, std, p10, p50, p90 := ComputeDistribution(nil)
	if mean != 0 || std != 0 || p10 != 0 || p50 != 0 || p90 != 0 {
		t.Error("empty slice should return all zeros")
	}

	mean, std, _, p50, _ = ComputeDistribution([]float64{2.5})
	if mean != 2.5 || std != 0 || p50 != 2.5 {
		t.Errorf("single value = (%v, %v, %v), want (2.5, 0, 2.5)", mean, std, p50)
	}
}

func TestCollectorFlush(t *testing.T) {
	c := NewCollector(10, 1.0)

	c.RecordBirth(components.KindAlgorithm)
	c.RecordBirth(components.KindAlgorithm)
	c.RecordBirth(components.KindCheckpoint)
	c.RecordRemoval(components.KindAlgorithm)
	c.RecordConnection()
	c.RecordTransfer()
	c.RecordCrash()
	c.RecordRecovery()

	if c.ShouldFlush(9) {
		t.Error("ShouldFlush(9) = true, want false")
	}
	if !c.ShouldFlush(10) {
		t.Error("ShouldFlush(10) = false, want true")
	}

	stats := c.Flush(10, Sample{
		Algorithms:        3,
		Checkpoints:       2,
		Generation:        1,
		IntelligenceLevel: 2,
		Intelligence:      []float64{1, 2, 3},
	})

	if stats.AlgorithmBirths != 2 || stats.CheckpointBirths != 1 {
		t.Errorf("births = (%d, %d), want (2, 1)", stats.AlgorithmBirths, stats.CheckpointBirths)
	}
	if stats.Removals != 1 || stats.Crashes != 1 || stats.Recoveries != 1 {
		t.Errorf("removals/crashes/recoveries = (%d, %d, %d), want all 1", stats.Removals, stats.Crashes, stats.Recoveries)
	}
	if stats.SimTimeSec != 10 {
		t.Errorf("SimTimeSec = %v, want 10", stats.SimTimeSec)
	}
	if math.Abs(stats.IntelligenceMean-2) > 1e-9 {
		t.Errorf("IntelligenceMean = %v, want 2", stats.IntelligenceMean)
	}

	// Counters reset and the window restarts at the flush tick.
	next := c.Flush(20, Sample{})
	if next.AlgorithmBirths != 0 || next.Transfers != 0 {
		t.Error("counters not reset after flush")
	}
	if next.WindowStartTick != 10 {
		t.Errorf("WindowStartTick = %d, want 10", next.WindowStartTick)
	}
}
