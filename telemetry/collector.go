// Package telemetry provides windowed simulation statistics, milestone
// bookmarks, per-phase timing and CSV output.
package telemetry

import "github.com/pthm-cable/agievo/components"

// Collector accumulates rule outcomes within tick windows and produces WindowStats.
type Collector struct {
	windowTicks int
	tickPeriod  float64 // seconds per tick at speed 1

	windowStartTick int

	// Event counters for current window
	algorithmBirths  int
	checkpointBirths int
	removals         int
	connections      int
	transfers        int
	crashes          int
	recoveries       int
}

// NewCollector creates a collector that flushes every windowTicks ticks.
// tickPeriod converts ticks to simulated seconds.
func NewCollector(windowTicks int, tickPeriod float64) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return &Collector{
		windowTicks: windowTicks,
		tickPeriod:  tickPeriod,
	}
}

// RecordBirth records a new node.
func (c *Collector) RecordBirth(kind components.Kind) {
	if kind == components.KindAlgorithm {
		c.algorithmBirths++
	} else {
		c.checkpointBirths++
	}
}

// RecordRemoval records a removed node.
func (c *Collector) RecordRemoval(components.Kind) {
	c.removals++
}

// RecordConnection records a new edge.
func (c *Collector) RecordConnection() {
	c.connections++
}

// RecordTransfer records a completed automatic signal.
func (c *Collector) RecordTransfer() {
	c.transfers++
}

// RecordCrash records an algorithm entering the crashed state.
func (c *Collector) RecordCrash() {
	c.crashes++
}

// RecordRecovery records a crashed algorithm that survived.
func (c *Collector) RecordRecovery() {
	c.recoveries++
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int) bool {
	return currentTick-c.windowStartTick >= c.windowTicks
}

// Sample is the end-of-window state the caller measures from the graph.
type Sample struct {
	Algorithms        int
	Checkpoints       int
	Edges             int
	Generation        int
	IntelligenceLevel float64
	TotalKnowledge    float64
	Intelligence      []float64 // one value per algorithm
	ResourceUse       []float64 // usage/limit per non-primary algorithm
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick int, s Sample) WindowStats {
	mean, std, p10, p50, p90 := ComputeDistribution(s.Intelligence)
	resMean, _, _, _, resP90 := ComputeDistribution(s.ResourceUse)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * c.tickPeriod,

		Algorithms:  s.Algorithms,
		Checkpoints: s.Checkpoints,
		Edges:       s.Edges,
		Generation:  s.Generation,

		AlgorithmBirths:  c.algorithmBirths,
		CheckpointBirths: c.checkpointBirths,
		Removals:         c.removals,
		Connections:      c.connections,
		Transfers:        c.transfers,
		Crashes:          c.crashes,
		Recoveries:       c.recoveries,

		IntelligenceLevel: s.IntelligenceLevel,
		IntelligenceMean:  mean,
		IntelligenceStd:   std,
		IntelligenceP10:   p10,
		IntelligenceP50:   p50,
		IntelligenceP90:   p90,

		ResourceUseMean: resMean,
		ResourceUseP90:  resP90,
		TotalKnowledge:  s.TotalKnowledge,
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.algorithmBirths = 0
	c.checkpointBirths = 0
	c.removals = 0
	c.connections = 0
	c.transfers = 0
	c.crashes = 0
	c.recoveries = 0

	return stats
}

// Reset drops the current window, e.g. after a simulation reset.
func (c *Collector) Reset() {
	*c = Collector{windowTicks: c.windowTicks, tickPeriod: c.tickPeriod}
}

// WindowTicks returns the number of ticks per window.
func (c *Collector) WindowTicks() int {
	return c.windowTicks
}
