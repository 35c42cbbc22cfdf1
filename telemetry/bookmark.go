package telemetry

import (
	"fmt"
	"log/slog"

	"gonum.org/v1/gonum/stat"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkIntelligenceBreakthrough BookmarkType = "intelligence_breakthrough"
	BookmarkPrimaryLeap              BookmarkType = "primary_leap"
	BookmarkCrashWave                BookmarkType = "crash_wave"
	BookmarkPopulationRecovery       BookmarkType = "population_recovery"
	BookmarkPopulationCollapse       BookmarkType = "population_collapse"
	BookmarkStableNetwork            BookmarkType = "stable_network"
)

// Bookmark marks a window worth revisiting.
type Bookmark struct {
	RunID       string       `csv:"run_id"`
	Type        BookmarkType `csv:"type"`
	Tick        int          `csv:"tick"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

const (
	stableSpan    = 4    // windows compared for stability
	stableStreak  = 5    // consecutive stable windows before bookmarking
	stableMaxCV2  = 0.04 // squared coefficient of variation
	stableMinSize = 5
)

// rule inspects the newest window against the history, which holds the
// previous windows oldest first.
type rule func(bd *BookmarkDetector, history []WindowStats, stats WindowStats) (string, bool)

// BookmarkDetector watches window statistics for notable moments.
type BookmarkDetector struct {
	limit   int
	history []WindowStats

	low, peak int // algorithm count extremes since the last reset
	streak    int // consecutive stable windows

	rules []struct {
		typ   BookmarkType
		check rule
	}
}

// NewBookmarkDetector creates a detector remembering limit windows (at least 5).
func NewBookmarkDetector(limit int) *BookmarkDetector {
	if limit < stableMinSize {
		limit = stableMinSize
	}
	bd := &BookmarkDetector{limit: limit, history: make([]WindowStats, 0, limit)}
	bd.rules = []struct {
		typ   BookmarkType
		check rule
	}{
		{BookmarkIntelligenceBreakthrough, (*BookmarkDetector).breakthrough},
		{BookmarkPrimaryLeap, (*BookmarkDetector).primaryLeap},
		{BookmarkCrashWave, (*BookmarkDetector).crashWave},
		{BookmarkPopulationRecovery, (*BookmarkDetector).recovery},
		{BookmarkPopulationCollapse, (*BookmarkDetector).collapse},
		{BookmarkStableNetwork, (*BookmarkDetector).stable},
	}
	return bd
}

// Check records stats and returns the bookmarks it triggers.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var out []Bookmark
	if len(bd.history) > 0 {
		for _, r := range bd.rules {
			if desc, ok := r.check(bd, bd.history, stats); ok {
				out = append(out, Bookmark{Type: r.typ, Tick: stats.WindowEndTick, Description: desc})
			}
		}
	}

	if len(bd.history) == bd.limit {
		copy(bd.history, bd.history[1:])
		bd.history = bd.history[:bd.limit-1]
	}
	bd.history = append(bd.history, stats)

	if bd.low == 0 || stats.Algorithms < bd.low {
		bd.low = stats.Algorithms
	}
	bd.peak = max(bd.peak, stats.Algorithms)
	return out
}

// breakthrough fires when mean intelligence rises by more than twice the
// average window gain.
func (bd *BookmarkDetector) breakthrough(history []WindowStats, stats WindowStats) (string, bool) {
	if len(history) < 3 {
		return "", false
	}
	n := len(history)
	avgGain := (history[n-1].IntelligenceMean - history[0].IntelligenceMean) / float64(n-1)
	if avgGain <= 0 {
		return "", false
	}
	gain := stats.IntelligenceMean - history[n-1].IntelligenceMean
	if gain <= 2*avgGain || gain <= 0.1 {
		return "", false
	}
	return fmt.Sprintf("Mean intelligence rose %.2f, %.1fx the average gain (%.2f)", gain, gain/avgGain, avgGain), true
}

// primaryLeap fires when the primary-weighted level grows by a quarter in
// one window.
func (bd *BookmarkDetector) primaryLeap(history []WindowStats, stats WindowStats) (string, bool) {
	prev := history[len(history)-1].IntelligenceLevel
	if prev <= 0 || stats.IntelligenceLevel < prev*1.25 {
		return "", false
	}
	return fmt.Sprintf("Intelligence level jumped from %.2f to %.2f", prev, stats.IntelligenceLevel), true
}

func (bd *BookmarkDetector) crashWave(history []WindowStats, stats WindowStats) (string, bool) {
	if len(history) < 3 || stats.Crashes < 3 {
		return "", false
	}
	crashes := make([]float64, len(history))
	for i, h := range history {
		crashes[i] = float64(h.Crashes)
	}
	avg := stat.Mean(crashes, nil)
	if float64(stats.Crashes) <= 2*avg {
		return "", false
	}
	return fmt.Sprintf("%d crashes in one window, average %.1f", stats.Crashes, avg), true
}

// recovery fires when the population climbs from the primary plus at most
// one algorithm to three times that and at least six.
func (bd *BookmarkDetector) recovery(_ []WindowStats, stats WindowStats) (string, bool) {
	if bd.low == 0 || bd.low > 2 {
		return "", false
	}
	if stats.Algorithms < 3*bd.low || stats.Algorithms < 6 {
		return "", false
	}
	from := bd.low
	bd.low = stats.Algorithms
	return fmt.Sprintf("Algorithm population recovered from %d to %d", from, stats.Algorithms), true
}

// collapse fires on a drop of more than 30% (and at least 3) from the peak.
func (bd *BookmarkDetector) collapse(_ []WindowStats, stats WindowStats) (string, bool) {
	if bd.peak == 0 {
		return "", false
	}
	drop := 1 - float64(stats.Algorithms)/float64(bd.peak)
	if drop <= 0.30 || stats.Algorithms > bd.peak-3 {
		return "", false
	}
	from := bd.peak
	bd.peak = stats.Algorithms
	return fmt.Sprintf("Algorithms collapsed %.0f%% from peak %d to %d", drop*100, from, stats.Algorithms), true
}

// stable fires once when the algorithm count has held steady for
// stableStreak consecutive windows.
func (bd *BookmarkDetector) stable(history []WindowStats, stats WindowStats) (string, bool) {
	if stats.Algorithms < stableMinSize {
		bd.streak = 0
		return "", false
	}
	if len(history) < stableSpan {
		return "", false
	}

	counts := make([]float64, stableSpan)
	for i, h := range history[len(history)-stableSpan:] {
		counts[i] = float64(h.Algorithms)
	}
	mean, std := stat.PopMeanStdDev(counts, nil)
	if mean > 0 && (std*std)/(mean*mean) < stableMaxCV2 {
		bd.streak++
	} else {
		bd.streak = 0
	}
	if bd.streak != stableStreak {
		return "", false
	}
	return fmt.Sprintf("Stable network of %d algorithms over %d+ windows", stats.Algorithms, stableStreak), true
}
