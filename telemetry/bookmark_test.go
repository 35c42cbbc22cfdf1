package telemetry

import "testing"

func hasBookmark(bookmarks []Bookmark, typ BookmarkType) bool {
	for _, bm := range bookmarks {
		if bm.Type == typ {
			return true
		}
	}
	return false
}

func TestBookmarkDetector_IntelligenceBreakthrough(t *testing.T) {
	bd := NewBookmarkDetector(10)

	// Steady gain of 0.1 per window
	for i := 0; i < 4; i++ {
		bd.Check(WindowStats{
			WindowEndTick:    i * 10,
			Algorithms:       5,
			IntelligenceMean: 1.0 + float64(i)*0.1,
		})
	}

	bookmarks := bd.Check(WindowStats{
		WindowEndTick:    40,
		Algorithms:       5,
		IntelligenceMean: 1.8, // gain of 0.5
	})
	if !hasBookmark(bookmarks, BookmarkIntelligenceBreakthrough) {
		t.Error("expected intelligence_breakthrough bookmark")
	}
}

func TestBookmarkDetector_CrashWave(t *testing.T) {
	bd := NewBookmarkDetector(10)

	for i := 0; i < 3; i++ {
		bd.Check(WindowStats{WindowEndTick: i * 10, Algorithms: 10, Crashes: 1})
	}

	bookmarks := bd.Check(WindowStats{WindowEndTick: 30, Algorithms: 10, Crashes: 5})
	if !hasBookmark(bookmarks, BookmarkCrashWave) {
		t.Error("expected crash_wave bookmark")
	}
}

func TestBookmarkDetector_PopulationCollapse(t *testing.T) {
	bd := NewBookmarkDetector(10)

	for i := 0; i < 5; i++ {
		bd.Check(WindowStats{WindowEndTick: i * 10, Algorithms: 20})
	}

	bookmarks := bd.Check(WindowStats{WindowEndTick: 50, Algorithms: 10})
	if !hasBookmark(bookmarks, BookmarkPopulationCollapse) {
		t.Error("expected population_collapse bookmark")
	}

	// Peak resets after triggering.
	bookmarks = bd.Check(WindowStats{WindowEndTick: 60, Algorithms: 9})
	if hasBookmark(bookmarks, BookmarkPopulationCollapse) {
		t.Error("population_collapse triggered twice")
	}
}

func TestBookmarkDetector_PopulationRecovery(t *testing.T) {
	bd := NewBookmarkDetector(10)

	for i := 0; i < 3; i++ {
		bd.Check(WindowStats{WindowEndTick: i * 10, Algorithms: 2})
	}

	bookmarks := bd.Check(WindowStats{WindowEndTick: 30, Algorithms: 8})
	if !hasBookmark(bookmarks, BookmarkPopulationRecovery) {
		t.Error("expected population_recovery bookmark")
	}
}

func TestBookmarkDetector_StableNetwork(t *testing.T) {
	bd := NewBookmarkDetector(10)

	var triggered []int
	for i := 0; i < 12; i++ {
		bookmarks := bd.Check(WindowStats{WindowEndTick: i * 10, Algorithms: 20})
		if hasBookmark(bookmarks, BookmarkStableNetwork) {
			triggered = append(triggered, i)
		}
	}

	if len(triggered) != 1 || triggered[0] != 8 {
		t.Errorf("stable_network triggered at %v, want [8]", triggered)
	}
}

func TestBookmarkDetector_PrimaryLeap(t *testing.T) {
	bd := NewBookmarkDetector(10)
	bd.Check(WindowStats{WindowEndTick: 0, Algorithms: 5, IntelligenceLevel: 4})

	bookmarks := bd.Check(WindowStats{WindowEndTick: 10, Algorithms: 5, IntelligenceLevel: 4.5})
	if hasBookmark(bookmarks, BookmarkPrimaryLeap) {
		t.Error("a 12% rise should not be a leap")
	}

	bookmarks = bd.Check(WindowStats{WindowEndTick: 20, Algorithms: 5, IntelligenceLevel: 6})
	if !hasBookmark(bookmarks, BookmarkPrimaryLeap) {
		t.Error("expected primary_leap bookmark")
	}
}

func TestBookmarkDetector_HistoryLimit(t *testing.T) {
	bd := NewBookmarkDetector(2)
	for i := 0; i < 12; i++ {
		bd.Check(WindowStats{WindowEndTick: i * 10, Algorithms: 3})
	}
	if len(bd.history) != stableMinSize {
		t.Fatalf("history len = %d, want %d", len(bd.history), stableMinSize)
	}
	if got := bd.history[len(bd.history)-1].WindowEndTick; got != 110 {
		t.Errorf("newest window = %d, want 110", got)
	}
	if got := bd.history[0].WindowEndTick; got != 70 {
		t.Errorf("oldest window = %d, want 70", got)
	}
}
