package telemetry

import (
	"testing"
)

func hasBookmark(bookmarks []Bookmark, typ BookmarkType) bool {
	for _, bm := range bookmarks {
		if bm.Type == typ {
			return true
		}
	}
	return false
}

func TestBookmarkDetector_ForageBreakthrough(t *testing.T) {
	bd := NewBookmarkDetector(10)

	for i := 0; i < 4; i++ {
		bd.Check(WindowStats{WindowEndTick: i * 300, Arrivals: 0, Favourite: NoLight, State: "active"})
	}
	bookmarks := bd.Check(WindowStats{WindowEndTick: 1200, Arrivals: 2, Favourite: 0, State: "active"})
	if !hasBookmark(bookmarks, BookmarkForageBreakthrough) {
		t.Error("expected forage_breakthrough on first arrivals")
	}

	for i := 0; i < 3; i++ {
		bd.Check(WindowStats{WindowEndTick: 1500 + i*300, Arrivals: 1, Favourite: 0, State: "active"})
	}
	bookmarks = bd.Check(WindowStats{WindowEndTick: 3000, Arrivals: 8, Favourite: 0, State: "active"})
	if !hasBookmark(bookmarks, BookmarkForageBreakthrough) {
		t.Error("expected forage_breakthrough on arrival spike")
	}
}

func TestBookmarkDetector_PreferenceShift(t *testing.T) {
	bd := NewBookmarkDetector(10)

	bd.Check(WindowStats{WindowEndTick: 300, Favourite: 0, State: "active"})
	if got := bd.Check(WindowStats{WindowEndTick: 600, Favourite: NoLight, State: "active"}); hasBookmark(got, BookmarkPreferenceShift) {
		t.Error("idle window should not count as a shift")
	}
	bd.Check(WindowStats{WindowEndTick: 900, Favourite: 0, State: "active"})
	if got := bd.Check(WindowStats{WindowEndTick: 1200, Favourite: 2, State: "active"}); !hasBookmark(got, BookmarkPreferenceShift) {
		t.Error("expected preference_shift 0 -> 2")
	}
}

func TestBookmarkDetector_EnergyCrashFiresOnce(t *testing.T) {
	bd := NewBookmarkDetector(10)

	bd.Check(WindowStats{WindowEndTick: 300, EnergyMean: 100, State: "active"})
	bd.Check(WindowStats{WindowEndTick: 600, EnergyMean: 90, State: "active"})

	got := bd.Check(WindowStats{WindowEndTick: 900, EnergyMean: 50, State: "active"})
	if !hasBookmark(got, BookmarkEnergyCrash) {
		t.Fatal("expected energy_crash")
	}
	got = bd.Check(WindowStats{WindowEndTick: 1200, EnergyMean: 40, State: "active"})
	if hasBookmark(got, BookmarkEnergyCrash) {
		t.Error("crash should fire once while energy stays low")
	}
}

func TestBookmarkDetector_Depleted(t *testing.T) {
	bd := NewBookmarkDetector(10)

	bd.Check(WindowStats{WindowEndTick: 300, EnergyMean: 10, State: "active"})
	if got := bd.Check(WindowStats{WindowEndTick: 600, State: "depleted"}); !hasBookmark(got, BookmarkDepleted) {
		t.Error("expected depleted bookmark")
	}
	if got := bd.Check(WindowStats{WindowEndTick: 900, State: "depleted"}); hasBookmark(got, BookmarkDepleted) {
		t.Error("depleted should fire only on the transition")
	}
}

func TestBookmarkDetector_Settled(t *testing.T) {
	bd := NewBookmarkDetector(10)

	var fired int
	for i := 0; i < 10; i++ {
		stats := WindowStats{
			WindowEndTick: i * 300,
			Favourite:     1,
			EnergyMean:    150,
			EnergyStd:     2,
			State:         "active",
		}
		if hasBookmark(bd.Check(stats), BookmarkSettled) {
			fired++
			if i != settledWindows {
				t.Errorf("settled fired at window %d, want %d", i, settledWindows)
			}
		}
	}
	if fired != 1 {
		t.Errorf("settled fired %d times, want 1", fired)
	}
}
