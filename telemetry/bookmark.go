package telemetry

import (
	"fmt"
	"log/slog"

	"github.com/pthm-cable/phototaxis/components"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkForageBreakthrough BookmarkType = "forage_breakthrough"
	BookmarkPreferenceShift    BookmarkType = "preference_shift"
	BookmarkEnergyCrash        BookmarkType = "energy_crash"
	BookmarkDepleted           BookmarkType = "depleted"
	BookmarkSettled            BookmarkType = "settled"
)

// settledWindows is how many consecutive steady windows trigger a settled bookmark.
const settledWindows = 5

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type" json:"type"`
	Tick        int          `csv:"tick" json:"tick"`
	Description string       `csv:"description" json:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

// BookmarkDetector detects interesting moments in the run from window stats.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	// State tracking
	last          *WindowStats
	peakEnergy    float64 // peak window mean energy in recent history
	steadyWindows int     // consecutive windows with the same favourite and flat energy
	settled       bool    // settled bookmark already emitted for this streak
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < settledWindows {
		historySize = settledWindows
	}
	return &BookmarkDetector{
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	if bd.last != nil {
		// Forage breakthrough: arrivals > 2x rolling average, or first arrivals
		if b := bd.checkForageBreakthrough(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}

		// Preference shift: most chosen light changed
		if b := bd.checkPreferenceShift(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}

		// Energy crash: mean dropped >30% from recent peak
		if b := bd.checkEnergyCrash(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}

		// Depleted: organism ran out of energy this window
		if b := bd.checkDepleted(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}

		// Settled: same favourite with flat energy over several windows
		if b := bd.checkSettled(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
	}

	bd.addToHistory(stats)
	if stats.EnergyMean > bd.peakEnergy {
		bd.peakEnergy = stats.EnergyMean
	}
	last := stats
	bd.last = &last

	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

func (bd *BookmarkDetector) getHistory() []WindowStats {
	if bd.historyFull {
		return bd.history
	}
	return bd.history[:bd.historyIdx]
}

func (bd *BookmarkDetector) checkForageBreakthrough(stats WindowStats) *Bookmark {
	if stats.Arrivals == 0 {
		return nil
	}

	history := bd.getHistory()
	var total int
	for _, h := range history {
		total += h.Arrivals
	}
	avg := float64(total) / float64(len(history))

	if avg == 0 {
		return &Bookmark{
			Type:        BookmarkForageBreakthrough,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("first arrivals after %d quiet windows (%d)", len(history), stats.Arrivals),
		}
	}
	if float64(stats.Arrivals) > 2*avg && len(history) >= 3 {
		return &Bookmark{
			Type:        BookmarkForageBreakthrough,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("arrivals %d vs avg %.1f", stats.Arrivals, avg),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkPreferenceShift(stats WindowStats) *Bookmark {
	prev := bd.last.Favourite
	if prev == NoLight || stats.Favourite == NoLight || prev == stats.Favourite {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkPreferenceShift,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("favourite light %d -> %d", prev, stats.Favourite),
	}
}

func (bd *BookmarkDetector) checkEnergyCrash(stats WindowStats) *Bookmark {
	if bd.peakEnergy <= 0 || bd.last.EnergyMean < 0.7*bd.peakEnergy {
		// Already below threshold last window; fire once per crash
		return nil
	}
	if stats.EnergyMean >= 0.7*bd.peakEnergy {
		return nil
	}
	drop := (bd.peakEnergy - stats.EnergyMean) / bd.peakEnergy * 100
	return &Bookmark{
		Type:        BookmarkEnergyCrash,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("mean energy %.1f, %.0f%% below peak %.1f", stats.EnergyMean, drop, bd.peakEnergy),
	}
}

func (bd *BookmarkDetector) checkDepleted(stats WindowStats) *Bookmark {
	depleted := components.StateDepleted.String()
	if stats.State != depleted || bd.last.State == depleted {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkDepleted,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("energy exhausted, %d arrivals this window", stats.Arrivals),
	}
}

func (bd *BookmarkDetector) checkSettled(stats WindowStats) *Bookmark {
	steady := stats.Favourite != NoLight &&
		stats.Favourite == bd.last.Favourite &&
		stats.EnergyMean > 0 &&
		stats.EnergyStd < 0.05*stats.EnergyMean

	if !steady {
		bd.steadyWindows = 0
		bd.settled = false
		return nil
	}

	bd.steadyWindows++
	if bd.steadyWindows < settledWindows || bd.settled {
		return nil
	}
	bd.settled = true
	return &Bookmark{
		Type:        BookmarkSettled,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("settled on light %d for %d windows", stats.Favourite, bd.steadyWindows),
	}
}
