package game

import (
	"log/slog"
	"path/filepath"

	"github.com/pthm-cable/phototaxis/telemetry"
)

// flushTelemetry checks if the stats window should be flushed and handles bookmarks.
func (g *Game) flushTelemetry() {
	tick := g.world.Tick()
	if !g.collector.ShouldFlush(tick) {
		return
	}

	stats := g.collector.Flush(tick)
	perfStats := g.perfCollector.Stats()

	// Log stats if enabled (console output)
	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	// Write to CSV if output manager is enabled
	if g.outputManager != nil {
		if err := g.outputManager.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}

	// Check for bookmarks
	for _, bm := range g.bookmarkDetector.Check(stats) {
		if g.logStats {
			bm.LogBookmark()
		}
		if g.outputManager != nil {
			if err := g.outputManager.WriteBookmark(bm); err != nil {
				slog.Error("failed to write bookmark", "error", err)
			}
			g.saveSnapshot(&bm)
		}
	}
}

// saveSnapshot writes the current state next to the run output.
func (g *Game) saveSnapshot(bookmark *telemetry.Bookmark) {
	dir := filepath.Join(g.outputManager.Dir(), telemetry.SnapshotDir)
	path, err := telemetry.SaveSnapshot(g.createSnapshot(bookmark), dir)
	if err != nil {
		slog.Error("failed to save snapshot", "error", err)
		return
	}

	slog.Debug("snapshot saved", "path", path, "tick", g.world.Tick())
}

// createSnapshot builds a snapshot from the current state.
func (g *Game) createSnapshot(bookmark *telemetry.Bookmark) *telemetry.Snapshot {
	pos, org := g.world.Organism()
	snapshot := &telemetry.Snapshot{
		Version: telemetry.SnapshotVersion,
		RNGSeed: g.rngSeed,
		ArenaW:  g.cfg.Derived.ArenaW,
		ArenaH:  g.cfg.Derived.ArenaH,
		Tick:    g.world.Tick(),
		Organism: telemetry.OrganismState{
			X:      pos.X,
			Y:      pos.Y,
			Energy: org.Energy,
			Speed:  org.Speed,
			State:  org.State.String(),
		},
		Bookmark: bookmark,
	}

	arrivals := g.world.History().Arrivals
	weights := g.world.Weights()
	for i, l := range g.world.Lights() {
		snapshot.Lights = append(snapshot.Lights, telemetry.LightState{
			X:         l.Key.X,
			Y:         l.Key.Y,
			Intensity: l.Intensity,
			Weight:    weights.Get(l.Key),
			Arrivals:  arrivals[i],
		})
	}

	return snapshot
}
