package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"github.com/google/uuid"

	"github.com/pthm-cable/phototaxis/components"
	"github.com/pthm-cable/phototaxis/config"
)

// Output file names inside a run directory.
const (
	TicksFile      = "ticks.csv"
	DistancesFile  = "distances.csv"
	WeightsFile    = "weights.csv"
	SelectionsFile = "selections.csv"
	TelemetryFile  = "telemetry.csv"
	PerfFile       = "perf.csv"
	BookmarksFile  = "bookmarks.csv"
	ConfigFile     = "config.yaml"
)

// DistanceRecord is one row of distances.csv.
type DistanceRecord struct {
	Tick     int     `csv:"tick"`
	Light    int     `csv:"light"`
	Distance float64 `csv:"distance"`
}

// WeightRecord is one row of weights.csv (long format, one row per light
// per snapshot).
type WeightRecord struct {
	Tick    int     `csv:"tick"`
	Trigger int     `csv:"trigger"`
	Light   int     `csv:"light"`
	Weight  float64 `csv:"weight"`
}

// SelectionRecord is one row of selections.csv.
type SelectionRecord struct {
	Light     int     `csv:"light"`
	X         float64 `csv:"x"`
	Y         float64 `csv:"y"`
	Intensity float64 `csv:"intensity"`
	Arrivals  int     `csv:"arrivals"`
	Chosen    int     `csv:"chosen"`
}

// NewRunID returns a fresh identifier for a run directory.
func NewRunID() string {
	return uuid.NewString()
}

// OutputManager handles structured experiment output with CSV logging.
type OutputManager struct {
	dir   string
	runID string

	telemetry *csvAppender
	perf      *csvAppender
	bookmarks *csvAppender
}

// csvAppender appends records to an open CSV file; the first write
// includes headers.
type csvAppender struct {
	f             *os.File
	headerWritten bool
}

func (a *csvAppender) append(records any) error {
	if !a.headerWritten {
		if err := gocsv.Marshal(records, a.f); err != nil {
			return err
		}
		a.headerWritten = true
		return nil
	}
	return gocsv.MarshalWithoutHeaders(records, a.f)
}

// NewOutputManager creates <base>/<runID> and opens the streaming CSV
// files. Returns nil if base is empty (output disabled).
func NewOutputManager(base, runID string) (*OutputManager, error) {
	if base == "" {
		return nil, nil
	}

	dir := filepath.Join(base, runID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir, runID: runID}
	for _, target := range []struct {
		name string
		dst  **csvAppender
	}{
		{TelemetryFile, &om.telemetry},
		{PerfFile, &om.perf},
		{BookmarksFile, &om.bookmarks},
	} {
		f, err := os.Create(filepath.Join(dir, target.name))
		if err != nil {
			om.Close()
			return nil, fmt.Errorf("creating %s: %w", target.name, err)
		}
		*target.dst = &csvAppender{f: f}
	}

	return om, nil
}

// WriteConfig saves the current configuration as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, ConfigFile))
}

// WriteTelemetry appends a window stats record to telemetry.csv.
func (om *OutputManager) WriteTelemetry(stats WindowStats) error {
	if om == nil {
		return nil
	}
	if err := om.telemetry.append([]WindowStats{stats}); err != nil {
		return fmt.Errorf("writing telemetry: %w", err)
	}
	return nil
}

// WritePerf appends a performance stats record to perf.csv.
func (om *OutputManager) WritePerf(stats PerfStats, windowEnd int) error {
	if om == nil {
		return nil
	}
	if err := om.perf.append([]PerfStatsCSV{stats.ToCSV(windowEnd)}); err != nil {
		return fmt.Errorf("writing perf: %w", err)
	}
	return nil
}

// WriteBookmark appends a bookmark to bookmarks.csv.
func (om *OutputManager) WriteBookmark(bm Bookmark) error {
	if om == nil {
		return nil
	}
	if err := om.bookmarks.append([]Bookmark{bm}); err != nil {
		return fmt.Errorf("writing bookmark: %w", err)
	}
	return nil
}

// WriteHistory writes the full run history as CSV files.
func (om *OutputManager) WriteHistory(h *History, lights []components.Light) error {
	if om == nil {
		return nil
	}
	return WriteHistoryDir(om.dir, h, lights)
}

// WriteHistoryDir writes ticks, distances, weights and selections CSVs into dir.
func WriteHistoryDir(dir string, h *History, lights []components.Light) error {
	if err := writeCSV(filepath.Join(dir, TicksFile), h.Ticks); err != nil {
		return err
	}

	var distances []DistanceRecord
	for light, series := range h.Distances {
		for i, d := range series {
			distances = append(distances, DistanceRecord{Tick: h.Ticks[i].Tick, Light: light, Distance: d})
		}
	}
	if err := writeCSV(filepath.Join(dir, DistancesFile), distances); err != nil {
		return err
	}

	var weights []WeightRecord
	for _, s := range h.Weights {
		for light, w := range s.Weights {
			weights = append(weights, WeightRecord{Tick: s.Tick, Trigger: s.Trigger, Light: light, Weight: w})
		}
	}
	if err := writeCSV(filepath.Join(dir, WeightsFile), weights); err != nil {
		return err
	}

	selections := make([]SelectionRecord, len(lights))
	for i, l := range lights {
		selections[i] = SelectionRecord{
			Light:     i,
			X:         l.Key.X,
			Y:         l.Key.Y,
			Intensity: l.Intensity,
			Arrivals:  h.Arrivals[i],
			Chosen:    h.Choices[i],
		}
	}
	return writeCSV(filepath.Join(dir, SelectionsFile), selections)
}

// writeCSV writes records with headers to path.
func writeCSV[T any](path string, records []T) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	if err := gocsv.MarshalFile(&records, f); err != nil {
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	return nil
}

// Dir returns the run directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// RunID returns the run identifier.
func (om *OutputManager) RunID() string {
	if om == nil {
		return ""
	}
	return om.runID
}

// Close flushes and closes all output files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}

	var firstErr error
	for _, a := range []*csvAppender{om.telemetry, om.perf, om.bookmarks} {
		if a == nil {
			continue
		}
		if err := a.f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
