package telemetry

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/phototaxis/components"
	"github.com/pthm-cable/phototaxis/config"
	"github.com/pthm-cable/phototaxis/systems"
)

// ReadHistoryDir loads a history and its light list from a run directory
// written by WriteHistoryDir.
func ReadHistoryDir(dir string) (*History, []components.Light, error) {
	var selections []SelectionRecord
	if err := readCSV(filepath.Join(dir, SelectionsFile), &selections); err != nil {
		return nil, nil, err
	}

	cfgs := make([]config.LightConfig, len(selections))
	for i, s := range selections {
		cfgs[i] = config.LightConfig{X: s.X, Y: s.Y, Intensity: s.Intensity}
	}
	lights, err := systems.NewLights(cfgs)
	if err != nil {
		return nil, nil, fmt.Errorf("rebuilding lights: %w", err)
	}

	var weightRows []WeightRecord
	if err := readCSV(filepath.Join(dir, WeightsFile), &weightRows); err != nil {
		return nil, nil, err
	}

	sampling := config.SampleOnArrival
	for _, w := range weightRows {
		if w.Trigger == NoLight {
			sampling = config.SampleEveryTick
			break
		}
	}

	h := NewHistory(len(lights), sampling)
	for i, s := range selections {
		h.Arrivals[i] = s.Arrivals
		h.Choices[i] = s.Chosen
	}

	if err := readCSV(filepath.Join(dir, TicksFile), &h.Ticks); err != nil {
		return nil, nil, err
	}

	var distances []DistanceRecord
	if err := readCSV(filepath.Join(dir, DistancesFile), &distances); err != nil {
		return nil, nil, err
	}
	for _, d := range distances {
		if d.Light >= 0 && d.Light < len(h.Distances) {
			h.Distances[d.Light] = append(h.Distances[d.Light], d.Distance)
		}
	}

	// Rows of one snapshot are contiguous and ordered by light
	for _, w := range weightRows {
		n := len(h.Weights)
		if w.Light == 0 || n == 0 {
			h.Weights = append(h.Weights, WeightSnapshot{
				Tick:    w.Tick,
				Trigger: w.Trigger,
				Weights: make([]float64, 0, len(lights)),
			})
			n++
		}
		snap := &h.Weights[n-1]
		snap.Weights = append(snap.Weights, w.Weight)
	}

	return h, lights, nil
}

// readCSV unmarshals a CSV file into out, a pointer to a slice.
func readCSV(path string, out any) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	// An empty series may be written without a header row
	if err := gocsv.UnmarshalFile(f, out); err != nil && !errors.Is(err, gocsv.ErrEmptyCSVFile) {
		return fmt.Errorf("reading %s: %w", filepath.Base(path), err)
	}
	return nil
}
