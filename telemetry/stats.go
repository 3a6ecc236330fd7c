package telemetry

import (
	"log/slog"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int     `csv:"-"`
	WindowEndTick   int     `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Energy distribution over the window
	EnergyMean float64 `csv:"energy_mean"`
	EnergyStd  float64 `csv:"energy_std"`
	EnergyMin  float64 `csv:"energy_min"`
	EnergyMax  float64 `csv:"energy_max"`

	// Events during window
	Arrivals  int     `csv:"arrivals"`
	Travelled float64 `csv:"travelled"`
	Favourite int     `csv:"favourite"` // Most chosen light, NoLight if idle
	State     string  `csv:"state"`
}

// ComputeEnergyStats returns mean, population std, min and max.
// Returns zeros for an empty slice.
func ComputeEnergyStats(values []float64) (mean, std, lo, hi float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0
	}
	mean, std = stat.PopMeanStdDev(values, nil)
	return mean, std, floats.Min(values), floats.Max(values)
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", s.WindowStartTick),
		slog.Int("window_end", s.WindowEndTick),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Float64("energy_mean", s.EnergyMean),
		slog.Float64("energy_std", s.EnergyStd),
		slog.Float64("energy_min", s.EnergyMin),
		slog.Float64("energy_max", s.EnergyMax),
		slog.Int("arrivals", s.Arrivals),
		slog.Float64("travelled", s.Travelled),
		slog.Int("favourite", s.Favourite),
		slog.String("state", s.State),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats", "window", s)
}
