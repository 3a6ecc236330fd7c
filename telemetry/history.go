// Package telemetry records run history, windowed stats, bookmarks,
// snapshots and CSV output.
package telemetry

import (
	"github.com/pthm-cable/phototaxis/components"
	"github.com/pthm-cable/phototaxis/config"
)

// NoLight marks a record that is not tied to a particular light.
const NoLight = -1

// TickRecord is one row of the per-tick energy and position log.
type TickRecord struct {
	Tick     int     `csv:"tick"`
	Energy   float64 `csv:"energy"`
	X        float64 `csv:"x"`
	Y        float64 `csv:"y"`
	State    string  `csv:"state"`
	Chosen   int     `csv:"chosen"`   // Chosen light index, NoLight when idle
	Distance float64 `csv:"distance"` // Distance to the chosen light before stepping
	Arrived  bool    `csv:"arrived"`
}

// WeightSnapshot holds every light's weight at one moment.
type WeightSnapshot struct {
	Tick    int
	Trigger int // Arriving light, or NoLight for per-tick sampling
	Weights []float64
}

// History is the append-only record of a run, consumed by reporting.
type History struct {
	sampling string

	Ticks     []TickRecord
	Distances [][]float64 // [light][tick] distance from organism to light
	Arrivals  []int       // per-light arrival count
	Choices   []int       // per-light count of ticks the light was chosen
	Weights   []WeightSnapshot
}

// NewHistory creates an empty history for numLights lights.
// sampling is config.SampleOnArrival or config.SampleEveryTick.
func NewHistory(numLights int, sampling string) *History {
	return &History{
		sampling:  sampling,
		Distances: make([][]float64, numLights),
		Arrivals:  make([]int, numLights),
		Choices:   make([]int, numLights),
	}
}

// Sampling returns the weight sampling mode.
func (h *History) Sampling() string {
	return h.sampling
}

// NumLights returns the number of lights tracked.
func (h *History) NumLights() int {
	return len(h.Arrivals)
}

// RecordTick appends one tick of state. distances holds the organism's
// distance to every light; weights is the current weight snapshot, stored
// only when sampling every tick.
func (h *History) RecordTick(rec TickRecord, distances, weights []float64) {
	h.Ticks = append(h.Ticks, rec)
	for i := range h.Distances {
		if i < len(distances) {
			h.Distances[i] = append(h.Distances[i], distances[i])
		}
	}
	if rec.Chosen >= 0 && rec.Chosen < len(h.Choices) {
		h.Choices[rec.Chosen]++
	}
	if h.sampling == config.SampleEveryTick && weights != nil {
		trigger := NoLight
		if rec.Arrived {
			trigger = rec.Chosen
		}
		h.Weights = append(h.Weights, WeightSnapshot{Tick: rec.Tick, Trigger: trigger, Weights: weights})
	}
}

// RecordArrival counts an arrival at light and, when sampling on arrival,
// stores the weights of all lights tagged with the arriving one.
func (h *History) RecordArrival(tick, light int, weights []float64) {
	if light < 0 || light >= len(h.Arrivals) {
		return
	}
	h.Arrivals[light]++
	if h.sampling == config.SampleOnArrival {
		h.Weights = append(h.Weights, WeightSnapshot{Tick: tick, Trigger: light, Weights: weights})
	}
}

// EnergySeries returns energy per recorded tick.
func (h *History) EnergySeries() []float64 {
	out := make([]float64, len(h.Ticks))
	for i, r := range h.Ticks {
		out[i] = r.Energy
	}
	return out
}

// Path returns the organism position per recorded tick.
func (h *History) Path() []components.Position {
	out := make([]components.Position, len(h.Ticks))
	for i, r := range h.Ticks {
		out[i] = components.Position{X: r.X, Y: r.Y}
	}
	return out
}

// WeightSeries returns one light's weight across all snapshots.
func (h *History) WeightSeries(light int) []float64 {
	out := make([]float64, 0, len(h.Weights))
	for _, s := range h.Weights {
		if light < len(s.Weights) {
			out = append(out, s.Weights[light])
		}
	}
	return out
}

// WeightTicks returns the tick of each weight snapshot.
func (h *History) WeightTicks() []int {
	out := make([]int, len(h.Weights))
	for i, s := range h.Weights {
		out[i] = s.Tick
	}
	return out
}
