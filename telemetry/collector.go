package telemetry

import (
	"math"
)

// Collector accumulates tick records within windows and produces WindowStats.
type Collector struct {
	windowDurationTicks int
	dt                  float64
	numLights           int

	// Current window tracking
	windowStartTick int
	energies        []float64
	choices         []int
	arrivals        int
	travelled       float64
	lastX, lastY    float64
	havePos         bool
	state           string
}

// NewCollector creates a new stats collector.
// windowTicks: how many ticks each window spans
// dt: seconds per tick (used for tick-to-time conversion)
func NewCollector(windowTicks int, dt float64, numLights int) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return &Collector{
		windowDurationTicks: windowTicks,
		dt:                  dt,
		numLights:           numLights,
		choices:             make([]int, numLights),
		energies:            make([]float64, 0, windowTicks),
	}
}

// Observe folds one tick into the current window.
func (c *Collector) Observe(rec TickRecord) {
	c.energies = append(c.energies, rec.Energy)
	if rec.Arrived {
		c.arrivals++
	}
	if rec.Chosen >= 0 && rec.Chosen < c.numLights {
		c.choices[rec.Chosen]++
	}
	if c.havePos {
		c.travelled += math.Hypot(rec.X-c.lastX, rec.Y-c.lastY)
	}
	c.lastX, c.lastY, c.havePos = rec.X, rec.Y, true
	c.state = rec.State
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick int) WindowStats {
	mean, std, lo, hi := ComputeEnergyStats(c.energies)

	favourite := NoLight
	best := 0
	for i, n := range c.choices {
		if n > best {
			best = n
			favourite = i
		}
	}

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * c.dt,
		EnergyMean:      mean,
		EnergyStd:       std,
		EnergyMin:       lo,
		EnergyMax:       hi,
		Arrivals:        c.arrivals,
		Travelled:       c.travelled,
		Favourite:       favourite,
		State:           c.state,
	}

	// Reset for next window; keep last position so travel spans windows
	c.windowStartTick = currentTick
	c.energies = c.energies[:0]
	for i := range c.choices {
		c.choices[i] = 0
	}
	c.arrivals = 0
	c.travelled = 0

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int {
	return c.windowDurationTicks
}
