package telemetry

import (
	"fmt"
	"log/slog"

	"github.com/dustin/go-humanize"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/phototaxis/components"
)

// Summary condenses a finished run.
type Summary struct {
	Ticks        int
	FinalEnergy  float64
	PeakEnergy   float64
	MeanEnergy   float64
	DepletedAt   int // First depleted tick, or -1
	PathLength   float64
	Arrivals     []int
	Choices      []int
	FinalWeights []float64
}

// Summarize computes the end-of-run summary from a history.
func Summarize(h *History) Summary {
	s := Summary{
		DepletedAt: -1,
		Arrivals:   append([]int(nil), h.Arrivals...),
		Choices:    append([]int(nil), h.Choices...),
	}
	if len(h.Ticks) == 0 {
		return s
	}

	energy := h.EnergySeries()
	last := h.Ticks[len(h.Ticks)-1]
	s.Ticks = last.Tick
	s.FinalEnergy = last.Energy
	s.PeakEnergy = floats.Max(energy)
	s.MeanEnergy = stat.Mean(energy, nil)

	for i, r := range h.Ticks {
		if s.DepletedAt < 0 && r.State == components.StateDepleted.String() {
			s.DepletedAt = r.Tick
		}
		if i > 0 {
			p := h.Ticks[i-1]
			dx, dy := r.X-p.X, r.Y-p.Y
			s.PathLength += floats.Norm([]float64{dx, dy}, 2)
		}
	}

	if n := len(h.Weights); n > 0 {
		s.FinalWeights = append([]float64(nil), h.Weights[n-1].Weights...)
	}
	return s
}

// TotalArrivals sums arrivals over all lights.
func (s Summary) TotalArrivals() int {
	total := 0
	for _, n := range s.Arrivals {
		total += n
	}
	return total
}

// String renders a one-line human readable summary.
func (s Summary) String() string {
	outcome := "still active"
	if s.DepletedAt >= 0 {
		outcome = "depleted at tick " + humanize.Comma(int64(s.DepletedAt))
	}
	return fmt.Sprintf("%s ticks, %s arrivals, travelled %s px, peak energy %s, %s",
		humanize.Comma(int64(s.Ticks)),
		humanize.Comma(int64(s.TotalArrivals())),
		humanize.CommafWithDigits(s.PathLength, 1),
		humanize.CommafWithDigits(s.PeakEnergy, 1),
		outcome,
	)
}

// LogValue implements slog.LogValuer for structured logging.
func (s Summary) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("ticks", s.Ticks),
		slog.Float64("final_energy", s.FinalEnergy),
		slog.Float64("peak_energy", s.PeakEnergy),
		slog.Float64("mean_energy", s.MeanEnergy),
		slog.Int("depleted_at", s.DepletedAt),
		slog.Float64("path_length", s.PathLength),
		slog.Any("arrivals", s.Arrivals),
		slog.Any("choices", s.Choices),
		slog.Any("final_weights", s.FinalWeights),
	)
}
