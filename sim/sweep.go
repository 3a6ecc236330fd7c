package sim

import (
	"fmt"
	"io"
	"sort"

	"github.com/dustin/go-humanize"
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/phototaxis/config"
	"github.com/pthm-cable/phototaxis/telemetry"
)

// RunRecord is the outcome of one headless run, one row of a sweep CSV.
type RunRecord struct {
	Seed        int64   `csv:"seed"`
	Survival    int     `csv:"survival"`
	Depleted    bool    `csv:"depleted"`
	Arrivals    int     `csv:"arrivals"`
	PathLength  float64 `csv:"path_length"`
	PeakEnergy  float64 `csv:"peak_energy"`
	FinalEnergy float64 `csv:"final_energy"`
	Favourite   int     `csv:"favourite"`
}

// SweepStats aggregates a set of runs.
type SweepStats struct {
	Runs         int
	Survived     int
	SurvivalMean float64
	SurvivalStd  float64
	SurvivalP50  float64
	ArrivalMean  float64
	ArrivalStd   float64
	Favourites   []int // Runs per favourite light
}

// Sweep runs n seeds in sequence starting at first.
func Sweep(cfg *config.Config, first int64, n, maxTicks int) ([]RunRecord, error) {
	records := make([]RunRecord, 0, n)
	for i := 0; i < n; i++ {
		seed := first + int64(i)
		w, err := Run(cfg, seed, maxTicks)
		if err != nil {
			return records, fmt.Errorf("seed %d: %w", seed, err)
		}
		records = append(records, RecordFor(seed, telemetry.Summarize(w.History()), maxTicks))
	}
	return records, nil
}

// RecordFor condenses a run summary. Survival is the depletion tick, or
// maxTicks for an organism that outlasted the cap.
func RecordFor(seed int64, s telemetry.Summary, maxTicks int) RunRecord {
	r := RunRecord{
		Seed:        seed,
		Survival:    maxTicks,
		Depleted:    s.DepletedAt >= 0,
		Arrivals:    s.TotalArrivals(),
		PathLength:  s.PathLength,
		PeakEnergy:  s.PeakEnergy,
		FinalEnergy: s.FinalEnergy,
		Favourite:   telemetry.NoLight,
	}
	if r.Depleted {
		r.Survival = s.DepletedAt
	}
	best := 0
	for i, n := range s.Arrivals {
		if n > best {
			best, r.Favourite = n, i
		}
	}
	return r
}

// Aggregate computes sweep statistics with gonum/stat.
func Aggregate(records []RunRecord, numLights int) SweepStats {
	s := SweepStats{Runs: len(records), Favourites: make([]int, numLights)}
	if len(records) == 0 {
		return s
	}

	survival := make([]float64, len(records))
	arrivals := make([]float64, len(records))
	for i, r := range records {
		survival[i] = float64(r.Survival)
		arrivals[i] = float64(r.Arrivals)
		if !r.Depleted {
			s.Survived++
		}
		if r.Favourite >= 0 && r.Favourite < numLights {
			s.Favourites[r.Favourite]++
		}
	}

	s.SurvivalMean, s.SurvivalStd = stat.PopMeanStdDev(survival, nil)
	s.ArrivalMean, s.ArrivalStd = stat.PopMeanStdDev(arrivals, nil)

	sorted := append([]float64(nil), survival...)
	sort.Float64s(sorted)
	s.SurvivalP50 = stat.Quantile(0.5, stat.Empirical, sorted, nil)
	return s
}

// Report prints the statistics for runs capped at maxTicks.
func (s SweepStats) Report(w io.Writer, lights []config.LightConfig, maxTicks int) {
	fmt.Fprintf(w, "%s runs, %s survived %s ticks\n",
		humanize.Comma(int64(s.Runs)), humanize.Comma(int64(s.Survived)), humanize.Comma(int64(maxTicks)))
	fmt.Fprintf(w, "survival: mean %s, std %s, median %s ticks\n",
		humanize.CommafWithDigits(s.SurvivalMean, 1),
		humanize.CommafWithDigits(s.SurvivalStd, 1),
		humanize.CommafWithDigits(s.SurvivalP50, 1))
	fmt.Fprintf(w, "arrivals: mean %.2f, std %.2f\n", s.ArrivalMean, s.ArrivalStd)
	for i, n := range s.Favourites {
		if i >= len(lights) {
			break
		}
		l := lights[i]
		fmt.Fprintf(w, "  light (%g, %g) i=%g favourite in %d runs\n", l.X, l.Y, l.Intensity, n)
	}
}
