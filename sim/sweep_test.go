package sim

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/pthm-cable/phototaxis/config"
	"github.com/pthm-cable/phototaxis/telemetry"
)

func TestAggregate(t *testing.T) {
	records := []RunRecord{
		{Seed: 1, Survival: 100, Depleted: true, Arrivals: 2, Favourite: 0},
		{Seed: 2, Survival: 300, Depleted: false, Arrivals: 4, Favourite: 1},
		{Seed: 3, Survival: 200, Depleted: true, Arrivals: 0, Favourite: telemetry.NoLight},
	}

	s := Aggregate(records, 2)
	if s.Runs != 3 || s.Survived != 1 {
		t.Errorf("runs/survived = %d/%d", s.Runs, s.Survived)
	}
	if math.Abs(s.SurvivalMean-200) > 1e-9 {
		t.Errorf("survival mean = %v, want 200", s.SurvivalMean)
	}
	if s.SurvivalP50 != 200 {
		t.Errorf("survival median = %v, want 200", s.SurvivalP50)
	}
	if math.Abs(s.ArrivalMean-2) > 1e-9 {
		t.Errorf("arrival mean = %v, want 2", s.ArrivalMean)
	}
	if s.Favourites[0] != 1 || s.Favourites[1] != 1 {
		t.Errorf("favourites = %v", s.Favourites)
	}
}

func TestAggregateEmpty(t *testing.T) {
	s := Aggregate(nil, 3)
	if s.Runs != 0 || len(s.Favourites) != 3 {
		t.Errorf("empty aggregate = %+v", s)
	}
}

func TestRecordFor(t *testing.T) {
	alive := RecordFor(4, telemetry.Summary{DepletedAt: -1, Arrivals: []int{1, 5, 2}}, 500)
	if alive.Depleted || alive.Survival != 500 || alive.Arrivals != 8 || alive.Favourite != 1 {
		t.Errorf("alive record = %+v", alive)
	}

	dead := RecordFor(5, telemetry.Summary{DepletedAt: 42, Arrivals: []int{0, 0}}, 500)
	if !dead.Depleted || dead.Survival != 42 || dead.Favourite != telemetry.NoLight {
		t.Errorf("depleted record = %+v", dead)
	}
}

func TestSweep(t *testing.T) {
	cfg := config.Defaults()
	records, err := Sweep(cfg, 7, 3, 150)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 3 {
		t.Fatalf("records = %d, want 3", len(records))
	}
	for i, r := range records {
		if r.Seed != int64(7+i) {
			t.Errorf("record %d seed = %d", i, r.Seed)
		}
		if r.Survival <= 0 || r.Survival > 150 {
			t.Errorf("seed %d survival = %d", r.Seed, r.Survival)
		}
		if !r.Depleted && r.Survival != 150 {
			t.Errorf("seed %d survived but survival = %d", r.Seed, r.Survival)
		}
	}
}

func TestSweepStatsReport(t *testing.T) {
	s := SweepStats{Runs: 1200, Survived: 3, SurvivalMean: 1234.5, Favourites: []int{7, 0}}
	var buf bytes.Buffer
	s.Report(&buf, []config.LightConfig{{X: 100, Y: 150, Intensity: 40}, {X: 400, Y: 300, Intensity: 70}}, 10000)

	out := buf.String()
	for _, want := range []string{"1,200 runs, 3 survived 10,000 ticks", "mean 1,234.5", "light (100, 150) i=40 favourite in 7 runs"} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}
