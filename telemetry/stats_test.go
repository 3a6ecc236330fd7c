package telemetry

import (
	"math"
	"testing"
)

func TestComputeEnergyStats(t *testing.T) {
	values := []float64{100, 99, 98, 117, 116}
	mean, std, lo, hi := ComputeEnergyStats(values)

	if math.Abs(mean-106) > 1e-9 {
		t.Errorf("mean = %v, want 106", mean)
	}
	// population variance: (36+49+64+121+100)/5 = 74
	if math.Abs(std-math.Sqrt(74)) > 1e-9 {
		t.Errorf("std = %v, want %v", std, math.Sqrt(74))
	}
	if lo != 98 || hi != 117 {
		t.Errorf("min/max = %v/%v, want 98/117", lo, hi)
	}
}

func TestComputeEnergyStatsEmpty(t *testing.T) {
	mean, std, lo, hi := ComputeEnergyStats([]float64{})

	if mean != 0 || std != 0 || lo != 0 || hi != 0 {
		t.Error("empty slice should return all zeros")
	}
}

func TestCollectorFlush(t *testing.T) {
	c := NewCollector(3, 1.0/60, 2)

	records := []TickRecord{
		{Tick: 1, Energy: 99, X: 0, Y: 0, Chosen: 1, State: "active"},
		{Tick: 2, Energy: 98, X: 3, Y: 4, Chosen: 1, State: "active"},
		{Tick: 3, Energy: 117, X: 6, Y: 8, Chosen: 0, Arrived: true, State: "active"},
	}
	for _, r := range records {
		c.Observe(r)
	}

	if c.ShouldFlush(2) {
		t.Error("window should not be full at tick 2")
	}
	if !c.ShouldFlush(3) {
		t.Fatal("window should be full at tick 3")
	}

	s := c.Flush(3)
	if s.WindowStartTick != 0 || s.WindowEndTick != 3 {
		t.Errorf("window = [%d, %d], want [0, 3]", s.WindowStartTick, s.WindowEndTick)
	}
	if math.Abs(s.SimTimeSec-0.05) > 1e-9 {
		t.Errorf("sim_time = %v, want 0.05", s.SimTimeSec)
	}
	if s.Arrivals != 1 {
		t.Errorf("arrivals = %d, want 1", s.Arrivals)
	}
	if math.Abs(s.Travelled-10) > 1e-9 {
		t.Errorf("travelled = %v, want 10", s.Travelled)
	}
	if s.Favourite != 1 {
		t.Errorf("favourite = %d, want 1", s.Favourite)
	}
	if s.EnergyMax != 117 || s.EnergyMin != 98 {
		t.Errorf("energy range = [%v, %v]", s.EnergyMin, s.EnergyMax)
	}

	// Next window starts clean
	c.Observe(TickRecord{Tick: 4, Energy: 116, X: 6, Y: 9, Chosen: NoLight})
	s = c.Flush(4)
	if s.Arrivals != 0 || s.Favourite != NoLight {
		t.Errorf("second window leaked counters: %+v", s)
	}
	if math.Abs(s.Travelled-1) > 1e-9 {
		t.Errorf("travel across windows = %v, want 1", s.Travelled)
	}
}
