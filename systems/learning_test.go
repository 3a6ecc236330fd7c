package systems

import (
	"math"
	"testing"

	"github.com/pthm-cable/phototaxis/components"
	"github.com/pthm-cable/phototaxis/config"
)

func TestNewWeightTable_SeedsIntensity(t *testing.T) {
	lights := mustLights(t,
		config.LightConfig{X: 100, Y: 150, Intensity: 40},
		config.LightConfig{X: 400, Y: 300, Intensity: 70},
	)
	wt := NewWeightTable(lights)

	if wt.Len() != 2 {
		t.Fatalf("len = %d, want 2", wt.Len())
	}
	want := []float64{40, 70}
	for i, w := range wt.Snapshot() {
		if w != want[i] {
			t.Errorf("weight[%d] = %v, want %v", i, w, want[i])
		}
	}
}

func TestReinforce(t *testing.T) {
	lights := mustLights(t,
		config.LightConfig{X: 10, Y: 0, Intensity: 40},
		config.LightConfig{X: 50, Y: 0, Intensity: 70},
	)
	wt := NewWeightTable(lights)

	got := wt.Reinforce(lights[0], 0.1)
	if math.Abs(got-44) > 1e-9 {
		t.Errorf("weight = %v, want 44", got)
	}
	if wt.Get(lights[1].Key) != 70 {
		t.Errorf("other light weight changed: %v", wt.Get(lights[1].Key))
	}

	got = wt.Reinforce(lights[0], 0.1)
	if math.Abs(got-48) > 1e-9 {
		t.Errorf("second reinforce = %v, want 48", got)
	}
}

func TestReinforce_NeverDecreases(t *testing.T) {
	lights := mustLights(t, config.LightConfig{X: 1, Y: 1, Intensity: 30})
	wt := NewWeightTable(lights)

	prev := wt.Get(lights[0].Key)
	for _, rate := range []float64{0.1, 0, -0.5, 0.2} {
		w := wt.Reinforce(lights[0], rate)
		if w < prev {
			t.Fatalf("rate %v: weight decreased %v -> %v", rate, prev, w)
		}
		prev = w
	}
}

func TestReinforce_UnknownLight(t *testing.T) {
	wt := NewWeightTable(nil)
	if got := wt.Reinforce(components.Light{Key: components.LightKey{X: 1}, Intensity: 10}, 0.1); got != 0 {
		t.Errorf("unknown light should report 0, got %v", got)
	}
	if wt.Len() != 0 {
		t.Error("unknown light must not be added")
	}
}
