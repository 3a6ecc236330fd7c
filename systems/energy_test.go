package systems

import (
	"math"
	"testing"

	"github.com/pthm-cable/phototaxis/components"
)

var defaultEnergy = EnergyParams{Decay: 1, Gain: 0.5}

func TestApplyTick(t *testing.T) {
	light := components.Light{Intensity: 40}

	tests := []struct {
		name        string
		energy      float64
		dist        float64
		moved       bool
		wantEnergy  float64
		wantArrived bool
		wantDepl    bool
	}{
		{"decay only", 50, 100, true, 49, false, false},
		{"arrival bonus", 100, 10, true, 119, true, false},
		{"boundary is not arrival", 50, 40, true, 49, false, false},
		{"no move no decay", 50, 0, false, 50, false, false},
		{"decay to zero depletes", 1, 100, true, 0, false, true},
		{"decay below zero clamps", 0.5, 100, true, 0, false, true},
		{"arrival saves last unit", 1, 5, true, 20, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			org := components.Organism{Energy: tt.energy, Speed: 2}
			res := ApplyTick(&org, light, tt.dist, tt.moved, defaultEnergy)

			if math.Abs(org.Energy-tt.wantEnergy) > 1e-9 {
				t.Errorf("energy = %v, want %v", org.Energy, tt.wantEnergy)
			}
			if res.Arrived != tt.wantArrived {
				t.Errorf("arrived = %v, want %v", res.Arrived, tt.wantArrived)
			}
			if res.Depleted != tt.wantDepl {
				t.Errorf("depleted = %v, want %v", res.Depleted, tt.wantDepl)
			}
			if math.Abs(res.Delta-(tt.wantEnergy-tt.energy)) > 1e-9 {
				t.Errorf("delta = %v, want %v", res.Delta, tt.wantEnergy-tt.energy)
			}
			if tt.wantDepl && (org.Speed != 0 || org.State != components.StateDepleted) {
				t.Errorf("depleted organism should have speed 0 and depleted state, got %+v", org)
			}
		})
	}
}

func TestApplyTick_DepletedIsTerminal(t *testing.T) {
	org := components.Organism{Energy: 0, Speed: 0, State: components.StateDepleted}
	light := components.Light{Intensity: 70}

	for i := 0; i < 10; i++ {
		res := ApplyTick(&org, light, 1, true, defaultEnergy)
		if res != (EnergyResult{}) {
			t.Fatalf("tick %d: depleted organism produced %+v", i, res)
		}
	}
	if org.Energy != 0 || org.Speed != 0 || org.State != components.StateDepleted {
		t.Errorf("depleted organism changed: %+v", org)
	}
}

func TestApplyTick_NeverNegative(t *testing.T) {
	org := components.Organism{Energy: 3, Speed: 2}
	light := components.Light{Intensity: 10}
	for i := 0; i < 20; i++ {
		ApplyTick(&org, light, 500, true, EnergyParams{Decay: 2.5, Gain: 0.5})
		if org.Energy < 0 {
			t.Fatalf("tick %d: energy went negative: %v", i, org.Energy)
		}
	}
	if !org.Depleted() {
		t.Error("organism should be depleted after sustained decay")
	}
}

func TestSettle(t *testing.T) {
	org := components.Organism{Energy: 0, Speed: 2}
	if !Settle(&org) {
		t.Fatal("zero energy should deplete")
	}
	if Settle(&org) {
		t.Error("second Settle should not report a new transition")
	}

	alive := components.Organism{Energy: 0.001, Speed: 2}
	if Settle(&alive) || alive.Depleted() {
		t.Error("positive energy must not deplete")
	}
}
