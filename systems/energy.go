package systems

import "github.com/pthm-cable/phototaxis/components"

// EnergyParams holds the per-tick energy economics.
type EnergyParams struct {
	Decay float64 // Cost of every tick spent moving
	Gain  float64 // Arrival bonus multiplier on intensity
}

// EnergyResult describes what happened to the organism's energy this tick.
type EnergyResult struct {
	Delta    float64 // Net change in energy
	Arrived  bool    // Organism was inside the chosen light's radius
	Depleted bool    // Organism became depleted this tick
}

// ApplyTick charges movement decay, pays the arrival bonus and then
// settles depletion. Arrival is judged on the distance measured before the
// step, so it holds whenever the organism starts the tick inside the radius.
// Depleted organisms are left untouched.
func ApplyTick(org *components.Organism, light components.Light, dist float64, moved bool, p EnergyParams) EnergyResult {
	var res EnergyResult
	if org.Depleted() {
		return res
	}

	before := org.Energy
	if moved {
		org.Energy -= p.Decay
		if dist < light.Intensity {
			org.Energy += light.Intensity * p.Gain
			res.Arrived = true
		}
	}

	res.Depleted = Settle(org)
	res.Delta = org.Energy - before
	return res
}

// Settle clamps energy at zero and disables an exhausted organism for good.
// Returns true if the organism transitioned to depleted on this call.
func Settle(org *components.Organism) bool {
	if org.Depleted() || org.Energy > 0 {
		return false
	}
	org.Energy = 0
	org.Speed = 0
	org.State = components.StateDepleted
	return true
}
