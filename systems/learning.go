package systems

import "github.com/pthm-cable/phototaxis/components"

// WeightTable maps each light to its learned preference weight.
// Weights start at the light's intensity and only ever grow.
type WeightTable struct {
	keys    []components.LightKey // registry order
	weights map[components.LightKey]float64
}

// NewWeightTable seeds one weight per light, equal to its intensity.
func NewWeightTable(lights []components.Light) *WeightTable {
	wt := &WeightTable{
		keys:    make([]components.LightKey, len(lights)),
		weights: make(map[components.LightKey]float64, len(lights)),
	}
	for i, l := range lights {
		wt.keys[i] = l.Key
		wt.weights[l.Key] = l.Intensity
	}
	return wt
}

// Get returns the current weight for a light, or 0 if unknown.
func (wt *WeightTable) Get(key components.LightKey) float64 {
	return wt.weights[key]
}

// Len returns the number of lights in the table.
func (wt *WeightTable) Len() int {
	return len(wt.keys)
}

// Keys returns light keys in registry order.
func (wt *WeightTable) Keys() []components.LightKey {
	return wt.keys
}

// Snapshot copies all weights in registry order.
func (wt *WeightTable) Snapshot() []float64 {
	out := make([]float64, len(wt.keys))
	for i, k := range wt.keys {
		out[i] = wt.weights[k]
	}
	return out
}

// Reinforce applies the arrival update weight += rate * intensity and
// returns the new weight. Negative rates are ignored so weights never shrink.
func (wt *WeightTable) Reinforce(light components.Light, rate float64) float64 {
	w, ok := wt.weights[light.Key]
	if !ok {
		return 0
	}
	if delta := rate * light.Intensity; delta > 0 {
		w += delta
		wt.weights[light.Key] = w
	}
	return w
}
