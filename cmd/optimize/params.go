// Package main provides CMA-ES optimization for organism and energy parameters.
package main

import (
	"github.com/pthm-cable/phototaxis/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of optimizable parameters.
// Defaults are taken from cfg so the search starts at the base config.
func NewParamVector(cfg *config.Config) *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			{Name: "energy_gain", Path: "energy.gain", Min: 0.1, Max: 1.5, Default: cfg.Energy.Gain},
			{Name: "energy_decay", Path: "energy.decay", Min: 0.2, Max: 2.0, Default: cfg.Energy.Decay},
			{Name: "learning_rate", Path: "learning.rate", Min: 0.0, Max: 0.5, Default: cfg.Learning.Rate},
			{Name: "speed", Path: "organism.speed", Min: 0.5, Max: 6.0, Default: cfg.Organism.Speed},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, ps := range pv.Specs {
		v[i] = ps.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, ps := range pv.Specs {
		normalized[i] = (raw[i] - ps.Min) / (ps.Max - ps.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, ps := range pv.Specs {
		raw[i] = ps.Min + normalized[i]*(ps.Max-ps.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, ps := range pv.Specs {
		clamped[i] = min(max(v[i], ps.Min), ps.Max)
	}
	return clamped
}

// ApplyToConfig applies parameter values to a Config struct.
// Order must match Specs order.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	clamped := pv.Clamp(values)
	cfg.Energy.Gain = clamped[0]
	cfg.Energy.Decay = clamped[1]
	cfg.Learning.Rate = clamped[2]
	cfg.Organism.Speed = clamped[3]
}

// ExtractFromConfig extracts current parameter values from a Config struct.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return []float64{
		cfg.Energy.Gain,
		cfg.Energy.Decay,
		cfg.Learning.Rate,
		cfg.Organism.Speed,
	}
}
