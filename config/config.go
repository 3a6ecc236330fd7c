// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Weight history sampling modes.
const (
	SampleOnArrival = "arrival" // snapshot all weights when any light is reached
	SampleEveryTick = "tick"    // snapshot all weights every tick
)

var (
	ErrNoLights       = errors.New("no lights configured")
	ErrInvalidLight   = errors.New("light intensity must be positive and finite")
	ErrDuplicateLight = errors.New("duplicate light position")
	ErrInvalidParam   = errors.New("invalid parameter")
)

// Config holds all simulation configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Organism  OrganismConfig  `yaml:"organism"`
	Energy    EnergyConfig    `yaml:"energy"`
	Learning  LearningConfig  `yaml:"learning"`
	Lights    []LightConfig   `yaml:"lights"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Report    ReportConfig    `yaml:"report"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings. The screen is also the arena.
type ScreenConfig struct {
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	TargetFPS int    `yaml:"target_fps"`
	Title     string `yaml:"title"`
}

// OrganismConfig holds the organism's starting state.
type OrganismConfig struct {
	Size          float64 `yaml:"size"`           // Drawn ellipse diameter
	Speed         float64 `yaml:"speed"`          // Distance covered per tick
	InitialEnergy float64 `yaml:"initial_energy"` // Energy at tick 0
	// Start position. Nil means a uniform random point inside the arena.
	Start *PointConfig `yaml:"start,omitempty"`
}

// PointConfig is a 2D point in arena coordinates.
type PointConfig struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// EnergyConfig holds energy economics parameters.
type EnergyConfig struct {
	Decay float64 `yaml:"decay"` // Subtracted on every tick the organism moves
	Gain  float64 `yaml:"gain"`  // Arrival bonus = intensity * gain
}

// LearningConfig holds the weight reinforcement parameters.
type LearningConfig struct {
	Rate           float64 `yaml:"rate"`            // Weight += rate * intensity on arrival
	WeightSampling string  `yaml:"weight_sampling"` // "arrival" or "tick"
}

// LightConfig is a single configured light source.
type LightConfig struct {
	X         float64 `yaml:"x"`
	Y         float64 `yaml:"y"`
	Intensity float64 `yaml:"intensity"`
}

// TelemetryConfig holds windowed stats settings.
type TelemetryConfig struct {
	StatsWindow int `yaml:"stats_window"` // Ticks per stats window
}

// ReportConfig holds chart output settings.
type ReportConfig struct {
	WidthInches  float64 `yaml:"width_inches"`
	HeightInches float64 `yaml:"height_inches"`
}

// DerivedConfig holds values computed from the loaded config.
type DerivedConfig struct {
	ArenaW float64
	ArenaH float64
	DT     float64 // seconds per tick at target FPS
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Defaults returns a fresh copy of the embedded defaults.
func Defaults() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults invalid: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := Parse(data, cfg); err != nil {
			return nil, err
		}
	}

	return cfg, cfg.Finalize()
}

// Parse unmarshals YAML into cfg. Only fields present in data are overwritten;
// a lights list in data replaces the default list entirely.
func Parse(data []byte, cfg *Config) error {
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}
	return nil
}

// Finalize validates the config and computes derived values.
func (c *Config) Finalize() error {
	if err := c.Validate(); err != nil {
		return err
	}
	c.computeDerived()
	return nil
}

// Validate rejects configurations the simulation cannot run with.
func (c *Config) Validate() error {
	if c.Screen.Width <= 0 || c.Screen.Height <= 0 {
		return fmt.Errorf("%w: screen %dx%d", ErrInvalidParam, c.Screen.Width, c.Screen.Height)
	}
	if len(c.Lights) == 0 {
		return ErrNoLights
	}
	seen := make(map[PointConfig]int, len(c.Lights))
	for i, l := range c.Lights {
		if !(l.Intensity > 0) || math.IsInf(l.Intensity, 1) {
			return fmt.Errorf("light %d at (%g, %g): %w", i, l.X, l.Y, ErrInvalidLight)
		}
		if !finite(l.X) || !finite(l.Y) {
			return fmt.Errorf("%w: light %d at (%g, %g)", ErrInvalidParam, i, l.X, l.Y)
		}
		p := PointConfig{X: l.X, Y: l.Y}
		if j, ok := seen[p]; ok {
			return fmt.Errorf("lights %d and %d at (%g, %g): %w", j, i, l.X, l.Y, ErrDuplicateLight)
		}
		seen[p] = i
	}

	params := []struct {
		name  string
		value float64
	}{
		{"organism.speed", c.Organism.Speed},
		{"organism.size", c.Organism.Size},
		{"organism.initial_energy", c.Organism.InitialEnergy},
		{"energy.decay", c.Energy.Decay},
		{"energy.gain", c.Energy.Gain},
		{"learning.rate", c.Learning.Rate},
	}
	for _, p := range params {
		if !finite(p.value) || p.value < 0 {
			return fmt.Errorf("%w: %s = %g", ErrInvalidParam, p.name, p.value)
		}
	}

	switch c.Learning.WeightSampling {
	case SampleOnArrival, SampleEveryTick:
	default:
		return fmt.Errorf("%w: learning.weight_sampling = %q", ErrInvalidParam, c.Learning.WeightSampling)
	}

	if c.Telemetry.StatsWindow < 0 {
		return fmt.Errorf("%w: telemetry.stats_window = %d", ErrInvalidParam, c.Telemetry.StatsWindow)
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.ArenaW = float64(c.Screen.Width)
	c.Derived.ArenaH = float64(c.Screen.Height)
	fps := c.Screen.TargetFPS
	if fps <= 0 {
		fps = 60
	}
	c.Derived.DT = 1.0 / float64(fps)
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// Clone returns a deep copy safe to modify independently.
func (c *Config) Clone() *Config {
	out := *c
	out.Lights = append([]LightConfig(nil), c.Lights...)
	if c.Organism.Start != nil {
		start := *c.Organism.Start
		out.Organism.Start = &start
	}
	return &out
}
