package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error: %v", err)
	}

	if len(cfg.Lights) != 3 {
		t.Fatalf("expected 3 default lights, got %d", len(cfg.Lights))
	}
	if cfg.Organism.Speed != 2 {
		t.Errorf("speed = %v, want 2", cfg.Organism.Speed)
	}
	if cfg.Organism.InitialEnergy != 100 {
		t.Errorf("initial_energy = %v, want 100", cfg.Organism.InitialEnergy)
	}
	if cfg.Energy.Decay != 1 || cfg.Energy.Gain != 0.5 {
		t.Errorf("energy = %+v, want decay 1 gain 0.5", cfg.Energy)
	}
	if cfg.Learning.Rate != 0.1 {
		t.Errorf("learning rate = %v, want 0.1", cfg.Learning.Rate)
	}
	if cfg.Learning.WeightSampling != SampleOnArrival {
		t.Errorf("weight_sampling = %q, want %q", cfg.Learning.WeightSampling, SampleOnArrival)
	}
	if cfg.Organism.Start != nil {
		t.Errorf("default start should be random (nil), got %+v", cfg.Organism.Start)
	}
	if cfg.Derived.ArenaW != 800 || cfg.Derived.ArenaH != 600 {
		t.Errorf("arena = %vx%v, want 800x600", cfg.Derived.ArenaW, cfg.Derived.ArenaH)
	}
}

func TestLoadOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.yaml")
	data := []byte(`
organism:
  speed: 3
  start: { x: 10, y: 20 }
lights:
  - { x: 50, y: 50, intensity: 25 }
`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Organism.Speed != 3 {
		t.Errorf("speed = %v, want 3", cfg.Organism.Speed)
	}
	// Untouched fields keep defaults
	if cfg.Organism.InitialEnergy != 100 {
		t.Errorf("initial_energy = %v, want default 100", cfg.Organism.InitialEnergy)
	}
	if cfg.Organism.Start == nil || cfg.Organism.Start.X != 10 || cfg.Organism.Start.Y != 20 {
		t.Errorf("start = %+v, want (10, 20)", cfg.Organism.Start)
	}
	if len(cfg.Lights) != 1 || cfg.Lights[0].Intensity != 25 {
		t.Errorf("lights = %+v, want single light with intensity 25", cfg.Lights)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		want   error
	}{
		{"zero intensity", func(c *Config) { c.Lights[0].Intensity = 0 }, ErrInvalidLight},
		{"negative intensity", func(c *Config) { c.Lights[1].Intensity = -5 }, ErrInvalidLight},
		{"infinite intensity", func(c *Config) { c.Lights[0].Intensity = math.Inf(1) }, ErrInvalidLight},
		{"NaN intensity", func(c *Config) { c.Lights[0].Intensity = math.NaN() }, ErrInvalidLight},
		{"infinite light position", func(c *Config) { c.Lights[2].X = math.Inf(-1) }, ErrInvalidParam},
		{"NaN gain", func(c *Config) { c.Energy.Gain = math.NaN() }, ErrInvalidParam},
		{"infinite speed", func(c *Config) { c.Organism.Speed = math.Inf(1) }, ErrInvalidParam},
		{"duplicate position", func(c *Config) {
			c.Lights[2].X, c.Lights[2].Y = c.Lights[0].X, c.Lights[0].Y
		}, ErrDuplicateLight},
		{"no lights", func(c *Config) { c.Lights = nil }, ErrNoLights},
		{"negative speed", func(c *Config) { c.Organism.Speed = -1 }, ErrInvalidParam},
		{"negative decay", func(c *Config) { c.Energy.Decay = -1 }, ErrInvalidParam},
		{"negative learning rate", func(c *Config) { c.Learning.Rate = -0.1 }, ErrInvalidParam},
		{"unknown sampling", func(c *Config) { c.Learning.WeightSampling = "sometimes" }, ErrInvalidParam},
		{"zero screen", func(c *Config) { c.Screen.Width = 0 }, ErrInvalidParam},
		{"valid", func(c *Config) {}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.want == nil {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg := Defaults()
	cfg.Learning.WeightSampling = SampleEveryTick

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Learning.WeightSampling != SampleEveryTick {
		t.Errorf("weight_sampling = %q after reload", loaded.Learning.WeightSampling)
	}
	if len(loaded.Lights) != len(cfg.Lights) {
		t.Errorf("lights = %d after reload, want %d", len(loaded.Lights), len(cfg.Lights))
	}
}

func TestClone(t *testing.T) {
	cfg := Defaults()
	cfg.Organism.Start = &PointConfig{X: 1, Y: 2}

	c := cfg.Clone()
	c.Lights[0].Intensity = 999
	c.Organism.Start.X = 50
	c.Energy.Gain = 3

	if cfg.Lights[0].Intensity == 999 || cfg.Organism.Start.X != 1 || cfg.Energy.Gain == 3 {
		t.Errorf("clone shares state with original: %+v", cfg)
	}
}
