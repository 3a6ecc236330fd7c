// Package sim holds the simulation context: the ECS world with the
// organism and light entities, the weight table and the run history.
package sim

import (
	"fmt"
	"image/color"
	"log/slog"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/phototaxis/components"
	"github.com/pthm-cable/phototaxis/config"
	"github.com/pthm-cable/phototaxis/systems"
	"github.com/pthm-cable/phototaxis/telemetry"
)

// TickResult reports what happened during one Step.
type TickResult struct {
	Tick     int
	Decision systems.Decision
	Energy   systems.EnergyResult
	Weight   float64 // New weight of the chosen light after an arrival
	Record   telemetry.TickRecord
}

// LightView is the render data for one light.
type LightView struct {
	Pos       components.Position
	Intensity float64
	Color     color.RGBA
	Weight    float64
}

// View is everything a frontend needs to draw a frame.
type View struct {
	Tick     int
	Organism components.Position
	Size     float64
	Energy   float64
	Color    color.RGBA
	State    components.State
	Chosen   int
	Lights   []LightView
}

// World is the simulation context owned by the driver.
type World struct {
	world *ecs.World

	lightMapper *ecs.Map2[components.Position, components.Light]
	lightFilter *ecs.Filter2[components.Position, components.Light]
	orgMapper   *ecs.Map2[components.Position, components.Organism]

	organism ecs.Entity
	weights  *systems.WeightTable
	history  *telemetry.History

	energy       systems.EnergyParams
	learningRate float64

	tick       int
	lastChosen int

	// Scratch buffer reused every tick
	lights []components.Light
}

// New builds a world from configuration. The organism starts at the
// configured point, or uniformly inside the arena when none is set.
func New(cfg *config.Config, rng *rand.Rand) (*World, error) {
	lights, err := systems.NewLights(cfg.Lights)
	if err != nil {
		return nil, fmt.Errorf("building lights: %w", err)
	}

	world := ecs.NewWorld()
	w := &World{
		world:        world,
		lightMapper:  ecs.NewMap2[components.Position, components.Light](world),
		lightFilter:  ecs.NewFilter2[components.Position, components.Light](world),
		orgMapper:    ecs.NewMap2[components.Position, components.Organism](world),
		weights:      systems.NewWeightTable(lights),
		history:      telemetry.NewHistory(len(lights), cfg.Learning.WeightSampling),
		energy:       systems.EnergyParams{Decay: cfg.Energy.Decay, Gain: cfg.Energy.Gain},
		learningRate: cfg.Learning.Rate,
		lastChosen:   telemetry.NoLight,
		lights:       make([]components.Light, 0, len(lights)),
	}

	for i := range lights {
		pos := lights[i].Pos()
		w.lightMapper.NewEntity(&pos, &lights[i])
	}

	var start components.Position
	if s := cfg.Organism.Start; s != nil {
		start = components.Position{X: s.X, Y: s.Y}
	} else {
		start = components.Position{
			X: rng.Float64() * float64(cfg.Screen.Width),
			Y: rng.Float64() * float64(cfg.Screen.Height),
		}
	}
	org := components.Organism{
		Energy: cfg.Organism.InitialEnergy,
		Speed:  cfg.Organism.Speed,
		Size:   cfg.Organism.Size,
		State:  components.StateActive,
	}
	w.organism = w.orgMapper.NewEntity(&start, &org)

	// Tick 0 is the initial state
	w.record(telemetry.TickRecord{Tick: 0, Chosen: telemetry.NoLight})

	return w, nil
}

// Step runs one tick: decide and move, settle energy, learn on arrival.
// A depleted organism is passed through and only logged.
func (w *World) Step() TickResult {
	w.tick++
	res := TickResult{
		Tick:     w.tick,
		Decision: systems.Decision{Light: telemetry.NoLight},
	}

	pos, org := w.orgMapper.Get(w.organism)
	lights := w.gatherLights()

	if !org.Depleted() {
		if org.Energy > 0 {
			d := systems.SelectAndStep(*pos, org.Speed, lights, w.weights)
			res.Decision = d
			if d.Light >= 0 {
				light := lights[d.Light]
				*pos = d.To
				res.Energy = systems.ApplyTick(org, light, d.Distance, d.Moved, w.energy)
				if res.Energy.Arrived {
					res.Weight = w.weights.Reinforce(light, w.learningRate)
					w.history.RecordArrival(w.tick, d.Light, w.weights.Snapshot())
					slog.Debug("arrival",
						"tick", w.tick,
						"light", d.Light,
						"weight", res.Weight,
						"energy", org.Energy,
					)
				}
			}
		} else {
			res.Energy.Depleted = systems.Settle(org)
		}

		if res.Energy.Depleted {
			slog.Info("organism depleted", "tick", w.tick, "x", pos.X, "y", pos.Y)
		}
	}

	w.lastChosen = res.Decision.Light
	res.Record = w.record(telemetry.TickRecord{
		Tick:     w.tick,
		Chosen:   res.Decision.Light,
		Distance: res.Decision.Distance,
		Arrived:  res.Energy.Arrived,
	})
	return res
}

// record fills in organism state, computes per-light distances and
// appends the row to the history.
func (w *World) record(rec telemetry.TickRecord) telemetry.TickRecord {
	pos, org := w.orgMapper.Get(w.organism)
	rec.Energy = org.Energy
	rec.X, rec.Y = pos.X, pos.Y
	rec.State = org.State.String()

	lights := w.gatherLights()
	distances := make([]float64, len(lights))
	for i, l := range lights {
		distances[i] = systems.Distance(*pos, l.Pos())
	}

	var weights []float64
	if w.history.Sampling() == config.SampleEveryTick {
		weights = w.weights.Snapshot()
	}
	w.history.RecordTick(rec, distances, weights)
	return rec
}

// gatherLights collects light components in registry order.
func (w *World) gatherLights() []components.Light {
	w.lights = w.lights[:0]
	query := w.lightFilter.Query()
	for query.Next() {
		_, light := query.Get()
		w.lights = append(w.lights, *light)
	}
	return w.lights
}

// View returns the current render data.
func (w *World) View() View {
	pos, org := w.orgMapper.Get(w.organism)
	v := View{
		Tick:     w.tick,
		Organism: *pos,
		Size:     org.Size,
		Energy:   org.Energy,
		Color:    systems.EnergyColor(org.Energy),
		State:    org.State,
		Chosen:   w.lastChosen,
	}

	query := w.lightFilter.Query()
	for query.Next() {
		lpos, light := query.Get()
		v.Lights = append(v.Lights, LightView{
			Pos:       *lpos,
			Intensity: light.Intensity,
			Color:     light.Color,
			Weight:    w.weights.Get(light.Key),
		})
	}
	return v
}

// Tick returns the number of ticks run so far.
func (w *World) Tick() int {
	return w.tick
}

// Organism returns a copy of the organism's position and state.
func (w *World) Organism() (components.Position, components.Organism) {
	pos, org := w.orgMapper.Get(w.organism)
	return *pos, *org
}

// Lights returns a copy of the light registry in registry order.
func (w *World) Lights() []components.Light {
	return append([]components.Light(nil), w.gatherLights()...)
}

// Weights returns the weight table.
func (w *World) Weights() *systems.WeightTable {
	return w.weights
}

// History returns the run history for reporting.
func (w *World) History() *telemetry.History {
	return w.history
}
