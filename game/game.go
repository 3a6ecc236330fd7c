// Package game drives the simulation: frame loop hooks, input, drawing,
// telemetry and end-of-run output.
package game

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"

	"gonum.org/v1/plot/vg"

	"github.com/pthm-cable/phototaxis/config"
	"github.com/pthm-cable/phototaxis/report"
	"github.com/pthm-cable/phototaxis/sim"
	"github.com/pthm-cable/phototaxis/telemetry"
	"github.com/pthm-cable/phototaxis/ui"
)

// Steps-per-update bounds for the speed controls.
const (
	MinStepsPerUpdate = 1
	MaxStepsPerUpdate = 10
)

// Options configures a new game instance.
type Options struct {
	Seed           int64
	LogStats       bool
	StatsWindow    int    // Ticks per stats window (0 = use config)
	OutputDir      string // Base directory for run output (empty = disabled)
	StepsPerUpdate int
	Charts         bool // Render PNG charts into the run directory on Finish
}

// Game holds the driver state around one simulation world.
type Game struct {
	cfg     *config.Config
	world   *sim.World
	rngSeed int64

	collector        *telemetry.Collector
	perfCollector    *telemetry.PerfCollector
	bookmarkDetector *telemetry.BookmarkDetector
	outputManager    *telemetry.OutputManager
	hud              *ui.HUD

	logStats       bool
	charts         bool
	paused         bool
	stepsPerUpdate int
	finished       bool
}

// NewGameWithOptions builds the world and telemetry for a run.
func NewGameWithOptions(cfg *config.Config, opts Options) (*Game, error) {
	world, err := sim.New(cfg, rand.New(rand.NewSource(opts.Seed)))
	if err != nil {
		return nil, err
	}

	window := cfg.Telemetry.StatsWindow
	if opts.StatsWindow > 0 {
		window = opts.StatsWindow
	}

	steps := opts.StepsPerUpdate
	if steps < MinStepsPerUpdate {
		steps = MinStepsPerUpdate
	}

	g := &Game{
		cfg:              cfg,
		world:            world,
		rngSeed:          opts.Seed,
		collector:        telemetry.NewCollector(window, cfg.Derived.DT, len(cfg.Lights)),
		perfCollector:    telemetry.NewPerfCollector(window),
		bookmarkDetector: telemetry.NewBookmarkDetector(10),
		hud:              ui.NewHUD(),
		logStats:         opts.LogStats,
		charts:           opts.Charts,
		stepsPerUpdate:   steps,
	}

	if opts.OutputDir != "" {
		om, err := telemetry.NewOutputManager(opts.OutputDir, telemetry.NewRunID())
		if err != nil {
			return nil, err
		}
		g.outputManager = om
		if err := om.WriteConfig(cfg); err != nil {
			slog.Error("failed to write config", "error", err)
		}
		slog.Info("output enabled", "dir", om.Dir(), "run_id", om.RunID())
	} else if opts.Charts {
		slog.Warn("charts need an output directory, skipping")
		g.charts = false
	}

	return g, nil
}

// Update handles input and advances the simulation for one frame.
func (g *Game) Update() {
	g.handleInput()
	g.Advance()
}

// UpdateHeadless advances the simulation without polling input.
func (g *Game) UpdateHeadless() {
	g.Advance()
}

// Advance runs stepsPerUpdate ticks unless paused.
func (g *Game) Advance() {
	if g.paused {
		return
	}
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.step()
	}
}

// step runs one simulation tick and feeds telemetry.
func (g *Game) step() {
	g.perfCollector.StartTick()

	g.perfCollector.StartPhase(telemetry.PhaseStep)
	res := g.world.Step()

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.collector.Observe(res.Record)
	g.flushTelemetry()

	g.perfCollector.EndTick()
}

// TogglePause flips the paused state.
func (g *Game) TogglePause() {
	g.paused = !g.paused
}

// Paused reports whether the simulation is paused.
func (g *Game) Paused() bool {
	return g.paused
}

// Faster adds one step per update, up to MaxStepsPerUpdate.
func (g *Game) Faster() {
	if g.stepsPerUpdate < MaxStepsPerUpdate {
		g.stepsPerUpdate++
	}
}

// Slower removes one step per update, down to MinStepsPerUpdate.
func (g *Game) Slower() {
	if g.stepsPerUpdate > MinStepsPerUpdate {
		g.stepsPerUpdate--
	}
}

// StepsPerUpdate returns the number of ticks run per update.
func (g *Game) StepsPerUpdate() int {
	return g.stepsPerUpdate
}

// Tick returns the current simulation tick.
func (g *Game) Tick() int {
	return g.world.Tick()
}

// View returns the current render data.
func (g *Game) View() sim.View {
	return g.world.View()
}

// World returns the underlying simulation world.
func (g *Game) World() *sim.World {
	return g.world
}

// Finish writes the run history and charts and logs the run summary.
// It is safe to call more than once; only the first call writes.
func (g *Game) Finish() (telemetry.Summary, error) {
	h := g.world.History()
	summary := telemetry.Summarize(h)
	if g.finished {
		return summary, nil
	}
	g.finished = true

	slog.Info("run finished", "seed", g.rngSeed, "summary", summary)

	if g.outputManager == nil {
		return summary, nil
	}

	var errs []error
	lights := g.world.Lights()
	if err := g.outputManager.WriteHistory(h, lights); err != nil {
		errs = append(errs, fmt.Errorf("writing history: %w", err))
	}

	if g.charts {
		if _, err := report.Render(h, lights, g.outputManager.Dir(), g.reportOptions()); err != nil {
			errs = append(errs, fmt.Errorf("rendering charts: %w", err))
		}
	}

	return summary, errors.Join(errs...)
}

// reportOptions converts configured chart size to plot units.
func (g *Game) reportOptions() report.Options {
	opts := report.DefaultOptions()
	if w := g.cfg.Report.WidthInches; w > 0 {
		opts.Width = vg.Length(w) * vg.Inch
	}
	if h := g.cfg.Report.HeightInches; h > 0 {
		opts.Height = vg.Length(h) * vg.Inch
	}
	return opts
}

// Unload releases output files.
func (g *Game) Unload() {
	if err := g.outputManager.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
}
