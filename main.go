package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/phototaxis/config"
	"github.com/pthm-cable/phototaxis/game"
	"github.com/pthm-cable/phototaxis/sim"
	"github.com/pthm-cable/phototaxis/terminal"
)

func main() {
	os.Exit(run())
}

func run() int {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	term := flag.Bool("terminal", false, "Render in the terminal instead of a window")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	statsWindow := flag.Int("stats-window", 0, "Stats window size in ticks (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs, charts and config snapshot")
	charts := flag.Bool("charts", false, "Render PNG charts into the run directory at exit")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = headless stops at depletion)")
	stepsPerUpdate := flag.Int("steps-per-update", 1, "Simulation ticks per update call (higher = faster runs)")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		return 1
	}
	cfg := config.Cfg()

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	opts := game.Options{
		Seed:           rngSeed,
		LogStats:       *logStats,
		StatsWindow:    *statsWindow,
		OutputDir:      *outputDir,
		StepsPerUpdate: *stepsPerUpdate,
		Charts:         *charts,
	}

	g, err := game.NewGameWithOptions(cfg, opts)
	if err != nil {
		slog.Error("failed to create simulation", "error", err)
		return 1
	}
	defer g.Unload()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch {
	case *headless:
		slog.Info("starting headless simulation",
			"seed", rngSeed,
			"max_ticks", *maxTicks,
			"steps_per_update", *stepsPerUpdate,
		)
		runHeadless(ctx, g, *maxTicks)

	case *term:
		// slog would scribble over the grid
		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

		f, err := terminal.New(g, cfg.Derived.ArenaW, cfg.Derived.ArenaH)
		if err != nil {
			slog.Error("failed to open terminal", "error", err)
			return 1
		}
		f.MaxTicks = *maxTicks
		f.Run(ctx)
		f.Close()
		slog.SetDefault(logger)

	default:
		rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), cfg.Screen.Title)
		defer rl.CloseWindow()

		rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

		for !rl.WindowShouldClose() && ctx.Err() == nil {
			g.Update()
			g.Draw()

			if *maxTicks > 0 && g.Tick() >= *maxTicks {
				break
			}
		}
	}

	if _, err := g.Finish(); err != nil {
		slog.Error("failed to write run output", "error", err)
		return 1
	}
	return 0
}

// runHeadless steps until max ticks, until depletion when uncapped, or until
// ctx is cancelled. Cancellation is checked once per update.
func runHeadless(ctx context.Context, g *game.Game, maxTicks int) {
	for ctx.Err() == nil {
		g.UpdateHeadless()

		switch g.World().Halted(maxTicks) {
		case sim.HaltMaxTicks:
			slog.Info("max ticks reached", "tick", g.Tick())
			return
		case sim.HaltDepleted:
			slog.Info("organism depleted", "tick", g.Tick())
			return
		}
	}
	slog.Info("interrupted", "tick", g.Tick())
}
