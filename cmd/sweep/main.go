// Command sweep runs the simulation headless over a range of seeds and
// reports survival and arrival statistics.
package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/phototaxis/config"
	"github.com/pthm-cable/phototaxis/sim"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	seeds := flag.Int("seeds", 20, "Number of seeds to run")
	firstSeed := flag.Int64("first-seed", 1, "First seed; runs use first-seed .. first-seed+seeds-1")
	maxTicks := flag.Int("max-ticks", 10000, "Tick cap per run")
	out := flag.String("out", "", "Optional CSV file for per-run results")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn})))

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	records, err := sim.Sweep(cfg, *firstSeed, *seeds, *maxTicks)
	if err != nil {
		slog.Error("sweep failed", "error", err)
		os.Exit(1)
	}

	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			slog.Error("failed to create output", "error", err)
			os.Exit(1)
		}
		if err := gocsv.MarshalFile(&records, f); err != nil {
			slog.Error("failed to write output", "error", err)
		}
		f.Close()
	}

	sim.Aggregate(records, len(cfg.Lights)).Report(os.Stdout, cfg.Lights, *maxTicks)
}
