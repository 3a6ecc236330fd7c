// Command report re-renders charts from a run directory written with
// -output-dir.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"gonum.org/v1/plot/vg"

	"github.com/pthm-cable/phototaxis/report"
	"github.com/pthm-cable/phototaxis/telemetry"
)

func main() {
	dir := flag.String("dir", "", "Run directory containing ticks.csv and friends")
	out := flag.String("out", "", "Directory for the PNG charts (empty = run directory)")
	width := flag.Float64("width", 8, "Chart width in inches")
	height := flag.Float64("height", 5, "Chart height in inches")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	if *dir == "" {
		slog.Error("-dir is required")
		os.Exit(2)
	}
	if *out == "" {
		*out = *dir
	}

	if err := run(*dir, *out, report.Options{
		Width:  vg.Length(*width) * vg.Inch,
		Height: vg.Length(*height) * vg.Inch,
	}); err != nil {
		slog.Error("report failed", "error", err)
		os.Exit(1)
	}
}

func run(dir, out string, opts report.Options) error {
	h, lights, err := telemetry.ReadHistoryDir(dir)
	if err != nil {
		return fmt.Errorf("loading %s: %w", dir, err)
	}
	if err := os.MkdirAll(out, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	if _, err := report.Render(h, lights, out, opts); err != nil {
		return err
	}

	summary := telemetry.Summarize(h)
	slog.Info("run summary", "dir", dir, "summary", summary)
	fmt.Println(summary)
	return nil
}
