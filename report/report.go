// Package report renders post-run charts from a recorded history.
package report

import (
	"fmt"
	"image/color"
	"log/slog"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/pthm-cable/phototaxis/components"
	"github.com/pthm-cable/phototaxis/telemetry"
)

// Chart file names.
const (
	EnergyChart     = "energy.png"
	DistancesChart  = "distances.png"
	PathChart       = "path.png"
	SelectionsChart = "selections.png"
	WeightsChart    = "weights.png"
)

// lightMarker is the yellow used for light positions.
var lightMarker = color.RGBA{R: 230, G: 200, B: 0, A: 255}

// Options controls chart size.
type Options struct {
	Width  vg.Length
	Height vg.Length
}

// DefaultOptions returns 8x5 inch charts.
func DefaultOptions() Options {
	return Options{Width: 8 * vg.Inch, Height: 5 * vg.Inch}
}

// Render writes every chart into dir and returns the written paths. Success
// is logged; on error the paths written so far are returned.
func Render(h *telemetry.History, lights []components.Light, dir string, opts Options) ([]string, error) {
	charts := []struct {
		name  string
		build func(*telemetry.History, []components.Light) (*plot.Plot, error)
	}{
		{EnergyChart, EnergyPlot},
		{DistancesChart, DistancesPlot},
		{PathChart, PathPlot},
		{SelectionsChart, SelectionsPlot},
		{WeightsChart, WeightsPlot},
	}

	var written []string
	for _, c := range charts {
		p, err := c.build(h, lights)
		if err != nil {
			return written, fmt.Errorf("building %s: %w", c.name, err)
		}
		path := filepath.Join(dir, c.name)
		if err := p.Save(opts.Width, opts.Height, path); err != nil {
			return written, fmt.Errorf("saving %s: %w", c.name, err)
		}
		written = append(written, path)
	}
	slog.Info("charts written", "count", len(written), "dir", dir)
	return written, nil
}

// EnergyPlot draws energy over time.
func EnergyPlot(h *telemetry.History, _ []components.Light) (*plot.Plot, error) {
	p := newPlot("Energy Levels Over Time", "Time Steps", "Energy")

	pts := make(plotter.XYs, len(h.Ticks))
	for i, r := range h.Ticks {
		pts[i].X = float64(r.Tick)
		pts[i].Y = r.Energy
	}
	if err := addLine(p, "Energy Over Time", pts, 0); err != nil {
		return nil, err
	}
	return p, nil
}

// DistancesPlot draws the distance to each light over time.
func DistancesPlot(h *telemetry.History, lights []components.Light) (*plot.Plot, error) {
	p := newPlot("Distance to Light Sources Over Time", "Time Steps", "Distance")

	for i, series := range h.Distances {
		pts := make(plotter.XYs, len(series))
		for j, d := range series {
			pts[j].X = float64(h.Ticks[j].Tick)
			pts[j].Y = d
		}
		if err := addLine(p, "Distance to light at "+lightLabel(lights, i), pts, i); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// PathPlot draws the organism's path with light positions marked.
func PathPlot(h *telemetry.History, lights []components.Light) (*plot.Plot, error) {
	p := newPlot("Movement Path of the Organism", "X Position", "Y Position")

	path := h.Path()
	pts := make(plotter.XYs, len(path))
	for i, pos := range path {
		pts[i].X = pos.X
		pts[i].Y = pos.Y
	}
	if err := addLine(p, "Movement Path", pts, 0); err != nil {
		return nil, err
	}

	if len(lights) > 0 {
		marks := make(plotter.XYs, len(lights))
		for i, l := range lights {
			marks[i].X = l.Key.X
			marks[i].Y = l.Key.Y
		}
		s, err := plotter.NewScatter(marks)
		if err != nil {
			return nil, err
		}
		s.GlyphStyle.Shape = draw.CircleGlyph{}
		s.GlyphStyle.Radius = vg.Points(6)
		s.GlyphStyle.Color = lightMarker
		p.Add(s)
		p.Legend.Add("Lights", s)
	}

	// Screen coordinates grow downward
	p.Y.Scale = plot.InvertedScale{Normalizer: plot.LinearScale{}}
	return p, nil
}

// SelectionsPlot draws a bar chart of arrivals per light.
func SelectionsPlot(h *telemetry.History, lights []components.Light) (*plot.Plot, error) {
	p := newPlot("Organism Light Source Selections", "Light Source Position", "Selection Count")

	values := make(plotter.Values, len(h.Arrivals))
	labels := make([]string, len(h.Arrivals))
	for i, n := range h.Arrivals {
		values[i] = float64(n)
		labels[i] = lightLabel(lights, i)
	}

	bars, err := plotter.NewBarChart(values, vg.Points(30))
	if err != nil {
		return nil, err
	}
	bars.Color = plotutil.Color(0)
	p.Add(bars)
	p.NominalX(labels...)
	return p, nil
}

// WeightsPlot draws each light's weight at every snapshot.
func WeightsPlot(h *telemetry.History, lights []components.Light) (*plot.Plot, error) {
	p := newPlot("Weights of Light Sources Over Time", "Time Steps", "Weights")

	ticks := h.WeightTicks()
	for i := 0; i < h.NumLights(); i++ {
		series := h.WeightSeries(i)
		pts := make(plotter.XYs, len(series))
		for j, w := range series {
			pts[j].X = float64(ticks[j])
			pts[j].Y = w
		}
		if err := addLine(p, "Weight of light at "+lightLabel(lights, i), pts, i); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func newPlot(title, x, y string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = x
	p.Y.Label.Text = y
	p.Legend.Top = true
	p.Add(plotter.NewGrid())
	return p
}

// addLine adds a colored line with a legend entry. Empty series are skipped.
func addLine(p *plot.Plot, label string, pts plotter.XYs, colorIdx int) error {
	if len(pts) == 0 {
		return nil
	}
	l, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	l.LineStyle.Color = plotutil.Color(colorIdx)
	l.LineStyle.Width = vg.Points(1.5)
	p.Add(l)
	p.Legend.Add(label, l)
	return nil
}

func lightLabel(lights []components.Light, i int) string {
	if i < 0 || i >= len(lights) {
		return fmt.Sprintf("#%d", i)
	}
	return fmt.Sprintf("(%g, %g)", lights[i].Key.X, lights[i].Key.Y)
}
