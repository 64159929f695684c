// Package plot renders imbalance series as charts with gonum/plot.
package plot

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"path/filepath"
	"strings"
	"time"

	"imbalance-report/internal/analysis"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Chart size, 12x6 inches (1152x576 px as PNG).
const (
	DefaultWidth  = 12 * vg.Inch
	DefaultHeight = 6 * vg.Inch
)

// NoData is appended to a chart title when there is nothing to draw.
const NoData = "no data"

var (
	lineColor = color.RGBA{R: 65, G: 105, B: 225, A: 255} // royalblue
	barColor  = color.RGBA{R: 255, G: 140, A: 255}        // darkorange
)

// Volume plots net imbalance volume over time with a dashed zero line.
func Volume(rows []analysis.Row) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Net Imbalance Volume Over Time"
	p.X.Label.Text = "Time"
	p.Y.Label.Text = "Net Imbalance Volume (MWh)"
	if len(rows) == 0 {
		return empty(p)
	}

	pts := make(plotter.XYs, len(rows))
	for i, r := range rows {
		pts[i].X = float64(r.Start.Unix())
		pts[i].Y = r.NetImbalanceVolume.InexactFloat64()
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return nil, fmt.Errorf("volume line: %w", err)
	}
	line.Color = lineColor
	line.Width = vg.Points(2)

	zero := plotter.NewFunction(func(float64) float64 { return 0 })
	zero.Color = color.Gray{Y: 128}
	zero.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}

	p.Add(plotter.NewGrid(), zero, line)
	p.Y.Min = math.Min(p.Y.Min, 0)
	p.Y.Max = math.Max(p.Y.Max, 0)
	p.X.Tick.Marker = plot.TimeTicks{Format: "01-02 15:04", Time: plot.UnixTimeIn(time.UTC)}
	return p, nil
}

// HourlyCost plots one bar per hour present in hourly, labelled by hour.
func HourlyCost(hourly []analysis.HourCost) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Imbalance Cost by Hour"
	p.X.Label.Text = "Hour of day (UTC)"
	p.Y.Label.Text = "Imbalance cost"
	if len(hourly) == 0 {
		return empty(p)
	}

	values := make(plotter.Values, len(hourly))
	names := make([]string, len(hourly))
	for i, hc := range hourly {
		values[i] = hc.Cost.InexactFloat64()
		names[i] = fmt.Sprintf("%d", hc.Hour)
	}
	bars, err := plotter.NewBarChart(values, vg.Points(20))
	if err != nil {
		return nil, fmt.Errorf("hourly bars: %w", err)
	}
	bars.Color = barColor
	bars.LineStyle.Width = 0

	p.Add(bars)
	p.NominalX(names...)
	return p, nil
}

func empty(p *plot.Plot) (*plot.Plot, error) {
	p.Title.Text += " (" + NoData + ")"
	p.X.Min, p.X.Max = 0, 1
	p.Y.Min, p.Y.Max = 0, 1
	labels, err := plotter.NewLabels(plotter.XYLabels{
		XYs:    plotter.XYs{{X: 0.5, Y: 0.5}},
		Labels: []string{NoData},
	})
	if err != nil {
		return nil, err
	}
	p.Add(labels)
	return p, nil
}

// Render encodes p at the default size. format is any gonum/plot image
// format, e.g. "png" or "svg".
func Render(p *plot.Plot, w io.Writer, format string) error {
	wt, err := p.WriterTo(DefaultWidth, DefaultHeight, format)
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}

// Save writes p to path at the default size; the extension picks the format.
func Save(p *plot.Plot, path string) error {
	if strings.TrimPrefix(filepath.Ext(path), ".") == "" {
		return fmt.Errorf("plot path %q has no extension", path)
	}
	return p.Save(DefaultWidth, DefaultHeight, path)
}
