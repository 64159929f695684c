package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"imbalance-report/internal/analysis"
	"imbalance-report/internal/plot"

	gplot "gonum.org/v1/plot"
	"gopkg.in/yaml.v3"
)

// Artifact formats understood by Writer.
const (
	FormatTXT  = "txt"
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatCSV  = "csv"
	FormatPNG  = "png"
	FormatSVG  = "svg"
)

// Fixed artifact file names inside the output directory.
const (
	TextFileName   = "daily_imbalance_report.txt"
	JSONFileName   = "report.json"
	YAMLFileName   = "report.yaml"
	CSVFileName    = "intervals.csv"
	PlotFileName   = "imbalance_plot.png"
	HourlyFileName = "hourly_cost.png"
)

// ValidFormat reports whether f is a known artifact format.
func ValidFormat(f string) bool {
	switch strings.ToLower(strings.TrimSpace(f)) {
	case FormatTXT, FormatJSON, FormatYAML, FormatCSV, FormatPNG, FormatSVG:
		return true
	}
	return false
}

// Writer persists a summary and its series into Dir.
type Writer struct {
	Dir      string
	Formats  []string
	Currency string
}

// Write creates Dir if needed and writes one artifact per format (png and svg
// each write two charts). It returns the paths written, in format order.
func (w *Writer) Write(s *Summary, series *analysis.Series) ([]string, error) {
	if s == nil {
		return nil, fmt.Errorf("summary is nil")
	}
	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output dir: %w", err)
	}

	var written []string
	for _, f := range w.Formats {
		switch strings.ToLower(strings.TrimSpace(f)) {
		case FormatTXT:
			p := filepath.Join(w.Dir, TextFileName)
			if err := os.WriteFile(p, []byte(FormatText(s, w.Currency)), 0o644); err != nil {
				return written, fmt.Errorf("failed to write text report: %w", err)
			}
			written = append(written, p)
		case FormatJSON:
			raw, err := json.MarshalIndent(s, "", "  ")
			if err != nil {
				return written, fmt.Errorf("failed to marshal report: %w", err)
			}
			p := filepath.Join(w.Dir, JSONFileName)
			if err := os.WriteFile(p, raw, 0o644); err != nil {
				return written, fmt.Errorf("failed to write json report: %w", err)
			}
			written = append(written, p)
		case FormatYAML:
			raw, err := yaml.Marshal(s)
			if err != nil {
				return written, fmt.Errorf("failed to marshal report: %w", err)
			}
			p := filepath.Join(w.Dir, YAMLFileName)
			if err := os.WriteFile(p, raw, 0o644); err != nil {
				return written, fmt.Errorf("failed to write yaml report: %w", err)
			}
			written = append(written, p)
		case FormatCSV:
			rows, err := series.Rows()
			if err != nil {
				return written, err
			}
			p := filepath.Join(w.Dir, CSVFileName)
			if err := WriteIntervalsCSV(p, rows); err != nil {
				return written, fmt.Errorf("failed to write intervals csv: %w", err)
			}
			written = append(written, p)
		case FormatPNG, FormatSVG:
			paths, err := w.writeCharts(s, series, strings.ToLower(strings.TrimSpace(f)))
			written = append(written, paths...)
			if err != nil {
				return written, err
			}
		default:
			return written, fmt.Errorf("unsupported format: %q", f)
		}
	}
	return written, nil
}

// ChartFileName swaps the extension of a chart file name for format.
func ChartFileName(name, format string) string {
	return strings.TrimSuffix(name, filepath.Ext(name)) + "." + format
}

func (w *Writer) writeCharts(s *Summary, series *analysis.Series, format string) ([]string, error) {
	rows, err := series.Rows()
	if err != nil {
		return nil, err
	}
	volume, err := plot.Volume(rows)
	if err != nil {
		return nil, err
	}
	hourly, err := plot.HourlyCost(s.HourlyCost)
	if err != nil {
		return nil, err
	}

	var written []string
	for _, c := range []struct {
		name  string
		chart *gplot.Plot
	}{
		{PlotFileName, volume},
		{HourlyFileName, hourly},
	} {
		p := filepath.Join(w.Dir, ChartFileName(c.name, format))
		if err := plot.Save(c.chart, p); err != nil {
			return written, fmt.Errorf("failed to write plot: %w", err)
		}
		written = append(written, p)
	}
	return written, nil
}
