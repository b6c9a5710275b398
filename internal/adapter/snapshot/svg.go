// Package snapshot renders static SVG images of the report's time series.
package snapshot

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/couchcryptid/climate-report/internal/domain"
)

// ErrTooFewPoints is returned when a series cannot be drawn as a line.
var ErrTooFewPoints = errors.New("at least two points are required")

// File names written by Writer.
const (
	CO2File      = "co2.svg"
	SeaLevelFile = "sea_level.svg"
)

var lineColor = drawing.ColorFromHex("b22222")

// Writer writes SVG snapshots into a directory.
type Writer struct {
	dir    string
	logger *slog.Logger
}

// NewWriter creates a Writer for dir. The directory is created on first write.
func NewWriter(dir string, logger *slog.Logger) *Writer {
	return &Writer{dir: dir, logger: logger}
}

// WriteAll renders the CO2 and sea level snapshots and returns the paths written.
// A series with too few points is skipped.
func (w *Writer) WriteAll(ds *domain.Dataset) ([]string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create snapshot dir: %w", err)
	}

	co2X := make([]float64, len(ds.CO2))
	co2Y := make([]float64, len(ds.CO2))
	for i, r := range ds.CO2 {
		co2X[i], co2Y[i] = r.Year, r.MonthlyAverage
	}
	seaX := make([]float64, len(ds.SeaLevel))
	seaY := make([]float64, len(ds.SeaLevel))
	for i, r := range ds.SeaLevel {
		seaX[i], seaY[i] = r.DecimalYear, r.GMSLmm
	}

	jobs := []struct {
		file   string
		title  string
		yName  string
		xs, ys []float64
	}{
		{CO2File, "Atmospheric CO2", "CO2 (ppm)", co2X, co2Y},
		{SeaLevelFile, "Global Mean Sea Level", "Global Mean Sea Level Variation (mm)", seaX, seaY},
	}

	var written []string
	for _, job := range jobs {
		path := filepath.Join(w.dir, job.file)
		err := writeFile(path, func(out io.Writer) error {
			return RenderLine(out, job.title, job.yName, job.xs, job.ys)
		})
		if errors.Is(err, ErrTooFewPoints) {
			w.logger.Warn("snapshot skipped", "file", job.file, "points", len(job.xs))
			continue
		}
		if err != nil {
			return written, err
		}
		written = append(written, path)
	}
	w.logger.Info("snapshots written", "dir", w.dir, "count", len(written))
	return written, nil
}

// RenderLine draws xs/ys as a single line chart in SVG.
func RenderLine(out io.Writer, title, yName string, xs, ys []float64) error {
	if len(xs) < 2 || len(xs) != len(ys) {
		return ErrTooFewPoints
	}
	ch := chart.Chart{
		Title:      title,
		Width:      960,
		Height:     400,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis: chart.XAxis{
			Name:           "Year",
			ValueFormatter: yearFormatter,
		},
		YAxis: chart.YAxis{Name: yName},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    yName,
				XValues: xs,
				YValues: ys,
				Style:   chart.Style{StrokeColor: lineColor, StrokeWidth: 1.5},
			},
		},
	}
	if err := ch.Render(chart.SVG, out); err != nil {
		return fmt.Errorf("render %s: %w", title, err)
	}
	return nil
}

func yearFormatter(v any) string {
	if f, ok := v.(float64); ok {
		return fmt.Sprintf("%.0f", f)
	}
	return ""
}

// writeFile renders into memory first so a failed chart leaves no partial file.
func writeFile(path string, render func(io.Writer) error) error {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
