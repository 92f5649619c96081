// Package grid generates synthetic efficiency surfaces over visible time and entropy.
//
// Grid points use audit.TolerantIndex: a non-positive time or entropy sample yields
// an index of 0 rather than an error, so a sweep that touches the axis still
// produces a complete table.
package grid

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"gonum.org/v1/gonum/floats"

	"github.com/inference-sim/effindex/audit"
)

// Config describes the sweep: a fixed output and evenly spaced samples of
// visible time in [TMin, TMax] and entropy in [SMin, SMax], Steps per axis.
type Config struct {
	Output float64 `yaml:"output"`
	TMin   float64 `yaml:"tmin"`
	TMax   float64 `yaml:"tmax"`
	SMin   float64 `yaml:"smin"`
	SMax   float64 `yaml:"smax"`
	Steps  int     `yaml:"steps"`
}

// DefaultConfig returns the sweep used when no flags or defaults file override it.
func DefaultConfig() Config {
	return Config{Output: 10, TMin: 0.5, TMax: 5, SMin: 0.5, SMax: 5, Steps: 100}
}

// Validate checks that the bounds are finite and Steps is at least 1.
func (c Config) Validate() error {
	for name, v := range map[string]float64{"output": c.Output, "tmin": c.TMin, "tmax": c.TMax, "smin": c.SMin, "smax": c.SMax} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%s must be a finite number, got %f", name, v)
		}
	}
	if c.Steps < 1 {
		return fmt.Errorf("steps must be >= 1, got %d", c.Steps)
	}
	return nil
}

// Point is one row of a generated grid.
type Point struct {
	Output      float64
	VisibleTime float64
	Entropy     float64
	Index       float64
}

// Columns is the CSV header written by WriteCSV.
var Columns = []string{"output", "visibleTime", "entropy", "index"}

// Linspace returns n evenly spaced samples from lo to hi inclusive.
// n == 1 yields [lo]; n <= 0 yields nil.
func Linspace(lo, hi float64, n int) []float64 {
	switch {
	case n <= 0:
		return nil
	case n == 1:
		return []float64{lo}
	}
	return floats.Span(make([]float64, n), lo, hi)
}

// TimeSamples returns the visible-time axis of c.
func (c Config) TimeSamples() []float64 { return Linspace(c.TMin, c.TMax, c.Steps) }

// EntropySamples returns the entropy axis of c.
func (c Config) EntropySamples() []float64 { return Linspace(c.SMin, c.SMax, c.Steps) }

// Generate returns the Cartesian product of the time and entropy axes,
// entropy-major: all time samples for the first entropy, then the next.
func Generate(c Config) ([]Point, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	times := c.TimeSamples()
	points := make([]Point, 0, c.Steps*c.Steps)
	for _, s := range c.EntropySamples() {
		points = append(points, slice(c.Output, times, s)...)
	}
	return points, nil
}

// MedianSlice returns the entropy sample at position Steps/2 and the points of
// the index curve along the time axis at that entropy.
func MedianSlice(c Config) (float64, []Point, error) {
	if err := c.Validate(); err != nil {
		return 0, nil, err
	}
	s := c.EntropySamples()[c.Steps/2]
	return s, slice(c.Output, c.TimeSamples(), s), nil
}

func slice(output float64, times []float64, entropy float64) []Point {
	points := make([]Point, len(times))
	for i, t := range times {
		points[i] = Point{
			Output:      output,
			VisibleTime: t,
			Entropy:     entropy,
			Index:       audit.TolerantIndex(output, t, entropy),
		}
	}
	return points
}

// WriteCSV writes points with the Columns header.
func WriteCSV(w io.Writer, points []Point) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(Columns); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for i, p := range points {
		row := []string{
			strconv.FormatFloat(p.Output, 'f', -1, 64),
			strconv.FormatFloat(p.VisibleTime, 'f', -1, 64),
			strconv.FormatFloat(p.Entropy, 'f', -1, 64),
			strconv.FormatFloat(p.Index, 'f', -1, 64),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("writing CSV row %d: %w", i+1, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// SaveCSV writes points to path, creating parent directories as needed.
func SaveCSV(path string, points []Point) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating grid file: %w", err)
	}
	if err := WriteCSV(file, points); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}
