// Package plot renders the efficiency index against visible time at a fixed entropy.
package plot

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/inference-sim/effindex/audit/grid"
)

// Options controls the rendered image.
type Options struct {
	Width  vg.Length
	Height vg.Length
	DPI    int // raster formats only
}

// DefaultOptions returns a 6x4.5 inch canvas at 160 dpi.
func DefaultOptions() Options {
	return Options{Width: 6 * vg.Inch, Height: 4.5 * vg.Inch, DPI: 160}
}

// NewSlicePlot builds the line plot of index vs visible time at entropy for points.
func NewSlicePlot(output, entropy float64, points []grid.Point) (*plot.Plot, error) {
	xys := make(plotter.XYs, len(points))
	for i, p := range points {
		xys[i].X = p.VisibleTime
		xys[i].Y = p.Index
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Efficiency vs Visible Time (S fixed at %.2f, O=%g)", entropy, output)
	p.X.Label.Text = "Visible Time (T_visible)"
	p.Y.Label.Text = "E_true"
	p.Add(plotter.NewGrid())

	line, err := plotter.NewLine(xys)
	if err != nil {
		return nil, fmt.Errorf("building index curve: %w", err)
	}
	p.Add(line)
	return p, nil
}

// RenderSlice plots the median-entropy slice of cfg and saves it to path.
// The format follows the file extension (png, svg, pdf, ...). Parent directories
// are created as needed. Returns the fixed entropy value.
func RenderSlice(cfg grid.Config, path string, opts Options) (float64, error) {
	entropy, points, err := grid.MedianSlice(cfg)
	if err != nil {
		return 0, err
	}
	p, err := NewSlicePlot(cfg.Output, entropy, points)
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return 0, fmt.Errorf("creating output directory: %w", err)
	}
	if err := save(p, path, opts); err != nil {
		return 0, err
	}
	logrus.Debugf("rendered %d points at entropy %.4f to %s", len(points), entropy, path)
	return entropy, nil
}

func save(p *plot.Plot, path string, opts Options) error {
	if opts.Width <= 0 || opts.Height <= 0 {
		def := DefaultOptions()
		opts.Width, opts.Height = def.Width, def.Height
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if ext != "png" || opts.DPI <= 0 {
		if err := p.Save(opts.Width, opts.Height, path); err != nil {
			return fmt.Errorf("saving plot: %w", err)
		}
		return nil
	}

	c := vgimg.NewWith(vgimg.UseWH(opts.Width, opts.Height), vgimg.UseDPI(opts.DPI))
	p.Draw(draw.New(c))

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating plot file: %w", err)
	}
	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(file); err != nil {
		_ = file.Close()
		return fmt.Errorf("writing plot: %w", err)
	}
	return file.Close()
}
