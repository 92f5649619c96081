package cmd

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/effindex/audit/grid"
	"github.com/inference-sim/effindex/audit/plot"
)

// gridFlags are the sweep flags shared by grid and plot.
type gridFlags struct {
	output float64 // Output yield (O)
	tmin   float64 // Min T_visible
	tmax   float64 // Max T_visible
	smin   float64 // Min entropy S
	smax   float64 // Max entropy S
	steps  int     // Steps per axis
	out    string  // Output path
}

func (f *gridFlags) register(cmd *cobra.Command, outUsage string) {
	def := grid.DefaultConfig()
	cmd.Flags().Float64Var(&f.output, "output", def.Output, "Output yield (O)")
	cmd.Flags().Float64Var(&f.tmin, "tmin", def.TMin, "Min T_visible")
	cmd.Flags().Float64Var(&f.tmax, "tmax", def.TMax, "Max T_visible")
	cmd.Flags().Float64Var(&f.smin, "smin", def.SMin, "Min entropy S")
	cmd.Flags().Float64Var(&f.smax, "smax", def.SMax, "Max entropy S")
	cmd.Flags().IntVar(&f.steps, "steps", def.Steps, "Steps per axis")
	cmd.Flags().StringVar(&f.out, "out", "", outUsage)
}

// resolve overlays explicitly set flags on the grid section of cfg.
func (f *gridFlags) resolve(cmd *cobra.Command, cfg Config) grid.Config {
	c := cfg.Grid
	overrides := []struct {
		name string
		dst  *float64
		src  float64
	}{
		{"output", &c.Output, f.output},
		{"tmin", &c.TMin, f.tmin},
		{"tmax", &c.TMax, f.tmax},
		{"smin", &c.SMin, f.smin},
		{"smax", &c.SMax, f.smax},
	}
	for _, o := range overrides {
		if cmd.Flags().Changed(o.name) {
			*o.dst = o.src
		}
	}
	if cmd.Flags().Changed("steps") {
		c.Steps = f.steps
	}
	return c
}

var (
	gridOptions gridFlags
	plotOptions gridFlags
)

var gridCmd = &cobra.Command{
	Use:   "grid",
	Short: "Write a synthetic (visible time x entropy) efficiency grid as CSV",
	Run: func(cmd *cobra.Command, args []string) {
		if err := runGrid(cmd, cmd.OutOrStdout()); err != nil {
			logrus.Fatalf("%v", err)
		}
	},
}

var plotCmd = &cobra.Command{
	Use:   "plot",
	Short: "Plot the efficiency index against visible time at the median entropy sample",
	Example: "  effindex plot --output 10 --tmin 0.2 --tmax 5 --smin 0.2 --smax 5",
	Run: func(cmd *cobra.Command, args []string) {
		if err := runPlot(cmd, cmd.OutOrStdout()); err != nil {
			logrus.Fatalf("%v", err)
		}
	},
}

func runGrid(cmd *cobra.Command, w io.Writer) error {
	cfg := loadConfig(cmd)
	gc := gridOptions.resolve(cmd, cfg)
	out := cfg.Defaults.GridOut
	if gridOptions.out != "" {
		out = gridOptions.out
	}

	points, err := grid.Generate(gc)
	if err != nil {
		return err
	}
	if err := grid.SaveCSV(out, points); err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "Saved %d grid rows to %s\n", len(points), out)
	return err
}

func runPlot(cmd *cobra.Command, w io.Writer) error {
	cfg := loadConfig(cmd)
	gc := plotOptions.resolve(cmd, cfg)
	out := cfg.Defaults.PlotOut
	if plotOptions.out != "" {
		out = plotOptions.out
	}

	entropy, err := plot.RenderSlice(gc, out, plot.DefaultOptions())
	if err != nil {
		return err
	}
	logrus.Infof("plotted slice at entropy %.4f", entropy)
	_, err = fmt.Fprintf(w, "Saved plot to %s\n", out)
	return err
}

func init() {
	gridOptions.register(gridCmd, "Output CSV path (default from defaults.yaml: data/efficiency_grid.csv)")
	plotOptions.register(plotCmd, "Output image path; format from extension (default from defaults.yaml: diagrams/energy_vs_output_curve.png)")

	rootCmd.AddCommand(gridCmd)
	rootCmd.AddCommand(plotCmd)
}
