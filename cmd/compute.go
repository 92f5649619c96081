package cmd

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/inference-sim/effindex/audit"
)

var (
	pointOutput      float64 // Output yield (O)
	pointTime        float64 // Visible time (T_visible)
	pointEntropy     float64 // Entropy / scatter (S)
	pointIndexOnly   bool    // Skip guardrails, print only E_true
	pointFormat      string  // text | yaml
	pointEvalOptions evaluationFlags
)

// computeCmd evaluates a single point from CLI flags
var computeCmd = &cobra.Command{
	Use:   "compute",
	Short: "Compute the efficiency index, guard factor, score and flag for one point",
	Example: "  effindex compute --output 12 --time 1.5 --entropy 0.8 --safety 0.9 --proportionality 0.85\n" +
		"  effindex compute --output 12 --time 3.0 --entropy 0.5 --index-only",
	Run: func(cmd *cobra.Command, args []string) {
		if err := runCompute(cmd, cmd.OutOrStdout()); err != nil {
			logrus.Fatalf("%v", err)
		}
	},
}

func runCompute(cmd *cobra.Command, w io.Writer) error {
	if pointFormat != "text" && pointFormat != "yaml" {
		return fmt.Errorf("unknown --format %q; valid: text, yaml", pointFormat)
	}
	cfg := loadConfig(cmd)
	in := audit.Input{Output: pointOutput, VisibleTime: pointTime, Entropy: pointEntropy}

	if pointIndexOnly {
		res, err := (&audit.Evaluator{}).Evaluate(in, nil)
		if err != nil {
			return err
		}
		return printResult(w, res, pointFormat)
	}

	ev, g, err := pointEvalOptions.resolve(cmd, cfg)
	if err != nil {
		return err
	}
	res, err := ev.Evaluate(in, &g)
	if err != nil {
		return err
	}
	return printResult(w, res, pointFormat)
}

// printResult writes res as aligned "name : value" lines or as YAML.
func printResult(w io.Writer, res audit.Result, format string) error {
	if format == "yaml" {
		data, err := yaml.Marshal(res)
		if err != nil {
			return fmt.Errorf("YAML marshal failed: %w", err)
		}
		_, err = w.Write(data)
		return err
	}

	if _, err := fmt.Fprintf(w, "E_true       : %.6f\n", res.Index); err != nil {
		return err
	}
	if !res.Scored() {
		return nil
	}
	_, err := fmt.Fprintf(w, "Guard factor : %.4f\nScore        : %.6f\nFlag         : %s\n",
		*res.GuardFactor, *res.Score, res.Flag)
	return err
}

func init() {
	computeCmd.Flags().Float64Var(&pointOutput, "output", 0, "Output yield (O)")
	computeCmd.Flags().Float64Var(&pointTime, "time", 0, "Visible time (T_visible), must be > 0")
	computeCmd.Flags().Float64Var(&pointEntropy, "entropy", 0, "Entropy / scatter (S), must be > 0")
	computeCmd.Flags().BoolVar(&pointIndexOnly, "index-only", false, "Print only the efficiency index (no guardrails or flag)")
	computeCmd.Flags().StringVar(&pointFormat, "format", "text", "Output format: text or yaml")
	pointEvalOptions.register(computeCmd)
	_ = computeCmd.MarkFlagRequired("output")
	_ = computeCmd.MarkFlagRequired("time")
	_ = computeCmd.MarkFlagRequired("entropy")

	rootCmd.AddCommand(computeCmd)
}
