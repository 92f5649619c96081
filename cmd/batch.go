package cmd

import (
	"context"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/inference-sim/effindex/audit/batch"
	"github.com/inference-sim/effindex/audit/trace"
)

var (
	batchCSVPath     string  // Input CSV (optionally .gz)
	batchTimeDefault float64 // Visible time for inputs without a time column
	batchScore       bool    // Add guard_factor, score and flag columns
	batchOutPath     string  // Optional CSV output path
	batchWorkers     int     // Concurrent row evaluations
	batchSummarize   bool    // Print a summary after the table
	batchEvalOptions evaluationFlags
)

// summaryPrinter formats counts with thousands separators.
var summaryPrinter = message.NewPrinter(language.English)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Compute the efficiency index for every row of a CSV file",
	Long: "Reads a CSV with columns output and entropy (required) and time or visibleTime (optional, " +
		"filled with --time-default when absent). Prints the table with an index column appended. " +
		"Any invalid row aborts the whole batch.",
	Run: func(cmd *cobra.Command, args []string) {
		if err := runBatch(cmd, cmd.OutOrStdout()); err != nil {
			logrus.Fatalf("%v", err)
		}
	},
}

func runBatch(cmd *cobra.Command, w io.Writer) error {
	cfg := loadConfig(cmd)
	opts := batch.Options{
		TimeDefault: cfg.Defaults.TimeDefault,
		Workers:     batchWorkers,
	}
	if cmd.Flags().Changed("time-default") {
		opts.TimeDefault = batchTimeDefault
	}
	if batchScore {
		ev, g, err := batchEvalOptions.resolve(cmd, cfg)
		if err != nil {
			return err
		}
		opts.Evaluator = ev
		opts.Guardrails = &g
	}

	tbl, err := batch.LoadTable(batchCSVPath)
	if err != nil {
		return err
	}
	logrus.Infof("loaded %d rows from %s", len(tbl.Rows), batchCSVPath)

	report, err := batch.Evaluate(context.Background(), tbl, opts)
	if err != nil {
		return err
	}
	if err := batch.Render(w, report.Table); err != nil {
		return err
	}
	if batchOutPath != "" {
		if err := batch.SaveCSV(batchOutPath, report.Table); err != nil {
			return err
		}
		logrus.Infof("wrote %s", batchOutPath)
	}
	if batchSummarize {
		return printSummary(w, trace.Summarize(report.Trace))
	}
	return nil
}

// printSummary writes batch statistics in the same "name : value" layout as compute.
func printSummary(w io.Writer, s *trace.Summary) error {
	var err error
	printf := func(format string, args ...any) {
		if err == nil {
			_, err = summaryPrinter.Fprintf(w, format, args...)
		}
	}
	printf("\n=== Batch Summary ===\n")
	printf("Rows evaluated : %d\n", s.Rows)
	printf("Index min      : %.4f\n", s.MinIndex)
	printf("Index median   : %.4f\n", s.MedianIndex)
	printf("Index mean     : %.4f\n", s.MeanIndex)
	printf("Index max      : %.4f\n", s.MaxIndex)
	if s.ScoredRows > 0 {
		printf("Score mean     : %.4f\n", s.MeanScore)
	}
	for _, flag := range s.Flags() {
		printf("Flag %-24s: %d (%.1f%%)\n", flag, s.FlagDistribution[flag], 100*s.FlagShare(flag))
	}
	return err
}

func init() {
	batchCmd.Flags().StringVar(&batchCSVPath, "csv", "", "CSV with columns: output,entropy[,time] (may be .gz)")
	batchCmd.Flags().Float64Var(&batchTimeDefault, "time-default", batch.DefaultTimeDefault, "Default T_visible if missing in CSV")
	batchCmd.Flags().BoolVar(&batchScore, "score", false, "Add guard_factor, score and flag columns")
	batchCmd.Flags().StringVar(&batchOutPath, "out", "", "Also write the augmented table to this CSV path")
	batchCmd.Flags().IntVar(&batchWorkers, "workers", 0, "Concurrent row evaluations (0 = GOMAXPROCS)")
	batchCmd.Flags().BoolVar(&batchSummarize, "summarize", false, "Print index statistics and flag counts after the table")
	batchEvalOptions.register(batchCmd)
	_ = batchCmd.MarkFlagRequired("csv")

	rootCmd.AddCommand(batchCmd)
}
