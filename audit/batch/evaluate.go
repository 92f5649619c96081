// Package batch evaluates the efficiency index for every row of a CSV table.
package batch

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/inference-sim/effindex/audit"
	"github.com/inference-sim/effindex/audit/trace"
)

// ErrMissingColumn is returned when a required CSV column is absent.
var ErrMissingColumn = errors.New("missing required column")

// Column names recognized in batch input.
const (
	ColumnOutput          = "output"
	ColumnTime            = "time"
	ColumnVisibleTime     = "visibleTime"
	ColumnEntropy         = "entropy"
	ColumnSafety          = "safety"
	ColumnProportionality = "proportionality"

	ColumnIndex       = "index"
	ColumnGuardFactor = "guard_factor"
	ColumnScore       = "score"
	ColumnFlag        = "flag"
)

// DefaultTimeDefault fills the visible time when the input has no time column.
const DefaultTimeDefault = 1.0

// Options configures Evaluate.
type Options struct {
	// TimeDefault is used for every row when neither "time" nor "visibleTime" is present.
	TimeDefault float64
	// Evaluator classifies scored rows. Nil uses the zero Evaluator.
	Evaluator *audit.Evaluator
	// Guardrails enables scoring. Per-row "safety" and "proportionality" cells
	// override these defaults. Nil means index only.
	Guardrails *audit.Guardrails
	// Workers bounds concurrent row evaluation; <= 0 uses GOMAXPROCS.
	Workers int
}

// Report is the outcome of a batch run. Results[i] belongs to Table.Rows[i].
type Report struct {
	Table   *Table
	Results []audit.Result
	Trace   *trace.AuditTrace
}

// columnLayout holds resolved column positions; -1 means absent.
type columnLayout struct {
	output, time, entropy   int
	safety, proportionality int
}

func resolveColumns(t *Table) (columnLayout, error) {
	layout := columnLayout{
		output:          t.ColumnIndex(ColumnOutput),
		time:            t.ColumnIndex(ColumnTime),
		entropy:         t.ColumnIndex(ColumnEntropy),
		safety:          t.ColumnIndex(ColumnSafety),
		proportionality: t.ColumnIndex(ColumnProportionality),
	}
	if layout.time < 0 {
		layout.time = t.ColumnIndex(ColumnVisibleTime)
	}
	if layout.output < 0 {
		return layout, fmt.Errorf("%w: %s", ErrMissingColumn, ColumnOutput)
	}
	if layout.entropy < 0 {
		return layout, fmt.Errorf("%w: %s", ErrMissingColumn, ColumnEntropy)
	}
	return layout, nil
}

// Evaluate computes one result per row and returns the table augmented with the
// derived columns. A missing required column fails before any row is evaluated.
// Any row failure aborts the whole batch; the error names the lowest failing row.
func Evaluate(ctx context.Context, t *Table, opts Options) (*Report, error) {
	layout, err := resolveColumns(t)
	if err != nil {
		return nil, err
	}
	if layout.time < 0 {
		logrus.Debugf("no time column; using default visible time %g", opts.TimeDefault)
	}
	ev := opts.Evaluator
	if ev == nil {
		ev = &audit.Evaluator{}
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([]audit.Result, len(t.Rows))
	errs := make([]error, len(t.Rows))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, row := range t.Rows {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			res, err := evaluateRow(ev, layout, row, opts)
			if err != nil {
				errs[i] = fmt.Errorf("row %d: %w", i+1, err)
				return errs[i]
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		for _, e := range errs {
			if e != nil {
				return nil, e
			}
		}
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report := &Report{
		Table:   augment(t, layout, results, opts),
		Results: results,
		Trace:   trace.NewAuditTrace(len(results)),
	}
	for i, res := range results {
		report.Trace.Record(trace.Record{
			Row:         i + 1,
			Index:       res.Index,
			GuardFactor: res.GuardFactor,
			Score:       res.Score,
			Flag:        res.Flag,
		})
	}
	logrus.Infof("evaluated %d rows", len(results))
	return report, nil
}

func evaluateRow(ev *audit.Evaluator, layout columnLayout, row []string, opts Options) (audit.Result, error) {
	var in audit.Input
	var err error
	if in.Output, err = parseCell(row, layout.output, ColumnOutput); err != nil {
		return audit.Result{}, err
	}
	if in.Entropy, err = parseCell(row, layout.entropy, ColumnEntropy); err != nil {
		return audit.Result{}, err
	}
	in.VisibleTime = opts.TimeDefault
	if layout.time >= 0 {
		if in.VisibleTime, err = parseCell(row, layout.time, ColumnTime); err != nil {
			return audit.Result{}, err
		}
	}

	if opts.Guardrails == nil {
		return ev.Evaluate(in, nil)
	}
	g := *opts.Guardrails
	if g.Safety, err = parseOptionalCell(row, layout.safety, ColumnSafety, g.Safety); err != nil {
		return audit.Result{}, err
	}
	if g.Proportionality, err = parseOptionalCell(row, layout.proportionality, ColumnProportionality, g.Proportionality); err != nil {
		return audit.Result{}, err
	}
	return ev.Evaluate(in, &g)
}

func parseCell(row []string, idx int, name string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(row[idx]), 64)
	if err != nil {
		return 0, fmt.Errorf("column %s: %w", name, err)
	}
	return v, nil
}

// parseOptionalCell returns fallback when the column is absent or the cell is blank.
func parseOptionalCell(row []string, idx int, name string, fallback float64) (float64, error) {
	if idx < 0 || strings.TrimSpace(row[idx]) == "" {
		return fallback, nil
	}
	return parseCell(row, idx, name)
}

// augment copies t and writes the derived columns. A derived column already
// present in the input (for example "index" in a generated grid) is overwritten
// in place; otherwise it is appended.
func augment(t *Table, layout columnLayout, results []audit.Result, opts Options) *Table {
	out := &Table{Columns: append([]string(nil), t.Columns...), Rows: make([][]string, len(t.Rows))}
	for i, row := range t.Rows {
		out.Rows[i] = append([]string(nil), row...)
	}

	if layout.time < 0 {
		out.setColumn(ColumnTime, func(int) string { return formatFloat(opts.TimeDefault) })
	}
	out.setColumn(ColumnIndex, func(i int) string { return formatFloat(results[i].Index) })
	if opts.Guardrails != nil {
		out.setColumn(ColumnGuardFactor, func(i int) string { return formatFloat(*results[i].GuardFactor) })
		out.setColumn(ColumnScore, func(i int) string { return formatFloat(*results[i].Score) })
		out.setColumn(ColumnFlag, func(i int) string { return results[i].Flag })
	}
	return out
}

// setColumn fills column name with value(row) for every row.
func (t *Table) setColumn(name string, value func(row int) string) {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		t.Columns = append(t.Columns, name)
		for i := range t.Rows {
			t.Rows[i] = append(t.Rows[i], value(i))
		}
		return
	}
	for i := range t.Rows {
		t.Rows[i][idx] = value(i)
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
