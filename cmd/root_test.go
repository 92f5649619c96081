package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/inference-sim/effindex/audit"
	"github.com/inference-sim/effindex/audit/batch"
	"github.com/inference-sim/effindex/audit/trace"
)

// resetFlags restores every local flag of cmd to its default and clears Changed,
// so package-level flag variables do not leak between tests.
func resetFlags(t *testing.T, cmd *cobra.Command) {
	t.Helper()
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		require.NoError(t, f.Value.Set(f.DefValue))
		f.Changed = false
	})
}

func setFlags(t *testing.T, cmd *cobra.Command, kv map[string]string) {
	t.Helper()
	resetFlags(t, cmd)
	t.Cleanup(func() { resetFlags(t, cmd) })
	for k, v := range kv {
		require.NoError(t, cmd.Flags().Set(k, v), "flag %s", k)
	}
}

func TestRunCompute_DefaultPolicy(t *testing.T) {
	// GIVEN the documented audit example point
	setFlags(t, computeCmd, map[string]string{
		"output": "12", "time": "1.5", "entropy": "0.8",
		"safety": "0.9", "proportionality": "0.85",
	})

	// WHEN computed with the built-in defaults
	var buf bytes.Buffer
	require.NoError(t, runCompute(computeCmd, &buf))

	// THEN every field is printed and the ladder flags it efficient
	assert.Equal(t, "E_true       : 10.000000\n"+
		"Guard factor : 0.8750\n"+
		"Score        : 8.750000\n"+
		"Flag         : efficient\n", buf.String())
}

func TestRunCompute_StrictPolicy(t *testing.T) {
	setFlags(t, computeCmd, map[string]string{
		"output": "12", "time": "1.5", "entropy": "0.8",
		"safety": "0.9", "proportionality": "0.85",
		"flag-policy": audit.PolicyStrictGuardrail,
	})

	var buf bytes.Buffer
	require.NoError(t, runCompute(computeCmd, &buf))
	assert.Contains(t, buf.String(), "Flag         : OK\n")
}

func TestRunCompute_IndexOnly(t *testing.T) {
	setFlags(t, computeCmd, map[string]string{
		"output": "12", "time": "3", "entropy": "0.5", "index-only": "true",
	})

	var buf bytes.Buffer
	require.NoError(t, runCompute(computeCmd, &buf))
	assert.Equal(t, "E_true       : 8.000000\n", buf.String())
}

func TestRunCompute_InvalidTime_ReturnsInvalidArgument(t *testing.T) {
	setFlags(t, computeCmd, map[string]string{
		"output": "12", "time": "0", "entropy": "0.5",
	})

	var buf bytes.Buffer
	err := runCompute(computeCmd, &buf)
	require.Error(t, err)
	assert.True(t, errors.Is(err, audit.ErrInvalidArgument))
	assert.Empty(t, buf.String())
}

func TestRunCompute_UnknownFormat(t *testing.T) {
	setFlags(t, computeCmd, map[string]string{
		"output": "1", "time": "1", "entropy": "1", "format": "json",
	})
	require.Error(t, runCompute(computeCmd, &bytes.Buffer{}))
}

func TestRunCompute_UnknownPolicy(t *testing.T) {
	setFlags(t, computeCmd, map[string]string{
		"output": "1", "time": "1", "entropy": "1", "flag-policy": "majority",
	})
	err := runCompute(computeCmd, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--flag-policy")
}

func TestRunCompute_GuardrailProfile(t *testing.T) {
	// GIVEN the simulator profile and no explicit guardrail values
	setFlags(t, computeCmd, map[string]string{
		"output": "6", "time": "1", "entropy": "2", "guardrail-profile": audit.ProfileSimulator,
	})

	var buf bytes.Buffer
	require.NoError(t, runCompute(computeCmd, &buf))

	// THEN the guard factor is 1 and the score equals the index
	assert.Contains(t, buf.String(), "Guard factor : 1.0000\n")
	assert.Contains(t, buf.String(), "Score        : 3.000000\n")
}

func TestPrintResult_YAML(t *testing.T) {
	g, s := 0.5, 1.5
	res := audit.Result{Index: 3, GuardFactor: &g, Score: &s, Flag: "OK"}

	var buf bytes.Buffer
	require.NoError(t, printResult(&buf, res, "yaml"))

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "OK", decoded["flag"])
	assert.Len(t, decoded, 4)
}

func TestPrintResult_YAML_IndexOnlyOmitsGuardrails(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printResult(&buf, audit.Result{Index: 2}, "yaml"))

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Len(t, decoded, 1)
}

func writeBatchCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cycles.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestRunBatch_AppendsIndexColumn(t *testing.T) {
	// GIVEN a CSV without a time column
	path := writeBatchCSV(t, "output,entropy\n6,2\n8,4\n")
	setFlags(t, batchCmd, map[string]string{"csv": path, "time-default": "1"})

	// WHEN the batch runs
	var buf bytes.Buffer
	require.NoError(t, runBatch(batchCmd, &buf))

	// THEN every row gains its index using the default time
	out := buf.String()
	assert.Contains(t, out, "index")
	assert.Contains(t, out, "3")
	assert.Contains(t, out, "2")
	assert.NotContains(t, out, "flag")
}

func TestRunBatch_ScoreSummarizeAndSave(t *testing.T) {
	path := writeBatchCSV(t, "output,entropy,time\n6,1,2\n8,2,2\n")
	outPath := filepath.Join(t.TempDir(), "nested", "scored.csv")
	setFlags(t, batchCmd, map[string]string{
		"csv": path, "score": "true", "summarize": "true", "out": outPath,
		"guardrail-profile": audit.ProfileSimulator,
	})

	var buf bytes.Buffer
	require.NoError(t, runBatch(batchCmd, &buf))

	out := buf.String()
	assert.Contains(t, out, "=== Batch Summary ===")
	assert.Contains(t, out, "Rows evaluated : 2\n")
	assert.Contains(t, out, "Flag efficient")

	saved, err := batch.LoadTable(outPath)
	require.NoError(t, err)
	assert.Equal(t, []string{"output", "entropy", "time", "index", "guard_factor", "score", "flag"}, saved.Columns)
	require.Len(t, saved.Rows, 2)
	assert.Equal(t, "3", saved.Rows[0][3])
	assert.Equal(t, "2", saved.Rows[1][3])
}

func TestRunBatch_MissingColumn(t *testing.T) {
	path := writeBatchCSV(t, "output,time\n6,2\n")
	setFlags(t, batchCmd, map[string]string{"csv": path})

	err := runBatch(batchCmd, &bytes.Buffer{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, batch.ErrMissingColumn))
}

func TestRunBatch_InvalidRowAbortsBatch(t *testing.T) {
	path := writeBatchCSV(t, "output,entropy,time\n6,1,2\n8,0,2\n")
	setFlags(t, batchCmd, map[string]string{"csv": path})

	var buf bytes.Buffer
	err := runBatch(batchCmd, &buf)
	require.Error(t, err)
	assert.True(t, errors.Is(err, audit.ErrInvalidArgument))
	assert.Empty(t, buf.String())
}

func TestPrintSummary_ThousandsSeparator(t *testing.T) {
	at := trace.NewAuditTrace(0)
	for i := 0; i < 1200; i++ {
		at.Record(trace.Record{Row: i, Index: 1})
	}

	var buf bytes.Buffer
	require.NoError(t, printSummary(&buf, trace.Summarize(at)))
	assert.Contains(t, buf.String(), "Rows evaluated : 1,200\n")
	assert.NotContains(t, buf.String(), "Score mean")
}

func TestRunGrid_WritesCSV(t *testing.T) {
	out := filepath.Join(t.TempDir(), "grid.csv")
	setFlags(t, gridCmd, map[string]string{"steps": "3", "out": out})

	var buf bytes.Buffer
	require.NoError(t, runGrid(gridCmd, &buf))
	assert.Equal(t, "Saved 9 grid rows to "+out+"\n", buf.String())

	tbl, err := batch.LoadTable(out)
	require.NoError(t, err)
	assert.Equal(t, []string{"output", "visibleTime", "entropy", "index"}, tbl.Columns)
	assert.Len(t, tbl.Rows, 9)
}

func TestRunGrid_InvalidSteps(t *testing.T) {
	setFlags(t, gridCmd, map[string]string{"steps": "0", "out": filepath.Join(t.TempDir(), "g.csv")})
	require.Error(t, runGrid(gridCmd, &bytes.Buffer{}))
}

func TestRunPlot_WritesImage(t *testing.T) {
	out := filepath.Join(t.TempDir(), "slice.svg")
	setFlags(t, plotCmd, map[string]string{"steps": "5", "out": out})

	var buf bytes.Buffer
	require.NoError(t, runPlot(plotCmd, &buf))
	assert.Equal(t, "Saved plot to "+out+"\n", buf.String())

	info, err := os.Stat(out)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestRunBatch_SampleOperatorCycles(t *testing.T) {
	// GIVEN the shipped sample file scored with the audit profile
	setFlags(t, batchCmd, map[string]string{
		"csv": "../data/sample_operator_cycles.csv", "score": "true", "summarize": "true",
	})

	// WHEN the batch runs
	var buf bytes.Buffer
	require.NoError(t, runBatch(batchCmd, &buf))

	// THEN four cycles are efficient and the exploration cycle is inefficient
	out := buf.String()
	assert.Contains(t, out, "Rows evaluated : 5\n")
	assert.Contains(t, out, "Index max      : 22.5000\n")
	assert.Contains(t, out, ": 4 (80.0%)\n")
	assert.Contains(t, out, ": 1 (20.0%)\n")
	assert.Contains(t, out, "inefficient")
}
