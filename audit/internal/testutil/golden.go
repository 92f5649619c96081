// Package testutil provides shared test infrastructure for the audit packages.
// It holds the scenario dataset types and float assertion helpers used by
// audit/ and its sub-package tests.
package testutil

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// ScenarioDataset represents the structure of testdata/scenarios.json.
type ScenarioDataset struct {
	Scenarios []Scenario `json:"scenarios"`
}

// Scenario is one worked example with its expected outcome.
type Scenario struct {
	Name            string          `json:"name"`
	Output          float64         `json:"output"`
	VisibleTime     float64         `json:"visible_time"`
	Entropy         float64         `json:"entropy"`
	Safety          float64         `json:"safety"`
	Proportionality float64         `json:"proportionality"`
	Mode            string          `json:"mode"`
	Expected        ScenarioOutcome `json:"expected"`
}

// ScenarioOutcome is the expected evaluation of a Scenario.
type ScenarioOutcome struct {
	Index       float64 `json:"index"`
	GuardFactor float64 `json:"guard_factor"`
	Score       float64 `json:"score"`
	LadderFlag  string  `json:"ladder_flag"`
	StrictFlag  string  `json:"strict_flag"`
}

// LoadScenarios loads the scenario dataset from the testdata directory.
// The path is resolved relative to this source file: audit/internal/testutil/ → testdata/.
func LoadScenarios(t *testing.T) *ScenarioDataset {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}
	path := filepath.Join(filepath.Dir(thisFile), "..", "..", "..", "testdata", "scenarios.json")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read scenario dataset: %v", err)
	}

	var dataset ScenarioDataset
	if err := json.Unmarshal(data, &dataset); err != nil {
		t.Fatalf("Failed to parse scenario dataset: %v", err)
	}
	return &dataset
}

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}
