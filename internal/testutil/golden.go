// Package testutil provides shared test infrastructure for stepgen.
// It holds the golden dataset types and assertion helpers used by the cmd
// test package.
package testutil

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// GoldenDataset represents the structure of testdata/goldendataset.json.
type GoldenDataset struct {
	Tests []GoldenTestCase `json:"tests"`
}

// GoldenTestCase is one protocol run with its expected outcome. Protocol is
// relative to the repository root.
type GoldenTestCase struct {
	Name       string        `json:"name"`
	Protocol   string        `json:"protocol"`
	Validate   bool          `json:"validate"`
	StripNoOps bool          `json:"strip-noops"`
	Expected   GoldenOutcome `json:"expected"`
}

// GoldenOutcome is what a run must produce.
type GoldenOutcome struct {
	// Exact match
	FrameIndices []int    `json:"frame_indices"`
	WarningKinds []string `json:"warning_kinds"`
	HaltIndex    *int     `json:"halt_index"`
	HaltError    string   `json:"halt_error"`

	// Final volumes in µL: labware id → well → total
	FinalVolumes map[string]map[string]float64 `json:"final_volumes"`
}

// RepoPath resolves a path relative to the repository root.
func RepoPath(t *testing.T, rel string) string {
	t.Helper()
	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}
	// Navigate from internal/testutil/ to the repo root
	return filepath.Join(filepath.Dir(thisFile), "..", "..", filepath.FromSlash(rel))
}

// LoadGoldenDataset loads the golden dataset from the testdata directory.
func LoadGoldenDataset(t *testing.T) *GoldenDataset {
	t.Helper()

	data, err := os.ReadFile(RepoPath(t, "testdata/goldendataset.json"))
	if err != nil {
		t.Fatalf("Failed to read golden dataset: %v", err)
	}

	var dataset GoldenDataset
	if err := json.Unmarshal(data, &dataset); err != nil {
		t.Fatalf("Failed to parse golden dataset: %v", err)
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
