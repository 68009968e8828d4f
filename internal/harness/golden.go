package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/legendsbarber/seqfold/internal/eval"
	"github.com/legendsbarber/seqfold/internal/value"
)

// GoldenDir is where golden traces live, relative to the test's package.
const GoldenDir = "testdata/golden"

// Snapshot renders a result as the canonical JSON stored in golden files:
// the scenario name, op, outcome and the full call trace.
func Snapshot(scenarioName string, result *Result) ([]byte, error) {
	snap := result.Outcome()
	snap["scenario"] = value.Str(scenarioName)
	snap["op"] = value.Str(string(result.Op))
	snap["trace"] = eval.TraceValue(result.Trace)
	return value.MarshalCanonical(snap)
}

// RunWithGolden executes a scenario and compares the trace against a golden file.
// The golden file is stored in testdata/golden/{scenario.Name}.golden
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns the result so callers can assert on Pass as well.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares the given result's trace against a golden file.
// This is useful when you've already run a scenario and want to compare
// the result against a golden file without re-running.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	snapshot, err := Snapshot(scenarioName, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir(GoldenDir),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, snapshot)
	return nil
}
