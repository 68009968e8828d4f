package store

import (
	"fmt"
	"path/filepath"
	"testing"
)

// createTestStore creates a new file-backed store in a temp dir.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestRun creates a successful reduce run with minimal fields.
func createTestRun(id, batch string) Run {
	return Run{
		ID:       id,
		Batch:    batch,
		Scenario: "scenario-" + id,
		Op:       "reduce",
		Callback: `{"$fn":"add"}`,
		Sequence: "[1,2,3]",
		HasSeed:  true,
		Seed:     "0",
		Result:   "6",
	}
}

// createTestCalls creates n calls belonging to runID.
func createTestCalls(runID string, n int) []Call {
	calls := make([]Call, n)
	for i := range calls {
		calls[i] = Call{
			ID:    fmt.Sprintf("%s-call-%d", runID, i),
			RunID: runID,
			Seq:   int64(i + 1),
			Index: i,
			Acc:   fmt.Sprintf("%d", i),
			Cur:   fmt.Sprintf("%d", i+1),
			Out:   fmt.Sprintf("%d", 2*i+1),
		}
	}
	return calls
}
