package harness

import (
	"context"
	"fmt"

	"github.com/legendsbarber/seqfold/internal/eval"
	"github.com/legendsbarber/seqfold/internal/seq"
	"github.com/legendsbarber/seqfold/internal/store"
	"github.com/legendsbarber/seqfold/internal/value"
)

// ReplayResult reports whether re-evaluating a recorded run reproduced it.
type ReplayResult struct {
	RunID    string
	Scenario string
	Match    bool

	// Diffs describes every mismatch, in the order found.
	Diffs []string
}

func (r *ReplayResult) addDiff(format string, args ...any) {
	r.Diffs = append(r.Diffs, fmt.Sprintf(format, args...))
	r.Match = false
}

// CaseFromRun decodes a recorded run back into evaluable inputs.
func CaseFromRun(run store.Run, resolve value.Resolver) (*Case, error) {
	op, err := eval.ParseOp(run.Op)
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", run.ID, err)
	}

	v, err := value.UnmarshalCanonical([]byte(run.Sequence), resolve)
	if err != nil {
		return nil, fmt.Errorf("run %s: sequence: %w", run.ID, err)
	}
	arr, ok := v.(*value.Array)
	if !ok {
		return nil, fmt.Errorf("run %s: sequence: expected array, got %s", run.ID, value.TypeName(v))
	}

	callback, err := value.UnmarshalCanonical([]byte(run.Callback), resolve)
	if err != nil {
		return nil, fmt.Errorf("run %s: callback: %w", run.ID, err)
	}

	c := &Case{
		Name:     run.Scenario,
		Op:       op,
		Sequence: arr,
		Callback: callback,
		Seed:     seq.None[value.Value](),
	}
	if run.HasSeed {
		seed, err := value.UnmarshalCanonical([]byte(run.Seed), resolve)
		if err != nil {
			return nil, fmt.Errorf("run %s: seed: %w", run.ID, err)
		}
		c.Seed = seq.Some(seed)
	}
	return c, nil
}

// Replay re-evaluates a recorded run and compares the outcome and every
// call with what was recorded. Evaluation is deterministic, so any
// difference means a callable or the evaluator changed behavior.
func (h *Harness) Replay(ctx context.Context, st *store.Store, run store.Run) (*ReplayResult, error) {
	c, err := CaseFromRun(run, h.registry.Resolver())
	if err != nil {
		return nil, err
	}
	recorded, err := st.ReadCalls(ctx, run.ID)
	if err != nil {
		return nil, err
	}

	result, err := h.Evaluate(c)
	if err != nil {
		return nil, err
	}
	replayed, calls, err := BuildRun(run.Scenario, c, result)
	if err != nil {
		return nil, err
	}

	rr := &ReplayResult{RunID: run.ID, Scenario: run.Scenario, Match: true}
	if replayed.ID != run.ID {
		rr.addDiff("run id: recorded %s, recomputed %s", run.ID, replayed.ID)
	}
	if replayed.ErrorKind != run.ErrorKind || replayed.ErrorMessage != run.ErrorMessage {
		rr.addDiff("error: recorded %q %q, replayed %q %q",
			run.ErrorKind, run.ErrorMessage, replayed.ErrorKind, replayed.ErrorMessage)
	}
	if replayed.Result != run.Result {
		rr.addDiff("result: recorded %s, replayed %s", run.Result, replayed.Result)
	}

	if len(calls) != len(recorded) {
		rr.addDiff("calls: recorded %d, replayed %d", len(recorded), len(calls))
	}
	for i := range min(len(calls), len(recorded)) {
		want, got := recorded[i], calls[i]
		if want.Index != got.Index || want.Acc != got.Acc || want.Cur != got.Cur || want.Out != got.Out {
			rr.addDiff("call %d: recorded index=%d acc=%s cur=%s out=%s, replayed index=%d acc=%s cur=%s out=%s",
				i, want.Index, want.Acc, want.Cur, want.Out, got.Index, got.Acc, got.Cur, got.Out)
		}
	}

	h.log.WithField("run", run.ID).WithField("match", rr.Match).Debug("run replayed")
	return rr, nil
}
