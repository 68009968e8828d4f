package harness

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/legendsbarber/seqfold/internal/eval"
	"github.com/legendsbarber/seqfold/internal/store"
	"github.com/legendsbarber/seqfold/internal/value"
)

// Recorder writes evaluated runs to the run store. All runs written by one
// Recorder share a batch token.
type Recorder struct {
	store *store.Store
	batch string
	log   *logrus.Entry
}

// NewRecorder creates a Recorder. The batch token is drawn once from
// tokens.
func NewRecorder(st *store.Store, tokens eval.TokenGenerator) *Recorder {
	return &Recorder{
		store: st,
		batch: tokens.Generate(),
		log:   logrus.WithField("component", "recorder"),
	}
}

// Batch returns the token stamped on every run this Recorder writes.
func (r *Recorder) Batch() string {
	return r.batch
}

// Record writes the run and its calls. Recording the same inputs twice is a
// no-op; the returned Run then carries the seq of the first write.
func (r *Recorder) Record(ctx context.Context, scenario string, c *Case, result *Result) (store.Run, error) {
	run, calls, err := BuildRun(scenario, c, result)
	if err != nil {
		return store.Run{}, err
	}
	run.Batch = r.batch

	seq, inserted, err := r.store.WriteRun(ctx, run, calls)
	if err != nil {
		return store.Run{}, fmt.Errorf("failed to record run %s: %w", run.ID, err)
	}
	run.Seq = seq

	r.log.WithFields(logrus.Fields{
		"run":      run.ID,
		"scenario": scenario,
		"seq":      seq,
		"inserted": inserted,
	}).Debug("run recorded")
	return run, nil
}

// BuildRun converts an evaluated case into store rows. Values are encoded
// as canonical JSON.
func BuildRun(scenario string, c *Case, result *Result) (store.Run, []store.Call, error) {
	enc := encoder{}
	run := store.Run{
		ID:       result.RunID,
		Scenario: scenario,
		Op:       string(c.Op),
		Sequence: enc.value(c.Sequence),
		Callback: enc.value(c.Callback),
		HasSeed:  c.Seed.IsSome(),
	}
	if seed, ok := c.Seed.Get(); ok {
		run.Seed = enc.value(seed)
	}
	if result.Err != nil {
		run.ErrorKind = result.ErrorKind
		run.ErrorMessage = result.Err.Error()
	} else {
		run.Result = enc.value(result.Value)
	}

	calls := make([]store.Call, len(result.Trace))
	for i, tc := range result.Trace {
		calls[i] = store.Call{
			ID:    value.CallID(run.ID, tc.Seq, tc.Index),
			RunID: run.ID,
			Seq:   tc.Seq,
			Index: tc.Index,
			Acc:   enc.optional(tc.Acc),
			Cur:   enc.value(tc.Cur),
			Out:   enc.optional(tc.Out),
		}
	}

	if enc.err != nil {
		return store.Run{}, nil, fmt.Errorf("failed to encode run: %w", enc.err)
	}
	return run, calls, nil
}

// encoder keeps the first encoding error so BuildRun reads linearly.
type encoder struct {
	err error
}

func (e *encoder) value(v value.Value) string {
	if e.err != nil {
		return ""
	}
	s, err := value.CanonicalString(v)
	if err != nil {
		e.err = err
	}
	return s
}

func (e *encoder) optional(v value.Value) string {
	if v == nil {
		return ""
	}
	return e.value(v)
}
