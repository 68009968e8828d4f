package harness

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/legendsbarber/seqfold/internal/builtin"
	"github.com/legendsbarber/seqfold/internal/eval"
	"github.com/legendsbarber/seqfold/internal/testutil"
	"github.com/legendsbarber/seqfold/internal/value"
)

// Harness is the test execution engine.
// It runs scenarios against the evaluator with a deterministic clock, so
// every run of a scenario produces the same trace.
//
// A Harness is not safe for concurrent use; create one per goroutine.
type Harness struct {
	registry *builtin.Registry
	clock    *testutil.DeterministicClock
	recorder *Recorder
	log      *logrus.Entry
}

// Option configures a Harness.
type Option func(*Harness)

// WithRegistry sets the callables !fn names resolve against.
func WithRegistry(r *builtin.Registry) Option {
	return func(h *Harness) {
		h.registry = r
	}
}

// WithRecorder records every evaluated run.
func WithRecorder(r *Recorder) Option {
	return func(h *Harness) {
		h.recorder = r
	}
}

// WithLogger sets the logger.
func WithLogger(l *logrus.Entry) Option {
	return func(h *Harness) {
		h.log = l
	}
}

// New creates a Harness over the default builtins.
func New(opts ...Option) *Harness {
	h := &Harness{
		registry: builtin.Default(),
		clock:    testutil.NewDeterministicClock(),
		log:      logrus.WithField("component", "harness"),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Run executes a test scenario with a fresh harness and returns the result.
func Run(scenario *Scenario) (*Result, error) {
	return New().Run(context.Background(), scenario)
}

// Run executes a test scenario and returns the result.
//
// Execution flow:
// 1. Compile the scenario's inputs
// 2. Evaluate with the clock reset, tracing every call
// 3. Check the expected outcome, assertions and properties
// 4. Record the run, if a recorder is configured
//
// The returned error is for scenarios that cannot run at all. A run that
// does not meet its expectations returns a Result with Pass false.
func (h *Harness) Run(ctx context.Context, scenario *Scenario) (*Result, error) {
	c, err := scenario.Compile(h.registry.Resolver())
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	result, err := h.Evaluate(c)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	if err := h.checkExpect(scenario, result); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	for _, a := range scenario.Assertions {
		if err := h.evaluateAssertion(a, result.Trace); err != nil {
			result.AddError(err.Error())
		}
	}

	for _, p := range scenario.Properties {
		if err := h.checkProperty(p, c); err != nil {
			result.AddError(err.Error())
		}
	}

	if h.recorder != nil {
		if _, err := h.recorder.Record(ctx, scenario.Name, c, result); err != nil {
			return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
		}
	}

	h.log.WithFields(logrus.Fields{
		"scenario": scenario.Name,
		"pass":     result.Pass,
		"calls":    len(result.Trace),
	}).Debug("scenario done")
	return result, nil
}

// Evaluate runs a case and captures its outcome and trace without checking
// any expectation. Call stamps restart at 1 on every call.
func (h *Harness) Evaluate(c *Case) (*Result, error) {
	runID, err := value.RunID(string(c.Op), c.Sequence, c.Callback, c.Seed)
	if err != nil {
		return nil, fmt.Errorf("failed to address run: %w", err)
	}

	h.clock.Reset()
	rec := &eval.Recorder{}
	ev := eval.New(
		eval.WithClock(h.clock),
		eval.WithTracer(rec),
		eval.WithLogger(h.log),
	)

	result := NewResult()
	result.Op = c.Op
	result.RunID = runID
	result.Value, result.Err = ev.Run(c.Op, c.Sequence, c.Callback, c.Seed)
	result.ErrorKind = eval.ErrorKind(result.Err)
	result.Trace = rec.Calls()
	return result, nil
}

// checkExpect compares the outcome with the scenario's expect block.
// It errors only when the expectation itself cannot be decoded.
func (h *Harness) checkExpect(s *Scenario, r *Result) error {
	exp := s.Expect

	if exp.Error != nil {
		switch {
		case r.Err == nil:
			r.AddError(fmt.Sprintf("expected %s error, got result %s", exp.Error.Kind, render(r.Value)))
		case r.ErrorKind != exp.Error.Kind:
			r.AddError(fmt.Sprintf("expected %s error, got %s: %v", exp.Error.Kind, r.ErrorKind, r.Err))
		case exp.Error.Message != "" && exp.Error.Message != r.Err.Error():
			r.AddError(fmt.Sprintf("error message: expected %q, got %q", exp.Error.Message, r.Err.Error()))
		}
	} else {
		want, _, err := optionalValue(&exp.Result, h.registry.Resolver())
		if err != nil {
			return fmt.Errorf("expect.result: %w", err)
		}
		switch {
		case r.Err != nil:
			r.AddError(fmt.Sprintf("expected result %s, got %s error: %v", render(want), r.ErrorKind, r.Err))
		case !value.Equal(want, r.Value):
			r.AddError(fmt.Sprintf("result: expected %s, got %s", render(want), render(r.Value)))
		}
	}

	if exp.Calls != nil && *exp.Calls != len(r.Trace) {
		r.AddError(fmt.Sprintf("calls: expected %d, got %d", *exp.Calls, len(r.Trace)))
	}
	return nil
}

// render formats v as canonical JSON for messages.
func render(v value.Value) string {
	if v == nil {
		return "<none>"
	}
	s, err := value.CanonicalString(v)
	if err != nil {
		return v.String()
	}
	return s
}
