package harness

import (
	"github.com/legendsbarber/seqfold/internal/eval"
	"github.com/legendsbarber/seqfold/internal/value"
)

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass indicates overall test success.
	// True if the outcome, assertions and properties all hold.
	Pass bool `json:"pass"`

	Op eval.Op `json:"op"`

	// Value is the reduce or map result. Nil when the call failed.
	Value value.Value `json:"-"`

	// Err is the evaluation error, if any. Expected errors still set it.
	Err error `json:"-"`

	// ErrorKind classifies Err: NotCallable, EmptyReduceNoSeed or
	// CallbackError.
	ErrorKind string `json:"error_kind,omitempty"`

	// Trace contains every callback call in order.
	Trace []eval.Call `json:"-"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// RunID is the content address of the inputs.
	RunID string `json:"run_id"`
}

// NewResult creates a new passing result.
// Used as the starting point for test execution.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []eval.Call{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Outcome returns the result or the error as a value:
// {"result": v} or {"error": {"kind": k, "message": m}}.
func (r *Result) Outcome() value.Object {
	if r.Err != nil {
		return value.Object{
			"error": value.Object{
				"kind":    value.Str(r.ErrorKind),
				"message": value.Str(r.Err.Error()),
			},
		}
	}
	return value.Object{"result": r.Value}
}
