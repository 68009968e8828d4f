package harness

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/legendsbarber/seqfold/internal/eval"
)

// Scenario validation error codes (E200-E299)
const (
	ErrParse = "E200" // malformed YAML or unknown field

	// Required fields (E201-E209)
	ErrNameRequired     = "E201" // name is required
	ErrOpRequired       = "E202" // op is required
	ErrSequenceRequired = "E203" // sequence is required
	ErrCallbackRequired = "E204" // callback is required
	ErrExpectRequired   = "E205" // expect.result or expect.error is required

	// Shape errors (E210-E219)
	ErrSequenceNotList  = "E210" // sequence must be a YAML sequence
	ErrExpectConflict   = "E211" // expect.result and expect.error are exclusive
	ErrSeedWithMap      = "E212" // map takes no seed
	ErrAssertionInvalid = "E213" // assertion is missing its fields
	ErrCallsNegative    = "E214" // call counts are non-negative

	// Schema errors (E220)
	ErrSchema = "E220" // rejected by the scenario schema
)

// ValidationError represents a scenario validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Line    int    `json:"line,omitempty"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("[%s] line %d: %s: %s", e.Code, e.Line, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Validate checks a decoded scenario. It reports every problem found
// (does not fail-fast), combined with multierr; use multierr.Errors to
// split the result.
func Validate(s *Scenario) error {
	errs := validateFields(s)
	if len(errs) > 0 {
		// The schema view assumes required fields are present.
		return combine(errs)
	}
	return combine(validateSchema(s))
}

// ValidationErrors returns the validation errors carried by err, which may be
// wrapped. A parse failure is reported as a single ErrParse error.
func ValidationErrors(err error) []ValidationError {
	if err == nil {
		return nil
	}
	var group interface{ Unwrap() []error }
	if errors.As(err, &group) {
		var out []ValidationError
		for _, e := range group.Unwrap() {
			out = append(out, ValidationErrors(e)...)
		}
		return out
	}
	var ve ValidationError
	if errors.As(err, &ve) {
		return []ValidationError{ve}
	}
	return []ValidationError{{Field: "scenario", Message: err.Error(), Code: ErrParse}}
}

func combine(errs []ValidationError) error {
	var err error
	for _, e := range errs {
		err = multierr.Append(err, e)
	}
	return err
}

func validateFields(s *Scenario) []ValidationError {
	var errs []ValidationError
	add := func(code, field string, line int, format string, args ...any) {
		errs = append(errs, ValidationError{
			Field:   field,
			Message: fmt.Sprintf(format, args...),
			Code:    code,
			Line:    line,
		})
	}

	if s.Name == "" {
		add(ErrNameRequired, "name", 0, "name is required")
	}
	if s.Op == "" {
		add(ErrOpRequired, "op", 0, "op is required")
	}
	if !present(&s.Sequence) {
		add(ErrSequenceRequired, "sequence", 0, "sequence is required")
	} else if s.Sequence.Kind != yaml.SequenceNode {
		add(ErrSequenceNotList, "sequence", s.Sequence.Line, "expected a YAML sequence")
	}
	if !present(&s.Callback) {
		add(ErrCallbackRequired, "callback", 0, "callback is required (use !fn name for a function)")
	}
	if s.Op == string(eval.OpMap) && s.HasSeed() {
		add(ErrSeedWithMap, "seed", s.Seed.Line, "map takes no seed")
	}

	hasResult := present(&s.Expect.Result)
	switch {
	case hasResult && s.Expect.Error != nil:
		add(ErrExpectConflict, "expect", s.Expect.Result.Line, "result and error are mutually exclusive")
	case !hasResult && s.Expect.Error == nil:
		add(ErrExpectRequired, "expect", 0, "one of result or error is required")
	}
	if s.Expect.Calls != nil && *s.Expect.Calls < 0 {
		add(ErrCallsNegative, "expect.calls", 0, "must be >= 0, got %d", *s.Expect.Calls)
	}

	for i, a := range s.Assertions {
		field := fmt.Sprintf("assertions[%d]", i)
		switch a.Type {
		case AssertCallCount:
			if a.Count == nil {
				add(ErrAssertionInvalid, field, 0, "%s requires count", a.Type)
			}
		case AssertCallIndices:
			if a.Indices == nil {
				add(ErrAssertionInvalid, field, 0, "%s requires indices", a.Type)
			}
		case AssertCallContains:
			if a.Index == nil && !present(&a.Acc) && !present(&a.Cur) && !present(&a.Out) {
				add(ErrAssertionInvalid, field, 0, "%s requires at least one of index, acc, cur, out", a.Type)
			}
		}
	}

	return errs
}
