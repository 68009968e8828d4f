package harness

import (
	"fmt"
	"slices"
	"strings"

	"github.com/legendsbarber/seqfold/internal/eval"
	"github.com/legendsbarber/seqfold/internal/value"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string      // Assertion type for categorization
	Expected string      // Human-readable expected outcome
	Actual   string      // Human-readable actual outcome
	Trace    []eval.Call // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nFull trace:\n")
	if len(e.Trace) == 0 {
		fmt.Fprintf(&buf, "  (no calls)\n")
	}
	for _, c := range e.Trace {
		fmt.Fprintf(&buf, "  [%d] %s\n", c.Seq, render(c.Object()))
	}

	return buf.String()
}

// evaluateAssertion dispatches on the assertion type.
func (h *Harness) evaluateAssertion(a Assertion, trace []eval.Call) error {
	switch a.Type {
	case AssertCallCount:
		return assertCallCount(trace, a)
	case AssertCallIndices:
		return assertCallIndices(trace, a)
	case AssertCallContains:
		return assertCallContains(trace, a, h.registry.Resolver())
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

// assertCallCount checks that exactly Count calls were made.
func assertCallCount(trace []eval.Call, a Assertion) error {
	if a.Count == nil {
		return fmt.Errorf("%s assertion requires count", a.Type)
	}
	if len(trace) != *a.Count {
		return &AssertionError{
			Type:     AssertCallCount,
			Expected: fmt.Sprintf("%d calls", *a.Count),
			Actual:   fmt.Sprintf("%d calls", len(trace)),
			Trace:    trace,
		}
	}
	return nil
}

// assertCallIndices checks that calls visited exactly the given indices, in
// order. An empty list asserts that the callback never ran.
func assertCallIndices(trace []eval.Call, a Assertion) error {
	got := eval.Indices(trace)
	want := a.Indices
	if want == nil {
		want = []int{}
	}
	if !slices.Equal(want, got) {
		return &AssertionError{
			Type:     AssertCallIndices,
			Expected: fmt.Sprintf("indices %v", want),
			Actual:   fmt.Sprintf("indices %v", got),
			Trace:    trace,
		}
	}
	return nil
}

// assertCallContains checks that some call matches every field the
// assertion gives (subset semantics).
func assertCallContains(trace []eval.Call, a Assertion, resolve value.Resolver) error {
	acc, hasAcc, err := optionalValue(&a.Acc, resolve)
	if err != nil {
		return fmt.Errorf("%s acc: %w", a.Type, err)
	}
	cur, hasCur, err := optionalValue(&a.Cur, resolve)
	if err != nil {
		return fmt.Errorf("%s cur: %w", a.Type, err)
	}
	out, hasOut, err := optionalValue(&a.Out, resolve)
	if err != nil {
		return fmt.Errorf("%s out: %w", a.Type, err)
	}

	want := value.Object{}
	for _, c := range trace {
		if a.Index != nil && c.Index != *a.Index {
			continue
		}
		if hasAcc && (c.Acc == nil || !value.Equal(acc, c.Acc)) {
			continue
		}
		if hasCur && !value.Equal(cur, c.Cur) {
			continue
		}
		if hasOut && (c.Out == nil || !value.Equal(out, c.Out)) {
			continue
		}
		return nil
	}

	if a.Index != nil {
		want["index"] = value.Int(*a.Index)
	}
	if hasAcc {
		want["acc"] = acc
	}
	if hasCur {
		want["cur"] = cur
	}
	if hasOut {
		want["out"] = out
	}
	return &AssertionError{
		Type:     AssertCallContains,
		Expected: fmt.Sprintf("a call matching %s", render(want)),
		Actual:   "not found in trace",
		Trace:    trace,
	}
}
