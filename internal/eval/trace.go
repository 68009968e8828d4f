package eval

import (
	"sync"

	"github.com/legendsbarber/seqfold/internal/value"
)

// Call is one invocation of the callback.
type Call struct {
	Seq   int64
	Index int

	// Acc is nil for map calls.
	Acc value.Value
	Cur value.Value

	// Out is nil when the callback failed.
	Out value.Value
}

// Object returns the call as a value for canonical encoding. Acc is left
// out for map calls and Out for failed calls.
func (c Call) Object() value.Object {
	obj := value.Object{
		"seq":   value.Int(c.Seq),
		"index": value.Int(c.Index),
		"cur":   c.Cur,
	}
	if c.Acc != nil {
		obj["acc"] = c.Acc
	}
	if c.Out != nil {
		obj["out"] = c.Out
	}
	return obj
}

// Tracer receives every callback call in order.
type Tracer interface {
	OnCall(Call)
}

// TracerFunc adapts a function to Tracer.
type TracerFunc func(Call)

func (f TracerFunc) OnCall(c Call) { f(c) }

// Recorder is a Tracer that keeps every call.
type Recorder struct {
	mu    sync.Mutex
	calls []Call
}

func (r *Recorder) OnCall(c Call) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, c)
}

// Calls returns a copy of the recorded calls.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Call, len(r.calls))
	copy(out, r.calls)
	return out
}

// Reset drops the recorded calls.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
}

// Indices returns the index of every recorded call.
func Indices(calls []Call) []int {
	out := make([]int, len(calls))
	for i, c := range calls {
		out[i] = c.Index
	}
	return out
}

// TraceValue encodes calls as an array of call objects.
func TraceValue(calls []Call) *value.Array {
	items := make([]value.Value, len(calls))
	for i, c := range calls {
		items[i] = c.Object()
	}
	return value.NewArray(items...)
}

type multiTracer []Tracer

func (m multiTracer) OnCall(c Call) {
	for _, t := range m {
		t.OnCall(c)
	}
}
