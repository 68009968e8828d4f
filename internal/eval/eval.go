// Package eval runs reduce and map over dynamic values. The callback is a
// value.Value: anything other than a callable *value.Func fails with
// NotCallable, rendered the way ECMAScript's String() would render it.
package eval

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/legendsbarber/seqfold/internal/seq"
	"github.com/legendsbarber/seqfold/internal/value"
)

// Op names the operation being evaluated.
type Op string

const (
	OpReduce Op = "reduce"
	OpMap    Op = "map"
)

// ParseOp validates an operation name.
func ParseOp(s string) (Op, error) {
	switch Op(s) {
	case OpReduce, OpMap:
		return Op(s), nil
	default:
		return "", fmt.Errorf("unknown op %q (want reduce or map)", s)
	}
}

// Evaluator applies callbacks to arrays and reports every call to its
// tracers.
type Evaluator struct {
	clock  Sequencer
	tracer Tracer
	log    *logrus.Entry
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithClock sets the sequencer used to stamp calls.
func WithClock(c Sequencer) Option {
	return func(e *Evaluator) {
		e.clock = c
	}
}

// WithTracer adds a tracer. Tracers are called in the order they were added.
func WithTracer(t Tracer) Option {
	return func(e *Evaluator) {
		if t == nil {
			return
		}
		if e.tracer == nil {
			e.tracer = t
			return
		}
		e.tracer = multiTracer{e.tracer, t}
	}
}

// WithLogger sets the logger. The default logs through the standard logrus
// logger with component=eval.
func WithLogger(l *logrus.Entry) Option {
	return func(e *Evaluator) {
		e.log = l
	}
}

// New creates an Evaluator. Without WithClock it uses a fresh Clock.
func New(opts ...Option) *Evaluator {
	e := &Evaluator{
		clock: NewClock(),
		log:   logrus.WithField("component", "eval"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run dispatches to Reduce or Map. seed is ignored for map.
func (e *Evaluator) Run(op Op, arr *value.Array, callback value.Value, seed seq.Option[value.Value]) (value.Value, error) {
	switch op {
	case OpReduce:
		return e.Reduce(arr, callback, seed)
	case OpMap:
		out, err := e.Map(arr, callback)
		if err != nil {
			return nil, err
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unknown op %q", op)
	}
}

// Reduce folds arr with callback, called as callback(acc, cur, index, arr).
// The seed's presence is taken from the Option only, so Some(Undefined{})
// and Some(Null{}) are real seeds.
func (e *Evaluator) Reduce(arr *value.Array, callback value.Value, seed seq.Option[value.Value]) (value.Value, error) {
	fn, err := callable(callback)
	if err != nil {
		e.log.WithError(err).Debug("reduce rejected callback")
		return nil, err
	}

	arr = orEmpty(arr)
	log := e.log.WithFields(logrus.Fields{
		"op":       OpReduce,
		"callback": fn.Name,
		"length":   arr.Len(),
		"present":  arr.Items().Count(),
		"has_seed": seed.IsSome(),
	})
	log.Debug("reduce start")

	result, err := seq.TryReduceOption(arr.Items(), func(acc, cur value.Value, idx int, _ *seq.Sequence[value.Value]) (value.Value, error) {
		out, err := invoke(fn, acc, cur, value.Int(idx), arr)
		e.trace(Call{Index: idx, Acc: acc, Cur: cur, Out: out})
		return out, err
	}, seed)
	if err != nil {
		log.WithError(err).Debug("reduce failed")
		return nil, err
	}

	log.WithField("result", result).Debug("reduce done")
	return result, nil
}

// Map applies callback to every present slot, called as
// callback(cur, index, arr). Holes stay holes.
func (e *Evaluator) Map(arr *value.Array, callback value.Value) (*value.Array, error) {
	fn, err := callable(callback)
	if err != nil {
		e.log.WithError(err).Debug("map rejected callback")
		return nil, err
	}

	arr = orEmpty(arr)
	log := e.log.WithFields(logrus.Fields{
		"op":       OpMap,
		"callback": fn.Name,
		"length":   arr.Len(),
		"present":  arr.Items().Count(),
	})
	log.Debug("map start")

	out, err := seq.TryMap(arr.Items(), func(cur value.Value, idx int, _ *seq.Sequence[value.Value]) (value.Value, error) {
		v, err := invoke(fn, cur, value.Int(idx), arr)
		e.trace(Call{Index: idx, Cur: cur, Out: v})
		return v, err
	})
	if err != nil {
		log.WithError(err).Debug("map failed")
		return nil, err
	}

	log.Debug("map done")
	return value.ArrayOf(out), nil
}

func (e *Evaluator) trace(c Call) {
	c.Seq = e.clock.Next()
	if e.tracer != nil {
		e.tracer.OnCall(c)
	}
}

// invoke calls fn. A nil result without error is undefined; a failed call
// has no result.
func invoke(fn *value.Func, args ...value.Value) (value.Value, error) {
	out, err := fn.Call(args...)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = value.Undefined{}
	}
	return out, nil
}

// callable returns callback as a function, or NotCallable.
func callable(callback value.Value) (*value.Func, error) {
	fn, ok := callback.(*value.Func)
	if !ok || fn == nil || fn.Fn == nil {
		return nil, seq.NotCallable(callback)
	}
	return fn, nil
}

func orEmpty(arr *value.Array) *value.Array {
	if arr == nil || arr.Items() == nil {
		return value.NewArray()
	}
	return arr
}
