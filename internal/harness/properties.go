package harness

import (
	"fmt"

	"github.com/legendsbarber/seqfold/internal/eval"
	"github.com/legendsbarber/seqfold/internal/seq"
	"github.com/legendsbarber/seqfold/internal/value"
)

// PropertyError is returned when an algebraic property does not hold for a
// scenario's inputs.
type PropertyError struct {
	Property string
	Detail   string
}

func (e *PropertyError) Error() string {
	return fmt.Sprintf("Property failed: %s: %s", e.Property, e.Detail)
}

// outcome is a result or an error kind, comparable across evaluations.
type outcome struct {
	value value.Value
	kind  string
}

func (o outcome) String() string {
	if o.kind != "" {
		return o.kind + " error"
	}
	return render(o.value)
}

func (o outcome) equal(other outcome) bool {
	if o.kind != "" || other.kind != "" {
		return o.kind == other.kind
	}
	return value.Equal(o.value, other.value)
}

// evaluate runs op untraced, logging through the harness logger.
func (h *Harness) evaluate(op eval.Op, arr *value.Array, callback value.Value, seed seq.Option[value.Value]) outcome {
	out, err := eval.New(eval.WithLogger(h.log)).Run(op, arr, callback, seed)
	if err != nil {
		return outcome{kind: eval.ErrorKind(err)}
	}
	return outcome{value: out}
}

// checkProperty verifies a named property against the case's inputs.
func (h *Harness) checkProperty(name string, c *Case) error {
	switch name {
	case PropLeftFold:
		return h.checkLeftFold(c)
	case PropNoSeedEquivalence:
		return h.checkNoSeedEquivalence(c)
	case PropHoleTransparency:
		return h.checkHoleTransparency(c)
	case PropMapShape:
		return h.checkMapShape(c)
	default:
		return fmt.Errorf("unknown property %q", name)
	}
}

// checkLeftFold compares reduce with a plain index loop over the present
// slots: acc starts at the seed, or at the first present element when no
// seed is given.
func (h *Harness) checkLeftFold(c *Case) error {
	got := h.evaluate(eval.OpReduce, c.Sequence, c.Callback, c.Seed)

	want := func() outcome {
		fn, ok := c.Callback.(*value.Func)
		if !ok || fn == nil || fn.Fn == nil {
			return outcome{kind: string(seq.KindNotCallable)}
		}
		acc, started := c.Seed.Get()
		for i := 0; i < c.Sequence.Len(); i++ {
			cur, ok := c.Sequence.At(i)
			if !ok {
				continue
			}
			if !started {
				acc, started = cur, true
				continue
			}
			out, err := fn.Call(acc, cur, value.Int(i), c.Sequence)
			if err != nil {
				return outcome{kind: eval.KindCallback}
			}
			if out == nil {
				out = value.Undefined{}
			}
			acc = out
		}
		if !started {
			return outcome{kind: string(seq.KindEmptyReduce)}
		}
		return outcome{value: acc}
	}()

	if !got.equal(want) {
		return &PropertyError{
			Property: PropLeftFold,
			Detail:   fmt.Sprintf("reduce gave %s, left fold gave %s", got, want),
		}
	}
	return nil
}

// checkNoSeedEquivalence checks that reducing without a seed equals
// reducing the rest with the first present element as seed. The first
// element is replaced by a hole so the remaining indices are unchanged.
func (h *Harness) checkNoSeedEquivalence(c *Case) error {
	first := -1
	for i := 0; i < c.Sequence.Len(); i++ {
		if c.Sequence.Items().Has(i) {
			first = i
			break
		}
	}
	if first < 0 {
		// Vacuous: there is no first element to use as seed.
		return nil
	}

	head, _ := c.Sequence.At(first)
	rest := c.Sequence.Items().Clone()
	rest.Delete(first)

	unseeded := h.evaluate(eval.OpReduce, c.Sequence, c.Callback, seq.None[value.Value]())
	seeded := h.evaluate(eval.OpReduce, value.ArrayOf(rest), c.Callback, seq.Some(head))
	if !unseeded.equal(seeded) {
		return &PropertyError{
			Property: PropNoSeedEquivalence,
			Detail:   fmt.Sprintf("reduce without seed gave %s, seeded with element %d gave %s", unseeded, first, seeded),
		}
	}
	return nil
}

// checkHoleTransparency checks that holes contribute nothing: the case's
// op over the sequence agrees with the same op over its compacted form.
// Map results are compacted before comparing. Callbacks that read the
// index are not hole transparent.
func (h *Harness) checkHoleTransparency(c *Case) error {
	compact := value.NewArray(c.Sequence.Items().Compact()...)

	got := h.evaluate(c.Op, c.Sequence, c.Callback, c.Seed)
	want := h.evaluate(c.Op, compact, c.Callback, c.Seed)
	if c.Op == eval.OpMap && got.kind == "" {
		if arr, ok := got.value.(*value.Array); ok {
			got.value = value.NewArray(arr.Items().Compact()...)
		}
	}

	if !got.equal(want) {
		return &PropertyError{
			Property: PropHoleTransparency,
			Detail:   fmt.Sprintf("sparse input gave %s, compacted input gave %s", got, want),
		}
	}
	return nil
}

// checkMapShape checks that map keeps the length and the hole positions.
func (h *Harness) checkMapShape(c *Case) error {
	got := h.evaluate(eval.OpMap, c.Sequence, c.Callback, seq.None[value.Value]())
	if got.kind != "" {
		// Failed maps have no shape to compare.
		return nil
	}
	out, ok := got.value.(*value.Array)
	if !ok {
		return &PropertyError{Property: PropMapShape, Detail: fmt.Sprintf("map returned %s", value.TypeName(got.value))}
	}
	if out.Len() != c.Sequence.Len() {
		return &PropertyError{
			Property: PropMapShape,
			Detail:   fmt.Sprintf("length %d, input length %d", out.Len(), c.Sequence.Len()),
		}
	}
	for i := 0; i < out.Len(); i++ {
		if out.Items().Has(i) != c.Sequence.Items().Has(i) {
			return &PropertyError{
				Property: PropMapShape,
				Detail:   fmt.Sprintf("slot %d: present=%t, input present=%t", i, out.Items().Has(i), c.Sequence.Items().Has(i)),
			}
		}
	}
	return nil
}
