package builtin

import (
	"errors"
	"fmt"
	"math"

	"github.com/legendsbarber/seqfold/internal/seq"
	"github.com/legendsbarber/seqfold/internal/value"
)

// ErrOperand is wrapped by every error a builtin returns for an argument it
// cannot handle.
var ErrOperand = errors.New("invalid operand")

func operandErr(name string, v value.Value, want string) error {
	return fmt.Errorf("%s: %w: expected %s, got %s %s", name, ErrOperand, want, value.TypeName(v), renderOperand(v))
}

func overflowErr(name string, operands ...int64) error {
	return fmt.Errorf("%s: %w: integer overflow on %v", name, ErrOperand, operands)
}

func renderOperand(v value.Value) string {
	if s, ok := v.(value.Str); ok {
		return fmt.Sprintf("%q", string(s))
	}
	if v == nil {
		return "undefined"
	}
	return v.String()
}

func standard() []Builtin {
	return []Builtin{
		reducer("add", "acc + cur; numbers add, anything else concatenates as strings", add),
		reducer("sub", "acc - cur over numbers", numeric("sub", subInt)),
		reducer("mul", "acc * cur over numbers", numeric("mul", mulInt)),
		reducer("max", "larger of acc and cur", numeric("max", func(a, b int64) (int64, bool) { return max(a, b), true })),
		reducer("min", "smaller of acc and cur", numeric("min", func(a, b int64) (int64, bool) { return min(a, b), true })),
		reducer("and", "acc && cur", logicalAnd),
		reducer("or", "acc || cur", logicalOr),
		reducer("concat", "array acc: append cur (spreading arrays); otherwise string concatenation", concat),
		reducer("collect", "append cur to the array acc", collect),
		reducer("flatten", "append cur, or the present elements of cur, to the array acc", flatten),
		reducer("count", "acc + 1", count),
		mapper("double", "cur * 2", unary("double", func(n int64) (value.Value, bool) { return intResult(mulInt(n, 2)) })),
		mapper("square", "cur * cur", unary("square", func(n int64) (value.Value, bool) { return intResult(mulInt(n, n)) })),
		mapper("negate", "-cur", unary("negate", func(n int64) (value.Value, bool) { return intResult(subInt(0, n)) })),
		mapper("is_even", "cur % 2 == 0", unary("is_even", func(n int64) (value.Value, bool) { return value.Bool(n%2 == 0), true })),
		mapper("stringify", "String(cur)", stringify),
		mapper("index", "the index of cur", index),
	}
}

func reducer(name, doc string, fn func(acc, cur value.Value) (value.Value, error)) Builtin {
	return Builtin{
		Kind: KindReducer,
		Doc:  doc,
		Func: value.NewFunc(name, func(args ...value.Value) (value.Value, error) {
			return fn(value.Arg(args, 0), value.Arg(args, 1))
		}),
	}
}

func mapper(name, doc string, fn value.NativeFunc) Builtin {
	return Builtin{Kind: KindMapper, Doc: doc, Func: value.NewFunc(name, fn)}
}

// toNumber converts the values that have an exact integer meaning.
func toNumber(v value.Value) (int64, bool) {
	switch n := v.(type) {
	case value.Int:
		return int64(n), true
	case value.Bool:
		if n {
			return 1, true
		}
		return 0, true
	case value.Null:
		return 0, true
	default:
		return 0, false
	}
}

func isStringy(v value.Value) bool {
	switch v.(type) {
	case value.Str, *value.Array, value.Object, *value.Func:
		return true
	}
	return false
}

func add(acc, cur value.Value) (value.Value, error) {
	if isStringy(acc) || isStringy(cur) {
		return value.Str(acc.String() + cur.String()), nil
	}
	a, aok := toNumber(acc)
	b, bok := toNumber(cur)
	if !aok {
		return nil, operandErr("add", acc, "number or string")
	}
	if !bok {
		return nil, operandErr("add", cur, "number or string")
	}
	sum, ok := addInt(a, b)
	if !ok {
		return nil, overflowErr("add", a, b)
	}
	return value.Int(sum), nil
}

// addInt, subInt and mulInt report false when the result does not fit in
// an int64.
func addInt(a, b int64) (int64, bool) {
	r := a + b
	if (b > 0 && r < a) || (b < 0 && r > a) {
		return 0, false
	}
	return r, true
}

func subInt(a, b int64) (int64, bool) {
	r := a - b
	if (b > 0 && r > a) || (b < 0 && r < a) {
		return 0, false
	}
	return r, true
}

func mulInt(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	if (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
		return 0, false
	}
	r := a * b
	if r/b != a {
		return 0, false
	}
	return r, true
}

func intResult(n int64, ok bool) (value.Value, bool) {
	if !ok {
		return nil, false
	}
	return value.Int(n), true
}

func numeric(name string, op func(a, b int64) (int64, bool)) func(acc, cur value.Value) (value.Value, error) {
	return func(acc, cur value.Value) (value.Value, error) {
		a, ok := toNumber(acc)
		if !ok {
			return nil, operandErr(name, acc, "number")
		}
		b, ok := toNumber(cur)
		if !ok {
			return nil, operandErr(name, cur, "number")
		}
		r, ok := op(a, b)
		if !ok {
			return nil, overflowErr(name, a, b)
		}
		return value.Int(r), nil
	}
}

func logicalAnd(acc, cur value.Value) (value.Value, error) {
	if !value.Truthy(acc) {
		return acc, nil
	}
	return cur, nil
}

func logicalOr(acc, cur value.Value) (value.Value, error) {
	if value.Truthy(acc) {
		return acc, nil
	}
	return cur, nil
}

func concat(acc, cur value.Value) (value.Value, error) {
	arr, ok := acc.(*value.Array)
	if !ok {
		return value.Str(acc.String() + cur.String()), nil
	}
	if other, ok := cur.(*value.Array); ok {
		return appendArray(arr, other), nil
	}
	return appendValues(arr, cur), nil
}

func collect(acc, cur value.Value) (value.Value, error) {
	arr, ok := acc.(*value.Array)
	if !ok {
		return nil, operandErr("collect", acc, "array")
	}
	return appendValues(arr, cur), nil
}

func flatten(acc, cur value.Value) (value.Value, error) {
	arr, ok := acc.(*value.Array)
	if !ok {
		return nil, operandErr("flatten", acc, "array")
	}
	if other, ok := cur.(*value.Array); ok {
		return appendValues(arr, other.Items().Compact()...), nil
	}
	return appendValues(arr, cur), nil
}

func count(acc, _ value.Value) (value.Value, error) {
	n, ok := toNumber(acc)
	if !ok {
		return nil, operandErr("count", acc, "number")
	}
	r, ok := addInt(n, 1)
	if !ok {
		return nil, overflowErr("count", n)
	}
	return value.Int(r), nil
}

func unary(name string, fn func(n int64) (value.Value, bool)) value.NativeFunc {
	return func(args ...value.Value) (value.Value, error) {
		cur := value.Arg(args, 0)
		n, ok := toNumber(cur)
		if !ok {
			return nil, operandErr(name, cur, "number")
		}
		out, ok := fn(n)
		if !ok {
			return nil, overflowErr(name, n)
		}
		return out, nil
	}
}

func stringify(args ...value.Value) (value.Value, error) {
	return value.Str(value.Arg(args, 0).String()), nil
}

func index(args ...value.Value) (value.Value, error) {
	idx := value.Arg(args, 1)
	if _, ok := idx.(value.Int); !ok {
		return nil, operandErr("index", idx, "number")
	}
	return idx, nil
}

// appendValues returns a new array holding arr's slots followed by vals.
// arr is not modified and its holes are kept.
func appendValues(arr *value.Array, vals ...value.Value) *value.Array {
	n := arr.Len()
	out := seq.Sparse[value.Value](n + len(vals))
	for i, v := range arr.Items().All() {
		out.Set(i, v)
	}
	for j, v := range vals {
		out.Set(n+j, v)
	}
	return value.ArrayOf(out)
}

// appendArray returns arr followed by other, keeping the holes of both.
func appendArray(arr, other *value.Array) *value.Array {
	n := arr.Len()
	out := seq.Sparse[value.Value](n + other.Len())
	for i, v := range arr.Items().All() {
		out.Set(i, v)
	}
	for i, v := range other.Items().All() {
		out.Set(n+i, v)
	}
	return value.ArrayOf(out)
}
