package value

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/legendsbarber/seqfold/internal/seq"
)

// Value is a sealed interface representing the supported dynamic values.
type Value interface {
	// String renders the value with ECMAScript ToString semantics.
	String() string

	value() // Sealed - only the types of this package implement it
}

// Undefined is the value of an omitted argument.
type Undefined struct{}

func (Undefined) value()         {}
func (Undefined) String() string { return "undefined" }

// Null is an explicit empty value, distinct from Undefined and from a hole.
type Null struct{}

func (Null) value()         {}
func (Null) String() string { return "null" }

// Bool is a boolean value.
type Bool bool

func (Bool) value() {}

func (b Bool) String() string { return strconv.FormatBool(bool(b)) }

// Int is a number. Always int64, never float64.
type Int int64

func (Int) value() {}

func (n Int) String() string { return strconv.FormatInt(int64(n), 10) }

// Str is a string value.
type Str string

func (Str) value() {}

func (s Str) String() string { return string(s) }

// Object maps string keys to values.
// Use SortedKeys() for deterministic iteration.
type Object map[string]Value

func (Object) value() {}

func (Object) String() string { return "[object Object]" }

// SortedKeys returns keys in RFC 8785 canonical order (UTF-16 code units).
func (obj Object) SortedKeys() []string {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareKeysRFC8785)
	return keys
}

// compareKeysRFC8785 compares strings by UTF-16 code units.
// Go's string comparison uses UTF-8 bytes, which orders some keys differently.
func compareKeysRFC8785(a, b string) int {
	return slices.Compare(utf16.Encode([]rune(a)), utf16.Encode([]rune(b)))
}

// Array is an ordered, possibly sparse list of values.
type Array struct {
	items *seq.Sequence[Value]
}

func (*Array) value() {}

// NewArray creates a dense array.
func NewArray(vals ...Value) *Array {
	return &Array{items: seq.FromSlice(vals)}
}

// NewSparseArray creates an array of the given length made only of holes.
func NewSparseArray(length int) *Array {
	return &Array{items: seq.Sparse[Value](length)}
}

// ArrayOf wraps an existing sequence without copying it.
func ArrayOf(items *seq.Sequence[Value]) *Array {
	if items == nil {
		items = seq.Sparse[Value](0)
	}
	return &Array{items: items}
}

// Items returns the underlying sequence. Changes to it are visible through
// the array.
func (a *Array) Items() *seq.Sequence[Value] {
	if a == nil {
		return nil
	}
	return a.items
}

// Len returns the array length, holes included.
func (a *Array) Len() int { return a.Items().Len() }

// At returns the element at i and whether the slot is present.
func (a *Array) At(i int) (Value, bool) { return a.Items().At(i) }

// Set stores v at slot i.
func (a *Array) Set(i int, v Value) { a.items.Set(i, v) }

// IsSparse reports whether the array has at least one hole.
func (a *Array) IsSparse() bool { return a.Items().Count() != a.Len() }

// String joins the elements with ",". Holes, null and undefined render as
// empty strings, as Array.prototype.join does.
func (a *Array) String() string {
	n := a.Len()
	parts := make([]string, n)
	for i := 0; i < n; i++ {
		v, ok := a.At(i)
		if !ok {
			continue
		}
		switch v.(type) {
		case Undefined, Null, nil:
			continue
		}
		parts[i] = v.String()
	}
	return strings.Join(parts, ",")
}

// NativeFunc is the Go implementation of a callable value. Arguments are
// positional: reducers receive (acc, cur, index, array), mappers receive
// (cur, index, array).
type NativeFunc func(args ...Value) (Value, error)

// Func is a named callable value.
type Func struct {
	Name string
	Fn   NativeFunc
}

func (*Func) value() {}

// NewFunc creates a callable value.
func NewFunc(name string, fn NativeFunc) *Func {
	return &Func{Name: name, Fn: fn}
}

// Call invokes the function.
func (f *Func) Call(args ...Value) (Value, error) {
	if f == nil || f.Fn == nil {
		return nil, seq.NotCallable(f)
	}
	return f.Fn(args...)
}

func (f *Func) String() string {
	if f == nil {
		return "null"
	}
	return fmt.Sprintf("function %s() { [native code] }", f.Name)
}

// Arg returns the i-th argument, or Undefined when it was not passed.
func Arg(args []Value, i int) Value {
	if i < 0 || i >= len(args) || args[i] == nil {
		return Undefined{}
	}
	return args[i]
}

// TypeName returns a short name for the kind of v.
func TypeName(v Value) string {
	switch v.(type) {
	case nil, Undefined:
		return "undefined"
	case Null:
		return "null"
	case Bool:
		return "boolean"
	case Int:
		return "number"
	case Str:
		return "string"
	case *Array:
		return "array"
	case Object:
		return "object"
	case *Func:
		return "function"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// Truthy reports whether v converts to true.
func Truthy(v Value) bool {
	switch val := v.(type) {
	case nil, Undefined, Null:
		return false
	case Bool:
		return bool(val)
	case Int:
		return val != 0
	case Str:
		return val != ""
	default:
		return true
	}
}
