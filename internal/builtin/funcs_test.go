package builtin

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/legendsbarber/seqfold/internal/value"
)

func call(t *testing.T, name string, args ...value.Value) (value.Value, error) {
	t.Helper()
	fn, ok := Default().Func(name)
	require.True(t, ok, name)
	return fn.Call(args...)
}

func arr(vals ...value.Value) *value.Array { return value.NewArray(vals...) }

func TestReducers(t *testing.T) {
	holey := value.NewSparseArray(2)
	holey.Set(1, value.Int(9))

	tests := []struct {
		name     string
		fn       string
		acc, cur value.Value
		want     value.Value
	}{
		{"add ints", "add", value.Int(1), value.Int(2), value.Int(3)},
		{"add strings", "add", value.Str(""), value.Str("a"), value.Str("a")},
		{"add number and string", "add", value.Int(1), value.Str("2"), value.Str("12")},
		{"add array", "add", arr(value.Int(1), value.Int(2)), value.Int(3), value.Str("1,23")},
		{"add null", "add", value.Null{}, value.Int(4), value.Int(4)},
		{"add bool", "add", value.Bool(true), value.Int(1), value.Int(2)},
		{"sub", "sub", value.Int(10), value.Int(4), value.Int(6)},
		{"mul", "mul", value.Int(3), value.Int(4), value.Int(12)},
		{"max", "max", value.Int(3), value.Int(9), value.Int(9)},
		{"min", "min", value.Int(3), value.Int(9), value.Int(3)},
		{"and falsy", "and", value.Int(0), value.Int(5), value.Int(0)},
		{"and truthy", "and", value.Bool(true), value.Int(5), value.Int(5)},
		{"or falsy", "or", value.Str(""), value.Int(5), value.Int(5)},
		{"or truthy", "or", value.Int(1), value.Int(5), value.Int(1)},
		{"concat strings", "concat", value.Str("a"), value.Str("b"), value.Str("ab")},
		{"concat array", "concat", arr(value.Int(1)), arr(value.Int(2), value.Int(3)), arr(value.Int(1), value.Int(2), value.Int(3))},
		{"concat keeps holes", "concat", arr(), holey, holey},
		{"collect", "collect", arr(), value.Int(1), arr(value.Int(1))},
		{"collect nested", "collect", arr(value.Int(1)), arr(value.Int(2)), arr(value.Int(1), arr(value.Int(2)))},
		{"flatten", "flatten", arr(value.Int(1)), holey, arr(value.Int(1), value.Int(9))},
		{"flatten scalar", "flatten", arr(), value.Int(4), arr(value.Int(4))},
		{"count", "count", value.Int(0), value.Str("x"), value.Int(1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := call(t, tt.fn, tt.acc, tt.cur, value.Int(0), arr())
			require.NoError(t, err)
			assert.True(t, value.Equal(tt.want, got), "got %s", value.MustCanonical(got))
		})
	}
}

func TestCollectDoesNotMutateAccumulator(t *testing.T) {
	acc := arr(value.Int(1))
	_, err := call(t, "collect", acc, value.Int(2))
	require.NoError(t, err)
	assert.Equal(t, 1, acc.Len())
}

func TestMappers(t *testing.T) {
	tests := []struct {
		name string
		fn   string
		cur  value.Value
		idx  int
		want value.Value
	}{
		{"double", "double", value.Int(4), 0, value.Int(8)},
		{"square", "square", value.Int(-3), 0, value.Int(9)},
		{"negate", "negate", value.Int(5), 0, value.Int(-5)},
		{"is_even", "is_even", value.Int(4), 0, value.Bool(true)},
		{"is_odd", "is_even", value.Int(3), 0, value.Bool(false)},
		{"stringify", "stringify", arr(value.Int(1), value.Int(2)), 0, value.Str("1,2")},
		{"stringify undefined", "stringify", value.Undefined{}, 0, value.Str("undefined")},
		{"index", "index", value.Str("x"), 7, value.Int(7)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := call(t, tt.fn, tt.cur, value.Int(tt.idx), arr())
			require.NoError(t, err)
			assert.True(t, value.Equal(tt.want, got), "got %s", value.MustCanonical(got))
		})
	}
}

func TestOperandErrors(t *testing.T) {
	tests := []struct {
		name string
		fn   string
		args []value.Value
		want string
	}{
		{"sub string", "sub", []value.Value{value.Int(1), value.Str("a")}, `sub: invalid operand: expected number, got string "a"`},
		{"add undefined", "add", []value.Value{value.Undefined{}, value.Int(1)}, "add: invalid operand: expected number or string, got undefined undefined"},
		{"collect scalar", "collect", []value.Value{value.Int(0), value.Int(1)}, "collect: invalid operand: expected array, got number 0"},
		{"double object", "double", []value.Value{value.Object{}}, "double: invalid operand: expected number, got object [object Object]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := call(t, tt.fn, tt.args...)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrOperand)
			assert.EqualError(t, err, tt.want)
		})
	}
}

func TestIntegerOverflow(t *testing.T) {
	maxInt := value.Int(math.MaxInt64)
	minInt := value.Int(math.MinInt64)

	tests := []struct {
		name string
		fn   string
		args []value.Value
		want string
	}{
		{"add", "add", []value.Value{maxInt, value.Int(1)}, "add: invalid operand: integer overflow on [9223372036854775807 1]"},
		{"add negative", "add", []value.Value{minInt, value.Int(-1)}, "add: invalid operand: integer overflow on [-9223372036854775808 -1]"},
		{"sub", "sub", []value.Value{minInt, value.Int(1)}, "sub: invalid operand: integer overflow on [-9223372036854775808 1]"},
		{"sub negative", "sub", []value.Value{maxInt, value.Int(-1)}, "sub: invalid operand: integer overflow on [9223372036854775807 -1]"},
		{"mul", "mul", []value.Value{value.Int(1 << 32), value.Int(1 << 32)}, "mul: invalid operand: integer overflow on [4294967296 4294967296]"},
		{"mul min by minus one", "mul", []value.Value{minInt, value.Int(-1)}, "mul: invalid operand: integer overflow on [-9223372036854775808 -1]"},
		{"count", "count", []value.Value{maxInt, value.Int(0)}, "count: invalid operand: integer overflow on [9223372036854775807]"},
		{"double", "double", []value.Value{value.Int(math.MaxInt64/2 + 1)}, "double: invalid operand: integer overflow on [4611686018427387904]"},
		{"square", "square", []value.Value{value.Int(3037000500)}, "square: invalid operand: integer overflow on [3037000500]"},
		{"negate", "negate", []value.Value{minInt}, "negate: invalid operand: integer overflow on [-9223372036854775808]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := call(t, tt.fn, tt.args...)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrOperand)
			assert.EqualError(t, err, tt.want)
		})
	}
}

func TestIntegerBounds(t *testing.T) {
	tests := []struct {
		name string
		fn   string
		args []value.Value
		want value.Value
	}{
		{"add to max", "add", []value.Value{value.Int(math.MaxInt64 - 1), value.Int(1)}, value.Int(math.MaxInt64)},
		{"sub to min", "sub", []value.Value{value.Int(math.MinInt64 + 1), value.Int(1)}, value.Int(math.MinInt64)},
		{"mul by zero", "mul", []value.Value{value.Int(math.MinInt64), value.Int(0)}, value.Int(0)},
		{"mul to min", "mul", []value.Value{value.Int(math.MinInt64 / 2), value.Int(2)}, value.Int(math.MinInt64)},
		{"double half", "double", []value.Value{value.Int(math.MaxInt64 / 2)}, value.Int(math.MaxInt64 - 1)},
		{"square largest", "square", []value.Value{value.Int(3037000499)}, value.Int(9223372030926249001)},
		{"negate max", "negate", []value.Value{value.Int(math.MaxInt64)}, value.Int(-math.MaxInt64)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := call(t, tt.fn, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
