package eval

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/legendsbarber/seqfold/internal/builtin"
	"github.com/legendsbarber/seqfold/internal/seq"
	"github.com/legendsbarber/seqfold/internal/value"
)

var registry = builtin.Default()

func fn(t *testing.T, name string) *value.Func {
	t.Helper()
	f, ok := registry.Func(name)
	require.True(t, ok, name)
	return f
}

func parse(t *testing.T, text string) *value.Array {
	t.Helper()
	v, err := value.ParseYAML(text, registry.Resolver())
	require.NoError(t, err)
	arr, ok := v.(*value.Array)
	require.True(t, ok, "%q is not an array", text)
	return arr
}

func some(v value.Value) seq.Option[value.Value] { return seq.Some(v) }

var none = seq.None[value.Value]()

func TestReduce(t *testing.T) {
	tests := []struct {
		name     string
		sequence string
		callback string
		seed     seq.Option[value.Value]
		want     value.Value
		calls    []int
	}{
		{"sum with seed", "[1, 2, 3]", "add", some(value.Int(0)), value.Int(6), []int{0, 1, 2}},
		{"sum without seed", "[1, 2, 3]", "add", none, value.Int(6), []int{1, 2}},
		{"single element", "[5]", "add", none, value.Int(5), nil},
		{"empty with seed", "[]", "add", some(value.Int(10)), value.Int(10), nil},
		{"sparse without seed", "[!hole ~, !hole ~, 4, !hole ~, 6]", "add", none, value.Int(10), []int{4}},
		{"string accumulator", "[a, b]", "add", some(value.Str("")), value.Str("ab"), []int{0, 1}},
		{"null seed", "[1]", "add", some(value.Null{}), value.Int(1), []int{0}},
		{"undefined seed", "[1]", "concat", some(value.Undefined{}), value.Str("undefined1"), []int{0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &Recorder{}
			e := New(WithTracer(rec))

			got, err := e.Reduce(parse(t, tt.sequence), fn(t, tt.callback), tt.seed)
			require.NoError(t, err)
			assert.True(t, value.Equal(tt.want, got), "got %s", value.MustCanonical(got))

			if diff := cmp.Diff(tt.calls, Indices(rec.Calls())); tt.calls != nil && diff != "" {
				t.Errorf("call indices mismatch (-want +got):\n%s", diff)
			}
			if tt.calls == nil {
				assert.Empty(t, rec.Calls())
			}
		})
	}
}

func TestReduce_Errors(t *testing.T) {
	e := New()

	_, err := e.Reduce(parse(t, "[]"), fn(t, "add"), none)
	require.Error(t, err)
	assert.True(t, seq.IsEmptyReduce(err))
	assert.Equal(t, "Reduce of empty array with no initial value", err.Error())

	_, err = e.Reduce(parse(t, "[!hole ~, !hole ~]"), fn(t, "add"), none)
	assert.True(t, seq.IsEmptyReduce(err))

	_, err = e.Reduce(parse(t, "[1, 2, 3]"), value.Int(123), none)
	require.Error(t, err)
	assert.True(t, seq.IsNotCallable(err))
	assert.Equal(t, "123 is not a function", err.Error())

	_, err = e.Reduce(parse(t, "[1, 2, 3]"), value.Str("not a function"), some(value.Int(0)))
	assert.Equal(t, "not a function is not a function", err.Error())

	_, err = e.Reduce(parse(t, "[1]"), nil, none)
	assert.Equal(t, "undefined is not a function", err.Error())

	// NotCallable wins over EmptyReduceNoSeed.
	_, err = e.Reduce(parse(t, "[]"), value.Object{}, none)
	assert.Equal(t, "[object Object] is not a function", err.Error())
}

func TestReduce_CallbackError(t *testing.T) {
	rec := &Recorder{}
	e := New(WithTracer(rec))

	_, err := e.Reduce(parse(t, "[1, x, 3]"), fn(t, "sub"), none)
	require.Error(t, err)
	assert.ErrorIs(t, err, builtin.ErrOperand)

	var cbErr *seq.CallbackError
	require.ErrorAs(t, err, &cbErr)
	assert.Equal(t, 1, cbErr.Index)

	calls := rec.Calls()
	require.Len(t, calls, 1)
	assert.Nil(t, calls[0].Out)
}

func TestReduce_CallArguments(t *testing.T) {
	arr := parse(t, "[1, !hole ~, 3]")
	var got []value.Value
	spy := value.NewFunc("spy", func(args ...value.Value) (value.Value, error) {
		got = append(got, args...)
		return value.Arg(args, 1), nil
	})

	_, err := New().Reduce(arr, spy, some(value.Int(0)))
	require.NoError(t, err)

	require.Len(t, got, 8)
	assert.Equal(t, []value.Value{value.Int(0), value.Int(1), value.Int(0)}, got[:3])
	assert.Same(t, arr, got[3])
	assert.Equal(t, []value.Value{value.Int(1), value.Int(3), value.Int(2)}, got[4:7])
}

func TestReduce_NilResultIsUndefined(t *testing.T) {
	noop := value.NewFunc("noop", func(...value.Value) (value.Value, error) { return nil, nil })
	got, err := New().Reduce(parse(t, "[1, 2]"), noop, none)
	require.NoError(t, err)
	assert.Equal(t, value.Undefined{}, got)
}

func TestMap(t *testing.T) {
	rec := &Recorder{}
	e := New(WithTracer(rec))

	out, err := e.Map(parse(t, "[1, !hole ~, 3]"), fn(t, "double"))
	require.NoError(t, err)
	assert.Equal(t, `{"$sparse":{"at":{"0":2,"2":6},"length":3}}`, value.MustCanonical(out))
	assert.Equal(t, []int{0, 2}, Indices(rec.Calls()))

	for _, c := range rec.Calls() {
		assert.Nil(t, c.Acc)
	}

	_, err = e.Map(parse(t, "[1]"), value.Int(123))
	assert.Equal(t, "123 is not a function", err.Error())
}

func TestRun(t *testing.T) {
	e := New()
	got, err := e.Run(OpMap, parse(t, "[1, 2]"), fn(t, "square"), none)
	require.NoError(t, err)
	assert.Equal(t, "1,4", got.String())

	got, err = e.Run(OpReduce, parse(t, "[1, 2]"), fn(t, "mul"), some(value.Int(3)))
	require.NoError(t, err)
	assert.Equal(t, value.Int(6), got)

	_, err = e.Run("filter", nil, nil, none)
	assert.ErrorContains(t, err, "unknown op")

	_, err = ParseOp("filter")
	assert.Error(t, err)
	op, err := ParseOp("map")
	require.NoError(t, err)
	assert.Equal(t, OpMap, op)
}

func TestTraceSequence(t *testing.T) {
	rec := &Recorder{}
	e := New(WithTracer(rec), WithClock(NewClock()))

	_, err := e.Reduce(parse(t, "[1, 2, 3]"), fn(t, "add"), none)
	require.NoError(t, err)

	calls := rec.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, int64(1), calls[0].Seq)
	assert.Equal(t, int64(2), calls[1].Seq)
	assert.Equal(t,
		`[{"acc":1,"cur":2,"index":1,"out":3,"seq":1},{"acc":3,"cur":3,"index":2,"out":6,"seq":2}]`,
		value.MustCanonical(TraceValue(calls)))
}

func TestMultipleTracers(t *testing.T) {
	var order []string
	first := TracerFunc(func(Call) { order = append(order, "first") })
	second := TracerFunc(func(Call) { order = append(order, "second") })

	_, err := New(WithTracer(first), WithTracer(second), WithTracer(nil)).
		Reduce(parse(t, "[1, 2]"), fn(t, "add"), none)
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestLogging(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	e := New(WithLogger(logrus.NewEntry(logger)))

	_, err := e.Reduce(parse(t, "[1, 2]"), fn(t, "add"), none)
	require.NoError(t, err)

	entries := hook.AllEntries()
	require.Len(t, entries, 2)
	assert.Equal(t, "reduce start", entries[0].Message)
	assert.Equal(t, "add", entries[0].Data["callback"])
	assert.Equal(t, false, entries[0].Data["has_seed"])
	assert.Equal(t, "reduce done", entries[1].Message)
}
