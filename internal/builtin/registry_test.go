package builtin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/legendsbarber/seqfold/internal/value"
)

func TestDefaultRegistry(t *testing.T) {
	r := Default()
	assert.Equal(t, []string{
		"add", "and", "collect", "concat", "count", "double", "flatten", "index",
		"is_even", "max", "min", "mul", "negate", "or", "square", "stringify", "sub",
	}, r.Names())

	b, ok := r.Lookup("add")
	require.True(t, ok)
	assert.Equal(t, KindReducer, b.Kind)
	assert.Equal(t, "add", b.Name())

	b, ok = r.Lookup("double")
	require.True(t, ok)
	assert.Equal(t, KindMapper, b.Kind)

	_, ok = r.Lookup("nope")
	assert.False(t, ok)
}

func TestRegisterRejects(t *testing.T) {
	r := NewRegistry()
	noop := func(...value.Value) (value.Value, error) { return value.Null{}, nil }

	require.NoError(t, r.Register(Builtin{Func: value.NewFunc("noop", noop)}))
	assert.ErrorContains(t, r.Register(Builtin{Func: value.NewFunc("noop", noop)}), "duplicate")
	assert.ErrorContains(t, r.Register(Builtin{Func: value.NewFunc("", noop)}), "empty name")
	assert.ErrorContains(t, r.Register(Builtin{Func: value.NewFunc("nil", nil)}), "nil function")
	assert.ErrorContains(t, r.Register(Builtin{}), "nil function")
}

func TestResolver(t *testing.T) {
	r := Default()
	v, err := value.ParseYAML("[!fn add, !fn double]", r.Resolver())
	require.NoError(t, err)
	assert.Equal(t, "function add() { [native code] },function double() { [native code] }", v.String())
}

func TestAll(t *testing.T) {
	all := Default().All()
	require.NotEmpty(t, all)
	for _, b := range all {
		assert.NotEmpty(t, b.Doc, b.Name())
	}
}
