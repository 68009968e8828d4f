package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testResolver(name string) (*Func, bool) {
	switch name {
	case "add", "double":
		return NewFunc(name, func(args ...Value) (Value, error) { return Null{}, nil }), true
	}
	return nil, false
}

func TestParseYAML(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Value
	}{
		{"int", "42", Int(42)},
		{"string", "not a function", Str("not a function")},
		{"quoted number", `"1"`, Str("1")},
		{"null", "~", Null{}},
		{"bool", "true", Bool(true)},
		{"undefined", "!undefined", Undefined{}},
		{"dense", "[1, 2, 3]", NewArray(Int(1), Int(2), Int(3))},
		{"flow hole", "[1, !hole ~, 3]", sparse(3, map[int]Value{0: Int(1), 2: Int(3)})},
		{"block holes", "- !hole\n- !hole\n- 5\n", sparse(3, map[int]Value{2: Int(5)})},
		{"null element", "[1, null]", NewArray(Int(1), Null{})},
		{"object", "{a: 1, b: [x]}", Object{"a": Int(1), "b": NewArray(Str("x"))}},
		{"function", "!fn add", NewFunc("add", nil)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseYAML(tt.text, testResolver)
			require.NoError(t, err)
			assert.True(t, Equal(tt.want, got), "got %s", MustCanonical(got))
		})
	}
}

func TestParseYAMLErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"float", "1.5", "floats are not supported"},
		{"bare hole", "!hole", "only valid as a sequence element"},
		{"hole with value", "[!hole 3]", "takes no value"},
		{"unknown function", "!fn nope", "unknown function"},
		{"reserved key", "{$fn: add}", "reserved"},
		{"empty", "", "empty document"},
		{"syntax", "[1, 2", "parse"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseYAML(tt.text, testResolver)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestFromYAMLNilNode(t *testing.T) {
	v, err := FromYAML(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, Undefined{}, v)
}
