package value

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Custom YAML tags understood by FromYAML.
const (
	TagHole      = "!hole"
	TagFn        = "!fn"
	TagUndefined = "!undefined"
)

// FromYAML converts a decoded YAML node into a Value.
//
// Plain scalars follow the YAML core schema (null, booleans, integers,
// strings). Floats are rejected. Inside a sequence, an element tagged !hole
// is a hole rather than a value. "!fn name" resolves a function through
// resolve and "!undefined" is the undefined value.
func FromYAML(node *yaml.Node, resolve Resolver) (Value, error) {
	if node == nil {
		return Undefined{}, nil
	}

	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return Undefined{}, nil
		}
		return FromYAML(node.Content[0], resolve)
	case yaml.AliasNode:
		return FromYAML(node.Alias, resolve)
	case yaml.SequenceNode:
		return arrayFromYAML(node, resolve)
	case yaml.MappingNode:
		return objectFromYAML(node, resolve)
	case yaml.ScalarNode:
		return scalarFromYAML(node, resolve)
	default:
		return nil, yamlErr(node, "unsupported node kind %v", node.Kind)
	}
}

// ParseYAML parses a single inline YAML document, as passed on the command
// line (for example "[1, !hole ~, 3]").
func ParseYAML(text string, resolve Resolver) (Value, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(text), &doc); err != nil {
		return nil, fmt.Errorf("parse %q: %w", text, err)
	}
	if doc.Kind == 0 {
		return nil, fmt.Errorf("parse %q: empty document", text)
	}
	return FromYAML(&doc, resolve)
}

func arrayFromYAML(node *yaml.Node, resolve Resolver) (Value, error) {
	arr := NewSparseArray(len(node.Content))
	for i, elem := range node.Content {
		if elem.Tag == TagHole {
			if elem.Kind != yaml.ScalarNode || (elem.Value != "" && elem.Value != "~") {
				return nil, yamlErr(elem, "%s takes no value", TagHole)
			}
			continue
		}
		v, err := FromYAML(elem, resolve)
		if err != nil {
			return nil, err
		}
		arr.Set(i, v)
	}
	return arr, nil
}

func objectFromYAML(node *yaml.Node, resolve Resolver) (Value, error) {
	if node.Tag != "" && node.Tag != "!!map" {
		return nil, yamlErr(node, "unsupported tag %s on mapping", node.Tag)
	}
	obj := make(Object, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valNode := node.Content[i], node.Content[i+1]
		key := keyNode.Value
		if strings.HasPrefix(key, "$") {
			return nil, yamlErr(keyNode, "object key %q: keys starting with \"$\" are reserved", key)
		}
		if _, dup := obj[key]; dup {
			return nil, yamlErr(keyNode, "duplicate key %q", key)
		}
		v, err := FromYAML(valNode, resolve)
		if err != nil {
			return nil, err
		}
		obj[key] = v
	}
	return obj, nil
}

func scalarFromYAML(node *yaml.Node, resolve Resolver) (Value, error) {
	switch node.Tag {
	case TagHole:
		return nil, yamlErr(node, "%s is only valid as a sequence element", TagHole)
	case TagUndefined:
		return Undefined{}, nil
	case TagFn:
		fn, err := resolveFunc(strings.TrimSpace(node.Value), resolve)
		if err != nil {
			return nil, yamlErr(node, "%v", err)
		}
		return fn, nil
	}

	switch node.ShortTag() {
	case "!!null":
		return Null{}, nil
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return nil, yamlErr(node, "%v", err)
		}
		return Bool(b), nil
	case "!!int":
		var n int64
		if err := node.Decode(&n); err != nil {
			return nil, yamlErr(node, "%v", err)
		}
		return Int(n), nil
	case "!!str":
		return Str(node.Value), nil
	case "!!float":
		return nil, yamlErr(node, "floats are not supported: %s", node.Value)
	default:
		return nil, yamlErr(node, "unsupported tag %s", node.Tag)
	}
}

func yamlErr(node *yaml.Node, format string, args ...any) error {
	return fmt.Errorf("line %s: %s", strconv.Itoa(node.Line), fmt.Sprintf(format, args...))
}
