package value

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Reserved object keys used to encode values that plain JSON cannot carry.
// User objects may not use keys starting with "$".
const (
	keyUndefined = "$undefined"
	keySparse    = "$sparse"
	keyFn        = "$fn"
)

// MarshalCanonical produces RFC 8785 canonical JSON for v.
// CRITICAL: This is the ONLY serialization used for run identity, the run
// log and golden traces.
//
// Differences from json.Marshal:
//  1. Object keys sorted by UTF-16 code units (not UTF-8 bytes)
//  2. No HTML escaping, U+2028/U+2029 written literally
//  3. Strings are NFC normalized
//  4. Undefined, sparse arrays and functions use reserved "$" objects
func MarshalCanonical(v Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeCanonical(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// CanonicalString is MarshalCanonical returning a string.
func CanonicalString(v Value) (string, error) {
	b, err := MarshalCanonical(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// MustCanonical is like CanonicalString but panics on error.
// Use only in tests or when v is known to be valid.
func MustCanonical(v Value) string {
	s, err := CanonicalString(v)
	if err != nil {
		panic(err)
	}
	return s
}

func writeCanonical(buf *bytes.Buffer, v Value) error {
	switch val := v.(type) {
	case nil:
		return fmt.Errorf("nil value is not encodable (use Undefined or Null)")
	case Undefined:
		buf.WriteString(`{"$undefined":true}`)
	case Null:
		buf.WriteString("null")
	case Bool:
		buf.WriteString(strconv.FormatBool(bool(val)))
	case Int:
		buf.WriteString(strconv.FormatInt(int64(val), 10))
	case Str:
		return writeCanonicalString(buf, string(val))
	case *Array:
		if val == nil {
			buf.WriteString("null")
			return nil
		}
		if val.IsSparse() {
			return writeSparseArray(buf, val)
		}
		return writeDenseArray(buf, val)
	case Object:
		for k := range val {
			if strings.HasPrefix(k, "$") {
				return fmt.Errorf("object key %q: keys starting with \"$\" are reserved", k)
			}
		}
		return writeCanonicalObject(buf, val)
	case *Func:
		if val == nil {
			buf.WriteString("null")
			return nil
		}
		buf.WriteString(`{"$fn":`)
		return writeCanonicalStringThen(buf, val.Name, "}")
	default:
		return fmt.Errorf("unsupported type for canonical JSON: %T", v)
	}
	return nil
}

func writeCanonicalStringThen(buf *bytes.Buffer, s, suffix string) error {
	if err := writeCanonicalString(buf, s); err != nil {
		return err
	}
	buf.WriteString(suffix)
	return nil
}

// writeCanonicalString writes s as a JSON string after NFC normalization.
// Only control characters, backslash and quote are escaped.
func writeCanonicalString(buf *bytes.Buffer, s string) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(norm.NFC.String(s)); err != nil {
		return err
	}
	out := bytes.TrimSuffix(tmp.Bytes(), []byte{'\n'})
	buf.Write(unescapeLineSeparators(out))
	return nil
}

// unescapeLineSeparators turns the \u2028 and \u2029 escapes emitted by
// encoding/json back into literal characters. An escape preceded by an odd
// run of backslashes is literal text and is kept.
func unescapeLineSeparators(data []byte) []byte {
	if !bytes.Contains(data, []byte(`\u202`)) {
		return data
	}

	out := make([]byte, 0, len(data))
	backslashes := 0
	for i := 0; i < len(data); i++ {
		c := data[i]
		if c == '\\' && backslashes%2 == 0 && i+6 <= len(data) &&
			string(data[i+1:i+5]) == "u202" && (data[i+5] == '8' || data[i+5] == '9') {
			if data[i+5] == '8' {
				out = append(out, "\u2028"...)
			} else {
				out = append(out, "\u2029"...)
			}
			i += 5
			backslashes = 0
			continue
		}
		if c == '\\' {
			backslashes++
		} else {
			backslashes = 0
		}
		out = append(out, c)
	}
	return out
}

func writeDenseArray(buf *bytes.Buffer, arr *Array) error {
	buf.WriteByte('[')
	for i := 0; i < arr.Len(); i++ {
		if i > 0 {
			buf.WriteByte(',')
		}
		v, _ := arr.At(i)
		if err := writeCanonical(buf, v); err != nil {
			return fmt.Errorf("array[%d]: %w", i, err)
		}
	}
	buf.WriteByte(']')
	return nil
}

// writeSparseArray encodes an array with holes as
// {"$sparse":{"at":{"<index>":<value>,...},"length":<n>}}.
// Index keys are sorted like any other object keys.
func writeSparseArray(buf *bytes.Buffer, arr *Array) error {
	at := make(Object, arr.Items().Count())
	for i, v := range arr.Items().All() {
		at[strconv.Itoa(i)] = v
	}

	buf.WriteString(`{"$sparse":{"at":`)
	if err := writeCanonicalObject(buf, at); err != nil {
		return err
	}
	buf.WriteString(`,"length":`)
	buf.WriteString(strconv.Itoa(arr.Len()))
	buf.WriteString("}}")
	return nil
}

// writeCanonicalObject writes obj with RFC 8785 key ordering.
func writeCanonicalObject(buf *bytes.Buffer, obj Object) error {
	buf.WriteByte('{')
	for i, k := range obj.SortedKeys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeCanonicalString(buf, k); err != nil {
			return fmt.Errorf("key %q: %w", k, err)
		}
		buf.WriteByte(':')
		if err := writeCanonical(buf, obj[k]); err != nil {
			return fmt.Errorf("value for key %q: %w", k, err)
		}
	}
	buf.WriteByte('}')
	return nil
}

// Resolver maps a function name to a callable. It is used when decoding
// {"$fn":"name"} and "!fn name".
type Resolver func(name string) (*Func, bool)

// UnmarshalCanonical decodes JSON produced by MarshalCanonical.
// Numbers must be integers. resolve may be nil when the data holds no
// function references.
func UnmarshalCanonical(data []byte, resolve Resolver) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode canonical JSON: %w", err)
	}
	if dec.More() {
		return nil, fmt.Errorf("decode canonical JSON: trailing data")
	}
	return fromJSON(raw, resolve)
}

func fromJSON(raw any, resolve Resolver) (Value, error) {
	switch val := raw.(type) {
	case nil:
		return Null{}, nil
	case bool:
		return Bool(val), nil
	case string:
		return Str(val), nil
	case json.Number:
		n, err := val.Int64()
		if err != nil {
			return nil, fmt.Errorf("number %s: only integers are supported", val)
		}
		return Int(n), nil
	case []any:
		items := make([]Value, len(val))
		for i, elem := range val {
			v, err := fromJSON(elem, resolve)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			items[i] = v
		}
		return NewArray(items...), nil
	case map[string]any:
		return objectFromJSON(val, resolve)
	default:
		return nil, fmt.Errorf("unsupported JSON type: %T", raw)
	}
}

func objectFromJSON(m map[string]any, resolve Resolver) (Value, error) {
	if len(m) == 1 {
		if _, ok := m[keyUndefined]; ok {
			return Undefined{}, nil
		}
		if name, ok := m[keyFn].(string); ok {
			return resolveFunc(name, resolve)
		}
		if body, ok := m[keySparse].(map[string]any); ok {
			return sparseFromJSON(body, resolve)
		}
	}

	obj := make(Object, len(m))
	for k, elem := range m {
		if strings.HasPrefix(k, "$") {
			return nil, fmt.Errorf("object key %q: keys starting with \"$\" are reserved", k)
		}
		v, err := fromJSON(elem, resolve)
		if err != nil {
			return nil, fmt.Errorf("[%q]: %w", k, err)
		}
		obj[k] = v
	}
	return obj, nil
}

func sparseFromJSON(body map[string]any, resolve Resolver) (Value, error) {
	num, ok := body["length"].(json.Number)
	if !ok {
		return nil, fmt.Errorf("$sparse: missing length")
	}
	length, err := strconv.Atoi(num.String())
	if err != nil || length < 0 {
		return nil, fmt.Errorf("$sparse: invalid length %s", num)
	}
	at, _ := body["at"].(map[string]any)

	arr := NewSparseArray(length)
	for k, elem := range at {
		i, err := strconv.Atoi(k)
		if err != nil || i < 0 || i >= length {
			return nil, fmt.Errorf("$sparse: index %q out of range [0,%d)", k, length)
		}
		v, err := fromJSON(elem, resolve)
		if err != nil {
			return nil, fmt.Errorf("$sparse[%d]: %w", i, err)
		}
		arr.Set(i, v)
	}
	return arr, nil
}

func resolveFunc(name string, resolve Resolver) (*Func, error) {
	if resolve == nil {
		return nil, fmt.Errorf("function %q: no resolver", name)
	}
	fn, ok := resolve(name)
	if !ok {
		return nil, fmt.Errorf("unknown function %q", name)
	}
	return fn, nil
}
