package value

import (
	"fmt"
	"math"

	"github.com/legendsbarber/seqfold/internal/seq"
)

// FromAny converts a plain Go value into a Value.
//
// Supported: nil (Null), Value, bool, string, signed and unsigned integers,
// integral floats, []any, []Value, map[string]any, *seq.Sequence[Value] and
// NativeFunc. Non-integral floats are rejected.
func FromAny(v any) (Value, error) {
	switch val := v.(type) {
	case nil:
		return Null{}, nil
	case Value:
		return val, nil
	case bool:
		return Bool(val), nil
	case string:
		return Str(val), nil
	case int:
		return Int(val), nil
	case int8:
		return Int(val), nil
	case int16:
		return Int(val), nil
	case int32:
		return Int(val), nil
	case int64:
		return Int(val), nil
	case uint8:
		return Int(val), nil
	case uint16:
		return Int(val), nil
	case uint32:
		return Int(val), nil
	case uint:
		if uint64(val) > math.MaxInt64 {
			return nil, fmt.Errorf("integer %d overflows int64", val)
		}
		return Int(val), nil
	case uint64:
		if val > math.MaxInt64 {
			return nil, fmt.Errorf("integer %d overflows int64", val)
		}
		return Int(val), nil
	case float64:
		return fromFloat(val)
	case float32:
		return fromFloat(float64(val))
	case []Value:
		return NewArray(val...), nil
	case []any:
		items := make([]Value, len(val))
		for i, elem := range val {
			item, err := FromAny(elem)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			items[i] = item
		}
		return NewArray(items...), nil
	case map[string]any:
		obj := make(Object, len(val))
		for k, elem := range val {
			item, err := FromAny(elem)
			if err != nil {
				return nil, fmt.Errorf("[%q]: %w", k, err)
			}
			obj[k] = item
		}
		return obj, nil
	case *seq.Sequence[Value]:
		return ArrayOf(val), nil
	case NativeFunc:
		return NewFunc("anonymous", val), nil
	case func(...Value) (Value, error):
		return NewFunc("anonymous", val), nil
	default:
		return nil, fmt.Errorf("unsupported type: %T", v)
	}
}

func fromFloat(f float64) (Value, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return nil, fmt.Errorf("floats are not supported: %s", seq.FormatNumber(f))
	}
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return nil, fmt.Errorf("number %s overflows int64", seq.FormatNumber(f))
	}
	return Int(int64(f)), nil
}

// ToAny converts v into plain Go values suitable for encoding/json and
// yaml.v3. Holes become nil, Undefined becomes nil, functions become their
// rendering.
func ToAny(v Value) any {
	switch val := v.(type) {
	case nil, Undefined, Null:
		return nil
	case Bool:
		return bool(val)
	case Int:
		return int64(val)
	case Str:
		return string(val)
	case *Array:
		out := make([]any, val.Len())
		for i, item := range val.Items().All() {
			out[i] = ToAny(item)
		}
		return out
	case Object:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = ToAny(item)
		}
		return out
	case *Func:
		return val.String()
	default:
		return fmt.Sprint(v)
	}
}
