package seq

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
)

// Describe renders v the way ECMAScript ToString would render the closest
// JavaScript value. It is used for NotCallable messages.
//
//	nil, nil func           -> "undefined"
//	nil pointer, nil map    -> "null"
//	string                  -> the string itself
//	bool                    -> "true" / "false"
//	integers                -> decimal
//	floats                  -> shortest form, "NaN", "Infinity", "-Infinity"
//	slices and arrays       -> elements joined with "," (nil elements empty)
//	maps and structs        -> "[object Object]"
//	fmt.Stringer            -> String()
//	error                   -> Error()
//	non-nil func            -> "function () { [native code] }"
func Describe(v any) string {
	if v == nil {
		return "undefined"
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Func, reflect.Chan:
		if rv.IsNil() {
			return "undefined"
		}
	case reflect.Pointer, reflect.Map, reflect.Interface:
		if rv.IsNil() {
			return "null"
		}
	}

	switch x := v.(type) {
	case string:
		return x
	case fmt.Stringer:
		return x.String()
	case error:
		return x.Error()
	case bool:
		return strconv.FormatBool(x)
	}

	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(rv.Uint(), 10)
	case reflect.Float32, reflect.Float64:
		return FormatNumber(rv.Float())
	case reflect.String:
		return rv.String()
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool())
	case reflect.Slice, reflect.Array:
		parts := make([]string, rv.Len())
		for i := range parts {
			parts[i] = describeElem(rv.Index(i))
		}
		return strings.Join(parts, ",")
	case reflect.Pointer:
		return Describe(rv.Elem().Interface())
	case reflect.Func:
		return "function () { [native code] }"
	default:
		return "[object Object]"
	}
}

// describeElem renders an array element: null and undefined become empty
// strings, as Array.prototype.join does.
func describeElem(rv reflect.Value) string {
	switch rv.Kind() {
	case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		if rv.IsNil() {
			return ""
		}
	}
	return Describe(rv.Interface())
}

// FormatNumber renders a float64 like Number.prototype.toString with radix 10.
func FormatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}

	abs := math.Abs(f)
	if abs >= 1e-6 && abs < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}

	s := strconv.FormatFloat(f, 'e', -1, 64)
	// Go pads exponents to two digits, JavaScript does not.
	s = strings.Replace(s, "e-0", "e-", 1)
	s = strings.Replace(s, "e+0", "e+", 1)
	return s
}
