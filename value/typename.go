package value

import (
	"math"
	"reflect"
)

// TypeName returns the dynamic type tag of v as written to typeInput/typeOutput.
func TypeName(v any) string {
	if v == nil {
		return "null"
	}
	// Fast path for common types
	switch v.(type) {
	case int8:
		return "int8"
	case int16:
		return "int16"
	case int32:
		return "int32"
	case int64:
		return "int64"
	case int:
		return "int"
	case float32:
		return "float32"
	case float64:
		return "float64"
	case bool:
		return "bool"
	case Char:
		return "char"
	case string:
		return "string"
	case error:
		return "error"
	}
	if n, ok := v.(interface{ TypeName() string }); ok {
		return n.TypeName()
	}

	// Fallback to reflection for slices and arrays
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		elem := rv.Type().Elem()
		if elem.Kind() == reflect.Interface {
			return "[]any"
		}
		return "[]" + TypeName(reflect.Zero(elem).Interface())
	case reflect.Func:
		return "func"
	}
	return rv.Type().String()
}

// Encode converts v into a value encoding/json can marshal without loss of
// the special floating values.
func Encode(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case float64:
		return encodeFloat(x)
	case float32:
		if IsInvalidFloat(x) {
			return encodeFloat(float64(x))
		}
		return x
	case Char:
		return x.String()
	case string, bool, int8, int16, int32, int64, int:
		return x
	case error:
		return "error"
	case Collection:
		return encodeSlice(x.Elements())
	case Mapping:
		pairs := x.Pairs()
		out := make([][2]any, len(pairs))
		for i, p := range pairs {
			out[i] = [2]any{Encode(p[0]), Encode(p[1])}
		}
		return out
	}
	if n, ok := v.(interface{ TypeName() string }); ok {
		if s, ok := v.(interface{ String() string }); ok {
			return s.String()
		}
		return n.TypeName()
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = Encode(rv.Index(i).Interface())
		}
		return out
	}
	return Format(v)
}

// EncodeAll encodes each value of vs.
func EncodeAll(vs []any) []any {
	return encodeSlice(vs)
}

func encodeSlice(vs []any) []any {
	out := make([]any, len(vs))
	for i, v := range vs {
		out[i] = Encode(v)
	}
	return out
}

func encodeFloat(f float64) any {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	return f
}
