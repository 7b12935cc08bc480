package hostlib

import (
	"fmt"
	"math"
	"strings"

	"alma.local/iogen/value"
)

// sameValue is element equality for host containers: same dynamic type and
// same value. Floats compare by bit pattern with every NaN equal to every
// other NaN, so NaN keys can be found again and 0.0 differs from -0.0.
func sameValue(a, b any) bool {
	switch x := a.(type) {
	case float64:
		y, ok := b.(float64)
		return ok && canonicalBits(x) == canonicalBits(y)
	case float32:
		y, ok := b.(float32)
		return ok && canonicalBits(float64(x)) == canonicalBits(float64(y))
	case int8, int16, int32, int64, bool, string, value.Char:
		return a == b
	case nil:
		return b == nil
	}
	return value.TypeName(a) == value.TypeName(b) && value.Format(a) == value.Format(b)
}

func canonicalBits(f float64) uint64 {
	if math.IsNaN(f) {
		return 0x7ff8000000000001
	}
	return math.Float64bits(f)
}

// naturalCompare orders two values of the same dynamic type. Mixed types fail
// with ErrClassCast.
func naturalCompare(a, b any) (int, error) {
	switch x := a.(type) {
	case int8:
		if y, ok := b.(int8); ok {
			return cmpOrdered(x, y), nil
		}
	case int16:
		if y, ok := b.(int16); ok {
			return cmpOrdered(x, y), nil
		}
	case int32:
		if y, ok := b.(int32); ok {
			return cmpOrdered(x, y), nil
		}
	case int64:
		if y, ok := b.(int64); ok {
			return cmpOrdered(x, y), nil
		}
	case float32:
		if y, ok := b.(float32); ok {
			return int(compareFloat(float64(x), float64(y))), nil
		}
	case float64:
		if y, ok := b.(float64); ok {
			return int(compareFloat(x, y)), nil
		}
	case bool:
		if y, ok := b.(bool); ok {
			return compareBool(x, y), nil
		}
	case value.Char:
		if y, ok := b.(value.Char); ok {
			return cmpOrdered(x, y), nil
		}
	case string:
		if y, ok := b.(string); ok {
			return strings.Compare(x, y), nil
		}
	}
	return 0, fmt.Errorf("%w: cannot compare %s with %s", ErrClassCast, value.TypeName(a), value.TypeName(b))
}

type ordered interface {
	~int8 | ~int16 | ~int32 | ~int64 | ~float32 | ~float64 | ~string
}

func cmpOrdered[T ordered](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case a:
		return 1
	}
	return -1
}

// compareFloat is a total order: -0 < +0 and NaN above everything, NaN == NaN.
func compareFloat(a, b float64) int32 {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	an, bn := math.IsNaN(a), math.IsNaN(b)
	switch {
	case an && bn:
		return 0
	case an:
		return 1
	case bn:
		return -1
	}
	sa, sb := math.Signbit(a), math.Signbit(b)
	switch {
	case sa && !sb:
		return -1
	case !sa && sb:
		return 1
	}
	return 0
}

// formatSeq renders elements as "[a, b, c]".
func formatSeq(elems []any) string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, e := range elems {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(value.Format(e))
	}
	sb.WriteByte(']')
	return sb.String()
}
