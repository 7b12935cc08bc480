package hostlib

import (
	"fmt"
	"math"
	"math/rand"

	"alma.local/iogen/catalog"
	"alma.local/iogen/domains"
)

const MathName = "math"

func unaryFloat(name string, fn func(float64) float64) *catalog.Operation {
	return static(name, domains.Float64, ps(domains.Float64), func(_ any, a []any) (any, error) {
		return fn(a[0].(float64)), nil
	})
}

// roundHalfUp is floor(x + 0.5) with NaN mapped to 0 and saturation at the
// int64 limits.
func roundHalfUp(x float64) int64 {
	switch {
	case math.IsNaN(x):
		return 0
	case x >= math.MaxInt64:
		return math.MaxInt64
	case x <= math.MinInt64:
		return math.MinInt64
	}
	return int64(math.Floor(x + 0.5))
}

func floorDiv(x, y int64) (int64, error) {
	if y == 0 {
		return 0, fmt.Errorf("%w: / by zero", ErrArithmetic)
	}
	if x == math.MinInt64 && y == -1 {
		return math.MinInt64, nil
	}
	q := x / y
	if (x%y != 0) && ((x < 0) != (y < 0)) {
		q--
	}
	return q, nil
}

func floorMod(x, y int64) (int64, error) {
	if y == 0 {
		return 0, fmt.Errorf("%w: / by zero", ErrArithmetic)
	}
	if y == -1 {
		return 0, nil
	}
	m := x % y
	if m != 0 && ((m < 0) != (y < 0)) {
		m += y
	}
	return m, nil
}

func overflow(op string) error {
	return fmt.Errorf("%w: %s overflow", ErrArithmetic, op)
}

func mathType() *catalog.TypeInfo {
	i32x2 := ps(domains.Int32, domains.Int32)
	i64x2 := ps(domains.Int64, domains.Int64)
	f64x2 := ps(domains.Float64, domains.Float64)

	t := &catalog.TypeInfo{Name: MathName, Value: domains.Opaque(MathName)}
	return t.MustRegister(
		static("abs", domains.Int32, ps(domains.Int32), func(_ any, a []any) (any, error) {
			x := a[0].(int32)
			if x < 0 {
				return -x, nil
			}
			return x, nil
		}),
		unaryFloat("abs", math.Abs),
		static("max", domains.Int64, i64x2, func(_ any, a []any) (any, error) {
			return max(a[0].(int64), a[1].(int64)), nil
		}),
		static("min", domains.Float64, f64x2, func(_ any, a []any) (any, error) {
			return math.Min(a[0].(float64), a[1].(float64)), nil
		}),
		unaryFloat("sqrt", math.Sqrt),
		unaryFloat("cbrt", math.Cbrt),
		static("pow", domains.Float64, f64x2, func(_ any, a []any) (any, error) {
			return math.Pow(a[0].(float64), a[1].(float64)), nil
		}),
		unaryFloat("exp", math.Exp),
		unaryFloat("log", math.Log),
		unaryFloat("log10", math.Log10),
		static("hypot", domains.Float64, f64x2, func(_ any, a []any) (any, error) {
			return math.Hypot(a[0].(float64), a[1].(float64)), nil
		}),
		unaryFloat("floor", math.Floor),
		unaryFloat("ceil", math.Ceil),
		static("round", domains.Int64, ps(domains.Float64), func(_ any, a []any) (any, error) {
			return roundHalfUp(a[0].(float64)), nil
		}),
		unaryFloat("signum", func(x float64) float64 {
			switch {
			case x > 0:
				return 1
			case x < 0:
				return -1
			}
			return x
		}),
		static("floorDiv", domains.Int64, i64x2, func(_ any, a []any) (any, error) {
			return floorDiv(a[0].(int64), a[1].(int64))
		}),
		static("floorMod", domains.Int64, i64x2, func(_ any, a []any) (any, error) {
			return floorMod(a[0].(int64), a[1].(int64))
		}),
		static("addExact", domains.Int32, i32x2, func(_ any, a []any) (any, error) {
			s := int64(a[0].(int32)) + int64(a[1].(int32))
			if s > math.MaxInt32 || s < math.MinInt32 {
				return nil, overflow("integer")
			}
			return int32(s), nil
		}),
		static("multiplyExact", domains.Int64, i64x2, func(_ any, a []any) (any, error) {
			x, y := a[0].(int64), a[1].(int64)
			if x == 0 || y == 0 {
				return int64(0), nil
			}
			p := x * y
			if p/y != x || (x == -1 && y == math.MinInt64) || (y == -1 && x == math.MinInt64) {
				return nil, overflow("long")
			}
			return p, nil
		}),
		static("negateExact", domains.Int32, ps(domains.Int32), func(_ any, a []any) (any, error) {
			x := a[0].(int32)
			if x == math.MinInt32 {
				return nil, overflow("integer")
			}
			return -x, nil
		}),
		unaryFloat("toRadians", func(x float64) float64 { return x / 180 * math.Pi }),
		unaryFloat("toDegrees", func(x float64) float64 { return x * 180 / math.Pi }),
		static("random", domains.Float64, nil, func(_ any, _ []any) (any, error) {
			return rand.Float64(), nil
		}),
	)
}
