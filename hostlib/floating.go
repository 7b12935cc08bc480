package hostlib

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"alma.local/iogen/catalog"
	"alma.local/iogen/domains"
)

type floating interface {
	~float32 | ~float64
}

// formatFloat renders f the way the host prints floating values.
func formatFloat(f float64, bitSize int) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	s := strconv.FormatFloat(f, 'g', -1, bitSize)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// saturateInt32 converts like a host narrowing cast: NaN becomes 0 and
// out-of-range values clamp.
func saturateInt32(f float64) int32 {
	switch {
	case math.IsNaN(f):
		return 0
	case f >= math.MaxInt32:
		return math.MaxInt32
	case f <= math.MinInt32:
		return math.MinInt32
	}
	return int32(f)
}

func floatingType[T floating](td domains.TypeDescriptor) *catalog.TypeInfo {
	n := td.Bits
	two := ps(td, td)
	one := ps(td)
	f64 := func(v any) float64 { return float64(v.(T)) }

	t := &catalog.TypeInfo{Name: td.Name, Value: td}
	return t.MustRegister(
		static("compare", domains.Int32, two, func(_ any, a []any) (any, error) {
			return compareFloat(f64(a[0]), f64(a[1])), nil
		}),
		static("max", td, two, func(_ any, a []any) (any, error) {
			return T(math.Max(f64(a[0]), f64(a[1]))), nil
		}),
		static("min", td, two, func(_ any, a []any) (any, error) {
			return T(math.Min(f64(a[0]), f64(a[1]))), nil
		}),
		static("sum", td, two, func(_ any, a []any) (any, error) {
			return a[0].(T) + a[1].(T), nil
		}),
		static("isNaN", domains.Bool, one, func(_ any, a []any) (any, error) {
			return math.IsNaN(f64(a[0])), nil
		}),
		static("isInfinite", domains.Bool, one, func(_ any, a []any) (any, error) {
			return math.IsInf(f64(a[0]), 0), nil
		}),
		static("isFinite", domains.Bool, one, func(_ any, a []any) (any, error) {
			f := f64(a[0])
			return !math.IsInf(f, 0) && !math.IsNaN(f), nil
		}),
		static("signum", td, one, func(_ any, a []any) (any, error) {
			f := f64(a[0])
			switch {
			case f > 0:
				return T(1), nil
			case f < 0:
				return T(-1), nil
			}
			return a[0].(T), nil
		}),
		static("toString", domains.Text, one, func(_ any, a []any) (any, error) {
			return formatFloat(f64(a[0]), n), nil
		}),
		static("parse", td, ps(domains.Text), func(_ any, a []any) (any, error) {
			s := a[0].(string)
			v, err := strconv.ParseFloat(strings.TrimSpace(s), n)
			if err != nil {
				return nil, fmt.Errorf("%w: for input %q", ErrNumberFormat, s)
			}
			return T(v), nil
		}),
		method("intValue", domains.Int32, nil, func(r any, _ []any) (any, error) {
			return saturateInt32(f64(r)), nil
		}),
		method("isNaN", domains.Bool, nil, func(r any, _ []any) (any, error) {
			return math.IsNaN(f64(r)), nil
		}),
		method("compareTo", domains.Int32, one, func(r any, a []any) (any, error) {
			return compareFloat(f64(r), f64(a[0])), nil
		}),
	)
}
