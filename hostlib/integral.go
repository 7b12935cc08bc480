package hostlib

import (
	"fmt"
	"math/bits"
	"strconv"

	"alma.local/iogen/catalog"
	"alma.local/iogen/domains"
)

type signed interface {
	~int8 | ~int16 | ~int32 | ~int64
}

// widthMask keeps the low n bits of a sign-extended value.
func widthMask(n int) uint64 {
	if n >= 64 {
		return ^uint64(0)
	}
	return 1<<uint(n) - 1
}

func integralType[T signed](td domains.TypeDescriptor) *catalog.TypeInfo {
	n := td.Bits
	mask := widthMask(n)
	unsigned := func(x T) uint64 { return uint64(int64(x)) & mask }
	two := ps(td, td)
	one := ps(td)

	t := &catalog.TypeInfo{Name: td.Name, Value: td}
	return t.MustRegister(
		static("compare", domains.Int32, two, func(_ any, a []any) (any, error) {
			return int32(cmpOrdered(a[0].(T), a[1].(T))), nil
		}),
		static("max", td, two, func(_ any, a []any) (any, error) {
			return max(a[0].(T), a[1].(T)), nil
		}),
		static("min", td, two, func(_ any, a []any) (any, error) {
			return min(a[0].(T), a[1].(T)), nil
		}),
		static("sum", td, two, func(_ any, a []any) (any, error) {
			return a[0].(T) + a[1].(T), nil
		}),
		static("signum", domains.Int32, one, func(_ any, a []any) (any, error) {
			return int32(cmpOrdered(a[0].(T), 0)), nil
		}),
		static("bitCount", domains.Int32, one, func(_ any, a []any) (any, error) {
			return int32(bits.OnesCount64(unsigned(a[0].(T)))), nil
		}),
		static("reverse", td, one, func(_ any, a []any) (any, error) {
			return T(bits.Reverse64(unsigned(a[0].(T))) >> uint(64-n)), nil
		}),
		static("rotateLeft", td, ps(td, domains.Int32), func(_ any, a []any) (any, error) {
			u := unsigned(a[0].(T))
			k := int(a[1].(int32)) % n
			if k < 0 {
				k += n
			}
			return T((u<<uint(k) | u>>uint(n-k)) & mask), nil
		}),
		static("numberOfLeadingZeros", domains.Int32, one, func(_ any, a []any) (any, error) {
			return int32(bits.LeadingZeros64(unsigned(a[0].(T))) - (64 - n)), nil
		}),
		static("numberOfTrailingZeros", domains.Int32, one, func(_ any, a []any) (any, error) {
			u := unsigned(a[0].(T))
			if u == 0 {
				return int32(n), nil
			}
			return int32(bits.TrailingZeros64(u)), nil
		}),
		static("highestOneBit", td, one, func(_ any, a []any) (any, error) {
			u := unsigned(a[0].(T))
			if u == 0 {
				return T(0), nil
			}
			return T(uint64(1) << uint(bits.Len64(u)-1)), nil
		}),
		static("toString", domains.Text, one, func(_ any, a []any) (any, error) {
			return strconv.FormatInt(int64(a[0].(T)), 10), nil
		}),
		static("toHexString", domains.Text, one, func(_ any, a []any) (any, error) {
			return strconv.FormatUint(unsigned(a[0].(T)), 16), nil
		}),
		static("parse", td, ps(domains.Text), func(_ any, a []any) (any, error) {
			s := a[0].(string)
			v, err := strconv.ParseInt(s, 10, n)
			if err != nil {
				return nil, fmt.Errorf("%w: for input %q", ErrNumberFormat, s)
			}
			return T(v), nil
		}),
		static("divideUnsigned", td, two, func(_ any, a []any) (any, error) {
			d := unsigned(a[1].(T))
			if d == 0 {
				return nil, fmt.Errorf("%w: / by zero", ErrArithmetic)
			}
			return T(unsigned(a[0].(T)) / d), nil
		}),
		static("compareUnsigned", domains.Int32, two, func(_ any, a []any) (any, error) {
			x, y := unsigned(a[0].(T)), unsigned(a[1].(T))
			switch {
			case x < y:
				return int32(-1), nil
			case x > y:
				return int32(1), nil
			}
			return int32(0), nil
		}),
		method("compareTo", domains.Int32, one, func(r any, a []any) (any, error) {
			return int32(cmpOrdered(r.(T), a[0].(T))), nil
		}),
		method("toFloat64", domains.Float64, nil, func(r any, _ []any) (any, error) {
			return float64(r.(T)), nil
		}),
		method("toString", domains.Text, nil, func(r any, _ []any) (any, error) {
			return strconv.FormatInt(int64(r.(T)), 10), nil
		}),
		method("hashCode", domains.Int32, nil, func(r any, _ []any) (any, error) {
			v := int64(r.(T))
			return int32(v ^ int64(uint64(v)>>32)), nil
		}),
		method("equals", domains.Bool, ps(domains.Any), func(r any, a []any) (any, error) {
			return sameValue(r, a[0]), nil
		}),
	)
}
