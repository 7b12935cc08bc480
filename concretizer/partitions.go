package concretizer

import (
	"math"

	"alma.local/iogen/domains"
)

const (
	// specialProbability is the chance of drawing from the boundary set
	// instead of the random path, for integral and floating kinds.
	specialProbability = 0.05

	charRange   = 256 // single text units are drawn from [0, charRange)
	maxTextLen  = 10  // text length is uniform in [0, maxTextLen)
	minArrayLen = 2   // array length is uniform in [minArrayLen, maxArrayLen)
	maxArrayLen = 5
	minColl     = 2 // container size is uniform in [minColl, maxColl)
	maxColl     = 6
	mapPuts     = 3
)

// exponentRange is the normal binary exponent range of a floating kind.
type exponentRange struct{ min, max int }

var (
	float64Exponents = exponentRange{min: -1022, max: 1023}
	float32Exponents = exponentRange{min: -126, max: 127}
)

// IntegralBoundaries returns {min, max, 0, 1, -1} for a signed width.
func IntegralBoundaries(bits int) []any {
	switch bits {
	case 8:
		return []any{int8(math.MinInt8), int8(math.MaxInt8), int8(0), int8(1), int8(-1)}
	case 16:
		return []any{int16(math.MinInt16), int16(math.MaxInt16), int16(0), int16(1), int16(-1)}
	case 32:
		return []any{int32(math.MinInt32), int32(math.MaxInt32), int32(0), int32(1), int32(-1)}
	default:
		return []any{int64(math.MinInt64), int64(math.MaxInt64), int64(0), int64(1), int64(-1)}
	}
}

// FloatingBoundaries returns {min-normal, max-finite, 0, 1, -1, NaN, +Inf, -Inf}.
func FloatingBoundaries(bits int) []any {
	if bits == 32 {
		return []any{
			float32(0x1p-126), float32(math.MaxFloat32), float32(0), float32(1), float32(-1),
			float32(math.NaN()), float32(math.Inf(1)), float32(math.Inf(-1)),
		}
	}
	return []any{
		0x1p-1022, math.MaxFloat64, 0.0, 1.0, -1.0,
		math.NaN(), math.Inf(1), math.Inf(-1),
	}
}

// concreteFamily picks the narrowest concrete structure for a declared family.
func concreteFamily(f domains.Family) domains.Family {
	switch f {
	case domains.FamilySortedSet, domains.FamilyDeque, domains.FamilyQueue,
		domains.FamilyStack, domains.FamilySet, domains.FamilyList, domains.FamilyBuilder:
		return f
	}
	return domains.FamilyList
}
