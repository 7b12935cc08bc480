package concretizer

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"alma.local/iogen/domains"
	"alma.local/iogen/value"
)

// ErrUnsupportedType is returned for descriptors no rule can synthesize.
var ErrUnsupportedType = errors.New("unsupported type")

// ContainerFactory builds concrete host containers for declared families.
type ContainerFactory interface {
	NewCollection(f domains.Family, elems []any) (any, error)
	NewMap(keys, vals []any) (any, error)
}

// Tally counts synthesized values per kind.
type Tally map[domains.Kind]int

// Concretizer turns type descriptors into random values. It shares one
// random stream; draws happen in call order so a fixed seed replays exactly.
type Concretizer struct {
	rng     *rand.Rand
	factory ContainerFactory
	tally   Tally
}

func New(rng *rand.Rand, factory ContainerFactory) *Concretizer {
	return &Concretizer{rng: rng, factory: factory, tally: make(Tally)}
}

// Rand exposes the shared stream to the samplers.
func (c *Concretizer) Rand() *rand.Rand { return c.rng }

// TakeTally returns the counts since the previous call and resets them.
func (c *Concretizer) TakeTally() Tally {
	t := c.tally
	c.tally = make(Tally)
	return t
}

// NewContainer builds an empty instance of the narrowest concrete structure
// for f. Abstract host types are constructed this way.
func (c *Concretizer) NewContainer(f domains.Family) (any, error) {
	if c.factory == nil {
		return nil, fmt.Errorf("%w: no container factory for %s", ErrUnsupportedType, f)
	}
	if f == domains.FamilyMap {
		return c.factory.NewMap(nil, nil)
	}
	return c.factory.NewCollection(concreteFamily(f), nil)
}

// ConcretizeAll synthesizes one value per descriptor, in order.
func (c *Concretizer) ConcretizeAll(tds []domains.TypeDescriptor) ([]any, error) {
	out := make([]any, len(tds))
	for i, td := range tds {
		v, err := c.Concretize(td)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}

// Concretize produces one value for td.
func (c *Concretizer) Concretize(td domains.TypeDescriptor) (any, error) {
	switch td.Kind {
	case domains.KindIntegral:
		return c.integral(td.Bits), nil
	case domains.KindFloating:
		return c.floating(td.Bits), nil
	case domains.KindBoolean:
		c.tally[domains.KindBoolean]++
		return c.rng.Intn(2) == 1, nil
	case domains.KindCharacter:
		c.tally[domains.KindCharacter]++
		return value.Char(c.rng.Intn(charRange)), nil
	case domains.KindText:
		return c.text(), nil
	case domains.KindArray:
		return c.array(td)
	case domains.KindContainer:
		return c.container(td)
	case domains.KindMap:
		return c.mapping()
	case domains.KindFunctional:
		return c.functional(td)
	case domains.KindWildcard:
		return c.PrimitiveOrText(), nil
	}
	return nil, fmt.Errorf("%w: %s (%s)", ErrUnsupportedType, td.Name, td.Kind)
}

// PrimitiveOrText draws uniformly among {int32, float64, bool, string}.
func (c *Concretizer) PrimitiveOrText() any {
	switch c.rng.Intn(4) {
	case 0:
		return c.integral(32)
	case 1:
		return c.floating(64)
	case 2:
		c.tally[domains.KindBoolean]++
		return c.rng.Intn(2) == 1
	default:
		return c.text()
	}
}

func (c *Concretizer) integral(bits int) any {
	c.tally[domains.KindIntegral]++
	if c.rng.Float64() < specialProbability {
		b := IntegralBoundaries(bits)
		return b[c.rng.Intn(len(b))]
	}
	// Width over the magnitude bits, so small magnitudes dominate while the
	// top of the range stays reachable.
	width := c.rng.Intn(bits-1) + 1
	bound := uint64(1)<<uint(width) - 1
	var mag int64
	if bound > 0 {
		mag = c.rng.Int63n(int64(bound))
	}
	if c.rng.Intn(2) == 1 {
		mag = -mag
	}
	switch bits {
	case 8:
		return int8(mag)
	case 16:
		return int16(mag)
	case 32:
		return int32(mag)
	}
	return mag
}

func (c *Concretizer) floating(bits int) any {
	c.tally[domains.KindFloating]++
	if c.rng.Float64() < specialProbability {
		b := FloatingBoundaries(bits)
		return b[c.rng.Intn(len(b))]
	}
	r := float64Exponents
	if bits == 32 {
		r = float32Exponents
	}
	exp := c.rng.Intn(r.max-r.min+1) + r.min
	f := math.Ldexp(c.rng.Float64(), exp)
	if c.rng.Intn(2) == 1 {
		f = -f
	}
	if bits == 32 {
		return float32(f)
	}
	return f
}

func (c *Concretizer) text() string {
	c.tally[domains.KindText]++
	n := c.rng.Intn(maxTextLen)
	runes := make([]rune, n)
	for i := range runes {
		runes[i] = rune(c.rng.Intn(charRange))
	}
	return string(runes)
}

func (c *Concretizer) array(td domains.TypeDescriptor) (any, error) {
	if td.Elem == nil {
		return nil, fmt.Errorf("%w: array without component", ErrUnsupportedType)
	}
	c.tally[domains.KindArray]++
	n := minArrayLen + c.rng.Intn(maxArrayLen-minArrayLen)
	elem := *td.Elem
	if !elem.IsPrimitiveOrText() {
		out := make([]any, n)
		for i := range out {
			out[i] = c.PrimitiveOrText()
		}
		return out, nil
	}
	switch elem.Kind {
	case domains.KindIntegral:
		switch elem.Bits {
		case 8:
			return fill[int8](c, elem, n)
		case 16:
			return fill[int16](c, elem, n)
		case 32:
			return fill[int32](c, elem, n)
		}
		return fill[int64](c, elem, n)
	case domains.KindFloating:
		if elem.Bits == 32 {
			return fill[float32](c, elem, n)
		}
		return fill[float64](c, elem, n)
	case domains.KindBoolean:
		return fill[bool](c, elem, n)
	case domains.KindCharacter:
		return fill[value.Char](c, elem, n)
	}
	return fill[string](c, elem, n)
}

// fill draws n components of a primitive array through the component rule.
func fill[T any](c *Concretizer, elem domains.TypeDescriptor, n int) ([]T, error) {
	out := make([]T, n)
	for i := range out {
		v, err := c.Concretize(elem)
		if err != nil {
			return nil, err
		}
		out[i] = v.(T)
	}
	return out, nil
}

func (c *Concretizer) container(td domains.TypeDescriptor) (any, error) {
	if c.factory == nil {
		return nil, fmt.Errorf("%w: no container factory for %s", ErrUnsupportedType, td.Name)
	}
	c.tally[domains.KindContainer]++
	n := minColl + c.rng.Intn(maxColl-minColl)
	elems := make([]any, n)
	for i := range elems {
		elems[i] = c.PrimitiveOrText()
	}
	return c.factory.NewCollection(concreteFamily(td.Family), elems)
}

func (c *Concretizer) mapping() (any, error) {
	if c.factory == nil {
		return nil, fmt.Errorf("%w: no container factory for map", ErrUnsupportedType)
	}
	c.tally[domains.KindMap]++
	keys := make([]any, mapPuts)
	vals := make([]any, mapPuts)
	for i := 0; i < mapPuts; i++ {
		keys[i] = c.PrimitiveOrText()
		vals[i] = c.PrimitiveOrText()
	}
	return c.factory.NewMap(keys, vals)
}

func (c *Concretizer) functional(td domains.TypeDescriptor) (any, error) {
	c.tally[domains.KindFunctional]++
	switch td.Shape {
	case domains.ShapePredicate:
		return value.AcceptAll(), nil
	case domains.ShapeFunction:
		return value.Function(func(any) any { return c.PrimitiveOrText() }), nil
	case domains.ShapeConsumer:
		return value.NoOp(), nil
	case domains.ShapeSupplier:
		return value.Supplier(c.PrimitiveOrText), nil
	case domains.ShapeBiFunction:
		return value.KeepSecond(), nil
	case domains.ShapeComparator:
		return value.NaturalOrder(), nil
	}
	return nil, fmt.Errorf("%w: functional shape %q", ErrUnsupportedType, td.Shape)
}
