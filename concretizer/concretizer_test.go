package concretizer

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alma.local/iogen/domains"
	"alma.local/iogen/value"
)

type sliceFactory struct {
	families []domains.Family
}

type fakeMap struct{ keys, vals []any }

func (f *sliceFactory) NewCollection(fam domains.Family, elems []any) (any, error) {
	f.families = append(f.families, fam)
	return append([]any(nil), elems...), nil
}

func (f *sliceFactory) NewMap(keys, vals []any) (any, error) {
	return &fakeMap{keys: keys, vals: vals}, nil
}

func newTest(seed int64) (*Concretizer, *sliceFactory) {
	f := &sliceFactory{}
	return New(rand.New(rand.NewSource(seed)), f), f
}

func TestIntegralBoundaryCoverage(t *testing.T) {
	c, _ := newTest(42)
	const draws = 100000
	counts := map[int64]int{}
	sawLarge := false
	for i := 0; i < draws; i++ {
		v, err := c.Concretize(domains.Int64)
		require.NoError(t, err)
		n := v.(int64)
		counts[n]++
		if n > 1<<30 || n < -(1<<30) {
			sawLarge = true
		}
	}
	lo, hi := int(0.008*draws), int(0.012*draws)
	for _, b := range []int64{math.MinInt64, math.MaxInt64} {
		assert.GreaterOrEqual(t, counts[b], lo, "boundary %d", b)
		assert.LessOrEqual(t, counts[b], hi, "boundary %d", b)
	}
	for _, b := range []int64{0, 1, -1} {
		assert.GreaterOrEqual(t, counts[b], lo, "boundary %d", b)
	}
	assert.True(t, sawLarge, "expected at least one magnitude above 2^30")
}

func TestIntegralWidths(t *testing.T) {
	cases := []struct {
		td   domains.TypeDescriptor
		want string
	}{
		{domains.Int8, "int8"},
		{domains.Int16, "int16"},
		{domains.Int32, "int32"},
		{domains.Int64, "int64"},
	}
	c, _ := newTest(1)
	for _, tc := range cases {
		for i := 0; i < 200; i++ {
			v, err := c.Concretize(tc.td)
			require.NoError(t, err)
			require.Equal(t, tc.want, value.TypeName(v))
		}
	}
}

func TestFloatingSpecialRate(t *testing.T) {
	c, _ := newTest(7)
	const draws = 100000
	special := 0
	for i := 0; i < draws; i++ {
		v, err := c.Concretize(domains.Float64)
		require.NoError(t, err)
		if value.IsInvalidFloat(v) {
			special++
		}
	}
	// 3 of the 8 boundary values are NaN or infinite: 0.05 * 3/8 = 1.875%.
	rate := float64(special) / draws
	assert.InDelta(t, 0.01875, rate, 0.004)
}

func TestFloat32StaysFinite(t *testing.T) {
	c, _ := newTest(3)
	for i := 0; i < 5000; i++ {
		v, err := c.Concretize(domains.Float32)
		require.NoError(t, err)
		f, ok := v.(float32)
		require.True(t, ok)
		if value.IsInvalidFloat(f) {
			continue
		}
		assert.LessOrEqual(t, math.Abs(float64(f)), float64(math.MaxFloat32))
	}
}

func TestTextAndChar(t *testing.T) {
	c, _ := newTest(9)
	for i := 0; i < 1000; i++ {
		v, err := c.Concretize(domains.Text)
		require.NoError(t, err)
		s := v.(string)
		assert.Less(t, utf8.RuneCountInString(s), maxTextLen)
		for _, r := range s {
			assert.Less(t, int(r), charRange)
		}

		ch, err := c.Concretize(domains.Char)
		require.NoError(t, err)
		assert.Less(t, int(ch.(value.Char)), charRange)
	}
}

func TestArrays(t *testing.T) {
	c, _ := newTest(11)
	for i := 0; i < 300; i++ {
		v, err := c.Concretize(domains.ArrayOf(domains.Int32))
		require.NoError(t, err)
		arr, ok := v.([]int32)
		require.True(t, ok, "got %T", v)
		assert.GreaterOrEqual(t, len(arr), minArrayLen)
		assert.Less(t, len(arr), maxArrayLen)

		v, err = c.Concretize(domains.ArrayOf(domains.Container(domains.FamilyList)))
		require.NoError(t, err)
		objs, ok := v.([]any)
		require.True(t, ok, "got %T", v)
		for _, o := range objs {
			assert.Contains(t, []string{"int32", "float64", "bool", "string"}, value.TypeName(o))
		}
	}
}

func TestContainersUseFamily(t *testing.T) {
	c, f := newTest(5)
	for _, fam := range []domains.Family{domains.FamilyCollection, domains.FamilySet, domains.FamilyDeque} {
		v, err := c.Concretize(domains.Container(fam))
		require.NoError(t, err)
		elems := v.([]any)
		assert.GreaterOrEqual(t, len(elems), minColl)
		assert.Less(t, len(elems), maxColl)
	}
	assert.Equal(t, []domains.Family{domains.FamilyList, domains.FamilySet, domains.FamilyDeque}, f.families)

	v, err := c.Concretize(domains.MapOf(domains.Any, domains.Any))
	require.NoError(t, err)
	m := v.(*fakeMap)
	assert.Len(t, m.keys, mapPuts)
}

func TestFunctionalStubs(t *testing.T) {
	c, _ := newTest(2)
	for _, shape := range []domains.FuncShape{
		domains.ShapePredicate, domains.ShapeFunction, domains.ShapeConsumer,
		domains.ShapeSupplier, domains.ShapeBiFunction, domains.ShapeComparator,
	} {
		v, err := c.Concretize(domains.Func(shape))
		require.NoError(t, err, shape)
		assert.Equal(t, string(shape), value.TypeName(v))
	}
	p, _ := c.Concretize(domains.Func(domains.ShapePredicate))
	assert.True(t, p.(value.Predicate)("anything"))
	bf, _ := c.Concretize(domains.Func(domains.ShapeBiFunction))
	assert.Equal(t, "b", bf.(value.BiFunction)("a", "b"))
}

func TestUnsupported(t *testing.T) {
	c, _ := newTest(1)
	for _, td := range []domains.TypeDescriptor{domains.Void, domains.Iter, domains.Opaque("socket")} {
		_, err := c.Concretize(td)
		assert.True(t, errors.Is(err, ErrUnsupportedType), td.Name)
	}
	_, err := c.ConcretizeAll([]domains.TypeDescriptor{domains.Int32, domains.Iter})
	assert.ErrorIs(t, err, ErrUnsupportedType)

	bare := New(rand.New(rand.NewSource(1)), nil)
	_, err = bare.Concretize(domains.Container(domains.FamilyList))
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestSameSeedReplays(t *testing.T) {
	tds := []domains.TypeDescriptor{
		domains.Int32, domains.Float64, domains.Text, domains.Any, domains.ArrayOf(domains.Char),
	}
	run := func() string {
		c, _ := newTest(99)
		var out string
		for i := 0; i < 50; i++ {
			vs, err := c.ConcretizeAll(tds)
			require.NoError(t, err)
			out += fmt.Sprint(value.EncodeAll(vs))
		}
		return out
	}
	assert.Equal(t, run(), run())
}

func TestTally(t *testing.T) {
	c, _ := newTest(4)
	_, err := c.ConcretizeAll([]domains.TypeDescriptor{domains.Int32, domains.Int64, domains.Bool})
	require.NoError(t, err)
	tally := c.TakeTally()
	assert.Equal(t, 2, tally[domains.KindIntegral])
	assert.Equal(t, 1, tally[domains.KindBoolean])
	assert.Empty(t, c.TakeTally())
}
