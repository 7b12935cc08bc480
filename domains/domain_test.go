package domains

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShort(t *testing.T) {
	assert.Equal(t, "long", Int64.Short())
	assert.Equal(t, "int", Int8.Short())
	assert.Equal(t, "float", Float32.Short())
	assert.Equal(t, "bool", Bool.Short())
	assert.Equal(t, "char", Char.Short())
	assert.Equal(t, "obj", Text.Short())
	assert.Equal(t, "obj", Any.Short())
}

func TestPrimitiveOrText(t *testing.T) {
	for _, td := range []TypeDescriptor{Int8, Int64, Float64, Bool, Char, Text} {
		assert.True(t, td.IsPrimitiveOrText(), td.Name)
	}
	for _, td := range []TypeDescriptor{Any, Void, Iter, ArrayOf(Int32), Container(FamilyList), MapOf(Text, Int32), Func(ShapePredicate), Opaque("x")} {
		assert.False(t, td.IsPrimitiveOrText(), td.Name)
	}
}

func TestConstructors(t *testing.T) {
	arr := ArrayOf(Int32)
	assert.Equal(t, KindArray, arr.Kind)
	assert.Equal(t, "[]int32", arr.String())
	require.NotNil(t, arr.Elem)
	assert.Equal(t, Int32, *arr.Elem)

	m := MapOf(Text, Bool)
	assert.Equal(t, FamilyMap, m.Family)
	assert.Equal(t, Text, *m.Key)
	assert.Equal(t, Bool, *m.Elem)

	assert.Equal(t, 0, ShapeSupplier.Arity())
	assert.Equal(t, 2, ShapeComparator.Arity())
	assert.Equal(t, 1, ShapePredicate.Arity())
	assert.Equal(t, "integral", KindIntegral.String())
	assert.Equal(t, "Kind(99)", Kind(99).String())
}

func TestParseFamily(t *testing.T) {
	f, err := ParseFamily(" SortedSet ")
	require.NoError(t, err)
	assert.Equal(t, FamilySortedSet, f)
	_, err = ParseFamily("tree")
	assert.Error(t, err)
}
