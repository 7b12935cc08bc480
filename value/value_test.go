package value

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bag struct{ elems []any }

func (b *bag) Add(v any) (bool, error) { b.elems = append(b.elems, v); return true, nil }
func (b *bag) Len() int                { return len(b.elems) }
func (b *bag) Elements() []any         { return b.elems }
func (b *bag) TypeName() string        { return "bag" }

func TestTypeName(t *testing.T) {
	cases := []struct {
		v    any
		want string
	}{
		{nil, "null"},
		{int8(1), "int8"},
		{int64(1), "int64"},
		{float32(1), "float32"},
		{Char('a'), "char"},
		{"s", "string"},
		{errors.New("x"), "error"},
		{[]int32{1}, "[]int32"},
		{[]Char{'a'}, "[]char"},
		{[]any{1}, "[]any"},
		{&bag{}, "bag"},
		{AcceptAll(), "predicate"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, TypeName(tc.v))
	}
}

func TestEncodeSpecialFloats(t *testing.T) {
	raw, err := json.Marshal(EncodeAll([]any{
		math.NaN(), math.Inf(1), math.Inf(-1), float32(math.Inf(1)), 2.5, float32(0.5),
	}))
	require.NoError(t, err)
	assert.Equal(t, `["NaN","Infinity","-Infinity","Infinity",2.5,0.5]`, string(raw))
}

func TestEncodeContainers(t *testing.T) {
	b := &bag{}
	b.Add(Char('z'))
	b.Add(math.NaN())
	assert.Equal(t, []any{"z", "NaN"}, Encode(b))
	assert.Equal(t, []any{int32(1), int32(2)}, Encode([]int32{1, 2}))
	assert.Equal(t, "error", Encode(errors.New("boom")))
}

func TestIsInvalidFloat(t *testing.T) {
	assert.True(t, IsInvalidFloat(math.NaN()))
	assert.True(t, IsInvalidFloat(float32(math.Inf(-1))))
	assert.False(t, IsInvalidFloat(math.MaxFloat64))
	assert.False(t, IsInvalidFloat(int32(1)))
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "null", Format(nil))
	assert.Equal(t, "x", Format(Char('x')))
	assert.Equal(t, "12", Format(int16(12)))
	assert.Equal(t, "bag", Format(&bag{}))
}

func TestPanicError(t *testing.T) {
	inner := errors.New("inner")
	err := error(&PanicError{Recovered: inner})
	assert.ErrorIs(t, err, inner)
	assert.Equal(t, "panic: inner", err.Error())
	assert.Nil(t, (&PanicError{Recovered: "text"}).Unwrap())
}

func TestFuncs(t *testing.T) {
	assert.True(t, AcceptAll()(nil))
	assert.Equal(t, "b", KeepSecond()("a", "b"))
	cmp := NaturalOrder()
	assert.Negative(t, cmp("a", "b"))
	assert.Zero(t, cmp(int32(3), "3"))
	NoOp()(1)
}
