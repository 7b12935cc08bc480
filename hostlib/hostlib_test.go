package hostlib

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alma.local/iogen/catalog"
	"alma.local/iogen/domains"
	"alma.local/iogen/value"
)

func lookup(t *testing.T, r *catalog.Registry, sig string) *catalog.Operation {
	t.Helper()
	for _, ti := range r.Types() {
		if op, ok := ti.Lookup(sig); ok {
			return op
		}
	}
	t.Fatalf("operation %q not registered", sig)
	return nil
}

func TestRegistryBuilds(t *testing.T) {
	r := NewRegistry()
	names := r.Names()
	for _, want := range []string{"int64", "float64", "string", "math", "list", "queue", "deque", "map", "builder", "sortedset"} {
		assert.Contains(t, names, want)
	}
	q, ok := r.Type("queue")
	require.True(t, ok)
	assert.True(t, q.Abstract)
	assert.Nil(t, q.New)
}

func TestIntegralCompare(t *testing.T) {
	r := NewRegistry()
	op := lookup(t, r, "static int32 int64.compare(int64, int64)")
	cases := []struct {
		a, b int64
		want int32
	}{
		{5, 9, -1},
		{9, 5, 1},
		{7, 7, 0},
	}
	for _, tc := range cases {
		got, err := op.Invoke(nil, []any{tc.a, tc.b})
		require.NoError(t, err)
		assert.Equal(t, tc.want, got)
	}
}

func TestIntegralBitOps(t *testing.T) {
	r := NewRegistry()
	inv := func(sig string, args ...any) any {
		got, err := lookup(t, r, sig).Invoke(nil, args)
		require.NoError(t, err, sig)
		return got
	}
	assert.Equal(t, int32(8), inv("static int32 int8.bitCount(int8)", int8(-1)))
	assert.Equal(t, int8(math.MinInt8), inv("static int8 int8.reverse(int8)", int8(1)))
	assert.Equal(t, int32(31), inv("static int32 int32.numberOfLeadingZeros(int32)", int32(1)))
	assert.Equal(t, int32(16), inv("static int32 int16.numberOfTrailingZeros(int16)", int16(0)))
	assert.Equal(t, int16(math.MinInt16), inv("static int16 int16.highestOneBit(int16)", int16(-1)))
	assert.Equal(t, "ff", inv("static string int8.toHexString(int8)", int8(-1)))
	assert.Equal(t, int32(1), inv("static int32 int32.rotateLeft(int32, int32)", int32(math.MinInt32), int32(1)))
	assert.Equal(t, int32(1), inv("static int32 int32.compareUnsigned(int32, int32)", int32(-1), int32(1)))

	_, err := lookup(t, r, "static int16 int16.parse(string)").Invoke(nil, []any{"70000"})
	assert.ErrorIs(t, err, ErrNumberFormat)
	_, err = lookup(t, r, "static int64 int64.divideUnsigned(int64, int64)").Invoke(nil, []any{int64(4), int64(0)})
	assert.ErrorIs(t, err, ErrArithmetic)
}

func TestFloatingOps(t *testing.T) {
	r := NewRegistry()
	cmp := lookup(t, r, "static int32 float64.compare(float64, float64)")
	got, err := cmp.Invoke(nil, []any{math.NaN(), math.Inf(1)})
	require.NoError(t, err)
	assert.Equal(t, int32(1), got)
	got, _ = cmp.Invoke(nil, []any{math.Copysign(0, -1), 0.0})
	assert.Equal(t, int32(-1), got)

	str := lookup(t, r, "static string float64.toString(float64)")
	got, _ = str.Invoke(nil, []any{1.0})
	assert.Equal(t, "1.0", got)
	got, _ = str.Invoke(nil, []any{math.Inf(-1)})
	assert.Equal(t, "-Infinity", got)

	iv := lookup(t, r, "int32 float32.intValue()")
	got, _ = iv.Invoke(float32(3e10), nil)
	assert.Equal(t, int32(math.MaxInt32), got)
}

func TestTextOps(t *testing.T) {
	r := NewRegistry()
	_, err := lookup(t, r, "char string.charAt(int32)").Invoke("abc", []any{int32(3)})
	assert.ErrorIs(t, err, ErrIndexOutOfRange)

	got, err := lookup(t, r, "int32 string.compareTo(string)").Invoke("apple", []any{"apricot"})
	require.NoError(t, err)
	assert.Equal(t, int32('p'-'r'), got)

	_, err = lookup(t, r, "string string.repeat(int32)").Invoke("abcdef", []any{int32(math.MaxInt32)})
	assert.ErrorIs(t, err, value.ErrResourceExhausted)

	got, _ = lookup(t, r, "string string.indent(int32)").Invoke("a\n  b", []any{int32(-1)})
	assert.Equal(t, "a\n b\n", got)

	got, _ = lookup(t, r, "int32 string.hashCode()").Invoke("hello", nil)
	assert.Equal(t, int32(99162322), got)
}

func TestMathOps(t *testing.T) {
	r := NewRegistry()
	got, err := lookup(t, r, "static int64 math.floorDiv(int64, int64)").Invoke(nil, []any{int64(-7), int64(2)})
	require.NoError(t, err)
	assert.Equal(t, int64(-4), got)
	got, _ = lookup(t, r, "static int64 math.floorMod(int64, int64)").Invoke(nil, []any{int64(-7), int64(2)})
	assert.Equal(t, int64(1), got)
	_, err = lookup(t, r, "static int32 math.addExact(int32, int32)").Invoke(nil, []any{int32(math.MaxInt32), int32(1)})
	assert.ErrorIs(t, err, ErrArithmetic)
	got, _ = lookup(t, r, "static int64 math.round(float64)").Invoke(nil, []any{-2.5})
	assert.Equal(t, int64(-2), got)
}

func TestListBehaviour(t *testing.T) {
	l := NewList(ListName)
	for _, v := range []any{int32(1), "x", int32(1)} {
		_, err := l.Add(v)
		require.NoError(t, err)
	}
	assert.Equal(t, "[1, x, 1]", l.String())
	assert.Equal(t, int32(2), l.LastIndexOf(int32(1)))
	assert.Equal(t, int32(-1), l.IndexOf(int64(1)))
	assert.True(t, l.Remove(int32(1)))
	assert.Equal(t, "[x, 1]", l.String())
	_, err := l.Get(5)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)

	require.Error(t, l.Sort(nil), "mixed types cannot be sorted naturally")
	assert.Equal(t, "[x, 1]", l.String())

	d := NewList(ArrayDequeName)
	_, err = d.Add(nil)
	assert.ErrorIs(t, err, ErrNullElement)
}

func TestStackAndDeque(t *testing.T) {
	r := NewRegistry()
	s := NewList(StackName)
	_, err := lookup(t, r, "any stack.pop()").Invoke(s, nil)
	assert.ErrorIs(t, err, ErrEmptyStack)
	lookup(t, r, "any stack.push(any)").Invoke(s, []any{"a"})
	lookup(t, r, "any stack.push(any)").Invoke(s, []any{"b"})
	got, _ := lookup(t, r, "any stack.peek()").Invoke(s, nil)
	assert.Equal(t, "b", got)
	got, _ = lookup(t, r, "int32 stack.search(any)").Invoke(s, []any{"a"})
	assert.Equal(t, int32(2), got)

	d := NewList(LinkedListName)
	lookup(t, r, "void linkedlist.push(any)").Invoke(d, []any{"a"})
	lookup(t, r, "void linkedlist.push(any)").Invoke(d, []any{"b"})
	assert.Equal(t, "[b, a]", d.String())
	got, _ = lookup(t, r, "any linkedlist.pollLast()").Invoke(d, nil)
	assert.Equal(t, "a", got)
	got, _ = lookup(t, r, "any linkedlist.poll()").Invoke(NewList(LinkedListName), nil)
	assert.Nil(t, got)
}

func TestSets(t *testing.T) {
	s := NewHashSet()
	added, _ := s.Add(math.NaN())
	assert.True(t, added)
	added, _ = s.Add(math.NaN())
	assert.False(t, added)
	assert.Equal(t, 1, s.Len())

	ts := NewTreeSet()
	for _, v := range []any{"b", "a", "c", "a"} {
		_, err := ts.Add(v)
		require.NoError(t, err)
	}
	assert.Equal(t, "[a, b, c]", ts.String())
	_, err := ts.Add(int32(1))
	assert.ErrorIs(t, err, ErrClassCast)
	got, err := ts.Higher("b")
	require.NoError(t, err)
	assert.Equal(t, "c", got)
	got, _ = ts.Floor("bb")
	assert.Equal(t, "b", got)
	got, _ = ts.Lower("a")
	assert.Nil(t, got)

	empty := NewTreeSet()
	_, err = empty.Add([]int32{1})
	assert.ErrorIs(t, err, ErrClassCast)
}

func TestMapBehaviour(t *testing.T) {
	m := NewHashMap()
	m.Put("k", int32(1))
	old, _ := m.Put("k", int32(2))
	assert.Equal(t, int32(1), old)
	m.Put(math.NaN(), true)
	assert.True(t, m.ContainsKey(math.NaN()))
	assert.Equal(t, "{k=2, NaN=true}", m.String())
	assert.Equal(t, "b", m.Merge("k", "b", value.KeepSecond()))
	assert.Nil(t, m.Remove("missing"))
	assert.Equal(t, 2, m.KeySet().Len())
}

func TestBuilder(t *testing.T) {
	b := NewBuilder()
	_, err := b.Append("hello")
	require.NoError(t, err)
	_, err = b.Insert(0, value.Char('>'))
	require.NoError(t, err)
	assert.Equal(t, ">hello", b.String())
	_, err = b.Replace(1, 100, "bye")
	require.NoError(t, err)
	assert.Equal(t, ">bye", b.String())
	assert.Equal(t, int32(1), b.IndexOf("bye"))
	assert.ErrorIs(t, b.SetLength(math.MaxInt32), value.ErrResourceExhausted)
	require.NoError(t, b.SetLength(2))
	assert.Equal(t, "b>", b.Reverse().String())
}

func TestFactory(t *testing.T) {
	f := Factory{}
	cases := map[domains.Family]string{
		domains.FamilyCollection: ListName,
		domains.FamilyQueue:      LinkedListName,
		domains.FamilyDeque:      ArrayDequeName,
		domains.FamilyStack:      StackName,
		domains.FamilySet:        SetName,
		domains.FamilySortedSet:  SortedSetName,
	}
	for fam, name := range cases {
		c, err := f.NewCollection(fam, []any{int32(2), int32(1)})
		require.NoError(t, err, fam)
		assert.Equal(t, name, value.TypeName(c))
		assert.Equal(t, 2, c.(value.Collection).Len())
	}

	mixed, err := f.NewCollection(domains.FamilySortedSet, []any{"a", int32(1), "b"})
	require.NoError(t, err)
	assert.Equal(t, "[a, b]", value.Format(mixed))

	m, err := f.NewMap([]any{"a", "a", "b"}, []any{int32(1), int32(2), int32(3)})
	require.NoError(t, err)
	assert.Equal(t, 2, m.(value.Mapping).Len())
}
