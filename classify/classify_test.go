package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alma.local/iogen/catalog"
	"alma.local/iogen/domains"
	"alma.local/iogen/hostlib"
)

func noop(any, []any) (any, error) { return nil, nil }

func op(name string, static bool, res domains.TypeDescriptor, params ...domains.TypeDescriptor) *catalog.Operation {
	return &catalog.Operation{Name: name, Static: static, Result: res, Params: params, Invoke: noop}
}

func TestIsStateful(t *testing.T) {
	r := hostlib.NewRegistry()
	for _, name := range []string{"list", "linkedlist", "queue", "deque", "stack", "set", "sortedset", "map", "builder"} {
		ti, ok := r.Type(name)
		require.True(t, ok, name)
		assert.True(t, IsStateful(ti), name)
	}
	for _, name := range []string{"int32", "float64", "bool", "char", "string", "math"} {
		ti, _ := r.Type(name)
		assert.False(t, IsStateful(ti), name)
	}
	bare := &catalog.TypeInfo{Name: "bag", Capabilities: []domains.Family{domains.FamilyCollection}}
	assert.False(t, IsStateful(bare))
}

func TestEligible(t *testing.T) {
	c := Default()
	cases := []struct {
		name     string
		op       *catalog.Operation
		stateful bool
		want     bool
	}{
		{"static primitive", op("compare", true, domains.Int32, domains.Int64, domains.Int64), false, true},
		{"static zero-arg", op("random", true, domains.Float64), false, false},
		{"iterator result", op("chars", false, domains.Iter), true, false},
		{"void on value type", op("reset", false, domains.Void), false, false},
		{"void on stateful", op("clear", false, domains.Void), true, true},
		{"container result on value type", op("split", false, domains.ArrayOf(domains.Text), domains.Text), false, false},
		{"container param on value type", op("join", true, domains.Text, domains.Text, domains.ArrayOf(domains.Text)), false, false},
		{"any param on stateful", op("add", false, domains.Bool, domains.Any), true, true},
		{"instance zero-arg", op("length", false, domains.Int32), false, true},
		{"blocked", op("hashCode", false, domains.Int32), false, false},
		{"blocked on stateful", op("sort", false, domains.Void, domains.Func(domains.ShapeComparator)), true, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, c.Eligible(tc.op, tc.stateful))
			// Pure: the answer does not change on a second call.
			assert.Equal(t, tc.want, c.Eligible(tc.op, tc.stateful))
		})
	}
}

func TestCustomBlocklist(t *testing.T) {
	c := New([]string{"size"}, PolicyVerbs, nil)
	assert.False(t, c.Eligible(op("size", false, domains.Int32), true))
	assert.True(t, c.Eligible(op("hashCode", false, domains.Int32), false))
}

func TestMutatorsByVerb(t *testing.T) {
	r := hostlib.NewRegistry()
	list, _ := r.Type("list")
	names := map[string]bool{}
	for _, m := range Default().Mutators(list) {
		names[m.Name] = true
		assert.False(t, m.Static)
	}
	for _, want := range []string{"add", "remove", "clear", "contains", "size", "isEmpty"} {
		assert.True(t, names[want], want)
	}
	assert.False(t, names["get"])
	assert.False(t, names["sort"])
}

func TestMutatorsByShape(t *testing.T) {
	r := hostlib.NewRegistry()
	c := New(DefaultBlocklist, PolicyShape, nil)

	b, _ := r.Type("builder")
	names := map[string]bool{}
	for _, m := range c.Mutators(b) {
		names[m.Name] = true
	}
	assert.True(t, names["append"])
	assert.True(t, names["setLength"])
	assert.False(t, names["length"])
	assert.False(t, names["trimToSize"], "blocked operations are never steps")

	m, _ := r.Type("map")
	names = map[string]bool{}
	for _, op := range c.Mutators(m) {
		names[op.Name] = true
	}
	assert.True(t, names["clear"])
	assert.True(t, names["containsKey"])
	assert.False(t, names["entrySet"])
}

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy("")
	require.NoError(t, err)
	assert.Equal(t, PolicyVerbs, p)
	p, err = ParsePolicy("Shape")
	require.NoError(t, err)
	assert.Equal(t, PolicyShape, p)
	_, err = ParsePolicy("random")
	assert.Error(t, err)
}
