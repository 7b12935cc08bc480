package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alma.local/iogen/domains"
)

func noop(any, []any) (any, error) { return nil, nil }

func testRegistry(t *testing.T) *Registry {
	t.Helper()
	r := NewRegistry()
	num := (&TypeInfo{Name: "int64", Value: domains.Int64}).MustRegister(
		&Operation{Name: "compare", Static: true, Params: []domains.TypeDescriptor{domains.Int64, domains.Int64}, Result: domains.Int32, Invoke: noop},
		&Operation{Name: "toString", Result: domains.Text, Invoke: noop},
		&Operation{Name: "toString", Static: true, Params: []domains.TypeDescriptor{domains.Int64}, Result: domains.Text, Invoke: noop},
	)
	list := (&TypeInfo{Name: "list", Capabilities: []domains.Family{domains.FamilyList}}).MustRegister(
		&Operation{Name: "add", Params: []domains.TypeDescriptor{domains.Any}, Result: domains.Bool, Invoke: noop},
		&Operation{Name: "size", Result: domains.Int32, Invoke: noop},
	)
	require.NoError(t, r.Add(num))
	require.NoError(t, r.Add(list))
	return r
}

func TestSignatures(t *testing.T) {
	r := testRegistry(t)
	num, _ := r.Type("int64")
	op, ok := num.Lookup("static int32 int64.compare(int64, int64)")
	require.True(t, ok)
	assert.Equal(t, "int64", op.Owner)
	assert.Equal(t, 2, op.Arity())
	assert.Equal(t, "compare#long_long", op.StepName())
	assert.Equal(t, []string{"int64", "int64"}, op.ParamNames())

	list, _ := r.Type("list")
	add, _ := list.Operation("add")
	size, _ := list.Operation("size")
	assert.Equal(t, "bool list.add(any)", add.Signature())
	assert.Equal(t, "add#obj", add.StepName())
	assert.Equal(t, "size#0", size.StepName())
	assert.True(t, list.HasCapability(domains.FamilyList))
	assert.False(t, num.HasCapability(domains.FamilyList))
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	r := testRegistry(t)
	assert.Error(t, r.Add(&TypeInfo{Name: "list"}))
	assert.Error(t, r.Add(&TypeInfo{}))

	list, _ := r.Type("list")
	err := list.Register(&Operation{Name: "size", Result: domains.Int32, Invoke: noop})
	assert.Error(t, err)
	err = list.Register(&Operation{Name: "clear", Result: domains.Void})
	assert.Error(t, err, "operations need an invoker")

	assert.Equal(t, []string{"int64", "list"}, r.Names())
	assert.Len(t, r.Types(), 2)
}

func TestParseAndDiscover(t *testing.T) {
	r := testRegistry(t)
	f, err := Parse([]byte(`
types:
  - name: list
    operations: [size, missing]
  - name: " int64 "
`))
	require.NoError(t, err)
	targets, warnings, err := Discover(r, f)
	require.NoError(t, err)
	require.Len(t, targets, 2)
	assert.Equal(t, "list", targets[0].Type.Name)
	require.Len(t, targets[0].Operations, 1)
	assert.Equal(t, "size", targets[0].Operations[0].Name)
	assert.Equal(t, []string{"list.missing is not registered"}, warnings)
	assert.Len(t, targets[1].Operations, 3, "no allow-list keeps every operation")

	_, _, err = Discover(r, &File{Types: []Entry{{Name: "queue"}}})
	assert.Error(t, err)

	_, err = Parse([]byte("types:\n  - operations: [a]\n"))
	assert.Error(t, err)
}

func TestAllAndFilter(t *testing.T) {
	r := testRegistry(t)
	all := All(r)
	require.Len(t, all.Types, 2)
	assert.Equal(t, all, all.Filter(nil))
	kept := all.Filter([]string{" LIST ", ""})
	require.Len(t, kept.Types, 1)
	assert.Equal(t, "list", kept.Types[0].Name)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("types:\n  - name: list\n"), 0o644))
	f, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []Entry{{Name: "list"}}, f.Types)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

const scanSource = `package host

type Stack[T any] struct{ items []T }

func (s *Stack[T]) Push(v T)       { s.items = append(s.items, v) }
func (s *Stack[T]) Pop() T         { return s.items[0] }
func (s Stack[T]) IsEmpty() bool   { return len(s.items) == 0 }
func (s *Stack[T]) grow()          {}

type Codec struct{}

func (Codec) URLEncode(s string) string { return s }
func (Codec) ID() int                   { return 0 }

type hidden struct{}

func (hidden) Visible() {}

type Empty struct{}
`

func TestScan(t *testing.T) {
	f, err := Scan([]byte(scanSource))
	require.NoError(t, err)
	assert.Equal(t, []Entry{
		{Name: "codec", Operations: []string{"urlEncode", "id"}},
		{Name: "stack", Operations: []string{"push", "pop", "isEmpty"}},
	}, f.Types)

	raw, err := f.Marshal()
	require.NoError(t, err)
	back, err := Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, f.Types, back.Types)

	_, err = Scan([]byte("package"))
	assert.Error(t, err)
}
