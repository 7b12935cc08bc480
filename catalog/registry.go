package catalog

import (
	"fmt"
	"sort"

	"alma.local/iogen/domains"
)

// TypeInfo is the registry entry for one host type: its capabilities, how to
// build an instance and which operations it offers.
type TypeInfo struct {
	Name string
	// Capabilities declared by the type. A type with any mutable container or
	// builder capability is sampled through the stateful builder.
	Capabilities []domains.Family
	// Abstract types have no constructor of their own; instances come from the
	// narrowest concrete structure for Family.
	Abstract bool
	Family   domains.Family
	// New builds a fresh instance. Nil for value-like types.
	New func() (any, error)
	// Value describes how a receiver of a value-like type is synthesized.
	Value domains.TypeDescriptor

	ops []*Operation
}

// Operations returns the operations in registration order.
func (t *TypeInfo) Operations() []*Operation {
	return t.ops
}

// Operation finds the first operation with the given name.
func (t *TypeInfo) Operation(name string) (*Operation, bool) {
	for _, op := range t.ops {
		if op.Name == name {
			return op, true
		}
	}
	return nil, false
}

// Lookup finds an operation by exact signature.
func (t *TypeInfo) Lookup(signature string) (*Operation, bool) {
	for _, op := range t.ops {
		if op.Signature() == signature {
			return op, true
		}
	}
	return nil, false
}

// HasCapability reports whether the type declares f.
func (t *TypeInfo) HasCapability(f domains.Family) bool {
	for _, c := range t.Capabilities {
		if c == f {
			return true
		}
	}
	return false
}

// Register adds operations to the type. Signatures must be unique per type.
func (t *TypeInfo) Register(ops ...*Operation) error {
	for _, op := range ops {
		if op.Invoke == nil {
			return fmt.Errorf("operation %s has no invoker", op.Signature())
		}
		op.Owner = t.Name
		if _, dup := t.Lookup(op.Signature()); dup {
			return fmt.Errorf("duplicate operation %s", op.Signature())
		}
		t.ops = append(t.ops, op)
	}
	return nil
}

// MustRegister is Register for static library setup.
func (t *TypeInfo) MustRegister(ops ...*Operation) *TypeInfo {
	if err := t.Register(ops...); err != nil {
		panic(err)
	}
	return t
}

// Registry is the capability side table populated once at startup.
type Registry struct {
	types map[string]*TypeInfo
	order []string
}

func NewRegistry() *Registry {
	return &Registry{types: make(map[string]*TypeInfo)}
}

// Add registers a type. Names are unique.
func (r *Registry) Add(t *TypeInfo) error {
	if t.Name == "" {
		return fmt.Errorf("type without name")
	}
	if _, dup := r.types[t.Name]; dup {
		return fmt.Errorf("type %q already registered", t.Name)
	}
	r.types[t.Name] = t
	r.order = append(r.order, t.Name)
	return nil
}

// Type returns the entry for name.
func (r *Registry) Type(name string) (*TypeInfo, bool) {
	t, ok := r.types[name]
	return t, ok
}

// Types returns every registered type in registration order.
func (r *Registry) Types() []*TypeInfo {
	out := make([]*TypeInfo, 0, len(r.order))
	for _, n := range r.order {
		out = append(out, r.types[n])
	}
	return out
}

// Names returns the registered type names sorted alphabetically.
func (r *Registry) Names() []string {
	out := append([]string(nil), r.order...)
	sort.Strings(out)
	return out
}
