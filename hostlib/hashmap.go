package hostlib

import (
	"strings"

	"alma.local/iogen/value"
)

const MapName = "map"

// HashMap is a key/value container that iterates in insertion order.
type HashMap struct {
	keys []any
	vals []any
}

func NewHashMap() *HashMap { return &HashMap{} }

func (m *HashMap) TypeName() string { return MapName }
func (m *HashMap) Len() int         { return len(m.keys) }

func (m *HashMap) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(value.Format(k))
		sb.WriteByte('=')
		sb.WriteString(value.Format(m.vals[i]))
	}
	sb.WriteByte('}')
	return sb.String()
}

func (m *HashMap) Pairs() [][2]any {
	out := make([][2]any, len(m.keys))
	for i, k := range m.keys {
		out[i] = [2]any{k, m.vals[i]}
	}
	return out
}

func (m *HashMap) find(k any) int {
	for i, e := range m.keys {
		if sameValue(e, k) {
			return i
		}
	}
	return -1
}

// Put stores v under k and returns the previous value, or nil.
func (m *HashMap) Put(k, v any) (any, error) {
	if i := m.find(k); i >= 0 {
		old := m.vals[i]
		m.vals[i] = v
		return old, nil
	}
	m.keys = append(m.keys, k)
	m.vals = append(m.vals, v)
	return nil, nil
}

func (m *HashMap) Get(k any) any {
	if i := m.find(k); i >= 0 {
		return m.vals[i]
	}
	return nil
}

func (m *HashMap) GetOrDefault(k, def any) any {
	if i := m.find(k); i >= 0 {
		return m.vals[i]
	}
	return def
}

func (m *HashMap) ContainsKey(k any) bool { return m.find(k) >= 0 }

func (m *HashMap) ContainsValue(v any) bool {
	for _, e := range m.vals {
		if sameValue(e, v) {
			return true
		}
	}
	return false
}

func (m *HashMap) Remove(k any) any {
	i := m.find(k)
	if i < 0 {
		return nil
	}
	old := m.vals[i]
	m.keys = append(m.keys[:i], m.keys[i+1:]...)
	m.vals = append(m.vals[:i], m.vals[i+1:]...)
	return old
}

func (m *HashMap) PutIfAbsent(k, v any) any {
	if i := m.find(k); i >= 0 && m.vals[i] != nil {
		return m.vals[i]
	}
	m.Put(k, v)
	return nil
}

// Merge stores v when k is absent, otherwise fn(old, v).
func (m *HashMap) Merge(k, v any, fn value.BiFunction) any {
	i := m.find(k)
	if i < 0 {
		m.Put(k, v)
		return v
	}
	nv := fn(m.vals[i], v)
	if nv == nil {
		m.Remove(k)
		return nil
	}
	m.vals[i] = nv
	return nv
}

func (m *HashMap) Clear() {
	m.keys = nil
	m.vals = nil
}

// KeySet returns a detached copy of the keys.
func (m *HashMap) KeySet() *HashSet {
	s := NewHashSet()
	s.elems = append(s.elems, m.keys...)
	return s
}

// Values returns a detached copy of the values.
func (m *HashMap) Values() *List {
	l := NewList(ListName)
	l.elems = append(l.elems, m.vals...)
	return l
}
