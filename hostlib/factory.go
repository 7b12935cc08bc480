package hostlib

import (
	"fmt"

	"alma.local/iogen/domains"
)

// Factory builds host containers for the synthesizer and for abstract types.
type Factory struct{}

// NewCollection returns the concrete structure for f filled with elems.
func (Factory) NewCollection(f domains.Family, elems []any) (any, error) {
	var c interface{ Add(any) (bool, error) }
	switch f {
	case domains.FamilyList, domains.FamilyCollection:
		c = NewList(ListName)
	case domains.FamilyQueue:
		c = NewList(LinkedListName)
	case domains.FamilyDeque:
		c = NewList(ArrayDequeName)
	case domains.FamilyStack:
		c = NewList(StackName)
	case domains.FamilySet:
		c = NewHashSet()
	case domains.FamilySortedSet:
		c = NewTreeSet()
	case domains.FamilyBuilder:
		b := NewBuilder()
		for _, e := range elems {
			if _, err := b.Append(e); err != nil {
				return nil, err
			}
		}
		return b, nil
	case domains.FamilyMap:
		return NewHashMap(), nil
	default:
		return nil, fmt.Errorf("no concrete structure for family %q", f)
	}
	for _, e := range elems {
		// Sorted sets refuse mixed element types; the element is skipped.
		if _, err := c.Add(e); err != nil && f != domains.FamilySortedSet {
			return nil, err
		}
	}
	return c, nil
}

// NewMap returns a hash map after putting each pair in order.
func (Factory) NewMap(keys, vals []any) (any, error) {
	if len(keys) != len(vals) {
		return nil, fmt.Errorf("map with %d keys and %d values", len(keys), len(vals))
	}
	m := NewHashMap()
	for i := range keys {
		if _, err := m.Put(keys[i], vals[i]); err != nil {
			return nil, err
		}
	}
	return m, nil
}
