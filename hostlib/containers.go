package hostlib

import (
	"math"

	"alma.local/iogen/catalog"
	"alma.local/iogen/domains"
	"alma.local/iogen/value"
)

// mutableCollection is the shared surface of the list, set and sorted set.
type mutableCollection interface {
	value.Collection
	TypeName() string
	String() string
	Clear()
	has(v any) (bool, error)
	drop(v any) (bool, error)
}

func (l *List) has(v any) (bool, error)     { return l.Contains(v), nil }
func (l *List) drop(v any) (bool, error)    { return l.Remove(v), nil }
func (s *HashSet) has(v any) (bool, error)  { return s.Contains(v), nil }
func (s *HashSet) drop(v any) (bool, error) { return s.Remove(v), nil }
func (s *TreeSet) has(v any) (bool, error)  { return s.Contains(v) }
func (s *TreeSet) drop(v any) (bool, error) { return s.Remove(v) }

// hashOf mirrors the host's value hashing so hashCode results are stable.
func hashOf(v any) int32 {
	switch x := v.(type) {
	case nil:
		return 0
	case int8:
		return int32(x)
	case int16:
		return int32(x)
	case int32:
		return x
	case int64:
		return int32(x ^ int64(uint64(x)>>32))
	case float32:
		return int32(math.Float32bits(x))
	case float64:
		b := canonicalBits(x)
		return int32(b ^ b>>32)
	case bool:
		if x {
			return 1231
		}
		return 1237
	case value.Char:
		return int32(x)
	case string:
		return textHash(x)
	}
	return textHash(value.Format(v))
}

func seqHash(elems []any) int32 {
	h := int32(1)
	for _, e := range elems {
		h = 31*h + hashOf(e)
	}
	return h
}

var (
	anyParam   = ps(domains.Any)
	indexParam = ps(domains.Int32)
	listResult = domains.Container(domains.FamilyList)
	setResult  = domains.Container(domains.FamilySet)
)

func collectionOps() []*catalog.Operation {
	coll := func(r any) mutableCollection { return r.(mutableCollection) }
	return []*catalog.Operation{
		method("add", domains.Bool, anyParam, func(r any, a []any) (any, error) {
			return coll(r).Add(a[0])
		}),
		method("addAll", domains.Bool, ps(domains.Container(domains.FamilyCollection)), func(r any, a []any) (any, error) {
			src, ok := a[0].(value.Collection)
			if !ok {
				return nil, ErrClassCast
			}
			changed := false
			for _, e := range src.Elements() {
				added, err := coll(r).Add(e)
				if err != nil {
					return nil, err
				}
				changed = changed || added
			}
			return changed, nil
		}),
		method("remove", domains.Bool, anyParam, func(r any, a []any) (any, error) {
			return coll(r).drop(a[0])
		}),
		method("contains", domains.Bool, anyParam, func(r any, a []any) (any, error) {
			return coll(r).has(a[0])
		}),
		method("size", domains.Int32, nil, func(r any, _ []any) (any, error) {
			return int32(coll(r).Len()), nil
		}),
		method("isEmpty", domains.Bool, nil, func(r any, _ []any) (any, error) {
			return coll(r).Len() == 0, nil
		}),
		method("clear", domains.Void, nil, func(r any, _ []any) (any, error) {
			coll(r).Clear()
			return nil, nil
		}),
		method("toString", domains.Text, nil, func(r any, _ []any) (any, error) {
			return coll(r).String(), nil
		}),
		method("iterator", domains.Iter, nil, func(r any, _ []any) (any, error) {
			return coll(r).Elements(), nil
		}),
		method("stream", domains.Iter, nil, func(r any, _ []any) (any, error) {
			return coll(r).Elements(), nil
		}),
		method("toArray", domains.ArrayOf(domains.Any), nil, func(r any, _ []any) (any, error) {
			return coll(r).Elements(), nil
		}),
		method("hashCode", domains.Int32, nil, func(r any, _ []any) (any, error) {
			return seqHash(coll(r).Elements()), nil
		}),
		method("equals", domains.Bool, anyParam, func(r any, a []any) (any, error) {
			return sameValue(r, a[0]), nil
		}),
		method("removeIf", domains.Bool, ps(domains.Func(domains.ShapePredicate)), func(r any, a []any) (any, error) {
			c, pred := coll(r), a[0].(value.Predicate)
			var keep []any
			for _, e := range c.Elements() {
				if !pred(e) {
					keep = append(keep, e)
				}
			}
			removed := len(keep) != c.Len()
			c.Clear()
			for _, e := range keep {
				if _, err := c.Add(e); err != nil {
					return nil, err
				}
			}
			return removed, nil
		}),
		method("forEach", domains.Void, ps(domains.Func(domains.ShapeConsumer)), func(r any, a []any) (any, error) {
			fn := a[0].(value.Consumer)
			for _, e := range coll(r).Elements() {
				fn(e)
			}
			return nil, nil
		}),
	}
}

func listOps(arrayBacked bool) []*catalog.Operation {
	lst := func(r any) *List { return r.(*List) }
	ops := []*catalog.Operation{
		method("get", domains.Any, indexParam, func(r any, a []any) (any, error) {
			return lst(r).Get(a[0].(int32))
		}),
		method("set", domains.Any, ps(domains.Int32, domains.Any), func(r any, a []any) (any, error) {
			return lst(r).Set(a[0].(int32), a[1])
		}),
		method("add", domains.Void, ps(domains.Int32, domains.Any), func(r any, a []any) (any, error) {
			return nil, lst(r).Insert(a[0].(int32), a[1])
		}),
		method("remove", domains.Any, indexParam, func(r any, a []any) (any, error) {
			return lst(r).RemoveAt(a[0].(int32))
		}),
		method("indexOf", domains.Int32, anyParam, func(r any, a []any) (any, error) {
			return lst(r).IndexOf(a[0]), nil
		}),
		method("lastIndexOf", domains.Int32, anyParam, func(r any, a []any) (any, error) {
			return lst(r).LastIndexOf(a[0]), nil
		}),
		method("sort", domains.Void, ps(domains.Func(domains.ShapeComparator)), func(r any, a []any) (any, error) {
			return nil, lst(r).Sort(a[0].(value.Comparator))
		}),
		method("replaceAll", domains.Void, ps(domains.Func(domains.ShapeFunction)), func(r any, a []any) (any, error) {
			fn, l := a[0].(value.Function), lst(r)
			for i, e := range l.elems {
				l.elems[i] = fn(e)
			}
			return nil, nil
		}),
		method("subList", listResult, ps(domains.Int32, domains.Int32), func(r any, a []any) (any, error) {
			l := lst(r)
			from, to := a[0].(int32), a[1].(int32)
			if from < 0 || int(to) > len(l.elems) || from > to {
				return nil, ErrIndexOutOfRange
			}
			sub := NewList(ListName)
			sub.elems = append(sub.elems, l.elems[from:to]...)
			return sub, nil
		}),
	}
	if arrayBacked {
		ops = append(ops,
			method("ensureCapacity", domains.Void, indexParam, func(r any, a []any) (any, error) {
				n := a[0].(int32)
				if int(n) > maxTextBytes {
					return nil, value.ErrResourceExhausted
				}
				l := lst(r)
				if int(n) > cap(l.elems) {
					grown := make([]any, len(l.elems), n)
					copy(grown, l.elems)
					l.elems = grown
				}
				return nil, nil
			}),
			method("trimToSize", domains.Void, nil, func(r any, _ []any) (any, error) {
				l := lst(r)
				l.elems = append([]any(nil), l.elems...)
				return nil, nil
			}),
		)
	}
	return ops
}

func queueOps() []*catalog.Operation {
	lst := func(r any) *List { return r.(*List) }
	return []*catalog.Operation{
		method("offer", domains.Bool, anyParam, func(r any, a []any) (any, error) {
			return lst(r).Add(a[0])
		}),
		method("poll", domains.Any, nil, func(r any, _ []any) (any, error) {
			return orNil(lst(r).RemoveFirst()), nil
		}),
		method("peek", domains.Any, nil, func(r any, _ []any) (any, error) {
			return orNil(lst(r).First()), nil
		}),
		method("element", domains.Any, nil, func(r any, _ []any) (any, error) {
			return lst(r).First()
		}),
		method("remove", domains.Any, nil, func(r any, _ []any) (any, error) {
			return lst(r).RemoveFirst()
		}),
	}
}

func dequeOps() []*catalog.Operation {
	lst := func(r any) *List { return r.(*List) }
	return []*catalog.Operation{
		method("addFirst", domains.Void, anyParam, func(r any, a []any) (any, error) {
			return nil, lst(r).AddFirst(a[0])
		}),
		method("addLast", domains.Void, anyParam, func(r any, a []any) (any, error) {
			_, err := lst(r).Add(a[0])
			return nil, err
		}),
		method("offerFirst", domains.Bool, anyParam, func(r any, a []any) (any, error) {
			if err := lst(r).AddFirst(a[0]); err != nil {
				return nil, err
			}
			return true, nil
		}),
		method("offerLast", domains.Bool, anyParam, func(r any, a []any) (any, error) {
			return lst(r).Add(a[0])
		}),
		method("push", domains.Void, anyParam, func(r any, a []any) (any, error) {
			return nil, lst(r).AddFirst(a[0])
		}),
		method("pop", domains.Any, nil, func(r any, _ []any) (any, error) {
			return lst(r).RemoveFirst()
		}),
		method("pollFirst", domains.Any, nil, func(r any, _ []any) (any, error) {
			return orNil(lst(r).RemoveFirst()), nil
		}),
		method("pollLast", domains.Any, nil, func(r any, _ []any) (any, error) {
			return orNil(lst(r).RemoveLast()), nil
		}),
		method("peekFirst", domains.Any, nil, func(r any, _ []any) (any, error) {
			return orNil(lst(r).First()), nil
		}),
		method("peekLast", domains.Any, nil, func(r any, _ []any) (any, error) {
			return orNil(lst(r).Last()), nil
		}),
		method("getFirst", domains.Any, nil, func(r any, _ []any) (any, error) {
			return lst(r).First()
		}),
		method("getLast", domains.Any, nil, func(r any, _ []any) (any, error) {
			return lst(r).Last()
		}),
		method("removeFirst", domains.Any, nil, func(r any, _ []any) (any, error) {
			return lst(r).RemoveFirst()
		}),
		method("removeLast", domains.Any, nil, func(r any, _ []any) (any, error) {
			return lst(r).RemoveLast()
		}),
		method("descendingIterator", domains.Iter, nil, func(r any, _ []any) (any, error) {
			elems := lst(r).Elements()
			for i, j := 0, len(elems)-1; i < j; i, j = i+1, j-1 {
				elems[i], elems[j] = elems[j], elems[i]
			}
			return elems, nil
		}),
	}
}

func stackOps() []*catalog.Operation {
	lst := func(r any) *List { return r.(*List) }
	return []*catalog.Operation{
		method("push", domains.Any, anyParam, func(r any, a []any) (any, error) {
			_, err := lst(r).Add(a[0])
			return a[0], err
		}),
		method("pop", domains.Any, nil, func(r any, _ []any) (any, error) {
			v, err := lst(r).RemoveLast()
			if err != nil {
				return nil, ErrEmptyStack
			}
			return v, nil
		}),
		method("peek", domains.Any, nil, func(r any, _ []any) (any, error) {
			v, err := lst(r).Last()
			if err != nil {
				return nil, ErrEmptyStack
			}
			return v, nil
		}),
		method("empty", domains.Bool, nil, func(r any, _ []any) (any, error) {
			return lst(r).Len() == 0, nil
		}),
		method("search", domains.Int32, anyParam, func(r any, a []any) (any, error) {
			return lst(r).Search(a[0]), nil
		}),
	}
}

func sortedSetOps() []*catalog.Operation {
	set := func(r any) *TreeSet { return r.(*TreeSet) }
	return []*catalog.Operation{
		method("first", domains.Any, nil, func(r any, _ []any) (any, error) {
			return set(r).First()
		}),
		method("last", domains.Any, nil, func(r any, _ []any) (any, error) {
			return set(r).Last()
		}),
		method("pollFirst", domains.Any, nil, func(r any, _ []any) (any, error) {
			return set(r).PollFirst(), nil
		}),
		method("pollLast", domains.Any, nil, func(r any, _ []any) (any, error) {
			return set(r).PollLast(), nil
		}),
		method("floor", domains.Any, anyParam, func(r any, a []any) (any, error) {
			return set(r).Floor(a[0])
		}),
		method("ceiling", domains.Any, anyParam, func(r any, a []any) (any, error) {
			return set(r).Ceiling(a[0])
		}),
		method("lower", domains.Any, anyParam, func(r any, a []any) (any, error) {
			return set(r).Lower(a[0])
		}),
		method("higher", domains.Any, anyParam, func(r any, a []any) (any, error) {
			return set(r).Higher(a[0])
		}),
	}
}

func mapOps() []*catalog.Operation {
	m := func(r any) *HashMap { return r.(*HashMap) }
	two := ps(domains.Any, domains.Any)
	return []*catalog.Operation{
		method("put", domains.Any, two, func(r any, a []any) (any, error) {
			return m(r).Put(a[0], a[1])
		}),
		method("get", domains.Any, anyParam, func(r any, a []any) (any, error) {
			return m(r).Get(a[0]), nil
		}),
		method("getOrDefault", domains.Any, two, func(r any, a []any) (any, error) {
			return m(r).GetOrDefault(a[0], a[1]), nil
		}),
		method("containsKey", domains.Bool, anyParam, func(r any, a []any) (any, error) {
			return m(r).ContainsKey(a[0]), nil
		}),
		method("containsValue", domains.Bool, anyParam, func(r any, a []any) (any, error) {
			return m(r).ContainsValue(a[0]), nil
		}),
		method("remove", domains.Any, anyParam, func(r any, a []any) (any, error) {
			return m(r).Remove(a[0]), nil
		}),
		method("putIfAbsent", domains.Any, two, func(r any, a []any) (any, error) {
			return m(r).PutIfAbsent(a[0], a[1]), nil
		}),
		method("merge", domains.Any, ps(domains.Any, domains.Any, domains.Func(domains.ShapeBiFunction)), func(r any, a []any) (any, error) {
			return m(r).Merge(a[0], a[1], a[2].(value.BiFunction)), nil
		}),
		method("size", domains.Int32, nil, func(r any, _ []any) (any, error) {
			return int32(m(r).Len()), nil
		}),
		method("isEmpty", domains.Bool, nil, func(r any, _ []any) (any, error) {
			return m(r).Len() == 0, nil
		}),
		method("clear", domains.Void, nil, func(r any, _ []any) (any, error) {
			m(r).Clear()
			return nil, nil
		}),
		method("keySet", setResult, nil, func(r any, _ []any) (any, error) {
			return m(r).KeySet(), nil
		}),
		method("values", domains.Container(domains.FamilyCollection), nil, func(r any, _ []any) (any, error) {
			return m(r).Values(), nil
		}),
		method("entrySet", domains.Iter, nil, func(r any, _ []any) (any, error) {
			return m(r).Pairs(), nil
		}),
		method("toString", domains.Text, nil, func(r any, _ []any) (any, error) {
			return m(r).String(), nil
		}),
		method("replaceAll", domains.Void, ps(domains.Func(domains.ShapeBiFunction)), func(r any, a []any) (any, error) {
			hm, fn := m(r), a[0].(value.BiFunction)
			for i, k := range hm.keys {
				hm.vals[i] = fn(k, hm.vals[i])
			}
			return nil, nil
		}),
		method("hashCode", domains.Int32, nil, func(r any, _ []any) (any, error) {
			var h int32
			for _, p := range m(r).Pairs() {
				h += hashOf(p[0]) ^ hashOf(p[1])
			}
			return h, nil
		}),
		method("equals", domains.Bool, anyParam, func(r any, a []any) (any, error) {
			return sameValue(r, a[0]), nil
		}),
		method("clone", domains.MapOf(domains.Any, domains.Any), nil, func(r any, _ []any) (any, error) {
			src := m(r)
			c := NewHashMap()
			c.keys = append(c.keys, src.keys...)
			c.vals = append(c.vals, src.vals...)
			return c, nil
		}),
	}
}

func builderOps() []*catalog.Operation {
	b := func(r any) *Builder { return r.(*Builder) }
	self := domains.Container(domains.FamilyBuilder)
	return []*catalog.Operation{
		method("append", self, anyParam, func(r any, a []any) (any, error) {
			return b(r).Append(a[0])
		}),
		method("append", self, ps(domains.Char), func(r any, a []any) (any, error) {
			return b(r).Append(a[0])
		}),
		method("insert", self, ps(domains.Int32, domains.Any), func(r any, a []any) (any, error) {
			return b(r).Insert(a[0].(int32), a[1])
		}),
		method("reverse", self, nil, func(r any, _ []any) (any, error) {
			return b(r).Reverse(), nil
		}),
		method("delete", self, ps(domains.Int32, domains.Int32), func(r any, a []any) (any, error) {
			return b(r).Delete(a[0].(int32), a[1].(int32))
		}),
		method("deleteCharAt", self, indexParam, func(r any, a []any) (any, error) {
			return b(r).DeleteCharAt(a[0].(int32))
		}),
		method("replace", self, ps(domains.Int32, domains.Int32, domains.Text), func(r any, a []any) (any, error) {
			return b(r).Replace(a[0].(int32), a[1].(int32), a[2].(string))
		}),
		method("setLength", domains.Void, indexParam, func(r any, a []any) (any, error) {
			return nil, b(r).SetLength(a[0].(int32))
		}),
		method("length", domains.Int32, nil, func(r any, _ []any) (any, error) {
			return int32(b(r).Len()), nil
		}),
		method("charAt", domains.Char, indexParam, func(r any, a []any) (any, error) {
			return b(r).CharAt(a[0].(int32))
		}),
		method("setCharAt", domains.Void, ps(domains.Int32, domains.Char), func(r any, a []any) (any, error) {
			return nil, b(r).SetCharAt(a[0].(int32), a[1].(value.Char))
		}),
		method("indexOf", domains.Int32, ps(domains.Text), func(r any, a []any) (any, error) {
			return b(r).IndexOf(a[0].(string)), nil
		}),
		method("toString", domains.Text, nil, func(r any, _ []any) (any, error) {
			return b(r).String(), nil
		}),
		method("chars", domains.Iter, nil, func(r any, _ []any) (any, error) {
			return []rune(b(r).String()), nil
		}),
		method("ensureCapacity", domains.Void, indexParam, func(r any, a []any) (any, error) {
			if int(a[0].(int32)) > maxTextBytes {
				return nil, value.ErrResourceExhausted
			}
			return nil, nil
		}),
		method("trimToSize", domains.Void, nil, func(_ any, _ []any) (any, error) {
			return nil, nil
		}),
	}
}

func concat(groups ...[]*catalog.Operation) []*catalog.Operation {
	var out []*catalog.Operation
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

func newer(fn func() any) func() (any, error) {
	return func() (any, error) { return fn(), nil }
}

func containerTypes() []*catalog.TypeInfo {
	fam := func(fs ...domains.Family) []domains.Family { return fs }
	types := []struct {
		info *catalog.TypeInfo
		ops  []*catalog.Operation
	}{
		{
			&catalog.TypeInfo{Name: ListName, Family: domains.FamilyList,
				Capabilities: fam(domains.FamilyCollection, domains.FamilyList),
				New:          newer(func() any { return NewList(ListName) })},
			concat(collectionOps(), listOps(true)),
		},
		{
			&catalog.TypeInfo{Name: LinkedListName, Family: domains.FamilyDeque,
				Capabilities: fam(domains.FamilyCollection, domains.FamilyList, domains.FamilyQueue, domains.FamilyDeque),
				New:          newer(func() any { return NewList(LinkedListName) })},
			concat(collectionOps(), listOps(false), queueOps(), dequeOps()),
		},
		{
			&catalog.TypeInfo{Name: "queue", Family: domains.FamilyQueue, Abstract: true,
				Capabilities: fam(domains.FamilyCollection, domains.FamilyQueue)},
			concat(collectionOps(), queueOps()),
		},
		{
			&catalog.TypeInfo{Name: "deque", Family: domains.FamilyDeque, Abstract: true,
				Capabilities: fam(domains.FamilyCollection, domains.FamilyQueue, domains.FamilyDeque)},
			concat(collectionOps(), queueOps(), dequeOps()),
		},
		{
			&catalog.TypeInfo{Name: StackName, Family: domains.FamilyStack,
				Capabilities: fam(domains.FamilyCollection, domains.FamilyList, domains.FamilyStack),
				New:          newer(func() any { return NewList(StackName) })},
			concat(collectionOps(), listOps(true), stackOps()),
		},
		{
			&catalog.TypeInfo{Name: SetName, Family: domains.FamilySet,
				Capabilities: fam(domains.FamilyCollection, domains.FamilySet),
				New:          newer(func() any { return NewHashSet() })},
			collectionOps(),
		},
		{
			&catalog.TypeInfo{Name: SortedSetName, Family: domains.FamilySortedSet,
				Capabilities: fam(domains.FamilyCollection, domains.FamilySet, domains.FamilySortedSet),
				New:          newer(func() any { return NewTreeSet() })},
			concat(collectionOps(), sortedSetOps()),
		},
		{
			&catalog.TypeInfo{Name: MapName, Family: domains.FamilyMap,
				Capabilities: fam(domains.FamilyMap),
				New:          newer(func() any { return NewHashMap() })},
			mapOps(),
		},
		{
			&catalog.TypeInfo{Name: BuilderName, Family: domains.FamilyBuilder,
				Capabilities: fam(domains.FamilyBuilder),
				New:          newer(func() any { return NewBuilder() })},
			builderOps(),
		},
	}
	out := make([]*catalog.TypeInfo, 0, len(types))
	for _, t := range types {
		out = append(out, t.info.MustRegister(t.ops...))
	}
	return out
}
