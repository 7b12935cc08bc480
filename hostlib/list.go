package hostlib

import (
	"fmt"

	"alma.local/iogen/value"
)

// Concrete sequence structure names.
const (
	ListName       = "list"
	LinkedListName = "linkedlist"
	ArrayDequeName = "arraydeque"
	StackName      = "stack"
)

// List is a growable sequence. The same structure backs the array list, the
// linked list, the array deque and the stack; name selects the type tag and
// whether null elements are refused.
type List struct {
	name  string
	elems []any
}

func NewList(name string) *List { return &List{name: name} }

func (l *List) TypeName() string { return l.name }
func (l *List) String() string   { return formatSeq(l.elems) }
func (l *List) Len() int         { return len(l.elems) }

// Elements returns a copy of the contents, head first.
func (l *List) Elements() []any { return append([]any(nil), l.elems...) }

func (l *List) Add(v any) (bool, error) {
	if err := l.checkElem(v); err != nil {
		return false, err
	}
	l.elems = append(l.elems, v)
	return true, nil
}

func (l *List) checkElem(v any) error {
	if v == nil && l.name == ArrayDequeName {
		return ErrNullElement
	}
	return nil
}

func (l *List) index(i int32, upper int) (int, error) {
	if i < 0 || int(i) >= upper {
		return 0, fmt.Errorf("%w: index %d, size %d", ErrIndexOutOfRange, i, len(l.elems))
	}
	return int(i), nil
}

func (l *List) Get(i int32) (any, error) {
	idx, err := l.index(i, len(l.elems))
	if err != nil {
		return nil, err
	}
	return l.elems[idx], nil
}

func (l *List) Set(i int32, v any) (any, error) {
	idx, err := l.index(i, len(l.elems))
	if err != nil {
		return nil, err
	}
	old := l.elems[idx]
	l.elems[idx] = v
	return old, nil
}

func (l *List) Insert(i int32, v any) error {
	idx, err := l.index(i, len(l.elems)+1)
	if err != nil {
		return err
	}
	l.elems = append(l.elems, nil)
	copy(l.elems[idx+1:], l.elems[idx:])
	l.elems[idx] = v
	return nil
}

func (l *List) RemoveAt(i int32) (any, error) {
	idx, err := l.index(i, len(l.elems))
	if err != nil {
		return nil, err
	}
	old := l.elems[idx]
	l.elems = append(l.elems[:idx], l.elems[idx+1:]...)
	return old, nil
}

// Remove deletes the first element equal to v.
func (l *List) Remove(v any) bool {
	if i := l.IndexOf(v); i >= 0 {
		l.elems = append(l.elems[:i], l.elems[i+1:]...)
		return true
	}
	return false
}

func (l *List) IndexOf(v any) int32 {
	for i, e := range l.elems {
		if sameValue(e, v) {
			return int32(i)
		}
	}
	return -1
}

func (l *List) LastIndexOf(v any) int32 {
	for i := len(l.elems) - 1; i >= 0; i-- {
		if sameValue(l.elems[i], v) {
			return int32(i)
		}
	}
	return -1
}

func (l *List) Contains(v any) bool { return l.IndexOf(v) >= 0 }

func (l *List) Clear() { l.elems = nil }

func (l *List) AddFirst(v any) error {
	if err := l.checkElem(v); err != nil {
		return err
	}
	l.elems = append([]any{v}, l.elems...)
	return nil
}

// First returns the head or ErrNoSuchElement.
func (l *List) First() (any, error) {
	if len(l.elems) == 0 {
		return nil, ErrNoSuchElement
	}
	return l.elems[0], nil
}

func (l *List) Last() (any, error) {
	if len(l.elems) == 0 {
		return nil, ErrNoSuchElement
	}
	return l.elems[len(l.elems)-1], nil
}

func (l *List) RemoveFirst() (any, error) {
	v, err := l.First()
	if err != nil {
		return nil, err
	}
	l.elems = l.elems[1:]
	return v, nil
}

func (l *List) RemoveLast() (any, error) {
	v, err := l.Last()
	if err != nil {
		return nil, err
	}
	l.elems = l.elems[:len(l.elems)-1]
	return v, nil
}

// orNil turns an empty-structure failure into a nil result, for the
// peek/poll family.
func orNil(v any, err error) any {
	if err != nil {
		return nil
	}
	return v
}

// Search returns the 1-based distance of v from the top of a stack, or -1.
func (l *List) Search(v any) int32 {
	i := l.LastIndexOf(v)
	if i < 0 {
		return -1
	}
	return int32(len(l.elems)) - i
}

// Sort orders the elements with cmp. Mixed-type elements under natural
// ordering fail and leave the list untouched.
func (l *List) Sort(cmp value.Comparator) error {
	sorted := l.Elements()
	var sortErr error
	less := func(a, b any) int {
		if cmp != nil {
			return cmp(a, b)
		}
		c, err := naturalCompare(a, b)
		if err != nil && sortErr == nil {
			sortErr = err
		}
		return c
	}
	insertionSort(sorted, less)
	if sortErr != nil {
		return sortErr
	}
	l.elems = sorted
	return nil
}

func insertionSort(xs []any, cmp func(a, b any) int) {
	for i := 1; i < len(xs); i++ {
		for j := i; j > 0 && cmp(xs[j-1], xs[j]) > 0; j-- {
			xs[j-1], xs[j] = xs[j], xs[j-1]
		}
	}
}
