package hostlib

import "sort"

const (
	SetName       = "set"
	SortedSetName = "sortedset"
)

// HashSet keeps unique elements in insertion order.
type HashSet struct {
	elems []any
}

func NewHashSet() *HashSet { return &HashSet{} }

func (s *HashSet) TypeName() string { return SetName }
func (s *HashSet) String() string   { return formatSeq(s.elems) }
func (s *HashSet) Len() int         { return len(s.elems) }
func (s *HashSet) Elements() []any  { return append([]any(nil), s.elems...) }

func (s *HashSet) find(v any) int {
	for i, e := range s.elems {
		if sameValue(e, v) {
			return i
		}
	}
	return -1
}

func (s *HashSet) Add(v any) (bool, error) {
	if s.find(v) >= 0 {
		return false, nil
	}
	s.elems = append(s.elems, v)
	return true, nil
}

func (s *HashSet) Contains(v any) bool { return s.find(v) >= 0 }

func (s *HashSet) Remove(v any) bool {
	i := s.find(v)
	if i < 0 {
		return false
	}
	s.elems = append(s.elems[:i], s.elems[i+1:]...)
	return true
}

func (s *HashSet) Clear() { s.elems = nil }

// TreeSet keeps unique elements in natural order. Every element must be
// comparable with every other one.
type TreeSet struct {
	elems []any
}

func NewTreeSet() *TreeSet { return &TreeSet{} }

func (s *TreeSet) TypeName() string { return SortedSetName }
func (s *TreeSet) String() string   { return formatSeq(s.elems) }
func (s *TreeSet) Len() int         { return len(s.elems) }
func (s *TreeSet) Elements() []any  { return append([]any(nil), s.elems...) }

// search returns the insertion point of v and whether v is present.
func (s *TreeSet) search(v any) (int, bool, error) {
	var cmpErr error
	i := sort.Search(len(s.elems), func(i int) bool {
		c, err := naturalCompare(s.elems[i], v)
		if err != nil {
			cmpErr = err
			return true
		}
		return c >= 0
	})
	if cmpErr != nil {
		return 0, false, cmpErr
	}
	if len(s.elems) == 0 {
		// Java's tree set compares the first key with itself.
		if _, err := naturalCompare(v, v); err != nil {
			return 0, false, err
		}
	}
	found := i < len(s.elems) && sameValue(s.elems[i], v)
	return i, found, nil
}

func (s *TreeSet) Add(v any) (bool, error) {
	if v == nil {
		return false, ErrNullElement
	}
	i, found, err := s.search(v)
	if err != nil || found {
		return false, err
	}
	s.elems = append(s.elems, nil)
	copy(s.elems[i+1:], s.elems[i:])
	s.elems[i] = v
	return true, nil
}

func (s *TreeSet) Contains(v any) (bool, error) {
	_, found, err := s.search(v)
	return found, err
}

func (s *TreeSet) Remove(v any) (bool, error) {
	i, found, err := s.search(v)
	if err != nil || !found {
		return false, err
	}
	s.elems = append(s.elems[:i], s.elems[i+1:]...)
	return true, nil
}

func (s *TreeSet) Clear() { s.elems = nil }

func (s *TreeSet) First() (any, error) {
	if len(s.elems) == 0 {
		return nil, ErrNoSuchElement
	}
	return s.elems[0], nil
}

func (s *TreeSet) Last() (any, error) {
	if len(s.elems) == 0 {
		return nil, ErrNoSuchElement
	}
	return s.elems[len(s.elems)-1], nil
}

func (s *TreeSet) PollFirst() any {
	if len(s.elems) == 0 {
		return nil
	}
	v := s.elems[0]
	s.elems = s.elems[1:]
	return v
}

func (s *TreeSet) PollLast() any {
	if len(s.elems) == 0 {
		return nil
	}
	v := s.elems[len(s.elems)-1]
	s.elems = s.elems[:len(s.elems)-1]
	return v
}

// Floor returns the greatest element <= v; Ceiling the least element >= v.
// Higher and Lower are the strict variants. A missing neighbour is nil.
func (s *TreeSet) Floor(v any) (any, error)   { return s.neighbour(v, true, true) }
func (s *TreeSet) Ceiling(v any) (any, error) { return s.neighbour(v, false, true) }
func (s *TreeSet) Lower(v any) (any, error)   { return s.neighbour(v, true, false) }
func (s *TreeSet) Higher(v any) (any, error)  { return s.neighbour(v, false, false) }

func (s *TreeSet) neighbour(v any, below, inclusive bool) (any, error) {
	i, found, err := s.search(v)
	if err != nil {
		return nil, err
	}
	if found && inclusive {
		return s.elems[i], nil
	}
	if below {
		if i == 0 {
			return nil, nil
		}
		return s.elems[i-1], nil
	}
	if found {
		i++
	}
	if i >= len(s.elems) {
		return nil, nil
	}
	return s.elems[i], nil
}
