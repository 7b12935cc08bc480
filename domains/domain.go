package domains

import (
	"fmt"
	"strings"
)

// Kind classifies a parameter, result or field type into a synthesis-relevant shape.
type Kind int

const (
	KindUnsupported Kind = iota
	KindIntegral
	KindFloating
	KindBoolean
	KindCharacter
	KindText
	KindArray
	KindContainer
	KindMap
	KindFunctional
	KindWildcard
	KindVoid     // result only: nothing of interest
	KindIterator // result only: iteration/streaming handle
)

var kindNames = map[Kind]string{
	KindUnsupported: "unsupported",
	KindIntegral:    "integral",
	KindFloating:    "floating",
	KindBoolean:     "boolean",
	KindCharacter:   "character",
	KindText:        "text",
	KindArray:       "array",
	KindContainer:   "container",
	KindMap:         "map",
	KindFunctional:  "functional",
	KindWildcard:    "wildcard",
	KindVoid:        "void",
	KindIterator:    "iterator",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Family names the capability a container descriptor or a host type declares.
type Family string

const (
	FamilyCollection Family = "collection"
	FamilyList       Family = "list"
	FamilySet        Family = "set"
	FamilySortedSet  Family = "sortedset"
	FamilyQueue      Family = "queue"
	FamilyDeque      Family = "deque"
	FamilyStack      Family = "stack"
	FamilyMap        Family = "map"
	FamilyBuilder    Family = "builder"
)

// FuncShape is the declared shape of a functional reference.
type FuncShape string

const (
	ShapePredicate  FuncShape = "predicate"
	ShapeFunction   FuncShape = "function"
	ShapeConsumer   FuncShape = "consumer"
	ShapeSupplier   FuncShape = "supplier"
	ShapeBiFunction FuncShape = "bifunction"
	ShapeComparator FuncShape = "comparator"
)

// Arity returns the number of arguments a functional reference of this shape takes.
func (s FuncShape) Arity() int {
	switch s {
	case ShapeSupplier:
		return 0
	case ShapeBiFunction, ShapeComparator:
		return 2
	default:
		return 1
	}
}

// TypeDescriptor is an immutable description of a type as seen by the engine.
// Exactly one Kind applies; the remaining fields refine it.
type TypeDescriptor struct {
	Kind   Kind
	Name   string // host type name, e.g. "int32", "list", "iterator"
	Bits   int    // integral/floating width
	Family Family // container family
	Shape  FuncShape
	Elem   *TypeDescriptor // array component, map value
	Key    *TypeDescriptor // map key
}

func (td TypeDescriptor) String() string {
	return td.Name
}

// IsPrimitiveOrText reports whether the descriptor is a scalar value kind.
func (td TypeDescriptor) IsPrimitiveOrText() bool {
	switch td.Kind {
	case KindIntegral, KindFloating, KindBoolean, KindCharacter, KindText:
		return true
	}
	return false
}

// Short returns the compact parameter tag used in step signatures ("add#obj").
func (td TypeDescriptor) Short() string {
	switch td.Kind {
	case KindIntegral:
		if td.Bits == 64 {
			return "long"
		}
		return "int"
	case KindFloating:
		return "float"
	case KindBoolean:
		return "bool"
	case KindCharacter:
		return "char"
	}
	return "obj"
}

var (
	Int8    = TypeDescriptor{Kind: KindIntegral, Name: "int8", Bits: 8}
	Int16   = TypeDescriptor{Kind: KindIntegral, Name: "int16", Bits: 16}
	Int32   = TypeDescriptor{Kind: KindIntegral, Name: "int32", Bits: 32}
	Int64   = TypeDescriptor{Kind: KindIntegral, Name: "int64", Bits: 64}
	Float32 = TypeDescriptor{Kind: KindFloating, Name: "float32", Bits: 32}
	Float64 = TypeDescriptor{Kind: KindFloating, Name: "float64", Bits: 64}
	Bool    = TypeDescriptor{Kind: KindBoolean, Name: "bool"}
	Char    = TypeDescriptor{Kind: KindCharacter, Name: "char"}
	Text    = TypeDescriptor{Kind: KindText, Name: "string"}
	Any     = TypeDescriptor{Kind: KindWildcard, Name: "any"}
	Void    = TypeDescriptor{Kind: KindVoid, Name: "void"}
	Iter    = TypeDescriptor{Kind: KindIterator, Name: "iterator"}
)

// ArrayOf describes a fixed array with the given component.
func ArrayOf(elem TypeDescriptor) TypeDescriptor {
	return TypeDescriptor{Kind: KindArray, Name: "[]" + elem.Name, Elem: &elem}
}

// Container describes a collection-shaped argument or result of a family.
func Container(f Family) TypeDescriptor {
	return TypeDescriptor{Kind: KindContainer, Name: string(f), Family: f}
}

// MapOf describes a key/value container.
func MapOf(key, val TypeDescriptor) TypeDescriptor {
	return TypeDescriptor{Kind: KindMap, Name: "map", Family: FamilyMap, Key: &key, Elem: &val}
}

// Func describes a functional reference of the given shape.
func Func(shape FuncShape) TypeDescriptor {
	return TypeDescriptor{Kind: KindFunctional, Name: string(shape), Shape: shape}
}

// Opaque describes a host type the engine cannot synthesize.
func Opaque(name string) TypeDescriptor {
	return TypeDescriptor{Kind: KindUnsupported, Name: name}
}

// ParseFamily maps a capability name from a catalog file onto a Family.
func ParseFamily(s string) (Family, error) {
	f := Family(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case FamilyCollection, FamilyList, FamilySet, FamilySortedSet, FamilyQueue,
		FamilyDeque, FamilyStack, FamilyMap, FamilyBuilder:
		return f, nil
	}
	return "", fmt.Errorf("unknown capability %q", s)
}
