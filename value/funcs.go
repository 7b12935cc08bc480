package value

import "strings"

// Functional stubs handed to operations that take callbacks. They never touch
// their arguments beyond the declared contract.

type Predicate func(any) bool

func (Predicate) TypeName() string { return "predicate" }

type Function func(any) any

func (Function) TypeName() string { return "function" }

type Consumer func(any)

func (Consumer) TypeName() string { return "consumer" }

type Supplier func() any

func (Supplier) TypeName() string { return "supplier" }

type BiFunction func(any, any) any

func (BiFunction) TypeName() string { return "bifunction" }

type Comparator func(a, b any) int

func (Comparator) TypeName() string { return "comparator" }

// AcceptAll is the predicate stub.
func AcceptAll() Predicate { return func(any) bool { return true } }

// NoOp is the consumer stub.
func NoOp() Consumer { return func(any) {} }

// KeepSecond is the bi-function stub; for merges it keeps the incoming value.
func KeepSecond() BiFunction { return func(_, b any) any { return b } }

// NaturalOrder compares by external representation.
func NaturalOrder() Comparator {
	return func(a, b any) int { return strings.Compare(Format(a), Format(b)) }
}
