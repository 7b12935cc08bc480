// Package value holds the dynamic values exchanged between the synthesizer,
// host operations and the recorder, together with their naming, formatting and
// JSON encoding rules.
package value

import (
	"errors"
	"fmt"
	"math"
)

// ErrResourceExhausted is returned by host operations that refuse to allocate
// beyond their guard. It aborts the whole operation, not just the attempt.
var ErrResourceExhausted = errors.New("resource exhausted")

// Char is a single text unit. It is distinct from int32 so that type tags stay
// unambiguous.
type Char rune

func (c Char) String() string { return string(rune(c)) }

// Collection is implemented by host containers that accept elements.
type Collection interface {
	Add(v any) (bool, error)
	Len() int
	Elements() []any
}

// Mapping is implemented by host key/value containers.
type Mapping interface {
	Put(k, v any) (any, error)
	Len() int
	Pairs() [][2]any
}

// Outcome is the result-or-error of one invocation.
type Outcome struct {
	Value any
	Err   error
}

// Ok wraps a successful result.
func Ok(v any) Outcome { return Outcome{Value: v} }

// Fail wraps an invocation failure.
func Fail(err error) Outcome { return Outcome{Err: err} }

// Failed reports whether the invocation raised an error.
func (o Outcome) Failed() bool { return o.Err != nil }

// PanicError carries a panic recovered from an invoked operation.
type PanicError struct {
	Recovered any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Recovered)
}

// Unwrap exposes an underlying error when the panic value was one.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Recovered.(error); ok {
		return err
	}
	return nil
}

// IsInvalidFloat reports whether v is a NaN or infinite floating value.
func IsInvalidFloat(v any) bool {
	switch f := v.(type) {
	case float64:
		return math.IsNaN(f) || math.IsInf(f, 0)
	case float32:
		g := float64(f)
		return math.IsNaN(g) || math.IsInf(g, 0)
	}
	return false
}

// Format returns the external string representation of v. It is used to
// detect receiver mutation, so it must be deterministic for equal states.
func Format(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return x
	case Char:
		return x.String()
	case fmt.Stringer:
		return x.String()
	case float64, float32:
		return fmt.Sprintf("%v", x)
	}
	if n, ok := v.(interface{ TypeName() string }); ok {
		return n.TypeName()
	}
	return fmt.Sprint(v)
}
