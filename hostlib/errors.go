package hostlib

import "errors"

// Failures raised by host operations. They surface as invocation errors and
// end up as ERROR outputs in recorded samples.
var (
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrNoSuchElement   = errors.New("no such element")
	ErrEmptyStack      = errors.New("empty stack")
	ErrNumberFormat    = errors.New("number format")
	ErrArithmetic      = errors.New("arithmetic")
	ErrIllegalArgument = errors.New("illegal argument")
	ErrClassCast       = errors.New("class cast")
	ErrNullElement     = errors.New("null element")
)

// maxTextBytes bounds text produced by repeat and setLength.
const maxTextBytes = 1 << 20
