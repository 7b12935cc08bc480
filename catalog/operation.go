package catalog

import (
	"strings"

	"alma.local/iogen/domains"
)

// Invoker calls an operation. recv is nil for static operations.
type Invoker func(recv any, args []any) (any, error)

// Operation is a tagged record for one callable of a host type.
type Operation struct {
	Owner  string
	Name   string
	Static bool
	Params []domains.TypeDescriptor
	Result domains.TypeDescriptor
	Invoke Invoker
}

// Arity returns the number of declared parameters.
func (op *Operation) Arity() int { return len(op.Params) }

// Signature returns the stable human-readable signature, e.g.
// "static int32 int64.compare(int64, int64)".
func (op *Operation) Signature() string {
	var sb strings.Builder
	if op.Static {
		sb.WriteString("static ")
	}
	sb.WriteString(op.Result.Name)
	sb.WriteByte(' ')
	sb.WriteString(op.Owner)
	sb.WriteByte('.')
	sb.WriteString(op.Name)
	sb.WriteByte('(')
	for i, p := range op.Params {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(p.Name)
	}
	sb.WriteByte(')')
	return sb.String()
}

// StepName returns the compact step signature used inside sequences,
// e.g. "add#obj" or "size#0".
func (op *Operation) StepName() string {
	return StepName(op.Name, op.Params)
}

// StepName builds a compact step signature from a name and parameter list.
func StepName(name string, params []domains.TypeDescriptor) string {
	if len(params) == 0 {
		return name + "#0"
	}
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = p.Short()
	}
	return name + "#" + strings.Join(parts, "_")
}

// ParamNames lists the parameter type names in declaration order.
func (op *Operation) ParamNames() []string {
	out := make([]string, len(op.Params))
	for i, p := range op.Params {
		out[i] = p.Name
	}
	return out
}
