package recorder

import (
	"alma.local/iogen/domains"
	"alma.local/iogen/value"
)

// ErrorOutput is written in place of the result of a failed invocation.
const ErrorOutput = "error"

// Step is one invocation inside a sample. Arguments and result are encoded
// when the step is created, so later steps mutating a shared receiver cannot
// rewrite what an earlier step observed.
type Step struct {
	Name       string
	Signature  string
	Input      []any
	InputTypes []string
	Output     any
	OutputType string
	Err        error
}

// NewStep snapshots one invocation.
func NewStep(name, signature string, args []any, out value.Outcome) Step {
	s := Step{
		Name:       name,
		Signature:  signature,
		Input:      value.EncodeAll(args),
		InputTypes: make([]string, len(args)),
	}
	for i, a := range args {
		s.InputTypes[i] = value.TypeName(a)
	}
	if out.Failed() {
		s.Err = out.Err
		s.Output = ErrorOutput
		s.OutputType = ErrorOutput
		return s
	}
	s.Output = value.Encode(out.Value)
	s.OutputType = value.TypeName(out.Value)
	return s
}

// Failed reports whether the step recorded an invocation failure.
func (s Step) Failed() bool { return s.Err != nil }

// Sample is an ordered, non-empty list of steps; the last one is the target.
type Sample struct {
	Steps []Step
	// Tally counts the values synthesized for this sample, per kind.
	Tally map[domains.Kind]int
}

// Target returns the terminal step.
func (s Sample) Target() Step { return s.Steps[len(s.Steps)-1] }

type sampleJSON struct {
	Sequence   []string   `json:"sequence"`
	Signatures []string   `json:"signatures"`
	Input      [][]any    `json:"input"`
	Output     []any      `json:"output"`
	TypeInput  [][]string `json:"typeInput"`
	TypeOutput []string   `json:"typeOutput"`
}

func (s Sample) toJSON() sampleJSON {
	n := len(s.Steps)
	out := sampleJSON{
		Sequence:   make([]string, n),
		Signatures: make([]string, n),
		Input:      make([][]any, n),
		Output:     make([]any, n),
		TypeInput:  make([][]string, n),
		TypeOutput: make([]string, n),
	}
	for i, st := range s.Steps {
		out.Sequence[i] = st.Name
		out.Signatures[i] = st.Signature
		out.Input[i] = st.Input
		out.Output[i] = st.Output
		out.TypeInput[i] = st.InputTypes
		out.TypeOutput[i] = st.OutputType
	}
	return out
}
