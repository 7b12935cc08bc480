package sampler

import (
	"errors"

	"alma.local/iogen/catalog"
	"alma.local/iogen/recorder"
	"alma.local/iogen/value"
)

// Evaluate runs one single-step attempt with the given receiver and
// arguments. recv is ignored for static operations. The receiver's external
// representation must not change across the call, whether it succeeds or
// fails.
func Evaluate(op *catalog.Operation, recv any, args []any) (recorder.Sample, error) {
	var before string
	if !op.Static {
		before = value.Format(recv)
	} else {
		recv = nil
	}
	out := invoke(op, recv, args)
	if out.Failed() && errors.Is(out.Err, value.ErrResourceExhausted) {
		return recorder.Sample{}, out.Err
	}
	if !op.Static && value.Format(recv) != before {
		return recorder.Sample{}, ErrReceiverMutated
	}
	if !out.Failed() && value.IsInvalidFloat(out.Value) {
		return recorder.Sample{}, ErrNonFinite
	}
	inputs := args
	if !op.Static {
		inputs = append([]any{recv}, args...)
	}
	step := recorder.NewStep(op.Name, op.StepName(), inputs, out)
	return recorder.Sample{Steps: []recorder.Step{step}}, nil
}

func (s *Sampler) statelessAttempt(t *catalog.TypeInfo, op *catalog.Operation) (recorder.Sample, error) {
	args, err := s.conc.ConcretizeAll(op.Params)
	if err != nil {
		return recorder.Sample{}, err
	}
	var recv any
	if !op.Static {
		if recv, err = s.conc.Concretize(t.Value); err != nil {
			return recorder.Sample{}, err
		}
	}
	return Evaluate(op, recv, args)
}
