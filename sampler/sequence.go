package sampler

import (
	"errors"
	"fmt"

	"alma.local/iogen/catalog"
	"alma.local/iogen/domains"
	"alma.local/iogen/recorder"
	"alma.local/iogen/value"
)

// State is the phase of a stateful attempt.
type State int

const (
	StateFresh State = iota
	StateSeeding
	StateBuilding
	StateTargeting
	StateAccepted
	StateRejected
)

var stateNames = [...]string{"FRESH", "SEEDING", "BUILDING", "TARGETING", "ACCEPTED", "REJECTED"}

func (st State) String() string {
	if int(st) < len(stateNames) {
		return stateNames[st]
	}
	return fmt.Sprintf("State(%d)", int(st))
}

var (
	seedAddStep = catalog.StepName("add", []domains.TypeDescriptor{domains.Any})
	seedPutStep = catalog.StepName("put", []domains.TypeDescriptor{domains.Any, domains.Any})
)

// Sequence is one stateful attempt. It exclusively owns its instance, which
// is dropped together with the Sequence.
type Sequence struct {
	s     *Sampler
	typ   *catalog.TypeInfo
	recv  any
	steps []recorder.Step
	state State
}

// Fresh constructs a new instance of t. Abstract types get the narrowest
// concrete structure for their family.
func (s *Sampler) Fresh(t *catalog.TypeInfo) (*Sequence, error) {
	var (
		recv any
		err  error
	)
	switch {
	case t.New != nil:
		recv, err = t.New()
	case t.Abstract:
		recv, err = s.conc.NewContainer(t.Family)
	default:
		err = errors.New("no constructor")
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrConstruction, t.Name, err)
	}
	if recv == nil {
		return nil, fmt.Errorf("%w: %s: constructor returned nothing", ErrConstruction, t.Name)
	}
	return &Sequence{s: s, typ: t, recv: recv, state: StateFresh}, nil
}

func (q *Sequence) State() State           { return q.state }
func (q *Sequence) Receiver() any          { return q.recv }
func (q *Sequence) Len() int               { return len(q.steps) }
func (q *Sequence) Steps() []recorder.Step { return q.steps }

// Seed adds elems to a collection instance through its native add. Failed
// additions are skipped.
func (q *Sequence) Seed(elems ...any) {
	q.state = StateSeeding
	c, ok := q.recv.(value.Collection)
	if !ok {
		return
	}
	for _, e := range elems {
		added, err := c.Add(e)
		if err != nil {
			continue
		}
		q.steps = append(q.steps, recorder.NewStep("add", seedAddStep, []any{e}, value.Ok(added)))
	}
}

// SeedPairs puts keys[i]=vals[i] into a map instance. Failed puts are skipped.
func (q *Sequence) SeedPairs(keys, vals []any) {
	q.state = StateSeeding
	m, ok := q.recv.(value.Mapping)
	if !ok {
		return
	}
	for i := range keys {
		old, err := m.Put(keys[i], vals[i])
		if err != nil {
			continue
		}
		q.steps = append(q.steps, recorder.NewStep("put", seedPutStep, []any{keys[i], vals[i]}, value.Ok(old)))
	}
}

// Apply runs a builder step. Only a successful call is appended. The error
// is non-nil only when the whole operation must be abandoned.
func (q *Sequence) Apply(op *catalog.Operation, args []any) (bool, error) {
	q.state = StateBuilding
	out := invoke(op, q.recv, args)
	if out.Failed() {
		if errors.Is(out.Err, value.ErrResourceExhausted) {
			return false, out.Err
		}
		return false, nil
	}
	q.steps = append(q.steps, recorder.NewStep(op.Name, op.StepName(), args, out))
	return true, nil
}

// Target invokes the target operation and closes the attempt. An invocation
// failure is kept as an ERROR step; a non-finite floating result rejects.
func (q *Sequence) Target(op *catalog.Operation, args []any) (recorder.Sample, error) {
	q.state = StateTargeting
	out := invoke(op, q.recv, args)
	if out.Failed() && errors.Is(out.Err, value.ErrResourceExhausted) {
		q.state = StateRejected
		return recorder.Sample{}, out.Err
	}
	if !out.Failed() && value.IsInvalidFloat(out.Value) {
		q.state = StateRejected
		return recorder.Sample{}, ErrNonFinite
	}
	q.steps = append(q.steps, recorder.NewStep(op.Name, op.StepName(), args, out))
	q.state = StateAccepted
	return recorder.Sample{Steps: q.steps}, nil
}

func (q *Sequence) reject(err error) (recorder.Sample, error) {
	q.state = StateRejected
	return recorder.Sample{}, err
}

// seedRandom pre-populates the instance with probability SeedProbability.
func (q *Sequence) seedRandom() {
	rng := q.s.conc.Rand()
	if rng.Float64() >= q.s.opts.SeedProbability {
		return
	}
	switch q.recv.(type) {
	case value.Collection:
		n := 1 + rng.Intn(maxSeedElements)
		elems := make([]any, n)
		for i := range elems {
			elems[i] = q.s.conc.PrimitiveOrText()
		}
		q.Seed(elems...)
	case value.Mapping:
		n := 1 + rng.Intn(maxSeedElements)
		keys, vals := make([]any, n), make([]any, n)
		for i := 0; i < n; i++ {
			keys[i] = q.s.conc.PrimitiveOrText()
			vals[i] = q.s.conc.PrimitiveOrText()
		}
		q.SeedPairs(keys, vals)
	}
}

// buildRandom applies up to MaxBuildSteps random mutators.
func (q *Sequence) buildRandom() error {
	rng := q.s.conc.Rand()
	k := rng.Intn(q.s.opts.MaxBuildSteps + 1)
	mutators := q.s.mutatorsOf(q.typ)
	if len(mutators) == 0 {
		return nil
	}
	for i := 0; i < k; i++ {
		m := mutators[rng.Intn(len(mutators))]
		args, err := q.s.conc.ConcretizeAll(m.Params)
		if err != nil {
			continue
		}
		if _, err := q.Apply(m, args); err != nil {
			return err
		}
	}
	return nil
}

func (s *Sampler) sequenceAttempt(t *catalog.TypeInfo, op *catalog.Operation) (recorder.Sample, error) {
	q, err := s.Fresh(t)
	if err != nil {
		return recorder.Sample{}, err
	}
	q.seedRandom()
	if err := q.buildRandom(); err != nil {
		return q.reject(err)
	}
	args, err := s.conc.ConcretizeAll(op.Params)
	if err != nil {
		return q.reject(err)
	}
	return q.Target(op, args)
}
