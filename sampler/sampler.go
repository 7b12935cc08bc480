// Package sampler drives the synthesizer against eligible operations: stateful
// owners through a seeded, built-up instance, value-like owners through
// independent single-step attempts.
package sampler

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"alma.local/iogen/catalog"
	"alma.local/iogen/classify"
	"alma.local/iogen/concretizer"
	"alma.local/iogen/feedback"
	"alma.local/iogen/recorder"
	"alma.local/iogen/value"
)

var (
	// ErrConstruction means no instance could be built for the attempt.
	ErrConstruction = errors.New("construction failure")
	// ErrInvalidResult rejects an attempt whose outcome cannot be exported.
	ErrInvalidResult   = errors.New("invalid result")
	ErrNonFinite       = fmt.Errorf("%w: non-finite floating result", ErrInvalidResult)
	ErrReceiverMutated = fmt.Errorf("%w: receiver changed during the call", ErrInvalidResult)
)

const (
	DefaultMaxBuildSteps   = 8
	DefaultSeedProbability = 0.7
	maxSeedElements        = 3
)

// Options bounds the stateful builder.
type Options struct {
	MaxBuildSteps   int
	SeedProbability float64
}

func DefaultOptions() Options {
	return Options{MaxBuildSteps: DefaultMaxBuildSteps, SeedProbability: DefaultSeedProbability}
}

// Sampler is single-threaded; it owns no state beyond caches and shares the
// concretizer's random stream.
type Sampler struct {
	conc     *concretizer.Concretizer
	cls      *classify.Classifier
	opts     Options
	log      logrus.FieldLogger
	mutators map[*catalog.TypeInfo][]*catalog.Operation
}

func New(conc *concretizer.Concretizer, cls *classify.Classifier, opts Options, log logrus.FieldLogger) *Sampler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if cls == nil {
		cls = classify.Default()
	}
	return &Sampler{
		conc:     conc,
		cls:      cls,
		opts:     opts,
		log:      log,
		mutators: make(map[*catalog.TypeInfo][]*catalog.Operation),
	}
}

func (s *Sampler) mutatorsOf(t *catalog.TypeInfo) []*catalog.Operation {
	ms, ok := s.mutators[t]
	if !ok {
		ms = s.cls.Mutators(t)
		s.mutators[t] = ms
	}
	return ms
}

// invoke calls op and turns a panic into an invocation failure.
func invoke(op *catalog.Operation, recv any, args []any) (out value.Outcome) {
	defer func() {
		if r := recover(); r != nil {
			out = value.Fail(&value.PanicError{Recovered: r})
		}
	}()
	v, err := op.Invoke(recv, args)
	if err != nil {
		return value.Fail(err)
	}
	return value.Ok(v)
}

// fatal reports errors that end the whole operation rather than one attempt.
func fatal(err error) bool {
	return errors.Is(err, value.ErrResourceExhausted) || errors.Is(err, concretizer.ErrUnsupportedType)
}

// Reason maps an attempt error to a feedback rejection reason.
func Reason(err error) string {
	switch {
	case errors.Is(err, ErrConstruction):
		return feedback.ReasonConstruction
	case errors.Is(err, concretizer.ErrUnsupportedType):
		return feedback.ReasonUnsupported
	case errors.Is(err, ErrReceiverMutated):
		return feedback.ReasonMutated
	case errors.Is(err, ErrNonFinite):
		return feedback.ReasonNonFinite
	}
	return feedback.ReasonOther
}

// Attempt runs one attempt for op of owner t and returns the sample or the
// reason it was rejected.
func (s *Sampler) Attempt(t *catalog.TypeInfo, op *catalog.Operation) (recorder.Sample, error) {
	s.conc.TakeTally()
	var (
		sample recorder.Sample
		err    error
	)
	if classify.IsStateful(t) {
		sample, err = s.sequenceAttempt(t, op)
	} else {
		sample, err = s.statelessAttempt(t, op)
	}
	tally := s.conc.TakeTally()
	if err != nil {
		return recorder.Sample{}, err
	}
	sample.Tally = tally
	return sample, nil
}

// Run spends exactly rec.Target() attempts on op and records every accepted
// sample. It returns early with the cause when the operation has to be
// abandoned; the batch is then dropped.
func (s *Sampler) Run(t *catalog.TypeInfo, op *catalog.Operation, rec *recorder.Recorder) (feedback.Signature, error) {
	sig := feedback.NewSignature()
	log := s.log.WithFields(logrus.Fields{"type": t.Name, "op": op.Name})
	warned := false
	rec.Begin(op)
	for i := 0; i < rec.Target(); i++ {
		sample, err := s.Attempt(t, op)
		if err != nil {
			sig.Reject(Reason(err))
			if fatal(err) {
				rec.Abandon(op)
				return sig, fmt.Errorf("%s: %w", op.Signature(), err)
			}
			continue
		}
		if err := rec.Record(op, sample); err != nil {
			return sig, err
		}
		last := sample.Target()
		sig.Accept(len(sample.Steps), last.Failed(), sample.Tally)
		if last.Failed() && !warned {
			warned = true
			log.WithError(last.Err).Warn("Error while invoking method")
		}
	}
	return sig, nil
}
