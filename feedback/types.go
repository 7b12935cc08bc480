package feedback

import (
	"fmt"
	"sort"
	"strings"

	"alma.local/iogen/domains"
)

// Rejection reasons.
const (
	ReasonConstruction = "construction"
	ReasonUnsupported  = "unsupported"
	ReasonNonFinite    = "non_finite"
	ReasonMutated      = "mutated_receiver"
	ReasonOther        = "other"
)

// Signature is a compact summary of how one operation behaved while it was
// sampled.
type Signature struct {
	Attempts int
	Accepted int
	// Errors counts accepted samples whose target step failed.
	Errors int
	// Steps is the total number of steps over accepted samples.
	Steps int
	// Rejected counts discarded attempts per reason.
	Rejected map[string]int
	// Kinds counts synthesized values of accepted samples, per kind.
	Kinds map[domains.Kind]int
}

// NewSignature initializes a Signature with non-nil maps.
func NewSignature() Signature {
	return Signature{
		Rejected: make(map[string]int),
		Kinds:    make(map[domains.Kind]int),
	}
}

// Accept records an accepted attempt.
func (s *Signature) Accept(steps int, failed bool, tally map[domains.Kind]int) {
	s.Attempts++
	s.Accepted++
	s.Steps += steps
	if failed {
		s.Errors++
	}
	for k, n := range tally {
		s.Kinds[k] += n
	}
}

// Reject records a discarded attempt.
func (s *Signature) Reject(reason string) {
	s.Attempts++
	s.Rejected[reason]++
}

// RejectedTotal sums rejections over all reasons.
func (s Signature) RejectedTotal() int {
	n := 0
	for _, c := range s.Rejected {
		n += c
	}
	return n
}

// MeanLength is the mean number of steps per accepted sample.
func (s Signature) MeanLength() float64 {
	if s.Accepted == 0 {
		return 0
	}
	return float64(s.Steps) / float64(s.Accepted)
}

// Merge adds o's counts into s.
func (s *Signature) Merge(o Signature) {
	s.Attempts += o.Attempts
	s.Accepted += o.Accepted
	s.Errors += o.Errors
	s.Steps += o.Steps
	for k, n := range o.Rejected {
		s.Rejected[k] += n
	}
	for k, n := range o.Kinds {
		s.Kinds[k] += n
	}
}

func (s Signature) String() string {
	reasons := make([]string, 0, len(s.Rejected))
	for r, n := range s.Rejected {
		reasons = append(reasons, fmt.Sprintf("%s=%d", r, n))
	}
	sort.Strings(reasons)
	return fmt.Sprintf("attempts=%d accepted=%d errors=%d rejected=[%s]",
		s.Attempts, s.Accepted, s.Errors, strings.Join(reasons, " "))
}
