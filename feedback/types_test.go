package feedback

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"alma.local/iogen/domains"
)

func TestSignature(t *testing.T) {
	s := NewSignature()
	s.Accept(3, false, map[domains.Kind]int{domains.KindText: 2})
	s.Accept(1, true, map[domains.Kind]int{domains.KindText: 1, domains.KindBoolean: 1})
	s.Reject(ReasonNonFinite)
	s.Reject(ReasonNonFinite)
	s.Reject(ReasonMutated)

	assert.Equal(t, 5, s.Attempts)
	assert.Equal(t, 2, s.Accepted)
	assert.Equal(t, 1, s.Errors)
	assert.Equal(t, 3, s.RejectedTotal())
	assert.Equal(t, 2.0, s.MeanLength())
	assert.Equal(t, 3, s.Kinds[domains.KindText])
	assert.Equal(t, "attempts=5 accepted=2 errors=1 rejected=[mutated_receiver=1 non_finite=2]", s.String())

	total := NewSignature()
	total.Merge(s)
	total.Merge(s)
	assert.Equal(t, 10, total.Attempts)
	assert.Equal(t, 4, total.Rejected[ReasonNonFinite])
	assert.Equal(t, 2, total.Kinds[domains.KindBoolean])
	assert.Equal(t, 0.0, NewSignature().MeanLength())
}
