package analyzer

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alma.local/iogen/recorder"
	"alma.local/iogen/value"
)

func sample(args ...any) recorder.Sample {
	return recorder.Sample{Steps: []recorder.Step{
		recorder.NewStep("add", "add#obj", args, value.Ok(true)),
	}}
}

func TestEntries(t *testing.T) {
	es := Entries(sample(int32(1)))
	require.Len(t, es, 2, "one input slot plus the output")
	assert.NotEqual(t, es[0].Slot, es[1].Slot)
}

func TestEntropy(t *testing.T) {
	uniform := Entropy([][]Entry{Entries(sample(int32(1))), Entries(sample(int32(2)))})
	mixed := Entropy([][]Entry{Entries(sample(int32(1))), Entries(sample("x"))})
	// Same tags twice: input and output slots each carry one tag.
	assert.InDelta(t, math.Log(2), uniform, 1e-9)
	assert.Greater(t, mixed, uniform)
	assert.Equal(t, 0.0, Entropy(nil))
}

func TestScoreBatchDecreasesForRepeats(t *testing.T) {
	a := NewAnalyzer()
	batch := []recorder.Sample{sample(int32(1)), sample("x"), sample(true)}
	first := a.ScoreSamples(batch, true)
	second := a.ScoreSamples(batch, true)
	assert.Greater(t, first.KL, second.KL, "a batch already in the model is less surprising")
	assert.Equal(t, first.Entropy, second.Entropy)
	assert.Equal(t, 2, a.GetTotalDimensions())

	h := NewHistogram()
	h.Add(3)
	h.Add(3)
	h.Add(4)
	assert.InDelta(t, 2.0/3.0, h.Probability(3), 1e-9)
}
