package analyzer

import (
	"hash/fnv"
	"math"
	"strconv"
	"sync"

	"alma.local/iogen/recorder"
)

// Histogram represents the distribution of values observed in one slot.
type Histogram struct {
	Counts map[int64]uint64
	Total  uint64
}

func NewHistogram() *Histogram {
	return &Histogram{
		Counts: make(map[int64]uint64),
		Total:  0,
	}
}

// Add updates the histogram with a new value.
func (h *Histogram) Add(val int64) {
	h.Counts[val]++
	h.Total++
}

// Probability calculates P(val) given the history.
func (h *Histogram) Probability(val int64) float64 {
	if h.Total == 0 {
		return 0.0
	}
	return float64(h.Counts[val]) / float64(h.Total)
}

// Entry is one observation: the type tag seen in a slot. A slot is a step
// signature plus an argument position (or the output).
type Entry struct {
	Slot  uint64
	Value int64
}

func hash64(s string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return h.Sum64()
}

// Entries flattens a sample into its type-tag observations.
func Entries(s recorder.Sample) []Entry {
	var out []Entry
	for _, st := range s.Steps {
		for j, tag := range st.InputTypes {
			out = append(out, Entry{
				Slot:  hash64(st.Signature + "#" + strconv.Itoa(j)),
				Value: int64(hash64(tag)),
			})
		}
		out = append(out, Entry{
			Slot:  hash64(st.Signature + "#out"),
			Value: int64(hash64(st.OutputType)),
		})
	}
	return out
}

// Analyzer manages the global model of type tags across exported batches.
type Analyzer struct {
	Model       map[uint64]*Histogram
	totalEvents uint64
	mu          sync.RWMutex
}

func NewAnalyzer() *Analyzer {
	return &Analyzer{
		Model:       make(map[uint64]*Histogram),
		totalEvents: 0,
	}
}

// GetTotalDimensions returns the number of slots seen so far.
func (a *Analyzer) GetTotalDimensions() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.Model)
}

// Score is the diversity of one batch.
type Score struct {
	// Entropy of the batch's (slot, tag) distribution, in nats.
	Entropy float64
	// KL divergence of the batch from the global model before it was added.
	KL float64
}

// ScoreSamples scores a batch of samples and, if update is set, folds it into
// the global model.
func (a *Analyzer) ScoreSamples(samples []recorder.Sample, update bool) Score {
	batch := make([][]Entry, len(samples))
	for i, s := range samples {
		batch[i] = Entries(s)
	}
	return Score{Entropy: Entropy(batch), KL: a.ScoreBatch(batch, update)}
}

// Entropy is the Shannon entropy of the (slot, value) pairs in batch.
func Entropy(batch [][]Entry) float64 {
	counts := make(map[Entry]uint64)
	var total uint64
	for _, entries := range batch {
		for _, e := range entries {
			counts[e]++
			total++
		}
	}
	h := 0.0
	for _, c := range counts {
		p := float64(c) / float64(total)
		h -= p * math.Log(p)
	}
	return h
}

// ScoreBatch computes the KL divergence of a batch against the global model.
// The distribution is defined over (slot, value) pairs observed in the batch.
// It also updates the model if `update` is true.
func (a *Analyzer) ScoreBatch(batch [][]Entry, update bool) float64 {
	a.mu.Lock()
	defer a.mu.Unlock()

	batchCounts := make(map[Entry]uint64)
	var totalBatch uint64
	for _, entries := range batch {
		for _, e := range entries {
			batchCounts[e]++
			totalBatch++
		}
	}

	if totalBatch == 0 {
		return 0.0
	}

	const alpha = 1.0
	denomHist := float64(a.totalEvents) + alpha*float64(len(batchCounts))
	kl := 0.0

	for key, cnt := range batchCounts {
		pBatch := float64(cnt) / float64(totalBatch)
		var histCount uint64
		if hist, ok := a.Model[key.Slot]; ok {
			histCount = hist.Counts[key.Value]
		}
		pHist := (float64(histCount) + alpha) / denomHist
		kl += pBatch * math.Log(pBatch/pHist)
	}

	if update {
		for key, cnt := range batchCounts {
			hist, ok := a.Model[key.Slot]
			if !ok {
				hist = NewHistogram()
				a.Model[key.Slot] = hist
			}
			hist.Counts[key.Value] += cnt
			hist.Total += cnt
		}
		a.totalEvents += totalBatch
	}

	return kl
}
