// Package stats keeps the run counters in a private prometheus registry and
// renders the end-of-run report.
package stats

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"alma.local/iogen/domains"
	"alma.local/iogen/feedback"
)

const namespace = "iogen"

// primitiveKinds are the kinds whose counts form the diversity denominator.
var primitiveKinds = []domains.Kind{
	domains.KindIntegral, domains.KindFloating, domains.KindBoolean,
	domains.KindCharacter, domains.KindText,
}

// Stats collects run-wide counters for the single driver goroutine.
type Stats struct {
	reg *prometheus.Registry

	Types       prometheus.Counter
	Candidates  prometheus.Counter
	Eligible    prometheus.Counter
	Exported    prometheus.Counter
	Dropped     prometheus.Counter
	Abandoned   prometheus.Counter
	Synthesized *prometheus.CounterVec
	Rejected    *prometheus.CounterVec
	ExportTime  prometheus.Histogram

	samplesPerOp int
	exportTotal  time.Duration
}

func counter(name, help string) prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: name, Help: help})
}

// New registers every collector in a fresh registry.
func New(samplesPerOp int) *Stats {
	s := &Stats{
		reg:        prometheus.NewRegistry(),
		Types:      counter("types_total", "Host types visited."),
		Candidates: counter("operations_total", "Operations declared by visited types."),
		Eligible:   counter("operations_eligible_total", "Operations passing classification."),
		Exported:   counter("operations_exported_total", "Operations with an exported batch."),
		Dropped:    counter("operations_dropped_total", "Operations whose batch fell short of the target."),
		Abandoned:  counter("operations_abandoned_total", "Operations aborted by a fatal error."),
		Synthesized: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "synthesized_values_total",
			Help:      "Synthesized values in accepted attempts, by kind.",
		}, []string{"kind"}),
		Rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "attempts_rejected_total",
			Help:      "Rejected attempts, by reason.",
		}, []string{"reason"}),
		ExportTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_seconds",
			Help:      "Wall-clock time per exported operation.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}),
		samplesPerOp: samplesPerOp,
	}
	s.reg.MustRegister(s.Types, s.Candidates, s.Eligible, s.Exported, s.Dropped,
		s.Abandoned, s.Synthesized, s.Rejected, s.ExportTime)
	return s
}

// Registry exposes the private registry.
func (s *Stats) Registry() *prometheus.Registry { return s.reg }

// Observe folds one operation's outcome signature into the counters.
func (s *Stats) Observe(sig feedback.Signature) {
	for k, n := range sig.Kinds {
		s.Synthesized.WithLabelValues(k.String()).Add(float64(n))
	}
	for reason, n := range sig.Rejected {
		s.Rejected.WithLabelValues(reason).Add(float64(n))
	}
}

// ObserveExport records an exported operation and how long it took.
func (s *Stats) ObserveExport(d time.Duration) {
	s.Exported.Inc()
	s.ExportTime.Observe(d.Seconds())
	s.exportTotal += d
}

// WriteTextfile writes the registry in the prometheus text format.
func (s *Stats) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, s.reg)
}

// Snapshot is a plain copy of the counters.
type Snapshot struct {
	Types, Candidates, Eligible, Exported, Dropped, Abandoned int
	Synthesized                                               map[string]int
	Rejected                                                  map[string]int
	MeanExport                                                time.Duration
}

// Snapshot gathers the current counter values.
func (s *Stats) Snapshot() (Snapshot, error) {
	mfs, err := s.reg.Gather()
	if err != nil {
		return Snapshot{}, fmt.Errorf("gather metrics: %w", err)
	}
	snap := Snapshot{Synthesized: map[string]int{}, Rejected: map[string]int{}}
	scalars := map[string]*int{
		namespace + "_types_total":                &snap.Types,
		namespace + "_operations_total":           &snap.Candidates,
		namespace + "_operations_eligible_total":  &snap.Eligible,
		namespace + "_operations_exported_total":  &snap.Exported,
		namespace + "_operations_dropped_total":   &snap.Dropped,
		namespace + "_operations_abandoned_total": &snap.Abandoned,
	}
	for _, mf := range mfs {
		if dst, ok := scalars[mf.GetName()]; ok {
			for _, m := range mf.GetMetric() {
				*dst += int(m.GetCounter().GetValue())
			}
			continue
		}
		var labelled map[string]int
		switch mf.GetName() {
		case namespace + "_synthesized_values_total":
			labelled = snap.Synthesized
		case namespace + "_attempts_rejected_total":
			labelled = snap.Rejected
		default:
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				labelled[lp.GetValue()] += int(m.GetCounter().GetValue())
			}
		}
	}
	if snap.Exported > 0 {
		snap.MeanExport = s.exportTotal / time.Duration(snap.Exported)
	}
	return snap, nil
}

// Diversity returns the share of each synthesized kind, in percent of all
// primitive and text values.
func (snap Snapshot) Diversity() map[string]float64 {
	total := 0
	for _, k := range primitiveKinds {
		total += snap.Synthesized[k.String()]
	}
	out := make(map[string]float64, len(snap.Synthesized))
	if total == 0 {
		return out
	}
	for k, n := range snap.Synthesized {
		out[k] = float64(n) / float64(total) * 100
	}
	return out
}

// Report renders the end-of-run summary.
func (s *Stats) Report() (string, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	sb.WriteString("----------\n")
	fmt.Fprintf(&sb, "Total types: %d\n", snap.Types)
	fmt.Fprintf(&sb, "Total operations: %d\n", snap.Candidates)
	fmt.Fprintf(&sb, "Eligible operations: %d\n", snap.Eligible)
	fmt.Fprintf(&sb, "Operations in scope: %d\n", snap.Exported)
	if snap.Dropped+snap.Abandoned > 0 {
		fmt.Fprintf(&sb, "Dropped: %d, abandoned: %d\n", snap.Dropped, snap.Abandoned)
	}
	fmt.Fprintf(&sb, "Avg. time per operation (%d samples): %dms\n", s.samplesPerOp, snap.MeanExport.Milliseconds())

	div := snap.Diversity()
	kinds := make([]string, 0, len(div))
	for k := range div {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	if len(kinds) > 0 {
		sb.WriteString("Data diversity:")
		for _, k := range kinds {
			fmt.Fprintf(&sb, " %.0f%% %s", div[k], k)
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("----------\n")
	return sb.String(), nil
}
