// Package metrics records per-run counters for the node-exporter textfile
// collector.
//
// Each run gets its own registry, so a textfile holds exactly one run and
// nothing from the default process collectors.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/roach88/mutest/internal/ir"
)

// MetricsNamespace prefixes every metric name.
const MetricsNamespace = "mutest"

// EvalBuckets spans a fast builtin call to a slow runtime start.
var EvalBuckets = []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}

// Recorder collects metrics for one run. A nil *Recorder ignores observations.
type Recorder struct {
	reg      *prometheus.Registry
	outcomes *prometheus.CounterVec
	eval     *prometheus.HistogramVec
	storage  *prometheus.GaugeVec
}

// New creates a Recorder backed by a fresh registry.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		reg: reg,
		outcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: MetricsNamespace,
			Name:      "outcomes_total",
			Help:      "Count of test outcomes",
		}, []string{
			"namespace",
			"group",
			"outcome",
		}),
		eval: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: MetricsNamespace,
			Name:      "eval_seconds",
			Help:      "Wall time of one runtime invocation",
			Buckets:   EvalBuckets,
		}, []string{
			"namespace",
		}),
		storage: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: MetricsNamespace,
			Name:      "storage_bytes",
			Help:      "Storage allocated by a group's expressions",
		}, []string{
			"namespace",
			"group",
		}),
	}
}

// Outcome labels of profiled expressions, which have no expected value to
// pass or fail against.
const (
	PerfMeasured  = "measured"
	PerfException = "exception"
)

// Observe records one test result under its outcome.
func (r *Recorder) Observe(res ir.ExecutionResult) {
	if r == nil {
		return
	}
	r.observe(res, res.Outcome().String())
}

// ObservePerf records one profiled result. A probe that exited non-zero or
// wrote to stderr counts as an exception, anything else as measured.
func (r *Recorder) ObservePerf(res ir.ExecutionResult) {
	if r == nil {
		return
	}
	label := PerfMeasured
	if res.ExitStatus != 0 || res.Error != "" {
		label = PerfException
	}
	r.observe(res, label)
}

func (r *Recorder) observe(res ir.ExecutionResult, outcome string) {
	ns, group := res.Case.Namespace, res.Case.Group
	r.outcomes.WithLabelValues(ns, group, outcome).Inc()
	if res.Wall > 0 {
		r.eval.WithLabelValues(ns).Observe(res.Wall.Seconds())
	}
	if res.Storage != nil {
		r.storage.WithLabelValues(ns, group).Add(float64(*res.Storage))
	}
}

// Gatherer exposes the run's registry.
func (r *Recorder) Gatherer() prometheus.Gatherer {
	return r.reg
}

// WriteTextfile writes the run's metrics in text exposition format.
// The file is replaced atomically.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, r.reg); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
