package harness

import (
	"log/slog"

	"github.com/roach88/mutest/internal/ir"
	"github.com/roach88/mutest/internal/metrics"
	"github.com/roach88/mutest/internal/report"
	"github.com/roach88/mutest/internal/store"
)

// Options configures a run. The zero value runs every group, logs nowhere,
// and persists nothing.
type Options struct {
	// Groups restricts the run to the named groups, in listing order.
	Groups []string

	// Label is stored with the run.
	Label string

	Logger  *slog.Logger
	Metrics *metrics.Recorder
	Store   *store.Store
}

// Result is the outcome of a test run.
type Result struct {
	Report    *report.NamespaceReport
	Summaries []ir.ReportSummary

	// Results holds every executed case in execution order.
	Results []ir.ExecutionResult

	// Run is the stored run, nil when no store is configured.
	Run *store.Run
}

// Passed reports whether every case passed and no line was malformed.
func (r *Result) Passed() bool {
	if r.Report.MalformedCount() > 0 {
		return false
	}
	for _, s := range r.Summaries {
		if s.Failed > 0 || s.Aborted > 0 {
			return false
		}
	}
	return true
}

// PerfResult is the outcome of a perf run.
type PerfResult struct {
	Report  *report.PerfReport
	Records []ir.PerfRecord
	Results []ir.ExecutionResult
	Run     *store.Run
}
