package report

import (
	"encoding/json"
	"fmt"
	"io"
	"iter"
	"math"
	"time"

	"github.com/roach88/mutest/internal/aggregate"
	"github.com/roach88/mutest/internal/ir"
)

// PerfReport is the structured result of profiling one namespace.
type PerfReport struct {
	Version   string      `json:"version"`
	Namespace string      `json:"namespace"`
	Results   []PerfGroup `json:"results"`
}

// PerfGroup holds the rows of one group in source order.
type PerfGroup struct {
	Group   string    `json:"group"`
	Results []PerfRow `json:"results"`
}

// PerfRow is the storage and timing measurement of one expression.
type PerfRow struct {
	Line          int               `json:"line"`
	Expression    string            `json:"expression"`
	Storage       *int64            `json:"storage,omitempty"`
	StorageRecord *ir.StorageRecord `json:"storage_record,omitempty"`
	TimesUS       []int64           `json:"times_us"`
	MeanUS        *float64          `json:"mean_us,omitempty"`
	Error         string            `json:"error,omitempty"`
	ExitStatus    int               `json:"exit_status"`
}

// PerfRowOf converts a profiled result into a perf row.
func PerfRowOf(r ir.ExecutionResult) PerfRow {
	row := PerfRow{
		Line:          r.Case.SourceLine,
		Expression:    r.Case.Expression,
		Storage:       r.Storage,
		StorageRecord: r.StorageRecord,
		TimesUS:       r.Samples,
		Error:         r.Error,
		ExitStatus:    r.ExitStatus,
	}
	if row.TimesUS == nil {
		row.TimesUS = []int64{}
	}
	if r.Elapsed != nil {
		us := float64(*r.Elapsed) / float64(time.Microsecond)
		row.MeanUS = &us
	}
	return row
}

// NewPerfReport returns an empty perf report for namespace.
func NewPerfReport(namespace string) *PerfReport {
	return &PerfReport{Version: ir.ReportVersion, Namespace: namespace, Results: []PerfGroup{}}
}

// Add appends a perf row under its group.
func (pr *PerfReport) Add(r ir.ExecutionResult) {
	for i := range pr.Results {
		if pr.Results[i].Group == r.Case.Group {
			pr.Results[i].Results = append(pr.Results[i].Results, PerfRowOf(r))
			return
		}
	}
	pr.Results = append(pr.Results, PerfGroup{Group: r.Case.Group, Results: []PerfRow{PerfRowOf(r)}})
}

// Executions reconstructs execution results from the rows.
func (pr PerfReport) Executions() iter.Seq[ir.ExecutionResult] {
	return func(yield func(ir.ExecutionResult) bool) {
		for _, g := range pr.Results {
			for _, row := range g.Results {
				r := ir.ExecutionResult{
					Case: ir.TestCase{
						Namespace:  pr.Namespace,
						Group:      g.Group,
						Expression: row.Expression,
						SourceLine: row.Line,
					},
					Error:         row.Error,
					ExitStatus:    row.ExitStatus,
					Storage:       row.Storage,
					StorageRecord: row.StorageRecord,
					Samples:       row.TimesUS,
				}
				if row.MeanUS != nil {
					d := time.Duration(math.Round(*row.MeanUS * float64(time.Microsecond)))
					r.Elapsed = &d
				} else if mean, ok := aggregate.Mean(row.TimesUS); ok {
					r.Elapsed = &mean
				}
				if !yield(r) {
					return
				}
			}
		}
	}
}

// Records flattens the report into keyed PerfRecords for comparison.
func (pr PerfReport) Records() []ir.PerfRecord {
	return aggregate.Records(pr.Executions())
}

// DecodePerf reads a PerfReport.
func DecodePerf(r io.Reader) (PerfReport, error) {
	var pr PerfReport
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&pr); err != nil {
		return PerfReport{}, fmt.Errorf("decode perf report: %w", err)
	}
	if pr.Namespace == "" {
		return PerfReport{}, fmt.Errorf("decode perf report: missing namespace")
	}
	return pr, nil
}
