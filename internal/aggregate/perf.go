package aggregate

import (
	"iter"
	"time"

	"github.com/roach88/mutest/internal/ir"
)

// Records flattens performance results into PerfRecords keyed by
// ir.TestCaseID. Repeated expressions within a group get successive
// occurrence numbers, so keys stay stable across runs.
func Records(results iter.Seq[ir.ExecutionResult]) []ir.PerfRecord {
	occ := make(ir.Occurrences)
	var out []ir.PerfRecord
	for r := range results {
		rec := ir.PerfRecord{
			Key:  occ.ID(r.Case),
			Name: r.Case.Label(),
			Line: r.Case.SourceLine,
		}
		if r.Storage != nil {
			rec.Storage = *r.Storage
		}
		if r.Elapsed != nil {
			rec.Time = *r.Elapsed
			rec.Timed = true
		}
		out = append(out, rec)
	}
	return out
}

// GroupPerf is the storage and time total of one group.
type GroupPerf struct {
	Name    string        `json:"name"`
	Tests   int           `json:"tests"`
	Storage int64         `json:"storage"`
	Time    time.Duration `json:"time_ns"`
}

// Perf totals records per group, in first-seen order.
func Perf(records []ir.PerfRecord) []GroupPerf {
	index := make(map[string]int)
	var out []GroupPerf
	for _, rec := range records {
		i, ok := index[rec.Name]
		if !ok {
			i = len(out)
			index[rec.Name] = i
			out = append(out, GroupPerf{Name: rec.Name})
		}
		out[i].Tests++
		out[i].Storage += rec.Storage
		out[i].Time += rec.Time
	}
	return out
}
