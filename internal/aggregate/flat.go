package aggregate

import (
	"iter"
	"time"

	"github.com/roach88/mutest/internal/ir"
)

// KeyFunc selects the group a result is summarized under.
type KeyFunc func(ir.ExecutionResult) string

// ByLabel groups results by "namespace/group".
func ByLabel(r ir.ExecutionResult) string {
	return r.Case.Label()
}

// ByGroup groups results by group name alone.
func ByGroup(r ir.ExecutionResult) string {
	return r.Case.Group
}

// Flat folds results into one summary per key in a single pass.
// Summaries are returned in the order their key was first seen.
func Flat(results iter.Seq[ir.ExecutionResult], key KeyFunc) []ir.ReportSummary {
	if key == nil {
		key = ByLabel
	}
	index := make(map[string]int)
	var out []ir.ReportSummary
	for r := range results {
		k := key(r)
		i, ok := index[k]
		if !ok {
			i = len(out)
			index[k] = i
			out = append(out, ir.NewSummary(k))
		}
		out[i] = out[i].Add(r)
	}
	return out
}

// Total merges summaries into a single summary labeled label.
func Total(summaries []ir.ReportSummary, label string) ir.ReportSummary {
	total := ir.NewSummary(label)
	for _, s := range summaries {
		total = total.Merge(s)
	}
	return total
}

// Mean returns the arithmetic mean of microsecond samples.
// It returns false when there are no samples; the mean is then undefined.
func Mean(samples []int64) (time.Duration, bool) {
	if len(samples) == 0 {
		return 0, false
	}
	var sum int64
	for _, s := range samples {
		sum += s
	}
	return time.Duration(sum) * time.Microsecond / time.Duration(len(samples)), true
}
