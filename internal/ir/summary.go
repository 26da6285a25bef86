package ir

import "time"

// UndefinedAverage is reported in place of a mean when there are no samples.
const UndefinedAverage time.Duration = -1

// ReportSummary holds the folded counts for one group.
//
// Invariant: Total == Passed + Failed + Aborted. Only Add and Merge produce
// summaries, and both preserve it.
type ReportSummary struct {
	Group   string `json:"group"`
	Total   int    `json:"total"`
	Passed  int    `json:"passed"`
	Failed  int    `json:"failed"`
	Aborted int    `json:"aborted"`

	// Storage is the sum of storage deltas of results that reported one.
	Storage int64 `json:"storage"`

	// Time is the sum of per-test mean times of results that reported one.
	Time time.Duration `json:"time_ns"`

	// Timed counts results that contributed to Time.
	Timed int `json:"timed"`
}

// NewSummary returns an empty summary for a group.
func NewSummary(group string) ReportSummary {
	return ReportSummary{Group: group}
}

// Add returns a new summary with r folded in.
func (s ReportSummary) Add(r ExecutionResult) ReportSummary {
	s.Total++
	switch Classify(r) {
	case OutcomePassed:
		s.Passed++
	case OutcomeFailed:
		s.Failed++
	case OutcomeAborted:
		s.Aborted++
	}
	if r.Storage != nil {
		s.Storage += *r.Storage
	}
	if r.Elapsed != nil {
		s.Time += *r.Elapsed
		s.Timed++
	}
	return s
}

// Merge returns a new summary combining s and o under s's group label.
func (s ReportSummary) Merge(o ReportSummary) ReportSummary {
	s.Total += o.Total
	s.Passed += o.Passed
	s.Failed += o.Failed
	s.Aborted += o.Aborted
	s.Storage += o.Storage
	s.Time += o.Time
	s.Timed += o.Timed
	return s
}

// Consistent reports whether the count invariant holds.
func (s ReportSummary) Consistent() bool {
	return s.Total == s.Passed+s.Failed+s.Aborted
}

// AverageTime returns the mean time per timed result, or UndefinedAverage.
func (s ReportSummary) AverageTime() time.Duration {
	if s.Timed == 0 {
		return UndefinedAverage
	}
	return s.Time / time.Duration(s.Timed)
}

// Canonical returns the canonical JSON encoding of the summary.
// Identical summaries always produce identical bytes.
func (s ReportSummary) Canonical() ([]byte, error) {
	return MarshalCanonical(map[string]any{
		"group":   s.Group,
		"total":   s.Total,
		"passed":  s.Passed,
		"failed":  s.Failed,
		"aborted": s.Aborted,
		"storage": s.Storage,
		"time_ns": int64(s.Time),
		"timed":   s.Timed,
	})
}
