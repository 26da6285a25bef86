package ir

import "time"

// TestCase is one expression/expected-output pair loaded from a test source.
type TestCase struct {
	Namespace  string `json:"namespace"`
	Group      string `json:"group"`
	Expression string `json:"expression"`
	Expected   string `json:"expected"`
	SourceLine int    `json:"source_line"` // 1-based line in the group file
}

// Label returns the "namespace/group" label used for grouping and reports.
func (tc TestCase) Label() string {
	if tc.Namespace == "" {
		return tc.Group
	}
	return tc.Namespace + "/" + tc.Group
}

// ExecutionResult is what the driver observed for one TestCase.
// Created once per invocation and consumed exactly once by the aggregator.
type ExecutionResult struct {
	Case TestCase `json:"case"`

	// Observed is captured stdout with exactly one trailing newline trimmed.
	Observed string `json:"observed"`

	// Error is captured stderr with exactly one trailing newline trimmed.
	Error string `json:"error,omitempty"`

	// ExitStatus is the child's exit code. -1 means killed (timeout or signal).
	ExitStatus int `json:"exit_status"`

	// Wall is the measured wall time of the child process.
	Wall time.Duration `json:"wall_ns"`

	// Elapsed is the mean of runtime-reported timing samples (timing mode only).
	// Nil when no valid samples were observed.
	Elapsed *time.Duration `json:"elapsed_ns,omitempty"`

	// Samples holds the raw timing samples in microseconds (timing mode only).
	Samples []int64 `json:"samples_us,omitempty"`

	// Storage is the total storage delta (storage mode only).
	Storage *int64 `json:"storage,omitempty"`

	// StorageRecord is the parsed storage probe output (storage mode only).
	StorageRecord *StorageRecord `json:"storage_record,omitempty"`
}

// Outcome returns the classification of this result.
func (r ExecutionResult) Outcome() Outcome {
	return Classify(r)
}

// PerfRecord is a flattened performance measurement used by delta comparison.
// Key identifies the same test across runs.
type PerfRecord struct {
	Key     string        `json:"key"`
	Name    string        `json:"name"` // "namespace/group"
	Line    int           `json:"line"`
	Storage int64         `json:"storage"`
	Time    time.Duration `json:"time_ns"`
	Timed   bool          `json:"timed"`
}
