package ir

// Version constants for the report schema and the harness.
const (
	// ReportVersion is the structured report schema version.
	ReportVersion = "1"

	// HarnessVersion is the mutest version.
	HarnessVersion = "0.1.0"
)
