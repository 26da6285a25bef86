// Package ir provides the data model shared by every mutest component.
//
// This package contains type definitions and pure functions only. All other
// internal packages import ir; ir imports nothing internal.
//
// Key design constraints:
//   - TestCase and ExecutionResult are values, never mutated after creation
//   - Outcome is derived from an ExecutionResult, never stored independently
//   - ReportSummary is folded with value-returning methods, no shared counters
//   - All JSON tags use snake_case
//   - Canonical JSON carries no floats; durations serialize as int64 nanoseconds
package ir
