// Package driver launches the external runtime, one process per test case.
//
// The Driver is the only component that touches processes. For each case it
// builds an argument vector from a RuntimeInvocationConfig, spawns the runtime,
// drains stdout and stderr fully, waits for exit, and returns an
// ir.ExecutionResult. Processes never overlap: a child is joined before the
// next one is spawned.
//
// Three modes share the same launch path:
//
//	Execute  evaluate the expression and capture its printed value
//	Time     evaluate the timing probe N times and average the samples
//	Storage  evaluate the storage probe once and parse its record
//
// A runtime that exits non-zero is not an error here; the result carries the
// exit status and the classifier records it as aborted. Only a runtime that
// cannot be started at all is reported as a *LaunchError.
package driver
