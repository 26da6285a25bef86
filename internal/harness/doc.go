// Package harness runs a namespace of test sources through the execution
// driver and folds the results into reports.
//
// # Test runs
//
// RunNamespace reads the namespace's group listing, loads every group in
// listing order, and evaluates each valid case in a fresh runtime process.
// Malformed source lines become report rows and never reach the runtime.
//
//	<base>/<namespace>/tests      group listing, one file name per line
//	<base>/<namespace>/<group>    expression TAB expected, one case per line
//
// # Perf runs
//
// RunPerf loads only the expression column of each group and measures
// every expression twice: once under the storage probe, then under the
// timing probe repeated N times.
//
// # Failure model
//
// Aborted cases (non-zero exit, timeout) are recorded and the run
// continues. A runtime that cannot be started, or a cancelled context,
// stops the run; the partial report is returned alongside the error.
//
// When a store is configured, the run and its results are written in one
// batch after the last case completes.
package harness
