// Package store provides SQLite-backed durable storage for harness runs.
//
// A run is one execution of a namespace, either a test run or a perf run.
// The store keeps:
//   - Runs: namespace, kind, label, creation time, and a logical seq
//   - Results: every execution result of a run, in execution order
//
// Stored runs are the baselines for delta comparison: a perf run can be
// compared against any earlier run by ID, or against the latest run of its
// namespace.
//
// # Ordering
//
// All ordering uses seq INTEGER, never timestamps. Runs get the next seq at
// insert; results carry their position within the run. Listings order by
// seq ASC and LatestRun takes the highest seq, so reads are deterministic.
//
// The database runs in WAL mode with foreign keys on; results rows are
// deleted with their run.
//
// Test identity (results.test_id) is ir.TestCaseID: SHA-256 over canonical
// JSON with domain separation, stable across line shifts.
package store
