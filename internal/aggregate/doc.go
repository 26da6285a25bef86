// Package aggregate folds execution results into summaries and compares
// performance runs.
//
// Every function here is pure: the same inputs always produce the same
// outputs, in the same order. Summaries are built with ir.ReportSummary.Add,
// a value-returning fold, so there is no shared accumulator to reset between
// groups or runs.
package aggregate
