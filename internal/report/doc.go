// Package report defines the structured test and perf reports and renders
// them for humans.
//
// The structured reports are JSON documents written by the test and perf
// commands and read back by the summarizing commands. The renderers are pure:
// the same report always renders to the same bytes, and no timestamps are
// embedded.
//
// Long fields are snipped to fixed column widths: test labels and
// expressions to 30 columns, expected and observed values to 15, with a
// trailing "..." marking the cut.
package report
