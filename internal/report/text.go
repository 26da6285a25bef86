package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/roach88/mutest/internal/aggregate"
	"github.com/roach88/mutest/internal/ir"
)

// Column widths for snipped fields.
const (
	LabelWidth = 30
	ValueWidth = 15
	GroupWidth = 14
)

const snipIndicator = "..."

const rule = "-----------------------"

// Snip shortens s to width columns, marking the cut with "...".
func Snip(s string, width int) string {
	return text.Snip(s, width, snipIndicator)
}

// FormatMicros renders a duration in microseconds with two decimals, or
// "n/a" for ir.UndefinedAverage.
func FormatMicros(d time.Duration) string {
	if d == ir.UndefinedAverage {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", float64(d)/float64(time.Microsecond))
}

// WriteSummary writes per-group counts followed by a totals line.
func WriteSummary(w io.Writer, namespace string, summaries []ir.ReportSummary) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Namespace Test Summary: %s\n", namespace)
	b.WriteString(rule + "\n")
	for _, s := range summaries {
		writeCounts(&b, Snip(s.Group, LabelWidth), s)
	}
	b.WriteString(rule + "\n")
	writeCounts(&b, namespace, aggregate.Total(summaries, namespace))
	_, err := io.WriteString(w, b.String())
	return err
}

func writeCounts(b *strings.Builder, label string, s ir.ReportSummary) {
	fmt.Fprintf(b, "%-30s total: %-6d passed: %-6d failed: %-6d aborted: %d\n",
		label, s.Total, s.Passed, s.Failed, s.Aborted)
}

// WriteFailures writes one row per failed, aborted, or malformed test,
// followed by the namespace totals.
//
// Aborted rows show the runtime's error text in place of the observed value.
func WriteFailures(w io.Writer, nr NamespaceReport) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Test Failures: %s\n", nr.Namespace)
	b.WriteString(rule + "\n")
	for _, g := range nr.Groups {
		for _, row := range g.Results {
			outcome, ok := row.Outcome()
			var status, form, expected, observed string
			switch {
			case !ok:
				status, form = "malformed", row.Raw
			case outcome == ir.OutcomePassed:
				continue
			case outcome == ir.OutcomeAborted:
				status, form, expected, observed = "aborted", row.Expression, row.Expected, row.Error
			default:
				status, form, expected, observed = "failed", row.Expression, row.Expected, row.Observed
			}
			fmt.Fprintf(&b, "%-14s %3d %-30s %-15s %-15s %s\n",
				Snip(g.Group, GroupWidth), row.Line,
				Snip(oneLine(form), LabelWidth),
				Snip(oneLine(expected), ValueWidth),
				Snip(oneLine(observed), ValueWidth),
				status)
		}
	}
	b.WriteString(rule + "\n")
	writeCounts(&b, nr.Namespace, aggregate.Total(nr.Summaries(), nr.Namespace))
	if n := nr.MalformedCount(); n > 0 {
		fmt.Fprintf(&b, "malformed lines: %d\n", n)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// WriteDelta writes flagged comparisons followed by counts and totals.
//
// Each flagged row starts with a two-column marker: "*" in the first column
// for a storage change, in the second for a time change.
func WriteDelta(w io.Writer, d aggregate.DeltaReport) error {
	var b strings.Builder
	b.WriteString("Perf Delta Report\n")
	b.WriteString(rule + "\n")
	for _, e := range d.Flagged() {
		fmt.Fprintf(&b, "[%s%s] %02d %-30s bytes: (%d/%d, %d, %.2f) times: (%s/%s, %s, %.2f)\n",
			mark(e.StorageFlag), mark(e.TimeFlag), e.Nth,
			Snip(e.Baseline.Name, LabelWidth),
			e.Baseline.Storage, e.Current.Storage, e.StorageDelta, e.StorageRatio,
			FormatMicros(e.Baseline.Time), FormatMicros(e.Current.Time),
			FormatMicros(e.TimeDelta), e.TimeRatio)
	}
	b.WriteString(rule + "\n")
	fmt.Fprintf(&b, "ntests: %-6d size: %-6d times: %d\n", d.Tests, d.SizeChanged, d.TimeChanged)
	fmt.Fprintf(&b, "deltas: bytes: %-6d times: %s\n", d.StorageDelta, FormatMicros(d.TimeDelta))
	if len(d.Unmatched)+len(d.Missing)+len(d.Added) > 0 {
		fmt.Fprintf(&b, "unmatched: %d missing: %d added: %d\n", len(d.Unmatched), len(d.Missing), len(d.Added))
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func mark(flag bool) string {
	if flag {
		return "*"
	}
	return " "
}

// WritePerf writes one line per profiled test: bytes allocated and mean
// microseconds.
func WritePerf(w io.Writer, namespace string, records []ir.PerfRecord) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Perf Metrics Report: %s\n", namespace)
	b.WriteString(rule + "\n")
	for _, rec := range records {
		usecs := ir.UndefinedAverage
		if rec.Timed {
			usecs = rec.Time
		}
		fmt.Fprintf(&b, "%02d %-30s bytes: %6d usecs: %8s\n",
			rec.Line, Snip(rec.Name, LabelWidth), rec.Storage, FormatMicros(usecs))
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// WritePerfSummary writes storage and time totals per group.
func WritePerfSummary(w io.Writer, namespace string, groups []aggregate.GroupPerf) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Perf Summary: %s\n", namespace)
	b.WriteString(rule + "\n")
	for _, g := range groups {
		fmt.Fprintf(&b, "%-30s %4d %8d %15s\n",
			Snip(g.Name, LabelWidth), g.Tests, g.Storage, FormatMicros(g.Time))
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// WriteStorage writes the per-type storage breakdown of each profiled test.
// Only types with a non-zero total are listed.
func WriteStorage(w io.Writer, pr PerfReport) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Storage Report: %s\n", pr.Namespace)
	b.WriteString(rule + "\n")
	for _, g := range pr.Results {
		for _, row := range g.Results {
			if row.StorageRecord == nil {
				continue
			}
			name := fmt.Sprintf("%s/%s:%d", pr.Namespace, g.Group, row.Line)
			fmt.Fprintf(&b, "%-30s %d", Snip(name, LabelWidth), row.StorageRecord.Total())
			for _, e := range row.StorageRecord.NonZero() {
				fmt.Fprintf(&b, " %s (%d %d %d)", e.Type, e.Total, e.Alloc, e.InUse)
			}
			b.WriteString("\n")
		}
	}
	b.WriteString(rule + "\n")
	_, err := io.WriteString(w, b.String())
	return err
}

// oneLine keeps multi-line values on a single report row.
func oneLine(s string) string {
	return strings.ReplaceAll(s, "\n", `\n`)
}
