package report

import (
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/roach88/mutest/internal/aggregate"
	"github.com/roach88/mutest/internal/ir"
)

// WriteTable writes the group summaries as a boxed table with a totals footer.
func WriteTable(w io.Writer, title string, summaries []ir.ReportSummary) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle(title)
	t.SetStyle(table.StyleLight)

	t.AppendHeader(table.Row{"Group", "Total", "Passed", "Failed", "Aborted", "Avg usecs"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Group", WidthMax: LabelWidth, WidthMaxEnforcer: text.Trim},
		{Name: "Total", Align: text.AlignRight},
		{Name: "Passed", Align: text.AlignRight},
		{Name: "Failed", Align: text.AlignRight},
		{Name: "Aborted", Align: text.AlignRight},
		{Name: "Avg usecs", Align: text.AlignRight},
	})

	for _, s := range summaries {
		t.AppendRow(table.Row{s.Group, s.Total, s.Passed, s.Failed, s.Aborted, FormatMicros(s.AverageTime())})
	}

	total := aggregate.Total(summaries, "total")
	t.AppendFooter(table.Row{"Total", total.Total, total.Passed, total.Failed, total.Aborted, FormatMicros(total.AverageTime())})
	t.Render()
}

// WriteDeltaTable writes flagged comparisons as a boxed table.
func WriteDeltaTable(w io.Writer, d aggregate.DeltaReport) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle("Perf Delta")
	t.SetStyle(table.StyleLight)

	t.AppendHeader(table.Row{"Flags", "Test", "Bytes", "Delta", "Usecs", "Ratio"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Bytes", Align: text.AlignRight},
		{Name: "Usecs", Align: text.AlignRight},
		{Name: "Ratio", Align: text.AlignRight},
	})
	for _, e := range d.Flagged() {
		t.AppendRow(table.Row{
			"[" + mark(e.StorageFlag) + mark(e.TimeFlag) + "]",
			Snip(e.Baseline.Name, LabelWidth),
			e.Current.Storage,
			e.StorageDelta,
			FormatMicros(e.Current.Time),
			e.TimeRatio,
		})
	}
	t.AppendFooter(table.Row{"", "tests", d.Tests, d.StorageDelta, FormatMicros(d.TimeDelta), ""})
	t.Render()
}

// WritePerfTable writes one row per profiled test: bytes and mean microseconds.
func WritePerfTable(w io.Writer, namespace string, records []ir.PerfRecord) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle("Perf Metrics Report: " + namespace)
	t.SetStyle(table.StyleLight)

	t.AppendHeader(table.Row{"Line", "Test", "Bytes", "Usecs"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Line", Align: text.AlignRight},
		{Name: "Test", WidthMax: LabelWidth, WidthMaxEnforcer: text.Trim},
		{Name: "Bytes", Align: text.AlignRight},
		{Name: "Usecs", Align: text.AlignRight},
	})
	for _, rec := range records {
		usecs := ir.UndefinedAverage
		if rec.Timed {
			usecs = rec.Time
		}
		t.AppendRow(table.Row{rec.Line, rec.Name, rec.Storage, FormatMicros(usecs)})
	}
	t.Render()
}

// WritePerfSummaryTable writes storage and time totals per group.
func WritePerfSummaryTable(w io.Writer, namespace string, groups []aggregate.GroupPerf) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle("Perf Summary: " + namespace)
	t.SetStyle(table.StyleLight)

	t.AppendHeader(table.Row{"Group", "Tests", "Bytes", "Usecs"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Group", WidthMax: LabelWidth, WidthMaxEnforcer: text.Trim},
		{Name: "Tests", Align: text.AlignRight},
		{Name: "Bytes", Align: text.AlignRight},
		{Name: "Usecs", Align: text.AlignRight},
	})
	var tests int
	var storage int64
	var elapsed time.Duration
	for _, g := range groups {
		t.AppendRow(table.Row{g.Name, g.Tests, g.Storage, FormatMicros(g.Time)})
		tests += g.Tests
		storage += g.Storage
		elapsed += g.Time
	}
	t.AppendFooter(table.Row{"Total", tests, storage, FormatMicros(elapsed)})
	t.Render()
}

// WriteStorageTable writes one row per non-zero storage type of each
// profiled test.
func WriteStorageTable(w io.Writer, pr PerfReport) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle("Storage Report: " + pr.Namespace)
	t.SetStyle(table.StyleLight)

	t.AppendHeader(table.Row{"Test", "Type", "Total", "Alloc", "In use"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Test", WidthMax: LabelWidth, WidthMaxEnforcer: text.Trim, AutoMerge: true},
		{Name: "Total", Align: text.AlignRight},
		{Name: "Alloc", Align: text.AlignRight},
		{Name: "In use", Align: text.AlignRight},
	})
	for _, g := range pr.Results {
		for _, row := range g.Results {
			if row.StorageRecord == nil {
				continue
			}
			name := fmt.Sprintf("%s/%s:%d", pr.Namespace, g.Group, row.Line)
			for _, e := range row.StorageRecord.NonZero() {
				t.AppendRow(table.Row{name, e.Type, e.Total, e.Alloc, e.InUse})
			}
		}
	}
	t.Render()
}
