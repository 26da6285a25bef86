package report

import (
	"encoding/json"
	"fmt"
	"io"
	"iter"

	"github.com/roach88/mutest/internal/aggregate"
	"github.com/roach88/mutest/internal/ir"
	"github.com/roach88/mutest/internal/testsource"
)

// NamespaceReport is the structured result of running one namespace.
type NamespaceReport struct {
	Version   string        `json:"version"`
	Namespace string        `json:"namespace"`
	Groups    []GroupReport `json:"groups"`
}

// GroupReport holds the rows of one group in source order.
type GroupReport struct {
	Group   string      `json:"group"`
	Results []ResultRow `json:"results"`
}

// ResultRow is one test outcome, or one malformed source line.
type ResultRow struct {
	Line       int    `json:"line"`
	Exception  bool   `json:"exception"`
	Pass       bool   `json:"pass"`
	Expression string `json:"expression"`
	Expected   string `json:"expected"`
	Observed   string `json:"observed"`
	Error      string `json:"error,omitempty"`
	ExitStatus int    `json:"exit_status"`
	Malformed  bool   `json:"malformed,omitempty"`
	Raw        string `json:"raw,omitempty"`
}

// Outcome returns the row's classification. Malformed rows have none.
func (r ResultRow) Outcome() (ir.Outcome, bool) {
	switch {
	case r.Malformed:
		return 0, false
	case r.Exception:
		return ir.OutcomeAborted, true
	case r.Pass:
		return ir.OutcomePassed, true
	default:
		return ir.OutcomeFailed, true
	}
}

// RowOf converts an execution result into a report row.
func RowOf(r ir.ExecutionResult) ResultRow {
	outcome := r.Outcome()
	return ResultRow{
		Line:       r.Case.SourceLine,
		Exception:  outcome == ir.OutcomeAborted,
		Pass:       outcome == ir.OutcomePassed,
		Expression: r.Case.Expression,
		Expected:   r.Case.Expected,
		Observed:   r.Observed,
		Error:      r.Error,
		ExitStatus: r.ExitStatus,
	}
}

// MalformedRow converts a malformed source line into a report row.
func MalformedRow(m *testsource.MalformedTestCase) ResultRow {
	return ResultRow{
		Line:      m.Line,
		Malformed: true,
		Raw:       m.Raw,
		Error:     m.Error(),
	}
}

// NewNamespaceReport returns an empty report for namespace.
func NewNamespaceReport(namespace string) *NamespaceReport {
	return &NamespaceReport{Version: ir.ReportVersion, Namespace: namespace, Groups: []GroupReport{}}
}

// Add appends a result row under its group.
func (nr *NamespaceReport) Add(r ir.ExecutionResult) {
	g := nr.group(r.Case.Group)
	g.Results = append(g.Results, RowOf(r))
}

// AddMalformed appends a malformed-line row under its group.
func (nr *NamespaceReport) AddMalformed(m *testsource.MalformedTestCase) {
	g := nr.group(m.Group)
	g.Results = append(g.Results, MalformedRow(m))
}

// group returns the named group, creating it at the end if absent.
func (nr *NamespaceReport) group(name string) *GroupReport {
	for i := range nr.Groups {
		if nr.Groups[i].Group == name {
			return &nr.Groups[i]
		}
	}
	nr.Groups = append(nr.Groups, GroupReport{Group: name, Results: []ResultRow{}})
	return &nr.Groups[len(nr.Groups)-1]
}

// Results reconstructs execution results from the rows, skipping malformed
// rows. Reclassifying a reconstructed result yields the row's outcome.
func (nr NamespaceReport) Results() iter.Seq[ir.ExecutionResult] {
	return func(yield func(ir.ExecutionResult) bool) {
		for _, g := range nr.Groups {
			for _, row := range g.Results {
				if row.Malformed {
					continue
				}
				r := ir.ExecutionResult{
					Case: ir.TestCase{
						Namespace:  nr.Namespace,
						Group:      g.Group,
						Expression: row.Expression,
						Expected:   row.Expected,
						SourceLine: row.Line,
					},
					Observed:   row.Observed,
					Error:      row.Error,
					ExitStatus: row.ExitStatus,
				}
				// Rows written by other tools may carry only the flags.
				if row.Exception && r.ExitStatus == 0 {
					r.ExitStatus = 1
				}
				if !yield(r) {
					return
				}
			}
		}
	}
}

// Summaries folds the report into one summary per group.
func (nr NamespaceReport) Summaries() []ir.ReportSummary {
	return aggregate.Flat(nr.Results(), aggregate.ByLabel)
}

// MalformedCount returns the number of malformed-line rows.
func (nr NamespaceReport) MalformedCount() int {
	n := 0
	for _, g := range nr.Groups {
		for _, row := range g.Results {
			if row.Malformed {
				n++
			}
		}
	}
	return n
}

// Encode writes v as indented JSON without HTML escaping.
func Encode(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}

// DecodeNamespace reads a NamespaceReport.
func DecodeNamespace(r io.Reader) (NamespaceReport, error) {
	var nr NamespaceReport
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&nr); err != nil {
		return NamespaceReport{}, fmt.Errorf("decode namespace report: %w", err)
	}
	if nr.Namespace == "" {
		return NamespaceReport{}, fmt.Errorf("decode namespace report: missing namespace")
	}
	return nr, nil
}
