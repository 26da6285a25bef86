package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/roach88/mutest/internal/ir"
)

// RunKind distinguishes test runs from perf runs.
type RunKind string

const (
	KindTest RunKind = "test"
	KindPerf RunKind = "perf"
)

// Run is one stored execution of a namespace.
type Run struct {
	ID             string    `json:"id"`
	Namespace      string    `json:"namespace"`
	Kind           RunKind   `json:"kind"`
	Label          string    `json:"label,omitempty"`
	HarnessVersion string    `json:"harness_version"`
	CreatedAt      time.Time `json:"created_at"`
	Seq            int64     `json:"seq"`
}

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// CreateRun assigns an ID and creation time to a new run and writes it.
func (s *Store) CreateRun(ctx context.Context, namespace string, kind RunKind, label string) (Run, error) {
	run := Run{
		ID:             s.ids.Generate(),
		Namespace:      namespace,
		Kind:           kind,
		Label:          label,
		HarnessVersion: ir.HarnessVersion,
		CreatedAt:      s.clock().UTC(),
	}
	seq, err := s.WriteRun(ctx, run)
	if err != nil {
		return Run{}, err
	}
	run.Seq = seq
	return run, nil
}

// WriteRun inserts a run record and returns the seq it was assigned.
// Seq is one past the highest existing seq, so runs order by insertion.
func (s *Store) WriteRun(ctx context.Context, run Run) (int64, error) {
	if run.ID == "" {
		return 0, fmt.Errorf("write run: empty id")
	}
	switch run.Kind {
	case KindTest, KindPerf:
	default:
		return 0, fmt.Errorf("write run: unknown kind %q", run.Kind)
	}

	var seq int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO runs
		(id, namespace, kind, label, harness_version, created_at, seq)
		VALUES (?, ?, ?, ?, ?, ?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM runs))
		RETURNING seq
	`,
		run.ID,
		run.Namespace,
		string(run.Kind),
		run.Label,
		run.HarnessVersion,
		run.CreatedAt.UTC().Format(time.RFC3339Nano),
	).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("write run: %w", err)
	}
	return seq, nil
}

// WriteResult inserts one execution result at position seq of a run.
// testID is the result's ir.TestCaseID.
func (s *Store) WriteResult(ctx context.Context, runID string, seq int64, testID string, r ir.ExecutionResult) error {
	if err := insertResult(ctx, s.db, runID, seq, testID, r); err != nil {
		return fmt.Errorf("write result: %w", err)
	}
	return nil
}

// WriteResults inserts results in order within one transaction, assigning
// seq from 1 and test IDs by occurrence. Either every result is written or
// none is.
func (s *Store) WriteResults(ctx context.Context, runID string, results []ir.ExecutionResult) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write results: begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	occ := make(ir.Occurrences)
	for i, r := range results {
		if err := insertResult(ctx, tx, runID, int64(i+1), occ.ID(r.Case), r); err != nil {
			return fmt.Errorf("write results: seq %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("write results: commit: %w", err)
	}
	return nil
}

func insertResult(ctx context.Context, db execer, runID string, seq int64, testID string, r ir.ExecutionResult) error {
	samples, err := marshalSamples(r.Samples)
	if err != nil {
		return err
	}
	record, err := marshalStorageRecord(r.StorageRecord)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO results
		(run_id, seq, group_name, source_line, test_id, expression, expected, observed,
		 error, exit_status, outcome, storage, storage_record, wall_ns, elapsed_ns, samples)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		runID,
		seq,
		r.Case.Group,
		r.Case.SourceLine,
		testID,
		r.Case.Expression,
		r.Case.Expected,
		r.Observed,
		r.Error,
		r.ExitStatus,
		r.Outcome().String(),
		nullInt64(r.Storage),
		record,
		int64(r.Wall),
		nullDuration(r.Elapsed),
		samples,
	)
	return err
}
