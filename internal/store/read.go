package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/roach88/mutest/internal/ir"
)

// ErrRunNotFound is returned when a run ID or namespace has no stored run.
var ErrRunNotFound = errors.New("run not found")

const runColumns = `id, namespace, kind, label, harness_version, created_at, seq`

// ReadRuns returns the runs of a namespace ordered by seq ASC.
// An empty namespace lists every run.
func (s *Store) ReadRuns(ctx context.Context, namespace string) ([]Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs`
	var args []any
	if namespace != "" {
		query += ` WHERE namespace = ?`
		args = append(args, namespace)
	}
	query += ` ORDER BY seq ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// ReadRun retrieves a single run by ID.
func (s *Store) ReadRun(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return run, err
}

// LatestRun returns the most recent run of the given kind for a namespace.
func (s *Store) LatestRun(ctx context.Context, namespace string, kind RunKind) (Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+runColumns+`
		FROM runs
		WHERE namespace = ? AND kind = ?
		ORDER BY seq DESC
		LIMIT 1
	`, namespace, string(kind))
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: latest %s run of %s", ErrRunNotFound, kind, namespace)
	}
	return run, err
}

// ReadResults returns the results of a run ordered by seq ASC.
func (s *Store) ReadResults(ctx context.Context, runID string) ([]ir.ExecutionResult, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.namespace, x.group_name, x.source_line, x.expression, x.expected,
		       x.observed, x.error, x.exit_status, x.storage, x.storage_record,
		       x.wall_ns, x.elapsed_ns, x.samples
		FROM results x
		JOIN runs r ON x.run_id = r.id
		WHERE x.run_id = ?
		ORDER BY x.seq ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

	results := []ir.ExecutionResult{}
	for rows.Next() {
		r, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate results: %w", err)
	}
	return results, nil
}

// ReadPerfRecords returns the flattened perf records of a run, keyed by
// the test IDs assigned when the run was written.
func (s *Store) ReadPerfRecords(ctx context.Context, runID string) ([]ir.PerfRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT x.test_id, r.namespace, x.group_name, x.source_line, x.storage, x.elapsed_ns
		FROM results x
		JOIN runs r ON x.run_id = r.id
		WHERE x.run_id = ?
		ORDER BY x.seq ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query perf records: %w", err)
	}
	defer rows.Close()

	records := []ir.PerfRecord{}
	for rows.Next() {
		var (
			rec       ir.PerfRecord
			ns, group string
			storage   sql.NullInt64
			elapsed   sql.NullInt64
		)
		if err := rows.Scan(&rec.Key, &ns, &group, &rec.Line, &storage, &elapsed); err != nil {
			return nil, fmt.Errorf("scan perf record: %w", err)
		}
		rec.Name = ir.TestCase{Namespace: ns, Group: group}.Label()
		rec.Storage = storage.Int64
		rec.Time = time.Duration(elapsed.Int64)
		rec.Timed = elapsed.Valid
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate perf records: %w", err)
	}
	return records, nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (Run, error) {
	var (
		run       Run
		kind      string
		createdAt string
	)
	if err := row.Scan(&run.ID, &run.Namespace, &kind, &run.Label, &run.HarnessVersion, &createdAt, &run.Seq); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, err
		}
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	run.Kind = RunKind(kind)

	t, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return Run{}, fmt.Errorf("scan run %s: created_at: %w", run.ID, err)
	}
	run.CreatedAt = t
	return run, nil
}

func scanResult(row scanner) (ir.ExecutionResult, error) {
	var (
		r       ir.ExecutionResult
		storage sql.NullInt64
		record  sql.NullString
		wall    int64
		elapsed sql.NullInt64
		samples string
	)
	if err := row.Scan(
		&r.Case.Namespace, &r.Case.Group, &r.Case.SourceLine, &r.Case.Expression, &r.Case.Expected,
		&r.Observed, &r.Error, &r.ExitStatus, &storage, &record,
		&wall, &elapsed, &samples,
	); err != nil {
		return ir.ExecutionResult{}, fmt.Errorf("scan result: %w", err)
	}

	r.Storage = int64Ptr(storage)
	r.Wall = time.Duration(wall)
	r.Elapsed = durationPtr(elapsed)

	rec, err := unmarshalStorageRecord(record)
	if err != nil {
		return ir.ExecutionResult{}, err
	}
	r.StorageRecord = rec

	s, err := unmarshalSamples(samples)
	if err != nil {
		return ir.ExecutionResult{}, err
	}
	r.Samples = s
	return r, nil
}
