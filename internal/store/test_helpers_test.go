package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/roach88/mutest/internal/ir"
	"github.com/roach88/mutest/internal/testutil"
)

// createTestStore creates a store in a temp dir with deterministic run IDs
// and creation times.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	clock := testutil.NewStepClock(time.Second)
	s, err := Open(path, WithIDGenerator(&testutil.SequentialRunIDs{}), WithClock(clock.Now))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestResult creates a result with minimal required fields.
func createTestResult(group, expr, expected, observed string, line int) ir.ExecutionResult {
	return ir.ExecutionResult{
		Case: ir.TestCase{
			Namespace:  "mu",
			Group:      group,
			Expression: expr,
			Expected:   expected,
			SourceLine: line,
		},
		Observed: observed,
		Wall:     3 * time.Millisecond,
	}
}

func ptr[T any](v T) *T { return &v }
