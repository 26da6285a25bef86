package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/mutest/internal/ir"
)

func TestCreateRun_AssignsIDAndSeq(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	first, err := s.CreateRun(ctx, "mu", KindTest, "")
	require.NoError(t, err)
	second, err := s.CreateRun(ctx, "core", KindPerf, "baseline")
	require.NoError(t, err)

	assert.Equal(t, "run-0001", first.ID)
	assert.Equal(t, int64(1), first.Seq)
	assert.Equal(t, "run-0002", second.ID)
	assert.Equal(t, int64(2), second.Seq)
	assert.Equal(t, ir.HarnessVersion, second.HarnessVersion)
	assert.True(t, second.CreatedAt.After(first.CreatedAt))
}

func TestWriteRun_Validation(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	_, err := s.WriteRun(ctx, Run{Namespace: "mu", Kind: KindTest})
	assert.Error(t, err, "empty id")

	_, err = s.WriteRun(ctx, Run{ID: "x", Namespace: "mu", Kind: "bench"})
	assert.Error(t, err, "unknown kind")
}

func TestWriteRun_DuplicateID(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	run := Run{ID: "dup", Namespace: "mu", Kind: KindTest, HarnessVersion: ir.HarnessVersion}
	_, err := s.WriteRun(ctx, run)
	require.NoError(t, err)
	_, err = s.WriteRun(ctx, run)
	assert.Error(t, err)
}

func TestWriteResult_RequiresRun(t *testing.T) {
	s := createTestStore(t)

	r := createTestResult("fixnum", "(+ 1 2)", "3", "3", 1)
	err := s.WriteResult(context.Background(), "missing", 1, "id", r)
	assert.Error(t, err, "foreign key violation")
}

func TestWriteResults_RoundTrip(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	run, err := s.CreateRun(ctx, "mu", KindTest, "")
	require.NoError(t, err)

	passed := createTestResult("fixnum", "(+ 1 2)", "3", "3", 1)
	aborted := createTestResult("fixnum", "(car 1)", "nil", "", 2)
	aborted.Error = "error: car: type"
	aborted.ExitStatus = 1
	timed := createTestResult("float", "(+ 1.0 2.0)", "3.0000", "3.0000", 1)
	timed.Elapsed = ptr(1500 * time.Microsecond)
	timed.Samples = []int64{1400, 1600}
	stored := createTestResult("float", "(+ 1.0 2.0)", "3.0000", "3.0000", 1)
	stored.Storage = ptr(int64(32))
	stored.StorageRecord = &ir.StorageRecord{Entries: []ir.StorageEntry{
		{Type: "cons", Total: 32, Alloc: 2, InUse: 2},
		{Type: "fixnum", Total: 0},
	}}

	in := []ir.ExecutionResult{passed, aborted, timed, stored}
	require.NoError(t, s.WriteResults(ctx, run.ID, in))

	out, err := s.ReadResults(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestWriteResults_AssignsOccurrenceIDs(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	run, err := s.CreateRun(ctx, "mu", KindPerf, "")
	require.NoError(t, err)

	r := createTestResult("fixnum", "(+ 1 2)", "3", "3", 1)
	dup := createTestResult("fixnum", "(+ 1 2)", "3", "3", 7)
	require.NoError(t, s.WriteResults(ctx, run.ID, []ir.ExecutionResult{r, dup}))

	records, err := s.ReadPerfRecords(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, ir.MustTestCaseID("mu", "fixnum", "(+ 1 2)", 1), records[0].Key)
	assert.Equal(t, ir.MustTestCaseID("mu", "fixnum", "(+ 1 2)", 2), records[1].Key)
	assert.Equal(t, 7, records[1].Line)
}

func TestWriteResults_Atomic(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	run, err := s.CreateRun(ctx, "mu", KindTest, "")
	require.NoError(t, err)
	require.NoError(t, s.WriteResult(ctx, run.ID, 2, "taken", createTestResult("g", "(a)", "", "", 1)))

	// seq 2 collides with the row above, so the whole batch rolls back
	batch := []ir.ExecutionResult{
		createTestResult("g", "(b)", "", "", 1),
		createTestResult("g", "(c)", "", "", 2),
	}
	require.Error(t, s.WriteResults(ctx, run.ID, batch))

	out, err := s.ReadResults(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "(a)", out[0].Case.Expression)
}
