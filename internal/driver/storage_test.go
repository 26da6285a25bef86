package driver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/mutest/internal/ir"
	"github.com/roach88/mutest/internal/testutil"
)

const sampleRecord = "#s(:heap cons 48 3 3 fixnum 0 0 0 vector 32 1 1 " +
	"struct 0 0 0 string 16 2 0 symbol 0 0 0 function 8 1 1)"

func TestParseStorageRecord(t *testing.T) {
	rec, err := ParseStorageRecord(sampleRecord)
	require.NoError(t, err)
	require.Len(t, rec.Entries, 7)

	assert.Equal(t, ir.StorageEntry{Type: "cons", Total: 48, Alloc: 3, InUse: 3}, rec.Entries[0])
	assert.Equal(t, ir.StorageEntry{Type: "function", Total: 8, Alloc: 1, InUse: 1}, rec.Entries[6])
	assert.Equal(t, int64(104), rec.Total())
	assert.Len(t, rec.NonZero(), 4)
}

func TestParseStorageRecord_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"header only", "#s(:heap)"},
		{"partial group", "#s(:heap cons 48 3)"},
		{"non-integer", "#s(:heap cons 48 x 3)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseStorageRecord(tt.input)
			require.Error(t, err)
			assert.True(t, IsRecordError(err))
		})
	}
}

func TestStorage_ParsesProbeOutput(t *testing.T) {
	rt := testutil.SequenceRuntime(t, testutil.Response{Stdout: sampleRecord})
	d := newDriver(t, RuntimeInvocationConfig{Executable: rt})

	r, err := d.Storage(context.Background(), testCase("(cons 1 2)", ""))
	require.NoError(t, err)
	require.NotNil(t, r.Storage)
	assert.Equal(t, int64(104), *r.Storage)
	require.NotNil(t, r.StorageRecord)
	assert.Len(t, r.StorageRecord.Entries, 7)
}

func TestStorage_StderrIsException(t *testing.T) {
	rt := testutil.SequenceRuntime(t, testutil.Response{Stdout: sampleRecord, Stderr: "warning"})
	d := newDriver(t, RuntimeInvocationConfig{Executable: rt})

	r, err := d.Storage(context.Background(), testCase("x", ""))
	require.NoError(t, err)
	assert.Nil(t, r.Storage)
	assert.Equal(t, "warning", r.Error)
}

func TestStorage_BadRecordRecorded(t *testing.T) {
	rt := testutil.SequenceRuntime(t, testutil.Response{Stdout: "garbage"})
	d := newDriver(t, RuntimeInvocationConfig{Executable: rt})

	r, err := d.Storage(context.Background(), testCase("x", ""))
	require.NoError(t, err)
	assert.Nil(t, r.Storage)
	assert.Contains(t, r.Error, string(ErrCodeMalformedRecord))
}
