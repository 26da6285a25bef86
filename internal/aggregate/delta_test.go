package aggregate

import (
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/mutest/internal/ir"
)

func perf(key string, storage int64, usecs int) ir.PerfRecord {
	return ir.PerfRecord{
		Key:     key,
		Name:    "mu/fixnum",
		Storage: storage,
		Time:    time.Duration(usecs) * time.Microsecond,
		Timed:   true,
	}
}

func TestDelta_TimeThresholds(t *testing.T) {
	tests := []struct {
		name    string
		current int
		flagged bool
	}{
		{"slower beyond high", 121, true},
		{"at high", 120, true},
		{"within band", 85, false},
		{"unchanged", 100, false},
		{"faster beyond low", 79, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Delta(
				[]ir.PerfRecord{perf("k", 48, 100)},
				[]ir.PerfRecord{perf("k", 48, tt.current)},
				DefaultThresholds(),
			)
			require.Len(t, d.Entries, 1)
			assert.Equal(t, tt.flagged, d.Entries[0].TimeFlag)
			assert.False(t, d.Entries[0].StorageFlag)
		})
	}
}

func TestDelta_StorageFlaggedOnAnyChange(t *testing.T) {
	d := Delta(
		[]ir.PerfRecord{perf("a", 48, 100), perf("b", 64, 100)},
		[]ir.PerfRecord{perf("a", 49, 100), perf("b", 64, 100)},
		DefaultThresholds(),
	)
	require.Len(t, d.Entries, 2)
	assert.True(t, d.Entries[0].StorageFlag)
	assert.Equal(t, int64(1), d.Entries[0].StorageDelta)
	assert.False(t, d.Entries[1].StorageFlag)

	assert.Equal(t, 2, d.Tests)
	assert.Equal(t, 1, d.SizeChanged)
	assert.Equal(t, 0, d.TimeChanged)
	assert.Equal(t, int64(1), d.StorageDelta)
	assert.Len(t, d.Flagged(), 1)
}

func TestDelta_ZeroBaselineIsUnmatched(t *testing.T) {
	d := Delta(
		[]ir.PerfRecord{perf("a", 0, 100), perf("b", 48, 0)},
		[]ir.PerfRecord{perf("a", 48, 100), perf("b", 48, 100)},
		DefaultThresholds(),
	)
	assert.Empty(t, d.Entries)
	assert.Len(t, d.Unmatched, 2)
	assert.Equal(t, 2, d.Tests)
}

func TestDelta_MissingAndAdded(t *testing.T) {
	d := Delta(
		[]ir.PerfRecord{perf("gone", 48, 100), perf("kept", 48, 100)},
		[]ir.PerfRecord{perf("kept", 48, 100), perf("new", 48, 100)},
		DefaultThresholds(),
	)
	require.Len(t, d.Missing, 1)
	assert.Equal(t, "gone", d.Missing[0].Key)
	require.Len(t, d.Added, 1)
	assert.Equal(t, "new", d.Added[0].Key)
	assert.Len(t, d.Entries, 1)
}

func TestDelta_UntimedCurrentIsFlagged(t *testing.T) {
	cur := perf("k", 48, 0)
	cur.Timed = false
	d := Delta([]ir.PerfRecord{perf("k", 48, 100)}, []ir.PerfRecord{cur}, DefaultThresholds())
	require.Len(t, d.Entries, 1)
	assert.True(t, d.Entries[0].TimeFlag)
	assert.Equal(t, 0.0, d.Entries[0].TimeRatio)
	assert.Equal(t, time.Duration(0), d.Entries[0].TimeDelta)
	assert.Equal(t, time.Duration(0), d.TimeDelta)
	assert.Equal(t, 1, d.TimeChanged)
}

func TestDelta_UntimedCurrentLeavesTotalsAlone(t *testing.T) {
	untimed := perf("b", 48, 0)
	untimed.Timed = false
	d := Delta(
		[]ir.PerfRecord{perf("a", 48, 100), perf("b", 48, 100)},
		[]ir.PerfRecord{perf("a", 48, 130), untimed},
		DefaultThresholds(),
	)
	require.Len(t, d.Entries, 2)
	assert.Equal(t, 30*time.Microsecond, d.TimeDelta)
	assert.Equal(t, 2, d.TimeChanged)
}

func TestDelta_NthCountsWithinName(t *testing.T) {
	base := []ir.PerfRecord{perf("a", 1, 100), perf("b", 1, 100), perf("c", 1, 100)}
	base[2].Name = "mu/list"
	d := Delta(base, base, DefaultThresholds())
	require.Len(t, d.Entries, 3)
	assert.Equal(t, []int{1, 2, 1}, []int{d.Entries[0].Nth, d.Entries[1].Nth, d.Entries[2].Nth})
}

func TestThresholds_Validate(t *testing.T) {
	assert.NoError(t, DefaultThresholds().Validate())
	assert.Error(t, Thresholds{TimeHigh: 1.2, TimeLow: 0}.Validate())
	assert.Error(t, Thresholds{TimeHigh: 0.5, TimeLow: 0.8}.Validate())
}

func TestRecords_StableKeys(t *testing.T) {
	storage := int64(48)
	elapsed := 12 * time.Microsecond
	mk := func(line int, expr string) ir.ExecutionResult {
		return ir.ExecutionResult{
			Case:    ir.TestCase{Namespace: "mu", Group: "fixnum", Expression: expr, SourceLine: line},
			Storage: &storage,
			Elapsed: &elapsed,
		}
	}

	first := Records(slices.Values([]ir.ExecutionResult{mk(1, "(a)"), mk(2, "(a)"), mk(3, "(b)")}))
	// A line inserted above shifts source lines but not keys.
	second := Records(slices.Values([]ir.ExecutionResult{mk(2, "(a)"), mk(3, "(a)"), mk(4, "(b)")}))

	require.Len(t, first, 3)
	assert.NotEqual(t, first[0].Key, first[1].Key, "repeated expressions get distinct occurrences")
	for i := range first {
		assert.Equal(t, first[i].Key, second[i].Key)
	}
	assert.Equal(t, int64(48), first[0].Storage)
	assert.True(t, first[0].Timed)
	assert.Equal(t, "mu/fixnum", first[0].Name)
}

func TestPerf_GroupTotals(t *testing.T) {
	recs := []ir.PerfRecord{perf("a", 10, 100), perf("b", 20, 50)}
	recs = append(recs, ir.PerfRecord{Key: "c", Name: "mu/list", Storage: 5})

	groups := Perf(recs)
	require.Len(t, groups, 2)
	assert.Equal(t, GroupPerf{Name: "mu/fixnum", Tests: 2, Storage: 30, Time: 150 * time.Microsecond}, groups[0])
	assert.Equal(t, GroupPerf{Name: "mu/list", Tests: 1, Storage: 5}, groups[1])
}
