package ir

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func result(expected, observed string, exit int) ExecutionResult {
	return ExecutionResult{
		Case:       TestCase{Namespace: "mu", Group: "fixnum", Expected: expected},
		Observed:   observed,
		ExitStatus: exit,
	}
}

func TestSummaryAddKeepsInvariant(t *testing.T) {
	s := NewSummary("mu/fixnum")
	inputs := []ExecutionResult{
		result("3", "3", 0),
		result("3", "2", 0),
		result("3", "", 1),
		result("t", "t", 0),
	}
	for _, r := range inputs {
		s = s.Add(r)
		require.True(t, s.Consistent())
	}

	assert.Equal(t, 4, s.Total)
	assert.Equal(t, 2, s.Passed)
	assert.Equal(t, 1, s.Failed)
	assert.Equal(t, 1, s.Aborted)
}

func TestSummaryAddDoesNotMutate(t *testing.T) {
	s := NewSummary("g")
	next := s.Add(result("1", "1", 0))

	assert.Equal(t, 0, s.Total)
	assert.Equal(t, 1, next.Total)
}

func TestSummaryStorageAndTime(t *testing.T) {
	storage := int64(128)
	elapsed := 40 * time.Microsecond

	r := result("1", "1", 0)
	r.Storage = &storage
	r.Elapsed = &elapsed

	s := NewSummary("g").Add(r).Add(r).Add(result("1", "1", 0))
	assert.Equal(t, int64(256), s.Storage)
	assert.Equal(t, 80*time.Microsecond, s.Time)
	assert.Equal(t, 2, s.Timed)
	assert.Equal(t, 40*time.Microsecond, s.AverageTime())
}

func TestSummaryAverageUndefined(t *testing.T) {
	s := NewSummary("g").Add(result("1", "1", 0))
	assert.Equal(t, UndefinedAverage, s.AverageTime())
}

func TestSummaryMerge(t *testing.T) {
	a := NewSummary("a").Add(result("1", "1", 0))
	b := NewSummary("b").Add(result("1", "2", 0)).Add(result("1", "", 3))

	m := a.Merge(b)
	assert.Equal(t, "a", m.Group)
	assert.Equal(t, 3, m.Total)
	assert.True(t, m.Consistent())
}

func TestSummaryCanonicalIsStable(t *testing.T) {
	s := NewSummary("mu/list").Add(result("1", "1", 0)).Add(result("1", "0", 0))

	first, err := s.Canonical()
	require.NoError(t, err)
	second, err := s.Canonical()
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t,
		`{"aborted":0,"failed":1,"group":"mu/list","passed":1,"storage":0,"time_ns":0,"timed":0,"total":2}`,
		string(first))
}
