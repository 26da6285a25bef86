package aggregate

import (
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/mutest/internal/ir"
)

func result(group, expected, observed string, exit int) ir.ExecutionResult {
	return ir.ExecutionResult{
		Case: ir.TestCase{
			Namespace:  "mu",
			Group:      group,
			Expression: "(" + group + ")",
			Expected:   expected,
		},
		Observed:   observed,
		ExitStatus: exit,
	}
}

func sampleResults() []ir.ExecutionResult {
	return []ir.ExecutionResult{
		result("fixnum", "3", "3", 0),
		result("list", "(1)", "(1)", 0),
		result("fixnum", "3", "2", 0),
		result("fixnum", "3", "", 1),
		result("list", "a", "b", 0),
	}
}

func TestFlat_GroupsInFirstSeenOrder(t *testing.T) {
	summaries := Flat(slices.Values(sampleResults()), ByLabel)
	require.Len(t, summaries, 2)

	assert.Equal(t, "mu/fixnum", summaries[0].Group)
	assert.Equal(t, 3, summaries[0].Total)
	assert.Equal(t, 1, summaries[0].Passed)
	assert.Equal(t, 1, summaries[0].Failed)
	assert.Equal(t, 1, summaries[0].Aborted)

	assert.Equal(t, "mu/list", summaries[1].Group)
	assert.Equal(t, 2, summaries[1].Total)
	assert.Equal(t, 1, summaries[1].Passed)
	assert.Equal(t, 1, summaries[1].Failed)
}

func TestFlat_CountInvariant(t *testing.T) {
	summaries := Flat(slices.Values(sampleResults()), ByGroup)
	for _, s := range summaries {
		assert.True(t, s.Consistent(), "group %s", s.Group)
	}
	total := Total(summaries, "mu")
	assert.True(t, total.Consistent())
	assert.Equal(t, 5, total.Total)
	assert.Equal(t, "mu", total.Group)
}

func TestFlat_NilKeyDefaultsToLabel(t *testing.T) {
	summaries := Flat(slices.Values(sampleResults()[:1]), nil)
	require.Len(t, summaries, 1)
	assert.Equal(t, "mu/fixnum", summaries[0].Group)
}

func TestFlat_Empty(t *testing.T) {
	summaries := Flat(slices.Values([]ir.ExecutionResult(nil)), ByLabel)
	assert.Empty(t, summaries)
	total := Total(summaries, "all")
	assert.Equal(t, 0, total.Total)
	assert.True(t, total.Consistent())
}

func TestFlat_Idempotent(t *testing.T) {
	results := sampleResults()

	first, err := ir.SummaryDigest(Flat(slices.Values(results), ByLabel))
	require.NoError(t, err)
	second, err := ir.SummaryDigest(Flat(slices.Values(results), ByLabel))
	require.NoError(t, err)
	assert.Equal(t, first, second)

	a, err := Total(Flat(slices.Values(results), ByLabel), "mu").Canonical()
	require.NoError(t, err)
	b, err := Total(Flat(slices.Values(results), ByLabel), "mu").Canonical()
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestMean(t *testing.T) {
	_, ok := Mean(nil)
	assert.False(t, ok)

	mean, ok := Mean([]int64{10, 20, 30})
	require.True(t, ok)
	assert.Equal(t, 20*time.Microsecond, mean)

	mean, ok = Mean([]int64{1, 2})
	require.True(t, ok)
	assert.Equal(t, 1500*time.Nanosecond, mean)
}
