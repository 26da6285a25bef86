package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTestCaseIDDeterminism(t *testing.T) {
	id1, err := TestCaseID("mu", "fixnum", "(mu:add 1 2)", 1)
	require.NoError(t, err)
	id2, err := TestCaseID("mu", "fixnum", "(mu:add 1 2)", 1)
	require.NoError(t, err)

	assert.Equal(t, id1, id2)
	assert.Len(t, id1, 64, "SHA-256 hex is 64 characters")
}

func TestTestCaseIDChangesWithInput(t *testing.T) {
	base := MustTestCaseID("mu", "fixnum", "(mu:add 1 2)", 1)

	assert.NotEqual(t, base, MustTestCaseID("core", "fixnum", "(mu:add 1 2)", 1))
	assert.NotEqual(t, base, MustTestCaseID("mu", "float", "(mu:add 1 2)", 1))
	assert.NotEqual(t, base, MustTestCaseID("mu", "fixnum", "(mu:add 1 3)", 1))
	assert.NotEqual(t, base, MustTestCaseID("mu", "fixnum", "(mu:add 1 2)", 2))
}

func TestTestCaseIDNormalizesUnicode(t *testing.T) {
	// precomposed U+00E9 vs "e" + combining acute
	composed := MustTestCaseID("mu", "char", "#\\\u00e9", 1)
	decomposed := MustTestCaseID("mu", "char", "#\\e\u0301", 1)
	assert.Equal(t, composed, decomposed)
}

func TestSummaryDigest(t *testing.T) {
	s := []ReportSummary{NewSummary("a"), NewSummary("b")}

	d1, err := SummaryDigest(s)
	require.NoError(t, err)
	d2, err := SummaryDigest(s)
	require.NoError(t, err)
	assert.Equal(t, d1, d2)

	d3, err := SummaryDigest([]ReportSummary{NewSummary("b"), NewSummary("a")})
	require.NoError(t, err)
	assert.NotEqual(t, d1, d3, "order is significant")
}

func TestOccurrences(t *testing.T) {
	occ := Occurrences{}
	assert.Equal(t, 1, occ.Next("x"))
	assert.Equal(t, 2, occ.Next("x"))
	assert.Equal(t, 1, occ.Next("y"))
}

func TestOccurrences_ID(t *testing.T) {
	occ := Occurrences{}
	tc := TestCase{Namespace: "mu", Group: "g", Expression: "(a)", SourceLine: 4}

	first := occ.ID(tc)
	second := occ.ID(tc)
	assert.Equal(t, MustTestCaseID("mu", "g", "(a)", 1), first)
	assert.Equal(t, MustTestCaseID("mu", "g", "(a)", 2), second)

	other := tc
	other.Group = "h"
	assert.Equal(t, MustTestCaseID("mu", "h", "(a)", 1), occ.ID(other))
}
