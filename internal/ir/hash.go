package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// The version suffix allows the algorithm to change without collisions.
const (
	DomainTestCase = "mutest/testcase/v1"
	DomainSummary  = "mutest/summary/v1"
)

// hashWithDomain computes SHA256(domain + 0x00 + data).
// The null separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// TestCaseID computes the identity used to match the same test across runs.
//
// The source line is deliberately not part of the identity: inserting a line
// above a test must not orphan its baseline. occurrence disambiguates repeated
// expressions inside one group (first occurrence is 1).
func TestCaseID(namespace, group, expression string, occurrence int) (string, error) {
	canonical, err := MarshalCanonical(map[string]any{
		"namespace":  namespace,
		"group":      group,
		"expression": expression,
		"occurrence": occurrence,
	})
	if err != nil {
		return "", fmt.Errorf("TestCaseID: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainTestCase, canonical), nil
}

// MustTestCaseID is TestCaseID for inputs known to be valid.
// Only strings and ints are hashed, so marshaling cannot fail.
func MustTestCaseID(namespace, group, expression string, occurrence int) string {
	id, err := TestCaseID(namespace, group, expression, occurrence)
	if err != nil {
		panic(err)
	}
	return id
}

// SummaryDigest returns a stable digest of a list of summaries.
func SummaryDigest(summaries []ReportSummary) (string, error) {
	items := make([]any, len(summaries))
	for i, s := range summaries {
		b, err := s.Canonical()
		if err != nil {
			return "", fmt.Errorf("SummaryDigest: %w", err)
		}
		items[i] = string(b)
	}
	canonical, err := MarshalCanonical(items)
	if err != nil {
		return "", fmt.Errorf("SummaryDigest: %w", err)
	}
	return hashWithDomain(DomainSummary, canonical), nil
}

// Occurrences assigns 1-based occurrence numbers to repeated keys in order.
type Occurrences map[string]int

// Next returns the occurrence number for key and records it.
func (o Occurrences) Next(key string) int {
	o[key]++
	return o[key]
}

// ID returns the TestCaseID of tc, numbering repeated expressions within
// the same namespace/group in the order they are seen.
func (o Occurrences) ID(tc TestCase) string {
	n := o.Next(tc.Label() + "\x00" + tc.Expression)
	return MustTestCaseID(tc.Namespace, tc.Group, tc.Expression, n)
}
