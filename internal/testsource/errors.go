package testsource

import (
	"errors"
	"fmt"
)

// ErrCodeMalformed identifies a test source line that could not be parsed.
const ErrCodeMalformed = "MALFORMED_TEST_CASE"

// MalformedTestCase reports a line that does not split into exactly two fields.
type MalformedTestCase struct {
	Namespace string
	Group     string
	Line      int
	Raw       string
	Fields    int
}

// Error implements the error interface.
func (e *MalformedTestCase) Error() string {
	return fmt.Sprintf("%s: %s/%s:%d: expected 2 tab-separated fields, got %d: %q",
		ErrCodeMalformed, e.Namespace, e.Group, e.Line, e.Fields, e.Raw)
}

// IsMalformed reports whether err is (or wraps) a *MalformedTestCase.
func IsMalformed(err error) bool {
	var me *MalformedTestCase
	return errors.As(err, &me)
}
