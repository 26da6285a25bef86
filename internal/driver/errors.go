package driver

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrorCode categorizes driver errors.
type ErrorCode string

const (
	// ErrCodeLaunchFailure indicates the runtime executable could not be started.
	ErrCodeLaunchFailure ErrorCode = "RUNTIME_LAUNCH_FAILURE"

	// ErrCodeMalformedRecord indicates storage probe output that does not parse.
	ErrCodeMalformedRecord ErrorCode = "MALFORMED_STORAGE_RECORD"

	// ErrCodeInvalidInvocation indicates an unusable RuntimeInvocationConfig.
	ErrCodeInvalidInvocation ErrorCode = "INVALID_INVOCATION"
)

// LaunchError reports a runtime that could not be started (missing
// executable, permission denied). It is fatal for the whole run.
type LaunchError struct {
	Executable string
	Args       []string
	Err        error
}

// Error implements the error interface.
func (e *LaunchError) Error() string {
	return fmt.Sprintf("%s: cannot start %s: %v", ErrCodeLaunchFailure, e.Executable, e.Err)
}

// Unwrap returns the underlying exec error.
func (e *LaunchError) Unwrap() error {
	return e.Err
}

// Code returns ErrCodeLaunchFailure.
func (e *LaunchError) Code() ErrorCode {
	return ErrCodeLaunchFailure
}

// RecordError reports storage probe output that is not a storage record.
type RecordError struct {
	Raw    string
	Reason string
}

// Error implements the error interface.
func (e *RecordError) Error() string {
	return fmt.Sprintf("%s: %s: %q", ErrCodeMalformedRecord, e.Reason, e.Raw)
}

// InvocationError reports a RuntimeInvocationConfig that fails validation.
type InvocationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *InvocationError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrCodeInvalidInvocation, e.Field, e.Message)
}

// IsLaunchError returns true if err is or wraps a *LaunchError.
func IsLaunchError(err error) bool {
	var le *LaunchError
	return errors.As(err, &le)
}

// IsRecordError returns true if err is or wraps a *RecordError.
func IsRecordError(err error) bool {
	var re *RecordError
	return errors.As(err, &re)
}

// timeoutText is the error text recorded for a child killed by the timeout.
func timeoutText(d time.Duration, stderr string) string {
	msg := "timeout after " + d.String()
	if s := strings.TrimSpace(stderr); s != "" {
		msg += ": " + s
	}
	return msg
}
