package ir

import "fmt"

// Outcome classifies an ExecutionResult.
type Outcome int

const (
	// OutcomePassed means a clean exit and observed output equal to expected.
	OutcomePassed Outcome = iota + 1

	// OutcomeFailed means a clean exit and an output mismatch.
	OutcomeFailed

	// OutcomeAborted means the runtime exited non-zero (crash, internal error, timeout).
	OutcomeAborted
)

// String returns the lowercase report spelling of the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomePassed:
		return "passed"
	case OutcomeFailed:
		return "failed"
	case OutcomeAborted:
		return "aborted"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// ParseOutcome is the inverse of Outcome.String.
func ParseOutcome(s string) (Outcome, error) {
	switch s {
	case "passed":
		return OutcomePassed, nil
	case "failed":
		return OutcomeFailed, nil
	case "aborted":
		return OutcomeAborted, nil
	default:
		return 0, fmt.Errorf("unknown outcome %q", s)
	}
}

// Classify derives the outcome of a result.
//
// A non-zero exit status is Aborted regardless of output content.
func Classify(r ExecutionResult) Outcome {
	if r.ExitStatus != 0 {
		return OutcomeAborted
	}
	if r.Observed == r.Case.Expected {
		return OutcomePassed
	}
	return OutcomeFailed
}
