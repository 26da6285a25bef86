package driver

import "time"

// Clock supplies wall time for measuring child processes.
//
// Production code uses SystemClock. Tests inject a stepping clock so that
// measured durations are reproducible.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns a Clock backed by time.Now.
func SystemClock() Clock {
	return systemClock{}
}
