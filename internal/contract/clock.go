package contract

import "time"

// Clock supplies the validation instant. The validator itself never
// reads a system clock; whoever drives a validation run resolves "now"
// once through a Clock and threads it in, so verdicts stay reproducible
// in tests and across independently validating parties.
//
// Implemented by SystemClock (production) and testutil.FixedClock
// (tests).
type Clock interface {
	Now() time.Time
}

// SystemClock reads the local wall clock.
type SystemClock struct{}

// Now returns the current wall-clock time in UTC.
func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}
