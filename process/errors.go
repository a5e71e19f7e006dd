package process

import "errors"

var (
	// ErrNonPositiveTimestep is returned by Advance for dt <= 0 or a non-finite dt.
	ErrNonPositiveTimestep = errors.New("process: timestep must be positive and finite")
	// ErrTooManySubSteps is returned by AdvanceBy when maxStep is tiny
	// compared with the interval.
	ErrTooManySubSteps = errors.New("process: too many sub-steps")
	// ErrInvalidInput reports an operator input that is not a number at all.
	// Out-of-range numbers are clamped, not rejected.
	ErrInvalidInput = errors.New("process: invalid operator input")
)
