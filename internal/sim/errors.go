package sim

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidDelta = errors.New("sim: delta must be finite and non-negative")

	ErrInvalidState = errors.New("sim: invalid body state (NaN or Inf detected)")

	ErrInvalidConfig = errors.New("sim: invalid configuration")

	ErrNoBodies = errors.New("sim: simulation needs at least one body")

	ErrCanceled = errors.New("sim: run canceled")
)

// StepError locates a failure within a run. Body is -1 when the failure is
// not tied to a single body.
type StepError struct {
	Step int
	Time float64
	Body int
	Err  error
}

func (e *StepError) Error() string {
	if e.Body < 0 {
		return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Err)
	}
	return fmt.Sprintf("step %d (t=%.4f) body %d: %v", e.Step, e.Time, e.Body, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }
