/*
errors.go - Error taxonomy for the amortization engine

ERROR CATEGORIES:
  1. ErrInvalidInput - non-positive principal, negative rate, bad term,
     negative extra payment. The caller should re-prompt.
  2. ErrDivergentSchedule - the payment does not cover the first period's
     interest, so the balance would grow. A configuration error.
  3. ErrIterationLimitExceeded - the loop hit its ceiling with a balance
     left over. Indicates a bug or an inconsistent payment.

Nothing is retried: the computation is deterministic.

USAGE:
  if errors.Is(err, amortization.ErrDivergentSchedule) {
      var div *amortization.DivergenceError
      errors.As(err, &div)
  }
*/
package amortization

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidInput is returned when loan parameters are out of range.
	ErrInvalidInput = errors.New("invalid input")

	// ErrDivergentSchedule is returned when the periodic payment does not
	// exceed the first period's interest.
	ErrDivergentSchedule = errors.New("divergent schedule: payment does not cover interest")

	// ErrIterationLimitExceeded is returned when the schedule loop reaches its
	// ceiling without paying off the balance.
	ErrIterationLimitExceeded = errors.New("iteration limit exceeded")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InputError names the offending field.
type InputError struct {
	Field  string
	Value  float64
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid input: %s %v %s", e.Field, e.Value, e.Reason)
}

func (e *InputError) Unwrap() error {
	return ErrInvalidInput
}

// DivergenceError reports a payment that cannot amortize the loan.
type DivergenceError struct {
	Payment  float64
	Interest float64
}

func (e *DivergenceError) Error() string {
	return fmt.Sprintf("divergent schedule: payment %v does not exceed first period interest %v",
		e.Payment, e.Interest)
}

func (e *DivergenceError) Unwrap() error {
	return ErrDivergentSchedule
}

// IterationLimitError reports the balance left when the ceiling was hit.
type IterationLimitError struct {
	Limit   int
	Balance float64
}

func (e *IterationLimitError) Error() string {
	return fmt.Sprintf("iteration limit exceeded: %d periods, balance %v remaining",
		e.Limit, e.Balance)
}

func (e *IterationLimitError) Unwrap() error {
	return ErrIterationLimitExceeded
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is caused by the caller's input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrDivergentSchedule)
}
