/*
errors.go - Error types for the compensation engine

PURPOSE:
  Centralized error definitions for rate resolution and pay computation.
  Callers match with errors.Is / errors.As.

ERROR SEMANTICS:
  NoApplicableRateError is a configuration error: the operator's rate bands
  start after the queried shift date. Pay computation treats the affected
  row as zero wages and keeps going; the error is surfaced once per
  computation so the operator can fix the bands.
*/
package pay

import (
	"errors"
	"fmt"
)

// ErrNoApplicableRate is returned when no rate band covers a date.
var ErrNoApplicableRate = errors.New("no applicable rate band")

// NoApplicableRateError carries the date that no band covered.
type NoApplicableRateError struct {
	Date string
}

func (e *NoApplicableRateError) Error() string {
	return fmt.Sprintf("no rate band starts on or before %s", e.Date)
}

func (e *NoApplicableRateError) Unwrap() error {
	return ErrNoApplicableRate
}

// IsConfigError returns true if the error requires operator correction of
// settings rather than a retry.
func IsConfigError(err error) bool {
	return errors.Is(err, ErrNoApplicableRate)
}
