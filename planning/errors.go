/*
errors.go - Error types for the planning store

PURPOSE:
  All planning failures are recoverable and scoped to the single edit or
  commit that triggered them. A rejected edit leaves the draft untouched; a
  rejected commit leaves the committed plan untouched. The UI surfaces the
  structured detail and the operator corrects the input.

SEE ALSO:
  - store.go: where these are raised
  - api/handlers.go: HTTP status mapping
*/
package planning

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidDate is returned when a day is not a valid YYYY-MM-DD date.
	ErrInvalidDate = errors.New("invalid day")

	// ErrNoDraft is returned when an edit targets a day with no open draft.
	ErrNoDraft = errors.New("no open draft for day")

	// ErrIndexOutOfRange is returned when a team or row index does not
	// exist in the draft.
	ErrIndexOutOfRange = errors.New("team or row index out of range")

	// ErrDuplicateAssignment is the sentinel behind DuplicateAssignmentError.
	ErrDuplicateAssignment = errors.New("recruiter already assigned this day")

	// ErrInvalidBoxTotal is the sentinel behind InvalidBoxTotalError.
	ErrInvalidBoxTotal = errors.New("box totals exceed score")
)

// DuplicateAssignmentError reports a double-booking attempt: the recruiter
// already sits in a different row of the same day's draft.
type DuplicateAssignmentError struct {
	RecruiterID string
	DateISO     string
}

func (e *DuplicateAssignmentError) Error() string {
	return fmt.Sprintf("recruiter %s is already assigned on %s", e.RecruiterID, e.DateISO)
}

func (e *DuplicateAssignmentError) Unwrap() error { return ErrDuplicateAssignment }

// InvalidBoxTotalError reports a row whose four box fields sum past its
// score. It identifies the row so the UI can leave it editable.
type InvalidBoxTotalError struct {
	DateISO  string
	TeamIdx  int
	RowIdx   int
	BoxTotal int
	Score    int
}

func (e *InvalidBoxTotalError) Error() string {
	return fmt.Sprintf("day %s team %d row %d: box total %d exceeds score %d",
		e.DateISO, e.TeamIdx, e.RowIdx, e.BoxTotal, e.Score)
}

func (e *InvalidBoxTotalError) Unwrap() error { return ErrInvalidBoxTotal }

// IsClientError returns true for failures caused by operator input, as
// opposed to persistence faults.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidDate) ||
		errors.Is(err, ErrNoDraft) ||
		errors.Is(err, ErrIndexOutOfRange) ||
		errors.Is(err, ErrDuplicateAssignment) ||
		errors.Is(err, ErrInvalidBoxTotal)
}
