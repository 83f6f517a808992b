/*
errors.go - Centralized error types for the attendance engine

PURPOSE:
  All engine errors in one place. Callers branch with errors.Is(); the HTTP
  layer maps these to user-facing responses.

ERROR CATEGORIES:
  1. Ingestion errors - unusable sheet input
  2. Edit errors - rejected user edits

SEE ALSO:
  - builder.go: ingestion errors
  - recompute.go: edit errors
*/
package attendance

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrNoUsableRows is returned when the sheet has fewer than a header row
	// plus one data row after blank rows are dropped.
	ErrNoUsableRows = errors.New("not enough rows: need a header and at least one data row")

	// ErrNoRecords is returned when no row yielded a parseable date.
	ErrNoRecords = errors.New("no attendance records found")

	// ErrInvalidTime is returned when an edited time string is not strict H:MM.
	ErrInvalidTime = errors.New("invalid time: expected H:MM")

	// ErrRecordIndex is returned when an edit references a record that does
	// not exist in the current batch.
	ErrRecordIndex = errors.New("record index out of range")

	// ErrProtectedHoliday is returned when removing a date from the calendar
	// that belongs to the protected default-holiday set.
	ErrProtectedHoliday = errors.New("default holidays cannot be removed")
)

// InvalidTimeError carries the rejected input alongside ErrInvalidTime.
type InvalidTimeError struct {
	Value string
}

func (e *InvalidTimeError) Error() string {
	return fmt.Sprintf("invalid time %q: expected H:MM", e.Value)
}

func (e *InvalidTimeError) Unwrap() error { return ErrInvalidTime }

// IsIngestError reports whether the error is an ingestion-level failure that
// should leave any previously loaded batch untouched.
func IsIngestError(err error) bool {
	return errors.Is(err, ErrNoUsableRows) || errors.Is(err, ErrNoRecords)
}
