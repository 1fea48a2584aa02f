package shift

import "errors"

var (
	// ErrUnauthorized is returned when the actor's role forbids the operation.
	ErrUnauthorized = errors.New("shift: operation not permitted for actor")

	// ErrShiftNotFound is returned when a shift id does not resolve.
	ErrShiftNotFound = errors.New("shift: shift not found")

	// ErrAssignmentNotFound is returned when an actor has no active assignment.
	ErrAssignmentNotFound = errors.New("shift: no active assignment")

	// ErrDateRangeInvalid is returned when the start date is after the end date.
	ErrDateRangeInvalid = errors.New("shift: start date after end date")

	// ErrDateRangeOverlap is returned when a candidate interval conflicts
	// with an existing active assignment.
	ErrDateRangeOverlap = errors.New("shift: date range overlaps an active assignment")
)
