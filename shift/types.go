/*
Package shift implements shift assignment scheduling: interval-overlap
conflict detection and the manager-driven assignment workflow with its
company-scoped read views.

INVARIANT:
  For a given employee, no two ACTIVE assignments may overlap in dates.
  The overlap rule is boundary-inclusive (see overlap.go) and the
  check-then-insert sequence is serialized per employee.
*/
package shift

import (
	"context"
	"time"

	"github.com/warp/hr-engine/date"
)

// State is the assignment activity state. Assignments are created ACTIVE;
// deactivation is outside this core.
type State string

const (
	StateActive   State = "ACTIVE"
	StateInactive State = "INACTIVE"
)

// Shift is a named working window owned by a company. Times of day are
// HH:MM strings; the engine never does arithmetic on them.
type Shift struct {
	ID        string
	CompanyID string
	Name      string
	StartTime string
	EndTime   string
}

// Break is a pause interval attached to a shift.
type Break struct {
	ID        string
	ShiftID   string
	Name      string
	StartTime string
	EndTime   string
}

// Assignment binds an employee to a shift for a date interval.
type Assignment struct {
	ID         string
	ShiftID    string
	EmployeeID string
	StartDate  date.Date
	EndDate    date.Date
	State      State
	CreatedAt  time.Time
}

// =============================================================================
// STORE CONTRACTS
// =============================================================================

type ShiftStore interface {
	SaveShift(ctx context.Context, s *Shift) error

	// FindShift returns ErrShiftNotFound when the id does not resolve.
	FindShift(ctx context.Context, id string) (*Shift, error)
}

type BreakStore interface {
	SaveBreak(ctx context.Context, b *Break) error
	FindBreaksByShift(ctx context.Context, shiftID string) ([]*Break, error)
}

type AssignmentStore interface {
	SaveAssignment(ctx context.Context, a *Assignment) error

	// FindActiveByEmployee returns the employee's ACTIVE assignments.
	FindActiveByEmployee(ctx context.Context, employeeID string) ([]*Assignment, error)

	// FindAllActive returns every ACTIVE assignment across companies.
	FindAllActive(ctx context.Context) ([]*Assignment, error)
}
