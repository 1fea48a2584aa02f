/*
scheduler.go - Shift assignment workflow and read views

PURPOSE:
  Assign validates authorization and date ordering, runs the overlap check
  against the employee's active assignments and persists the new ACTIVE
  assignment. The read views join assignments with their shift's name, time
  bounds and break intervals.

CONCURRENCY:
  Two concurrent Assign calls for the same employee race between the
  overlap read and the insert. The scheduler serializes the whole
  read-validate-insert sequence per employee id with a keyed mutex, so at
  most one of two conflicting candidates can win.
*/
package shift

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/warp/hr-engine/date"
	"github.com/warp/hr-engine/identity"
	"github.com/warp/hr-engine/keyed"
)

// Scheduler validates and persists shift assignments.
type Scheduler struct {
	shifts      ShiftStore
	breaks      BreakStore
	assignments AssignmentStore
	actors      identity.Store
	locks       *keyed.Mutex
}

func NewScheduler(shifts ShiftStore, breaks BreakStore, assignments AssignmentStore, actors identity.Store) *Scheduler {
	return &Scheduler{
		shifts:      shifts,
		breaks:      breaks,
		assignments: assignments,
		actors:      actors,
		locks:       keyed.NewMutex(),
	}
}

// AssignInput names the shift, the employee and the date interval.
type AssignInput struct {
	ShiftID    string
	EmployeeID string
	StartDate  date.Date
	EndDate    date.Date
}

// Assign binds an employee to a shift for a date interval. Check order:
// shift exists, actor is a manager, employee exists, dates are ordered,
// no overlap with the employee's active assignments.
func (s *Scheduler) Assign(ctx context.Context, manager *identity.Actor, in AssignInput) (*Assignment, error) {
	sh, err := s.shifts.FindShift(ctx, in.ShiftID)
	if err != nil {
		return nil, err
	}
	if manager.IsEmployee() {
		return nil, ErrUnauthorized
	}
	employee, err := s.actors.FindActorByID(ctx, in.EmployeeID)
	if err != nil {
		return nil, err
	}
	if in.StartDate.After(in.EndDate) {
		return nil, ErrDateRangeInvalid
	}

	unlock := s.locks.Lock(employee.ID)
	defer unlock()

	active, err := s.assignments.FindActiveByEmployee(ctx, employee.ID)
	if err != nil {
		return nil, err
	}
	if Overlaps(in.StartDate, in.EndDate, active) {
		return nil, ErrDateRangeOverlap
	}

	assignment := &Assignment{
		ID:         uuid.NewString(),
		ShiftID:    sh.ID,
		EmployeeID: employee.ID,
		StartDate:  in.StartDate,
		EndDate:    in.EndDate,
		State:      StateActive,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.assignments.SaveAssignment(ctx, assignment); err != nil {
		return nil, err
	}

	log.Info().
		Str("assignment_id", assignment.ID).
		Str("shift_id", sh.ID).
		Str("employee_id", employee.ID).
		Msg("shift assigned")

	return assignment, nil
}

// =============================================================================
// READ VIEWS
// =============================================================================

// BreakSummary is a shift break as shown in the views.
type BreakSummary struct {
	Name      string
	StartTime string
	EndTime   string
}

// ActiveShiftDetail joins an active assignment with its shift's name, time
// bounds and breaks.
type ActiveShiftDetail struct {
	EmployeeID string
	ShiftName  string
	StartTime  string
	EndTime    string
	StartDate  date.Date
	EndDate    date.Date
	Breaks     []BreakSummary
}

// ActiveShiftDetails returns every active assignment of the calling actor,
// joined with shift and break details. Fails with ErrAssignmentNotFound
// when the actor has no active assignment.
func (s *Scheduler) ActiveShiftDetails(ctx context.Context, actor *identity.Actor) ([]ActiveShiftDetail, error) {
	active, err := s.assignments.FindActiveByEmployee(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	if len(active) == 0 {
		return nil, ErrAssignmentNotFound
	}

	details := make([]ActiveShiftDetail, 0, len(active))
	for _, a := range active {
		detail, err := s.detail(ctx, a)
		if err != nil {
			return nil, err
		}
		details = append(details, detail)
	}
	return details, nil
}

// ActiveShiftDetailByEmployee is the manager-only read of one employee's
// first active assignment.
func (s *Scheduler) ActiveShiftDetailByEmployee(ctx context.Context, manager *identity.Actor, employeeID string) (*ActiveShiftDetail, error) {
	if manager.IsEmployee() {
		return nil, ErrUnauthorized
	}

	active, err := s.assignments.FindActiveByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if len(active) == 0 {
		return nil, ErrAssignmentNotFound
	}

	detail, err := s.detail(ctx, active[0])
	if err != nil {
		return nil, err
	}
	return &detail, nil
}

func (s *Scheduler) detail(ctx context.Context, a *Assignment) (ActiveShiftDetail, error) {
	sh, err := s.shifts.FindShift(ctx, a.ShiftID)
	if err != nil {
		return ActiveShiftDetail{}, err
	}
	breaks, err := s.breakSummaries(ctx, sh.ID)
	if err != nil {
		return ActiveShiftDetail{}, err
	}

	return ActiveShiftDetail{
		EmployeeID: a.EmployeeID,
		ShiftName:  sh.Name,
		StartTime:  sh.StartTime,
		EndTime:    sh.EndTime,
		StartDate:  a.StartDate,
		EndDate:    a.EndDate,
		Breaks:     breaks,
	}, nil
}

func (s *Scheduler) breakSummaries(ctx context.Context, shiftID string) ([]BreakSummary, error) {
	breaks, err := s.breaks.FindBreaksByShift(ctx, shiftID)
	if err != nil {
		return nil, err
	}
	summaries := make([]BreakSummary, 0, len(breaks))
	for _, b := range breaks {
		summaries = append(summaries, BreakSummary{Name: b.Name, StartTime: b.StartTime, EndTime: b.EndTime})
	}
	return summaries, nil
}

// CompanyPersonnel lists the employees of the manager's company.
func (s *Scheduler) CompanyPersonnel(ctx context.Context, manager *identity.Actor) ([]*identity.Actor, error) {
	if manager.IsEmployee() {
		return nil, ErrUnauthorized
	}
	return s.actors.FindEmployeesByCompany(ctx, manager.CompanyID)
}

// CompanyAssignmentView is one row of the company-wide assignment listing.
type CompanyAssignmentView struct {
	AssignmentID      string
	ShiftName         string
	EmployeeFirstName string
	EmployeeLastName  string
	StartDate         date.Date
	EndDate           date.Date
	Breaks            []BreakSummary
}

// CompanyAssignments lists every active assignment whose shift belongs to
// the manager's company. Assignments on another company's shift are
// skipped, not errored: the view is a filter, not a validator.
func (s *Scheduler) CompanyAssignments(ctx context.Context, manager *identity.Actor) ([]CompanyAssignmentView, error) {
	if manager.IsEmployee() {
		return nil, ErrUnauthorized
	}

	active, err := s.assignments.FindAllActive(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]CompanyAssignmentView, 0, len(active))
	for _, a := range active {
		employee, err := s.actors.FindActorByID(ctx, a.EmployeeID)
		if err != nil {
			return nil, err
		}
		sh, err := s.shifts.FindShift(ctx, a.ShiftID)
		if err != nil {
			return nil, err
		}
		if sh.CompanyID != manager.CompanyID {
			continue
		}

		breaks, err := s.breakSummaries(ctx, sh.ID)
		if err != nil {
			return nil, err
		}
		views = append(views, CompanyAssignmentView{
			AssignmentID:      a.ID,
			ShiftName:         sh.Name,
			EmployeeFirstName: employee.FirstName,
			EmployeeLastName:  employee.LastName,
			StartDate:         a.StartDate,
			EndDate:           a.EndDate,
			Breaks:            breaks,
		})
	}
	return views, nil
}
