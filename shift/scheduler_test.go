package shift_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/warp/hr-engine/date"
	"github.com/warp/hr-engine/identity"
	"github.com/warp/hr-engine/shift"
	"github.com/warp/hr-engine/store/memory"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

type schedulerFixture struct {
	store     *memory.Store
	scheduler *shift.Scheduler
	manager   *identity.Actor
	employee  *identity.Actor
	shift     *shift.Shift
}

func newSchedulerFixture(t *testing.T) *schedulerFixture {
	t.Helper()
	ctx := context.Background()

	store := memory.New()
	scheduler := shift.NewScheduler(store, store, store, store)

	manager := &identity.Actor{
		ID:        "mgr-1",
		CompanyID: "co-1",
		Role:      identity.RoleCompanyManager,
		FirstName: "Max",
		LastName:  "Planck",
		Email:     "max@example.com",
		HireDate:  date.New(2015, time.January, 1),
	}
	employee := &identity.Actor{
		ID:        "emp-1",
		CompanyID: "co-1",
		Role:      identity.RoleEmployee,
		FirstName: "Grace",
		LastName:  "Hopper",
		Email:     "grace@example.com",
		HireDate:  date.New(2020, time.January, 1),
	}
	require.NoError(t, store.SaveActor(ctx, manager))
	require.NoError(t, store.SaveActor(ctx, employee))

	sh := &shift.Shift{
		ID:        "shift-1",
		CompanyID: "co-1",
		Name:      "Morning",
		StartTime: "08:00",
		EndTime:   "16:00",
	}
	require.NoError(t, store.SaveShift(ctx, sh))
	require.NoError(t, store.SaveBreak(ctx, &shift.Break{
		ID:        "break-1",
		ShiftID:   sh.ID,
		Name:      "Lunch",
		StartTime: "12:00",
		EndTime:   "12:30",
	}))

	return &schedulerFixture{
		store:     store,
		scheduler: scheduler,
		manager:   manager,
		employee:  employee,
		shift:     sh,
	}
}

func assignInput(f *schedulerFixture, start, end int) shift.AssignInput {
	return shift.AssignInput{
		ShiftID:    f.shift.ID,
		EmployeeID: f.employee.ID,
		StartDate:  day(start),
		EndDate:    day(end),
	}
}

// =============================================================================
// ASSIGN TESTS
// =============================================================================

func TestAssign_CreatesActiveAssignment(t *testing.T) {
	f := newSchedulerFixture(t)
	ctx := context.Background()

	a, err := f.scheduler.Assign(ctx, f.manager, assignInput(f, 1, 10))
	require.NoError(t, err)
	require.Equal(t, shift.StateActive, a.State)
	require.Equal(t, f.shift.ID, a.ShiftID)
	require.Equal(t, f.employee.ID, a.EmployeeID)

	active, err := f.store.FindActiveByEmployee(ctx, f.employee.ID)
	require.NoError(t, err)
	require.Len(t, active, 1)
}

func TestAssign_EmployeeCannotAssign(t *testing.T) {
	f := newSchedulerFixture(t)

	_, err := f.scheduler.Assign(context.Background(), f.employee, assignInput(f, 1, 10))
	require.ErrorIs(t, err, shift.ErrUnauthorized)
}

func TestAssign_UnknownShiftAndEmployee(t *testing.T) {
	f := newSchedulerFixture(t)
	ctx := context.Background()

	in := assignInput(f, 1, 10)
	in.ShiftID = "missing"
	_, err := f.scheduler.Assign(ctx, f.manager, in)
	require.ErrorIs(t, err, shift.ErrShiftNotFound)

	in = assignInput(f, 1, 10)
	in.EmployeeID = "missing"
	_, err = f.scheduler.Assign(ctx, f.manager, in)
	require.ErrorIs(t, err, identity.ErrActorNotFound)
}

func TestAssign_InvalidDateRangeBeforeOverlapCheck(t *testing.T) {
	// GIVEN: an existing assignment on [1,10]
	// WHEN: assigning an inverted range that would also overlap
	// THEN: the date ordering error wins

	f := newSchedulerFixture(t)
	ctx := context.Background()

	_, err := f.scheduler.Assign(ctx, f.manager, assignInput(f, 1, 10))
	require.NoError(t, err)

	_, err = f.scheduler.Assign(ctx, f.manager, assignInput(f, 8, 2))
	require.ErrorIs(t, err, shift.ErrDateRangeInvalid)
}

func TestAssign_RejectsOverlap(t *testing.T) {
	f := newSchedulerFixture(t)
	ctx := context.Background()

	_, err := f.scheduler.Assign(ctx, f.manager, assignInput(f, 1, 10))
	require.NoError(t, err)

	// Boundary touch counts as overlap.
	_, err = f.scheduler.Assign(ctx, f.manager, assignInput(f, 10, 20))
	require.ErrorIs(t, err, shift.ErrDateRangeOverlap)

	// Disjoint interval is fine.
	_, err = f.scheduler.Assign(ctx, f.manager, assignInput(f, 11, 20))
	require.NoError(t, err)
}

func TestAssign_ConcurrentConflictingAssignments(t *testing.T) {
	// GIVEN: two concurrent assignments over the same interval
	// WHEN: they race
	// THEN: exactly one wins

	f := newSchedulerFixture(t)
	ctx := context.Background()

	const attempts = 8
	errs := make(chan error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.scheduler.Assign(ctx, f.manager, assignInput(f, 1, 10))
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var wins, conflicts int
	for err := range errs {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, shift.ErrDateRangeOverlap):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	require.Equal(t, 1, wins)
	require.Equal(t, attempts-1, conflicts)
}

// =============================================================================
// VIEW TESTS
// =============================================================================

func TestActiveShiftDetails_JoinsShiftAndBreaks(t *testing.T) {
	f := newSchedulerFixture(t)
	ctx := context.Background()

	_, err := f.scheduler.Assign(ctx, f.manager, assignInput(f, 1, 10))
	require.NoError(t, err)

	details, err := f.scheduler.ActiveShiftDetails(ctx, f.employee)
	require.NoError(t, err)
	require.Len(t, details, 1)
	require.Equal(t, "Morning", details[0].ShiftName)
	require.Equal(t, "08:00", details[0].StartTime)
	require.Len(t, details[0].Breaks, 1)
	require.Equal(t, "Lunch", details[0].Breaks[0].Name)
}

func TestActiveShiftDetails_NoneActive(t *testing.T) {
	f := newSchedulerFixture(t)

	_, err := f.scheduler.ActiveShiftDetails(context.Background(), f.employee)
	require.ErrorIs(t, err, shift.ErrAssignmentNotFound)
}

func TestActiveShiftDetailByEmployee_ManagerOnly(t *testing.T) {
	f := newSchedulerFixture(t)
	ctx := context.Background()

	_, err := f.scheduler.Assign(ctx, f.manager, assignInput(f, 1, 10))
	require.NoError(t, err)

	detail, err := f.scheduler.ActiveShiftDetailByEmployee(ctx, f.manager, f.employee.ID)
	require.NoError(t, err)
	require.Equal(t, f.employee.ID, detail.EmployeeID)

	_, err = f.scheduler.ActiveShiftDetailByEmployee(ctx, f.employee, f.employee.ID)
	require.ErrorIs(t, err, shift.ErrUnauthorized)
}

func TestCompanyPersonnel(t *testing.T) {
	f := newSchedulerFixture(t)
	ctx := context.Background()

	personnel, err := f.scheduler.CompanyPersonnel(ctx, f.manager)
	require.NoError(t, err)
	require.Len(t, personnel, 1)
	require.Equal(t, f.employee.ID, personnel[0].ID)

	_, err = f.scheduler.CompanyPersonnel(ctx, f.employee)
	require.ErrorIs(t, err, shift.ErrUnauthorized)
}

func TestCompanyAssignments_FiltersByCompany(t *testing.T) {
	// GIVEN: assignments on the manager's shift and on another company's shift
	// WHEN: listing company assignments
	// THEN: only rows on the company's shifts appear; foreign ones are skipped

	f := newSchedulerFixture(t)
	ctx := context.Background()

	_, err := f.scheduler.Assign(ctx, f.manager, assignInput(f, 1, 10))
	require.NoError(t, err)

	// Seed a foreign company's shift with an active assignment.
	otherEmployee := &identity.Actor{
		ID:        "emp-2",
		CompanyID: "co-2",
		Role:      identity.RoleEmployee,
		FirstName: "Enrico",
		LastName:  "Fermi",
		Email:     "enrico@example.com",
		HireDate:  date.New(2019, time.May, 1),
	}
	require.NoError(t, f.store.SaveActor(ctx, otherEmployee))
	require.NoError(t, f.store.SaveShift(ctx, &shift.Shift{
		ID:        "shift-2",
		CompanyID: "co-2",
		Name:      "Night",
		StartTime: "22:00",
		EndTime:   "06:00",
	}))
	require.NoError(t, f.store.SaveAssignment(ctx, &shift.Assignment{
		ID:         "foreign-1",
		ShiftID:    "shift-2",
		EmployeeID: otherEmployee.ID,
		StartDate:  day(1),
		EndDate:    day(10),
		State:      shift.StateActive,
		CreatedAt:  time.Now(),
	}))

	views, err := f.scheduler.CompanyAssignments(ctx, f.manager)
	require.NoError(t, err)
	require.Len(t, views, 1)
	require.Equal(t, "Morning", views[0].ShiftName)
	require.Equal(t, "Grace", views[0].EmployeeFirstName)
}
