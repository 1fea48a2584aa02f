package leave_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/warp/hr-engine/date"
	"github.com/warp/hr-engine/identity"
	"github.com/warp/hr-engine/leave"
	"github.com/warp/hr-engine/store/memory"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

var today = date.New(2026, time.August, 31)

type fixture struct {
	store    *memory.Store
	workflow *leave.Workflow
	notifier *countingNotifier
	employee *identity.Actor
	manager  *identity.Actor
}

// newFixture seeds one company with an employee hired tenureDays ago and a
// manager, on a clock pinned to today.
func newFixture(t *testing.T, gender identity.Gender, tenureDays int) *fixture {
	t.Helper()

	store := memory.New()
	notifier := &countingNotifier{}
	workflow := leave.NewWorkflow(store, store, notifier, leave.DefaultPolicy(), date.Fixed{On: today})

	employee := &identity.Actor{
		ID:        "emp-1",
		CompanyID: "co-1",
		Role:      identity.RoleEmployee,
		Gender:    gender,
		FirstName: "Grace",
		LastName:  "Hopper",
		Email:     "grace@example.com",
		HireDate:  today.AddDays(-tenureDays),
	}
	manager := &identity.Actor{
		ID:        "mgr-1",
		CompanyID: "co-1",
		Role:      identity.RoleCompanyManager,
		Gender:    identity.GenderMale,
		FirstName: "Max",
		LastName:  "Planck",
		Email:     "max@example.com",
		HireDate:  today.AddDays(-4000),
	}

	ctx := context.Background()
	require.NoError(t, store.SaveActor(ctx, employee))
	require.NoError(t, store.SaveActor(ctx, manager))

	return &fixture{
		store:    store,
		workflow: workflow,
		notifier: notifier,
		employee: employee,
		manager:  manager,
	}
}

// countingNotifier records dispatched notifications.
type countingNotifier struct {
	mu       sync.Mutex
	approved int
	rejected int
	reason   string
}

func (n *countingNotifier) SendApproved(_ context.Context, _ string, _ *leave.Request) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.approved++
}

func (n *countingNotifier) SendRejected(_ context.Context, _ string, _ *leave.Request, reason string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.rejected++
	n.reason = reason
}

func annualRequest(spanDays int) leave.CreateInput {
	start := today.AddDays(7)
	return leave.CreateInput{
		Type:      leave.TypeAnnual,
		StartDate: start,
		EndDate:   start.AddDays(spanDays),
	}
}

// =============================================================================
// CREATE TESTS
// =============================================================================

func TestCreate_FilesPendingRequestWithBalance(t *testing.T) {
	// GIVEN: an employee with 2000 days tenure (annual balance 14 x 1.5 = 21)
	// WHEN: filing a 10-day annual request
	// THEN: the request is PENDING and the balance ledger is persisted intact

	f := newFixture(t, identity.GenderFemale, 2000)
	ctx := context.Background()

	req, err := f.workflow.Create(ctx, f.employee, annualRequest(10))
	require.NoError(t, err)
	require.Equal(t, leave.StatusPending, req.Status)
	require.Equal(t, 10, req.Span())
	require.Equal(t, today, req.StatusDate)

	balance, err := f.store.FindBalanceByRequest(ctx, req.ID)
	require.NoError(t, err)
	require.True(t, balance.Annual.Equal(decimal.RequireFromString("21")),
		"balance must not be debited at creation, got %v", balance.Annual)
}

func TestCreate_ManagerCannotFile(t *testing.T) {
	f := newFixture(t, identity.GenderFemale, 2000)

	_, err := f.workflow.Create(context.Background(), f.manager, annualRequest(1))
	require.ErrorIs(t, err, leave.ErrUnauthorized)
}

func TestCreate_MaleMaternityRejected(t *testing.T) {
	f := newFixture(t, identity.GenderMale, 2000)

	_, err := f.workflow.Create(context.Background(), f.employee, leave.CreateInput{
		Type:      leave.TypeMaternity,
		StartDate: today,
		EndDate:   today.AddDays(10),
	})
	require.ErrorIs(t, err, leave.ErrUnauthorized)
}

func TestCreate_UnknownType(t *testing.T) {
	f := newFixture(t, identity.GenderFemale, 2000)

	_, err := f.workflow.Create(context.Background(), f.employee, leave.CreateInput{
		Type:      leave.Type("SABBATICAL"),
		StartDate: today,
		EndDate:   today.AddDays(1),
	})
	require.ErrorIs(t, err, leave.ErrUnknownType)
}

func TestCreate_EndBeforeStart(t *testing.T) {
	f := newFixture(t, identity.GenderFemale, 2000)

	_, err := f.workflow.Create(context.Background(), f.employee, leave.CreateInput{
		Type:      leave.TypeAnnual,
		StartDate: today.AddDays(5),
		EndDate:   today,
	})
	require.ErrorIs(t, err, leave.ErrDateRangeInvalid)
}

func TestCreate_SpanOverBalance(t *testing.T) {
	// Balance is 21 days; a 22-day span must be rejected, a 21-day span
	// (span == balance) accepted.

	f := newFixture(t, identity.GenderFemale, 2000)
	ctx := context.Background()

	_, err := f.workflow.Create(ctx, f.employee, annualRequest(22))
	require.ErrorIs(t, err, leave.ErrBalanceExceeded)

	_, err = f.workflow.Create(ctx, f.employee, annualRequest(21))
	require.NoError(t, err)
}

func TestCreate_MarriageCappedAtBase(t *testing.T) {
	f := newFixture(t, identity.GenderFemale, 2000)
	ctx := context.Background()

	_, err := f.workflow.Create(ctx, f.employee, leave.CreateInput{
		Type:      leave.TypeMarriage,
		StartDate: today,
		EndDate:   today.AddDays(4),
	})
	require.ErrorIs(t, err, leave.ErrBalanceExceeded)

	_, err = f.workflow.Create(ctx, f.employee, leave.CreateInput{
		Type:      leave.TypeMarriage,
		StartDate: today,
		EndDate:   today.AddDays(3),
	})
	require.NoError(t, err)
}

// =============================================================================
// LISTING TESTS
// =============================================================================

func TestPendingListings_RoleChecks(t *testing.T) {
	f := newFixture(t, identity.GenderFemale, 2000)
	ctx := context.Background()

	_, err := f.workflow.Create(ctx, f.employee, annualRequest(5))
	require.NoError(t, err)

	// Manager sees the company queue; an employee may not.
	pending, err := f.workflow.PendingForCompany(ctx, f.manager)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	_, err = f.workflow.PendingForCompany(ctx, f.employee)
	require.ErrorIs(t, err, leave.ErrUnauthorized)

	// Employee sees their own queue; a manager may not use that view.
	mine, err := f.workflow.PendingForEmployee(ctx, f.employee)
	require.NoError(t, err)
	require.Len(t, mine, 1)

	_, err = f.workflow.PendingForEmployee(ctx, f.manager)
	require.ErrorIs(t, err, leave.ErrUnauthorized)
}

// =============================================================================
// APPROVE / REJECT TESTS
// =============================================================================

func TestApprove_DebitsBalanceExactly(t *testing.T) {
	// GIVEN: an employee hired 2000 days ago filing a 10-day annual request
	// WHEN: the manager approves it
	// THEN: the request is APPROVED, the balance drops 21 -> 11, and exactly
	//       one approval notification is dispatched

	f := newFixture(t, identity.GenderFemale, 2000)
	ctx := context.Background()

	req, err := f.workflow.Create(ctx, f.employee, annualRequest(10))
	require.NoError(t, err)

	approved, err := f.workflow.Approve(ctx, f.manager, req.ID)
	require.NoError(t, err)
	require.Equal(t, leave.StatusApproved, approved.Status)
	require.Equal(t, today, approved.StatusDate)

	balance, err := f.store.FindBalanceByRequest(ctx, req.ID)
	require.NoError(t, err)
	require.True(t, balance.Annual.Equal(decimal.NewFromInt(11)),
		"expected annual 11 after approval, got %v", balance.Annual)

	require.Equal(t, 1, f.notifier.approved)
	require.Equal(t, 0, f.notifier.rejected)
}

func TestReject_LeavesBalanceUntouched(t *testing.T) {
	f := newFixture(t, identity.GenderFemale, 2000)
	ctx := context.Background()

	req, err := f.workflow.Create(ctx, f.employee, annualRequest(10))
	require.NoError(t, err)

	rejected, err := f.workflow.Reject(ctx, f.manager, req.ID, "short staffed")
	require.NoError(t, err)
	require.Equal(t, leave.StatusRejected, rejected.Status)

	balance, err := f.store.FindBalanceByRequest(ctx, req.ID)
	require.NoError(t, err)
	require.True(t, balance.Annual.Equal(decimal.RequireFromString("21")),
		"rejection must not debit, got %v", balance.Annual)

	require.Equal(t, 1, f.notifier.rejected)
	require.Equal(t, "short staffed", f.notifier.reason)
}

func TestResolve_TerminalStates(t *testing.T) {
	f := newFixture(t, identity.GenderFemale, 2000)
	ctx := context.Background()

	req, err := f.workflow.Create(ctx, f.employee, annualRequest(5))
	require.NoError(t, err)

	_, err = f.workflow.Approve(ctx, f.manager, req.ID)
	require.NoError(t, err)

	// A second transition, either way, fails.
	_, err = f.workflow.Approve(ctx, f.manager, req.ID)
	require.ErrorIs(t, err, leave.ErrAlreadyResolved)

	_, err = f.workflow.Reject(ctx, f.manager, req.ID, "")
	require.ErrorIs(t, err, leave.ErrAlreadyResolved)

	// The balance is only debited once.
	balance, err := f.store.FindBalanceByRequest(ctx, req.ID)
	require.NoError(t, err)
	require.True(t, balance.Annual.Equal(decimal.NewFromInt(16)),
		"expected annual 16 after single debit, got %v", balance.Annual)
}

func TestResolve_AuthorizationChecks(t *testing.T) {
	f := newFixture(t, identity.GenderFemale, 2000)
	ctx := context.Background()

	req, err := f.workflow.Create(ctx, f.employee, annualRequest(5))
	require.NoError(t, err)

	// Employees can't approve.
	_, err = f.workflow.Approve(ctx, f.employee, req.ID)
	require.ErrorIs(t, err, leave.ErrUnauthorized)

	// A manager of another company can't resolve the request.
	foreign := &identity.Actor{
		ID:        "mgr-2",
		CompanyID: "co-2",
		Role:      identity.RoleCompanyManager,
		HireDate:  today.AddDays(-1000),
	}
	_, err = f.workflow.Approve(ctx, foreign, req.ID)
	require.ErrorIs(t, err, leave.ErrUnauthorized)

	// Unknown request id.
	_, err = f.workflow.Approve(ctx, f.manager, "missing")
	require.ErrorIs(t, err, leave.ErrRequestNotFound)
}

func TestApprove_ConcurrentResolutionsDebitOnce(t *testing.T) {
	// GIVEN: one pending request and many concurrent approvals
	// WHEN: they race
	// THEN: exactly one wins; the rest observe ErrAlreadyResolved

	f := newFixture(t, identity.GenderFemale, 2000)
	ctx := context.Background()

	req, err := f.workflow.Create(ctx, f.employee, annualRequest(10))
	require.NoError(t, err)

	const attempts = 8
	errs := make(chan error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.workflow.Approve(ctx, f.manager, req.ID)
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
		case errors.Is(err, leave.ErrAlreadyResolved):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	require.Equal(t, 1, wins)
	require.Equal(t, attempts-1, conflicts)

	balance, err := f.store.FindBalanceByRequest(ctx, req.ID)
	require.NoError(t, err)
	require.True(t, balance.Annual.Equal(decimal.NewFromInt(11)),
		"expected exactly one debit, got %v", balance.Annual)

	require.Equal(t, 1, f.notifier.approved)
}
