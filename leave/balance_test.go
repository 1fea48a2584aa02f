package leave_test

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/hr-engine/date"
	"github.com/warp/hr-engine/identity"
	"github.com/warp/hr-engine/leave"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func testActor(gender identity.Gender, hiredDaysAgo int, asOf date.Date) *identity.Actor {
	return &identity.Actor{
		ID:        "emp-1",
		CompanyID: "co-1",
		Role:      identity.RoleEmployee,
		Gender:    gender,
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		HireDate:  asOf.AddDays(-hiredDaysAgo),
		CreatedAt: time.Now(),
	}
}

// =============================================================================
// BALANCE TESTS
// =============================================================================

func TestNewBalance_ScalesAnnualByTenure(t *testing.T) {
	// GIVEN: an employee with 2000 days of tenure (tier multiplier 1.5)
	// WHEN: initializing the balance
	// THEN: annual = 14 x 1.5 = 21, marriage = 3

	asOf := date.New(2026, time.June, 1)
	actor := testActor(identity.GenderFemale, 2000, asOf)

	b := leave.NewBalance("req-1", leave.DefaultPolicy(), actor, asOf)

	if !b.Annual.Equal(decimal.RequireFromString("21")) {
		t.Errorf("expected annual 21, got %v", b.Annual)
	}
	if !b.Marriage.Equal(decimal.NewFromInt(3)) {
		t.Errorf("expected marriage 3, got %v", b.Marriage)
	}
	if !b.Maternity.Equal(decimal.NewFromInt(112)) {
		t.Errorf("expected maternity 112, got %v", b.Maternity)
	}
}

func TestNewBalance_NoMaternityForMaleActors(t *testing.T) {
	asOf := date.New(2026, time.June, 1)
	actor := testActor(identity.GenderMale, 400, asOf)

	b := leave.NewBalance("req-1", leave.DefaultPolicy(), actor, asOf)

	if !b.Maternity.IsZero() {
		t.Errorf("expected zero maternity balance, got %v", b.Maternity)
	}
}

func TestNewBalance_FirstYearHasNoAnnualLeave(t *testing.T) {
	asOf := date.New(2026, time.June, 1)
	actor := testActor(identity.GenderFemale, 100, asOf)

	b := leave.NewBalance("req-1", leave.DefaultPolicy(), actor, asOf)

	if !b.Annual.IsZero() {
		t.Errorf("expected zero annual balance under one year of tenure, got %v", b.Annual)
	}
}

func TestDebit_OnlyTouchesMatchingCounter(t *testing.T) {
	asOf := date.New(2026, time.June, 1)
	actor := testActor(identity.GenderFemale, 2000, asOf)
	b := leave.NewBalance("req-1", leave.DefaultPolicy(), actor, asOf)

	debited, err := b.Debit(leave.TypeAnnual, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !debited.Annual.Equal(decimal.NewFromInt(11)) {
		t.Errorf("expected annual 11 after debit, got %v", debited.Annual)
	}
	if !debited.Marriage.Equal(b.Marriage) || !debited.Maternity.Equal(b.Maternity) {
		t.Errorf("debit touched unrelated counters: %+v", debited)
	}

	// The receiver is a value; the original is unchanged.
	if !b.Annual.Equal(decimal.RequireFromString("21")) {
		t.Errorf("original balance mutated: %v", b.Annual)
	}
}

func TestDebit_FloorsAtZero(t *testing.T) {
	asOf := date.New(2026, time.June, 1)
	actor := testActor(identity.GenderMale, 400, asOf)
	b := leave.NewBalance("req-1", leave.DefaultPolicy(), actor, asOf)

	// Annual balance is 14; a 15-day debit must fail.
	if _, err := b.Debit(leave.TypeAnnual, 15); !errors.Is(err, leave.ErrBalanceExceeded) {
		t.Errorf("expected ErrBalanceExceeded, got %v", err)
	}

	// An exact debit drains the counter to zero.
	drained, err := b.Debit(leave.TypeAnnual, 14)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !drained.Annual.IsZero() {
		t.Errorf("expected zero annual after exact debit, got %v", drained.Annual)
	}
}

func TestDebit_UnknownType(t *testing.T) {
	b := leave.Balance{RequestID: "req-1"}
	if _, err := b.Debit(leave.Type("SABBATICAL"), 1); !errors.Is(err, leave.ErrUnknownType) {
		t.Errorf("expected ErrUnknownType, got %v", err)
	}
}
