/*
balance.go - Per-request balance ledger

PURPOSE:
  Each leave request owns one Balance for its lifetime: remaining-day
  counters for annual, marriage and maternity leave. The balance is created
  when the request is filed and debited exactly once, on approval.

IMMUTABILITY:
  Balance is a value type. Debit returns a new Balance instead of mutating
  the receiver, so concurrent readers never observe a half-applied debit;
  the store simply replaces the old value inside the approval transaction.

FLOOR:
  Debits that would drive a counter negative fail with ErrBalanceExceeded.
  With create-time validation in place this is unreachable for a fresh
  per-request balance, but the floor guards the ledger on its own terms.
*/
package leave

import (
	"github.com/shopspring/decimal"

	"github.com/warp/hr-engine/date"
	"github.com/warp/hr-engine/identity"
)

// Balance is the remaining-day ledger scoped to a single leave request.
type Balance struct {
	RequestID string
	Annual    decimal.Decimal
	Marriage  decimal.Decimal
	Maternity decimal.Decimal
}

// NewBalance initializes the ledger for a request filed by actor:
// annual = base(ANNUAL) x tenure multiplier, marriage = base(MARRIAGE),
// maternity = base(MATERNITY) for female actors and zero otherwise.
func NewBalance(requestID string, policy Policy, actor *identity.Actor, asOf date.Date) Balance {
	mult := policy.AccrualFor(actor.HireDate, asOf)

	b := Balance{
		RequestID: requestID,
		Annual:    decimal.NewFromInt(int64(policy.Base(TypeAnnual))).Mul(mult),
		Marriage:  decimal.NewFromInt(int64(policy.Base(TypeMarriage))),
		Maternity: decimal.Zero,
	}
	if actor.Gender == identity.GenderFemale {
		b.Maternity = decimal.NewFromInt(int64(policy.Base(TypeMaternity)))
	}
	return b
}

// Remaining returns the counter for the leave type.
func (b Balance) Remaining(t Type) (decimal.Decimal, error) {
	switch t {
	case TypeAnnual:
		return b.Annual, nil
	case TypeMarriage:
		return b.Marriage, nil
	case TypeMaternity:
		return b.Maternity, nil
	default:
		return decimal.Zero, ErrUnknownType
	}
}

// Debit subtracts days from the counter matching t and returns the new
// balance. The other counters are untouched. Fails with ErrUnknownType for
// unrecognized kinds and ErrBalanceExceeded when the result would be
// negative.
func (b Balance) Debit(t Type, days int) (Balance, error) {
	amount := decimal.NewFromInt(int64(days))
	next := b

	switch t {
	case TypeAnnual:
		next.Annual = b.Annual.Sub(amount)
	case TypeMarriage:
		next.Marriage = b.Marriage.Sub(amount)
	case TypeMaternity:
		next.Maternity = b.Maternity.Sub(amount)
	default:
		return Balance{}, ErrUnknownType
	}

	if next.Annual.IsNegative() || next.Marriage.IsNegative() || next.Maternity.IsNegative() {
		return Balance{}, ErrBalanceExceeded
	}
	return next, nil
}
