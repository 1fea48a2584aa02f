/*
Package leave implements the leave-entitlement engine: tenure-based accrual,
the per-request balance ledger, and the request approval workflow.

KEY CONCEPTS:
  - Type: closed enumeration of leave kinds with fixed base entitlements
  - Policy: base day counts + tenure multiplier tiers (JSON-configurable)
  - Balance: per-request remaining-day ledger, immutable value
  - Request: PENDING -> APPROVED | REJECTED, both terminal
  - Workflow: validates, creates and transitions requests

INVARIANTS:
  1. Only employees file requests; only managers of the same company resolve them.
  2. A request's balance is created when the request is filed and debited
     exactly once, on approval.
  3. No counter goes below zero (debits floor at zero).
  4. A resolved request never transitions again.

SEE ALSO:
  - accrual.go: tenure multiplier tiers
  - balance.go: the per-request ledger
  - workflow.go: request lifecycle
*/
package leave

import (
	"time"

	"github.com/warp/hr-engine/date"
)

// Type is the closed set of leave kinds.
type Type string

const (
	TypeAnnual    Type = "ANNUAL"
	TypeMarriage  Type = "MARRIAGE"
	TypeMaternity Type = "MATERNITY"
)

// Valid reports whether t is one of the recognized leave kinds.
func (t Type) Valid() bool {
	switch t {
	case TypeAnnual, TypeMarriage, TypeMaternity:
		return true
	default:
		return false
	}
}

// Status is the request lifecycle state. PENDING transitions exactly once
// to APPROVED or REJECTED; both are terminal.
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

// Request is a leave request filed by an employee.
type Request struct {
	ID         string
	CompanyID  string
	EmployeeID string
	Type       Type
	StartDate  date.Date
	EndDate    date.Date
	Status     Status
	StatusDate date.Date
	CreatedAt  time.Time
}

// Span returns the requested number of days, end date exclusive.
func (r *Request) Span() int {
	return date.DaysBetween(r.StartDate, r.EndDate)
}

// Resolved reports whether the request reached a terminal state.
func (r *Request) Resolved() bool {
	return r.Status != StatusPending
}
