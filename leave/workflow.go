/*
workflow.go - Leave request lifecycle

PURPOSE:
  Orchestrates the full lifecycle of a leave request:
  1. Create:  authorize, validate against the accrued balance, persist PENDING
  2. List:    manager view (company's pending) / employee view (own pending)
  3. Approve: debit the balance and mark APPROVED, atomically
  4. Reject:  mark REJECTED, no balance mutation

REQUEST FLOW:

  employee files ──▶ PENDING ──▶ manager approves ──▶ APPROVED (balance debited)
                        │
                        └──────▶ manager rejects  ──▶ REJECTED (balance untouched)

  Both outcomes are terminal. A second transition attempt fails with
  ErrAlreadyResolved.

CONCURRENCY:
  Approve and Reject serialize per request id (keyed mutex) and run their
  reads and writes inside one store transaction, so a request can never be
  debited or resolved twice. Notifications are dispatched after commit,
  best-effort.
*/
package leave

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/warp/hr-engine/date"
	"github.com/warp/hr-engine/identity"
	"github.com/warp/hr-engine/keyed"
)

// Workflow drives leave requests through their lifecycle.
type Workflow struct {
	store    Store
	actors   identity.Store
	notifier Notifier
	policy   Policy
	clock    date.Clock
	locks    *keyed.Mutex
}

// NewWorkflow wires the workflow. A nil clock falls back to the system
// clock; a nil notifier disables notifications.
func NewWorkflow(store Store, actors identity.Store, notifier Notifier, policy Policy, clock date.Clock) *Workflow {
	if clock == nil {
		clock = date.System{}
	}
	if notifier == nil {
		notifier = noopNotifier{}
	}
	return &Workflow{
		store:    store,
		actors:   actors,
		notifier: notifier,
		policy:   policy,
		clock:    clock,
		locks:    keyed.NewMutex(),
	}
}

// CreateInput is the employee's request.
type CreateInput struct {
	Type      Type
	StartDate date.Date
	EndDate   date.Date
}

// Create validates and files a new leave request in state PENDING, together
// with its balance ledger.
func (w *Workflow) Create(ctx context.Context, actor *identity.Actor, in CreateInput) (*Request, error) {
	if actor.IsManager() {
		return nil, ErrUnauthorized
	}
	if !in.Type.Valid() {
		return nil, ErrUnknownType
	}
	if in.Type == TypeMaternity && actor.Gender == identity.GenderMale {
		return nil, ErrUnauthorized
	}
	if in.EndDate.Before(in.StartDate) {
		return nil, ErrDateRangeInvalid
	}

	today := w.clock.Today()
	req := &Request{
		ID:         uuid.NewString(),
		CompanyID:  actor.CompanyID,
		EmployeeID: actor.ID,
		Type:       in.Type,
		StartDate:  in.StartDate,
		EndDate:    in.EndDate,
		Status:     StatusPending,
		StatusDate: today,
		CreatedAt:  time.Now().UTC(),
	}

	balance := NewBalance(req.ID, w.policy, actor, today)
	span := req.Span()

	switch in.Type {
	case TypeAnnual:
		// Annual leave is checked against the accrued (mutable) balance.
		if decimal.NewFromInt(int64(span)).GreaterThan(balance.Annual) {
			return nil, ErrBalanceExceeded
		}
	case TypeMarriage, TypeMaternity:
		// Marriage and maternity are checked against the fixed base cap,
		// not the mutable counter.
		if span > w.policy.Base(in.Type) {
			return nil, ErrBalanceExceeded
		}
	}

	err := w.store.InTx(ctx, func(s Store) error {
		if err := s.SaveRequest(ctx, req); err != nil {
			return err
		}
		return s.SaveBalance(ctx, balance)
	})
	if err != nil {
		return nil, fmt.Errorf("create leave request: %w", err)
	}

	log.Info().
		Str("request_id", req.ID).
		Str("employee_id", req.EmployeeID).
		Str("leave_type", string(req.Type)).
		Int("span_days", span).
		Msg("leave request filed")

	return req, nil
}

// PendingForCompany is the manager view: all PENDING requests for the
// manager's company.
func (w *Workflow) PendingForCompany(ctx context.Context, actor *identity.Actor) ([]*Request, error) {
	if !actor.IsManager() {
		return nil, ErrUnauthorized
	}
	return w.store.FindPendingByCompany(ctx, actor.CompanyID)
}

// PendingForEmployee is the employee view: all PENDING requests the actor
// filed.
func (w *Workflow) PendingForEmployee(ctx context.Context, actor *identity.Actor) ([]*Request, error) {
	if !actor.IsEmployee() {
		return nil, ErrUnauthorized
	}
	return w.store.FindPendingByEmployee(ctx, actor.ID)
}

// Approve transitions a PENDING request to APPROVED and debits its balance
// by the request's day span. Status write and balance debit commit as one
// transaction, serialized per request id.
func (w *Workflow) Approve(ctx context.Context, actor *identity.Actor, requestID string) (*Request, error) {
	req, err := w.resolve(ctx, actor, requestID, StatusApproved)
	if err != nil {
		return nil, err
	}
	w.notify(ctx, req, "")
	return req, nil
}

// Reject transitions a PENDING request to REJECTED. The balance is not
// touched; the reason travels with the notification only.
func (w *Workflow) Reject(ctx context.Context, actor *identity.Actor, requestID, reason string) (*Request, error) {
	req, err := w.resolve(ctx, actor, requestID, StatusRejected)
	if err != nil {
		return nil, err
	}
	w.notify(ctx, req, reason)
	return req, nil
}

func (w *Workflow) resolve(ctx context.Context, actor *identity.Actor, requestID string, to Status) (*Request, error) {
	if !actor.IsManager() {
		return nil, ErrUnauthorized
	}

	unlock := w.locks.Lock(requestID)
	defer unlock()

	var resolved *Request
	err := w.store.InTx(ctx, func(s Store) error {
		req, err := s.FindRequest(ctx, requestID)
		if err != nil {
			return err
		}
		if req.CompanyID != actor.CompanyID {
			return ErrUnauthorized
		}
		if req.Resolved() {
			return ErrAlreadyResolved
		}

		if to == StatusApproved {
			balance, err := s.FindBalanceByRequest(ctx, requestID)
			if err != nil {
				return err
			}
			debited, err := balance.Debit(req.Type, req.Span())
			if err != nil {
				return err
			}
			if err := s.SaveBalance(ctx, debited); err != nil {
				return err
			}
		}

		req.Status = to
		req.StatusDate = w.clock.Today()
		if err := s.SaveRequest(ctx, req); err != nil {
			return err
		}
		resolved = req
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("request_id", resolved.ID).
		Str("manager_id", actor.ID).
		Str("status", string(resolved.Status)).
		Msg("leave request resolved")

	return resolved, nil
}

// notify looks up the requester's email and dispatches the decision.
// Best-effort: a failed lookup is logged and the decision stands.
func (w *Workflow) notify(ctx context.Context, req *Request, reason string) {
	employee, err := w.actors.FindActorByID(ctx, req.EmployeeID)
	if err != nil {
		log.Warn().
			Str("request_id", req.ID).
			Str("employee_id", req.EmployeeID).
			Err(err).
			Msg("skipping notification: requester lookup failed")
		return
	}

	switch req.Status {
	case StatusApproved:
		w.notifier.SendApproved(ctx, employee.Email, req)
	case StatusRejected:
		w.notifier.SendRejected(ctx, employee.Email, req, reason)
	}
}

type noopNotifier struct{}

func (noopNotifier) SendApproved(context.Context, string, *Request)        {}
func (noopNotifier) SendRejected(context.Context, string, *Request, string) {}
