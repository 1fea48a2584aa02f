package leave

import "context"

// Store is the persistence contract for leave requests and their balances.
//
// InTx runs fn against a transactional view of the store: either every write
// inside fn is applied, or none is. The approval workflow relies on this to
// write the terminal status and the debited balance as one atomic unit.
type Store interface {
	SaveRequest(ctx context.Context, r *Request) error

	// FindRequest returns ErrRequestNotFound when the id does not resolve.
	FindRequest(ctx context.Context, id string) (*Request, error)

	// FindPendingByCompany returns all PENDING requests for a company.
	FindPendingByCompany(ctx context.Context, companyID string) ([]*Request, error)

	// FindPendingByEmployee returns all PENDING requests filed by an employee.
	FindPendingByEmployee(ctx context.Context, employeeID string) ([]*Request, error)

	SaveBalance(ctx context.Context, b Balance) error

	// FindBalanceByRequest returns ErrBalanceNotFound when the request has
	// no ledger.
	FindBalanceByRequest(ctx context.Context, requestID string) (Balance, error)

	InTx(ctx context.Context, fn func(Store) error) error
}

// Notifier dispatches leave decisions to the requester. Fire-and-forget:
// implementations log failures and never propagate them, so a lost email
// cannot roll back an already-committed decision.
type Notifier interface {
	SendApproved(ctx context.Context, email string, r *Request)
	SendRejected(ctx context.Context, email string, r *Request, reason string)
}
