// Package memory provides an in-memory implementation of every store
// contract (for tests and development).
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/warp/hr-engine/identity"
	"github.com/warp/hr-engine/leave"
	"github.com/warp/hr-engine/shift"
)

// Store holds everything in maps. Values are copied on the way in and out
// so callers never alias stored state.
type Store struct {
	mu sync.RWMutex

	// txMu serializes InTx blocks. The memory store has no rollback; tests
	// that need rollback semantics use the sqlite store.
	txMu sync.Mutex

	actors      map[string]identity.Actor
	requests    map[string]leave.Request
	balances    map[string]leave.Balance
	shifts      map[string]shift.Shift
	breaks      map[string][]shift.Break
	assignments map[string]shift.Assignment
}

func New() *Store {
	return &Store{
		actors:      make(map[string]identity.Actor),
		requests:    make(map[string]leave.Request),
		balances:    make(map[string]leave.Balance),
		shifts:      make(map[string]shift.Shift),
		breaks:      make(map[string][]shift.Break),
		assignments: make(map[string]shift.Assignment),
	}
}

var (
	_ identity.Store        = (*Store)(nil)
	_ leave.Store           = (*Store)(nil)
	_ shift.ShiftStore      = (*Store)(nil)
	_ shift.BreakStore      = (*Store)(nil)
	_ shift.AssignmentStore = (*Store)(nil)
)

// =============================================================================
// IDENTITY
// =============================================================================

func (s *Store) SaveActor(_ context.Context, actor *identity.Actor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.actors[actor.ID] = *actor
	return nil
}

func (s *Store) FindActorByID(_ context.Context, id string) (*identity.Actor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	actor, ok := s.actors[id]
	if !ok {
		return nil, identity.ErrActorNotFound
	}
	return &actor, nil
}

func (s *Store) FindEmployeesByCompany(_ context.Context, companyID string) ([]*identity.Actor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*identity.Actor
	for _, actor := range s.actors {
		if actor.CompanyID == companyID && actor.Role == identity.RoleEmployee {
			a := actor
			out = append(out, &a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// =============================================================================
// LEAVE
// =============================================================================

func (s *Store) SaveRequest(_ context.Context, r *leave.Request) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests[r.ID] = *r
	return nil
}

func (s *Store) FindRequest(_ context.Context, id string) (*leave.Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.requests[id]
	if !ok {
		return nil, leave.ErrRequestNotFound
	}
	return &r, nil
}

func (s *Store) FindPendingByCompany(_ context.Context, companyID string) ([]*leave.Request, error) {
	return s.findPending(func(r leave.Request) bool { return r.CompanyID == companyID })
}

func (s *Store) FindPendingByEmployee(_ context.Context, employeeID string) ([]*leave.Request, error) {
	return s.findPending(func(r leave.Request) bool { return r.EmployeeID == employeeID })
}

func (s *Store) findPending(match func(leave.Request) bool) ([]*leave.Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*leave.Request
	for _, r := range s.requests {
		if r.Status == leave.StatusPending && match(r) {
			req := r
			out = append(out, &req)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) SaveBalance(_ context.Context, b leave.Balance) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.balances[b.RequestID] = b
	return nil
}

func (s *Store) FindBalanceByRequest(_ context.Context, requestID string) (leave.Balance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.balances[requestID]
	if !ok {
		return leave.Balance{}, leave.ErrBalanceNotFound
	}
	return b, nil
}

// InTx serializes transactional blocks against each other. Writes inside fn
// are applied immediately; the memory store does not roll back on error.
func (s *Store) InTx(_ context.Context, fn func(leave.Store) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	return fn(s)
}

// =============================================================================
// SHIFT
// =============================================================================

func (s *Store) SaveShift(_ context.Context, sh *shift.Shift) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shifts[sh.ID] = *sh
	return nil
}

func (s *Store) FindShift(_ context.Context, id string) (*shift.Shift, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sh, ok := s.shifts[id]
	if !ok {
		return nil, shift.ErrShiftNotFound
	}
	return &sh, nil
}

func (s *Store) SaveBreak(_ context.Context, b *shift.Break) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.breaks[b.ShiftID] = append(s.breaks[b.ShiftID], *b)
	return nil
}

func (s *Store) FindBreaksByShift(_ context.Context, shiftID string) ([]*shift.Break, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*shift.Break, 0, len(s.breaks[shiftID]))
	for _, b := range s.breaks[shiftID] {
		br := b
		out = append(out, &br)
	}
	return out, nil
}

func (s *Store) SaveAssignment(_ context.Context, a *shift.Assignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assignments[a.ID] = *a
	return nil
}

func (s *Store) FindActiveByEmployee(_ context.Context, employeeID string) ([]*shift.Assignment, error) {
	return s.findAssignments(func(a shift.Assignment) bool {
		return a.EmployeeID == employeeID && a.State == shift.StateActive
	})
}

func (s *Store) FindAllActive(_ context.Context) ([]*shift.Assignment, error) {
	return s.findAssignments(func(a shift.Assignment) bool { return a.State == shift.StateActive })
}

func (s *Store) findAssignments(match func(shift.Assignment) bool) ([]*shift.Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*shift.Assignment
	for _, a := range s.assignments {
		if match(a) {
			as := a
			out = append(out, &as)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}
