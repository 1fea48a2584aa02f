/*
Package sqlite provides a SQLite-backed implementation of the storage interfaces.

PURPOSE:
  Implements every persistence contract of the engine (identity.Store,
  leave.Store, shift.ShiftStore, shift.BreakStore, shift.AssignmentStore)
  using SQLite. In production the same patterns apply to PostgreSQL - only
  minor SQL dialect differences.

KEY TABLES:
  actors:            Employees and company managers
  leave_requests:    Leave requests with their lifecycle status
  leave_balances:    Per-request balance counters (decimal, stored as TEXT)
  shifts:            Shift definitions with HH:MM time bounds
  shift_breaks:      Break intervals inside a shift
  shift_assignments: Employee-to-shift bindings over date intervals

TRANSACTIONS:
  InTx wraps a function in a database transaction so approving a request
  (status flip + balance debit) commits or rolls back as one unit. The
  returned leave.Store inside the callback routes every statement through
  the open *sql.Tx.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - leave/store.go: Leave storage contracts
  - shift/types.go: Shift storage contracts
  - store/memory/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/warp/hr-engine/date"
	"github.com/warp/hr-engine/identity"
	"github.com/warp/hr-engine/leave"
	"github.com/warp/hr-engine/shift"
)

// queryer is the common surface of *sql.DB and *sql.Tx, so the same
// statement helpers serve both transactional and direct access.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store implements all storage interfaces using SQLite.
type Store struct {
	db *sql.DB
}

var (
	_ identity.Store        = (*Store)(nil)
	_ leave.Store           = (*Store)(nil)
	_ shift.ShiftStore      = (*Store)(nil)
	_ shift.BreakStore      = (*Store)(nil)
	_ shift.AssignmentStore = (*Store)(nil)
)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Actors (employees and company managers)
	CREATE TABLE IF NOT EXISTS actors (
		id TEXT PRIMARY KEY,
		company_id TEXT NOT NULL,
		role TEXT NOT NULL,
		gender TEXT NOT NULL,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		email TEXT NOT NULL,
		hire_date TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_actors_company_role
		ON actors(company_id, role);

	-- Leave requests
	CREATE TABLE IF NOT EXISTS leave_requests (
		id TEXT PRIMARY KEY,
		company_id TEXT NOT NULL,
		employee_id TEXT NOT NULL,
		leave_type TEXT NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		status TEXT NOT NULL,
		status_date TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_leave_requests_company_status
		ON leave_requests(company_id, status);
	CREATE INDEX IF NOT EXISTS idx_leave_requests_employee_status
		ON leave_requests(employee_id, status);

	-- Per-request balance counters. Decimal values stored as TEXT to keep
	-- exact arithmetic out of REAL.
	CREATE TABLE IF NOT EXISTS leave_balances (
		request_id TEXT PRIMARY KEY,
		annual TEXT NOT NULL,
		marriage TEXT NOT NULL,
		maternity TEXT NOT NULL,
		FOREIGN KEY (request_id) REFERENCES leave_requests(id)
	);

	-- Shifts
	CREATE TABLE IF NOT EXISTS shifts (
		id TEXT PRIMARY KEY,
		company_id TEXT NOT NULL,
		name TEXT NOT NULL,
		start_time TEXT NOT NULL,
		end_time TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_shifts_company
		ON shifts(company_id);

	CREATE TABLE IF NOT EXISTS shift_breaks (
		id TEXT PRIMARY KEY,
		shift_id TEXT NOT NULL,
		name TEXT NOT NULL,
		start_time TEXT NOT NULL,
		end_time TEXT NOT NULL,
		FOREIGN KEY (shift_id) REFERENCES shifts(id)
	);

	CREATE INDEX IF NOT EXISTS idx_shift_breaks_shift
		ON shift_breaks(shift_id);

	-- Shift assignments
	CREATE TABLE IF NOT EXISTS shift_assignments (
		id TEXT PRIMARY KEY,
		shift_id TEXT NOT NULL,
		employee_id TEXT NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		state TEXT NOT NULL,
		created_at TEXT NOT NULL,
		FOREIGN KEY (shift_id) REFERENCES shifts(id)
	);

	-- Hot path: overlap checks read an employee's active assignments.
	CREATE INDEX IF NOT EXISTS idx_shift_assignments_employee_state
		ON shift_assignments(employee_id, state);
	CREATE INDEX IF NOT EXISTS idx_shift_assignments_state
		ON shift_assignments(state);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// IDENTITY STORE (identity.Store interface)
// =============================================================================

// SaveActor inserts or updates an actor.
func (s *Store) SaveActor(ctx context.Context, actor *identity.Actor) error {
	return saveActor(ctx, s.db, actor)
}

func saveActor(ctx context.Context, q queryer, actor *identity.Actor) error {
	query := `
		INSERT INTO actors (id, company_id, role, gender, first_name, last_name, email, hire_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			company_id = excluded.company_id,
			role = excluded.role,
			gender = excluded.gender,
			first_name = excluded.first_name,
			last_name = excluded.last_name,
			email = excluded.email,
			hire_date = excluded.hire_date
	`

	_, err := q.ExecContext(ctx, query,
		actor.ID,
		actor.CompanyID,
		string(actor.Role),
		string(actor.Gender),
		actor.FirstName,
		actor.LastName,
		actor.Email,
		actor.HireDate.String(),
		actor.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save actor: %w", err)
	}
	return nil
}

// FindActorByID retrieves an actor by id.
func (s *Store) FindActorByID(ctx context.Context, id string) (*identity.Actor, error) {
	return findActorByID(ctx, s.db, id)
}

func findActorByID(ctx context.Context, q queryer, id string) (*identity.Actor, error) {
	row := q.QueryRowContext(ctx,
		`SELECT id, company_id, role, gender, first_name, last_name, email, hire_date, created_at
		 FROM actors WHERE id = ?`, id)

	actor, err := scanActor(row.Scan)
	if err == sql.ErrNoRows {
		return nil, identity.ErrActorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan actor: %w", err)
	}
	return actor, nil
}

// FindEmployeesByCompany returns the employees of a company, ordered by id.
func (s *Store) FindEmployeesByCompany(ctx context.Context, companyID string) ([]*identity.Actor, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, company_id, role, gender, first_name, last_name, email, hire_date, created_at
		 FROM actors WHERE company_id = ? AND role = ? ORDER BY id`,
		companyID, string(identity.RoleEmployee))
	if err != nil {
		return nil, fmt.Errorf("failed to query actors: %w", err)
	}
	defer rows.Close()

	var actors []*identity.Actor
	for rows.Next() {
		actor, err := scanActor(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan actor: %w", err)
		}
		actors = append(actors, actor)
	}
	return actors, rows.Err()
}

func scanActor(scan func(dest ...any) error) (*identity.Actor, error) {
	var (
		actor        identity.Actor
		role, gender string
		hireDate     string
		createdAt    string
	)

	err := scan(&actor.ID, &actor.CompanyID, &role, &gender,
		&actor.FirstName, &actor.LastName, &actor.Email, &hireDate, &createdAt)
	if err != nil {
		return nil, err
	}

	actor.Role = identity.Role(role)
	actor.Gender = identity.Gender(gender)
	actor.HireDate, err = date.Parse(hireDate)
	if err != nil {
		return nil, err
	}
	actor.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &actor, nil
}

// =============================================================================
// LEAVE STORE (leave.Store interface)
// =============================================================================

// SaveRequest inserts or updates a leave request.
func (s *Store) SaveRequest(ctx context.Context, r *leave.Request) error {
	return saveRequest(ctx, s.db, r)
}

func saveRequest(ctx context.Context, q queryer, r *leave.Request) error {
	query := `
		INSERT INTO leave_requests (id, company_id, employee_id, leave_type, start_date, end_date, status, status_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			status = excluded.status,
			status_date = excluded.status_date
	`

	var statusDate any
	if !r.StatusDate.IsZero() {
		statusDate = r.StatusDate.String()
	}

	_, err := q.ExecContext(ctx, query,
		r.ID,
		r.CompanyID,
		r.EmployeeID,
		string(r.Type),
		r.StartDate.String(),
		r.EndDate.String(),
		string(r.Status),
		statusDate,
		r.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save leave request: %w", err)
	}
	return nil
}

// FindRequest retrieves a leave request by id.
func (s *Store) FindRequest(ctx context.Context, id string) (*leave.Request, error) {
	return findRequest(ctx, s.db, id)
}

func findRequest(ctx context.Context, q queryer, id string) (*leave.Request, error) {
	row := q.QueryRowContext(ctx,
		`SELECT id, company_id, employee_id, leave_type, start_date, end_date, status, status_date, created_at
		 FROM leave_requests WHERE id = ?`, id)

	r, err := scanRequest(row.Scan)
	if err == sql.ErrNoRows {
		return nil, leave.ErrRequestNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan leave request: %w", err)
	}
	return r, nil
}

// FindPendingByCompany returns a company's pending requests, oldest first.
func (s *Store) FindPendingByCompany(ctx context.Context, companyID string) ([]*leave.Request, error) {
	return findPendingByCompany(ctx, s.db, companyID)
}

func findPendingByCompany(ctx context.Context, q queryer, companyID string) ([]*leave.Request, error) {
	return queryRequests(ctx, q,
		`SELECT id, company_id, employee_id, leave_type, start_date, end_date, status, status_date, created_at
		 FROM leave_requests WHERE company_id = ? AND status = ? ORDER BY created_at ASC`,
		companyID, string(leave.StatusPending))
}

// FindPendingByEmployee returns an employee's pending requests, oldest first.
func (s *Store) FindPendingByEmployee(ctx context.Context, employeeID string) ([]*leave.Request, error) {
	return findPendingByEmployee(ctx, s.db, employeeID)
}

func findPendingByEmployee(ctx context.Context, q queryer, employeeID string) ([]*leave.Request, error) {
	return queryRequests(ctx, q,
		`SELECT id, company_id, employee_id, leave_type, start_date, end_date, status, status_date, created_at
		 FROM leave_requests WHERE employee_id = ? AND status = ? ORDER BY created_at ASC`,
		employeeID, string(leave.StatusPending))
}

func queryRequests(ctx context.Context, q queryer, query string, args ...any) ([]*leave.Request, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query leave requests: %w", err)
	}
	defer rows.Close()

	var requests []*leave.Request
	for rows.Next() {
		r, err := scanRequest(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave request: %w", err)
		}
		requests = append(requests, r)
	}
	return requests, rows.Err()
}

func scanRequest(scan func(dest ...any) error) (*leave.Request, error) {
	var (
		r                  leave.Request
		leaveType, status  string
		startDate, endDate string
		statusDate         sql.NullString
		createdAt          string
	)

	err := scan(&r.ID, &r.CompanyID, &r.EmployeeID, &leaveType,
		&startDate, &endDate, &status, &statusDate, &createdAt)
	if err != nil {
		return nil, err
	}

	r.Type = leave.Type(leaveType)
	r.Status = leave.Status(status)
	if r.StartDate, err = date.Parse(startDate); err != nil {
		return nil, err
	}
	if r.EndDate, err = date.Parse(endDate); err != nil {
		return nil, err
	}
	if statusDate.Valid {
		if r.StatusDate, err = date.Parse(statusDate.String); err != nil {
			return nil, err
		}
	}
	r.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &r, nil
}

// SaveBalance inserts or updates the balance counters of a request.
func (s *Store) SaveBalance(ctx context.Context, b leave.Balance) error {
	return saveBalance(ctx, s.db, b)
}

func saveBalance(ctx context.Context, q queryer, b leave.Balance) error {
	query := `
		INSERT INTO leave_balances (request_id, annual, marriage, maternity)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(request_id) DO UPDATE SET
			annual = excluded.annual,
			marriage = excluded.marriage,
			maternity = excluded.maternity
	`

	_, err := q.ExecContext(ctx, query,
		b.RequestID,
		b.Annual.String(),
		b.Marriage.String(),
		b.Maternity.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to save leave balance: %w", err)
	}
	return nil
}

// FindBalanceByRequest retrieves the balance counters of a request.
func (s *Store) FindBalanceByRequest(ctx context.Context, requestID string) (leave.Balance, error) {
	return findBalanceByRequest(ctx, s.db, requestID)
}

func findBalanceByRequest(ctx context.Context, q queryer, requestID string) (leave.Balance, error) {
	var (
		b                           leave.Balance
		annual, marriage, maternity string
	)

	err := q.QueryRowContext(ctx,
		`SELECT request_id, annual, marriage, maternity FROM leave_balances WHERE request_id = ?`,
		requestID,
	).Scan(&b.RequestID, &annual, &marriage, &maternity)

	if err == sql.ErrNoRows {
		return leave.Balance{}, leave.ErrBalanceNotFound
	}
	if err != nil {
		return leave.Balance{}, fmt.Errorf("failed to scan leave balance: %w", err)
	}

	if b.Annual, err = decimal.NewFromString(annual); err != nil {
		return leave.Balance{}, fmt.Errorf("corrupt annual balance %q: %w", annual, err)
	}
	if b.Marriage, err = decimal.NewFromString(marriage); err != nil {
		return leave.Balance{}, fmt.Errorf("corrupt marriage balance %q: %w", marriage, err)
	}
	if b.Maternity, err = decimal.NewFromString(maternity); err != nil {
		return leave.Balance{}, fmt.Errorf("corrupt maternity balance %q: %w", maternity, err)
	}
	return b, nil
}

// InTx executes fn within a database transaction. The leave.Store passed to
// fn routes every statement through the open transaction.
func (s *Store) InTx(ctx context.Context, fn func(store leave.Store) error) error {
	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	if err := fn(&leaveTx{tx: sqlTx}); err != nil {
		return err
	}

	return sqlTx.Commit()
}

// leaveTx is the transactional view of the leave store.
type leaveTx struct {
	tx *sql.Tx
}

func (t *leaveTx) SaveRequest(ctx context.Context, r *leave.Request) error {
	return saveRequest(ctx, t.tx, r)
}

func (t *leaveTx) FindRequest(ctx context.Context, id string) (*leave.Request, error) {
	return findRequest(ctx, t.tx, id)
}

func (t *leaveTx) FindPendingByCompany(ctx context.Context, companyID string) ([]*leave.Request, error) {
	return findPendingByCompany(ctx, t.tx, companyID)
}

func (t *leaveTx) FindPendingByEmployee(ctx context.Context, employeeID string) ([]*leave.Request, error) {
	return findPendingByEmployee(ctx, t.tx, employeeID)
}

func (t *leaveTx) SaveBalance(ctx context.Context, b leave.Balance) error {
	return saveBalance(ctx, t.tx, b)
}

func (t *leaveTx) FindBalanceByRequest(ctx context.Context, requestID string) (leave.Balance, error) {
	return findBalanceByRequest(ctx, t.tx, requestID)
}

// InTx on an open transaction runs fn in the same transaction.
func (t *leaveTx) InTx(_ context.Context, fn func(store leave.Store) error) error {
	return fn(t)
}

// =============================================================================
// SHIFT STORE (shift.ShiftStore, shift.BreakStore interfaces)
// =============================================================================

// SaveShift inserts or updates a shift.
func (s *Store) SaveShift(ctx context.Context, sh *shift.Shift) error {
	query := `
		INSERT INTO shifts (id, company_id, name, start_time, end_time)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			start_time = excluded.start_time,
			end_time = excluded.end_time
	`

	_, err := s.db.ExecContext(ctx, query, sh.ID, sh.CompanyID, sh.Name, sh.StartTime, sh.EndTime)
	if err != nil {
		return fmt.Errorf("failed to save shift: %w", err)
	}
	return nil
}

// FindShift retrieves a shift by id.
func (s *Store) FindShift(ctx context.Context, id string) (*shift.Shift, error) {
	var sh shift.Shift
	err := s.db.QueryRowContext(ctx,
		`SELECT id, company_id, name, start_time, end_time FROM shifts WHERE id = ?`, id,
	).Scan(&sh.ID, &sh.CompanyID, &sh.Name, &sh.StartTime, &sh.EndTime)

	if err == sql.ErrNoRows {
		return nil, shift.ErrShiftNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan shift: %w", err)
	}
	return &sh, nil
}

// SaveBreak inserts or updates a shift break.
func (s *Store) SaveBreak(ctx context.Context, b *shift.Break) error {
	query := `
		INSERT INTO shift_breaks (id, shift_id, name, start_time, end_time)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			start_time = excluded.start_time,
			end_time = excluded.end_time
	`

	_, err := s.db.ExecContext(ctx, query, b.ID, b.ShiftID, b.Name, b.StartTime, b.EndTime)
	if err != nil {
		return fmt.Errorf("failed to save break: %w", err)
	}
	return nil
}

// FindBreaksByShift returns the breaks of a shift ordered by start time.
func (s *Store) FindBreaksByShift(ctx context.Context, shiftID string) ([]*shift.Break, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, shift_id, name, start_time, end_time FROM shift_breaks
		 WHERE shift_id = ? ORDER BY start_time ASC`, shiftID)
	if err != nil {
		return nil, fmt.Errorf("failed to query breaks: %w", err)
	}
	defer rows.Close()

	var breaks []*shift.Break
	for rows.Next() {
		var b shift.Break
		if err := rows.Scan(&b.ID, &b.ShiftID, &b.Name, &b.StartTime, &b.EndTime); err != nil {
			return nil, fmt.Errorf("failed to scan break: %w", err)
		}
		breaks = append(breaks, &b)
	}
	return breaks, rows.Err()
}

// =============================================================================
// ASSIGNMENT STORE (shift.AssignmentStore interface)
// =============================================================================

// SaveAssignment inserts or updates a shift assignment.
func (s *Store) SaveAssignment(ctx context.Context, a *shift.Assignment) error {
	query := `
		INSERT INTO shift_assignments (id, shift_id, employee_id, start_date, end_date, state, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			state = excluded.state
	`

	_, err := s.db.ExecContext(ctx, query,
		a.ID,
		a.ShiftID,
		a.EmployeeID,
		a.StartDate.String(),
		a.EndDate.String(),
		string(a.State),
		a.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save assignment: %w", err)
	}
	return nil
}

// FindActiveByEmployee returns an employee's active assignments, oldest first.
func (s *Store) FindActiveByEmployee(ctx context.Context, employeeID string) ([]*shift.Assignment, error) {
	return s.queryAssignments(ctx,
		`SELECT id, shift_id, employee_id, start_date, end_date, state, created_at
		 FROM shift_assignments WHERE employee_id = ? AND state = ? ORDER BY created_at ASC`,
		employeeID, string(shift.StateActive))
}

// FindAllActive returns every active assignment, oldest first.
func (s *Store) FindAllActive(ctx context.Context) ([]*shift.Assignment, error) {
	return s.queryAssignments(ctx,
		`SELECT id, shift_id, employee_id, start_date, end_date, state, created_at
		 FROM shift_assignments WHERE state = ? ORDER BY created_at ASC`,
		string(shift.StateActive))
}

func (s *Store) queryAssignments(ctx context.Context, query string, args ...any) ([]*shift.Assignment, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query assignments: %w", err)
	}
	defer rows.Close()

	var assignments []*shift.Assignment
	for rows.Next() {
		var (
			a                  shift.Assignment
			startDate, endDate string
			state, createdAt   string
		)
		if err := rows.Scan(&a.ID, &a.ShiftID, &a.EmployeeID, &startDate, &endDate, &state, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		if a.StartDate, err = date.Parse(startDate); err != nil {
			return nil, err
		}
		if a.EndDate, err = date.Parse(endDate); err != nil {
			return nil, err
		}
		a.State = shift.State(state)
		a.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		assignments = append(assignments, &a)
	}
	return assignments, rows.Err()
}
