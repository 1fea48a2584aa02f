/*
Package identity models the actors of the HR engine and resolves auth tokens
to them.

PURPOSE:
  Every core operation runs on behalf of an authenticated actor: an employee
  or a company manager. Authorization rules in the leave and shift packages
  are plain predicates over the actor's role and gender tags, so this package
  stays free of business logic.

KEY CONCEPTS:
  - Actor: an employee or company manager (role + gender tags, hire date)
  - Store: persistence contract for actors (owned by the identity side)
  - TokenManager: signed-token issue/verify (see token.go)
  - Resolver: token -> Actor, the entry point used by the HTTP edge

SEE ALSO:
  - token.go: JWT manager and Resolver
  - leave/workflow.go, shift/scheduler.go: authorization predicates in use
*/
package identity

import (
	"context"
	"time"

	"github.com/warp/hr-engine/date"
)

// Role is the closed set of actor roles.
type Role string

const (
	RoleEmployee       Role = "EMPLOYEE"
	RoleCompanyManager Role = "COMPANY_MANAGER"
)

// Gender is recorded because some leave types are gender-restricted.
type Gender string

const (
	GenderFemale Gender = "FEMALE"
	GenderMale   Gender = "MALE"
)

// Actor is an employee or company manager. The engine only reads actors;
// registration and credential management live outside this core.
type Actor struct {
	ID        string
	CompanyID string
	Role      Role
	Gender    Gender
	FirstName string
	LastName  string
	Email     string
	HireDate  date.Date
	CreatedAt time.Time
}

func (a *Actor) IsManager() bool  { return a.Role == RoleCompanyManager }
func (a *Actor) IsEmployee() bool { return a.Role == RoleEmployee }

// Store is the persistence contract for actors.
type Store interface {
	SaveActor(ctx context.Context, actor *Actor) error

	// FindActorByID returns ErrActorNotFound when no actor has the id.
	FindActorByID(ctx context.Context, id string) (*Actor, error)

	// FindEmployeesByCompany returns the company's employees (managers excluded).
	FindEmployeesByCompany(ctx context.Context, companyID string) ([]*Actor, error)
}
