/*
handlers.go - HTTP API handlers for the HR engine

PURPOSE:
  Exposes the leave workflow and shift scheduler via REST API. Handles
  HTTP request/response, JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Leave:
    POST   /api/leaves                      Open a leave request (employee)
    GET    /api/leaves/mine                 Own pending requests (employee)
    GET    /api/leaves/pending              Company pending requests (manager)
    POST   /api/leaves/{id}/approve         Approve a request (manager)
    POST   /api/leaves/{id}/reject          Reject a request (manager)

  Shifts:
    POST   /api/shifts/assignments          Assign employee to shift (manager)
    GET    /api/shifts/active               Own active shift details (any role)
    GET    /api/shifts/active/{employeeID}  Employee's active shift (manager)

  Company:
    GET    /api/company/personnel           Company employees (manager)
    GET    /api/company/assignments         Company assignments (manager)

AUTHENTICATION:
  Every route runs behind the bearer-token middleware. The token is
  verified, the actor is loaded from the store and placed in the request
  context; handlers read it back with actorFrom.

ERROR HANDLING:
  Domain errors are mapped to HTTP statuses in statusFor:
  - 400: Invalid date range, unknown leave type, malformed body
  - 401: Missing/invalid token, unknown actor
  - 403: Role forbids the operation
  - 404: Request/shift/assignment/balance not found
  - 409: Overlap, exhausted balance, already resolved
  - 500: Everything else

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/warp/hr-engine/date"
	"github.com/warp/hr-engine/identity"
	"github.com/warp/hr-engine/leave"
	"github.com/warp/hr-engine/shift"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Workflow  *leave.Workflow
	Scheduler *shift.Scheduler
	Resolver  *identity.Resolver
}

// NewHandler creates a new handler.
func NewHandler(workflow *leave.Workflow, scheduler *shift.Scheduler, resolver *identity.Resolver) *Handler {
	return &Handler{
		Workflow:  workflow,
		Scheduler: scheduler,
		Resolver:  resolver,
	}
}

type contextKey string

const actorKey contextKey = "actor"

// Authenticate verifies the bearer token and loads the actor into the
// request context.
func (h *Handler) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeError(w, http.StatusUnauthorized, "missing bearer token", nil)
			return
		}

		actor, err := h.Resolver.ResolveActor(r.Context(), token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid token", err)
			return
		}

		ctx := context.WithValue(r.Context(), actorKey, actor)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func actorFrom(r *http.Request) *identity.Actor {
	actor, _ := r.Context().Value(actorKey).(*identity.Actor)
	return actor
}

// =============================================================================
// LEAVE HANDLERS
// =============================================================================

// CreateLeave opens a leave request for the calling employee.
// POST /api/leaves
func (h *Handler) CreateLeave(w http.ResponseWriter, r *http.Request) {
	var req CreateLeaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	startDate, err := date.Parse(req.StartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid start_date", err)
		return
	}
	endDate, err := date.Parse(req.EndDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid end_date", err)
		return
	}

	created, err := h.Workflow.Create(r.Context(), actorFrom(r), leave.CreateInput{
		Type:      leave.Type(req.Type),
		StartDate: startDate,
		EndDate:   endDate,
	})
	if err != nil {
		writeError(w, statusFor(err), "failed to create leave request", err)
		return
	}

	writeJSON(w, http.StatusCreated, toLeaveRequestDTO(created))
}

// ListPendingLeaves returns the pending requests of the manager's company.
// GET /api/leaves/pending
func (h *Handler) ListPendingLeaves(w http.ResponseWriter, r *http.Request) {
	requests, err := h.Workflow.PendingForCompany(r.Context(), actorFrom(r))
	if err != nil {
		writeError(w, statusFor(err), "failed to list pending requests", err)
		return
	}
	writeJSON(w, http.StatusOK, toLeaveRequestDTOs(requests))
}

// ListOwnLeaves returns the calling employee's pending requests.
// GET /api/leaves/mine
func (h *Handler) ListOwnLeaves(w http.ResponseWriter, r *http.Request) {
	requests, err := h.Workflow.PendingForEmployee(r.Context(), actorFrom(r))
	if err != nil {
		writeError(w, statusFor(err), "failed to list own requests", err)
		return
	}
	writeJSON(w, http.StatusOK, toLeaveRequestDTOs(requests))
}

// ApproveLeave approves a pending request and debits the balance.
// POST /api/leaves/{id}/approve
func (h *Handler) ApproveLeave(w http.ResponseWriter, r *http.Request) {
	requestID := chi.URLParam(r, "id")

	approved, err := h.Workflow.Approve(r.Context(), actorFrom(r), requestID)
	if err != nil {
		writeError(w, statusFor(err), "failed to approve request", err)
		return
	}
	writeJSON(w, http.StatusOK, toLeaveRequestDTO(approved))
}

// RejectLeave rejects a pending request. The balance is untouched.
// POST /api/leaves/{id}/reject
func (h *Handler) RejectLeave(w http.ResponseWriter, r *http.Request) {
	requestID := chi.URLParam(r, "id")

	var req RejectLeaveRequest
	if r.Body != nil {
		// Reason is optional; a missing or malformed body is tolerated.
		json.NewDecoder(r.Body).Decode(&req)
	}

	rejected, err := h.Workflow.Reject(r.Context(), actorFrom(r), requestID, req.Reason)
	if err != nil {
		writeError(w, statusFor(err), "failed to reject request", err)
		return
	}
	writeJSON(w, http.StatusOK, toLeaveRequestDTO(rejected))
}

// =============================================================================
// SHIFT HANDLERS
// =============================================================================

// AssignShift binds an employee to a shift for a date interval.
// POST /api/shifts/assignments
func (h *Handler) AssignShift(w http.ResponseWriter, r *http.Request) {
	var req AssignShiftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	startDate, err := date.Parse(req.StartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid start_date", err)
		return
	}
	endDate, err := date.Parse(req.EndDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid end_date", err)
		return
	}

	assignment, err := h.Scheduler.Assign(r.Context(), actorFrom(r), shift.AssignInput{
		ShiftID:    req.ShiftID,
		EmployeeID: req.EmployeeID,
		StartDate:  startDate,
		EndDate:    endDate,
	})
	if err != nil {
		writeError(w, statusFor(err), "failed to assign shift", err)
		return
	}

	writeJSON(w, http.StatusCreated, toAssignmentDTO(assignment))
}

// GetActiveShifts returns the calling actor's active shift details.
// GET /api/shifts/active
func (h *Handler) GetActiveShifts(w http.ResponseWriter, r *http.Request) {
	details, err := h.Scheduler.ActiveShiftDetails(r.Context(), actorFrom(r))
	if err != nil {
		writeError(w, statusFor(err), "failed to load active shifts", err)
		return
	}

	dtos := make([]ActiveShiftDTO, len(details))
	for i, d := range details {
		dtos[i] = toActiveShiftDTO(d)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetEmployeeActiveShift returns one employee's active shift (manager view).
// GET /api/shifts/active/{employeeID}
func (h *Handler) GetEmployeeActiveShift(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")

	detail, err := h.Scheduler.ActiveShiftDetailByEmployee(r.Context(), actorFrom(r), employeeID)
	if err != nil {
		writeError(w, statusFor(err), "failed to load active shift", err)
		return
	}
	writeJSON(w, http.StatusOK, toActiveShiftDTO(*detail))
}

// =============================================================================
// COMPANY HANDLERS
// =============================================================================

// ListPersonnel returns the employees of the manager's company.
// GET /api/company/personnel
func (h *Handler) ListPersonnel(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Scheduler.CompanyPersonnel(r.Context(), actorFrom(r))
	if err != nil {
		writeError(w, statusFor(err), "failed to list personnel", err)
		return
	}

	dtos := make([]PersonnelDTO, len(employees))
	for i, e := range employees {
		dtos[i] = PersonnelDTO{
			ID:        e.ID,
			FirstName: e.FirstName,
			LastName:  e.LastName,
			Email:     e.Email,
			HireDate:  e.HireDate.String(),
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// ListCompanyAssignments returns every active assignment on the company's
// shifts.
// GET /api/company/assignments
func (h *Handler) ListCompanyAssignments(w http.ResponseWriter, r *http.Request) {
	views, err := h.Scheduler.CompanyAssignments(r.Context(), actorFrom(r))
	if err != nil {
		writeError(w, statusFor(err), "failed to list company assignments", err)
		return
	}

	dtos := make([]CompanyAssignmentDTO, len(views))
	for i, v := range views {
		dtos[i] = CompanyAssignmentDTO{
			AssignmentID:      v.AssignmentID,
			ShiftName:         v.ShiftName,
			EmployeeFirstName: v.EmployeeFirstName,
			EmployeeLastName:  v.EmployeeLastName,
			StartDate:         v.StartDate.String(),
			EndDate:           v.EndDate.String(),
			Breaks:            toBreakDTOs(v.Breaks),
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// HELPERS
// =============================================================================

// statusFor maps domain errors to HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, identity.ErrInvalidToken),
		errors.Is(err, identity.ErrActorNotFound):
		return http.StatusUnauthorized
	case errors.Is(err, leave.ErrUnauthorized),
		errors.Is(err, shift.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, leave.ErrRequestNotFound),
		errors.Is(err, leave.ErrBalanceNotFound),
		errors.Is(err, shift.ErrShiftNotFound),
		errors.Is(err, shift.ErrAssignmentNotFound):
		return http.StatusNotFound
	case errors.Is(err, leave.ErrDateRangeInvalid),
		errors.Is(err, leave.ErrUnknownType),
		errors.Is(err, shift.ErrDateRangeInvalid):
		return http.StatusBadRequest
	case errors.Is(err, leave.ErrBalanceExceeded),
		errors.Is(err, leave.ErrAlreadyResolved),
		errors.Is(err, shift.ErrDateRangeOverlap):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
