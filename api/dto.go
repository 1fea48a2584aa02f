/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Validation is done in handlers and in domain logic, not in DTOs.
  DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"time"

	"github.com/warp/hr-engine/leave"
	"github.com/warp/hr-engine/shift"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// CreateLeaveRequest is the request to open a leave request.
type CreateLeaveRequest struct {
	Type      string `json:"type"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// RejectLeaveRequest carries the rejection reason.
type RejectLeaveRequest struct {
	Reason string `json:"reason"`
}

// LeaveRequestDTO represents a leave request in API responses.
type LeaveRequestDTO struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employee_id"`
	Type       string `json:"type"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	Status     string `json:"status"`
	StatusDate string `json:"status_date,omitempty"`
	CreatedAt  string `json:"created_at,omitempty"`
}

// AssignShiftRequest is the request to bind an employee to a shift.
type AssignShiftRequest struct {
	ShiftID    string `json:"shift_id"`
	EmployeeID string `json:"employee_id"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
}

// AssignmentDTO represents a shift assignment in API responses.
type AssignmentDTO struct {
	ID         string `json:"id"`
	ShiftID    string `json:"shift_id"`
	EmployeeID string `json:"employee_id"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	State      string `json:"state"`
}

// BreakDTO represents a shift break.
type BreakDTO struct {
	Name      string `json:"name"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// ActiveShiftDTO joins an active assignment with its shift details.
type ActiveShiftDTO struct {
	EmployeeID string     `json:"employee_id"`
	ShiftName  string     `json:"shift_name"`
	StartTime  string     `json:"start_time"`
	EndTime    string     `json:"end_time"`
	StartDate  string     `json:"start_date"`
	EndDate    string     `json:"end_date"`
	Breaks     []BreakDTO `json:"breaks"`
}

// PersonnelDTO represents an employee in the company personnel listing.
type PersonnelDTO struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	HireDate  string `json:"hire_date"`
}

// CompanyAssignmentDTO is one row of the company-wide assignment listing.
type CompanyAssignmentDTO struct {
	AssignmentID      string     `json:"assignment_id"`
	ShiftName         string     `json:"shift_name"`
	EmployeeFirstName string     `json:"employee_first_name"`
	EmployeeLastName  string     `json:"employee_last_name"`
	StartDate         string     `json:"start_date"`
	EndDate           string     `json:"end_date"`
	Breaks            []BreakDTO `json:"breaks"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toLeaveRequestDTO(r *leave.Request) LeaveRequestDTO {
	dto := LeaveRequestDTO{
		ID:         r.ID,
		EmployeeID: r.EmployeeID,
		Type:       string(r.Type),
		StartDate:  r.StartDate.String(),
		EndDate:    r.EndDate.String(),
		Status:     string(r.Status),
		CreatedAt:  r.CreatedAt.Format(time.RFC3339),
	}
	if !r.StatusDate.IsZero() {
		dto.StatusDate = r.StatusDate.String()
	}
	return dto
}

func toLeaveRequestDTOs(requests []*leave.Request) []LeaveRequestDTO {
	dtos := make([]LeaveRequestDTO, len(requests))
	for i, r := range requests {
		dtos[i] = toLeaveRequestDTO(r)
	}
	return dtos
}

func toAssignmentDTO(a *shift.Assignment) AssignmentDTO {
	return AssignmentDTO{
		ID:         a.ID,
		ShiftID:    a.ShiftID,
		EmployeeID: a.EmployeeID,
		StartDate:  a.StartDate.String(),
		EndDate:    a.EndDate.String(),
		State:      string(a.State),
	}
}

func toBreakDTOs(breaks []shift.BreakSummary) []BreakDTO {
	dtos := make([]BreakDTO, len(breaks))
	for i, b := range breaks {
		dtos[i] = BreakDTO{Name: b.Name, StartTime: b.StartTime, EndTime: b.EndTime}
	}
	return dtos
}

func toActiveShiftDTO(d shift.ActiveShiftDetail) ActiveShiftDTO {
	return ActiveShiftDTO{
		EmployeeID: d.EmployeeID,
		ShiftName:  d.ShiftName,
		StartTime:  d.StartTime,
		EndTime:    d.EndTime,
		StartDate:  d.StartDate.String(),
		EndDate:    d.EndDate.String(),
		Breaks:     toBreakDTOs(d.Breaks),
	}
}
