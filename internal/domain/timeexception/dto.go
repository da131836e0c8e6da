package timeexception

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/pkg/pagination"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/pkg/validator"
)

type CreateTimeExceptionRequest struct {
	EmployeeID         string  `json:"employeeId"`
	Type               string  `json:"type"`
	AttendanceRecordID *string `json:"attendanceRecordId,omitempty"`
	Reason             string  `json:"reason"`
}

func (r *CreateTimeExceptionRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.EmployeeID) {
		errs.Add("employeeId", "employeeId must be a valid UUID")
	}
	r.Type = strings.ToUpper(strings.TrimSpace(r.Type))
	if !validator.IsInSlice(r.Type, Types) {
		errs.Add("type", "type must be one of "+strings.Join(Types, ", "))
	}
	if r.AttendanceRecordID != nil && !validator.IsValidUUID(*r.AttendanceRecordID) {
		errs.Add("attendanceRecordId", "attendanceRecordId must be a valid UUID")
	}
	if validator.IsEmpty(r.Reason) {
		errs.Add("reason", "reason is required")
	}

	return errs.Err()
}

// OpenForRecordRequest is used by attendance evaluation to raise an exception.
type OpenForRecordRequest struct {
	EmployeeID         string
	AttendanceRecordID string
	Type               Type
	Reason             string
}

type UpdateTimeExceptionRequest struct {
	ID     string  `json:"-"`
	Type   *string `json:"type,omitempty"`
	Reason *string `json:"reason,omitempty"`
}

func (r *UpdateTimeExceptionRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Type != nil {
		t := strings.ToUpper(strings.TrimSpace(*r.Type))
		r.Type = &t
		if !validator.IsInSlice(t, Types) {
			errs.Add("type", "type must be one of "+strings.Join(Types, ", "))
		}
	}
	if r.Reason != nil && validator.IsEmpty(*r.Reason) {
		errs.Add("reason", "reason must not be empty")
	}
	if r.Type == nil && r.Reason == nil {
		errs.Add("body", "nothing to update")
	}

	return errs.Err()
}

type AssignTimeExceptionRequest struct {
	ID         string  `json:"-"`
	AssigneeID *string `json:"assigneeId,omitempty"`
}

func (r *AssignTimeExceptionRequest) Validate() error {
	var errs validator.ValidationErrors
	if r.AssigneeID != nil && !validator.IsValidUUID(*r.AssigneeID) {
		errs.Add("assigneeId", "assigneeId must be a valid UUID")
	}
	return errs.Err()
}

// TransitionRequest carries the optional note of approve, escalate and resolve.
type TransitionRequest struct {
	ID   string  `json:"-"`
	Note *string `json:"note,omitempty"`
}

type RejectTimeExceptionRequest struct {
	ID     string `json:"-"`
	Reason string `json:"reason"`
}

func (r *RejectTimeExceptionRequest) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.Reason) {
		errs.Add("reason", "reason is required when rejecting")
	}
	return errs.Err()
}

type AutoEscalateRequest struct {
	ThresholdDays *int `json:"thresholdDays,omitempty"`
}

func (r *AutoEscalateRequest) Validate() error {
	var errs validator.ValidationErrors
	if r.ThresholdDays != nil && *r.ThresholdDays < 1 {
		errs.Add("thresholdDays", "thresholdDays must be at least 1")
	}
	return errs.Err()
}

type AutoEscalateResponse struct {
	ThresholdDays int      `json:"thresholdDays"`
	Escalated     int      `json:"escalated"`
	IDs           []string `json:"ids"`
}

type TimeExceptionFilter struct {
	Status     *string
	Type       *string
	EmployeeID *string
	AssignedTo *string
	pagination.Params
}

func (f *TimeExceptionFilter) Validate() error {
	errs := f.Normalize()
	if f.Status != nil && !validator.IsInSlice(*f.Status, Statuses) {
		errs.Add("status", "status must be one of "+strings.Join(Statuses, ", "))
	}
	if f.Type != nil && !validator.IsInSlice(*f.Type, Types) {
		errs.Add("type", "type must be one of "+strings.Join(Types, ", "))
	}
	if f.EmployeeID != nil && !validator.IsValidUUID(*f.EmployeeID) {
		errs.Add("employeeId", "employeeId must be a valid UUID")
	}
	if f.AssignedTo != nil && !validator.IsValidUUID(*f.AssignedTo) {
		errs.Add("assignedTo", "assignedTo must be a valid UUID")
	}
	return errs.Err()
}

type SummaryResponse struct {
	Total    int64            `json:"total"`
	ByStatus map[Status]int64 `json:"byStatus"`
	ByType   map[Type]int64   `json:"byType"`
	Overdue  int64            `json:"overdue"`
}

type TimeExceptionResponse struct {
	ID                 string     `json:"id"`
	EmployeeID         string     `json:"employeeId"`
	Type               Type       `json:"type"`
	AttendanceRecordID *string    `json:"attendanceRecordId,omitempty"`
	AssignedTo         *string    `json:"assignedTo,omitempty"`
	Status             Status     `json:"status"`
	Reason             string     `json:"reason"`
	ResolutionNote     *string    `json:"resolutionNote,omitempty"`
	CreatedBy          *string    `json:"createdBy,omitempty"`
	EscalatedAt        *time.Time `json:"escalatedAt,omitempty"`
	ResolvedAt         *time.Time `json:"resolvedAt,omitempty"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}

func ToResponse(e TimeException) TimeExceptionResponse {
	return TimeExceptionResponse{
		ID:                 e.ID,
		EmployeeID:         e.EmployeeID,
		Type:               e.Type,
		AttendanceRecordID: e.AttendanceRecordID,
		AssignedTo:         e.AssignedTo,
		Status:             e.Status,
		Reason:             e.Reason,
		ResolutionNote:     e.ResolutionNote,
		CreatedBy:          e.CreatedBy,
		EscalatedAt:        e.EscalatedAt,
		ResolvedAt:         e.ResolvedAt,
		CreatedAt:          e.CreatedAt,
		UpdatedAt:          e.UpdatedAt,
	}
}
