package shift

import (
	"time"

	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/pkg/pagination"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/pkg/validator"
)

// ========== SHIFT DTOs ==========

type CreateShiftRequest struct {
	Name         string `json:"name"`
	StartTime    string `json:"startTime"`
	EndTime      string `json:"endTime"`
	BreakMinutes int    `json:"breakMinutes"`
}

func (r *CreateShiftRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs.Add("name", "name is required")
	}
	start, okStart := validator.IsValidClock(r.StartTime)
	if !okStart {
		errs.Add("startTime", "startTime must be in HH:MM format")
	}
	end, okEnd := validator.IsValidClock(r.EndTime)
	if !okEnd {
		errs.Add("endTime", "endTime must be in HH:MM format")
	}
	if okStart && okEnd && start == end {
		errs.Add("endTime", "endTime must differ from startTime")
	}
	if r.BreakMinutes < 0 {
		errs.Add("breakMinutes", "breakMinutes must be non-negative")
	}
	if len(errs) == 0 {
		s := Shift{StartTime: r.StartTime, EndTime: r.EndTime}
		if r.BreakMinutes >= s.SpanMinutes() {
			errs.Add("breakMinutes", "breakMinutes must be shorter than the shift")
		}
	}

	return errs.Err()
}

type UpdateShiftRequest struct {
	ID           string  `json:"-"`
	Name         *string `json:"name,omitempty"`
	StartTime    *string `json:"startTime,omitempty"`
	EndTime      *string `json:"endTime,omitempty"`
	BreakMinutes *int    `json:"breakMinutes,omitempty"`
	Active       *bool   `json:"active,omitempty"`
}

func (r *UpdateShiftRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Name != nil && validator.IsEmpty(*r.Name) {
		errs.Add("name", "name must not be empty")
	}
	if r.StartTime != nil {
		if _, ok := validator.IsValidClock(*r.StartTime); !ok {
			errs.Add("startTime", "startTime must be in HH:MM format")
		}
	}
	if r.EndTime != nil {
		if _, ok := validator.IsValidClock(*r.EndTime); !ok {
			errs.Add("endTime", "endTime must be in HH:MM format")
		}
	}
	if r.BreakMinutes != nil && *r.BreakMinutes < 0 {
		errs.Add("breakMinutes", "breakMinutes must be non-negative")
	}

	return errs.Err()
}

// Apply copies the set fields onto s and re-checks the combined shape.
func (r UpdateShiftRequest) Apply(s *Shift) error {
	if r.Name != nil {
		s.Name = *r.Name
	}
	if r.StartTime != nil {
		s.StartTime = *r.StartTime
	}
	if r.EndTime != nil {
		s.EndTime = *r.EndTime
	}
	if r.BreakMinutes != nil {
		s.BreakMinutes = *r.BreakMinutes
	}
	if r.Active != nil {
		s.Active = *r.Active
	}

	check := CreateShiftRequest{Name: s.Name, StartTime: s.StartTime, EndTime: s.EndTime, BreakMinutes: s.BreakMinutes}
	return check.Validate()
}

type ShiftFilter struct {
	Active *bool
	pagination.Params
}

func (f *ShiftFilter) Validate() error {
	return f.Normalize().Err()
}

type ShiftResponse struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	StartTime        string    `json:"startTime"`
	EndTime          string    `json:"endTime"`
	BreakMinutes     int       `json:"breakMinutes"`
	CrossesMidnight  bool      `json:"crossesMidnight"`
	ScheduledMinutes int       `json:"scheduledMinutes"`
	Active           bool      `json:"active"`
	CreatedBy        *string   `json:"createdBy,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

func ToShiftResponse(s Shift) ShiftResponse {
	return ShiftResponse{
		ID:               s.ID,
		Name:             s.Name,
		StartTime:        s.StartTime,
		EndTime:          s.EndTime,
		BreakMinutes:     s.BreakMinutes,
		CrossesMidnight:  s.CrossesMidnight(),
		ScheduledMinutes: s.ScheduledMinutes(),
		Active:           s.Active,
		CreatedBy:        s.CreatedBy,
		CreatedAt:        s.CreatedAt,
		UpdatedAt:        s.UpdatedAt,
	}
}

// ========== ASSIGNMENT DTOs ==========

type AssignShiftRequest struct {
	EmployeeID string  `json:"employeeId"`
	ShiftID    string  `json:"shiftId"`
	StartDate  string  `json:"startDate"`
	EndDate    *string `json:"endDate,omitempty"`

	ParsedStartDate time.Time  `json:"-"`
	ParsedEndDate   *time.Time `json:"-"`
}

func (r *AssignShiftRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.EmployeeID) {
		errs.Add("employeeId", "employeeId must be a valid UUID")
	}
	if !validator.IsValidUUID(r.ShiftID) {
		errs.Add("shiftId", "shiftId must be a valid UUID")
	}
	start, ok := validator.IsValidDate(r.StartDate)
	if !ok {
		errs.Add("startDate", "startDate must be in YYYY-MM-DD format")
	}
	r.ParsedStartDate = start
	if r.EndDate != nil && *r.EndDate != "" {
		end, ok := validator.IsValidDate(*r.EndDate)
		if !ok {
			errs.Add("endDate", "endDate must be in YYYY-MM-DD format")
		} else if end.Before(start) {
			errs.Add("endDate", "endDate must not precede startDate")
		}
		r.ParsedEndDate = &end
	}

	return errs.Err()
}

type AssignmentFilter struct {
	EmployeeID *string
	ShiftID    *string
	Status     *string
	pagination.Params
}

func (f *AssignmentFilter) Validate() error {
	errs := f.Normalize()
	if f.Status != nil && !validator.IsInSlice(*f.Status, AssignmentStatuses) {
		errs.Add("status", "status must be PENDING, APPROVED, CANCELLED or EXPIRED")
	}
	return errs.Err()
}

type AssignmentResponse struct {
	ID         string           `json:"id"`
	EmployeeID string           `json:"employeeId"`
	ShiftID    string           `json:"shiftId"`
	StartDate  string           `json:"startDate"`
	EndDate    *string          `json:"endDate,omitempty"`
	Status     AssignmentStatus `json:"status"`
	CreatedBy  *string          `json:"createdBy,omitempty"`
	CreatedAt  time.Time        `json:"createdAt"`
	UpdatedAt  time.Time        `json:"updatedAt"`
	Shift      *ShiftResponse   `json:"shift,omitempty"`
}

func ToAssignmentResponse(a ShiftAssignment) AssignmentResponse {
	resp := AssignmentResponse{
		ID:         a.ID,
		EmployeeID: a.EmployeeID,
		ShiftID:    a.ShiftID,
		StartDate:  a.StartDate.Format(validator.DateLayout),
		Status:     a.Status,
		CreatedBy:  a.CreatedBy,
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
	if a.EndDate != nil {
		end := a.EndDate.Format(validator.DateLayout)
		resp.EndDate = &end
	}
	return resp
}
