package correction

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/pkg/pagination"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/pkg/validator"
)

type CreateCorrectionRequest struct {
	AttendanceRecordID string  `json:"attendanceRecordId"`
	CorrectedClockIn   *string `json:"correctedClockIn,omitempty"`
	CorrectedClockOut  *string `json:"correctedClockOut,omitempty"`
	Reason             string  `json:"reason"`

	ParsedClockIn  *time.Time `json:"-"`
	ParsedClockOut *time.Time `json:"-"`
}

func (r *CreateCorrectionRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.AttendanceRecordID) {
		errs.Add("attendanceRecordId", "attendanceRecordId must be a valid UUID")
	}
	if validator.IsEmpty(r.Reason) {
		errs.Add("reason", "reason is required")
	}
	if r.CorrectedClockIn == nil && r.CorrectedClockOut == nil {
		errs.Add("correctedClockIn", "at least one corrected time is required")
	}
	if r.CorrectedClockIn != nil {
		if t, ok := validator.IsValidDateTime(*r.CorrectedClockIn); ok {
			r.ParsedClockIn = &t
		} else {
			errs.Add("correctedClockIn", "correctedClockIn must be an RFC3339 timestamp")
		}
	}
	if r.CorrectedClockOut != nil {
		if t, ok := validator.IsValidDateTime(*r.CorrectedClockOut); ok {
			r.ParsedClockOut = &t
		} else {
			errs.Add("correctedClockOut", "correctedClockOut must be an RFC3339 timestamp")
		}
	}
	if r.ParsedClockIn != nil && r.ParsedClockOut != nil && !r.ParsedClockOut.After(*r.ParsedClockIn) {
		errs.Add("correctedClockOut", ErrClockOutBeforeIn.Error())
	}

	return errs.Err()
}

type ReviewRequest struct {
	ID   string  `json:"-"`
	Note *string `json:"note,omitempty"`
}

type RejectRequest struct {
	ID   string `json:"-"`
	Note string `json:"note"`
}

func (r *RejectRequest) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.Note) {
		errs.Add("note", "note is required when rejecting")
	}
	return errs.Err()
}

type CorrectionFilter struct {
	Status             *string
	EmployeeID         *string
	AttendanceRecordID *string
	pagination.Params
}

func (f *CorrectionFilter) Validate() error {
	errs := f.Normalize()
	if f.Status != nil && !validator.IsInSlice(*f.Status, Statuses) {
		errs.Add("status", "status must be one of "+strings.Join(Statuses, ", "))
	}
	if f.EmployeeID != nil && !validator.IsValidUUID(*f.EmployeeID) {
		errs.Add("employeeId", "employeeId must be a valid UUID")
	}
	if f.AttendanceRecordID != nil && !validator.IsValidUUID(*f.AttendanceRecordID) {
		errs.Add("attendanceRecordId", "attendanceRecordId must be a valid UUID")
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

type CorrectionResponse struct {
	ID                 string     `json:"id"`
	EmployeeID         string     `json:"employeeId"`
	AttendanceRecordID string     `json:"attendanceRecordId"`
	CorrectedClockIn   *time.Time `json:"correctedClockIn,omitempty"`
	CorrectedClockOut  *time.Time `json:"correctedClockOut,omitempty"`
	Reason             string     `json:"reason"`
	Status             Status     `json:"status"`
	ReviewerID         *string    `json:"reviewerId,omitempty"`
	ReviewNote         *string    `json:"reviewNote,omitempty"`
	CreatedBy          *string    `json:"createdBy,omitempty"`
	EscalatedAt        *time.Time `json:"escalatedAt,omitempty"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}

func ToResponse(c CorrectionRequest) CorrectionResponse {
	return CorrectionResponse{
		ID:                 c.ID,
		EmployeeID:         c.EmployeeID,
		AttendanceRecordID: c.AttendanceRecordID,
		CorrectedClockIn:   c.CorrectedClockIn,
		CorrectedClockOut:  c.CorrectedClockOut,
		Reason:             c.Reason,
		Status:             c.Status,
		ReviewerID:         c.ReviewerID,
		ReviewNote:         c.ReviewNote,
		CreatedBy:          c.CreatedBy,
		EscalatedAt:        c.EscalatedAt,
		CreatedAt:          c.CreatedAt,
		UpdatedAt:          c.UpdatedAt,
	}
}
