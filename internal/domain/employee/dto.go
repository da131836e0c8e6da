package employee

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/pkg/pagination"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type CreateEmployeeRequest struct {
	EmployeeCode string          `json:"employeeCode"`
	FullName     string          `json:"fullName"`
	Email        string          `json:"email"`
	Department   string          `json:"department"`
	ManagerID    *string         `json:"managerId,omitempty"`
	HourlyRate   decimal.Decimal `json:"hourlyRate"`
}

func (r *CreateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	r.EmployeeCode = strings.TrimSpace(r.EmployeeCode)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))

	if validator.IsEmpty(r.EmployeeCode) {
		errs.Add("employeeCode", "employee code is required")
	} else if !validator.IsValidEmployeeCode(r.EmployeeCode) {
		errs.Add("employeeCode", "employee code may only contain letters, digits, '.', '_' and '-'")
	}
	if validator.IsEmpty(r.FullName) {
		errs.Add("fullName", "full name is required")
	}
	if validator.IsEmpty(r.Email) {
		errs.Add("email", "email is required")
	} else if !validator.IsValidEmail(r.Email) {
		errs.Add("email", "invalid email format")
	}
	if r.ManagerID != nil && !validator.IsValidUUID(*r.ManagerID) {
		errs.Add("managerId", "managerId must be a valid UUID")
	}
	if r.HourlyRate.IsNegative() {
		errs.Add("hourlyRate", "hourly rate must be non-negative")
	}

	return errs.Err()
}

type UpdateEmployeeRequest struct {
	ID         string           `json:"-"`
	FullName   *string          `json:"fullName,omitempty"`
	Email      *string          `json:"email,omitempty"`
	Department *string          `json:"department,omitempty"`
	ManagerID  *string          `json:"managerId,omitempty"`
	Status     *string          `json:"status,omitempty"`
	HourlyRate *decimal.Decimal `json:"hourlyRate,omitempty"`
}

func (r *UpdateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.FullName != nil && validator.IsEmpty(*r.FullName) {
		errs.Add("fullName", "full name must not be empty")
	}
	if r.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*r.Email))
		r.Email = &email
		if !validator.IsValidEmail(email) {
			errs.Add("email", "invalid email format")
		}
	}
	if r.ManagerID != nil && *r.ManagerID != "" && !validator.IsValidUUID(*r.ManagerID) {
		errs.Add("managerId", "managerId must be a valid UUID")
	}
	if r.Status != nil && !validator.IsInSlice(*r.Status, []string{string(StatusActive), string(StatusInactive)}) {
		errs.Add("status", "status must be ACTIVE or INACTIVE")
	}
	if r.HourlyRate != nil && r.HourlyRate.IsNegative() {
		errs.Add("hourlyRate", "hourly rate must be non-negative")
	}

	return errs.Err()
}

type EmployeeFilter struct {
	Search     *string
	Department *string
	Status     *string
	pagination.Params
}

func (f *EmployeeFilter) Validate() error {
	errs := f.Normalize()
	if f.Status != nil && !validator.IsInSlice(*f.Status, []string{string(StatusActive), string(StatusInactive)}) {
		errs.Add("status", "status must be ACTIVE or INACTIVE")
	}
	return errs.Err()
}

type EmployeeResponse struct {
	ID           string          `json:"id"`
	EmployeeCode string          `json:"employeeCode"`
	FullName     string          `json:"fullName"`
	Email        string          `json:"email"`
	Department   string          `json:"department"`
	ManagerID    *string         `json:"managerId,omitempty"`
	Status       Status          `json:"status"`
	HourlyRate   decimal.Decimal `json:"hourlyRate"`
	CreatedBy    *string         `json:"createdBy,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

func ToResponse(e Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:           e.ID,
		EmployeeCode: e.EmployeeCode,
		FullName:     e.FullName,
		Email:        e.Email,
		Department:   e.Department,
		ManagerID:    e.ManagerID,
		Status:       e.Status,
		HourlyRate:   e.HourlyRate,
		CreatedBy:    e.CreatedBy,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}
