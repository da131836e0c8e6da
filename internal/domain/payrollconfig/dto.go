package payrollconfig

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/pkg/pagination"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ============= Pay grades =============

type CreatePayGradeRequest struct {
	Grade       string          `json:"grade"`
	BaseSalary  decimal.Decimal `json:"baseSalary"`
	GrossSalary decimal.Decimal `json:"grossSalary"`
}

func (r *CreatePayGradeRequest) Validate() error {
	var errs validator.ValidationErrors
	r.Grade = strings.TrimSpace(r.Grade)
	if r.Grade == "" {
		errs.Add("grade", "grade is required")
	}
	validatePayGradeAmounts(&errs, r.BaseSalary, r.GrossSalary)
	return errs.Err()
}

type UpdatePayGradeRequest struct {
	ID          string           `json:"-"`
	Grade       *string          `json:"grade,omitempty"`
	BaseSalary  *decimal.Decimal `json:"baseSalary,omitempty"`
	GrossSalary *decimal.Decimal `json:"grossSalary,omitempty"`
}

// Apply copies the set fields onto g and validates the result.
func (r *UpdatePayGradeRequest) Apply(g *PayGrade) error {
	var errs validator.ValidationErrors
	if r.Grade != nil {
		g.Grade = strings.TrimSpace(*r.Grade)
		if g.Grade == "" {
			errs.Add("grade", "grade cannot be empty")
		}
	}
	if r.BaseSalary != nil {
		g.BaseSalary = *r.BaseSalary
	}
	if r.GrossSalary != nil {
		g.GrossSalary = *r.GrossSalary
	}
	validatePayGradeAmounts(&errs, g.BaseSalary, g.GrossSalary)
	return errs.Err()
}

func validatePayGradeAmounts(errs *validator.ValidationErrors, base, gross decimal.Decimal) {
	if base.LessThan(MinimumBaseSalary) {
		errs.Add("baseSalary", "baseSalary must be at least "+MinimumBaseSalary.String())
	}
	if gross.LessThan(base) {
		errs.Add("grossSalary", "grossSalary must not be less than baseSalary")
	}
}

type PayGradeResponse struct {
	ID          string          `json:"id"`
	Grade       string          `json:"grade"`
	BaseSalary  decimal.Decimal `json:"baseSalary"`
	GrossSalary decimal.Decimal `json:"grossSalary"`
	ApprovalResponse
}

func ToPayGradeResponse(g PayGrade) PayGradeResponse {
	return PayGradeResponse{
		ID:               g.ID,
		Grade:            g.Grade,
		BaseSalary:       g.BaseSalary,
		GrossSalary:      g.GrossSalary,
		ApprovalResponse: toApprovalResponse(g.Approval),
	}
}

// ============= Allowances =============

type CreateAllowanceRequest struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

func (r *CreateAllowanceRequest) Validate() error {
	var errs validator.ValidationErrors
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		errs.Add("name", "name is required")
	}
	if r.Amount.IsNegative() {
		errs.Add("amount", "amount must not be negative")
	}
	return errs.Err()
}

type UpdateAllowanceRequest struct {
	ID     string           `json:"-"`
	Name   *string          `json:"name,omitempty"`
	Amount *decimal.Decimal `json:"amount,omitempty"`
}

func (r *UpdateAllowanceRequest) Apply(a *Allowance) error {
	var errs validator.ValidationErrors
	if r.Name != nil {
		a.Name = strings.TrimSpace(*r.Name)
		if a.Name == "" {
			errs.Add("name", "name cannot be empty")
		}
	}
	if r.Amount != nil {
		if r.Amount.IsNegative() {
			errs.Add("amount", "amount must not be negative")
		}
		a.Amount = *r.Amount
	}
	return errs.Err()
}

type AllowanceResponse struct {
	ID     string          `json:"id"`
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
	ApprovalResponse
}

func ToAllowanceResponse(a Allowance) AllowanceResponse {
	return AllowanceResponse{
		ID:               a.ID,
		Name:             a.Name,
		Amount:           a.Amount,
		ApprovalResponse: toApprovalResponse(a.Approval),
	}
}

// ============= Tax rules =============

type CreateTaxRuleRequest struct {
	Name            string          `json:"name"`
	Description     *string         `json:"description,omitempty"`
	Rate            decimal.Decimal `json:"rate"`
	ExemptionAmount decimal.Decimal `json:"exemptionAmount"`
}

func (r *CreateTaxRuleRequest) Validate() error {
	var errs validator.ValidationErrors
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		errs.Add("name", "name is required")
	}
	validateTaxAmounts(&errs, r.Rate, r.ExemptionAmount)
	return errs.Err()
}

type UpdateTaxRuleRequest struct {
	ID              string           `json:"-"`
	Name            *string          `json:"name,omitempty"`
	Description     *string          `json:"description,omitempty"`
	Rate            *decimal.Decimal `json:"rate,omitempty"`
	ExemptionAmount *decimal.Decimal `json:"exemptionAmount,omitempty"`
}

func (r *UpdateTaxRuleRequest) Apply(t *TaxRule) error {
	var errs validator.ValidationErrors
	if r.Name != nil {
		t.Name = strings.TrimSpace(*r.Name)
		if t.Name == "" {
			errs.Add("name", "name cannot be empty")
		}
	}
	if r.Description != nil {
		t.Description = r.Description
	}
	if r.Rate != nil {
		t.Rate = *r.Rate
	}
	if r.ExemptionAmount != nil {
		t.ExemptionAmount = *r.ExemptionAmount
	}
	validateTaxAmounts(&errs, t.Rate, t.ExemptionAmount)
	return errs.Err()
}

func validateTaxAmounts(errs *validator.ValidationErrors, rate, exemption decimal.Decimal) {
	if rate.IsNegative() || rate.GreaterThan(hundred) {
		errs.Add("rate", "rate must be between 0 and 100")
	}
	if exemption.IsNegative() {
		errs.Add("exemptionAmount", "exemptionAmount must not be negative")
	}
}

type TaxRuleResponse struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Description     *string         `json:"description,omitempty"`
	Rate            decimal.Decimal `json:"rate"`
	ExemptionAmount decimal.Decimal `json:"exemptionAmount"`
	ApprovalResponse
}

func ToTaxRuleResponse(t TaxRule) TaxRuleResponse {
	return TaxRuleResponse{
		ID:               t.ID,
		Name:             t.Name,
		Description:      t.Description,
		Rate:             t.Rate,
		ExemptionAmount:  t.ExemptionAmount,
		ApprovalResponse: toApprovalResponse(t.Approval),
	}
}

// ============= Shared =============

type ApprovalResponse struct {
	Status     Status     `json:"status"`
	CreatedBy  *string    `json:"createdBy,omitempty"`
	ApprovedBy *string    `json:"approvedBy,omitempty"`
	ApprovedAt *time.Time `json:"approvedAt,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

func toApprovalResponse(a Approval) ApprovalResponse {
	return ApprovalResponse{
		Status:     a.Status,
		CreatedBy:  a.CreatedBy,
		ApprovedBy: a.ApprovedBy,
		ApprovedAt: a.ApprovedAt,
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
}

// ConfigFilter filters every payroll configuration list.
type ConfigFilter struct {
	Status *string
	Search *string
	pagination.Params
}

func (f *ConfigFilter) Validate() error {
	errs := f.Normalize()
	if f.Status != nil && !validator.IsInSlice(*f.Status, Statuses) {
		errs.Add("status", "status must be one of "+strings.Join(Statuses, ", "))
	}
	return errs.Err()
}
