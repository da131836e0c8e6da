package payrollconfig

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusDraft    Status = "DRAFT"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

var Statuses = []string{string(StatusDraft), string(StatusApproved), string(StatusRejected)}

// MinimumBaseSalary is the floor for a pay grade's base salary.
var MinimumBaseSalary = decimal.NewFromInt(6000)

// Approval is the review state every payroll configuration item carries.
// Items are editable only while DRAFT and decided exactly once.
type Approval struct {
	Status     Status
	CreatedBy  *string
	ApprovedBy *string
	ApprovedAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (a *Approval) EnsureEditable() error {
	if a.Status != StatusDraft {
		return ErrNotDraft
	}
	return nil
}

func (a *Approval) Approve(by *string, now time.Time) error {
	return a.decide(StatusApproved, by, now)
}

func (a *Approval) Reject(by *string, now time.Time) error {
	return a.decide(StatusRejected, by, now)
}

func (a *Approval) decide(to Status, by *string, now time.Time) error {
	if a.Status != StatusDraft {
		return ErrInvalidStatusTransition
	}
	a.Status = to
	a.ApprovedBy = by
	a.ApprovedAt = &now
	a.UpdatedAt = now
	return nil
}

type PayGrade struct {
	ID          string
	Grade       string
	BaseSalary  decimal.Decimal
	GrossSalary decimal.Decimal
	Approval
}

type Allowance struct {
	ID     string
	Name   string
	Amount decimal.Decimal
	Approval
}

type TaxRule struct {
	ID              string
	Name            string
	Description     *string
	Rate            decimal.Decimal
	ExemptionAmount decimal.Decimal
	Approval
}
