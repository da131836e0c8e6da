package payrollconfig

import (
	"context"

	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/pkg/pagination"
)

type PayrollConfigService interface {
	// Pay grades
	CreatePayGrade(ctx context.Context, req CreatePayGradeRequest) (PayGradeResponse, error)
	GetPayGrade(ctx context.Context, id string) (PayGradeResponse, error)
	ListPayGrades(ctx context.Context, filter ConfigFilter) (pagination.Page[PayGradeResponse], error)
	UpdatePayGrade(ctx context.Context, req UpdatePayGradeRequest) (PayGradeResponse, error)
	DeletePayGrade(ctx context.Context, id string) error
	ApprovePayGrade(ctx context.Context, id string) (PayGradeResponse, error)
	RejectPayGrade(ctx context.Context, id string) (PayGradeResponse, error)

	// Allowances
	CreateAllowance(ctx context.Context, req CreateAllowanceRequest) (AllowanceResponse, error)
	GetAllowance(ctx context.Context, id string) (AllowanceResponse, error)
	ListAllowances(ctx context.Context, filter ConfigFilter) (pagination.Page[AllowanceResponse], error)
	UpdateAllowance(ctx context.Context, req UpdateAllowanceRequest) (AllowanceResponse, error)
	DeleteAllowance(ctx context.Context, id string) error
	ApproveAllowance(ctx context.Context, id string) (AllowanceResponse, error)
	RejectAllowance(ctx context.Context, id string) (AllowanceResponse, error)

	// Tax rules
	CreateTaxRule(ctx context.Context, req CreateTaxRuleRequest) (TaxRuleResponse, error)
	GetTaxRule(ctx context.Context, id string) (TaxRuleResponse, error)
	ListTaxRules(ctx context.Context, filter ConfigFilter) (pagination.Page[TaxRuleResponse], error)
	UpdateTaxRule(ctx context.Context, req UpdateTaxRuleRequest) (TaxRuleResponse, error)
	DeleteTaxRule(ctx context.Context, id string) error
	ApproveTaxRule(ctx context.Context, id string) (TaxRuleResponse, error)
	RejectTaxRule(ctx context.Context, id string) (TaxRuleResponse, error)
}
