package payrollconfig

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/domain/payrollconfig"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/pkg/pagination"
)

type PayrollConfigServiceImpl struct {
	payGradeRepo  payrollconfig.PayGradeRepository
	allowanceRepo payrollconfig.AllowanceRepository
	taxRuleRepo   payrollconfig.TaxRuleRepository
	now           func() time.Time
}

func NewPayrollConfigService(
	payGradeRepo payrollconfig.PayGradeRepository,
	allowanceRepo payrollconfig.AllowanceRepository,
	taxRuleRepo payrollconfig.TaxRuleRepository,
) payrollconfig.PayrollConfigService {
	return &PayrollConfigServiceImpl{
		payGradeRepo:  payGradeRepo,
		allowanceRepo: allowanceRepo,
		taxRuleRepo:   taxRuleRepo,
		now:           time.Now,
	}
}

// decision is the approve or reject step shared by every configuration item.
type decision func(a *payrollconfig.Approval, by *string, now time.Time) error

func approve(a *payrollconfig.Approval, by *string, now time.Time) error { return a.Approve(by, now) }
func reject(a *payrollconfig.Approval, by *string, now time.Time) error  { return a.Reject(by, now) }

func (s *PayrollConfigServiceImpl) draft(ctx context.Context) (payrollconfig.Approval, error) {
	actor, err := jwt.ActorFromContext(ctx)
	if err != nil {
		return payrollconfig.Approval{}, err
	}
	return payrollconfig.Approval{Status: payrollconfig.StatusDraft, CreatedBy: actor.CreatedBy()}, nil
}

func (s *PayrollConfigServiceImpl) decider(ctx context.Context) (*string, error) {
	actor, err := jwt.ActorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	return actor.CreatedBy(), nil
}

// ============= Pay grades =============

func (s *PayrollConfigServiceImpl) CreatePayGrade(ctx context.Context, req payrollconfig.CreatePayGradeRequest) (payrollconfig.PayGradeResponse, error) {
	if err := req.Validate(); err != nil {
		return payrollconfig.PayGradeResponse{}, err
	}
	approval, err := s.draft(ctx)
	if err != nil {
		return payrollconfig.PayGradeResponse{}, err
	}
	created, err := s.payGradeRepo.Create(ctx, payrollconfig.PayGrade{
		Grade:       req.Grade,
		BaseSalary:  req.BaseSalary,
		GrossSalary: req.GrossSalary,
		Approval:    approval,
	})
	if err != nil {
		return payrollconfig.PayGradeResponse{}, fmt.Errorf("failed to create pay grade: %w", err)
	}
	return payrollconfig.ToPayGradeResponse(created), nil
}

func (s *PayrollConfigServiceImpl) GetPayGrade(ctx context.Context, id string) (payrollconfig.PayGradeResponse, error) {
	g, err := s.payGradeRepo.GetByID(ctx, id)
	if err != nil {
		return payrollconfig.PayGradeResponse{}, fmt.Errorf("failed to get pay grade: %w", err)
	}
	return payrollconfig.ToPayGradeResponse(g), nil
}

func (s *PayrollConfigServiceImpl) ListPayGrades(ctx context.Context, filter payrollconfig.ConfigFilter) (pagination.Page[payrollconfig.PayGradeResponse], error) {
	if err := filter.Validate(); err != nil {
		return pagination.Page[payrollconfig.PayGradeResponse]{}, err
	}
	grades, total, err := s.payGradeRepo.List(ctx, filter)
	if err != nil {
		return pagination.Page[payrollconfig.PayGradeResponse]{}, fmt.Errorf("failed to list pay grades: %w", err)
	}
	return pagination.NewPage(pagination.Map(grades, payrollconfig.ToPayGradeResponse), total, filter.Params), nil
}

func (s *PayrollConfigServiceImpl) UpdatePayGrade(ctx context.Context, req payrollconfig.UpdatePayGradeRequest) (payrollconfig.PayGradeResponse, error) {
	g, err := s.payGradeRepo.GetByID(ctx, req.ID)
	if err != nil {
		return payrollconfig.PayGradeResponse{}, fmt.Errorf("failed to get pay grade: %w", err)
	}
	if err := g.EnsureEditable(); err != nil {
		return payrollconfig.PayGradeResponse{}, err
	}
	if err := req.Apply(&g); err != nil {
		return payrollconfig.PayGradeResponse{}, err
	}
	updated, err := s.payGradeRepo.Update(ctx, g)
	if err != nil {
		return payrollconfig.PayGradeResponse{}, fmt.Errorf("failed to update pay grade: %w", err)
	}
	return payrollconfig.ToPayGradeResponse(updated), nil
}

func (s *PayrollConfigServiceImpl) DeletePayGrade(ctx context.Context, id string) error {
	g, err := s.payGradeRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get pay grade: %w", err)
	}
	if err := g.EnsureEditable(); err != nil {
		return err
	}
	if err := s.payGradeRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete pay grade: %w", err)
	}
	return nil
}

func (s *PayrollConfigServiceImpl) ApprovePayGrade(ctx context.Context, id string) (payrollconfig.PayGradeResponse, error) {
	return s.decidePayGrade(ctx, id, approve)
}

func (s *PayrollConfigServiceImpl) RejectPayGrade(ctx context.Context, id string) (payrollconfig.PayGradeResponse, error) {
	return s.decidePayGrade(ctx, id, reject)
}

func (s *PayrollConfigServiceImpl) decidePayGrade(ctx context.Context, id string, decide decision) (payrollconfig.PayGradeResponse, error) {
	by, err := s.decider(ctx)
	if err != nil {
		return payrollconfig.PayGradeResponse{}, err
	}
	g, err := s.payGradeRepo.GetByID(ctx, id)
	if err != nil {
		return payrollconfig.PayGradeResponse{}, fmt.Errorf("failed to get pay grade: %w", err)
	}
	if err := decide(&g.Approval, by, s.now()); err != nil {
		return payrollconfig.PayGradeResponse{}, err
	}
	updated, err := s.payGradeRepo.Update(ctx, g)
	if err != nil {
		return payrollconfig.PayGradeResponse{}, fmt.Errorf("failed to update pay grade: %w", err)
	}
	return payrollconfig.ToPayGradeResponse(updated), nil
}

// ============= Allowances =============

func (s *PayrollConfigServiceImpl) CreateAllowance(ctx context.Context, req payrollconfig.CreateAllowanceRequest) (payrollconfig.AllowanceResponse, error) {
	if err := req.Validate(); err != nil {
		return payrollconfig.AllowanceResponse{}, err
	}
	approval, err := s.draft(ctx)
	if err != nil {
		return payrollconfig.AllowanceResponse{}, err
	}
	created, err := s.allowanceRepo.Create(ctx, payrollconfig.Allowance{
		Name:     req.Name,
		Amount:   req.Amount,
		Approval: approval,
	})
	if err != nil {
		return payrollconfig.AllowanceResponse{}, fmt.Errorf("failed to create allowance: %w", err)
	}
	return payrollconfig.ToAllowanceResponse(created), nil
}

func (s *PayrollConfigServiceImpl) GetAllowance(ctx context.Context, id string) (payrollconfig.AllowanceResponse, error) {
	a, err := s.allowanceRepo.GetByID(ctx, id)
	if err != nil {
		return payrollconfig.AllowanceResponse{}, fmt.Errorf("failed to get allowance: %w", err)
	}
	return payrollconfig.ToAllowanceResponse(a), nil
}

func (s *PayrollConfigServiceImpl) ListAllowances(ctx context.Context, filter payrollconfig.ConfigFilter) (pagination.Page[payrollconfig.AllowanceResponse], error) {
	if err := filter.Validate(); err != nil {
		return pagination.Page[payrollconfig.AllowanceResponse]{}, err
	}
	items, total, err := s.allowanceRepo.List(ctx, filter)
	if err != nil {
		return pagination.Page[payrollconfig.AllowanceResponse]{}, fmt.Errorf("failed to list allowances: %w", err)
	}
	return pagination.NewPage(pagination.Map(items, payrollconfig.ToAllowanceResponse), total, filter.Params), nil
}

func (s *PayrollConfigServiceImpl) UpdateAllowance(ctx context.Context, req payrollconfig.UpdateAllowanceRequest) (payrollconfig.AllowanceResponse, error) {
	a, err := s.allowanceRepo.GetByID(ctx, req.ID)
	if err != nil {
		return payrollconfig.AllowanceResponse{}, fmt.Errorf("failed to get allowance: %w", err)
	}
	if err := a.EnsureEditable(); err != nil {
		return payrollconfig.AllowanceResponse{}, err
	}
	if err := req.Apply(&a); err != nil {
		return payrollconfig.AllowanceResponse{}, err
	}
	updated, err := s.allowanceRepo.Update(ctx, a)
	if err != nil {
		return payrollconfig.AllowanceResponse{}, fmt.Errorf("failed to update allowance: %w", err)
	}
	return payrollconfig.ToAllowanceResponse(updated), nil
}

func (s *PayrollConfigServiceImpl) DeleteAllowance(ctx context.Context, id string) error {
	a, err := s.allowanceRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get allowance: %w", err)
	}
	if err := a.EnsureEditable(); err != nil {
		return err
	}
	if err := s.allowanceRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete allowance: %w", err)
	}
	return nil
}

func (s *PayrollConfigServiceImpl) ApproveAllowance(ctx context.Context, id string) (payrollconfig.AllowanceResponse, error) {
	return s.decideAllowance(ctx, id, approve)
}

func (s *PayrollConfigServiceImpl) RejectAllowance(ctx context.Context, id string) (payrollconfig.AllowanceResponse, error) {
	return s.decideAllowance(ctx, id, reject)
}

func (s *PayrollConfigServiceImpl) decideAllowance(ctx context.Context, id string, decide decision) (payrollconfig.AllowanceResponse, error) {
	by, err := s.decider(ctx)
	if err != nil {
		return payrollconfig.AllowanceResponse{}, err
	}
	a, err := s.allowanceRepo.GetByID(ctx, id)
	if err != nil {
		return payrollconfig.AllowanceResponse{}, fmt.Errorf("failed to get allowance: %w", err)
	}
	if err := decide(&a.Approval, by, s.now()); err != nil {
		return payrollconfig.AllowanceResponse{}, err
	}
	updated, err := s.allowanceRepo.Update(ctx, a)
	if err != nil {
		return payrollconfig.AllowanceResponse{}, fmt.Errorf("failed to update allowance: %w", err)
	}
	return payrollconfig.ToAllowanceResponse(updated), nil
}

// ============= Tax rules =============

func (s *PayrollConfigServiceImpl) CreateTaxRule(ctx context.Context, req payrollconfig.CreateTaxRuleRequest) (payrollconfig.TaxRuleResponse, error) {
	if err := req.Validate(); err != nil {
		return payrollconfig.TaxRuleResponse{}, err
	}
	approval, err := s.draft(ctx)
	if err != nil {
		return payrollconfig.TaxRuleResponse{}, err
	}
	created, err := s.taxRuleRepo.Create(ctx, payrollconfig.TaxRule{
		Name:            req.Name,
		Description:     req.Description,
		Rate:            req.Rate,
		ExemptionAmount: req.ExemptionAmount,
		Approval:        approval,
	})
	if err != nil {
		return payrollconfig.TaxRuleResponse{}, fmt.Errorf("failed to create tax rule: %w", err)
	}
	return payrollconfig.ToTaxRuleResponse(created), nil
}

func (s *PayrollConfigServiceImpl) GetTaxRule(ctx context.Context, id string) (payrollconfig.TaxRuleResponse, error) {
	t, err := s.taxRuleRepo.GetByID(ctx, id)
	if err != nil {
		return payrollconfig.TaxRuleResponse{}, fmt.Errorf("failed to get tax rule: %w", err)
	}
	return payrollconfig.ToTaxRuleResponse(t), nil
}

func (s *PayrollConfigServiceImpl) ListTaxRules(ctx context.Context, filter payrollconfig.ConfigFilter) (pagination.Page[payrollconfig.TaxRuleResponse], error) {
	if err := filter.Validate(); err != nil {
		return pagination.Page[payrollconfig.TaxRuleResponse]{}, err
	}
	items, total, err := s.taxRuleRepo.List(ctx, filter)
	if err != nil {
		return pagination.Page[payrollconfig.TaxRuleResponse]{}, fmt.Errorf("failed to list tax rules: %w", err)
	}
	return pagination.NewPage(pagination.Map(items, payrollconfig.ToTaxRuleResponse), total, filter.Params), nil
}

func (s *PayrollConfigServiceImpl) UpdateTaxRule(ctx context.Context, req payrollconfig.UpdateTaxRuleRequest) (payrollconfig.TaxRuleResponse, error) {
	t, err := s.taxRuleRepo.GetByID(ctx, req.ID)
	if err != nil {
		return payrollconfig.TaxRuleResponse{}, fmt.Errorf("failed to get tax rule: %w", err)
	}
	if err := t.EnsureEditable(); err != nil {
		return payrollconfig.TaxRuleResponse{}, err
	}
	if err := req.Apply(&t); err != nil {
		return payrollconfig.TaxRuleResponse{}, err
	}
	updated, err := s.taxRuleRepo.Update(ctx, t)
	if err != nil {
		return payrollconfig.TaxRuleResponse{}, fmt.Errorf("failed to update tax rule: %w", err)
	}
	return payrollconfig.ToTaxRuleResponse(updated), nil
}

func (s *PayrollConfigServiceImpl) DeleteTaxRule(ctx context.Context, id string) error {
	t, err := s.taxRuleRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get tax rule: %w", err)
	}
	if err := t.EnsureEditable(); err != nil {
		return err
	}
	if err := s.taxRuleRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete tax rule: %w", err)
	}
	return nil
}

func (s *PayrollConfigServiceImpl) ApproveTaxRule(ctx context.Context, id string) (payrollconfig.TaxRuleResponse, error) {
	return s.decideTaxRule(ctx, id, approve)
}

func (s *PayrollConfigServiceImpl) RejectTaxRule(ctx context.Context, id string) (payrollconfig.TaxRuleResponse, error) {
	return s.decideTaxRule(ctx, id, reject)
}

func (s *PayrollConfigServiceImpl) decideTaxRule(ctx context.Context, id string, decide decision) (payrollconfig.TaxRuleResponse, error) {
	by, err := s.decider(ctx)
	if err != nil {
		return payrollconfig.TaxRuleResponse{}, err
	}
	t, err := s.taxRuleRepo.GetByID(ctx, id)
	if err != nil {
		return payrollconfig.TaxRuleResponse{}, fmt.Errorf("failed to get tax rule: %w", err)
	}
	if err := decide(&t.Approval, by, s.now()); err != nil {
		return payrollconfig.TaxRuleResponse{}, err
	}
	updated, err := s.taxRuleRepo.Update(ctx, t)
	if err != nil {
		return payrollconfig.TaxRuleResponse{}, fmt.Errorf("failed to update tax rule: %w", err)
	}
	return payrollconfig.ToTaxRuleResponse(updated), nil
}
