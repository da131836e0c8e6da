package payrollconfig

import "context"

type PayGradeRepository interface {
	Create(ctx context.Context, g PayGrade) (PayGrade, error)
	GetByID(ctx context.Context, id string) (PayGrade, error)
	List(ctx context.Context, filter ConfigFilter) ([]PayGrade, int64, error)
	Update(ctx context.Context, g PayGrade) (PayGrade, error)
	Delete(ctx context.Context, id string) error
}

type AllowanceRepository interface {
	Create(ctx context.Context, a Allowance) (Allowance, error)
	GetByID(ctx context.Context, id string) (Allowance, error)
	List(ctx context.Context, filter ConfigFilter) ([]Allowance, int64, error)
	Update(ctx context.Context, a Allowance) (Allowance, error)
	Delete(ctx context.Context, id string) error
}

type TaxRuleRepository interface {
	Create(ctx context.Context, t TaxRule) (TaxRule, error)
	GetByID(ctx context.Context, id string) (TaxRule, error)
	List(ctx context.Context, filter ConfigFilter) ([]TaxRule, int64, error)
	Update(ctx context.Context, t TaxRule) (TaxRule, error)
	Delete(ctx context.Context, id string) error
}
