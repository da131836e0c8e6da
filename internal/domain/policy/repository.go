package policy

import "context"

type OvertimeRuleRepository interface {
	Create(ctx context.Context, rule OvertimeRule) (OvertimeRule, error)
	GetByID(ctx context.Context, id string) (OvertimeRule, error)
	List(ctx context.Context, filter OvertimeRuleFilter) ([]OvertimeRule, int64, error)
	Update(ctx context.Context, rule OvertimeRule) (OvertimeRule, error)
	// FindApplicable returns the most recently updated active, approved rule for dayType.
	FindApplicable(ctx context.Context, dayType DayType) (OvertimeRule, error)
}

type LatenessRuleRepository interface {
	Create(ctx context.Context, rule LatenessRule) (LatenessRule, error)
	GetByID(ctx context.Context, id string) (LatenessRule, error)
	List(ctx context.Context, filter LatenessRuleFilter) ([]LatenessRule, int64, error)
	Update(ctx context.Context, rule LatenessRule) (LatenessRule, error)
	// GetActive returns the most recently updated active rule.
	GetActive(ctx context.Context) (LatenessRule, error)
}
