package policy

import (
	"context"

	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/pkg/pagination"
)

type PolicyService interface {
	CreateOvertimeRule(ctx context.Context, req CreateOvertimeRuleRequest) (OvertimeRuleResponse, error)
	GetOvertimeRule(ctx context.Context, id string) (OvertimeRuleResponse, error)
	ListOvertimeRules(ctx context.Context, filter OvertimeRuleFilter) (pagination.Page[OvertimeRuleResponse], error)
	UpdateOvertimeRule(ctx context.Context, req UpdateOvertimeRuleRequest) (OvertimeRuleResponse, error)
	ApproveOvertimeRule(ctx context.Context, id string) (OvertimeRuleResponse, error)
	DeleteOvertimeRule(ctx context.Context, id string) error

	CreateLatenessRule(ctx context.Context, req CreateLatenessRuleRequest) (LatenessRuleResponse, error)
	GetLatenessRule(ctx context.Context, id string) (LatenessRuleResponse, error)
	ListLatenessRules(ctx context.Context, filter LatenessRuleFilter) (pagination.Page[LatenessRuleResponse], error)
	UpdateLatenessRule(ctx context.Context, req UpdateLatenessRuleRequest) (LatenessRuleResponse, error)
	DeleteLatenessRule(ctx context.Context, id string) error

	CalculateLateness(ctx context.Context, req CalculateLatenessRequest) (LatenessCalculationResponse, error)
	CalculateOvertime(ctx context.Context, req CalculateOvertimeRequest) (OvertimeCalculationResponse, error)
}
