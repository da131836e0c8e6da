package policy

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/domain/policy"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/pkg/pagination"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// HolidayCalendar tells whether a date is an active holiday.
type HolidayCalendar interface {
	IsHoliday(ctx context.Context, date time.Time) (bool, error)
}

type PolicyServiceImpl struct {
	overtimeRepo policy.OvertimeRuleRepository
	latenessRepo policy.LatenessRuleRepository
	employeeRepo employee.EmployeeRepository
	holidays     HolidayCalendar
}

func NewPolicyService(
	overtimeRepo policy.OvertimeRuleRepository,
	latenessRepo policy.LatenessRuleRepository,
	employeeRepo employee.EmployeeRepository,
	holidays HolidayCalendar,
) policy.PolicyService {
	return &PolicyServiceImpl{
		overtimeRepo: overtimeRepo,
		latenessRepo: latenessRepo,
		employeeRepo: employeeRepo,
		holidays:     holidays,
	}
}

// ========== OVERTIME RULES ==========

func (s *PolicyServiceImpl) CreateOvertimeRule(ctx context.Context, req policy.CreateOvertimeRuleRequest) (policy.OvertimeRuleResponse, error) {
	if err := req.Validate(); err != nil {
		return policy.OvertimeRuleResponse{}, err
	}
	actor, err := jwt.ActorFromContext(ctx)
	if err != nil {
		return policy.OvertimeRuleResponse{}, err
	}

	requiresApproval := true
	if req.RequiresApproval != nil {
		requiresApproval = *req.RequiresApproval
	}

	rule, err := s.overtimeRepo.Create(ctx, policy.OvertimeRule{
		Name:             req.Name,
		Description:      req.Description,
		DayType:          policy.DayType(req.DayType),
		Multiplier:       req.Multiplier,
		MinimumMinutes:   req.MinimumMinutes,
		RoundingMinutes:  req.RoundingMinutes,
		MaxMinutesPerDay: req.MaxMinutesPerDay,
		RequiresApproval: requiresApproval,
		Active:           true,
		CreatedBy:        actor.CreatedBy(),
	})
	if err != nil {
		return policy.OvertimeRuleResponse{}, fmt.Errorf("failed to create overtime rule: %w", err)
	}
	return policy.ToOvertimeRuleResponse(rule), nil
}

func (s *PolicyServiceImpl) GetOvertimeRule(ctx context.Context, id string) (policy.OvertimeRuleResponse, error) {
	rule, err := s.overtimeRepo.GetByID(ctx, id)
	if err != nil {
		return policy.OvertimeRuleResponse{}, fmt.Errorf("failed to get overtime rule: %w", err)
	}
	return policy.ToOvertimeRuleResponse(rule), nil
}

func (s *PolicyServiceImpl) ListOvertimeRules(ctx context.Context, filter policy.OvertimeRuleFilter) (pagination.Page[policy.OvertimeRuleResponse], error) {
	if err := filter.Validate(); err != nil {
		return pagination.Page[policy.OvertimeRuleResponse]{}, err
	}
	rules, total, err := s.overtimeRepo.List(ctx, filter)
	if err != nil {
		return pagination.Page[policy.OvertimeRuleResponse]{}, fmt.Errorf("failed to list overtime rules: %w", err)
	}
	return pagination.NewPage(pagination.Map(rules, policy.ToOvertimeRuleResponse), total, filter.Params), nil
}

func (s *PolicyServiceImpl) UpdateOvertimeRule(ctx context.Context, req policy.UpdateOvertimeRuleRequest) (policy.OvertimeRuleResponse, error) {
	if err := req.Validate(); err != nil {
		return policy.OvertimeRuleResponse{}, err
	}
	rule, err := s.overtimeRepo.GetByID(ctx, req.ID)
	if err != nil {
		return policy.OvertimeRuleResponse{}, fmt.Errorf("failed to get overtime rule: %w", err)
	}

	before := rule
	req.Apply(&rule)
	// Changing how pay is computed needs a fresh approval.
	if rule.DayType != before.DayType ||
		!rule.Multiplier.Equal(before.Multiplier) ||
		rule.MinimumMinutes != before.MinimumMinutes ||
		rule.RoundingMinutes != before.RoundingMinutes ||
		rule.MaxMinutesPerDay != before.MaxMinutesPerDay {
		rule.Approved = false
	}

	updated, err := s.overtimeRepo.Update(ctx, rule)
	if err != nil {
		return policy.OvertimeRuleResponse{}, fmt.Errorf("failed to update overtime rule: %w", err)
	}
	return policy.ToOvertimeRuleResponse(updated), nil
}

func (s *PolicyServiceImpl) ApproveOvertimeRule(ctx context.Context, id string) (policy.OvertimeRuleResponse, error) {
	rule, err := s.overtimeRepo.GetByID(ctx, id)
	if err != nil {
		return policy.OvertimeRuleResponse{}, fmt.Errorf("failed to get overtime rule: %w", err)
	}
	if !rule.Active {
		return policy.OvertimeRuleResponse{}, policy.ErrOvertimeRuleInactive
	}
	if rule.Approved {
		return policy.OvertimeRuleResponse{}, policy.ErrOvertimeRuleApproved
	}

	rule.Approved = true
	updated, err := s.overtimeRepo.Update(ctx, rule)
	if err != nil {
		return policy.OvertimeRuleResponse{}, fmt.Errorf("failed to approve overtime rule: %w", err)
	}
	return policy.ToOvertimeRuleResponse(updated), nil
}

func (s *PolicyServiceImpl) DeleteOvertimeRule(ctx context.Context, id string) error {
	rule, err := s.overtimeRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get overtime rule: %w", err)
	}
	rule.Active = false
	if _, err := s.overtimeRepo.Update(ctx, rule); err != nil {
		return fmt.Errorf("failed to deactivate overtime rule: %w", err)
	}
	return nil
}

// ========== LATENESS RULES ==========

func (s *PolicyServiceImpl) CreateLatenessRule(ctx context.Context, req policy.CreateLatenessRuleRequest) (policy.LatenessRuleResponse, error) {
	if err := req.Validate(); err != nil {
		return policy.LatenessRuleResponse{}, err
	}
	actor, err := jwt.ActorFromContext(ctx)
	if err != nil {
		return policy.LatenessRuleResponse{}, err
	}

	rule, err := s.latenessRepo.Create(ctx, policy.LatenessRule{
		Name:                       req.Name,
		Description:                req.Description,
		GracePeriodMinutes:         req.GracePeriodMinutes,
		DeductionPerMinute:         req.DeductionPerMinute,
		Multiplier:                 req.MultiplierOrDefault(),
		RoundingMinutes:            req.RoundingMinutes,
		EscalationThresholdMinutes: req.EscalationThresholdMinutes,
		Active:                     true,
		CreatedBy:                  actor.CreatedBy(),
	})
	if err != nil {
		return policy.LatenessRuleResponse{}, fmt.Errorf("failed to create lateness rule: %w", err)
	}
	return policy.ToLatenessRuleResponse(rule), nil
}

func (s *PolicyServiceImpl) GetLatenessRule(ctx context.Context, id string) (policy.LatenessRuleResponse, error) {
	rule, err := s.latenessRepo.GetByID(ctx, id)
	if err != nil {
		return policy.LatenessRuleResponse{}, fmt.Errorf("failed to get lateness rule: %w", err)
	}
	return policy.ToLatenessRuleResponse(rule), nil
}

func (s *PolicyServiceImpl) ListLatenessRules(ctx context.Context, filter policy.LatenessRuleFilter) (pagination.Page[policy.LatenessRuleResponse], error) {
	if err := filter.Validate(); err != nil {
		return pagination.Page[policy.LatenessRuleResponse]{}, err
	}
	rules, total, err := s.latenessRepo.List(ctx, filter)
	if err != nil {
		return pagination.Page[policy.LatenessRuleResponse]{}, fmt.Errorf("failed to list lateness rules: %w", err)
	}
	return pagination.NewPage(pagination.Map(rules, policy.ToLatenessRuleResponse), total, filter.Params), nil
}

func (s *PolicyServiceImpl) UpdateLatenessRule(ctx context.Context, req policy.UpdateLatenessRuleRequest) (policy.LatenessRuleResponse, error) {
	if err := req.Validate(); err != nil {
		return policy.LatenessRuleResponse{}, err
	}
	rule, err := s.latenessRepo.GetByID(ctx, req.ID)
	if err != nil {
		return policy.LatenessRuleResponse{}, fmt.Errorf("failed to get lateness rule: %w", err)
	}
	req.Apply(&rule)
	updated, err := s.latenessRepo.Update(ctx, rule)
	if err != nil {
		return policy.LatenessRuleResponse{}, fmt.Errorf("failed to update lateness rule: %w", err)
	}
	return policy.ToLatenessRuleResponse(updated), nil
}

func (s *PolicyServiceImpl) DeleteLatenessRule(ctx context.Context, id string) error {
	rule, err := s.latenessRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get lateness rule: %w", err)
	}
	rule.Active = false
	if _, err := s.latenessRepo.Update(ctx, rule); err != nil {
		return fmt.Errorf("failed to deactivate lateness rule: %w", err)
	}
	return nil
}

// ========== CALCULATIONS ==========

func (s *PolicyServiceImpl) CalculateLateness(ctx context.Context, req policy.CalculateLatenessRequest) (policy.LatenessCalculationResponse, error) {
	if err := req.Validate(); err != nil {
		return policy.LatenessCalculationResponse{}, err
	}

	var (
		rule policy.LatenessRule
		err  error
	)
	if req.RuleID != nil {
		rule, err = s.latenessRepo.GetByID(ctx, *req.RuleID)
		if err != nil {
			return policy.LatenessCalculationResponse{}, fmt.Errorf("failed to get lateness rule: %w", err)
		}
		if !rule.Active {
			return policy.LatenessCalculationResponse{}, policy.ErrLatenessRuleInactive
		}
	} else {
		rule, err = s.latenessRepo.GetActive(ctx)
		if err != nil {
			if errors.Is(err, policy.ErrLatenessRuleNotFound) {
				return policy.LatenessCalculationResponse{}, policy.ErrNoActiveLatenessRule
			}
			return policy.LatenessCalculationResponse{}, fmt.Errorf("failed to get active lateness rule: %w", err)
		}
	}

	result := rule.Calculate(req.LateMinutes)
	return policy.LatenessCalculationResponse{
		RuleID:             result.RuleID,
		LateMinutes:        result.RawMinutes,
		ChargeableMinutes:  result.ChargeableMinutes,
		Deduction:          result.Deduction,
		RequiresEscalation: result.RequiresEscalation,
	}, nil
}

func (s *PolicyServiceImpl) CalculateOvertime(ctx context.Context, req policy.CalculateOvertimeRequest) (policy.OvertimeCalculationResponse, error) {
	if err := req.Validate(); err != nil {
		return policy.OvertimeCalculationResponse{}, err
	}

	hourlyRate, err := s.resolveHourlyRate(ctx, req)
	if err != nil {
		return policy.OvertimeCalculationResponse{}, err
	}

	isHoliday, err := s.holidays.IsHoliday(ctx, req.ParsedDate)
	if err != nil {
		return policy.OvertimeCalculationResponse{}, fmt.Errorf("failed to check holiday: %w", err)
	}
	dayType := policy.DayTypeFor(req.ParsedDate, isHoliday)

	rule, err := s.overtimeRepo.FindApplicable(ctx, dayType)
	if err != nil {
		if errors.Is(err, policy.ErrOvertimeRuleNotFound) {
			return policy.OvertimeCalculationResponse{}, policy.ErrNoApplicableOvertimeRule
		}
		return policy.OvertimeCalculationResponse{}, fmt.Errorf("failed to find overtime rule: %w", err)
	}

	result := rule.Calculate(req.WorkedMinutes, req.ScheduledMinutes, hourlyRate)
	return policy.OvertimeCalculationResponse{
		RuleID:           result.RuleID,
		Date:             req.ParsedDate.Format(validator.DateLayout),
		DayType:          dayType,
		ExtraMinutes:     result.ExtraMinutes,
		PayableMinutes:   result.PayableMinutes,
		Multiplier:       result.Multiplier,
		HourlyRate:       result.HourlyRate,
		Pay:              result.Pay,
		RequiresApproval: result.RequiresApproval,
	}, nil
}

// resolveHourlyRate prefers the rate in the request over the employee profile.
func (s *PolicyServiceImpl) resolveHourlyRate(ctx context.Context, req policy.CalculateOvertimeRequest) (decimal.Decimal, error) {
	if req.HourlyRate != nil {
		return *req.HourlyRate, nil
	}
	emp, err := s.employeeRepo.GetByID(ctx, *req.EmployeeID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to get employee: %w", err)
	}
	if emp.HourlyRate.IsZero() {
		return decimal.Zero, policy.ErrHourlyRateUnavailable
	}
	return emp.HourlyRate, nil
}
