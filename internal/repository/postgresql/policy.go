package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/domain/policy"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

// ========== OVERTIME RULES ==========

const overtimeRuleColumns = `id, name, description, day_type, multiplier, minimum_minutes, rounding_minutes,
	max_minutes_per_day, requires_approval, active, approved, created_by, created_at, updated_at`

type overtimeRuleRepositoryImpl struct {
	db *database.DB
}

func NewOvertimeRuleRepository(db *database.DB) policy.OvertimeRuleRepository {
	return &overtimeRuleRepositoryImpl{db: db}
}

func scanOvertimeRule(row pgx.Row) (policy.OvertimeRule, error) {
	var r policy.OvertimeRule
	err := row.Scan(
		&r.ID, &r.Name, &r.Description, &r.DayType, &r.Multiplier, &r.MinimumMinutes, &r.RoundingMinutes,
		&r.MaxMinutesPerDay, &r.RequiresApproval, &r.Active, &r.Approved, &r.CreatedBy, &r.CreatedAt, &r.UpdatedAt,
	)
	return r, err
}

func (o *overtimeRuleRepositoryImpl) Create(ctx context.Context, rule policy.OvertimeRule) (policy.OvertimeRule, error) {
	q := GetQuerier(ctx, o.db)

	id, err := newID()
	if err != nil {
		return policy.OvertimeRule{}, err
	}

	query := `
		INSERT INTO overtime_rules (id, name, description, day_type, multiplier, minimum_minutes, rounding_minutes,
			max_minutes_per_day, requires_approval, active, approved, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING ` + overtimeRuleColumns

	created, err := scanOvertimeRule(q.QueryRow(ctx, query,
		id, rule.Name, rule.Description, rule.DayType, rule.Multiplier, rule.MinimumMinutes, rule.RoundingMinutes,
		rule.MaxMinutesPerDay, rule.RequiresApproval, rule.Active, rule.Approved, rule.CreatedBy,
	))
	if err != nil {
		return policy.OvertimeRule{}, fmt.Errorf("failed to insert overtime rule: %w", err)
	}
	return created, nil
}

func (o *overtimeRuleRepositoryImpl) GetByID(ctx context.Context, id string) (policy.OvertimeRule, error) {
	q := GetQuerier(ctx, o.db)
	rule, err := scanOvertimeRule(q.QueryRow(ctx, `SELECT `+overtimeRuleColumns+` FROM overtime_rules WHERE id = $1`, id))
	if err != nil {
		return policy.OvertimeRule{}, mapNoRows(err, policy.ErrOvertimeRuleNotFound)
	}
	return rule, nil
}

func (o *overtimeRuleRepositoryImpl) List(ctx context.Context, filter policy.OvertimeRuleFilter) ([]policy.OvertimeRule, int64, error) {
	q := GetQuerier(ctx, o.db)

	var c conditions
	if filter.DayType != nil {
		c.add("day_type = $%d", *filter.DayType)
	}
	if filter.Active != nil {
		c.add("active = $%d", *filter.Active)
	}
	if filter.Approved != nil {
		c.add("approved = $%d", *filter.Approved)
	}

	total, err := c.count(ctx, q, "overtime_rules")
	if err != nil {
		return nil, 0, err
	}

	limit, args := c.page(filter.Params)
	rows, err := q.Query(ctx, fmt.Sprintf(`SELECT %s FROM overtime_rules %s ORDER BY created_at DESC %s`,
		overtimeRuleColumns, c.where(), limit), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list overtime rules: %w", err)
	}
	rules, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (policy.OvertimeRule, error) {
		return scanOvertimeRule(row)
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to scan overtime rules: %w", err)
	}
	return rules, total, nil
}

func (o *overtimeRuleRepositoryImpl) Update(ctx context.Context, rule policy.OvertimeRule) (policy.OvertimeRule, error) {
	q := GetQuerier(ctx, o.db)

	query := `
		UPDATE overtime_rules
		SET name = $2, description = $3, day_type = $4, multiplier = $5, minimum_minutes = $6,
			rounding_minutes = $7, max_minutes_per_day = $8, requires_approval = $9, active = $10,
			approved = $11, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + overtimeRuleColumns

	updated, err := scanOvertimeRule(q.QueryRow(ctx, query,
		rule.ID, rule.Name, rule.Description, rule.DayType, rule.Multiplier, rule.MinimumMinutes,
		rule.RoundingMinutes, rule.MaxMinutesPerDay, rule.RequiresApproval, rule.Active, rule.Approved,
	))
	if err != nil {
		return policy.OvertimeRule{}, mapNoRows(err, policy.ErrOvertimeRuleNotFound)
	}
	return updated, nil
}

func (o *overtimeRuleRepositoryImpl) FindApplicable(ctx context.Context, dayType policy.DayType) (policy.OvertimeRule, error) {
	q := GetQuerier(ctx, o.db)

	query := `SELECT ` + overtimeRuleColumns + `
		FROM overtime_rules
		WHERE day_type = $1 AND active AND approved
		ORDER BY updated_at DESC
		LIMIT 1`

	rule, err := scanOvertimeRule(q.QueryRow(ctx, query, dayType))
	if err != nil {
		return policy.OvertimeRule{}, mapNoRows(err, policy.ErrOvertimeRuleNotFound)
	}
	return rule, nil
}

// ========== LATENESS RULES ==========

const latenessRuleColumns = `id, name, description, grace_period_minutes, deduction_per_minute, multiplier,
	rounding_minutes, escalation_threshold_minutes, active, created_by, created_at, updated_at`

type latenessRuleRepositoryImpl struct {
	db *database.DB
}

func NewLatenessRuleRepository(db *database.DB) policy.LatenessRuleRepository {
	return &latenessRuleRepositoryImpl{db: db}
}

func scanLatenessRule(row pgx.Row) (policy.LatenessRule, error) {
	var r policy.LatenessRule
	err := row.Scan(
		&r.ID, &r.Name, &r.Description, &r.GracePeriodMinutes, &r.DeductionPerMinute, &r.Multiplier,
		&r.RoundingMinutes, &r.EscalationThresholdMinutes, &r.Active, &r.CreatedBy, &r.CreatedAt, &r.UpdatedAt,
	)
	return r, err
}

func (l *latenessRuleRepositoryImpl) Create(ctx context.Context, rule policy.LatenessRule) (policy.LatenessRule, error) {
	q := GetQuerier(ctx, l.db)

	id, err := newID()
	if err != nil {
		return policy.LatenessRule{}, err
	}

	query := `
		INSERT INTO lateness_rules (id, name, description, grace_period_minutes, deduction_per_minute, multiplier,
			rounding_minutes, escalation_threshold_minutes, active, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + latenessRuleColumns

	created, err := scanLatenessRule(q.QueryRow(ctx, query,
		id, rule.Name, rule.Description, rule.GracePeriodMinutes, rule.DeductionPerMinute, rule.Multiplier,
		rule.RoundingMinutes, rule.EscalationThresholdMinutes, rule.Active, rule.CreatedBy,
	))
	if err != nil {
		return policy.LatenessRule{}, fmt.Errorf("failed to insert lateness rule: %w", err)
	}
	return created, nil
}

func (l *latenessRuleRepositoryImpl) GetByID(ctx context.Context, id string) (policy.LatenessRule, error) {
	q := GetQuerier(ctx, l.db)
	rule, err := scanLatenessRule(q.QueryRow(ctx, `SELECT `+latenessRuleColumns+` FROM lateness_rules WHERE id = $1`, id))
	if err != nil {
		return policy.LatenessRule{}, mapNoRows(err, policy.ErrLatenessRuleNotFound)
	}
	return rule, nil
}

func (l *latenessRuleRepositoryImpl) List(ctx context.Context, filter policy.LatenessRuleFilter) ([]policy.LatenessRule, int64, error) {
	q := GetQuerier(ctx, l.db)

	var c conditions
	if filter.Active != nil {
		c.add("active = $%d", *filter.Active)
	}

	total, err := c.count(ctx, q, "lateness_rules")
	if err != nil {
		return nil, 0, err
	}

	limit, args := c.page(filter.Params)
	rows, err := q.Query(ctx, fmt.Sprintf(`SELECT %s FROM lateness_rules %s ORDER BY created_at DESC %s`,
		latenessRuleColumns, c.where(), limit), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list lateness rules: %w", err)
	}
	rules, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (policy.LatenessRule, error) {
		return scanLatenessRule(row)
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to scan lateness rules: %w", err)
	}
	return rules, total, nil
}

func (l *latenessRuleRepositoryImpl) Update(ctx context.Context, rule policy.LatenessRule) (policy.LatenessRule, error) {
	q := GetQuerier(ctx, l.db)

	query := `
		UPDATE lateness_rules
		SET name = $2, description = $3, grace_period_minutes = $4, deduction_per_minute = $5, multiplier = $6,
			rounding_minutes = $7, escalation_threshold_minutes = $8, active = $9, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + latenessRuleColumns

	updated, err := scanLatenessRule(q.QueryRow(ctx, query,
		rule.ID, rule.Name, rule.Description, rule.GracePeriodMinutes, rule.DeductionPerMinute, rule.Multiplier,
		rule.RoundingMinutes, rule.EscalationThresholdMinutes, rule.Active,
	))
	if err != nil {
		return policy.LatenessRule{}, mapNoRows(err, policy.ErrLatenessRuleNotFound)
	}
	return updated, nil
}

func (l *latenessRuleRepositoryImpl) GetActive(ctx context.Context) (policy.LatenessRule, error) {
	q := GetQuerier(ctx, l.db)

	query := `SELECT ` + latenessRuleColumns + `
		FROM lateness_rules
		WHERE active
		ORDER BY updated_at DESC
		LIMIT 1`

	rule, err := scanLatenessRule(q.QueryRow(ctx, query))
	if err != nil {
		return policy.LatenessRule{}, mapNoRows(err, policy.ErrLatenessRuleNotFound)
	}
	return rule, nil
}
