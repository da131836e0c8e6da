package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/domain/payrollconfig"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const approvalColumns = `status, created_by, approved_by, approved_at, created_at, updated_at`

func approvalDest(a *payrollconfig.Approval) []any {
	return []any{&a.Status, &a.CreatedBy, &a.ApprovedBy, &a.ApprovedAt, &a.CreatedAt, &a.UpdatedAt}
}

// configConditions builds the WHERE clause shared by every payroll
// configuration list. searchColumn is matched with ILIKE.
func configConditions(filter payrollconfig.ConfigFilter, searchColumn string) conditions {
	var c conditions
	if filter.Status != nil {
		c.add("status = $%d", *filter.Status)
	}
	if filter.Search != nil && *filter.Search != "" {
		c.add(searchColumn+" ILIKE $%d", "%"+*filter.Search+"%")
	}
	return c
}

func deleteConfig(ctx context.Context, q database.Querier, table, id string, notFound error) error {
	result, err := q.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, table), id)
	if err != nil {
		return fmt.Errorf("failed to delete from %s: %w", table, err)
	}
	if result.RowsAffected() == 0 {
		return notFound
	}
	return nil
}

// ============= Pay grades =============

const payGradeColumns = `id, grade, base_salary, gross_salary, ` + approvalColumns

type payGradeRepositoryImpl struct {
	db *database.DB
}

func NewPayGradeRepository(db *database.DB) payrollconfig.PayGradeRepository {
	return &payGradeRepositoryImpl{db: db}
}

func scanPayGrade(row pgx.Row) (payrollconfig.PayGrade, error) {
	var g payrollconfig.PayGrade
	dest := append([]any{&g.ID, &g.Grade, &g.BaseSalary, &g.GrossSalary}, approvalDest(&g.Approval)...)
	err := row.Scan(dest...)
	return g, err
}

func (r *payGradeRepositoryImpl) Create(ctx context.Context, g payrollconfig.PayGrade) (payrollconfig.PayGrade, error) {
	q := GetQuerier(ctx, r.db)

	id, err := newID()
	if err != nil {
		return payrollconfig.PayGrade{}, err
	}

	query := `
		INSERT INTO pay_grades (id, grade, base_salary, gross_salary, status, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + payGradeColumns

	created, err := scanPayGrade(q.QueryRow(ctx, query, id, g.Grade, g.BaseSalary, g.GrossSalary, g.Status, g.CreatedBy))
	if err != nil {
		if database.IsUniqueViolation(err) {
			return payrollconfig.PayGrade{}, payrollconfig.ErrPayGradeExists
		}
		return payrollconfig.PayGrade{}, fmt.Errorf("failed to insert pay grade: %w", err)
	}
	return created, nil
}

func (r *payGradeRepositoryImpl) GetByID(ctx context.Context, id string) (payrollconfig.PayGrade, error) {
	q := GetQuerier(ctx, r.db)
	g, err := scanPayGrade(q.QueryRow(ctx, `SELECT `+payGradeColumns+` FROM pay_grades WHERE id = $1`, id))
	if err != nil {
		return payrollconfig.PayGrade{}, mapNoRows(err, payrollconfig.ErrPayGradeNotFound)
	}
	return g, nil
}

func (r *payGradeRepositoryImpl) List(ctx context.Context, filter payrollconfig.ConfigFilter) ([]payrollconfig.PayGrade, int64, error) {
	q := GetQuerier(ctx, r.db)
	c := configConditions(filter, "grade")

	total, err := c.count(ctx, q, "pay_grades")
	if err != nil {
		return nil, 0, err
	}

	limit, args := c.page(filter.Params)
	rows, err := q.Query(ctx, fmt.Sprintf(`SELECT %s FROM pay_grades %s ORDER BY grade %s`,
		payGradeColumns, c.where(), limit), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list pay grades: %w", err)
	}
	grades, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (payrollconfig.PayGrade, error) {
		return scanPayGrade(row)
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to scan pay grades: %w", err)
	}
	return grades, total, nil
}

func (r *payGradeRepositoryImpl) Update(ctx context.Context, g payrollconfig.PayGrade) (payrollconfig.PayGrade, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE pay_grades
		SET grade = $2, base_salary = $3, gross_salary = $4, status = $5, approved_by = $6, approved_at = $7,
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + payGradeColumns

	updated, err := scanPayGrade(q.QueryRow(ctx, query,
		g.ID, g.Grade, g.BaseSalary, g.GrossSalary, g.Status, g.ApprovedBy, g.ApprovedAt,
	))
	if err != nil {
		if database.IsUniqueViolation(err) {
			return payrollconfig.PayGrade{}, payrollconfig.ErrPayGradeExists
		}
		return payrollconfig.PayGrade{}, mapNoRows(err, payrollconfig.ErrPayGradeNotFound)
	}
	return updated, nil
}

func (r *payGradeRepositoryImpl) Delete(ctx context.Context, id string) error {
	return deleteConfig(ctx, GetQuerier(ctx, r.db), "pay_grades", id, payrollconfig.ErrPayGradeNotFound)
}

// ============= Allowances =============

const allowanceColumns = `id, name, amount, ` + approvalColumns

type allowanceRepositoryImpl struct {
	db *database.DB
}

func NewAllowanceRepository(db *database.DB) payrollconfig.AllowanceRepository {
	return &allowanceRepositoryImpl{db: db}
}

func scanAllowance(row pgx.Row) (payrollconfig.Allowance, error) {
	var a payrollconfig.Allowance
	dest := append([]any{&a.ID, &a.Name, &a.Amount}, approvalDest(&a.Approval)...)
	err := row.Scan(dest...)
	return a, err
}

func (r *allowanceRepositoryImpl) Create(ctx context.Context, a payrollconfig.Allowance) (payrollconfig.Allowance, error) {
	q := GetQuerier(ctx, r.db)

	id, err := newID()
	if err != nil {
		return payrollconfig.Allowance{}, err
	}

	query := `
		INSERT INTO allowances (id, name, amount, status, created_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + allowanceColumns

	created, err := scanAllowance(q.QueryRow(ctx, query, id, a.Name, a.Amount, a.Status, a.CreatedBy))
	if err != nil {
		if database.IsUniqueViolation(err) {
			return payrollconfig.Allowance{}, payrollconfig.ErrAllowanceExists
		}
		return payrollconfig.Allowance{}, fmt.Errorf("failed to insert allowance: %w", err)
	}
	return created, nil
}

func (r *allowanceRepositoryImpl) GetByID(ctx context.Context, id string) (payrollconfig.Allowance, error) {
	q := GetQuerier(ctx, r.db)
	a, err := scanAllowance(q.QueryRow(ctx, `SELECT `+allowanceColumns+` FROM allowances WHERE id = $1`, id))
	if err != nil {
		return payrollconfig.Allowance{}, mapNoRows(err, payrollconfig.ErrAllowanceNotFound)
	}
	return a, nil
}

func (r *allowanceRepositoryImpl) List(ctx context.Context, filter payrollconfig.ConfigFilter) ([]payrollconfig.Allowance, int64, error) {
	q := GetQuerier(ctx, r.db)
	c := configConditions(filter, "name")

	total, err := c.count(ctx, q, "allowances")
	if err != nil {
		return nil, 0, err
	}

	limit, args := c.page(filter.Params)
	rows, err := q.Query(ctx, fmt.Sprintf(`SELECT %s FROM allowances %s ORDER BY name %s`,
		allowanceColumns, c.where(), limit), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list allowances: %w", err)
	}
	allowances, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (payrollconfig.Allowance, error) {
		return scanAllowance(row)
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to scan allowances: %w", err)
	}
	return allowances, total, nil
}

func (r *allowanceRepositoryImpl) Update(ctx context.Context, a payrollconfig.Allowance) (payrollconfig.Allowance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE allowances
		SET name = $2, amount = $3, status = $4, approved_by = $5, approved_at = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + allowanceColumns

	updated, err := scanAllowance(q.QueryRow(ctx, query, a.ID, a.Name, a.Amount, a.Status, a.ApprovedBy, a.ApprovedAt))
	if err != nil {
		if database.IsUniqueViolation(err) {
			return payrollconfig.Allowance{}, payrollconfig.ErrAllowanceExists
		}
		return payrollconfig.Allowance{}, mapNoRows(err, payrollconfig.ErrAllowanceNotFound)
	}
	return updated, nil
}

func (r *allowanceRepositoryImpl) Delete(ctx context.Context, id string) error {
	return deleteConfig(ctx, GetQuerier(ctx, r.db), "allowances", id, payrollconfig.ErrAllowanceNotFound)
}

// ============= Tax rules =============

// description is stored as '' when absent.
const taxRuleColumns = `id, name, NULLIF(description, ''), rate, exemption_amount, ` + approvalColumns

type taxRuleRepositoryImpl struct {
	db *database.DB
}

func NewTaxRuleRepository(db *database.DB) payrollconfig.TaxRuleRepository {
	return &taxRuleRepositoryImpl{db: db}
}

func scanTaxRule(row pgx.Row) (payrollconfig.TaxRule, error) {
	var t payrollconfig.TaxRule
	dest := append([]any{&t.ID, &t.Name, &t.Description, &t.Rate, &t.ExemptionAmount}, approvalDest(&t.Approval)...)
	err := row.Scan(dest...)
	return t, err
}

func (r *taxRuleRepositoryImpl) Create(ctx context.Context, t payrollconfig.TaxRule) (payrollconfig.TaxRule, error) {
	q := GetQuerier(ctx, r.db)

	id, err := newID()
	if err != nil {
		return payrollconfig.TaxRule{}, err
	}

	query := `
		INSERT INTO tax_rules (id, name, description, rate, exemption_amount, status, created_by)
		VALUES ($1, $2, COALESCE($3, ''), $4, $5, $6, $7)
		RETURNING ` + taxRuleColumns

	created, err := scanTaxRule(q.QueryRow(ctx, query,
		id, t.Name, t.Description, t.Rate, t.ExemptionAmount, t.Status, t.CreatedBy,
	))
	if err != nil {
		if database.IsUniqueViolation(err) {
			return payrollconfig.TaxRule{}, payrollconfig.ErrTaxRuleExists
		}
		return payrollconfig.TaxRule{}, fmt.Errorf("failed to insert tax rule: %w", err)
	}
	return created, nil
}

func (r *taxRuleRepositoryImpl) GetByID(ctx context.Context, id string) (payrollconfig.TaxRule, error) {
	q := GetQuerier(ctx, r.db)
	t, err := scanTaxRule(q.QueryRow(ctx, `SELECT `+taxRuleColumns+` FROM tax_rules WHERE id = $1`, id))
	if err != nil {
		return payrollconfig.TaxRule{}, mapNoRows(err, payrollconfig.ErrTaxRuleNotFound)
	}
	return t, nil
}

func (r *taxRuleRepositoryImpl) List(ctx context.Context, filter payrollconfig.ConfigFilter) ([]payrollconfig.TaxRule, int64, error) {
	q := GetQuerier(ctx, r.db)
	c := configConditions(filter, "name")

	total, err := c.count(ctx, q, "tax_rules")
	if err != nil {
		return nil, 0, err
	}

	limit, args := c.page(filter.Params)
	rows, err := q.Query(ctx, fmt.Sprintf(`SELECT %s FROM tax_rules %s ORDER BY name %s`,
		taxRuleColumns, c.where(), limit), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tax rules: %w", err)
	}
	rules, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (payrollconfig.TaxRule, error) {
		return scanTaxRule(row)
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to scan tax rules: %w", err)
	}
	return rules, total, nil
}

func (r *taxRuleRepositoryImpl) Update(ctx context.Context, t payrollconfig.TaxRule) (payrollconfig.TaxRule, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE tax_rules
		SET name = $2, description = COALESCE($3, ''), rate = $4, exemption_amount = $5, status = $6,
			approved_by = $7, approved_at = $8, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + taxRuleColumns

	updated, err := scanTaxRule(q.QueryRow(ctx, query,
		t.ID, t.Name, t.Description, t.Rate, t.ExemptionAmount, t.Status, t.ApprovedBy, t.ApprovedAt,
	))
	if err != nil {
		if database.IsUniqueViolation(err) {
			return payrollconfig.TaxRule{}, payrollconfig.ErrTaxRuleExists
		}
		return payrollconfig.TaxRule{}, mapNoRows(err, payrollconfig.ErrTaxRuleNotFound)
	}
	return updated, nil
}

func (r *taxRuleRepositoryImpl) Delete(ctx context.Context, id string) error {
	return deleteConfig(ctx, GetQuerier(ctx, r.db), "tax_rules", id, payrollconfig.ErrTaxRuleNotFound)
}
