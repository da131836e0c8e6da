package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const employeeColumns = `id, employee_code, full_name, email, department, manager_id, status,
	hourly_rate, created_by, created_at, updated_at`

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var e employee.Employee
	err := row.Scan(
		&e.ID, &e.EmployeeCode, &e.FullName, &e.Email, &e.Department, &e.ManagerID, &e.Status,
		&e.HourlyRate, &e.CreatedBy, &e.CreatedAt, &e.UpdatedAt,
	)
	return e, err
}

// mapEmployeeUnique tells a duplicate code from a duplicate email.
func mapEmployeeUnique(err error) error {
	if !database.IsUniqueViolation(err) {
		return err
	}
	if database.ConstraintName(err) == "employees_email_key" {
		return employee.ErrEmailExists
	}
	return employee.ErrEmployeeCodeExists
}

func (r *employeeRepositoryImpl) Create(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	id, err := newID()
	if err != nil {
		return employee.Employee{}, err
	}

	query := `
		INSERT INTO employees (id, employee_code, full_name, email, department, manager_id, status, hourly_rate, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + employeeColumns

	created, err := scanEmployee(q.QueryRow(ctx, query,
		id, e.EmployeeCode, e.FullName, e.Email, e.Department, e.ManagerID, e.Status, e.HourlyRate, e.CreatedBy,
	))
	if err != nil {
		return employee.Employee{}, mapEmployeeUnique(err)
	}
	return created, nil
}

func (r *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)
	found, err := scanEmployee(q.QueryRow(ctx, `SELECT `+employeeColumns+` FROM employees WHERE id = $1`, id))
	if err != nil {
		return employee.Employee{}, mapNoRows(err, employee.ErrEmployeeNotFound)
	}
	return found, nil
}

func (r *employeeRepositoryImpl) GetByEmployeeCode(ctx context.Context, employeeCode string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)
	found, err := scanEmployee(q.QueryRow(ctx, `SELECT `+employeeColumns+` FROM employees WHERE employee_code = $1`, employeeCode))
	if err != nil {
		return employee.Employee{}, mapNoRows(err, employee.ErrEmployeeNotFound)
	}
	return found, nil
}

func (r *employeeRepositoryImpl) List(ctx context.Context, filter employee.EmployeeFilter) ([]employee.Employee, int64, error) {
	q := GetQuerier(ctx, r.db)

	var c conditions
	if filter.Search != nil && *filter.Search != "" {
		c.add("(full_name ILIKE $%[1]d OR employee_code ILIKE $%[1]d)", "%"+*filter.Search+"%")
	}
	if filter.Department != nil && *filter.Department != "" {
		c.add("department = $%d", *filter.Department)
	}
	if filter.Status != nil {
		c.add("status = $%d", *filter.Status)
	}

	total, err := c.count(ctx, q, "employees")
	if err != nil {
		return nil, 0, err
	}

	limit, args := c.page(filter.Params)
	query := fmt.Sprintf(`SELECT %s FROM employees %s ORDER BY full_name ASC, id ASC %s`, employeeColumns, c.where(), limit)
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return employees, total, nil
}

func (r *employeeRepositoryImpl) Update(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE employees
		SET full_name = $2, email = $3, department = $4, manager_id = $5, status = $6,
			hourly_rate = $7, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + employeeColumns

	updated, err := scanEmployee(q.QueryRow(ctx, query,
		e.ID, e.FullName, e.Email, e.Department, e.ManagerID, e.Status, e.HourlyRate,
	))
	if err != nil {
		if database.IsUniqueViolation(err) {
			return employee.Employee{}, employee.ErrEmailExists
		}
		return employee.Employee{}, mapNoRows(err, employee.ErrEmployeeNotFound)
	}
	return updated, nil
}
