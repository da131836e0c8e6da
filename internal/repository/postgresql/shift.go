package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/domain/shift"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

// ========== SHIFTS ==========

const shiftColumns = `id, name, start_time, end_time, break_minutes, active, created_by, created_at, updated_at`

type shiftRepositoryImpl struct {
	db *database.DB
}

func NewShiftRepository(db *database.DB) shift.ShiftRepository {
	return &shiftRepositoryImpl{db: db}
}

func scanShift(row pgx.Row) (shift.Shift, error) {
	var s shift.Shift
	err := row.Scan(&s.ID, &s.Name, &s.StartTime, &s.EndTime, &s.BreakMinutes, &s.Active, &s.CreatedBy, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

func (r *shiftRepositoryImpl) Create(ctx context.Context, s shift.Shift) (shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	id, err := newID()
	if err != nil {
		return shift.Shift{}, err
	}

	query := `
		INSERT INTO shifts (id, name, start_time, end_time, break_minutes, active, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + shiftColumns

	created, err := scanShift(q.QueryRow(ctx, query, id, s.Name, s.StartTime, s.EndTime, s.BreakMinutes, s.Active, s.CreatedBy))
	if err != nil {
		return shift.Shift{}, fmt.Errorf("failed to insert shift: %w", err)
	}
	return created, nil
}

func (r *shiftRepositoryImpl) GetByID(ctx context.Context, id string) (shift.Shift, error) {
	q := GetQuerier(ctx, r.db)
	s, err := scanShift(q.QueryRow(ctx, `SELECT `+shiftColumns+` FROM shifts WHERE id = $1`, id))
	if err != nil {
		return shift.Shift{}, mapNoRows(err, shift.ErrShiftNotFound)
	}
	return s, nil
}

func (r *shiftRepositoryImpl) List(ctx context.Context, filter shift.ShiftFilter) ([]shift.Shift, int64, error) {
	q := GetQuerier(ctx, r.db)

	var c conditions
	if filter.Active != nil {
		c.add("active = $%d", *filter.Active)
	}

	total, err := c.count(ctx, q, "shifts")
	if err != nil {
		return nil, 0, err
	}

	limit, args := c.page(filter.Params)
	rows, err := q.Query(ctx, fmt.Sprintf(`SELECT %s FROM shifts %s ORDER BY start_time ASC, name ASC %s`,
		shiftColumns, c.where(), limit), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list shifts: %w", err)
	}
	shifts, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (shift.Shift, error) {
		return scanShift(row)
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to scan shifts: %w", err)
	}
	return shifts, total, nil
}

func (r *shiftRepositoryImpl) Update(ctx context.Context, s shift.Shift) (shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE shifts
		SET name = $2, start_time = $3, end_time = $4, break_minutes = $5, active = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + shiftColumns

	updated, err := scanShift(q.QueryRow(ctx, query, s.ID, s.Name, s.StartTime, s.EndTime, s.BreakMinutes, s.Active))
	if err != nil {
		return shift.Shift{}, mapNoRows(err, shift.ErrShiftNotFound)
	}
	return updated, nil
}

// ========== ASSIGNMENTS ==========

const assignmentColumns = `id, employee_id, shift_id, start_date, end_date, status, created_by, created_at, updated_at`

type shiftAssignmentRepositoryImpl struct {
	db *database.DB
}

func NewShiftAssignmentRepository(db *database.DB) shift.ShiftAssignmentRepository {
	return &shiftAssignmentRepositoryImpl{db: db}
}

func scanAssignment(row pgx.Row) (shift.ShiftAssignment, error) {
	var a shift.ShiftAssignment
	err := row.Scan(&a.ID, &a.EmployeeID, &a.ShiftID, &a.StartDate, &a.EndDate, &a.Status, &a.CreatedBy, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

func collectAssignments(rows pgx.Rows) ([]shift.ShiftAssignment, error) {
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (shift.ShiftAssignment, error) {
		return scanAssignment(row)
	})
}

func (r *shiftAssignmentRepositoryImpl) Create(ctx context.Context, a shift.ShiftAssignment) (shift.ShiftAssignment, error) {
	q := GetQuerier(ctx, r.db)

	id, err := newID()
	if err != nil {
		return shift.ShiftAssignment{}, err
	}

	query := `
		INSERT INTO shift_assignments (id, employee_id, shift_id, start_date, end_date, status, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + assignmentColumns

	created, err := scanAssignment(q.QueryRow(ctx, query, id, a.EmployeeID, a.ShiftID, a.StartDate, a.EndDate, a.Status, a.CreatedBy))
	if err != nil {
		return shift.ShiftAssignment{}, fmt.Errorf("failed to insert shift assignment: %w", err)
	}
	return created, nil
}

func (r *shiftAssignmentRepositoryImpl) GetByID(ctx context.Context, id string) (shift.ShiftAssignment, error) {
	q := GetQuerier(ctx, r.db)
	a, err := scanAssignment(q.QueryRow(ctx, `SELECT `+assignmentColumns+` FROM shift_assignments WHERE id = $1`, id))
	if err != nil {
		return shift.ShiftAssignment{}, mapNoRows(err, shift.ErrAssignmentNotFound)
	}
	return a, nil
}

func (r *shiftAssignmentRepositoryImpl) List(ctx context.Context, filter shift.AssignmentFilter) ([]shift.ShiftAssignment, int64, error) {
	q := GetQuerier(ctx, r.db)

	var c conditions
	if filter.EmployeeID != nil {
		c.add("employee_id = $%d", *filter.EmployeeID)
	}
	if filter.ShiftID != nil {
		c.add("shift_id = $%d", *filter.ShiftID)
	}
	if filter.Status != nil {
		c.add("status = $%d", *filter.Status)
	}

	total, err := c.count(ctx, q, "shift_assignments")
	if err != nil {
		return nil, 0, err
	}

	limit, args := c.page(filter.Params)
	rows, err := q.Query(ctx, fmt.Sprintf(`SELECT %s FROM shift_assignments %s ORDER BY start_date DESC %s`,
		assignmentColumns, c.where(), limit), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list shift assignments: %w", err)
	}
	assignments, err := collectAssignments(rows)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to scan shift assignments: %w", err)
	}
	return assignments, total, nil
}

func (r *shiftAssignmentRepositoryImpl) UpdateStatus(ctx context.Context, id string, status shift.AssignmentStatus) (shift.ShiftAssignment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE shift_assignments SET status = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + assignmentColumns

	updated, err := scanAssignment(q.QueryRow(ctx, query, id, status))
	if err != nil {
		return shift.ShiftAssignment{}, mapNoRows(err, shift.ErrAssignmentNotFound)
	}
	return updated, nil
}

func (r *shiftAssignmentRepositoryImpl) ListApprovedByEmployee(ctx context.Context, employeeID string) ([]shift.ShiftAssignment, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT `+assignmentColumns+`
		FROM shift_assignments
		WHERE employee_id = $1 AND status = $2
		ORDER BY start_date ASC`, employeeID, shift.AssignmentApproved)
	if err != nil {
		return nil, fmt.Errorf("failed to list approved assignments: %w", err)
	}
	return collectAssignments(rows)
}

func (r *shiftAssignmentRepositoryImpl) FindActive(ctx context.Context, employeeID string, date time.Time) (shift.ShiftAssignment, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + assignmentColumns + `
		FROM shift_assignments
		WHERE employee_id = $1 AND status = $2
			AND start_date <= $3 AND (end_date IS NULL OR end_date >= $3)
		ORDER BY start_date DESC
		LIMIT 1`

	a, err := scanAssignment(q.QueryRow(ctx, query, employeeID, shift.AssignmentApproved, date))
	if err != nil {
		return shift.ShiftAssignment{}, mapNoRows(err, shift.ErrAssignmentNotFound)
	}
	return a, nil
}

func (r *shiftAssignmentRepositoryImpl) ExpireEnded(ctx context.Context, before time.Time) (int64, error) {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE shift_assignments SET status = $1, updated_at = NOW()
		WHERE status = $2 AND end_date IS NOT NULL AND end_date < $3`,
		shift.AssignmentExpired, shift.AssignmentApproved, before)
	if err != nil {
		return 0, fmt.Errorf("failed to expire shift assignments: %w", err)
	}
	return tag.RowsAffected(), nil
}
