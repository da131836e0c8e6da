package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/domain/timeexception"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const timeExceptionColumns = `id, employee_id, type, attendance_record_id, assigned_to, status, reason,
	resolution_note, created_by, escalated_at, resolved_at, created_at, updated_at`

type timeExceptionRepositoryImpl struct {
	db *database.DB
}

func NewTimeExceptionRepository(db *database.DB) timeexception.TimeExceptionRepository {
	return &timeExceptionRepositoryImpl{db: db}
}

func scanTimeException(row pgx.Row) (timeexception.TimeException, error) {
	var e timeexception.TimeException
	err := row.Scan(
		&e.ID, &e.EmployeeID, &e.Type, &e.AttendanceRecordID, &e.AssignedTo, &e.Status, &e.Reason,
		&e.ResolutionNote, &e.CreatedBy, &e.EscalatedAt, &e.ResolvedAt, &e.CreatedAt, &e.UpdatedAt,
	)
	return e, err
}

func collectTimeExceptions(rows pgx.Rows) ([]timeexception.TimeException, error) {
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (timeexception.TimeException, error) {
		return scanTimeException(row)
	})
}

func (r *timeExceptionRepositoryImpl) Create(ctx context.Context, e timeexception.TimeException) (timeexception.TimeException, error) {
	q := GetQuerier(ctx, r.db)

	id, err := newID()
	if err != nil {
		return timeexception.TimeException{}, err
	}

	query := `
		INSERT INTO time_exceptions (id, employee_id, type, attendance_record_id, assigned_to, status, reason,
			resolution_note, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + timeExceptionColumns

	created, err := scanTimeException(q.QueryRow(ctx, query,
		id, e.EmployeeID, e.Type, e.AttendanceRecordID, e.AssignedTo, e.Status, e.Reason, e.ResolutionNote, e.CreatedBy,
	))
	if err != nil {
		if database.IsUniqueViolation(err) {
			return timeexception.TimeException{}, timeexception.ErrDuplicateException
		}
		return timeexception.TimeException{}, fmt.Errorf("failed to insert time exception: %w", err)
	}
	return created, nil
}

func (r *timeExceptionRepositoryImpl) GetByID(ctx context.Context, id string) (timeexception.TimeException, error) {
	q := GetQuerier(ctx, r.db)
	e, err := scanTimeException(q.QueryRow(ctx, `SELECT `+timeExceptionColumns+` FROM time_exceptions WHERE id = $1`, id))
	if err != nil {
		return timeexception.TimeException{}, mapNoRows(err, timeexception.ErrTimeExceptionNotFound)
	}
	return e, nil
}

func (r *timeExceptionRepositoryImpl) List(ctx context.Context, filter timeexception.TimeExceptionFilter) ([]timeexception.TimeException, int64, error) {
	q := GetQuerier(ctx, r.db)

	var c conditions
	if filter.Status != nil {
		c.add("status = $%d", *filter.Status)
	}
	if filter.Type != nil {
		c.add("type = $%d", *filter.Type)
	}
	if filter.EmployeeID != nil {
		c.add("employee_id = $%d", *filter.EmployeeID)
	}
	if filter.AssignedTo != nil {
		c.add("assigned_to = $%d", *filter.AssignedTo)
	}

	total, err := c.count(ctx, q, "time_exceptions")
	if err != nil {
		return nil, 0, err
	}

	limit, args := c.page(filter.Params)
	rows, err := q.Query(ctx, fmt.Sprintf(`SELECT %s FROM time_exceptions %s ORDER BY created_at DESC %s`,
		timeExceptionColumns, c.where(), limit), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list time exceptions: %w", err)
	}
	exceptions, err := collectTimeExceptions(rows)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to scan time exceptions: %w", err)
	}
	return exceptions, total, nil
}

func (r *timeExceptionRepositoryImpl) Update(ctx context.Context, e timeexception.TimeException) (timeexception.TimeException, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE time_exceptions
		SET type = $2, assigned_to = $3, status = $4, reason = $5, resolution_note = $6,
			escalated_at = $7, resolved_at = $8, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + timeExceptionColumns

	updated, err := scanTimeException(q.QueryRow(ctx, query,
		e.ID, e.Type, e.AssignedTo, e.Status, e.Reason, e.ResolutionNote, e.EscalatedAt, e.ResolvedAt,
	))
	if err != nil {
		if database.IsUniqueViolation(err) {
			return timeexception.TimeException{}, timeexception.ErrDuplicateException
		}
		return timeexception.TimeException{}, mapNoRows(err, timeexception.ErrTimeExceptionNotFound)
	}
	return updated, nil
}

func (r *timeExceptionRepositoryImpl) ExistsForRecord(ctx context.Context, recordID string, t timeexception.Type) (bool, error) {
	q := GetQuerier(ctx, r.db)
	var exists bool
	err := q.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM time_exceptions WHERE attendance_record_id = $1 AND type = $2)`, recordID, t,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check time exception: %w", err)
	}
	return exists, nil
}

// ownedBy scopes a count to one employee when employeeID is set.
func ownedBy(employeeID *string) conditions {
	var c conditions
	if employeeID != nil {
		c.add("employee_id = $%d", *employeeID)
	}
	return c
}

func (r *timeExceptionRepositoryImpl) CountByStatus(ctx context.Context, employeeID *string) (map[timeexception.Status]int64, error) {
	q := GetQuerier(ctx, r.db)
	c := ownedBy(employeeID)

	rows, err := q.Query(ctx, fmt.Sprintf(`SELECT status, COUNT(*) FROM time_exceptions %s GROUP BY status`, c.where()), c.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to count time exceptions by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[timeexception.Status]int64)
	for rows.Next() {
		var (
			status timeexception.Status
			n      int64
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

func (r *timeExceptionRepositoryImpl) CountByType(ctx context.Context, employeeID *string) (map[timeexception.Type]int64, error) {
	q := GetQuerier(ctx, r.db)
	c := ownedBy(employeeID)

	rows, err := q.Query(ctx, fmt.Sprintf(`SELECT type, COUNT(*) FROM time_exceptions %s GROUP BY type`, c.where()), c.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to count time exceptions by type: %w", err)
	}
	defer rows.Close()

	counts := make(map[timeexception.Type]int64)
	for rows.Next() {
		var (
			t timeexception.Type
			n int64
		)
		if err := rows.Scan(&t, &n); err != nil {
			return nil, err
		}
		counts[t] = n
	}
	return counts, rows.Err()
}

func (r *timeExceptionRepositoryImpl) CountOverdue(ctx context.Context, employeeID *string, createdBefore time.Time) (int64, error) {
	q := GetQuerier(ctx, r.db)
	c := ownedBy(employeeID)
	c.add("status = ANY($%d)", overdueStatuses())
	c.add("created_at < $%d", createdBefore)
	return c.count(ctx, q, "time_exceptions")
}

func (r *timeExceptionRepositoryImpl) EscalateOverdue(ctx context.Context, cutoff, now time.Time) ([]timeexception.TimeException, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE time_exceptions
		SET status = $1, escalated_at = $2, updated_at = $2
		WHERE status = ANY($3) AND created_at < $4
		RETURNING ` + timeExceptionColumns

	rows, err := q.Query(ctx, query, timeexception.StatusEscalated, now, overdueStatuses(), cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to escalate overdue time exceptions: %w", err)
	}
	return collectTimeExceptions(rows)
}

func overdueStatuses() []string {
	statuses := make([]string, len(timeexception.OverdueStatuses))
	for i, s := range timeexception.OverdueStatuses {
		statuses[i] = string(s)
	}
	return statuses
}
