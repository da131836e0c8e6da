package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const attendanceColumns = `id, employee_id, date, clock_in, clock_out, worked_minutes, late_minutes,
	overtime_minutes, has_missed_punch, source, shift_assignment_id, created_by, created_at, updated_at`

type attendanceRepositoryImpl struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepositoryImpl{db: db}
}

func scanAttendance(row pgx.Row) (attendance.AttendanceRecord, error) {
	var a attendance.AttendanceRecord
	err := row.Scan(
		&a.ID, &a.EmployeeID, &a.Date, &a.ClockIn, &a.ClockOut, &a.WorkedMinutes, &a.LateMinutes,
		&a.OvertimeMinutes, &a.HasMissedPunch, &a.Source, &a.ShiftAssignmentID, &a.CreatedBy, &a.CreatedAt, &a.UpdatedAt,
	)
	return a, err
}

func collectAttendance(rows pgx.Rows) ([]attendance.AttendanceRecord, error) {
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (attendance.AttendanceRecord, error) {
		return scanAttendance(row)
	})
}

// Create inserts a record. The unique (employee_id, date) constraint reports a second record for the day.
func (r *attendanceRepositoryImpl) Create(ctx context.Context, rec attendance.AttendanceRecord) (attendance.AttendanceRecord, error) {
	q := GetQuerier(ctx, r.db)

	id, err := newID()
	if err != nil {
		return attendance.AttendanceRecord{}, err
	}

	query := `
		INSERT INTO attendance_records (id, employee_id, date, clock_in, clock_out, worked_minutes, late_minutes,
			overtime_minutes, has_missed_punch, source, shift_assignment_id, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING ` + attendanceColumns

	created, err := scanAttendance(q.QueryRow(ctx, query,
		id, rec.EmployeeID, rec.Date, rec.ClockIn, rec.ClockOut, rec.WorkedMinutes, rec.LateMinutes,
		rec.OvertimeMinutes, rec.HasMissedPunch, rec.Source, rec.ShiftAssignmentID, rec.CreatedBy,
	))
	if err != nil {
		if database.IsUniqueViolation(err) {
			return attendance.AttendanceRecord{}, attendance.ErrRecordAlreadyExists
		}
		return attendance.AttendanceRecord{}, fmt.Errorf("failed to insert attendance record: %w", err)
	}
	return created, nil
}

func (r *attendanceRepositoryImpl) GetByID(ctx context.Context, id string) (attendance.AttendanceRecord, error) {
	q := GetQuerier(ctx, r.db)
	rec, err := scanAttendance(q.QueryRow(ctx, `SELECT `+attendanceColumns+` FROM attendance_records WHERE id = $1`, id))
	if err != nil {
		return attendance.AttendanceRecord{}, mapNoRows(err, attendance.ErrAttendanceNotFound)
	}
	return rec, nil
}

func (r *attendanceRepositoryImpl) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (attendance.AttendanceRecord, error) {
	q := GetQuerier(ctx, r.db)
	rec, err := scanAttendance(q.QueryRow(ctx,
		`SELECT `+attendanceColumns+` FROM attendance_records WHERE employee_id = $1 AND date = $2`, employeeID, date))
	if err != nil {
		return attendance.AttendanceRecord{}, mapNoRows(err, attendance.ErrAttendanceNotFound)
	}
	return rec, nil
}

func (r *attendanceRepositoryImpl) FindOpenSession(ctx context.Context, employeeID string, since time.Time) (attendance.AttendanceRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + attendanceColumns + `
		FROM attendance_records
		WHERE employee_id = $1 AND date >= $2 AND clock_in IS NOT NULL AND clock_out IS NULL
		ORDER BY date DESC
		LIMIT 1`

	rec, err := scanAttendance(q.QueryRow(ctx, query, employeeID, since))
	if err != nil {
		return attendance.AttendanceRecord{}, mapNoRows(err, attendance.ErrAttendanceNotFound)
	}
	return rec, nil
}

func (r *attendanceRepositoryImpl) List(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.AttendanceRecord, int64, error) {
	q := GetQuerier(ctx, r.db)

	var c conditions
	if filter.EmployeeID != nil {
		c.add("employee_id = $%d", *filter.EmployeeID)
	}
	if filter.FromDate != nil {
		c.add("date >= $%d", *filter.FromDate)
	}
	if filter.ToDate != nil {
		c.add("date <= $%d", *filter.ToDate)
	}
	if filter.HasMissedPunch != nil {
		c.add("has_missed_punch = $%d", *filter.HasMissedPunch)
	}

	total, err := c.count(ctx, q, "attendance_records")
	if err != nil {
		return nil, 0, err
	}

	limit, args := c.page(filter.Params)
	rows, err := q.Query(ctx, fmt.Sprintf(`SELECT %s FROM attendance_records %s ORDER BY date DESC, employee_id ASC %s`,
		attendanceColumns, c.where(), limit), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list attendance records: %w", err)
	}
	records, err := collectAttendance(rows)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to scan attendance records: %w", err)
	}
	return records, total, nil
}

func (r *attendanceRepositoryImpl) Update(ctx context.Context, rec attendance.AttendanceRecord) (attendance.AttendanceRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendance_records
		SET clock_in = $2, clock_out = $3, worked_minutes = $4, late_minutes = $5, overtime_minutes = $6,
			has_missed_punch = $7, source = $8, shift_assignment_id = $9, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + attendanceColumns

	updated, err := scanAttendance(q.QueryRow(ctx, query,
		rec.ID, rec.ClockIn, rec.ClockOut, rec.WorkedMinutes, rec.LateMinutes, rec.OvertimeMinutes,
		rec.HasMissedPunch, rec.Source, rec.ShiftAssignmentID,
	))
	if err != nil {
		return attendance.AttendanceRecord{}, mapNoRows(err, attendance.ErrAttendanceNotFound)
	}
	return updated, nil
}

func (r *attendanceRepositoryImpl) ListOpenBefore(ctx context.Context, date time.Time) ([]attendance.AttendanceRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + attendanceColumns + `
		FROM attendance_records
		WHERE date < $1 AND NOT has_missed_punch AND (clock_in IS NULL OR clock_out IS NULL)
		ORDER BY date ASC`

	rows, err := q.Query(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list open attendance records: %w", err)
	}
	return collectAttendance(rows)
}
