package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/domain/correction"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const correctionColumns = `id, employee_id, attendance_record_id, corrected_clock_in, corrected_clock_out, reason,
	status, reviewer_id, review_note, created_by, escalated_at, created_at, updated_at`

type correctionRepositoryImpl struct {
	db *database.DB
}

func NewCorrectionRepository(db *database.DB) correction.CorrectionRepository {
	return &correctionRepositoryImpl{db: db}
}

func scanCorrection(row pgx.Row) (correction.CorrectionRequest, error) {
	var c correction.CorrectionRequest
	err := row.Scan(
		&c.ID, &c.EmployeeID, &c.AttendanceRecordID, &c.CorrectedClockIn, &c.CorrectedClockOut, &c.Reason,
		&c.Status, &c.ReviewerID, &c.ReviewNote, &c.CreatedBy, &c.EscalatedAt, &c.CreatedAt, &c.UpdatedAt,
	)
	return c, err
}

func collectCorrections(rows pgx.Rows) ([]correction.CorrectionRequest, error) {
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (correction.CorrectionRequest, error) {
		return scanCorrection(row)
	})
}

func statusStrings(statuses []correction.Status) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

func (r *correctionRepositoryImpl) Create(ctx context.Context, c correction.CorrectionRequest) (correction.CorrectionRequest, error) {
	q := GetQuerier(ctx, r.db)

	id, err := newID()
	if err != nil {
		return correction.CorrectionRequest{}, err
	}

	query := `
		INSERT INTO correction_requests (id, employee_id, attendance_record_id, corrected_clock_in, corrected_clock_out,
			reason, status, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + correctionColumns

	created, err := scanCorrection(q.QueryRow(ctx, query,
		id, c.EmployeeID, c.AttendanceRecordID, c.CorrectedClockIn, c.CorrectedClockOut, c.Reason, c.Status, c.CreatedBy,
	))
	if err != nil {
		return correction.CorrectionRequest{}, fmt.Errorf("failed to insert correction request: %w", err)
	}
	return created, nil
}

func (r *correctionRepositoryImpl) GetByID(ctx context.Context, id string) (correction.CorrectionRequest, error) {
	q := GetQuerier(ctx, r.db)
	c, err := scanCorrection(q.QueryRow(ctx, `SELECT `+correctionColumns+` FROM correction_requests WHERE id = $1`, id))
	if err != nil {
		return correction.CorrectionRequest{}, mapNoRows(err, correction.ErrCorrectionNotFound)
	}
	return c, nil
}

func (r *correctionRepositoryImpl) List(ctx context.Context, filter correction.CorrectionFilter) ([]correction.CorrectionRequest, int64, error) {
	q := GetQuerier(ctx, r.db)

	var c conditions
	if filter.Status != nil {
		c.add("status = $%d", *filter.Status)
	}
	if filter.EmployeeID != nil {
		c.add("employee_id = $%d", *filter.EmployeeID)
	}
	if filter.AttendanceRecordID != nil {
		c.add("attendance_record_id = $%d", *filter.AttendanceRecordID)
	}

	total, err := c.count(ctx, q, "correction_requests")
	if err != nil {
		return nil, 0, err
	}

	limit, args := c.page(filter.Params)
	rows, err := q.Query(ctx, fmt.Sprintf(`SELECT %s FROM correction_requests %s ORDER BY created_at DESC %s`,
		correctionColumns, c.where(), limit), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list correction requests: %w", err)
	}
	requests, err := collectCorrections(rows)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to scan correction requests: %w", err)
	}
	return requests, total, nil
}

func (r *correctionRepositoryImpl) Update(ctx context.Context, c correction.CorrectionRequest) (correction.CorrectionRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE correction_requests
		SET status = $2, reviewer_id = $3, review_note = $4, escalated_at = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + correctionColumns

	updated, err := scanCorrection(q.QueryRow(ctx, query, c.ID, c.Status, c.ReviewerID, c.ReviewNote, c.EscalatedAt))
	if err != nil {
		return correction.CorrectionRequest{}, mapNoRows(err, correction.ErrCorrectionNotFound)
	}
	return updated, nil
}

func (r *correctionRepositoryImpl) HasActiveForRecord(ctx context.Context, recordID string) (bool, error) {
	q := GetQuerier(ctx, r.db)
	var exists bool
	err := q.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM correction_requests WHERE attendance_record_id = $1 AND status = ANY($2))`,
		recordID, statusStrings(correction.ActiveStatuses),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check active correction requests: %w", err)
	}
	return exists, nil
}

func (r *correctionRepositoryImpl) EscalateOverdue(ctx context.Context, cutoff, now time.Time) ([]correction.CorrectionRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE correction_requests
		SET status = $1, escalated_at = $2, updated_at = $2
		WHERE status = ANY($3) AND created_at < $4
		RETURNING ` + correctionColumns

	overdue := statusStrings([]correction.Status{correction.StatusSubmitted, correction.StatusInReview})
	rows, err := q.Query(ctx, query, correction.StatusEscalated, now, overdue, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to escalate overdue correction requests: %w", err)
	}
	return collectCorrections(rows)
}
