package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/domain/holiday"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const holidayColumns = `id, name, type, start_date, end_date, active, created_by, created_at, updated_at`

type holidayRepositoryImpl struct {
	db *database.DB
}

func NewHolidayRepository(db *database.DB) holiday.HolidayRepository {
	return &holidayRepositoryImpl{db: db}
}

func scanHoliday(row pgx.Row) (holiday.Holiday, error) {
	var h holiday.Holiday
	err := row.Scan(&h.ID, &h.Name, &h.Type, &h.StartDate, &h.EndDate, &h.Active, &h.CreatedBy, &h.CreatedAt, &h.UpdatedAt)
	return h, err
}

func collectHolidays(rows pgx.Rows) ([]holiday.Holiday, error) {
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (holiday.Holiday, error) {
		return scanHoliday(row)
	})
}

func (r *holidayRepositoryImpl) Create(ctx context.Context, h holiday.Holiday) (holiday.Holiday, error) {
	q := GetQuerier(ctx, r.db)

	id, err := newID()
	if err != nil {
		return holiday.Holiday{}, err
	}

	query := `
		INSERT INTO holidays (id, name, type, start_date, end_date, active, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + holidayColumns

	created, err := scanHoliday(q.QueryRow(ctx, query, id, h.Name, h.Type, h.StartDate, h.EndDate, h.Active, h.CreatedBy))
	if err != nil {
		if database.IsUniqueViolation(err) {
			return holiday.Holiday{}, holiday.ErrHolidayExists
		}
		return holiday.Holiday{}, fmt.Errorf("failed to insert holiday: %w", err)
	}
	return created, nil
}

func (r *holidayRepositoryImpl) GetByID(ctx context.Context, id string) (holiday.Holiday, error) {
	q := GetQuerier(ctx, r.db)
	h, err := scanHoliday(q.QueryRow(ctx, `SELECT `+holidayColumns+` FROM holidays WHERE id = $1`, id))
	if err != nil {
		return holiday.Holiday{}, mapNoRows(err, holiday.ErrHolidayNotFound)
	}
	return h, nil
}

func (r *holidayRepositoryImpl) List(ctx context.Context, filter holiday.HolidayFilter) ([]holiday.Holiday, int64, error) {
	q := GetQuerier(ctx, r.db)

	// A holiday matches a range when the two periods overlap.
	var c conditions
	if filter.FromDate != nil {
		c.add("end_date >= $%d", *filter.FromDate)
	}
	if filter.ToDate != nil {
		c.add("start_date <= $%d", *filter.ToDate)
	}
	if filter.Type != nil {
		c.add("type = $%d", *filter.Type)
	}
	if filter.Active != nil {
		c.add("active = $%d", *filter.Active)
	}

	total, err := c.count(ctx, q, "holidays")
	if err != nil {
		return nil, 0, err
	}

	limit, args := c.page(filter.Params)
	rows, err := q.Query(ctx, fmt.Sprintf(`SELECT %s FROM holidays %s ORDER BY start_date ASC, name ASC %s`,
		holidayColumns, c.where(), limit), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list holidays: %w", err)
	}
	holidays, err := collectHolidays(rows)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to scan holidays: %w", err)
	}
	return holidays, total, nil
}

func (r *holidayRepositoryImpl) Update(ctx context.Context, h holiday.Holiday) (holiday.Holiday, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE holidays
		SET name = $2, type = $3, start_date = $4, end_date = $5, active = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + holidayColumns

	updated, err := scanHoliday(q.QueryRow(ctx, query, h.ID, h.Name, h.Type, h.StartDate, h.EndDate, h.Active))
	if err != nil {
		if database.IsUniqueViolation(err) {
			return holiday.Holiday{}, holiday.ErrHolidayExists
		}
		return holiday.Holiday{}, mapNoRows(err, holiday.ErrHolidayNotFound)
	}
	return updated, nil
}

func (r *holidayRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)
	tag, err := q.Exec(ctx, `DELETE FROM holidays WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete holiday: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return holiday.ErrHolidayNotFound
	}
	return nil
}

func (r *holidayRepositoryImpl) ExistsByNameAndStartDate(ctx context.Context, name string, startDate time.Time) (bool, error) {
	q := GetQuerier(ctx, r.db)
	var exists bool
	err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM holidays WHERE name = $1 AND start_date = $2)`, name, startDate).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check holiday: %w", err)
	}
	return exists, nil
}

func (r *holidayRepositoryImpl) FindActiveOn(ctx context.Context, date time.Time) ([]holiday.Holiday, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + holidayColumns + `
		FROM holidays
		WHERE active AND start_date <= $1 AND end_date >= $1
		ORDER BY start_date ASC`

	rows, err := q.Query(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("failed to find holidays: %w", err)
	}
	return collectHolidays(rows)
}
