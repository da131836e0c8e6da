package holiday

import (
	"context"
	"time"
)

type HolidayRepository interface {
	Create(ctx context.Context, h Holiday) (Holiday, error)
	GetByID(ctx context.Context, id string) (Holiday, error)
	List(ctx context.Context, filter HolidayFilter) ([]Holiday, int64, error)
	Update(ctx context.Context, h Holiday) (Holiday, error)
	Delete(ctx context.Context, id string) error
	ExistsByNameAndStartDate(ctx context.Context, name string, startDate time.Time) (bool, error)
	// FindActiveOn returns active holidays covering date.
	FindActiveOn(ctx context.Context, date time.Time) ([]Holiday, error)
}
