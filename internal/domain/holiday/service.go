package holiday

import (
	"context"
	"time"

	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/pkg/pagination"
)

type HolidayService interface {
	Create(ctx context.Context, req CreateHolidayRequest) (HolidayResponse, error)
	BulkCreate(ctx context.Context, req BulkCreateHolidayRequest) (BulkCreateHolidayResponse, error)
	Get(ctx context.Context, id string) (HolidayResponse, error)
	List(ctx context.Context, filter HolidayFilter) (pagination.Page[HolidayResponse], error)
	Update(ctx context.Context, req UpdateHolidayRequest) (HolidayResponse, error)
	Delete(ctx context.Context, id string) error
	Check(ctx context.Context, date time.Time) (HolidayCheckResponse, error)
	IsHoliday(ctx context.Context, date time.Time) (bool, error)
}
