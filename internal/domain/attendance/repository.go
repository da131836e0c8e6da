package attendance

import (
	"context"
	"time"
)

type AttendanceRepository interface {
	Create(ctx context.Context, rec AttendanceRecord) (AttendanceRecord, error)
	GetByID(ctx context.Context, id string) (AttendanceRecord, error)
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (AttendanceRecord, error)
	// FindOpenSession returns the latest record on or after since with a clock in and no clock out.
	FindOpenSession(ctx context.Context, employeeID string, since time.Time) (AttendanceRecord, error)
	List(ctx context.Context, filter AttendanceFilter) ([]AttendanceRecord, int64, error)
	Update(ctx context.Context, rec AttendanceRecord) (AttendanceRecord, error)
	// ListOpenBefore returns open records dated before date that are not yet flagged as missed punches.
	ListOpenBefore(ctx context.Context, date time.Time) ([]AttendanceRecord, error)
}
