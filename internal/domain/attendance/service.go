package attendance

import (
	"context"
	"time"

	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/domain/timeexception"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/pkg/pagination"
)

type AttendanceService interface {
	Punch(ctx context.Context, req PunchRequest) (AttendanceResponse, error)
	Import(ctx context.Context, req ImportRequest) (ImportResponse, error)
	Get(ctx context.Context, id string) (AttendanceResponse, error)
	List(ctx context.Context, filter AttendanceFilter) (pagination.Page[AttendanceResponse], error)
	ListMine(ctx context.Context, filter AttendanceFilter) (pagination.Page[AttendanceResponse], error)
	Reevaluate(ctx context.Context, id string) (AttendanceResponse, error)

	// ApplyCorrection overwrites the punches of a record, marks it corrected
	// and re-evaluates it. Callers own the surrounding transaction.
	ApplyCorrection(ctx context.Context, recordID string, clockIn, clockOut *time.Time) (AttendanceRecord, error)
	// FlagMissedPunches re-evaluates open records of past days.
	FlagMissedPunches(ctx context.Context) (int, error)
}

// ExceptionOpener opens a time exception for an anomaly found while
// evaluating a record. It reports false when one of the same type is
// already open for the record.
type ExceptionOpener interface {
	OpenForRecord(ctx context.Context, req timeexception.OpenForRecordRequest) (bool, error)
}
