package timeexception

import (
	"context"
	"time"
)

type TimeExceptionRepository interface {
	Create(ctx context.Context, e TimeException) (TimeException, error)
	GetByID(ctx context.Context, id string) (TimeException, error)
	List(ctx context.Context, filter TimeExceptionFilter) ([]TimeException, int64, error)
	Update(ctx context.Context, e TimeException) (TimeException, error)
	ExistsForRecord(ctx context.Context, recordID string, t Type) (bool, error)

	CountByStatus(ctx context.Context, employeeID *string) (map[Status]int64, error)
	CountByType(ctx context.Context, employeeID *string) (map[Type]int64, error)
	CountOverdue(ctx context.Context, employeeID *string, createdBefore time.Time) (int64, error)

	// EscalateOverdue moves every OPEN or PENDING exception created before
	// cutoff to ESCALATED in one statement and returns the escalated rows.
	EscalateOverdue(ctx context.Context, cutoff, now time.Time) ([]TimeException, error)
}
