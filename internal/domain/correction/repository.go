package correction

import (
	"context"
	"time"
)

type CorrectionRepository interface {
	Create(ctx context.Context, c CorrectionRequest) (CorrectionRequest, error)
	GetByID(ctx context.Context, id string) (CorrectionRequest, error)
	List(ctx context.Context, filter CorrectionFilter) ([]CorrectionRequest, int64, error)
	Update(ctx context.Context, c CorrectionRequest) (CorrectionRequest, error)
	HasActiveForRecord(ctx context.Context, recordID string) (bool, error)
	// EscalateOverdue moves SUBMITTED and IN_REVIEW requests created before cutoff to ESCALATED.
	EscalateOverdue(ctx context.Context, cutoff, now time.Time) ([]CorrectionRequest, error)
}
