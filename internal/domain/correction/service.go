package correction

import (
	"context"

	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/pkg/pagination"
)

type CorrectionService interface {
	Submit(ctx context.Context, req CreateCorrectionRequest) (CorrectionResponse, error)
	Get(ctx context.Context, id string) (CorrectionResponse, error)
	List(ctx context.Context, filter CorrectionFilter) (pagination.Page[CorrectionResponse], error)
	ListMine(ctx context.Context, filter CorrectionFilter) (pagination.Page[CorrectionResponse], error)

	StartReview(ctx context.Context, req ReviewRequest) (CorrectionResponse, error)
	Approve(ctx context.Context, req ReviewRequest) (CorrectionResponse, error)
	Reject(ctx context.Context, req RejectRequest) (CorrectionResponse, error)
	Escalate(ctx context.Context, req ReviewRequest) (CorrectionResponse, error)
	Cancel(ctx context.Context, id string) (CorrectionResponse, error)

	AutoEscalateOverdue(ctx context.Context, thresholdDays int) (AutoEscalateResponse, error)
}
