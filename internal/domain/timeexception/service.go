package timeexception

import (
	"context"

	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/pkg/pagination"
)

type TimeExceptionService interface {
	Create(ctx context.Context, req CreateTimeExceptionRequest) (TimeExceptionResponse, error)
	OpenForRecord(ctx context.Context, req OpenForRecordRequest) (bool, error)
	Get(ctx context.Context, id string) (TimeExceptionResponse, error)
	List(ctx context.Context, filter TimeExceptionFilter) (pagination.Page[TimeExceptionResponse], error)
	ListMine(ctx context.Context, filter TimeExceptionFilter) (pagination.Page[TimeExceptionResponse], error)
	Summary(ctx context.Context) (SummaryResponse, error)
	Update(ctx context.Context, req UpdateTimeExceptionRequest) (TimeExceptionResponse, error)

	Assign(ctx context.Context, req AssignTimeExceptionRequest) (TimeExceptionResponse, error)
	Approve(ctx context.Context, req TransitionRequest) (TimeExceptionResponse, error)
	Reject(ctx context.Context, req RejectTimeExceptionRequest) (TimeExceptionResponse, error)
	Escalate(ctx context.Context, req TransitionRequest) (TimeExceptionResponse, error)
	Resolve(ctx context.Context, req TransitionRequest) (TimeExceptionResponse, error)

	// AutoEscalateOverdue escalates OPEN and PENDING exceptions older than
	// thresholdDays. A non-positive threshold uses the configured default.
	AutoEscalateOverdue(ctx context.Context, thresholdDays int) (AutoEscalateResponse, error)
}
