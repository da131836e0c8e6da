package shift

import (
	"context"
	"time"

	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/pkg/pagination"
)

type ShiftService interface {
	CreateShift(ctx context.Context, req CreateShiftRequest) (ShiftResponse, error)
	GetShift(ctx context.Context, id string) (ShiftResponse, error)
	ListShifts(ctx context.Context, filter ShiftFilter) (pagination.Page[ShiftResponse], error)
	UpdateShift(ctx context.Context, req UpdateShiftRequest) (ShiftResponse, error)

	AssignShift(ctx context.Context, req AssignShiftRequest) (AssignmentResponse, error)
	GetAssignment(ctx context.Context, id string) (AssignmentResponse, error)
	ListAssignments(ctx context.Context, filter AssignmentFilter) (pagination.Page[AssignmentResponse], error)
	ApproveAssignment(ctx context.Context, id string) (AssignmentResponse, error)
	CancelAssignment(ctx context.Context, id string) (AssignmentResponse, error)
	GetActiveAssignment(ctx context.Context, employeeID string, date time.Time) (AssignmentResponse, error)

	// ResolveShift returns the assignment and shift in force for employeeID on date.
	ResolveShift(ctx context.Context, employeeID string, date time.Time) (ShiftAssignment, Shift, error)
	ExpireEndedAssignments(ctx context.Context) (int64, error)
}
