package shift

import (
	"context"
	"time"
)

type ShiftRepository interface {
	Create(ctx context.Context, s Shift) (Shift, error)
	GetByID(ctx context.Context, id string) (Shift, error)
	List(ctx context.Context, filter ShiftFilter) ([]Shift, int64, error)
	Update(ctx context.Context, s Shift) (Shift, error)
}

type ShiftAssignmentRepository interface {
	Create(ctx context.Context, a ShiftAssignment) (ShiftAssignment, error)
	GetByID(ctx context.Context, id string) (ShiftAssignment, error)
	List(ctx context.Context, filter AssignmentFilter) ([]ShiftAssignment, int64, error)
	UpdateStatus(ctx context.Context, id string, status AssignmentStatus) (ShiftAssignment, error)
	ListApprovedByEmployee(ctx context.Context, employeeID string) ([]ShiftAssignment, error)
	// FindActive returns the approved assignment covering date.
	FindActive(ctx context.Context, employeeID string, date time.Time) (ShiftAssignment, error)
	// ExpireEnded marks approved assignments that ended before date as expired.
	ExpireEnded(ctx context.Context, before time.Time) (int64, error)
}
