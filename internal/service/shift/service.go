package shift

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/domain/shift"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/pkg/pagination"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/pkg/validator"
)

type ShiftServiceImpl struct {
	shiftRepo      shift.ShiftRepository
	assignmentRepo shift.ShiftAssignmentRepository
	employeeRepo   employee.EmployeeRepository
	notifier       notification.Service
	location       *time.Location
	now            func() time.Time
}

func NewShiftService(
	shiftRepo shift.ShiftRepository,
	assignmentRepo shift.ShiftAssignmentRepository,
	employeeRepo employee.EmployeeRepository,
	notifier notification.Service,
	location *time.Location,
) shift.ShiftService {
	return &ShiftServiceImpl{
		shiftRepo:      shiftRepo,
		assignmentRepo: assignmentRepo,
		employeeRepo:   employeeRepo,
		notifier:       notifier,
		location:       location,
		now:            time.Now,
	}
}

// ========== SHIFTS ==========

func (s *ShiftServiceImpl) CreateShift(ctx context.Context, req shift.CreateShiftRequest) (shift.ShiftResponse, error) {
	if err := req.Validate(); err != nil {
		return shift.ShiftResponse{}, err
	}
	actor, err := jwt.ActorFromContext(ctx)
	if err != nil {
		return shift.ShiftResponse{}, err
	}

	created, err := s.shiftRepo.Create(ctx, shift.Shift{
		Name:         req.Name,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		BreakMinutes: req.BreakMinutes,
		Active:       true,
		CreatedBy:    actor.CreatedBy(),
	})
	if err != nil {
		return shift.ShiftResponse{}, fmt.Errorf("failed to create shift: %w", err)
	}
	return shift.ToShiftResponse(created), nil
}

func (s *ShiftServiceImpl) GetShift(ctx context.Context, id string) (shift.ShiftResponse, error) {
	sh, err := s.shiftRepo.GetByID(ctx, id)
	if err != nil {
		return shift.ShiftResponse{}, fmt.Errorf("failed to get shift: %w", err)
	}
	return shift.ToShiftResponse(sh), nil
}

func (s *ShiftServiceImpl) ListShifts(ctx context.Context, filter shift.ShiftFilter) (pagination.Page[shift.ShiftResponse], error) {
	if err := filter.Validate(); err != nil {
		return pagination.Page[shift.ShiftResponse]{}, err
	}
	shifts, total, err := s.shiftRepo.List(ctx, filter)
	if err != nil {
		return pagination.Page[shift.ShiftResponse]{}, fmt.Errorf("failed to list shifts: %w", err)
	}
	return pagination.NewPage(pagination.Map(shifts, shift.ToShiftResponse), total, filter.Params), nil
}

func (s *ShiftServiceImpl) UpdateShift(ctx context.Context, req shift.UpdateShiftRequest) (shift.ShiftResponse, error) {
	if err := req.Validate(); err != nil {
		return shift.ShiftResponse{}, err
	}
	sh, err := s.shiftRepo.GetByID(ctx, req.ID)
	if err != nil {
		return shift.ShiftResponse{}, fmt.Errorf("failed to get shift: %w", err)
	}
	if err := req.Apply(&sh); err != nil {
		return shift.ShiftResponse{}, err
	}
	updated, err := s.shiftRepo.Update(ctx, sh)
	if err != nil {
		return shift.ShiftResponse{}, fmt.Errorf("failed to update shift: %w", err)
	}
	return shift.ToShiftResponse(updated), nil
}

// ========== ASSIGNMENTS ==========

func (s *ShiftServiceImpl) AssignShift(ctx context.Context, req shift.AssignShiftRequest) (shift.AssignmentResponse, error) {
	if err := req.Validate(); err != nil {
		return shift.AssignmentResponse{}, err
	}
	actor, err := jwt.ActorFromContext(ctx)
	if err != nil {
		return shift.AssignmentResponse{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return shift.AssignmentResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}
	if !emp.IsActive() {
		return shift.AssignmentResponse{}, employee.ErrEmployeeInactive
	}

	sh, err := s.shiftRepo.GetByID(ctx, req.ShiftID)
	if err != nil {
		return shift.AssignmentResponse{}, fmt.Errorf("failed to get shift: %w", err)
	}
	if !sh.Active {
		return shift.AssignmentResponse{}, shift.ErrShiftInactive
	}

	candidate := shift.ShiftAssignment{
		EmployeeID: req.EmployeeID,
		ShiftID:    req.ShiftID,
		StartDate:  req.ParsedStartDate,
		EndDate:    req.ParsedEndDate,
		Status:     shift.AssignmentPending,
		CreatedBy:  actor.CreatedBy(),
	}
	if err := s.ensureNoOverlap(ctx, candidate); err != nil {
		return shift.AssignmentResponse{}, err
	}

	created, err := s.assignmentRepo.Create(ctx, candidate)
	if err != nil {
		return shift.AssignmentResponse{}, fmt.Errorf("failed to create shift assignment: %w", err)
	}

	s.notify(ctx, created, sh)

	resp := shift.ToAssignmentResponse(created)
	shiftResp := shift.ToShiftResponse(sh)
	resp.Shift = &shiftResp
	return resp, nil
}

// ensureNoOverlap rejects periods that collide with an approved assignment.
func (s *ShiftServiceImpl) ensureNoOverlap(ctx context.Context, candidate shift.ShiftAssignment) error {
	approved, err := s.assignmentRepo.ListApprovedByEmployee(ctx, candidate.EmployeeID)
	if err != nil {
		return fmt.Errorf("failed to list approved assignments: %w", err)
	}
	for _, existing := range approved {
		if existing.ID != candidate.ID && existing.Overlaps(candidate) {
			return shift.ErrAssignmentOverlap
		}
	}
	return nil
}

func (s *ShiftServiceImpl) notify(ctx context.Context, a shift.ShiftAssignment, sh shift.Shift) {
	if s.notifier == nil {
		return
	}
	err := s.notifier.QueueNotification(ctx, notification.CreateNotificationRequest{
		RecipientID: a.EmployeeID,
		Type:        notification.TypeShiftAssigned,
		Title:       "Shift assigned",
		Message:     fmt.Sprintf("You have been assigned to %s (%s-%s) from %s", sh.Name, sh.StartTime, sh.EndTime, a.StartDate.Format(validator.DateLayout)),
		Data: map[string]interface{}{
			"assignmentId": a.ID,
			"shiftId":      sh.ID,
		},
	})
	if err != nil {
		slog.WarnContext(ctx, "failed to queue shift notification", "assignment_id", a.ID, "error", err)
	}
}

func (s *ShiftServiceImpl) GetAssignment(ctx context.Context, id string) (shift.AssignmentResponse, error) {
	a, err := s.assignmentRepo.GetByID(ctx, id)
	if err != nil {
		return shift.AssignmentResponse{}, fmt.Errorf("failed to get shift assignment: %w", err)
	}
	resp := shift.ToAssignmentResponse(a)
	if sh, err := s.shiftRepo.GetByID(ctx, a.ShiftID); err == nil {
		shiftResp := shift.ToShiftResponse(sh)
		resp.Shift = &shiftResp
	}
	return resp, nil
}

func (s *ShiftServiceImpl) ListAssignments(ctx context.Context, filter shift.AssignmentFilter) (pagination.Page[shift.AssignmentResponse], error) {
	if err := filter.Validate(); err != nil {
		return pagination.Page[shift.AssignmentResponse]{}, err
	}
	assignments, total, err := s.assignmentRepo.List(ctx, filter)
	if err != nil {
		return pagination.Page[shift.AssignmentResponse]{}, fmt.Errorf("failed to list shift assignments: %w", err)
	}
	return pagination.NewPage(pagination.Map(assignments, shift.ToAssignmentResponse), total, filter.Params), nil
}

func (s *ShiftServiceImpl) ApproveAssignment(ctx context.Context, id string) (shift.AssignmentResponse, error) {
	a, err := s.assignmentRepo.GetByID(ctx, id)
	if err != nil {
		return shift.AssignmentResponse{}, fmt.Errorf("failed to get shift assignment: %w", err)
	}
	if !a.CanApprove() {
		return shift.AssignmentResponse{}, shift.ErrInvalidStatusTransition
	}
	if err := s.ensureNoOverlap(ctx, a); err != nil {
		return shift.AssignmentResponse{}, err
	}

	updated, err := s.assignmentRepo.UpdateStatus(ctx, id, shift.AssignmentApproved)
	if err != nil {
		return shift.AssignmentResponse{}, fmt.Errorf("failed to approve shift assignment: %w", err)
	}
	return shift.ToAssignmentResponse(updated), nil
}

func (s *ShiftServiceImpl) CancelAssignment(ctx context.Context, id string) (shift.AssignmentResponse, error) {
	a, err := s.assignmentRepo.GetByID(ctx, id)
	if err != nil {
		return shift.AssignmentResponse{}, fmt.Errorf("failed to get shift assignment: %w", err)
	}
	if !a.CanCancel() {
		return shift.AssignmentResponse{}, shift.ErrInvalidStatusTransition
	}
	updated, err := s.assignmentRepo.UpdateStatus(ctx, id, shift.AssignmentCancelled)
	if err != nil {
		return shift.AssignmentResponse{}, fmt.Errorf("failed to cancel shift assignment: %w", err)
	}
	return shift.ToAssignmentResponse(updated), nil
}

func (s *ShiftServiceImpl) GetActiveAssignment(ctx context.Context, employeeID string, date time.Time) (shift.AssignmentResponse, error) {
	a, sh, err := s.ResolveShift(ctx, employeeID, date)
	if err != nil {
		return shift.AssignmentResponse{}, err
	}
	resp := shift.ToAssignmentResponse(a)
	shiftResp := shift.ToShiftResponse(sh)
	resp.Shift = &shiftResp
	return resp, nil
}

func (s *ShiftServiceImpl) ResolveShift(ctx context.Context, employeeID string, date time.Time) (shift.ShiftAssignment, shift.Shift, error) {
	a, err := s.assignmentRepo.FindActive(ctx, employeeID, date)
	if err != nil {
		if errors.Is(err, shift.ErrAssignmentNotFound) {
			return shift.ShiftAssignment{}, shift.Shift{}, shift.ErrNoActiveAssignment
		}
		return shift.ShiftAssignment{}, shift.Shift{}, fmt.Errorf("failed to find active assignment: %w", err)
	}
	sh, err := s.shiftRepo.GetByID(ctx, a.ShiftID)
	if err != nil {
		return shift.ShiftAssignment{}, shift.Shift{}, fmt.Errorf("failed to get shift: %w", err)
	}
	return a, sh, nil
}

// ExpireEndedAssignments expires approved assignments whose end date is before today.
func (s *ShiftServiceImpl) ExpireEndedAssignments(ctx context.Context) (int64, error) {
	y, m, d := s.now().In(s.location).Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	n, err := s.assignmentRepo.ExpireEnded(ctx, today)
	if err != nil {
		return 0, fmt.Errorf("failed to expire shift assignments: %w", err)
	}
	return n, nil
}
