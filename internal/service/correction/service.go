package correction

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/domain/correction"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/pkg/logger"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/pkg/pagination"
)

// CorrectionApplier writes approved punches back to the attendance record.
type CorrectionApplier interface {
	ApplyCorrection(ctx context.Context, recordID string, clockIn, clockOut *time.Time) (attendance.AttendanceRecord, error)
}

type CorrectionServiceImpl struct {
	tx                   database.Transactor
	correctionRepo       correction.CorrectionRepository
	attendanceRepo       attendance.AttendanceRepository
	employeeRepo         employee.EmployeeRepository
	applier              CorrectionApplier
	notifier             notification.Service
	defaultThresholdDays int
	now                  func() time.Time
}

func NewCorrectionService(
	tx database.Transactor,
	correctionRepo correction.CorrectionRepository,
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	applier CorrectionApplier,
	notifier notification.Service,
	defaultThresholdDays int,
) correction.CorrectionService {
	return &CorrectionServiceImpl{
		tx:                   tx,
		correctionRepo:       correctionRepo,
		attendanceRepo:       attendanceRepo,
		employeeRepo:         employeeRepo,
		applier:              applier,
		notifier:             notifier,
		defaultThresholdDays: defaultThresholdDays,
		now:                  time.Now,
	}
}

// Submit files a correction for one of the caller's own attendance records.
func (s *CorrectionServiceImpl) Submit(ctx context.Context, req correction.CreateCorrectionRequest) (correction.CorrectionResponse, error) {
	if err := req.Validate(); err != nil {
		return correction.CorrectionResponse{}, err
	}
	actor, err := jwt.ActorFromContext(ctx)
	if err != nil {
		return correction.CorrectionResponse{}, err
	}
	if actor.EmployeeID == nil {
		return correction.CorrectionResponse{}, user.ErrEmployeeProfileRequired
	}

	rec, err := s.attendanceRepo.GetByID(ctx, req.AttendanceRecordID)
	if err != nil {
		return correction.CorrectionResponse{}, fmt.Errorf("failed to get attendance record: %w", err)
	}
	if !actor.OwnsEmployee(rec.EmployeeID) {
		return correction.CorrectionResponse{}, correction.ErrNotRecordOwner
	}

	active, err := s.correctionRepo.HasActiveForRecord(ctx, rec.ID)
	if err != nil {
		return correction.CorrectionResponse{}, fmt.Errorf("failed to check active corrections: %w", err)
	}
	if active {
		return correction.CorrectionResponse{}, correction.ErrActiveRequestExists
	}

	newRequest := correction.CorrectionRequest{
		EmployeeID:         rec.EmployeeID,
		AttendanceRecordID: rec.ID,
		CorrectedClockIn:   req.ParsedClockIn,
		CorrectedClockOut:  req.ParsedClockOut,
		Reason:             req.Reason,
		Status:             correction.StatusSubmitted,
		CreatedBy:          actor.CreatedBy(),
	}
	in, out := newRequest.Resolve(rec.ClockIn, rec.ClockOut)
	if in != nil && out != nil && !out.After(*in) {
		return correction.CorrectionResponse{}, correction.ErrClockOutBeforeIn
	}

	created, err := s.correctionRepo.Create(ctx, newRequest)
	if err != nil {
		return correction.CorrectionResponse{}, fmt.Errorf("failed to create correction request: %w", err)
	}

	if emp, err := s.employeeRepo.GetByID(ctx, created.EmployeeID); err == nil && emp.ManagerID != nil {
		s.notify(ctx, created, notification.TypeCorrectionSubmitted, "Attendance correction submitted",
			fmt.Sprintf("%s submitted a correction for %s", emp.FullName, rec.Date.Format("2006-01-02")),
			*emp.ManagerID)
	}

	return correction.ToResponse(created), nil
}

func (s *CorrectionServiceImpl) Get(ctx context.Context, id string) (correction.CorrectionResponse, error) {
	c, err := s.loadVisible(ctx, id)
	if err != nil {
		return correction.CorrectionResponse{}, err
	}
	return correction.ToResponse(c), nil
}

func (s *CorrectionServiceImpl) List(ctx context.Context, filter correction.CorrectionFilter) (pagination.Page[correction.CorrectionResponse], error) {
	if err := filter.Validate(); err != nil {
		return pagination.Page[correction.CorrectionResponse]{}, err
	}
	items, total, err := s.correctionRepo.List(ctx, filter)
	if err != nil {
		return pagination.Page[correction.CorrectionResponse]{}, fmt.Errorf("failed to list correction requests: %w", err)
	}
	return pagination.NewPage(pagination.Map(items, correction.ToResponse), total, filter.Params), nil
}

func (s *CorrectionServiceImpl) ListMine(ctx context.Context, filter correction.CorrectionFilter) (pagination.Page[correction.CorrectionResponse], error) {
	actor, err := jwt.ActorFromContext(ctx)
	if err != nil {
		return pagination.Page[correction.CorrectionResponse]{}, err
	}
	if actor.EmployeeID == nil {
		return pagination.Page[correction.CorrectionResponse]{}, user.ErrEmployeeProfileRequired
	}
	filter.EmployeeID = actor.EmployeeID
	return s.List(ctx, filter)
}

func (s *CorrectionServiceImpl) StartReview(ctx context.Context, req correction.ReviewRequest) (correction.CorrectionResponse, error) {
	updated, err := s.review(ctx, req.ID, correction.ActionReview, req.Note)
	if err != nil {
		return correction.CorrectionResponse{}, err
	}
	return correction.ToResponse(updated), nil
}

// Approve applies the corrected punches to the attendance record and
// re-evaluates it in the same transaction as the status change.
func (s *CorrectionServiceImpl) Approve(ctx context.Context, req correction.ReviewRequest) (correction.CorrectionResponse, error) {
	actor, err := jwt.ActorFromContext(ctx)
	if err != nil {
		return correction.CorrectionResponse{}, err
	}

	var updated correction.CorrectionRequest
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		c, err := s.correctionRepo.GetByID(ctx, req.ID)
		if err != nil {
			return fmt.Errorf("failed to get correction request: %w", err)
		}
		if actor.OwnsEmployee(c.EmployeeID) {
			return correction.ErrSelfReview
		}
		if err := c.Apply(correction.ActionApprove, s.now()); err != nil {
			return err
		}
		c.ReviewerID = &actor.UserID
		if req.Note != nil {
			c.ReviewNote = req.Note
		}

		if _, err := s.applier.ApplyCorrection(ctx, c.AttendanceRecordID, c.CorrectedClockIn, c.CorrectedClockOut); err != nil {
			if errors.Is(err, attendance.ErrClockOutBeforeIn) {
				return correction.ErrClockOutBeforeIn
			}
			return fmt.Errorf("failed to apply correction: %w", err)
		}

		updated, err = s.correctionRepo.Update(ctx, c)
		if err != nil {
			return fmt.Errorf("failed to update correction request: %w", err)
		}
		return nil
	})
	if err != nil {
		return correction.CorrectionResponse{}, err
	}

	s.notify(ctx, updated, notification.TypeCorrectionApproved, "Attendance correction approved",
		"Your attendance correction was approved", updated.EmployeeID)
	return correction.ToResponse(updated), nil
}

func (s *CorrectionServiceImpl) Reject(ctx context.Context, req correction.RejectRequest) (correction.CorrectionResponse, error) {
	if err := req.Validate(); err != nil {
		return correction.CorrectionResponse{}, err
	}
	updated, err := s.review(ctx, req.ID, correction.ActionReject, &req.Note)
	if err != nil {
		return correction.CorrectionResponse{}, err
	}
	s.notify(ctx, updated, notification.TypeCorrectionRejected, "Attendance correction rejected",
		"Your attendance correction was rejected: "+req.Note, updated.EmployeeID)
	return correction.ToResponse(updated), nil
}

func (s *CorrectionServiceImpl) Escalate(ctx context.Context, req correction.ReviewRequest) (correction.CorrectionResponse, error) {
	updated, err := s.review(ctx, req.ID, correction.ActionEscalate, req.Note)
	if err != nil {
		return correction.CorrectionResponse{}, err
	}
	s.notify(ctx, updated, notification.TypeCorrectionEscalated, "Attendance correction escalated",
		"Your attendance correction was escalated", updated.EmployeeID)
	return correction.ToResponse(updated), nil
}

// Cancel withdraws a request that has not been picked up yet. Only the
// employee it belongs to can cancel it.
func (s *CorrectionServiceImpl) Cancel(ctx context.Context, id string) (correction.CorrectionResponse, error) {
	actor, err := jwt.ActorFromContext(ctx)
	if err != nil {
		return correction.CorrectionResponse{}, err
	}
	c, err := s.correctionRepo.GetByID(ctx, id)
	if err != nil {
		return correction.CorrectionResponse{}, fmt.Errorf("failed to get correction request: %w", err)
	}
	if !actor.OwnsEmployee(c.EmployeeID) {
		return correction.CorrectionResponse{}, correction.ErrNotSubmitter
	}
	if err := c.Apply(correction.ActionCancel, s.now()); err != nil {
		return correction.CorrectionResponse{}, err
	}
	updated, err := s.correctionRepo.Update(ctx, c)
	if err != nil {
		return correction.CorrectionResponse{}, fmt.Errorf("failed to update correction request: %w", err)
	}
	return correction.ToResponse(updated), nil
}

func (s *CorrectionServiceImpl) AutoEscalateOverdue(ctx context.Context, thresholdDays int) (correction.AutoEscalateResponse, error) {
	if thresholdDays <= 0 {
		thresholdDays = s.defaultThresholdDays
	}
	now := s.now()
	cutoff := now.AddDate(0, 0, -thresholdDays)

	escalated, err := s.correctionRepo.EscalateOverdue(ctx, cutoff, now)
	if err != nil {
		return correction.AutoEscalateResponse{}, fmt.Errorf("failed to escalate overdue corrections: %w", err)
	}

	resp := correction.AutoEscalateResponse{
		ThresholdDays: thresholdDays,
		Escalated:     len(escalated),
		IDs:           make([]string, 0, len(escalated)),
	}
	for _, c := range escalated {
		resp.IDs = append(resp.IDs, c.ID)
		s.notify(ctx, c, notification.TypeCorrectionEscalated, "Attendance correction escalated",
			"Your attendance correction was escalated after waiting too long for review", c.EmployeeID)
	}

	logger.From(ctx).InfoContext(ctx, "overdue correction requests escalated",
		"threshold_days", thresholdDays,
		"count", resp.Escalated,
	)
	return resp, nil
}

// review applies a reviewer action that does not touch the attendance record.
func (s *CorrectionServiceImpl) review(ctx context.Context, id string, action correction.Action, note *string) (correction.CorrectionRequest, error) {
	actor, err := jwt.ActorFromContext(ctx)
	if err != nil {
		return correction.CorrectionRequest{}, err
	}
	c, err := s.correctionRepo.GetByID(ctx, id)
	if err != nil {
		return correction.CorrectionRequest{}, fmt.Errorf("failed to get correction request: %w", err)
	}
	if actor.OwnsEmployee(c.EmployeeID) {
		return correction.CorrectionRequest{}, correction.ErrSelfReview
	}
	if err := c.Apply(action, s.now()); err != nil {
		return correction.CorrectionRequest{}, err
	}
	c.ReviewerID = &actor.UserID
	if note != nil {
		c.ReviewNote = note
	}

	updated, err := s.correctionRepo.Update(ctx, c)
	if err != nil {
		return correction.CorrectionRequest{}, fmt.Errorf("failed to update correction request: %w", err)
	}
	return updated, nil
}

func (s *CorrectionServiceImpl) loadVisible(ctx context.Context, id string) (correction.CorrectionRequest, error) {
	actor, err := jwt.ActorFromContext(ctx)
	if err != nil {
		return correction.CorrectionRequest{}, err
	}
	c, err := s.correctionRepo.GetByID(ctx, id)
	if err != nil {
		return correction.CorrectionRequest{}, fmt.Errorf("failed to get correction request: %w", err)
	}
	if !actor.IsReviewer() && !actor.OwnsEmployee(c.EmployeeID) {
		return correction.CorrectionRequest{}, correction.ErrNotRecordOwner
	}
	return c, nil
}

func (s *CorrectionServiceImpl) notify(
	ctx context.Context,
	c correction.CorrectionRequest,
	notifType notification.NotificationType,
	title, message string,
	recipients ...string,
) {
	if s.notifier == nil || len(recipients) == 0 {
		return
	}
	reqs := make([]notification.CreateNotificationRequest, 0, len(recipients))
	for _, recipient := range recipients {
		reqs = append(reqs, notification.CreateNotificationRequest{
			RecipientID: recipient,
			Type:        notifType,
			Title:       title,
			Message:     message,
			Data: map[string]interface{}{
				"correctionRequestId": c.ID,
				"attendanceRecordId":  c.AttendanceRecordID,
				"status":              string(c.Status),
			},
		})
	}
	if err := s.notifier.QueueBulkNotification(ctx, reqs); err != nil {
		logger.From(ctx).WarnContext(ctx, "failed to queue correction notification", "correction_request_id", c.ID, "error", err)
	}
}
