package timeexception

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/domain/timeexception"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/pkg/logger"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/pkg/pagination"
	"golang.org/x/sync/errgroup"
)

const day = 24 * time.Hour

type TimeExceptionServiceImpl struct {
	exceptionRepo        timeexception.TimeExceptionRepository
	attendanceRepo       attendance.AttendanceRepository
	employeeRepo         employee.EmployeeRepository
	notifier             notification.Service
	defaultThresholdDays int
	now                  func() time.Time
}

func NewTimeExceptionService(
	exceptionRepo timeexception.TimeExceptionRepository,
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	notifier notification.Service,
	defaultThresholdDays int,
) *TimeExceptionServiceImpl {
	return &TimeExceptionServiceImpl{
		exceptionRepo:        exceptionRepo,
		attendanceRepo:       attendanceRepo,
		employeeRepo:         employeeRepo,
		notifier:             notifier,
		defaultThresholdDays: defaultThresholdDays,
		now:                  time.Now,
	}
}

var _ timeexception.TimeExceptionService = (*TimeExceptionServiceImpl)(nil)
var _ attendance.ExceptionOpener = (*TimeExceptionServiceImpl)(nil)

// Create raises an exception by hand. Employees may only raise their own.
func (s *TimeExceptionServiceImpl) Create(ctx context.Context, req timeexception.CreateTimeExceptionRequest) (timeexception.TimeExceptionResponse, error) {
	actor, err := jwt.ActorFromContext(ctx)
	if err != nil {
		return timeexception.TimeExceptionResponse{}, err
	}
	if req.EmployeeID == "" && actor.EmployeeID != nil {
		req.EmployeeID = *actor.EmployeeID
	}
	if err := req.Validate(); err != nil {
		return timeexception.TimeExceptionResponse{}, err
	}
	if !actor.IsReviewer() && !actor.OwnsEmployee(req.EmployeeID) {
		return timeexception.TimeExceptionResponse{}, timeexception.ErrNotOwner
	}

	if _, err := s.employeeRepo.GetByID(ctx, req.EmployeeID); err != nil {
		return timeexception.TimeExceptionResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}

	exceptionType := timeexception.Type(req.Type)
	if req.AttendanceRecordID != nil {
		rec, err := s.attendanceRepo.GetByID(ctx, *req.AttendanceRecordID)
		if err != nil {
			return timeexception.TimeExceptionResponse{}, fmt.Errorf("failed to get attendance record: %w", err)
		}
		if rec.EmployeeID != req.EmployeeID {
			return timeexception.TimeExceptionResponse{}, timeexception.ErrRecordEmployeeMismatch
		}
		exists, err := s.exceptionRepo.ExistsForRecord(ctx, rec.ID, exceptionType)
		if err != nil {
			return timeexception.TimeExceptionResponse{}, fmt.Errorf("failed to check existing exception: %w", err)
		}
		if exists {
			return timeexception.TimeExceptionResponse{}, timeexception.ErrDuplicateException
		}
	}

	created, err := s.exceptionRepo.Create(ctx, timeexception.TimeException{
		EmployeeID:         req.EmployeeID,
		Type:               exceptionType,
		AttendanceRecordID: req.AttendanceRecordID,
		Status:             timeexception.StatusOpen,
		Reason:             req.Reason,
		CreatedBy:          actor.CreatedBy(),
	})
	if err != nil {
		return timeexception.TimeExceptionResponse{}, fmt.Errorf("failed to create time exception: %w", err)
	}

	s.notify(ctx, created, notification.TypeTimeExceptionOpened, "Time exception opened",
		fmt.Sprintf("A %s exception was opened: %s", created.Type, created.Reason), created.EmployeeID)

	return timeexception.ToResponse(created), nil
}

// OpenForRecord implements attendance.ExceptionOpener.
func (s *TimeExceptionServiceImpl) OpenForRecord(ctx context.Context, req timeexception.OpenForRecordRequest) (bool, error) {
	exists, err := s.exceptionRepo.ExistsForRecord(ctx, req.AttendanceRecordID, req.Type)
	if err != nil {
		return false, fmt.Errorf("failed to check existing exception: %w", err)
	}
	if exists {
		return false, nil
	}

	var createdBy *string
	if actor, err := jwt.ActorFromContext(ctx); err == nil {
		createdBy = actor.CreatedBy()
	}

	recordID := req.AttendanceRecordID
	created, err := s.exceptionRepo.Create(ctx, timeexception.TimeException{
		EmployeeID:         req.EmployeeID,
		Type:               req.Type,
		AttendanceRecordID: &recordID,
		Status:             timeexception.StatusOpen,
		Reason:             req.Reason,
		CreatedBy:          createdBy,
	})
	if err != nil {
		if errors.Is(err, timeexception.ErrDuplicateException) {
			return false, nil
		}
		return false, fmt.Errorf("failed to open time exception: %w", err)
	}

	database.AfterCommit(ctx, func() {
		s.notify(ctx, created, notification.TypeTimeExceptionOpened, "Time exception opened", created.Reason, created.EmployeeID)
	})
	return true, nil
}

func (s *TimeExceptionServiceImpl) Get(ctx context.Context, id string) (timeexception.TimeExceptionResponse, error) {
	e, _, err := s.loadVisible(ctx, id)
	if err != nil {
		return timeexception.TimeExceptionResponse{}, err
	}
	return timeexception.ToResponse(e), nil
}

func (s *TimeExceptionServiceImpl) List(ctx context.Context, filter timeexception.TimeExceptionFilter) (pagination.Page[timeexception.TimeExceptionResponse], error) {
	if err := filter.Validate(); err != nil {
		return pagination.Page[timeexception.TimeExceptionResponse]{}, err
	}
	items, total, err := s.exceptionRepo.List(ctx, filter)
	if err != nil {
		return pagination.Page[timeexception.TimeExceptionResponse]{}, fmt.Errorf("failed to list time exceptions: %w", err)
	}
	return pagination.NewPage(pagination.Map(items, timeexception.ToResponse), total, filter.Params), nil
}

func (s *TimeExceptionServiceImpl) ListMine(ctx context.Context, filter timeexception.TimeExceptionFilter) (pagination.Page[timeexception.TimeExceptionResponse], error) {
	actor, err := jwt.ActorFromContext(ctx)
	if err != nil {
		return pagination.Page[timeexception.TimeExceptionResponse]{}, err
	}
	if actor.EmployeeID == nil {
		return pagination.Page[timeexception.TimeExceptionResponse]{}, user.ErrEmployeeProfileRequired
	}
	filter.EmployeeID = actor.EmployeeID
	return s.List(ctx, filter)
}

// Summary counts exceptions for the whole organisation for reviewers and
// for the caller's own profile otherwise.
func (s *TimeExceptionServiceImpl) Summary(ctx context.Context) (timeexception.SummaryResponse, error) {
	actor, err := jwt.ActorFromContext(ctx)
	if err != nil {
		return timeexception.SummaryResponse{}, err
	}
	var employeeID *string
	if !actor.IsReviewer() {
		if actor.EmployeeID == nil {
			return timeexception.SummaryResponse{}, user.ErrEmployeeProfileRequired
		}
		employeeID = actor.EmployeeID
	}

	var (
		byStatus map[timeexception.Status]int64
		byType   map[timeexception.Type]int64
		overdue  int64
	)
	cutoff := s.now().Add(-time.Duration(s.defaultThresholdDays) * day)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		byStatus, err = s.exceptionRepo.CountByStatus(gctx, employeeID)
		return err
	})
	g.Go(func() error {
		var err error
		byType, err = s.exceptionRepo.CountByType(gctx, employeeID)
		return err
	})
	g.Go(func() error {
		var err error
		overdue, err = s.exceptionRepo.CountOverdue(gctx, employeeID, cutoff)
		return err
	})
	if err := g.Wait(); err != nil {
		return timeexception.SummaryResponse{}, fmt.Errorf("failed to summarize time exceptions: %w", err)
	}

	resp := timeexception.SummaryResponse{
		ByStatus: make(map[timeexception.Status]int64, len(timeexception.Statuses)),
		ByType:   make(map[timeexception.Type]int64, len(timeexception.Types)),
		Overdue:  overdue,
	}
	for _, st := range timeexception.Statuses {
		n := byStatus[timeexception.Status(st)]
		resp.ByStatus[timeexception.Status(st)] = n
		resp.Total += n
	}
	for _, t := range timeexception.Types {
		resp.ByType[timeexception.Type(t)] = byType[timeexception.Type(t)]
	}
	return resp, nil
}

func (s *TimeExceptionServiceImpl) Update(ctx context.Context, req timeexception.UpdateTimeExceptionRequest) (timeexception.TimeExceptionResponse, error) {
	if err := req.Validate(); err != nil {
		return timeexception.TimeExceptionResponse{}, err
	}
	e, _, err := s.loadVisible(ctx, req.ID)
	if err != nil {
		return timeexception.TimeExceptionResponse{}, err
	}
	if !e.Editable() {
		return timeexception.TimeExceptionResponse{}, timeexception.ErrInvalidStatusTransition
	}

	if req.Type != nil && timeexception.Type(*req.Type) != e.Type {
		newType := timeexception.Type(*req.Type)
		if e.AttendanceRecordID != nil {
			exists, err := s.exceptionRepo.ExistsForRecord(ctx, *e.AttendanceRecordID, newType)
			if err != nil {
				return timeexception.TimeExceptionResponse{}, fmt.Errorf("failed to check existing exception: %w", err)
			}
			if exists {
				return timeexception.TimeExceptionResponse{}, timeexception.ErrDuplicateException
			}
		}
		e.Type = newType
	}
	if req.Reason != nil {
		e.Reason = *req.Reason
	}
	e.UpdatedAt = s.now()

	updated, err := s.exceptionRepo.Update(ctx, e)
	if err != nil {
		return timeexception.TimeExceptionResponse{}, fmt.Errorf("failed to update time exception: %w", err)
	}
	return timeexception.ToResponse(updated), nil
}

// Assign submits an OPEN exception for review. Without an explicit assignee
// the employee's manager reviews it.
func (s *TimeExceptionServiceImpl) Assign(ctx context.Context, req timeexception.AssignTimeExceptionRequest) (timeexception.TimeExceptionResponse, error) {
	if err := req.Validate(); err != nil {
		return timeexception.TimeExceptionResponse{}, err
	}
	e, _, err := s.loadVisible(ctx, req.ID)
	if err != nil {
		return timeexception.TimeExceptionResponse{}, err
	}

	assignee := req.AssigneeID
	if assignee == nil {
		emp, err := s.employeeRepo.GetByID(ctx, e.EmployeeID)
		if err != nil {
			return timeexception.TimeExceptionResponse{}, fmt.Errorf("failed to get employee: %w", err)
		}
		assignee = emp.ManagerID
	} else if _, err := s.employeeRepo.GetByID(ctx, *assignee); err != nil {
		return timeexception.TimeExceptionResponse{}, fmt.Errorf("failed to get assignee: %w", err)
	}
	if assignee == nil {
		return timeexception.TimeExceptionResponse{}, timeexception.ErrNoReviewerAvailable
	}

	if err := e.Apply(timeexception.ActionAssign, s.now()); err != nil {
		return timeexception.TimeExceptionResponse{}, err
	}
	e.AssignedTo = assignee

	updated, err := s.exceptionRepo.Update(ctx, e)
	if err != nil {
		return timeexception.TimeExceptionResponse{}, fmt.Errorf("failed to assign time exception: %w", err)
	}

	s.notify(ctx, updated, notification.TypeTimeExceptionAssigned, "Time exception awaiting review",
		fmt.Sprintf("A %s exception is awaiting review", updated.Type), updated.EmployeeID, *assignee)

	return timeexception.ToResponse(updated), nil
}

func (s *TimeExceptionServiceImpl) Approve(ctx context.Context, req timeexception.TransitionRequest) (timeexception.TimeExceptionResponse, error) {
	return s.decide(ctx, req.ID, timeexception.ActionApprove, req.Note,
		notification.TypeTimeExceptionApproved, "Time exception approved")
}

func (s *TimeExceptionServiceImpl) Reject(ctx context.Context, req timeexception.RejectTimeExceptionRequest) (timeexception.TimeExceptionResponse, error) {
	if err := req.Validate(); err != nil {
		return timeexception.TimeExceptionResponse{}, err
	}
	reason := req.Reason
	return s.decide(ctx, req.ID, timeexception.ActionReject, &reason,
		notification.TypeTimeExceptionRejected, "Time exception rejected")
}

func (s *TimeExceptionServiceImpl) decide(
	ctx context.Context,
	id string,
	action timeexception.Action,
	note *string,
	notifType notification.NotificationType,
	title string,
) (timeexception.TimeExceptionResponse, error) {
	e, actor, err := s.loadVisible(ctx, id)
	if err != nil {
		return timeexception.TimeExceptionResponse{}, err
	}
	if actor.OwnsEmployee(e.EmployeeID) {
		return timeexception.TimeExceptionResponse{}, timeexception.ErrSelfReview
	}
	if err := e.Apply(action, s.now()); err != nil {
		return timeexception.TimeExceptionResponse{}, err
	}
	if note != nil {
		e.ResolutionNote = note
	}

	updated, err := s.exceptionRepo.Update(ctx, e)
	if err != nil {
		return timeexception.TimeExceptionResponse{}, fmt.Errorf("failed to %s time exception: %w", action, err)
	}

	message := fmt.Sprintf("Your %s exception was %s", updated.Type, updated.Status)
	if note != nil {
		message += ": " + *note
	}
	s.notify(ctx, updated, notifType, title, message, updated.EmployeeID)

	return timeexception.ToResponse(updated), nil
}

func (s *TimeExceptionServiceImpl) Escalate(ctx context.Context, req timeexception.TransitionRequest) (timeexception.TimeExceptionResponse, error) {
	e, _, err := s.loadVisible(ctx, req.ID)
	if err != nil {
		return timeexception.TimeExceptionResponse{}, err
	}
	if err := e.Apply(timeexception.ActionEscalate, s.now()); err != nil {
		return timeexception.TimeExceptionResponse{}, err
	}
	if req.Note != nil {
		e.ResolutionNote = req.Note
	}

	updated, err := s.exceptionRepo.Update(ctx, e)
	if err != nil {
		return timeexception.TimeExceptionResponse{}, fmt.Errorf("failed to escalate time exception: %w", err)
	}

	s.notifyEscalated(ctx, updated)
	return timeexception.ToResponse(updated), nil
}

func (s *TimeExceptionServiceImpl) Resolve(ctx context.Context, req timeexception.TransitionRequest) (timeexception.TimeExceptionResponse, error) {
	e, _, err := s.loadVisible(ctx, req.ID)
	if err != nil {
		return timeexception.TimeExceptionResponse{}, err
	}
	if err := e.Apply(timeexception.ActionResolve, s.now()); err != nil {
		return timeexception.TimeExceptionResponse{}, err
	}
	if req.Note != nil {
		e.ResolutionNote = req.Note
	}

	updated, err := s.exceptionRepo.Update(ctx, e)
	if err != nil {
		return timeexception.TimeExceptionResponse{}, fmt.Errorf("failed to resolve time exception: %w", err)
	}

	message := fmt.Sprintf("Your %s exception was resolved", updated.Type)
	if req.Note != nil {
		message += ": " + *req.Note
	}
	s.notify(ctx, updated, notification.TypeTimeExceptionResolved, "Time exception resolved", message, updated.EmployeeID)

	return timeexception.ToResponse(updated), nil
}

func (s *TimeExceptionServiceImpl) AutoEscalateOverdue(ctx context.Context, thresholdDays int) (timeexception.AutoEscalateResponse, error) {
	if thresholdDays <= 0 {
		thresholdDays = s.defaultThresholdDays
	}
	now := s.now()
	cutoff := now.Add(-time.Duration(thresholdDays) * day)

	escalated, err := s.exceptionRepo.EscalateOverdue(ctx, cutoff, now)
	if err != nil {
		return timeexception.AutoEscalateResponse{}, fmt.Errorf("failed to escalate overdue time exceptions: %w", err)
	}

	resp := timeexception.AutoEscalateResponse{
		ThresholdDays: thresholdDays,
		Escalated:     len(escalated),
		IDs:           make([]string, 0, len(escalated)),
	}
	for _, e := range escalated {
		resp.IDs = append(resp.IDs, e.ID)
		s.notifyEscalated(ctx, e)
	}

	logger.From(ctx).InfoContext(ctx, "overdue time exceptions escalated",
		"threshold_days", thresholdDays,
		"count", resp.Escalated,
	)
	return resp, nil
}

// loadVisible fetches an exception the caller may see: reviewers see all,
// employees only their own.
func (s *TimeExceptionServiceImpl) loadVisible(ctx context.Context, id string) (timeexception.TimeException, user.Actor, error) {
	actor, err := jwt.ActorFromContext(ctx)
	if err != nil {
		return timeexception.TimeException{}, user.Actor{}, err
	}
	e, err := s.exceptionRepo.GetByID(ctx, id)
	if err != nil {
		return timeexception.TimeException{}, user.Actor{}, fmt.Errorf("failed to get time exception: %w", err)
	}
	if !actor.IsReviewer() && !actor.OwnsEmployee(e.EmployeeID) {
		return timeexception.TimeException{}, user.Actor{}, timeexception.ErrNotOwner
	}
	return e, actor, nil
}

func (s *TimeExceptionServiceImpl) notifyEscalated(ctx context.Context, e timeexception.TimeException) {
	recipients := []string{e.EmployeeID}
	if e.AssignedTo != nil {
		recipients = append(recipients, *e.AssignedTo)
	}
	s.notify(ctx, e, notification.TypeTimeExceptionEscalated, "Time exception escalated",
		fmt.Sprintf("A %s exception was escalated", e.Type), recipients...)
}

func (s *TimeExceptionServiceImpl) notify(
	ctx context.Context,
	e timeexception.TimeException,
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
				"timeExceptionId": e.ID,
				"status":          string(e.Status),
			},
		})
	}
	if err := s.notifier.QueueBulkNotification(ctx, reqs); err != nil {
		logger.From(ctx).WarnContext(ctx, "failed to queue time exception notification", "time_exception_id", e.ID, "error", err)
	}
}
