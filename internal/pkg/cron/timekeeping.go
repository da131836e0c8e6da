package cron

import (
	"context"
	"time"

	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/domain/correction"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/domain/timeexception"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/pkg/logger"
)

type exceptionEscalator interface {
	AutoEscalateOverdue(ctx context.Context, thresholdDays int) (timeexception.AutoEscalateResponse, error)
}

type correctionEscalator interface {
	AutoEscalateOverdue(ctx context.Context, thresholdDays int) (correction.AutoEscalateResponse, error)
}

type assignmentExpirer interface {
	ExpireEndedAssignments(ctx context.Context) (int64, error)
}

type missedPunchFlagger interface {
	FlagMissedPunches(ctx context.Context) (int, error)
}

// TimekeepingSchedule sets how often each job runs.
type TimekeepingSchedule struct {
	EscalationThresholdDays int
	EscalationInterval      time.Duration
	ShiftExpiryInterval     time.Duration
	MissedPunchInterval     time.Duration
}

// TimekeepingJobs runs the periodic workflow maintenance as the system actor.
type TimekeepingJobs struct {
	exceptions  exceptionEscalator
	corrections correctionEscalator
	shifts      assignmentExpirer
	attendance  missedPunchFlagger
	schedule    TimekeepingSchedule
}

func NewTimekeepingJobs(
	exceptions exceptionEscalator,
	corrections correctionEscalator,
	shifts assignmentExpirer,
	attendance missedPunchFlagger,
	schedule TimekeepingSchedule,
) *TimekeepingJobs {
	return &TimekeepingJobs{
		exceptions:  exceptions,
		corrections: corrections,
		shifts:      shifts,
		attendance:  attendance,
		schedule:    schedule,
	}
}

func (j *TimekeepingJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("auto_escalate_overdue_exceptions", j.schedule.EscalationInterval, j.EscalateOverdueExceptions)
	scheduler.AddJob("auto_escalate_overdue_corrections", j.schedule.EscalationInterval, j.EscalateOverdueCorrections)
	scheduler.AddJob("expire_shift_assignments", j.schedule.ShiftExpiryInterval, j.ExpireShiftAssignments)
	scheduler.AddJob("flag_missed_punches", j.schedule.MissedPunchInterval, j.FlagMissedPunches)
}

func (j *TimekeepingJobs) EscalateOverdueExceptions(ctx context.Context) error {
	ctx = jwt.WithActor(ctx, user.SystemActor)
	resp, err := j.exceptions.AutoEscalateOverdue(ctx, j.schedule.EscalationThresholdDays)
	if err != nil {
		return err
	}
	if resp.Escalated > 0 {
		logger.From(ctx).Info("Cron: overdue time exceptions escalated", "count", resp.Escalated)
	}
	return nil
}

func (j *TimekeepingJobs) EscalateOverdueCorrections(ctx context.Context) error {
	ctx = jwt.WithActor(ctx, user.SystemActor)
	resp, err := j.corrections.AutoEscalateOverdue(ctx, j.schedule.EscalationThresholdDays)
	if err != nil {
		return err
	}
	if resp.Escalated > 0 {
		logger.From(ctx).Info("Cron: overdue correction requests escalated", "count", resp.Escalated)
	}
	return nil
}

func (j *TimekeepingJobs) ExpireShiftAssignments(ctx context.Context) error {
	ctx = jwt.WithActor(ctx, user.SystemActor)
	n, err := j.shifts.ExpireEndedAssignments(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		logger.From(ctx).Info("Cron: shift assignments expired", "count", n)
	}
	return nil
}

func (j *TimekeepingJobs) FlagMissedPunches(ctx context.Context) error {
	ctx = jwt.WithActor(ctx, user.SystemActor)
	n, err := j.attendance.FlagMissedPunches(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		logger.From(ctx).Info("Cron: missed punches flagged", "count", n)
	}
	return nil
}
