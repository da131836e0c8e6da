package cron

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/domain/correction"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/domain/timeexception"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWorkflows struct {
	thresholds []int
	actors     []user.Actor
	failExpire bool
}

func (f *fakeWorkflows) record(ctx context.Context) {
	if actor, err := jwt.ActorFromContext(ctx); err == nil {
		f.actors = append(f.actors, actor)
	}
}

type fakeExceptions struct{ *fakeWorkflows }

func (f fakeExceptions) AutoEscalateOverdue(ctx context.Context, thresholdDays int) (timeexception.AutoEscalateResponse, error) {
	f.record(ctx)
	f.thresholds = append(f.thresholds, thresholdDays)
	return timeexception.AutoEscalateResponse{ThresholdDays: thresholdDays, Escalated: 2}, nil
}

type fakeCorrections struct{ *fakeWorkflows }

func (f fakeCorrections) AutoEscalateOverdue(ctx context.Context, thresholdDays int) (correction.AutoEscalateResponse, error) {
	f.record(ctx)
	f.thresholds = append(f.thresholds, thresholdDays)
	return correction.AutoEscalateResponse{ThresholdDays: thresholdDays}, nil
}

func (f *fakeWorkflows) ExpireEndedAssignments(ctx context.Context) (int64, error) {
	f.record(ctx)
	if f.failExpire {
		return 0, errors.New("database unavailable")
	}
	return 1, nil
}

func (f *fakeWorkflows) FlagMissedPunches(ctx context.Context) (int, error) {
	f.record(ctx)
	return 0, nil
}

func newTestJobs(f *fakeWorkflows) *TimekeepingJobs {
	return NewTimekeepingJobs(fakeExceptions{f}, fakeCorrections{f}, f, f, TimekeepingSchedule{
		EscalationThresholdDays: 5,
		EscalationInterval:      time.Hour,
		ShiftExpiryInterval:     time.Hour,
		MissedPunchInterval:     0,
	})
}

func TestTimekeepingJobs_RegisterJobs(t *testing.T) {
	s := NewScheduler(nil)
	newTestJobs(&fakeWorkflows{}).RegisterJobs(s)

	var names []string
	for _, job := range s.Jobs() {
		names = append(names, job.Name)
	}
	// zero interval disables the missed punch job
	assert.Equal(t, []string{
		"auto_escalate_overdue_exceptions",
		"auto_escalate_overdue_corrections",
		"expire_shift_assignments",
	}, names)
}

func TestTimekeepingJobs_RunAsSystemActor(t *testing.T) {
	f := &fakeWorkflows{}
	jobs := newTestJobs(f)
	ctx := context.Background()

	require.NoError(t, jobs.EscalateOverdueExceptions(ctx))
	require.NoError(t, jobs.EscalateOverdueCorrections(ctx))
	require.NoError(t, jobs.ExpireShiftAssignments(ctx))
	require.NoError(t, jobs.FlagMissedPunches(ctx))

	assert.Equal(t, []int{5, 5}, f.thresholds)
	require.Len(t, f.actors, 4)
	for _, actor := range f.actors {
		assert.True(t, actor.IsSystem())
	}
}

func TestTimekeepingJobs_PropagatesErrors(t *testing.T) {
	jobs := newTestJobs(&fakeWorkflows{failExpire: true})
	assert.Error(t, jobs.ExpireShiftAssignments(context.Background()))
}

func TestScheduler_RunOnceContinuesAfterFailure(t *testing.T) {
	s := NewScheduler(nil)
	var calls atomic.Int32
	s.AddJob("failing", time.Minute, func(ctx context.Context) error {
		calls.Add(1)
		return errors.New("boom")
	})
	s.AddJob("ok", time.Minute, func(ctx context.Context) error {
		calls.Add(1)
		return nil
	})

	s.RunOnce(context.Background())
	assert.Equal(t, int32(2), calls.Load())
}

func TestScheduler_StartRunsImmediatelyAndStops(t *testing.T) {
	s := NewScheduler(nil)
	ran := make(chan struct{}, 1)
	s.AddJob("tick", time.Hour, func(ctx context.Context) error {
		select {
		case ran <- struct{}{}:
		default:
		}
		return nil
	})

	s.Start()
	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("job did not run on start")
	}
	s.Stop()
}
