package correction

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/domain/correction"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/pkg/jwt"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ===== FAKES =====

// fakeTx runs fn directly and records whether it failed.
type fakeTx struct {
	calls    int
	rollback int
}

func (t *fakeTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	t.calls++
	if err := fn(ctx); err != nil {
		t.rollback++
		return err
	}
	return nil
}

type fakeCorrectionRepo struct {
	items map[string]correction.CorrectionRequest
	now   time.Time
}

func (r *fakeCorrectionRepo) Create(_ context.Context, c correction.CorrectionRequest) (correction.CorrectionRequest, error) {
	c.ID = uuid.Must(uuid.NewV7()).String()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = r.now
	}
	c.UpdatedAt = c.CreatedAt
	r.items[c.ID] = c
	return c, nil
}

func (r *fakeCorrectionRepo) GetByID(_ context.Context, id string) (correction.CorrectionRequest, error) {
	c, ok := r.items[id]
	if !ok {
		return correction.CorrectionRequest{}, correction.ErrCorrectionNotFound
	}
	return c, nil
}

func (r *fakeCorrectionRepo) List(_ context.Context, filter correction.CorrectionFilter) ([]correction.CorrectionRequest, int64, error) {
	var out []correction.CorrectionRequest
	for _, c := range r.items {
		if filter.EmployeeID != nil && c.EmployeeID != *filter.EmployeeID {
			continue
		}
		out = append(out, c)
	}
	return out, int64(len(out)), nil
}

func (r *fakeCorrectionRepo) Update(_ context.Context, c correction.CorrectionRequest) (correction.CorrectionRequest, error) {
	r.items[c.ID] = c
	return c, nil
}

func (r *fakeCorrectionRepo) HasActiveForRecord(_ context.Context, recordID string) (bool, error) {
	for _, c := range r.items {
		if c.AttendanceRecordID != recordID {
			continue
		}
		for _, s := range correction.ActiveStatuses {
			if c.Status == s {
				return true, nil
			}
		}
	}
	return false, nil
}

func (r *fakeCorrectionRepo) EscalateOverdue(_ context.Context, cutoff, now time.Time) ([]correction.CorrectionRequest, error) {
	var out []correction.CorrectionRequest
	for id, c := range r.items {
		if (c.Status == correction.StatusSubmitted || c.Status == correction.StatusInReview) && c.CreatedAt.Before(cutoff) {
			c.Status = correction.StatusEscalated
			c.EscalatedAt = &now
			r.items[id] = c
			out = append(out, c)
		}
	}
	return out, nil
}

type fakeAttendanceRepo struct {
	attendance.AttendanceRepository
	records map[string]attendance.AttendanceRecord
}

func (r *fakeAttendanceRepo) GetByID(_ context.Context, id string) (attendance.AttendanceRecord, error) {
	rec, ok := r.records[id]
	if !ok {
		return attendance.AttendanceRecord{}, attendance.ErrAttendanceNotFound
	}
	return rec, nil
}

type fakeEmployeeRepo struct {
	employee.EmployeeRepository
	employees map[string]employee.Employee
}

func (r *fakeEmployeeRepo) GetByID(_ context.Context, id string) (employee.Employee, error) {
	e, ok := r.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

type appliedCorrection struct {
	recordID string
	clockIn  *time.Time
	clockOut *time.Time
}

type fakeApplier struct {
	applied []appliedCorrection
	err     error
}

func (a *fakeApplier) ApplyCorrection(_ context.Context, recordID string, clockIn, clockOut *time.Time) (attendance.AttendanceRecord, error) {
	if a.err != nil {
		return attendance.AttendanceRecord{}, a.err
	}
	a.applied = append(a.applied, appliedCorrection{recordID: recordID, clockIn: clockIn, clockOut: clockOut})
	return attendance.AttendanceRecord{ID: recordID, ClockIn: clockIn, ClockOut: clockOut}, nil
}

type fakeNotifier struct {
	notification.Service
	sent []notification.CreateNotificationRequest
}

func (n *fakeNotifier) QueueBulkNotification(_ context.Context, reqs []notification.CreateNotificationRequest) error {
	n.sent = append(n.sent, reqs...)
	return nil
}

func (n *fakeNotifier) recipients(t notification.NotificationType) []string {
	var out []string
	for _, r := range n.sent {
		if r.Type == t {
			out = append(out, r.RecipientID)
		}
	}
	return out
}

// ===== HELPERS =====

type fixture struct {
	svc         *CorrectionServiceImpl
	tx          *fakeTx
	corrections *fakeCorrectionRepo
	applier     *fakeApplier
	notifier    *fakeNotifier
	now         time.Time

	employeeID string
	managerID  string
	recordID   string
	clockIn    time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	employeeID := uuid.Must(uuid.NewV7()).String()
	managerID := uuid.Must(uuid.NewV7()).String()
	recordID := uuid.Must(uuid.NewV7()).String()
	clockIn := time.Date(2026, 3, 9, 8, 5, 0, 0, time.UTC)

	f := &fixture{
		tx:          &fakeTx{},
		corrections: &fakeCorrectionRepo{items: map[string]correction.CorrectionRequest{}, now: now},
		applier:     &fakeApplier{},
		notifier:    &fakeNotifier{},
		now:         now,
		employeeID:  employeeID,
		managerID:   managerID,
		recordID:    recordID,
		clockIn:     clockIn,
	}
	records := &fakeAttendanceRepo{records: map[string]attendance.AttendanceRecord{
		recordID: {ID: recordID, EmployeeID: employeeID, Date: time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC), ClockIn: &clockIn},
	}}
	employees := &fakeEmployeeRepo{employees: map[string]employee.Employee{
		employeeID: {ID: employeeID, FullName: "Eko Employee", Status: employee.StatusActive, ManagerID: &managerID},
		managerID:  {ID: managerID, FullName: "Maya Manager", Status: employee.StatusActive},
	}}

	f.svc = NewCorrectionService(f.tx, f.corrections, records, employees, f.applier, f.notifier, 3).(*CorrectionServiceImpl)
	f.svc.now = func() time.Time { return f.now }
	return f
}

func (f *fixture) asEmployee() context.Context {
	id := f.employeeID
	return jwt.WithActor(context.Background(), user.Actor{UserID: "user-employee", EmployeeID: &id, Role: user.RoleEmployee})
}

func (f *fixture) asReviewer() context.Context {
	id := f.managerID
	return jwt.WithActor(context.Background(), user.Actor{UserID: "user-hr", EmployeeID: &id, Role: user.RoleHRManager})
}

func (f *fixture) submit(t *testing.T) correction.CorrectionResponse {
	t.Helper()
	out := "2026-03-09T17:30:00Z"
	created, err := f.svc.Submit(f.asEmployee(), correction.CreateCorrectionRequest{
		AttendanceRecordID: f.recordID,
		CorrectedClockOut:  &out,
		Reason:             "Forgot to clock out",
	})
	require.NoError(t, err)
	return created
}

// ===== CORRECTION SERVICE TESTS =====

func TestCorrectionService_Submit_Success(t *testing.T) {
	f := newFixture(t)

	created := f.submit(t)

	assert.Equal(t, correction.StatusSubmitted, created.Status)
	assert.Equal(t, f.employeeID, created.EmployeeID)
	require.NotNil(t, created.CorrectedClockOut)
	assert.Nil(t, created.CorrectedClockIn)
	assert.Equal(t, []string{f.managerID}, f.notifier.recipients(notification.TypeCorrectionSubmitted))
}

func TestCorrectionService_Submit_ActiveRequestExists(t *testing.T) {
	f := newFixture(t)
	f.submit(t)
	out := "2026-03-09T18:00:00Z"

	_, err := f.svc.Submit(f.asEmployee(), correction.CreateCorrectionRequest{
		AttendanceRecordID: f.recordID,
		CorrectedClockOut:  &out,
		Reason:             "Second try",
	})

	assert.ErrorIs(t, err, correction.ErrActiveRequestExists)
}

func TestCorrectionService_Submit_NotRecordOwner(t *testing.T) {
	f := newFixture(t)
	out := "2026-03-09T17:30:00Z"

	_, err := f.svc.Submit(f.asReviewer(), correction.CreateCorrectionRequest{
		AttendanceRecordID: f.recordID,
		CorrectedClockOut:  &out,
		Reason:             "On behalf",
	})

	assert.ErrorIs(t, err, correction.ErrNotRecordOwner)
}

func TestCorrectionService_Submit_OutBeforeExistingIn(t *testing.T) {
	f := newFixture(t)
	out := "2026-03-09T07:00:00Z"

	_, err := f.svc.Submit(f.asEmployee(), correction.CreateCorrectionRequest{
		AttendanceRecordID: f.recordID,
		CorrectedClockOut:  &out,
		Reason:             "Typo",
	})

	assert.ErrorIs(t, err, correction.ErrClockOutBeforeIn)
}

func TestCorrectionService_Submit_RequiresACorrectedTime(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Submit(f.asEmployee(), correction.CreateCorrectionRequest{
		AttendanceRecordID: f.recordID,
		Reason:             "Nothing to fix",
	})

	assert.ErrorContains(t, err, "at least one corrected time is required")
}

func TestCorrectionService_Approve_AppliesToRecord(t *testing.T) {
	f := newFixture(t)
	created := f.submit(t)
	_, err := f.svc.StartReview(f.asReviewer(), correction.ReviewRequest{ID: created.ID})
	require.NoError(t, err)

	approved, err := f.svc.Approve(f.asReviewer(), correction.ReviewRequest{ID: created.ID})

	require.NoError(t, err)
	assert.Equal(t, correction.StatusApproved, approved.Status)
	require.NotNil(t, approved.ReviewerID)
	assert.Equal(t, "user-hr", *approved.ReviewerID)
	require.Len(t, f.applier.applied, 1)
	assert.Equal(t, f.recordID, f.applier.applied[0].recordID)
	assert.Nil(t, f.applier.applied[0].clockIn)
	assert.Equal(t, time.Date(2026, 3, 9, 17, 30, 0, 0, time.UTC), f.applier.applied[0].clockOut.UTC())
	assert.Equal(t, []string{f.employeeID}, f.notifier.recipients(notification.TypeCorrectionApproved))
}

func TestCorrectionService_Approve_RollsBackWhenApplyFails(t *testing.T) {
	f := newFixture(t)
	created := f.submit(t)
	_, err := f.svc.StartReview(f.asReviewer(), correction.ReviewRequest{ID: created.ID})
	require.NoError(t, err)
	f.applier.err = errors.New("connection reset")

	_, err = f.svc.Approve(f.asReviewer(), correction.ReviewRequest{ID: created.ID})

	assert.ErrorContains(t, err, "failed to apply correction")
	assert.Equal(t, 1, f.tx.rollback)
	stored, err := f.corrections.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, correction.StatusInReview, stored.Status)
}

func TestCorrectionService_Approve_FromSubmitted(t *testing.T) {
	f := newFixture(t)
	created := f.submit(t)

	_, err := f.svc.Approve(f.asReviewer(), correction.ReviewRequest{ID: created.ID})

	assert.ErrorIs(t, err, correction.ErrInvalidStatusTransition)
	assert.Empty(t, f.applier.applied)
}

func TestCorrectionService_Review_OwnRequest(t *testing.T) {
	f := newFixture(t)
	created := f.submit(t)
	id := f.employeeID
	ctx := jwt.WithActor(context.Background(), user.Actor{UserID: "user-employee", EmployeeID: &id, Role: user.RoleHRAdmin})

	_, err := f.svc.StartReview(ctx, correction.ReviewRequest{ID: created.ID})

	assert.ErrorIs(t, err, correction.ErrSelfReview)
}

func TestCorrectionService_Reject_RequiresNote(t *testing.T) {
	f := newFixture(t)
	created := f.submit(t)
	_, err := f.svc.StartReview(f.asReviewer(), correction.ReviewRequest{ID: created.ID})
	require.NoError(t, err)

	_, err = f.svc.Reject(f.asReviewer(), correction.RejectRequest{ID: created.ID})
	assert.ErrorContains(t, err, "note is required")

	rejected, err := f.svc.Reject(f.asReviewer(), correction.RejectRequest{ID: created.ID, Note: "No evidence"})
	require.NoError(t, err)
	assert.Equal(t, correction.StatusRejected, rejected.Status)
	assert.Equal(t, []string{f.employeeID}, f.notifier.recipients(notification.TypeCorrectionRejected))
}

func TestCorrectionService_Cancel(t *testing.T) {
	f := newFixture(t)
	created := f.submit(t)

	_, err := f.svc.Cancel(f.asReviewer(), created.ID)
	assert.ErrorIs(t, err, correction.ErrNotSubmitter)

	cancelled, err := f.svc.Cancel(f.asEmployee(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, correction.StatusCancelled, cancelled.Status)

	// a cancelled request no longer blocks a new one
	f.submit(t)
}

func TestCorrectionService_Cancel_AfterReviewStarted(t *testing.T) {
	f := newFixture(t)
	created := f.submit(t)
	_, err := f.svc.StartReview(f.asReviewer(), correction.ReviewRequest{ID: created.ID})
	require.NoError(t, err)

	_, err = f.svc.Cancel(f.asEmployee(), created.ID)

	assert.ErrorIs(t, err, correction.ErrInvalidStatusTransition)
}

func TestCorrectionService_AutoEscalateOverdue(t *testing.T) {
	f := newFixture(t)
	created := f.submit(t)
	f.now = f.now.AddDate(0, 0, 5)

	resp, err := f.svc.AutoEscalateOverdue(jwt.WithActor(context.Background(), user.SystemActor), 0)

	require.NoError(t, err)
	assert.Equal(t, 3, resp.ThresholdDays)
	assert.Equal(t, []string{created.ID}, resp.IDs)
	stored, err := f.corrections.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, correction.StatusEscalated, stored.Status)
	assert.Equal(t, []string{f.employeeID}, f.notifier.recipients(notification.TypeCorrectionEscalated))

	approved, err := f.svc.Approve(f.asReviewer(), correction.ReviewRequest{ID: created.ID})
	require.NoError(t, err)
	assert.Equal(t, correction.StatusApproved, approved.Status)
}

func TestCorrectionService_Get_Visibility(t *testing.T) {
	f := newFixture(t)
	created := f.submit(t)
	otherID := uuid.Must(uuid.NewV7()).String()
	other := jwt.WithActor(context.Background(), user.Actor{UserID: "user-other", EmployeeID: &otherID, Role: user.RoleEmployee})

	_, err := f.svc.Get(other, created.ID)
	assert.ErrorIs(t, err, correction.ErrNotRecordOwner)

	got, err := f.svc.Get(f.asReviewer(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
}
