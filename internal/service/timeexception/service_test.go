package timeexception

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/domain/timeexception"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/pkg/jwt"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ===== FAKES =====

type fakeExceptionRepo struct {
	mu    sync.Mutex
	items map[string]timeexception.TimeException
	now   time.Time
}

func newFakeExceptionRepo(now time.Time) *fakeExceptionRepo {
	return &fakeExceptionRepo{items: map[string]timeexception.TimeException{}, now: now}
}

func (r *fakeExceptionRepo) Create(_ context.Context, e timeexception.TimeException) (timeexception.TimeException, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e.ID = uuid.Must(uuid.NewV7()).String()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = r.now
	}
	e.UpdatedAt = e.CreatedAt
	r.items[e.ID] = e
	return e, nil
}

func (r *fakeExceptionRepo) GetByID(_ context.Context, id string) (timeexception.TimeException, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.items[id]
	if !ok {
		return timeexception.TimeException{}, timeexception.ErrTimeExceptionNotFound
	}
	return e, nil
}

func (r *fakeExceptionRepo) List(_ context.Context, filter timeexception.TimeExceptionFilter) ([]timeexception.TimeException, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []timeexception.TimeException
	for _, e := range r.items {
		if filter.EmployeeID != nil && e.EmployeeID != *filter.EmployeeID {
			continue
		}
		out = append(out, e)
	}
	return out, int64(len(out)), nil
}

func (r *fakeExceptionRepo) Update(_ context.Context, e timeexception.TimeException) (timeexception.TimeException, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[e.ID]; !ok {
		return timeexception.TimeException{}, timeexception.ErrTimeExceptionNotFound
	}
	r.items[e.ID] = e
	return e, nil
}

func (r *fakeExceptionRepo) ExistsForRecord(_ context.Context, recordID string, t timeexception.Type) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.items {
		if e.AttendanceRecordID != nil && *e.AttendanceRecordID == recordID && e.Type == t {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeExceptionRepo) CountByStatus(_ context.Context, employeeID *string) (map[timeexception.Status]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := map[timeexception.Status]int64{}
	for _, e := range r.items {
		if employeeID == nil || e.EmployeeID == *employeeID {
			out[e.Status]++
		}
	}
	return out, nil
}

func (r *fakeExceptionRepo) CountByType(_ context.Context, employeeID *string) (map[timeexception.Type]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := map[timeexception.Type]int64{}
	for _, e := range r.items {
		if employeeID == nil || e.EmployeeID == *employeeID {
			out[e.Type]++
		}
	}
	return out, nil
}

func (r *fakeExceptionRepo) CountOverdue(_ context.Context, employeeID *string, createdBefore time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, e := range r.items {
		if employeeID != nil && e.EmployeeID != *employeeID {
			continue
		}
		if (e.Status == timeexception.StatusOpen || e.Status == timeexception.StatusPending) && e.CreatedAt.Before(createdBefore) {
			n++
		}
	}
	return n, nil
}

func (r *fakeExceptionRepo) EscalateOverdue(_ context.Context, cutoff, now time.Time) ([]timeexception.TimeException, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []timeexception.TimeException
	for id, e := range r.items {
		if (e.Status == timeexception.StatusOpen || e.Status == timeexception.StatusPending) && e.CreatedAt.Before(cutoff) {
			e.Status = timeexception.StatusEscalated
			e.EscalatedAt = &now
			e.UpdatedAt = now
			r.items[id] = e
			out = append(out, e)
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

type fakeNotifier struct {
	notification.Service
	mu   sync.Mutex
	sent []notification.CreateNotificationRequest
}

func (n *fakeNotifier) QueueBulkNotification(_ context.Context, reqs []notification.CreateNotificationRequest) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, reqs...)
	return nil
}

func (n *fakeNotifier) recipients(t notification.NotificationType) []string {
	n.mu.Lock()
	defer n.mu.Unlock()
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
	svc        *TimeExceptionServiceImpl
	exceptions *fakeExceptionRepo
	records    *fakeAttendanceRepo
	employees  *fakeEmployeeRepo
	notifier   *fakeNotifier
	now        time.Time

	managerID  string
	employeeID string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	managerID := uuid.Must(uuid.NewV7()).String()
	employeeID := uuid.Must(uuid.NewV7()).String()

	f := &fixture{
		exceptions: newFakeExceptionRepo(now),
		records:    &fakeAttendanceRepo{records: map[string]attendance.AttendanceRecord{}},
		employees: &fakeEmployeeRepo{employees: map[string]employee.Employee{
			managerID:  {ID: managerID, FullName: "Maya Manager", Status: employee.StatusActive},
			employeeID: {ID: employeeID, FullName: "Eko Employee", Status: employee.StatusActive, ManagerID: &managerID},
		}},
		notifier:   &fakeNotifier{},
		now:        now,
		managerID:  managerID,
		employeeID: employeeID,
	}
	f.svc = NewTimeExceptionService(f.exceptions, f.records, f.employees, f.notifier, 3)
	f.svc.now = func() time.Time { return f.now }
	return f
}

func (f *fixture) asEmployee() context.Context {
	id := f.employeeID
	return jwt.WithActor(context.Background(), user.Actor{UserID: "user-employee", EmployeeID: &id, Role: user.RoleEmployee})
}

func (f *fixture) asManager() context.Context {
	id := f.managerID
	return jwt.WithActor(context.Background(), user.Actor{UserID: "user-manager", EmployeeID: &id, Role: user.RoleDepartmentHead})
}

func (f *fixture) addRecord(employeeID string) string {
	id := uuid.Must(uuid.NewV7()).String()
	f.records.records[id] = attendance.AttendanceRecord{ID: id, EmployeeID: employeeID, Date: f.now}
	return id
}

func (f *fixture) createOpen(t *testing.T) timeexception.TimeExceptionResponse {
	t.Helper()
	created, err := f.svc.Create(f.asEmployee(), timeexception.CreateTimeExceptionRequest{
		Type:   "late",
		Reason: "Train delayed",
	})
	require.NoError(t, err)
	return created
}

// ===== TIME EXCEPTION SERVICE TESTS =====

func TestTimeExceptionService_Create_DefaultsToOwnProfile(t *testing.T) {
	f := newFixture(t)

	created := f.createOpen(t)

	assert.Equal(t, f.employeeID, created.EmployeeID)
	assert.Equal(t, timeexception.TypeLate, created.Type)
	assert.Equal(t, timeexception.StatusOpen, created.Status)
	require.NotNil(t, created.CreatedBy)
	assert.Equal(t, "user-employee", *created.CreatedBy)
	assert.Equal(t, []string{f.employeeID}, f.notifier.recipients(notification.TypeTimeExceptionOpened))
}

func TestTimeExceptionService_Create_ForAnotherEmployee(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(f.asEmployee(), timeexception.CreateTimeExceptionRequest{
		EmployeeID: f.managerID,
		Type:       "LATE",
		Reason:     "Not mine",
	})

	assert.ErrorIs(t, err, timeexception.ErrNotOwner)
}

func TestTimeExceptionService_Create_RecordOfAnotherEmployee(t *testing.T) {
	f := newFixture(t)
	recordID := f.addRecord(f.managerID)

	_, err := f.svc.Create(f.asManager(), timeexception.CreateTimeExceptionRequest{
		EmployeeID:         f.employeeID,
		Type:               "MISSED_PUNCH",
		AttendanceRecordID: &recordID,
		Reason:             "Forgot to clock out",
	})

	assert.ErrorIs(t, err, timeexception.ErrRecordEmployeeMismatch)
}

func TestTimeExceptionService_Create_DuplicateForRecord(t *testing.T) {
	f := newFixture(t)
	recordID := f.addRecord(f.employeeID)
	req := timeexception.CreateTimeExceptionRequest{
		Type:               "MISSED_PUNCH",
		AttendanceRecordID: &recordID,
		Reason:             "Forgot to clock out",
	}

	_, err := f.svc.Create(f.asEmployee(), req)
	require.NoError(t, err)
	_, err = f.svc.Create(f.asEmployee(), req)

	assert.ErrorIs(t, err, timeexception.ErrDuplicateException)
}

func TestTimeExceptionService_Create_InvalidType(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(f.asEmployee(), timeexception.CreateTimeExceptionRequest{Type: "NAP", Reason: "tired"})

	assert.ErrorContains(t, err, "type must be one of")
}

func TestTimeExceptionService_OpenForRecord_OncePerType(t *testing.T) {
	f := newFixture(t)
	recordID := f.addRecord(f.employeeID)
	req := timeexception.OpenForRecordRequest{
		EmployeeID:         f.employeeID,
		AttendanceRecordID: recordID,
		Type:               timeexception.TypeMissedPunch,
		Reason:             "Missed punch",
	}
	ctx := jwt.WithActor(context.Background(), user.SystemActor)

	opened, err := f.svc.OpenForRecord(ctx, req)
	require.NoError(t, err)
	assert.True(t, opened)

	opened, err = f.svc.OpenForRecord(ctx, req)
	require.NoError(t, err)
	assert.False(t, opened)

	items, _, err := f.exceptions.List(ctx, timeexception.TimeExceptionFilter{})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Nil(t, items[0].CreatedBy)
}

func TestTimeExceptionService_OpenForRecord_NotifiesAfterCommit(t *testing.T) {
	f := newFixture(t)
	recordID := f.addRecord(f.employeeID)
	req := timeexception.OpenForRecordRequest{
		EmployeeID:         f.employeeID,
		AttendanceRecordID: recordID,
		Type:               timeexception.TypeLate,
		Reason:             "Late by 20 minutes",
	}

	committedCtx, committed := database.WithCommitHooks(jwt.WithActor(context.Background(), user.SystemActor))
	opened, err := f.svc.OpenForRecord(committedCtx, req)
	require.NoError(t, err)
	require.True(t, opened)
	assert.Empty(t, f.notifier.recipients(notification.TypeTimeExceptionOpened))

	committed.Release(context.Background())
	assert.Equal(t, []string{f.employeeID}, f.notifier.recipients(notification.TypeTimeExceptionOpened))

	req.Type = timeexception.TypeMissedPunch
	rolledBackCtx, _ := database.WithCommitHooks(jwt.WithActor(context.Background(), user.SystemActor))
	opened, err = f.svc.OpenForRecord(rolledBackCtx, req)
	require.NoError(t, err)
	require.True(t, opened)
	assert.Len(t, f.notifier.recipients(notification.TypeTimeExceptionOpened), 1)
}

func TestTimeExceptionService_Assign_DefaultsToManager(t *testing.T) {
	f := newFixture(t)
	created := f.createOpen(t)

	assigned, err := f.svc.Assign(f.asEmployee(), timeexception.AssignTimeExceptionRequest{ID: created.ID})

	require.NoError(t, err)
	assert.Equal(t, timeexception.StatusPending, assigned.Status)
	require.NotNil(t, assigned.AssignedTo)
	assert.Equal(t, f.managerID, *assigned.AssignedTo)
	assert.ElementsMatch(t, []string{f.employeeID, f.managerID}, f.notifier.recipients(notification.TypeTimeExceptionAssigned))
}

func TestTimeExceptionService_Assign_NoManager(t *testing.T) {
	f := newFixture(t)
	emp := f.employees.employees[f.employeeID]
	emp.ManagerID = nil
	f.employees.employees[f.employeeID] = emp
	created := f.createOpen(t)

	_, err := f.svc.Assign(f.asEmployee(), timeexception.AssignTimeExceptionRequest{ID: created.ID})

	assert.ErrorIs(t, err, timeexception.ErrNoReviewerAvailable)
}

func TestTimeExceptionService_ApproveThenResolve(t *testing.T) {
	f := newFixture(t)
	created := f.createOpen(t)
	_, err := f.svc.Assign(f.asEmployee(), timeexception.AssignTimeExceptionRequest{ID: created.ID})
	require.NoError(t, err)

	note := "Accepted"
	approved, err := f.svc.Approve(f.asManager(), timeexception.TransitionRequest{ID: created.ID, Note: &note})
	require.NoError(t, err)
	assert.Equal(t, timeexception.StatusApproved, approved.Status)
	require.NotNil(t, approved.ResolutionNote)
	assert.Equal(t, "Accepted", *approved.ResolutionNote)
	assert.Equal(t, []string{f.employeeID}, f.notifier.recipients(notification.TypeTimeExceptionApproved))

	resolved, err := f.svc.Resolve(f.asManager(), timeexception.TransitionRequest{ID: created.ID})
	require.NoError(t, err)
	assert.Equal(t, timeexception.StatusResolved, resolved.Status)
	assert.NotNil(t, resolved.ResolvedAt)
	assert.Equal(t, []string{f.employeeID}, f.notifier.recipients(notification.TypeTimeExceptionResolved))
}

func TestTimeExceptionService_Approve_FromOpen(t *testing.T) {
	f := newFixture(t)
	created := f.createOpen(t)

	_, err := f.svc.Approve(f.asManager(), timeexception.TransitionRequest{ID: created.ID})

	assert.ErrorIs(t, err, timeexception.ErrInvalidStatusTransition)
}

func TestTimeExceptionService_Approve_OwnException(t *testing.T) {
	f := newFixture(t)
	ownID := f.managerID
	ctx := f.asManager()
	created, err := f.svc.Create(ctx, timeexception.CreateTimeExceptionRequest{Type: "LATE", Reason: "Dentist"})
	require.NoError(t, err)
	require.Equal(t, ownID, created.EmployeeID)
	_, err = f.svc.Escalate(ctx, timeexception.TransitionRequest{ID: created.ID})
	require.NoError(t, err)

	_, err = f.svc.Approve(ctx, timeexception.TransitionRequest{ID: created.ID})

	assert.ErrorIs(t, err, timeexception.ErrSelfReview)
}

func TestTimeExceptionService_Reject_RequiresReason(t *testing.T) {
	f := newFixture(t)
	created := f.createOpen(t)

	_, err := f.svc.Reject(f.asManager(), timeexception.RejectTimeExceptionRequest{ID: created.ID})

	assert.ErrorContains(t, err, "reason is required")
}

func TestTimeExceptionService_Escalated_CannotResolveDirectly(t *testing.T) {
	f := newFixture(t)
	created := f.createOpen(t)
	escalated, err := f.svc.Escalate(f.asManager(), timeexception.TransitionRequest{ID: created.ID})
	require.NoError(t, err)
	assert.Equal(t, timeexception.StatusEscalated, escalated.Status)

	_, err = f.svc.Resolve(f.asManager(), timeexception.TransitionRequest{ID: created.ID})

	assert.ErrorIs(t, err, timeexception.ErrInvalidStatusTransition)
}

func TestTimeExceptionService_Get_OtherEmployeesException(t *testing.T) {
	f := newFixture(t)
	created, err := f.svc.Create(f.asManager(), timeexception.CreateTimeExceptionRequest{Type: "LATE", Reason: "Dentist"})
	require.NoError(t, err)

	_, err = f.svc.Get(f.asEmployee(), created.ID)

	assert.ErrorIs(t, err, timeexception.ErrNotOwner)
}

func TestTimeExceptionService_Update_OnlyWhileOpen(t *testing.T) {
	f := newFixture(t)
	created := f.createOpen(t)
	reason := "Train delayed by 40 minutes"

	updated, err := f.svc.Update(f.asEmployee(), timeexception.UpdateTimeExceptionRequest{ID: created.ID, Reason: &reason})
	require.NoError(t, err)
	assert.Equal(t, reason, updated.Reason)

	_, err = f.svc.Assign(f.asEmployee(), timeexception.AssignTimeExceptionRequest{ID: created.ID})
	require.NoError(t, err)
	_, err = f.svc.Update(f.asEmployee(), timeexception.UpdateTimeExceptionRequest{ID: created.ID, Reason: &reason})

	assert.ErrorIs(t, err, timeexception.ErrInvalidStatusTransition)
}

func TestTimeExceptionService_AutoEscalateOverdue(t *testing.T) {
	f := newFixture(t)
	old, err := f.exceptions.Create(context.Background(), timeexception.TimeException{
		EmployeeID: f.employeeID,
		Type:       timeexception.TypeLate,
		Status:     timeexception.StatusPending,
		CreatedAt:  f.now.Add(-4 * day),
	})
	require.NoError(t, err)
	_, err = f.exceptions.Create(context.Background(), timeexception.TimeException{
		EmployeeID: f.employeeID,
		Type:       timeexception.TypeMissedPunch,
		Status:     timeexception.StatusOpen,
		CreatedAt:  f.now.Add(-2 * day),
	})
	require.NoError(t, err)
	_, err = f.exceptions.Create(context.Background(), timeexception.TimeException{
		EmployeeID: f.employeeID,
		Type:       timeexception.TypeShortTime,
		Status:     timeexception.StatusApproved,
		CreatedAt:  f.now.Add(-10 * day),
	})
	require.NoError(t, err)

	resp, err := f.svc.AutoEscalateOverdue(jwt.WithActor(context.Background(), user.SystemActor), 0)

	require.NoError(t, err)
	assert.Equal(t, 3, resp.ThresholdDays)
	assert.Equal(t, 1, resp.Escalated)
	assert.Equal(t, []string{old.ID}, resp.IDs)

	stored, err := f.exceptions.GetByID(context.Background(), old.ID)
	require.NoError(t, err)
	assert.Equal(t, timeexception.StatusEscalated, stored.Status)
	assert.Equal(t, []string{f.employeeID}, f.notifier.recipients(notification.TypeTimeExceptionEscalated))
}

func TestTimeExceptionService_Summary(t *testing.T) {
	f := newFixture(t)
	f.createOpen(t)
	_, err := f.exceptions.Create(context.Background(), timeexception.TimeException{
		EmployeeID: f.managerID,
		Type:       timeexception.TypeOvertimeRequest,
		Status:     timeexception.StatusOpen,
		CreatedAt:  f.now.Add(-5 * day),
	})
	require.NoError(t, err)

	global, err := f.svc.Summary(f.asManager())
	require.NoError(t, err)
	assert.Equal(t, int64(2), global.Total)
	assert.Equal(t, int64(2), global.ByStatus[timeexception.StatusOpen])
	assert.Len(t, global.ByStatus, len(timeexception.Statuses))
	assert.Len(t, global.ByType, len(timeexception.Types))
	assert.Equal(t, int64(1), global.Overdue)

	own, err := f.svc.Summary(f.asEmployee())
	require.NoError(t, err)
	assert.Equal(t, int64(1), own.Total)
	assert.Equal(t, int64(0), own.Overdue)
}
