package holiday

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/domain/holiday"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/pkg/jwt"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTx struct {
	calls int
}

func (t *fakeTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	t.calls++
	return fn(ctx)
}

type fakeHolidayRepo struct {
	items   map[string]holiday.Holiday
	failOn  string
	created int
}

func newFakeHolidayRepo() *fakeHolidayRepo {
	return &fakeHolidayRepo{items: map[string]holiday.Holiday{}}
}

func (r *fakeHolidayRepo) Create(_ context.Context, h holiday.Holiday) (holiday.Holiday, error) {
	if h.Name == r.failOn {
		return holiday.Holiday{}, errors.New("deadlock detected")
	}
	h.ID = uuid.Must(uuid.NewV7()).String()
	r.items[h.ID] = h
	r.created++
	return h, nil
}

func (r *fakeHolidayRepo) GetByID(_ context.Context, id string) (holiday.Holiday, error) {
	h, ok := r.items[id]
	if !ok {
		return holiday.Holiday{}, holiday.ErrHolidayNotFound
	}
	return h, nil
}

func (r *fakeHolidayRepo) List(_ context.Context, _ holiday.HolidayFilter) ([]holiday.Holiday, int64, error) {
	out := make([]holiday.Holiday, 0, len(r.items))
	for _, h := range r.items {
		out = append(out, h)
	}
	return out, int64(len(out)), nil
}

func (r *fakeHolidayRepo) Update(_ context.Context, h holiday.Holiday) (holiday.Holiday, error) {
	r.items[h.ID] = h
	return h, nil
}

func (r *fakeHolidayRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.items[id]; !ok {
		return holiday.ErrHolidayNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *fakeHolidayRepo) ExistsByNameAndStartDate(_ context.Context, name string, startDate time.Time) (bool, error) {
	for _, h := range r.items {
		if h.Name == name && h.StartDate.Equal(startDate) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeHolidayRepo) FindActiveOn(_ context.Context, date time.Time) ([]holiday.Holiday, error) {
	var out []holiday.Holiday
	for _, h := range r.items {
		if h.Active && h.Covers(date) {
			out = append(out, h)
		}
	}
	return out, nil
}

func hrContext() context.Context {
	return jwt.WithActor(context.Background(), user.Actor{UserID: "user-hr", Role: user.RoleHRAdmin})
}

func strPtr(s string) *string { return &s }

func TestHolidayService_Create_Duplicate(t *testing.T) {
	repo := newFakeHolidayRepo()
	svc := NewHolidayService(&fakeTx{}, repo)
	req := holiday.CreateHolidayRequest{Name: "Independence Day", Type: "NATIONAL", StartDate: "2026-08-17"}

	created, err := svc.Create(hrContext(), req)
	require.NoError(t, err)
	assert.Equal(t, "2026-08-17", created.EndDate)
	assert.True(t, created.Active)

	_, err = svc.Create(hrContext(), req)
	assert.ErrorIs(t, err, holiday.ErrHolidayExists)
}

func TestHolidayService_BulkCreate_PartialFailure(t *testing.T) {
	repo := newFakeHolidayRepo()
	repo.failOn = "Flaky Day"
	tx := &fakeTx{}
	svc := NewHolidayService(tx, repo)

	resp, err := svc.BulkCreate(hrContext(), holiday.BulkCreateHolidayRequest{Holidays: []holiday.CreateHolidayRequest{
		{Name: "New Year", Type: "NATIONAL", StartDate: "2026-01-01"},
		{Name: "New Year", Type: "NATIONAL", StartDate: "2026-01-01"},
		{Name: "Company Retreat", Type: "ORGANIZATIONAL", StartDate: "2026-06-10", EndDate: strPtr("2026-06-08")},
		{Name: "Flaky Day", Type: "NATIONAL", StartDate: "2026-02-02"},
		{Name: "Eid", Type: "NATIONAL", StartDate: "2026-03-20", EndDate: strPtr("2026-03-21")},
	}})

	require.NoError(t, err)
	require.Len(t, resp.CreatedHolidays, 2)
	assert.Equal(t, "New Year", resp.CreatedHolidays[0].Name)
	assert.Equal(t, "Eid", resp.CreatedHolidays[1].Name)

	require.Len(t, resp.FailedHolidays, 3)
	assert.Equal(t, holiday.FailedHoliday{Index: 1, Name: "New Year", Reason: holiday.ErrHolidayExists.Error()}, resp.FailedHolidays[0])
	assert.Equal(t, 2, resp.FailedHolidays[1].Index)
	assert.Contains(t, resp.FailedHolidays[1].Reason, "end date must not precede start date")
	assert.Equal(t, holiday.FailedHoliday{Index: 3, Name: "Flaky Day", Reason: "could not be saved"}, resp.FailedHolidays[2])

	// one outer transaction plus a savepoint per valid row
	assert.Equal(t, 5, tx.calls)
}

func TestHolidayService_BulkCreate_AllFailed(t *testing.T) {
	repo := newFakeHolidayRepo()
	svc := NewHolidayService(&fakeTx{}, repo)

	resp, err := svc.BulkCreate(hrContext(), holiday.BulkCreateHolidayRequest{Holidays: []holiday.CreateHolidayRequest{
		{Name: "", Type: "NATIONAL", StartDate: "2026-01-01"},
		{Name: "Bad", Type: "HOLIDAY", StartDate: "2026-01-01"},
	}})

	assert.ErrorIs(t, err, holiday.ErrAllHolidaysFailed)
	assert.Empty(t, resp.CreatedHolidays)
	assert.Len(t, resp.FailedHolidays, 2)
	assert.Zero(t, repo.created)
}

func TestHolidayService_BulkCreate_Empty(t *testing.T) {
	svc := NewHolidayService(&fakeTx{}, newFakeHolidayRepo())

	_, err := svc.BulkCreate(hrContext(), holiday.BulkCreateHolidayRequest{})

	assert.ErrorContains(t, err, "at least one holiday is required")
}

func TestHolidayService_CheckAndIsHoliday(t *testing.T) {
	repo := newFakeHolidayRepo()
	svc := NewHolidayService(&fakeTx{}, repo)
	_, err := svc.Create(hrContext(), holiday.CreateHolidayRequest{
		Name: "Eid", Type: "NATIONAL", StartDate: "2026-03-20", EndDate: strPtr("2026-03-21"),
	})
	require.NoError(t, err)

	check, err := svc.Check(hrContext(), time.Date(2026, 3, 21, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, check.IsHoliday)
	require.NotNil(t, check.Holiday)
	assert.Equal(t, "Eid", check.Holiday.Name)

	isHoliday, err := svc.IsHoliday(context.Background(), time.Date(2026, 3, 22, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.False(t, isHoliday)
}

func TestHolidayService_Update_DeactivatedIsNotAHoliday(t *testing.T) {
	repo := newFakeHolidayRepo()
	svc := NewHolidayService(&fakeTx{}, repo)
	created, err := svc.Create(hrContext(), holiday.CreateHolidayRequest{Name: "Retreat", Type: "ORGANIZATIONAL", StartDate: "2026-05-05"})
	require.NoError(t, err)

	inactive := false
	updated, err := svc.Update(hrContext(), holiday.UpdateHolidayRequest{ID: created.ID, Active: &inactive})
	require.NoError(t, err)
	assert.False(t, updated.Active)

	check, err := svc.Check(hrContext(), time.Date(2026, 5, 5, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.False(t, check.IsHoliday)
}
