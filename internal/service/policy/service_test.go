package policy

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/domain/policy"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/pkg/validator"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ===== FAKES =====

type fakeOvertimeRepo struct {
	rules []policy.OvertimeRule
}

func (r *fakeOvertimeRepo) Create(_ context.Context, rule policy.OvertimeRule) (policy.OvertimeRule, error) {
	rule.ID = uuid.Must(uuid.NewV7()).String()
	r.rules = append(r.rules, rule)
	return rule, nil
}

func (r *fakeOvertimeRepo) GetByID(_ context.Context, id string) (policy.OvertimeRule, error) {
	for _, rule := range r.rules {
		if rule.ID == id {
			return rule, nil
		}
	}
	return policy.OvertimeRule{}, policy.ErrOvertimeRuleNotFound
}

func (r *fakeOvertimeRepo) List(_ context.Context, _ policy.OvertimeRuleFilter) ([]policy.OvertimeRule, int64, error) {
	return r.rules, int64(len(r.rules)), nil
}

func (r *fakeOvertimeRepo) Update(_ context.Context, rule policy.OvertimeRule) (policy.OvertimeRule, error) {
	for i := range r.rules {
		if r.rules[i].ID == rule.ID {
			r.rules[i] = rule
			return rule, nil
		}
	}
	return policy.OvertimeRule{}, policy.ErrOvertimeRuleNotFound
}

func (r *fakeOvertimeRepo) FindApplicable(_ context.Context, dayType policy.DayType) (policy.OvertimeRule, error) {
	for _, rule := range r.rules {
		if rule.DayType == dayType && rule.Applicable() {
			return rule, nil
		}
	}
	return policy.OvertimeRule{}, policy.ErrOvertimeRuleNotFound
}

type fakeLatenessRepo struct {
	rules []policy.LatenessRule
}

func (r *fakeLatenessRepo) Create(_ context.Context, rule policy.LatenessRule) (policy.LatenessRule, error) {
	rule.ID = uuid.Must(uuid.NewV7()).String()
	r.rules = append(r.rules, rule)
	return rule, nil
}

func (r *fakeLatenessRepo) GetByID(_ context.Context, id string) (policy.LatenessRule, error) {
	for _, rule := range r.rules {
		if rule.ID == id {
			return rule, nil
		}
	}
	return policy.LatenessRule{}, policy.ErrLatenessRuleNotFound
}

func (r *fakeLatenessRepo) List(_ context.Context, _ policy.LatenessRuleFilter) ([]policy.LatenessRule, int64, error) {
	return r.rules, int64(len(r.rules)), nil
}

func (r *fakeLatenessRepo) Update(_ context.Context, rule policy.LatenessRule) (policy.LatenessRule, error) {
	for i := range r.rules {
		if r.rules[i].ID == rule.ID {
			r.rules[i] = rule
			return rule, nil
		}
	}
	return policy.LatenessRule{}, policy.ErrLatenessRuleNotFound
}

func (r *fakeLatenessRepo) GetActive(_ context.Context) (policy.LatenessRule, error) {
	for i := len(r.rules) - 1; i >= 0; i-- {
		if r.rules[i].Active {
			return r.rules[i], nil
		}
	}
	return policy.LatenessRule{}, policy.ErrLatenessRuleNotFound
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

type fakeHolidays map[string]bool

func (h fakeHolidays) IsHoliday(_ context.Context, date time.Time) (bool, error) {
	return h[date.Format(validator.DateLayout)], nil
}

// ===== HELPERS =====

type fixture struct {
	svc       *PolicyServiceImpl
	overtime  *fakeOvertimeRepo
	lateness  *fakeLatenessRepo
	employees *fakeEmployeeRepo
	holidays  fakeHolidays
}

func newFixture() *fixture {
	f := &fixture{
		overtime:  &fakeOvertimeRepo{},
		lateness:  &fakeLatenessRepo{},
		employees: &fakeEmployeeRepo{employees: map[string]employee.Employee{}},
		holidays:  fakeHolidays{},
	}
	f.svc = NewPolicyService(f.overtime, f.lateness, f.employees, f.holidays).(*PolicyServiceImpl)
	return f
}

func adminContext() context.Context {
	return jwt.WithActor(context.Background(), user.Actor{UserID: "user-admin", Role: user.RoleHRAdmin})
}

func (f *fixture) approvedOvertimeRule(t *testing.T, dayType policy.DayType, multiplier string) policy.OvertimeRuleResponse {
	t.Helper()
	created, err := f.svc.CreateOvertimeRule(adminContext(), policy.CreateOvertimeRuleRequest{
		Name:            string(dayType) + " overtime",
		DayType:         string(dayType),
		Multiplier:      decimal.RequireFromString(multiplier),
		MinimumMinutes:  30,
		RoundingMinutes: 15,
	})
	require.NoError(t, err)
	approved, err := f.svc.ApproveOvertimeRule(adminContext(), created.ID)
	require.NoError(t, err)
	return approved
}

func intPtr(v int) *int { return &v }

// ===== OVERTIME RULES =====

func TestPolicyService_CreateOvertimeRule_Defaults(t *testing.T) {
	f := newFixture()

	resp, err := f.svc.CreateOvertimeRule(adminContext(), policy.CreateOvertimeRuleRequest{
		Name:       "Weekday",
		DayType:    "WEEKDAY",
		Multiplier: decimal.RequireFromString("1.5"),
	})

	require.NoError(t, err)
	assert.True(t, resp.RequiresApproval)
	assert.True(t, resp.Active)
	assert.False(t, resp.Approved)
	require.NotNil(t, resp.CreatedBy)
	assert.Equal(t, "user-admin", *resp.CreatedBy)
}

func TestPolicyService_CreateOvertimeRule_Invalid(t *testing.T) {
	f := newFixture()

	_, err := f.svc.CreateOvertimeRule(adminContext(), policy.CreateOvertimeRuleRequest{
		Name:       "",
		DayType:    "MONDAY",
		Multiplier: decimal.RequireFromString("0.5"),
	})

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Len(t, verrs, 3)
}

func TestPolicyService_ApproveOvertimeRule_Twice(t *testing.T) {
	f := newFixture()
	rule := f.approvedOvertimeRule(t, policy.DayTypeWeekday, "1.5")

	_, err := f.svc.ApproveOvertimeRule(adminContext(), rule.ID)

	assert.ErrorIs(t, err, policy.ErrOvertimeRuleApproved)
}

func TestPolicyService_UpdateOvertimeRule_PayChangeNeedsApproval(t *testing.T) {
	f := newFixture()
	rule := f.approvedOvertimeRule(t, policy.DayTypeWeekday, "1.5")

	renamed := "Weekday standard"
	resp, err := f.svc.UpdateOvertimeRule(adminContext(), policy.UpdateOvertimeRuleRequest{ID: rule.ID, Name: &renamed})
	require.NoError(t, err)
	assert.True(t, resp.Approved)

	resp, err = f.svc.UpdateOvertimeRule(adminContext(), policy.UpdateOvertimeRuleRequest{ID: rule.ID, RoundingMinutes: intPtr(30)})
	require.NoError(t, err)
	assert.False(t, resp.Approved)
}

func TestPolicyService_DeleteOvertimeRule_Deactivates(t *testing.T) {
	f := newFixture()
	rule := f.approvedOvertimeRule(t, policy.DayTypeWeekday, "1.5")

	require.NoError(t, f.svc.DeleteOvertimeRule(adminContext(), rule.ID))

	stored, err := f.overtime.GetByID(context.Background(), rule.ID)
	require.NoError(t, err)
	assert.False(t, stored.Active)

	_, err = f.svc.ApproveOvertimeRule(adminContext(), rule.ID)
	assert.ErrorIs(t, err, policy.ErrOvertimeRuleInactive)
}

// ===== CALCULATIONS =====

func TestPolicyService_CalculateOvertime_Weekday(t *testing.T) {
	f := newFixture()
	f.approvedOvertimeRule(t, policy.DayTypeWeekday, "1.5")
	rate := decimal.NewFromInt(40000)

	resp, err := f.svc.CalculateOvertime(context.Background(), policy.CalculateOvertimeRequest{
		Date:             "2026-03-04",
		WorkedMinutes:    560,
		ScheduledMinutes: 480,
		HourlyRate:       &rate,
	})

	require.NoError(t, err)
	assert.Equal(t, policy.DayTypeWeekday, resp.DayType)
	assert.Equal(t, 80, resp.ExtraMinutes)
	assert.Equal(t, 75, resp.PayableMinutes)
	assert.True(t, decimal.NewFromInt(75000).Equal(resp.Pay), resp.Pay.String())
	assert.True(t, resp.RequiresApproval)
}

func TestPolicyService_CalculateOvertime_HolidayUsesHolidayRule(t *testing.T) {
	f := newFixture()
	f.approvedOvertimeRule(t, policy.DayTypeWeekday, "1.5")
	f.holidays["2026-03-04"] = true
	rate := decimal.NewFromInt(60000)
	req := policy.CalculateOvertimeRequest{
		Date:             "2026-03-04",
		WorkedMinutes:    60,
		ScheduledMinutes: 0,
		HourlyRate:       &rate,
	}

	_, err := f.svc.CalculateOvertime(context.Background(), req)
	require.ErrorIs(t, err, policy.ErrNoApplicableOvertimeRule)

	f.approvedOvertimeRule(t, policy.DayTypeHoliday, "2")
	resp, err := f.svc.CalculateOvertime(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, policy.DayTypeHoliday, resp.DayType)
	assert.Equal(t, 60, resp.PayableMinutes)
	assert.True(t, decimal.NewFromInt(120000).Equal(resp.Pay), resp.Pay.String())
}

func TestPolicyService_CalculateOvertime_UnapprovedRuleIgnored(t *testing.T) {
	f := newFixture()
	_, err := f.svc.CreateOvertimeRule(adminContext(), policy.CreateOvertimeRuleRequest{
		Name: "Weekend", DayType: "WEEKEND", Multiplier: decimal.NewFromInt(2),
	})
	require.NoError(t, err)
	rate := decimal.NewFromInt(1000)

	_, err = f.svc.CalculateOvertime(context.Background(), policy.CalculateOvertimeRequest{
		Date: "2026-03-07", WorkedMinutes: 120, HourlyRate: &rate,
	})

	assert.ErrorIs(t, err, policy.ErrNoApplicableOvertimeRule)
}

func TestPolicyService_CalculateOvertime_EmployeeRate(t *testing.T) {
	f := newFixture()
	f.approvedOvertimeRule(t, policy.DayTypeWeekday, "1.5")
	withRate, withoutRate := uuid.Must(uuid.NewV7()).String(), uuid.Must(uuid.NewV7()).String()
	f.employees.employees[withRate] = employee.Employee{ID: withRate, HourlyRate: decimal.NewFromInt(20000)}
	f.employees.employees[withoutRate] = employee.Employee{ID: withoutRate}

	resp, err := f.svc.CalculateOvertime(context.Background(), policy.CalculateOvertimeRequest{
		EmployeeID: &withRate, Date: "2026-03-04", WorkedMinutes: 540, ScheduledMinutes: 480,
	})
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(20000).Equal(resp.HourlyRate))
	assert.True(t, decimal.NewFromInt(30000).Equal(resp.Pay), resp.Pay.String())

	_, err = f.svc.CalculateOvertime(context.Background(), policy.CalculateOvertimeRequest{
		EmployeeID: &withoutRate, Date: "2026-03-04", WorkedMinutes: 540, ScheduledMinutes: 480,
	})
	assert.ErrorIs(t, err, policy.ErrHourlyRateUnavailable)
}

func TestPolicyService_CalculateLateness(t *testing.T) {
	f := newFixture()

	_, err := f.svc.CalculateLateness(context.Background(), policy.CalculateLatenessRequest{LateMinutes: 10})
	require.ErrorIs(t, err, policy.ErrNoActiveLatenessRule)

	_, err = f.svc.CreateLatenessRule(adminContext(), policy.CreateLatenessRuleRequest{
		Name:                       "Standard",
		GracePeriodMinutes:         5,
		DeductionPerMinute:         decimal.NewFromInt(1000),
		RoundingMinutes:            5,
		EscalationThresholdMinutes: 30,
	})
	require.NoError(t, err)

	resp, err := f.svc.CalculateLateness(context.Background(), policy.CalculateLatenessRequest{LateMinutes: 12})
	require.NoError(t, err)
	assert.Equal(t, 10, resp.ChargeableMinutes)
	assert.True(t, decimal.NewFromInt(10000).Equal(resp.Deduction), resp.Deduction.String())
	assert.False(t, resp.RequiresEscalation)

	resp, err = f.svc.CalculateLateness(context.Background(), policy.CalculateLatenessRequest{LateMinutes: 31})
	require.NoError(t, err)
	assert.True(t, resp.RequiresEscalation)
}

func TestPolicyService_CalculateLateness_InactiveRule(t *testing.T) {
	f := newFixture()
	created, err := f.svc.CreateLatenessRule(adminContext(), policy.CreateLatenessRuleRequest{
		Name:               "Old",
		DeductionPerMinute: decimal.NewFromInt(500),
	})
	require.NoError(t, err)
	require.NoError(t, f.svc.DeleteLatenessRule(adminContext(), created.ID))

	_, err = f.svc.CalculateLateness(context.Background(), policy.CalculateLatenessRequest{RuleID: &created.ID, LateMinutes: 10})

	assert.ErrorIs(t, err, policy.ErrLatenessRuleInactive)
}
