package payrollconfig

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/domain/payrollconfig"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/pkg/validator"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memRepo serves all three configuration repositories.
type memRepo[T any] struct {
	items   map[string]T
	idOf    func(*T) *string
	deleted []string
}

func newMemRepo[T any](idOf func(*T) *string) *memRepo[T] {
	return &memRepo[T]{items: map[string]T{}, idOf: idOf}
}

func (r *memRepo[T]) Create(_ context.Context, item T) (T, error) {
	*r.idOf(&item) = uuid.Must(uuid.NewV7()).String()
	r.items[*r.idOf(&item)] = item
	return item, nil
}

func (r *memRepo[T]) GetByID(_ context.Context, id string) (T, error) {
	item, ok := r.items[id]
	if !ok {
		var zero T
		return zero, payrollconfig.ErrPayGradeNotFound
	}
	return item, nil
}

func (r *memRepo[T]) List(_ context.Context, _ payrollconfig.ConfigFilter) ([]T, int64, error) {
	out := make([]T, 0, len(r.items))
	for _, item := range r.items {
		out = append(out, item)
	}
	return out, int64(len(out)), nil
}

func (r *memRepo[T]) Update(_ context.Context, item T) (T, error) {
	r.items[*r.idOf(&item)] = item
	return item, nil
}

func (r *memRepo[T]) Delete(_ context.Context, id string) error {
	delete(r.items, id)
	r.deleted = append(r.deleted, id)
	return nil
}

type fixture struct {
	svc        *PayrollConfigServiceImpl
	payGrades  *memRepo[payrollconfig.PayGrade]
	allowances *memRepo[payrollconfig.Allowance]
	taxRules   *memRepo[payrollconfig.TaxRule]
	now        time.Time
}

func newFixture() *fixture {
	f := &fixture{
		payGrades:  newMemRepo(func(g *payrollconfig.PayGrade) *string { return &g.ID }),
		allowances: newMemRepo(func(a *payrollconfig.Allowance) *string { return &a.ID }),
		taxRules:   newMemRepo(func(t *payrollconfig.TaxRule) *string { return &t.ID }),
		now:        time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
	}
	f.svc = NewPayrollConfigService(f.payGrades, f.allowances, f.taxRules).(*PayrollConfigServiceImpl)
	f.svc.now = func() time.Time { return f.now }
	return f
}

func specialistContext() context.Context {
	return jwt.WithActor(context.Background(), user.Actor{UserID: "user-specialist", Role: user.RolePayrollSpecialist})
}

func managerContext() context.Context {
	return jwt.WithActor(context.Background(), user.Actor{UserID: "user-manager", Role: user.RolePayrollManager})
}

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func TestPayrollConfigService_CreatePayGrade_Draft(t *testing.T) {
	f := newFixture()

	resp, err := f.svc.CreatePayGrade(specialistContext(), payrollconfig.CreatePayGradeRequest{
		Grade: " G1 ", BaseSalary: dec(8000), GrossSalary: dec(9500),
	})

	require.NoError(t, err)
	assert.Equal(t, "G1", resp.Grade)
	assert.Equal(t, payrollconfig.StatusDraft, resp.Status)
	require.NotNil(t, resp.CreatedBy)
	assert.Equal(t, "user-specialist", *resp.CreatedBy)
	assert.Nil(t, resp.ApprovedBy)
}

func TestPayrollConfigService_CreatePayGrade_BelowMinimum(t *testing.T) {
	f := newFixture()

	_, err := f.svc.CreatePayGrade(specialistContext(), payrollconfig.CreatePayGradeRequest{
		Grade: "G0", BaseSalary: dec(5999), GrossSalary: dec(4000),
	})

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Len(t, verrs, 2)
	assert.Empty(t, f.payGrades.items)
}

func TestPayrollConfigService_ApprovePayGrade_ThenLocked(t *testing.T) {
	f := newFixture()
	created, err := f.svc.CreatePayGrade(specialistContext(), payrollconfig.CreatePayGradeRequest{
		Grade: "G2", BaseSalary: dec(7000), GrossSalary: dec(7000),
	})
	require.NoError(t, err)

	approved, err := f.svc.ApprovePayGrade(managerContext(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, payrollconfig.StatusApproved, approved.Status)
	require.NotNil(t, approved.ApprovedBy)
	assert.Equal(t, "user-manager", *approved.ApprovedBy)
	require.NotNil(t, approved.ApprovedAt)
	assert.True(t, f.now.Equal(*approved.ApprovedAt))

	_, err = f.svc.RejectPayGrade(managerContext(), created.ID)
	assert.ErrorIs(t, err, payrollconfig.ErrInvalidStatusTransition)

	grade := "G3"
	_, err = f.svc.UpdatePayGrade(specialistContext(), payrollconfig.UpdatePayGradeRequest{ID: created.ID, Grade: &grade})
	assert.ErrorIs(t, err, payrollconfig.ErrNotDraft)

	err = f.svc.DeletePayGrade(specialistContext(), created.ID)
	assert.ErrorIs(t, err, payrollconfig.ErrNotDraft)
	assert.Empty(t, f.payGrades.deleted)
}

func TestPayrollConfigService_UpdatePayGrade_RevalidatesMerged(t *testing.T) {
	f := newFixture()
	created, err := f.svc.CreatePayGrade(specialistContext(), payrollconfig.CreatePayGradeRequest{
		Grade: "G4", BaseSalary: dec(7000), GrossSalary: dec(8000),
	})
	require.NoError(t, err)

	base := dec(9000)
	_, err = f.svc.UpdatePayGrade(specialistContext(), payrollconfig.UpdatePayGradeRequest{ID: created.ID, BaseSalary: &base})

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.True(t, f.payGrades.items[created.ID].BaseSalary.Equal(dec(7000)))
}

func TestPayrollConfigService_Allowance_RejectThenDeleteBlocked(t *testing.T) {
	f := newFixture()
	created, err := f.svc.CreateAllowance(specialistContext(), payrollconfig.CreateAllowanceRequest{Name: "Transport", Amount: dec(500)})
	require.NoError(t, err)

	rejected, err := f.svc.RejectAllowance(managerContext(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, payrollconfig.StatusRejected, rejected.Status)

	err = f.svc.DeleteAllowance(specialistContext(), created.ID)
	assert.ErrorIs(t, err, payrollconfig.ErrNotDraft)
}

func TestPayrollConfigService_Allowance_DeleteDraft(t *testing.T) {
	f := newFixture()
	created, err := f.svc.CreateAllowance(specialistContext(), payrollconfig.CreateAllowanceRequest{Name: "Meal", Amount: dec(0)})
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteAllowance(specialistContext(), created.ID))
	assert.Equal(t, []string{created.ID}, f.allowances.deleted)
}

func TestPayrollConfigService_TaxRule_RateBounds(t *testing.T) {
	f := newFixture()

	_, err := f.svc.CreateTaxRule(specialistContext(), payrollconfig.CreateTaxRuleRequest{Name: "PPh21", Rate: dec(101)})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)

	created, err := f.svc.CreateTaxRule(specialistContext(), payrollconfig.CreateTaxRuleRequest{
		Name: "PPh21", Rate: decimal.RequireFromString("5.5"), ExemptionAmount: dec(4500),
	})
	require.NoError(t, err)

	approved, err := f.svc.ApproveTaxRule(managerContext(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, payrollconfig.StatusApproved, approved.Status)
}

func TestPayrollConfigService_ListPayGrades(t *testing.T) {
	f := newFixture()
	for _, g := range []string{"A", "B"} {
		_, err := f.svc.CreatePayGrade(specialistContext(), payrollconfig.CreatePayGradeRequest{
			Grade: g, BaseSalary: dec(6000), GrossSalary: dec(6000),
		})
		require.NoError(t, err)
	}

	page, err := f.svc.ListPayGrades(context.Background(), payrollconfig.ConfigFilter{})

	require.NoError(t, err)
	assert.Len(t, page.Data, 2)
	assert.Equal(t, int64(2), page.Pagination.Total)
}

func TestPayrollConfigService_RequiresActor(t *testing.T) {
	f := newFixture()

	_, err := f.svc.CreateAllowance(context.Background(), payrollconfig.CreateAllowanceRequest{Name: "Meal", Amount: dec(1)})

	assert.Error(t, err)
	assert.Empty(t, f.allowances.items)
}
