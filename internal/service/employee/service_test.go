package employee

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/pkg/validator"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEmployeeRepo struct {
	employees map[string]employee.Employee
}

func (r *fakeEmployeeRepo) Create(_ context.Context, e employee.Employee) (employee.Employee, error) {
	for _, existing := range r.employees {
		if existing.EmployeeCode == e.EmployeeCode {
			return employee.Employee{}, employee.ErrEmployeeCodeExists
		}
	}
	e.ID = uuid.Must(uuid.NewV7()).String()
	r.employees[e.ID] = e
	return e, nil
}

func (r *fakeEmployeeRepo) GetByID(_ context.Context, id string) (employee.Employee, error) {
	e, ok := r.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (r *fakeEmployeeRepo) GetByEmployeeCode(_ context.Context, code string) (employee.Employee, error) {
	for _, e := range r.employees {
		if e.EmployeeCode == code {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (r *fakeEmployeeRepo) List(_ context.Context, _ employee.EmployeeFilter) ([]employee.Employee, int64, error) {
	out := make([]employee.Employee, 0, len(r.employees))
	for _, e := range r.employees {
		out = append(out, e)
	}
	return out, int64(len(out)), nil
}

func (r *fakeEmployeeRepo) Update(_ context.Context, e employee.Employee) (employee.Employee, error) {
	r.employees[e.ID] = e
	return e, nil
}

func newService() (*EmployeeServiceImpl, *fakeEmployeeRepo) {
	repo := &fakeEmployeeRepo{employees: map[string]employee.Employee{}}
	return NewEmployeeService(repo).(*EmployeeServiceImpl), repo
}

func hrContext() context.Context {
	return jwt.WithActor(context.Background(), user.Actor{UserID: "user-hr", Role: user.RoleHRAdmin})
}

func createEmployee(t *testing.T, svc *EmployeeServiceImpl, code string, managerID *string) employee.EmployeeResponse {
	t.Helper()
	resp, err := svc.Create(hrContext(), employee.CreateEmployeeRequest{
		EmployeeCode: code,
		FullName:     "Employee " + code,
		Email:        code + "@example.com",
		Department:   "Operations",
		ManagerID:    managerID,
		HourlyRate:   decimal.NewFromInt(25000),
	})
	require.NoError(t, err)
	return resp
}

func TestEmployeeService_Create(t *testing.T) {
	svc, _ := newService()

	resp, err := svc.Create(hrContext(), employee.CreateEmployeeRequest{
		EmployeeCode: " EMP-001 ",
		FullName:     "Rina Putri",
		Email:        "Rina@Example.com",
	})

	require.NoError(t, err)
	assert.Equal(t, "EMP-001", resp.EmployeeCode)
	assert.Equal(t, "rina@example.com", resp.Email)
	assert.Equal(t, employee.StatusActive, resp.Status)
	require.NotNil(t, resp.CreatedBy)
	assert.Equal(t, "user-hr", *resp.CreatedBy)
}

func TestEmployeeService_Create_Invalid(t *testing.T) {
	svc, repo := newService()

	_, err := svc.Create(hrContext(), employee.CreateEmployeeRequest{EmployeeCode: "EMP 1", Email: "not-an-email"})

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Len(t, verrs, 3)
	assert.Empty(t, repo.employees)
}

func TestEmployeeService_Create_UnknownManager(t *testing.T) {
	svc, _ := newService()
	missing := uuid.Must(uuid.NewV7()).String()

	_, err := svc.Create(hrContext(), employee.CreateEmployeeRequest{
		EmployeeCode: "EMP-002", FullName: "A", Email: "a@example.com", ManagerID: &missing,
	})

	assert.ErrorIs(t, err, employee.ErrManagerNotFound)
}

func TestEmployeeService_Create_DuplicateCode(t *testing.T) {
	svc, _ := newService()
	createEmployee(t, svc, "EMP-003", nil)

	_, err := svc.Create(hrContext(), employee.CreateEmployeeRequest{EmployeeCode: "EMP-003", FullName: "B", Email: "b@example.com"})

	assert.ErrorIs(t, err, employee.ErrEmployeeCodeExists)
}

func TestEmployeeService_Update_Manager(t *testing.T) {
	svc, _ := newService()
	manager := createEmployee(t, svc, "MGR-1", nil)
	emp := createEmployee(t, svc, "EMP-4", nil)

	resp, err := svc.Update(hrContext(), employee.UpdateEmployeeRequest{ID: emp.ID, ManagerID: &manager.ID})
	require.NoError(t, err)
	require.NotNil(t, resp.ManagerID)
	assert.Equal(t, manager.ID, *resp.ManagerID)

	_, err = svc.Update(hrContext(), employee.UpdateEmployeeRequest{ID: emp.ID, ManagerID: &emp.ID})
	assert.ErrorIs(t, err, employee.ErrSelfManager)

	clear := ""
	resp, err = svc.Update(hrContext(), employee.UpdateEmployeeRequest{ID: emp.ID, ManagerID: &clear})
	require.NoError(t, err)
	assert.Nil(t, resp.ManagerID)
}

func TestEmployeeService_Update_Deactivate(t *testing.T) {
	svc, repo := newService()
	emp := createEmployee(t, svc, "EMP-5", nil)
	inactive := string(employee.StatusInactive)

	_, err := svc.Update(hrContext(), employee.UpdateEmployeeRequest{ID: emp.ID, Status: &inactive})

	require.NoError(t, err)
	assert.False(t, repo.employees[emp.ID].IsActive())
}

func TestEmployeeService_Get_NotFound(t *testing.T) {
	svc, _ := newService()

	_, err := svc.Get(context.Background(), uuid.Must(uuid.NewV7()).String())

	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}
