package employee

import (
	"context"

	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/pkg/pagination"
)

type EmployeeService interface {
	Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)
	Get(ctx context.Context, id string) (EmployeeResponse, error)
	List(ctx context.Context, filter EmployeeFilter) (pagination.Page[EmployeeResponse], error)
	Update(ctx context.Context, req UpdateEmployeeRequest) (EmployeeResponse, error)
}
