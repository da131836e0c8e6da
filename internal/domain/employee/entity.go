package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusInactive Status = "INACTIVE"
)

type Employee struct {
	ID           string
	EmployeeCode string
	FullName     string
	Email        string
	Department   string
	ManagerID    *string
	Status       Status
	HourlyRate   decimal.Decimal
	CreatedBy    *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (e Employee) IsActive() bool {
	return e.Status == StatusActive
}
