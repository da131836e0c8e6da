package policy

import (
	"time"

	"github.com/shopspring/decimal"
)

type DayType string

const (
	DayTypeWeekday DayType = "WEEKDAY"
	DayTypeWeekend DayType = "WEEKEND"
	DayTypeHoliday DayType = "HOLIDAY"
)

var DayTypes = []string{string(DayTypeWeekday), string(DayTypeWeekend), string(DayTypeHoliday)}

// DayTypeFor classifies a calendar date. Holidays win over weekends.
func DayTypeFor(date time.Time, isHoliday bool) DayType {
	if isHoliday {
		return DayTypeHoliday
	}
	switch date.Weekday() {
	case time.Saturday, time.Sunday:
		return DayTypeWeekend
	}
	return DayTypeWeekday
}

type OvertimeRule struct {
	ID               string
	Name             string
	Description      string
	DayType          DayType
	Multiplier       decimal.Decimal
	MinimumMinutes   int
	RoundingMinutes  int
	MaxMinutesPerDay int // 0 means no cap
	RequiresApproval bool
	Active           bool
	Approved         bool
	CreatedBy        *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Applicable reports whether the rule can be used for pay calculation.
func (r OvertimeRule) Applicable() bool {
	return r.Active && r.Approved
}

type LatenessRule struct {
	ID                         string
	Name                       string
	Description                string
	GracePeriodMinutes         int
	DeductionPerMinute         decimal.Decimal
	Multiplier                 decimal.Decimal
	RoundingMinutes            int
	EscalationThresholdMinutes int // 0 means never escalate
	Active                     bool
	CreatedBy                  *string
	CreatedAt                  time.Time
	UpdatedAt                  time.Time
}
