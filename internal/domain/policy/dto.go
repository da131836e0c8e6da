package policy

import (
	"time"

	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/pkg/pagination"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========== OVERTIME RULE DTOs ==========

type CreateOvertimeRuleRequest struct {
	Name             string          `json:"name"`
	Description      string          `json:"description"`
	DayType          string          `json:"dayType"`
	Multiplier       decimal.Decimal `json:"multiplier"`
	MinimumMinutes   int             `json:"minimumMinutes"`
	RoundingMinutes  int             `json:"roundingMinutes"`
	MaxMinutesPerDay int             `json:"maxMinutesPerDay"`
	RequiresApproval *bool           `json:"requiresApproval,omitempty"`
}

func (r *CreateOvertimeRuleRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs.Add("name", "name is required")
	}
	if !validator.IsInSlice(r.DayType, DayTypes) {
		errs.Add("dayType", "dayType must be WEEKDAY, WEEKEND or HOLIDAY")
	}
	if r.Multiplier.LessThan(decimal.NewFromInt(1)) {
		errs.Add("multiplier", "multiplier must be at least 1")
	}
	validateMinutes(&errs, "minimumMinutes", r.MinimumMinutes)
	validateMinutes(&errs, "roundingMinutes", r.RoundingMinutes)
	validateMinutes(&errs, "maxMinutesPerDay", r.MaxMinutesPerDay)

	return errs.Err()
}

type UpdateOvertimeRuleRequest struct {
	ID               string           `json:"-"`
	Name             *string          `json:"name,omitempty"`
	Description      *string          `json:"description,omitempty"`
	DayType          *string          `json:"dayType,omitempty"`
	Multiplier       *decimal.Decimal `json:"multiplier,omitempty"`
	MinimumMinutes   *int             `json:"minimumMinutes,omitempty"`
	RoundingMinutes  *int             `json:"roundingMinutes,omitempty"`
	MaxMinutesPerDay *int             `json:"maxMinutesPerDay,omitempty"`
	RequiresApproval *bool            `json:"requiresApproval,omitempty"`
	Active           *bool            `json:"active,omitempty"`
}

func (r *UpdateOvertimeRuleRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Name != nil && validator.IsEmpty(*r.Name) {
		errs.Add("name", "name must not be empty")
	}
	if r.DayType != nil && !validator.IsInSlice(*r.DayType, DayTypes) {
		errs.Add("dayType", "dayType must be WEEKDAY, WEEKEND or HOLIDAY")
	}
	if r.Multiplier != nil && r.Multiplier.LessThan(decimal.NewFromInt(1)) {
		errs.Add("multiplier", "multiplier must be at least 1")
	}
	if r.MinimumMinutes != nil {
		validateMinutes(&errs, "minimumMinutes", *r.MinimumMinutes)
	}
	if r.RoundingMinutes != nil {
		validateMinutes(&errs, "roundingMinutes", *r.RoundingMinutes)
	}
	if r.MaxMinutesPerDay != nil {
		validateMinutes(&errs, "maxMinutesPerDay", *r.MaxMinutesPerDay)
	}

	return errs.Err()
}

// Apply copies the set fields onto rule.
func (r UpdateOvertimeRuleRequest) Apply(rule *OvertimeRule) {
	if r.Name != nil {
		rule.Name = *r.Name
	}
	if r.Description != nil {
		rule.Description = *r.Description
	}
	if r.DayType != nil {
		rule.DayType = DayType(*r.DayType)
	}
	if r.Multiplier != nil {
		rule.Multiplier = *r.Multiplier
	}
	if r.MinimumMinutes != nil {
		rule.MinimumMinutes = *r.MinimumMinutes
	}
	if r.RoundingMinutes != nil {
		rule.RoundingMinutes = *r.RoundingMinutes
	}
	if r.MaxMinutesPerDay != nil {
		rule.MaxMinutesPerDay = *r.MaxMinutesPerDay
	}
	if r.RequiresApproval != nil {
		rule.RequiresApproval = *r.RequiresApproval
	}
	if r.Active != nil {
		rule.Active = *r.Active
	}
}

type OvertimeRuleFilter struct {
	DayType  *string
	Active   *bool
	Approved *bool
	pagination.Params
}

func (f *OvertimeRuleFilter) Validate() error {
	errs := f.Normalize()
	if f.DayType != nil && !validator.IsInSlice(*f.DayType, DayTypes) {
		errs.Add("dayType", "dayType must be WEEKDAY, WEEKEND or HOLIDAY")
	}
	return errs.Err()
}

type OvertimeRuleResponse struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	Description      string          `json:"description"`
	DayType          DayType         `json:"dayType"`
	Multiplier       decimal.Decimal `json:"multiplier"`
	MinimumMinutes   int             `json:"minimumMinutes"`
	RoundingMinutes  int             `json:"roundingMinutes"`
	MaxMinutesPerDay int             `json:"maxMinutesPerDay"`
	RequiresApproval bool            `json:"requiresApproval"`
	Active           bool            `json:"active"`
	Approved         bool            `json:"approved"`
	CreatedBy        *string         `json:"createdBy,omitempty"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

func ToOvertimeRuleResponse(r OvertimeRule) OvertimeRuleResponse {
	return OvertimeRuleResponse{
		ID:               r.ID,
		Name:             r.Name,
		Description:      r.Description,
		DayType:          r.DayType,
		Multiplier:       r.Multiplier,
		MinimumMinutes:   r.MinimumMinutes,
		RoundingMinutes:  r.RoundingMinutes,
		MaxMinutesPerDay: r.MaxMinutesPerDay,
		RequiresApproval: r.RequiresApproval,
		Active:           r.Active,
		Approved:         r.Approved,
		CreatedBy:        r.CreatedBy,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}

// ========== LATENESS RULE DTOs ==========

type CreateLatenessRuleRequest struct {
	Name                       string           `json:"name"`
	Description                string           `json:"description"`
	GracePeriodMinutes         int              `json:"gracePeriodMinutes"`
	DeductionPerMinute         decimal.Decimal  `json:"deductionPerMinute"`
	Multiplier                 *decimal.Decimal `json:"multiplier,omitempty"`
	RoundingMinutes            int              `json:"roundingMinutes"`
	EscalationThresholdMinutes int              `json:"escalationThresholdMinutes"`
}

func (r *CreateLatenessRuleRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs.Add("name", "name is required")
	}
	validateMinutes(&errs, "gracePeriodMinutes", r.GracePeriodMinutes)
	validateMinutes(&errs, "roundingMinutes", r.RoundingMinutes)
	validateMinutes(&errs, "escalationThresholdMinutes", r.EscalationThresholdMinutes)
	if r.DeductionPerMinute.IsNegative() {
		errs.Add("deductionPerMinute", "deductionPerMinute must be non-negative")
	}
	if r.Multiplier != nil && r.Multiplier.IsNegative() {
		errs.Add("multiplier", "multiplier must be non-negative")
	}

	return errs.Err()
}

// MultiplierOrDefault returns the requested multiplier, 1 when omitted.
func (r CreateLatenessRuleRequest) MultiplierOrDefault() decimal.Decimal {
	if r.Multiplier == nil {
		return decimal.NewFromInt(1)
	}
	return *r.Multiplier
}

type UpdateLatenessRuleRequest struct {
	ID                         string           `json:"-"`
	Name                       *string          `json:"name,omitempty"`
	Description                *string          `json:"description,omitempty"`
	GracePeriodMinutes         *int             `json:"gracePeriodMinutes,omitempty"`
	DeductionPerMinute         *decimal.Decimal `json:"deductionPerMinute,omitempty"`
	Multiplier                 *decimal.Decimal `json:"multiplier,omitempty"`
	RoundingMinutes            *int             `json:"roundingMinutes,omitempty"`
	EscalationThresholdMinutes *int             `json:"escalationThresholdMinutes,omitempty"`
	Active                     *bool            `json:"active,omitempty"`
}

func (r *UpdateLatenessRuleRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Name != nil && validator.IsEmpty(*r.Name) {
		errs.Add("name", "name must not be empty")
	}
	if r.GracePeriodMinutes != nil {
		validateMinutes(&errs, "gracePeriodMinutes", *r.GracePeriodMinutes)
	}
	if r.RoundingMinutes != nil {
		validateMinutes(&errs, "roundingMinutes", *r.RoundingMinutes)
	}
	if r.EscalationThresholdMinutes != nil {
		validateMinutes(&errs, "escalationThresholdMinutes", *r.EscalationThresholdMinutes)
	}
	if r.DeductionPerMinute != nil && r.DeductionPerMinute.IsNegative() {
		errs.Add("deductionPerMinute", "deductionPerMinute must be non-negative")
	}
	if r.Multiplier != nil && r.Multiplier.IsNegative() {
		errs.Add("multiplier", "multiplier must be non-negative")
	}

	return errs.Err()
}

func (r UpdateLatenessRuleRequest) Apply(rule *LatenessRule) {
	if r.Name != nil {
		rule.Name = *r.Name
	}
	if r.Description != nil {
		rule.Description = *r.Description
	}
	if r.GracePeriodMinutes != nil {
		rule.GracePeriodMinutes = *r.GracePeriodMinutes
	}
	if r.DeductionPerMinute != nil {
		rule.DeductionPerMinute = *r.DeductionPerMinute
	}
	if r.Multiplier != nil {
		rule.Multiplier = *r.Multiplier
	}
	if r.RoundingMinutes != nil {
		rule.RoundingMinutes = *r.RoundingMinutes
	}
	if r.EscalationThresholdMinutes != nil {
		rule.EscalationThresholdMinutes = *r.EscalationThresholdMinutes
	}
	if r.Active != nil {
		rule.Active = *r.Active
	}
}

type LatenessRuleFilter struct {
	Active *bool
	pagination.Params
}

func (f *LatenessRuleFilter) Validate() error {
	return f.Normalize().Err()
}

type LatenessRuleResponse struct {
	ID                         string          `json:"id"`
	Name                       string          `json:"name"`
	Description                string          `json:"description"`
	GracePeriodMinutes         int             `json:"gracePeriodMinutes"`
	DeductionPerMinute         decimal.Decimal `json:"deductionPerMinute"`
	Multiplier                 decimal.Decimal `json:"multiplier"`
	RoundingMinutes            int             `json:"roundingMinutes"`
	EscalationThresholdMinutes int             `json:"escalationThresholdMinutes"`
	Active                     bool            `json:"active"`
	CreatedBy                  *string         `json:"createdBy,omitempty"`
	CreatedAt                  time.Time       `json:"createdAt"`
	UpdatedAt                  time.Time       `json:"updatedAt"`
}

func ToLatenessRuleResponse(r LatenessRule) LatenessRuleResponse {
	return LatenessRuleResponse{
		ID:                         r.ID,
		Name:                       r.Name,
		Description:                r.Description,
		GracePeriodMinutes:         r.GracePeriodMinutes,
		DeductionPerMinute:         r.DeductionPerMinute,
		Multiplier:                 r.Multiplier,
		RoundingMinutes:            r.RoundingMinutes,
		EscalationThresholdMinutes: r.EscalationThresholdMinutes,
		Active:                     r.Active,
		CreatedBy:                  r.CreatedBy,
		CreatedAt:                  r.CreatedAt,
		UpdatedAt:                  r.UpdatedAt,
	}
}

// ========== CALCULATION DTOs ==========

type CalculateLatenessRequest struct {
	RuleID      *string `json:"ruleId,omitempty"`
	LateMinutes int     `json:"lateMinutes"`
}

func (r *CalculateLatenessRequest) Validate() error {
	var errs validator.ValidationErrors
	if r.RuleID != nil && !validator.IsValidUUID(*r.RuleID) {
		errs.Add("ruleId", "ruleId must be a valid UUID")
	}
	validateMinutes(&errs, "lateMinutes", r.LateMinutes)
	return errs.Err()
}

type LatenessCalculationResponse struct {
	RuleID             string          `json:"ruleId"`
	LateMinutes        int             `json:"lateMinutes"`
	ChargeableMinutes  int             `json:"chargeableMinutes"`
	Deduction          decimal.Decimal `json:"deduction"`
	RequiresEscalation bool            `json:"requiresEscalation"`
}

type CalculateOvertimeRequest struct {
	EmployeeID       *string          `json:"employeeId,omitempty"`
	Date             string           `json:"date"`
	WorkedMinutes    int              `json:"workedMinutes"`
	ScheduledMinutes int              `json:"scheduledMinutes"`
	HourlyRate       *decimal.Decimal `json:"hourlyRate,omitempty"`

	ParsedDate time.Time `json:"-"`
}

func (r *CalculateOvertimeRequest) Validate() error {
	var errs validator.ValidationErrors

	if date, ok := validator.IsValidDate(r.Date); !ok {
		errs.Add("date", "date must be in YYYY-MM-DD format")
	} else {
		r.ParsedDate = date
	}
	validateMinutes(&errs, "workedMinutes", r.WorkedMinutes)
	validateMinutes(&errs, "scheduledMinutes", r.ScheduledMinutes)
	if r.EmployeeID != nil && !validator.IsValidUUID(*r.EmployeeID) {
		errs.Add("employeeId", "employeeId must be a valid UUID")
	}
	if r.HourlyRate != nil && r.HourlyRate.IsNegative() {
		errs.Add("hourlyRate", "hourlyRate must be non-negative")
	}
	if r.HourlyRate == nil && r.EmployeeID == nil {
		errs.Add("hourlyRate", "hourlyRate or employeeId is required")
	}

	return errs.Err()
}

type OvertimeCalculationResponse struct {
	RuleID           string          `json:"ruleId"`
	Date             string          `json:"date"`
	DayType          DayType         `json:"dayType"`
	ExtraMinutes     int             `json:"extraMinutes"`
	PayableMinutes   int             `json:"payableMinutes"`
	Multiplier       decimal.Decimal `json:"multiplier"`
	HourlyRate       decimal.Decimal `json:"hourlyRate"`
	Pay              decimal.Decimal `json:"pay"`
	RequiresApproval bool            `json:"requiresApproval"`
}

func validateMinutes(errs *validator.ValidationErrors, field string, value int) {
	if value < 0 {
		errs.Add(field, field+" must be non-negative")
	}
}
