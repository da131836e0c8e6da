package payrollconfig

import "errors"

var (
	ErrPayGradeNotFound        = errors.New("pay grade not found")
	ErrAllowanceNotFound       = errors.New("allowance not found")
	ErrTaxRuleNotFound         = errors.New("tax rule not found")
	ErrPayGradeExists          = errors.New("pay grade already exists")
	ErrAllowanceExists         = errors.New("allowance with this name already exists")
	ErrTaxRuleExists           = errors.New("tax rule with this name already exists")
	ErrNotDraft                = errors.New("only draft configuration can be changed")
	ErrInvalidStatusTransition = errors.New("configuration has already been decided")
)
