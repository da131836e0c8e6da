package policy

import "errors"

var (
	ErrOvertimeRuleNotFound     = errors.New("overtime rule not found")
	ErrLatenessRuleNotFound     = errors.New("lateness rule not found")
	ErrNoApplicableOvertimeRule = errors.New("no active approved overtime rule for this day type")
	ErrNoActiveLatenessRule     = errors.New("no active lateness rule")
	ErrOvertimeRuleInactive     = errors.New("overtime rule is inactive")
	ErrLatenessRuleInactive     = errors.New("lateness rule is inactive")
	ErrOvertimeRuleApproved     = errors.New("overtime rule is already approved")
	ErrHourlyRateUnavailable    = errors.New("hourly rate is required when employee has none")
)
