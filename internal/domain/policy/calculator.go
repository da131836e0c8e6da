package policy

import "github.com/shopspring/decimal"

var sixty = decimal.NewFromInt(60)

type LatenessResult struct {
	RuleID             string
	RawMinutes         int
	ChargeableMinutes  int
	Deduction          decimal.Decimal
	RequiresEscalation bool
}

// Calculate applies the rule to a number of minutes late. Chargeable minutes
// are what remains after the grace period, rounded up to the rounding block.
func (r LatenessRule) Calculate(lateMinutes int) LatenessResult {
	result := LatenessResult{
		RuleID:     r.ID,
		RawMinutes: lateMinutes,
		Deduction:  decimal.Zero,
	}
	if lateMinutes < 0 {
		result.RawMinutes = 0
		return result
	}

	result.RequiresEscalation = r.EscalationThresholdMinutes > 0 && lateMinutes > r.EscalationThresholdMinutes

	if lateMinutes <= r.GracePeriodMinutes {
		return result
	}

	chargeable := roundUp(lateMinutes-r.GracePeriodMinutes, r.RoundingMinutes)

	result.ChargeableMinutes = chargeable
	result.Deduction = decimal.NewFromInt(int64(chargeable)).
		Mul(r.DeductionPerMinute).
		Mul(r.Multiplier).
		Round(2)
	return result
}

type OvertimeResult struct {
	RuleID           string
	DayType          DayType
	ExtraMinutes     int
	PayableMinutes   int
	Multiplier       decimal.Decimal
	HourlyRate       decimal.Decimal
	Pay              decimal.Decimal
	RequiresApproval bool
}

// Calculate turns worked vs scheduled minutes into payable overtime. Payable
// minutes are rounded down to whole rounding blocks and capped per day.
func (r OvertimeRule) Calculate(workedMinutes, scheduledMinutes int, hourlyRate decimal.Decimal) OvertimeResult {
	result := OvertimeResult{
		RuleID:           r.ID,
		DayType:          r.DayType,
		Multiplier:       r.Multiplier,
		HourlyRate:       hourlyRate,
		Pay:              decimal.Zero,
		RequiresApproval: r.RequiresApproval,
	}

	extra := workedMinutes - scheduledMinutes
	if extra <= 0 {
		return result
	}
	result.ExtraMinutes = extra

	if extra < r.MinimumMinutes {
		return result
	}

	payable := roundDown(extra, r.RoundingMinutes)
	if r.MaxMinutesPerDay > 0 && payable > r.MaxMinutesPerDay {
		payable = r.MaxMinutesPerDay
	}

	result.PayableMinutes = payable
	result.Pay = decimal.NewFromInt(int64(payable)).
		Div(sixty).
		Mul(hourlyRate).
		Mul(r.Multiplier).
		Round(2)
	return result
}

func roundUp(minutes, block int) int {
	if block <= 0 || minutes%block == 0 {
		return minutes
	}
	return (minutes/block + 1) * block
}

func roundDown(minutes, block int) int {
	if block <= 0 {
		return minutes
	}
	return minutes / block * block
}
