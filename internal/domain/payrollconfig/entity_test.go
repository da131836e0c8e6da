package payrollconfig

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApproval_Decide(t *testing.T) {
	now := time.Date(2024, 6, 3, 10, 0, 0, 0, time.UTC)
	approver := "manager-1"

	a := Approval{Status: StatusDraft}
	require.NoError(t, a.EnsureEditable())
	require.NoError(t, a.Approve(&approver, now))
	assert.Equal(t, StatusApproved, a.Status)
	assert.Equal(t, &approver, a.ApprovedBy)
	assert.Equal(t, now, *a.ApprovedAt)

	assert.ErrorIs(t, a.EnsureEditable(), ErrNotDraft)
	assert.ErrorIs(t, a.Reject(&approver, now), ErrInvalidStatusTransition)
	assert.ErrorIs(t, a.Approve(&approver, now), ErrInvalidStatusTransition)

	r := Approval{Status: StatusDraft}
	require.NoError(t, r.Reject(&approver, now))
	assert.Equal(t, StatusRejected, r.Status)
}

func TestCreatePayGradeRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		base    int64
		gross   int64
		wantErr string
	}{
		{"valid", 6000, 8000, ""},
		{"base at floor, gross equal", 6000, 6000, ""},
		{"base below floor", 5999, 8000, "baseSalary"},
		{"gross below base", 7000, 6500, "grossSalary"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := CreatePayGradeRequest{
				Grade:       "G1",
				BaseSalary:  decimal.NewFromInt(tt.base),
				GrossSalary: decimal.NewFromInt(tt.gross),
			}
			err := req.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.wantErr)
			}
		})
	}
}

func TestUpdatePayGradeRequest_ApplyRevalidates(t *testing.T) {
	g := PayGrade{Grade: "G1", BaseSalary: decimal.NewFromInt(6000), GrossSalary: decimal.NewFromInt(7000)}
	base := decimal.NewFromInt(9000)
	req := UpdatePayGradeRequest{BaseSalary: &base}
	assert.ErrorContains(t, req.Apply(&g), "grossSalary")
}

func TestCreateTaxRuleRequest_Validate(t *testing.T) {
	req := CreateTaxRuleRequest{Name: "PPh21", Rate: decimal.NewFromInt(101)}
	assert.ErrorContains(t, req.Validate(), "rate")

	req = CreateTaxRuleRequest{Name: "PPh21", Rate: decimal.NewFromInt(5), ExemptionAmount: decimal.NewFromInt(-1)}
	assert.ErrorContains(t, req.Validate(), "exemptionAmount")

	req = CreateTaxRuleRequest{Name: "PPh21", Rate: decimal.NewFromInt(100)}
	assert.NoError(t, req.Validate())
}

func TestCreateAllowanceRequest_Validate(t *testing.T) {
	req := CreateAllowanceRequest{Name: " ", Amount: decimal.NewFromInt(-5)}
	err := req.Validate()
	assert.ErrorContains(t, err, "name")
	assert.ErrorContains(t, err, "amount")
}
