package shift

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestShift_ScheduledMinutes(t *testing.T) {
	tests := []struct {
		name      string
		shift     Shift
		crosses   bool
		span      int
		scheduled int
	}{
		{"day shift", Shift{StartTime: "08:00", EndTime: "17:00", BreakMinutes: 60}, false, 540, 480},
		{"night shift", Shift{StartTime: "22:00", EndTime: "06:00", BreakMinutes: 30}, true, 480, 450},
		{"ends at midnight", Shift{StartTime: "16:00", EndTime: "00:00"}, true, 480, 480},
		{"break longer than span", Shift{StartTime: "09:00", EndTime: "10:00", BreakMinutes: 90}, false, 60, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.crosses, tt.shift.CrossesMidnight())
			assert.Equal(t, tt.span, tt.shift.SpanMinutes())
			assert.Equal(t, tt.scheduled, tt.shift.ScheduledMinutes())
		})
	}
}

func TestShift_StartAndEndOn(t *testing.T) {
	night := Shift{StartTime: "22:00", EndTime: "06:00"}
	d := date(2024, 3, 1)

	assert.Equal(t, time.Date(2024, 3, 1, 22, 0, 0, 0, time.UTC), night.StartOn(d, time.UTC))
	assert.Equal(t, time.Date(2024, 3, 2, 6, 0, 0, 0, time.UTC), night.EndOn(d, time.UTC))
}

func TestShiftAssignment_CoversAndOverlaps(t *testing.T) {
	end := date(2024, 1, 31)
	jan := ShiftAssignment{StartDate: date(2024, 1, 1), EndDate: &end}
	openFeb := ShiftAssignment{StartDate: date(2024, 2, 1)}
	midJanEnd := date(2024, 2, 15)
	midJan := ShiftAssignment{StartDate: date(2024, 1, 15), EndDate: &midJanEnd}

	assert.True(t, jan.Covers(date(2024, 1, 31)))
	assert.False(t, jan.Covers(date(2024, 2, 1)))
	assert.True(t, openFeb.Covers(date(2030, 1, 1)))
	assert.False(t, openFeb.Covers(date(2024, 1, 31)))

	assert.False(t, jan.Overlaps(openFeb))
	assert.False(t, openFeb.Overlaps(jan))
	assert.True(t, jan.Overlaps(midJan))
	assert.True(t, midJan.Overlaps(openFeb))
}

func TestShiftAssignment_Transitions(t *testing.T) {
	assert.True(t, ShiftAssignment{Status: AssignmentPending}.CanApprove())
	assert.False(t, ShiftAssignment{Status: AssignmentApproved}.CanApprove())
	assert.True(t, ShiftAssignment{Status: AssignmentApproved}.CanCancel())
	assert.False(t, ShiftAssignment{Status: AssignmentExpired}.CanCancel())
	assert.False(t, ShiftAssignment{Status: AssignmentCancelled}.CanCancel())
}

func TestCreateShiftRequest_Validate(t *testing.T) {
	ok := CreateShiftRequest{Name: "Night", StartTime: "22:00", EndTime: "06:00", BreakMinutes: 30}
	assert.NoError(t, ok.Validate())

	same := CreateShiftRequest{Name: "Zero", StartTime: "08:00", EndTime: "08:00"}
	assert.Error(t, same.Validate())

	longBreak := CreateShiftRequest{Name: "Short", StartTime: "08:00", EndTime: "09:00", BreakMinutes: 60}
	assert.ErrorContains(t, longBreak.Validate(), "breakMinutes")

	bad := CreateShiftRequest{StartTime: "8am", EndTime: "25:00"}
	err := bad.Validate()
	assert.ErrorContains(t, err, "name")
	assert.ErrorContains(t, err, "startTime")
	assert.ErrorContains(t, err, "endTime")
}
