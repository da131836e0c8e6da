package attendance

import (
	"time"

	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/domain/shift"
)

type Evaluation struct {
	WorkedMinutes    int
	LateMinutes      int
	OvertimeMinutes  int
	ScheduledMinutes int
	HasMissedPunch   bool
}

// Evaluate derives worked, late and overtime minutes of rec against sh.
// sh is nil when no approved shift covers the record's date, in which case
// only worked minutes and missed punches are computed.
func Evaluate(rec AttendanceRecord, sh *shift.Shift, dayEnded bool, loc *time.Location) Evaluation {
	var ev Evaluation

	if rec.ClockIn != nil && rec.ClockOut != nil && rec.ClockOut.After(*rec.ClockIn) {
		ev.WorkedMinutes = int(rec.ClockOut.Sub(*rec.ClockIn) / time.Minute)
		if sh != nil {
			ev.WorkedMinutes -= sh.BreakMinutes
			if ev.WorkedMinutes < 0 {
				ev.WorkedMinutes = 0
			}
		}
	}

	if sh != nil {
		ev.ScheduledMinutes = sh.ScheduledMinutes()
		if rec.ClockIn != nil {
			start := sh.StartOn(rec.Date, loc)
			if rec.ClockIn.After(start) {
				ev.LateMinutes = int(rec.ClockIn.Sub(start) / time.Minute)
			}
		}
		if rec.ClockIn != nil && rec.ClockOut != nil && ev.WorkedMinutes > ev.ScheduledMinutes {
			ev.OvertimeMinutes = ev.WorkedMinutes - ev.ScheduledMinutes
		}
	}

	switch {
	case rec.ClockIn == nil && rec.ClockOut != nil:
		ev.HasMissedPunch = true
	case rec.ClockIn != nil && rec.ClockOut == nil:
		ev.HasMissedPunch = dayEnded
	}

	return ev
}

// DayEnded reports whether the working day of date is over at now: midnight
// after date, or the end of a shift that runs past midnight.
func DayEnded(date time.Time, sh *shift.Shift, now time.Time, loc *time.Location) bool {
	y, m, d := date.Date()
	end := time.Date(y, m, d, 0, 0, 0, 0, loc).AddDate(0, 0, 1)
	if sh != nil {
		if shiftEnd := sh.EndOn(date, loc); shiftEnd.After(end) {
			end = shiftEnd
		}
	}
	return now.After(end)
}
