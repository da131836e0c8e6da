package attendance

import (
	"time"
)

type Source string

const (
	SourcePunch      Source = "PUNCH"
	SourceImport     Source = "IMPORT"
	SourceCorrection Source = "CORRECTION"
)

type PunchType string

const (
	PunchIn  PunchType = "IN"
	PunchOut PunchType = "OUT"
)

type AttendanceRecord struct {
	ID                string
	EmployeeID        string
	Date              time.Time
	ClockIn           *time.Time
	ClockOut          *time.Time
	WorkedMinutes     int
	LateMinutes       int
	OvertimeMinutes   int
	HasMissedPunch    bool
	Source            Source
	ShiftAssignmentID *string
	CreatedBy         *string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// IsOpen reports whether the employee clocked in but not out.
func (r AttendanceRecord) IsOpen() bool {
	return r.ClockIn != nil && r.ClockOut == nil
}

func (r *AttendanceRecord) Apply(ev Evaluation) {
	r.WorkedMinutes = ev.WorkedMinutes
	r.LateMinutes = ev.LateMinutes
	r.OvertimeMinutes = ev.OvertimeMinutes
	r.HasMissedPunch = ev.HasMissedPunch
}
