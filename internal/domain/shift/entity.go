package shift

import (
	"time"

	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/pkg/validator"
)

const minutesPerDay = 24 * 60

type Shift struct {
	ID           string
	Name         string
	StartTime    string // HH:MM
	EndTime      string // HH:MM
	BreakMinutes int
	Active       bool
	CreatedBy    *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (s Shift) startMinutes() int {
	m, _ := validator.IsValidClock(s.StartTime)
	return m
}

func (s Shift) endMinutes() int {
	m, _ := validator.IsValidClock(s.EndTime)
	return m
}

// CrossesMidnight reports whether the shift ends on the following day.
func (s Shift) CrossesMidnight() bool {
	return s.endMinutes() <= s.startMinutes()
}

// SpanMinutes is the time between start and end, break included.
func (s Shift) SpanMinutes() int {
	span := s.endMinutes() - s.startMinutes()
	if s.CrossesMidnight() {
		span += minutesPerDay
	}
	return span
}

// ScheduledMinutes is the paid working time of one occurrence of the shift.
func (s Shift) ScheduledMinutes() int {
	scheduled := s.SpanMinutes() - s.BreakMinutes
	if scheduled < 0 {
		return 0
	}
	return scheduled
}

// StartOn returns the shift start on the given calendar date in loc.
func (s Shift) StartOn(date time.Time, loc *time.Location) time.Time {
	y, m, d := date.Date()
	start := s.startMinutes()
	return time.Date(y, m, d, start/60, start%60, 0, 0, loc)
}

// EndOn returns the shift end for the occurrence starting on date.
func (s Shift) EndOn(date time.Time, loc *time.Location) time.Time {
	return s.StartOn(date, loc).Add(time.Duration(s.SpanMinutes()) * time.Minute)
}

type AssignmentStatus string

const (
	AssignmentPending   AssignmentStatus = "PENDING"
	AssignmentApproved  AssignmentStatus = "APPROVED"
	AssignmentCancelled AssignmentStatus = "CANCELLED"
	AssignmentExpired   AssignmentStatus = "EXPIRED"
)

var AssignmentStatuses = []string{
	string(AssignmentPending),
	string(AssignmentApproved),
	string(AssignmentCancelled),
	string(AssignmentExpired),
}

type ShiftAssignment struct {
	ID         string
	EmployeeID string
	ShiftID    string
	StartDate  time.Time
	EndDate    *time.Time // nil means open-ended
	Status     AssignmentStatus
	CreatedBy  *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Covers reports whether date is inside the assignment period.
func (a ShiftAssignment) Covers(date time.Time) bool {
	day := truncateDay(date)
	if day.Before(truncateDay(a.StartDate)) {
		return false
	}
	return a.EndDate == nil || !day.After(truncateDay(*a.EndDate))
}

// Overlaps reports whether the two periods share at least one day.
func (a ShiftAssignment) Overlaps(other ShiftAssignment) bool {
	if a.EndDate != nil && truncateDay(*a.EndDate).Before(truncateDay(other.StartDate)) {
		return false
	}
	if other.EndDate != nil && truncateDay(*other.EndDate).Before(truncateDay(a.StartDate)) {
		return false
	}
	return true
}

func (a ShiftAssignment) CanApprove() bool {
	return a.Status == AssignmentPending
}

func (a ShiftAssignment) CanCancel() bool {
	return a.Status == AssignmentPending || a.Status == AssignmentApproved
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
