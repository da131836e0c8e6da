package notification

import (
	"time"
)

// NotificationType represents the type of notification
type NotificationType string

const (
	TypeTimeExceptionOpened    NotificationType = "time_exception_opened"
	TypeTimeExceptionAssigned  NotificationType = "time_exception_assigned"
	TypeTimeExceptionApproved  NotificationType = "time_exception_approved"
	TypeTimeExceptionRejected  NotificationType = "time_exception_rejected"
	TypeTimeExceptionEscalated NotificationType = "time_exception_escalated"
	TypeTimeExceptionResolved  NotificationType = "time_exception_resolved"
	TypeCorrectionSubmitted    NotificationType = "correction_submitted"
	TypeCorrectionApproved     NotificationType = "correction_approved"
	TypeCorrectionRejected     NotificationType = "correction_rejected"
	TypeCorrectionEscalated    NotificationType = "correction_escalated"
	TypeShiftAssigned          NotificationType = "shift_assigned"
)

// Notification is addressed to an employee.
type Notification struct {
	ID          string
	RecipientID string
	Type        NotificationType
	Title       string
	Message     string
	Data        map[string]interface{}
	IsRead      bool
	ReadAt      *time.Time
	CreatedAt   time.Time
}
