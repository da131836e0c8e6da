package shift

import "errors"

var (
	ErrShiftNotFound           = errors.New("shift not found")
	ErrShiftInactive           = errors.New("shift is inactive")
	ErrAssignmentNotFound      = errors.New("shift assignment not found")
	ErrAssignmentOverlap       = errors.New("employee already has an approved shift assignment in this period")
	ErrInvalidStatusTransition = errors.New("invalid shift assignment status transition")
	ErrNoActiveAssignment      = errors.New("no approved shift assignment for this date")
)
