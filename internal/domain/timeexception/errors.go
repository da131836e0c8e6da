package timeexception

import "errors"

var (
	ErrTimeExceptionNotFound   = errors.New("time exception not found")
	ErrInvalidStatusTransition = errors.New("invalid time exception status transition")
	ErrDuplicateException      = errors.New("an exception of this type already exists for the attendance record")
	ErrRecordEmployeeMismatch  = errors.New("attendance record belongs to another employee")
	ErrNoReviewerAvailable     = errors.New("no reviewer given and employee has no manager")
	ErrNotOwner                = errors.New("time exception belongs to another employee")
	ErrSelfReview              = errors.New("reviewers cannot decide their own time exception")
)
