package correction

import "errors"

var (
	ErrCorrectionNotFound      = errors.New("correction request not found")
	ErrInvalidStatusTransition = errors.New("invalid correction request status transition")
	ErrNotRecordOwner          = errors.New("attendance record belongs to another employee")
	ErrNotSubmitter            = errors.New("only the submitter can cancel a correction request")
	ErrActiveRequestExists     = errors.New("an active correction request already exists for this record")
	ErrClockOutBeforeIn        = errors.New("corrected clock out must be after clock in")
	ErrSelfReview              = errors.New("reviewers cannot decide their own correction request")
)
