package attendance

import "errors"

var (
	ErrAttendanceNotFound  = errors.New("attendance record not found")
	ErrUnauthorized        = errors.New("unauthorized to access this attendance record")
	ErrAlreadyClockedIn    = errors.New("already clocked in for this day")
	ErrAlreadyClockedOut   = errors.New("already clocked out for this day")
	ErrClockOutBeforeIn    = errors.New("clock out must be after clock in")
	ErrUnsupportedFormat   = errors.New("unsupported import format")
	ErrInvalidImportFile   = errors.New("import file could not be read")
	ErrRecordAlreadyExists = errors.New("attendance record already exists for this day")
)
