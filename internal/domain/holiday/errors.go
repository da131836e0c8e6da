package holiday

import "errors"

var (
	ErrHolidayNotFound    = errors.New("holiday not found")
	ErrHolidayExists      = errors.New("holiday with the same name and start date already exists")
	ErrAllHolidaysFailed  = errors.New("no holiday could be created")
	ErrEndBeforeStartDate = errors.New("end date must not precede start date")
)
