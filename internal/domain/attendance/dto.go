package attendance

import (
	"encoding/base64"
	"strings"
	"time"

	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/pkg/pagination"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/pkg/validator"
)

const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

type PunchRequest struct {
	EmployeeID *string `json:"employeeId,omitempty"`
	Type       string  `json:"type"`
	Time       *string `json:"time,omitempty"`

	ParsedTime *time.Time `json:"-"`
}

func (r *PunchRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.EmployeeID != nil && !validator.IsValidUUID(*r.EmployeeID) {
		errs.Add("employeeId", "employeeId must be a valid UUID")
	}
	r.Type = strings.ToUpper(strings.TrimSpace(r.Type))
	if r.Type != string(PunchIn) && r.Type != string(PunchOut) {
		errs.Add("type", "type must be IN or OUT")
	}
	if r.Time != nil {
		t, ok := validator.IsValidDateTime(*r.Time)
		if !ok {
			errs.Add("time", "time must be an RFC3339 timestamp")
		} else {
			r.ParsedTime = &t
		}
	}

	return errs.Err()
}

type ImportRequest struct {
	Format  string `json:"format"`
	Content string `json:"content"`

	Data []byte `json:"-"`
}

func (r *ImportRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Format = strings.ToLower(strings.TrimSpace(r.Format))
	if r.Format != FormatCSV && r.Format != FormatXLSX {
		errs.Add("format", "format must be csv or xlsx")
	}
	if validator.IsEmpty(r.Content) {
		errs.Add("content", "content is required")
	} else {
		data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(r.Content))
		if err != nil {
			errs.Add("content", "content must be base64 encoded")
		}
		r.Data = data
	}

	return errs.Err()
}

type ImportFailure struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

type ImportResponse struct {
	Imported int             `json:"imported"`
	Failed   []ImportFailure `json:"failed"`
}

type AttendanceFilter struct {
	EmployeeID     *string
	From           *string
	To             *string
	HasMissedPunch *bool
	pagination.Params

	FromDate *time.Time
	ToDate   *time.Time
}

func (f *AttendanceFilter) Validate() error {
	errs := f.Normalize()
	if f.EmployeeID != nil && !validator.IsValidUUID(*f.EmployeeID) {
		errs.Add("employeeId", "employeeId must be a valid UUID")
	}
	if f.From != nil {
		if t, ok := validator.IsValidDate(*f.From); ok {
			f.FromDate = &t
		} else {
			errs.Add("from", "from must be in YYYY-MM-DD format")
		}
	}
	if f.To != nil {
		if t, ok := validator.IsValidDate(*f.To); ok {
			f.ToDate = &t
		} else {
			errs.Add("to", "to must be in YYYY-MM-DD format")
		}
	}
	return errs.Err()
}

type AttendanceResponse struct {
	ID                string     `json:"id"`
	EmployeeID        string     `json:"employeeId"`
	Date              string     `json:"date"`
	ClockIn           *time.Time `json:"clockIn,omitempty"`
	ClockOut          *time.Time `json:"clockOut,omitempty"`
	WorkedMinutes     int        `json:"workedMinutes"`
	LateMinutes       int        `json:"lateMinutes"`
	OvertimeMinutes   int        `json:"overtimeMinutes"`
	HasMissedPunch    bool       `json:"hasMissedPunch"`
	Source            Source     `json:"source"`
	ShiftAssignmentID *string    `json:"shiftAssignmentId,omitempty"`
	CreatedBy         *string    `json:"createdBy,omitempty"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
	OpenedExceptions  []string   `json:"openedExceptions,omitempty"`
}

func ToResponse(r AttendanceRecord) AttendanceResponse {
	return AttendanceResponse{
		ID:                r.ID,
		EmployeeID:        r.EmployeeID,
		Date:              r.Date.Format(validator.DateLayout),
		ClockIn:           r.ClockIn,
		ClockOut:          r.ClockOut,
		WorkedMinutes:     r.WorkedMinutes,
		LateMinutes:       r.LateMinutes,
		OvertimeMinutes:   r.OvertimeMinutes,
		HasMissedPunch:    r.HasMissedPunch,
		Source:            r.Source,
		ShiftAssignmentID: r.ShiftAssignmentID,
		CreatedBy:         r.CreatedBy,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}
}
