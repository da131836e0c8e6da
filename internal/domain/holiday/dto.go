package holiday

import (
	"time"

	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/pkg/pagination"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/pkg/validator"
)

type CreateHolidayRequest struct {
	Name      string  `json:"name"`
	Type      string  `json:"type"`
	StartDate string  `json:"startDate"`
	EndDate   *string `json:"endDate,omitempty"`

	ParsedStartDate time.Time `json:"-"`
	ParsedEndDate   time.Time `json:"-"`
}

// Validate parses the dates; EndDate defaults to StartDate.
func (r *CreateHolidayRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs.Add("name", "name is required")
	}
	if !validator.IsInSlice(r.Type, Types) {
		errs.Add("type", "type must be NATIONAL, ORGANIZATIONAL or WEEKLY_REST")
	}

	start, ok := validator.IsValidDate(r.StartDate)
	if !ok {
		errs.Add("startDate", "startDate must be in YYYY-MM-DD format")
	}
	end := start
	if r.EndDate != nil && *r.EndDate != "" {
		if end, ok = validator.IsValidDate(*r.EndDate); !ok {
			errs.Add("endDate", "endDate must be in YYYY-MM-DD format")
		}
	}
	if len(errs) == 0 && end.Before(start) {
		errs.Add("endDate", ErrEndBeforeStartDate.Error())
	}

	r.ParsedStartDate, r.ParsedEndDate = start, end
	return errs.Err()
}

type UpdateHolidayRequest struct {
	ID        string  `json:"-"`
	Name      *string `json:"name,omitempty"`
	Type      *string `json:"type,omitempty"`
	StartDate *string `json:"startDate,omitempty"`
	EndDate   *string `json:"endDate,omitempty"`
	Active    *bool   `json:"active,omitempty"`
}

func (r *UpdateHolidayRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Name != nil && validator.IsEmpty(*r.Name) {
		errs.Add("name", "name must not be empty")
	}
	if r.Type != nil && !validator.IsInSlice(*r.Type, Types) {
		errs.Add("type", "type must be NATIONAL, ORGANIZATIONAL or WEEKLY_REST")
	}
	if r.StartDate != nil {
		if _, ok := validator.IsValidDate(*r.StartDate); !ok {
			errs.Add("startDate", "startDate must be in YYYY-MM-DD format")
		}
	}
	if r.EndDate != nil {
		if _, ok := validator.IsValidDate(*r.EndDate); !ok {
			errs.Add("endDate", "endDate must be in YYYY-MM-DD format")
		}
	}

	return errs.Err()
}

// Apply copies the set fields onto h. Dates were checked by Validate.
func (r UpdateHolidayRequest) Apply(h *Holiday) error {
	if r.Name != nil {
		h.Name = *r.Name
	}
	if r.Type != nil {
		h.Type = Type(*r.Type)
	}
	if r.StartDate != nil {
		start, _ := validator.IsValidDate(*r.StartDate)
		if r.EndDate == nil && h.EndDate.Equal(h.StartDate) {
			h.EndDate = start
		}
		h.StartDate = start
	}
	if r.EndDate != nil {
		h.EndDate, _ = validator.IsValidDate(*r.EndDate)
	}
	if r.Active != nil {
		h.Active = *r.Active
	}
	if h.EndDate.Before(h.StartDate) {
		return validator.ValidationErrors{{Field: "endDate", Message: ErrEndBeforeStartDate.Error()}}
	}
	return nil
}

type HolidayFilter struct {
	From   *string
	To     *string
	Type   *string
	Active *bool
	pagination.Params

	FromDate *time.Time
	ToDate   *time.Time
}

func (f *HolidayFilter) Validate() error {
	errs := f.Normalize()
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
	if f.FromDate != nil && f.ToDate != nil && f.ToDate.Before(*f.FromDate) {
		errs.Add("to", "to must not precede from")
	}
	if f.Type != nil && !validator.IsInSlice(*f.Type, Types) {
		errs.Add("type", "type must be NATIONAL, ORGANIZATIONAL or WEEKLY_REST")
	}
	return errs.Err()
}

type BulkCreateHolidayRequest struct {
	Holidays []CreateHolidayRequest `json:"holidays"`
}

func (r *BulkCreateHolidayRequest) Validate() error {
	var errs validator.ValidationErrors
	if len(r.Holidays) == 0 {
		errs.Add("holidays", "at least one holiday is required")
	}
	if len(r.Holidays) > 1000 {
		errs.Add("holidays", "at most 1000 holidays per request")
	}
	return errs.Err()
}

type FailedHoliday struct {
	Index  int    `json:"index"`
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

type BulkCreateHolidayResponse struct {
	CreatedHolidays []HolidayResponse `json:"createdHolidays"`
	FailedHolidays  []FailedHoliday   `json:"failedHolidays"`
}

type HolidayResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Type      Type      `json:"type"`
	StartDate string    `json:"startDate"`
	EndDate   string    `json:"endDate"`
	Active    bool      `json:"active"`
	CreatedBy *string   `json:"createdBy,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type HolidayCheckResponse struct {
	Date      string           `json:"date"`
	IsHoliday bool             `json:"isHoliday"`
	Holiday   *HolidayResponse `json:"holiday,omitempty"`
}

func ToResponse(h Holiday) HolidayResponse {
	return HolidayResponse{
		ID:        h.ID,
		Name:      h.Name,
		Type:      h.Type,
		StartDate: h.StartDate.Format(validator.DateLayout),
		EndDate:   h.EndDate.Format(validator.DateLayout),
		Active:    h.Active,
		CreatedBy: h.CreatedBy,
		CreatedAt: h.CreatedAt,
		UpdatedAt: h.UpdatedAt,
	}
}
