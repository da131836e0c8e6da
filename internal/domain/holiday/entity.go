package holiday

import "time"

type Type string

const (
	TypeNational       Type = "NATIONAL"
	TypeOrganizational Type = "ORGANIZATIONAL"
	TypeWeeklyRest     Type = "WEEKLY_REST"
)

var Types = []string{string(TypeNational), string(TypeOrganizational), string(TypeWeeklyRest)}

type Holiday struct {
	ID        string
	Name      string
	Type      Type
	StartDate time.Time
	EndDate   time.Time
	Active    bool
	CreatedBy *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Covers reports whether date falls within the holiday, inclusive.
func (h Holiday) Covers(date time.Time) bool {
	day := truncateDay(date)
	return !day.Before(truncateDay(h.StartDate)) && !day.After(truncateDay(h.EndDate))
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
