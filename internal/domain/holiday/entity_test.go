package holiday

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestHoliday_Covers(t *testing.T) {
	h := Holiday{StartDate: day(2024, 12, 24), EndDate: day(2024, 12, 26)}

	assert.False(t, h.Covers(day(2024, 12, 23)))
	assert.True(t, h.Covers(day(2024, 12, 24)))
	assert.True(t, h.Covers(time.Date(2024, 12, 25, 18, 30, 0, 0, time.UTC)))
	assert.True(t, h.Covers(day(2024, 12, 26)))
	assert.False(t, h.Covers(day(2024, 12, 27)))
}

func TestCreateHolidayRequest_Validate(t *testing.T) {
	end := "2024-01-02"
	req := CreateHolidayRequest{Name: "New Year", Type: "NATIONAL", StartDate: "2024-01-01", EndDate: &end}
	assert.NoError(t, req.Validate())
	assert.Equal(t, day(2024, 1, 2), req.ParsedEndDate)

	req = CreateHolidayRequest{Name: "Founders Day", Type: "ORGANIZATIONAL", StartDate: "2024-03-01"}
	assert.NoError(t, req.Validate())
	assert.Equal(t, req.ParsedStartDate, req.ParsedEndDate)

	before := "2023-12-31"
	req = CreateHolidayRequest{Name: "Backwards", Type: "NATIONAL", StartDate: "2024-01-01", EndDate: &before}
	assert.Error(t, req.Validate())

	req = CreateHolidayRequest{Name: "", Type: "PUBLIC", StartDate: "01-01-2024"}
	err := req.Validate()
	assert.ErrorContains(t, err, "name")
	assert.ErrorContains(t, err, "type")
	assert.ErrorContains(t, err, "startDate")
}

func TestUpdateHolidayRequest_ApplyMovesSingleDayHoliday(t *testing.T) {
	h := Holiday{StartDate: day(2024, 5, 1), EndDate: day(2024, 5, 1)}
	start := "2024-05-02"
	assert.NoError(t, UpdateHolidayRequest{StartDate: &start}.Apply(&h))
	assert.Equal(t, day(2024, 5, 2), h.StartDate)
	assert.Equal(t, day(2024, 5, 2), h.EndDate)

	end := "2024-04-30"
	assert.Error(t, UpdateHolidayRequest{EndDate: &end}.Apply(&h))
}
