// Package importer reads attendance sheets exported by time clocks.
package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/pkg/validator"
	"github.com/xuri/excelize/v2"
)

const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"

	MaxRows = 5000
)

var (
	ErrUnsupportedFormat = errors.New("unsupported import format")
	ErrNoData            = errors.New("import file has no data rows (first row is the header)")
	ErrBadHeader         = errors.New("import header must contain employee_code, date, clock_in and clock_out")
	ErrTooManyRows       = fmt.Errorf("import file exceeds %d rows", MaxRows)
)

var columns = []string{"employee_code", "date", "clock_in", "clock_out"}

// AttendanceRow is one parsed line. Err is set when the line could not be
// parsed; the other rows are still usable.
type AttendanceRow struct {
	Line         int
	EmployeeCode string
	Date         time.Time
	ClockIn      *time.Time
	ClockOut     *time.Time
	Err          error
}

// ParseAttendance reads a csv or xlsx sheet with the columns employee_code,
// date, clock_in and clock_out in any order. Clock values are HH:MM on the
// row's date in loc, or RFC3339 timestamps. A HH:MM clock out earlier than
// the clock in belongs to the next day.
func ParseAttendance(format string, data []byte, loc *time.Location) ([]AttendanceRow, error) {
	var (
		records [][]string
		err     error
	)
	switch strings.ToLower(format) {
	case FormatCSV:
		records, err = readCSV(bytes.NewReader(data))
	case FormatXLSX:
		records, err = readXLSX(bytes.NewReader(data))
	default:
		return nil, ErrUnsupportedFormat
	}
	if err != nil {
		return nil, err
	}

	if len(records) < 2 {
		return nil, ErrNoData
	}
	index, ok := headerIndex(records[0])
	if !ok {
		return nil, ErrBadHeader
	}

	rows := make([]AttendanceRow, 0, len(records)-1)
	for i := 1; i < len(records); i++ {
		cells := records[i]
		if blank(cells) {
			continue
		}
		rows = append(rows, parseRow(i+1, cells, index, loc))
	}

	if len(rows) == 0 {
		return nil, ErrNoData
	}
	if len(rows) > MaxRows {
		return nil, ErrTooManyRows
	}
	return rows, nil
}

func readCSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}
	return records, nil
}

func readXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open xlsx: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("failed to read worksheet: %w", err)
	}
	return rows, nil
}

func headerIndex(header []string) (map[string]int, bool) {
	index := make(map[string]int, len(columns))
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		name = strings.ReplaceAll(name, " ", "_")
		index[name] = i
	}
	for _, c := range columns {
		if _, ok := index[c]; !ok {
			return nil, false
		}
	}
	return index, true
}

func cell(cells []string, idx int) string {
	if idx < len(cells) {
		return strings.TrimSpace(cells[idx])
	}
	return ""
}

func blank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func parseRow(line int, cells []string, index map[string]int, loc *time.Location) AttendanceRow {
	row := AttendanceRow{Line: line, EmployeeCode: cell(cells, index["employee_code"])}
	if row.EmployeeCode == "" {
		row.Err = errors.New("employee_code is required")
		return row
	}

	date, ok := validator.IsValidDate(cell(cells, index["date"]))
	if !ok {
		row.Err = errors.New("date must be in YYYY-MM-DD format")
		return row
	}
	row.Date = date

	in, inIsClock, err := parseClock(cell(cells, index["clock_in"]), date, loc)
	if err != nil {
		row.Err = fmt.Errorf("clock_in: %w", err)
		return row
	}
	out, outIsClock, err := parseClock(cell(cells, index["clock_out"]), date, loc)
	if err != nil {
		row.Err = fmt.Errorf("clock_out: %w", err)
		return row
	}
	if in == nil && out == nil {
		row.Err = errors.New("clock_in or clock_out is required")
		return row
	}

	if in != nil && out != nil && !out.After(*in) {
		if !inIsClock || !outIsClock {
			row.Err = errors.New("clock_out must be after clock_in")
			return row
		}
		next := out.AddDate(0, 0, 1)
		out = &next
	}

	row.ClockIn, row.ClockOut = in, out
	return row
}

// parseClock returns nil for an empty value and reports whether the value
// was a bare HH:MM wall clock.
func parseClock(value string, date time.Time, loc *time.Location) (*time.Time, bool, error) {
	if value == "" {
		return nil, false, nil
	}
	if minutes, ok := validator.IsValidClock(value); ok {
		y, m, d := date.Date()
		t := time.Date(y, m, d, minutes/60, minutes%60, 0, 0, loc)
		return &t, true, nil
	}
	if t, ok := validator.IsValidDateTime(value); ok {
		return &t, false, nil
	}
	return nil, false, errors.New("must be HH:MM or an RFC3339 timestamp")
}
