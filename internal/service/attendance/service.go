package attendance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/domain/policy"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/domain/shift"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/domain/timeexception"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/pkg/importer"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/pkg/logger"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/pkg/pagination"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/pkg/validator"
)

// ShiftResolver finds the shift an employee works on a date.
type ShiftResolver interface {
	ResolveShift(ctx context.Context, employeeID string, date time.Time) (shift.ShiftAssignment, shift.Shift, error)
}

// HolidayCalendar tells whether a date is an active holiday.
type HolidayCalendar interface {
	IsHoliday(ctx context.Context, date time.Time) (bool, error)
}

type AttendanceServiceImpl struct {
	tx             database.Transactor
	attendanceRepo attendance.AttendanceRepository
	employeeRepo   employee.EmployeeRepository
	overtimeRepo   policy.OvertimeRuleRepository
	latenessRepo   policy.LatenessRuleRepository
	shifts         ShiftResolver
	holidays       HolidayCalendar
	exceptions     attendance.ExceptionOpener
	location       *time.Location
	now            func() time.Time
}

func NewAttendanceService(
	tx database.Transactor,
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	overtimeRepo policy.OvertimeRuleRepository,
	latenessRepo policy.LatenessRuleRepository,
	shifts ShiftResolver,
	holidays HolidayCalendar,
	exceptions attendance.ExceptionOpener,
	location *time.Location,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		tx:             tx,
		attendanceRepo: attendanceRepo,
		employeeRepo:   employeeRepo,
		overtimeRepo:   overtimeRepo,
		latenessRepo:   latenessRepo,
		shifts:         shifts,
		holidays:       holidays,
		exceptions:     exceptions,
		location:       location,
		now:            time.Now,
	}
}

// dateOf returns the calendar date of t in loc as a UTC midnight, the way
// DATE columns are scanned.
func dateOf(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Punch records a clock in or clock out. An OUT without a clock in on the
// same day closes the session left open the day before (night shifts).
func (s *AttendanceServiceImpl) Punch(ctx context.Context, req attendance.PunchRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}
	actor, err := jwt.ActorFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	employeeID, err := s.punchEmployee(actor, req.EmployeeID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	emp, err := s.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}
	if !emp.IsActive() {
		return attendance.AttendanceResponse{}, employee.ErrEmployeeInactive
	}

	at := s.now()
	if req.ParsedTime != nil {
		at = *req.ParsedTime
	}
	at = at.In(s.location)
	date := dateOf(at, s.location)

	var resp attendance.AttendanceResponse
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		rec, err := s.applyPunch(ctx, employeeID, attendance.PunchType(req.Type), at, date, actor.CreatedBy())
		if err != nil {
			return err
		}
		resp, err = s.evaluateAndSave(ctx, rec, false)
		return err
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	return resp, nil
}

func (s *AttendanceServiceImpl) punchEmployee(actor user.Actor, requested *string) (string, error) {
	if requested == nil {
		if actor.EmployeeID == nil {
			return "", user.ErrEmployeeProfileRequired
		}
		return *actor.EmployeeID, nil
	}
	if !actor.OwnsEmployee(*requested) && !actor.IsHR() {
		return "", attendance.ErrUnauthorized
	}
	return *requested, nil
}

func (s *AttendanceServiceImpl) applyPunch(
	ctx context.Context,
	employeeID string,
	punch attendance.PunchType,
	at, date time.Time,
	createdBy *string,
) (attendance.AttendanceRecord, error) {
	rec, err := s.attendanceRepo.GetByEmployeeAndDate(ctx, employeeID, date)
	found := err == nil
	if err != nil && !errors.Is(err, attendance.ErrAttendanceNotFound) {
		return attendance.AttendanceRecord{}, fmt.Errorf("failed to get attendance record: %w", err)
	}

	switch punch {
	case attendance.PunchIn:
		if found {
			if rec.ClockIn != nil {
				return attendance.AttendanceRecord{}, attendance.ErrAlreadyClockedIn
			}
			if rec.ClockOut != nil && !rec.ClockOut.After(at) {
				return attendance.AttendanceRecord{}, attendance.ErrClockOutBeforeIn
			}
			rec.ClockIn = &at
			return rec, nil
		}
		return attendance.AttendanceRecord{
			EmployeeID: employeeID,
			Date:       date,
			ClockIn:    &at,
			Source:     attendance.SourcePunch,
			CreatedBy:  createdBy,
		}, nil

	default:
		if found {
			if rec.ClockOut != nil {
				return attendance.AttendanceRecord{}, attendance.ErrAlreadyClockedOut
			}
			if rec.ClockIn != nil && !at.After(*rec.ClockIn) {
				return attendance.AttendanceRecord{}, attendance.ErrClockOutBeforeIn
			}
			rec.ClockOut = &at
			return rec, nil
		}

		open, err := s.attendanceRepo.FindOpenSession(ctx, employeeID, date.AddDate(0, 0, -1))
		if err == nil {
			if !at.After(*open.ClockIn) {
				return attendance.AttendanceRecord{}, attendance.ErrClockOutBeforeIn
			}
			open.ClockOut = &at
			return open, nil
		}
		if !errors.Is(err, attendance.ErrAttendanceNotFound) {
			return attendance.AttendanceRecord{}, fmt.Errorf("failed to find open session: %w", err)
		}

		return attendance.AttendanceRecord{
			EmployeeID: employeeID,
			Date:       date,
			ClockOut:   &at,
			Source:     attendance.SourcePunch,
			CreatedBy:  createdBy,
		}, nil
	}
}

// evaluateAndSave evaluates rec against the shift in force, persists it and
// opens the exceptions the evaluation calls for. Imported records are
// evaluated as if their day had ended.
func (s *AttendanceServiceImpl) evaluateAndSave(ctx context.Context, rec attendance.AttendanceRecord, forceDayEnded bool) (attendance.AttendanceResponse, error) {
	var sh *shift.Shift
	assignment, resolved, err := s.shifts.ResolveShift(ctx, rec.EmployeeID, rec.Date)
	switch {
	case err == nil:
		sh = &resolved
		rec.ShiftAssignmentID = &assignment.ID
	case errors.Is(err, shift.ErrNoActiveAssignment):
		rec.ShiftAssignmentID = nil
	default:
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to resolve shift: %w", err)
	}

	dayEnded := forceDayEnded || attendance.DayEnded(rec.Date, sh, s.now(), s.location)
	ev := attendance.Evaluate(rec, sh, dayEnded, s.location)
	rec.Apply(ev)

	var saved attendance.AttendanceRecord
	if rec.ID == "" {
		saved, err = s.attendanceRepo.Create(ctx, rec)
	} else {
		saved, err = s.attendanceRepo.Update(ctx, rec)
	}
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to save attendance record: %w", err)
	}

	opened, err := s.openExceptions(ctx, saved, ev)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	resp := attendance.ToResponse(saved)
	resp.OpenedExceptions = opened
	return resp, nil
}

func (s *AttendanceServiceImpl) openExceptions(ctx context.Context, rec attendance.AttendanceRecord, ev attendance.Evaluation) ([]string, error) {
	day := rec.Date.Format(validator.DateLayout)
	var candidates []timeexception.OpenForRecordRequest

	if ev.HasMissedPunch {
		candidates = append(candidates, timeexception.OpenForRecordRequest{
			Type:   timeexception.TypeMissedPunch,
			Reason: "Missed punch on " + day,
		})
	}

	if ev.LateMinutes > 0 {
		rule, err := s.latenessRepo.GetActive(ctx)
		switch {
		case err == nil:
			if rule.Calculate(ev.LateMinutes).RequiresEscalation {
				candidates = append(candidates, timeexception.OpenForRecordRequest{
					Type:   timeexception.TypeLate,
					Reason: fmt.Sprintf("Late by %d minutes on %s", ev.LateMinutes, day),
				})
			}
		case !errors.Is(err, policy.ErrLatenessRuleNotFound):
			return nil, fmt.Errorf("failed to get lateness rule: %w", err)
		}
	}

	if ev.OvertimeMinutes > 0 {
		isHoliday, err := s.holidays.IsHoliday(ctx, rec.Date)
		if err != nil {
			return nil, fmt.Errorf("failed to check holiday: %w", err)
		}
		rule, err := s.overtimeRepo.FindApplicable(ctx, policy.DayTypeFor(rec.Date, isHoliday))
		switch {
		case err == nil:
			if rule.RequiresApproval {
				candidates = append(candidates, timeexception.OpenForRecordRequest{
					Type:   timeexception.TypeOvertimeRequest,
					Reason: fmt.Sprintf("Overtime of %d minutes on %s", ev.OvertimeMinutes, day),
				})
			}
		case !errors.Is(err, policy.ErrOvertimeRuleNotFound):
			return nil, fmt.Errorf("failed to find overtime rule: %w", err)
		}
	}

	var opened []string
	for _, c := range candidates {
		c.EmployeeID = rec.EmployeeID
		c.AttendanceRecordID = rec.ID
		ok, err := s.exceptions.OpenForRecord(ctx, c)
		if err != nil {
			return nil, err
		}
		if ok {
			opened = append(opened, string(c.Type))
		}
	}
	return opened, nil
}

// Import loads punches from a sheet. Every row is saved in its own
// transaction and failures are reported per row.
func (s *AttendanceServiceImpl) Import(ctx context.Context, req attendance.ImportRequest) (attendance.ImportResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.ImportResponse{}, err
	}
	actor, err := jwt.ActorFromContext(ctx)
	if err != nil {
		return attendance.ImportResponse{}, err
	}

	rows, err := importer.ParseAttendance(req.Format, req.Data, s.location)
	if err != nil {
		if errors.Is(err, importer.ErrUnsupportedFormat) {
			return attendance.ImportResponse{}, attendance.ErrUnsupportedFormat
		}
		return attendance.ImportResponse{}, fmt.Errorf("%w: %v", attendance.ErrInvalidImportFile, err)
	}

	resp := attendance.ImportResponse{Failed: []attendance.ImportFailure{}}
	codes := make(map[string]string)

	for _, row := range rows {
		if row.Err != nil {
			resp.Failed = append(resp.Failed, attendance.ImportFailure{Row: row.Line, Reason: row.Err.Error()})
			continue
		}
		if err := s.importRow(ctx, row, codes, actor.CreatedBy()); err != nil {
			resp.Failed = append(resp.Failed, attendance.ImportFailure{Row: row.Line, Reason: importFailureReason(ctx, err)})
			continue
		}
		resp.Imported++
	}

	logger.From(ctx).InfoContext(ctx, "attendance import finished",
		"format", req.Format,
		"imported", resp.Imported,
		"failed", len(resp.Failed),
	)
	return resp, nil
}

func (s *AttendanceServiceImpl) importRow(ctx context.Context, row importer.AttendanceRow, codes map[string]string, createdBy *string) error {
	employeeID, ok := codes[row.EmployeeCode]
	if !ok {
		emp, err := s.employeeRepo.GetByEmployeeCode(ctx, row.EmployeeCode)
		if err != nil {
			return err
		}
		employeeID = emp.ID
		codes[row.EmployeeCode] = employeeID
	}

	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		_, err := s.attendanceRepo.GetByEmployeeAndDate(ctx, employeeID, row.Date)
		if err == nil {
			return attendance.ErrRecordAlreadyExists
		}
		if !errors.Is(err, attendance.ErrAttendanceNotFound) {
			return err
		}

		_, err = s.evaluateAndSave(ctx, attendance.AttendanceRecord{
			EmployeeID: employeeID,
			Date:       row.Date,
			ClockIn:    row.ClockIn,
			ClockOut:   row.ClockOut,
			Source:     attendance.SourceImport,
			CreatedBy:  createdBy,
		}, true)
		return err
	})
}

func importFailureReason(ctx context.Context, err error) string {
	switch {
	case errors.Is(err, employee.ErrEmployeeNotFound):
		return "unknown employee code"
	case errors.Is(err, attendance.ErrRecordAlreadyExists):
		return attendance.ErrRecordAlreadyExists.Error()
	}
	logger.From(ctx).WarnContext(ctx, "attendance import row failed", "error", err)
	return "could not be saved"
}

func (s *AttendanceServiceImpl) Get(ctx context.Context, id string) (attendance.AttendanceResponse, error) {
	actor, err := jwt.ActorFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	rec, err := s.attendanceRepo.GetByID(ctx, id)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get attendance record: %w", err)
	}
	if !actor.IsReviewer() && !actor.OwnsEmployee(rec.EmployeeID) {
		return attendance.AttendanceResponse{}, attendance.ErrUnauthorized
	}
	return attendance.ToResponse(rec), nil
}

func (s *AttendanceServiceImpl) List(ctx context.Context, filter attendance.AttendanceFilter) (pagination.Page[attendance.AttendanceResponse], error) {
	if err := filter.Validate(); err != nil {
		return pagination.Page[attendance.AttendanceResponse]{}, err
	}
	records, total, err := s.attendanceRepo.List(ctx, filter)
	if err != nil {
		return pagination.Page[attendance.AttendanceResponse]{}, fmt.Errorf("failed to list attendance records: %w", err)
	}
	return pagination.NewPage(pagination.Map(records, attendance.ToResponse), total, filter.Params), nil
}

func (s *AttendanceServiceImpl) ListMine(ctx context.Context, filter attendance.AttendanceFilter) (pagination.Page[attendance.AttendanceResponse], error) {
	actor, err := jwt.ActorFromContext(ctx)
	if err != nil {
		return pagination.Page[attendance.AttendanceResponse]{}, err
	}
	if actor.EmployeeID == nil {
		return pagination.Page[attendance.AttendanceResponse]{}, user.ErrEmployeeProfileRequired
	}
	filter.EmployeeID = actor.EmployeeID
	return s.List(ctx, filter)
}

func (s *AttendanceServiceImpl) Reevaluate(ctx context.Context, id string) (attendance.AttendanceResponse, error) {
	var resp attendance.AttendanceResponse
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		rec, err := s.attendanceRepo.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to get attendance record: %w", err)
		}
		resp, err = s.evaluateAndSave(ctx, rec, false)
		return err
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	return resp, nil
}

func (s *AttendanceServiceImpl) ApplyCorrection(ctx context.Context, recordID string, clockIn, clockOut *time.Time) (attendance.AttendanceRecord, error) {
	rec, err := s.attendanceRepo.GetByID(ctx, recordID)
	if err != nil {
		return attendance.AttendanceRecord{}, fmt.Errorf("failed to get attendance record: %w", err)
	}
	if clockIn != nil {
		rec.ClockIn = clockIn
	}
	if clockOut != nil {
		rec.ClockOut = clockOut
	}
	if rec.ClockIn != nil && rec.ClockOut != nil && !rec.ClockOut.After(*rec.ClockIn) {
		return attendance.AttendanceRecord{}, attendance.ErrClockOutBeforeIn
	}
	rec.Source = attendance.SourceCorrection

	if _, err := s.evaluateAndSave(ctx, rec, false); err != nil {
		return attendance.AttendanceRecord{}, err
	}
	return s.attendanceRepo.GetByID(ctx, recordID)
}

// FlagMissedPunches re-evaluates records of past days that are still open
// and returns how many turned into missed punches.
func (s *AttendanceServiceImpl) FlagMissedPunches(ctx context.Context) (int, error) {
	today := dateOf(s.now(), s.location)
	open, err := s.attendanceRepo.ListOpenBefore(ctx, today)
	if err != nil {
		return 0, fmt.Errorf("failed to list open attendance records: %w", err)
	}

	flagged := 0
	for _, rec := range open {
		var resp attendance.AttendanceResponse
		err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
			var err error
			resp, err = s.evaluateAndSave(ctx, rec, false)
			return err
		})
		if err != nil {
			logger.From(ctx).ErrorContext(ctx, "failed to flag missed punch", "attendance_id", rec.ID, "error", err)
			continue
		}
		if resp.HasMissedPunch {
			flagged++
		}
	}
	return flagged, nil
}
