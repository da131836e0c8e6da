package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/domain/correction"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/domain/holiday"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/domain/payrollconfig"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/domain/policy"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/domain/shift"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/domain/timeexception"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/pkg/validator"
)

type errorMapping struct {
	status int
	errs   []error
}

// errorStatuses lists the sentinel errors that reach clients, grouped by the
// HTTP status they map to. The sentinel's own message is sent.
var errorStatuses = []errorMapping{
	{http.StatusUnauthorized, []error{
		auth.ErrInvalidToken,
		auth.ErrTokenExpired,
		auth.ErrMissingClaims,
		auth.ErrUnauthenticated,
		user.ErrInvalidRole,
	}},
	{http.StatusForbidden, []error{
		user.ErrInsufficientPermissions,
		user.ErrEmployeeProfileRequired,
		attendance.ErrUnauthorized,
		timeexception.ErrNotOwner,
		timeexception.ErrSelfReview,
		correction.ErrNotRecordOwner,
		correction.ErrNotSubmitter,
		correction.ErrSelfReview,
	}},
	{http.StatusNotFound, []error{
		employee.ErrEmployeeNotFound,
		employee.ErrManagerNotFound,
		policy.ErrOvertimeRuleNotFound,
		policy.ErrLatenessRuleNotFound,
		policy.ErrNoApplicableOvertimeRule,
		policy.ErrNoActiveLatenessRule,
		holiday.ErrHolidayNotFound,
		shift.ErrShiftNotFound,
		shift.ErrAssignmentNotFound,
		shift.ErrNoActiveAssignment,
		attendance.ErrAttendanceNotFound,
		timeexception.ErrTimeExceptionNotFound,
		correction.ErrCorrectionNotFound,
		payrollconfig.ErrPayGradeNotFound,
		payrollconfig.ErrAllowanceNotFound,
		payrollconfig.ErrTaxRuleNotFound,
		notification.ErrNotificationNotFound,
	}},
	{http.StatusConflict, []error{
		employee.ErrEmployeeCodeExists,
		employee.ErrEmailExists,
		policy.ErrOvertimeRuleApproved,
		holiday.ErrHolidayExists,
		shift.ErrAssignmentOverlap,
		shift.ErrInvalidStatusTransition,
		attendance.ErrAlreadyClockedIn,
		attendance.ErrAlreadyClockedOut,
		attendance.ErrRecordAlreadyExists,
		timeexception.ErrInvalidStatusTransition,
		timeexception.ErrDuplicateException,
		correction.ErrInvalidStatusTransition,
		correction.ErrActiveRequestExists,
		payrollconfig.ErrPayGradeExists,
		payrollconfig.ErrAllowanceExists,
		payrollconfig.ErrTaxRuleExists,
		payrollconfig.ErrNotDraft,
		payrollconfig.ErrInvalidStatusTransition,
	}},
	{http.StatusBadRequest, []error{
		employee.ErrSelfManager,
		employee.ErrEmployeeInactive,
		policy.ErrOvertimeRuleInactive,
		policy.ErrLatenessRuleInactive,
		policy.ErrHourlyRateUnavailable,
		holiday.ErrAllHolidaysFailed,
		holiday.ErrEndBeforeStartDate,
		shift.ErrShiftInactive,
		attendance.ErrClockOutBeforeIn,
		attendance.ErrUnsupportedFormat,
		attendance.ErrInvalidImportFile,
		timeexception.ErrRecordEmployeeMismatch,
		timeexception.ErrNoReviewerAvailable,
		correction.ErrClockOutBeforeIn,
	}},
	{http.StatusServiceUnavailable, []error{
		notification.ErrQueueFull,
		notification.ErrStreamUnavailable,
	}},
}

// StatusFor returns the HTTP status err maps to, or 500 when it is not a
// known domain error.
func StatusFor(err error) int {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		return http.StatusBadRequest
	}
	if m, ok := lookup(err); ok {
		return m.status
	}
	return http.StatusInternalServerError
}

func lookup(err error) (errorMapping, bool) {
	for _, m := range errorStatuses {
		for _, target := range m.errs {
			if errors.Is(err, target) {
				return errorMapping{status: m.status, errs: []error{target}}, true
			}
		}
	}
	return errorMapping{}, false
}

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	m, ok := lookup(err)
	if !ok {
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
		return
	}

	message := m.errs[0].Error()
	switch m.status {
	case http.StatusUnauthorized:
		Unauthorized(w, message)
	case http.StatusForbidden:
		Forbidden(w, message)
	case http.StatusNotFound:
		NotFound(w, message)
	case http.StatusConflict:
		Conflict(w, message)
	case http.StatusServiceUnavailable:
		ServiceUnavailable(w, message)
	default:
		BadRequest(w, message, nil)
	}
}
