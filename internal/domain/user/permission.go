package user

type Permission string

const (
	// Employee directory
	PermissionEmployeeViewAll Permission = "employee.view_all"
	PermissionEmployeeManage  Permission = "employee.manage"

	// Overtime and lateness policy
	PermissionPolicyView    Permission = "policy.view"
	PermissionPolicyManage  Permission = "policy.manage"
	PermissionPolicyApprove Permission = "policy.approve"

	// Holidays
	PermissionHolidayView   Permission = "holiday.view"
	PermissionHolidayManage Permission = "holiday.manage"

	// Shifts
	PermissionShiftView    Permission = "shift.view"
	PermissionShiftManage  Permission = "shift.manage"
	PermissionShiftApprove Permission = "shift.approve"

	// Attendance
	PermissionAttendanceViewOwn Permission = "attendance.view_own"
	PermissionAttendanceViewAll Permission = "attendance.view_all"
	PermissionAttendancePunch   Permission = "attendance.punch"
	PermissionAttendanceImport  Permission = "attendance.import"

	// Time exceptions
	PermissionTimeExceptionViewOwn  Permission = "time_exception.view_own"
	PermissionTimeExceptionCreate   Permission = "time_exception.create"
	PermissionTimeExceptionViewAll  Permission = "time_exception.view_all"
	PermissionTimeExceptionReview   Permission = "time_exception.review"
	PermissionTimeExceptionEscalate Permission = "time_exception.escalate_overdue"

	// Attendance corrections
	PermissionCorrectionCreate  Permission = "correction.create"
	PermissionCorrectionViewOwn Permission = "correction.view_own"
	PermissionCorrectionViewAll Permission = "correction.view_all"
	PermissionCorrectionReview  Permission = "correction.review"

	// Payroll configuration
	PermissionPayrollConfigView    Permission = "payroll_config.view"
	PermissionPayrollConfigManage  Permission = "payroll_config.manage"
	PermissionPayrollConfigApprove Permission = "payroll_config.approve"
)

var selfService = []Permission{
	PermissionHolidayView,
	PermissionAttendanceViewOwn,
	PermissionAttendancePunch,
	PermissionTimeExceptionViewOwn,
	PermissionTimeExceptionCreate,
	PermissionCorrectionCreate,
	PermissionCorrectionViewOwn,
}

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleSystemAdmin: {
		PermissionEmployeeViewAll,
		PermissionEmployeeManage,
		PermissionPolicyView,
		PermissionPolicyManage,
		PermissionPolicyApprove,
		PermissionHolidayView,
		PermissionHolidayManage,
		PermissionShiftView,
		PermissionShiftManage,
		PermissionShiftApprove,
		PermissionAttendanceViewOwn,
		PermissionAttendanceViewAll,
		PermissionAttendancePunch,
		PermissionAttendanceImport,
		PermissionTimeExceptionViewOwn,
		PermissionTimeExceptionCreate,
		PermissionTimeExceptionViewAll,
		PermissionTimeExceptionReview,
		PermissionTimeExceptionEscalate,
		PermissionCorrectionCreate,
		PermissionCorrectionViewOwn,
		PermissionCorrectionViewAll,
		PermissionCorrectionReview,
		PermissionPayrollConfigView,
		PermissionPayrollConfigManage,
		PermissionPayrollConfigApprove,
	},
	RoleHRAdmin: append([]Permission{
		PermissionEmployeeViewAll,
		PermissionEmployeeManage,
		PermissionPolicyView,
		PermissionPolicyManage,
		PermissionPolicyApprove,
		PermissionHolidayManage,
		PermissionShiftView,
		PermissionShiftManage,
		PermissionShiftApprove,
		PermissionAttendanceViewAll,
		PermissionAttendanceImport,
		PermissionTimeExceptionViewAll,
		PermissionTimeExceptionReview,
		PermissionTimeExceptionEscalate,
		PermissionCorrectionViewAll,
		PermissionCorrectionReview,
		PermissionPayrollConfigView,
	}, selfService...),
	RoleHRManager: append([]Permission{
		PermissionEmployeeViewAll,
		PermissionPolicyView,
		PermissionPolicyApprove,
		PermissionShiftView,
		PermissionShiftApprove,
		PermissionAttendanceViewAll,
		PermissionTimeExceptionViewAll,
		PermissionTimeExceptionReview,
		PermissionTimeExceptionEscalate,
		PermissionCorrectionViewAll,
		PermissionCorrectionReview,
		PermissionPayrollConfigView,
	}, selfService...),
	RolePayrollSpecialist: append([]Permission{
		PermissionPolicyView,
		PermissionPayrollConfigView,
		PermissionPayrollConfigManage,
	}, selfService...),
	RolePayrollManager: append([]Permission{
		PermissionPolicyView,
		PermissionPayrollConfigView,
		PermissionPayrollConfigApprove,
	}, selfService...),
	RoleDepartmentHead: append([]Permission{
		PermissionEmployeeViewAll,
		PermissionShiftView,
		PermissionAttendanceViewAll,
		PermissionTimeExceptionViewAll,
		PermissionTimeExceptionReview,
		PermissionCorrectionViewAll,
		PermissionCorrectionReview,
	}, selfService...),
	RoleEmployee: selfService,
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	permissions, exists := RolePermissions[role]
	if !exists {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}

	return false
}
