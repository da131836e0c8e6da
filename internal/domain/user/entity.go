package user

type Role string

const (
	RoleSystemAdmin       Role = "SYSTEM_ADMIN"
	RoleHRAdmin           Role = "HR_ADMIN"
	RoleHRManager         Role = "HR_MANAGER"
	RolePayrollSpecialist Role = "PAYROLL_SPECIALIST"
	RolePayrollManager    Role = "PAYROLL_MANAGER"
	RoleDepartmentHead    Role = "DEPARTMENT_HEAD"
	RoleEmployee          Role = "EMPLOYEE"
)

var AllRoles = []Role{
	RoleSystemAdmin,
	RoleHRAdmin,
	RoleHRManager,
	RolePayrollSpecialist,
	RolePayrollManager,
	RoleDepartmentHead,
	RoleEmployee,
}

func (r Role) IsValid() bool {
	for _, role := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}

// Actor is the authenticated caller as read from the access token.
type Actor struct {
	UserID     string
	EmployeeID *string
	Role       Role
}

// SystemActor is used by background jobs.
var SystemActor = Actor{UserID: "system", Role: RoleSystemAdmin}

func (a Actor) IsSystem() bool {
	return a.UserID == SystemActor.UserID
}

// IsHR reports whether the actor may act on other employees' time data.
func (a Actor) IsHR() bool {
	switch a.Role {
	case RoleSystemAdmin, RoleHRAdmin, RoleHRManager:
		return true
	}
	return false
}

// IsReviewer reports whether the actor may review time exceptions and corrections.
func (a Actor) IsReviewer() bool {
	return a.IsHR() || a.Role == RoleDepartmentHead
}

// OwnsEmployee reports whether employeeID is the actor's own employee profile.
func (a Actor) OwnsEmployee(employeeID string) bool {
	return a.EmployeeID != nil && *a.EmployeeID == employeeID
}

// CreatedBy returns the user id to stamp on created rows, nil for background jobs.
func (a Actor) CreatedBy() *string {
	if a.IsSystem() || a.UserID == "" {
		return nil
	}
	id := a.UserID
	return &id
}
