package user

import "slices"

type Permission string

const (
	PermissionEmployeeView   Permission = "employee.view"
	PermissionEmployeeManage Permission = "employee.manage"

	PermissionAttendanceManage Permission = "attendance.manage"

	// transactions and installment advances
	PermissionLedgerManage Permission = "ledger.manage"

	PermissionPayrollView Permission = "payroll.view"
	PermissionPayrollSeal Permission = "payroll.seal"

	PermissionDashboardView Permission = "dashboard.view"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleOwner: {
		PermissionEmployeeView,
		PermissionEmployeeManage,
		PermissionAttendanceManage,
		PermissionLedgerManage,
		PermissionPayrollView,
		PermissionPayrollSeal,
		PermissionDashboardView,
	},
	RoleManager: {
		PermissionEmployeeView,
		PermissionEmployeeManage,
		PermissionAttendanceManage,
		PermissionLedgerManage,
		PermissionPayrollView,
		PermissionDashboardView,
	},
	RoleEmployee: {
		PermissionEmployeeView,
		PermissionPayrollView,
		PermissionDashboardView,
	},
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	return slices.Contains(RolePermissions[role], permission)
}
