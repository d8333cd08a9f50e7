package user

type Permission string

const (
	// Self Management
	PermissionViewOwnProfile Permission = "profile.view_own"
	PermissionEditOwnProfile Permission = "profile.edit_own"

	// Dashboards
	PermissionDashboardAdmin    Permission = "dashboard.admin"
	PermissionDashboardHR       Permission = "dashboard.hr"
	PermissionDashboardEmployee Permission = "dashboard.employee"

	// Employee Management
	PermissionEmployeeViewAll Permission = "employee.view_all"
	PermissionEmployeeManage  Permission = "employee.manage"
	PermissionEmployeeExport  Permission = "employee.export"

	// Notifications and security logs
	PermissionNotificationSend Permission = "notification.send"
	PermissionSecurityView     Permission = "security.view"

	// Task Management
	PermissionTaskViewOwn Permission = "task.view_own"
	PermissionTaskManage  Permission = "task.manage"

	// Leave Management
	PermissionLeaveViewOwn Permission = "leave.view_own"
	PermissionLeaveCreate  Permission = "leave.create"
	PermissionLeaveViewAll Permission = "leave.view_all"
	PermissionLeaveApprove Permission = "leave.approve"

	// Attendance Management
	PermissionAttendanceViewOwn Permission = "attendance.view_own"
	PermissionAttendanceCreate  Permission = "attendance.create"
	PermissionAttendanceViewAll Permission = "attendance.view_all"
	PermissionAttendanceManage  Permission = "attendance.manage"
	PermissionAttendanceExport  Permission = "attendance.export"

	// Reports
	PermissionReportsView Permission = "reports.view"
)

var selfService = []Permission{
	PermissionViewOwnProfile,
	PermissionEditOwnProfile,
	PermissionDashboardEmployee,
	PermissionTaskViewOwn,
	PermissionLeaveViewOwn,
	PermissionLeaveCreate,
	PermissionAttendanceViewOwn,
	PermissionAttendanceCreate,
}

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleAdmin: append(append([]Permission{}, selfService...),
		PermissionDashboardAdmin,
		PermissionDashboardHR,
		PermissionEmployeeViewAll,
		PermissionEmployeeManage,
		PermissionEmployeeExport,
		PermissionNotificationSend,
		PermissionSecurityView,
		PermissionTaskManage,
		PermissionLeaveViewAll,
		PermissionLeaveApprove,
		PermissionAttendanceViewAll,
		PermissionAttendanceManage,
		PermissionAttendanceExport,
		PermissionReportsView,
	),
	RoleHR: append(append([]Permission{}, selfService...),
		PermissionDashboardHR,
		PermissionEmployeeViewAll,
		PermissionNotificationSend,
		PermissionTaskManage,
		PermissionLeaveViewAll,
		PermissionLeaveApprove,
		PermissionAttendanceViewAll,
		PermissionAttendanceManage,
		PermissionAttendanceExport,
		PermissionReportsView,
	),
	RoleEmployee: append([]Permission{}, selfService...),
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
