package access

import (
	"net/http"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/user"
)

const prefix = "/api/v1"

func route(method, pattern string, perm user.Permission) Route {
	return Route{Method: method, Pattern: prefix + pattern, Permission: perm}
}

// Routes is the capability table for every authenticated endpoint.
// Public endpoints (login, refresh) are mounted outside the gate.
func Routes() []Route {
	return []Route{
		// Session & profile
		route(http.MethodPost, "/auth/logout", user.PermissionViewOwnProfile),
		route(http.MethodPost, "/auth/password/otp", user.PermissionEditOwnProfile),
		route(http.MethodPost, "/auth/password/change", user.PermissionEditOwnProfile),
		route(http.MethodGet, "/me", user.PermissionViewOwnProfile),
		route(http.MethodPut, "/me", user.PermissionEditOwnProfile),

		// Dashboards
		route(http.MethodGet, "/dashboard/admin", user.PermissionDashboardAdmin),
		route(http.MethodGet, "/dashboard/hr", user.PermissionDashboardHR),
		route(http.MethodGet, "/dashboard/employee", user.PermissionDashboardEmployee),

		// Employees
		route(http.MethodGet, "/employees", user.PermissionEmployeeViewAll),
		route(http.MethodPost, "/employees", user.PermissionEmployeeManage),
		route(http.MethodGet, "/employees/export", user.PermissionEmployeeExport),
		route(http.MethodPost, "/employees/bulk", user.PermissionEmployeeManage),
		route(http.MethodGet, "/employees/{id}", user.PermissionEmployeeViewAll),
		route(http.MethodPut, "/employees/{id}", user.PermissionEmployeeManage),
		route(http.MethodDelete, "/employees/{id}", user.PermissionEmployeeManage),
		route(http.MethodPost, "/employees/{id}/toggle-active", user.PermissionEmployeeManage),
		route(http.MethodPost, "/employees/{id}/unlock", user.PermissionEmployeeManage),
		route(http.MethodPost, "/employees/{id}/reset-password", user.PermissionEmployeeManage),

		// Notifications & security
		route(http.MethodPost, "/notifications", user.PermissionNotificationSend),
		route(http.MethodGet, "/security/login-attempts", user.PermissionSecurityView),
		route(http.MethodGet, "/security/audit-logs", user.PermissionSecurityView),

		// Tasks
		route(http.MethodPost, "/tasks", user.PermissionTaskManage),
		route(http.MethodGet, "/tasks/assigned", user.PermissionTaskManage),
		route(http.MethodGet, "/tasks/mine", user.PermissionTaskViewOwn),
		route(http.MethodGet, "/tasks/{id}", user.PermissionTaskViewOwn),
		route(http.MethodPut, "/tasks/{id}", user.PermissionTaskManage),
		route(http.MethodDelete, "/tasks/{id}", user.PermissionTaskManage),
		route(http.MethodPost, "/tasks/{id}/accept", user.PermissionTaskViewOwn),
		route(http.MethodPost, "/tasks/{id}/reject", user.PermissionTaskViewOwn),
		route(http.MethodPost, "/tasks/{id}/status", user.PermissionTaskViewOwn),
		route(http.MethodGet, "/tasks/{id}/submission", user.PermissionTaskViewOwn),

		// Leaves
		route(http.MethodPost, "/leaves", user.PermissionLeaveCreate),
		route(http.MethodGet, "/leaves", user.PermissionLeaveViewAll),
		route(http.MethodGet, "/leaves/mine", user.PermissionLeaveViewOwn),
		route(http.MethodGet, "/leaves/balance", user.PermissionLeaveViewOwn),
		route(http.MethodGet, "/leaves/{id}", user.PermissionLeaveViewOwn),
		route(http.MethodPost, "/leaves/{id}/decision", user.PermissionLeaveApprove),
		route(http.MethodPost, "/leaves/{id}/cancel", user.PermissionLeaveCreate),

		// Attendance
		route(http.MethodPost, "/attendance/self", user.PermissionAttendanceCreate),
		route(http.MethodGet, "/attendance/mine", user.PermissionAttendanceViewOwn),
		route(http.MethodGet, "/attendance", user.PermissionAttendanceViewAll),
		route(http.MethodPost, "/attendance", user.PermissionAttendanceManage),
		route(http.MethodPost, "/attendance/bulk", user.PermissionAttendanceManage),
		route(http.MethodGet, "/attendance/export", user.PermissionAttendanceExport),
		route(http.MethodPut, "/attendance/{id}", user.PermissionAttendanceManage),
		route(http.MethodPost, "/attendance/{id}/verify", user.PermissionAttendanceManage),

		// Reports
		route(http.MethodGet, "/reports/attendance/{userID}", user.PermissionReportsView),
	}
}
