package audit

import "time"

// Action labels written to the audit log.
const (
	ActionLogin              = "login"
	ActionLogout             = "logout"
	ActionPasswordChanged    = "password_changed"
	ActionEmployeeCreated    = "employee_created"
	ActionEmployeeUpdated    = "employee_updated"
	ActionEmployeeActivated  = "employee_activated"
	ActionEmployeeDeactivate = "employee_deactivated"
	ActionEmployeeUnlocked   = "employee_unlocked"
	ActionEmployeeDeleted    = "employee_deleted"
	ActionPasswordReset      = "password_reset"
	ActionBulkAction         = "bulk_action"
	ActionNotificationSent   = "notification_sent"
	ActionProfileUpdated     = "profile_updated"
	ActionTaskCreated        = "task_created"
	ActionTaskUpdated        = "task_updated"
	ActionTaskAccepted       = "task_accepted"
	ActionTaskRejected       = "task_rejected"
	ActionTaskStatusChanged  = "task_status_changed"
	ActionTaskDeleted        = "task_deleted"
	ActionLeaveApplied       = "leave_applied"
	ActionLeaveApproved      = "leave_approved"
	ActionLeaveRejected      = "leave_rejected"
	ActionLeaveCancelled     = "leave_cancelled"
	ActionAttendanceMarked   = "attendance_marked"
	ActionAttendanceBulk     = "attendance_bulk_marked"
	ActionAttendanceEdited   = "attendance_edited"
	ActionAttendanceVerified = "attendance_verified"
)

type Log struct {
	ID        string
	UserID    *string
	Action    string
	Details   string
	IPAddress *string
	Timestamp time.Time

	// Join
	Username *string
}

type LoginAttempt struct {
	ID        string
	Username  string
	IPAddress string
	Success   bool
	UserAgent string
	Timestamp time.Time
}
