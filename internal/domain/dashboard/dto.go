package dashboard

import (
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/audit"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/task"
)

// ========== ADMIN ==========

type AdminDashboardResponse struct {
	TotalEmployees  int64               `json:"total_employees"`
	ActiveEmployees int64               `json:"active_employees"`
	LockedAccounts  int64               `json:"locked_accounts"`
	RoleCounts      map[string]int64    `json:"role_counts"`
	TotalSalary     string              `json:"total_salary"`
	Departments     []string            `json:"departments"`
	RecentActivity  []audit.LogResponse `json:"recent_activity"`
}

// ========== HR ==========

type HRDashboardResponse struct {
	Date             string                          `json:"date"`
	PresentToday     int64                           `json:"present_today"`
	AbsentToday      int64                           `json:"absent_today"`
	OnLeaveToday     int64                           `json:"on_leave_today"`
	PendingLeaves    int64                           `json:"pending_leaves"`
	PendingTasks     int64                           `json:"pending_tasks"`
	OverdueTasks     int64                           `json:"overdue_tasks"`
	RecentLeaves     []leave.LeaveResponse           `json:"recent_leaves"`
	RecentTasks      []task.TaskResponse             `json:"recent_tasks"`
	RecentAttendance []attendance.AttendanceResponse `json:"recent_attendance"`
}

// ========== EMPLOYEE ==========

type EmployeeDashboardResponse struct {
	Today           *attendance.AttendanceResponse `json:"today_attendance"`
	PendingTasks    int64                          `json:"pending_tasks"`
	InProgressTasks int64                          `json:"in_progress_tasks"`
	CompletedTasks  int64                          `json:"completed_tasks"`
	OverdueTasks    int64                          `json:"overdue_tasks"`
	RecentLeaves    []leave.LeaveResponse          `json:"recent_leaves"`
	Balance         leave.BalanceResponse          `json:"leave_balance"`
	PresentDays     int64                          `json:"present_days_this_month"`
	AbsentDays      int64                          `json:"absent_days_this_month"`
}
