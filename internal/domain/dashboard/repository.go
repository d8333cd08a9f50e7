package dashboard

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// EmployeeStats combines the headcount figures of the admin dashboard in one query
type EmployeeStats struct {
	Total       int64
	Active      int64
	Locked      int64
	ByRole      map[string]int64
	SalaryTotal decimal.Decimal // active employees only
	Departments []string
}

// AttendanceCounts holds status counts for a single day
type AttendanceCounts struct {
	Present int64
	Absent  int64
	OnLeave int64
}

// TaskCounts groups one user's tasks, or every task when no user is given
type TaskCounts struct {
	Pending    int64
	InProgress int64
	Completed  int64
	Overdue    int64
}

// DashboardRepository defines the aggregate reads behind the three dashboards
type DashboardRepository interface {
	GetEmployeeStats(ctx context.Context) (*EmployeeStats, error)

	// GetAttendanceCounts counts one day's rows; a nil userID counts everyone
	GetAttendanceCounts(ctx context.Context, day time.Time, userID *string) (*AttendanceCounts, error)

	// GetAttendanceCountsBetween counts [from, to] for one user
	GetAttendanceCountsBetween(ctx context.Context, userID string, from, to time.Time) (*AttendanceCounts, error)

	CountPendingLeaves(ctx context.Context) (int64, error)

	// GetTaskCounts aggregates tasks; a nil assignee counts every task
	GetTaskCounts(ctx context.Context, assignee *string, today time.Time) (*TaskCounts, error)
}
