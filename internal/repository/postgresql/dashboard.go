package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/database"
)

type dashboardRepositoryImpl struct {
	db *database.DB
}

func NewDashboardRepository(db *database.DB) dashboard.DashboardRepository {
	return &dashboardRepositoryImpl{db: db}
}

// GetEmployeeStats returns headcount, locks and active payroll in a single pass, then roles and departments
func (r *dashboardRepositoryImpl) GetEmployeeStats(ctx context.Context) (*dashboard.EmployeeStats, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			COUNT(*) as total,
			COALESCE(SUM(CASE WHEN is_active THEN 1 ELSE 0 END), 0) as active_count,
			COALESCE(SUM(CASE WHEN is_account_locked THEN 1 ELSE 0 END), 0) as locked_count,
			COALESCE(SUM(CASE WHEN is_active THEN salary ELSE 0 END), 0) as salary_total
		FROM users
	`

	stats := dashboard.EmployeeStats{ByRole: make(map[string]int64)}
	err := q.QueryRow(ctx, query).Scan(&stats.Total, &stats.Active, &stats.Locked, &stats.SalaryTotal)
	if err != nil {
		return nil, fmt.Errorf("failed to get employee stats: %w", err)
	}

	rows, err := q.Query(ctx, `SELECT role, COUNT(*) FROM users GROUP BY role`)
	if err != nil {
		return nil, fmt.Errorf("failed to get role counts: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var role string
		var count int64
		if err := rows.Scan(&role, &count); err != nil {
			return nil, err
		}
		stats.ByRole[role] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	deptRows, err := q.Query(ctx, `
		SELECT DISTINCT department FROM users
		WHERE department IS NOT NULL AND department <> ''
		ORDER BY department
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to get departments: %w", err)
	}
	defer deptRows.Close()
	for deptRows.Next() {
		var dept string
		if err := deptRows.Scan(&dept); err != nil {
			return nil, err
		}
		stats.Departments = append(stats.Departments, dept)
	}
	return &stats, deptRows.Err()
}

const attendanceCountColumns = `
	COALESCE(SUM(CASE WHEN status = 'Present' THEN 1 ELSE 0 END), 0) as present_count,
	COALESCE(SUM(CASE WHEN status = 'Absent' THEN 1 ELSE 0 END), 0) as absent_count,
	COALESCE(SUM(CASE WHEN status = 'On Leave' THEN 1 ELSE 0 END), 0) as on_leave_count`

// GetAttendanceCounts implements dashboard.DashboardRepository.
func (r *dashboardRepositoryImpl) GetAttendanceCounts(ctx context.Context, day time.Time, userID *string) (*dashboard.AttendanceCounts, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + attendanceCountColumns + `
		FROM attendances
		WHERE date = $1 AND ($2::uuid IS NULL OR user_id = $2::uuid)
	`

	var counts dashboard.AttendanceCounts
	if err := q.QueryRow(ctx, query, day, userID).Scan(&counts.Present, &counts.Absent, &counts.OnLeave); err != nil {
		return nil, fmt.Errorf("failed to get attendance counts: %w", err)
	}
	return &counts, nil
}

func (r *dashboardRepositoryImpl) GetAttendanceCountsBetween(ctx context.Context, userID string, from, to time.Time) (*dashboard.AttendanceCounts, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + attendanceCountColumns + `
		FROM attendances
		WHERE user_id = $1 AND date BETWEEN $2 AND $3
	`

	var counts dashboard.AttendanceCounts
	if err := q.QueryRow(ctx, query, userID, from, to).Scan(&counts.Present, &counts.Absent, &counts.OnLeave); err != nil {
		return nil, fmt.Errorf("failed to get attendance counts: %w", err)
	}
	return &counts, nil
}

func (r *dashboardRepositoryImpl) CountPendingLeaves(ctx context.Context) (int64, error) {
	q := GetQuerier(ctx, r.db)

	var count int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM leaves WHERE status = 'Pending'`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count pending leaves: %w", err)
	}
	return count, nil
}

// GetTaskCounts counts overdue tasks the same way Task.IsOverdue does
func (r *dashboardRepositoryImpl) GetTaskCounts(ctx context.Context, assignee *string, today time.Time) (*dashboard.TaskCounts, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			COALESCE(SUM(CASE WHEN status = 'Pending' THEN 1 ELSE 0 END), 0) as pending_count,
			COALESCE(SUM(CASE WHEN status = 'In Progress' THEN 1 ELSE 0 END), 0) as in_progress_count,
			COALESCE(SUM(CASE WHEN status = 'Completed' THEN 1 ELSE 0 END), 0) as completed_count,
			COALESCE(SUM(CASE WHEN due_date < $2 AND status NOT IN ('Completed', 'Cancelled') THEN 1 ELSE 0 END), 0) as overdue_count
		FROM tasks
		WHERE ($1::uuid IS NULL OR assigned_to = $1::uuid)
	`

	var counts dashboard.TaskCounts
	err := q.QueryRow(ctx, query, assignee, today).Scan(&counts.Pending, &counts.InProgress, &counts.Completed, &counts.Overdue)
	if err != nil {
		return nil, fmt.Errorf("failed to get task counts: %w", err)
	}
	return &counts, nil
}
