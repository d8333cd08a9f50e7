package dashboard

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/audit"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/task"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/ems-backend-go/internal/service/fake"
)

var now = time.Date(2026, 3, 18, 10, 0, 0, 0, time.UTC)

type fixture struct {
	svc        *DashboardServiceImpl
	repo       *fake.DashboardRepo
	logs       *fake.AuditLogRepo
	leaves     *fake.LeaveRepo
	tasks      *fake.TaskRepo
	attendance *fake.AttendanceRepo
}

func newFixture() fixture {
	f := fixture{
		repo:       &fake.DashboardRepo{},
		logs:       &fake.AuditLogRepo{},
		leaves:     fake.NewLeaveRepo(),
		tasks:      fake.NewTaskRepo(),
		attendance: fake.NewAttendanceRepo(),
	}
	svc := NewDashboardService(f.repo, f.logs, f.leaves, fake.NewBalanceRepo(), f.tasks, f.attendance).(*DashboardServiceImpl)
	svc.now = func() time.Time { return now }
	f.svc = svc
	return f
}

func TestGetAdminDashboard(t *testing.T) {
	f := newFixture()
	f.repo.Stats = dashboard.EmployeeStats{
		Total:       12,
		Active:      10,
		Locked:      1,
		ByRole:      map[string]int64{"Admin": 1, "HR": 2, "Employee": 9},
		SalaryTotal: decimal.RequireFromString("123456.5"),
		Departments: []string{"Engineering", "Finance"},
	}
	for i := 0; i < 12; i++ {
		require.NoError(t, f.logs.Create(context.Background(), audit.Log{Action: fmt.Sprintf("action-%d", i), Timestamp: now}))
	}

	resp, err := f.svc.GetAdminDashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(12), resp.TotalEmployees)
	assert.Equal(t, int64(10), resp.ActiveEmployees)
	assert.Equal(t, int64(1), resp.LockedAccounts)
	assert.Equal(t, int64(9), resp.RoleCounts["Employee"])
	assert.Equal(t, "123456.50", resp.TotalSalary)
	assert.Equal(t, []string{"Engineering", "Finance"}, resp.Departments)
	require.Len(t, resp.RecentActivity, recentActivityLimit)
	assert.Equal(t, "action-11", resp.RecentActivity[0].Action)
}

func TestGetAdminDashboard_EmptyOrganisation(t *testing.T) {
	f := newFixture()

	resp, err := f.svc.GetAdminDashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "0.00", resp.TotalSalary)
	assert.NotNil(t, resp.Departments)
	assert.Empty(t, resp.RecentActivity)
}

func TestGetAdminDashboard_PropagatesErrors(t *testing.T) {
	f := newFixture()
	f.repo.Err = errors.New("connection reset")

	_, err := f.svc.GetAdminDashboard(context.Background())
	assert.EqualError(t, err, "connection reset")
}

func TestGetHRDashboard(t *testing.T) {
	f := newFixture()
	f.repo.DayCounts = dashboard.AttendanceCounts{Present: 7, Absent: 2, OnLeave: 1}
	f.repo.PendingLeaves = 3
	f.repo.Tasks = dashboard.TaskCounts{Pending: 4, Overdue: 2}

	ctx := context.Background()
	for i := 1; i <= 7; i++ {
		_, err := f.leaves.Create(ctx, leave.Leave{
			UserID:    "u-jane",
			LeaveType: leave.TypeSick,
			StartDate: now.AddDate(0, 0, i),
			EndDate:   now.AddDate(0, 0, i),
			Status:    leave.StatusPending,
		})
		require.NoError(t, err)
		_, err = f.tasks.Create(ctx, task.Task{AssignedTo: "u-jane", Title: "Task", Status: task.StatusPending, DueDate: now})
		require.NoError(t, err)
	}
	_, err := f.attendance.Upsert(ctx, attendance.Attendance{UserID: "u-jane", Date: now, Status: attendance.StatusPresent})
	require.NoError(t, err)

	resp, err := f.svc.GetHRDashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-18", resp.Date)
	assert.Equal(t, int64(7), resp.PresentToday)
	assert.Equal(t, int64(2), resp.AbsentToday)
	assert.Equal(t, int64(1), resp.OnLeaveToday)
	assert.Equal(t, int64(3), resp.PendingLeaves)
	assert.Equal(t, int64(4), resp.PendingTasks)
	assert.Equal(t, int64(2), resp.OverdueTasks)
	assert.Nil(t, f.repo.TaskAssignee)
	assert.Len(t, resp.RecentLeaves, recentItemsLimit)
	assert.Len(t, resp.RecentTasks, recentItemsLimit)
	require.Len(t, resp.RecentAttendance, 1)
	assert.Equal(t, "Present", resp.RecentAttendance[0].Status)
}

func TestGetEmployeeDashboard(t *testing.T) {
	f := newFixture()
	f.repo.Tasks = dashboard.TaskCounts{Pending: 1, InProgress: 2, Completed: 5, Overdue: 1}
	f.repo.RangeCounts = dashboard.AttendanceCounts{Present: 11, Absent: 1}

	ctx := context.Background()
	in := time.Date(2026, 3, 18, 9, 0, 0, 0, time.UTC)
	_, err := f.attendance.Upsert(ctx, attendance.Attendance{UserID: "u-jane", Date: now, Status: attendance.StatusPresent, CheckIn: &in})
	require.NoError(t, err)
	_, err = f.leaves.Create(ctx, leave.Leave{UserID: "u-jane", LeaveType: leave.TypeCasual, StartDate: now, EndDate: now, Status: leave.StatusApproved})
	require.NoError(t, err)
	_, err = f.leaves.Create(ctx, leave.Leave{UserID: "u-bob", LeaveType: leave.TypeCasual, StartDate: now, EndDate: now, Status: leave.StatusPending})
	require.NoError(t, err)

	resp, err := f.svc.GetEmployeeDashboard(ctx, user.Actor{ID: "u-jane", Role: user.RoleEmployee})
	require.NoError(t, err)

	require.NotNil(t, resp.Today)
	assert.Equal(t, "09:00", *resp.Today.CheckIn)
	assert.Equal(t, int64(2), resp.InProgressTasks)
	assert.Equal(t, int64(5), resp.CompletedTasks)
	require.NotNil(t, f.repo.TaskAssignee)
	assert.Equal(t, "u-jane", *f.repo.TaskAssignee)
	require.Len(t, resp.RecentLeaves, 1)
	assert.Equal(t, "u-jane", resp.RecentLeaves[0].UserID)
	assert.Equal(t, 2026, resp.Balance.Year)
	assert.Equal(t, 12, resp.Balance.SickLeave)
	assert.Equal(t, int64(11), resp.PresentDays)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), f.repo.RangeFrom)
	assert.Equal(t, time.Date(2026, 3, 18, 0, 0, 0, 0, time.UTC), f.repo.RangeTo)
}

func TestGetEmployeeDashboard_NotMarkedToday(t *testing.T) {
	f := newFixture()

	resp, err := f.svc.GetEmployeeDashboard(context.Background(), user.Actor{ID: "u-jane", Role: user.RoleEmployee})
	require.NoError(t, err)
	assert.Nil(t, resp.Today)
	assert.Empty(t, resp.RecentLeaves)
}
