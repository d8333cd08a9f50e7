package dashboard

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/audit"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/task"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/utils"
	auditservice "github.com/cmlabs-hris/ems-backend-go/internal/service/audit"
)

const (
	recentActivityLimit = 10
	recentItemsLimit    = 5
)

type DashboardServiceImpl struct {
	dashboard.DashboardRepository
	auditLogs      audit.LogRepository
	leaveRepo      leave.LeaveRepository
	balanceRepo    leave.BalanceRepository
	taskRepo       task.TaskRepository
	attendanceRepo attendance.AttendanceRepository
	now            func() time.Time
}

func NewDashboardService(
	repo dashboard.DashboardRepository,
	auditLogs audit.LogRepository,
	leaveRepo leave.LeaveRepository,
	balanceRepo leave.BalanceRepository,
	taskRepo task.TaskRepository,
	attendanceRepo attendance.AttendanceRepository,
) dashboard.DashboardService {
	return &DashboardServiceImpl{
		DashboardRepository: repo,
		auditLogs:           auditLogs,
		leaveRepo:           leaveRepo,
		balanceRepo:         balanceRepo,
		taskRepo:            taskRepo,
		attendanceRepo:      attendanceRepo,
		now:                 time.Now,
	}
}

// GetAdminDashboard returns headcount, payroll and recent audit activity.
func (s *DashboardServiceImpl) GetAdminDashboard(ctx context.Context) (*dashboard.AdminDashboardResponse, error) {
	var (
		stats  *dashboard.EmployeeStats
		recent []audit.Log
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		stats, err = s.GetEmployeeStats(gCtx)
		return err
	})

	g.Go(func() error {
		var err error
		recent, err = s.auditLogs.ListRecent(gCtx, recentActivityLimit)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	departments := stats.Departments
	if departments == nil {
		departments = []string{}
	}
	return &dashboard.AdminDashboardResponse{
		TotalEmployees:  stats.Total,
		ActiveEmployees: stats.Active,
		LockedAccounts:  stats.Locked,
		RoleCounts:      stats.ByRole,
		TotalSalary:     stats.SalaryTotal.StringFixed(2),
		Departments:     departments,
		RecentActivity:  auditservice.ToLogResponses(recent),
	}, nil
}

// GetHRDashboard returns today's register, pending work and the latest rows.
func (s *DashboardServiceImpl) GetHRDashboard(ctx context.Context) (*dashboard.HRDashboardResponse, error) {
	today := utils.DateOnly(s.now())
	resp := &dashboard.HRDashboardResponse{Date: today.Format(utils.DateLayout)}

	g, gCtx := errgroup.WithContext(ctx)

	// 1. Today's attendance
	g.Go(func() error {
		counts, err := s.GetAttendanceCounts(gCtx, today, nil)
		if err != nil {
			return err
		}
		resp.PresentToday = counts.Present
		resp.AbsentToday = counts.Absent
		resp.OnLeaveToday = counts.OnLeave
		return nil
	})

	// 2. Leave queue
	g.Go(func() error {
		pending, err := s.CountPendingLeaves(gCtx)
		resp.PendingLeaves = pending
		return err
	})

	// 3. Task backlog across the organisation
	g.Go(func() error {
		counts, err := s.GetTaskCounts(gCtx, nil, today)
		if err != nil {
			return err
		}
		resp.PendingTasks = counts.Pending
		resp.OverdueTasks = counts.Overdue
		return nil
	})

	// 4. Recent rows
	g.Go(func() error {
		leaves, _, err := s.leaveRepo.List(gCtx, leave.LeaveFilter{Page: 1, Limit: recentItemsLimit})
		if err != nil {
			return err
		}
		resp.RecentLeaves = toLeaveResponses(leaves)
		return nil
	})

	g.Go(func() error {
		tasks, _, err := s.taskRepo.List(gCtx, task.TaskFilter{Page: 1, Limit: recentItemsLimit})
		if err != nil {
			return err
		}
		resp.RecentTasks = make([]task.TaskResponse, 0, len(tasks))
		for _, t := range tasks {
			resp.RecentTasks = append(resp.RecentTasks, task.ToResponse(t, today))
		}
		return nil
	})

	g.Go(func() error {
		rows, _, err := s.attendanceRepo.List(gCtx, attendance.AttendanceFilter{Page: 1, Limit: recentItemsLimit})
		if err != nil {
			return err
		}
		resp.RecentAttendance = make([]attendance.AttendanceResponse, 0, len(rows))
		for _, a := range rows {
			resp.RecentAttendance = append(resp.RecentAttendance, attendance.ToResponse(a))
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return resp, nil
}

// GetEmployeeDashboard returns the actor's own day, tasks, leaves and month.
func (s *DashboardServiceImpl) GetEmployeeDashboard(ctx context.Context, actor user.Actor) (*dashboard.EmployeeDashboardResponse, error) {
	today := utils.DateOnly(s.now())
	monthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	resp := &dashboard.EmployeeDashboardResponse{}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		row, err := s.attendanceRepo.GetByUserAndDate(gCtx, actor.ID, today)
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		r := attendance.ToResponse(row)
		resp.Today = &r
		return nil
	})

	g.Go(func() error {
		counts, err := s.GetTaskCounts(gCtx, &actor.ID, today)
		if err != nil {
			return err
		}
		resp.PendingTasks = counts.Pending
		resp.InProgressTasks = counts.InProgress
		resp.CompletedTasks = counts.Completed
		resp.OverdueTasks = counts.Overdue
		return nil
	})

	g.Go(func() error {
		leaves, _, err := s.leaveRepo.List(gCtx, leave.LeaveFilter{UserID: &actor.ID, Page: 1, Limit: recentItemsLimit})
		if err != nil {
			return err
		}
		resp.RecentLeaves = toLeaveResponses(leaves)
		return nil
	})

	g.Go(func() error {
		balance, err := s.balanceRepo.GetOrCreate(gCtx, actor.ID, today.Year())
		if err != nil {
			return err
		}
		resp.Balance = leave.ToBalanceResponse(balance)
		return nil
	})

	g.Go(func() error {
		counts, err := s.GetAttendanceCountsBetween(gCtx, actor.ID, monthStart, today)
		if err != nil {
			return err
		}
		resp.PresentDays = counts.Present
		resp.AbsentDays = counts.Absent
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return resp, nil
}

func toLeaveResponses(leaves []leave.Leave) []leave.LeaveResponse {
	out := make([]leave.LeaveResponse, 0, len(leaves))
	for _, l := range leaves {
		out = append(out, leave.ToResponse(l))
	}
	return out
}
