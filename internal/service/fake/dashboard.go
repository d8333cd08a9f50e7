package fake

import (
	"context"
	"sync"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/dashboard"
)

// DashboardRepo returns canned aggregates and remembers the arguments it saw.
type DashboardRepo struct {
	mu sync.Mutex

	Stats         dashboard.EmployeeStats
	DayCounts     dashboard.AttendanceCounts
	RangeCounts   dashboard.AttendanceCounts
	PendingLeaves int64
	Tasks         dashboard.TaskCounts
	Err           error

	TaskAssignee *string
	RangeFrom    time.Time
	RangeTo      time.Time
}

func (r *DashboardRepo) GetEmployeeStats(context.Context) (*dashboard.EmployeeStats, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	s := r.Stats
	return &s, nil
}

func (r *DashboardRepo) GetAttendanceCounts(context.Context, time.Time, *string) (*dashboard.AttendanceCounts, error) {
	c := r.DayCounts
	return &c, nil
}

func (r *DashboardRepo) GetAttendanceCountsBetween(_ context.Context, _ string, from, to time.Time) (*dashboard.AttendanceCounts, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.RangeFrom, r.RangeTo = from, to
	c := r.RangeCounts
	return &c, nil
}

func (r *DashboardRepo) CountPendingLeaves(context.Context) (int64, error) {
	return r.PendingLeaves, nil
}

func (r *DashboardRepo) GetTaskCounts(_ context.Context, assignee *string, _ time.Time) (*dashboard.TaskCounts, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.TaskAssignee = assignee
	c := r.Tasks
	return &c, nil
}
