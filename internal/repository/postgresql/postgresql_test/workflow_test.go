package postgresql_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/task"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/ems-backend-go/internal/repository/postgresql"
)

var day = time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

func TestAttendanceRepository_OneRowPerDay(t *testing.T) {
	db := newTestDB(t)
	repo := postgresql.NewAttendanceRepository(db)
	ctx := context.Background()
	u := createUser(t, db, "jane.doe", user.RoleEmployee)

	in := time.Date(2026, 3, 10, 9, 15, 0, 0, time.UTC)
	row, created, err := repo.InsertIfAbsent(ctx, attendance.Attendance{UserID: u.ID, Date: day, Status: attendance.StatusPresent, CheckIn: &in})
	require.NoError(t, err)
	assert.True(t, created)
	require.NotNil(t, row.CheckIn)
	assert.True(t, in.Equal(*row.CheckIn))

	_, created, err = repo.InsertIfAbsent(ctx, attendance.Attendance{UserID: u.ID, Date: day, Status: attendance.StatusPresent})
	require.NoError(t, err)
	assert.False(t, created)

	marker := createUser(t, db, "hana.rao", user.RoleHR)
	over, err := repo.Upsert(ctx, attendance.Attendance{UserID: u.ID, Date: day, Status: attendance.StatusOnLeave, MarkedBy: &marker.ID, IsVerified: true})
	require.NoError(t, err)
	assert.Equal(t, row.ID, over.ID)
	assert.Equal(t, attendance.StatusOnLeave, over.Status)
	assert.Nil(t, over.CheckIn)

	rows, total, err := repo.List(ctx, attendance.AttendanceFilter{UserID: &u.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, rows, 1)
}

func TestLeaveRepository_OverlapAndDecide(t *testing.T) {
	db := newTestDB(t)
	repo := postgresql.NewLeaveRepository(db)
	ctx := context.Background()
	u := createUser(t, db, "jane.doe", user.RoleEmployee)

	var created leave.Leave
	err := db.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := repo.LockUser(ctx, u.ID); err != nil {
			return err
		}
		var err error
		created, err = repo.Create(ctx, leave.Leave{
			UserID: u.ID, LeaveType: leave.TypeSick, StartDate: day, EndDate: day.AddDate(0, 0, 2),
			Reason: "Flu", Status: leave.StatusPending,
		})
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, "jane.doe", *created.UserName)

	overlap, err := repo.HasOverlap(ctx, u.ID, day.AddDate(0, 0, 2), day.AddDate(0, 0, 4))
	require.NoError(t, err)
	assert.True(t, overlap)

	overlap, err = repo.HasOverlap(ctx, u.ID, day.AddDate(0, 0, 3), day.AddDate(0, 0, 4))
	require.NoError(t, err)
	assert.False(t, overlap)

	hr := createUser(t, db, "hana.rao", user.RoleHR)
	err = db.WithinTransaction(ctx, func(ctx context.Context) error {
		l, err := repo.GetByIDForUpdate(ctx, created.ID)
		if err != nil {
			return err
		}
		if err := l.Decide(leave.StatusRejected, hr.ID, nil, time.Now()); err != nil {
			return err
		}
		return repo.UpdateStatus(ctx, l)
	})
	require.NoError(t, err)

	overlap, err = repo.HasOverlap(ctx, u.ID, day, day)
	require.NoError(t, err)
	assert.False(t, overlap)

	balance, err := postgresql.NewBalanceRepository(db).GetOrCreate(ctx, u.ID, 2026)
	require.NoError(t, err)
	assert.Equal(t, 12, balance.SickLeave)
	again, err := postgresql.NewBalanceRepository(db).GetOrCreate(ctx, u.ID, 2026)
	require.NoError(t, err)
	assert.Equal(t, balance.ID, again.ID)
}

func TestTaskRepository_RoundTrip(t *testing.T) {
	db := newTestDB(t)
	repo := postgresql.NewTaskRepository(db)
	ctx := context.Background()
	hr := createUser(t, db, "hana.rao", user.RoleHR)
	jane := createUser(t, db, "jane.doe", user.RoleEmployee)

	created, err := repo.Create(ctx, task.Task{
		AssignedTo: jane.ID, AssignedBy: &hr.ID, Title: "Quarterly report", Priority: task.PriorityHigh,
		DueDate: day, Status: task.StatusPending, AcceptanceStatus: task.AcceptancePending,
	})
	require.NoError(t, err)
	assert.Equal(t, "jane.doe", *created.AssignedToName)

	held := task.StatusPending
	created.Status = task.StatusOnHold
	created.HeldFrom = &held
	require.NoError(t, repo.Update(ctx, created))

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, task.StatusOnHold, got.Status)
	require.NotNil(t, got.HeldFrom)
	assert.Equal(t, task.StatusPending, *got.HeldFrom)

	tasks, total, err := repo.List(ctx, task.TaskFilter{AssignedBy: &hr.ID, Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, tasks, 1)

	require.NoError(t, repo.Delete(ctx, created.ID))
	_, err = repo.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, task.ErrTaskNotFound)
}
