package leave

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/audit"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/ems-backend-go/internal/service/fake"
)

var (
	now = time.Date(2026, 3, 5, 11, 0, 0, 0, time.UTC)

	hr       = user.User{ID: "u-hr", Username: "hana.rao", Role: user.RoleHR, IsActive: true}
	jane     = user.User{ID: "u-jane", Username: "jane.doe", Role: user.RoleEmployee, IsActive: true}
	bob      = user.User{ID: "u-bob", Username: "bob.lee", Role: user.RoleEmployee, IsActive: true}
	inactive = user.User{ID: "u-gone", Username: "gone", Role: user.RoleEmployee}
)

func actorOf(u user.User) user.Actor {
	return user.Actor{ID: u.ID, Role: u.Role}
}

func day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

type fixture struct {
	svc        *LeaveServiceImpl
	tx         *fake.Transactor
	leaves     *fake.LeaveRepo
	attendance *fake.AttendanceRepo
	notifier   *fake.Notifier
	audit      *fake.Recorder
}

func newFixture(leaves []leave.Leave, rows ...attendance.Attendance) fixture {
	f := fixture{
		tx:         &fake.Transactor{},
		leaves:     fake.NewLeaveRepo(leaves...),
		attendance: fake.NewAttendanceRepo(rows...),
		notifier:   &fake.Notifier{},
		audit:      &fake.Recorder{},
	}
	svc := NewLeaveService(f.tx, f.leaves, fake.NewBalanceRepo(), f.attendance,
		fake.NewUserRepo(hr, jane, bob, inactive), f.notifier, f.audit).(*LeaveServiceImpl)
	svc.now = func() time.Time { return now }
	f.svc = svc
	return f
}

func pending(id, userID, start, end string) leave.Leave {
	return leave.Leave{
		ID:        id,
		UserID:    userID,
		LeaveType: leave.TypeCasual,
		StartDate: day(start),
		EndDate:   day(end),
		Reason:    "Family",
		Status:    leave.StatusPending,
	}
}

func apply(start, end string) leave.ApplyLeaveRequest {
	return leave.ApplyLeaveRequest{LeaveType: string(leave.TypeCasual), StartDate: start, EndDate: end, Reason: "Family"}
}

func TestApply(t *testing.T) {
	f := newFixture(nil)

	resp, err := f.svc.Apply(context.Background(), actorOf(jane), apply("2026-03-10", "2026-03-12"))
	require.NoError(t, err)

	assert.Equal(t, string(leave.StatusPending), resp.Status)
	assert.Equal(t, jane.ID, resp.UserID)
	assert.Equal(t, 3, resp.DurationDays)
	assert.Equal(t, []string{jane.ID}, f.leaves.Locks)
	assert.Equal(t, 1, f.tx.Commits)
	assert.Equal(t, []string{audit.ActionLeaveApplied}, f.audit.Actions())
}

func TestApply_Validation(t *testing.T) {
	f := newFixture(nil)
	ctx := context.Background()

	_, err := f.svc.Apply(ctx, actorOf(jane), apply("2026-03-12", "2026-03-10"))
	assert.ErrorIs(t, err, leave.ErrInvalidRange)

	_, err = f.svc.Apply(ctx, actorOf(jane), apply("2026-03-04", "2026-03-06"))
	assert.ErrorIs(t, err, leave.ErrPastStartDate)

	assert.Empty(t, f.leaves.Leaves)
}

func TestApply_OnBehalf(t *testing.T) {
	f := newFixture(nil)
	ctx := context.Background()

	req := apply("2026-03-02", "2026-03-03")
	req.UserID = jane.ID
	resp, err := f.svc.Apply(ctx, actorOf(hr), req)
	require.NoError(t, err)
	assert.Equal(t, jane.ID, resp.UserID)

	req = apply("2026-03-20", "2026-03-20")
	req.UserID = jane.ID
	_, err = f.svc.Apply(ctx, actorOf(bob), req)
	assert.ErrorIs(t, err, user.ErrForbidden)

	req.UserID = inactive.ID
	_, err = f.svc.Apply(ctx, actorOf(hr), req)
	assert.ErrorIs(t, err, leave.ErrApplicantInvalid)

	req.UserID = "nobody"
	_, err = f.svc.Apply(ctx, actorOf(hr), req)
	assert.ErrorIs(t, err, leave.ErrApplicantInvalid)
}

func TestApply_OverlapCreatesNothing(t *testing.T) {
	rejected := pending("l-old", jane.ID, "2026-03-10", "2026-03-10")
	rejected.Status = leave.StatusRejected
	f := newFixture([]leave.Leave{pending("l1", jane.ID, "2026-03-10", "2026-03-12"), rejected})
	ctx := context.Background()

	_, err := f.svc.Apply(ctx, actorOf(jane), apply("2026-03-12", "2026-03-14"))
	assert.ErrorIs(t, err, leave.ErrOverlapConflict)
	assert.Len(t, f.leaves.Leaves, 2)
	assert.Equal(t, 1, f.tx.Rollbacks)

	// touching the range of someone else's leave or a rejected one is fine
	_, err = f.svc.Apply(ctx, actorOf(bob), apply("2026-03-10", "2026-03-12"))
	require.NoError(t, err)
	_, err = f.svc.Apply(ctx, actorOf(jane), apply("2026-03-13", "2026-03-13"))
	require.NoError(t, err)
}

func TestDecide_ApprovalMarksEveryDay(t *testing.T) {
	f := newFixture(
		[]leave.Leave{pending("l1", jane.ID, "2026-03-10", "2026-03-12")},
		attendance.Attendance{UserID: jane.ID, Date: day("2026-03-10"), Status: attendance.StatusPresent},
	)
	remarks := "Enjoy"

	resp, err := f.svc.Decide(context.Background(), actorOf(hr), "l1", leave.DecideLeaveRequest{Decision: "Approved", Remarks: &remarks})
	require.NoError(t, err)
	assert.Equal(t, string(leave.StatusApproved), resp.Status)
	assert.Equal(t, hr.ID, *resp.ApprovedBy)
	assert.Equal(t, now, *resp.ApprovalDate)

	require.Equal(t, 3, f.attendance.Count())
	for _, d := range []string{"2026-03-10", "2026-03-11", "2026-03-12"} {
		row, err := f.attendance.GetByUserAndDate(context.Background(), jane.ID, day(d))
		require.NoError(t, err, d)
		assert.Equal(t, attendance.StatusOnLeave, row.Status)
		assert.Equal(t, hr.ID, *row.MarkedBy)
		assert.True(t, row.IsVerified)
		assert.Equal(t, "Casual Leave - Approved", row.Notes)
	}

	assert.Equal(t, 1, f.tx.Commits)
	assert.Equal(t, []string{"leave_decision"}, f.notifier.Kinds())
	require.Len(t, f.audit.Entries, 1)
	assert.Equal(t, audit.ActionLeaveApproved, f.audit.Entries[0].Action)
	assert.Contains(t, f.audit.Entries[0].Details, "2026-03-10:Present")
}

func TestDecide_Reject(t *testing.T) {
	f := newFixture([]leave.Leave{pending("l1", jane.ID, "2026-03-10", "2026-03-12")})

	resp, err := f.svc.Decide(context.Background(), actorOf(hr), "l1", leave.DecideLeaveRequest{Decision: "Rejected"})
	require.NoError(t, err)
	assert.Equal(t, string(leave.StatusRejected), resp.Status)
	assert.Zero(t, f.attendance.Count())
	assert.Equal(t, []string{audit.ActionLeaveRejected}, f.audit.Actions())
}

func TestDecide_OnlyPending(t *testing.T) {
	approved := pending("l1", jane.ID, "2026-03-10", "2026-03-12")
	approved.Status = leave.StatusApproved
	f := newFixture([]leave.Leave{approved})
	ctx := context.Background()

	_, err := f.svc.Decide(ctx, actorOf(hr), "l1", leave.DecideLeaveRequest{Decision: "Rejected"})
	assert.ErrorIs(t, err, leave.ErrAlreadyDecided)

	_, err = f.svc.Decide(ctx, actorOf(hr), "l1", leave.DecideLeaveRequest{Decision: "Cancelled"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decision")

	_, err = f.svc.Decide(ctx, actorOf(hr), "missing", leave.DecideLeaveRequest{Decision: "Approved"})
	assert.ErrorIs(t, err, leave.ErrLeaveNotFound)
	assert.Empty(t, f.notifier.Sent)
}

func TestDecide_UpsertFailureRollsBack(t *testing.T) {
	f := newFixture([]leave.Leave{pending("l1", jane.ID, "2026-03-10", "2026-03-12")})
	boom := errors.New("deadlock detected")
	f.attendance.UpsertErr = func(a attendance.Attendance) error {
		if a.Date.Equal(day("2026-03-11")) {
			return boom
		}
		return nil
	}

	_, err := f.svc.Decide(context.Background(), actorOf(hr), "l1", leave.DecideLeaveRequest{Decision: "Approved"})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, f.tx.Rollbacks)
	assert.Zero(t, f.tx.Commits)
	assert.Empty(t, f.notifier.Sent)
	assert.Empty(t, f.audit.Entries)
}

func TestCancel(t *testing.T) {
	f := newFixture([]leave.Leave{pending("l1", jane.ID, "2026-03-10", "2026-03-12")})
	ctx := context.Background()

	_, err := f.svc.Cancel(ctx, actorOf(bob), "l1")
	assert.ErrorIs(t, err, leave.ErrNotLeaveOwner)

	resp, err := f.svc.Cancel(ctx, actorOf(jane), "l1")
	require.NoError(t, err)
	assert.Equal(t, string(leave.StatusCancelled), resp.Status)

	_, err = f.svc.Cancel(ctx, actorOf(jane), "l1")
	assert.ErrorIs(t, err, leave.ErrNotCancellable)

	assert.Equal(t, []string{"l1", "l1", "l1"}, f.leaves.RowLocks)
	assert.Equal(t, 1, f.tx.Commits)
	assert.Equal(t, 2, f.tx.Rollbacks)
	assert.Equal(t, []string{audit.ActionLeaveCancelled}, f.audit.Actions())
}

func TestCancel_LosesToCommittedApproval(t *testing.T) {
	f := newFixture([]leave.Leave{pending("l1", jane.ID, "2026-03-10", "2026-03-12")})
	f.leaves.BeforeRowLock = func(r *fake.LeaveRepo, id string) {
		l := r.Leaves[id]
		l.Status = leave.StatusApproved
		l.ApprovedBy = &hr.ID
		r.Set(l)
	}

	_, err := f.svc.Cancel(context.Background(), actorOf(jane), "l1")
	assert.ErrorIs(t, err, leave.ErrNotCancellable)

	stored, err := f.leaves.GetByID(context.Background(), "l1")
	require.NoError(t, err)
	assert.Equal(t, leave.StatusApproved, stored.Status)
	require.NotNil(t, stored.ApprovedBy)
	assert.Equal(t, hr.ID, *stored.ApprovedBy)
	assert.Empty(t, f.audit.Entries)
}

func TestGet_Ownership(t *testing.T) {
	f := newFixture([]leave.Leave{pending("l1", jane.ID, "2026-03-10", "2026-03-12")})
	ctx := context.Background()

	_, err := f.svc.Get(ctx, actorOf(jane), "l1")
	require.NoError(t, err)
	_, err = f.svc.Get(ctx, actorOf(hr), "l1")
	require.NoError(t, err)
	_, err = f.svc.Get(ctx, actorOf(bob), "l1")
	assert.ErrorIs(t, err, leave.ErrLeaveNotFound)
}

func TestListMine_CarriesBalance(t *testing.T) {
	f := newFixture([]leave.Leave{
		pending("l1", jane.ID, "2026-03-10", "2026-03-12"),
		pending("l2", bob.ID, "2026-03-10", "2026-03-12"),
	})

	resp, err := f.svc.ListMine(context.Background(), actorOf(jane), leave.LeaveFilter{})
	require.NoError(t, err)
	require.Len(t, resp.Leaves, 1)
	assert.Equal(t, "l1", resp.Leaves[0].ID)
	assert.Equal(t, 2026, resp.Balance.Year)
	assert.Equal(t, leave.DefaultSickLeave, resp.Balance.SickLeave)
	assert.Equal(t, leave.DefaultEarnedLeave, resp.Balance.EarnedLeave)
}

func TestList_FiltersByStatus(t *testing.T) {
	approved := pending("l2", bob.ID, "2026-03-01", "2026-03-02")
	approved.Status = leave.StatusApproved
	f := newFixture([]leave.Leave{pending("l1", jane.ID, "2026-03-10", "2026-03-12"), approved})
	status := leave.StatusPending

	resp, err := f.svc.List(context.Background(), leave.LeaveFilter{Status: &status})
	require.NoError(t, err)
	require.Len(t, resp.Leaves, 1)
	assert.Equal(t, "l1", resp.Leaves[0].ID)
	assert.Equal(t, int64(1), resp.TotalCount)
}
