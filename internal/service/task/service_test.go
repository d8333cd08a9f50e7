package task

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/audit"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/task"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/ems-backend-go/internal/service/fake"
)

var (
	now = time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)

	admin    = user.User{ID: "u-admin", Username: "admin", FirstName: "Ada", LastName: "Min", Role: user.RoleAdmin, IsActive: true}
	hr       = user.User{ID: "u-hr", Username: "hana.rao", FirstName: "Hana", LastName: "Rao", Role: user.RoleHR, IsActive: true}
	otherHR  = user.User{ID: "u-hr2", Username: "omar.hr", FirstName: "Omar", Role: user.RoleHR, IsActive: true}
	jane     = user.User{ID: "u-jane", Username: "jane.doe", FirstName: "Jane", LastName: "Doe", Role: user.RoleEmployee, IsActive: true}
	bob      = user.User{ID: "u-bob", Username: "bob.lee", FirstName: "Bob", LastName: "Lee", Role: user.RoleEmployee, IsActive: true}
	inactive = user.User{ID: "u-gone", Username: "gone", Role: user.RoleEmployee}
)

func actorOf(u user.User) user.Actor {
	return user.Actor{ID: u.ID, Role: u.Role}
}

type fixture struct {
	svc      *TaskServiceImpl
	tasks    *fake.TaskRepo
	storage  *fake.Storage
	notifier *fake.Notifier
	audit    *fake.Recorder
}

func newFixture(tasks ...task.Task) fixture {
	f := fixture{
		tasks:    fake.NewTaskRepo(tasks...),
		storage:  fake.NewStorage(),
		notifier: &fake.Notifier{},
		audit:    &fake.Recorder{},
	}
	svc := NewTaskService(f.tasks, fake.NewUserRepo(admin, hr, otherHR, jane, bob, inactive), f.storage, f.notifier, f.audit).(*TaskServiceImpl)
	svc.now = func() time.Time { return now }
	f.svc = svc
	return f
}

func seeded(id string, status task.Status, acceptance task.AcceptanceStatus) task.Task {
	return task.Task{
		ID:               id,
		AssignedTo:       jane.ID,
		AssignedBy:       &hr.ID,
		Title:            "Prepare report",
		Priority:         task.PriorityMedium,
		DueDate:          now.AddDate(0, 0, 5),
		Status:           status,
		AcceptanceStatus: acceptance,
	}
}

func TestCreate(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	resp, err := f.svc.Create(ctx, actorOf(hr), task.CreateTaskRequest{
		Title:      "  Prepare report ",
		AssignedTo: jane.ID,
		DueDate:    "2026-03-10",
	})
	require.NoError(t, err)

	assert.Equal(t, "Prepare report", resp.Title)
	assert.Equal(t, string(task.StatusPending), resp.Status)
	assert.Equal(t, string(task.AcceptancePending), resp.AcceptanceStatus)
	assert.Equal(t, string(task.PriorityMedium), resp.Priority)
	assert.Equal(t, hr.ID, *resp.AssignedBy)
	assert.False(t, resp.IsOverdue)

	assert.Equal(t, []string{"task_assigned"}, f.notifier.Kinds())
	assert.Equal(t, jane.ID, f.notifier.Sent[0].RecipientID)
	assert.Equal(t, []string{audit.ActionTaskCreated}, f.audit.Actions())
}

func TestCreate_Rejections(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.Create(ctx, actorOf(hr), task.CreateTaskRequest{Title: "x", AssignedTo: jane.ID, DueDate: "2026-03-09"})
	assert.ErrorIs(t, err, task.ErrDueDateInPast)

	_, err = f.svc.Create(ctx, actorOf(hr), task.CreateTaskRequest{Title: "x", AssignedTo: "nobody", DueDate: "2026-03-11"})
	assert.ErrorIs(t, err, user.ErrUserNotFound)

	_, err = f.svc.Create(ctx, actorOf(hr), task.CreateTaskRequest{Title: "x", AssignedTo: inactive.ID, DueDate: "2026-03-11"})
	assert.ErrorIs(t, err, task.ErrAssigneeInactive)

	_, err = f.svc.Create(ctx, actorOf(hr), task.CreateTaskRequest{AssignedTo: jane.ID, DueDate: "2026-03-11", Priority: "Critical"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "title")
	assert.Contains(t, err.Error(), "priority")

	assert.Empty(t, f.tasks.Tasks)
	assert.Empty(t, f.notifier.Sent)
}

func TestGet_HidesTaskFromOutsiders(t *testing.T) {
	f := newFixture(seeded("t1", task.StatusPending, task.AcceptancePending))
	ctx := context.Background()

	for _, u := range []user.User{jane, hr, otherHR, admin} {
		_, err := f.svc.Get(ctx, actorOf(u), "t1")
		assert.NoError(t, err, u.Username)
	}

	_, err := f.svc.Get(ctx, actorOf(bob), "t1")
	assert.ErrorIs(t, err, task.ErrTaskNotFound)
}

func TestListMineAndAssigned(t *testing.T) {
	mine := seeded("t1", task.StatusPending, task.AcceptancePending)
	bobs := seeded("t2", task.StatusPending, task.AcceptancePending)
	bobs.AssignedTo = bob.ID
	bobs.AssignedBy = &otherHR.ID
	f := newFixture(mine, bobs)
	ctx := context.Background()

	resp, err := f.svc.ListMine(ctx, actorOf(jane), task.TaskFilter{})
	require.NoError(t, err)
	require.Len(t, resp.Tasks, 1)
	assert.Equal(t, "t1", resp.Tasks[0].ID)
	assert.Equal(t, 1, resp.Page)
	assert.Equal(t, 20, resp.Limit)

	resp, err = f.svc.ListAssigned(ctx, actorOf(hr), task.TaskFilter{})
	require.NoError(t, err)
	require.Len(t, resp.Tasks, 1)
	assert.Equal(t, "t1", resp.Tasks[0].ID)

	resp, err = f.svc.ListAssigned(ctx, actorOf(admin), task.TaskFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.TotalCount)
}

func TestAcceptAndReject(t *testing.T) {
	f := newFixture(
		seeded("t1", task.StatusPending, task.AcceptancePending),
		seeded("t2", task.StatusPending, task.AcceptancePending),
	)
	ctx := context.Background()

	_, err := f.svc.Accept(ctx, actorOf(hr), "t1")
	assert.ErrorIs(t, err, task.ErrNotAssignee)

	resp, err := f.svc.Accept(ctx, actorOf(jane), "t1")
	require.NoError(t, err)
	assert.Equal(t, string(task.AcceptanceAccepted), resp.AcceptanceStatus)

	_, err = f.svc.Reject(ctx, actorOf(jane), "t1", task.RejectTaskRequest{Reason: "busy"})
	assert.ErrorIs(t, err, task.ErrAlreadyResponded)

	_, err = f.svc.Reject(ctx, actorOf(jane), "t2", task.RejectTaskRequest{Reason: "  "})
	assert.ErrorIs(t, err, task.ErrRejectionReasonRequired)

	resp, err = f.svc.Reject(ctx, actorOf(jane), "t2", task.RejectTaskRequest{Reason: "On leave that week"})
	require.NoError(t, err)
	assert.Equal(t, string(task.StatusRejected), resp.Status)
	assert.Equal(t, "On leave that week", *resp.RejectionReason)

	require.Equal(t, []string{"task_rejected"}, f.notifier.Kinds())
	assert.Equal(t, hr.ID, f.notifier.Sent[0].RecipientID)
	assert.Equal(t, []string{audit.ActionTaskAccepted, audit.ActionTaskRejected}, f.audit.Actions())
}

func TestAdvanceStatus_FullProgression(t *testing.T) {
	f := newFixture(seeded("t1", task.StatusPending, task.AcceptancePending))
	ctx := context.Background()

	_, err := f.svc.AdvanceStatus(ctx, actorOf(jane), "t1", task.AdvanceStatusRequest{Status: string(task.StatusInProgress)})
	assert.ErrorIs(t, err, task.ErrNotAccepted)

	_, err = f.svc.Accept(ctx, actorOf(jane), "t1")
	require.NoError(t, err)

	_, err = f.svc.AdvanceStatus(ctx, actorOf(jane), "t1", task.AdvanceStatusRequest{Status: string(task.StatusCompleted)})
	assert.ErrorIs(t, err, task.ErrInvalidTransition)

	resp, err := f.svc.AdvanceStatus(ctx, actorOf(jane), "t1", task.AdvanceStatusRequest{Status: string(task.StatusInProgress)})
	require.NoError(t, err)
	assert.Equal(t, string(task.StatusInProgress), resp.Status)

	_, err = f.svc.AdvanceStatus(ctx, actorOf(jane), "t1", task.AdvanceStatusRequest{Status: string(task.StatusCompleted)})
	assert.ErrorIs(t, err, task.ErrMissingArtifact)

	resp, err = f.svc.AdvanceStatus(ctx, actorOf(jane), "t1", task.AdvanceStatusRequest{
		Status:   string(task.StatusCompleted),
		File:     strings.NewReader("final numbers"),
		FileName: "Report.PDF",
		FileSize: 13,
	})
	require.NoError(t, err)
	assert.Equal(t, string(task.StatusCompleted), resp.Status)
	assert.True(t, resp.HasSubmission)
	require.NotNil(t, resp.CompletedAt)
	assert.Equal(t, now, *resp.CompletedAt)

	stored := f.tasks.Tasks["t1"]
	require.NotNil(t, stored.SubmissionFile)
	assert.True(t, strings.HasPrefix(*stored.SubmissionFile, "tasks/t1/"))
	assert.True(t, strings.HasSuffix(*stored.SubmissionFile, ".pdf"))
	assert.Len(t, f.storage.Files, 1)

	rc, name, err := f.svc.OpenSubmission(ctx, actorOf(hr), "t1")
	require.NoError(t, err)
	defer rc.Close()
	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "final numbers", string(body))
	assert.True(t, strings.HasSuffix(name, ".pdf"))

	_, err = f.svc.AdvanceStatus(ctx, actorOf(jane), "t1", task.AdvanceStatusRequest{Status: string(task.StatusInProgress)})
	assert.ErrorIs(t, err, task.ErrInvalidTransition)
}

func TestAdvanceStatus_RejectsBadFiles(t *testing.T) {
	f := newFixture(seeded("t1", task.StatusInProgress, task.AcceptanceAccepted))
	ctx := context.Background()

	_, err := f.svc.AdvanceStatus(ctx, actorOf(jane), "t1", task.AdvanceStatusRequest{
		Status: string(task.StatusCompleted), File: strings.NewReader("MZ"), FileName: "run.exe", FileSize: 2,
	})
	assert.ErrorIs(t, err, task.ErrFileTypeNotAllowed)

	_, err = f.svc.AdvanceStatus(ctx, actorOf(jane), "t1", task.AdvanceStatusRequest{
		Status: string(task.StatusCompleted), File: strings.NewReader("x"), FileName: "big.pdf", FileSize: task.MaxSubmissionBytes + 1,
	})
	assert.ErrorIs(t, err, task.ErrFileSizeExceeds)

	assert.Empty(t, f.storage.Files)
	assert.Equal(t, task.StatusInProgress, f.tasks.Tasks["t1"].Status)
}

func TestAdvanceStatus_OnlyAssignee(t *testing.T) {
	f := newFixture(seeded("t1", task.StatusPending, task.AcceptanceAccepted))

	_, err := f.svc.AdvanceStatus(context.Background(), actorOf(hr), "t1", task.AdvanceStatusRequest{Status: string(task.StatusInProgress)})
	assert.ErrorIs(t, err, task.ErrNotAssignee)
}

func TestUpdate_HoldAndResume(t *testing.T) {
	f := newFixture(seeded("t1", task.StatusInProgress, task.AcceptanceAccepted))
	ctx := context.Background()
	hold, resume := string(task.StatusOnHold), task.StatusResume

	_, err := f.svc.Update(ctx, actorOf(otherHR), task.UpdateTaskRequest{ID: "t1", Status: &hold})
	assert.ErrorIs(t, err, task.ErrNotAssigner)

	resp, err := f.svc.Update(ctx, actorOf(hr), task.UpdateTaskRequest{ID: "t1", Status: &hold})
	require.NoError(t, err)
	assert.Equal(t, hold, resp.Status)

	resp, err = f.svc.Update(ctx, actorOf(admin), task.UpdateTaskRequest{ID: "t1", Status: &resume})
	require.NoError(t, err)
	assert.Equal(t, string(task.StatusInProgress), resp.Status)
	assert.Nil(t, f.tasks.Tasks["t1"].HeldFrom)
}

func TestUpdate_Fields(t *testing.T) {
	f := newFixture(seeded("t1", task.StatusPending, task.AcceptancePending))
	ctx := context.Background()
	title, priority, past, due := "Prepare Q1 report", "Urgent", "2026-03-01", "2026-04-01"

	_, err := f.svc.Update(ctx, actorOf(hr), task.UpdateTaskRequest{ID: "t1", DueDate: &past})
	assert.ErrorIs(t, err, task.ErrDueDateInPast)

	resp, err := f.svc.Update(ctx, actorOf(hr), task.UpdateTaskRequest{ID: "t1", Title: &title, Priority: &priority, DueDate: &due})
	require.NoError(t, err)
	assert.Equal(t, title, resp.Title)
	assert.Equal(t, priority, resp.Priority)
	assert.Equal(t, due, resp.DueDate)
}

func TestUpdate_TerminalTaskIsFrozen(t *testing.T) {
	f := newFixture(seeded("t1", task.StatusCancelled, task.AcceptancePending))
	title := "Renamed"

	_, err := f.svc.Update(context.Background(), actorOf(hr), task.UpdateTaskRequest{ID: "t1", Title: &title})
	assert.ErrorIs(t, err, task.ErrTaskNotEditable)
}

func TestDelete_RemovesSubmission(t *testing.T) {
	done := seeded("t1", task.StatusCompleted, task.AcceptanceAccepted)
	key := "tasks/t1/file.pdf"
	done.SubmissionFile = &key
	f := newFixture(done)
	f.storage.Files[key] = []byte("x")
	ctx := context.Background()

	assert.ErrorIs(t, f.svc.Delete(ctx, actorOf(jane), "t1"), task.ErrNotAssigner)

	require.NoError(t, f.svc.Delete(ctx, actorOf(hr), "t1"))
	assert.Empty(t, f.tasks.Tasks)
	assert.Empty(t, f.storage.Files)
	assert.Equal(t, []string{audit.ActionTaskDeleted}, f.audit.Actions())
}

func TestOpenSubmission_NoFile(t *testing.T) {
	f := newFixture(seeded("t1", task.StatusInProgress, task.AcceptanceAccepted))

	_, _, err := f.svc.OpenSubmission(context.Background(), actorOf(jane), "t1")
	assert.ErrorIs(t, err, task.ErrNoSubmission)
}

func TestOverdueIsComputedOnRead(t *testing.T) {
	late := seeded("t1", task.StatusInProgress, task.AcceptanceAccepted)
	late.DueDate = now.AddDate(0, 0, -2)
	f := newFixture(late)

	resp, err := f.svc.Get(context.Background(), actorOf(jane), "t1")
	require.NoError(t, err)
	assert.True(t, resp.IsOverdue)
}
