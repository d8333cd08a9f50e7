package task

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/audit"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/task"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/storage"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/utils"
)

var allowedSubmissionExts = []string{
	".pdf", ".doc", ".docx", ".xls", ".xlsx", ".ppt", ".pptx",
	".txt", ".csv", ".zip", ".png", ".jpg", ".jpeg",
}

type TaskServiceImpl struct {
	task.TaskRepository
	userRepo user.UserRepository
	storage  storage.FileStorage
	notifier notification.Notifier
	audit    audit.Recorder
	now      func() time.Time
}

func NewTaskService(
	taskRepo task.TaskRepository,
	userRepo user.UserRepository,
	fileStorage storage.FileStorage,
	notifier notification.Notifier,
	recorder audit.Recorder,
) task.TaskService {
	return &TaskServiceImpl{
		TaskRepository: taskRepo,
		userRepo:       userRepo,
		storage:        fileStorage,
		notifier:       notifier,
		audit:          recorder,
		now:            time.Now,
	}
}

func (s *TaskServiceImpl) today() time.Time {
	return utils.DateOnly(s.now())
}

func (s *TaskServiceImpl) respond(t task.Task) task.TaskResponse {
	return task.ToResponse(t, s.today())
}

// canView hides tasks from anyone who is neither a participant nor HR/Admin.
func canView(actor user.Actor, t task.Task) bool {
	return actor.IsPrivileged() || t.IsParticipant(actor.ID)
}

// canManage is the assigner or an Admin.
func canManage(actor user.Actor, t task.Task) bool {
	return actor.Role == user.RoleAdmin || (t.AssignedBy != nil && *t.AssignedBy == actor.ID)
}

func (s *TaskServiceImpl) load(ctx context.Context, actor user.Actor, id string) (task.Task, error) {
	t, err := s.TaskRepository.GetByID(ctx, id)
	if err != nil {
		return task.Task{}, err
	}
	if !canView(actor, t) {
		return task.Task{}, task.ErrTaskNotFound
	}
	return t, nil
}

func (s *TaskServiceImpl) Create(ctx context.Context, actor user.Actor, req task.CreateTaskRequest) (task.TaskResponse, error) {
	if err := req.Validate(); err != nil {
		return task.TaskResponse{}, err
	}

	dueDate := req.ParsedDueDate()
	if dueDate.Before(s.today()) {
		return task.TaskResponse{}, task.ErrDueDateInPast
	}

	assignee, err := s.userRepo.GetByID(ctx, req.AssignedTo)
	if err != nil {
		return task.TaskResponse{}, err
	}
	if !assignee.IsActive {
		return task.TaskResponse{}, task.ErrAssigneeInactive
	}

	newTask := task.Task{
		AssignedTo:       assignee.ID,
		AssignedBy:       &actor.ID,
		Title:            strings.TrimSpace(req.Title),
		Description:      req.Description,
		Priority:         task.Priority(req.Priority),
		DueDate:          dueDate,
		Status:           task.StatusPending,
		AcceptanceStatus: task.AcceptancePending,
	}

	created, err := s.TaskRepository.Create(ctx, newTask)
	if err != nil {
		return task.TaskResponse{}, fmt.Errorf("failed to create task: %w", err)
	}

	assignerName := ""
	if assigner, err := s.userRepo.GetByID(ctx, actor.ID); err == nil {
		assignerName = assigner.FullName()
	}
	s.notifier.NotifyTaskAssigned(ctx, assignee, assignerName, created.Title, created.DueDate.Format(utils.DateLayout), actor.ID)
	s.audit.Record(ctx, actor, audit.ActionTaskCreated, fmt.Sprintf("Assigned task %q to %s", created.Title, assignee.Username))

	return s.respond(created), nil
}

func (s *TaskServiceImpl) Get(ctx context.Context, actor user.Actor, id string) (task.TaskResponse, error) {
	t, err := s.load(ctx, actor, id)
	if err != nil {
		return task.TaskResponse{}, err
	}
	return s.respond(t), nil
}

func (s *TaskServiceImpl) list(ctx context.Context, filter task.TaskFilter) (task.ListTaskResponse, error) {
	filter.Page, filter.Limit = utils.NormalizePage(filter.Page, filter.Limit)

	tasks, total, err := s.TaskRepository.List(ctx, filter)
	if err != nil {
		return task.ListTaskResponse{}, fmt.Errorf("failed to list tasks: %w", err)
	}

	resp := task.ListTaskResponse{
		Tasks:      make([]task.TaskResponse, 0, len(tasks)),
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: utils.TotalPages(total, filter.Limit),
	}
	for _, t := range tasks {
		resp.Tasks = append(resp.Tasks, s.respond(t))
	}
	return resp, nil
}

func (s *TaskServiceImpl) ListMine(ctx context.Context, actor user.Actor, filter task.TaskFilter) (task.ListTaskResponse, error) {
	filter.AssignedTo = &actor.ID
	filter.AssignedBy = nil
	return s.list(ctx, filter)
}

// ListAssigned shows the tasks the actor handed out; Admin sees every task.
func (s *TaskServiceImpl) ListAssigned(ctx context.Context, actor user.Actor, filter task.TaskFilter) (task.ListTaskResponse, error) {
	filter.AssignedBy = nil
	if actor.Role != user.RoleAdmin {
		filter.AssignedBy = &actor.ID
	}
	return s.list(ctx, filter)
}

func (s *TaskServiceImpl) loadAsAssignee(ctx context.Context, actor user.Actor, id string) (task.Task, error) {
	t, err := s.load(ctx, actor, id)
	if err != nil {
		return task.Task{}, err
	}
	if t.AssignedTo != actor.ID {
		return task.Task{}, task.ErrNotAssignee
	}
	return t, nil
}

func (s *TaskServiceImpl) Accept(ctx context.Context, actor user.Actor, id string) (task.TaskResponse, error) {
	t, err := s.loadAsAssignee(ctx, actor, id)
	if err != nil {
		return task.TaskResponse{}, err
	}
	if err := t.Accept(); err != nil {
		return task.TaskResponse{}, err
	}
	if err := s.TaskRepository.Update(ctx, t); err != nil {
		return task.TaskResponse{}, fmt.Errorf("failed to accept task: %w", err)
	}

	s.audit.Record(ctx, actor, audit.ActionTaskAccepted, fmt.Sprintf("Accepted task %q", t.Title))
	return s.respond(t), nil
}

func (s *TaskServiceImpl) Reject(ctx context.Context, actor user.Actor, id string, req task.RejectTaskRequest) (task.TaskResponse, error) {
	t, err := s.loadAsAssignee(ctx, actor, id)
	if err != nil {
		return task.TaskResponse{}, err
	}
	if err := t.Reject(req.Reason); err != nil {
		return task.TaskResponse{}, err
	}
	if err := s.TaskRepository.Update(ctx, t); err != nil {
		return task.TaskResponse{}, fmt.Errorf("failed to reject task: %w", err)
	}

	if t.AssignedBy != nil {
		assigner, err := s.userRepo.GetByID(ctx, *t.AssignedBy)
		if err != nil {
			slog.Warn("task rejected but assigner lookup failed", "task_id", t.ID, "error", err)
		} else {
			assigneeName := actor.ID
			if me, err := s.userRepo.GetByID(ctx, actor.ID); err == nil {
				assigneeName = me.FullName()
			}
			s.notifier.NotifyTaskRejected(ctx, assigner, assigneeName, t.Title, *t.RejectionReason, actor.ID)
		}
	}
	s.audit.Record(ctx, actor, audit.ActionTaskRejected, fmt.Sprintf("Rejected task %q: %s", t.Title, *t.RejectionReason))

	return s.respond(t), nil
}

func (s *TaskServiceImpl) storeSubmission(ctx context.Context, taskID string, req task.AdvanceStatusRequest) (string, error) {
	if req.File == nil || req.FileName == "" {
		return "", task.ErrMissingArtifact
	}
	if req.FileSize > task.MaxSubmissionBytes {
		return "", task.ErrFileSizeExceeds
	}

	ext := strings.ToLower(filepath.Ext(req.FileName))
	if !slices.Contains(allowedSubmissionExts, ext) {
		return "", task.ErrFileTypeNotAllowed
	}
	key := path.Join("tasks", taskID, uuid.New().String()+ext)

	stored, err := s.storage.Upload(ctx, req.File, key, storage.UploadOptions{
		MaxSize:     task.MaxSubmissionBytes,
		AllowedExts: allowedSubmissionExts,
	})
	switch {
	case errors.Is(err, storage.ErrExtNotAllowed):
		return "", task.ErrFileTypeNotAllowed
	case errors.Is(err, storage.ErrFileTooLarge):
		return "", task.ErrFileSizeExceeds
	case err != nil:
		return "", fmt.Errorf("failed to store submission: %w", err)
	}
	return stored, nil
}

func (s *TaskServiceImpl) AdvanceStatus(ctx context.Context, actor user.Actor, id string, req task.AdvanceStatusRequest) (task.TaskResponse, error) {
	if err := req.Validate(); err != nil {
		return task.TaskResponse{}, err
	}

	t, err := s.loadAsAssignee(ctx, actor, id)
	if err != nil {
		return task.TaskResponse{}, err
	}

	target := task.Status(req.Status)
	if next, ok := t.NextStatus(); !ok || next != target {
		return task.TaskResponse{}, task.ErrInvalidTransition
	}

	var artifact *string
	if target == task.StatusCompleted {
		key, err := s.storeSubmission(ctx, t.ID, req)
		if err != nil {
			return task.TaskResponse{}, err
		}
		artifact = &key
	}

	discard := func() {
		if artifact == nil {
			return
		}
		if err := s.storage.Delete(ctx, *artifact); err != nil {
			slog.Warn("failed to remove orphaned submission", "key", *artifact, "error", err)
		}
	}

	from := t.Status
	if err := t.Advance(target, artifact, s.now()); err != nil {
		discard()
		return task.TaskResponse{}, err
	}
	if err := s.TaskRepository.Update(ctx, t); err != nil {
		discard()
		return task.TaskResponse{}, fmt.Errorf("failed to update task status: %w", err)
	}

	s.audit.Record(ctx, actor, audit.ActionTaskStatusChanged, fmt.Sprintf("Task %q moved from %s to %s", t.Title, from, t.Status))
	return s.respond(t), nil
}

func (s *TaskServiceImpl) Update(ctx context.Context, actor user.Actor, req task.UpdateTaskRequest) (task.TaskResponse, error) {
	if err := req.Validate(); err != nil {
		return task.TaskResponse{}, err
	}

	t, err := s.load(ctx, actor, req.ID)
	if err != nil {
		return task.TaskResponse{}, err
	}
	if !canManage(actor, t) {
		return task.TaskResponse{}, task.ErrNotAssigner
	}
	if !t.IsEditable() {
		return task.TaskResponse{}, task.ErrTaskNotEditable
	}

	if req.Title != nil {
		t.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		t.Description = *req.Description
	}
	if req.Priority != nil {
		t.Priority = task.Priority(*req.Priority)
	}
	if due := req.ParsedDueDate(); due != nil {
		if due.Before(s.today()) {
			return task.TaskResponse{}, task.ErrDueDateInPast
		}
		t.DueDate = *due
	}
	if req.Status != nil {
		if *req.Status == task.StatusResume {
			err = t.Resume()
		} else {
			err = t.SetAdministrativeStatus(task.Status(*req.Status))
		}
		if err != nil {
			return task.TaskResponse{}, err
		}
	}

	if err := s.TaskRepository.Update(ctx, t); err != nil {
		return task.TaskResponse{}, fmt.Errorf("failed to update task: %w", err)
	}

	s.audit.Record(ctx, actor, audit.ActionTaskUpdated, fmt.Sprintf("Updated task %q (status %s)", t.Title, t.Status))
	return s.respond(t), nil
}

func (s *TaskServiceImpl) Delete(ctx context.Context, actor user.Actor, id string) error {
	t, err := s.load(ctx, actor, id)
	if err != nil {
		return err
	}
	if !canManage(actor, t) {
		return task.ErrNotAssigner
	}

	if err := s.TaskRepository.Delete(ctx, t.ID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if t.SubmissionFile != nil {
		if err := s.storage.Delete(ctx, *t.SubmissionFile); err != nil {
			slog.Warn("task deleted but submission file remains", "task_id", t.ID, "key", *t.SubmissionFile, "error", err)
		}
	}

	s.audit.Record(ctx, actor, audit.ActionTaskDeleted, fmt.Sprintf("Deleted task %q", t.Title))
	return nil
}

// OpenSubmission streams the completion artifact; the caller closes the reader.
func (s *TaskServiceImpl) OpenSubmission(ctx context.Context, actor user.Actor, id string) (io.ReadCloser, string, error) {
	t, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, "", err
	}
	if t.SubmissionFile == nil {
		return nil, "", task.ErrNoSubmission
	}

	rc, err := s.storage.Download(ctx, *t.SubmissionFile)
	if err != nil {
		if errors.Is(err, storage.ErrFileNotFound) {
			return nil, "", task.ErrNoSubmission
		}
		return nil, "", fmt.Errorf("failed to open submission: %w", err)
	}
	return rc, path.Base(*t.SubmissionFile), nil
}
