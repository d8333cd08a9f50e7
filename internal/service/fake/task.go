package fake

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/task"
)

type TaskRepo struct {
	mu    sync.Mutex
	Tasks map[string]task.Task
	seq   int
}

func NewTaskRepo(tasks ...task.Task) *TaskRepo {
	r := &TaskRepo{Tasks: make(map[string]task.Task)}
	for _, t := range tasks {
		r.Tasks[t.ID] = t
	}
	return r
}

func (r *TaskRepo) Create(_ context.Context, t task.Task) (task.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	if t.ID == "" {
		t.ID = fmt.Sprintf("task-%d", r.seq)
	}
	now := time.Now()
	t.CreatedAt, t.UpdatedAt = now, now
	r.Tasks[t.ID] = t
	return t, nil
}

func (r *TaskRepo) GetByID(_ context.Context, id string) (task.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.Tasks[id]
	if !ok {
		return task.Task{}, task.ErrTaskNotFound
	}
	return t, nil
}

func (r *TaskRepo) Update(_ context.Context, t task.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.Tasks[t.ID]; !ok {
		return task.ErrTaskNotFound
	}
	t.UpdatedAt = time.Now()
	r.Tasks[t.ID] = t
	return nil
}

func (r *TaskRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.Tasks[id]; !ok {
		return task.ErrTaskNotFound
	}
	delete(r.Tasks, id)
	return nil
}

func (r *TaskRepo) List(_ context.Context, filter task.TaskFilter) ([]task.Task, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var rows []task.Task
	for _, t := range r.Tasks {
		if filter.AssignedTo != nil && t.AssignedTo != *filter.AssignedTo {
			continue
		}
		if filter.AssignedBy != nil && (t.AssignedBy == nil || *t.AssignedBy != *filter.AssignedBy) {
			continue
		}
		if filter.Status != nil && t.Status != *filter.Status {
			continue
		}
		rows = append(rows, t)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })
	return Page(rows, filter.Page, filter.Limit), int64(len(rows)), nil
}
