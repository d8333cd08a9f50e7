package task

import "context"

type TaskRepository interface {
	Create(ctx context.Context, newTask Task) (Task, error)
	GetByID(ctx context.Context, id string) (Task, error)
	// Update persists every mutable column of t.
	Update(ctx context.Context, t Task) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter TaskFilter) ([]Task, int64, error)
}

type TaskFilter struct {
	AssignedTo *string
	AssignedBy *string
	Status     *Status
	Page       int
	Limit      int
}
