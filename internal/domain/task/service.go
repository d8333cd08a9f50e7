package task

import (
	"context"
	"io"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/user"
)

type TaskService interface {
	Create(ctx context.Context, actor user.Actor, req CreateTaskRequest) (TaskResponse, error)
	Get(ctx context.Context, actor user.Actor, id string) (TaskResponse, error)
	ListMine(ctx context.Context, actor user.Actor, filter TaskFilter) (ListTaskResponse, error)
	ListAssigned(ctx context.Context, actor user.Actor, filter TaskFilter) (ListTaskResponse, error)
	Accept(ctx context.Context, actor user.Actor, id string) (TaskResponse, error)
	Reject(ctx context.Context, actor user.Actor, id string, req RejectTaskRequest) (TaskResponse, error)
	AdvanceStatus(ctx context.Context, actor user.Actor, id string, req AdvanceStatusRequest) (TaskResponse, error)
	Update(ctx context.Context, actor user.Actor, req UpdateTaskRequest) (TaskResponse, error)
	Delete(ctx context.Context, actor user.Actor, id string) error
	OpenSubmission(ctx context.Context, actor user.Actor, id string) (io.ReadCloser, string, error)
}
