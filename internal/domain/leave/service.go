package leave

import (
	"context"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/user"
)

type LeaveService interface {
	Apply(ctx context.Context, actor user.Actor, req ApplyLeaveRequest) (LeaveResponse, error)
	Decide(ctx context.Context, actor user.Actor, id string, req DecideLeaveRequest) (LeaveResponse, error)
	Cancel(ctx context.Context, actor user.Actor, id string) (LeaveResponse, error)
	Get(ctx context.Context, actor user.Actor, id string) (LeaveResponse, error)
	ListMine(ctx context.Context, actor user.Actor, filter LeaveFilter) (MyLeavesResponse, error)
	List(ctx context.Context, filter LeaveFilter) (ListLeaveResponse, error)
	GetBalance(ctx context.Context, userID string, year int) (BalanceResponse, error)
}
