package employee

import (
	"context"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/audit"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/user"
)

// EmployeeService covers account administration. Every method expects an Admin actor
// except the read-only security listings, which HR may also use.
type EmployeeService interface {
	Create(ctx context.Context, actor user.Actor, req CreateEmployeeRequest) (EmployeeResponse, error)
	Get(ctx context.Context, id string) (EmployeeResponse, error)
	List(ctx context.Context, filter EmployeeFilter) (ListEmployeeResponse, error)
	Update(ctx context.Context, actor user.Actor, req UpdateEmployeeRequest) (EmployeeResponse, error)
	ToggleActive(ctx context.Context, actor user.Actor, id string) (EmployeeResponse, error)
	Unlock(ctx context.Context, actor user.Actor, id string) (EmployeeResponse, error)
	ResetPassword(ctx context.Context, actor user.Actor, id string) error
	Delete(ctx context.Context, actor user.Actor, id string) error
	BulkAction(ctx context.Context, actor user.Actor, req BulkActionRequest) (BulkActionResponse, error)

	LoginHistory(ctx context.Context) ([]audit.LoginAttemptResponse, error)
	AuditLogs(ctx context.Context) ([]audit.LogResponse, error)
}
