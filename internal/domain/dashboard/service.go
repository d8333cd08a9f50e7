package dashboard

import (
	"context"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/user"
)

// DashboardService builds the role dashboards; each call fans out its reads concurrently
type DashboardService interface {
	GetAdminDashboard(ctx context.Context) (*AdminDashboardResponse, error)
	GetHRDashboard(ctx context.Context) (*HRDashboardResponse, error)
	GetEmployeeDashboard(ctx context.Context, actor user.Actor) (*EmployeeDashboardResponse, error)
}
