package http

import (
	"net/http"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/ems-backend-go/internal/handler/http/response"
)

type DashboardHandler interface {
	// Admin returns account statistics and recent audit activity
	Admin(w http.ResponseWriter, r *http.Request)
	// HR returns today's attendance, pending approvals and recent activity
	HR(w http.ResponseWriter, r *http.Request)
	// Employee returns the caller's own attendance, tasks and leave balance
	Employee(w http.ResponseWriter, r *http.Request)
}

type dashboardHandlerImpl struct {
	dashboardService dashboard.DashboardService
}

func NewDashboardHandler(dashboardService dashboard.DashboardService) DashboardHandler {
	return &dashboardHandlerImpl{dashboardService: dashboardService}
}

// Admin handles GET /dashboard/admin
func (h *dashboardHandlerImpl) Admin(w http.ResponseWriter, r *http.Request) {
	result, err := h.dashboardService.GetAdminDashboard(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// HR handles GET /dashboard/hr
func (h *dashboardHandlerImpl) HR(w http.ResponseWriter, r *http.Request) {
	result, err := h.dashboardService.GetHRDashboard(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Employee handles GET /dashboard/employee
func (h *dashboardHandlerImpl) Employee(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}

	result, err := h.dashboardService.GetEmployeeDashboard(r.Context(), actor)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
