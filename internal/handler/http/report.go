package http

import (
	"net/http"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/ems-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type ReportHandler interface {
	// EmployeeAttendance summarises one employee's attendance over a date range
	EmployeeAttendance(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{
		reportService: reportService,
	}
}

// EmployeeAttendance handles GET /reports/attendance/{userID}?from=&to=
func (h *reportHandlerImpl) EmployeeAttendance(w http.ResponseWriter, r *http.Request) {
	req := report.EmployeeAttendanceReportRequest{
		UserID: chi.URLParam(r, "userID"),
		From:   r.URL.Query().Get("from"),
		To:     r.URL.Query().Get("to"),
	}

	result, err := h.reportService.EmployeeAttendanceReport(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
