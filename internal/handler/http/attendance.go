package http

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/ems-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

type AttendanceHandler interface {
	SelfMark(w http.ResponseWriter, r *http.Request)
	Mark(w http.ResponseWriter, r *http.Request)
	BulkMark(w http.ResponseWriter, r *http.Request)
	Edit(w http.ResponseWriter, r *http.Request)
	Verify(w http.ResponseWriter, r *http.Request)
	ListMine(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Export(w http.ResponseWriter, r *http.Request)
}

type AttendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
	reportService     report.ReportService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService, reportService report.ReportService) AttendanceHandler {
	return &AttendanceHandlerImpl{
		attendanceService: attendanceService,
		reportService:     reportService,
	}
}

func attendanceFilter(r *http.Request) (attendance.AttendanceFilter, error) {
	var filter attendance.AttendanceFilter
	filter.Page, filter.Limit = pageParams(r)

	from, to, err := dateRange(r)
	if err != nil {
		return filter, err
	}
	filter.From, filter.To = from, to

	if raw := r.URL.Query().Get("status"); raw != "" {
		s := attendance.Status(raw)
		if !s.IsValid() {
			var errs validator.ValidationErrors
			errs.Add("status", "status must be one of Present, Absent, Half Day, On Leave, Holiday")
			return filter, errs
		}
		filter.Status = &s
	}
	filter.UserID = queryString(r, "user_id")
	return filter, nil
}

// SelfMark handles POST /attendance/self
func (h *AttendanceHandlerImpl) SelfMark(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}

	var req attendance.SelfMarkRequest
	if !decodeJSON(w, r, "SelfMark", &req) {
		return
	}

	result, err := h.attendanceService.SelfMark(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Attendance marked successfully", result)
}

// Mark handles POST /attendance
func (h *AttendanceHandlerImpl) Mark(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}

	var req attendance.MarkAttendanceRequest
	if !decodeJSON(w, r, "MarkAttendance", &req) {
		return
	}

	result, err := h.attendanceService.Mark(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance saved successfully", result)
}

// BulkMark handles POST /attendance/bulk
func (h *AttendanceHandlerImpl) BulkMark(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}

	var req attendance.BulkMarkRequest
	if !decodeJSON(w, r, "BulkMark", &req) {
		return
	}

	result, err := h.attendanceService.BulkMark(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, result.Message, result)
}

// Edit handles PUT /attendance/{id}
func (h *AttendanceHandlerImpl) Edit(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}

	var req attendance.EditAttendanceRequest
	if !decodeJSON(w, r, "EditAttendance", &req) {
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.attendanceService.Edit(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance updated successfully", result)
}

// Verify handles POST /attendance/{id}/verify
func (h *AttendanceHandlerImpl) Verify(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}

	result, err := h.attendanceService.Verify(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance verified", result)
}

// ListMine handles GET /attendance/mine
func (h *AttendanceHandlerImpl) ListMine(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}

	filter, err := attendanceFilter(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.attendanceService.ListMine(r.Context(), actor, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// List handles GET /attendance
func (h *AttendanceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter, err := attendanceFilter(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.attendanceService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Export handles GET /attendance/export
func (h *AttendanceHandlerImpl) Export(w http.ResponseWriter, r *http.Request) {
	filter := report.AttendanceExportFilter{
		From:   r.URL.Query().Get("from"),
		To:     r.URL.Query().Get("to"),
		UserID: r.URL.Query().Get("user_id"),
		Status: r.URL.Query().Get("status"),
	}

	var buf bytes.Buffer
	if err := h.reportService.ExportAttendance(r.Context(), &buf, filter); err != nil {
		response.HandleError(w, err)
		return
	}

	response.Attachment(w, "text/csv", fmt.Sprintf("attendance_%s.csv", time.Now().Format("20060102")))
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("ExportAttendance write error", "error", err)
	}
}
