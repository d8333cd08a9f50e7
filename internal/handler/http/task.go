package http

import (
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/task"
	"github.com/cmlabs-hris/ems-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

// multipart overhead on top of the submission size limit
const maxStatusFormBytes = task.MaxSubmissionBytes + 1<<20

type TaskHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	ListMine(w http.ResponseWriter, r *http.Request)
	ListAssigned(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)

	Accept(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
	AdvanceStatus(w http.ResponseWriter, r *http.Request)
	DownloadSubmission(w http.ResponseWriter, r *http.Request)
}

type TaskHandlerImpl struct {
	taskService task.TaskService
}

func NewTaskHandler(taskService task.TaskService) TaskHandler {
	return &TaskHandlerImpl{taskService: taskService}
}

func taskFilter(r *http.Request) (task.TaskFilter, error) {
	var filter task.TaskFilter
	filter.Page, filter.Limit = pageParams(r)

	if raw := r.URL.Query().Get("status"); raw != "" {
		s := task.Status(raw)
		if !s.IsValid() {
			var errs validator.ValidationErrors
			errs.Add("status", "status is not a recognised task status")
			return filter, errs
		}
		filter.Status = &s
	}
	return filter, nil
}

// Create implements TaskHandler.
func (h *TaskHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}

	var req task.CreateTaskRequest
	if !decodeJSON(w, r, "CreateTask", &req) {
		return
	}

	result, err := h.taskService.Create(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Task created successfully", result)
}

// Get implements TaskHandler.
func (h *TaskHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}

	result, err := h.taskService.Get(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ListMine implements TaskHandler.
func (h *TaskHandlerImpl) ListMine(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}

	filter, err := taskFilter(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.taskService.ListMine(r.Context(), actor, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ListAssigned implements TaskHandler.
func (h *TaskHandlerImpl) ListAssigned(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}

	filter, err := taskFilter(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.taskService.ListAssigned(r.Context(), actor, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Update implements TaskHandler.
func (h *TaskHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}

	var req task.UpdateTaskRequest
	if !decodeJSON(w, r, "UpdateTask", &req) {
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.taskService.Update(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Task updated successfully", result)
}

// Delete implements TaskHandler.
func (h *TaskHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}

	if err := h.taskService.Delete(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Task deleted successfully", nil)
}

// Accept implements TaskHandler.
func (h *TaskHandlerImpl) Accept(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}

	result, err := h.taskService.Accept(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Task accepted", result)
}

// Reject implements TaskHandler.
func (h *TaskHandlerImpl) Reject(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}

	var req task.RejectTaskRequest
	if !decodeJSON(w, r, "RejectTask", &req) {
		return
	}

	result, err := h.taskService.Reject(r.Context(), actor, chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Task rejected", result)
}

// AdvanceStatus implements TaskHandler. Accepts a multipart form with a
// "status" field and, when completing, a "file" part. A JSON body with only
// a status is also accepted.
func (h *TaskHandlerImpl) AdvanceStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}

	var req task.AdvanceStatusRequest
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		r.Body = http.MaxBytesReader(w, r.Body, maxStatusFormBytes)
		if err := r.ParseMultipartForm(maxStatusFormBytes); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				response.HandleError(w, task.ErrFileSizeExceeds)
				return
			}
			slog.Error("Failed to parse multipart form", "error", err)
			response.BadRequest(w, "Failed to parse form data", nil)
			return
		}
		req.Status = r.FormValue("status")

		file, header, err := r.FormFile("file")
		if err != nil && !errors.Is(err, http.ErrMissingFile) {
			slog.Error("Failed to get file from form", "error", err)
			response.BadRequest(w, "Invalid file upload", nil)
			return
		}
		if file != nil {
			defer file.Close()
			req.File = file
			req.FileName = header.Filename
			req.FileSize = header.Size
		}
	} else {
		var body struct {
			Status string `json:"status"`
		}
		if !decodeJSON(w, r, "AdvanceStatus", &body) {
			return
		}
		req.Status = body.Status
	}

	result, err := h.taskService.AdvanceStatus(r.Context(), actor, chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Task status updated", result)
}

// DownloadSubmission implements TaskHandler.
func (h *TaskHandlerImpl) DownloadSubmission(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}

	rc, name, err := h.taskService.OpenSubmission(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	defer rc.Close()

	contentType := mime.TypeByExtension(strings.ToLower(filepath.Ext(name)))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	response.Attachment(w, contentType, name)
	if _, err := io.Copy(w, rc); err != nil {
		slog.Error("DownloadSubmission copy error", "error", err, "task_id", chi.URLParam(r, "id"))
	}
}
