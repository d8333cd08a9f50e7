package task

import (
	"io"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/utils"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/validator"
)

type CreateTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	AssignedTo  string `json:"assigned_to"`
	Priority    string `json:"priority"`
	DueDate     string `json:"due_date"`

	dueDate time.Time
}

func (r *CreateTaskRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Title) {
		errs.Add("title", "title is required")
	} else if len(r.Title) > 200 {
		errs.Add("title", "title must not exceed 200 characters")
	}

	if validator.IsEmpty(r.AssignedTo) {
		errs.Add("assigned_to", "assigned_to is required")
	}

	if r.Priority == "" {
		r.Priority = string(PriorityMedium)
	}
	if !Priority(r.Priority).IsValid() {
		errs.Add("priority", "priority must be one of Low, Medium, High, Urgent")
	}

	if due, ok := validator.IsValidDate(r.DueDate); !ok {
		errs.Add("due_date", "due_date must be in YYYY-MM-DD format")
	} else {
		r.dueDate = due
	}

	return errs.Err()
}

// ParsedDueDate is available after a successful Validate.
func (r *CreateTaskRequest) ParsedDueDate() time.Time {
	return r.dueDate
}

type UpdateTaskRequest struct {
	ID          string  `json:"-"`
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Priority    *string `json:"priority,omitempty"`
	DueDate     *string `json:"due_date,omitempty"`
	// Status accepts "On Hold", "Cancelled", or "Resume" to leave hold.
	Status *string `json:"status,omitempty"`

	dueDate *time.Time
}

const StatusResume = "Resume"

// MaxSubmissionBytes caps the completion artifact at 10MB.
const MaxSubmissionBytes = 10 << 20

func (r *UpdateTaskRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs.Add("id", "id is required")
	}
	if r.Title != nil {
		if validator.IsEmpty(*r.Title) {
			errs.Add("title", "title must not be empty")
		} else if len(*r.Title) > 200 {
			errs.Add("title", "title must not exceed 200 characters")
		}
	}
	if r.Priority != nil && !Priority(*r.Priority).IsValid() {
		errs.Add("priority", "priority must be one of Low, Medium, High, Urgent")
	}
	if r.DueDate != nil {
		if due, ok := validator.IsValidDate(*r.DueDate); !ok {
			errs.Add("due_date", "due_date must be in YYYY-MM-DD format")
		} else {
			r.dueDate = &due
		}
	}
	if r.Status != nil {
		s := *r.Status
		if s != string(StatusOnHold) && s != string(StatusCancelled) && s != StatusResume {
			errs.Add("status", "status must be one of On Hold, Cancelled, Resume")
		}
	}

	return errs.Err()
}

// ParsedDueDate is available after a successful Validate.
func (r *UpdateTaskRequest) ParsedDueDate() *time.Time {
	return r.dueDate
}

type RejectTaskRequest struct {
	Reason string `json:"reason"`
}

func (r *RejectTaskRequest) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.Reason) {
		errs.Add("reason", "reason is required")
	}
	return errs.Err()
}

// AdvanceStatusRequest is decoded from a multipart form; File is only read when completing.
type AdvanceStatusRequest struct {
	Status   string
	File     io.Reader
	FileName string
	FileSize int64
}

func (r *AdvanceStatusRequest) Validate() error {
	var errs validator.ValidationErrors
	s := Status(r.Status)
	if s != StatusInProgress && s != StatusCompleted {
		errs.Add("status", "status must be In Progress or Completed")
	}
	return errs.Err()
}

type TaskResponse struct {
	ID               string     `json:"id"`
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	AssignedTo       string     `json:"assigned_to"`
	AssignedToName   *string    `json:"assigned_to_name,omitempty"`
	AssignedBy       *string    `json:"assigned_by,omitempty"`
	AssignedByName   *string    `json:"assigned_by_name,omitempty"`
	Priority         string     `json:"priority"`
	DueDate          string     `json:"due_date"`
	Status           string     `json:"status"`
	AcceptanceStatus string     `json:"acceptance_status"`
	RejectionReason  *string    `json:"rejection_reason,omitempty"`
	HasSubmission    bool       `json:"has_submission"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
	IsOverdue        bool       `json:"is_overdue"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

type ListTaskResponse struct {
	Tasks      []TaskResponse `json:"tasks"`
	TotalCount int64          `json:"total_count"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	TotalPages int            `json:"total_pages"`
}

// ToResponse projects t for API output, evaluating overdue against today.
func ToResponse(t Task, today time.Time) TaskResponse {
	return TaskResponse{
		ID:               t.ID,
		Title:            t.Title,
		Description:      t.Description,
		AssignedTo:       t.AssignedTo,
		AssignedToName:   t.AssignedToName,
		AssignedBy:       t.AssignedBy,
		AssignedByName:   t.AssignedByName,
		Priority:         string(t.Priority),
		DueDate:          t.DueDate.Format(utils.DateLayout),
		Status:           string(t.Status),
		AcceptanceStatus: string(t.AcceptanceStatus),
		RejectionReason:  t.RejectionReason,
		HasSubmission:    t.SubmissionFile != nil,
		CompletedAt:      t.CompletedAt,
		IsOverdue:        t.IsOverdue(today),
		CreatedAt:        t.CreatedAt,
		UpdatedAt:        t.UpdatedAt,
	}
}
