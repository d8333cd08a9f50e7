package task

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/utils"
)

type Status string

const (
	StatusPending    Status = "Pending"
	StatusInProgress Status = "In Progress"
	StatusCompleted  Status = "Completed"
	StatusOnHold     Status = "On Hold"
	StatusCancelled  Status = "Cancelled"
	StatusRejected   Status = "Rejected"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusOnHold, StatusCancelled, StatusRejected:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is allowed. Rejected
// counts as terminal alongside Completed and Cancelled, so a rejected task is
// also frozen against edits (ErrTaskNotEditable).
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusRejected
}

type AcceptanceStatus string

const (
	AcceptancePending  AcceptanceStatus = "Pending"
	AcceptanceAccepted AcceptanceStatus = "Accepted"
	AcceptanceRejected AcceptanceStatus = "Rejected"
)

type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
	PriorityUrgent Priority = "Urgent"
)

func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// successor is the assignee's forward-only progression.
var successor = map[Status]Status{
	StatusPending:    StatusInProgress,
	StatusInProgress: StatusCompleted,
}

// assignerTransitions are the administrative moves open to the assigner.
// Leaving On Hold is handled by Resume, which restores HeldFrom.
var assignerTransitions = map[Status]map[Status]struct{}{
	StatusPending:    {StatusOnHold: {}, StatusCancelled: {}},
	StatusInProgress: {StatusOnHold: {}, StatusCancelled: {}},
	StatusOnHold:     {StatusCancelled: {}},
}

type Task struct {
	ID               string
	AssignedTo       string
	AssignedBy       *string
	Title            string
	Description      string
	Priority         Priority
	DueDate          time.Time
	Status           Status
	AcceptanceStatus AcceptanceStatus
	RejectionReason  *string
	HeldFrom         *Status
	SubmissionFile   *string
	CompletedAt      *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time

	// Join
	AssignedToName *string
	AssignedByName *string
}

// NextStatus returns the only status the assignee may move to from the current one.
func (t *Task) NextStatus() (Status, bool) {
	next, ok := successor[t.Status]
	return next, ok
}

// Accept records the assignee's acceptance.
func (t *Task) Accept() error {
	if t.Status.IsTerminal() {
		return ErrInvalidTransition
	}
	if t.AcceptanceStatus != AcceptancePending {
		return ErrAlreadyResponded
	}
	t.AcceptanceStatus = AcceptanceAccepted
	return nil
}

// Reject records the assignee's refusal and closes the task.
func (t *Task) Reject(reason string) error {
	if t.Status.IsTerminal() {
		return ErrInvalidTransition
	}
	if t.AcceptanceStatus != AcceptancePending {
		return ErrAlreadyResponded
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return ErrRejectionReasonRequired
	}
	t.AcceptanceStatus = AcceptanceRejected
	t.Status = StatusRejected
	t.RejectionReason = &reason
	return nil
}

// Advance moves the task one step along Pending → In Progress → Completed.
// Completing requires an artifact and stamps CompletedAt.
func (t *Task) Advance(target Status, artifact *string, now time.Time) error {
	next, ok := t.NextStatus()
	if !ok || next != target {
		return ErrInvalidTransition
	}
	if target == StatusInProgress && t.AcceptanceStatus != AcceptanceAccepted {
		return ErrNotAccepted
	}
	if target == StatusCompleted {
		if artifact == nil || strings.TrimSpace(*artifact) == "" {
			return ErrMissingArtifact
		}
		t.SubmissionFile = artifact
		t.CompletedAt = &now
	}
	t.Status = target
	return nil
}

// SetAdministrativeStatus applies an assigner-driven move to On Hold or Cancelled.
func (t *Task) SetAdministrativeStatus(target Status) error {
	if target == t.Status {
		return nil
	}
	allowed, ok := assignerTransitions[t.Status]
	if !ok {
		return ErrInvalidTransition
	}
	if _, ok := allowed[target]; !ok {
		return ErrInvalidTransition
	}
	if target == StatusOnHold {
		from := t.Status
		t.HeldFrom = &from
	} else {
		t.HeldFrom = nil
	}
	t.Status = target
	return nil
}

// Resume takes a held task back to the status it was held from.
func (t *Task) Resume() error {
	if t.Status != StatusOnHold || t.HeldFrom == nil {
		return ErrInvalidTransition
	}
	t.Status = *t.HeldFrom
	t.HeldFrom = nil
	return nil
}

// IsEditable reports whether the assigner may still change the task details.
func (t *Task) IsEditable() bool {
	return !t.Status.IsTerminal()
}

// IsOverdue is evaluated at read time and never persisted.
func (t *Task) IsOverdue(today time.Time) bool {
	if t.Status == StatusCompleted || t.Status == StatusCancelled {
		return false
	}
	return utils.DateOnly(t.DueDate).Before(utils.DateOnly(today))
}

// IsParticipant reports whether userID is the assignee or the assigner.
func (t *Task) IsParticipant(userID string) bool {
	return t.AssignedTo == userID || (t.AssignedBy != nil && *t.AssignedBy == userID)
}
