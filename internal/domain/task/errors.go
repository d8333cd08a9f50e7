package task

import "errors"

var (
	ErrTaskNotFound            = errors.New("task not found")
	ErrNotAssignee             = errors.New("only the assignee can update this task")
	ErrNotAssigner             = errors.New("only the assigner can modify this task")
	ErrInvalidTransition       = errors.New("invalid task status transition")
	ErrAlreadyResponded        = errors.New("task has already been accepted or rejected")
	ErrNotAccepted             = errors.New("task must be accepted before work can start")
	ErrMissingArtifact         = errors.New("a submission file is required to complete the task")
	ErrRejectionReasonRequired = errors.New("a reason is required to reject the task")
	ErrDueDateInPast           = errors.New("due date cannot be in the past")
	ErrTaskNotEditable         = errors.New("completed, cancelled or rejected tasks cannot be edited")
	ErrAssigneeInactive        = errors.New("task cannot be assigned to an inactive user")
	ErrFileTypeNotAllowed      = errors.New("submission file type is not allowed")
	ErrFileSizeExceeds         = errors.New("submission file exceeds the 10MB limit")
	ErrNoSubmission            = errors.New("task has no submission file")
)
