package leave

import "errors"

var (
	ErrLeaveNotFound    = errors.New("leave not found")
	ErrInvalidRange     = errors.New("end date cannot be before start date")
	ErrPastStartDate    = errors.New("start date cannot be in the past")
	ErrOverlapConflict  = errors.New("leave overlaps an existing pending or approved leave")
	ErrAlreadyDecided   = errors.New("leave has already been decided")
	ErrNotCancellable   = errors.New("only pending leaves can be cancelled")
	ErrInvalidDecision  = errors.New("decision must be Approved or Rejected")
	ErrNotLeaveOwner    = errors.New("leave belongs to another user")
	ErrApplicantInvalid = errors.New("leave applicant does not exist or is inactive")
)
