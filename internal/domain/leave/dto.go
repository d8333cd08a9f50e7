package leave

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/utils"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/validator"
)

// MaxLeaveDays bounds a single request to one (leap) year.
const MaxLeaveDays = 366

type ApplyLeaveRequest struct {
	// UserID is set by HR/Admin applying on behalf of an employee.
	UserID    string `json:"user_id,omitempty"`
	LeaveType string `json:"leave_type"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Reason    string `json:"reason"`

	start time.Time
	end   time.Time
}

func (r *ApplyLeaveRequest) Validate() error {
	var errs validator.ValidationErrors

	if !Type(r.LeaveType).IsValid() {
		errs.Add("leave_type", "leave_type is not a recognised leave type")
	}

	if start, ok := validator.IsValidDate(r.StartDate); !ok {
		errs.Add("start_date", "start_date must be in YYYY-MM-DD format")
	} else {
		r.start = start
	}

	if end, ok := validator.IsValidDate(r.EndDate); !ok {
		errs.Add("end_date", "end_date must be in YYYY-MM-DD format")
	} else {
		r.end = end
	}

	if !r.start.IsZero() && !r.end.IsZero() && utils.InclusiveDays(r.start, r.end) > MaxLeaveDays {
		errs.Add("end_date", fmt.Sprintf("a leave cannot span more than %d days", MaxLeaveDays))
	}

	if validator.IsEmpty(r.Reason) {
		errs.Add("reason", "reason is required")
	}

	return errs.Err()
}

// Range is available after a successful Validate.
func (r *ApplyLeaveRequest) Range() (time.Time, time.Time) {
	return r.start, r.end
}

type DecideLeaveRequest struct {
	Decision string  `json:"decision"`
	Remarks  *string `json:"remarks,omitempty"`
}

func (r *DecideLeaveRequest) Validate() error {
	var errs validator.ValidationErrors
	s := Status(r.Decision)
	if s != StatusApproved && s != StatusRejected {
		errs.Add("decision", "decision must be Approved or Rejected")
	}
	return errs.Err()
}

type LeaveResponse struct {
	ID           string     `json:"id"`
	UserID       string     `json:"user_id"`
	UserName     *string    `json:"user_name,omitempty"`
	LeaveType    string     `json:"leave_type"`
	StartDate    string     `json:"start_date"`
	EndDate      string     `json:"end_date"`
	DurationDays int        `json:"duration_days"`
	Reason       string     `json:"reason"`
	Status       string     `json:"status"`
	ApprovedBy   *string    `json:"approved_by,omitempty"`
	ApproverName *string    `json:"approver_name,omitempty"`
	ApprovalDate *time.Time `json:"approval_date,omitempty"`
	Remarks      *string    `json:"remarks,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

type ListLeaveResponse struct {
	Leaves     []LeaveResponse `json:"leaves"`
	TotalCount int64           `json:"total_count"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	TotalPages int             `json:"total_pages"`
}

type BalanceResponse struct {
	UserID      string `json:"user_id"`
	Year        int    `json:"year"`
	SickLeave   int    `json:"sick_leave"`
	CasualLeave int    `json:"casual_leave"`
	EarnedLeave int    `json:"earned_leave"`
}

type MyLeavesResponse struct {
	ListLeaveResponse
	Balance BalanceResponse `json:"balance"`
}

func ToResponse(l Leave) LeaveResponse {
	return LeaveResponse{
		ID:           l.ID,
		UserID:       l.UserID,
		UserName:     l.UserName,
		LeaveType:    string(l.LeaveType),
		StartDate:    l.StartDate.Format(utils.DateLayout),
		EndDate:      l.EndDate.Format(utils.DateLayout),
		DurationDays: l.Duration(),
		Reason:       l.Reason,
		Status:       string(l.Status),
		ApprovedBy:   l.ApprovedBy,
		ApproverName: l.ApproverName,
		ApprovalDate: l.ApprovalDate,
		Remarks:      l.Remarks,
		CreatedAt:    l.CreatedAt,
	}
}

func ToBalanceResponse(b Balance) BalanceResponse {
	return BalanceResponse{
		UserID:      b.UserID,
		Year:        b.Year,
		SickLeave:   b.SickLeave,
		CasualLeave: b.CasualLeave,
		EarnedLeave: b.EarnedLeave,
	}
}
