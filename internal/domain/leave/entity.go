package leave

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/utils"
)

type Type string

const (
	TypeSick      Type = "Sick Leave"
	TypeCasual    Type = "Casual Leave"
	TypeEarned    Type = "Earned Leave"
	TypeMaternity Type = "Maternity Leave"
	TypePaternity Type = "Paternity Leave"
	TypeUnpaid    Type = "Unpaid Leave"
)

// AllTypes returns every leave type in display order
func AllTypes() []Type {
	return []Type{TypeSick, TypeCasual, TypeEarned, TypeMaternity, TypePaternity, TypeUnpaid}
}

func (t Type) IsValid() bool {
	for _, v := range AllTypes() {
		if v == t {
			return true
		}
	}
	return false
}

type Status string

const (
	StatusPending   Status = "Pending"
	StatusApproved  Status = "Approved"
	StatusRejected  Status = "Rejected"
	StatusCancelled Status = "Cancelled"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

// BlocksOverlap reports whether a leave in this status reserves its dates.
func (s Status) BlocksOverlap() bool {
	return s == StatusPending || s == StatusApproved
}

type Leave struct {
	ID           string
	UserID       string
	LeaveType    Type
	StartDate    time.Time
	EndDate      time.Time
	Reason       string
	Status       Status
	ApprovedBy   *string
	ApprovalDate *time.Time
	Remarks      *string
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Join
	UserName     *string
	ApproverName *string
}

// Duration counts the calendar days covered, both ends included.
func (l *Leave) Duration() int {
	return utils.InclusiveDays(l.StartDate, l.EndDate)
}

// Overlaps reports whether l shares at least one day with [start, end].
func (l *Leave) Overlaps(start, end time.Time) bool {
	return utils.RangesOverlap(l.StartDate, l.EndDate, start, end)
}

// Days lists every calendar day of the leave.
func (l *Leave) Days() []time.Time {
	return utils.EachDay(l.StartDate, l.EndDate)
}

// Decide records an HR decision on a pending leave.
func (l *Leave) Decide(decision Status, approverID string, remarks *string, now time.Time) error {
	if decision != StatusApproved && decision != StatusRejected {
		return ErrInvalidDecision
	}
	if l.Status != StatusPending {
		return ErrAlreadyDecided
	}
	l.Status = decision
	l.ApprovedBy = &approverID
	l.ApprovalDate = &now
	l.Remarks = remarks
	return nil
}

// Cancel withdraws a pending leave.
func (l *Leave) Cancel() error {
	if l.Status != StatusPending {
		return ErrNotCancellable
	}
	l.Status = StatusCancelled
	return nil
}

// AttendanceNote is written on every attendance row created by an approval.
func AttendanceNote(t Type) string {
	return fmt.Sprintf("%s - Approved", t)
}

const (
	DefaultSickLeave   = 12
	DefaultCasualLeave = 12
	DefaultEarnedLeave = 15
)

// Balance is an advisory per-year quota. Approvals do not decrement it.
type Balance struct {
	ID          string
	UserID      string
	Year        int
	SickLeave   int
	CasualLeave int
	EarnedLeave int
}

func DefaultBalance(userID string, year int) Balance {
	return Balance{
		UserID:      userID,
		Year:        year,
		SickLeave:   DefaultSickLeave,
		CasualLeave: DefaultCasualLeave,
		EarnedLeave: DefaultEarnedLeave,
	}
}
