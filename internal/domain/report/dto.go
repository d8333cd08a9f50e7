package report

import (
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/utils"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/validator"
)

// Fixed CSV layouts. Column order is part of the export contract.
var (
	AttendanceCSVHeader = []string{"Name", "Email", "Department", "Date", "Status", "Check In", "Check Out", "Working Hours", "Notes"}
	EmployeeCSVHeader   = []string{"Employee ID", "First Name", "Last Name", "Email", "Phone", "Role", "Department", "Salary", "Date of Joining", "Status", "Account Locked"}
)

const maxRangeDays = 366

// ========================================
// EMPLOYEE ATTENDANCE REPORT
// ========================================

type EmployeeAttendanceReportRequest struct {
	UserID string `json:"user_id"`
	From   string `json:"from"`
	To     string `json:"to"`

	from time.Time
	to   time.Time
}

// Validate defaults the range to the current month when both ends are empty.
func (r *EmployeeAttendanceReportRequest) Validate(today time.Time) error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.UserID) {
		errs.Add("user_id", "user_id is required")
	}

	if r.From == "" && r.To == "" {
		r.from = time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
		r.to = utils.DateOnly(today)
		return errs.Err()
	}

	from, okFrom := validator.IsValidDate(r.From)
	if !okFrom {
		errs.Add("from", "from must be in YYYY-MM-DD format")
	}
	to, okTo := validator.IsValidDate(r.To)
	if !okTo {
		errs.Add("to", "to must be in YYYY-MM-DD format")
	}
	if okFrom && okTo {
		if to.Before(from) {
			errs.Add("to", ErrInvalidDateRange.Error())
		} else if utils.InclusiveDays(from, to) > maxRangeDays {
			errs.Add("to", ErrRangeTooLong.Error())
		}
	}
	r.from, r.to = from, to

	return errs.Err()
}

// Range is available after a successful Validate.
func (r *EmployeeAttendanceReportRequest) Range() (time.Time, time.Time) {
	return r.from, r.to
}

type EmployeeAttendanceReport struct {
	UserID            string                          `json:"user_id"`
	Name              string                          `json:"name"`
	Email             string                          `json:"email"`
	Department        *string                         `json:"department,omitempty"`
	From              string                          `json:"from"`
	To                string                          `json:"to"`
	TotalDays         int                             `json:"total_days"`
	StatusCounts      map[string]int                  `json:"status_counts"`
	Percentage        float64                         `json:"attendance_percentage"`
	TotalWorkingHours string                          `json:"total_working_hours"`
	Records           []attendance.AttendanceResponse `json:"records"`
	GeneratedAt       string                          `json:"generated_at"`
}

// ========================================
// CSV EXPORTS
// ========================================

type AttendanceExportFilter struct {
	From   string `json:"from"`
	To     string `json:"to"`
	UserID string `json:"user_id"`
	Status string `json:"status"`
}

func (f *AttendanceExportFilter) Validate() error {
	var errs validator.ValidationErrors

	var from, to time.Time
	var okFrom, okTo bool
	if f.From != "" {
		if from, okFrom = validator.IsValidDate(f.From); !okFrom {
			errs.Add("from", "from must be in YYYY-MM-DD format")
		}
	}
	if f.To != "" {
		if to, okTo = validator.IsValidDate(f.To); !okTo {
			errs.Add("to", "to must be in YYYY-MM-DD format")
		}
	}
	if okFrom && okTo && to.Before(from) {
		errs.Add("to", ErrInvalidDateRange.Error())
	}
	if f.Status != "" && !attendance.Status(f.Status).IsValid() {
		errs.Add("status", "status must be one of Present, Absent, Half Day, On Leave, Holiday")
	}

	return errs.Err()
}

// ToAttendanceFilter converts the validated export filter into an unpaginated query.
func (f AttendanceExportFilter) ToAttendanceFilter() attendance.AttendanceFilter {
	var af attendance.AttendanceFilter
	if f.UserID != "" {
		af.UserID = &f.UserID
	}
	if f.Status != "" {
		s := attendance.Status(f.Status)
		af.Status = &s
	}
	if d, ok := validator.IsValidDate(f.From); ok {
		af.From = &d
	}
	if d, ok := validator.IsValidDate(f.To); ok {
		af.To = &d
	}
	return af
}
