package report

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/utils"
)

type ReportServiceImpl struct {
	attendanceRepo attendance.AttendanceRepository
	userRepo       user.UserRepository
	now            func() time.Time
}

func NewReportService(attendanceRepo attendance.AttendanceRepository, userRepo user.UserRepository) report.ReportService {
	return &ReportServiceImpl{
		attendanceRepo: attendanceRepo,
		userRepo:       userRepo,
		now:            time.Now,
	}
}

// EmployeeAttendanceReport summarises one employee's register over a date range
func (s *ReportServiceImpl) EmployeeAttendanceReport(ctx context.Context, req report.EmployeeAttendanceReportRequest) (report.EmployeeAttendanceReport, error) {
	if err := req.Validate(s.now()); err != nil {
		return report.EmployeeAttendanceReport{}, err
	}

	u, err := s.userRepo.GetByID(ctx, req.UserID)
	if err != nil {
		return report.EmployeeAttendanceReport{}, err
	}

	from, to := req.Range()
	rows, _, err := s.attendanceRepo.List(ctx, attendance.AttendanceFilter{UserID: &u.ID, From: &from, To: &to})
	if err != nil {
		return report.EmployeeAttendanceReport{}, fmt.Errorf("failed to get attendance data: %w", err)
	}

	summary := attendance.Summarize(rows)
	counts := make(map[string]int, len(attendance.AllStatuses()))
	for _, st := range attendance.AllStatuses() {
		counts[string(st)] = summary.ByStatus[st]
	}

	records := make([]attendance.AttendanceResponse, 0, len(rows))
	for _, a := range rows {
		records = append(records, attendance.ToResponse(a))
	}

	return report.EmployeeAttendanceReport{
		UserID:            u.ID,
		Name:              u.FullName(),
		Email:             u.Email,
		Department:        u.Department,
		From:              from.Format(utils.DateLayout),
		To:                to.Format(utils.DateLayout),
		TotalDays:         summary.Total,
		StatusCounts:      counts,
		Percentage:        summary.Percentage().InexactFloat64(),
		TotalWorkingHours: summary.WorkingHours.StringFixed(2),
		Records:           records,
		GeneratedAt:       s.now().UTC().Format(time.RFC3339),
	}, nil
}

// ExportAttendance streams the filtered register as CSV
func (s *ReportServiceImpl) ExportAttendance(ctx context.Context, w io.Writer, filter report.AttendanceExportFilter) error {
	if err := filter.Validate(); err != nil {
		return err
	}

	rows, _, err := s.attendanceRepo.List(ctx, filter.ToAttendanceFilter())
	if err != nil {
		return fmt.Errorf("failed to get attendance data: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(report.AttendanceCSVHeader); err != nil {
		return err
	}
	for i := range rows {
		a := &rows[i]
		record := []string{
			deref(a.UserName),
			deref(a.UserEmail),
			deref(a.UserDepartment),
			a.Date.Format(utils.DateLayout),
			string(a.Status),
			clock(a.CheckIn),
			clock(a.CheckOut),
			a.WorkingHours().StringFixed(2),
			a.Notes,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportEmployees streams every user as CSV
func (s *ReportServiceImpl) ExportEmployees(ctx context.Context, w io.Writer) error {
	users, _, err := s.userRepo.List(ctx, user.UserFilter{})
	if err != nil {
		return fmt.Errorf("failed to get employees: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(report.EmployeeCSVHeader); err != nil {
		return err
	}
	for _, u := range users {
		salary := ""
		if u.Salary != nil {
			salary = u.Salary.StringFixed(2)
		}
		joined := ""
		if u.DateOfJoining != nil {
			joined = u.DateOfJoining.Format(utils.DateLayout)
		}
		status := "Inactive"
		if u.IsActive {
			status = "Active"
		}
		locked := "No"
		if u.IsAccountLocked {
			locked = "Yes"
		}

		record := []string{
			deref(u.EmployeeID),
			u.FirstName,
			u.LastName,
			u.Email,
			deref(u.Phone),
			string(u.Role),
			deref(u.Department),
			salary,
			joined,
			status,
			locked,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func clock(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("15:04")
}
