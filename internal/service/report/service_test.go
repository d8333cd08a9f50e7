package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/ems-backend-go/internal/service/fake"
)

var now = time.Date(2026, 3, 20, 15, 0, 0, 0, time.UTC)

func ptr[T any](v T) *T { return &v }

func clockAt(day, hour, minute int) *time.Time {
	t := time.Date(2026, 3, day, hour, minute, 0, 0, time.UTC)
	return &t
}

var (
	jane = user.User{
		ID:              "u-jane",
		Username:        "jane.doe",
		Email:           "jane@example.com",
		FirstName:       "Jane",
		LastName:        "Doe",
		Role:            user.RoleEmployee,
		EmployeeID:      ptr("EMP20260001"),
		Department:      ptr("Engineering"),
		Salary:          ptr(decimal.RequireFromString("7500000.5")),
		DateOfJoining:   ptr(time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)),
		IsActive:        true,
		IsAccountLocked: true,
	}
	bob = user.User{ID: "u-bob", Username: "bob.lee", Email: "bob@example.com", FirstName: "Bob", Role: user.RoleHR}
)

func janeRow(day int, status attendance.Status, in, out *time.Time) attendance.Attendance {
	return attendance.Attendance{
		UserID:         jane.ID,
		Date:           time.Date(2026, 3, day, 0, 0, 0, 0, time.UTC),
		Status:         status,
		CheckIn:        in,
		CheckOut:       out,
		UserName:       ptr("Jane Doe"),
		UserEmail:      ptr(jane.Email),
		UserDepartment: jane.Department,
	}
}

func newService(rows ...attendance.Attendance) *ReportServiceImpl {
	svc := NewReportService(fake.NewAttendanceRepo(rows...), fake.NewUserRepo(jane, bob)).(*ReportServiceImpl)
	svc.now = func() time.Time { return now }
	return svc
}

func readCSV(t *testing.T, buf *bytes.Buffer) [][]string {
	t.Helper()
	records, err := csv.NewReader(buf).ReadAll()
	require.NoError(t, err)
	return records
}

func TestEmployeeAttendanceReport(t *testing.T) {
	svc := newService(
		janeRow(2, attendance.StatusPresent, clockAt(2, 9, 0), clockAt(2, 17, 0)),
		janeRow(3, attendance.StatusPresent, clockAt(3, 9, 0), clockAt(3, 13, 30)),
		janeRow(4, attendance.StatusAbsent, nil, nil),
		janeRow(5, attendance.StatusOnLeave, nil, nil),
		janeRow(25, attendance.StatusPresent, nil, nil),
	)

	got, err := svc.EmployeeAttendanceReport(context.Background(), report.EmployeeAttendanceReportRequest{
		UserID: jane.ID, From: "2026-03-01", To: "2026-03-20",
	})
	require.NoError(t, err)

	assert.Equal(t, "Jane Doe", got.Name)
	assert.Equal(t, "2026-03-01", got.From)
	assert.Equal(t, 4, got.TotalDays)
	assert.Equal(t, 2, got.StatusCounts["Present"])
	assert.Equal(t, 0, got.StatusCounts["Holiday"])
	assert.Len(t, got.StatusCounts, 5)
	assert.Equal(t, 50.0, got.Percentage)
	assert.Equal(t, "12.50", got.TotalWorkingHours)
	require.Len(t, got.Records, 4)
	assert.Equal(t, "2026-03-05", got.Records[0].Date)
	assert.Equal(t, "2026-03-20T15:00:00Z", got.GeneratedAt)
}

func TestEmployeeAttendanceReport_DefaultsToCurrentMonth(t *testing.T) {
	svc := newService(janeRow(2, attendance.StatusPresent, nil, nil))

	got, err := svc.EmployeeAttendanceReport(context.Background(), report.EmployeeAttendanceReportRequest{UserID: jane.ID})
	require.NoError(t, err)
	assert.Equal(t, "2026-03-01", got.From)
	assert.Equal(t, "2026-03-20", got.To)
	assert.Equal(t, 100.0, got.Percentage)
}

func TestEmployeeAttendanceReport_Rejects(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	_, err := svc.EmployeeAttendanceReport(ctx, report.EmployeeAttendanceReportRequest{UserID: "u-ghost"})
	assert.ErrorIs(t, err, user.ErrUserNotFound)

	_, err = svc.EmployeeAttendanceReport(ctx, report.EmployeeAttendanceReportRequest{UserID: jane.ID, From: "2026-03-10", To: "2026-03-01"})
	var verr validator.ValidationErrors
	assert.ErrorAs(t, err, &verr)

	_, err = svc.EmployeeAttendanceReport(ctx, report.EmployeeAttendanceReportRequest{UserID: jane.ID, From: "2025-01-01", To: "2026-03-01"})
	assert.ErrorAs(t, err, &verr)
}

func TestExportAttendance(t *testing.T) {
	svc := newService(
		janeRow(2, attendance.StatusPresent, clockAt(2, 9, 0), clockAt(2, 17, 30)),
		janeRow(3, attendance.StatusAbsent, nil, nil),
	)

	var buf bytes.Buffer
	require.NoError(t, svc.ExportAttendance(context.Background(), &buf, report.AttendanceExportFilter{Status: "Present"}))

	records := readCSV(t, &buf)
	require.Len(t, records, 2)
	assert.Equal(t, report.AttendanceCSVHeader, records[0])
	assert.Equal(t, []string{"Jane Doe", "jane@example.com", "Engineering", "2026-03-02", "Present", "09:00", "17:30", "8.50", ""}, records[1])
}

func TestExportAttendance_InvalidFilter(t *testing.T) {
	svc := newService()
	var buf bytes.Buffer

	err := svc.ExportAttendance(context.Background(), &buf, report.AttendanceExportFilter{Status: "Late"})
	var verr validator.ValidationErrors
	assert.ErrorAs(t, err, &verr)
	assert.Zero(t, buf.Len())
}

func TestExportEmployees(t *testing.T) {
	svc := newService()

	var buf bytes.Buffer
	require.NoError(t, svc.ExportEmployees(context.Background(), &buf))

	records := readCSV(t, &buf)
	require.Len(t, records, 3)
	assert.Equal(t, report.EmployeeCSVHeader, records[0])
	assert.Equal(t, []string{"", "Bob", "", "bob@example.com", "", "HR", "", "", "", "Inactive", "No"}, records[1])
	assert.Equal(t, []string{
		"EMP20260001", "Jane", "Doe", "jane@example.com", "", "Employee", "Engineering",
		"7500000.50", "2026-01-05", "Active", "Yes",
	}, records[2])
}
