package report

import (
	"context"
	"io"
)

// ReportService generates per-employee reports and CSV exports
type ReportService interface {
	EmployeeAttendanceReport(ctx context.Context, req EmployeeAttendanceReportRequest) (EmployeeAttendanceReport, error)

	// ExportAttendance writes AttendanceCSVHeader followed by one row per record
	ExportAttendance(ctx context.Context, w io.Writer, filter AttendanceExportFilter) error

	// ExportEmployees writes EmployeeCSVHeader followed by one row per user
	ExportEmployees(ctx context.Context, w io.Writer) error
}
