package attendance

import (
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/utils"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/validator"
)

// parseClock validates an optional "15:04" field.
func parseClock(errs *validator.ValidationErrors, field string, value *string) *time.Time {
	if value == nil || *value == "" {
		return nil
	}
	t, ok := validator.IsValidClock(*value)
	if !ok {
		errs.Add(field, field+" must be in HH:MM format")
		return nil
	}
	return &t
}

func parseDate(errs *validator.ValidationErrors, field string, value string) time.Time {
	d, ok := validator.IsValidDate(value)
	if !ok {
		errs.Add(field, field+" must be in YYYY-MM-DD format")
	}
	return d
}

// Times holds parsed check-in/out clocks already combined with the date.
type Times struct {
	Date     time.Time
	CheckIn  *time.Time
	CheckOut *time.Time
}

func (t *Times) combine(day time.Time, in, out *time.Time) {
	t.Date = utils.DateOnly(day)
	if in != nil {
		v := AtClock(day, *in)
		t.CheckIn = &v
	}
	if out != nil {
		v := AtClock(day, *out)
		t.CheckOut = &v
	}
}

func checkOrder(errs *validator.ValidationErrors, t Times) {
	if t.CheckIn != nil && t.CheckOut != nil && !t.CheckOut.After(*t.CheckIn) {
		errs.Add("check_out_time", "check_out_time must be after check_in_time")
	}
}

type SelfMarkRequest struct {
	// Date defaults to today when empty.
	Date     string  `json:"date,omitempty"`
	CheckIn  *string `json:"check_in_time"`
	CheckOut *string `json:"check_out_time,omitempty"`
	Notes    string  `json:"notes"`

	times Times
}

func (r *SelfMarkRequest) Validate(today time.Time) error {
	var errs validator.ValidationErrors

	day := today
	if r.Date != "" {
		day = parseDate(&errs, "date", r.Date)
	}
	in := parseClock(&errs, "check_in_time", r.CheckIn)
	out := parseClock(&errs, "check_out_time", r.CheckOut)
	r.times.combine(day, in, out)
	checkOrder(&errs, r.times)

	return errs.Err()
}

// Times is available after a successful Validate.
func (r *SelfMarkRequest) Times() Times {
	return r.times
}

type MarkAttendanceRequest struct {
	UserID   string  `json:"user_id"`
	Date     string  `json:"date"`
	Status   string  `json:"status"`
	CheckIn  *string `json:"check_in_time,omitempty"`
	CheckOut *string `json:"check_out_time,omitempty"`
	Notes    string  `json:"notes"`

	times Times
}

func (r *MarkAttendanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.UserID) {
		errs.Add("user_id", "user_id is required")
	}
	if !Status(r.Status).IsValid() {
		errs.Add("status", "status must be one of Present, Absent, Half Day, On Leave, Holiday")
	}
	day := parseDate(&errs, "date", r.Date)
	in := parseClock(&errs, "check_in_time", r.CheckIn)
	out := parseClock(&errs, "check_out_time", r.CheckOut)
	r.times.combine(day, in, out)
	checkOrder(&errs, r.times)

	return errs.Err()
}

// Times is available after a successful Validate.
func (r *MarkAttendanceRequest) Times() Times {
	return r.times
}

type BulkMarkRequest struct {
	UserIDs []string `json:"user_ids"`
	Date    string   `json:"date"`
	Status  string   `json:"status"`
	Notes   string   `json:"notes"`

	date time.Time
}

func (r *BulkMarkRequest) Validate() error {
	var errs validator.ValidationErrors

	if len(r.UserIDs) == 0 {
		errs.Add("user_ids", "at least one user must be selected")
	}
	if !Status(r.Status).IsValid() {
		errs.Add("status", "status must be one of Present, Absent, Half Day, On Leave, Holiday")
	}
	r.date = utils.DateOnly(parseDate(&errs, "date", r.Date))

	return errs.Err()
}

// ParsedDate is available after a successful Validate.
func (r *BulkMarkRequest) ParsedDate() time.Time {
	return r.date
}

type EditAttendanceRequest struct {
	ID       string  `json:"-"`
	Status   *string `json:"status,omitempty"`
	CheckIn  *string `json:"check_in_time,omitempty"`
	CheckOut *string `json:"check_out_time,omitempty"`
	Notes    *string `json:"notes,omitempty"`

	checkIn  *time.Time
	checkOut *time.Time
}

func (r *EditAttendanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs.Add("id", "id is required")
	}
	if r.Status != nil && !Status(*r.Status).IsValid() {
		errs.Add("status", "status must be one of Present, Absent, Half Day, On Leave, Holiday")
	}
	r.checkIn = parseClock(&errs, "check_in_time", r.CheckIn)
	r.checkOut = parseClock(&errs, "check_out_time", r.CheckOut)

	return errs.Err()
}

// Clocks returns the parsed wall-clock values; nil means unchanged.
func (r *EditAttendanceRequest) Clocks() (in, out *time.Time) {
	return r.checkIn, r.checkOut
}

type AttendanceResponse struct {
	ID           string  `json:"id"`
	UserID       string  `json:"user_id"`
	UserName     *string `json:"user_name,omitempty"`
	Date         string  `json:"date"`
	Status       string  `json:"status"`
	CheckIn      *string `json:"check_in_time,omitempty"`
	CheckOut     *string `json:"check_out_time,omitempty"`
	WorkingHours float64 `json:"working_hours"`
	Notes        string  `json:"notes"`
	MarkedBy     *string `json:"marked_by,omitempty"`
	IsVerified   bool    `json:"is_verified"`
}

type ListAttendanceResponse struct {
	Records    []AttendanceResponse `json:"records"`
	TotalCount int64                `json:"total_count"`
	Page       int                  `json:"page"`
	Limit      int                  `json:"limit"`
	TotalPages int                  `json:"total_pages"`
}

type MyAttendanceResponse struct {
	ListAttendanceResponse
	PresentDays int     `json:"present_days"`
	AbsentDays  int     `json:"absent_days"`
	Percentage  float64 `json:"attendance_percentage"`
}

type BulkMarkResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Count   int    `json:"count"`
}

func formatClock(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format("15:04")
	return &s
}

func ToResponse(a Attendance) AttendanceResponse {
	return AttendanceResponse{
		ID:           a.ID,
		UserID:       a.UserID,
		UserName:     a.UserName,
		Date:         a.Date.Format(utils.DateLayout),
		Status:       string(a.Status),
		CheckIn:      formatClock(a.CheckIn),
		CheckOut:     formatClock(a.CheckOut),
		WorkingHours: a.WorkingHours().InexactFloat64(),
		Notes:        a.Notes,
		MarkedBy:     a.MarkedBy,
		IsVerified:   a.IsVerified,
	}
}
