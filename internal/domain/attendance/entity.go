package attendance

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPresent Status = "Present"
	StatusAbsent  Status = "Absent"
	StatusHalfDay Status = "Half Day"
	StatusOnLeave Status = "On Leave"
	StatusHoliday Status = "Holiday"
)

// AllStatuses returns every status in display order
func AllStatuses() []Status {
	return []Status{StatusPresent, StatusAbsent, StatusHalfDay, StatusOnLeave, StatusHoliday}
}

func (s Status) IsValid() bool {
	for _, v := range AllStatuses() {
		if v == s {
			return true
		}
	}
	return false
}

// Attendance is one register row per (user, date). CheckIn and CheckOut
// carry the attendance date with the wall-clock time applied.
type Attendance struct {
	ID         string
	UserID     string
	Date       time.Time
	Status     Status
	CheckIn    *time.Time
	CheckOut   *time.Time
	Notes      string
	MarkedBy   *string
	IsVerified bool
	CreatedAt  time.Time
	UpdatedAt  time.Time

	// Join
	UserName       *string
	UserEmail      *string
	UserDepartment *string
}

var hundred = decimal.NewFromInt(100)

// WorkingHours is the check-out minus check-in delta in hours, rounded to two
// decimals. Missing times or a check-out before check-in yield zero.
func (a *Attendance) WorkingHours() decimal.Decimal {
	if a.CheckIn == nil || a.CheckOut == nil {
		return decimal.Zero
	}
	delta := a.CheckOut.Sub(*a.CheckIn)
	if delta <= 0 {
		return decimal.Zero
	}
	seconds := decimal.NewFromInt(int64(delta / time.Second))
	return seconds.Div(decimal.NewFromInt(3600)).Round(2)
}

// Percentage returns present/total*100 rounded to two decimals, or zero when total is zero.
func Percentage(present, total int) decimal.Decimal {
	if total <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(present)).
		Mul(hundred).
		Div(decimal.NewFromInt(int64(total))).
		Round(2)
}

// AtClock combines a calendar day with a wall-clock time.
func AtClock(day time.Time, clock time.Time) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, clock.Hour(), clock.Minute(), clock.Second(), 0, time.UTC)
}

// Summary aggregates a set of attendance rows.
type Summary struct {
	Total        int
	ByStatus     map[Status]int
	WorkingHours decimal.Decimal
}

func Summarize(rows []Attendance) Summary {
	s := Summary{ByStatus: make(map[Status]int), WorkingHours: decimal.Zero}
	for i := range rows {
		s.Total++
		s.ByStatus[rows[i].Status]++
		s.WorkingHours = s.WorkingHours.Add(rows[i].WorkingHours())
	}
	return s
}

// Percentage is the share of Present rows.
func (s Summary) Percentage() decimal.Decimal {
	return Percentage(s.ByStatus[StatusPresent], s.Total)
}
