package attendance

import (
	"context"
	"time"
)

type AttendanceRepository interface {
	// InsertIfAbsent creates the row unless (user, date) exists; created is false in that case.
	InsertIfAbsent(ctx context.Context, a Attendance) (record Attendance, created bool, err error)
	// Upsert creates or overwrites the (user, date) row.
	Upsert(ctx context.Context, a Attendance) (Attendance, error)
	GetByID(ctx context.Context, id string) (Attendance, error)
	// GetByUserAndDate returns ErrAttendanceNotFound when no row exists.
	GetByUserAndDate(ctx context.Context, userID string, date time.Time) (Attendance, error)
	Update(ctx context.Context, a Attendance) error
	SetVerified(ctx context.Context, id string) error
	List(ctx context.Context, filter AttendanceFilter) ([]Attendance, int64, error)
}

type AttendanceFilter struct {
	UserID *string
	Status *Status
	From   *time.Time
	To     *time.Time
	Page   int
	// Limit <= 0 returns every matching row.
	Limit int
}
