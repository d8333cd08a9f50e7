package fake

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/utils"
)

// AttendanceRepo enforces the (user, date) key like the unique index does.
type AttendanceRepo struct {
	mu    sync.Mutex
	Rows  map[string]attendance.Attendance
	byKey map[string]string
	seq   int

	// UpsertErr, when set, fails Upsert for the matching day.
	UpsertErr func(a attendance.Attendance) error
}

func NewAttendanceRepo(rows ...attendance.Attendance) *AttendanceRepo {
	r := &AttendanceRepo{Rows: make(map[string]attendance.Attendance), byKey: make(map[string]string)}
	for _, a := range rows {
		r.put(a)
	}
	return r
}

func (r *AttendanceRepo) put(a attendance.Attendance) attendance.Attendance {
	if a.ID == "" {
		r.seq++
		a.ID = fmt.Sprintf("att-%d", r.seq)
	}
	a.Date = utils.DateOnly(a.Date)
	r.Rows[a.ID] = a
	r.byKey[dayKey(a.UserID, a.Date)] = a.ID
	return a
}

func (r *AttendanceRepo) InsertIfAbsent(_ context.Context, a attendance.Attendance) (attendance.Attendance, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if id, ok := r.byKey[dayKey(a.UserID, a.Date)]; ok {
		return r.Rows[id], false, nil
	}
	a.ID = ""
	a.CreatedAt = time.Now()
	return r.put(a), true, nil
}

func (r *AttendanceRepo) Upsert(_ context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.UpsertErr != nil {
		if err := r.UpsertErr(a); err != nil {
			return attendance.Attendance{}, err
		}
	}
	a.ID = r.byKey[dayKey(a.UserID, a.Date)]
	a.UpdatedAt = time.Now()
	return r.put(a), nil
}

func (r *AttendanceRepo) GetByID(_ context.Context, id string) (attendance.Attendance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.Rows[id]
	if !ok {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	return a, nil
}

func (r *AttendanceRepo) GetByUserAndDate(_ context.Context, userID string, date time.Time) (attendance.Attendance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.byKey[dayKey(userID, date)]
	if !ok {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	return r.Rows[id], nil
}

func (r *AttendanceRepo) Update(_ context.Context, a attendance.Attendance) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.Rows[a.ID]; !ok {
		return attendance.ErrAttendanceNotFound
	}
	r.put(a)
	return nil
}

func (r *AttendanceRepo) SetVerified(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.Rows[id]
	if !ok {
		return attendance.ErrAttendanceNotFound
	}
	a.IsVerified = true
	r.Rows[id] = a
	return nil
}

func (r *AttendanceRepo) List(_ context.Context, filter attendance.AttendanceFilter) ([]attendance.Attendance, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var rows []attendance.Attendance
	for _, a := range r.Rows {
		if filter.UserID != nil && a.UserID != *filter.UserID {
			continue
		}
		if filter.Status != nil && a.Status != *filter.Status {
			continue
		}
		if filter.From != nil && a.Date.Before(utils.DateOnly(*filter.From)) {
			continue
		}
		if filter.To != nil && a.Date.After(utils.DateOnly(*filter.To)) {
			continue
		}
		rows = append(rows, a)
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].Date.Equal(rows[j].Date) {
			return rows[i].Date.After(rows[j].Date)
		}
		return rows[i].UserID < rows[j].UserID
	})
	return Page(rows, filter.Page, filter.Limit), int64(len(rows)), nil
}

// Count returns the number of stored rows.
func (r *AttendanceRepo) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.Rows)
}
