package attendance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/audit"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/utils"
)

type AttendanceServiceImpl struct {
	db database.Transactor
	attendance.AttendanceRepository
	userRepo user.UserRepository
	audit    audit.Recorder
	now      func() time.Time
}

func NewAttendanceService(
	db database.Transactor,
	attendanceRepo attendance.AttendanceRepository,
	userRepo user.UserRepository,
	recorder audit.Recorder,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		db:                   db,
		AttendanceRepository: attendanceRepo,
		userRepo:             userRepo,
		audit:                recorder,
		now:                  time.Now,
	}
}

func (s *AttendanceServiceImpl) today() time.Time {
	return utils.DateOnly(s.now())
}

// SelfMark inserts a Present row for the actor. The (user, date) unique key
// decides races, so a concurrent duplicate also reports ErrAlreadyMarked.
func (s *AttendanceServiceImpl) SelfMark(ctx context.Context, actor user.Actor, req attendance.SelfMarkRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(s.today()); err != nil {
		return attendance.AttendanceResponse{}, err
	}
	times := req.Times()
	if times.CheckIn == nil {
		return attendance.AttendanceResponse{}, attendance.ErrCheckInRequired
	}
	if times.Date.After(s.today()) {
		return attendance.AttendanceResponse{}, attendance.ErrFutureDate
	}

	record, created, err := s.AttendanceRepository.InsertIfAbsent(ctx, attendance.Attendance{
		UserID:     actor.ID,
		Date:       times.Date,
		Status:     attendance.StatusPresent,
		CheckIn:    times.CheckIn,
		CheckOut:   times.CheckOut,
		Notes:      req.Notes,
		IsVerified: false,
	})
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to mark attendance: %w", err)
	}
	if !created {
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyMarked
	}

	s.audit.Record(ctx, actor, audit.ActionAttendanceMarked,
		fmt.Sprintf("Self-marked %s on %s", record.Status, times.Date.Format(utils.DateLayout)))
	return attendance.ToResponse(record), nil
}

func (s *AttendanceServiceImpl) ensureUser(ctx context.Context, userID string) error {
	_, err := s.userRepo.GetByID(ctx, userID)
	if errors.Is(err, user.ErrUserNotFound) {
		return attendance.ErrUserNotFound
	}
	return err
}

func (s *AttendanceServiceImpl) Mark(ctx context.Context, actor user.Actor, req attendance.MarkAttendanceRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if err := s.ensureUser(ctx, req.UserID); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	times := req.Times()
	record, err := s.AttendanceRepository.Upsert(ctx, attendance.Attendance{
		UserID:     req.UserID,
		Date:       times.Date,
		Status:     attendance.Status(req.Status),
		CheckIn:    times.CheckIn,
		CheckOut:   times.CheckOut,
		Notes:      req.Notes,
		MarkedBy:   &actor.ID,
		IsVerified: true,
	})
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to mark attendance: %w", err)
	}

	s.audit.Record(ctx, actor, audit.ActionAttendanceMarked,
		fmt.Sprintf("Marked %s as %s on %s", req.UserID, req.Status, times.Date.Format(utils.DateLayout)))
	return attendance.ToResponse(record), nil
}

// BulkMark applies one status to many users for a single day. Either every
// row is written or none is.
func (s *AttendanceServiceImpl) BulkMark(ctx context.Context, actor user.Actor, req attendance.BulkMarkRequest) (attendance.BulkMarkResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.BulkMarkResponse{}, err
	}

	seen := make(map[string]struct{}, len(req.UserIDs))
	ids := make([]string, 0, len(req.UserIDs))
	for _, id := range req.UserIDs {
		if _, dup := seen[id]; dup || id == "" {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	date := req.ParsedDate()
	err := s.db.WithinTransaction(ctx, func(ctx context.Context) error {
		for _, id := range ids {
			if err := s.ensureUser(ctx, id); err != nil {
				return err
			}
			_, err := s.AttendanceRepository.Upsert(ctx, attendance.Attendance{
				UserID:     id,
				Date:       date,
				Status:     attendance.Status(req.Status),
				Notes:      req.Notes,
				MarkedBy:   &actor.ID,
				IsVerified: true,
			})
			if err != nil {
				return fmt.Errorf("failed to mark attendance for %s: %w", id, err)
			}
		}
		return nil
	})
	if err != nil {
		return attendance.BulkMarkResponse{}, err
	}

	s.audit.Record(ctx, actor, audit.ActionAttendanceBulk,
		fmt.Sprintf("Marked %d users as %s on %s", len(ids), req.Status, date.Format(utils.DateLayout)))

	return attendance.BulkMarkResponse{
		Success: true,
		Message: fmt.Sprintf("Attendance marked for %d employees", len(ids)),
		Count:   len(ids),
	}, nil
}

func (s *AttendanceServiceImpl) Edit(ctx context.Context, actor user.Actor, req attendance.EditAttendanceRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	record, err := s.AttendanceRepository.GetByID(ctx, req.ID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	if req.Status != nil {
		record.Status = attendance.Status(*req.Status)
	}
	in, out := req.Clocks()
	if in != nil {
		v := attendance.AtClock(record.Date, *in)
		record.CheckIn = &v
	}
	if out != nil {
		v := attendance.AtClock(record.Date, *out)
		record.CheckOut = &v
	}
	if record.CheckIn != nil && record.CheckOut != nil && !record.CheckOut.After(*record.CheckIn) {
		return attendance.AttendanceResponse{}, attendance.ErrCheckOutBeforeIn
	}
	if req.Notes != nil {
		record.Notes = *req.Notes
	}
	record.MarkedBy = &actor.ID

	if err := s.AttendanceRepository.Update(ctx, record); err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to edit attendance: %w", err)
	}

	s.audit.Record(ctx, actor, audit.ActionAttendanceEdited,
		fmt.Sprintf("Edited attendance %s (%s, %s)", record.ID, record.Status, record.Date.Format(utils.DateLayout)))
	return attendance.ToResponse(record), nil
}

func (s *AttendanceServiceImpl) Verify(ctx context.Context, actor user.Actor, id string) (attendance.AttendanceResponse, error) {
	if err := s.AttendanceRepository.SetVerified(ctx, id); err != nil {
		return attendance.AttendanceResponse{}, err
	}
	record, err := s.AttendanceRepository.GetByID(ctx, id)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	s.audit.Record(ctx, actor, audit.ActionAttendanceVerified, fmt.Sprintf("Verified attendance %s", id))
	return attendance.ToResponse(record), nil
}

func (s *AttendanceServiceImpl) ListMine(ctx context.Context, actor user.Actor, filter attendance.AttendanceFilter) (attendance.MyAttendanceResponse, error) {
	filter.UserID = &actor.ID
	page, err := s.List(ctx, filter)
	if err != nil {
		return attendance.MyAttendanceResponse{}, err
	}

	// Counts cover the whole range, not just the current page.
	all := filter
	all.Page, all.Limit = 0, 0
	rows, _, err := s.AttendanceRepository.List(ctx, all)
	if err != nil {
		return attendance.MyAttendanceResponse{}, fmt.Errorf("failed to summarize attendance: %w", err)
	}
	summary := attendance.Summarize(rows)

	return attendance.MyAttendanceResponse{
		ListAttendanceResponse: page,
		PresentDays:            summary.ByStatus[attendance.StatusPresent],
		AbsentDays:             summary.ByStatus[attendance.StatusAbsent],
		Percentage:             summary.Percentage().InexactFloat64(),
	}, nil
}

func (s *AttendanceServiceImpl) List(ctx context.Context, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	filter.Page, filter.Limit = utils.NormalizePage(filter.Page, filter.Limit)

	rows, total, err := s.AttendanceRepository.List(ctx, filter)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to list attendance: %w", err)
	}

	resp := attendance.ListAttendanceResponse{
		Records:    make([]attendance.AttendanceResponse, 0, len(rows)),
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: utils.TotalPages(total, filter.Limit),
	}
	for _, a := range rows {
		resp.Records = append(resp.Records, attendance.ToResponse(a))
	}
	return resp, nil
}
