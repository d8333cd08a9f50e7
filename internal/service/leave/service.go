package leave

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/audit"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/utils"
)

type LeaveServiceImpl struct {
	db database.Transactor
	leave.LeaveRepository
	balanceRepo    leave.BalanceRepository
	attendanceRepo attendance.AttendanceRepository
	userRepo       user.UserRepository
	notifier       notification.Notifier
	audit          audit.Recorder
	now            func() time.Time
}

func NewLeaveService(
	db database.Transactor,
	leaveRepo leave.LeaveRepository,
	balanceRepo leave.BalanceRepository,
	attendanceRepo attendance.AttendanceRepository,
	userRepo user.UserRepository,
	notifier notification.Notifier,
	recorder audit.Recorder,
) leave.LeaveService {
	return &LeaveServiceImpl{
		db:              db,
		LeaveRepository: leaveRepo,
		balanceRepo:     balanceRepo,
		attendanceRepo:  attendanceRepo,
		userRepo:        userRepo,
		notifier:        notifier,
		audit:           recorder,
		now:             time.Now,
	}
}

func (s *LeaveServiceImpl) Apply(ctx context.Context, actor user.Actor, req leave.ApplyLeaveRequest) (leave.LeaveResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveResponse{}, err
	}

	applicantID := actor.ID
	onBehalf := req.UserID != "" && req.UserID != actor.ID
	if onBehalf {
		if !actor.IsPrivileged() {
			return leave.LeaveResponse{}, user.ErrForbidden
		}
		applicantID = req.UserID
	}

	start, end := req.Range()
	if end.Before(start) {
		return leave.LeaveResponse{}, leave.ErrInvalidRange
	}
	// HR back-filling a leave may use past dates.
	if !onBehalf && start.Before(utils.DateOnly(s.now())) {
		return leave.LeaveResponse{}, leave.ErrPastStartDate
	}

	applicant, err := s.userRepo.GetByID(ctx, applicantID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return leave.LeaveResponse{}, leave.ErrApplicantInvalid
		}
		return leave.LeaveResponse{}, err
	}
	if !applicant.IsActive {
		return leave.LeaveResponse{}, leave.ErrApplicantInvalid
	}

	var created leave.Leave
	err = s.db.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.LeaveRepository.LockUser(ctx, applicantID); err != nil {
			return fmt.Errorf("failed to lock applicant: %w", err)
		}

		overlap, err := s.LeaveRepository.HasOverlap(ctx, applicantID, start, end)
		if err != nil {
			return fmt.Errorf("failed to check overlapping leaves: %w", err)
		}
		if overlap {
			return leave.ErrOverlapConflict
		}

		created, err = s.LeaveRepository.Create(ctx, leave.Leave{
			UserID:    applicantID,
			LeaveType: leave.Type(req.LeaveType),
			StartDate: start,
			EndDate:   end,
			Reason:    strings.TrimSpace(req.Reason),
			Status:    leave.StatusPending,
		})
		if err != nil {
			return fmt.Errorf("failed to create leave: %w", err)
		}
		return nil
	})
	if err != nil {
		return leave.LeaveResponse{}, err
	}

	s.audit.Record(ctx, actor, audit.ActionLeaveApplied, fmt.Sprintf("%s for %s from %s to %s",
		created.LeaveType, applicant.Username,
		created.StartDate.Format(utils.DateLayout), created.EndDate.Format(utils.DateLayout)))

	return leave.ToResponse(created), nil
}

// Decide approves or rejects a pending leave. On approval every covered day
// becomes an On Leave attendance row; the status change and the attendance
// writes commit together.
func (s *LeaveServiceImpl) Decide(ctx context.Context, actor user.Actor, id string, req leave.DecideLeaveRequest) (leave.LeaveResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveResponse{}, err
	}
	decision := leave.Status(req.Decision)

	var (
		decided     leave.Leave
		overwritten []string
	)
	err := s.db.WithinTransaction(ctx, func(ctx context.Context) error {
		l, err := s.LeaveRepository.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := l.Decide(decision, actor.ID, req.Remarks, s.now()); err != nil {
			return err
		}
		if err := s.LeaveRepository.UpdateStatus(ctx, l); err != nil {
			return fmt.Errorf("failed to update leave status: %w", err)
		}

		if decision == leave.StatusApproved {
			note := leave.AttendanceNote(l.LeaveType)
			for _, day := range l.Days() {
				prior, err := s.attendanceRepo.GetByUserAndDate(ctx, l.UserID, day)
				switch {
				case err == nil:
					overwritten = append(overwritten, fmt.Sprintf("%s:%s", day.Format(utils.DateLayout), prior.Status))
				case !errors.Is(err, attendance.ErrAttendanceNotFound):
					return fmt.Errorf("failed to read attendance for %s: %w", day.Format(utils.DateLayout), err)
				}

				_, err = s.attendanceRepo.Upsert(ctx, attendance.Attendance{
					UserID:     l.UserID,
					Date:       day,
					Status:     attendance.StatusOnLeave,
					Notes:      note,
					MarkedBy:   &actor.ID,
					IsVerified: true,
				})
				if err != nil {
					return fmt.Errorf("failed to mark leave day %s: %w", day.Format(utils.DateLayout), err)
				}
			}
		}

		decided = l
		return nil
	})
	if err != nil {
		return leave.LeaveResponse{}, err
	}

	if requester, err := s.userRepo.GetByID(ctx, decided.UserID); err != nil {
		slog.Warn("leave decided but requester lookup failed", "leave_id", decided.ID, "error", err)
	} else {
		s.notifier.NotifyLeaveDecision(ctx, requester, string(decided.LeaveType), string(decided.Status),
			decided.StartDate.Format(utils.DateLayout), decided.EndDate.Format(utils.DateLayout), decided.Remarks, actor.ID)
	}

	action := audit.ActionLeaveRejected
	detail := fmt.Sprintf("Rejected leave %s", decided.ID)
	if decided.Status == leave.StatusApproved {
		action = audit.ActionLeaveApproved
		detail = fmt.Sprintf("Approved leave %s (%d days)", decided.ID, decided.Duration())
		if len(overwritten) > 0 {
			detail += "; overwrote " + strings.Join(overwritten, ", ")
		}
	}
	s.audit.Record(ctx, actor, action, detail)

	return leave.ToResponse(decided), nil
}

// Cancel withdraws a Pending leave. The row lock orders it against Decide,
// so an approval that commits first turns this into ErrNotCancellable.
func (s *LeaveServiceImpl) Cancel(ctx context.Context, actor user.Actor, id string) (leave.LeaveResponse, error) {
	var cancelled leave.Leave
	err := s.db.WithinTransaction(ctx, func(ctx context.Context) error {
		l, err := s.LeaveRepository.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if l.UserID != actor.ID {
			return leave.ErrNotLeaveOwner
		}
		if err := l.Cancel(); err != nil {
			return err
		}
		if err := s.LeaveRepository.UpdateStatus(ctx, l); err != nil {
			return fmt.Errorf("failed to cancel leave: %w", err)
		}
		cancelled = l
		return nil
	})
	if err != nil {
		return leave.LeaveResponse{}, err
	}

	s.audit.Record(ctx, actor, audit.ActionLeaveCancelled, fmt.Sprintf("Cancelled leave %s", cancelled.ID))
	return leave.ToResponse(cancelled), nil
}

// Get lets HR/Admin read any leave; employees only see their own.
func (s *LeaveServiceImpl) Get(ctx context.Context, actor user.Actor, id string) (leave.LeaveResponse, error) {
	l, err := s.LeaveRepository.GetByID(ctx, id)
	if err != nil {
		return leave.LeaveResponse{}, err
	}
	if !actor.IsPrivileged() && l.UserID != actor.ID {
		return leave.LeaveResponse{}, leave.ErrLeaveNotFound
	}
	return leave.ToResponse(l), nil
}

func (s *LeaveServiceImpl) ListMine(ctx context.Context, actor user.Actor, filter leave.LeaveFilter) (leave.MyLeavesResponse, error) {
	filter.UserID = &actor.ID
	list, err := s.List(ctx, filter)
	if err != nil {
		return leave.MyLeavesResponse{}, err
	}

	balance, err := s.GetBalance(ctx, actor.ID, s.now().Year())
	if err != nil {
		return leave.MyLeavesResponse{}, err
	}

	return leave.MyLeavesResponse{ListLeaveResponse: list, Balance: balance}, nil
}

func (s *LeaveServiceImpl) List(ctx context.Context, filter leave.LeaveFilter) (leave.ListLeaveResponse, error) {
	filter.Page, filter.Limit = utils.NormalizePage(filter.Page, filter.Limit)

	leaves, total, err := s.LeaveRepository.List(ctx, filter)
	if err != nil {
		return leave.ListLeaveResponse{}, fmt.Errorf("failed to list leaves: %w", err)
	}

	resp := leave.ListLeaveResponse{
		Leaves:     make([]leave.LeaveResponse, 0, len(leaves)),
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: utils.TotalPages(total, filter.Limit),
	}
	for _, l := range leaves {
		resp.Leaves = append(resp.Leaves, leave.ToResponse(l))
	}
	return resp, nil
}

func (s *LeaveServiceImpl) GetBalance(ctx context.Context, userID string, year int) (leave.BalanceResponse, error) {
	if year <= 0 {
		year = s.now().Year()
	}
	b, err := s.balanceRepo.GetOrCreate(ctx, userID, year)
	if err != nil {
		return leave.BalanceResponse{}, fmt.Errorf("failed to load leave balance: %w", err)
	}
	return leave.ToBalanceResponse(b), nil
}
