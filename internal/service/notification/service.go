package notification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/audit"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/user"
)

type NotificationServiceImpl struct {
	notifier notification.Notifier
	userRepo user.UserRepository
	audit    audit.Recorder
}

func NewNotificationService(notifier notification.Notifier, userRepo user.UserRepository, recorder audit.Recorder) notification.NotificationService {
	return &NotificationServiceImpl{
		notifier: notifier,
		userRepo: userRepo,
		audit:    recorder,
	}
}

func (s *NotificationServiceImpl) recipients(ctx context.Context, req notification.SendNotificationRequest) ([]string, error) {
	if req.All {
		active, err := s.userRepo.ListActive(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list active users: %w", err)
		}
		ids := make([]string, 0, len(active))
		for _, u := range active {
			ids = append(ids, u.ID)
		}
		return ids, nil
	}

	seen := make(map[string]struct{}, len(req.RecipientIDs))
	ids := make([]string, 0, len(req.RecipientIDs))
	for _, id := range req.RecipientIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *NotificationServiceImpl) Send(ctx context.Context, actor user.Actor, req notification.SendNotificationRequest) (notification.SendNotificationResponse, error) {
	if err := req.Validate(); err != nil {
		return notification.SendNotificationResponse{}, err
	}

	ids, err := s.recipients(ctx, req)
	if err != nil {
		return notification.SendNotificationResponse{}, err
	}

	var sent, failed int
	for _, id := range ids {
		if _, err := s.userRepo.GetByID(ctx, id); err != nil {
			if !errors.Is(err, user.ErrUserNotFound) {
				return notification.SendNotificationResponse{}, fmt.Errorf("failed to get recipient: %w", err)
			}
			slog.Warn("notification recipient not found", "recipient_id", id)
			failed++
			continue
		}

		delivered := s.notifier.Notify(ctx, notification.Message{
			RecipientID: id,
			SenderID:    &actor.ID,
			Subject:     req.Subject,
			Body:        req.Message,
		})
		if delivered {
			sent++
		} else {
			failed++
		}
	}

	s.audit.Record(ctx, actor, audit.ActionNotificationSent,
		fmt.Sprintf("Sent %q to %d recipient(s), %d failed", req.Subject, sent, failed))

	return notification.SendNotificationResponse{
		Success: sent > 0,
		Message: fmt.Sprintf("Notification sent to %d of %d recipient(s)", sent, len(ids)),
		Sent:    sent,
		Failed:  failed,
	}, nil
}
