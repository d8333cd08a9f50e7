package notification

import (
	"context"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/user"
)

// Notifier is fire-and-forget: delivery failures are logged and recorded, never returned.
type Notifier interface {
	// Notify reports whether the e-mail went out; callers in transitions ignore it.
	Notify(ctx context.Context, msg Message) (delivered bool)
	NotifyTaskAssigned(ctx context.Context, assignee user.User, assignerName, taskTitle, dueDate string, senderID string)
	NotifyTaskRejected(ctx context.Context, assigner user.User, assigneeName, taskTitle, reason string, senderID string)
	NotifyLeaveDecision(ctx context.Context, requester user.User, leaveType, status, startDate, endDate string, remarks *string, senderID string)
	NotifyCredentials(ctx context.Context, recipient user.User, tempPassword string, senderID *string)
	NotifyOTP(ctx context.Context, recipient user.User, code string, ttlMinutes int)
}

// NotificationService backs the Admin/HR broadcast endpoint.
type NotificationService interface {
	Send(ctx context.Context, actor user.Actor, req SendNotificationRequest) (SendNotificationResponse, error)
}
