package notification

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/credential"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/email"
)

// NotifierImpl sends e-mail synchronously and logs every attempt to notification_logs.
type NotifierImpl struct {
	email    email.EmailService
	logs     notification.LogRepository
	userRepo user.UserRepository
	now      func() time.Time
}

func NewNotifier(emailService email.EmailService, logs notification.LogRepository, userRepo user.UserRepository) *NotifierImpl {
	return &NotifierImpl{
		email:    emailService,
		logs:     logs,
		userRepo: userRepo,
		now:      time.Now,
	}
}

func displayName(u user.User) string {
	if name := credential.DisplayName(u.FirstName, u.LastName); name != "" {
		return name
	}
	return u.Username
}

// deliver runs send and records the outcome. logged is what goes into the
// notification log and must never contain secrets.
func (n *NotifierImpl) deliver(ctx context.Context, recipient user.User, senderID *string, subject, logged string, send func() error) bool {
	entry := notification.Log{
		SentTo:  recipient.ID,
		SentBy:  senderID,
		Subject: subject,
		Message: logged,
		SentAt:  n.now(),
	}

	if err := send(); err != nil {
		slog.Warn("notification delivery failed",
			"recipient_id", recipient.ID,
			"subject", subject,
			"error", err,
		)
		msg := err.Error()
		entry.Error = &msg
	} else {
		entry.EmailSent = true
	}

	if err := n.logs.Create(ctx, entry); err != nil {
		slog.Warn("failed to record notification log", "recipient_id", recipient.ID, "error", err)
	}
	return entry.EmailSent
}

func (n *NotifierImpl) Notify(ctx context.Context, msg notification.Message) bool {
	recipient, err := n.userRepo.GetByID(ctx, msg.RecipientID)
	if err != nil {
		slog.Warn("notification recipient lookup failed", "recipient_id", msg.RecipientID, "error", err)
		return false
	}
	return n.deliver(ctx, recipient, msg.SenderID, msg.Subject, msg.Body, func() error {
		return n.email.SendNotice(ctx, recipient.Email, displayName(recipient), msg.Subject, msg.Body)
	})
}

func (n *NotifierImpl) notice(ctx context.Context, recipient user.User, senderID string, subject, body string) {
	var sender *string
	if senderID != "" {
		sender = &senderID
	}
	n.deliver(ctx, recipient, sender, subject, body, func() error {
		return n.email.SendNotice(ctx, recipient.Email, displayName(recipient), subject, body)
	})
}

func (n *NotifierImpl) NotifyTaskAssigned(ctx context.Context, assignee user.User, assignerName, taskTitle, dueDate string, senderID string) {
	subject := fmt.Sprintf("New task assigned: %s", taskTitle)
	body := fmt.Sprintf("%s assigned you the task %q.\nDue date: %s\nPlease accept or reject it from your task list.", assignerName, taskTitle, dueDate)
	n.notice(ctx, assignee, senderID, subject, body)
}

func (n *NotifierImpl) NotifyTaskRejected(ctx context.Context, assigner user.User, assigneeName, taskTitle, reason string, senderID string) {
	subject := fmt.Sprintf("Task rejected: %s", taskTitle)
	body := fmt.Sprintf("%s rejected the task %q.\nReason: %s", assigneeName, taskTitle, reason)
	n.notice(ctx, assigner, senderID, subject, body)
}

func (n *NotifierImpl) NotifyLeaveDecision(ctx context.Context, requester user.User, leaveType, status, startDate, endDate string, remarks *string, senderID string) {
	subject := fmt.Sprintf("Leave request %s", status)
	body := fmt.Sprintf("Your %s request from %s to %s has been %s.", leaveType, startDate, endDate, status)
	if remarks != nil && *remarks != "" {
		body += "\nRemarks: " + *remarks
	}
	n.notice(ctx, requester, senderID, subject, body)
}

func (n *NotifierImpl) NotifyCredentials(ctx context.Context, recipient user.User, tempPassword string, senderID *string) {
	employeeID := ""
	if recipient.EmployeeID != nil {
		employeeID = *recipient.EmployeeID
	}
	n.deliver(ctx, recipient, senderID, "Login credentials", "Login credentials issued for "+recipient.Username, func() error {
		return n.email.SendCredentials(ctx, recipient.Email, displayName(recipient), recipient.Username, employeeID, tempPassword)
	})
}

func (n *NotifierImpl) NotifyOTP(ctx context.Context, recipient user.User, code string, ttlMinutes int) {
	n.deliver(ctx, recipient, nil, "Password change verification code", "Verification code issued", func() error {
		return n.email.SendOTP(ctx, recipient.Email, displayName(recipient), code, ttlMinutes)
	})
}
