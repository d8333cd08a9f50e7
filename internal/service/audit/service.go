package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/audit"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/user"
)

type RecorderImpl struct {
	audit.LogRepository
	now func() time.Time
}

func NewRecorder(repo audit.LogRepository) audit.Recorder {
	return &RecorderImpl{LogRepository: repo, now: time.Now}
}

// Record never fails the caller; a lost audit row is logged instead.
func (r *RecorderImpl) Record(ctx context.Context, actor user.Actor, action string, details string) {
	entry := audit.Log{
		Action:    action,
		Details:   details,
		Timestamp: r.now(),
	}
	if actor.ID != "" {
		entry.UserID = &actor.ID
	}
	if actor.IP != "" {
		entry.IPAddress = &actor.IP
	}

	if err := r.LogRepository.Create(ctx, entry); err != nil {
		slog.Warn("failed to write audit log",
			"action", action,
			"user_id", actor.ID,
			"error", err,
		)
	}
}

// ToLogResponses projects audit rows for the security endpoints.
func ToLogResponses(logs []audit.Log) []audit.LogResponse {
	out := make([]audit.LogResponse, 0, len(logs))
	for _, l := range logs {
		out = append(out, audit.LogResponse{
			ID:        l.ID,
			UserID:    l.UserID,
			Username:  l.Username,
			Action:    l.Action,
			Details:   l.Details,
			IPAddress: l.IPAddress,
			Timestamp: l.Timestamp.Format(time.RFC3339),
		})
	}
	return out
}

func ToLoginAttemptResponses(attempts []audit.LoginAttempt) []audit.LoginAttemptResponse {
	out := make([]audit.LoginAttemptResponse, 0, len(attempts))
	for _, a := range attempts {
		out = append(out, audit.LoginAttemptResponse{
			Username:  a.Username,
			IPAddress: a.IPAddress,
			Success:   a.Success,
			UserAgent: a.UserAgent,
			Timestamp: a.Timestamp.Format(time.RFC3339),
		})
	}
	return out
}
