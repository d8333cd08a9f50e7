package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/auth"
)

const (
	sessionPurgeInterval = time.Hour
	// sessionRetention keeps dead rows around briefly for support lookups.
	sessionRetention = 24 * time.Hour
)

// SessionJobs removes refresh tokens and password OTPs that can no longer be used.
type SessionJobs struct {
	refreshTokens auth.RefreshTokenRepository
	otps          auth.OTPRepository
	logger        *slog.Logger
	now           func() time.Time
}

func NewSessionJobs(refreshTokens auth.RefreshTokenRepository, otps auth.OTPRepository, logger *slog.Logger) *SessionJobs {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionJobs{
		refreshTokens: refreshTokens,
		otps:          otps,
		logger:        logger,
		now:           time.Now,
	}
}

func (j *SessionJobs) Register(s *Scheduler) {
	s.AddJob("purge-expired-sessions", sessionPurgeInterval, j.PurgeExpired)
}

func (j *SessionJobs) PurgeExpired(ctx context.Context) error {
	cutoff := j.now().Add(-sessionRetention)

	tokens, err := j.refreshTokens.PurgeExpired(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("failed to purge refresh tokens: %w", err)
	}
	otps, err := j.otps.PurgeExpired(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("failed to purge otps: %w", err)
	}

	if tokens > 0 || otps > 0 {
		j.logger.Info("purged expired sessions", "refresh_tokens", tokens, "otps", otps)
	}
	return nil
}
