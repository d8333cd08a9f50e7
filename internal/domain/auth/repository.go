package auth

import (
	"context"
	"time"
)

type OTPRepository interface {
	// Create stores a new code and invalidates the user's earlier ones.
	Create(ctx context.Context, otp OTP) (OTP, error)
	GetLatestActive(ctx context.Context, userID string) (OTP, error)
	IncrementAttempts(ctx context.Context, id string) (int, error)
	MarkUsed(ctx context.Context, id string) error
	// PurgeExpired deletes codes that expired or were used before cutoff.
	PurgeExpired(ctx context.Context, cutoff time.Time) (int64, error)
}

type RefreshTokenRepository interface {
	CreateRefreshToken(ctx context.Context, userID string, token string, expiresAt int64, sessionReq SessionTrackingRequest) error
	IsRefreshTokenRevoked(ctx context.Context, token string) (bool, error)
	RevokeRefreshToken(ctx context.Context, token string) error
	PurgeExpired(ctx context.Context, cutoff time.Time) (int64, error)
}
