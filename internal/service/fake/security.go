package fake

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/audit"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/notification"
)

type AuditLogRepo struct {
	mu   sync.Mutex
	Logs []audit.Log
	Err  error
}

func (r *AuditLogRepo) Create(_ context.Context, entry audit.Log) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	entry.ID = fmt.Sprintf("audit-%d", len(r.Logs)+1)
	r.Logs = append(r.Logs, entry)
	return nil
}

func (r *AuditLogRepo) ListRecent(_ context.Context, limit int) ([]audit.Log, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return newestFirst(r.Logs, limit), nil
}

type LoginAttemptRepo struct {
	mu       sync.Mutex
	Attempts []audit.LoginAttempt
}

func (r *LoginAttemptRepo) Create(_ context.Context, attempt audit.LoginAttempt) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	attempt.ID = fmt.Sprintf("attempt-%d", len(r.Attempts)+1)
	r.Attempts = append(r.Attempts, attempt)
	return nil
}

func (r *LoginAttemptRepo) ListRecent(_ context.Context, limit int) ([]audit.LoginAttempt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return newestFirst(r.Attempts, limit), nil
}

type NotificationLogRepo struct {
	mu   sync.Mutex
	Logs []notification.Log
}

func (r *NotificationLogRepo) Create(_ context.Context, entry notification.Log) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry.ID = fmt.Sprintf("notif-%d", len(r.Logs)+1)
	r.Logs = append(r.Logs, entry)
	return nil
}

func (r *NotificationLogRepo) ListByRecipient(_ context.Context, userID string, limit int) ([]notification.Log, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []notification.Log
	for _, l := range r.Logs {
		if l.SentTo == userID {
			out = append(out, l)
		}
	}
	return newestFirst(out, limit), nil
}

func newestFirst[T any](rows []T, limit int) []T {
	out := make([]T, 0, len(rows))
	for i := len(rows) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
		out = append(out, rows[i])
	}
	return out
}

type OTPRepo struct {
	mu   sync.Mutex
	OTPs []auth.OTP
}

func (r *OTPRepo) Create(_ context.Context, otp auth.OTP) (auth.OTP, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	for i := range r.OTPs {
		if r.OTPs[i].UserID == otp.UserID && r.OTPs[i].UsedAt == nil {
			r.OTPs[i].UsedAt = &now
		}
	}
	otp.ID = fmt.Sprintf("otp-%d", len(r.OTPs)+1)
	otp.CreatedAt = now
	r.OTPs = append(r.OTPs, otp)
	return otp, nil
}

func (r *OTPRepo) GetLatestActive(_ context.Context, userID string) (auth.OTP, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.OTPs) - 1; i >= 0; i-- {
		if r.OTPs[i].UserID == userID && !r.OTPs[i].IsUsed() {
			return r.OTPs[i], nil
		}
	}
	return auth.OTP{}, auth.ErrOTPNotFound
}

func (r *OTPRepo) IncrementAttempts(_ context.Context, id string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.OTPs {
		if r.OTPs[i].ID == id {
			r.OTPs[i].Attempts++
			return r.OTPs[i].Attempts, nil
		}
	}
	return 0, auth.ErrOTPNotFound
}

func (r *OTPRepo) MarkUsed(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.OTPs {
		if r.OTPs[i].ID == id {
			now := time.Now()
			r.OTPs[i].UsedAt = &now
			return nil
		}
	}
	return auth.ErrOTPNotFound
}

func (r *OTPRepo) PurgeExpired(_ context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.OTPs[:0]
	var n int64
	for _, o := range r.OTPs {
		if o.ExpiresAt.Before(cutoff) || (o.IsUsed() && o.UsedAt.Before(cutoff)) {
			n++
			continue
		}
		kept = append(kept, o)
	}
	r.OTPs = kept
	return n, nil
}

// Expire moves every code of userID into the past.
func (r *OTPRepo) Expire(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.OTPs {
		if r.OTPs[i].UserID == userID {
			r.OTPs[i].ExpiresAt = time.Now().Add(-time.Minute)
		}
	}
}

type RefreshTokenRepo struct {
	mu      sync.Mutex
	Tokens  map[string]string
	Expires map[string]int64
	Revoked map[string]bool
}

func NewRefreshTokenRepo() *RefreshTokenRepo {
	return &RefreshTokenRepo{
		Tokens:  make(map[string]string),
		Expires: make(map[string]int64),
		Revoked: make(map[string]bool),
	}
}

func (r *RefreshTokenRepo) CreateRefreshToken(_ context.Context, userID string, token string, expiresAt int64, _ auth.SessionTrackingRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Tokens[token] = userID
	r.Expires[token] = expiresAt
	return nil
}

func (r *RefreshTokenRepo) PurgeExpired(_ context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for token, exp := range r.Expires {
		if exp < cutoff.Unix() {
			delete(r.Tokens, token)
			delete(r.Expires, token)
			delete(r.Revoked, token)
			n++
		}
	}
	return n, nil
}

func (r *RefreshTokenRepo) IsRefreshTokenRevoked(_ context.Context, token string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.Tokens[token]; !ok {
		return true, nil
	}
	return r.Revoked[token], nil
}

func (r *RefreshTokenRepo) RevokeRefreshToken(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Revoked[token] = true
	return nil
}

// Email records outgoing mail instead of sending it.
type Email struct {
	mu   sync.Mutex
	Sent []string
	Err  error
}

func (e *Email) record(kind, to string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.Err != nil {
		return e.Err
	}
	e.Sent = append(e.Sent, kind+":"+to)
	return nil
}

func (e *Email) SendCredentials(_ context.Context, to, name, username, employeeID, tempPassword string) error {
	return e.record("credentials", to)
}

func (e *Email) SendOTP(_ context.Context, to, name, code string, ttlMinutes int) error {
	return e.record("otp", to)
}

func (e *Email) SendNotice(_ context.Context, to, name, subject, message string) error {
	return e.record("notice", to)
}
