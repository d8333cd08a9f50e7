package auth

import "time"

// OTP is a one-time password-change code. Only its hash is stored.
type OTP struct {
	ID        string
	UserID    string
	CodeHash  string
	ExpiresAt time.Time
	Attempts  int
	UsedAt    *time.Time
	CreatedAt time.Time
}

func (o *OTP) IsExpired(now time.Time) bool {
	return !now.Before(o.ExpiresAt)
}

func (o *OTP) IsUsed() bool {
	return o.UsedAt != nil
}

// SessionTrackingRequest describes the client behind a login or refresh.
type SessionTrackingRequest struct {
	UserAgent string
	IPAddress string
}
