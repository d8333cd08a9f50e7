package auth

import "errors"

var (
	ErrInvalidCredentials     = errors.New("invalid username or password")
	ErrAccountLocked          = errors.New("account is locked after too many failed attempts, contact an administrator")
	ErrAccountInactive        = errors.New("account is inactive")
	ErrInvalidToken           = errors.New("invalid or expired token")
	ErrRefreshTokenRevoked    = errors.New("refresh token has been revoked")
	ErrOTPInvalid             = errors.New("invalid verification code")
	ErrOTPExpired             = errors.New("verification code has expired, request a new one")
	ErrOTPAttemptsExceeded    = errors.New("too many incorrect attempts, request a new code")
	ErrOTPNotFound            = errors.New("no active verification code, request a new one")
	ErrPasswordReused         = errors.New("new password must differ from the current password")
	ErrPasswordMismatch       = errors.New("passwords do not match")
	ErrPasswordChangeRequired = errors.New("password change required")
)
