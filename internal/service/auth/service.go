package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/cmlabs-hris/ems-backend-go/internal/config"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/audit"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/credential"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/jwt"
)

const tokenTypeBearer = "Bearer"

type AuthServiceImpl struct {
	db database.Transactor
	user.UserRepository
	jwt.Service
	otpRepo       auth.OTPRepository
	refreshRepo   auth.RefreshTokenRepository
	loginAttempts audit.LoginAttemptRepository
	notifier      notification.Notifier
	audit         audit.Recorder
	security      config.SecurityConfig
	now           func() time.Time
}

func NewAuthService(
	db database.Transactor,
	userRepository user.UserRepository,
	jwtService jwt.Service,
	otpRepository auth.OTPRepository,
	refreshRepository auth.RefreshTokenRepository,
	loginAttempts audit.LoginAttemptRepository,
	notifier notification.Notifier,
	recorder audit.Recorder,
	security config.SecurityConfig,
) auth.AuthService {
	return &AuthServiceImpl{
		db:             db,
		UserRepository: userRepository,
		Service:        jwtService,
		otpRepo:        otpRepository,
		refreshRepo:    refreshRepository,
		loginAttempts:  loginAttempts,
		notifier:       notifier,
		audit:          recorder,
		security:       security,
		now:            time.Now,
	}
}

func hashSecret(secret string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (a *AuthServiceImpl) recordAttempt(ctx context.Context, identifier string, success bool, session auth.SessionTrackingRequest) {
	err := a.loginAttempts.Create(ctx, audit.LoginAttempt{
		Username:  identifier,
		IPAddress: session.IPAddress,
		Success:   success,
		UserAgent: session.UserAgent,
		Timestamp: a.now(),
	})
	if err != nil {
		slog.Warn("failed to record login attempt", "username", identifier, "error", err)
	}
}

// Login implements auth.AuthService.
func (a *AuthServiceImpl) Login(ctx context.Context, loginReq auth.LoginRequest, session auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	if err := loginReq.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	userData, err := a.UserRepository.GetByIdentifier(ctx, loginReq.Identifier)
	if err != nil {
		a.recordAttempt(ctx, loginReq.Identifier, false, session)
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.TokenResponse{}, auth.ErrInvalidCredentials
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to get user by identifier: %w", err)
	}

	if userData.IsAccountLocked {
		a.recordAttempt(ctx, userData.Username, false, session)
		return auth.TokenResponse{}, auth.ErrAccountLocked
	}
	if !userData.IsActive {
		a.recordAttempt(ctx, userData.Username, false, session)
		return auth.TokenResponse{}, auth.ErrAccountInactive
	}

	if err := bcrypt.CompareHashAndPassword([]byte(userData.PasswordHash), []byte(loginReq.Password)); err != nil {
		a.recordAttempt(ctx, userData.Username, false, session)
		_, locked, err := a.UserRepository.RecordFailedLogin(ctx, userData.ID, a.security.MaxFailedLogins)
		if err != nil {
			return auth.TokenResponse{}, fmt.Errorf("failed to record failed login: %w", err)
		}
		if locked {
			slog.Warn("account locked after repeated failed logins", "user_id", userData.ID, "ip", session.IPAddress)
			return auth.TokenResponse{}, auth.ErrAccountLocked
		}
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}

	var tokenResponse auth.TokenResponse
	err = a.db.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := a.UserRepository.RecordSuccessfulLogin(ctx, userData.ID); err != nil {
			return fmt.Errorf("failed to record login: %w", err)
		}

		accessToken, _, err := a.Service.GenerateAccessToken(userData.ID, userData.Email, userData.Role, userData.MustChangePassword)
		if err != nil {
			return fmt.Errorf("failed to create access token: %w", err)
		}
		refreshToken, refreshExpiresAt, err := a.Service.GenerateRefreshToken(userData.ID)
		if err != nil {
			return fmt.Errorf("failed to create refresh token: %w", err)
		}
		if err := a.refreshRepo.CreateRefreshToken(ctx, userData.ID, refreshToken, refreshExpiresAt, session); err != nil {
			return fmt.Errorf("failed to save refresh token to database: %w", err)
		}

		tokenResponse.AccessToken = accessToken
		tokenResponse.RefreshToken = refreshToken
		tokenResponse.RefreshExpiresAt = refreshExpiresAt
		return nil
	})
	if err != nil {
		return auth.TokenResponse{}, err
	}

	a.recordAttempt(ctx, userData.Username, true, session)
	actor := user.Actor{ID: userData.ID, Role: userData.Role, IP: session.IPAddress}
	a.audit.Record(ctx, actor, audit.ActionLogin, "Logged in")

	now := a.now()
	userData.LastLoginAt = &now
	userData.FailedLoginAttempts = 0

	tokenResponse.TokenType = tokenTypeBearer
	tokenResponse.ExpiresIn = int64(a.Service.AccessTTL().Seconds())
	tokenResponse.MustChangePassword = userData.MustChangePassword
	tokenResponse.User = auth.ToProfileResponse(userData)
	return tokenResponse, nil
}

// RefreshToken implements auth.AuthService. The presented token is revoked
// and a fresh pair is issued.
func (a *AuthServiceImpl) RefreshToken(ctx context.Context, req auth.RefreshTokenRequest) (auth.AccessTokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.AccessTokenResponse{}, err
	}

	userID, err := a.Service.ParseRefreshToken(req.RefreshToken)
	if err != nil {
		return auth.AccessTokenResponse{}, auth.ErrInvalidToken
	}

	isRevoked, err := a.refreshRepo.IsRefreshTokenRevoked(ctx, req.RefreshToken)
	if err != nil {
		return auth.AccessTokenResponse{}, fmt.Errorf("failed to check refresh token: %w", err)
	}
	if isRevoked {
		return auth.AccessTokenResponse{}, auth.ErrRefreshTokenRevoked
	}

	userData, err := a.UserRepository.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.AccessTokenResponse{}, auth.ErrInvalidToken
		}
		return auth.AccessTokenResponse{}, err
	}
	if userData.IsAccountLocked {
		return auth.AccessTokenResponse{}, auth.ErrAccountLocked
	}
	if !userData.IsActive {
		return auth.AccessTokenResponse{}, auth.ErrAccountInactive
	}

	var resp auth.AccessTokenResponse
	err = a.db.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := a.refreshRepo.RevokeRefreshToken(ctx, req.RefreshToken); err != nil {
			return fmt.Errorf("failed to revoke refresh token: %w", err)
		}

		refreshToken, refreshExpiresAt, err := a.Service.GenerateRefreshToken(userData.ID)
		if err != nil {
			return fmt.Errorf("failed to create refresh token: %w", err)
		}
		if err := a.refreshRepo.CreateRefreshToken(ctx, userData.ID, refreshToken, refreshExpiresAt, auth.SessionTrackingRequest{}); err != nil {
			return fmt.Errorf("failed to save refresh token to database: %w", err)
		}

		accessToken, _, err := a.Service.GenerateAccessToken(userData.ID, userData.Email, userData.Role, userData.MustChangePassword)
		if err != nil {
			return fmt.Errorf("failed to generate access token: %w", err)
		}

		resp.AccessToken = accessToken
		resp.RefreshToken = refreshToken
		resp.RefreshExpiresAt = refreshExpiresAt
		return nil
	})
	if err != nil {
		return auth.AccessTokenResponse{}, err
	}

	resp.TokenType = tokenTypeBearer
	resp.ExpiresIn = int64(a.Service.AccessTTL().Seconds())
	return resp, nil
}

// Logout implements auth.AuthService.
func (a *AuthServiceImpl) Logout(ctx context.Context, actor user.Actor, accessToken string, refreshToken string) error {
	if accessToken != "" {
		a.Service.RevokeToken(accessToken, a.now().Add(a.Service.AccessTTL()).Unix())
	}
	if refreshToken != "" {
		if err := a.refreshRepo.RevokeRefreshToken(ctx, refreshToken); err != nil {
			return fmt.Errorf("failed to revoke refresh token: %w", err)
		}
	}

	a.audit.Record(ctx, actor, audit.ActionLogout, "Logged out")
	return nil
}

// RequestPasswordOTP implements auth.AuthService.
func (a *AuthServiceImpl) RequestPasswordOTP(ctx context.Context, actor user.Actor) (auth.OTPIssuedResponse, error) {
	userData, err := a.UserRepository.GetByID(ctx, actor.ID)
	if err != nil {
		return auth.OTPIssuedResponse{}, err
	}

	code, err := credential.OTP()
	if err != nil {
		return auth.OTPIssuedResponse{}, fmt.Errorf("failed to generate otp: %w", err)
	}
	codeHash, err := hashSecret(code)
	if err != nil {
		return auth.OTPIssuedResponse{}, fmt.Errorf("failed to hash otp: %w", err)
	}

	otp, err := a.otpRepo.Create(ctx, auth.OTP{
		UserID:    userData.ID,
		CodeHash:  codeHash,
		ExpiresAt: a.now().Add(a.security.OTPTTL),
	})
	if err != nil {
		return auth.OTPIssuedResponse{}, fmt.Errorf("failed to store otp: %w", err)
	}

	a.notifier.NotifyOTP(ctx, userData, code, int(a.security.OTPTTL.Minutes()))

	return auth.OTPIssuedResponse{
		Message:   fmt.Sprintf("A verification code has been sent to %s", userData.Email),
		ExpiresAt: otp.ExpiresAt,
	}, nil
}

func (a *AuthServiceImpl) verifyOTP(ctx context.Context, userID, code string) (auth.OTP, error) {
	otp, err := a.otpRepo.GetLatestActive(ctx, userID)
	if err != nil {
		return auth.OTP{}, err
	}
	if otp.IsExpired(a.now()) {
		return auth.OTP{}, auth.ErrOTPExpired
	}
	if otp.Attempts >= a.security.OTPMaxAttempts {
		return auth.OTP{}, auth.ErrOTPAttemptsExceeded
	}

	if err := bcrypt.CompareHashAndPassword([]byte(otp.CodeHash), []byte(code)); err != nil {
		attempts, err := a.otpRepo.IncrementAttempts(ctx, otp.ID)
		if err != nil {
			return auth.OTP{}, fmt.Errorf("failed to record otp attempt: %w", err)
		}
		if attempts >= a.security.OTPMaxAttempts {
			return auth.OTP{}, auth.ErrOTPAttemptsExceeded
		}
		return auth.OTP{}, auth.ErrOTPInvalid
	}
	return otp, nil
}

// ChangePassword implements auth.AuthService.
func (a *AuthServiceImpl) ChangePassword(ctx context.Context, actor user.Actor, req auth.ChangePasswordRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	userData, err := a.UserRepository.GetByID(ctx, actor.ID)
	if err != nil {
		return err
	}

	otp, err := a.verifyOTP(ctx, userData.ID, req.OTP)
	if err != nil {
		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(userData.PasswordHash), []byte(req.NewPassword)) == nil {
		return auth.ErrPasswordReused
	}
	passwordHash, err := hashSecret(req.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	err = a.db.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := a.otpRepo.MarkUsed(ctx, otp.ID); err != nil {
			return fmt.Errorf("failed to consume otp: %w", err)
		}
		if err := a.UserRepository.UpdatePassword(ctx, userData.ID, passwordHash, false); err != nil {
			return fmt.Errorf("failed to update password: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	a.audit.Record(ctx, actor, audit.ActionPasswordChanged, "Password changed")
	return nil
}

// Me implements auth.AuthService.
func (a *AuthServiceImpl) Me(ctx context.Context, actor user.Actor) (auth.ProfileResponse, error) {
	userData, err := a.UserRepository.GetByID(ctx, actor.ID)
	if err != nil {
		return auth.ProfileResponse{}, err
	}
	return auth.ToProfileResponse(userData), nil
}

// UpdateProfile implements auth.AuthService.
func (a *AuthServiceImpl) UpdateProfile(ctx context.Context, actor user.Actor, req auth.UpdateProfileRequest) (auth.ProfileResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.ProfileResponse{}, err
	}

	err := a.UserRepository.Update(ctx, user.UpdateUserRequest{
		ID:        actor.ID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
	})
	if err != nil {
		return auth.ProfileResponse{}, err
	}

	a.audit.Record(ctx, actor, audit.ActionProfileUpdated, "Updated own profile")
	return a.Me(ctx, actor)
}
