package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/cmlabs-hris/ems-backend-go/internal/config"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/audit"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/ems-backend-go/internal/service/fake"
)

const (
	testAccessExp  = "1h"
	testRefreshExp = "24h"
	testSecret     = "test-secret-key-for-jwt"
	testPassword   = "password123"
)

var security = config.SecurityConfig{
	MaxFailedLogins: 5,
	OTPTTL:          5 * time.Minute,
	OTPMaxAttempts:  3,
}

var session = auth.SessionTrackingRequest{UserAgent: "go-test", IPAddress: "10.0.0.7"}

type fixture struct {
	svc      *AuthServiceImpl
	jwt      jwt.Service
	users    *fake.UserRepo
	otps     *fake.OTPRepo
	refresh  *fake.RefreshTokenRepo
	attempts *fake.LoginAttemptRepo
	notifier *fake.Notifier
	audit    *fake.Recorder
}

func hashed(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func newFixture(t *testing.T, users ...user.User) fixture {
	t.Helper()
	jwtService, err := jwt.NewJWTService(testSecret, testAccessExp, testRefreshExp)
	require.NoError(t, err)

	f := fixture{
		jwt:      jwtService,
		users:    fake.NewUserRepo(users...),
		otps:     &fake.OTPRepo{},
		refresh:  fake.NewRefreshTokenRepo(),
		attempts: &fake.LoginAttemptRepo{},
		notifier: &fake.Notifier{},
		audit:    &fake.Recorder{},
	}
	f.svc = NewAuthService(&fake.Transactor{}, f.users, jwtService, f.otps, f.refresh, f.attempts, f.notifier, f.audit, security).(*AuthServiceImpl)
	return f
}

func jane(t *testing.T) user.User {
	return user.User{
		ID:                 "u-jane",
		Username:           "jane.doe",
		Email:              "jane@ems.local",
		PasswordHash:       hashed(t, testPassword),
		FirstName:          "Jane",
		LastName:           "Doe",
		Role:               user.RoleEmployee,
		IsActive:           true,
		MustChangePassword: true,
	}
}

func TestLogin_ByUsernameOrEmail(t *testing.T) {
	f := newFixture(t, jane(t))
	ctx := context.Background()

	for _, identifier := range []string{"jane.doe", "JANE@ems.local"} {
		resp, err := f.svc.Login(ctx, auth.LoginRequest{Identifier: identifier, Password: testPassword}, session)
		require.NoError(t, err, identifier)
		assert.NotEmpty(t, resp.AccessToken)
		assert.NotEmpty(t, resp.RefreshToken)
		assert.Equal(t, "Bearer", resp.TokenType)
		assert.Equal(t, int64(3600), resp.ExpiresIn)
		assert.True(t, resp.MustChangePassword)
		assert.Equal(t, "jane.doe", resp.User.Username)
		assert.Contains(t, resp.User.Permissions, string(user.PermissionTaskViewOwn))
	}

	require.Len(t, f.attempts.Attempts, 2)
	assert.True(t, f.attempts.Attempts[0].Success)
	assert.Equal(t, "10.0.0.7", f.attempts.Attempts[0].IPAddress)
	assert.Len(t, f.refresh.Tokens, 2)
	assert.NotNil(t, f.users.Get("u-jane").LastLoginAt)
	assert.Equal(t, []string{audit.ActionLogin, audit.ActionLogin}, f.audit.Actions())
}

func TestLogin_UnknownUser(t *testing.T) {
	f := newFixture(t, jane(t))

	_, err := f.svc.Login(context.Background(), auth.LoginRequest{Identifier: "ghost", Password: "whatever1"}, session)
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	require.Len(t, f.attempts.Attempts, 1)
	assert.False(t, f.attempts.Attempts[0].Success)
	assert.Equal(t, "ghost", f.attempts.Attempts[0].Username)
}

func TestLogin_LocksAfterFiveFailures(t *testing.T) {
	f := newFixture(t, jane(t))
	ctx := context.Background()
	wrong := auth.LoginRequest{Identifier: "jane.doe", Password: "not-the-password"}

	for i := 1; i < security.MaxFailedLogins; i++ {
		_, err := f.svc.Login(ctx, wrong, session)
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials, "attempt %d", i)
	}
	assert.Equal(t, 4, f.users.Get("u-jane").FailedLoginAttempts)
	assert.False(t, f.users.Get("u-jane").IsAccountLocked)

	_, err := f.svc.Login(ctx, wrong, session)
	assert.ErrorIs(t, err, auth.ErrAccountLocked)
	assert.True(t, f.users.Get("u-jane").IsAccountLocked)

	_, err = f.svc.Login(ctx, auth.LoginRequest{Identifier: "jane.doe", Password: testPassword}, session)
	assert.ErrorIs(t, err, auth.ErrAccountLocked)
	assert.Empty(t, f.refresh.Tokens)
	assert.Len(t, f.attempts.Attempts, 6)
}

func TestLogin_SuccessResetsCounter(t *testing.T) {
	u := jane(t)
	u.FailedLoginAttempts = 3
	f := newFixture(t, u)

	_, err := f.svc.Login(context.Background(), auth.LoginRequest{Identifier: "jane.doe", Password: testPassword}, session)
	require.NoError(t, err)
	assert.Zero(t, f.users.Get("u-jane").FailedLoginAttempts)
}

func TestLogin_Inactive(t *testing.T) {
	u := jane(t)
	u.IsActive = false
	f := newFixture(t, u)

	_, err := f.svc.Login(context.Background(), auth.LoginRequest{Identifier: "jane.doe", Password: testPassword}, session)
	assert.ErrorIs(t, err, auth.ErrAccountInactive)
}

func TestRefreshToken_Rotates(t *testing.T) {
	f := newFixture(t, jane(t))
	ctx := context.Background()

	login, err := f.svc.Login(ctx, auth.LoginRequest{Identifier: "jane.doe", Password: testPassword}, session)
	require.NoError(t, err)

	resp, err := f.svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	require.NotEmpty(t, resp.RefreshToken)
	assert.NotEqual(t, login.RefreshToken, resp.RefreshToken)

	_, err = f.svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	assert.ErrorIs(t, err, auth.ErrRefreshTokenRevoked)

	_, err = f.svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: resp.RefreshToken})
	assert.NoError(t, err)
}

func TestRefreshToken_RejectsAccessTokens(t *testing.T) {
	f := newFixture(t, jane(t))
	ctx := context.Background()

	login, err := f.svc.Login(ctx, auth.LoginRequest{Identifier: "jane.doe", Password: testPassword}, session)
	require.NoError(t, err)

	_, err = f.svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: login.AccessToken})
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	_, err = f.svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: "garbage"})
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestLogout(t *testing.T) {
	f := newFixture(t, jane(t))
	ctx := context.Background()

	login, err := f.svc.Login(ctx, auth.LoginRequest{Identifier: "jane.doe", Password: testPassword}, session)
	require.NoError(t, err)

	actor := user.Actor{ID: "u-jane", Role: user.RoleEmployee}
	require.NoError(t, f.svc.Logout(ctx, actor, login.AccessToken, login.RefreshToken))

	assert.True(t, f.jwt.IsTokenRevoked(login.AccessToken))
	_, err = f.svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	assert.ErrorIs(t, err, auth.ErrRefreshTokenRevoked)
}

func issuedCode(t *testing.T, f fixture) string {
	t.Helper()
	require.NotEmpty(t, f.notifier.Sent)
	last := f.notifier.Sent[len(f.notifier.Sent)-1]
	require.Equal(t, "otp", last.Kind)
	return last.Detail
}

func TestChangePassword_WithOTP(t *testing.T) {
	f := newFixture(t, jane(t))
	ctx := context.Background()
	actor := user.Actor{ID: "u-jane", Role: user.RoleEmployee}

	issued, err := f.svc.RequestPasswordOTP(ctx, actor)
	require.NoError(t, err)
	assert.Contains(t, issued.Message, "jane@ems.local")

	code := issuedCode(t, f)
	require.Len(t, code, 6)
	require.Len(t, f.otps.OTPs, 1)
	assert.NotEqual(t, code, f.otps.OTPs[0].CodeHash)

	err = f.svc.ChangePassword(ctx, actor, auth.ChangePasswordRequest{OTP: code, NewPassword: "brand-new-pass", ConfirmPassword: "brand-new-pass"})
	require.NoError(t, err)

	updated := f.users.Get("u-jane")
	assert.False(t, updated.MustChangePassword)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(updated.PasswordHash), []byte("brand-new-pass")))
	assert.True(t, f.otps.OTPs[0].IsUsed())
	assert.Equal(t, []string{audit.ActionPasswordChanged}, f.audit.Actions())

	err = f.svc.ChangePassword(ctx, actor, auth.ChangePasswordRequest{OTP: code, NewPassword: "another-pass", ConfirmPassword: "another-pass"})
	assert.ErrorIs(t, err, auth.ErrOTPNotFound)
}

func TestChangePassword_AttemptLimit(t *testing.T) {
	f := newFixture(t, jane(t))
	ctx := context.Background()
	actor := user.Actor{ID: "u-jane", Role: user.RoleEmployee}

	_, err := f.svc.RequestPasswordOTP(ctx, actor)
	require.NoError(t, err)
	code := issuedCode(t, f)

	wrong := "000000"
	if code == wrong {
		wrong = "111111"
	}
	req := auth.ChangePasswordRequest{OTP: wrong, NewPassword: "brand-new-pass", ConfirmPassword: "brand-new-pass"}

	assert.ErrorIs(t, f.svc.ChangePassword(ctx, actor, req), auth.ErrOTPInvalid)
	assert.ErrorIs(t, f.svc.ChangePassword(ctx, actor, req), auth.ErrOTPInvalid)
	assert.ErrorIs(t, f.svc.ChangePassword(ctx, actor, req), auth.ErrOTPAttemptsExceeded)

	req.OTP = code
	assert.ErrorIs(t, f.svc.ChangePassword(ctx, actor, req), auth.ErrOTPAttemptsExceeded)
	assert.True(t, f.users.Get("u-jane").MustChangePassword)
}

func TestChangePassword_Expired(t *testing.T) {
	f := newFixture(t, jane(t))
	ctx := context.Background()
	actor := user.Actor{ID: "u-jane", Role: user.RoleEmployee}

	_, err := f.svc.RequestPasswordOTP(ctx, actor)
	require.NoError(t, err)
	code := issuedCode(t, f)

	f.svc.now = func() time.Time { return time.Now().Add(security.OTPTTL + time.Second) }
	err = f.svc.ChangePassword(ctx, actor, auth.ChangePasswordRequest{OTP: code, NewPassword: "brand-new-pass", ConfirmPassword: "brand-new-pass"})
	assert.ErrorIs(t, err, auth.ErrOTPExpired)
}

func TestChangePassword_NewCodeReplacesOld(t *testing.T) {
	f := newFixture(t, jane(t))
	ctx := context.Background()
	actor := user.Actor{ID: "u-jane", Role: user.RoleEmployee}

	_, err := f.svc.RequestPasswordOTP(ctx, actor)
	require.NoError(t, err)
	_, err = f.svc.RequestPasswordOTP(ctx, actor)
	require.NoError(t, err)

	require.Len(t, f.otps.OTPs, 2)
	assert.True(t, f.otps.OTPs[0].IsUsed())
	assert.False(t, f.otps.OTPs[1].IsUsed())
}

func TestChangePassword_RejectsReuse(t *testing.T) {
	f := newFixture(t, jane(t))
	ctx := context.Background()
	actor := user.Actor{ID: "u-jane", Role: user.RoleEmployee}

	_, err := f.svc.RequestPasswordOTP(ctx, actor)
	require.NoError(t, err)

	err = f.svc.ChangePassword(ctx, actor, auth.ChangePasswordRequest{OTP: issuedCode(t, f), NewPassword: testPassword, ConfirmPassword: testPassword})
	assert.ErrorIs(t, err, auth.ErrPasswordReused)
}

func TestChangePassword_Validation(t *testing.T) {
	f := newFixture(t, jane(t))
	actor := user.Actor{ID: "u-jane", Role: user.RoleEmployee}

	err := f.svc.ChangePassword(context.Background(), actor, auth.ChangePasswordRequest{OTP: "12ab", NewPassword: "short", ConfirmPassword: "other"})
	require.Error(t, err)
	for _, field := range []string{"otp", "new_password", "confirm_password"} {
		assert.Contains(t, err.Error(), field)
	}
}

func TestUpdateProfile(t *testing.T) {
	f := newFixture(t, jane(t))
	actor := user.Actor{ID: "u-jane", Role: user.RoleEmployee}
	phone, first := "+62 812 3456 7890", "Janet"

	resp, err := f.svc.UpdateProfile(context.Background(), actor, auth.UpdateProfileRequest{FirstName: &first, Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, "Janet", resp.FirstName)
	assert.Equal(t, "Doe", resp.LastName)
	assert.Equal(t, phone, *resp.Phone)
	assert.Equal(t, []string{audit.ActionProfileUpdated}, f.audit.Actions())
}
