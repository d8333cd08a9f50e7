package auth

import (
	"context"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/user"
)

type AuthService interface {
	Login(ctx context.Context, req LoginRequest, session SessionTrackingRequest) (TokenResponse, error)
	RefreshToken(ctx context.Context, req RefreshTokenRequest) (AccessTokenResponse, error)
	Logout(ctx context.Context, actor user.Actor, accessToken string, refreshToken string) error
	RequestPasswordOTP(ctx context.Context, actor user.Actor) (OTPIssuedResponse, error)
	ChangePassword(ctx context.Context, actor user.Actor, req ChangePasswordRequest) error
	Me(ctx context.Context, actor user.Actor) (ProfileResponse, error)
	UpdateProfile(ctx context.Context, actor user.Actor, req UpdateProfileRequest) (ProfileResponse, error)
}
