package auth

import (
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/utils"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/validator"
)

const MinPasswordLength = 8

// LoginRequest accepts either a username or an e-mail as Identifier.
type LoginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.Identifier) {
		errs.Add("identifier", "username or email is required")
	}
	if validator.IsEmpty(r.Password) {
		errs.Add("password", "password is required")
	}
	return errs.Err()
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (r *RefreshTokenRequest) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.RefreshToken) {
		errs.Add("refresh_token", "refresh_token is required")
	}
	return errs.Err()
}

type ChangePasswordRequest struct {
	OTP             string `json:"otp"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

func (r *ChangePasswordRequest) Validate() error {
	var errs validator.ValidationErrors
	if len(r.OTP) != 6 || !validator.IsNumeric(r.OTP) {
		errs.Add("otp", "otp must be a 6-digit code")
	}
	if len(r.NewPassword) < MinPasswordLength {
		errs.Add("new_password", "new_password must be at least 8 characters")
	}
	if r.NewPassword != r.ConfirmPassword {
		errs.Add("confirm_password", ErrPasswordMismatch.Error())
	}
	return errs.Err()
}

type UpdateProfileRequest struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Phone     *string `json:"phone,omitempty"`
}

func (r *UpdateProfileRequest) Validate() error {
	var errs validator.ValidationErrors
	if r.FirstName != nil && validator.IsEmpty(*r.FirstName) {
		errs.Add("first_name", "first_name cannot be empty")
	}
	if r.LastName != nil && validator.IsEmpty(*r.LastName) {
		errs.Add("last_name", "last_name cannot be empty")
	}
	if r.Phone != nil && *r.Phone != "" && !validator.IsValidPhoneNumber(*r.Phone) {
		errs.Add("phone", "phone must contain 7 to 15 digits")
	}
	return errs.Err()
}

type TokenResponse struct {
	AccessToken        string          `json:"access_token"`
	RefreshToken       string          `json:"refresh_token"`
	TokenType          string          `json:"token_type"`
	ExpiresIn          int64           `json:"expires_in"`
	MustChangePassword bool            `json:"must_change_password"`
	User               ProfileResponse `json:"user"`

	// RefreshExpiresAt feeds the refresh cookie; it is not part of the body.
	RefreshExpiresAt int64 `json:"-"`
}

// AccessTokenResponse is returned by refresh; the presented refresh token is
// revoked and replaced by RefreshToken.
type AccessTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`

	RefreshExpiresAt int64 `json:"-"`
}

type OTPIssuedResponse struct {
	Message   string    `json:"message"`
	ExpiresAt time.Time `json:"expires_at"`
}

type ProfileResponse struct {
	ID                 string     `json:"id"`
	Username           string     `json:"username"`
	Email              string     `json:"email"`
	FirstName          string     `json:"first_name"`
	LastName           string     `json:"last_name"`
	Role               string     `json:"role"`
	EmployeeID         *string    `json:"employee_id,omitempty"`
	Phone              *string    `json:"phone,omitempty"`
	Department         *string    `json:"department,omitempty"`
	DateOfJoining      *string    `json:"date_of_joining,omitempty"`
	MustChangePassword bool       `json:"must_change_password"`
	LastLoginAt        *time.Time `json:"last_login_at,omitempty"`
	Permissions        []string   `json:"permissions"`
}

func ToProfileResponse(u user.User) ProfileResponse {
	perms := user.RolePermissions[u.Role]
	names := make([]string, 0, len(perms))
	for _, p := range perms {
		names = append(names, string(p))
	}

	var joined *string
	if u.DateOfJoining != nil {
		d := utils.FormatDate(u.DateOfJoining)
		joined = &d
	}

	return ProfileResponse{
		ID:                 u.ID,
		Username:           u.Username,
		Email:              u.Email,
		FirstName:          u.FirstName,
		LastName:           u.LastName,
		Role:               string(u.Role),
		EmployeeID:         u.EmployeeID,
		Phone:              u.Phone,
		Department:         u.Department,
		DateOfJoining:      joined,
		MustChangePassword: u.MustChangePassword,
		LastLoginAt:        u.LastLoginAt,
		Permissions:        names,
	}
}
