package user

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type UserRepository interface {
	GetByID(ctx context.Context, id string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	// GetByIdentifier matches either the username or the email.
	GetByIdentifier(ctx context.Context, identifier string) (User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByEmployeeID(ctx context.Context, employeeID string) (bool, error)
	Create(ctx context.Context, newUser User) (User, error)
	Update(ctx context.Context, req UpdateUserRequest) error
	UpdatePassword(ctx context.Context, userID, passwordHash string, mustChange bool) error
	// RecordFailedLogin increments the counter and locks the account once it reaches maxAttempts.
	RecordFailedLogin(ctx context.Context, userID string, maxAttempts int) (attempts int, locked bool, err error)
	RecordSuccessfulLogin(ctx context.Context, userID string) error
	SetActive(ctx context.Context, userID string, active bool) error
	Unlock(ctx context.Context, userID string) error
	Delete(ctx context.Context, userID string) error
	List(ctx context.Context, filter UserFilter) ([]User, int64, error)
	ListActive(ctx context.Context) ([]User, error)
}

// UpdateUserRequest carries a partial update; nil fields are left untouched.
type UpdateUserRequest struct {
	ID            string
	FirstName     *string
	LastName      *string
	Email         *string
	Role          *Role
	Phone         *string
	Department    *string
	Salary        *decimal.Decimal
	DateOfJoining *time.Time
	IsActive      *bool
}

type UserFilter struct {
	Search   string
	Role     *Role
	IsActive *bool
	Page     int
	// Limit <= 0 returns every matching row.
	Limit int
}
