package leave

import (
	"context"
	"time"
)

type LeaveRepository interface {
	Create(ctx context.Context, newLeave Leave) (Leave, error)
	GetByID(ctx context.Context, id string) (Leave, error)
	// GetByIDForUpdate row-locks the leave for the rest of the transaction.
	GetByIDForUpdate(ctx context.Context, id string) (Leave, error)
	UpdateStatus(ctx context.Context, l Leave) error
	// LockUser serialises leave writes for one user until the transaction ends.
	LockUser(ctx context.Context, userID string) error
	HasOverlap(ctx context.Context, userID string, start, end time.Time) (bool, error)
	List(ctx context.Context, filter LeaveFilter) ([]Leave, int64, error)
}

type BalanceRepository interface {
	// GetOrCreate returns the (user, year) balance, inserting the defaults when absent.
	GetOrCreate(ctx context.Context, userID string, year int) (Balance, error)
}

type LeaveFilter struct {
	UserID *string
	Status *Status
	From   *time.Time
	To     *time.Time
	Page   int
	Limit  int
}
