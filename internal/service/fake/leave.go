package fake

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/utils"
)

type LeaveRepo struct {
	mu       sync.Mutex
	Leaves   map[string]leave.Leave
	Locks    []string
	RowLocks []string
	// BeforeRowLock runs ahead of GetByIDForUpdate, standing in for a
	// writer that commits just before the lock is granted.
	BeforeRowLock func(r *LeaveRepo, id string)
	seq           int
}

func NewLeaveRepo(leaves ...leave.Leave) *LeaveRepo {
	r := &LeaveRepo{Leaves: make(map[string]leave.Leave)}
	for _, l := range leaves {
		r.Leaves[l.ID] = l
	}
	return r
}

func (r *LeaveRepo) Create(_ context.Context, l leave.Leave) (leave.Leave, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	if l.ID == "" {
		l.ID = fmt.Sprintf("leave-%d", r.seq)
	}
	now := time.Now()
	l.CreatedAt, l.UpdatedAt = now, now
	r.Leaves[l.ID] = l
	return l, nil
}

func (r *LeaveRepo) GetByID(_ context.Context, id string) (leave.Leave, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.Leaves[id]
	if !ok {
		return leave.Leave{}, leave.ErrLeaveNotFound
	}
	return l, nil
}

func (r *LeaveRepo) GetByIDForUpdate(ctx context.Context, id string) (leave.Leave, error) {
	if r.BeforeRowLock != nil {
		r.BeforeRowLock(r, id)
	}
	r.mu.Lock()
	r.RowLocks = append(r.RowLocks, id)
	r.mu.Unlock()
	return r.GetByID(ctx, id)
}

// Set replaces a stored leave as-is.
func (r *LeaveRepo) Set(l leave.Leave) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Leaves[l.ID] = l
}

func (r *LeaveRepo) UpdateStatus(_ context.Context, l leave.Leave) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.Leaves[l.ID]; !ok {
		return leave.ErrLeaveNotFound
	}
	r.Leaves[l.ID] = l
	return nil
}

func (r *LeaveRepo) LockUser(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Locks = append(r.Locks, userID)
	return nil
}

func (r *LeaveRepo) HasOverlap(_ context.Context, userID string, start, end time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, l := range r.Leaves {
		if l.UserID == userID && l.Status.BlocksOverlap() && l.Overlaps(start, end) {
			return true, nil
		}
	}
	return false, nil
}

func (r *LeaveRepo) List(_ context.Context, filter leave.LeaveFilter) ([]leave.Leave, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var rows []leave.Leave
	for _, l := range r.Leaves {
		if filter.UserID != nil && l.UserID != *filter.UserID {
			continue
		}
		if filter.Status != nil && l.Status != *filter.Status {
			continue
		}
		if filter.From != nil && l.EndDate.Before(*filter.From) {
			continue
		}
		if filter.To != nil && l.StartDate.After(*filter.To) {
			continue
		}
		rows = append(rows, l)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].StartDate.After(rows[j].StartDate) })
	return Page(rows, filter.Page, filter.Limit), int64(len(rows)), nil
}

type BalanceRepo struct {
	mu       sync.Mutex
	Balances map[string]leave.Balance
}

func NewBalanceRepo() *BalanceRepo {
	return &BalanceRepo{Balances: make(map[string]leave.Balance)}
}

func (r *BalanceRepo) GetOrCreate(_ context.Context, userID string, year int) (leave.Balance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := fmt.Sprintf("%s/%d", userID, year)
	b, ok := r.Balances[key]
	if !ok {
		b = leave.DefaultBalance(userID, year)
		r.Balances[key] = b
	}
	return b, nil
}

// dayKey is the attendance uniqueness key.
func dayKey(userID string, day time.Time) string {
	return userID + "/" + utils.DateOnly(day).Format(utils.DateLayout)
}
