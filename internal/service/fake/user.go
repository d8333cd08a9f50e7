package fake

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/user"
)

// UserRepo is an in-memory user.UserRepository.
type UserRepo struct {
	mu    sync.Mutex
	Users map[string]user.User
	seq   int
}

func NewUserRepo(users ...user.User) *UserRepo {
	r := &UserRepo{Users: make(map[string]user.User)}
	for _, u := range users {
		r.Users[u.ID] = u
	}
	return r
}

func (r *UserRepo) Get(id string) user.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.Users[id]
}

func (r *UserRepo) GetByID(_ context.Context, id string) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.Users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (r *UserRepo) find(match func(user.User) bool) (user.User, error) {
	for _, u := range r.Users {
		if match(u) {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.find(func(u user.User) bool { return strings.EqualFold(u.Email, email) })
}

func (r *UserRepo) GetByIdentifier(_ context.Context, identifier string) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.find(func(u user.User) bool {
		return u.Username == identifier || strings.EqualFold(u.Email, identifier)
	})
}

func (r *UserRepo) exists(match func(user.User) bool) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, err := r.find(match)
	return err == nil
}

func (r *UserRepo) ExistsByUsername(_ context.Context, username string) (bool, error) {
	return r.exists(func(u user.User) bool { return u.Username == username }), nil
}

func (r *UserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	return r.exists(func(u user.User) bool { return strings.EqualFold(u.Email, email) }), nil
}

func (r *UserRepo) ExistsByEmployeeID(_ context.Context, employeeID string) (bool, error) {
	return r.exists(func(u user.User) bool { return u.EmployeeID != nil && *u.EmployeeID == employeeID }), nil
}

func (r *UserRepo) Create(_ context.Context, newUser user.User) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	if newUser.ID == "" {
		newUser.ID = fmt.Sprintf("user-%d", r.seq)
	}
	now := time.Now()
	newUser.CreatedAt, newUser.UpdatedAt = now, now
	r.Users[newUser.ID] = newUser
	return newUser, nil
}

func (r *UserRepo) modify(id string, fn func(u *user.User)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.Users[id]
	if !ok {
		return user.ErrUserNotFound
	}
	fn(&u)
	u.UpdatedAt = time.Now()
	r.Users[id] = u
	return nil
}

func (r *UserRepo) Update(_ context.Context, req user.UpdateUserRequest) error {
	return r.modify(req.ID, func(u *user.User) {
		if req.FirstName != nil {
			u.FirstName = *req.FirstName
		}
		if req.LastName != nil {
			u.LastName = *req.LastName
		}
		if req.Email != nil {
			u.Email = *req.Email
		}
		if req.Role != nil {
			u.Role = *req.Role
		}
		if req.Phone != nil {
			u.Phone = req.Phone
		}
		if req.Department != nil {
			u.Department = req.Department
		}
		if req.Salary != nil {
			u.Salary = req.Salary
		}
		if req.DateOfJoining != nil {
			u.DateOfJoining = req.DateOfJoining
		}
		if req.IsActive != nil {
			u.IsActive = *req.IsActive
		}
	})
}

func (r *UserRepo) UpdatePassword(_ context.Context, userID, passwordHash string, mustChange bool) error {
	return r.modify(userID, func(u *user.User) {
		u.PasswordHash = passwordHash
		u.MustChangePassword = mustChange
	})
}

func (r *UserRepo) RecordFailedLogin(_ context.Context, userID string, maxAttempts int) (int, bool, error) {
	var attempts int
	var locked bool
	err := r.modify(userID, func(u *user.User) {
		u.FailedLoginAttempts++
		if u.FailedLoginAttempts >= maxAttempts {
			u.IsAccountLocked = true
		}
		attempts, locked = u.FailedLoginAttempts, u.IsAccountLocked
	})
	return attempts, locked, err
}

func (r *UserRepo) RecordSuccessfulLogin(_ context.Context, userID string) error {
	return r.modify(userID, func(u *user.User) {
		now := time.Now()
		u.FailedLoginAttempts = 0
		u.LastLoginAt = &now
	})
}

func (r *UserRepo) SetActive(_ context.Context, userID string, active bool) error {
	return r.modify(userID, func(u *user.User) { u.IsActive = active })
}

func (r *UserRepo) Unlock(_ context.Context, userID string) error {
	return r.modify(userID, func(u *user.User) {
		u.IsAccountLocked = false
		u.FailedLoginAttempts = 0
	})
}

func (r *UserRepo) Delete(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.Users[userID]; !ok {
		return user.ErrUserNotFound
	}
	delete(r.Users, userID)
	return nil
}

func (r *UserRepo) sorted(match func(user.User) bool) []user.User {
	var out []user.User
	for _, u := range r.Users {
		if match(u) {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out
}

func (r *UserRepo) List(_ context.Context, filter user.UserFilter) ([]user.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	search := strings.ToLower(filter.Search)
	rows := r.sorted(func(u user.User) bool {
		if filter.Role != nil && u.Role != *filter.Role {
			return false
		}
		if filter.IsActive != nil && u.IsActive != *filter.IsActive {
			return false
		}
		if search != "" {
			hay := strings.ToLower(u.Username + " " + u.Email + " " + u.FirstName + " " + u.LastName)
			return strings.Contains(hay, search)
		}
		return true
	})
	return Page(rows, filter.Page, filter.Limit), int64(len(rows)), nil
}

func (r *UserRepo) ListActive(_ context.Context) ([]user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sorted(func(u user.User) bool { return u.IsActive }), nil
}

// Page slices rows the way the SQL repositories apply LIMIT/OFFSET; limit <= 0 keeps everything.
func Page[T any](rows []T, page, limit int) []T {
	if limit <= 0 {
		return rows
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * limit
	if start >= len(rows) {
		return []T{}
	}
	end := min(start+limit, len(rows))
	return rows[start:end]
}
