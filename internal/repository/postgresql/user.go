package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/database"
)

const userColumns = `
	id, username, email, password_hash, first_name, last_name, role,
	employee_id, phone, department, salary, date_of_joining,
	is_active, is_account_locked, failed_login_attempts, must_change_password,
	last_login_at, created_at, updated_at`

type userRepositoryImpl struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) user.UserRepository {
	return &userRepositoryImpl{db: db}
}

func scanUser(row pgx.Row) (user.User, error) {
	var u user.User
	err := row.Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &u.Role,
		&u.EmployeeID, &u.Phone, &u.Department, &u.Salary, &u.DateOfJoining,
		&u.IsActive, &u.IsAccountLocked, &u.FailedLoginAttempts, &u.MustChangePassword,
		&u.LastLoginAt, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, err
	}
	return u, nil
}

// mapUserConflict translates unique index violations into domain errors.
func mapUserConflict(err error) error {
	switch uniqueConstraint(err) {
	case "users_username_key":
		return user.ErrUsernameExists
	case "users_email_key":
		return user.ErrUserEmailExists
	case "users_employee_id_key":
		return user.ErrEmployeeIDExists
	}
	return err
}

func (r *userRepositoryImpl) getOne(ctx context.Context, where string, arg any) (user.User, error) {
	q := GetQuerier(ctx, r.db)
	query := "SELECT " + userColumns + " FROM users WHERE " + where
	return scanUser(q.QueryRow(ctx, query, arg))
}

func (r *userRepositoryImpl) GetByID(ctx context.Context, id string) (user.User, error) {
	return r.getOne(ctx, "id = $1", id)
}

func (r *userRepositoryImpl) GetByEmail(ctx context.Context, email string) (user.User, error) {
	return r.getOne(ctx, "LOWER(email) = LOWER($1)", email)
}

// GetByIdentifier implements user.UserRepository.
func (r *userRepositoryImpl) GetByIdentifier(ctx context.Context, identifier string) (user.User, error) {
	return r.getOne(ctx, "username = $1 OR LOWER(email) = LOWER($1) LIMIT 1", identifier)
}

func (r *userRepositoryImpl) exists(ctx context.Context, where string, arg any) (bool, error) {
	q := GetQuerier(ctx, r.db)
	var exists bool
	err := q.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM users WHERE "+where+")", arg).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (r *userRepositoryImpl) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, "username = $1", username)
}

func (r *userRepositoryImpl) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, "LOWER(email) = LOWER($1)", email)
}

func (r *userRepositoryImpl) ExistsByEmployeeID(ctx context.Context, employeeID string) (bool, error) {
	return r.exists(ctx, "employee_id = $1", employeeID)
}

func (r *userRepositoryImpl) Create(ctx context.Context, newUser user.User) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO users (
			username, email, password_hash, first_name, last_name, role,
			employee_id, phone, department, salary, date_of_joining,
			is_active, must_change_password
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, $10, $11,
			$12, $13
		) RETURNING ` + userColumns

	created, err := scanUser(q.QueryRow(ctx, query,
		newUser.Username, newUser.Email, newUser.PasswordHash, newUser.FirstName, newUser.LastName, newUser.Role,
		newUser.EmployeeID, newUser.Phone, newUser.Department, newUser.Salary, newUser.DateOfJoining,
		newUser.IsActive, newUser.MustChangePassword,
	))
	if err != nil {
		return user.User{}, mapUserConflict(err)
	}
	return created, nil
}

// Update implements user.UserRepository.
func (r *userRepositoryImpl) Update(ctx context.Context, req user.UpdateUserRequest) error {
	q := GetQuerier(ctx, r.db)

	updates := make(map[string]interface{})
	if req.FirstName != nil {
		updates["first_name"] = *req.FirstName
	}
	if req.LastName != nil {
		updates["last_name"] = *req.LastName
	}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.Role != nil {
		updates["role"] = *req.Role
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.Department != nil {
		updates["department"] = *req.Department
	}
	if req.Salary != nil {
		updates["salary"] = *req.Salary
	}
	if req.DateOfJoining != nil {
		updates["date_of_joining"] = *req.DateOfJoining
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if len(updates) == 0 {
		return nil
	}
	updates["updated_at"] = time.Now()

	setClauses := make([]string, 0, len(updates))
	args := make([]interface{}, 0, len(updates)+1)
	i := 1
	for col, val := range updates {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", col, i))
		args = append(args, val)
		i++
	}

	sql := fmt.Sprintf("UPDATE users SET %s WHERE id = $%d", strings.Join(setClauses, ", "), i)
	args = append(args, req.ID)

	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("failed to update user with id %s: %w", req.ID, mapUserConflict(err))
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

// execOne runs a single-row UPDATE or DELETE and reports a missing user.
func (r *userRepositoryImpl) execOne(ctx context.Context, sql string, args ...any) error {
	q := GetQuerier(ctx, r.db)
	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

func (r *userRepositoryImpl) UpdatePassword(ctx context.Context, userID, passwordHash string, mustChange bool) error {
	return r.execOne(ctx, `
		UPDATE users
		SET password_hash = $1, must_change_password = $2, updated_at = NOW()
		WHERE id = $3
	`, passwordHash, mustChange, userID)
}

// RecordFailedLogin increments the counter and locks the account in the same statement.
func (r *userRepositoryImpl) RecordFailedLogin(ctx context.Context, userID string, maxAttempts int) (int, bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE users
		SET failed_login_attempts = failed_login_attempts + 1,
			is_account_locked = is_account_locked OR failed_login_attempts + 1 >= $2,
			updated_at = NOW()
		WHERE id = $1
		RETURNING failed_login_attempts, is_account_locked
	`

	var attempts int
	var locked bool
	if err := q.QueryRow(ctx, query, userID, maxAttempts).Scan(&attempts, &locked); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, user.ErrUserNotFound
		}
		return 0, false, err
	}
	return attempts, locked, nil
}

func (r *userRepositoryImpl) RecordSuccessfulLogin(ctx context.Context, userID string) error {
	return r.execOne(ctx, `
		UPDATE users
		SET failed_login_attempts = 0, last_login_at = NOW(), updated_at = NOW()
		WHERE id = $1
	`, userID)
}

func (r *userRepositoryImpl) SetActive(ctx context.Context, userID string, active bool) error {
	return r.execOne(ctx, `UPDATE users SET is_active = $1, updated_at = NOW() WHERE id = $2`, active, userID)
}

func (r *userRepositoryImpl) Unlock(ctx context.Context, userID string) error {
	return r.execOne(ctx, `
		UPDATE users
		SET is_account_locked = FALSE, failed_login_attempts = 0, updated_at = NOW()
		WHERE id = $1
	`, userID)
}

func (r *userRepositoryImpl) Delete(ctx context.Context, userID string) error {
	return r.execOne(ctx, `DELETE FROM users WHERE id = $1`, userID)
}

// List implements user.UserRepository.
func (r *userRepositoryImpl) List(ctx context.Context, filter user.UserFilter) ([]user.User, int64, error) {
	q := GetQuerier(ctx, r.db)

	whereClause := "WHERE 1=1"
	args := []interface{}{}
	argIndex := 1

	if filter.Search != "" {
		whereClause += fmt.Sprintf(` AND (username ILIKE $%d OR email ILIKE $%d OR first_name ILIKE $%d OR last_name ILIKE $%d OR employee_id ILIKE $%d)`,
			argIndex, argIndex, argIndex, argIndex, argIndex)
		args = append(args, "%"+filter.Search+"%")
		argIndex++
	}
	if filter.Role != nil {
		whereClause += fmt.Sprintf(" AND role = $%d", argIndex)
		args = append(args, *filter.Role)
		argIndex++
	}
	if filter.IsActive != nil {
		whereClause += fmt.Sprintf(" AND is_active = $%d", argIndex)
		args = append(args, *filter.IsActive)
		argIndex++
	}

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM users "+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := "SELECT " + userColumns + " FROM users " + whereClause + " ORDER BY username ASC"
	query, args = paginate(query, args, argIndex, filter.Page, filter.Limit)

	users, err := r.queryUsers(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (r *userRepositoryImpl) ListActive(ctx context.Context) ([]user.User, error) {
	return r.queryUsers(ctx, "SELECT "+userColumns+" FROM users WHERE is_active = TRUE ORDER BY username ASC")
}

func (r *userRepositoryImpl) queryUsers(ctx context.Context, query string, args ...any) ([]user.User, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []user.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
