package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/audit"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/database"
)

type auditLogRepositoryImpl struct {
	db *database.DB
}

func NewAuditLogRepository(db *database.DB) audit.LogRepository {
	return &auditLogRepositoryImpl{db: db}
}

func (r *auditLogRepositoryImpl) Create(ctx context.Context, entry audit.Log) error {
	q := GetQuerier(ctx, r.db)
	query := `
		INSERT INTO audit_logs (user_id, action, details, ip_address)
		VALUES ($1, $2, $3, $4)
	`
	if _, err := q.Exec(ctx, query, entry.UserID, entry.Action, entry.Details, entry.IPAddress); err != nil {
		return fmt.Errorf("failed to create audit log: %w", err)
	}
	return nil
}

// ListRecent returns the newest entries first.
func (r *auditLogRepositoryImpl) ListRecent(ctx context.Context, limit int) ([]audit.Log, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		SELECT l.id, l.user_id, l.action, l.details, l.ip_address, l.timestamp, u.username
		FROM audit_logs l
		LEFT JOIN users u ON l.user_id = u.id
		ORDER BY l.timestamp DESC
		LIMIT $1
	`

	rows, err := q.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []audit.Log
	for rows.Next() {
		var l audit.Log
		if err := rows.Scan(&l.ID, &l.UserID, &l.Action, &l.Details, &l.IPAddress, &l.Timestamp, &l.Username); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

type loginAttemptRepositoryImpl struct {
	db *database.DB
}

func NewLoginAttemptRepository(db *database.DB) audit.LoginAttemptRepository {
	return &loginAttemptRepositoryImpl{db: db}
}

func (r *loginAttemptRepositoryImpl) Create(ctx context.Context, attempt audit.LoginAttempt) error {
	q := GetQuerier(ctx, r.db)
	query := `
		INSERT INTO login_attempts (username, ip_address, success, user_agent)
		VALUES ($1, $2, $3, $4)
	`
	if _, err := q.Exec(ctx, query, attempt.Username, attempt.IPAddress, attempt.Success, attempt.UserAgent); err != nil {
		return fmt.Errorf("failed to record login attempt: %w", err)
	}
	return nil
}

func (r *loginAttemptRepositoryImpl) ListRecent(ctx context.Context, limit int) ([]audit.LoginAttempt, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		SELECT id, username, ip_address, success, user_agent, timestamp
		FROM login_attempts
		ORDER BY timestamp DESC
		LIMIT $1
	`

	rows, err := q.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attempts []audit.LoginAttempt
	for rows.Next() {
		var a audit.LoginAttempt
		if err := rows.Scan(&a.ID, &a.Username, &a.IPAddress, &a.Success, &a.UserAgent, &a.Timestamp); err != nil {
			return nil, err
		}
		attempts = append(attempts, a)
	}
	return attempts, rows.Err()
}
