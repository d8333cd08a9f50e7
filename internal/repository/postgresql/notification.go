package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/database"
)

type notificationLogRepository struct {
	db *database.DB
}

func NewNotificationLogRepository(db *database.DB) notification.LogRepository {
	return &notificationLogRepository{db: db}
}

func (r *notificationLogRepository) Create(ctx context.Context, entry notification.Log) error {
	q := GetQuerier(ctx, r.db)
	query := `
		INSERT INTO notification_logs (sent_to, sent_by, subject, message, email_sent, error)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := q.Exec(ctx, query, entry.SentTo, entry.SentBy, entry.Subject, entry.Message, entry.EmailSent, entry.Error)
	if err != nil {
		return fmt.Errorf("failed to create notification log: %w", err)
	}
	return nil
}

func (r *notificationLogRepository) ListByRecipient(ctx context.Context, userID string, limit int) ([]notification.Log, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		SELECT id, sent_to, sent_by, subject, message, email_sent, error, sent_at
		FROM notification_logs
		WHERE sent_to = $1
		ORDER BY sent_at DESC
		LIMIT $2
	`

	rows, err := q.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []notification.Log
	for rows.Next() {
		var l notification.Log
		if err := rows.Scan(&l.ID, &l.SentTo, &l.SentBy, &l.Subject, &l.Message, &l.EmailSent, &l.Error, &l.SentAt); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
