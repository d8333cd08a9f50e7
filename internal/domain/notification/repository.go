package notification

import "context"

type LogRepository interface {
	Create(ctx context.Context, entry Log) error
	ListByRecipient(ctx context.Context, userID string, limit int) ([]Log, error)
}
