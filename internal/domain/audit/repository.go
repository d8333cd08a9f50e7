package audit

import "context"

type LogRepository interface {
	Create(ctx context.Context, entry Log) error
	ListRecent(ctx context.Context, limit int) ([]Log, error)
}

type LoginAttemptRepository interface {
	Create(ctx context.Context, attempt LoginAttempt) error
	ListRecent(ctx context.Context, limit int) ([]LoginAttempt, error)
}
