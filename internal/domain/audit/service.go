package audit

import (
	"context"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/user"
)

// Recorder appends to the audit trail. Write failures are logged, never returned.
type Recorder interface {
	Record(ctx context.Context, actor user.Actor, action string, details string)
}

type LogResponse struct {
	ID        string  `json:"id"`
	UserID    *string `json:"user_id,omitempty"`
	Username  *string `json:"username,omitempty"`
	Action    string  `json:"action"`
	Details   string  `json:"details"`
	IPAddress *string `json:"ip_address,omitempty"`
	Timestamp string  `json:"timestamp"`
}

type LoginAttemptResponse struct {
	Username  string `json:"username"`
	IPAddress string `json:"ip_address"`
	Success   bool   `json:"success"`
	UserAgent string `json:"user_agent"`
	Timestamp string `json:"timestamp"`
}
