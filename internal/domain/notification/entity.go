package notification

import "time"

// Log records every outgoing notification and whether delivery succeeded.
type Log struct {
	ID        string
	SentTo    string
	SentBy    *string
	Subject   string
	Message   string
	EmailSent bool
	Error     *string
	SentAt    time.Time
}

// Message is a rendered notification ready for delivery.
type Message struct {
	RecipientID string
	SenderID    *string
	Subject     string
	Body        string
}
