// Package fake holds in-memory implementations of the domain interfaces for service tests.
package fake

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/storage"
)

// Transactor runs fn inline and counts how each unit of work ended.
type Transactor struct {
	mu        sync.Mutex
	Commits   int
	Rollbacks int
}

func (t *Transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	err := fn(ctx)
	t.mu.Lock()
	defer t.mu.Unlock()
	if err != nil {
		t.Rollbacks++
		return err
	}
	t.Commits++
	return nil
}

type AuditEntry struct {
	ActorID string
	Action  string
	Details string
}

// Recorder collects audit entries.
type Recorder struct {
	mu      sync.Mutex
	Entries []AuditEntry
}

func (r *Recorder) Record(_ context.Context, actor user.Actor, action string, details string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Entries = append(r.Entries, AuditEntry{ActorID: actor.ID, Action: action, Details: details})
}

func (r *Recorder) Actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.Entries))
	for _, e := range r.Entries {
		out = append(out, e.Action)
	}
	return out
}

// Sent is one notification captured by Notifier.
type Sent struct {
	Kind        string
	RecipientID string
	Subject     string
	Detail      string
}

// Notifier records every notification; Fail makes Notify report non-delivery.
type Notifier struct {
	mu   sync.Mutex
	Sent []Sent
	Fail bool
}

func (n *Notifier) add(s Sent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Sent = append(n.Sent, s)
}

func (n *Notifier) Kinds() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, 0, len(n.Sent))
	for _, s := range n.Sent {
		out = append(out, s.Kind)
	}
	return out
}

func (n *Notifier) Notify(_ context.Context, msg notification.Message) bool {
	n.add(Sent{Kind: "notice", RecipientID: msg.RecipientID, Subject: msg.Subject, Detail: msg.Body})
	return !n.Fail
}

func (n *Notifier) NotifyTaskAssigned(_ context.Context, assignee user.User, assignerName, taskTitle, dueDate string, senderID string) {
	n.add(Sent{Kind: "task_assigned", RecipientID: assignee.ID, Subject: taskTitle, Detail: dueDate})
}

func (n *Notifier) NotifyTaskRejected(_ context.Context, assigner user.User, assigneeName, taskTitle, reason string, senderID string) {
	n.add(Sent{Kind: "task_rejected", RecipientID: assigner.ID, Subject: taskTitle, Detail: reason})
}

func (n *Notifier) NotifyLeaveDecision(_ context.Context, requester user.User, leaveType, status, startDate, endDate string, remarks *string, senderID string) {
	n.add(Sent{Kind: "leave_decision", RecipientID: requester.ID, Subject: leaveType, Detail: status})
}

func (n *Notifier) NotifyCredentials(_ context.Context, recipient user.User, tempPassword string, senderID *string) {
	n.add(Sent{Kind: "credentials", RecipientID: recipient.ID, Detail: tempPassword})
}

func (n *Notifier) NotifyOTP(_ context.Context, recipient user.User, code string, ttlMinutes int) {
	n.add(Sent{Kind: "otp", RecipientID: recipient.ID, Detail: code})
}

// Storage keeps uploaded files in memory.
type Storage struct {
	mu    sync.Mutex
	Files map[string][]byte
}

func NewStorage() *Storage {
	return &Storage{Files: make(map[string][]byte)}
}

func (s *Storage) Upload(_ context.Context, file io.Reader, key string, opts storage.UploadOptions) (string, error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return "", err
	}
	if opts.MaxSize > 0 && int64(len(data)) > opts.MaxSize {
		return "", storage.ErrFileTooLarge
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Files[key] = data
	return key, nil
}

func (s *Storage) Download(_ context.Context, key string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.Files[key]
	if !ok {
		return nil, storage.ErrFileNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *Storage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.Files, key)
	return nil
}

func (s *Storage) Exists(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.Files[key]
	return ok, nil
}
