package audit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/audit"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/ems-backend-go/internal/service/fake"
)

func TestRecorder_Record(t *testing.T) {
	repo := &fake.AuditLogRepo{}
	rec := NewRecorder(repo)

	rec.Record(context.Background(), user.Actor{ID: "admin-1", Role: user.RoleAdmin, IP: "10.0.0.1"}, audit.ActionEmployeeCreated, "Created employee jane.doe")

	require.Len(t, repo.Logs, 1)
	entry := repo.Logs[0]
	assert.Equal(t, "admin-1", *entry.UserID)
	assert.Equal(t, "10.0.0.1", *entry.IPAddress)
	assert.Equal(t, audit.ActionEmployeeCreated, entry.Action)
	assert.WithinDuration(t, time.Now(), entry.Timestamp, time.Minute)
}

func TestRecorder_AnonymousActor(t *testing.T) {
	repo := &fake.AuditLogRepo{}
	NewRecorder(repo).Record(context.Background(), user.Actor{}, audit.ActionLogin, "failed")

	require.Len(t, repo.Logs, 1)
	assert.Nil(t, repo.Logs[0].UserID)
	assert.Nil(t, repo.Logs[0].IPAddress)
}

func TestRecorder_SwallowsErrors(t *testing.T) {
	repo := &fake.AuditLogRepo{Err: errors.New("db down")}
	assert.NotPanics(t, func() {
		NewRecorder(repo).Record(context.Background(), user.Actor{ID: "u"}, audit.ActionLogout, "")
	})
	assert.Empty(t, repo.Logs)
}

func TestToLogResponses(t *testing.T) {
	ts := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	out := ToLogResponses([]audit.Log{{ID: "1", Action: audit.ActionLogin, Timestamp: ts}})
	require.Len(t, out, 1)
	assert.Equal(t, "2026-03-01T09:30:00Z", out[0].Timestamp)
}
