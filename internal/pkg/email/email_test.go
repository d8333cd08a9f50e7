package email

import (
	"context"
	"errors"
	"net/smtp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/ems-backend-go/internal/config"
)

type capture struct {
	calls int
	fail  int
	msg   string
	to    []string
}

func (c *capture) send(addr string, _ smtp.Auth, _ string, to []string, msg []byte) error {
	c.calls++
	if c.calls <= c.fail {
		return errors.New("connection refused")
	}
	c.to = to
	c.msg = string(msg)
	return nil
}

func newTestService(t *testing.T, host string, c *capture) *emailServiceImpl {
	t.Helper()
	svc, err := NewEmailService(config.SMTPConfig{Host: host, Port: 587, From: "noreply@ems.local", FromName: "EMS"}, "EMS")
	require.NoError(t, err)
	impl := svc.(*emailServiceImpl)
	impl.send = c.send
	impl.backoff = 0
	return impl
}

func TestSendCredentials_RendersTemplate(t *testing.T) {
	c := &capture{}
	svc := newTestService(t, "smtp.local", c)

	require.NoError(t, svc.SendCredentials(context.Background(), "jane@ems.local", "Jane Doe", "jane.doe", "jane.doe_2026", "Abc123xyz!"))
	assert.Equal(t, []string{"jane@ems.local"}, c.to)
	assert.Contains(t, c.msg, "Subject: Your EMS account\r\n")
	assert.Contains(t, c.msg, "jane.doe")
	assert.Contains(t, c.msg, "jane.doe_2026")
	assert.Contains(t, c.msg, "Abc123xyz!")
}

func TestSendNotice_EscapesAndSanitizes(t *testing.T) {
	c := &capture{}
	svc := newTestService(t, "smtp.local", c)

	err := svc.SendNotice(context.Background(), "a@b.co", "A", "Hi\r\nBcc: x@y.z", "line one\n<script>")
	require.NoError(t, err)
	assert.NotContains(t, c.msg, "\r\nBcc:")
	assert.Contains(t, c.msg, "<p>line one</p>")
	assert.Contains(t, c.msg, "&lt;script&gt;")
}

func TestSendOTP_NotConfigured(t *testing.T) {
	c := &capture{}
	svc := newTestService(t, "", c)

	err := svc.SendOTP(context.Background(), "a@b.co", "A", "123456", 5)
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.Zero(t, c.calls)
}

func TestSendHTML_Retries(t *testing.T) {
	c := &capture{fail: 2}
	svc := newTestService(t, "smtp.local", c)
	require.NoError(t, svc.SendOTP(context.Background(), "a@b.co", "A", "123456", 5))
	assert.Equal(t, 3, c.calls)

	c = &capture{fail: 5}
	svc = newTestService(t, "smtp.local", c)
	err := svc.SendOTP(context.Background(), "a@b.co", "A", "123456", 5)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "after 3 attempts"))
	assert.Equal(t, maxRetries, c.calls)
}
