package email

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/smtp"
	"strings"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/config"
)

//go:embed templates/*.html
var templateFS embed.FS

const maxRetries = 3

// ErrNotConfigured is returned when SMTP_HOST is empty and nothing was sent.
var ErrNotConfigured = errors.New("smtp is not configured")

// EmailService defines the interface for sending emails
type EmailService interface {
	SendCredentials(ctx context.Context, to, name, username, employeeID, tempPassword string) error
	SendOTP(ctx context.Context, to, name, code string, ttlMinutes int) error
	SendNotice(ctx context.Context, to, name, subject, message string) error
}

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

type emailServiceImpl struct {
	cfg       config.SMTPConfig
	appName   string
	templates *template.Template
	send      sendFunc
	backoff   time.Duration
}

// NewEmailService creates a new email service instance
func NewEmailService(cfg config.SMTPConfig, appName string) (EmailService, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}

	return &emailServiceImpl{
		cfg:       cfg,
		appName:   appName,
		templates: tmpl,
		send:      smtp.SendMail,
		backoff:   time.Second,
	}, nil
}

type credentialsEmailData struct {
	AppName      string
	Name         string
	Username     string
	EmployeeID   string
	TempPassword string
}

// SendCredentials delivers a generated temporary password. The password only ever exists in this message.
func (s *emailServiceImpl) SendCredentials(ctx context.Context, to, name, username, employeeID, tempPassword string) error {
	data := credentialsEmailData{
		AppName:      s.appName,
		Name:         name,
		Username:     username,
		EmployeeID:   employeeID,
		TempPassword: tempPassword,
	}
	return s.render(ctx, to, fmt.Sprintf("Your %s account", s.appName), "credentials.html", data)
}

type otpEmailData struct {
	AppName    string
	Name       string
	Code       string
	TTLMinutes int
}

func (s *emailServiceImpl) SendOTP(ctx context.Context, to, name, code string, ttlMinutes int) error {
	data := otpEmailData{
		AppName:    s.appName,
		Name:       name,
		Code:       code,
		TTLMinutes: ttlMinutes,
	}
	return s.render(ctx, to, "Password change verification code", "otp.html", data)
}

type noticeEmailData struct {
	AppName    string
	Name       string
	Subject    string
	Paragraphs []string
}

// SendNotice wraps a free-text message in the generic notice template.
func (s *emailServiceImpl) SendNotice(ctx context.Context, to, name, subject, message string) error {
	data := noticeEmailData{
		AppName:    s.appName,
		Name:       name,
		Subject:    headerSanitizer.Replace(subject),
		Paragraphs: strings.Split(strings.ReplaceAll(message, "\r\n", "\n"), "\n"),
	}
	return s.render(ctx, to, subject, "notice.html", data)
}

func (s *emailServiceImpl) render(ctx context.Context, to, subject, name string, data any) error {
	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, name, data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}
	return s.sendHTML(ctx, to, subject, body.String())
}

var headerSanitizer = strings.NewReplacer("\r", "", "\n", " ")

func (s *emailServiceImpl) sendHTML(ctx context.Context, to, subject, htmlBody string) error {
	// Skip sending if SMTP is not configured
	if s.cfg.Host == "" {
		slog.Warn("SMTP not configured, skipping email send", "to", to, "subject", subject)
		return ErrNotConfigured
	}

	from := s.cfg.From
	subject = headerSanitizer.Replace(subject)

	headers := fmt.Sprintf("From: %s <%s>\r\n", s.cfg.FromName, from)
	headers += fmt.Sprintf("To: %s\r\n", headerSanitizer.Replace(to))
	headers += fmt.Sprintf("Subject: %s\r\n", subject)
	headers += "MIME-Version: 1.0\r\n"
	headers += "Content-Type: text/html; charset=\"UTF-8\"\r\n"
	headers += "\r\n"

	message := []byte(headers + htmlBody)

	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		err := s.send(addr, auth, from, []string{to}, message)
		if err == nil {
			slog.Info("Email sent successfully", "to", to, "subject", subject, "attempt", attempt)
			return nil
		}

		lastErr = err
		slog.Error("Failed to send email",
			"to", to,
			"subject", subject,
			"attempt", attempt,
			"max_retries", maxRetries,
			"error", err,
		)

		// Wait before retrying (exponential backoff: 1s, 2s)
		if attempt < maxRetries {
			select {
			case <-ctx.Done():
				return fmt.Errorf("email send cancelled: %w", ctx.Err())
			case <-time.After(s.backoff << (attempt - 1)):
			}
		}
	}

	return fmt.Errorf("failed to send email after %d attempts: %w", maxRetries, lastErr)
}
