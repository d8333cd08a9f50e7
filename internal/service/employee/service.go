package employee

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/audit"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/credential"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/utils"
	auditservice "github.com/cmlabs-hris/ems-backend-go/internal/service/audit"
)

const (
	loginHistoryLimit = 50
	auditLogLimit     = 100
)

type EmployeeServiceImpl struct {
	db database.Transactor
	user.UserRepository
	auditLogs     audit.LogRepository
	loginAttempts audit.LoginAttemptRepository
	notifier      notification.Notifier
	audit         audit.Recorder
	now           func() time.Time
}

func NewEmployeeService(
	db database.Transactor,
	userRepository user.UserRepository,
	auditLogs audit.LogRepository,
	loginAttempts audit.LoginAttemptRepository,
	notifier notification.Notifier,
	recorder audit.Recorder,
) employee.EmployeeService {
	return &EmployeeServiceImpl{
		db:             db,
		UserRepository: userRepository,
		auditLogs:      auditLogs,
		loginAttempts:  loginAttempts,
		notifier:       notifier,
		audit:          recorder,
		now:            time.Now,
	}
}

// issueTempPassword returns a fresh temporary password and its bcrypt hash.
// The plain value only ever leaves through the credentials e-mail.
func issueTempPassword() (string, string, error) {
	temp, err := credential.TempPassword()
	if err != nil {
		return "", "", fmt.Errorf("failed to generate temporary password: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(temp), bcrypt.DefaultCost)
	if err != nil {
		return "", "", fmt.Errorf("failed to hash password: %w", err)
	}
	return temp, string(hash), nil
}

// Create implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Create(ctx context.Context, actor user.Actor, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	taken, err := s.UserRepository.ExistsByEmail(ctx, email)
	if err != nil {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to check email: %w", err)
	}
	if taken {
		return employee.EmployeeResponse{}, user.ErrUserEmailExists
	}

	username, err := credential.Username(ctx, req.FirstName, req.LastName, s.UserRepository.ExistsByUsername)
	if err != nil {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to generate username: %w", err)
	}
	employeeID, err := credential.EmployeeID(ctx, req.FirstName, req.LastName, s.now().Year(), s.UserRepository.ExistsByEmployeeID)
	if err != nil {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to generate employee id: %w", err)
	}

	tempPassword, passwordHash, err := issueTempPassword()
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	created, err := s.UserRepository.Create(ctx, user.User{
		Username:           username,
		Email:              email,
		PasswordHash:       passwordHash,
		FirstName:          strings.TrimSpace(req.FirstName),
		LastName:           strings.TrimSpace(req.LastName),
		Role:               user.Role(req.Role),
		EmployeeID:         &employeeID,
		Phone:              req.Phone,
		Department:         req.Department,
		Salary:             req.ParsedSalary(),
		DateOfJoining:      req.ParsedDateOfJoining(),
		IsActive:           true,
		MustChangePassword: true,
	})
	if err != nil {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to create employee: %w", err)
	}

	s.notifier.NotifyCredentials(ctx, created, tempPassword, &actor.ID)
	s.audit.Record(ctx, actor, audit.ActionEmployeeCreated,
		fmt.Sprintf("Created %s account %s (%s)", created.Role, created.Username, employeeID))

	return employee.ToResponse(created), nil
}

// Get implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Get(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	u, err := s.UserRepository.GetByID(ctx, id)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return employee.ToResponse(u), nil
}

// List implements employee.EmployeeService.
func (s *EmployeeServiceImpl) List(ctx context.Context, filter employee.EmployeeFilter) (employee.ListEmployeeResponse, error) {
	if err := filter.Validate(); err != nil {
		return employee.ListEmployeeResponse{}, err
	}

	users, total, err := s.UserRepository.List(ctx, filter.ToUserFilter())
	if err != nil {
		return employee.ListEmployeeResponse{}, fmt.Errorf("failed to list employees: %w", err)
	}

	resp := employee.ListEmployeeResponse{
		Employees:  make([]employee.EmployeeResponse, 0, len(users)),
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: utils.TotalPages(total, filter.Limit),
	}
	for _, u := range users {
		resp.Employees = append(resp.Employees, employee.ToResponse(u))
	}
	return resp, nil
}

// Update implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Update(ctx context.Context, actor user.Actor, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	current, err := s.UserRepository.GetByID(ctx, req.ID)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	if current.ID == actor.ID {
		if (req.Role != nil && user.Role(*req.Role) != current.Role) || (req.IsActive != nil && !*req.IsActive) {
			return employee.EmployeeResponse{}, user.ErrCannotModifySelf
		}
	}

	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		req.Email = &email
		if email != strings.ToLower(current.Email) {
			taken, err := s.UserRepository.ExistsByEmail(ctx, email)
			if err != nil {
				return employee.EmployeeResponse{}, fmt.Errorf("failed to check email: %w", err)
			}
			if taken {
				return employee.EmployeeResponse{}, user.ErrUserEmailExists
			}
		}
	}

	if err := s.UserRepository.Update(ctx, req.ToUserUpdate()); err != nil {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to update employee: %w", err)
	}

	s.audit.Record(ctx, actor, audit.ActionEmployeeUpdated, fmt.Sprintf("Updated account %s", current.Username))
	return s.Get(ctx, req.ID)
}

// ToggleActive implements employee.EmployeeService.
func (s *EmployeeServiceImpl) ToggleActive(ctx context.Context, actor user.Actor, id string) (employee.EmployeeResponse, error) {
	if id == actor.ID {
		return employee.EmployeeResponse{}, user.ErrCannotModifySelf
	}

	u, err := s.UserRepository.GetByID(ctx, id)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	if err := s.UserRepository.SetActive(ctx, id, !u.IsActive); err != nil {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to toggle account: %w", err)
	}

	action := audit.ActionEmployeeActivated
	if u.IsActive {
		action = audit.ActionEmployeeDeactivate
	}
	s.audit.Record(ctx, actor, action, fmt.Sprintf("Account %s", u.Username))

	return s.Get(ctx, id)
}

// Unlock implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Unlock(ctx context.Context, actor user.Actor, id string) (employee.EmployeeResponse, error) {
	u, err := s.UserRepository.GetByID(ctx, id)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	if err := s.UserRepository.Unlock(ctx, id); err != nil {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to unlock account: %w", err)
	}

	s.audit.Record(ctx, actor, audit.ActionEmployeeUnlocked, fmt.Sprintf("Unlocked account %s", u.Username))
	return s.Get(ctx, id)
}

// ResetPassword implements employee.EmployeeService.
func (s *EmployeeServiceImpl) ResetPassword(ctx context.Context, actor user.Actor, id string) error {
	u, err := s.UserRepository.GetByID(ctx, id)
	if err != nil {
		return err
	}

	tempPassword, passwordHash, err := issueTempPassword()
	if err != nil {
		return err
	}
	if err := s.UserRepository.UpdatePassword(ctx, id, passwordHash, true); err != nil {
		return fmt.Errorf("failed to reset password: %w", err)
	}

	s.notifier.NotifyCredentials(ctx, u, tempPassword, &actor.ID)
	s.audit.Record(ctx, actor, audit.ActionPasswordReset, fmt.Sprintf("Reset password for %s", u.Username))
	return nil
}

// Delete implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Delete(ctx context.Context, actor user.Actor, id string) error {
	if id == actor.ID {
		return user.ErrCannotModifySelf
	}

	u, err := s.UserRepository.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if u.IsAdmin() {
		return user.ErrAdminUndeletable
	}

	if err := s.UserRepository.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete employee: %w", err)
	}

	s.audit.Record(ctx, actor, audit.ActionEmployeeDeleted, fmt.Sprintf("Deleted account %s", u.Username))
	return nil
}

// BulkAction implements employee.EmployeeService. The actor's own account and
// Admin targets of delete/deactivate are skipped rather than failing the batch.
func (s *EmployeeServiceImpl) BulkAction(ctx context.Context, actor user.Actor, req employee.BulkActionRequest) (employee.BulkActionResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.BulkActionResponse{}, err
	}
	action := employee.BulkAction(req.Action)

	var applied, skipped int
	seen := make(map[string]struct{}, len(req.UserIDs))
	err := s.db.WithinTransaction(ctx, func(ctx context.Context) error {
		for _, id := range req.UserIDs {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}

			if id == actor.ID {
				skipped++
				continue
			}
			u, err := s.UserRepository.GetByID(ctx, id)
			if errors.Is(err, user.ErrUserNotFound) {
				skipped++
				continue
			}
			if err != nil {
				return err
			}
			if u.IsAdmin() && (action == employee.BulkDelete || action == employee.BulkDeactivate) {
				skipped++
				continue
			}

			switch action {
			case employee.BulkActivate:
				err = s.UserRepository.SetActive(ctx, id, true)
			case employee.BulkDeactivate:
				err = s.UserRepository.SetActive(ctx, id, false)
			case employee.BulkDelete:
				err = s.UserRepository.Delete(ctx, id)
			case employee.BulkUnlock:
				err = s.UserRepository.Unlock(ctx, id)
			}
			if err != nil {
				return fmt.Errorf("failed to %s %s: %w", action, u.Username, err)
			}
			applied++
		}
		return nil
	})
	if err != nil {
		return employee.BulkActionResponse{}, err
	}

	s.audit.Record(ctx, actor, audit.ActionBulkAction,
		fmt.Sprintf("%s applied to %d employees, %d skipped", action, applied, skipped))

	return employee.BulkActionResponse{
		Success: true,
		Message: fmt.Sprintf("%s applied to %d employees", action, applied),
		Count:   applied,
		Skipped: skipped,
	}, nil
}

// LoginHistory implements employee.EmployeeService.
func (s *EmployeeServiceImpl) LoginHistory(ctx context.Context) ([]audit.LoginAttemptResponse, error) {
	attempts, err := s.loginAttempts.ListRecent(ctx, loginHistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list login attempts: %w", err)
	}
	return auditservice.ToLoginAttemptResponses(attempts), nil
}

// AuditLogs implements employee.EmployeeService.
func (s *EmployeeServiceImpl) AuditLogs(ctx context.Context) ([]audit.LogResponse, error) {
	logs, err := s.auditLogs.ListRecent(ctx, auditLogLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit logs: %w", err)
	}
	return auditservice.ToLogResponses(logs), nil
}
