package fixtures

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/cmlabs-hris/ems-backend-go/internal/config"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/credential"
)

// SeedAdmin creates the first Admin account from cfg. It does nothing when
// AdminEmail is empty or already registered, so it is safe on every start.
// The seeded account must change its password on first login.
func SeedAdmin(ctx context.Context, users user.UserRepository, cfg config.BootstrapConfig, year int) (created bool, err error) {
	email := strings.ToLower(strings.TrimSpace(cfg.AdminEmail))
	if email == "" {
		return false, nil
	}

	exists, err := users.ExistsByEmail(ctx, email)
	if err != nil {
		return false, fmt.Errorf("failed to check bootstrap admin: %w", err)
	}
	if exists {
		return false, nil
	}

	username, err := credential.Username(ctx, cfg.AdminFirstName, cfg.AdminLastName, users.ExistsByUsername)
	if err != nil {
		return false, fmt.Errorf("failed to generate admin username: %w", err)
	}
	employeeID, err := credential.EmployeeID(ctx, cfg.AdminFirstName, cfg.AdminLastName, year, users.ExistsByEmployeeID)
	if err != nil {
		return false, fmt.Errorf("failed to generate admin employee id: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return false, fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin, err := users.Create(ctx, user.User{
		Username:           username,
		Email:              email,
		PasswordHash:       string(hash),
		FirstName:          cfg.AdminFirstName,
		LastName:           cfg.AdminLastName,
		Role:               user.RoleAdmin,
		EmployeeID:         &employeeID,
		IsActive:           true,
		MustChangePassword: true,
	})
	if err != nil {
		return false, fmt.Errorf("failed to create bootstrap admin: %w", err)
	}

	slog.Info("bootstrap admin created", "user_id", admin.ID, "username", admin.Username)
	return true, nil
}
