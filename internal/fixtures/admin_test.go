package fixtures

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/cmlabs-hris/ems-backend-go/internal/config"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/ems-backend-go/internal/service/fake"
)

func TestSeedAdmin(t *testing.T) {
	ctx := context.Background()
	users := fake.NewUserRepo()
	cfg := config.BootstrapConfig{
		AdminEmail:     " Root@Example.com ",
		AdminPassword:  "changeme123",
		AdminFirstName: "System",
		AdminLastName:  "Admin",
	}

	created, err := SeedAdmin(ctx, users, cfg, 2026)
	require.NoError(t, err)
	assert.True(t, created)

	admin, err := users.GetByEmail(ctx, "root@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.RoleAdmin, admin.Role)
	assert.True(t, admin.IsActive)
	assert.True(t, admin.MustChangePassword)
	assert.NotEmpty(t, admin.Username)
	require.NotNil(t, admin.EmployeeID)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte("changeme123")))

	again, err := SeedAdmin(ctx, users, cfg, 2026)
	require.NoError(t, err)
	assert.False(t, again)
	assert.Len(t, users.Users, 1)
}

func TestSeedAdmin_Disabled(t *testing.T) {
	users := fake.NewUserRepo()
	created, err := SeedAdmin(context.Background(), users, config.BootstrapConfig{}, 2026)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Empty(t, users.Users)
}
