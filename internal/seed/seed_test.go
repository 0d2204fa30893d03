package seed

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/projecttracker/internal/app/models"
	"github.com/yigit/projecttracker/internal/app/repositories/memory"
	"github.com/yigit/projecttracker/internal/app/services"
	"github.com/yigit/projecttracker/internal/config"
	"github.com/yigit/projecttracker/internal/pkg/auth"
)

func TestCreateDefaultData(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewRepositories()
	jwtService := auth.NewJWTService(auth.JWTConfig{SecretKey: "seed-secret"})
	authService := services.NewAuthService(repos.Users, jwtService, zerolog.Nop())

	cfg := &config.Config{}
	cfg.Admin.Name = "Administrator"
	cfg.Admin.Email = "Root@Uni.edu"
	cfg.Admin.Password = "rootpassword"

	require.NoError(t, CreateDefaultData(ctx, cfg, authService, zerolog.Nop()))
	// A second run finds the account and leaves it alone.
	require.NoError(t, CreateDefaultData(ctx, cfg, authService, zerolog.Nop()))

	admins, err := repos.Users.List(ctx, models.RoleAdmin)
	require.NoError(t, err)
	require.Len(t, admins, 1)
	assert.Equal(t, "root@uni.edu", admins[0].Email)
	assert.True(t, auth.CheckPassword(admins[0].Password, "rootpassword"))
}

func TestCreateDefaultData_NotConfigured(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewRepositories()
	authService := services.NewAuthService(repos.Users, auth.NewJWTService(auth.JWTConfig{SecretKey: "s"}), zerolog.Nop())

	require.NoError(t, CreateDefaultData(ctx, &config.Config{}, authService, zerolog.Nop()))

	n, err := repos.Users.CountByRole(ctx, models.RoleAdmin)
	require.NoError(t, err)
	assert.Zero(t, n)
}
