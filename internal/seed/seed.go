package seed

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/yigit/projecttracker/internal/app/services"
	"github.com/yigit/projecttracker/internal/config"
)

// CreateDefaultData creates the configured admin account if it doesn't exist.
// Nothing is seeded when no admin email is configured.
func CreateDefaultData(ctx context.Context, cfg *config.Config, authService *services.AuthService, lgr zerolog.Logger) error {
	if cfg.Admin.Email == "" {
		lgr.Info().Msg("No default admin configured, skipping seed")
		return nil
	}

	created, err := authService.EnsureAdmin(ctx, cfg.Admin.Name, cfg.Admin.Email, cfg.Admin.Password)
	if err != nil {
		return err
	}

	if created {
		lgr.Info().Str("email", cfg.Admin.Email).Msg("Default admin account created")
	} else {
		lgr.Debug().Str("email", cfg.Admin.Email).Msg("Default admin account already exists")
	}
	return nil
}
