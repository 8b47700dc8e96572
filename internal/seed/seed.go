// Package seed creates the default data required at startup
package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rescare/rescare/internal/app/models"
	"github.com/rescare/rescare/internal/app/repositories"
	"github.com/rescare/rescare/internal/config"
	"github.com/rescare/rescare/internal/pkg/auth"
)

// CreateDefaultAdmin seeds the admin account from config if it is absent.
// Admin accounts are never created through the public API.
func CreateDefaultAdmin(ctx context.Context, dbPool *pgxpool.Pool, cfg *config.Config, lgr zerolog.Logger) error {
	adminRepo := repositories.NewAdminRepository(dbPool)

	exists, err := adminRepo.EmailExists(ctx, cfg.Admin.Email)
	if err != nil {
		return fmt.Errorf("failed to check admin account: %w", err)
	}

	if exists {
		lgr.Info().Str("email", cfg.Admin.Email).Msg("Admin account already exists")
		return nil
	}

	passwordHash, err := auth.HashPassword(cfg.Admin.Password)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := &models.Admin{
		Email:        cfg.Admin.Email,
		PasswordHash: passwordHash,
	}

	if _, err := adminRepo.Create(ctx, admin); err != nil {
		return fmt.Errorf("failed to create admin account: %w", err)
	}

	lgr.Info().Str("email", cfg.Admin.Email).Msg("Default admin account created")
	return nil
}
