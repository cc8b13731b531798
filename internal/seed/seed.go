// Package seed creates the initial records a fresh installation needs.
package seed

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/dmorales/aulago/internal/app/models"
	"github.com/dmorales/aulago/internal/app/repositories"
	"github.com/dmorales/aulago/internal/pkg/apperrors"
	"github.com/dmorales/aulago/internal/pkg/auth"
	"github.com/dmorales/aulago/internal/pkg/logger"
)

const (
	defaultAdminEmail    = "admin@aulago.app"
	defaultAdminPassword = "Admin123!"
)

// CreateDefaultData seeds the default admin account. Individual failures are
// collected so one bad seed does not block the rest of startup.
func CreateDefaultData(ctx context.Context, repos *repositories.Repositories) error {
	var errs []error

	if err := createDefaultAdmin(ctx, repos.UserRepository); err != nil {
		errs = append(errs, fmt.Errorf("seed admin: %w", err))
	}

	return errors.Join(errs...)
}

func createDefaultAdmin(ctx context.Context, users *repositories.UserRepository) error {
	email := os.Getenv("ADMIN_EMAIL")
	if email == "" {
		email = defaultAdminEmail
	}

	exists, err := users.EmailExists(ctx, email)
	if err != nil {
		return err
	}
	if exists {
		logger.Debug().Str("email", email).Msg("Admin account already present, skipping seed")
		return nil
	}

	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = defaultAdminPassword
		logger.Warn().Str("email", email).Msg("Seeding admin with the default password, change it before going live")
	}

	hashed, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	admin := &models.User{
		Email:     email,
		Password:  hashed,
		FirstName: "Aulago",
		LastName:  "Admin",
		Role:      models.RoleAdmin,
	}

	if err := users.Create(ctx, admin); err != nil {
		// A concurrent boot may have won the race; that is fine
		if errors.Is(err, apperrors.ErrEmailAlreadyExists) {
			return nil
		}
		return err
	}

	logger.Info().Str("email", email).Int64("userId", admin.ID).Msg("Default admin account created")
	return nil
}
