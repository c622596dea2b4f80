package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	appModels "github.com/yigit/academy/internal/app/models"
	"github.com/yigit/academy/internal/pkg/apperrors"
	"github.com/yigit/academy/internal/pkg/auth"
)

// AdminStore is the part of the user repository the seeder needs
type AdminStore interface {
	EmailExists(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, user *appModels.User) error
}

// AdminAccount describes the first administrator
type AdminAccount struct {
	Email    string
	Password string
	Name     string
}

// CreateDefaultData creates the first admin account when it is configured and missing
func CreateDefaultData(ctx context.Context, users AdminStore, admin AdminAccount, lgr zerolog.Logger) error {
	if admin.Email == "" || admin.Password == "" {
		lgr.Info().Msg("No seed admin configured, skipping default data")
		return nil
	}

	exists, err := users.EmailExists(ctx, admin.Email)
	if err != nil {
		return fmt.Errorf("failed to check seed admin: %w", err)
	}
	if exists {
		lgr.Debug().Str("email", admin.Email).Msg("Seed admin already exists")
		return nil
	}

	hashed, err := auth.HashPassword(admin.Password)
	if err != nil {
		return fmt.Errorf("failed to hash seed admin password: %w", err)
	}

	user := &appModels.User{
		Email:    admin.Email,
		Password: hashed,
		Name:     admin.Name,
		Role:     appModels.RoleAdmin,
	}
	if err := users.Create(ctx, user); err != nil {
		// another instance may have seeded concurrently
		if errors.Is(err, apperrors.ErrEmailAlreadyExists) {
			return nil
		}
		return fmt.Errorf("failed to create seed admin: %w", err)
	}

	lgr.Info().Str("email", user.Email).Int64("userID", user.ID).Msg("Seed admin created")
	return nil
}
