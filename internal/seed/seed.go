package seed

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/empatecerca/api/internal/app/models"
	"github.com/empatecerca/api/internal/config"
	"github.com/empatecerca/api/internal/pkg/apperrors"
	"github.com/empatecerca/api/internal/pkg/auth"
	"github.com/rs/zerolog"
)

// DisciplineSeeder creates a discipline unless one with the name exists
type DisciplineSeeder interface {
	EnsureByName(ctx context.Context, name string, description *string) error
}

// AccountSeeder looks up and creates accounts
type AccountSeeder interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
}

type defaultDiscipline struct {
	name        string
	description string
}

var defaultDisciplines = []defaultDiscipline{
	{"Apoyo escolar", "Acompañamiento en tareas escolares"},
	{"Ajedrez", "Taller de ajedrez"},
	{"Fútbol", "Escuela de fútbol"},
	{"Música", "Iniciación musical"},
	{"Arte", "Dibujo y pintura"},
}

// CreateDefaultData creates the default disciplines and the first admin account.
// Failures are collected so one bad row does not stop the rest.
func CreateDefaultData(ctx context.Context, cfg *config.Config, disciplines DisciplineSeeder, accounts AccountSeeder, lgr zerolog.Logger) error {
	if !cfg.Seed.Enabled {
		lgr.Info().Msg("Seeding disabled")
		return nil
	}

	lgr.Info().Msg("Checking/Creating default data (disciplines, admin account)...")
	var finalErr error

	for _, d := range defaultDisciplines {
		description := d.description
		if err := disciplines.EnsureByName(ctx, d.name, &description); err != nil {
			lgr.Error().Err(err).Str("discipline", d.name).Msg("Error creating default discipline")
			finalErr = errors.Join(finalErr, err)
		}
	}

	if err := ensureAdmin(ctx, cfg, accounts, lgr); err != nil {
		finalErr = errors.Join(finalErr, err)
	}

	return finalErr
}

func ensureAdmin(ctx context.Context, cfg *config.Config, accounts AccountSeeder, lgr zerolog.Logger) error {
	email := strings.ToLower(strings.TrimSpace(cfg.Seed.AdminEmail))
	if email == "" || cfg.Seed.AdminPassword == "" {
		lgr.Warn().Msg("Seed admin email or password not configured, skipping admin account")
		return nil
	}

	_, err := accounts.GetByEmail(ctx, email)
	if err == nil {
		lgr.Debug().Str("email", email).Msg("Admin account already exists")
		return nil
	}
	if !errors.Is(err, apperrors.ErrUserNotFound) {
		return fmt.Errorf("failed to look up admin account: %w", err)
	}

	if err := auth.ValidatePassword(cfg.Seed.AdminPassword); err != nil {
		return fmt.Errorf("admin password rejected: %w", err)
	}
	hash, err := auth.HashPassword(cfg.Seed.AdminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := &models.User{
		Email:     email,
		DNI:       strings.ToUpper(strings.TrimSpace(cfg.Seed.AdminDNI)),
		Password:  hash,
		FirstName: "Admin",
		LastName:  "EmpateCerca",
		RoleType:  models.RoleAdmin,
		IsActive:  true,
	}
	if err := accounts.Create(ctx, admin); err != nil {
		lgr.Error().Err(err).Str("email", email).Msg("Error creating admin account")
		return fmt.Errorf("failed to create admin account: %w", err)
	}

	lgr.Info().Int64("userID", admin.ID).Str("email", email).Msg("Default admin account created")
	return nil
}
