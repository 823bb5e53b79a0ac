package seed

import (
	"context"
	"errors"
	"testing"

	"github.com/empatecerca/api/internal/app/models"
	"github.com/empatecerca/api/internal/config"
	"github.com/empatecerca/api/internal/pkg/apperrors"
	"github.com/empatecerca/api/internal/pkg/auth"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDisciplines struct {
	names []string
	fail  string
}

func (f *fakeDisciplines) EnsureByName(_ context.Context, name string, _ *string) error {
	if name == f.fail {
		return errors.New("boom")
	}
	f.names = append(f.names, name)
	return nil
}

type fakeAccounts struct {
	existing map[string]*models.User
	created  []*models.User
}

func (f *fakeAccounts) GetByEmail(_ context.Context, email string) (*models.User, error) {
	if u, ok := f.existing[email]; ok {
		return u, nil
	}
	return nil, apperrors.ErrUserNotFound
}

func (f *fakeAccounts) Create(_ context.Context, user *models.User) error {
	user.ID = int64(len(f.created) + 1)
	f.created = append(f.created, user)
	return nil
}

func seedConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Seed.Enabled = true
	cfg.Seed.AdminEmail = " Admin@EmpateCerca.org "
	cfg.Seed.AdminDNI = "00000001"
	cfg.Seed.AdminPassword = "Secret123"
	return cfg
}

func TestCreateDefaultData_CreatesDisciplinesAndAdmin(t *testing.T) {
	disciplines := &fakeDisciplines{}
	accounts := &fakeAccounts{existing: map[string]*models.User{}}

	err := CreateDefaultData(context.Background(), seedConfig(), disciplines, accounts, zerolog.Nop())
	require.NoError(t, err)

	assert.Len(t, disciplines.names, len(defaultDisciplines))
	require.Len(t, accounts.created, 1)
	admin := accounts.created[0]
	assert.Equal(t, "admin@empatecerca.org", admin.Email)
	assert.Equal(t, models.RoleAdmin, admin.RoleType)
	assert.True(t, admin.IsActive)
	assert.True(t, auth.CheckPassword(admin.Password, "Secret123"))
}

func TestCreateDefaultData_AdminAlreadyExists(t *testing.T) {
	accounts := &fakeAccounts{existing: map[string]*models.User{
		"admin@empatecerca.org": {ID: 1, Email: "admin@empatecerca.org"},
	}}

	err := CreateDefaultData(context.Background(), seedConfig(), &fakeDisciplines{}, accounts, zerolog.Nop())
	require.NoError(t, err)
	assert.Empty(t, accounts.created)
}

func TestCreateDefaultData_CollectsErrors(t *testing.T) {
	disciplines := &fakeDisciplines{fail: "Ajedrez"}
	accounts := &fakeAccounts{existing: map[string]*models.User{}}

	err := CreateDefaultData(context.Background(), seedConfig(), disciplines, accounts, zerolog.Nop())
	require.Error(t, err)
	assert.Len(t, disciplines.names, len(defaultDisciplines)-1)
	assert.Len(t, accounts.created, 1, "admin is still created after a discipline failure")
}

func TestCreateDefaultData_Disabled(t *testing.T) {
	cfg := seedConfig()
	cfg.Seed.Enabled = false
	disciplines := &fakeDisciplines{}

	require.NoError(t, CreateDefaultData(context.Background(), cfg, disciplines, &fakeAccounts{}, zerolog.Nop()))
	assert.Empty(t, disciplines.names)
}

func TestCreateDefaultData_NoAdminPassword(t *testing.T) {
	cfg := seedConfig()
	cfg.Seed.AdminPassword = ""
	accounts := &fakeAccounts{existing: map[string]*models.User{}}

	require.NoError(t, CreateDefaultData(context.Background(), cfg, &fakeDisciplines{}, accounts, zerolog.Nop()))
	assert.Empty(t, accounts.created)
}

func TestCreateDefaultData_WeakAdminPassword(t *testing.T) {
	cfg := seedConfig()
	cfg.Seed.AdminPassword = "onlyletters"
	accounts := &fakeAccounts{existing: map[string]*models.User{}}

	err := CreateDefaultData(context.Background(), cfg, &fakeDisciplines{}, accounts, zerolog.Nop())
	assert.ErrorIs(t, err, apperrors.ErrInvalidPassword)
	assert.Empty(t, accounts.created)
}
