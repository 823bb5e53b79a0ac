package services

import (
	"context"
	"testing"
	"time"

	"github.com/empatecerca/api/internal/app/models"
	"github.com/empatecerca/api/internal/app/models/dto"
	"github.com/empatecerca/api/internal/pkg/apperrors"
	"github.com/empatecerca/api/internal/pkg/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testPassword = "Voluntad2024"

type authFixture struct {
	svc    *AuthService
	users  *fakeUsers
	tokens *fakeTokens
	jwt    *auth.JWTService
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	auth.BcryptCost = bcrypt.MinCost
	t.Cleanup(func() { auth.BcryptCost = 12 })

	hash, err := auth.HashPassword(testPassword)
	require.NoError(t, err)

	users := newFakeUsers(
		&models.User{ID: 200, Email: "luis@example.com", DNI: "40123456", Password: hash, RoleType: models.RoleVolunteer, IsActive: true},
		&models.User{ID: 300, Email: "old@example.com", DNI: "30999888", Password: hash, RoleType: models.RoleVolunteer, IsActive: false},
	)
	volunteers := newFakeVolunteers(&models.Volunteer{ID: 20, UserID: 200})
	tokens := newFakeTokens()
	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:       "test-secret",
		AccessTokenExp:  15 * time.Minute,
		RefreshTokenExp: 24 * time.Hour,
		TokenIssuer:     "empatecerca.test",
	})

	return &authFixture{
		svc:    NewAuthService(users, tokens, volunteers, nil, jwtService, nopLogger),
		users:  users,
		tokens: tokens,
		jwt:    jwtService,
	}
}

func TestLoginByEmailAndDNI(t *testing.T) {
	f := newAuthFixture(t)

	resp, err := f.svc.Login(context.Background(), &dto.LoginRequest{Identifier: " Luis@Example.com ", Password: testPassword})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", resp.Token.TokenType)
	assert.Equal(t, int64(900), resp.Token.ExpiresIn)
	assert.Contains(t, f.tokens.tokens, resp.Token.RefreshToken)
	assert.Equal(t, []int64{200}, f.users.lastLogins)

	claims, err := f.jwt.ValidateAndExtractClaims(resp.Token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, int64(200), claims.UserID)
	assert.Equal(t, string(models.RoleVolunteer), claims.RoleType)

	_, err = f.svc.Login(context.Background(), &dto.LoginRequest{Identifier: "40123456", Password: testPassword})
	assert.NoError(t, err)
}

func TestLoginFailures(t *testing.T) {
	f := newAuthFixture(t)

	tests := []struct {
		name    string
		req     dto.LoginRequest
		wantErr error
	}{
		{"unknown email", dto.LoginRequest{Identifier: "nadie@example.com", Password: testPassword}, apperrors.ErrInvalidCredentials},
		{"wrong password", dto.LoginRequest{Identifier: "luis@example.com", Password: "otraClave99"}, apperrors.ErrInvalidCredentials},
		{"blank identifier", dto.LoginRequest{Identifier: "  ", Password: testPassword}, apperrors.ErrInvalidCredentials},
		{"disabled account", dto.LoginRequest{Identifier: "old@example.com", Password: testPassword}, apperrors.ErrAccountDisabled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Login(context.Background(), &tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
	assert.Empty(t, f.tokens.tokens)
}

func TestRefreshTokenRotates(t *testing.T) {
	f := newAuthFixture(t)
	login, err := f.svc.Login(context.Background(), &dto.LoginRequest{Identifier: "luis@example.com", Password: testPassword})
	require.NoError(t, err)
	old := login.Token.RefreshToken

	pair, err := f.svc.RefreshToken(context.Background(), old)
	require.NoError(t, err)
	assert.NotEqual(t, old, pair.RefreshToken)
	assert.False(t, f.tokens.tokens[pair.RefreshToken].revoked)

	_, err = f.svc.RefreshToken(context.Background(), old)
	assert.ErrorIs(t, err, apperrors.ErrTokenRevoked)

	_, err = f.svc.RefreshToken(context.Background(), "")
	assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)
}

func TestRefreshTokenOfDisabledAccount(t *testing.T) {
	f := newAuthFixture(t)
	require.NoError(t, f.tokens.CreateToken(context.Background(), "stale", 300, time.Now().Add(time.Hour)))

	_, err := f.svc.RefreshToken(context.Background(), "stale")
	assert.ErrorIs(t, err, apperrors.ErrAccountDisabled)
	assert.True(t, f.tokens.tokens["stale"].revoked)
}

func TestLogout(t *testing.T) {
	f := newAuthFixture(t)
	require.NoError(t, f.tokens.CreateToken(context.Background(), "session", 200, time.Now().Add(time.Hour)))

	require.NoError(t, f.svc.Logout(context.Background(), "session"))
	assert.True(t, f.tokens.tokens["session"].revoked)
	assert.ErrorIs(t, f.svc.Logout(context.Background(), " "), apperrors.ErrTokenInvalid)
}

func TestMeIncludesVolunteerProfile(t *testing.T) {
	f := newAuthFixture(t)

	me, err := f.svc.Me(context.Background(), 200)
	require.NoError(t, err)
	require.NotNil(t, me.Volunteer)
	assert.Equal(t, int64(20), me.Volunteer.ID)
	assert.Nil(t, me.Tutor)
}

func TestChangePassword(t *testing.T) {
	f := newAuthFixture(t)
	require.NoError(t, f.tokens.CreateToken(context.Background(), "session", 200, time.Now().Add(time.Hour)))

	err := f.svc.ChangePassword(context.Background(), 200, &dto.ChangePasswordRequest{CurrentPassword: "wrong", NewPassword: "NuevaClave1"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	err = f.svc.ChangePassword(context.Background(), 200, &dto.ChangePasswordRequest{CurrentPassword: testPassword, NewPassword: "short"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidPassword)

	require.NoError(t, f.svc.ChangePassword(context.Background(), 200, &dto.ChangePasswordRequest{
		CurrentPassword: testPassword,
		NewPassword:     "NuevaClave1",
	}))
	assert.True(t, auth.CheckPassword(f.users.byID[200].Password, "NuevaClave1"))
	assert.True(t, f.tokens.tokens["session"].revoked)
}
