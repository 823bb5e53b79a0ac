package auth

import (
	"testing"
	"time"

	"github.com/empatecerca/api/internal/app/models"
	"github.com/empatecerca/api/internal/pkg/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService() *JWTService {
	return NewJWTService(JWTConfig{
		SecretKey:       "test-secret",
		AccessTokenExp:  15 * time.Minute,
		RefreshTokenExp: 24 * time.Hour,
		TokenIssuer:     "empatecerca.test",
	})
}

func TestGenerateAndValidateTokenPair(t *testing.T) {
	svc := newTestJWTService()
	user := &models.User{ID: 7, Email: "vol@empatecerca.org", RoleType: models.RoleVolunteer}

	pair, err := svc.GenerateTokenPair(user)
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.Equal(t, 900, pair.ExpiresIn)
	assert.Equal(t, 86400, pair.RefreshExpiresIn)

	claims, err := svc.ValidateAndExtractClaims(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
	assert.Equal(t, "VOLUNTEER", claims.RoleType)
	assert.Equal(t, "7", claims.Subject)
}

func TestValidateTokenErrors(t *testing.T) {
	svc := newTestJWTService()
	user := &models.User{ID: 1, Email: "admin@empatecerca.org", RoleType: models.RoleAdmin}

	pair, err := svc.GenerateTokenPair(user)
	require.NoError(t, err)

	t.Run("expired", func(t *testing.T) {
		late := newTestJWTService()
		late.now = func() time.Time { return time.Now().Add(time.Hour) }
		_, err := late.ValidateToken(pair.AccessToken)
		assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewJWTService(JWTConfig{SecretKey: "other", AccessTokenExp: time.Minute, TokenIssuer: "empatecerca.test"})
		_, err := other.ValidateToken(pair.AccessToken)
		assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := svc.ValidateToken("not-a-token")
		assert.ErrorIs(t, err, apperrors.ErrInvalidFormat)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := svc.ValidateAndExtractClaims("")
		assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)
	})
}

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{name: "bearer", header: "Bearer a.b.c", want: "a.b.c"},
		{name: "raw jwt", header: "a.b.c", want: "a.b.c"},
		{name: "empty", header: "", wantErr: true},
		{name: "bearer without token", header: "Bearer ", wantErr: true},
		{name: "garbage", header: "Basic dXNlcjpwYXNz", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractBearerToken(tt.header)
			if tt.wantErr {
				assert.ErrorIs(t, err, apperrors.ErrInvalidFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
