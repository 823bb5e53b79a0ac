package auth

import (
	"testing"

	"github.com/empatecerca/api/internal/pkg/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndCheckPassword(t *testing.T) {
	BcryptCost = bcrypt.MinCost
	defer func() { BcryptCost = 12 }()

	hash, err := HashPassword("secreto123")
	require.NoError(t, err)
	assert.True(t, CheckPassword(hash, "secreto123"))
	assert.False(t, CheckPassword(hash, "secreto124"))
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{name: "valid", password: "voluntario1"},
		{name: "too short", password: "ab1", wantErr: true},
		{name: "no digit", password: "soloLetras", wantErr: true},
		{name: "no letter", password: "1234567890", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if tt.wantErr {
				assert.ErrorIs(t, err, apperrors.ErrInvalidPassword)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
