package dto

import "github.com/empatecerca/api/internal/app/models"

// LoginRequest represents login credentials. Identifier is an email or a DNI.
type LoginRequest struct {
	Identifier string `json:"identifier" binding:"required" example:"ana@empatecerca.org"`
	Password   string `json:"password" binding:"required"`
}

// TokenResponse represents JWT token information
type TokenResponse struct {
	AccessToken           string `json:"accessToken"`
	TokenType             string `json:"tokenType" example:"Bearer"`
	ExpiresIn             int64  `json:"expiresIn"`
	RefreshToken          string `json:"refreshToken,omitempty"`
	RefreshTokenExpiresIn int64  `json:"refreshTokenExpiresIn,omitempty"`
}

// RefreshTokenRequest represents refresh token request; also used for logout
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// ChangePasswordRequest changes the caller's own password
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=8,max=72"`
}

// AuthResponse represents successful authentication response
type AuthResponse struct {
	Token TokenResponse `json:"token"`
	User  *models.User  `json:"user"`
}

// MeResponse is the caller's account with the role profile attached
type MeResponse struct {
	User      *models.User      `json:"user"`
	Volunteer *models.Volunteer `json:"volunteer,omitempty"`
	Tutor     *models.Tutor     `json:"tutor,omitempty"`
}
