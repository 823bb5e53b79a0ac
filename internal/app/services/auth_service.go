package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/empatecerca/api/internal/app/models"
	"github.com/empatecerca/api/internal/app/models/dto"
	"github.com/empatecerca/api/internal/pkg/apperrors"
	"github.com/empatecerca/api/internal/pkg/auth"
	"github.com/rs/zerolog"
)

// AuthService handles authentication operations
type AuthService struct {
	userRepo      userStore
	tokenRepo     tokenStore
	volunteerRepo volunteerStore
	tutorRepo     tutorStore
	jwtService    *auth.JWTService
	logger        zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo userStore,
	tokenRepo tokenStore,
	volunteerRepo volunteerStore,
	tutorRepo tutorStore,
	jwtService *auth.JWTService,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		userRepo:      userRepo,
		tokenRepo:     tokenRepo,
		volunteerRepo: volunteerRepo,
		tutorRepo:     tutorRepo,
		jwtService:    jwtService,
		logger:        logger,
	}
}

// Login authenticates an account by email or DNI
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	identifier := strings.TrimSpace(req.Identifier)
	if identifier == "" || req.Password == "" {
		return nil, apperrors.ErrInvalidCredentials
	}

	var user *models.User
	var err error
	if strings.Contains(identifier, "@") {
		user, err = s.userRepo.GetByEmail(ctx, normalizeEmail(identifier))
	} else {
		user, err = s.userRepo.GetByDNI(ctx, normalizeDNI(identifier))
	}
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}

	if !auth.CheckPassword(user.Password, req.Password) {
		s.logger.Info().Int64("userID", user.ID).Msg("Login rejected: wrong password")
		return nil, apperrors.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, apperrors.ErrAccountDisabled
	}

	token, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.UpdateLastLogin(ctx, user.ID); err != nil {
		s.logger.Warn().Err(err).Int64("userID", user.ID).Msg("Failed to record last login")
	}

	s.logger.Info().Int64("userID", user.ID).Str("role", string(user.RoleType)).Msg("User logged in")
	return &dto.AuthResponse{Token: *token, User: user}, nil
}

// RefreshToken rotates a refresh token: the old one is revoked and a new pair issued
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return nil, apperrors.ErrTokenInvalid
	}

	userID, _, _, err := s.tokenRepo.GetTokenByValue(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load token owner: %w", err)
	}
	if !user.IsActive {
		if err := s.tokenRepo.RevokeAllUserTokens(ctx, user.ID); err != nil {
			s.logger.Warn().Err(err).Int64("userID", user.ID).Msg("Failed to revoke tokens of disabled account")
		}
		return nil, apperrors.ErrAccountDisabled
	}

	pair, err := s.jwtService.GenerateTokenPair(user)
	if err != nil {
		return nil, fmt.Errorf("token generation error: %w", err)
	}
	if err := s.tokenRepo.RotateToken(ctx, refreshToken, pair.RefreshToken, user.ID, pair.RefreshExpiry); err != nil {
		return nil, err
	}

	return tokenResponse(pair), nil
}

// Logout revokes a refresh token
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if strings.TrimSpace(refreshToken) == "" {
		return apperrors.ErrTokenInvalid
	}
	return s.tokenRepo.RevokeToken(ctx, refreshToken)
}

// Me returns the account of userID with its volunteer or tutor profile
func (s *AuthService) Me(ctx context.Context, userID int64) (*dto.MeResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := &dto.MeResponse{User: user}
	switch user.RoleType {
	case models.RoleVolunteer:
		v, err := s.volunteerRepo.GetByUserID(ctx, userID)
		if err != nil && !errors.Is(err, apperrors.ErrVolunteerNotFound) {
			return nil, err
		}
		resp.Volunteer = v
	case models.RoleTutor:
		t, err := s.tutorRepo.GetByUserID(ctx, userID)
		if err != nil && !errors.Is(err, apperrors.ErrTutorNotFound) {
			return nil, err
		}
		resp.Tutor = t
	}
	return resp, nil
}

// ChangePassword replaces the caller's password and signs out every session
func (s *AuthService) ChangePassword(ctx context.Context, userID int64, req *dto.ChangePasswordRequest) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if !auth.CheckPassword(user.Password, req.CurrentPassword) {
		return apperrors.NewCustomError(apperrors.ErrInvalidCredentials, "current password is incorrect")
	}
	if err := auth.ValidatePassword(req.NewPassword); err != nil {
		return err
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}
	if err := s.userRepo.UpdatePassword(ctx, userID, hash); err != nil {
		return err
	}
	if err := s.tokenRepo.RevokeAllUserTokens(ctx, userID); err != nil {
		s.logger.Warn().Err(err).Int64("userID", userID).Msg("Failed to revoke sessions after password change")
	}

	s.logger.Info().Int64("userID", userID).Msg("Password changed")
	return nil
}

// issueTokens creates an access/refresh pair and stores the refresh token
func (s *AuthService) issueTokens(ctx context.Context, user *models.User) (*dto.TokenResponse, error) {
	pair, err := s.jwtService.GenerateTokenPair(user)
	if err != nil {
		return nil, fmt.Errorf("token generation error: %w", err)
	}
	if err := s.tokenRepo.CreateToken(ctx, pair.RefreshToken, user.ID, pair.RefreshExpiry); err != nil {
		return nil, fmt.Errorf("token saving error: %w", err)
	}
	return tokenResponse(pair), nil
}

func tokenResponse(pair *auth.TokenPair) *dto.TokenResponse {
	return &dto.TokenResponse{
		AccessToken:           pair.AccessToken,
		TokenType:             "Bearer",
		ExpiresIn:             int64(pair.ExpiresIn),
		RefreshToken:          pair.RefreshToken,
		RefreshTokenExpiresIn: int64(pair.RefreshExpiresIn),
	}
}
