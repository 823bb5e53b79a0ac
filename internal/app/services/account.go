package services

import (
	"fmt"
	"strings"

	"github.com/empatecerca/api/internal/app/models"
	"github.com/empatecerca/api/internal/app/models/dto"
	"github.com/empatecerca/api/internal/pkg/apperrors"
	"github.com/empatecerca/api/internal/pkg/auth"
	"github.com/empatecerca/api/internal/pkg/helpers"
	"github.com/empatecerca/api/internal/pkg/validation"
)

// newAccount builds the user row behind a volunteer or tutor, hashing the password
func newAccount(req *dto.CreateAccountRequest, role models.RoleType) (*models.User, error) {
	dni := normalizeDNI(req.DNI)
	if !validation.IsValidDNI(dni) {
		return nil, apperrors.NewBadRequestError("dni must be 7 to 10 letters or digits")
	}
	if err := auth.ValidatePassword(req.Password); err != nil {
		return nil, err
	}
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	return &models.User{
		Email:     normalizeEmail(req.Email),
		DNI:       dni,
		Password:  hash,
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Phone:     helpers.NullIfEmpty(req.Phone),
		RoleType:  role,
		IsActive:  true,
	}, nil
}

// applyAccountUpdate copies the editable account fields onto an existing user
func applyAccountUpdate(user *models.User, req *dto.UpdateAccountRequest) error {
	dni := normalizeDNI(req.DNI)
	if !validation.IsValidDNI(dni) {
		return apperrors.NewBadRequestError("dni must be 7 to 10 letters or digits")
	}

	user.Email = normalizeEmail(req.Email)
	user.DNI = dni
	user.FirstName = strings.TrimSpace(req.FirstName)
	user.LastName = strings.TrimSpace(req.LastName)
	user.Phone = helpers.NullIfEmpty(req.Phone)
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	return nil
}
