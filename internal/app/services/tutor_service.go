package services

import (
	"context"
	"strings"

	authz "github.com/empatecerca/api/internal/app/auth"
	"github.com/empatecerca/api/internal/app/models"
	"github.com/empatecerca/api/internal/app/models/dto"
	"github.com/empatecerca/api/internal/pkg/apperrors"
	"github.com/empatecerca/api/internal/pkg/helpers"
	"github.com/rs/zerolog"
)

// TutorService defines the interface for tutor operations
type TutorService interface {
	Create(ctx context.Context, req *dto.CreateTutorRequest) (*models.Tutor, error)
	GetByID(ctx context.Context, id int64) (*models.Tutor, error)
	GetMe(ctx context.Context, actor *authz.Actor) (*models.Tutor, error)
	List(ctx context.Context, search string, page, size int) (*dto.PaginatedResponse, error)
	Update(ctx context.Context, id int64, req *dto.UpdateTutorRequest) (*models.Tutor, error)
	Delete(ctx context.Context, id int64) error
}

type tutorServiceImpl struct {
	tutorRepo tutorStore
	logger    zerolog.Logger
}

// NewTutorService creates a new TutorService
func NewTutorService(tutorRepo tutorStore, logger zerolog.Logger) TutorService {
	return &tutorServiceImpl{
		tutorRepo: tutorRepo,
		logger:    logger,
	}
}

// Create registers the account and profile of a new tutor
func (s *tutorServiceImpl) Create(ctx context.Context, req *dto.CreateTutorRequest) (*models.Tutor, error) {
	user, err := newAccount(&req.CreateAccountRequest, models.RoleTutor)
	if err != nil {
		return nil, err
	}

	t := &models.Tutor{
		Address:      helpers.NullIfEmpty(req.Address),
		Relationship: helpers.NullIfEmpty(req.Relationship),
	}
	if err := s.tutorRepo.Create(ctx, user, t); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("tutorID", t.ID).Int64("userID", user.ID).Msg("Tutor created")
	return s.tutorRepo.GetByID(ctx, t.ID)
}

// GetByID returns a tutor with account and student count
func (s *tutorServiceImpl) GetByID(ctx context.Context, id int64) (*models.Tutor, error) {
	return s.tutorRepo.GetByID(ctx, id)
}

// GetMe returns the tutor profile of the caller
func (s *tutorServiceImpl) GetMe(ctx context.Context, actor *authz.Actor) (*models.Tutor, error) {
	if !actor.IsTutor() {
		return nil, apperrors.NewForbiddenError("only tutors have a tutor profile")
	}
	return s.tutorRepo.GetByID(ctx, *actor.TutorID)
}

// List returns one page of tutors, optionally filtered by name, email or DNI
func (s *tutorServiceImpl) List(ctx context.Context, search string, page, size int) (*dto.PaginatedResponse, error) {
	items, total, err := s.tutorRepo.List(ctx, strings.TrimSpace(search), page, size)
	if err != nil {
		return nil, err
	}
	return newPage(items, total, page, size), nil
}

// Update edits account and profile fields of a tutor
func (s *tutorServiceImpl) Update(ctx context.Context, id int64, req *dto.UpdateTutorRequest) (*models.Tutor, error) {
	t, err := s.tutorRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyAccountUpdate(t.User, &req.UpdateAccountRequest); err != nil {
		return nil, err
	}
	t.Address = helpers.NullIfEmpty(req.Address)
	t.Relationship = helpers.NullIfEmpty(req.Relationship)

	if err := s.tutorRepo.Update(ctx, t); err != nil {
		return nil, err
	}
	return s.tutorRepo.GetByID(ctx, id)
}

// Delete removes a tutor without students
func (s *tutorServiceImpl) Delete(ctx context.Context, id int64) error {
	t, err := s.tutorRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if t.StudentCount > 0 {
		return apperrors.ErrTutorHasStudents
	}
	if err := s.tutorRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("tutorID", id).Msg("Tutor deleted")
	return nil
}
