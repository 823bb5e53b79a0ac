package services

import (
	"context"

	authz "github.com/empatecerca/api/internal/app/auth"
	"github.com/empatecerca/api/internal/app/models"
	"github.com/empatecerca/api/internal/app/models/dto"
	"github.com/empatecerca/api/internal/pkg/apperrors"
	"github.com/empatecerca/api/internal/pkg/helpers"
	"github.com/rs/zerolog"
)

// RatingService defines the interface for volunteer rating operations
type RatingService interface {
	Create(ctx context.Context, actor *authz.Actor, req *dto.CreateRatingRequest) (*models.Rating, error)
	List(ctx context.Context, volunteerID *int64, page, size int) (*dto.PaginatedResponse, error)
}

type ratingServiceImpl struct {
	ratingRepo ratingStore
	authz      *authz.AuthorizationService
	logger     zerolog.Logger
}

// NewRatingService creates a new RatingService
func NewRatingService(ratingRepo ratingStore, authorization *authz.AuthorizationService, logger zerolog.Logger) RatingService {
	return &ratingServiceImpl{
		ratingRepo: ratingRepo,
		authz:      authorization,
		logger:     logger,
	}
}

// Create stores a tutor's rating of a volunteer who teaches one of the tutor's students
func (s *ratingServiceImpl) Create(ctx context.Context, actor *authz.Actor, req *dto.CreateRatingRequest) (*models.Rating, error) {
	if req.Score < 1 || req.Score > 5 {
		return nil, apperrors.NewBadRequestError("score must be between 1 and 5")
	}
	if err := s.authz.ValidateRating(ctx, actor, req.VolunteerID); err != nil {
		return nil, err
	}

	rating := &models.Rating{
		TutorID:     *actor.TutorID,
		VolunteerID: req.VolunteerID,
		Score:       req.Score,
		Feedback:    helpers.NullIfEmpty(req.Feedback),
	}
	if err := s.ratingRepo.Create(ctx, rating); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("ratingID", rating.ID).Int64("volunteerID", rating.VolunteerID).Int("score", rating.Score).Msg("Volunteer rated")
	return rating, nil
}

// List returns one page of ratings, optionally of one volunteer
func (s *ratingServiceImpl) List(ctx context.Context, volunteerID *int64, page, size int) (*dto.PaginatedResponse, error) {
	items, total, err := s.ratingRepo.List(ctx, volunteerID, page, size)
	if err != nil {
		return nil, err
	}
	return newPage(items, total, page, size), nil
}
