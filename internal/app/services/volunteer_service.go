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

// VolunteerService defines the interface for volunteer operations
type VolunteerService interface {
	Create(ctx context.Context, req *dto.CreateVolunteerRequest) (*models.Volunteer, error)
	GetByID(ctx context.Context, id int64) (*models.Volunteer, error)
	GetMe(ctx context.Context, actor *authz.Actor) (*models.Volunteer, error)
	List(ctx context.Context, filter dto.VolunteerListFilter) (*dto.PaginatedResponse, error)
	Update(ctx context.Context, id int64, req *dto.UpdateVolunteerRequest) (*models.Volunteer, error)
	UpdateStatus(ctx context.Context, id int64, req *dto.UpdateVolunteerStatusRequest) (*models.Volunteer, error)
	Delete(ctx context.Context, id int64) error
	ReplaceAvailability(ctx context.Context, actor *authz.Actor, id int64, slots []models.TimeSlot) ([]models.TimeSlot, error)
	ReplaceGroups(ctx context.Context, id int64, groupIDs []int64) ([]int64, error)
	Ratings(ctx context.Context, actor *authz.Actor, id int64, page, size int) (*dto.VolunteerRatingsResponse, error)
}

type volunteerServiceImpl struct {
	volunteerRepo volunteerStore
	groupRepo     groupStore
	ratingRepo    ratingStore
	authz         *authz.AuthorizationService
	logger        zerolog.Logger
}

// NewVolunteerService creates a new VolunteerService
func NewVolunteerService(
	volunteerRepo volunteerStore,
	groupRepo groupStore,
	ratingRepo ratingStore,
	authorization *authz.AuthorizationService,
	logger zerolog.Logger,
) VolunteerService {
	return &volunteerServiceImpl{
		volunteerRepo: volunteerRepo,
		groupRepo:     groupRepo,
		ratingRepo:    ratingRepo,
		authz:         authorization,
		logger:        logger,
	}
}

// Create registers the account and profile of a new volunteer
func (s *volunteerServiceImpl) Create(ctx context.Context, req *dto.CreateVolunteerRequest) (*models.Volunteer, error) {
	user, err := newAccount(&req.CreateAccountRequest, models.RoleVolunteer)
	if err != nil {
		return nil, err
	}
	slots, err := normalizeSlots(req.Availability)
	if err != nil {
		return nil, err
	}

	v := &models.Volunteer{
		DisciplineID: req.DisciplineID,
		Status:       models.VolunteerActive,
		Availability: slots,
	}
	if err := s.volunteerRepo.Create(ctx, user, v); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("volunteerID", v.ID).Int64("userID", user.ID).Msg("Volunteer created")
	return s.volunteerRepo.GetByID(ctx, v.ID)
}

// GetByID returns a volunteer with account, availability and groups
func (s *volunteerServiceImpl) GetByID(ctx context.Context, id int64) (*models.Volunteer, error) {
	return s.volunteerRepo.GetByID(ctx, id)
}

// GetMe returns the volunteer profile of the caller
func (s *volunteerServiceImpl) GetMe(ctx context.Context, actor *authz.Actor) (*models.Volunteer, error) {
	if !actor.IsVolunteer() {
		return nil, apperrors.NewForbiddenError("only volunteers have a volunteer profile")
	}
	return s.volunteerRepo.GetByID(ctx, *actor.VolunteerID)
}

// List returns one page of volunteers
func (s *volunteerServiceImpl) List(ctx context.Context, filter dto.VolunteerListFilter) (*dto.PaginatedResponse, error) {
	filter.Search = strings.TrimSpace(filter.Search)
	items, total, err := s.volunteerRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return newPage(items, total, filter.Page, filter.Size), nil
}

// Update edits account fields and the discipline of a volunteer
func (s *volunteerServiceImpl) Update(ctx context.Context, id int64, req *dto.UpdateVolunteerRequest) (*models.Volunteer, error) {
	v, err := s.volunteerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyAccountUpdate(v.User, &req.UpdateAccountRequest); err != nil {
		return nil, err
	}
	v.DisciplineID = req.DisciplineID

	if err := s.volunteerRepo.Update(ctx, v); err != nil {
		return nil, err
	}
	return s.volunteerRepo.GetByID(ctx, id)
}

// UpdateStatus activates or deactivates a volunteer. Deactivation requires a reason.
func (s *volunteerServiceImpl) UpdateStatus(ctx context.Context, id int64, req *dto.UpdateVolunteerStatusRequest) (*models.Volunteer, error) {
	var reason *string
	switch req.Status {
	case models.VolunteerInactive:
		reason = helpers.NullIfEmpty(req.Reason)
		if reason == nil {
			return nil, apperrors.NewBadRequestError("a reason is required to deactivate a volunteer")
		}
	case models.VolunteerActive:
	default:
		return nil, apperrors.NewBadRequestError("status must be ACTIVE or INACTIVE")
	}

	if err := s.volunteerRepo.UpdateStatus(ctx, id, req.Status, reason); err != nil {
		return nil, err
	}
	s.logger.Info().Int64("volunteerID", id).Str("status", string(req.Status)).Msg("Volunteer status changed")
	return s.volunteerRepo.GetByID(ctx, id)
}

// Delete removes a volunteer and its account
func (s *volunteerServiceImpl) Delete(ctx context.Context, id int64) error {
	if err := s.volunteerRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("volunteerID", id).Msg("Volunteer deleted")
	return nil
}

// ReplaceAvailability makes the weekly availability of the volunteer exactly slots
func (s *volunteerServiceImpl) ReplaceAvailability(ctx context.Context, actor *authz.Actor, id int64, slots []models.TimeSlot) ([]models.TimeSlot, error) {
	if err := s.authz.ValidateVolunteerSelf(actor, id); err != nil {
		return nil, err
	}
	normalized, err := normalizeSlots(slots)
	if err != nil {
		return nil, err
	}
	if err := s.volunteerRepo.ReplaceAvailability(ctx, id, normalized); err != nil {
		return nil, err
	}
	s.logger.Debug().Int64("volunteerID", id).Int("slots", len(normalized)).Msg("Availability replaced")
	return normalized, nil
}

// ReplaceGroups makes the groups the volunteer teaches exactly groupIDs
func (s *volunteerServiceImpl) ReplaceGroups(ctx context.Context, id int64, groupIDs []int64) ([]int64, error) {
	ids, err := normalizeIDs(groupIDs, "groupIds")
	if err != nil {
		return nil, err
	}
	if err := requireExisting(ctx, ids, "groups", s.groupRepo.ExistingIDs); err != nil {
		return nil, err
	}
	if err := s.volunteerRepo.ReplaceGroups(ctx, id, ids); err != nil {
		return nil, err
	}
	s.logger.Debug().Int64("volunteerID", id).Int("groups", len(ids)).Msg("Volunteer groups replaced")
	return ids, nil
}

// Ratings lists the ratings of a volunteer with the average score
func (s *volunteerServiceImpl) Ratings(ctx context.Context, actor *authz.Actor, id int64, page, size int) (*dto.VolunteerRatingsResponse, error) {
	if err := s.authz.ValidateVolunteerSelf(actor, id); err != nil {
		return nil, err
	}
	if _, err := s.volunteerRepo.GetByID(ctx, id); err != nil {
		return nil, err
	}

	summary, err := s.ratingRepo.Summary(ctx, id)
	if err != nil {
		return nil, err
	}
	ratings, total, err := s.ratingRepo.List(ctx, &id, page, size)
	if err != nil {
		return nil, err
	}
	return &dto.VolunteerRatingsResponse{
		Summary:    *summary,
		Ratings:    ratings,
		Pagination: helpers.NewPaginationInfo(total, page, size),
	}, nil
}
