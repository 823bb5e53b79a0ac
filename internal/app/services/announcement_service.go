package services

import (
	"context"
	"strings"

	authz "github.com/empatecerca/api/internal/app/auth"
	"github.com/empatecerca/api/internal/app/models"
	"github.com/empatecerca/api/internal/app/models/dto"
	"github.com/empatecerca/api/internal/pkg/apperrors"
	"github.com/rs/zerolog"
)

// AnnouncementService defines the interface for announcement operations
type AnnouncementService interface {
	Create(ctx context.Context, actor *authz.Actor, req *dto.CreateAnnouncementRequest) (*models.Announcement, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, actor *authz.Actor, page, size int) (*dto.PaginatedResponse, error)
	MarkRead(ctx context.Context, actor *authz.Actor, id int64) error
}

type announcementServiceImpl struct {
	announcementRepo announcementStore
	logger           zerolog.Logger
}

// NewAnnouncementService creates a new AnnouncementService
func NewAnnouncementService(announcementRepo announcementStore, logger zerolog.Logger) AnnouncementService {
	return &announcementServiceImpl{
		announcementRepo: announcementRepo,
		logger:           logger,
	}
}

// audiencesFor returns the audiences a role receives; nil means every announcement
func audiencesFor(role models.RoleType) []models.Audience {
	switch role {
	case models.RoleVolunteer:
		return []models.Audience{models.AudienceAll, models.AudienceVolunteers}
	case models.RoleTutor:
		return []models.Audience{models.AudienceAll, models.AudienceTutors}
	}
	return nil
}

// Create publishes an announcement written by the actor
func (s *announcementServiceImpl) Create(ctx context.Context, actor *authz.Actor, req *dto.CreateAnnouncementRequest) (*models.Announcement, error) {
	audience := models.Audience(strings.ToUpper(strings.TrimSpace(string(req.Audience))))
	switch audience {
	case models.AudienceAll, models.AudienceVolunteers, models.AudienceTutors:
	default:
		return nil, apperrors.NewBadRequestError("audience must be ALL, VOLUNTEERS or TUTORS")
	}

	a := &models.Announcement{
		AuthorID: actor.UserID,
		Title:    strings.TrimSpace(req.Title),
		Content:  strings.TrimSpace(req.Content),
		Audience: audience,
	}
	if a.Title == "" || a.Content == "" {
		return nil, apperrors.NewBadRequestError("title and content are required")
	}
	if err := s.announcementRepo.Create(ctx, a); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("announcementID", a.ID).Str("audience", string(a.Audience)).Msg("Announcement published")
	return a, nil
}

// Delete removes an announcement
func (s *announcementServiceImpl) Delete(ctx context.Context, id int64) error {
	return s.announcementRepo.Delete(ctx, id)
}

// List returns the announcements addressed to the actor's role with the actor's read flag
func (s *announcementServiceImpl) List(ctx context.Context, actor *authz.Actor, page, size int) (*dto.PaginatedResponse, error) {
	items, total, err := s.announcementRepo.List(ctx, audiencesFor(actor.Role), actor.UserID, page, size)
	if err != nil {
		return nil, err
	}
	return newPage(items, total, page, size), nil
}

// MarkRead marks an announcement addressed to the actor as read
func (s *announcementServiceImpl) MarkRead(ctx context.Context, actor *authz.Actor, id int64) error {
	a, err := s.announcementRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !actor.IsAdmin() && !a.Audience.Includes(actor.Role) {
		return apperrors.ErrAnnouncementNotFound
	}
	return s.announcementRepo.MarkRead(ctx, id, actor.UserID)
}
