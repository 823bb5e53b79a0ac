package services

import (
	"context"
	"strings"

	authz "github.com/empatecerca/api/internal/app/auth"
	"github.com/empatecerca/api/internal/app/models"
	"github.com/empatecerca/api/internal/app/models/dto"
	"github.com/empatecerca/api/internal/app/repositories"
	"github.com/empatecerca/api/internal/pkg/apperrors"
	"github.com/empatecerca/api/internal/pkg/helpers"
	"github.com/rs/zerolog"
)

// GroupService defines the interface for group operations
type GroupService interface {
	Create(ctx context.Context, req *dto.CreateGroupRequest) (*models.Group, error)
	GetByID(ctx context.Context, actor *authz.Actor, id int64) (*models.Group, error)
	List(ctx context.Context, actor *authz.Actor, disciplineID *int64, page, size int) (*dto.PaginatedResponse, error)
	Update(ctx context.Context, id int64, req *dto.UpdateGroupRequest) (*models.Group, error)
	Delete(ctx context.Context, id int64) error
	ReplaceSchedule(ctx context.Context, id int64, slots []models.TimeSlot) ([]models.TimeSlot, error)
	ReplaceVolunteers(ctx context.Context, id int64, volunteerIDs []int64) ([]int64, error)
	Students(ctx context.Context, actor *authz.Actor, id int64, page, size int) (*dto.PaginatedResponse, error)
}

type groupServiceImpl struct {
	groupRepo     groupStore
	volunteerRepo volunteerStore
	studentRepo   studentStore
	authz         *authz.AuthorizationService
	logger        zerolog.Logger
}

// NewGroupService creates a new GroupService
func NewGroupService(
	groupRepo groupStore,
	volunteerRepo volunteerStore,
	studentRepo studentStore,
	authorization *authz.AuthorizationService,
	logger zerolog.Logger,
) GroupService {
	return &groupServiceImpl{
		groupRepo:     groupRepo,
		volunteerRepo: volunteerRepo,
		studentRepo:   studentRepo,
		authz:         authorization,
		logger:        logger,
	}
}

func (s *groupServiceImpl) volunteerIDs(ctx context.Context, ids []int64) ([]int64, error) {
	normalized, err := normalizeIDs(ids, "volunteerIds")
	if err != nil {
		return nil, err
	}
	if err := requireExisting(ctx, normalized, "volunteers", s.volunteerRepo.ExistingIDs); err != nil {
		return nil, err
	}
	return normalized, nil
}

// Create adds a group with its schedule and volunteers
func (s *groupServiceImpl) Create(ctx context.Context, req *dto.CreateGroupRequest) (*models.Group, error) {
	schedule, err := normalizeSlots(req.Schedule)
	if err != nil {
		return nil, err
	}
	volunteers, err := s.volunteerIDs(ctx, req.VolunteerIDs)
	if err != nil {
		return nil, err
	}

	g := &models.Group{
		Name:         strings.TrimSpace(req.Name),
		DisciplineID: req.DisciplineID,
		MaxMembers:   req.MaxMembers,
		Location:     helpers.NullIfEmpty(req.Location),
		Schedule:     schedule,
		VolunteerIDs: volunteers,
	}
	if g.MaxMembers <= 0 {
		return nil, apperrors.NewBadRequestError("maxMembers must be greater than zero")
	}
	if err := s.groupRepo.Create(ctx, g); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("groupID", g.ID).Str("name", g.Name).Msg("Group created")
	return s.groupRepo.GetByID(ctx, g.ID)
}

// GetByID returns a group the actor may see
func (s *groupServiceImpl) GetByID(ctx context.Context, actor *authz.Actor, id int64) (*models.Group, error) {
	if err := s.authz.ValidateGroupAccess(ctx, actor, id); err != nil {
		return nil, err
	}
	return s.groupRepo.GetByID(ctx, id)
}

// List returns every group for admins and the assigned groups for volunteers
func (s *groupServiceImpl) List(ctx context.Context, actor *authz.Actor, disciplineID *int64, page, size int) (*dto.PaginatedResponse, error) {
	filter := repositories.GroupListFilter{DisciplineID: disciplineID, Page: page, Size: size}
	switch {
	case actor.IsAdmin():
	case actor.IsVolunteer():
		filter.TaughtBy = actor.VolunteerID
	default:
		return nil, apperrors.NewForbiddenError("you cannot list groups")
	}

	items, total, err := s.groupRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return newPage(items, total, page, size), nil
}

// Update edits name, discipline, capacity and location of a group
func (s *groupServiceImpl) Update(ctx context.Context, id int64, req *dto.UpdateGroupRequest) (*models.Group, error) {
	g, err := s.groupRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.MaxMembers <= 0 {
		return nil, apperrors.NewBadRequestError("maxMembers must be greater than zero")
	}

	g.Name = strings.TrimSpace(req.Name)
	g.DisciplineID = req.DisciplineID
	g.MaxMembers = req.MaxMembers
	g.Location = helpers.NullIfEmpty(req.Location)
	if err := s.groupRepo.Update(ctx, g); err != nil {
		return nil, err
	}
	return s.groupRepo.GetByID(ctx, id)
}

// Delete removes a group; its students become unassigned
func (s *groupServiceImpl) Delete(ctx context.Context, id int64) error {
	if err := s.groupRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("groupID", id).Msg("Group deleted")
	return nil
}

// ReplaceSchedule makes the weekly schedule of the group exactly slots
func (s *groupServiceImpl) ReplaceSchedule(ctx context.Context, id int64, slots []models.TimeSlot) ([]models.TimeSlot, error) {
	normalized, err := normalizeSlots(slots)
	if err != nil {
		return nil, err
	}
	if err := s.groupRepo.ReplaceSchedule(ctx, id, normalized); err != nil {
		return nil, err
	}
	s.logger.Debug().Int64("groupID", id).Int("slots", len(normalized)).Msg("Group schedule replaced")
	return normalized, nil
}

// ReplaceVolunteers makes the volunteers of the group exactly volunteerIDs
func (s *groupServiceImpl) ReplaceVolunteers(ctx context.Context, id int64, volunteerIDs []int64) ([]int64, error) {
	ids, err := s.volunteerIDs(ctx, volunteerIDs)
	if err != nil {
		return nil, err
	}
	if err := s.groupRepo.ReplaceVolunteers(ctx, id, ids); err != nil {
		return nil, err
	}
	s.logger.Debug().Int64("groupID", id).Int("volunteers", len(ids)).Msg("Group volunteers replaced")
	return ids, nil
}

// Students lists the members of a group the actor may see
func (s *groupServiceImpl) Students(ctx context.Context, actor *authz.Actor, id int64, page, size int) (*dto.PaginatedResponse, error) {
	if err := s.authz.ValidateGroupAccess(ctx, actor, id); err != nil {
		return nil, err
	}
	if _, err := s.groupRepo.GetByID(ctx, id); err != nil {
		return nil, err
	}

	items, total, err := s.studentRepo.List(ctx, dto.StudentListFilter{GroupID: &id, Page: page, Size: size})
	if err != nil {
		return nil, err
	}
	return newPage(items, total, page, size), nil
}
