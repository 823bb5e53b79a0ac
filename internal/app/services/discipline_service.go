package services

import (
	"context"
	"strings"

	"github.com/empatecerca/api/internal/app/models"
	"github.com/empatecerca/api/internal/app/models/dto"
	"github.com/empatecerca/api/internal/pkg/apperrors"
	"github.com/empatecerca/api/internal/pkg/helpers"
	"github.com/empatecerca/api/internal/pkg/validation"
	"github.com/rs/zerolog"
)

// DisciplineService defines the interface for discipline operations
type DisciplineService interface {
	Create(ctx context.Context, req *dto.DisciplineRequest) (*models.Discipline, error)
	GetByID(ctx context.Context, id int64) (*models.Discipline, error)
	List(ctx context.Context, page, size int) (*dto.PaginatedResponse, error)
	Update(ctx context.Context, id int64, req *dto.DisciplineRequest) (*models.Discipline, error)
	Delete(ctx context.Context, id int64) error
}

type disciplineServiceImpl struct {
	disciplineRepo disciplineStore
	logger         zerolog.Logger
}

// NewDisciplineService creates a new DisciplineService
func NewDisciplineService(disciplineRepo disciplineStore, logger zerolog.Logger) DisciplineService {
	return &disciplineServiceImpl{
		disciplineRepo: disciplineRepo,
		logger:         logger,
	}
}

func newPage(items interface{}, total int64, page, size int) *dto.PaginatedResponse {
	return &dto.PaginatedResponse{
		Items:      items,
		Pagination: helpers.NewPaginationInfo(total, page, size),
	}
}

func (s *disciplineServiceImpl) build(req *dto.DisciplineRequest) (*models.Discipline, error) {
	name := strings.TrimSpace(req.Name)
	if !validation.NewStringValidation(name).WithMaxLength(100).Validate() {
		return nil, apperrors.NewBadRequestError("discipline name is required and must be at most 100 characters")
	}
	return &models.Discipline{Name: name, Description: helpers.NullIfEmpty(req.Description)}, nil
}

// Create adds a discipline; names are unique
func (s *disciplineServiceImpl) Create(ctx context.Context, req *dto.DisciplineRequest) (*models.Discipline, error) {
	d, err := s.build(req)
	if err != nil {
		return nil, err
	}
	if err := s.disciplineRepo.Create(ctx, d); err != nil {
		return nil, err
	}
	s.logger.Info().Int64("disciplineID", d.ID).Str("name", d.Name).Msg("Discipline created")
	return d, nil
}

// GetByID returns one discipline
func (s *disciplineServiceImpl) GetByID(ctx context.Context, id int64) (*models.Discipline, error) {
	return s.disciplineRepo.GetByID(ctx, id)
}

// List returns one page of disciplines
func (s *disciplineServiceImpl) List(ctx context.Context, page, size int) (*dto.PaginatedResponse, error) {
	items, total, err := s.disciplineRepo.List(ctx, page, size)
	if err != nil {
		return nil, err
	}
	return newPage(items, total, page, size), nil
}

// Update renames or redescribes a discipline
func (s *disciplineServiceImpl) Update(ctx context.Context, id int64, req *dto.DisciplineRequest) (*models.Discipline, error) {
	existing, err := s.disciplineRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	d, err := s.build(req)
	if err != nil {
		return nil, err
	}
	d.ID = existing.ID
	d.CreatedAt = existing.CreatedAt
	if err := s.disciplineRepo.Update(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// Delete removes a discipline that nothing references
func (s *disciplineServiceImpl) Delete(ctx context.Context, id int64) error {
	if err := s.disciplineRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("disciplineID", id).Msg("Discipline deleted")
	return nil
}
