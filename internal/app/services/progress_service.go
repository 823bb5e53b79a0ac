package services

import (
	"context"
	"time"

	authz "github.com/empatecerca/api/internal/app/auth"
	"github.com/empatecerca/api/internal/app/models"
	"github.com/empatecerca/api/internal/app/models/dto"
	"github.com/empatecerca/api/internal/pkg/apperrors"
	"github.com/empatecerca/api/internal/pkg/helpers"
	"github.com/rs/zerolog"
)

// ProgressService defines the interface for progress record operations
type ProgressService interface {
	Record(ctx context.Context, actor *authz.Actor, req *dto.RecordProgressRequest) (*models.ProgressRecord, bool, error)
	Update(ctx context.Context, actor *authz.Actor, id int64, req *dto.UpdateProgressRequest) (*models.ProgressRecord, error)
	Delete(ctx context.Context, actor *authz.Actor, id int64) error
	List(ctx context.Context, filter dto.ProgressFilter) (*dto.PaginatedResponse, error)
}

type progressServiceImpl struct {
	progressRepo progressStore
	authz        *authz.AuthorizationService
	logger       zerolog.Logger
	now          func() time.Time
}

// NewProgressService creates a new ProgressService
func NewProgressService(progressRepo progressStore, authorization *authz.AuthorizationService, logger zerolog.Logger) ProgressService {
	return &progressServiceImpl{
		progressRepo: progressRepo,
		authz:        authorization,
		logger:       logger,
		now:          time.Now,
	}
}

// Record stores attendance and performance of a student for a date. It reports
// whether a new record was created rather than an existing one overwritten.
func (s *progressServiceImpl) Record(ctx context.Context, actor *authz.Actor, req *dto.RecordProgressRequest) (*models.ProgressRecord, bool, error) {
	if err := s.authz.ValidateProgressRecording(ctx, actor, req.StudentID); err != nil {
		return nil, false, err
	}

	date, err := helpers.ParseDate(req.RecordDate)
	if err != nil {
		return nil, false, apperrors.NewBadRequestError(err.Error())
	}
	if date.After(s.now()) {
		return nil, false, apperrors.NewBadRequestError("recordDate cannot be in the future")
	}
	if req.Attended == nil {
		return nil, false, apperrors.NewBadRequestError("attended is required")
	}

	var volunteerID int64
	switch {
	case actor.IsVolunteer():
		volunteerID = *actor.VolunteerID
	case req.VolunteerID != nil:
		if err := s.authz.ValidateRecordingVolunteer(ctx, *req.VolunteerID, req.StudentID); err != nil {
			return nil, false, err
		}
		volunteerID = *req.VolunteerID
	default:
		return nil, false, apperrors.NewBadRequestError("volunteerId is required when an admin records progress")
	}

	record := &models.ProgressRecord{
		StudentID:   req.StudentID,
		VolunteerID: volunteerID,
		RecordDate:  date,
		Attended:    *req.Attended,
		Performance: req.Performance,
		Activities:  helpers.NullIfEmpty(req.Activities),
		Notes:       helpers.NullIfEmpty(req.Notes),
	}
	created, err := s.progressRepo.Upsert(ctx, record)
	if err != nil {
		return nil, false, err
	}

	s.logger.Info().
		Int64("progressID", record.ID).
		Int64("studentID", record.StudentID).
		Str("date", helpers.FormatDate(date)).
		Bool("created", created).
		Msg("Progress recorded")
	return record, created, nil
}

// Update edits a record; allowed to admins and the volunteer who wrote it
func (s *progressServiceImpl) Update(ctx context.Context, actor *authz.Actor, id int64, req *dto.UpdateProgressRequest) (*models.ProgressRecord, error) {
	record, err := s.progressRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authz.ValidateProgressOwnership(actor, record); err != nil {
		return nil, err
	}
	if req.Attended == nil {
		return nil, apperrors.NewBadRequestError("attended is required")
	}

	record.Attended = *req.Attended
	record.Performance = req.Performance
	record.Activities = helpers.NullIfEmpty(req.Activities)
	record.Notes = helpers.NullIfEmpty(req.Notes)
	if err := s.progressRepo.Update(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// Delete removes a record; allowed to admins and the volunteer who wrote it
func (s *progressServiceImpl) Delete(ctx context.Context, actor *authz.Actor, id int64) error {
	record, err := s.progressRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.authz.ValidateProgressOwnership(actor, record); err != nil {
		return err
	}
	if err := s.progressRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("progressID", id).Msg("Progress record deleted")
	return nil
}

// List returns one page of progress records across students
func (s *progressServiceImpl) List(ctx context.Context, filter dto.ProgressFilter) (*dto.PaginatedResponse, error) {
	if filter.From != nil && filter.To != nil && filter.From.After(*filter.To) {
		return nil, apperrors.NewBadRequestError("from must not be after to")
	}
	items, total, err := s.progressRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return newPage(items, total, filter.Page, filter.Size), nil
}
