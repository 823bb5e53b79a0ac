package services

import (
	"context"
	"strings"
	"time"

	authz "github.com/empatecerca/api/internal/app/auth"
	"github.com/empatecerca/api/internal/app/models"
	"github.com/empatecerca/api/internal/app/models/dto"
	"github.com/empatecerca/api/internal/pkg/apperrors"
	"github.com/empatecerca/api/internal/pkg/helpers"
	"github.com/empatecerca/api/internal/pkg/validation"
	"github.com/rs/zerolog"
)

// StudentService defines the interface for student operations
type StudentService interface {
	Create(ctx context.Context, req *dto.CreateStudentRequest) (*models.Student, error)
	GetByID(ctx context.Context, actor *authz.Actor, id int64) (*models.Student, error)
	List(ctx context.Context, actor *authz.Actor, filter dto.StudentListFilter) (*dto.PaginatedResponse, error)
	Update(ctx context.Context, id int64, req *dto.UpdateStudentRequest) (*models.Student, error)
	UpdateMedical(ctx context.Context, actor *authz.Actor, id int64, medical *models.MedicalRecord) (*models.Student, error)
	AssignGroup(ctx context.Context, id int64, groupID *int64) (*models.Student, error)
	Delete(ctx context.Context, id int64) error
	Progress(ctx context.Context, actor *authz.Actor, id int64, filter dto.ProgressFilter) (*dto.PaginatedResponse, error)
}

type studentServiceImpl struct {
	studentRepo  studentStore
	progressRepo progressStore
	authz        *authz.AuthorizationService
	logger       zerolog.Logger
	now          func() time.Time
}

// NewStudentService creates a new StudentService
func NewStudentService(
	studentRepo studentStore,
	progressRepo progressStore,
	authorization *authz.AuthorizationService,
	logger zerolog.Logger,
) StudentService {
	return &studentServiceImpl{
		studentRepo:  studentRepo,
		progressRepo: progressRepo,
		authz:        authorization,
		logger:       logger,
		now:          time.Now,
	}
}

// personalData validates the fields shared by create and update
func (s *studentServiceImpl) personalData(student *models.Student, firstName, lastName, dni, birthDate string) error {
	student.FirstName = strings.TrimSpace(firstName)
	student.LastName = strings.TrimSpace(lastName)
	student.DNI = normalizeDNI(dni)
	if !validation.IsValidDNI(student.DNI) {
		return apperrors.NewBadRequestError("dni must be 7 to 10 letters or digits")
	}

	born, err := helpers.ParseDate(birthDate)
	if err != nil {
		return apperrors.NewBadRequestError(err.Error())
	}
	if born.After(s.now()) {
		return apperrors.NewBadRequestError("birthDate cannot be in the future")
	}
	student.BirthDate = born
	return nil
}

func cleanMedical(m *models.MedicalRecord) models.MedicalRecord {
	if m == nil {
		return models.MedicalRecord{}
	}
	return models.MedicalRecord{
		BloodType:             helpers.NullIfEmpty(m.BloodType),
		Allergies:             helpers.NullIfEmpty(m.Allergies),
		Medications:           helpers.NullIfEmpty(m.Medications),
		Conditions:            helpers.NullIfEmpty(m.Conditions),
		EmergencyContactName:  helpers.NullIfEmpty(m.EmergencyContactName),
		EmergencyContactPhone: helpers.NullIfEmpty(m.EmergencyContactPhone),
		Notes:                 helpers.NullIfEmpty(m.Notes),
	}
}

// Create registers a student, optionally straight into a group
func (s *studentServiceImpl) Create(ctx context.Context, req *dto.CreateStudentRequest) (*models.Student, error) {
	student := &models.Student{
		TutorID:      req.TutorID,
		DisciplineID: req.DisciplineID,
		GroupID:      req.GroupID,
		Medical:      cleanMedical(req.Medical),
	}
	if err := s.personalData(student, req.FirstName, req.LastName, req.DNI, req.BirthDate); err != nil {
		return nil, err
	}

	if err := s.studentRepo.Create(ctx, student); err != nil {
		return nil, err
	}
	s.logger.Info().Int64("studentID", student.ID).Int64("tutorID", student.TutorID).Msg("Student created")
	return student, nil
}

// GetByID returns a student the actor may see
func (s *studentServiceImpl) GetByID(ctx context.Context, actor *authz.Actor, id int64) (*models.Student, error) {
	if err := s.authz.ValidateStudentAccess(ctx, actor, id); err != nil {
		return nil, err
	}
	return s.studentRepo.GetByID(ctx, id)
}

// List returns the students visible to the actor: tutors see their own,
// volunteers those of their groups, admins everyone.
func (s *studentServiceImpl) List(ctx context.Context, actor *authz.Actor, filter dto.StudentListFilter) (*dto.PaginatedResponse, error) {
	filter.TaughtBy = nil
	switch {
	case actor.IsAdmin():
	case actor.IsTutor():
		filter.TutorID = actor.TutorID
	case actor.IsVolunteer():
		filter.TaughtBy = actor.VolunteerID
	default:
		return nil, apperrors.ErrPermissionDenied
	}
	filter.Search = strings.TrimSpace(filter.Search)

	items, total, err := s.studentRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return newPage(items, total, filter.Page, filter.Size), nil
}

// Update edits personal data, tutor and discipline of a student
func (s *studentServiceImpl) Update(ctx context.Context, id int64, req *dto.UpdateStudentRequest) (*models.Student, error) {
	student, err := s.studentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.personalData(student, req.FirstName, req.LastName, req.DNI, req.BirthDate); err != nil {
		return nil, err
	}
	student.TutorID = req.TutorID
	student.DisciplineID = req.DisciplineID

	if err := s.studentRepo.Update(ctx, student); err != nil {
		return nil, err
	}
	return s.studentRepo.GetByID(ctx, id)
}

// UpdateMedical replaces the medical record; allowed to admins and the student's tutor
func (s *studentServiceImpl) UpdateMedical(ctx context.Context, actor *authz.Actor, id int64, medical *models.MedicalRecord) (*models.Student, error) {
	if err := s.authz.ValidateStudentOwnership(ctx, actor, id); err != nil {
		return nil, err
	}
	if err := s.studentRepo.UpdateMedical(ctx, id, cleanMedical(medical)); err != nil {
		return nil, err
	}
	return s.studentRepo.GetByID(ctx, id)
}

// AssignGroup moves the student into a group or, with a nil groupID, out of its group
func (s *studentServiceImpl) AssignGroup(ctx context.Context, id int64, groupID *int64) (*models.Student, error) {
	if groupID != nil && *groupID <= 0 {
		return nil, apperrors.NewBadRequestError("groupId must be positive")
	}
	student, err := s.studentRepo.AssignGroup(ctx, id, groupID)
	if err != nil {
		return nil, err
	}

	event := s.logger.Info().Int64("studentID", id)
	if groupID != nil {
		event = event.Int64("groupID", *groupID)
	}
	event.Msg("Student group assignment changed")
	return student, nil
}

// Delete removes a student and its progress history
func (s *studentServiceImpl) Delete(ctx context.Context, id int64) error {
	if err := s.studentRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("studentID", id).Msg("Student deleted")
	return nil
}

// Progress lists the progress records of a student the actor may see
func (s *studentServiceImpl) Progress(ctx context.Context, actor *authz.Actor, id int64, filter dto.ProgressFilter) (*dto.PaginatedResponse, error) {
	if err := s.authz.ValidateStudentAccess(ctx, actor, id); err != nil {
		return nil, err
	}
	if _, err := s.studentRepo.GetByID(ctx, id); err != nil {
		return nil, err
	}

	filter.StudentID = &id
	items, total, err := s.progressRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return newPage(items, total, filter.Page, filter.Size), nil
}
