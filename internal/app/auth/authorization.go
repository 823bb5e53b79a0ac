package auth

import (
	"context"
	"fmt"

	"github.com/empatecerca/api/internal/app/models"
	"github.com/empatecerca/api/internal/pkg/apperrors"
	"github.com/empatecerca/api/internal/pkg/logger"
)

// ScopeReader is the relationship lookup the authorization checks rely on.
// *repositories.ScopeRepository implements it.
type ScopeReader interface {
	VolunteerIDByUserID(ctx context.Context, userID int64) (*int64, error)
	TutorIDByUserID(ctx context.Context, userID int64) (*int64, error)
	VolunteerTeachesStudent(ctx context.Context, volunteerID, studentID int64) (bool, error)
	VolunteerTeachesGroup(ctx context.Context, volunteerID, groupID int64) (bool, error)
	VolunteerTeachesTutor(ctx context.Context, volunteerID, tutorID int64) (bool, error)
	TutorOwnsStudent(ctx context.Context, tutorID, studentID int64) (bool, error)
	ContactUserIDs(ctx context.Context, role models.RoleType, profileID int64) ([]int64, error)
	AdminUserIDs(ctx context.Context) ([]int64, error)
}

// Actor is the authenticated caller with its role profile resolved
type Actor struct {
	UserID      int64
	Role        models.RoleType
	VolunteerID *int64
	TutorID     *int64
}

// IsAdmin reports whether the actor has the ADMIN role
func (a *Actor) IsAdmin() bool {
	return a != nil && a.Role == models.RoleAdmin
}

// IsVolunteer reports whether the actor acts as a volunteer
func (a *Actor) IsVolunteer() bool {
	return a != nil && a.Role == models.RoleVolunteer && a.VolunteerID != nil
}

// IsTutor reports whether the actor acts as a tutor
func (a *Actor) IsTutor() bool {
	return a != nil && a.Role == models.RoleTutor && a.TutorID != nil
}

// AuthorizationService answers role-scoped access questions
type AuthorizationService struct {
	scope ScopeReader
}

// NewAuthorizationService creates a new AuthorizationService
func NewAuthorizationService(scope ScopeReader) *AuthorizationService {
	return &AuthorizationService{scope: scope}
}

// ResolveActor loads the profile id that goes with the role of the caller.
// A volunteer or tutor account without its profile row is denied.
func (s *AuthorizationService) ResolveActor(ctx context.Context, userID int64, role models.RoleType) (*Actor, error) {
	actor := &Actor{UserID: userID, Role: role}

	switch role {
	case models.RoleAdmin:
		return actor, nil
	case models.RoleVolunteer:
		id, err := s.scope.VolunteerIDByUserID(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve volunteer profile: %w", err)
		}
		if id == nil {
			logger.Warn().Int64("userID", userID).Msg("Volunteer account without volunteer profile")
			return nil, apperrors.NewForbiddenError("volunteer profile not found for this account")
		}
		actor.VolunteerID = id
	case models.RoleTutor:
		id, err := s.scope.TutorIDByUserID(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve tutor profile: %w", err)
		}
		if id == nil {
			logger.Warn().Int64("userID", userID).Msg("Tutor account without tutor profile")
			return nil, apperrors.NewForbiddenError("tutor profile not found for this account")
		}
		actor.TutorID = id
	default:
		return nil, apperrors.ErrPermissionDenied
	}
	return actor, nil
}

func deny(ok bool, err error, message string) error {
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.NewForbiddenError(message)
	}
	return nil
}

// ValidateStudentAccess allows admins, the student's tutor and the volunteers of the student's group
func (s *AuthorizationService) ValidateStudentAccess(ctx context.Context, actor *Actor, studentID int64) error {
	switch {
	case actor.IsAdmin():
		return nil
	case actor.IsTutor():
		ok, err := s.scope.TutorOwnsStudent(ctx, *actor.TutorID, studentID)
		return deny(ok, err, "you can only access your own students")
	case actor.IsVolunteer():
		ok, err := s.scope.VolunteerTeachesStudent(ctx, *actor.VolunteerID, studentID)
		return deny(ok, err, "you can only access students of your groups")
	}
	return apperrors.ErrPermissionDenied
}

// ValidateStudentOwnership allows admins and the student's tutor
func (s *AuthorizationService) ValidateStudentOwnership(ctx context.Context, actor *Actor, studentID int64) error {
	switch {
	case actor.IsAdmin():
		return nil
	case actor.IsTutor():
		ok, err := s.scope.TutorOwnsStudent(ctx, *actor.TutorID, studentID)
		return deny(ok, err, "you can only modify your own students")
	}
	return apperrors.NewForbiddenError("only the student's tutor can modify this data")
}

// ValidateGroupAccess allows admins and the volunteers assigned to the group
func (s *AuthorizationService) ValidateGroupAccess(ctx context.Context, actor *Actor, groupID int64) error {
	switch {
	case actor.IsAdmin():
		return nil
	case actor.IsVolunteer():
		ok, err := s.scope.VolunteerTeachesGroup(ctx, *actor.VolunteerID, groupID)
		return deny(ok, err, "you can only access groups you are assigned to")
	}
	return apperrors.NewForbiddenError("you cannot access groups")
}

// ValidateProgressRecording allows admins and volunteers assigned to the student's current group
func (s *AuthorizationService) ValidateProgressRecording(ctx context.Context, actor *Actor, studentID int64) error {
	switch {
	case actor.IsAdmin():
		return nil
	case actor.IsVolunteer():
		ok, err := s.scope.VolunteerTeachesStudent(ctx, *actor.VolunteerID, studentID)
		return deny(ok, err, "you can only record progress for students of your groups")
	}
	return apperrors.NewForbiddenError("only volunteers can record progress")
}

// ValidateRecordingVolunteer checks that the volunteer an admin records progress
// for is assigned to the student's current group
func (s *AuthorizationService) ValidateRecordingVolunteer(ctx context.Context, volunteerID, studentID int64) error {
	ok, err := s.scope.VolunteerTeachesStudent(ctx, volunteerID, studentID)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.NewBadRequestError(fmt.Sprintf("volunteer %d is not assigned to the student's group", volunteerID))
	}
	return nil
}

// ValidateProgressOwnership allows admins and the volunteer who wrote the record
func (s *AuthorizationService) ValidateProgressOwnership(actor *Actor, record *models.ProgressRecord) error {
	if actor.IsAdmin() {
		return nil
	}
	if actor.IsVolunteer() && *actor.VolunteerID == record.VolunteerID {
		return nil
	}
	return apperrors.NewForbiddenError("you can only modify progress records you wrote")
}

// ValidateRating allows a tutor to rate a volunteer who teaches one of the tutor's students
func (s *AuthorizationService) ValidateRating(ctx context.Context, actor *Actor, volunteerID int64) error {
	if !actor.IsTutor() {
		return apperrors.NewForbiddenError("only tutors can rate volunteers")
	}
	ok, err := s.scope.VolunteerTeachesTutor(ctx, volunteerID, *actor.TutorID)
	return deny(ok, err, "you can only rate volunteers who teach your students")
}

// ValidateVolunteerSelf allows admins and the volunteer itself
func (s *AuthorizationService) ValidateVolunteerSelf(actor *Actor, volunteerID int64) error {
	if actor.IsAdmin() {
		return nil
	}
	if actor.IsVolunteer() && *actor.VolunteerID == volunteerID {
		return nil
	}
	return apperrors.NewForbiddenError("you can only access your own volunteer profile")
}

// ContactUserIDs returns the accounts a non-admin actor may message: every active
// admin plus the tutors or volunteers related through a student's group.
func (s *AuthorizationService) ContactUserIDs(ctx context.Context, actor *Actor) ([]int64, error) {
	admins, err := s.scope.AdminUserIDs(ctx)
	if err != nil {
		return nil, err
	}

	var related []int64
	switch {
	case actor.IsTutor():
		related, err = s.scope.ContactUserIDs(ctx, models.RoleTutor, *actor.TutorID)
	case actor.IsVolunteer():
		related, err = s.scope.ContactUserIDs(ctx, models.RoleVolunteer, *actor.VolunteerID)
	}
	if err != nil {
		return nil, err
	}

	seen := make(map[int64]struct{}, len(admins)+len(related))
	ids := make([]int64, 0, len(admins)+len(related))
	for _, id := range append(admins, related...) {
		if id == actor.UserID {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, nil
}

// ValidateMessaging allows admins to message anyone, anyone to message an admin,
// and tutors and volunteers to message each other when they share a student.
func (s *AuthorizationService) ValidateMessaging(ctx context.Context, actor *Actor, recipient *models.User) error {
	if recipient.ID == actor.UserID {
		return apperrors.NewBadRequestError("cannot send a message to yourself")
	}
	if actor.IsAdmin() || recipient.RoleType == models.RoleAdmin {
		return nil
	}

	switch {
	case actor.IsTutor() && recipient.RoleType == models.RoleVolunteer:
		volunteerID, err := s.scope.VolunteerIDByUserID(ctx, recipient.ID)
		if err != nil || volunteerID == nil {
			return deny(false, err, "recipient is not an allowed contact")
		}
		ok, err := s.scope.VolunteerTeachesTutor(ctx, *volunteerID, *actor.TutorID)
		return deny(ok, err, "you can only message volunteers who teach your students")
	case actor.IsVolunteer() && recipient.RoleType == models.RoleTutor:
		tutorID, err := s.scope.TutorIDByUserID(ctx, recipient.ID)
		if err != nil || tutorID == nil {
			return deny(false, err, "recipient is not an allowed contact")
		}
		ok, err := s.scope.VolunteerTeachesTutor(ctx, *actor.VolunteerID, *tutorID)
		return deny(ok, err, "you can only message tutors of students in your groups")
	}
	return apperrors.NewCustomError(apperrors.ErrRecipientNotAllowed, "recipient is not an allowed contact")
}
