package services

import (
	"context"
	"time"

	"github.com/empatecerca/api/internal/app/models"
	"github.com/empatecerca/api/internal/app/models/dto"
	"github.com/empatecerca/api/internal/app/repositories"
)

// The interfaces below are the persistence needs of the services. The
// repositories package provides the Postgres implementations.

type userStore interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByDNI(ctx context.Context, dni string) (*models.User, error)
	ListByIDs(ctx context.Context, ids []int64) ([]*models.User, error)
	ListActiveExcept(ctx context.Context, userID int64) ([]*models.User, error)
	UpdateLastLogin(ctx context.Context, userID int64) error
	UpdatePassword(ctx context.Context, userID int64, passwordHash string) error
}

type tokenStore interface {
	CreateToken(ctx context.Context, token string, userID int64, expiryDate time.Time) error
	GetTokenByValue(ctx context.Context, token string) (int64, time.Time, bool, error)
	RevokeToken(ctx context.Context, token string) error
	RevokeAllUserTokens(ctx context.Context, userID int64) error
	RotateToken(ctx context.Context, oldToken, newToken string, userID int64, expiryDate time.Time) error
}

type disciplineStore interface {
	Create(ctx context.Context, d *models.Discipline) error
	GetByID(ctx context.Context, id int64) (*models.Discipline, error)
	List(ctx context.Context, page, size int) ([]*models.Discipline, int64, error)
	Update(ctx context.Context, d *models.Discipline) error
	Delete(ctx context.Context, id int64) error
}

type volunteerStore interface {
	Create(ctx context.Context, user *models.User, v *models.Volunteer) error
	GetByID(ctx context.Context, id int64) (*models.Volunteer, error)
	GetByUserID(ctx context.Context, userID int64) (*models.Volunteer, error)
	List(ctx context.Context, filter dto.VolunteerListFilter) ([]*models.Volunteer, int64, error)
	Update(ctx context.Context, v *models.Volunteer) error
	UpdateStatus(ctx context.Context, id int64, status models.VolunteerStatus, reason *string) error
	Delete(ctx context.Context, id int64) error
	ExistingIDs(ctx context.Context, ids []int64) ([]int64, error)
	ReplaceAvailability(ctx context.Context, id int64, slots []models.TimeSlot) error
	ReplaceGroups(ctx context.Context, id int64, groupIDs []int64) error
}

type tutorStore interface {
	Create(ctx context.Context, user *models.User, t *models.Tutor) error
	GetByID(ctx context.Context, id int64) (*models.Tutor, error)
	GetByUserID(ctx context.Context, userID int64) (*models.Tutor, error)
	List(ctx context.Context, search string, page, size int) ([]*models.Tutor, int64, error)
	Update(ctx context.Context, t *models.Tutor) error
	Delete(ctx context.Context, id int64) error
}

type studentStore interface {
	Create(ctx context.Context, s *models.Student) error
	GetByID(ctx context.Context, id int64) (*models.Student, error)
	List(ctx context.Context, filter dto.StudentListFilter) ([]*models.Student, int64, error)
	Update(ctx context.Context, s *models.Student) error
	UpdateMedical(ctx context.Context, id int64, m models.MedicalRecord) error
	AssignGroup(ctx context.Context, studentID int64, groupID *int64) (*models.Student, error)
	Delete(ctx context.Context, id int64) error
}

type groupStore interface {
	Create(ctx context.Context, g *models.Group) error
	GetByID(ctx context.Context, id int64) (*models.Group, error)
	List(ctx context.Context, filter repositories.GroupListFilter) ([]*models.Group, int64, error)
	Update(ctx context.Context, g *models.Group) error
	Delete(ctx context.Context, id int64) error
	ExistingIDs(ctx context.Context, ids []int64) ([]int64, error)
	ReplaceSchedule(ctx context.Context, id int64, slots []models.TimeSlot) error
	ReplaceVolunteers(ctx context.Context, id int64, volunteerIDs []int64) error
}

type progressStore interface {
	Upsert(ctx context.Context, p *models.ProgressRecord) (bool, error)
	GetByID(ctx context.Context, id int64) (*models.ProgressRecord, error)
	Update(ctx context.Context, p *models.ProgressRecord) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter dto.ProgressFilter) ([]*models.ProgressRecord, int64, error)
}

type ratingStore interface {
	Create(ctx context.Context, rating *models.Rating) error
	List(ctx context.Context, volunteerID *int64, page, size int) ([]*models.Rating, int64, error)
	Summary(ctx context.Context, volunteerID int64) (*models.RatingSummary, error)
}

type announcementStore interface {
	Create(ctx context.Context, a *models.Announcement) error
	GetByID(ctx context.Context, id int64) (*models.Announcement, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, audiences []models.Audience, userID int64, page, size int) ([]*models.Announcement, int64, error)
	MarkRead(ctx context.Context, announcementID, userID int64) error
}

type messageStore interface {
	Create(ctx context.Context, m *models.Message) error
	GetByID(ctx context.Context, id int64) (*models.Message, error)
	Inbox(ctx context.Context, userID int64, page, size int) ([]*models.Message, int64, error)
	Sent(ctx context.Context, userID int64, page, size int) ([]*models.Message, int64, error)
	Conversation(ctx context.Context, userID, otherID int64, page, size int) ([]*models.Message, int64, error)
	UnreadCount(ctx context.Context, userID int64) (int64, error)
	MarkRead(ctx context.Context, id, recipientID int64) error
	MarkAllRead(ctx context.Context, recipientID int64) (int64, error)
}

type dashboardStore interface {
	Stats(ctx context.Context) (*models.DashboardStats, error)
}

var (
	_ userStore         = (*repositories.UserRepository)(nil)
	_ tokenStore        = (*repositories.TokenRepository)(nil)
	_ disciplineStore   = (*repositories.DisciplineRepository)(nil)
	_ volunteerStore    = (*repositories.VolunteerRepository)(nil)
	_ tutorStore        = (*repositories.TutorRepository)(nil)
	_ studentStore      = (*repositories.StudentRepository)(nil)
	_ groupStore        = (*repositories.GroupRepository)(nil)
	_ progressStore     = (*repositories.ProgressRepository)(nil)
	_ ratingStore       = (*repositories.RatingRepository)(nil)
	_ announcementStore = (*repositories.AnnouncementRepository)(nil)
	_ messageStore      = (*repositories.MessageRepository)(nil)
	_ dashboardStore    = (*repositories.DashboardRepository)(nil)
)
