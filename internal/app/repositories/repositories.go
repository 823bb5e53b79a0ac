package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository         *UserRepository
	TokenRepository        *TokenRepository
	DisciplineRepository   *DisciplineRepository
	VolunteerRepository    *VolunteerRepository
	TutorRepository        *TutorRepository
	StudentRepository      *StudentRepository
	GroupRepository        *GroupRepository
	ProgressRepository     *ProgressRepository
	RatingRepository       *RatingRepository
	AnnouncementRepository *AnnouncementRepository
	MessageRepository      *MessageRepository
	ScopeRepository        *ScopeRepository
	DashboardRepository    *DashboardRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:         NewUserRepository(db),
		TokenRepository:        NewTokenRepository(db),
		DisciplineRepository:   NewDisciplineRepository(db),
		VolunteerRepository:    NewVolunteerRepository(db),
		TutorRepository:        NewTutorRepository(db),
		StudentRepository:      NewStudentRepository(db),
		GroupRepository:        NewGroupRepository(db),
		ProgressRepository:     NewProgressRepository(db),
		RatingRepository:       NewRatingRepository(db),
		AnnouncementRepository: NewAnnouncementRepository(db),
		MessageRepository:      NewMessageRepository(db),
		ScopeRepository:        NewScopeRepository(db),
		DashboardRepository:    NewDashboardRepository(db),
	}
}
