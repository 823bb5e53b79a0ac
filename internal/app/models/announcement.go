package models

import "time"

// Audience selects which roles see an announcement
type Audience string

const (
	AudienceAll        Audience = "ALL"
	AudienceVolunteers Audience = "VOLUNTEERS"
	AudienceTutors     Audience = "TUTORS"
)

// Includes reports whether the given role is targeted by the audience
func (a Audience) Includes(role RoleType) bool {
	switch a {
	case AudienceAll:
		return true
	case AudienceVolunteers:
		return role == RoleVolunteer
	case AudienceTutors:
		return role == RoleTutor
	}
	return false
}

// Announcement is a broadcast message written by an admin
type Announcement struct {
	ID        int64     `json:"id" db:"id"`
	AuthorID  int64     `json:"authorId" db:"author_id"`
	Title     string    `json:"title" db:"title"`
	Content   string    `json:"content" db:"content"`
	Audience  Audience  `json:"audience" db:"audience"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	// Read state of the requesting user
	IsRead bool `json:"isRead"`
}
