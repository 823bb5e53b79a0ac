package models

import "time"

// VolunteerStatus is the activity status of a volunteer
type VolunteerStatus string

const (
	VolunteerActive   VolunteerStatus = "ACTIVE"
	VolunteerInactive VolunteerStatus = "INACTIVE"
)

// Volunteer is an activity instructor, backed by a user account with role VOLUNTEER
type Volunteer struct {
	ID             int64           `json:"id" db:"id"`
	UserID         int64           `json:"userId" db:"user_id"`
	DisciplineID   *int64          `json:"disciplineId,omitempty" db:"discipline_id"`
	Status         VolunteerStatus `json:"status" db:"status"`
	InactiveReason *string         `json:"inactiveReason,omitempty" db:"inactive_reason"`
	CreatedAt      time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time       `json:"updatedAt" db:"updated_at"`

	// Relations (populated when needed)
	User         *User       `json:"user,omitempty"`
	Discipline   *Discipline `json:"discipline,omitempty"`
	Availability []TimeSlot  `json:"availability"`
	GroupIDs     []int64     `json:"groupIds"`
}
