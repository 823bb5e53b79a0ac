package models

import "time"

// Group is a scheduled activity cohort tied to one discipline
type Group struct {
	ID           int64     `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	DisciplineID int64     `json:"disciplineId" db:"discipline_id"`
	MaxMembers   int       `json:"maxMembers" db:"max_members"`
	Location     *string   `json:"location,omitempty" db:"location"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`

	// Derived from the students table, never stored
	MemberCount  int        `json:"memberCount"`
	Schedule     []TimeSlot `json:"schedule"`
	VolunteerIDs []int64    `json:"volunteerIds"`
}

// IsFull reports whether the group cannot take another student
func (g *Group) IsFull() bool {
	return g.MemberCount >= g.MaxMembers
}
