package models

import "time"

// Tutor is the guardian of one or more students, backed by a user account with role TUTOR
type Tutor struct {
	ID           int64     `json:"id" db:"id"`
	UserID       int64     `json:"userId" db:"user_id"`
	Address      *string   `json:"address,omitempty" db:"address"`
	Relationship *string   `json:"relationship,omitempty" db:"relationship"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`

	User         *User `json:"user,omitempty"`
	StudentCount int   `json:"studentCount"`
}
