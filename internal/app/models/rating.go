package models

import "time"

// Rating is a tutor-authored score for a volunteer
type Rating struct {
	ID          int64     `json:"id" db:"id"`
	TutorID     int64     `json:"tutorId" db:"tutor_id"`
	VolunteerID int64     `json:"volunteerId" db:"volunteer_id"`
	Score       int       `json:"score" db:"score"`
	Feedback    *string   `json:"feedback,omitempty" db:"feedback"`
	RatedAt     time.Time `json:"ratedAt" db:"rated_at"`
}

// RatingSummary aggregates the ratings of a volunteer
type RatingSummary struct {
	VolunteerID int64   `json:"volunteerId"`
	Count       int     `json:"count"`
	Average     float64 `json:"average"`
}
