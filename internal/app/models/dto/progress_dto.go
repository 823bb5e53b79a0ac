package dto

import (
	"time"

	"github.com/empatecerca/api/internal/app/models"
)

// RecordProgressRequest records attendance and performance of a student for a date.
// A second submission for the same student and date overwrites the first.
// VolunteerID is only read when an admin records on behalf of a volunteer.
type RecordProgressRequest struct {
	StudentID   int64               `json:"studentId" binding:"required,gt=0" example:"7"`
	VolunteerID *int64              `json:"volunteerId" binding:"omitempty,gt=0"`
	RecordDate  string              `json:"recordDate" binding:"required,datetime=2006-01-02" example:"2024-05-13"`
	Attended    *bool               `json:"attended" binding:"required" example:"true"`
	Performance *models.Performance `json:"performance" binding:"omitempty,oneof=EXCELLENT GOOD FAIR NEEDS_IMPROVEMENT"`
	Activities  *string             `json:"activities" binding:"omitempty,max=2000"`
	Notes       *string             `json:"notes" binding:"omitempty,max=2000"`
}

// UpdateProgressRequest edits an existing progress record
type UpdateProgressRequest struct {
	Attended    *bool               `json:"attended" binding:"required"`
	Performance *models.Performance `json:"performance" binding:"omitempty,oneof=EXCELLENT GOOD FAIR NEEDS_IMPROVEMENT"`
	Activities  *string             `json:"activities" binding:"omitempty,max=2000"`
	Notes       *string             `json:"notes" binding:"omitempty,max=2000"`
}

// ProgressFilter narrows progress listings
type ProgressFilter struct {
	StudentID   *int64
	VolunteerID *int64
	From        *time.Time
	To          *time.Time
	Page        int
	Size        int
}
