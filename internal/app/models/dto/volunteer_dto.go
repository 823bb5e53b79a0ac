package dto

import "github.com/empatecerca/api/internal/app/models"

// CreateVolunteerRequest creates the account and the volunteer profile together
type CreateVolunteerRequest struct {
	CreateAccountRequest
	DisciplineID *int64            `json:"disciplineId" binding:"omitempty,gt=0" example:"2"`
	Availability []models.TimeSlot `json:"availability" binding:"omitempty,dive"`
}

// UpdateVolunteerRequest updates account and profile fields
type UpdateVolunteerRequest struct {
	UpdateAccountRequest
	DisciplineID *int64 `json:"disciplineId" binding:"omitempty,gt=0"`
}

// UpdateVolunteerStatusRequest toggles a volunteer between ACTIVE and INACTIVE
type UpdateVolunteerStatusRequest struct {
	Status models.VolunteerStatus `json:"status" binding:"required,oneof=ACTIVE INACTIVE" example:"INACTIVE"`
	Reason *string                `json:"reason" binding:"omitempty,max=500" example:"On leave until March"`
}

// ReplaceSlotsRequest replaces a weekly slot list; an empty list clears it
type ReplaceSlotsRequest struct {
	Slots []models.TimeSlot `json:"slots" binding:"required,dive"`
}

// ReplaceVolunteerGroupsRequest replaces the groups a volunteer teaches
type ReplaceVolunteerGroupsRequest struct {
	GroupIDs []int64 `json:"groupIds" binding:"required,dive,gt=0" example:"1,4"`
}

// VolunteerListFilter holds the query filters of GET /volunteers
type VolunteerListFilter struct {
	Status       *models.VolunteerStatus
	DisciplineID *int64
	Search       string
	Page         int
	Size         int
}

// VolunteerRatingsResponse lists the ratings of a volunteer with their summary
type VolunteerRatingsResponse struct {
	Summary    models.RatingSummary `json:"summary"`
	Ratings    []*models.Rating     `json:"ratings"`
	Pagination PaginationInfo       `json:"pagination"`
}
