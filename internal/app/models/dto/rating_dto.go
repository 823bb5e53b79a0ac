package dto

// CreateRatingRequest is a tutor's rating of a volunteer
type CreateRatingRequest struct {
	VolunteerID int64   `json:"volunteerId" binding:"required,gt=0" example:"2"`
	Score       int     `json:"score" binding:"required,min=1,max=5" example:"5"`
	Feedback    *string `json:"feedback" binding:"omitempty,max=1000"`
}
