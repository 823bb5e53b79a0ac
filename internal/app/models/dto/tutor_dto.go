package dto

// CreateTutorRequest creates the account and the tutor profile together
type CreateTutorRequest struct {
	CreateAccountRequest
	Address      *string `json:"address" binding:"omitempty,max=255"`
	Relationship *string `json:"relationship" binding:"omitempty,max=50" example:"MOTHER"`
}

// UpdateTutorRequest updates account and profile fields
type UpdateTutorRequest struct {
	UpdateAccountRequest
	Address      *string `json:"address" binding:"omitempty,max=255"`
	Relationship *string `json:"relationship" binding:"omitempty,max=50"`
}
