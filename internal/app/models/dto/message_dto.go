package dto

import "github.com/empatecerca/api/internal/app/models"

// SendMessageRequest sends a direct message to another account
type SendMessageRequest struct {
	RecipientID int64   `json:"recipientId" binding:"required,gt=0" example:"12"`
	Subject     *string `json:"subject" binding:"omitempty,max=200"`
	Content     string  `json:"content" binding:"required,max=5000"`
}

// ContactResponse is an account the caller is allowed to message
type ContactResponse struct {
	UserID   int64           `json:"userId"`
	FullName string          `json:"fullName"`
	Email    string          `json:"email"`
	RoleType models.RoleType `json:"roleType"`
}
