package dto

// DisciplineRequest creates or updates a discipline
type DisciplineRequest struct {
	Name        string  `json:"name" binding:"required,max=100" example:"Ajedrez"`
	Description *string `json:"description" binding:"omitempty,max=500"`
}
