package dto

// CreateAccountRequest carries the account fields shared by volunteer and tutor creation
type CreateAccountRequest struct {
	Email     string  `json:"email" binding:"required,email,max=255" example:"ana@empatecerca.org"`
	DNI       string  `json:"dni" binding:"required,dni" example:"40123456"`
	Password  string  `json:"password" binding:"required,min=8,max=72"`
	FirstName string  `json:"firstName" binding:"required,max=100" example:"Ana"`
	LastName  string  `json:"lastName" binding:"required,max=100" example:"García"`
	Phone     *string `json:"phone" binding:"omitempty,phone" example:"+54 11 5555 1234"`
}

// UpdateAccountRequest updates the account behind a volunteer or tutor
type UpdateAccountRequest struct {
	Email     string  `json:"email" binding:"required,email,max=255"`
	DNI       string  `json:"dni" binding:"required,dni"`
	FirstName string  `json:"firstName" binding:"required,max=100"`
	LastName  string  `json:"lastName" binding:"required,max=100"`
	Phone     *string `json:"phone" binding:"omitempty,phone"`
	IsActive  *bool   `json:"isActive"`
}
