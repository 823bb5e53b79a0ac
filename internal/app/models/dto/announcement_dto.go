package dto

import "github.com/empatecerca/api/internal/app/models"

// CreateAnnouncementRequest publishes an announcement to an audience
type CreateAnnouncementRequest struct {
	Title    string          `json:"title" binding:"required,max=200" example:"Cierre por feriado"`
	Content  string          `json:"content" binding:"required,max=5000"`
	Audience models.Audience `json:"audience" binding:"required,oneof=ALL VOLUNTEERS TUTORS" example:"ALL"`
}
