package dto

import "github.com/empatecerca/api/internal/app/models"

// CreateGroupRequest creates a group with optional schedule and volunteers
type CreateGroupRequest struct {
	Name         string            `json:"name" binding:"required,max=100" example:"Ajedrez inicial"`
	DisciplineID int64             `json:"disciplineId" binding:"required,gt=0" example:"1"`
	MaxMembers   int               `json:"maxMembers" binding:"required,gt=0,lte=500" example:"12"`
	Location     *string           `json:"location" binding:"omitempty,max=255" example:"Aula 2"`
	Schedule     []models.TimeSlot `json:"schedule" binding:"omitempty,dive"`
	VolunteerIDs []int64           `json:"volunteerIds" binding:"omitempty,dive,gt=0"`
}

// UpdateGroupRequest updates the scalar fields of a group
type UpdateGroupRequest struct {
	Name         string  `json:"name" binding:"required,max=100"`
	DisciplineID int64   `json:"disciplineId" binding:"required,gt=0"`
	MaxMembers   int     `json:"maxMembers" binding:"required,gt=0,lte=500"`
	Location     *string `json:"location" binding:"omitempty,max=255"`
}

// ReplaceGroupVolunteersRequest replaces the volunteers assigned to a group
type ReplaceGroupVolunteersRequest struct {
	VolunteerIDs []int64 `json:"volunteerIds" binding:"required,dive,gt=0" example:"2,5"`
}
