package dto

import "github.com/empatecerca/api/internal/app/models"

// CreateStudentRequest registers a student under a tutor
type CreateStudentRequest struct {
	FirstName    string                `json:"firstName" binding:"required,max=100" example:"Mateo"`
	LastName     string                `json:"lastName" binding:"required,max=100" example:"Pérez"`
	DNI          string                `json:"dni" binding:"required,dni" example:"52123456"`
	BirthDate    string                `json:"birthDate" binding:"required,datetime=2006-01-02" example:"2015-06-21"`
	TutorID      int64                 `json:"tutorId" binding:"required,gt=0" example:"3"`
	DisciplineID *int64                `json:"disciplineId" binding:"omitempty,gt=0"`
	GroupID      *int64                `json:"groupId" binding:"omitempty,gt=0"`
	Medical      *models.MedicalRecord `json:"medical"`
}

// UpdateStudentRequest updates the personal data of a student.
// Group membership changes go through AssignGroupRequest.
type UpdateStudentRequest struct {
	FirstName    string `json:"firstName" binding:"required,max=100"`
	LastName     string `json:"lastName" binding:"required,max=100"`
	DNI          string `json:"dni" binding:"required,dni"`
	BirthDate    string `json:"birthDate" binding:"required,datetime=2006-01-02"`
	TutorID      int64  `json:"tutorId" binding:"required,gt=0"`
	DisciplineID *int64 `json:"disciplineId" binding:"omitempty,gt=0"`
}

// AssignGroupRequest moves a student into a group, or out of any group when groupId is null
type AssignGroupRequest struct {
	GroupID *int64 `json:"groupId" binding:"omitempty,gt=0" example:"4"`
}

// StudentListFilter holds the query filters of GET /students.
// TaughtBy restricts the result to groups of one volunteer and is set by the
// service from the caller, never from the query string.
type StudentListFilter struct {
	GroupID      *int64
	TutorID      *int64
	DisciplineID *int64
	TaughtBy     *int64
	Search       string
	Page         int
	Size         int
}
