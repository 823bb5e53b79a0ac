package controllers

import (
	"net/http"
	"strings"

	"github.com/empatecerca/api/internal/app/models/dto"
	"github.com/empatecerca/api/internal/app/services"
	"github.com/empatecerca/api/internal/middleware"
	"github.com/empatecerca/api/internal/pkg/helpers"
	"github.com/gin-gonic/gin"
)

// TutorController handles tutor profile operations
type TutorController struct {
	tutorService services.TutorService
}

// NewTutorController creates a new TutorController
func NewTutorController(tutorService services.TutorService) *TutorController {
	return &TutorController{tutorService: tutorService}
}

// GetAllTutors lists tutors
// @Summary List tutors
// @Tags tutors
// @Produce json
// @Security BearerAuth
// @Param search query string false "Matches name, email or DNI"
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(10)
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse{items=[]models.Tutor}}
// @Router /tutors [get]
func (c *TutorController) GetAllTutors(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)

	result, err := c.tutorService.List(ctx.Request.Context(), strings.TrimSpace(ctx.Query("search")), page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, result, "")
}

// GetTutorByID retrieves a tutor
// @Summary Get tutor by ID
// @Tags tutors
// @Produce json
// @Security BearerAuth
// @Param id path int true "Tutor ID"
// @Success 200 {object} dto.APIResponse{data=models.Tutor}
// @Failure 404 {object} dto.ErrorResponse "Tutor not found"
// @Router /tutors/{id} [get]
func (c *TutorController) GetTutorByID(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}

	tutor, err := c.tutorService.GetByID(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, tutor, "")
}

// GetMyProfile returns the caller's tutor profile
// @Summary Own tutor profile
// @Tags tutors
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=models.Tutor}
// @Router /tutors/me [get]
func (c *TutorController) GetMyProfile(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	tutor, err := c.tutorService.GetMe(ctx.Request.Context(), actor)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, tutor, "")
}

// CreateTutor creates the account and the tutor profile
// @Summary Create a tutor
// @Tags tutors
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateTutorRequest true "Account and profile"
// @Success 201 {object} dto.APIResponse{data=models.Tutor}
// @Failure 409 {object} dto.ErrorResponse "Email or DNI already exists"
// @Router /tutors [post]
func (c *TutorController) CreateTutor(ctx *gin.Context) {
	var req dto.CreateTutorRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	tutor, err := c.tutorService.Create(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusCreated, tutor, "Tutor created successfully")
}

// UpdateTutor updates account and profile fields
// @Summary Update a tutor
// @Tags tutors
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Tutor ID"
// @Param request body dto.UpdateTutorRequest true "Account and profile"
// @Success 200 {object} dto.APIResponse{data=models.Tutor}
// @Failure 404 {object} dto.ErrorResponse "Tutor not found"
// @Router /tutors/{id} [put]
func (c *TutorController) UpdateTutor(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.UpdateTutorRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	tutor, err := c.tutorService.Update(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, tutor, "Tutor updated successfully")
}

// DeleteTutor deletes a tutor without students
// @Summary Delete a tutor
// @Tags tutors
// @Produce json
// @Security BearerAuth
// @Param id path int true "Tutor ID"
// @Success 200 {object} dto.APIResponse "Tutor deleted successfully"
// @Failure 404 {object} dto.ErrorResponse "Tutor not found"
// @Failure 409 {object} dto.ErrorResponse "Tutor has students"
// @Router /tutors/{id} [delete]
func (c *TutorController) DeleteTutor(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.tutorService.Delete(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, nil, "Tutor deleted successfully")
}
