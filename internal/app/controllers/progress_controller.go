package controllers

import (
	"net/http"

	"github.com/empatecerca/api/internal/app/models/dto"
	"github.com/empatecerca/api/internal/app/services"
	"github.com/empatecerca/api/internal/middleware"
	"github.com/empatecerca/api/internal/pkg/helpers"
	"github.com/gin-gonic/gin"
)

// ProgressController handles progress record operations
type ProgressController struct {
	progressService services.ProgressService
}

// NewProgressController creates a new ProgressController
func NewProgressController(progressService services.ProgressService) *ProgressController {
	return &ProgressController{progressService: progressService}
}

// RecordProgress records or overwrites the progress of a student for a date
// @Summary Record progress
// @Description One record per student and date; a second submission overwrites the first. Admins must give volunteerId.
// @Tags progress
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.RecordProgressRequest true "Progress data"
// @Success 201 {object} dto.APIResponse{data=models.ProgressRecord} "Record created"
// @Success 200 {object} dto.APIResponse{data=models.ProgressRecord} "Record overwritten"
// @Failure 400 {object} dto.ErrorResponse "Invalid date"
// @Failure 403 {object} dto.ErrorResponse "Volunteer does not teach the student's group"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /progress [post]
func (c *ProgressController) RecordProgress(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	var req dto.RecordProgressRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	record, created, err := c.progressService.Record(ctx.Request.Context(), actor, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if created {
		respond(ctx, http.StatusCreated, record, "Progress recorded")
		return
	}
	respond(ctx, http.StatusOK, record, "Progress updated")
}

// UpdateProgress edits a progress record
// @Summary Update progress
// @Tags progress
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Progress record ID"
// @Param request body dto.UpdateProgressRequest true "Progress data"
// @Success 200 {object} dto.APIResponse{data=models.ProgressRecord}
// @Failure 403 {object} dto.ErrorResponse "Not the owning volunteer"
// @Failure 404 {object} dto.ErrorResponse "Progress record not found"
// @Router /progress/{id} [put]
func (c *ProgressController) UpdateProgress(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.UpdateProgressRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	record, err := c.progressService.Update(ctx.Request.Context(), actor, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, record, "Progress updated")
}

// DeleteProgress deletes a progress record
// @Summary Delete progress
// @Tags progress
// @Produce json
// @Security BearerAuth
// @Param id path int true "Progress record ID"
// @Success 200 {object} dto.APIResponse "Progress deleted"
// @Failure 403 {object} dto.ErrorResponse "Not the owning volunteer"
// @Failure 404 {object} dto.ErrorResponse "Progress record not found"
// @Router /progress/{id} [delete]
func (c *ProgressController) DeleteProgress(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.progressService.Delete(ctx.Request.Context(), actor, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, nil, "Progress deleted")
}

// GetAllProgress lists progress records
// @Summary List progress
// @Tags progress
// @Produce json
// @Security BearerAuth
// @Param studentId query int false "Filter by student"
// @Param volunteerId query int false "Filter by volunteer"
// @Param from query string false "From date (YYYY-MM-DD)"
// @Param to query string false "To date (YYYY-MM-DD)"
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(10)
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse{items=[]models.ProgressRecord}}
// @Router /progress [get]
func (c *ProgressController) GetAllProgress(ctx *gin.Context) {
	var filter dto.ProgressFilter
	filter.Page, filter.Size = helpers.ParsePaginationParams(ctx)

	var ok bool
	if filter.StudentID, ok = optionalInt64Query(ctx, "studentId"); !ok {
		return
	}
	if filter.VolunteerID, ok = optionalInt64Query(ctx, "volunteerId"); !ok {
		return
	}
	if !parseDateRange(ctx, &filter) {
		return
	}

	result, err := c.progressService.List(ctx.Request.Context(), filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, result, "")
}
