package controllers

import (
	"net/http"
	"strings"

	"github.com/empatecerca/api/internal/app/models"
	"github.com/empatecerca/api/internal/app/models/dto"
	"github.com/empatecerca/api/internal/app/services"
	"github.com/empatecerca/api/internal/middleware"
	"github.com/empatecerca/api/internal/pkg/helpers"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// VolunteerController handles volunteer profile operations
type VolunteerController struct {
	volunteerService services.VolunteerService
	logger           zerolog.Logger
}

// NewVolunteerController creates a new VolunteerController
func NewVolunteerController(volunteerService services.VolunteerService, logger zerolog.Logger) *VolunteerController {
	return &VolunteerController{
		volunteerService: volunteerService,
		logger:           logger,
	}
}

// GetAllVolunteers lists volunteers
// @Summary List volunteers
// @Tags volunteers
// @Produce json
// @Security BearerAuth
// @Param status query string false "ACTIVE or INACTIVE"
// @Param disciplineId query int false "Filter by discipline"
// @Param search query string false "Matches name, email or DNI"
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(10)
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse{items=[]models.Volunteer}}
// @Failure 400 {object} dto.ErrorResponse "Invalid filter"
// @Router /volunteers [get]
func (c *VolunteerController) GetAllVolunteers(ctx *gin.Context) {
	filter := dto.VolunteerListFilter{Search: strings.TrimSpace(ctx.Query("search"))}
	filter.Page, filter.Size = helpers.ParsePaginationParams(ctx)

	if raw := ctx.Query("status"); raw != "" {
		status := models.VolunteerStatus(strings.ToUpper(raw))
		if status != models.VolunteerActive && status != models.VolunteerInactive {
			middleware.RejectQuery(ctx, "status", "status must be ACTIVE or INACTIVE")
			return
		}
		filter.Status = &status
	}

	var ok bool
	if filter.DisciplineID, ok = optionalInt64Query(ctx, "disciplineId"); !ok {
		return
	}

	result, err := c.volunteerService.List(ctx.Request.Context(), filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, result, "")
}

// GetVolunteerByID retrieves a volunteer
// @Summary Get volunteer by ID
// @Tags volunteers
// @Produce json
// @Security BearerAuth
// @Param id path int true "Volunteer ID"
// @Success 200 {object} dto.APIResponse{data=models.Volunteer}
// @Failure 404 {object} dto.ErrorResponse "Volunteer not found"
// @Router /volunteers/{id} [get]
func (c *VolunteerController) GetVolunteerByID(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}

	volunteer, err := c.volunteerService.GetByID(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, volunteer, "")
}

// GetMyProfile returns the caller's volunteer profile
// @Summary Own volunteer profile
// @Tags volunteers
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=models.Volunteer}
// @Router /volunteers/me [get]
func (c *VolunteerController) GetMyProfile(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	volunteer, err := c.volunteerService.GetMe(ctx.Request.Context(), actor)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, volunteer, "")
}

// CreateVolunteer creates the account and the volunteer profile
// @Summary Create a volunteer
// @Tags volunteers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateVolunteerRequest true "Account and profile"
// @Success 201 {object} dto.APIResponse{data=models.Volunteer}
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Discipline not found"
// @Failure 409 {object} dto.ErrorResponse "Email or DNI already exists"
// @Router /volunteers [post]
func (c *VolunteerController) CreateVolunteer(ctx *gin.Context) {
	var req dto.CreateVolunteerRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	volunteer, err := c.volunteerService.Create(ctx.Request.Context(), &req)
	if err != nil {
		c.logger.Warn().Err(err).Str("email", req.Email).Msg("Failed to create volunteer")
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusCreated, volunteer, "Volunteer created successfully")
}

// UpdateVolunteer updates account and profile fields
// @Summary Update a volunteer
// @Tags volunteers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Volunteer ID"
// @Param request body dto.UpdateVolunteerRequest true "Account and profile"
// @Success 200 {object} dto.APIResponse{data=models.Volunteer}
// @Failure 404 {object} dto.ErrorResponse "Volunteer not found"
// @Failure 409 {object} dto.ErrorResponse "Email or DNI already exists"
// @Router /volunteers/{id} [put]
func (c *VolunteerController) UpdateVolunteer(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.UpdateVolunteerRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	volunteer, err := c.volunteerService.Update(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, volunteer, "Volunteer updated successfully")
}

// UpdateVolunteerStatus activates or deactivates a volunteer
// @Summary Change volunteer status
// @Description A reason is required when the status is INACTIVE
// @Tags volunteers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Volunteer ID"
// @Param request body dto.UpdateVolunteerStatusRequest true "Status and reason"
// @Success 200 {object} dto.APIResponse{data=models.Volunteer}
// @Failure 400 {object} dto.ErrorResponse "Missing reason"
// @Failure 404 {object} dto.ErrorResponse "Volunteer not found"
// @Router /volunteers/{id}/status [patch]
func (c *VolunteerController) UpdateVolunteerStatus(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.UpdateVolunteerStatusRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	volunteer, err := c.volunteerService.UpdateStatus(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, volunteer, "Volunteer status updated")
}

// DeleteVolunteer deletes a volunteer and its account
// @Summary Delete a volunteer
// @Tags volunteers
// @Produce json
// @Security BearerAuth
// @Param id path int true "Volunteer ID"
// @Success 200 {object} dto.APIResponse "Volunteer deleted successfully"
// @Failure 404 {object} dto.ErrorResponse "Volunteer not found"
// @Failure 409 {object} dto.ErrorResponse "Volunteer has progress records"
// @Router /volunteers/{id} [delete]
func (c *VolunteerController) DeleteVolunteer(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.volunteerService.Delete(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, nil, "Volunteer deleted successfully")
}

// ReplaceAvailability replaces the weekly availability of a volunteer
// @Summary Replace volunteer availability
// @Description Full replace; an empty list clears the availability. Admin or the volunteer themself.
// @Tags volunteers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Volunteer ID"
// @Param request body dto.ReplaceSlotsRequest true "Availability slots"
// @Success 200 {object} dto.APIResponse{data=[]models.TimeSlot} "Stored slots, sorted"
// @Failure 400 {object} dto.ErrorResponse "Invalid or overlapping slots"
// @Failure 403 {object} dto.ErrorResponse "Not your profile"
// @Router /volunteers/{id}/availability [put]
func (c *VolunteerController) ReplaceAvailability(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.ReplaceSlotsRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	slots, err := c.volunteerService.ReplaceAvailability(ctx.Request.Context(), actor, id, req.Slots)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, slots, "Availability updated")
}

// ReplaceGroups replaces the groups a volunteer teaches
// @Summary Replace volunteer groups
// @Description Full replace; an empty list removes the volunteer from every group
// @Tags volunteers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Volunteer ID"
// @Param request body dto.ReplaceVolunteerGroupsRequest true "Group IDs"
// @Success 200 {object} dto.APIResponse{data=[]int64} "Stored group IDs"
// @Failure 404 {object} dto.ErrorResponse "Volunteer or group not found"
// @Router /volunteers/{id}/groups [put]
func (c *VolunteerController) ReplaceGroups(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.ReplaceVolunteerGroupsRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	groupIDs, err := c.volunteerService.ReplaceGroups(ctx.Request.Context(), id, req.GroupIDs)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, groupIDs, "Groups updated")
}

// GetVolunteerRatings lists the ratings of a volunteer with their summary
// @Summary Volunteer ratings
// @Tags volunteers
// @Produce json
// @Security BearerAuth
// @Param id path int true "Volunteer ID"
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(10)
// @Success 200 {object} dto.APIResponse{data=dto.VolunteerRatingsResponse}
// @Failure 403 {object} dto.ErrorResponse "Admin or the volunteer themself only"
// @Router /volunteers/{id}/ratings [get]
func (c *VolunteerController) GetVolunteerRatings(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}
	page, size := helpers.ParsePaginationParams(ctx)

	ratings, err := c.volunteerService.Ratings(ctx.Request.Context(), actor, id, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, ratings, "")
}
