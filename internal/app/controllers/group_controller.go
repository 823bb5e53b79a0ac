package controllers

import (
	"net/http"

	"github.com/empatecerca/api/internal/app/models/dto"
	"github.com/empatecerca/api/internal/app/services"
	"github.com/empatecerca/api/internal/middleware"
	"github.com/empatecerca/api/internal/pkg/helpers"
	"github.com/gin-gonic/gin"
)

// GroupController handles group operations
type GroupController struct {
	groupService services.GroupService
}

// NewGroupController creates a new GroupController
func NewGroupController(groupService services.GroupService) *GroupController {
	return &GroupController{groupService: groupService}
}

// GetAllGroups lists the groups visible to the caller
// @Summary List groups
// @Description Admins see every group, volunteers the groups they teach
// @Tags groups
// @Produce json
// @Security BearerAuth
// @Param disciplineId query int false "Filter by discipline"
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(10)
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse{items=[]models.Group}}
// @Router /groups [get]
func (c *GroupController) GetAllGroups(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	disciplineID, ok := optionalInt64Query(ctx, "disciplineId")
	if !ok {
		return
	}
	page, size := helpers.ParsePaginationParams(ctx)

	result, err := c.groupService.List(ctx.Request.Context(), actor, disciplineID, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, result, "")
}

// GetGroupByID retrieves a group visible to the caller
// @Summary Get group by ID
// @Tags groups
// @Produce json
// @Security BearerAuth
// @Param id path int true "Group ID"
// @Success 200 {object} dto.APIResponse{data=models.Group}
// @Failure 403 {object} dto.ErrorResponse "Group outside the caller's scope"
// @Failure 404 {object} dto.ErrorResponse "Group not found"
// @Router /groups/{id} [get]
func (c *GroupController) GetGroupByID(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}

	group, err := c.groupService.GetByID(ctx.Request.Context(), actor, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, group, "")
}

// CreateGroup creates a group
// @Summary Create a group
// @Tags groups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateGroupRequest true "Group data"
// @Success 201 {object} dto.APIResponse{data=models.Group}
// @Failure 400 {object} dto.ErrorResponse "Invalid schedule"
// @Failure 404 {object} dto.ErrorResponse "Discipline or volunteer not found"
// @Router /groups [post]
func (c *GroupController) CreateGroup(ctx *gin.Context) {
	var req dto.CreateGroupRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	group, err := c.groupService.Create(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusCreated, group, "Group created successfully")
}

// UpdateGroup updates a group
// @Summary Update a group
// @Tags groups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Group ID"
// @Param request body dto.UpdateGroupRequest true "Group data"
// @Success 200 {object} dto.APIResponse{data=models.Group}
// @Failure 404 {object} dto.ErrorResponse "Group not found"
// @Failure 409 {object} dto.ErrorResponse "Max members below current member count"
// @Router /groups/{id} [put]
func (c *GroupController) UpdateGroup(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.UpdateGroupRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	group, err := c.groupService.Update(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, group, "Group updated successfully")
}

// DeleteGroup deletes a group; its students are left without a group
// @Summary Delete a group
// @Tags groups
// @Produce json
// @Security BearerAuth
// @Param id path int true "Group ID"
// @Success 200 {object} dto.APIResponse "Group deleted successfully"
// @Failure 404 {object} dto.ErrorResponse "Group not found"
// @Router /groups/{id} [delete]
func (c *GroupController) DeleteGroup(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.groupService.Delete(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, nil, "Group deleted successfully")
}

// ReplaceSchedule replaces the weekly schedule of a group
// @Summary Replace group schedule
// @Description Full replace; an empty list clears the schedule
// @Tags groups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Group ID"
// @Param request body dto.ReplaceSlotsRequest true "Schedule slots"
// @Success 200 {object} dto.APIResponse{data=[]models.TimeSlot} "Stored slots, sorted"
// @Failure 400 {object} dto.ErrorResponse "Invalid or overlapping slots"
// @Failure 404 {object} dto.ErrorResponse "Group not found"
// @Router /groups/{id}/schedule [put]
func (c *GroupController) ReplaceSchedule(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.ReplaceSlotsRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	slots, err := c.groupService.ReplaceSchedule(ctx.Request.Context(), id, req.Slots)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, slots, "Schedule updated")
}

// ReplaceVolunteers replaces the volunteers assigned to a group
// @Summary Replace group volunteers
// @Description Full replace; an empty list unassigns every volunteer
// @Tags groups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Group ID"
// @Param request body dto.ReplaceGroupVolunteersRequest true "Volunteer IDs"
// @Success 200 {object} dto.APIResponse{data=[]int64} "Stored volunteer IDs"
// @Failure 404 {object} dto.ErrorResponse "Group or volunteer not found"
// @Router /groups/{id}/volunteers [put]
func (c *GroupController) ReplaceVolunteers(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.ReplaceGroupVolunteersRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	volunteerIDs, err := c.groupService.ReplaceVolunteers(ctx.Request.Context(), id, req.VolunteerIDs)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, volunteerIDs, "Volunteers updated")
}

// GetGroupStudents lists the members of a group
// @Summary Group students
// @Tags groups
// @Produce json
// @Security BearerAuth
// @Param id path int true "Group ID"
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(10)
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse{items=[]models.Student}}
// @Failure 403 {object} dto.ErrorResponse "Group outside the caller's scope"
// @Router /groups/{id}/students [get]
func (c *GroupController) GetGroupStudents(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}
	page, size := helpers.ParsePaginationParams(ctx)

	result, err := c.groupService.Students(ctx.Request.Context(), actor, id, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, result, "")
}
