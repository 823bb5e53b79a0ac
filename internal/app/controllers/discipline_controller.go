package controllers

import (
	"net/http"

	"github.com/empatecerca/api/internal/app/models/dto"
	"github.com/empatecerca/api/internal/app/services"
	"github.com/empatecerca/api/internal/middleware"
	"github.com/empatecerca/api/internal/pkg/helpers"
	"github.com/gin-gonic/gin"
)

// DisciplineController handles discipline-related operations
type DisciplineController struct {
	disciplineService services.DisciplineService
}

// NewDisciplineController creates a new DisciplineController
func NewDisciplineController(disciplineService services.DisciplineService) *DisciplineController {
	return &DisciplineController{
		disciplineService: disciplineService,
	}
}

// CreateDiscipline handles discipline creation
// @Summary Create a discipline
// @Tags disciplines
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.DisciplineRequest true "Discipline information"
// @Success 201 {object} dto.APIResponse{data=models.Discipline} "Discipline created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - Admin only"
// @Failure 409 {object} dto.ErrorResponse "Discipline already exists"
// @Router /disciplines [post]
func (c *DisciplineController) CreateDiscipline(ctx *gin.Context) {
	var req dto.DisciplineRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	discipline, err := c.disciplineService.Create(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusCreated, discipline, "Discipline created successfully")
}

// GetDisciplineByID retrieves a discipline by ID
// @Summary Get discipline by ID
// @Tags disciplines
// @Produce json
// @Security BearerAuth
// @Param id path int true "Discipline ID"
// @Success 200 {object} dto.APIResponse{data=models.Discipline}
// @Failure 400 {object} dto.ErrorResponse "Invalid discipline ID"
// @Failure 404 {object} dto.ErrorResponse "Discipline not found"
// @Router /disciplines/{id} [get]
func (c *DisciplineController) GetDisciplineByID(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}

	discipline, err := c.disciplineService.GetByID(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, discipline, "")
}

// GetAllDisciplines lists disciplines
// @Summary List disciplines
// @Tags disciplines
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(10)
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse{items=[]models.Discipline}}
// @Router /disciplines [get]
func (c *DisciplineController) GetAllDisciplines(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)

	result, err := c.disciplineService.List(ctx.Request.Context(), page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, result, "")
}

// UpdateDiscipline updates a discipline
// @Summary Update a discipline
// @Tags disciplines
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Discipline ID"
// @Param request body dto.DisciplineRequest true "Discipline information"
// @Success 200 {object} dto.APIResponse{data=models.Discipline}
// @Failure 404 {object} dto.ErrorResponse "Discipline not found"
// @Failure 409 {object} dto.ErrorResponse "Discipline already exists"
// @Router /disciplines/{id} [put]
func (c *DisciplineController) UpdateDiscipline(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.DisciplineRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	discipline, err := c.disciplineService.Update(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, discipline, "Discipline updated successfully")
}

// DeleteDiscipline deletes a discipline that nothing references
// @Summary Delete a discipline
// @Tags disciplines
// @Produce json
// @Security BearerAuth
// @Param id path int true "Discipline ID"
// @Success 200 {object} dto.APIResponse "Discipline deleted successfully"
// @Failure 404 {object} dto.ErrorResponse "Discipline not found"
// @Failure 409 {object} dto.ErrorResponse "Discipline is in use"
// @Router /disciplines/{id} [delete]
func (c *DisciplineController) DeleteDiscipline(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.disciplineService.Delete(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, nil, "Discipline deleted successfully")
}
