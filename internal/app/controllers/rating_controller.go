package controllers

import (
	"net/http"

	"github.com/empatecerca/api/internal/app/models/dto"
	"github.com/empatecerca/api/internal/app/services"
	"github.com/empatecerca/api/internal/middleware"
	"github.com/empatecerca/api/internal/pkg/helpers"
	"github.com/gin-gonic/gin"
)

// RatingController handles volunteer ratings
type RatingController struct {
	ratingService services.RatingService
}

// NewRatingController creates a new RatingController
func NewRatingController(ratingService services.RatingService) *RatingController {
	return &RatingController{ratingService: ratingService}
}

// CreateRating rates a volunteer
// @Summary Rate a volunteer
// @Description Tutors may rate volunteers who teach one of their students
// @Tags ratings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateRatingRequest true "Rating"
// @Success 201 {object} dto.APIResponse{data=models.Rating}
// @Failure 403 {object} dto.ErrorResponse "Volunteer does not teach the tutor's students"
// @Failure 404 {object} dto.ErrorResponse "Volunteer not found"
// @Router /ratings [post]
func (c *RatingController) CreateRating(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	var req dto.CreateRatingRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	rating, err := c.ratingService.Create(ctx.Request.Context(), actor, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusCreated, rating, "Rating saved")
}

// GetAllRatings lists ratings
// @Summary List ratings
// @Tags ratings
// @Produce json
// @Security BearerAuth
// @Param volunteerId query int false "Filter by volunteer"
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(10)
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse{items=[]models.Rating}}
// @Router /ratings [get]
func (c *RatingController) GetAllRatings(ctx *gin.Context) {
	volunteerID, ok := optionalInt64Query(ctx, "volunteerId")
	if !ok {
		return
	}
	page, size := helpers.ParsePaginationParams(ctx)

	result, err := c.ratingService.List(ctx.Request.Context(), volunteerID, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, result, "")
}
