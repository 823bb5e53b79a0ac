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
)

// StudentController handles student operations
type StudentController struct {
	studentService services.StudentService
}

// NewStudentController creates a new StudentController
func NewStudentController(studentService services.StudentService) *StudentController {
	return &StudentController{studentService: studentService}
}

// GetAllStudents lists the students visible to the caller
// @Summary List students
// @Description Admins see every student, tutors their own, volunteers those in their groups
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param groupId query int false "Filter by group"
// @Param tutorId query int false "Filter by tutor"
// @Param disciplineId query int false "Filter by discipline"
// @Param search query string false "Matches name or DNI"
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(10)
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse{items=[]models.Student}}
// @Router /students [get]
func (c *StudentController) GetAllStudents(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	filter := dto.StudentListFilter{Search: strings.TrimSpace(ctx.Query("search"))}
	filter.Page, filter.Size = helpers.ParsePaginationParams(ctx)
	if filter.GroupID, ok = optionalInt64Query(ctx, "groupId"); !ok {
		return
	}
	if filter.TutorID, ok = optionalInt64Query(ctx, "tutorId"); !ok {
		return
	}
	if filter.DisciplineID, ok = optionalInt64Query(ctx, "disciplineId"); !ok {
		return
	}

	result, err := c.studentService.List(ctx.Request.Context(), actor, filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, result, "")
}

// GetStudentByID retrieves a student visible to the caller
// @Summary Get student by ID
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Success 200 {object} dto.APIResponse{data=models.Student}
// @Failure 403 {object} dto.ErrorResponse "Student outside the caller's scope"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/{id} [get]
func (c *StudentController) GetStudentByID(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}

	student, err := c.studentService.GetByID(ctx.Request.Context(), actor, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, student, "")
}

// CreateStudent registers a student
// @Summary Create a student
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateStudentRequest true "Student data"
// @Success 201 {object} dto.APIResponse{data=models.Student}
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Tutor, discipline or group not found"
// @Failure 409 {object} dto.ErrorResponse "DNI exists, group full or discipline mismatch"
// @Router /students [post]
func (c *StudentController) CreateStudent(ctx *gin.Context) {
	var req dto.CreateStudentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	student, err := c.studentService.Create(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusCreated, student, "Student created successfully")
}

// UpdateStudent updates the personal data of a student
// @Summary Update a student
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Param request body dto.UpdateStudentRequest true "Student data"
// @Success 200 {object} dto.APIResponse{data=models.Student}
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/{id} [put]
func (c *StudentController) UpdateStudent(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.UpdateStudentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	student, err := c.studentService.Update(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, student, "Student updated successfully")
}

// UpdateMedicalRecord replaces the medical record of a student
// @Summary Update medical record
// @Description Admin or the student's tutor
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Param request body models.MedicalRecord true "Medical record"
// @Success 200 {object} dto.APIResponse{data=models.Student}
// @Failure 403 {object} dto.ErrorResponse "Not the student's tutor"
// @Router /students/{id}/medical [put]
func (c *StudentController) UpdateMedicalRecord(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}
	var medical models.MedicalRecord
	if !middleware.BindJSON(ctx, &medical) {
		return
	}

	student, err := c.studentService.UpdateMedical(ctx.Request.Context(), actor, id, &medical)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, student, "Medical record updated")
}

// AssignGroup moves a student into a group or out of any group
// @Summary Assign student to group
// @Description groupId null removes the student from its group. Capacity and discipline are checked.
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Param request body dto.AssignGroupRequest true "Target group"
// @Success 200 {object} dto.APIResponse{data=models.Student}
// @Failure 404 {object} dto.ErrorResponse "Student or group not found"
// @Failure 409 {object} dto.ErrorResponse "Group full or discipline mismatch"
// @Router /students/{id}/group [put]
func (c *StudentController) AssignGroup(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.AssignGroupRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	student, err := c.studentService.AssignGroup(ctx.Request.Context(), id, req.GroupID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, student, "Group assignment updated")
}

// DeleteStudent deletes a student and its progress records
// @Summary Delete a student
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Success 200 {object} dto.APIResponse "Student deleted successfully"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/{id} [delete]
func (c *StudentController) DeleteStudent(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.studentService.Delete(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, nil, "Student deleted successfully")
}

// GetStudentProgress lists the progress records of a student
// @Summary Student progress
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Param from query string false "From date (YYYY-MM-DD)"
// @Param to query string false "To date (YYYY-MM-DD)"
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(10)
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse{items=[]models.ProgressRecord}}
// @Failure 403 {object} dto.ErrorResponse "Student outside the caller's scope"
// @Router /students/{id}/progress [get]
func (c *StudentController) GetStudentProgress(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}

	var filter dto.ProgressFilter
	filter.Page, filter.Size = helpers.ParsePaginationParams(ctx)
	if !parseDateRange(ctx, &filter) {
		return
	}

	result, err := c.studentService.Progress(ctx.Request.Context(), actor, id, filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, result, "")
}

// parseDateRange reads the from/to query dates into filter or writes a 400
func parseDateRange(ctx *gin.Context, filter *dto.ProgressFilter) bool {
	var err error
	if filter.From, err = helpers.ParseOptionalDate(ctx.Query("from")); err != nil {
		middleware.RejectQuery(ctx, "from", "from must be a date formatted as YYYY-MM-DD")
		return false
	}
	if filter.To, err = helpers.ParseOptionalDate(ctx.Query("to")); err != nil {
		middleware.RejectQuery(ctx, "to", "to must be a date formatted as YYYY-MM-DD")
		return false
	}
	return true
}
