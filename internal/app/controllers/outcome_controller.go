package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/obetrack/outcometrics/internal/app/models"
	"github.com/obetrack/outcometrics/internal/app/models/dto"
	"github.com/obetrack/outcometrics/internal/app/services"
	"github.com/obetrack/outcometrics/internal/middleware"
)

// OutcomeController handles learning outcomes, program outcomes and the
// links between them
type OutcomeController struct {
	outcomeService *services.OutcomeService
}

// NewOutcomeController creates a new OutcomeController
func NewOutcomeController(outcomeService *services.OutcomeService) *OutcomeController {
	return &OutcomeController{outcomeService: outcomeService}
}

// GetLearningOutcomes lists a course's learning outcomes
// @Summary List course learning outcomes
// @Description Retrieves the learning outcomes of a course ordered by code
// @Tags outcomes
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} dto.APIResponse{data=[]models.LearningOutcome} "Learning outcomes retrieved successfully"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses/{id}/outcomes [get]
func (c *OutcomeController) GetLearningOutcomes(ctx *gin.Context) {
	courseID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	outcomes, err := c.outcomeService.GetLearningOutcomesByCourse(ctx, courseID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      outcomes,
		Timestamp: time.Now(),
	})
}

// CreateLearningOutcome creates a learning outcome for a course
// @Summary Create a learning outcome
// @Description Creates a learning outcome; (course, code) must be unique
// @Tags outcomes
// @Accept json
// @Produce json
// @Param id path int true "Course ID"
// @Param request body models.LearningOutcome true "Learning outcome information"
// @Success 201 {object} dto.APIResponse{data=models.LearningOutcome} "Learning outcome created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 409 {object} dto.ErrorResponse "Learning outcome code already exists"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses/{id}/outcomes [post]
func (c *OutcomeController) CreateLearningOutcome(ctx *gin.Context) {
	courseID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var outcome models.LearningOutcome
	if err := ctx.ShouldBindJSON(&outcome); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid learning outcome data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}
	outcome.CourseID = courseID

	if err := c.outcomeService.CreateLearningOutcome(ctx, &outcome); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      outcome,
		Timestamp: time.Now(),
	})
}

// DeleteLearningOutcome deletes a learning outcome
// @Summary Delete a learning outcome
// @Description Deletes a learning outcome; its links and contribution edges cascade
// @Tags outcomes
// @Produce json
// @Param id path int true "Learning outcome ID"
// @Success 204 "Learning outcome deleted successfully"
// @Failure 404 {object} dto.ErrorResponse "Learning outcome not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /outcomes/{id} [delete]
func (c *OutcomeController) DeleteLearningOutcome(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.outcomeService.DeleteLearningOutcome(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusNoContent, dto.APIResponse{Timestamp: time.Now()})
}

// GetAllProgramOutcomes lists all program outcomes
// @Summary List program outcomes
// @Description Retrieves all program outcomes ordered by code
// @Tags outcomes
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]models.ProgramOutcome} "Program outcomes retrieved successfully"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /program-outcomes [get]
func (c *OutcomeController) GetAllProgramOutcomes(ctx *gin.Context) {
	outcomes, err := c.outcomeService.GetAllProgramOutcomes(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      outcomes,
		Timestamp: time.Now(),
	})
}

// CreateProgramOutcome creates a program outcome
// @Summary Create a program outcome
// @Description Creates a program-wide outcome
// @Tags outcomes
// @Accept json
// @Produce json
// @Param request body models.ProgramOutcome true "Program outcome information"
// @Success 201 {object} dto.APIResponse{data=models.ProgramOutcome} "Program outcome created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /program-outcomes [post]
func (c *OutcomeController) CreateProgramOutcome(ctx *gin.Context) {
	var outcome models.ProgramOutcome
	if err := ctx.ShouldBindJSON(&outcome); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid program outcome data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	if err := c.outcomeService.CreateProgramOutcome(ctx, &outcome); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      outcome,
		Timestamp: time.Now(),
	})
}

// DeleteProgramOutcome deletes a program outcome
// @Summary Delete a program outcome
// @Description Deletes a program outcome and its links
// @Tags outcomes
// @Produce json
// @Param id path int true "Program outcome ID"
// @Success 204 "Program outcome deleted successfully"
// @Failure 404 {object} dto.ErrorResponse "Program outcome not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /program-outcomes/{id} [delete]
func (c *OutcomeController) DeleteProgramOutcome(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.outcomeService.DeleteProgramOutcome(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusNoContent, dto.APIResponse{Timestamp: time.Now()})
}

// CreateLink links a learning outcome to a program outcome
// @Summary Create an outcome link
// @Description Links a learning outcome to a program outcome with a weight in [1,5]
// @Tags outcomes
// @Accept json
// @Produce json
// @Param request body dto.CreateLinkRequest true "Link information"
// @Success 201 {object} dto.APIResponse{data=models.OutcomeLink} "Link created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 409 {object} dto.ErrorResponse "Link already exists"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /outcome-links [post]
func (c *OutcomeController) CreateLink(ctx *gin.Context) {
	var request dto.CreateLinkRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid link data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	link := models.OutcomeLink{
		LearningOutcomeID: request.LearningOutcomeID,
		ProgramOutcomeID:  request.ProgramOutcomeID,
		Weight:            request.Weight,
	}
	if err := c.outcomeService.CreateLink(ctx, &link); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      link,
		Timestamp: time.Now(),
	})
}

// UpdateLink changes a link's weight
// @Summary Update an outcome link
// @Description Changes an existing link's weight
// @Tags outcomes
// @Accept json
// @Produce json
// @Param id path int true "Link ID"
// @Param request body dto.UpdateLinkRequest true "New weight"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Link updated successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Link not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /outcome-links/{id} [put]
func (c *OutcomeController) UpdateLink(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var request dto.UpdateLinkRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid link data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	if err := c.outcomeService.UpdateLinkWeight(ctx, id, request.Weight); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "link updated"},
		Timestamp: time.Now(),
	})
}

// DeleteLink deletes a link
// @Summary Delete an outcome link
// @Description Removes a learning outcome → program outcome link
// @Tags outcomes
// @Produce json
// @Param id path int true "Link ID"
// @Success 204 "Link deleted successfully"
// @Failure 404 {object} dto.ErrorResponse "Link not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /outcome-links/{id} [delete]
func (c *OutcomeController) DeleteLink(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.outcomeService.DeleteLink(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusNoContent, dto.APIResponse{Timestamp: time.Now()})
}
