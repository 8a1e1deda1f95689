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

// ComponentController handles assessment components and contribution edges
type ComponentController struct {
	componentService *services.ComponentService
}

// NewComponentController creates a new ComponentController
func NewComponentController(componentService *services.ComponentService) *ComponentController {
	return &ComponentController{componentService: componentService}
}

// GetComponents lists a course's components
// @Summary List course components
// @Description Retrieves a course's assessment components ordered by name
// @Tags components
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} dto.APIResponse{data=[]models.AssessmentComponent} "Components retrieved successfully"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses/{id}/components [get]
func (c *ComponentController) GetComponents(ctx *gin.Context) {
	courseID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	components, err := c.componentService.GetByCourse(ctx, courseID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      components,
		Timestamp: time.Now(),
	})
}

// CreateComponent creates a component for a course
// @Summary Create an assessment component
// @Description Creates an assessment component with a weight percent in [0,100]
// @Tags components
// @Accept json
// @Produce json
// @Param id path int true "Course ID"
// @Param request body models.AssessmentComponent true "Component information"
// @Success 201 {object} dto.APIResponse{data=models.AssessmentComponent} "Component created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses/{id}/components [post]
func (c *ComponentController) CreateComponent(ctx *gin.Context) {
	courseID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var component models.AssessmentComponent
	if err := ctx.ShouldBindJSON(&component); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid component data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}
	component.CourseID = courseID

	if err := c.componentService.Create(ctx, &component); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      component,
		Timestamp: time.Now(),
	})
}

// UpdateComponent updates a component
// @Summary Update an assessment component
// @Description Updates a component's name and weight
// @Tags components
// @Accept json
// @Produce json
// @Param id path int true "Component ID"
// @Param request body models.AssessmentComponent true "Updated component information"
// @Success 200 {object} dto.APIResponse{data=models.AssessmentComponent} "Component updated successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Component not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /components/{id} [put]
func (c *ComponentController) UpdateComponent(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var component models.AssessmentComponent
	if err := ctx.ShouldBindJSON(&component); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid component data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}
	component.ID = id

	if err := c.componentService.Update(ctx, &component); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      component,
		Timestamp: time.Now(),
	})
}

// DeleteComponent deletes a component
// @Summary Delete an assessment component
// @Description Deletes a component; its scores and contribution edges cascade
// @Tags components
// @Produce json
// @Param id path int true "Component ID"
// @Success 204 "Component deleted successfully"
// @Failure 404 {object} dto.ErrorResponse "Component not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /components/{id} [delete]
func (c *ComponentController) DeleteComponent(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.componentService.Delete(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusNoContent, dto.APIResponse{Timestamp: time.Now()})
}

// GetContributions lists a course's contribution edges
// @Summary List course contributions
// @Description Retrieves the component → learning outcome contribution edges of a course
// @Tags components
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} dto.APIResponse{data=[]models.Contribution} "Contributions retrieved successfully"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses/{id}/contributions [get]
func (c *ComponentController) GetContributions(ctx *gin.Context) {
	courseID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	contributions, err := c.componentService.GetContributionsByCourse(ctx, courseID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      contributions,
		Timestamp: time.Now(),
	})
}

// CreateContribution links a component to a learning outcome
// @Summary Create a contribution edge
// @Description Links a component to a learning outcome with a percent in [0,100]
// @Tags components
// @Accept json
// @Produce json
// @Param request body dto.CreateContributionRequest true "Contribution information"
// @Success 201 {object} dto.APIResponse{data=models.Contribution} "Contribution created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 409 {object} dto.ErrorResponse "Contribution already exists"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /contributions [post]
func (c *ComponentController) CreateContribution(ctx *gin.Context) {
	var request dto.CreateContributionRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid contribution data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	contribution := models.Contribution{
		AssessmentComponentID: request.AssessmentComponentID,
		LearningOutcomeID:     request.LearningOutcomeID,
		ContributionPercent:   request.ContributionPercent,
	}
	if err := c.componentService.CreateContribution(ctx, &contribution); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      contribution,
		Timestamp: time.Now(),
	})
}

// UpdateContribution changes a contribution edge's percent
// @Summary Update a contribution edge
// @Description Changes an existing contribution's percent
// @Tags components
// @Accept json
// @Produce json
// @Param id path int true "Contribution ID"
// @Param request body dto.UpdateContributionRequest true "New percent"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Contribution updated successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Contribution not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /contributions/{id} [put]
func (c *ComponentController) UpdateContribution(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var request dto.UpdateContributionRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid contribution data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	if err := c.componentService.UpdateContribution(ctx, id, request.ContributionPercent); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "contribution updated"},
		Timestamp: time.Now(),
	})
}

// DeleteContribution deletes a contribution edge
// @Summary Delete a contribution edge
// @Description Removes a component → learning outcome contribution
// @Tags components
// @Produce json
// @Param id path int true "Contribution ID"
// @Success 204 "Contribution deleted successfully"
// @Failure 404 {object} dto.ErrorResponse "Contribution not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /contributions/{id} [delete]
func (c *ComponentController) DeleteContribution(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.componentService.DeleteContribution(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusNoContent, dto.APIResponse{Timestamp: time.Now()})
}
