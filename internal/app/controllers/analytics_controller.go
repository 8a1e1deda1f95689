package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/obetrack/outcometrics/internal/app/models/dto"
	"github.com/obetrack/outcometrics/internal/app/services"
	"github.com/obetrack/outcometrics/internal/middleware"
)

// AnalyticsController serves derived matrices and edge lists
type AnalyticsController struct {
	heatmapService    *services.HeatmapService
	outcomeService    *services.OutcomeService
	componentService  *services.ComponentService
	difficultyService *services.DifficultyService
}

// NewAnalyticsController creates a new AnalyticsController
func NewAnalyticsController(
	heatmapService *services.HeatmapService,
	outcomeService *services.OutcomeService,
	componentService *services.ComponentService,
	difficultyService *services.DifficultyService,
) *AnalyticsController {
	return &AnalyticsController{
		heatmapService:    heatmapService,
		outcomeService:    outcomeService,
		componentService:  componentService,
		difficultyService: difficultyService,
	}
}

// GetHeatmap returns the course × program-outcome heatmap
// @Summary Get the outcome heatmap
// @Description Returns the course × program-outcome matrix of mean link weights
// @Tags analytics
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]dto.HeatmapRow} "Heatmap retrieved successfully"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /analytics/heatmap [get]
func (c *AnalyticsController) GetHeatmap(ctx *gin.Context) {
	rows, err := c.heatmapService.Matrix(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      rows,
		Timestamp: time.Now(),
	})
}

// GetEdges lists every learning outcome → program outcome link
// @Summary List outcome links
// @Description Returns every learning outcome → program outcome link with its course
// @Tags analytics
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]dto.OutcomeEdge} "Edges retrieved successfully"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /analytics/edges [get]
func (c *AnalyticsController) GetEdges(ctx *gin.Context) {
	edges, err := c.outcomeService.GetEdges(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      edges,
		Timestamp: time.Now(),
	})
}

// GetContributions lists every contribution edge
// @Summary List contribution edges
// @Description Returns every component → learning outcome contribution with its course
// @Tags analytics
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]models.Contribution} "Contributions retrieved successfully"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /analytics/contributions [get]
func (c *AnalyticsController) GetContributions(ctx *gin.Context) {
	contributions, err := c.componentService.GetAllContributions(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      contributions,
		Timestamp: time.Now(),
	})
}

// GetCourseDifficulty estimates the difficulty of a course
// @Summary Estimate course difficulty
// @Description Runs the difficulty heuristic for a course, optionally scoped to one student via the studentId query parameter
// @Tags analytics
// @Produce json
// @Param id path int true "Course ID"
// @Param studentId query int false "Student ID"
// @Success 200 {object} dto.APIResponse{data=dto.DifficultyEstimate} "Estimate computed successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid parameters"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /analytics/courses/{id}/difficulty [get]
func (c *AnalyticsController) GetCourseDifficulty(ctx *gin.Context) {
	courseID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var studentID *int64
	if raw, exists := ctx.GetQuery("studentId"); exists {
		id, err := parseQueryID(raw)
		if err != nil {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid studentId")
			errorDetail = errorDetail.WithDetails("studentId must be a valid number")
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
			return
		}
		studentID = &id
	}

	estimate, err := c.difficultyService.EstimateForCourse(ctx, courseID, studentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      estimate,
		Timestamp: time.Now(),
	})
}
