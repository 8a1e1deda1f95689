package controllers

import (
	"io"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/obetrack/outcometrics/internal/app/models/dto"
	"github.com/obetrack/outcometrics/internal/app/services"
	"github.com/obetrack/outcometrics/internal/middleware"
)

// GradeController handles grade sheet preview, import and the template
// download
type GradeController struct {
	gradebookService *services.GradebookService
}

// NewGradeController creates a new GradeController
func NewGradeController(gradebookService *services.GradebookService) *GradeController {
	return &GradeController{gradebookService: gradebookService}
}

// PreviewGrades decodes an uploaded grade sheet
// @Summary Preview an uploaded grade sheet
// @Description Decodes an uploaded xlsx file and returns headers, rows and detected component columns
// @Tags grades
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Grade sheet file"
// @Success 200 {object} dto.APIResponse{data=dto.PreviewResponse} "Sheet decoded successfully"
// @Failure 400 {object} dto.ErrorResponse "File missing or unreadable"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /grades/preview [post]
func (c *GradeController) PreviewGrades(ctx *gin.Context) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "A grade sheet file is required")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	preview, err := c.gradebookService.Preview(fileHeader.Filename, data)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      preview,
		Timestamp: time.Now(),
	})
}

// ImportGrades merges a previewed sheet into a course's gradebook
// @Summary Import grades into a course
// @Description Classifies the submitted headers and merges the rows transactionally; returns the updated-row count
// @Tags grades
// @Accept json
// @Produce json
// @Param id path int true "Course ID"
// @Param request body dto.SaveGradesRequest true "Headers, counts and cell map"
// @Success 200 {object} dto.APIResponse{data=dto.ImportResult} "Grades imported successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid payload or no student-number column"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses/{id}/grades [post]
func (c *GradeController) ImportGrades(ctx *gin.Context) {
	courseID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var request dto.SaveGradesRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid grade payload")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	updated, err := c.gradebookService.ImportGrades(ctx, courseID, request.Headers, request.Rows())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.ImportResult{UpdatedRows: updated},
		Timestamp: time.Now(),
	})
}

// DownloadTemplate serves the reference grade sheet
// @Summary Download the grade sheet template
// @Description Serves the fixed reference sheet unmodified
// @Tags grades
// @Produce application/octet-stream
// @Success 200 {file} binary "Template file"
// @Failure 404 {object} dto.ErrorResponse "Template not found"
// @Router /grades/template [get]
func (c *GradeController) DownloadTemplate(ctx *gin.Context) {
	path, err := c.gradebookService.TemplatePath()
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.FileAttachment(path, filepath.Base(path))
}
