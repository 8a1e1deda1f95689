package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/obetrack/outcometrics/internal/app/models"
	"github.com/obetrack/outcometrics/internal/app/models/dto"
	"github.com/obetrack/outcometrics/internal/app/services"
	"github.com/obetrack/outcometrics/internal/middleware"
)

// CourseController handles course CRUD operations
type CourseController struct {
	courseService *services.CourseService
}

// NewCourseController creates a new CourseController
func NewCourseController(courseService *services.CourseService) *CourseController {
	return &CourseController{courseService: courseService}
}

// parseIDParam parses a path parameter as an int64 ID, writing the error
// response itself on failure.
func parseIDParam(ctx *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid "+name)
		errorDetail = errorDetail.WithDetails(name + " must be a valid number")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return 0, false
	}
	return id, true
}

// parseQueryID parses a query-string value as an int64 ID.
func parseQueryID(raw string) (int64, error) {
	return strconv.ParseInt(raw, 10, 64)
}

// GetAllCourses retrieves all courses
// @Summary Get all courses
// @Description Retrieves a list of all courses ordered by code
// @Tags courses
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]models.Course} "Courses retrieved successfully"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses [get]
func (c *CourseController) GetAllCourses(ctx *gin.Context) {
	courses, err := c.courseService.GetAll(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      courses,
		Timestamp: time.Now(),
	})
}

// GetCourseByID retrieves a course by ID
// @Summary Get course by ID
// @Description Retrieves a course with its learning outcomes
// @Tags courses
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} dto.APIResponse{data=models.Course} "Course retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid course ID"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses/{id} [get]
func (c *CourseController) GetCourseByID(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	course, err := c.courseService.GetByID(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      course,
		Timestamp: time.Now(),
	})
}

// CreateCourse handles course creation
// @Summary Create a new course
// @Description Creates a new course with the provided information
// @Tags courses
// @Accept json
// @Produce json
// @Param request body models.Course true "Course information"
// @Success 201 {object} dto.APIResponse{data=models.Course} "Course created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses [post]
func (c *CourseController) CreateCourse(ctx *gin.Context) {
	var course models.Course
	if err := ctx.ShouldBindJSON(&course); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid course data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	if err := c.courseService.Create(ctx, &course); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      course,
		Timestamp: time.Now(),
	})
}

// UpdateCourse updates an existing course
// @Summary Update a course
// @Description Updates an existing course's code, name and term
// @Tags courses
// @Accept json
// @Produce json
// @Param id path int true "Course ID"
// @Param request body models.Course true "Updated course information"
// @Success 200 {object} dto.APIResponse{data=models.Course} "Course updated successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses/{id} [put]
func (c *CourseController) UpdateCourse(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var course models.Course
	if err := ctx.ShouldBindJSON(&course); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid course data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}
	course.ID = id

	if err := c.courseService.Update(ctx, &course); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      course,
		Timestamp: time.Now(),
	})
}

// DeleteCourse deletes a course
// @Summary Delete a course
// @Description Deletes a course; its outcomes, components and enrollments cascade
// @Tags courses
// @Produce json
// @Param id path int true "Course ID"
// @Success 204 "Course deleted successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid course ID"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses/{id} [delete]
func (c *CourseController) DeleteCourse(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.courseService.Delete(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusNoContent, dto.APIResponse{
		Timestamp: time.Now(),
	})
}
