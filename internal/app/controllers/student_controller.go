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

// StudentController handles the student roster, enrollment reports and the
// course planner
type StudentController struct {
	studentService *services.StudentService
	plannerService *services.PlannerService
}

// NewStudentController creates a new StudentController
func NewStudentController(studentService *services.StudentService, plannerService *services.PlannerService) *StudentController {
	return &StudentController{
		studentService: studentService,
		plannerService: plannerService,
	}
}

// GetAllStudents lists all students
// @Summary Get all students
// @Description Retrieves all students ordered by name
// @Tags students
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]models.Student} "Students retrieved successfully"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students [get]
func (c *StudentController) GetAllStudents(ctx *gin.Context) {
	students, err := c.studentService.GetAll(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      students,
		Timestamp: time.Now(),
	})
}

// GetStudentByID retrieves a student
// @Summary Get student by ID
// @Description Retrieves a specific student
// @Tags students
// @Produce json
// @Param id path int true "Student ID"
// @Success 200 {object} dto.APIResponse{data=models.Student} "Student retrieved successfully"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students/{id} [get]
func (c *StudentController) GetStudentByID(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	student, err := c.studentService.GetByID(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      student,
		Timestamp: time.Now(),
	})
}

// GetEnrollments lists a student's enrollments
// @Summary List student enrollments
// @Description Retrieves a student's enrollments with their courses
// @Tags students
// @Produce json
// @Param id path int true "Student ID"
// @Success 200 {object} dto.APIResponse{data=[]models.Enrollment} "Enrollments retrieved successfully"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students/{id}/enrollments [get]
func (c *StudentController) GetEnrollments(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	enrollments, err := c.studentService.GetEnrollments(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      enrollments,
		Timestamp: time.Now(),
	})
}

// GetReport builds a student's outcome report for one course
// @Summary Get enrollment report
// @Description Builds the component breakdown, outcome scores, program-outcome rollup and final score for an enrollment
// @Tags students
// @Produce json
// @Param id path int true "Student ID"
// @Param courseId path int true "Course ID"
// @Success 200 {object} dto.APIResponse{data=dto.EnrollmentReport} "Report built successfully"
// @Failure 404 {object} dto.ErrorResponse "Student, course or enrollment not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students/{id}/reports/{courseId} [get]
func (c *StudentController) GetReport(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	courseID, ok := parseIDParam(ctx, "courseId")
	if !ok {
		return
	}

	report, err := c.studentService.GetReport(ctx, id, courseID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      report,
		Timestamp: time.Now(),
	})
}

// GetPlanner builds the course planner for a student
// @Summary Get course planner
// @Description Returns current enrollments with final scores and candidate courses scored for difficulty and outcome overlap
// @Tags students
// @Produce json
// @Param id path int true "Student ID"
// @Success 200 {object} dto.APIResponse{data=dto.PlannerView} "Planner built successfully"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students/{id}/planner [get]
func (c *StudentController) GetPlanner(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	planner, err := c.plannerService.BuildPlanner(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      planner,
		Timestamp: time.Now(),
	})
}

// Enroll registers a student in a course
// @Summary Enroll a student
// @Description Creates an enrollment for the student in the given course
// @Tags students
// @Accept json
// @Produce json
// @Param id path int true "Student ID"
// @Param request body dto.EnrollRequest true "Enrollment information"
// @Success 201 {object} dto.APIResponse{data=models.Enrollment} "Enrollment created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Student or course not found"
// @Failure 409 {object} dto.ErrorResponse "Student already enrolled"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students/{id}/enrollments [post]
func (c *StudentController) Enroll(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var request dto.EnrollRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid enrollment data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	enrollment, err := c.plannerService.Enroll(ctx, id, request.CourseID, request.Year, request.Section)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      enrollment,
		Timestamp: time.Now(),
	})
}

// Drop removes a student's enrollment in a course
// @Summary Drop a course
// @Description Deletes the student's enrollments in a course; their scores cascade
// @Tags students
// @Produce json
// @Param id path int true "Student ID"
// @Param courseId path int true "Course ID"
// @Success 204 "Enrollment dropped successfully"
// @Failure 404 {object} dto.ErrorResponse "Enrollment not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students/{id}/enrollments/{courseId} [delete]
func (c *StudentController) Drop(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	courseID, ok := parseIDParam(ctx, "courseId")
	if !ok {
		return
	}

	if err := c.plannerService.Drop(ctx, id, courseID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusNoContent, dto.APIResponse{Timestamp: time.Now()})
}

// UpdateResult sets an enrollment's result
// @Summary Update enrollment result
// @Description Marks an enrollment in_progress, passed or failed
// @Tags students
// @Accept json
// @Produce json
// @Param id path int true "Enrollment ID"
// @Param request body dto.UpdateResultRequest true "New result"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Result updated successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid result value"
// @Failure 404 {object} dto.ErrorResponse "Enrollment not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /enrollments/{id}/result [put]
func (c *StudentController) UpdateResult(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var request dto.UpdateResultRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid result data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	if err := c.plannerService.SetResult(ctx, id, models.EnrollmentResult(request.Result)); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "result updated"},
		Timestamp: time.Now(),
	})
}
