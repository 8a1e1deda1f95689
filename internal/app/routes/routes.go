package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/obetrack/outcometrics/internal/app/controllers"
	"github.com/obetrack/outcometrics/internal/app/models/dto"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	courseController *controllers.CourseController,
	outcomeController *controllers.OutcomeController,
	componentController *controllers.ComponentController,
	gradeController *controllers.GradeController,
	studentController *controllers.StudentController,
	analyticsController *controllers.AnalyticsController,
) {
	v1 := router.Group("/api/v1")

	courses := v1.Group("/courses")
	{
		courses.GET("", courseController.GetAllCourses)
		courses.GET("/:id", courseController.GetCourseByID)
		courses.POST("", courseController.CreateCourse)
		courses.PUT("/:id", courseController.UpdateCourse)
		courses.DELETE("/:id", courseController.DeleteCourse)

		courses.GET("/:id/outcomes", outcomeController.GetLearningOutcomes)
		courses.POST("/:id/outcomes", outcomeController.CreateLearningOutcome)

		courses.GET("/:id/components", componentController.GetComponents)
		courses.POST("/:id/components", componentController.CreateComponent)
		courses.GET("/:id/contributions", componentController.GetContributions)

		courses.POST("/:id/grades", gradeController.ImportGrades)
	}

	outcomes := v1.Group("/outcomes")
	{
		outcomes.DELETE("/:id", outcomeController.DeleteLearningOutcome)
	}

	programOutcomes := v1.Group("/program-outcomes")
	{
		programOutcomes.GET("", outcomeController.GetAllProgramOutcomes)
		programOutcomes.POST("", outcomeController.CreateProgramOutcome)
		programOutcomes.DELETE("/:id", outcomeController.DeleteProgramOutcome)
	}

	links := v1.Group("/outcome-links")
	{
		links.POST("", outcomeController.CreateLink)
		links.PUT("/:id", outcomeController.UpdateLink)
		links.DELETE("/:id", outcomeController.DeleteLink)
	}

	components := v1.Group("/components")
	{
		components.PUT("/:id", componentController.UpdateComponent)
		components.DELETE("/:id", componentController.DeleteComponent)
	}

	contributions := v1.Group("/contributions")
	{
		contributions.POST("", componentController.CreateContribution)
		contributions.PUT("/:id", componentController.UpdateContribution)
		contributions.DELETE("/:id", componentController.DeleteContribution)
	}

	grades := v1.Group("/grades")
	{
		grades.POST("/preview", gradeController.PreviewGrades)
		grades.GET("/template", gradeController.DownloadTemplate)
	}

	students := v1.Group("/students")
	{
		students.GET("", studentController.GetAllStudents)
		students.GET("/:id", studentController.GetStudentByID)
		students.GET("/:id/enrollments", studentController.GetEnrollments)
		students.POST("/:id/enrollments", studentController.Enroll)
		students.DELETE("/:id/enrollments/:courseId", studentController.Drop)
		students.GET("/:id/reports/:courseId", studentController.GetReport)
		students.GET("/:id/planner", studentController.GetPlanner)
	}

	enrollments := v1.Group("/enrollments")
	{
		enrollments.PUT("/:id/result", studentController.UpdateResult)
	}

	analytics := v1.Group("/analytics")
	{
		analytics.GET("/heatmap", analyticsController.GetHeatmap)
		analytics.GET("/edges", analyticsController.GetEdges)
		analytics.GET("/contributions", analyticsController.GetContributions)
		analytics.GET("/courses/:id/difficulty", analyticsController.GetCourseDifficulty)
	}

	// Health check endpoint
	v1.GET("/health", func(c *gin.Context) {
		c.JSON(200, dto.APIResponse{
			Data: gin.H{"status": "ok"},
		})
	})
}
