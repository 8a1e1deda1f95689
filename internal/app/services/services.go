package services

import (
	"github.com/obetrack/outcometrics/internal/app/repositories"
	"github.com/obetrack/outcometrics/internal/config"
	"github.com/obetrack/outcometrics/internal/db"
	"github.com/obetrack/outcometrics/internal/pkg/backup"
)

// Services bundles every service for dependency injection into controllers.
type Services struct {
	Course     *CourseService
	Outcome    *OutcomeService
	Component  *ComponentService
	Gradebook  *GradebookService
	Heatmap    *HeatmapService
	Difficulty *DifficultyService
	Student    *StudentService
	Planner    *PlannerService
}

// NewServices wires all services against the repositories and shared
// collaborators.
func NewServices(database *db.PostgresDB, repos *repositories.Repositories, snapshotter backup.Snapshotter, cfg *config.Config) *Services {
	heatmap := NewHeatmapService(repos.Course, repos.Outcome)
	aggregation := NewAggregationService(repos.Course, repos.Outcome, repos.Component, repos.Student, repos.Assessment)
	difficulty := NewDifficultyService(repos.Component, repos.Outcome, repos.Assessment)

	return &Services{
		Course:     NewCourseService(repos.Course, repos.Outcome, heatmap, snapshotter),
		Outcome:    NewOutcomeService(repos.Course, repos.Outcome, heatmap, snapshotter),
		Component:  NewComponentService(repos.Course, repos.Component, snapshotter),
		Gradebook:  NewGradebookService(database, repos.Course, snapshotter, cfg.Grades.TemplatePath, cfg.Grades.PreviewRowLimit),
		Heatmap:    heatmap,
		Difficulty: difficulty,
		Student:    NewStudentService(repos.Student, aggregation),
		Planner:    NewPlannerService(repos.Course, repos.Outcome, repos.Component, repos.Student, aggregation, difficulty, snapshotter),
	}
}
