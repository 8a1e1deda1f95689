package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/obetrack/outcometrics/internal/app/models"
	"github.com/obetrack/outcometrics/internal/app/models/dto"
	"github.com/obetrack/outcometrics/internal/app/repositories"
	"github.com/obetrack/outcometrics/internal/pkg/apperrors"
	"github.com/obetrack/outcometrics/internal/pkg/backup"
	"github.com/obetrack/outcometrics/internal/pkg/logger"
)

// PlannerService builds the course planner for a student: current
// enrollments with final scores, plus every not-yet-taken course scored for
// difficulty and outcome overlap.
type PlannerService struct {
	courseRepo    *repositories.CourseRepository
	outcomeRepo   *repositories.OutcomeRepository
	componentRepo *repositories.ComponentRepository
	studentRepo   *repositories.StudentRepository
	aggregation   *AggregationService
	difficulty    *DifficultyService
	snapshotter   backup.Snapshotter
	log           zerolog.Logger
}

// NewPlannerService creates a new planner service
func NewPlannerService(
	courseRepo *repositories.CourseRepository,
	outcomeRepo *repositories.OutcomeRepository,
	componentRepo *repositories.ComponentRepository,
	studentRepo *repositories.StudentRepository,
	aggregation *AggregationService,
	difficulty *DifficultyService,
	snapshotter backup.Snapshotter,
) *PlannerService {
	return &PlannerService{
		courseRepo:    courseRepo,
		outcomeRepo:   outcomeRepo,
		componentRepo: componentRepo,
		studentRepo:   studentRepo,
		aggregation:   aggregation,
		difficulty:    difficulty,
		snapshotter:   snapshotter,
		log:           logger.WithComponent("planner"),
	}
}

// BuildPlanner assembles the planner view for one student.
func (s *PlannerService) BuildPlanner(ctx context.Context, studentID int64) (*dto.PlannerView, error) {
	student, err := s.studentRepo.GetByID(ctx, studentID)
	if err != nil {
		return nil, err
	}

	enrollments, err := s.studentRepo.GetEnrollmentsByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	enrolled := make([]dto.PlannerEnrollment, 0, len(enrollments))
	for _, enrollment := range enrollments {
		final, err := s.aggregation.FinalScoreFor(ctx, enrollment)
		if err != nil {
			return nil, err
		}
		enrolled = append(enrolled, dto.PlannerEnrollment{
			Enrollment: enrollment,
			FinalScore: final,
		})
	}

	knownCodes, err := s.outcomeRepo.GetPassedOutcomeCodes(ctx, studentID)
	if err != nil {
		return nil, err
	}

	candidates, err := s.courseRepo.GetAvailableForStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	available := make([]dto.PlannerCourse, 0, len(candidates))
	for _, course := range candidates {
		planned, err := s.assessCourse(ctx, course, studentID, knownCodes)
		if err != nil {
			return nil, err
		}
		available = append(available, planned)
	}

	return &dto.PlannerView{
		Student:   student,
		Enrolled:  enrolled,
		Available: available,
	}, nil
}

// assessCourse scores one candidate course: difficulty with the coverage
// override applied, plus which of the course's outcomes the student already
// knows.
func (s *PlannerService) assessCourse(ctx context.Context, course *models.Course, studentID int64, knownCodes map[string]bool) (dto.PlannerCourse, error) {
	estimate, err := s.difficulty.EstimateForCourse(ctx, course.ID, &studentID)
	if err != nil {
		return dto.PlannerCourse{}, err
	}

	contributions, err := s.componentRepo.GetContributionsByCourse(ctx, course.ID)
	if err != nil {
		return dto.PlannerCourse{}, err
	}
	coverage := Coverage(contributions, knownCodes)

	outcomes, err := s.outcomeRepo.GetLearningOutcomesByCourse(ctx, course.ID)
	if err != nil {
		return dto.PlannerCourse{}, err
	}
	known := make([]string, 0)
	unfamiliar := make([]string, 0)
	for _, outcome := range outcomes {
		if knownCodes[outcome.Code] {
			known = append(known, outcome.Code)
		} else {
			unfamiliar = append(unfamiliar, outcome.Code)
		}
	}

	return dto.PlannerCourse{
		Course:        course,
		Difficulty:    applyCoverage(*estimate, coverage),
		KnownOutcomes: known,
		NewOutcomes:   unfamiliar,
		Coverage:      coverage,
	}, nil
}

// Enroll registers the student in a course.
func (s *PlannerService) Enroll(ctx context.Context, studentID, courseID int64, year int, section string) (*models.Enrollment, error) {
	student, err := s.studentRepo.GetByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	if year == 0 {
		year = defaultEnrollmentYear
	}
	enrollment := &models.Enrollment{
		StudentID: student.ID,
		CourseID:  course.ID,
		Year:      year,
		Section:   section,
	}
	if err := s.studentRepo.CreateEnrollment(ctx, enrollment); err != nil {
		return nil, err
	}

	s.log.Info().Str("student", student.StudentNumber).Str("course", course.Code).Msg("Student enrolled")
	s.snapshotter.Snapshot("enrollment created")
	return enrollment, nil
}

// Drop removes the student's enrollments in a course; their scores cascade.
func (s *PlannerService) Drop(ctx context.Context, studentID, courseID int64) error {
	enrollment, err := s.studentRepo.GetEnrollment(ctx, studentID, courseID)
	if err != nil {
		return err
	}
	if enrollment == nil {
		return apperrors.ErrEnrollmentNotFound
	}

	if err := s.studentRepo.DeleteEnrollments(ctx, studentID, courseID); err != nil {
		return err
	}

	s.log.Info().Int64("studentId", studentID).Int64("courseId", courseID).Msg("Enrollment dropped")
	s.snapshotter.Snapshot("enrollment dropped")
	return nil
}

// SetResult marks an enrollment passed, failed or back in progress. Passing
// a course is what feeds the student's known-outcome set.
func (s *PlannerService) SetResult(ctx context.Context, enrollmentID int64, result models.EnrollmentResult) error {
	if !result.Valid() {
		return apperrors.NewBadRequestError("result must be in_progress, passed or failed")
	}
	if err := s.studentRepo.UpdateEnrollmentResult(ctx, enrollmentID, result); err != nil {
		return err
	}

	s.log.Info().Int64("enrollmentId", enrollmentID).Str("result", string(result)).Msg("Enrollment result updated")
	s.snapshotter.Snapshot("enrollment result updated")
	return nil
}
