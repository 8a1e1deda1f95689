package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/obetrack/outcometrics/internal/app/models"
	"github.com/obetrack/outcometrics/internal/app/repositories"
	"github.com/obetrack/outcometrics/internal/pkg/apperrors"
	"github.com/obetrack/outcometrics/internal/pkg/backup"
	"github.com/obetrack/outcometrics/internal/pkg/logger"
)

// CourseService handles course CRUD. Creating or deleting a course changes
// the heatmap's row set, so every mutation refreshes the cache before it
// returns.
type CourseService struct {
	courseRepo  *repositories.CourseRepository
	outcomeRepo *repositories.OutcomeRepository
	heatmap     *HeatmapService
	snapshotter backup.Snapshotter
	log         zerolog.Logger
}

// NewCourseService creates a new course service
func NewCourseService(courseRepo *repositories.CourseRepository, outcomeRepo *repositories.OutcomeRepository, heatmap *HeatmapService, snapshotter backup.Snapshotter) *CourseService {
	return &CourseService{
		courseRepo:  courseRepo,
		outcomeRepo: outcomeRepo,
		heatmap:     heatmap,
		snapshotter: snapshotter,
		log:         logger.WithComponent("course"),
	}
}

// GetAll retrieves all courses
func (s *CourseService) GetAll(ctx context.Context) ([]*models.Course, error) {
	return s.courseRepo.GetAll(ctx)
}

// GetByID retrieves one course with its learning outcomes populated.
func (s *CourseService) GetByID(ctx context.Context, id int64) (*models.Course, error) {
	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	outcomes, err := s.outcomeRepo.GetLearningOutcomesByCourse(ctx, id)
	if err != nil {
		return nil, err
	}
	course.LearningOutcomes = outcomes

	return course, nil
}

// Create creates a course
func (s *CourseService) Create(ctx context.Context, course *models.Course) error {
	course.Code = strings.TrimSpace(course.Code)
	course.Name = strings.TrimSpace(course.Name)
	if course.Code == "" || course.Name == "" {
		return apperrors.NewBadRequestError("course code and name are required")
	}

	if err := s.courseRepo.Create(ctx, course); err != nil {
		return err
	}

	s.log.Info().Str("code", course.Code).Msg("Course created")
	s.heatmap.Refresh(ctx)
	s.snapshotter.Snapshot("course created: " + course.Code)
	return nil
}

// Update updates a course's code, name and term
func (s *CourseService) Update(ctx context.Context, course *models.Course) error {
	course.Code = strings.TrimSpace(course.Code)
	course.Name = strings.TrimSpace(course.Name)
	if course.Code == "" || course.Name == "" {
		return apperrors.NewBadRequestError("course code and name are required")
	}

	if err := s.courseRepo.Update(ctx, course); err != nil {
		return err
	}

	s.log.Info().Str("code", course.Code).Msg("Course updated")
	s.heatmap.Refresh(ctx)
	s.snapshotter.Snapshot("course updated: " + course.Code)
	return nil
}

// Delete removes a course; its outcomes, components and enrollments cascade.
func (s *CourseService) Delete(ctx context.Context, id int64) error {
	if err := s.courseRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.log.Info().Int64("id", id).Msg("Course deleted")
	s.heatmap.Refresh(ctx)
	s.snapshotter.Snapshot("course deleted")
	return nil
}
