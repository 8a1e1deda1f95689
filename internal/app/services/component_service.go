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

// ComponentService handles assessment components and their contribution
// edges toward learning outcomes. Most components are created by grade
// imports; this service covers manual curation.
type ComponentService struct {
	courseRepo    *repositories.CourseRepository
	componentRepo *repositories.ComponentRepository
	snapshotter   backup.Snapshotter
	log           zerolog.Logger
}

// NewComponentService creates a new component service
func NewComponentService(courseRepo *repositories.CourseRepository, componentRepo *repositories.ComponentRepository, snapshotter backup.Snapshotter) *ComponentService {
	return &ComponentService{
		courseRepo:    courseRepo,
		componentRepo: componentRepo,
		snapshotter:   snapshotter,
		log:           logger.WithComponent("component"),
	}
}

// GetByCourse lists a course's components
func (s *ComponentService) GetByCourse(ctx context.Context, courseID int64) ([]*models.AssessmentComponent, error) {
	if _, err := s.courseRepo.GetByID(ctx, courseID); err != nil {
		return nil, err
	}
	return s.componentRepo.GetByCourse(ctx, courseID)
}

// Create creates a component for a course
func (s *ComponentService) Create(ctx context.Context, component *models.AssessmentComponent) error {
	component.Name = strings.TrimSpace(component.Name)
	if component.Name == "" {
		return apperrors.NewBadRequestError("component name is required")
	}
	if component.WeightPercent < 0 || component.WeightPercent > 100 {
		return apperrors.NewBadRequestError("component weight must be between 0 and 100")
	}
	if _, err := s.courseRepo.GetByID(ctx, component.CourseID); err != nil {
		return err
	}

	if err := s.componentRepo.Create(ctx, component); err != nil {
		return err
	}

	s.log.Info().Str("name", component.Name).Int64("courseId", component.CourseID).Msg("Component created")
	s.snapshotter.Snapshot("component created: " + component.Name)
	return nil
}

// Update updates a component's name and weight
func (s *ComponentService) Update(ctx context.Context, component *models.AssessmentComponent) error {
	component.Name = strings.TrimSpace(component.Name)
	if component.Name == "" {
		return apperrors.NewBadRequestError("component name is required")
	}
	if component.WeightPercent < 0 || component.WeightPercent > 100 {
		return apperrors.NewBadRequestError("component weight must be between 0 and 100")
	}

	if err := s.componentRepo.Update(ctx, component); err != nil {
		return err
	}

	s.log.Info().Int64("id", component.ID).Msg("Component updated")
	s.snapshotter.Snapshot("component updated: " + component.Name)
	return nil
}

// Delete removes a component; its scores and contribution edges cascade.
func (s *ComponentService) Delete(ctx context.Context, id int64) error {
	if err := s.componentRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.log.Info().Int64("id", id).Msg("Component deleted")
	s.snapshotter.Snapshot("component deleted")
	return nil
}

// --- Contribution edges ---

// CreateContribution links a component to a learning outcome with a percent
// in [0,100].
func (s *ComponentService) CreateContribution(ctx context.Context, contribution *models.Contribution) error {
	if contribution.ContributionPercent < 0 || contribution.ContributionPercent > 100 {
		return apperrors.NewBadRequestError("contribution percent must be between 0 and 100")
	}

	if err := s.componentRepo.CreateContribution(ctx, contribution); err != nil {
		return err
	}

	s.log.Info().
		Int64("componentId", contribution.AssessmentComponentID).
		Int64("learningOutcomeId", contribution.LearningOutcomeID).
		Int("percent", contribution.ContributionPercent).
		Msg("Contribution created")
	s.snapshotter.Snapshot("contribution created")
	return nil
}

// UpdateContribution changes a contribution edge's percent
func (s *ComponentService) UpdateContribution(ctx context.Context, contributionID int64, percent int) error {
	if percent < 0 || percent > 100 {
		return apperrors.NewBadRequestError("contribution percent must be between 0 and 100")
	}

	if err := s.componentRepo.UpdateContribution(ctx, contributionID, percent); err != nil {
		return err
	}

	s.log.Info().Int64("contributionId", contributionID).Int("percent", percent).Msg("Contribution updated")
	s.snapshotter.Snapshot("contribution updated")
	return nil
}

// DeleteContribution removes a contribution edge
func (s *ComponentService) DeleteContribution(ctx context.Context, contributionID int64) error {
	if err := s.componentRepo.DeleteContribution(ctx, contributionID); err != nil {
		return err
	}

	s.log.Info().Int64("contributionId", contributionID).Msg("Contribution deleted")
	s.snapshotter.Snapshot("contribution deleted")
	return nil
}

// GetContributionsByCourse lists a course's contribution edges with their
// component and learning outcome populated.
func (s *ComponentService) GetContributionsByCourse(ctx context.Context, courseID int64) ([]*models.Contribution, error) {
	if _, err := s.courseRepo.GetByID(ctx, courseID); err != nil {
		return nil, err
	}
	return s.componentRepo.GetContributionsByCourse(ctx, courseID)
}

// GetAllContributions lists every contribution edge for analytics.
func (s *ComponentService) GetAllContributions(ctx context.Context) ([]*models.Contribution, error) {
	return s.componentRepo.GetAllContributions(ctx)
}
