package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/obetrack/outcometrics/internal/app/models"
	"github.com/obetrack/outcometrics/internal/app/models/dto"
	"github.com/obetrack/outcometrics/internal/app/repositories"
	"github.com/obetrack/outcometrics/internal/pkg/apperrors"
	"github.com/obetrack/outcometrics/internal/pkg/backup"
	"github.com/obetrack/outcometrics/internal/pkg/logger"
)

// OutcomeService handles learning outcomes, program outcomes and the
// weighted links between them. Link and program-outcome mutations feed the
// heatmap, so each refreshes the cache synchronously.
type OutcomeService struct {
	courseRepo  *repositories.CourseRepository
	outcomeRepo *repositories.OutcomeRepository
	heatmap     *HeatmapService
	snapshotter backup.Snapshotter
	log         zerolog.Logger
}

// NewOutcomeService creates a new outcome service
func NewOutcomeService(courseRepo *repositories.CourseRepository, outcomeRepo *repositories.OutcomeRepository, heatmap *HeatmapService, snapshotter backup.Snapshotter) *OutcomeService {
	return &OutcomeService{
		courseRepo:  courseRepo,
		outcomeRepo: outcomeRepo,
		heatmap:     heatmap,
		snapshotter: snapshotter,
		log:         logger.WithComponent("outcome"),
	}
}

// --- Learning outcomes ---

// CreateLearningOutcome creates a learning outcome for a course
func (s *OutcomeService) CreateLearningOutcome(ctx context.Context, lo *models.LearningOutcome) error {
	lo.Code = strings.TrimSpace(lo.Code)
	if lo.Code == "" {
		return apperrors.NewBadRequestError("learning outcome code is required")
	}
	if _, err := s.courseRepo.GetByID(ctx, lo.CourseID); err != nil {
		return err
	}

	if err := s.outcomeRepo.CreateLearningOutcome(ctx, lo); err != nil {
		return err
	}

	s.log.Info().Str("code", lo.Code).Int64("courseId", lo.CourseID).Msg("Learning outcome created")
	s.snapshotter.Snapshot("learning outcome created: " + lo.Code)
	return nil
}

// GetLearningOutcomesByCourse lists a course's learning outcomes
func (s *OutcomeService) GetLearningOutcomesByCourse(ctx context.Context, courseID int64) ([]*models.LearningOutcome, error) {
	if _, err := s.courseRepo.GetByID(ctx, courseID); err != nil {
		return nil, err
	}
	return s.outcomeRepo.GetLearningOutcomesByCourse(ctx, courseID)
}

// DeleteLearningOutcome removes a learning outcome. Its links cascade away,
// so the heatmap is refreshed.
func (s *OutcomeService) DeleteLearningOutcome(ctx context.Context, id int64) error {
	if err := s.outcomeRepo.DeleteLearningOutcome(ctx, id); err != nil {
		return err
	}

	s.log.Info().Int64("id", id).Msg("Learning outcome deleted")
	s.heatmap.Refresh(ctx)
	s.snapshotter.Snapshot("learning outcome deleted")
	return nil
}

// --- Program outcomes ---

// CreateProgramOutcome creates a program outcome
func (s *OutcomeService) CreateProgramOutcome(ctx context.Context, po *models.ProgramOutcome) error {
	po.Code = strings.TrimSpace(po.Code)
	if po.Code == "" {
		return apperrors.NewBadRequestError("program outcome code is required")
	}

	if err := s.outcomeRepo.CreateProgramOutcome(ctx, po); err != nil {
		return err
	}

	s.log.Info().Str("code", po.Code).Msg("Program outcome created")
	s.heatmap.Refresh(ctx)
	s.snapshotter.Snapshot("program outcome created: " + po.Code)
	return nil
}

// GetAllProgramOutcomes lists all program outcomes
func (s *OutcomeService) GetAllProgramOutcomes(ctx context.Context) ([]*models.ProgramOutcome, error) {
	return s.outcomeRepo.GetAllProgramOutcomes(ctx)
}

// DeleteProgramOutcome removes a program outcome and its links
func (s *OutcomeService) DeleteProgramOutcome(ctx context.Context, id int64) error {
	if err := s.outcomeRepo.DeleteProgramOutcome(ctx, id); err != nil {
		return err
	}

	s.log.Info().Int64("id", id).Msg("Program outcome deleted")
	s.heatmap.Refresh(ctx)
	s.snapshotter.Snapshot("program outcome deleted")
	return nil
}

// --- Links ---

// CreateLink links a learning outcome to a program outcome with a weight in
// [1,5].
func (s *OutcomeService) CreateLink(ctx context.Context, link *models.OutcomeLink) error {
	if link.Weight < 1 || link.Weight > 5 {
		return apperrors.NewBadRequestError("link weight must be between 1 and 5")
	}

	if err := s.outcomeRepo.CreateLink(ctx, link); err != nil {
		return err
	}

	s.log.Info().
		Int64("learningOutcomeId", link.LearningOutcomeID).
		Int64("programOutcomeId", link.ProgramOutcomeID).
		Int("weight", link.Weight).
		Msg("Outcome link created")
	s.heatmap.Refresh(ctx)
	s.snapshotter.Snapshot("outcome link created")
	return nil
}

// UpdateLinkWeight changes a link's weight
func (s *OutcomeService) UpdateLinkWeight(ctx context.Context, linkID int64, weight int) error {
	if weight < 1 || weight > 5 {
		return apperrors.NewBadRequestError("link weight must be between 1 and 5")
	}

	if err := s.outcomeRepo.UpdateLinkWeight(ctx, linkID, weight); err != nil {
		return err
	}

	s.log.Info().Int64("linkId", linkID).Int("weight", weight).Msg("Outcome link updated")
	s.heatmap.Refresh(ctx)
	s.snapshotter.Snapshot("outcome link updated")
	return nil
}

// DeleteLink removes a link
func (s *OutcomeService) DeleteLink(ctx context.Context, linkID int64) error {
	if err := s.outcomeRepo.DeleteLink(ctx, linkID); err != nil {
		return err
	}

	s.log.Info().Int64("linkId", linkID).Msg("Outcome link deleted")
	s.heatmap.Refresh(ctx)
	s.snapshotter.Snapshot("outcome link deleted")
	return nil
}

// GetEdges lists every link as a flat analytics edge.
func (s *OutcomeService) GetEdges(ctx context.Context) ([]dto.OutcomeEdge, error) {
	links, err := s.outcomeRepo.GetAllLinks(ctx)
	if err != nil {
		return nil, err
	}

	edges := make([]dto.OutcomeEdge, 0, len(links))
	for _, link := range links {
		edges = append(edges, dto.OutcomeEdge{
			Course:          link.LearningOutcome.Course,
			LearningOutcome: link.LearningOutcome,
			ProgramOutcome:  link.ProgramOutcome,
			Weight:          link.Weight,
		})
	}

	return edges, nil
}
