package services

import (
	"context"
	"math"
	"sync"

	"github.com/rs/zerolog"

	"github.com/obetrack/outcometrics/internal/app/models"
	"github.com/obetrack/outcometrics/internal/app/models/dto"
	"github.com/obetrack/outcometrics/internal/app/repositories"
	"github.com/obetrack/outcometrics/internal/pkg/logger"
)

// HeatmapService caches the course × program-outcome matrix of mean link
// weights. Mutations that touch courses, program outcomes or links call
// Refresh synchronously, so readers never see a stale matrix.
type HeatmapService struct {
	courseRepo  *repositories.CourseRepository
	outcomeRepo *repositories.OutcomeRepository
	log         zerolog.Logger

	mu    sync.RWMutex
	rows  []dto.HeatmapRow
	valid bool
}

// NewHeatmapService creates a new heatmap service
func NewHeatmapService(courseRepo *repositories.CourseRepository, outcomeRepo *repositories.OutcomeRepository) *HeatmapService {
	return &HeatmapService{
		courseRepo:  courseRepo,
		outcomeRepo: outcomeRepo,
		log:         logger.WithComponent("heatmap"),
	}
}

// Matrix returns the cached matrix, rebuilding it first when invalid.
func (s *HeatmapService) Matrix(ctx context.Context) ([]dto.HeatmapRow, error) {
	s.mu.RLock()
	if s.valid {
		rows := s.rows
		s.mu.RUnlock()
		return rows, nil
	}
	s.mu.RUnlock()

	return s.rebuild(ctx)
}

// Refresh rebuilds the whole matrix. Called by every mutation that can
// change the underlying edges.
func (s *HeatmapService) Refresh(ctx context.Context) {
	if _, err := s.rebuild(ctx); err != nil {
		// Leave the cache invalid; the next Matrix call retries.
		s.log.Error().Err(err).Msg("Heatmap rebuild failed")
	}
}

// Invalidate drops the cached matrix without rebuilding it.
func (s *HeatmapService) Invalidate() {
	s.mu.Lock()
	s.valid = false
	s.rows = nil
	s.mu.Unlock()
}

func (s *HeatmapService) rebuild(ctx context.Context) ([]dto.HeatmapRow, error) {
	courses, err := s.courseRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	programOutcomes, err := s.outcomeRepo.GetAllProgramOutcomes(ctx)
	if err != nil {
		return nil, err
	}
	links, err := s.outcomeRepo.GetAllLinks(ctx)
	if err != nil {
		return nil, err
	}

	rows := buildHeatmapRows(courses, programOutcomes, links)

	s.mu.Lock()
	s.rows = rows
	s.valid = true
	s.mu.Unlock()

	return rows, nil
}

// buildHeatmapRows computes the full course × program-outcome matrix from
// the LO→PO link set. Each cell holds the mean link weight of its pair and
// that mean as a rounded percent of the 1-5 scale; pairs without links stay
// zero.
func buildHeatmapRows(courses []*models.Course, programOutcomes []*models.ProgramOutcome, links []*models.OutcomeLink) []dto.HeatmapRow {
	type bucket struct {
		sum   int
		count int
	}
	type key struct {
		courseID  int64
		outcomeID int64
	}

	buckets := make(map[key]*bucket)
	for _, link := range links {
		k := key{courseID: link.LearningOutcome.CourseID, outcomeID: link.ProgramOutcomeID}
		b, ok := buckets[k]
		if !ok {
			b = &bucket{}
			buckets[k] = b
		}
		b.sum += link.Weight
		b.count++
	}

	rows := make([]dto.HeatmapRow, 0, len(courses))
	for _, course := range courses {
		cells := make([]dto.HeatmapCell, 0, len(programOutcomes))
		for _, outcome := range programOutcomes {
			cell := dto.HeatmapCell{ProgramOutcome: outcome}
			if b, ok := buckets[key{courseID: course.ID, outcomeID: outcome.ID}]; ok {
				mean := float64(b.sum) / float64(b.count)
				cell.Value = math.Round(mean*100) / 100
				cell.Percent = int(math.Round(mean / 5 * 100))
			}
			cells = append(cells, cell)
		}
		rows = append(rows, dto.HeatmapRow{Course: course, Values: cells})
	}
	return rows
}
