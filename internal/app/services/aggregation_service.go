package services

import (
	"context"
	"math"
	"sort"

	"github.com/obetrack/outcometrics/internal/app/models"
	"github.com/obetrack/outcometrics/internal/app/models/dto"
	"github.com/obetrack/outcometrics/internal/app/repositories"
	"github.com/obetrack/outcometrics/internal/pkg/apperrors"
)

// AggregationService computes per-enrollment learning-outcome scores, the
// program-outcome rollup and final course scores from recorded assessments.
// It only reads persisted state.
type AggregationService struct {
	courseRepo     *repositories.CourseRepository
	outcomeRepo    *repositories.OutcomeRepository
	componentRepo  *repositories.ComponentRepository
	studentRepo    *repositories.StudentRepository
	assessmentRepo *repositories.AssessmentRepository
}

// NewAggregationService creates a new aggregation service
func NewAggregationService(
	courseRepo *repositories.CourseRepository,
	outcomeRepo *repositories.OutcomeRepository,
	componentRepo *repositories.ComponentRepository,
	studentRepo *repositories.StudentRepository,
	assessmentRepo *repositories.AssessmentRepository,
) *AggregationService {
	return &AggregationService{
		courseRepo:     courseRepo,
		outcomeRepo:    outcomeRepo,
		componentRepo:  componentRepo,
		studentRepo:    studentRepo,
		assessmentRepo: assessmentRepo,
	}
}

// LearningOutcomeScores accumulates each contribution edge's dampened score
// into a total per learning outcome. scores is keyed by component ID; an
// outcome with no scored contributing component is absent from the result,
// which is not the same as a score of zero.
func LearningOutcomeScores(contributions []*models.Contribution, scores map[int64]float64) map[int64]float64 {
	totals := make(map[int64]float64)
	for _, contribution := range contributions {
		score, ok := scores[contribution.AssessmentComponentID]
		if !ok {
			continue
		}
		weight := float64(contribution.AssessmentComponent.WeightPercent) / 100
		percent := float64(contribution.ContributionPercent) / 100
		totals[contribution.LearningOutcomeID] += score * weight * percent
	}
	return totals
}

// ProgramOutcomeScores rolls learning-outcome scores up to program outcomes
// as the edge-weight-normalized mean. Only edges whose learning outcome has
// a computed score participate. Results are sorted ascending by program
// outcome code.
func ProgramOutcomeScores(links []*models.OutcomeLink, outcomeScores map[int64]float64) []dto.ProgramOutcomeScore {
	type rollup struct {
		outcome     *models.ProgramOutcome
		numerator   float64
		denominator float64
	}

	rollups := make(map[int64]*rollup)
	for _, link := range links {
		score, ok := outcomeScores[link.LearningOutcomeID]
		if !ok {
			continue
		}
		r, ok := rollups[link.ProgramOutcomeID]
		if !ok {
			r = &rollup{outcome: link.ProgramOutcome}
			rollups[link.ProgramOutcomeID] = r
		}
		r.numerator += score * float64(link.Weight)
		r.denominator += float64(link.Weight)
	}

	results := make([]dto.ProgramOutcomeScore, 0, len(rollups))
	for _, r := range rollups {
		score := 0.0
		if r.denominator > 0 {
			score = r.numerator / r.denominator
		}
		results = append(results, dto.ProgramOutcomeScore{
			ProgramOutcome: r.outcome,
			Score:          round1(score),
		})
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].ProgramOutcome.Code < results[j].ProgramOutcome.Code
	})
	return results
}

// FinalScore is the weighted course score: each scored component contributes
// score × weight/100, unscored components contribute nothing. Internal sums
// keep full precision; rounding happens once here.
func FinalScore(components []*models.AssessmentComponent, scores map[int64]float64) float64 {
	total := 0.0
	for _, component := range components {
		score, ok := scores[component.ID]
		if !ok {
			continue
		}
		total += score * float64(component.WeightPercent) / 100
	}
	return round1(total)
}

// Coverage is the weighted fraction of a course's contribution edges whose
// learning-outcome code the student already satisfied elsewhere. Each edge
// weighs component weight × contribution percent. Returns a percentage
// rounded to one decimal, 0 when the course has no edges.
func Coverage(contributions []*models.Contribution, knownCodes map[string]bool) float64 {
	var known, total float64
	for _, contribution := range contributions {
		weight := float64(contribution.AssessmentComponent.WeightPercent) * float64(contribution.ContributionPercent)
		total += weight
		if knownCodes[contribution.LearningOutcome.Code] {
			known += weight
		}
	}
	if total == 0 {
		return 0
	}
	return round1(known / total * 100)
}

// BuildEnrollmentReport assembles the full per-enrollment view: component
// breakdown against the class average, learning-outcome scores, the
// program-outcome rollup and the final course score.
func (s *AggregationService) BuildEnrollmentReport(ctx context.Context, studentID, courseID int64) (*dto.EnrollmentReport, error) {
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	enrollment, err := s.studentRepo.GetEnrollment(ctx, studentID, courseID)
	if err != nil {
		return nil, err
	}
	if enrollment == nil {
		return nil, apperrors.ErrEnrollmentNotFound
	}

	components, err := s.componentRepo.GetByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	scores, err := s.assessmentRepo.ScoresByEnrollment(ctx, enrollment.ID)
	if err != nil {
		return nil, err
	}
	classAverages, err := s.assessmentRepo.ClassAveragesByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}

	assessments := make([]dto.AssessmentBreakdown, 0, len(components))
	for _, component := range components {
		breakdown := dto.AssessmentBreakdown{
			Name:   component.Name,
			Weight: component.WeightPercent,
		}
		if score, ok := scores[component.ID]; ok {
			rounded := round1(score)
			breakdown.Score = &rounded
		}
		if avg, ok := classAverages[component.ID]; ok {
			rounded := round1(avg)
			breakdown.ClassAvg = &rounded
		}
		assessments = append(assessments, breakdown)
	}

	contributions, err := s.componentRepo.GetContributionsByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	outcomeScores := LearningOutcomeScores(contributions, scores)

	outcomes, err := s.outcomeRepo.GetLearningOutcomesByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	outcomeList := make([]dto.OutcomeScore, 0, len(outcomes))
	for _, outcome := range outcomes {
		outcomeList = append(outcomeList, dto.OutcomeScore{
			LearningOutcome: outcome,
			Score:           round1(outcomeScores[outcome.ID]),
		})
	}

	links, err := s.outcomeRepo.GetAllLinks(ctx)
	if err != nil {
		return nil, err
	}

	return &dto.EnrollmentReport{
		Course:           course,
		Assessments:      assessments,
		LearningOutcomes: outcomeList,
		ProgramOutcomes:  ProgramOutcomeScores(links, outcomeScores),
		FinalScore:       FinalScore(components, scores),
	}, nil
}

// FinalScoreFor computes just the final course score for an enrollment.
func (s *AggregationService) FinalScoreFor(ctx context.Context, enrollment *models.Enrollment) (float64, error) {
	components, err := s.componentRepo.GetByCourse(ctx, enrollment.CourseID)
	if err != nil {
		return 0, err
	}
	scores, err := s.assessmentRepo.ScoresByEnrollment(ctx, enrollment.ID)
	if err != nil {
		return 0, err
	}
	return FinalScore(components, scores), nil
}

func round1(value float64) float64 {
	return math.Round(value*10) / 10
}
