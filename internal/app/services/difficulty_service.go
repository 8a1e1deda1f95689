package services

import (
	"context"
	"fmt"

	"github.com/obetrack/outcometrics/internal/app/models/dto"
	"github.com/obetrack/outcometrics/internal/app/repositories"
)

// Difficulty labels
const (
	DifficultyEasy   = "Easy"
	DifficultyMedium = "Medium"
	DifficultyHard   = "Hard"
)

// fallbackAverage stands in when neither the student nor the class has any
// recorded score in the course.
const fallbackAverage = 80.0

// DifficultyService scores how risky a course looks for a student using a
// small rule set over recorded averages, component weights and the course's
// program-outcome footprint.
type DifficultyService struct {
	componentRepo  *repositories.ComponentRepository
	outcomeRepo    *repositories.OutcomeRepository
	assessmentRepo *repositories.AssessmentRepository
}

// NewDifficultyService creates a new difficulty service
func NewDifficultyService(
	componentRepo *repositories.ComponentRepository,
	outcomeRepo *repositories.OutcomeRepository,
	assessmentRepo *repositories.AssessmentRepository,
) *DifficultyService {
	return &DifficultyService{
		componentRepo:  componentRepo,
		outcomeRepo:    outcomeRepo,
		assessmentRepo: assessmentRepo,
	}
}

// EstimateForCourse runs the heuristic for a course. When studentID is
// non-nil and the student has recorded scores, their personal average drives
// the rules; otherwise the class average does.
func (s *DifficultyService) EstimateForCourse(ctx context.Context, courseID int64, studentID *int64) (*dto.DifficultyEstimate, error) {
	var personal *float64
	if studentID != nil {
		avg, err := s.assessmentRepo.StudentCourseAverage(ctx, courseID, *studentID)
		if err != nil {
			return nil, err
		}
		personal = avg
	}

	classAvg, err := s.assessmentRepo.CourseAverage(ctx, courseID)
	if err != nil {
		return nil, err
	}

	maxWeight, err := s.componentRepo.MaxWeightByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}

	linkCount, err := s.outcomeRepo.CountLinksByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}

	estimate := estimateDifficulty(personal, classAvg, maxWeight, linkCount)
	return &estimate, nil
}

// estimateDifficulty applies the scoring rules and maps the accumulated
// score to a label. The reasons list is never empty.
func estimateDifficulty(personal, classAvg *float64, maxWeight, linkCount int) dto.DifficultyEstimate {
	score := 0
	var reasons []string

	avg := fallbackAverage
	switch {
	case personal != nil:
		avg = *personal
		switch {
		case avg < 60:
			score += 2
			reasons = append(reasons, "Bu dersten daha önce kalınmış")
		case avg < 75:
			score++
			reasons = append(reasons, "Önceki not ortalaması düşük")
		default:
			reasons = append(reasons, "Önceki performans iyi")
		}
	case classAvg != nil:
		avg = *classAvg
		if avg < 75 {
			score++
			reasons = append(reasons, "Sınıf ortalaması düşük")
		}
		if avg < 65 {
			score++
			reasons = append(reasons, "Sınıf ortalaması 65'in altında")
		}
	}

	if maxWeight >= 50 {
		score++
		reasons = append(reasons, fmt.Sprintf("En ağır değerlendirme ders notunun %%%d'ini belirliyor", maxWeight))
	}
	if linkCount >= 6 {
		score++
		reasons = append(reasons, "Ders kapsamı geniş, çok sayıda program çıktısına bağlanıyor")
	}

	label := DifficultyEasy
	switch {
	case score >= 3:
		label = DifficultyHard
	case score == 2:
		label = DifficultyMedium
	}

	if len(reasons) == 0 {
		reasons = append(reasons, "Belirgin bir risk bulunamadı")
	}

	return dto.DifficultyEstimate{
		Label:     label,
		AvgScore:  round1(avg),
		MaxWeight: maxWeight,
		Reasons:   reasons,
		Personal:  personal != nil,
	}
}

// applyCoverage adjusts a heuristic estimate with the student's outcome
// coverage of the course. High overlap softens a Medium verdict; low overlap
// forces Hard regardless of the score.
func applyCoverage(estimate dto.DifficultyEstimate, coverage float64) dto.DifficultyEstimate {
	if coverage >= 50 {
		if estimate.Label == DifficultyMedium {
			estimate.Label = DifficultyEasy
		}
		estimate.Reasons = append(estimate.Reasons, fmt.Sprintf("Kazanımların %%%.1f'i önceki derslerden tanıdık", coverage))
		return estimate
	}

	estimate.Label = DifficultyHard
	estimate.Reasons = append(estimate.Reasons, "Önceki derslerle kazanım örtüşmesi düşük")
	return estimate
}
