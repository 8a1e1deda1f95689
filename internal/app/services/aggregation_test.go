package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/obetrack/outcometrics/internal/app/models"
)

func contribution(componentID, outcomeID int64, componentWeight, percent int) *models.Contribution {
	return &models.Contribution{
		AssessmentComponentID: componentID,
		LearningOutcomeID:     outcomeID,
		ContributionPercent:   percent,
		AssessmentComponent: &models.AssessmentComponent{
			ID:            componentID,
			WeightPercent: componentWeight,
		},
		LearningOutcome: &models.LearningOutcome{ID: outcomeID},
	}
}

func TestFinalScoreWeightsComponents(t *testing.T) {
	components := []*models.AssessmentComponent{
		{ID: 1, Name: "Vize", WeightPercent: 40},
		{ID: 2, Name: "Proje", WeightPercent: 60},
	}
	scores := map[int64]float64{1: 80, 2: 90}

	assert.Equal(t, 86.0, FinalScore(components, scores))
}

func TestFinalScoreIgnoresUnscoredComponents(t *testing.T) {
	components := []*models.AssessmentComponent{
		{ID: 1, Name: "Vize", WeightPercent: 40},
		{ID: 2, Name: "Proje", WeightPercent: 60},
	}

	assert.Equal(t, 32.0, FinalScore(components, map[int64]float64{1: 80}))
	assert.Equal(t, 0.0, FinalScore(components, nil))
}

func TestLearningOutcomeScores(t *testing.T) {
	contributions := []*models.Contribution{
		contribution(1, 10, 40, 60),
		contribution(2, 10, 60, 40),
	}
	scores := map[int64]float64{1: 80, 2: 90}

	totals := LearningOutcomeScores(contributions, scores)
	require.Contains(t, totals, int64(10))
	assert.InDelta(t, 40.8, totals[10], 1e-9)
}

func TestLearningOutcomeScoresOmitUnscoredOutcomes(t *testing.T) {
	contributions := []*models.Contribution{
		contribution(1, 10, 40, 60),
		contribution(2, 11, 60, 40),
	}

	totals := LearningOutcomeScores(contributions, map[int64]float64{1: 80})
	assert.Contains(t, totals, int64(10))
	assert.NotContains(t, totals, int64(11), "unscored outcome must be absent, not zero")
}

func TestLearningOutcomeScoreNeverExceedsRawScore(t *testing.T) {
	for _, weight := range []int{0, 25, 50, 100} {
		for _, percent := range []int{0, 40, 100} {
			totals := LearningOutcomeScores(
				[]*models.Contribution{contribution(1, 10, weight, percent)},
				map[int64]float64{1: 73.5},
			)
			assert.LessOrEqual(t, totals[10], 73.5)
		}
	}
}

func TestProgramOutcomeRollup(t *testing.T) {
	po1 := &models.ProgramOutcome{ID: 100, Code: "PO1"}
	links := []*models.OutcomeLink{
		{LearningOutcomeID: 10, ProgramOutcomeID: 100, Weight: 4, ProgramOutcome: po1},
		{LearningOutcomeID: 11, ProgramOutcomeID: 100, Weight: 2, ProgramOutcome: po1},
	}
	outcomeScores := map[int64]float64{10: 40.8, 11: 60}

	results := ProgramOutcomeScores(links, outcomeScores)
	require.Len(t, results, 1)
	assert.Equal(t, "PO1", results[0].ProgramOutcome.Code)
	assert.InDelta(t, 47.2, results[0].Score, 0.05)
}

func TestProgramOutcomeRollupSortedByCode(t *testing.T) {
	poB := &models.ProgramOutcome{ID: 101, Code: "PO2"}
	poA := &models.ProgramOutcome{ID: 100, Code: "PO1"}
	links := []*models.OutcomeLink{
		{LearningOutcomeID: 10, ProgramOutcomeID: 101, Weight: 3, ProgramOutcome: poB},
		{LearningOutcomeID: 10, ProgramOutcomeID: 100, Weight: 5, ProgramOutcome: poA},
	}

	results := ProgramOutcomeScores(links, map[int64]float64{10: 50})
	require.Len(t, results, 2)
	assert.Equal(t, "PO1", results[0].ProgramOutcome.Code)
	assert.Equal(t, "PO2", results[1].ProgramOutcome.Code)
}

func TestProgramOutcomeRollupSkipsUnscoredOutcomes(t *testing.T) {
	po1 := &models.ProgramOutcome{ID: 100, Code: "PO1"}
	links := []*models.OutcomeLink{
		{LearningOutcomeID: 10, ProgramOutcomeID: 100, Weight: 4, ProgramOutcome: po1},
	}

	assert.Empty(t, ProgramOutcomeScores(links, nil))
}

func TestCoverage(t *testing.T) {
	contributions := []*models.Contribution{
		{
			AssessmentComponent: &models.AssessmentComponent{WeightPercent: 40},
			ContributionPercent: 60,
			LearningOutcome:     &models.LearningOutcome{Code: "LO1"},
		},
		{
			AssessmentComponent: &models.AssessmentComponent{WeightPercent: 60},
			ContributionPercent: 40,
			LearningOutcome:     &models.LearningOutcome{Code: "LO2"},
		},
	}

	// Equal edge weights, one known code.
	assert.Equal(t, 50.0, Coverage(contributions, map[string]bool{"LO1": true}))
	assert.Equal(t, 100.0, Coverage(contributions, map[string]bool{"LO1": true, "LO2": true}))
	assert.Equal(t, 0.0, Coverage(contributions, nil))
	assert.Equal(t, 0.0, Coverage(nil, map[string]bool{"LO1": true}))
}
