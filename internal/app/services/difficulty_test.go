package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/obetrack/outcometrics/internal/app/models/dto"
)

func avg(v float64) *float64 { return &v }

func TestEstimateDifficultyPersonalAverage(t *testing.T) {
	cases := []struct {
		name     string
		personal float64
		label    string
	}{
		{"failing history is hard with a dominant component", 55, DifficultyHard},
		{"low history alone is easy", 74, DifficultyEasy},
		{"good history is easy", 90, DifficultyEasy},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			maxWeight := 0
			if tc.personal < 60 {
				maxWeight = 60
			}
			estimate := estimateDifficulty(avg(tc.personal), nil, maxWeight, 0)
			assert.Equal(t, tc.label, estimate.Label)
			assert.True(t, estimate.Personal)
			assert.Equal(t, tc.personal, estimate.AvgScore)
			assert.NotEmpty(t, estimate.Reasons)
		})
	}
}

func TestEstimateDifficultyClassAverage(t *testing.T) {
	// Class average under 65 trips both class rules.
	estimate := estimateDifficulty(nil, avg(60), 0, 0)
	assert.Equal(t, DifficultyMedium, estimate.Label)
	assert.False(t, estimate.Personal)
	assert.Len(t, estimate.Reasons, 2)

	// Between 65 and 75 only the first.
	estimate = estimateDifficulty(nil, avg(70), 0, 0)
	assert.Equal(t, DifficultyEasy, estimate.Label)
	assert.Len(t, estimate.Reasons, 1)
}

func TestEstimateDifficultyRoundsAverage(t *testing.T) {
	estimate := estimateDifficulty(avg(72.46), nil, 0, 0)
	assert.Equal(t, 72.5, estimate.AvgScore)
}

func TestEstimateDifficultyFallbackAverage(t *testing.T) {
	estimate := estimateDifficulty(nil, nil, 0, 0)
	assert.Equal(t, DifficultyEasy, estimate.Label)
	assert.Equal(t, fallbackAverage, estimate.AvgScore)
	require.NotEmpty(t, estimate.Reasons, "reasons list must never be empty")
}

func TestEstimateDifficultyAccumulatesRules(t *testing.T) {
	// Failing history (+2), dominant component (+1), broad scope (+1).
	estimate := estimateDifficulty(avg(50), nil, 50, 6)
	assert.Equal(t, DifficultyHard, estimate.Label)
	assert.Equal(t, 50, estimate.MaxWeight)
	assert.Len(t, estimate.Reasons, 3)
}

func TestApplyCoverageDowngradesMedium(t *testing.T) {
	estimate := dto.DifficultyEstimate{Label: DifficultyMedium, Reasons: []string{"r"}}

	adjusted := applyCoverage(estimate, 50)
	assert.Equal(t, DifficultyEasy, adjusted.Label)
	assert.Len(t, adjusted.Reasons, 2)
}

func TestApplyCoverageKeepsHardAndEasy(t *testing.T) {
	hard := applyCoverage(dto.DifficultyEstimate{Label: DifficultyHard, Reasons: []string{"r"}}, 80)
	assert.Equal(t, DifficultyHard, hard.Label)

	easy := applyCoverage(dto.DifficultyEstimate{Label: DifficultyEasy, Reasons: []string{"r"}}, 80)
	assert.Equal(t, DifficultyEasy, easy.Label)
}

func TestApplyCoverageForcesHardBelowThreshold(t *testing.T) {
	estimate := dto.DifficultyEstimate{Label: DifficultyEasy, Reasons: []string{"r"}}

	adjusted := applyCoverage(estimate, 49.9)
	assert.Equal(t, DifficultyHard, adjusted.Label)
	assert.Len(t, adjusted.Reasons, 2)
}
