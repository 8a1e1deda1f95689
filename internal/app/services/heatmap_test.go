package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/obetrack/outcometrics/internal/app/models"
	"github.com/obetrack/outcometrics/internal/app/models/dto"
)

func heatmapLink(courseID, outcomeID int64, weight int) *models.OutcomeLink {
	return &models.OutcomeLink{
		ProgramOutcomeID: outcomeID,
		Weight:           weight,
		LearningOutcome:  &models.LearningOutcome{CourseID: courseID},
	}
}

func TestBuildHeatmapRowsMeanAndPercent(t *testing.T) {
	courses := []*models.Course{{ID: 1, Code: "BLG101"}}
	outcomes := []*models.ProgramOutcome{{ID: 10, Code: "PO1"}}
	links := []*models.OutcomeLink{
		heatmapLink(1, 10, 4),
		heatmapLink(1, 10, 5),
	}

	rows := buildHeatmapRows(courses, outcomes, links)
	require.Len(t, rows, 1)
	require.Len(t, rows[0].Values, 1)

	cell := rows[0].Values[0]
	assert.Equal(t, 4.5, cell.Value)
	assert.Equal(t, 90, cell.Percent)
}

func TestBuildHeatmapRowsRoundsPercent(t *testing.T) {
	// Mean 13/3 ≈ 4.333 → 86.67% rounds up to 87, not down to 86.
	courses := []*models.Course{{ID: 1}}
	outcomes := []*models.ProgramOutcome{{ID: 10}}
	links := []*models.OutcomeLink{
		heatmapLink(1, 10, 4),
		heatmapLink(1, 10, 5),
		heatmapLink(1, 10, 4),
	}

	rows := buildHeatmapRows(courses, outcomes, links)
	cell := rows[0].Values[0]
	assert.Equal(t, 4.33, cell.Value)
	assert.Equal(t, 87, cell.Percent)
}

func TestBuildHeatmapRowsAbsentPairIsZero(t *testing.T) {
	courses := []*models.Course{{ID: 1}, {ID: 2}}
	outcomes := []*models.ProgramOutcome{{ID: 10}, {ID: 20}}
	links := []*models.OutcomeLink{heatmapLink(1, 10, 3)}

	rows := buildHeatmapRows(courses, outcomes, links)
	require.Len(t, rows, 2)

	linked := rows[0].Values[0]
	assert.Equal(t, 3.0, linked.Value)
	assert.Equal(t, 60, linked.Percent)

	for _, cell := range []dto.HeatmapCell{rows[0].Values[1], rows[1].Values[0], rows[1].Values[1]} {
		assert.Zero(t, cell.Value)
		assert.Zero(t, cell.Percent)
	}
}

func TestBuildHeatmapRowsScopesLinksPerCourse(t *testing.T) {
	// Links of different courses to the same outcome must not share a mean.
	courses := []*models.Course{{ID: 1}, {ID: 2}}
	outcomes := []*models.ProgramOutcome{{ID: 10}}
	links := []*models.OutcomeLink{
		heatmapLink(1, 10, 5),
		heatmapLink(2, 10, 1),
	}

	rows := buildHeatmapRows(courses, outcomes, links)
	assert.Equal(t, 5.0, rows[0].Values[0].Value)
	assert.Equal(t, 100, rows[0].Values[0].Percent)
	assert.Equal(t, 1.0, rows[1].Values[0].Value)
	assert.Equal(t, 20, rows[1].Values[0].Percent)
}

func TestHeatmapInvalidateDropsCache(t *testing.T) {
	s := &HeatmapService{
		rows:  []dto.HeatmapRow{{Course: &models.Course{ID: 1}}},
		valid: true,
	}

	s.Invalidate()

	assert.False(t, s.valid)
	assert.Nil(t, s.rows)
}
