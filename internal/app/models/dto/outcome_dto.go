package dto

import "github.com/obetrack/outcometrics/internal/app/models"

// OutcomeScore is a learning outcome with the enrollment's computed score,
// rounded for display. Outcomes without any scored contribution show 0.
type OutcomeScore struct {
	LearningOutcome *models.LearningOutcome `json:"learningOutcome"`
	Score           float64                 `json:"score"`
}

// ProgramOutcomeScore is a program outcome with its weight-normalized score.
type ProgramOutcomeScore struct {
	ProgramOutcome *models.ProgramOutcome `json:"programOutcome"`
	Score          float64                `json:"score"`
}

// AssessmentBreakdown is one component of an enrollment's grade: the
// student's score (nil when unscored) next to the class average.
type AssessmentBreakdown struct {
	Name     string   `json:"name"`
	Weight   int      `json:"weight"`
	Score    *float64 `json:"score"`
	ClassAvg *float64 `json:"classAvg"`
}

// EnrollmentReport bundles everything the student panel shows for one
// enrollment.
type EnrollmentReport struct {
	Course           *models.Course        `json:"course"`
	Assessments      []AssessmentBreakdown `json:"assessments"`
	LearningOutcomes []OutcomeScore        `json:"learningOutcomes"`
	ProgramOutcomes  []ProgramOutcomeScore `json:"programOutcomes"`
	FinalScore       float64               `json:"finalScore"`
}

// HeatmapCell is one course × program-outcome entry: the mean LO→PO edge
// weight and its percent of the 1-5 scale.
type HeatmapCell struct {
	ProgramOutcome *models.ProgramOutcome `json:"programOutcome"`
	Value          float64                `json:"value"`
	Percent        int                    `json:"percent"`
}

// HeatmapRow is one course row of the heatmap matrix.
type HeatmapRow struct {
	Course *models.Course `json:"course"`
	Values []HeatmapCell  `json:"values"`
}

// OutcomeEdge is one LO→PO link in the analytics edge list.
type OutcomeEdge struct {
	Course          *models.Course          `json:"course"`
	LearningOutcome *models.LearningOutcome `json:"learningOutcome"`
	ProgramOutcome  *models.ProgramOutcome  `json:"programOutcome"`
	Weight          int                     `json:"weight"`
}

// DifficultyEstimate is the heuristic difficulty verdict for a course.
type DifficultyEstimate struct {
	Label     string   `json:"label"`
	AvgScore  float64  `json:"avgScore"`
	MaxWeight int      `json:"maxWeight"`
	Reasons   []string `json:"reasons"`
	Personal  bool     `json:"personal"`
}

// PlannerEnrollment is a current enrollment with its final course score.
type PlannerEnrollment struct {
	Enrollment *models.Enrollment `json:"enrollment"`
	FinalScore float64            `json:"finalScore"`
}

// PlannerCourse is a candidate course with its difficulty estimate and
// outcome-coverage data.
type PlannerCourse struct {
	Course        *models.Course     `json:"course"`
	Difficulty    DifficultyEstimate `json:"difficulty"`
	KnownOutcomes []string           `json:"knownOutcomes"`
	NewOutcomes   []string           `json:"newOutcomes"`
	Coverage      float64            `json:"coverage"`
}

// PlannerView is the course planner payload for one student.
type PlannerView struct {
	Student   *models.Student     `json:"student"`
	Enrolled  []PlannerEnrollment `json:"enrolled"`
	Available []PlannerCourse     `json:"available"`
}
