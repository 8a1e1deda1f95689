package models

// Course represents a course whose assessments roll up into outcome scores.
type Course struct {
	ID   int64  `json:"id" db:"id"`
	Code string `json:"code" db:"code" example:"BLG101"`
	Name string `json:"name" db:"name"`
	Term string `json:"term" db:"term" example:"Güz"`

	// Relations (populated when needed)
	LearningOutcomes []*LearningOutcome     `json:"learningOutcomes,omitempty"`
	Components       []*AssessmentComponent `json:"components,omitempty"`
}
