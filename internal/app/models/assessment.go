package models

// AssessmentComponent is a graded course element (Vize, Proje, Lab...) with
// a percent weight toward the course score. Weights are not validated to sum
// to 100 across a course.
type AssessmentComponent struct {
	ID            int64  `json:"id" db:"id"`
	CourseID      int64  `json:"courseId" db:"course_id"`
	Name          string `json:"name" db:"name" example:"Vize"`
	WeightPercent int    `json:"weightPercent" db:"weight_percent" example:"40"`
}

// Contribution is the weighted edge from an assessment component to a
// learning outcome; one edge per (component, learning outcome) pair.
type Contribution struct {
	ID                    int64 `json:"id" db:"id"`
	AssessmentComponentID int64 `json:"assessmentComponentId" db:"assessment_component_id"`
	LearningOutcomeID     int64 `json:"learningOutcomeId" db:"learning_outcome_id"`
	ContributionPercent   int   `json:"contributionPercent" db:"contribution_percent" example:"60"`

	// Relations (populated when needed)
	AssessmentComponent *AssessmentComponent `json:"assessmentComponent,omitempty"`
	LearningOutcome     *LearningOutcome     `json:"learningOutcome,omitempty"`
}

// StudentAssessment is a recorded score for one enrollment and one
// component; one row per (enrollment, component) pair.
type StudentAssessment struct {
	ID                    int64   `json:"id" db:"id"`
	EnrollmentID          int64   `json:"enrollmentId" db:"enrollment_id"`
	AssessmentComponentID int64   `json:"assessmentComponentId" db:"assessment_component_id"`
	Score                 float64 `json:"score" db:"score" example:"87.5"`
}
