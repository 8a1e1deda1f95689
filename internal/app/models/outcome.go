package models

// LearningOutcome is a course-scoped, assessable skill statement. The
// (course, code) pair is unique.
type LearningOutcome struct {
	ID          int64  `json:"id" db:"id"`
	CourseID    int64  `json:"courseId" db:"course_id"`
	Code        string `json:"code" db:"code" example:"LO1"`
	Description string `json:"description" db:"description"`

	// Relations (populated when needed)
	Course *Course `json:"course,omitempty"`
}

// ProgramOutcome is a program-wide competency, independent of any single
// course.
type ProgramOutcome struct {
	ID          int64  `json:"id" db:"id"`
	Code        string `json:"code" db:"code" example:"PO1"`
	Title       string `json:"title" db:"title"`
	Description string `json:"description" db:"description"`
}

// OutcomeLink is the weighted LO→PO edge. Weight runs 1 (low contribution)
// to 5 (strong contribution); one link per (learning outcome, program
// outcome) pair.
type OutcomeLink struct {
	ID                int64 `json:"id" db:"id"`
	LearningOutcomeID int64 `json:"learningOutcomeId" db:"learning_outcome_id"`
	ProgramOutcomeID  int64 `json:"programOutcomeId" db:"program_outcome_id"`
	Weight            int   `json:"weight" db:"weight" example:"4"`

	// Relations (populated when needed)
	LearningOutcome *LearningOutcome `json:"learningOutcome,omitempty"`
	ProgramOutcome  *ProgramOutcome  `json:"programOutcome,omitempty"`
}
