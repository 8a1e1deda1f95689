package dto

// CreateLinkRequest links a learning outcome to a program outcome.
type CreateLinkRequest struct {
	LearningOutcomeID int64 `json:"learningOutcomeId" binding:"required"`
	ProgramOutcomeID  int64 `json:"programOutcomeId" binding:"required"`
	Weight            int   `json:"weight" binding:"required,min=1,max=5"`
}

// UpdateLinkRequest changes an existing link's weight.
type UpdateLinkRequest struct {
	Weight int `json:"weight" binding:"required,min=1,max=5"`
}

// CreateContributionRequest links a component to a learning outcome.
type CreateContributionRequest struct {
	AssessmentComponentID int64 `json:"assessmentComponentId" binding:"required"`
	LearningOutcomeID     int64 `json:"learningOutcomeId" binding:"required"`
	ContributionPercent   int   `json:"contributionPercent" binding:"min=0,max=100"`
}

// UpdateContributionRequest changes a contribution edge's percent.
type UpdateContributionRequest struct {
	ContributionPercent int `json:"contributionPercent" binding:"min=0,max=100"`
}

// EnrollRequest registers a student in a course.
type EnrollRequest struct {
	CourseID int64  `json:"courseId" binding:"required"`
	Year     int    `json:"year"`
	Section  string `json:"section"`
}

// UpdateResultRequest sets an enrollment's result.
type UpdateResultRequest struct {
	Result string `json:"result" binding:"required"`
}
