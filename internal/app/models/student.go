package models

// Student defines a student known to the gradebook. The student number may
// be blank, but when present it is the merge key for uploaded rows.
type Student struct {
	ID            int64  `json:"id" db:"id"`
	FullName      string `json:"fullName" db:"full_name" example:"Ayşe Demir"`
	StudentNumber string `json:"studentNumber" db:"student_number" example:"20231234"`
}

// EnrollmentResult is the terminal state of an enrollment
type EnrollmentResult string

const (
	ResultInProgress EnrollmentResult = "in_progress"
	ResultPassed     EnrollmentResult = "passed"
	ResultFailed     EnrollmentResult = "failed"
)

// Valid reports whether the value is one of the known results.
func (r EnrollmentResult) Valid() bool {
	switch r {
	case ResultInProgress, ResultPassed, ResultFailed:
		return true
	}
	return false
}

// Enrollment is a student's registration in a course for a given year and
// section. ClassLevel is nil when the grade sheet carried no numeric class
// value.
type Enrollment struct {
	ID          int64            `json:"id" db:"id"`
	StudentID   int64            `json:"studentId" db:"student_id"`
	CourseID    int64            `json:"courseId" db:"course_id"`
	Year        int              `json:"year" db:"year" example:"2023"`
	Section     string           `json:"section" db:"section"`
	ClassLevel  *int             `json:"classLevel,omitempty" db:"class_level"`
	EntryStatus string           `json:"entryStatus" db:"entry_status"`
	LetterGrade string           `json:"letterGrade" db:"letter_grade"`
	Result      EnrollmentResult `json:"result" db:"result"`

	// Relations (populated when needed)
	Student *Student `json:"student,omitempty"`
	Course  *Course  `json:"course,omitempty"`
}
