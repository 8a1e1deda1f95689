package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/obetrack/outcometrics/internal/app/models"
	"github.com/obetrack/outcometrics/internal/pkg/dberrors"
)

// GradebookTx is the transaction-scoped store the grade merge engine writes
// through. Every method runs on the same pgx transaction, so the whole
// reconciliation commits or rolls back as one unit.
type GradebookTx struct {
	tx pgx.Tx
}

// NewGradebookTx wraps a pgx transaction
func NewGradebookTx(tx pgx.Tx) *GradebookTx {
	return &GradebookTx{tx: tx}
}

// ComponentsByCourse lists the course's components in name order
func (g *GradebookTx) ComponentsByCourse(ctx context.Context, courseID int64) ([]*models.AssessmentComponent, error) {
	query := `
		SELECT id, course_id, name, weight_percent
		FROM assessment_components
		WHERE course_id = $1
		ORDER BY name
	`

	rows, err := g.tx.Query(ctx, query, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var components []*models.AssessmentComponent
	for rows.Next() {
		var component models.AssessmentComponent
		if err := rows.Scan(
			&component.ID,
			&component.CourseID,
			&component.Name,
			&component.WeightPercent,
		); err != nil {
			return nil, err
		}
		components = append(components, &component)
	}

	return components, rows.Err()
}

// CreateComponent inserts a new component and returns it
func (g *GradebookTx) CreateComponent(ctx context.Context, courseID int64, name string, weight int) (*models.AssessmentComponent, error) {
	component := &models.AssessmentComponent{
		CourseID:      courseID,
		Name:          name,
		WeightPercent: weight,
	}

	err := g.tx.QueryRow(ctx,
		`INSERT INTO assessment_components (course_id, name, weight_percent) VALUES ($1, $2, $3) RETURNING id`,
		courseID, name, weight,
	).Scan(&component.ID)
	if err != nil {
		return nil, fmt.Errorf("error creating component: %w", err)
	}

	return component, nil
}

// UpdateComponentWeight sets a component's weight
func (g *GradebookTx) UpdateComponentWeight(ctx context.Context, componentID int64, weight int) error {
	_, err := g.tx.Exec(ctx,
		`UPDATE assessment_components SET weight_percent = $2 WHERE id = $1`,
		componentID, weight)
	if err != nil {
		return fmt.Errorf("error updating component weight: %w", err)
	}
	return nil
}

// DeleteComponent removes a component; scores and contribution edges cascade
func (g *GradebookTx) DeleteComponent(ctx context.Context, componentID int64) error {
	_, err := g.tx.Exec(ctx, `DELETE FROM assessment_components WHERE id = $1`, componentID)
	if err != nil {
		return fmt.Errorf("error deleting component: %w", err)
	}
	return nil
}

// StudentByNumber looks a student up by number, nil when absent
func (g *GradebookTx) StudentByNumber(ctx context.Context, number string) (*models.Student, error) {
	query := `
		SELECT id, full_name, student_number
		FROM students
		WHERE student_number = $1
		ORDER BY id
		LIMIT 1
	`

	var student models.Student
	err := g.tx.QueryRow(ctx, query, number).Scan(&student.ID, &student.FullName, &student.StudentNumber)
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("error retrieving student: %w", err)
	}

	return &student, nil
}

// CreateStudent inserts a new student and returns it
func (g *GradebookTx) CreateStudent(ctx context.Context, fullName, number string) (*models.Student, error) {
	student := &models.Student{
		FullName:      fullName,
		StudentNumber: number,
	}

	err := g.tx.QueryRow(ctx,
		`INSERT INTO students (full_name, student_number) VALUES ($1, $2) RETURNING id`,
		fullName, number,
	).Scan(&student.ID)
	if err != nil {
		return nil, fmt.Errorf("error creating student: %w", err)
	}

	return student, nil
}

// UpdateStudentName sets a student's full name
func (g *GradebookTx) UpdateStudentName(ctx context.Context, studentID int64, fullName string) error {
	_, err := g.tx.Exec(ctx, `UPDATE students SET full_name = $2 WHERE id = $1`, studentID, fullName)
	if err != nil {
		return fmt.Errorf("error updating student name: %w", err)
	}
	return nil
}

// EnrollmentFor looks up the student's enrollment in the course, nil when
// absent
func (g *GradebookTx) EnrollmentFor(ctx context.Context, studentID, courseID int64) (*models.Enrollment, error) {
	query := `
		SELECT id, student_id, course_id, year, section, class_level, entry_status, letter_grade, result
		FROM enrollments
		WHERE student_id = $1 AND course_id = $2
		ORDER BY year DESC, section
		LIMIT 1
	`

	var e models.Enrollment
	err := g.tx.QueryRow(ctx, query, studentID, courseID).Scan(
		&e.ID, &e.StudentID, &e.CourseID, &e.Year, &e.Section,
		&e.ClassLevel, &e.EntryStatus, &e.LetterGrade, &e.Result,
	)
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("error retrieving enrollment: %w", err)
	}

	return &e, nil
}

// CreateEnrollment inserts an enrollment with the default year and returns it
func (g *GradebookTx) CreateEnrollment(ctx context.Context, studentID, courseID int64, year int) (*models.Enrollment, error) {
	e := &models.Enrollment{
		StudentID: studentID,
		CourseID:  courseID,
		Year:      year,
		Result:    models.ResultInProgress,
	}

	err := g.tx.QueryRow(ctx,
		`INSERT INTO enrollments (student_id, course_id, year) VALUES ($1, $2, $3) RETURNING id`,
		studentID, courseID, year,
	).Scan(&e.ID)
	if err != nil {
		return nil, fmt.Errorf("error creating enrollment: %w", err)
	}

	return e, nil
}

// UpdateEnrollmentInfo persists the enrollment's mutable sheet-fed fields
func (g *GradebookTx) UpdateEnrollmentInfo(ctx context.Context, e *models.Enrollment) error {
	_, err := g.tx.Exec(ctx,
		`UPDATE enrollments SET class_level = $2, entry_status = $3, letter_grade = $4 WHERE id = $1`,
		e.ID, e.ClassLevel, e.EntryStatus, e.LetterGrade)
	if err != nil {
		return fmt.Errorf("error updating enrollment info: %w", err)
	}
	return nil
}

// ScoreFor looks up the score row for (enrollment, component), nil when
// absent
func (g *GradebookTx) ScoreFor(ctx context.Context, enrollmentID, componentID int64) (*models.StudentAssessment, error) {
	query := `
		SELECT id, enrollment_id, assessment_component_id, score
		FROM student_assessments
		WHERE enrollment_id = $1 AND assessment_component_id = $2
	`

	var sa models.StudentAssessment
	err := g.tx.QueryRow(ctx, query, enrollmentID, componentID).Scan(
		&sa.ID, &sa.EnrollmentID, &sa.AssessmentComponentID, &sa.Score,
	)
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("error retrieving score: %w", err)
	}

	return &sa, nil
}

// CreateScore inserts a score row
func (g *GradebookTx) CreateScore(ctx context.Context, enrollmentID, componentID int64, score float64) error {
	_, err := g.tx.Exec(ctx,
		`INSERT INTO student_assessments (enrollment_id, assessment_component_id, score) VALUES ($1, $2, $3)`,
		enrollmentID, componentID, score)
	if err != nil {
		return fmt.Errorf("error creating score: %w", err)
	}
	return nil
}

// UpdateScore sets an existing score row's value
func (g *GradebookTx) UpdateScore(ctx context.Context, assessmentID int64, score float64) error {
	_, err := g.tx.Exec(ctx,
		`UPDATE student_assessments SET score = $2 WHERE id = $1`,
		assessmentID, score)
	if err != nil {
		return fmt.Errorf("error updating score: %w", err)
	}
	return nil
}
