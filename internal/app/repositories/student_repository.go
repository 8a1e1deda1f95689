package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/obetrack/outcometrics/internal/app/models"
	"github.com/obetrack/outcometrics/internal/pkg/apperrors"
	"github.com/obetrack/outcometrics/internal/pkg/dberrors"
)

// StudentRepository handles database operations for students and enrollments
type StudentRepository struct {
	db *pgxpool.Pool
}

// NewStudentRepository creates a new student repository
func NewStudentRepository(db *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{db: db}
}

// GetAll retrieves all students ordered by full name
func (r *StudentRepository) GetAll(ctx context.Context) ([]*models.Student, error) {
	query := `
		SELECT id, full_name, student_number
		FROM students
		ORDER BY full_name
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var students []*models.Student
	for rows.Next() {
		var student models.Student
		if err := rows.Scan(&student.ID, &student.FullName, &student.StudentNumber); err != nil {
			return nil, err
		}
		students = append(students, &student)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return students, nil
}

// GetByID retrieves a student by ID
func (r *StudentRepository) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	query := `
		SELECT id, full_name, student_number
		FROM students
		WHERE id = $1
	`

	var student models.Student
	err := r.db.QueryRow(ctx, query, id).Scan(&student.ID, &student.FullName, &student.StudentNumber)
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("error retrieving student: %w", err)
	}

	return &student, nil
}

// GetEnrollment retrieves the student's enrollment in a course, nil when
// there is none.
func (r *StudentRepository) GetEnrollment(ctx context.Context, studentID, courseID int64) (*models.Enrollment, error) {
	query := `
		SELECT id, student_id, course_id, year, section, class_level, entry_status, letter_grade, result
		FROM enrollments
		WHERE student_id = $1 AND course_id = $2
		ORDER BY year DESC, section
		LIMIT 1
	`

	var e models.Enrollment
	err := r.db.QueryRow(ctx, query, studentID, courseID).Scan(
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

// GetEnrollmentsByStudent retrieves a student's enrollments with the course
// populated, ordered by course code.
func (r *StudentRepository) GetEnrollmentsByStudent(ctx context.Context, studentID int64) ([]*models.Enrollment, error) {
	query := `
		SELECT e.id, e.student_id, e.course_id, e.year, e.section,
		       e.class_level, e.entry_status, e.letter_grade, e.result,
		       c.code, c.name, c.term
		FROM enrollments e
		JOIN courses c ON c.id = e.course_id
		WHERE e.student_id = $1
		ORDER BY c.code
	`

	rows, err := r.db.Query(ctx, query, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var enrollments []*models.Enrollment
	for rows.Next() {
		var (
			e models.Enrollment
			c models.Course
		)
		if err := rows.Scan(
			&e.ID, &e.StudentID, &e.CourseID, &e.Year, &e.Section,
			&e.ClassLevel, &e.EntryStatus, &e.LetterGrade, &e.Result,
			&c.Code, &c.Name, &c.Term,
		); err != nil {
			return nil, err
		}
		c.ID = e.CourseID
		e.Course = &c
		enrollments = append(enrollments, &e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return enrollments, nil
}

// CreateEnrollment creates an enrollment row
func (r *StudentRepository) CreateEnrollment(ctx context.Context, enrollment *models.Enrollment) error {
	query := `
		INSERT INTO enrollments (student_id, course_id, year, section, result)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	if enrollment.Result == "" {
		enrollment.Result = models.ResultInProgress
	}

	err := r.db.QueryRow(ctx, query,
		enrollment.StudentID, enrollment.CourseID,
		enrollment.Year, enrollment.Section, enrollment.Result,
	).Scan(&enrollment.ID)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "uq_enrollment") {
			return apperrors.NewConflictError("student is already enrolled in this course")
		}
		return fmt.Errorf("error creating enrollment: %w", err)
	}

	return nil
}

// UpdateEnrollmentResult sets the result field of an enrollment
func (r *StudentRepository) UpdateEnrollmentResult(ctx context.Context, enrollmentID int64, result models.EnrollmentResult) error {
	tag, err := r.db.Exec(ctx, `UPDATE enrollments SET result = $2 WHERE id = $1`, enrollmentID, result)
	if err != nil {
		return fmt.Errorf("error updating enrollment result: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrEnrollmentNotFound
	}

	return nil
}

// DeleteEnrollments removes every enrollment of the student in the course;
// their score rows cascade.
func (r *StudentRepository) DeleteEnrollments(ctx context.Context, studentID, courseID int64) error {
	_, err := r.db.Exec(ctx,
		`DELETE FROM enrollments WHERE student_id = $1 AND course_id = $2`,
		studentID, courseID)
	if err != nil {
		return fmt.Errorf("error deleting enrollments: %w", err)
	}

	return nil
}
