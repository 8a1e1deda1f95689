package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/obetrack/outcometrics/internal/app/models"
	"github.com/obetrack/outcometrics/internal/pkg/apperrors"
	"github.com/obetrack/outcometrics/internal/pkg/dberrors"
)

// CourseRepository handles database operations for courses
type CourseRepository struct {
	db *pgxpool.Pool
}

// NewCourseRepository creates a new course repository
func NewCourseRepository(db *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{db: db}
}

// Create creates a new course
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	query := `
		INSERT INTO courses (code, name, term)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query, course.Code, course.Name, course.Term).Scan(&course.ID)
	if err != nil {
		return fmt.Errorf("error creating course: %w", err)
	}

	return nil
}

// GetByID retrieves a course by ID
func (r *CourseRepository) GetByID(ctx context.Context, id int64) (*models.Course, error) {
	query := `
		SELECT id, code, name, term
		FROM courses
		WHERE id = $1
	`

	var course models.Course
	err := r.db.QueryRow(ctx, query, id).Scan(
		&course.ID,
		&course.Code,
		&course.Name,
		&course.Term,
	)
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, fmt.Errorf("error retrieving course: %w", err)
	}

	return &course, nil
}

// GetAll retrieves all courses ordered by code
func (r *CourseRepository) GetAll(ctx context.Context) ([]*models.Course, error) {
	query := `
		SELECT id, code, name, term
		FROM courses
		ORDER BY code
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courses []*models.Course
	for rows.Next() {
		var course models.Course
		if err := rows.Scan(
			&course.ID,
			&course.Code,
			&course.Name,
			&course.Term,
		); err != nil {
			return nil, err
		}
		courses = append(courses, &course)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return courses, nil
}

// GetAvailableForStudent retrieves courses the student has no enrollment in
func (r *CourseRepository) GetAvailableForStudent(ctx context.Context, studentID int64) ([]*models.Course, error) {
	query := `
		SELECT c.id, c.code, c.name, c.term
		FROM courses c
		WHERE NOT EXISTS (
			SELECT 1 FROM enrollments e
			WHERE e.course_id = c.id AND e.student_id = $1
		)
		ORDER BY c.code
	`

	rows, err := r.db.Query(ctx, query, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courses []*models.Course
	for rows.Next() {
		var course models.Course
		if err := rows.Scan(
			&course.ID,
			&course.Code,
			&course.Name,
			&course.Term,
		); err != nil {
			return nil, err
		}
		courses = append(courses, &course)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return courses, nil
}

// Update updates a course's fields
func (r *CourseRepository) Update(ctx context.Context, course *models.Course) error {
	query := `
		UPDATE courses
		SET code = $2, name = $3, term = $4
		WHERE id = $1
	`

	tag, err := r.db.Exec(ctx, query, course.ID, course.Code, course.Name, course.Term)
	if err != nil {
		return fmt.Errorf("error updating course: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}

	return nil
}

// Delete removes a course. Outcomes, components, enrollments and their
// dependent rows go with it via the schema's cascade rules.
func (r *CourseRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting course: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}

	return nil
}
