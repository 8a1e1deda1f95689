package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// AssessmentRepository reads recorded scores and score statistics. All
// score writes go through the merge engine's transactional store.
type AssessmentRepository struct {
	db *pgxpool.Pool
}

// NewAssessmentRepository creates a new assessment repository
func NewAssessmentRepository(db *pgxpool.Pool) *AssessmentRepository {
	return &AssessmentRepository{db: db}
}

// ScoresByEnrollment returns the enrollment's recorded scores keyed by
// component ID. Components without a score row are absent from the map, not
// zero.
func (r *AssessmentRepository) ScoresByEnrollment(ctx context.Context, enrollmentID int64) (map[int64]float64, error) {
	query := `
		SELECT assessment_component_id, score
		FROM student_assessments
		WHERE enrollment_id = $1
	`

	rows, err := r.db.Query(ctx, query, enrollmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	scores := make(map[int64]float64)
	for rows.Next() {
		var (
			componentID int64
			score       float64
		)
		if err := rows.Scan(&componentID, &score); err != nil {
			return nil, err
		}
		scores[componentID] = score
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return scores, nil
}

// ClassAveragesByCourse returns the class average score per component of the
// course. Components nobody scored are absent from the map.
func (r *AssessmentRepository) ClassAveragesByCourse(ctx context.Context, courseID int64) (map[int64]float64, error) {
	query := `
		SELECT sa.assessment_component_id, AVG(sa.score)
		FROM student_assessments sa
		JOIN assessment_components ac ON ac.id = sa.assessment_component_id
		WHERE ac.course_id = $1
		GROUP BY sa.assessment_component_id
	`

	rows, err := r.db.Query(ctx, query, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	averages := make(map[int64]float64)
	for rows.Next() {
		var (
			componentID int64
			avg         float64
		)
		if err := rows.Scan(&componentID, &avg); err != nil {
			return nil, err
		}
		averages[componentID] = avg
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return averages, nil
}

// CourseAverage returns the average of every recorded score in the course,
// nil when the course has no scores at all.
func (r *AssessmentRepository) CourseAverage(ctx context.Context, courseID int64) (*float64, error) {
	query := `
		SELECT AVG(sa.score)
		FROM student_assessments sa
		JOIN enrollments e ON e.id = sa.enrollment_id
		WHERE e.course_id = $1
	`

	var avg *float64
	if err := r.db.QueryRow(ctx, query, courseID).Scan(&avg); err != nil {
		return nil, fmt.Errorf("error computing course average: %w", err)
	}

	return avg, nil
}

// StudentCourseAverage returns the average of the student's recorded scores
// in the course, nil when the student has none.
func (r *AssessmentRepository) StudentCourseAverage(ctx context.Context, courseID, studentID int64) (*float64, error) {
	query := `
		SELECT AVG(sa.score)
		FROM student_assessments sa
		JOIN enrollments e ON e.id = sa.enrollment_id
		WHERE e.course_id = $1 AND e.student_id = $2
	`

	var avg *float64
	if err := r.db.QueryRow(ctx, query, courseID, studentID).Scan(&avg); err != nil {
		return nil, fmt.Errorf("error computing student course average: %w", err)
	}

	return avg, nil
}
