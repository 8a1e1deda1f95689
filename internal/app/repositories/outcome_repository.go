package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/obetrack/outcometrics/internal/app/models"
	"github.com/obetrack/outcometrics/internal/pkg/apperrors"
	"github.com/obetrack/outcometrics/internal/pkg/dberrors"
)

// OutcomeRepository handles database operations for learning outcomes,
// program outcomes and the weighted LO→PO links between them.
type OutcomeRepository struct {
	db *pgxpool.Pool
}

// NewOutcomeRepository creates a new outcome repository
func NewOutcomeRepository(db *pgxpool.Pool) *OutcomeRepository {
	return &OutcomeRepository{db: db}
}

// --- Learning outcomes ---

// CreateLearningOutcome creates a learning outcome for a course
func (r *OutcomeRepository) CreateLearningOutcome(ctx context.Context, lo *models.LearningOutcome) error {
	query := `
		INSERT INTO learning_outcomes (course_id, code, description)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query, lo.CourseID, lo.Code, lo.Description).Scan(&lo.ID)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "uq_learning_outcome") {
			return apperrors.NewConflictError("learning outcome code already exists for this course")
		}
		return fmt.Errorf("error creating learning outcome: %w", err)
	}

	return nil
}

// GetLearningOutcomesByCourse retrieves a course's learning outcomes ordered by code
func (r *OutcomeRepository) GetLearningOutcomesByCourse(ctx context.Context, courseID int64) ([]*models.LearningOutcome, error) {
	query := `
		SELECT id, course_id, code, description
		FROM learning_outcomes
		WHERE course_id = $1
		ORDER BY code
	`

	rows, err := r.db.Query(ctx, query, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var outcomes []*models.LearningOutcome
	for rows.Next() {
		var lo models.LearningOutcome
		if err := rows.Scan(&lo.ID, &lo.CourseID, &lo.Code, &lo.Description); err != nil {
			return nil, err
		}
		outcomes = append(outcomes, &lo)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return outcomes, nil
}

// DeleteLearningOutcome removes a learning outcome and, via cascade, its
// links and contribution edges.
func (r *OutcomeRepository) DeleteLearningOutcome(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM learning_outcomes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting learning outcome: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrOutcomeNotFound
	}

	return nil
}

// GetPassedOutcomeCodes retrieves the distinct learning-outcome codes of
// every course the student has passed. Matching is by code string across
// courses, not by identity.
func (r *OutcomeRepository) GetPassedOutcomeCodes(ctx context.Context, studentID int64) (map[string]bool, error) {
	query := `
		SELECT DISTINCT lo.code
		FROM learning_outcomes lo
		JOIN enrollments e ON e.course_id = lo.course_id
		WHERE e.student_id = $1 AND e.result = 'passed'
	`

	rows, err := r.db.Query(ctx, query, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	codes := make(map[string]bool)
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, err
		}
		codes[code] = true
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return codes, nil
}

// --- Program outcomes ---

// CreateProgramOutcome creates a program outcome
func (r *OutcomeRepository) CreateProgramOutcome(ctx context.Context, po *models.ProgramOutcome) error {
	query := `
		INSERT INTO program_outcomes (code, title, description)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query, po.Code, po.Title, po.Description).Scan(&po.ID)
	if err != nil {
		return fmt.Errorf("error creating program outcome: %w", err)
	}

	return nil
}

// GetAllProgramOutcomes retrieves all program outcomes ordered by code
func (r *OutcomeRepository) GetAllProgramOutcomes(ctx context.Context) ([]*models.ProgramOutcome, error) {
	query := `
		SELECT id, code, title, description
		FROM program_outcomes
		ORDER BY code
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var outcomes []*models.ProgramOutcome
	for rows.Next() {
		var po models.ProgramOutcome
		if err := rows.Scan(&po.ID, &po.Code, &po.Title, &po.Description); err != nil {
			return nil, err
		}
		outcomes = append(outcomes, &po)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return outcomes, nil
}

// DeleteProgramOutcome removes a program outcome and its links
func (r *OutcomeRepository) DeleteProgramOutcome(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM program_outcomes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting program outcome: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrProgramOutcomeNotFound
	}

	return nil
}

// --- LO→PO links ---

// CreateLink creates an LO→PO link
func (r *OutcomeRepository) CreateLink(ctx context.Context, link *models.OutcomeLink) error {
	query := `
		INSERT INTO outcome_links (learning_outcome_id, program_outcome_id, weight)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query, link.LearningOutcomeID, link.ProgramOutcomeID, link.Weight).Scan(&link.ID)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "uq_outcome_link") {
			return apperrors.NewConflictError("this learning outcome is already linked to that program outcome")
		}
		return fmt.Errorf("error creating outcome link: %w", err)
	}

	return nil
}

// UpdateLinkWeight updates the weight of an existing link
func (r *OutcomeRepository) UpdateLinkWeight(ctx context.Context, linkID int64, weight int) error {
	tag, err := r.db.Exec(ctx, `UPDATE outcome_links SET weight = $2 WHERE id = $1`, linkID, weight)
	if err != nil {
		return fmt.Errorf("error updating outcome link: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrResourceNotFound
	}

	return nil
}

// DeleteLink removes an LO→PO link
func (r *OutcomeRepository) DeleteLink(ctx context.Context, linkID int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM outcome_links WHERE id = $1`, linkID)
	if err != nil {
		return fmt.Errorf("error deleting outcome link: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrResourceNotFound
	}

	return nil
}

// GetAllLinks retrieves every LO→PO link with its learning outcome, owning
// course and program outcome populated. Feeds the PO rollup, the analytics
// edge list and the heatmap rebuild.
func (r *OutcomeRepository) GetAllLinks(ctx context.Context) ([]*models.OutcomeLink, error) {
	query := `
		SELECT l.id, l.learning_outcome_id, l.program_outcome_id, l.weight,
		       lo.course_id, lo.code, lo.description,
		       po.code, po.title, po.description,
		       c.id, c.code, c.name, c.term
		FROM outcome_links l
		JOIN learning_outcomes lo ON lo.id = l.learning_outcome_id
		JOIN program_outcomes po ON po.id = l.program_outcome_id
		JOIN courses c ON c.id = lo.course_id
		ORDER BY c.code, lo.code, po.code
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var links []*models.OutcomeLink
	for rows.Next() {
		var (
			link models.OutcomeLink
			lo   models.LearningOutcome
			po   models.ProgramOutcome
			c    models.Course
		)
		if err := rows.Scan(
			&link.ID, &link.LearningOutcomeID, &link.ProgramOutcomeID, &link.Weight,
			&lo.CourseID, &lo.Code, &lo.Description,
			&po.Code, &po.Title, &po.Description,
			&c.ID, &c.Code, &c.Name, &c.Term,
		); err != nil {
			return nil, err
		}
		lo.ID = link.LearningOutcomeID
		lo.Course = &c
		po.ID = link.ProgramOutcomeID
		link.LearningOutcome = &lo
		link.ProgramOutcome = &po
		links = append(links, &link)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return links, nil
}

// CountLinksByCourse counts the LO→PO links whose learning outcome belongs
// to the course.
func (r *OutcomeRepository) CountLinksByCourse(ctx context.Context, courseID int64) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM outcome_links l
		JOIN learning_outcomes lo ON lo.id = l.learning_outcome_id
		WHERE lo.course_id = $1
	`

	var count int
	if err := r.db.QueryRow(ctx, query, courseID).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting outcome links: %w", err)
	}

	return count, nil
}
