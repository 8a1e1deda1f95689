package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/obetrack/outcometrics/internal/app/models"
	"github.com/obetrack/outcometrics/internal/pkg/apperrors"
	"github.com/obetrack/outcometrics/internal/pkg/dberrors"
)

// ComponentRepository handles database operations for assessment components
// and their contribution edges toward learning outcomes.
type ComponentRepository struct {
	db *pgxpool.Pool
}

// NewComponentRepository creates a new component repository
func NewComponentRepository(db *pgxpool.Pool) *ComponentRepository {
	return &ComponentRepository{db: db}
}

// Create creates an assessment component for a course
func (r *ComponentRepository) Create(ctx context.Context, component *models.AssessmentComponent) error {
	query := `
		INSERT INTO assessment_components (course_id, name, weight_percent)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query, component.CourseID, component.Name, component.WeightPercent).Scan(&component.ID)
	if err != nil {
		return fmt.Errorf("error creating assessment component: %w", err)
	}

	return nil
}

// GetByID retrieves a component by ID
func (r *ComponentRepository) GetByID(ctx context.Context, id int64) (*models.AssessmentComponent, error) {
	query := `
		SELECT id, course_id, name, weight_percent
		FROM assessment_components
		WHERE id = $1
	`

	var component models.AssessmentComponent
	err := r.db.QueryRow(ctx, query, id).Scan(
		&component.ID,
		&component.CourseID,
		&component.Name,
		&component.WeightPercent,
	)
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrComponentNotFound
		}
		return nil, fmt.Errorf("error retrieving assessment component: %w", err)
	}

	return &component, nil
}

// GetByCourse retrieves a course's components ordered by name
func (r *ComponentRepository) GetByCourse(ctx context.Context, courseID int64) ([]*models.AssessmentComponent, error) {
	query := `
		SELECT id, course_id, name, weight_percent
		FROM assessment_components
		WHERE course_id = $1
		ORDER BY name
	`

	rows, err := r.db.Query(ctx, query, courseID)
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

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return components, nil
}

// Update updates a component's name and weight
func (r *ComponentRepository) Update(ctx context.Context, component *models.AssessmentComponent) error {
	query := `
		UPDATE assessment_components
		SET name = $2, weight_percent = $3
		WHERE id = $1
	`

	tag, err := r.db.Exec(ctx, query, component.ID, component.Name, component.WeightPercent)
	if err != nil {
		return fmt.Errorf("error updating assessment component: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrComponentNotFound
	}

	return nil
}

// Delete removes a component; its scores and contribution edges cascade.
func (r *ComponentRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM assessment_components WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting assessment component: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrComponentNotFound
	}

	return nil
}

// MaxWeightByCourse returns the largest component weight in the course, 0
// when the course has no components.
func (r *ComponentRepository) MaxWeightByCourse(ctx context.Context, courseID int64) (int, error) {
	query := `
		SELECT COALESCE(MAX(weight_percent), 0)
		FROM assessment_components
		WHERE course_id = $1
	`

	var max int
	if err := r.db.QueryRow(ctx, query, courseID).Scan(&max); err != nil {
		return 0, fmt.Errorf("error retrieving max component weight: %w", err)
	}

	return max, nil
}

// --- Contribution edges ---

// CreateContribution creates a component → learning-outcome contribution edge
func (r *ComponentRepository) CreateContribution(ctx context.Context, contribution *models.Contribution) error {
	query := `
		INSERT INTO contributions (assessment_component_id, learning_outcome_id, contribution_percent)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query,
		contribution.AssessmentComponentID,
		contribution.LearningOutcomeID,
		contribution.ContributionPercent,
	).Scan(&contribution.ID)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "uq_contribution") {
			return apperrors.NewConflictError("this component already contributes to that learning outcome")
		}
		return fmt.Errorf("error creating contribution: %w", err)
	}

	return nil
}

// UpdateContribution updates a contribution edge's percent
func (r *ComponentRepository) UpdateContribution(ctx context.Context, contributionID int64, percent int) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE contributions SET contribution_percent = $2 WHERE id = $1`,
		contributionID, percent)
	if err != nil {
		return fmt.Errorf("error updating contribution: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrResourceNotFound
	}

	return nil
}

// DeleteContribution removes a contribution edge
func (r *ComponentRepository) DeleteContribution(ctx context.Context, contributionID int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM contributions WHERE id = $1`, contributionID)
	if err != nil {
		return fmt.Errorf("error deleting contribution: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrResourceNotFound
	}

	return nil
}

// GetContributionsByCourse retrieves the contribution edges of a course's
// components with component and learning outcome populated. Ordered by
// component name then outcome code; feeds aggregation and coverage.
func (r *ComponentRepository) GetContributionsByCourse(ctx context.Context, courseID int64) ([]*models.Contribution, error) {
	query := `
		SELECT ct.id, ct.assessment_component_id, ct.learning_outcome_id, ct.contribution_percent,
		       ac.course_id, ac.name, ac.weight_percent,
		       lo.course_id, lo.code, lo.description
		FROM contributions ct
		JOIN assessment_components ac ON ac.id = ct.assessment_component_id
		JOIN learning_outcomes lo ON lo.id = ct.learning_outcome_id
		WHERE ac.course_id = $1
		ORDER BY ac.name, lo.code
	`

	rows, err := r.db.Query(ctx, query, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var contributions []*models.Contribution
	for rows.Next() {
		var (
			ct models.Contribution
			ac models.AssessmentComponent
			lo models.LearningOutcome
		)
		if err := rows.Scan(
			&ct.ID, &ct.AssessmentComponentID, &ct.LearningOutcomeID, &ct.ContributionPercent,
			&ac.CourseID, &ac.Name, &ac.WeightPercent,
			&lo.CourseID, &lo.Code, &lo.Description,
		); err != nil {
			return nil, err
		}
		ac.ID = ct.AssessmentComponentID
		lo.ID = ct.LearningOutcomeID
		ct.AssessmentComponent = &ac
		ct.LearningOutcome = &lo
		contributions = append(contributions, &ct)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return contributions, nil
}

// GetAllContributions retrieves every contribution edge with relations and
// the owning course, ordered by course code then component name. Feeds the
// analytics contribution list.
func (r *ComponentRepository) GetAllContributions(ctx context.Context) ([]*models.Contribution, error) {
	query := `
		SELECT ct.id, ct.assessment_component_id, ct.learning_outcome_id, ct.contribution_percent,
		       ac.course_id, ac.name, ac.weight_percent,
		       lo.course_id, lo.code, lo.description,
		       c.id, c.code, c.name, c.term
		FROM contributions ct
		JOIN assessment_components ac ON ac.id = ct.assessment_component_id
		JOIN learning_outcomes lo ON lo.id = ct.learning_outcome_id
		JOIN courses c ON c.id = ac.course_id
		ORDER BY c.code, ac.name
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var contributions []*models.Contribution
	for rows.Next() {
		var (
			ct models.Contribution
			ac models.AssessmentComponent
			lo models.LearningOutcome
			c  models.Course
		)
		if err := rows.Scan(
			&ct.ID, &ct.AssessmentComponentID, &ct.LearningOutcomeID, &ct.ContributionPercent,
			&ac.CourseID, &ac.Name, &ac.WeightPercent,
			&lo.CourseID, &lo.Code, &lo.Description,
			&c.ID, &c.Code, &c.Name, &c.Term,
		); err != nil {
			return nil, err
		}
		ac.ID = ct.AssessmentComponentID
		lo.ID = ct.LearningOutcomeID
		lo.Course = &c
		ct.AssessmentComponent = &ac
		ct.LearningOutcome = &lo
		contributions = append(contributions, &ct)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return contributions, nil
}
