package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories bundles all repository instances
type Repositories struct {
	Course     *CourseRepository
	Outcome    *OutcomeRepository
	Component  *ComponentRepository
	Student    *StudentRepository
	Assessment *AssessmentRepository
}

// NewRepositories creates all repositories sharing one connection pool
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		Course:     NewCourseRepository(db),
		Outcome:    NewOutcomeRepository(db),
		Component:  NewComponentRepository(db),
		Student:    NewStudentRepository(db),
		Assessment: NewAssessmentRepository(db),
	}
}
