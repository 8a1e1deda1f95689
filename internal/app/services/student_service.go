package services

import (
	"context"

	"github.com/obetrack/outcometrics/internal/app/models"
	"github.com/obetrack/outcometrics/internal/app/models/dto"
	"github.com/obetrack/outcometrics/internal/app/repositories"
)

// StudentService exposes the student roster and per-enrollment reports.
// Students themselves are created by grade imports, not through the API.
type StudentService struct {
	studentRepo *repositories.StudentRepository
	aggregation *AggregationService
}

// NewStudentService creates a new student service
func NewStudentService(studentRepo *repositories.StudentRepository, aggregation *AggregationService) *StudentService {
	return &StudentService{
		studentRepo: studentRepo,
		aggregation: aggregation,
	}
}

// GetAll lists all known students
func (s *StudentService) GetAll(ctx context.Context) ([]*models.Student, error) {
	return s.studentRepo.GetAll(ctx)
}

// GetByID retrieves one student
func (s *StudentService) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	return s.studentRepo.GetByID(ctx, id)
}

// GetEnrollments lists a student's enrollments with courses populated.
func (s *StudentService) GetEnrollments(ctx context.Context, studentID int64) ([]*models.Enrollment, error) {
	if _, err := s.studentRepo.GetByID(ctx, studentID); err != nil {
		return nil, err
	}
	return s.studentRepo.GetEnrollmentsByStudent(ctx, studentID)
}

// GetReport builds the outcome report for one of the student's enrollments.
func (s *StudentService) GetReport(ctx context.Context, studentID, courseID int64) (*dto.EnrollmentReport, error) {
	if _, err := s.studentRepo.GetByID(ctx, studentID); err != nil {
		return nil, err
	}
	return s.aggregation.BuildEnrollmentReport(ctx, studentID, courseID)
}
