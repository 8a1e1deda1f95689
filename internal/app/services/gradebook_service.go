package services

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/obetrack/outcometrics/internal/app/models"
	"github.com/obetrack/outcometrics/internal/app/models/dto"
	"github.com/obetrack/outcometrics/internal/app/repositories"
	"github.com/obetrack/outcometrics/internal/db"
	"github.com/obetrack/outcometrics/internal/pkg/apperrors"
	"github.com/obetrack/outcometrics/internal/pkg/backup"
	"github.com/obetrack/outcometrics/internal/pkg/gradesheet"
	"github.com/obetrack/outcometrics/internal/pkg/logger"
	"github.com/obetrack/outcometrics/internal/pkg/xlsx"
)

// Enrollments created by the merge engine get this year when the sheet does
// not say otherwise.
const defaultEnrollmentYear = 2023

// GradebookStore is the transactional storage surface the merge engine
// reconciles against. Lookup methods return nil (not an error) when the row
// is absent.
type GradebookStore interface {
	ComponentsByCourse(ctx context.Context, courseID int64) ([]*models.AssessmentComponent, error)
	CreateComponent(ctx context.Context, courseID int64, name string, weight int) (*models.AssessmentComponent, error)
	UpdateComponentWeight(ctx context.Context, componentID int64, weight int) error
	DeleteComponent(ctx context.Context, componentID int64) error

	StudentByNumber(ctx context.Context, number string) (*models.Student, error)
	CreateStudent(ctx context.Context, fullName, number string) (*models.Student, error)
	UpdateStudentName(ctx context.Context, studentID int64, fullName string) error

	EnrollmentFor(ctx context.Context, studentID, courseID int64) (*models.Enrollment, error)
	CreateEnrollment(ctx context.Context, studentID, courseID int64, year int) (*models.Enrollment, error)
	UpdateEnrollmentInfo(ctx context.Context, enrollment *models.Enrollment) error

	ScoreFor(ctx context.Context, enrollmentID, componentID int64) (*models.StudentAssessment, error)
	CreateScore(ctx context.Context, enrollmentID, componentID int64, score float64) error
	UpdateScore(ctx context.Context, assessmentID int64, score float64) error
}

// GradebookService decodes uploaded grade sheets, classifies their headers
// and merges rows into the persisted gradebook inside one transaction.
type GradebookService struct {
	db           *db.PostgresDB
	courseRepo   *repositories.CourseRepository
	snapshotter  backup.Snapshotter
	templatePath string
	previewLimit int
	log          zerolog.Logger
}

// NewGradebookService creates a new gradebook service
func NewGradebookService(database *db.PostgresDB, courseRepo *repositories.CourseRepository, snapshotter backup.Snapshotter, templatePath string, previewLimit int) *GradebookService {
	return &GradebookService{
		db:           database,
		courseRepo:   courseRepo,
		snapshotter:  snapshotter,
		templatePath: templatePath,
		previewLimit: previewLimit,
		log:          logger.WithComponent("gradebook"),
	}
}

// Preview decodes an uploaded sheet and returns its headers, padded rows and
// detected component column indices. The caller edits this preview and sends
// it back through ImportGrades.
func (s *GradebookService) Preview(filename string, data []byte) (*dto.PreviewResponse, error) {
	rows := xlsx.Rows(data, s.previewLimit)
	if len(rows) == 0 {
		s.log.Warn().Str("filename", filename).Msg("Uploaded sheet could not be decoded")
		return nil, apperrors.ErrUnreadableSheet
	}

	headers := rows[0]
	body := make([][]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		body = append(body, gradesheet.Pad(row, len(headers)))
	}

	columns := gradesheet.Classify(headers)
	numeric := make([]int, 0, len(columns.Components))
	for _, component := range columns.Components {
		numeric = append(numeric, component.Column)
	}

	s.log.Info().
		Str("filename", filename).
		Int("rows", len(body)).
		Int("components", len(columns.Components)).
		Msg("Grade sheet previewed")

	return &dto.PreviewResponse{
		Filename:       filename,
		Headers:        headers,
		Rows:           body,
		NumericColumns: numeric,
	}, nil
}

// TemplatePath returns the path of the reference sheet served for download.
func (s *GradebookService) TemplatePath() (string, error) {
	if _, err := os.Stat(s.templatePath); err != nil {
		return "", apperrors.ErrTemplateNotFound
	}
	return s.templatePath, nil
}

// ImportGrades classifies the submitted headers and merges the rows into the
// course's gradebook. The whole reconciliation runs in one transaction; a
// store snapshot is requested only after the commit.
func (s *GradebookService) ImportGrades(ctx context.Context, courseID int64, headers []string, rows [][]string) (int, error) {
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return 0, err
	}

	columns := gradesheet.Classify(headers)
	if !columns.HasStudentNumber() {
		return 0, apperrors.ErrNoStudentNumberColumn
	}

	padded := make([][]string, len(rows))
	for i, row := range rows {
		padded[i] = gradesheet.Pad(row, len(headers))
	}

	var updated int
	err = s.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		n, mergeErr := mergeGrades(ctx, repositories.NewGradebookTx(tx), courseID, columns, padded)
		if mergeErr != nil {
			return mergeErr
		}
		updated = n
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.log.Info().
		Str("course", course.Code).
		Int("rows", len(padded)).
		Int("updated", updated).
		Msg("Grade sheet imported")
	s.snapshotter.Snapshot("grade import: " + course.Code)

	return updated, nil
}

// mergeGrades reconciles classified sheet rows against the store. It assumes
// rows are padded to the header width and the student-number column resolved.
func mergeGrades(ctx context.Context, store GradebookStore, courseID int64, columns gradesheet.ColumnMap, rows [][]string) (int, error) {
	componentIDs, err := reconcileComponents(ctx, store, courseID, columns.Components)
	if err != nil {
		return 0, err
	}

	updated := 0
	for _, row := range rows {
		touched, err := mergeRow(ctx, store, courseID, columns, componentIDs, row)
		if err != nil {
			return 0, err
		}
		if touched {
			updated++
		}
	}

	return updated, nil
}

// reconcileComponents aligns the course's persisted components with the
// incoming header set: absent names are deleted (their scores cascade),
// matching names get their weight updated, new names are created. Returns
// the component ID for each incoming name.
func reconcileComponents(ctx context.Context, store GradebookStore, courseID int64, incoming []gradesheet.ComponentColumn) (map[string]int64, error) {
	existing, err := store.ComponentsByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}

	weights := make(map[string]int, len(incoming))
	for _, component := range incoming {
		weights[component.Name] = component.Weight
	}

	ids := make(map[string]int64, len(incoming))
	for _, component := range existing {
		weight, keep := weights[component.Name]
		if !keep {
			if err := store.DeleteComponent(ctx, component.ID); err != nil {
				return nil, err
			}
			continue
		}
		if component.WeightPercent != weight {
			if err := store.UpdateComponentWeight(ctx, component.ID, weight); err != nil {
				return nil, err
			}
		}
		ids[component.Name] = component.ID
	}

	for _, component := range incoming {
		if _, ok := ids[component.Name]; ok {
			continue
		}
		created, err := store.CreateComponent(ctx, courseID, component.Name, component.Weight)
		if err != nil {
			return nil, err
		}
		ids[component.Name] = created.ID
	}

	return ids, nil
}

// mergeRow upserts one sheet row: student, enrollment, enrollment info and
// component scores. Returns whether anything was actually written.
func mergeRow(ctx context.Context, store GradebookStore, courseID int64, columns gradesheet.ColumnMap, componentIDs map[string]int64, row []string) (bool, error) {
	number := strings.TrimSpace(cell(row, columns.StudentNumber))
	if number == "" {
		return false, nil
	}

	touched := false

	student, err := store.StudentByNumber(ctx, number)
	if err != nil {
		return false, err
	}

	fullName := candidateName(row, columns, number)
	if student == nil {
		student, err = store.CreateStudent(ctx, fullName, number)
		if err != nil {
			return false, err
		}
		touched = true
	} else if fullName != "" && fullName != student.FullName {
		if err := store.UpdateStudentName(ctx, student.ID, fullName); err != nil {
			return false, err
		}
		touched = true
	}

	enrollment, err := store.EnrollmentFor(ctx, student.ID, courseID)
	if err != nil {
		return false, err
	}
	if enrollment == nil {
		enrollment, err = store.CreateEnrollment(ctx, student.ID, courseID, defaultEnrollmentYear)
		if err != nil {
			return false, err
		}
		touched = true
	}

	infoChanged, err := mergeEnrollmentInfo(ctx, store, enrollment, columns, row)
	if err != nil {
		return false, err
	}
	if infoChanged {
		touched = true
	}

	for _, component := range columns.Components {
		componentID, ok := componentIDs[component.Name]
		if !ok {
			continue
		}
		score, ok := parseScore(cell(row, component.Column))
		if !ok {
			continue
		}
		scoreChanged, err := mergeScore(ctx, store, enrollment.ID, componentID, score)
		if err != nil {
			return false, err
		}
		if scoreChanged {
			touched = true
		}
	}

	return touched, nil
}

// mergeEnrollmentInfo copies the resolved info columns onto the enrollment
// and persists it when anything differs. Unresolved columns leave their
// field untouched.
func mergeEnrollmentInfo(ctx context.Context, store GradebookStore, enrollment *models.Enrollment, columns gradesheet.ColumnMap, row []string) (bool, error) {
	changed := false

	if columns.ClassLevel >= 0 {
		level := parseClassLevel(cell(row, columns.ClassLevel))
		if !equalIntPtr(enrollment.ClassLevel, level) {
			enrollment.ClassLevel = level
			changed = true
		}
	}
	if columns.EntryStatus >= 0 {
		status := strings.TrimSpace(cell(row, columns.EntryStatus))
		if enrollment.EntryStatus != status {
			enrollment.EntryStatus = status
			changed = true
		}
	}
	if columns.LetterGrade >= 0 {
		grade := strings.TrimSpace(cell(row, columns.LetterGrade))
		if enrollment.LetterGrade != grade {
			enrollment.LetterGrade = grade
			changed = true
		}
	}

	if !changed {
		return false, nil
	}
	if err := store.UpdateEnrollmentInfo(ctx, enrollment); err != nil {
		return false, err
	}
	return true, nil
}

// mergeScore upserts the (enrollment, component) score, writing only when
// the value differs.
func mergeScore(ctx context.Context, store GradebookStore, enrollmentID, componentID int64, score float64) (bool, error) {
	existing, err := store.ScoreFor(ctx, enrollmentID, componentID)
	if err != nil {
		return false, err
	}
	if existing == nil {
		if err := store.CreateScore(ctx, enrollmentID, componentID, score); err != nil {
			return false, err
		}
		return true, nil
	}
	if existing.Score == score {
		return false, nil
	}
	if err := store.UpdateScore(ctx, existing.ID, score); err != nil {
		return false, err
	}
	return true, nil
}

// candidateName joins the first and last name cells, falling back to the
// student number when both are blank.
func candidateName(row []string, columns gradesheet.ColumnMap, number string) string {
	first := strings.TrimSpace(cell(row, columns.FirstName))
	last := strings.TrimSpace(cell(row, columns.LastName))
	name := strings.TrimSpace(fmt.Sprintf("%s %s", first, last))
	if name == "" {
		return number
	}
	return name
}

// parseScore parses a score cell accepting both "." and "," as decimal
// separator. Values outside [0,100] are rejected like non-numeric text, so a
// bad cell never aborts the import.
func parseScore(text string) (float64, bool) {
	text = strings.TrimSpace(strings.ReplaceAll(text, ",", "."))
	if text == "" {
		return 0, false
	}
	score, err := strconv.ParseFloat(text, 64)
	if err != nil || score < 0 || score > 100 {
		return 0, false
	}
	return score, true
}

// parseClassLevel parses the class cell as an integer; anything else clears
// the field.
func parseClassLevel(text string) *int {
	level, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return nil
	}
	return &level
}

func equalIntPtr(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func cell(row []string, index int) string {
	if index < 0 || index >= len(row) {
		return ""
	}
	return row[index]
}
