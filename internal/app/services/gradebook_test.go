package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/obetrack/outcometrics/internal/app/models"
	"github.com/obetrack/outcometrics/internal/pkg/gradesheet"
)

// fakeStore is an in-memory GradebookStore mirroring the cascade behavior of
// the real schema: deleting a component drops its scores.
type fakeStore struct {
	nextID      int64
	components  map[int64]*models.AssessmentComponent
	students    map[int64]*models.Student
	enrollments map[int64]*models.Enrollment
	scores      map[int64]*models.StudentAssessment
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		components:  make(map[int64]*models.AssessmentComponent),
		students:    make(map[int64]*models.Student),
		enrollments: make(map[int64]*models.Enrollment),
		scores:      make(map[int64]*models.StudentAssessment),
	}
}

func (f *fakeStore) id() int64 {
	f.nextID++
	return f.nextID
}

func (f *fakeStore) ComponentsByCourse(_ context.Context, courseID int64) ([]*models.AssessmentComponent, error) {
	var out []*models.AssessmentComponent
	for _, c := range f.components {
		if c.CourseID == courseID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeStore) CreateComponent(_ context.Context, courseID int64, name string, weight int) (*models.AssessmentComponent, error) {
	c := &models.AssessmentComponent{ID: f.id(), CourseID: courseID, Name: name, WeightPercent: weight}
	f.components[c.ID] = c
	return c, nil
}

func (f *fakeStore) UpdateComponentWeight(_ context.Context, componentID int64, weight int) error {
	f.components[componentID].WeightPercent = weight
	return nil
}

func (f *fakeStore) DeleteComponent(_ context.Context, componentID int64) error {
	delete(f.components, componentID)
	for id, score := range f.scores {
		if score.AssessmentComponentID == componentID {
			delete(f.scores, id)
		}
	}
	return nil
}

func (f *fakeStore) StudentByNumber(_ context.Context, number string) (*models.Student, error) {
	for _, s := range f.students {
		if s.StudentNumber == number {
			return s, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) CreateStudent(_ context.Context, fullName, number string) (*models.Student, error) {
	s := &models.Student{ID: f.id(), FullName: fullName, StudentNumber: number}
	f.students[s.ID] = s
	return s, nil
}

func (f *fakeStore) UpdateStudentName(_ context.Context, studentID int64, fullName string) error {
	f.students[studentID].FullName = fullName
	return nil
}

func (f *fakeStore) EnrollmentFor(_ context.Context, studentID, courseID int64) (*models.Enrollment, error) {
	for _, e := range f.enrollments {
		if e.StudentID == studentID && e.CourseID == courseID {
			return e, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) CreateEnrollment(_ context.Context, studentID, courseID int64, year int) (*models.Enrollment, error) {
	e := &models.Enrollment{ID: f.id(), StudentID: studentID, CourseID: courseID, Year: year, Result: models.ResultInProgress}
	f.enrollments[e.ID] = e
	return e, nil
}

func (f *fakeStore) UpdateEnrollmentInfo(_ context.Context, enrollment *models.Enrollment) error {
	f.enrollments[enrollment.ID] = enrollment
	return nil
}

func (f *fakeStore) ScoreFor(_ context.Context, enrollmentID, componentID int64) (*models.StudentAssessment, error) {
	for _, score := range f.scores {
		if score.EnrollmentID == enrollmentID && score.AssessmentComponentID == componentID {
			return score, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) CreateScore(_ context.Context, enrollmentID, componentID int64, value float64) error {
	score := &models.StudentAssessment{ID: f.id(), EnrollmentID: enrollmentID, AssessmentComponentID: componentID, Score: value}
	f.scores[score.ID] = score
	return nil
}

func (f *fakeStore) UpdateScore(_ context.Context, assessmentID int64, value float64) error {
	f.scores[assessmentID].Score = value
	return nil
}

func (f *fakeStore) scoreValues(enrollmentID int64) map[string]float64 {
	out := make(map[string]float64)
	for _, score := range f.scores {
		if score.EnrollmentID == enrollmentID {
			out[f.components[score.AssessmentComponentID].Name] = score.Score
		}
	}
	return out
}

func classifyAndPad(t *testing.T, headers []string, rows [][]string) (gradesheet.ColumnMap, [][]string) {
	t.Helper()
	columns := gradesheet.Classify(headers)
	require.True(t, columns.HasStudentNumber())
	padded := make([][]string, len(rows))
	for i, row := range rows {
		padded[i] = gradesheet.Pad(row, len(headers))
	}
	return columns, padded
}

func TestMergeCreatesStudentsEnrollmentsAndScores(t *testing.T) {
	store := newFakeStore()
	headers := []string{"Öğrenci No", "Ad", "Soyad", "Vize(%40)", "Proje(%60)"}
	rows := [][]string{
		{"20231234", "Ayşe", "Demir", "80", "90"},
		{"20231235", "Mehmet", "Kaya", "55,5", ""},
	}

	columns, padded := classifyAndPad(t, headers, rows)
	updated, err := mergeGrades(context.Background(), store, 1, columns, padded)
	require.NoError(t, err)
	assert.Equal(t, 2, updated)

	require.Len(t, store.students, 2)
	require.Len(t, store.enrollments, 2)
	require.Len(t, store.components, 2)

	first, err := store.StudentByNumber(context.Background(), "20231234")
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.Equal(t, "Ayşe Demir", first.FullName)

	enrollment, err := store.EnrollmentFor(context.Background(), first.ID, 1)
	require.NoError(t, err)
	require.NotNil(t, enrollment)
	assert.Equal(t, defaultEnrollmentYear, enrollment.Year)
	assert.Equal(t, map[string]float64{"Vize": 80, "Proje": 90}, store.scoreValues(enrollment.ID))

	second, err := store.StudentByNumber(context.Background(), "20231235")
	require.NoError(t, err)
	require.NotNil(t, second)
	secondEnrollment, err := store.EnrollmentFor(context.Background(), second.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"Vize": 55.5}, store.scoreValues(secondEnrollment.ID))
}

func TestMergeIsIdempotent(t *testing.T) {
	store := newFakeStore()
	headers := []string{"No", "Ad", "Soyad", "Vize(%40)"}
	rows := [][]string{{"1001", "Ali", "Can", "70"}}

	columns, padded := classifyAndPad(t, headers, rows)
	updated, err := mergeGrades(context.Background(), store, 1, columns, padded)
	require.NoError(t, err)
	assert.Equal(t, 1, updated)

	students, enrollments, components, scores := len(store.students), len(store.enrollments), len(store.components), len(store.scores)

	updated, err = mergeGrades(context.Background(), store, 1, columns, padded)
	require.NoError(t, err)
	assert.Zero(t, updated)
	assert.Equal(t, students, len(store.students))
	assert.Equal(t, enrollments, len(store.enrollments))
	assert.Equal(t, components, len(store.components))
	assert.Equal(t, scores, len(store.scores))
}

func TestMergeSkipsBlankStudentNumber(t *testing.T) {
	store := newFakeStore()
	headers := []string{"No", "Ad", "Soyad", "Vize(%40)"}
	rows := [][]string{
		{"", "Hayalet", "Öğrenci", "99"},
		{"   ", "Diğer", "Hayalet", "98"},
		{"1002", "Zeynep", "Ak", "85"},
	}

	columns, padded := classifyAndPad(t, headers, rows)
	updated, err := mergeGrades(context.Background(), store, 1, columns, padded)
	require.NoError(t, err)
	assert.Equal(t, 1, updated)
	assert.Len(t, store.students, 1)
}

func TestMergeRemovedComponentCascades(t *testing.T) {
	store := newFakeStore()
	first := []string{"No", "Vize(%40)", "Quiz(%10)"}
	columns, padded := classifyAndPad(t, first, [][]string{{"1003", "60", "90"}})
	_, err := mergeGrades(context.Background(), store, 1, columns, padded)
	require.NoError(t, err)

	// Unrelated course keeps its component and scores.
	otherColumns, otherRows := classifyAndPad(t, []string{"No", "Quiz(%10)"}, [][]string{{"1003", "50"}})
	_, err = mergeGrades(context.Background(), store, 2, otherColumns, otherRows)
	require.NoError(t, err)

	second := []string{"No", "Vize(%40)"}
	columns, padded = classifyAndPad(t, second, [][]string{{"1003", "60"}})
	_, err = mergeGrades(context.Background(), store, 1, columns, padded)
	require.NoError(t, err)

	names := make(map[string]int64)
	for _, c := range store.components {
		names[c.Name] = c.CourseID
	}
	assert.Equal(t, map[string]int64{"Vize": 1, "Quiz": 2}, names)

	student, err := store.StudentByNumber(context.Background(), "1003")
	require.NoError(t, err)
	enrollment, err := store.EnrollmentFor(context.Background(), student.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"Vize": 60}, store.scoreValues(enrollment.ID))

	otherEnrollment, err := store.EnrollmentFor(context.Background(), student.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"Quiz": 50}, store.scoreValues(otherEnrollment.ID))
}

func TestMergeUpdatesWeightAndScoreOnReupload(t *testing.T) {
	store := newFakeStore()
	columns, padded := classifyAndPad(t, []string{"No", "Vize(%40)"}, [][]string{{"1004", "70"}})
	_, err := mergeGrades(context.Background(), store, 1, columns, padded)
	require.NoError(t, err)

	columns, padded = classifyAndPad(t, []string{"No", "Vize(%50)"}, [][]string{{"1004", "72,5"}})
	updated, err := mergeGrades(context.Background(), store, 1, columns, padded)
	require.NoError(t, err)
	assert.Equal(t, 1, updated)

	require.Len(t, store.components, 1)
	for _, c := range store.components {
		assert.Equal(t, 50, c.WeightPercent)
	}
	require.Len(t, store.scores, 1)
	for _, score := range store.scores {
		assert.Equal(t, 72.5, score.Score)
	}
}

func TestMergeSkipsBadCellsButProcessesRow(t *testing.T) {
	store := newFakeStore()
	headers := []string{"No", "Sınıf", "Vize(%40)", "Proje(%60)"}
	rows := [][]string{{"1005", "3", "not a number", "101"}}

	columns, padded := classifyAndPad(t, headers, rows)
	updated, err := mergeGrades(context.Background(), store, 1, columns, padded)
	require.NoError(t, err)

	// Both score cells are unusable but the enrollment path still ran.
	assert.Equal(t, 1, updated)
	assert.Empty(t, store.scores)

	student, err := store.StudentByNumber(context.Background(), "1005")
	require.NoError(t, err)
	enrollment, err := store.EnrollmentFor(context.Background(), student.ID, 1)
	require.NoError(t, err)
	require.NotNil(t, enrollment.ClassLevel)
	assert.Equal(t, 3, *enrollment.ClassLevel)
}

func TestMergeClearsClassLevelOnNonNumericCell(t *testing.T) {
	store := newFakeStore()
	headers := []string{"No", "Sınıf"}

	columns, padded := classifyAndPad(t, headers, [][]string{{"1006", "2"}})
	_, err := mergeGrades(context.Background(), store, 1, columns, padded)
	require.NoError(t, err)

	columns, padded = classifyAndPad(t, headers, [][]string{{"1006", "hazırlık"}})
	updated, err := mergeGrades(context.Background(), store, 1, columns, padded)
	require.NoError(t, err)
	assert.Equal(t, 1, updated)

	student, err := store.StudentByNumber(context.Background(), "1006")
	require.NoError(t, err)
	enrollment, err := store.EnrollmentFor(context.Background(), student.ID, 1)
	require.NoError(t, err)
	assert.Nil(t, enrollment.ClassLevel)
}

func TestMergeNameFallsBackToNumber(t *testing.T) {
	store := newFakeStore()
	headers := []string{"No", "Ad", "Soyad"}
	columns, padded := classifyAndPad(t, headers, [][]string{{"1007", "", ""}})

	_, err := mergeGrades(context.Background(), store, 1, columns, padded)
	require.NoError(t, err)

	student, err := store.StudentByNumber(context.Background(), "1007")
	require.NoError(t, err)
	assert.Equal(t, "1007", student.FullName)
}

func TestMergeUpdatesStoredName(t *testing.T) {
	store := newFakeStore()
	headers := []string{"No", "Ad", "Soyad"}

	columns, padded := classifyAndPad(t, headers, [][]string{{"1008", "Elif", "Yilmaz"}})
	_, err := mergeGrades(context.Background(), store, 1, columns, padded)
	require.NoError(t, err)

	columns, padded = classifyAndPad(t, headers, [][]string{{"1008", "Elif", "Yılmaz"}})
	updated, err := mergeGrades(context.Background(), store, 1, columns, padded)
	require.NoError(t, err)
	assert.Equal(t, 1, updated)

	student, err := store.StudentByNumber(context.Background(), "1008")
	require.NoError(t, err)
	assert.Equal(t, "Elif Yılmaz", student.FullName)
}

func TestParseScore(t *testing.T) {
	cases := []struct {
		text  string
		want  float64
		valid bool
	}{
		{"80", 80, true},
		{"87,5", 87.5, true},
		{"87.5", 87.5, true},
		{" 100 ", 100, true},
		{"0", 0, true},
		{"", 0, false},
		{"abc", 0, false},
		{"101", 0, false},
		{"-1", 0, false},
	}
	for _, tc := range cases {
		got, ok := parseScore(tc.text)
		assert.Equal(t, tc.valid, ok, tc.text)
		if tc.valid {
			assert.Equal(t, tc.want, got, tc.text)
		}
	}
}
