package gradesheet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyFixedRoles(t *testing.T) {
	headers := []string{"Öğrenci No", "Ad", "Soyad", "Sınıf", "Giriş Şekli", "Harf Notu"}

	m := Classify(headers)

	assert.Equal(t, 0, m.StudentNumber)
	assert.Equal(t, 1, m.FirstName)
	assert.Equal(t, 2, m.LastName)
	assert.Equal(t, 3, m.ClassLevel)
	assert.Equal(t, 4, m.EntryStatus)
	assert.Equal(t, 5, m.LetterGrade)
	assert.True(t, m.HasStudentNumber())
}

func TestClassifyAsciiSpellings(t *testing.T) {
	m := Classify([]string{"Ogrenci No", "Adi", "Soyadi"})

	assert.Equal(t, 0, m.StudentNumber)
	assert.Equal(t, 1, m.FirstName)
	assert.Equal(t, 2, m.LastName)
	assert.Equal(t, -1, m.ClassLevel)
}

func TestClassifyDuplicateSuffixedHeaders(t *testing.T) {
	// Export tools rename duplicated columns to "Ad.1", "Ad.2" etc.
	m := Classify([]string{"No", "Ad.1", "Soyad.2"})

	assert.Equal(t, 0, m.StudentNumber)
	assert.Equal(t, 1, m.FirstName)
	assert.Equal(t, 2, m.LastName)
}

func TestClassifyUnresolvedRoles(t *testing.T) {
	m := Classify([]string{"Bölüm", "Fakülte"})

	assert.False(t, m.HasStudentNumber())
	assert.Equal(t, -1, m.FirstName)
	assert.Empty(t, m.Components)
}

func TestClassifyComponents(t *testing.T) {
	headers := []string{"Öğrenci No", "Vize(%40)", "Proje (%60)", "Final(%120)", "(%30)", "Devam"}

	m := Classify(headers)

	require.Len(t, m.Components, 2)
	assert.Equal(t, ComponentColumn{Name: "Vize", Weight: 40, Column: 1}, m.Components[0])
	assert.Equal(t, ComponentColumn{Name: "Proje", Weight: 60, Column: 2}, m.Components[1])
}

func TestClassifyComponentOrderFollowsHeaders(t *testing.T) {
	m := Classify([]string{"Proje(%60)", "No", "Vize(%40)"})

	require.Len(t, m.Components, 2)
	assert.Equal(t, "Proje", m.Components[0].Name)
	assert.Equal(t, "Vize", m.Components[1].Name)
}

func TestPad(t *testing.T) {
	assert.Equal(t, []string{"a", "", ""}, Pad([]string{"a"}, 3))
	assert.Equal(t, []string{"a", "b"}, Pad([]string{"a", "b", "c"}, 2))
	assert.Equal(t, []string{"a", "b"}, Pad([]string{"a", "b"}, 2))
}
