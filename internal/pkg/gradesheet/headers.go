// Package gradesheet turns raw spreadsheet headers into semantic columns:
// fixed student-info roles plus weighted grading components declared inline
// in the header text.
package gradesheet

import (
	"regexp"
	"strconv"
	"strings"
)

// ComponentColumn is a grading component detected from a header of the form
// "<name>(%<weight>)", e.g. "Vize(%40)".
type ComponentColumn struct {
	Name   string
	Weight int
	Column int
}

// ColumnMap holds the resolved column index for each fixed role (-1 when the
// role did not resolve) and the detected component columns in left-to-right
// header order. It is built once per import and reused for every row.
type ColumnMap struct {
	StudentNumber int
	FirstName     int
	LastName      int
	ClassLevel    int
	EntryStatus   int
	LetterGrade   int
	Components    []ComponentColumn
}

// HasStudentNumber reports whether a student-number column resolved. Imports
// without one are rejected before anything is written.
func (m ColumnMap) HasStudentNumber() bool {
	return m.StudentNumber >= 0
}

// Accepted spellings per role, matched case-insensitively against the
// normalized header. Turkish exports come both with and without diacritics.
var (
	studentNumberSpellings = []string{"öğrenci no", "ogrenci no", "öğrenci numarası", "ogrenci numarasi", "okul no", "no", "numara"}
	firstNameSpellings     = []string{"ad", "adı", "adi", "isim"}
	lastNameSpellings      = []string{"soyad", "soyadı", "soyadi"}
	classLevelSpellings    = []string{"sınıf", "sinif", "sınıfı", "sinifi"}
	entryStatusSpellings   = []string{"giriş şekli", "giris sekli", "giriş", "giris", "statü", "statu"}
	letterGradeSpellings   = []string{"harf notu", "harf", "not"}
)

var componentPattern = regexp.MustCompile(`^(.+?)\(%(\d{1,3})\)$`)

// Classify resolves the fixed roles and component columns for the given
// header row.
func Classify(headers []string) ColumnMap {
	m := ColumnMap{
		StudentNumber: resolveRole(headers, studentNumberSpellings),
		FirstName:     resolveRole(headers, firstNameSpellings),
		LastName:      resolveRole(headers, lastNameSpellings),
		ClassLevel:    resolveRole(headers, classLevelSpellings),
		EntryStatus:   resolveRole(headers, entryStatusSpellings),
		LetterGrade:   resolveRole(headers, letterGradeSpellings),
	}

	for i, header := range headers {
		name, weight, ok := parseComponent(normalize(header))
		if !ok {
			continue
		}
		m.Components = append(m.Components, ComponentColumn{
			Name:   name,
			Weight: weight,
			Column: i,
		})
	}

	return m
}

// normalize reduces a header to the substring before its first '.' and trims
// surrounding whitespace. Export tools suffix duplicated headers with ".1",
// ".2" and so on.
func normalize(header string) string {
	if i := strings.IndexByte(header, '.'); i >= 0 {
		header = header[:i]
	}
	return strings.TrimSpace(header)
}

// resolveRole returns the index of the first header matching any accepted
// spelling, or -1 when none match.
func resolveRole(headers []string, spellings []string) int {
	for i, header := range headers {
		normalized := strings.ToLower(normalize(header))
		for _, spelling := range spellings {
			if normalized == spelling {
				return i
			}
		}
	}
	return -1
}

// parseComponent matches the anchored "<name>(%<weight>)" pattern. Weights
// outside [0,100] reject the column.
func parseComponent(header string) (string, int, bool) {
	match := componentPattern.FindStringSubmatch(header)
	if match == nil {
		return "", 0, false
	}
	weight, err := strconv.Atoi(match[2])
	if err != nil || weight < 0 || weight > 100 {
		return "", 0, false
	}
	name := strings.TrimSpace(match[1])
	if name == "" {
		return "", 0, false
	}
	return name, weight, true
}

// Pad returns row extended with empty cells (or truncated) to width. Decoded
// row cell counts are not guaranteed to match the header width.
func Pad(row []string, width int) []string {
	if len(row) == width {
		return row
	}
	if len(row) > width {
		return row[:width]
	}
	padded := make([]string, width)
	copy(padded, row)
	return padded
}
