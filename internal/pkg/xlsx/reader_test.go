package xlsx

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildPackage(t *testing.T, parts map[string]string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range parts {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

const sharedStringsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<sst xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main" count="4" uniqueCount="4">
  <si><t>Öğrenci No</t></si>
  <si><r><t>Vize</t></r><r><t>(%40)</t></r></si>
  <si><t>Ayşe</t></si>
  <si><t>Demir</t></si>
</sst>`

const worksheetXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<worksheet xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main">
  <sheetData>
    <row r="1">
      <c r="A1" t="s"><v>0</v></c>
      <c r="B1" t="s"><v>2</v></c>
      <c r="C1" t="s"><v>1</v></c>
    </row>
    <row r="2">
      <c r="A2"><v>20231234</v></c>
      <c r="B2" t="s"><v>2</v></c>
      <c r="C2"><v>87,5</v></c>
    </row>
    <row r="3">
      <c r="A3"><v>20231235</v></c>
      <c r="B3" t="s"><v>99</v></c>
      <c r="C3"/>
    </row>
  </sheetData>
</worksheet>`

func TestRowsResolvesSharedStrings(t *testing.T) {
	data := buildPackage(t, map[string]string{
		"xl/sharedStrings.xml":    sharedStringsXML,
		"xl/worksheets/sheet1.xml": worksheetXML,
	})

	rows := Rows(data, 0)
	require.Len(t, rows, 3)

	// Styled runs concatenate into a single header string.
	assert.Equal(t, []string{"Öğrenci No", "Ayşe", "Vize(%40)"}, rows[0])
	// Repeated shared-string references resolve to the same text; literal
	// cells keep their raw value.
	assert.Equal(t, []string{"20231234", "Ayşe", "87,5"}, rows[1])
	// Out-of-range shared index and a value-less cell both become "".
	assert.Equal(t, []string{"20231235", "", ""}, rows[2])
}

func TestRowsLimit(t *testing.T) {
	data := buildPackage(t, map[string]string{
		"xl/worksheets/sheet1.xml": worksheetXML,
	})

	rows := Rows(data, 2)
	require.Len(t, rows, 2)
}

func TestRowsWithoutSharedStrings(t *testing.T) {
	data := buildPackage(t, map[string]string{
		"xl/worksheets/sheet1.xml": `<worksheet><sheetData><row><c><v>42</v></c></row></sheetData></worksheet>`,
	})

	rows := Rows(data, 0)
	require.Len(t, rows, 1)
	assert.Equal(t, []string{"42"}, rows[0])
}

func TestRowsUnreadableInput(t *testing.T) {
	assert.Nil(t, Rows([]byte("definitely not a zip archive"), 0))
	assert.Nil(t, Rows(nil, 0))
}

func TestRowsNoWorksheetPart(t *testing.T) {
	data := buildPackage(t, map[string]string{
		"xl/sharedStrings.xml": sharedStringsXML,
		"docProps/app.xml":     `<Properties/>`,
	})

	assert.Nil(t, Rows(data, 0))
}
