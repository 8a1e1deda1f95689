// Package xlsx implements a minimal reader for zip-packaged spreadsheet
// files. It only extracts text cells from the first worksheet part and
// resolves the shared-string table; formulas, styles, merged cells and
// additional sheets are not interpreted.
package xlsx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"io"
	"strconv"
	"strings"
)

const (
	sharedStringsPrefix = "xl/sharedStrings"
	worksheetPrefix     = "xl/worksheets/"
)

// Rows decodes the given byte buffer as a spreadsheet package and returns
// the rows of the first worksheet part, each cell as text. A limit > 0 caps
// the number of returned rows. An unreadable package (not a zip archive, or
// no worksheet part) yields a nil result; callers treat that as "could not
// read file" rather than an error.
func Rows(data []byte, limit int) [][]string {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil
	}

	var shared []string
	for _, f := range zr.File {
		if strings.HasPrefix(f.Name, sharedStringsPrefix) {
			rc, err := f.Open()
			if err != nil {
				break
			}
			shared = parseSharedStrings(rc)
			rc.Close()
			break
		}
	}

	for _, f := range zr.File {
		if !strings.HasPrefix(f.Name, worksheetPrefix) {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil
		}
		defer rc.Close()
		return parseSheet(rc, shared, limit)
	}

	return nil
}

// parseSharedStrings reads the shared-string table in document order. Each
// string item's value is the concatenation of all its text runs, so values
// split into styled runs come back as one string.
func parseSharedStrings(r io.Reader) []string {
	dec := xml.NewDecoder(r)

	var (
		shared []string
		cur    strings.Builder
		inItem bool
		inText bool
	)

	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "si":
				inItem = true
				cur.Reset()
			case "t":
				inText = inItem
			}
		case xml.CharData:
			if inText {
				cur.Write(t)
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "si":
				if inItem {
					shared = append(shared, cur.String())
				}
				inItem = false
			}
		}
	}

	return shared
}

// parseSheet walks the worksheet's row elements in document order. Cells
// typed as shared-string references are resolved against the shared table;
// everything else uses the literal value text. A cell without a value
// element becomes an empty string.
func parseSheet(r io.Reader, shared []string, limit int) [][]string {
	dec := xml.NewDecoder(r)

	var (
		rows     [][]string
		row      []string
		cellType string
		val      strings.Builder
		inValue  bool
	)

	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "row":
				row = []string{}
			case "c":
				cellType = ""
				for _, attr := range t.Attr {
					if attr.Name.Local == "t" {
						cellType = attr.Value
					}
				}
				val.Reset()
			case "v":
				inValue = true
			}
		case xml.CharData:
			if inValue {
				val.Write(t)
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "v":
				inValue = false
			case "c":
				row = append(row, cellText(cellType, val.String(), shared))
			case "row":
				rows = append(rows, row)
				if limit > 0 && len(rows) >= limit {
					return rows
				}
			}
		}
	}

	return rows
}

// cellText resolves a single cell's text. An out-of-range shared-string
// index yields an empty string instead of failing the whole sheet.
func cellText(cellType, raw string, shared []string) string {
	if cellType != "s" {
		return raw
	}
	idx, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || idx < 0 || idx >= len(shared) {
		return ""
	}
	return shared[idx]
}
