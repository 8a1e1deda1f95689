package dto

import (
	"fmt"
	"strconv"
	"strings"
)

// PreviewResponse is returned after decoding an uploaded grade sheet. Rows
// are padded to the header width; NumericColumns lists the indices of
// detected component columns.
type PreviewResponse struct {
	Filename       string     `json:"filename"`
	Headers        []string   `json:"headers"`
	Rows           [][]string `json:"rows"`
	NumericColumns []int      `json:"numericColumns"`
}

// SaveGradesRequest carries a previewed sheet back for import: an explicit
// header list, row/column counts and a flattened (row,col) → cell-text map
// keyed "row:col".
type SaveGradesRequest struct {
	Headers  []string          `json:"headers" binding:"required"`
	RowCount int               `json:"rowCount" binding:"min=0"`
	ColCount int               `json:"colCount" binding:"required,min=1"`
	Cells    map[string]string `json:"cells"`
}

// Rows rebuilds the padded row matrix from the flattened cell map. Cells
// outside the declared bounds are ignored; absent cells are empty strings.
func (r *SaveGradesRequest) Rows() [][]string {
	rows := make([][]string, r.RowCount)
	for i := range rows {
		rows[i] = make([]string, r.ColCount)
	}
	for key, text := range r.Cells {
		parts := strings.SplitN(key, ":", 2)
		if len(parts) != 2 {
			continue
		}
		row, err1 := strconv.Atoi(parts[0])
		col, err2 := strconv.Atoi(parts[1])
		if err1 != nil || err2 != nil {
			continue
		}
		if row < 0 || row >= r.RowCount || col < 0 || col >= r.ColCount {
			continue
		}
		rows[row][col] = text
	}
	return rows
}

// CellKey formats a flattened cell map key for the given position.
func CellKey(row, col int) string {
	return fmt.Sprintf("%d:%d", row, col)
}

// ImportResult reports how many rows the merge engine touched.
type ImportResult struct {
	UpdatedRows int `json:"updatedRows"`
}
