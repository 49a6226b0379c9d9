package core

// grid.go turns the raw used cells of a sheet into a canonical table.
//
// Exports put a title block of variable height above the real header, so the
// header row is the first row at or after a start row carrying at least two
// non-blank cells. Everything below it is data; fully blank rows are skipped.

import (
	"strconv"
	"strings"
)

// MinHeaderCells is the number of non-blank cells that marks a header row.
const MinHeaderCells = 2

// MarkerHit locates the cell matching a marker.
type MarkerHit struct {
	Sheet *Sheet
	Row   int
	Col   int
}

type cellPos struct {
	row, col int
}

// BuildTable extracts a table from sheet, scanning for the header row from
// startRow (1-based). A sheet without a header row yields a table with no
// columns and no rows.
func BuildTable(name string, sheet *Sheet, startRow int) *Table {
	if startRow < 1 {
		startRow = 1
	}
	if sheet == nil {
		return NewTable(name)
	}

	cells := make(map[cellPos]GridCell)
	lastRow, lastCol := 0, 0
	for _, c := range sheet.Cells {
		if c.Row < startRow || c.Col < 1 {
			continue
		}
		cells[cellPos{c.Row, c.Col}] = c
		if c.Row > lastRow {
			lastRow = c.Row
		}
		if c.Col > lastCol {
			lastCol = c.Col
		}
	}

	headerRow := -1
	for row := startRow; row <= lastRow; row++ {
		nonBlank := 0
		for col := 1; col <= lastCol; col++ {
			if c, ok := cells[cellPos{row, col}]; ok && !gridCellBlank(c) {
				nonBlank++
			}
		}
		if nonBlank >= MinHeaderCells {
			headerRow = row
			break
		}
	}
	if headerRow == -1 {
		return NewTable(name)
	}

	headers := make([]string, 0, lastCol)
	seen := make(map[string]bool, lastCol)
	for col := 1; col <= lastCol; col++ {
		header := strings.TrimSpace(cells[cellPos{headerRow, col}].displayText())
		if header == "" {
			header = "Column" + strconv.Itoa(col)
		}
		header = dedupeHeader(seen, header)
		seen[header] = true
		headers = append(headers, header)
	}

	table := NewTable(name, headers...)
	for row := headerRow + 1; row <= lastRow; row++ {
		rec := make(Record, lastCol)
		hasValue := false
		for col := 1; col <= lastCol; col++ {
			c, ok := cells[cellPos{row, col}]
			if !ok {
				continue
			}
			rec[headers[col-1]] = cellValue(c, sheet.Date1904)
			if !gridCellBlank(c) {
				hasValue = true
			}
		}
		if hasValue {
			table.add(rec)
		}
	}
	return table
}

// FindMarker returns the first cell, sheet by sheet, top to bottom and left
// to right, whose normalized text equals the normalized marker.
func FindMarker(wb *Workbook, marker string) (MarkerHit, bool) {
	want := Normalize(marker)
	if wb == nil || want == "" {
		return MarkerHit{}, false
	}

	for _, sheet := range wb.Sheets {
		var best *GridCell
		for i := range sheet.Cells {
			c := &sheet.Cells[i]
			if Normalize(c.displayText()) != want {
				continue
			}
			if best == nil || c.Row < best.Row || (c.Row == best.Row && c.Col < best.Col) {
				best = c
			}
		}
		if best != nil {
			return MarkerHit{Sheet: sheet, Row: best.Row, Col: best.Col}, true
		}
	}
	return MarkerHit{}, false
}

// dedupeHeader appends " 2", " 3", ... to header until it is unused.
func dedupeHeader(seen map[string]bool, header string) string {
	if !seen[header] {
		return header
	}
	for i := 2; ; i++ {
		candidate := header + " " + strconv.Itoa(i)
		if !seen[candidate] {
			return candidate
		}
	}
}

// cellValue converts date-formatted numbers to dates.
func cellValue(c GridCell, date1904 bool) Cell {
	if c.DateFormatted && c.Value.Kind == CellNumber {
		if t, ok := SerialToTime(c.Value.Number, date1904); ok {
			return DateCell(t)
		}
	}
	return c.Value
}

func (c GridCell) displayText() string {
	if c.Text != "" {
		return c.Text
	}
	return c.Value.String()
}

func gridCellBlank(c GridCell) bool {
	return strings.TrimSpace(c.displayText()) == ""
}
