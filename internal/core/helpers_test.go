package core

import (
	"time"
)

// dateSerial marks a number stored in a date-formatted cell.
type dateSerial float64

// gridSheet builds a sheet whose row i (0-based) lands on spreadsheet row
// i+1. Nil values leave the cell unused.
func gridSheet(name string, rows ...[]any) *Sheet {
	sheet := &Sheet{Name: name}
	for r, row := range rows {
		for c, v := range row {
			if v == nil {
				continue
			}
			cell := GridCell{Row: r + 1, Col: c + 1}
			switch val := v.(type) {
			case string:
				cell.Value = TextCell(val)
			case int:
				cell.Value = NumberCell(float64(val))
			case float64:
				cell.Value = NumberCell(val)
			case time.Time:
				cell.Value = DateCell(val)
			case dateSerial:
				cell.Value = NumberCell(float64(val))
				cell.DateFormatted = true
			}
			cell.Text = cell.Value.String()
			sheet.Cells = append(sheet.Cells, cell)
		}
	}
	return sheet
}

// blankRows returns n empty rows, used to simulate title blocks.
func blankRows(n int) [][]any {
	return make([][]any, n)
}

// withTitle prefixes rows with a title block of height n.
func withTitle(n int, rows ...[]any) [][]any {
	out := blankRows(n)
	if n > 0 {
		out[0] = []any{"Extraction du 01/01/2024"}
	}
	return append(out, rows...)
}

// table builds a canonical table from rows of display values.
func table(name string, columns []string, rows ...[]any) *Table {
	t := NewTable(name, columns...)
	for _, row := range rows {
		rec := make(Record, len(row))
		for i, v := range row {
			switch val := v.(type) {
			case string:
				rec[columns[i]] = TextCell(val)
			case int:
				rec[columns[i]] = NumberCell(float64(val))
			case float64:
				rec[columns[i]] = NumberCell(val)
			case time.Time:
				rec[columns[i]] = DateCell(val)
			}
		}
		if err := t.Append(rec); err != nil {
			panic(err)
		}
	}
	return t
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
