package core

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// CellKind identifies which member of a Cell carries its value.
type CellKind int

const (
	CellEmpty CellKind = iota
	CellText
	CellNumber
	CellDate
)

func (k CellKind) String() string {
	switch k {
	case CellText:
		return "text"
	case CellNumber:
		return "number"
	case CellDate:
		return "date"
	default:
		return "empty"
	}
}

// Cell is a single spreadsheet value: text, number, date or empty.
type Cell struct {
	Kind   CellKind
	Text   string
	Number float64
	Time   time.Time
}

// TextCell returns a text cell. Whitespace-only text stays text; use IsBlank
// to test for emptiness.
func TextCell(s string) Cell {
	if s == "" {
		return Cell{}
	}
	return Cell{Kind: CellText, Text: s}
}

// NumberCell returns a numeric cell.
func NumberCell(n float64) Cell {
	return Cell{Kind: CellNumber, Number: n}
}

// DateCell returns a date cell truncated to the calendar day.
func DateCell(t time.Time) Cell {
	return Cell{Kind: CellDate, Time: time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)}
}

// String renders the cell the way it is displayed and compared: numbers use
// their shortest exact form and dates use dd/MM/yyyy.
func (c Cell) String() string {
	switch c.Kind {
	case CellText:
		return c.Text
	case CellNumber:
		return strconv.FormatFloat(c.Number, 'f', -1, 64)
	case CellDate:
		return FormatDate(c.Time)
	default:
		return ""
	}
}

// Clean returns the trimmed display text.
func (c Cell) Clean() string {
	return strings.TrimSpace(c.String())
}

// IsBlank reports whether the cell renders as whitespace only.
func (c Cell) IsBlank() bool {
	return c.Clean() == ""
}

// Record is one row of a canonical table, keyed by column name.
type Record map[string]Cell

// Table is a canonical table: an ordered, unique column set fixed at
// construction and rows kept in insertion order.
type Table struct {
	Name    string
	columns []string
	index   map[string]int
	rows    []Record
}

// NewTable creates an empty table with the given columns.
// Panics if a column name is repeated.
func NewTable(name string, columns ...string) *Table {
	t := &Table{
		Name:    name,
		columns: make([]string, 0, len(columns)),
		index:   make(map[string]int, len(columns)),
	}
	for _, col := range columns {
		if _, exists := t.index[col]; exists {
			panic(fmt.Sprintf("duplicate column: %s", col))
		}
		t.index[col] = len(t.columns)
		t.columns = append(t.columns, col)
	}
	return t
}

// Append adds a row. Columns absent from rec are stored as empty cells;
// a column unknown to the table is an error and nothing is added.
func (t *Table) Append(rec Record) error {
	for col := range rec {
		if _, ok := t.index[col]; !ok {
			return fmt.Errorf("table %q: unknown column %q", t.Name, col)
		}
	}
	t.add(rec)
	return nil
}

// add copies the table's columns out of rec into a new row. Keys that are
// not columns are ignored.
func (t *Table) add(rec Record) {
	row := make(Record, len(t.columns))
	for _, col := range t.columns {
		row[col] = rec[col]
	}
	t.rows = append(t.rows, row)
}

// Columns returns a copy of the column names in order.
func (t *Table) Columns() []string {
	out := make([]string, len(t.columns))
	copy(out, t.columns)
	return out
}

// HasColumn reports whether col belongs to the table.
func (t *Table) HasColumn(col string) bool {
	_, ok := t.index[col]
	return ok
}

// Rows returns the rows in insertion order. Callers must not modify them.
func (t *Table) Rows() []Record {
	return t.rows
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.rows)
}

// IsEmpty reports whether the table is absent, has no columns, or has no rows.
func (t *Table) IsEmpty() bool {
	return t == nil || len(t.columns) == 0 || len(t.rows) == 0
}

// Value returns the cell at row i under col, or an empty cell.
func (t *Table) Value(i int, col string) Cell {
	if i < 0 || i >= len(t.rows) {
		return Cell{}
	}
	return t.rows[i][col]
}

// Workbook is the raw grid of a spreadsheet file: its sheets in order.
type Workbook struct {
	Name   string
	Sheets []*Sheet
}

// Sheet holds the used cells of one worksheet.
type Sheet struct {
	Name string
	// Date1904 is set when serial dates count from 1904-01-01.
	Date1904 bool
	Cells    []GridCell
}

// GridCell is one used cell. Row and Col are 1-based.
type GridCell struct {
	Row   int
	Col   int
	Value Cell
	// Text is the cell as displayed by the spreadsheet.
	Text string
	// DateFormatted is set for numeric cells carrying a date number format.
	DateFormatted bool
}

// FirstSheet returns the first sheet or nil.
func (wb *Workbook) FirstSheet() *Sheet {
	if wb == nil || len(wb.Sheets) == 0 {
		return nil
	}
	return wb.Sheets[0]
}

// SourceInfo contains display information about a source export.
type SourceInfo struct {
	Key      string   // Unique identifier: "orders"
	Label    string   // Sheet name in the output workbook: "Commande"
	Order    int      // Position among the output sheets
	Required bool     // Reconciliation aborts without this source
	Columns  []string // Output column names
	SkipRows int      // Title rows above the header, copied from the extract rule
	Marker   string   // Header landmark, copied from the extract rule
}

// ExtractRule says where the header scan of a source starts.
type ExtractRule struct {
	// SkipRows is the height of the title block above the header.
	SkipRows int
	// Marker, when set, is a landmark line; the scan starts at the row
	// holding it on whichever sheet it is found. Without a hit the scan
	// starts at the first row of the first sheet.
	Marker string
}

// FieldSpec defines how one output column is filled.
// Exactly one of Field, Position or Derive is expected to be set.
type FieldSpec struct {
	Name     string            // Output column name
	Field    Field             // Logical field resolved through its synonyms
	Position int               // 1-based physical column, ignoring header names
	Derive   func(Record) Cell // Computed from the other projected columns
}

// Exclusion drops rows whose Field normalizes to the same text as Value.
// It is skipped when the field cannot be resolved.
type Exclusion struct {
	Field Field
	Value string
}

// SourceDefinition contains everything needed to turn one export into its
// canonical table. A definition without Fields passes every detected column
// through unchanged.
type SourceDefinition struct {
	Info    SourceInfo
	Extract ExtractRule
	Fields  []FieldSpec
	Exclude []Exclusion
}

// PassThrough reports whether the source keeps its detected columns.
func (d SourceDefinition) PassThrough() bool {
	return len(d.Fields) == 0
}
