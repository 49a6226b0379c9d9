package workbook

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/JonMunkholm/bdcrecon/internal/core"
)

var (
	// ErrInvalidWorkbook is returned for files excelize cannot open.
	ErrInvalidWorkbook = errors.New("not a valid workbook")
	// ErrNoSheets is returned for a workbook without any readable worksheet.
	ErrNoSheets = errors.New("workbook has no sheets")
)

// isoDateLayouts are the forms excelize stores in cells of type "d".
var isoDateLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"}

// Reader opens .xlsx exports as raw grids.
type Reader struct {
	logger *slog.Logger
}

// NewReader creates a Reader. A nil logger uses slog.Default.
func NewReader(logger *slog.Logger) *Reader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reader{logger: logger}
}

// Open reads every worksheet of the file at path.
func (r *Reader) Open(ctx context.Context, path string) (*core.Workbook, error) {
	name := filepath.Base(path)

	f, err := excelize.OpenFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("open %s: %w", name, err)
		}
		return nil, fmt.Errorf("%s: %w: %v", name, ErrInvalidWorkbook, err)
	}
	defer f.Close()

	wb, err := r.read(ctx, name, f)
	if err != nil {
		return nil, err
	}
	r.logger.Debug("workbook read", "file", name, "sheets", len(wb.Sheets))
	return wb, nil
}

func (r *Reader) read(ctx context.Context, name string, f *excelize.File) (*core.Workbook, error) {
	date1904 := false
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		date1904 = *props.Date1904
	}

	styles := newDateStyles(f)
	wb := &core.Workbook{Name: name}
	for _, sheetName := range f.GetSheetList() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		sheet, err := readSheet(f, sheetName, date1904, styles)
		if err != nil {
			// Chart sheets and other non-grid sheets cannot be read as rows.
			r.logger.Warn("sheet skipped", "file", name, "sheet", sheetName, "error", err)
			continue
		}
		wb.Sheets = append(wb.Sheets, sheet)
	}

	if len(wb.Sheets) == 0 {
		return nil, fmt.Errorf("%s: %w", name, ErrNoSheets)
	}
	return wb, nil
}

func readSheet(f *excelize.File, name string, date1904 bool, styles *dateStyles) (*core.Sheet, error) {
	raw, err := f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}
	shown, err := f.GetRows(name)
	if err != nil {
		return nil, err
	}

	sheet := &core.Sheet{Name: name, Date1904: date1904}
	for r, row := range raw {
		for c, value := range row {
			if value == "" {
				continue
			}
			axis, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return nil, err
			}
			text := textAt(shown, r, c)
			cell := core.GridCell{Row: r + 1, Col: c + 1, Text: text}
			cell.Value, cell.DateFormatted = cellValue(f, name, axis, value, text, styles)
			sheet.Cells = append(sheet.Cells, cell)
		}
	}
	return sheet, nil
}

// cellValue types a raw cell value. Numbers report whether their style is a
// date format so the grid builder can turn them into dates.
func cellValue(f *excelize.File, sheet, axis, raw, shown string, styles *dateStyles) (core.Cell, bool) {
	typ, err := f.GetCellType(sheet, axis)
	if err != nil {
		return core.TextCell(raw), false
	}

	switch typ {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString,
		excelize.CellTypeFormula, excelize.CellTypeError:
		return core.TextCell(raw), false
	case excelize.CellTypeBool:
		if shown != "" {
			return core.TextCell(shown), false
		}
		if raw == "1" {
			return core.TextCell("TRUE"), false
		}
		return core.TextCell("FALSE"), false
	case excelize.CellTypeDate:
		for _, layout := range isoDateLayouts {
			if t, err := time.Parse(layout, raw); err == nil {
				return core.DateCell(t), false
			}
		}
		return core.TextCell(raw), false
	default:
		n, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return core.TextCell(raw), false
		}
		return core.NumberCell(n), styles.isDate(sheet, axis)
	}
}

func textAt(rows [][]string, r, c int) string {
	if r >= len(rows) || c >= len(rows[r]) {
		return ""
	}
	return rows[r][c]
}
