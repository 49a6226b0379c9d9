package workbook

import (
	"context"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/JonMunkholm/bdcrecon/internal/core"
)

// GlobalSheetName is the name of the unified sheet.
const GlobalSheetName = "Global"

// Layout of the Global sheet.
var (
	globalColumnWidths = []float64{7.09, 36.09, 70, 12.09, 16, 14, 16.82, 30, 8.09, 8.09, 12.0}
	globalWidthOffset  = 0.64
	globalRowHeight    = 30.0
	// 0.5 cm expressed in inches.
	globalSideMargin = 0.19685
)

// Auto-fit bounds of the source sheets, in characters.
const (
	minColumnWidth = 10
	maxColumnWidth = 60
	columnPadding  = 2
)

// Column positions (0-based) in the Global sheet.
const (
	globalColAmount   = 3
	globalColWorkflow = 7
	globalColPayment  = 8
	globalColBalance  = 9
)

const dateNumFmt = "dd/mm/yyyy"

// Writer renders a reconciliation report as an .xlsx workbook.
type Writer struct {
	coverSheet bool
	logger     *slog.Logger
}

// WriterOption configures a Writer.
type WriterOption func(*Writer)

// WithCoverSheet adds the rules cover sheet in front of the data sheets.
func WithCoverSheet(enabled bool) WriterOption {
	return func(w *Writer) { w.coverSheet = enabled }
}

// WithWriterLogger sets the logger. The default is slog.Default.
func WithWriterLogger(l *slog.Logger) WriterOption {
	return func(w *Writer) { w.logger = l }
}

// NewWriter creates a Writer.
func NewWriter(opts ...WriterOption) *Writer {
	w := &Writer{logger: slog.Default()}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write saves report to path, replacing any existing file.
func (w *Writer) Write(ctx context.Context, path string, report *core.Report) error {
	f, err := w.build(ctx, report)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	w.logger.Debug("workbook written", "path", path, "sheets", len(f.GetSheetList()))
	return nil
}

func (w *Writer) build(ctx context.Context, report *core.Report) (*excelize.File, error) {
	if report == nil {
		report = &core.Report{}
	}

	f := excelize.NewFile()
	b := &sheetBook{f: f, initial: f.GetSheetName(0)}
	styles, err := newStyleSet(f)
	if err != nil {
		f.Close()
		return nil, err
	}

	if w.coverSheet {
		if err := b.add(core.CoverSheetName); err != nil {
			f.Close()
			return nil, err
		}
		if err := writeCover(f, styles); err != nil {
			f.Close()
			return nil, fmt.Errorf("cover sheet: %w", err)
		}
	}

	for _, t := range report.Sources {
		if err := ctx.Err(); err != nil {
			f.Close()
			return nil, err
		}
		if t.IsEmpty() {
			continue
		}
		if err := b.add(t.Name); err != nil {
			f.Close()
			return nil, err
		}
		if err := writeSourceSheet(f, t, styles); err != nil {
			f.Close()
			return nil, fmt.Errorf("sheet %s: %w", t.Name, err)
		}
	}

	if err := b.add(GlobalSheetName); err != nil {
		f.Close()
		return nil, err
	}
	if err := writeGlobalSheet(f, report.Global, styles); err != nil {
		f.Close()
		return nil, fmt.Errorf("sheet %s: %w", GlobalSheetName, err)
	}

	f.SetActiveSheet(0)
	return f, nil
}

// sheetBook adds sheets in order, renaming the sheet every new file starts
// with instead of leaving it empty.
type sheetBook struct {
	f       *excelize.File
	initial string
	used    bool
}

func (b *sheetBook) add(name string) error {
	if !b.used {
		b.used = true
		return b.f.SetSheetName(b.initial, name)
	}
	_, err := b.f.NewSheet(name)
	return err
}

// styleSet holds the style ids shared by every sheet.
type styleSet struct {
	date         int
	globalHeader int
	globalBody   int
	globalText   int
	globalDate   int
	globalAmount int
	cover        int
}

func newStyleSet(f *excelize.File) (*styleSet, error) {
	dateFmt := dateNumFmt
	center := &excelize.Alignment{Horizontal: "center", Vertical: "center"}
	body := &excelize.Font{Family: "Calibri", Size: 9}

	s := &styleSet{}
	defs := []struct {
		id    *int
		style *excelize.Style
	}{
		{&s.date, &excelize.Style{CustomNumFmt: &dateFmt}},
		{&s.globalHeader, &excelize.Style{Font: &excelize.Font{Family: "Calibri", Size: 12}, Alignment: center}},
		{&s.globalBody, &excelize.Style{Font: body, Alignment: center}},
		// 49 is the built-in "@" text format.
		{&s.globalText, &excelize.Style{Font: body, Alignment: center, NumFmt: 49}},
		{&s.globalDate, &excelize.Style{Font: body, Alignment: center, CustomNumFmt: &dateFmt}},
		// 2 is the built-in "0.00" format.
		{&s.globalAmount, &excelize.Style{Font: body, Alignment: center, NumFmt: 2}},
		{&s.cover, &excelize.Style{Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"}}},
	}
	for _, d := range defs {
		id, err := f.NewStyle(d.style)
		if err != nil {
			return nil, fmt.Errorf("create style: %w", err)
		}
		*d.id = id
	}
	return s, nil
}

func writeCover(f *excelize.File, styles *styleSet) error {
	sheet := core.CoverSheetName
	if err := f.SetCellStr(sheet, "A1", core.CoverText()); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", "A1", styles.cover); err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "A", "A", 120); err != nil {
		return err
	}
	return f.SetRowHeight(sheet, 1, excelize.MaxRowHeight)
}

// writeSourceSheet writes a canonical table under its header row, with
// auto-fitted columns and dates (including date-time text) as dd/mm/yyyy.
func writeSourceSheet(f *excelize.File, t *core.Table, styles *styleSet) error {
	sheet := t.Name
	columns := t.Columns()

	header := make([]any, len(columns))
	widths := make([]int, len(columns))
	for i, col := range columns {
		header[i] = col
		widths[i] = utf8.RuneCountInString(col)
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	for i, rec := range t.Rows() {
		row := i + 2
		values := make([]any, len(columns))
		var dateCols []int
		for c, col := range columns {
			v, isDate := sourceValue(rec[col])
			values[c] = v
			if isDate {
				dateCols = append(dateCols, c)
			}
			if n := utf8.RuneCountInString(rec[col].String()); n > widths[c] {
				widths[c] = n
			}
		}

		axis, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, axis, &values); err != nil {
			return err
		}
		for _, c := range dateCols {
			cell, err := excelize.CoordinatesToCellName(c+1, row)
			if err != nil {
				return err
			}
			if err := f.SetCellStyle(sheet, cell, cell, styles.date); err != nil {
				return err
			}
		}
	}

	for c, w := range widths {
		name, err := excelize.ColumnNumberToName(c + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, name, name, fitWidth(w)); err != nil {
			return err
		}
	}
	return nil
}

// sourceValue converts a cell for writing. Date-time text is reduced to its
// date.
func sourceValue(c core.Cell) (any, bool) {
	switch c.Kind {
	case core.CellNumber:
		return c.Number, false
	case core.CellDate:
		return c.Time, true
	case core.CellText:
		if t, ok := core.DateFromDateTimeText(c.Text); ok {
			return t, true
		}
		return c.Text, false
	default:
		return nil, false
	}
}

func fitWidth(chars int) float64 {
	w := chars + columnPadding
	if w > maxColumnWidth {
		w = maxColumnWidth
	}
	if w < minColumnWidth {
		w = minColumnWidth
	}
	return float64(w)
}

func writeGlobalSheet(f *excelize.File, global *core.UnifiedTable, styles *styleSet) error {
	sheet := GlobalSheetName

	header := make([]any, len(core.GlobalColumns))
	for i, col := range core.GlobalColumns {
		header[i] = col
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	lastCol, err := excelize.ColumnNumberToName(len(core.GlobalColumns))
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", lastCol+"1", styles.globalHeader); err != nil {
		return err
	}

	for i, w := range globalColumnWidths {
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, name, name, w+globalWidthOffset); err != nil {
			return err
		}
	}

	if global != nil {
		for i, u := range global.Rows {
			if err := writeGlobalRow(f, i+2, u, styles); err != nil {
				return err
			}
		}
	}

	for row := 1; row <= global.Len()+1; row++ {
		if err := f.SetRowHeight(sheet, row, globalRowHeight); err != nil {
			return err
		}
	}

	landscape := "landscape"
	if err := f.SetPageLayout(sheet, &excelize.PageLayoutOptions{Orientation: &landscape}); err != nil {
		return err
	}
	margin := globalSideMargin
	return f.SetPageMargins(sheet, &excelize.PageLayoutMarginsOptions{Left: &margin, Right: &margin})
}

func writeGlobalRow(f *excelize.File, row int, u core.UnifiedRow, styles *styleSet) error {
	sheet := GlobalSheetName
	text := u.Values()

	values := make([]any, len(text))
	cellStyles := make([]int, len(text))
	for c, v := range text {
		values[c] = v
		cellStyles[c] = styles.globalBody
	}
	cellStyles[0] = styles.globalText

	values[globalColAmount] = u.Amount.InexactFloat64()
	for _, c := range []int{globalColWorkflow, globalColPayment} {
		if t, err := time.Parse(core.DateLayout, text[c]); err == nil {
			values[c] = t
			cellStyles[c] = styles.globalDate
		}
	}
	if u.Balance != "" {
		if d, err := decimal.NewFromString(u.Balance); err == nil {
			values[globalColBalance] = d.InexactFloat64()
			cellStyles[globalColBalance] = styles.globalAmount
		}
	}

	axis, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, axis, &values); err != nil {
		return err
	}
	for c, style := range cellStyles {
		cell, err := excelize.CoordinatesToCellName(c+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, cell, cell, style); err != nil {
			return err
		}
	}
	return nil
}
