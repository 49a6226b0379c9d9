// Package workbook adapts .xlsx files to the core reconciliation types.
//
// Reader turns every worksheet of a file into a core.Workbook grid, keeping
// both the raw cell value and the text the spreadsheet displays. Writer
// renders a core.Report into the output workbook: one sheet per source
// table, the "Global" sheet and, optionally, the cover sheet.
//
// Both are built on github.com/xuri/excelize/v2.
package workbook
