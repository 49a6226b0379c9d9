package core

// convert.go provides type conversion for the messy values found in exports.
//
// These functions handle the reality of user-maintained spreadsheets:
//   - Amounts typed as text with French decimal commas and spaced thousands
//   - Non-breaking and narrow no-break spaces pasted from other tools
//   - Dates stored as serial numbers, as real dates, or as day-first text
//
// Conversions never fail loudly: numbers fall back to zero and dates report
// false so callers can fall back to the raw text.

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// DateLayout is the display layout for every date the reconciler writes.
const DateLayout = "02/01/2006"

// numericRegex validates that a string is a valid numeric format after cleanup.
// Matches integers, decimals, and scientific notation.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// amountCleaner removes the spacing and currency artifacts found in amounts.
var amountCleaner = strings.NewReplacer(
	"\u00a0", "",
	"\u202f", "",
	"\u20ac", "",
	" ", "",
)

// Date layouts, day-first French forms before invariant ones.
var (
	frenchDateLayouts = []string{
		"02/01/2006", "2/1/2006", "02/01/2006 15:04", "02/01/2006 15:04:05",
		"2/1/2006 15:04", "2/1/2006 15:04:05",
		"02-01-2006", "02.01.2006", "02/01/06", "2/1/06",
		"2 January 2006", "02 January 2006",
	}
	invariantDateLayouts = []string{
		"2006-01-02", "2006-01-02 15:04:05", "2006-01-02T15:04:05", time.RFC3339,
		"01/02/2006", "1/2/2006", "01/02/2006 15:04:05", "2006/01/02",
		"Jan 2, 2006", "2 Jan 2006", "January 2, 2006",
	}
)

// frenchMonths rewrites French month names so time.Parse can read them.
var frenchMonths = strings.NewReplacer(
	"janvier", "January",
	"février", "February",
	"fevrier", "February",
	"mars", "March",
	"avril", "April",
	"mai", "May",
	"juin", "June",
	"juillet", "July",
	"août", "August",
	"aout", "August",
	"septembre", "September",
	"octobre", "October",
	"novembre", "November",
	"décembre", "December",
	"decembre", "December",
)

// dateTimeText matches "dd/mm/yyyy hh:mm" with optional seconds.
var dateTimeText = regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{4}\s+\d{1,2}:\d{2}(:\d{2})?$`)

// ToDecimal converts a cell to a fixed-point amount.
// Numbers are taken as is. Text is stripped of spaces and the euro sign and
// its decimal comma becomes a dot. Anything else, or unparsable text, is zero.
func ToDecimal(c Cell) decimal.Decimal {
	switch c.Kind {
	case CellNumber:
		return decimal.NewFromFloat(c.Number)
	case CellText:
		return parseAmount(c.Text)
	default:
		return decimal.Zero
	}
}

func parseAmount(s string) decimal.Decimal {
	s = amountCleaner.Replace(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, ",", ".")
	if !numericRegex.MatchString(s) {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// FormatAmount renders an amount with exactly two decimals.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// ParseDate interprets a cell as a calendar date.
// Dates are returned directly, numbers are read as spreadsheet serials and
// text is tried against day-first layouts before invariant ones.
func ParseDate(c Cell) (time.Time, bool) {
	switch c.Kind {
	case CellDate:
		return c.Time, true
	case CellNumber:
		return SerialToTime(c.Number, false)
	case CellText:
		return parseDateText(c.Text)
	default:
		return time.Time{}, false
	}
}

func parseDateText(s string) (time.Time, bool) {
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range frenchDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return truncateDay(t), true
		}
	}
	if named := frenchMonths.Replace(strings.ToLower(s)); named != strings.ToLower(s) {
		for _, layout := range frenchDateLayouts {
			if t, err := time.Parse(layout, named); err == nil {
				return truncateDay(t), true
			}
		}
	}
	for _, layout := range invariantDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return truncateDay(t), true
		}
	}
	return time.Time{}, false
}

// SerialToTime converts a spreadsheet date serial to a calendar date.
// Serials below one are rejected.
func SerialToTime(serial float64, date1904 bool) (time.Time, bool) {
	if serial < 1 {
		return time.Time{}, false
	}
	t, err := excelize.ExcelDateToTime(serial, date1904)
	if err != nil {
		return time.Time{}, false
	}
	return truncateDay(t), true
}

// FormatDate renders t as dd/MM/yyyy.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// DateFromDateTimeText reads text such as "01/02/2024 10:30" as the date it
// carries. Plain dates and other text report false.
func DateFromDateTimeText(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if !dateTimeText.MatchString(s) {
		return time.Time{}, false
	}
	return parseDateText(s)
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
