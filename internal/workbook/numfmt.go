package workbook

import (
	"strings"

	"github.com/xuri/excelize/v2"
)

// dateStyles caches, per style index, whether the style formats a date.
type dateStyles struct {
	f     *excelize.File
	cache map[int]bool
}

func newDateStyles(f *excelize.File) *dateStyles {
	return &dateStyles{f: f, cache: make(map[int]bool)}
}

func (d *dateStyles) isDate(sheet, axis string) bool {
	idx, err := d.f.GetCellStyle(sheet, axis)
	if err != nil || idx == 0 {
		return false
	}
	if v, ok := d.cache[idx]; ok {
		return v
	}
	style, err := d.f.GetStyle(idx)
	v := err == nil && isDateStyle(style)
	d.cache[idx] = v
	return v
}

func isDateStyle(s *excelize.Style) bool {
	if s == nil {
		return false
	}
	if s.CustomNumFmt != nil && *s.CustomNumFmt != "" {
		return isDateFormatCode(*s.CustomNumFmt)
	}
	return isBuiltInDateFormat(s.NumFmt)
}

// isBuiltInDateFormat reports whether a built-in number format id renders
// a date or time, including the East Asian locale ids.
func isBuiltInDateFormat(id int) bool {
	switch {
	case id >= 14 && id <= 22:
		return true
	case id >= 27 && id <= 36:
		return true
	case id >= 45 && id <= 47:
		return true
	case id >= 50 && id <= 58:
		return true
	case id >= 71 && id <= 81:
		return true
	}
	return false
}

// isDateFormatCode inspects a custom format code outside of its literal
// parts: day or year tokens, or hours and seconds next to a colon.
func isDateFormatCode(code string) bool {
	var b strings.Builder
	inQuote, inBracket, escaped := false, false, false
	for _, r := range code {
		switch {
		case escaped:
			escaped = false
		case r == '\\':
			escaped = true
		case inQuote:
			inQuote = r != '"'
		case r == '"':
			inQuote = true
		case inBracket:
			inBracket = r != ']'
		case r == '[':
			inBracket = true
		default:
			b.WriteRune(r)
		}
	}

	// Only the positive section decides.
	section, _, _ := strings.Cut(strings.ToLower(b.String()), ";")
	if strings.ContainsAny(section, "dy") {
		return true
	}
	return strings.Contains(section, ":") && strings.ContainsAny(section, "hs")
}
