package core

// transform.go applies a SourceDefinition to a raw workbook.
//
// The flow for one source:
//  1. Locate the header (fixed skip, or marker line with fallback)
//  2. Build the raw table with BuildTable
//  3. Resolve each logical field once against the detected headers
//  4. Drop excluded rows, project the rest, drop fully blank projections
//
// An unresolvable field leaves its column empty; it never aborts the source.

// Transform builds the canonical table of def from wb.
func Transform(def SourceDefinition, wb *Workbook) *Table {
	raw := extractRaw(def, wb)
	if def.PassThrough() {
		return raw
	}

	out := NewTable(def.Info.Label, def.Info.Columns...)
	if len(raw.columns) == 0 {
		return out
	}

	headers := raw.Columns()
	sourceCols := make([]string, len(def.Fields))
	for i, fs := range def.Fields {
		switch {
		case fs.Derive != nil:
		case fs.Position > 0:
			if fs.Position <= len(headers) {
				sourceCols[i] = headers[fs.Position-1]
			}
		case fs.Field != "":
			if col, ok := ResolveField(headers, fs.Field); ok {
				sourceCols[i] = col
			}
		}
	}

	type filter struct {
		col  string
		want string
	}
	var filters []filter
	for _, ex := range def.Exclude {
		if col, ok := ResolveField(headers, ex.Field); ok {
			filters = append(filters, filter{col: col, want: ex.Value})
		}
	}

rows:
	for _, row := range raw.Rows() {
		for _, f := range filters {
			if SameText(row[f.col].Clean(), f.want) {
				continue rows
			}
		}

		rec := make(Record, len(def.Fields))
		for i, fs := range def.Fields {
			if fs.Derive == nil && sourceCols[i] != "" {
				rec[fs.Name] = row[sourceCols[i]]
			}
		}
		for _, fs := range def.Fields {
			if fs.Derive != nil {
				rec[fs.Name] = fs.Derive(rec)
			}
		}

		if recordBlank(rec) {
			continue
		}
		out.add(rec)
	}
	return out
}

// extractRaw builds the unprojected table, honouring the marker rule.
func extractRaw(def SourceDefinition, wb *Workbook) *Table {
	if def.Extract.Marker != "" {
		if hit, ok := FindMarker(wb, def.Extract.Marker); ok {
			return BuildTable(def.Info.Label, hit.Sheet, hit.Row)
		}
		return BuildTable(def.Info.Label, wb.FirstSheet(), 1)
	}
	return BuildTable(def.Info.Label, wb.FirstSheet(), def.Extract.SkipRows+1)
}

func recordBlank(rec Record) bool {
	for _, c := range rec {
		if !c.IsBlank() {
			return false
		}
	}
	return true
}
