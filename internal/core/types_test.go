package core

import (
	"reflect"
	"testing"
)

func TestCell_String(t *testing.T) {
	tests := []struct {
		name string
		cell Cell
		want string
	}{
		{name: "empty", cell: Cell{}, want: ""},
		{name: "text", cell: TextCell(" abc "), want: " abc "},
		{name: "integer number", cell: NumberCell(500), want: "500"},
		{name: "decimal number", cell: NumberCell(80.5), want: "80.5"},
		{name: "date", cell: DateCell(date(2024, 2, 1)), want: "01/02/2024"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cell.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCell_IsBlank(t *testing.T) {
	if !TextCell("   ").IsBlank() {
		t.Error("whitespace text should be blank")
	}
	if TextCell("").Kind != CellEmpty {
		t.Error("TextCell(\"\") should be an empty cell")
	}
	if NumberCell(0).IsBlank() {
		t.Error("zero is a value, not a blank")
	}
}

func TestTable_Append(t *testing.T) {
	table := NewTable("t", "A", "B")

	if err := table.Append(Record{"A": TextCell("1")}); err != nil {
		t.Fatalf("Append() unexpected error: %v", err)
	}
	if err := table.Append(Record{"C": TextCell("x")}); err == nil {
		t.Fatal("Append() with unknown column should fail")
	}
	if table.Len() != 1 {
		t.Fatalf("Len() = %d, want 1 (rejected row must not be added)", table.Len())
	}
	if got := table.Value(0, "B"); got.Kind != CellEmpty {
		t.Errorf("missing column should be stored empty, got %v", got)
	}
	if got := table.Value(5, "A"); got.Kind != CellEmpty {
		t.Errorf("out of range Value() should be empty, got %v", got)
	}
}

func TestTable_add(t *testing.T) {
	table := NewTable("t", "A", "B")
	rec := Record{"A": TextCell("1"), "extra": TextCell("x")}

	table.add(rec)
	rec["A"] = TextCell("changed")

	if table.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", table.Len())
	}
	row := table.Rows()[0]
	if len(row) != 2 {
		t.Errorf("row has %d keys, want only the table columns", len(row))
	}
	if got := table.Value(0, "A").String(); got != "1" {
		t.Errorf("Value(0, A) = %q, want %q (row must be a copy)", got, "1")
	}
	if got := table.Value(0, "B"); got.Kind != CellEmpty {
		t.Errorf("missing column should be stored empty, got %v", got)
	}
}

func TestTable_Columns(t *testing.T) {
	table := NewTable("t", "B", "A")
	cols := table.Columns()
	if !reflect.DeepEqual(cols, []string{"B", "A"}) {
		t.Fatalf("Columns() = %v, want [B A]", cols)
	}
	cols[0] = "changed"
	if table.Columns()[0] != "B" {
		t.Error("Columns() should return a copy")
	}
	if !table.HasColumn("A") || table.HasColumn("C") {
		t.Error("HasColumn() mismatch")
	}
}

func TestNewTable_DuplicateColumnPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("NewTable() with duplicate columns should panic")
		}
	}()
	NewTable("t", "A", "A")
}

func TestTable_IsEmpty(t *testing.T) {
	var nilTable *Table
	if !nilTable.IsEmpty() || nilTable.Len() != 0 {
		t.Error("nil table should be empty")
	}
	if !NewTable("t").IsEmpty() {
		t.Error("table without columns should be empty")
	}
	if !NewTable("t", "A").IsEmpty() {
		t.Error("table without rows should be empty")
	}
}
