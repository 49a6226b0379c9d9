package core

import (
	"reflect"
	"testing"
)

// withColumns fills Info.Columns the way Register does.
func withColumns(def SourceDefinition) SourceDefinition {
	def.Info.Columns = nil
	for _, spec := range def.Fields {
		def.Info.Columns = append(def.Info.Columns, spec.Name)
	}
	return def
}

func testOrdersDef() SourceDefinition {
	return withColumns(SourceDefinition{
		Info:    SourceInfo{Key: SourceOrders, Label: "Commande", Order: 1, Required: true},
		Extract: ExtractRule{SkipRows: 3},
		Fields: []FieldSpec{
			{Name: ColOrderID, Field: FieldOrderID},
			{Name: ColLabel, Field: FieldLabel},
			{Name: ColSupplier, Field: FieldSupplier},
			{Name: ColAmount, Field: FieldAmount},
			{Name: ColExpenseNature, Field: FieldExpenseNature},
			{Name: ColVisa, Field: FieldVisa},
		},
		Exclude: []Exclusion{
			{Field: FieldSupplier, Value: "FCM 3MUNDI ESR-M"},
			{Field: FieldExpenseNature, Value: "mission"},
		},
	})
}

func testOrdersWorkbook() *Workbook {
	rows := withTitle(3,
		[]any{"N° cmd", "Désignation", "Fournisseur", "Total HT", "Nature de la dépense"},
		[]any{"CMD1", "Papier", "Lyreco", 100, "Fournitures"},
		[]any{"CMD2", "Billet", "FCM 3MUNDI ESR-M", 300, "Déplacement"},
		[]any{"CMD3", "Colloque", "Hotel", 200, "MISSION"},
		[]any{"CMD4", "Encre", "Fcm 3Mundi ESR-M ", 50, "Fournitures"},
		[]any{"CMD5", "Toner", "Bureau Vallée", "1 200,00", "Fournitures"},
	)
	return &Workbook{Name: "commandes.xlsx", Sheets: []*Sheet{gridSheet("Export", rows...)}}
}

// ----- Transform Tests -----

func TestTransform_ProjectsAndFilters(t *testing.T) {
	table := Transform(testOrdersDef(), testOrdersWorkbook())

	if got, want := table.Columns(), testOrdersDef().Info.Columns; !reflect.DeepEqual(got, want) {
		t.Fatalf("Columns() = %v, want %v", got, want)
	}

	var ids []string
	for _, row := range table.Rows() {
		ids = append(ids, row[ColOrderID].Clean())
	}
	if want := []string{"CMD1", "CMD5"}; !reflect.DeepEqual(ids, want) {
		t.Fatalf("order ids = %v, want %v", ids, want)
	}

	if got := table.Value(0, ColLabel).Clean(); got != "Papier" {
		t.Errorf("label = %q, want Papier", got)
	}
	if got := table.Value(1, ColAmount).Clean(); got != "1 200,00" {
		t.Errorf("amount = %q, want raw text 1 200,00", got)
	}
}

func TestTransform_UnresolvedFieldLeavesColumnEmpty(t *testing.T) {
	table := Transform(testOrdersDef(), testOrdersWorkbook())

	if !table.HasColumn(ColVisa) {
		t.Fatal("unresolved field should still be a column")
	}
	for i := range table.Rows() {
		if !table.Value(i, ColVisa).IsBlank() {
			t.Errorf("row %d visa should be blank", i)
		}
	}
}

func TestTransform_ExclusionSkippedWhenFieldMissing(t *testing.T) {
	wb := &Workbook{Sheets: []*Sheet{gridSheet("S", withTitle(3,
		[]any{"N° commande", "Libellé"},
		[]any{"CMD1", "Mission"},
	)...)}}

	table := Transform(testOrdersDef(), wb)
	if table.Len() != 1 {
		t.Errorf("Len() = %d, want 1", table.Len())
	}
}

func TestTransform_DropsBlankProjections(t *testing.T) {
	wb := &Workbook{Sheets: []*Sheet{gridSheet("S", withTitle(3,
		[]any{"N° commande", "Libellé", "Autre"},
		[]any{"CMD1", "Papier", "x"},
		[]any{nil, nil, "only unmapped data"},
	)...)}}

	table := Transform(testOrdersDef(), wb)
	if table.Len() != 1 {
		t.Errorf("Len() = %d, want 1", table.Len())
	}
}

func TestTransform_PositionAndDerive(t *testing.T) {
	def := withColumns(SourceDefinition{
		Info: SourceInfo{Key: "positional", Label: "Positional"},
		Fields: []FieldSpec{
			{Name: ColCommande, Position: 1},
			{Name: ColAgent, Position: 3},
			{Name: "Missing", Position: 9},
			{Name: ColOrderExtract, Derive: func(rec Record) Cell {
				return TextCell(OrderPrefix(rec[ColCommande].Clean()))
			}},
		},
	})
	wb := &Workbook{Sheets: []*Sheet{gridSheet("S",
		[]any{"whatever", "headers", "here"},
		[]any{"AB123456", "ignored", "Dupont"},
	)}}

	table := Transform(def, wb)
	if table.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", table.Len())
	}
	if got := table.Value(0, ColAgent).Clean(); got != "Dupont" {
		t.Errorf("agent = %q, want Dupont", got)
	}
	if got := table.Value(0, ColOrderExtract).Clean(); got != "AB123" {
		t.Errorf("extract = %q, want AB123", got)
	}
	if !table.Value(0, "Missing").IsBlank() {
		t.Error("out of range position should stay blank")
	}
}

func TestTransform_PassThroughWithMarker(t *testing.T) {
	def := SourceDefinition{
		Info:    SourceInfo{Key: SourceWorkflow, Label: "Workflow"},
		Extract: ExtractRule{Marker: "Liste des résultats"},
	}
	summary := gridSheet("Synthèse", []any{"Total", 3})
	detail := gridSheet("Détail",
		[]any{"Recherche du 01/02/2024"},
		nil,
		[]any{"Liste des résultats"},
		[]any{"N° commande", "Date", "Statut"},
		[]any{"CMD1", dateSerial(45323), "Validé"},
	)
	wb := &Workbook{Sheets: []*Sheet{summary, detail}}

	table := Transform(def, wb)

	if want := []string{"N° commande", "Date", "Statut"}; !reflect.DeepEqual(table.Columns(), want) {
		t.Fatalf("Columns() = %v, want %v", table.Columns(), want)
	}
	if got := table.Value(0, "Date"); got.Kind != CellDate {
		t.Errorf("Date kind = %v, want date", got.Kind)
	}
}

func TestTransform_MarkerMissingFallsBackToFirstSheet(t *testing.T) {
	def := SourceDefinition{
		Info:    SourceInfo{Key: SourceWorkflow, Label: "Workflow"},
		Extract: ExtractRule{Marker: "Liste des résultats"},
	}
	wb := &Workbook{Sheets: []*Sheet{gridSheet("S",
		[]any{"N° commande", "Statut"},
		[]any{"CMD1", "En cours"},
	)}}

	table := Transform(def, wb)
	if table.Len() != 1 {
		t.Errorf("Len() = %d, want 1", table.Len())
	}
}

func TestTransform_EmptyWorkbook(t *testing.T) {
	table := Transform(testOrdersDef(), &Workbook{})
	if !table.IsEmpty() {
		t.Error("workbook without sheets should give an empty table")
	}
	if len(table.Columns()) != len(testOrdersDef().Fields) {
		t.Error("projected table keeps its declared columns")
	}
}
