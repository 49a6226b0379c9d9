package core

import (
	"fmt"
	"reflect"
	"testing"
)

var (
	orderCols    = []string{ColOrderID, ColLabel, ColSupplier, ColAmount, ColVisa, ColStatus}
	invoiceCols  = []string{ColOrderID, ColAmount, ColSettlementDate}
	dispatchCols = []string{ColCommande, ColDispatchDate, ColAgent}
	certCols     = []string{ColCommande, ColOrderExtract, ColStatus}
)

func rowByID(t *testing.T, u *UnifiedTable, id string) UnifiedRow {
	t.Helper()
	for _, r := range u.Rows {
		if r.OrderID == id {
			return r
		}
	}
	t.Fatalf("no unified row for %s", id)
	return UnifiedRow{}
}

// ----- Payment and Balance Tests -----

func TestReconcile_Payments(t *testing.T) {
	orders := table("Commande", orderCols,
		[]any{"CMD1", "Papier", "Lyreco", 500, "V1", "Soldée"},
		[]any{"CMD2", "Encre", "Lyreco", 100, "V1", "En cours"},
		[]any{"CMD3", "Toner", "Lyreco", 70, "V1", "En cours"},
		[]any{"CMD4", "Stylos", "Lyreco", 40, "V1", "En cours"},
		[]any{"CMD5", "Agrafes", "Lyreco", 10, "V1", "En cours"},
		[]any{"CMD6", "Cahiers", "Lyreco", "", "V1", "En cours"},
	)
	invoices := table("Factures", invoiceCols,
		[]any{"CMD1", 100, "05/01/2024"},
		[]any{"cmd1", 50, "06/01/2024"},
		[]any{"CMD2", "80,00", "01/02/2024"},
		[]any{"CMD4", 40, ""},
		[]any{"CMD5", 10, "à venir"},
	)

	got := Reconcile(orders, nil, invoices, nil, nil, DefaultLiterals())

	tests := []struct {
		id          string
		wantPayment string
		wantBalance string
	}{
		{id: "CMD1", wantPayment: "2 paiements", wantBalance: "350.00"},
		{id: "CMD2", wantPayment: "01/02/2024", wantBalance: "20.00"},
		{id: "CMD3", wantPayment: "pas de paiement connu", wantBalance: "70.00"},
		{id: "CMD4", wantPayment: "date manquante", wantBalance: "0.00"},
		{id: "CMD5", wantPayment: "à venir", wantBalance: "0.00"},
		{id: "CMD6", wantPayment: "pas de paiement connu", wantBalance: ""},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			row := rowByID(t, got, tt.id)
			if row.Payment != tt.wantPayment {
				t.Errorf("Payment = %q, want %q", row.Payment, tt.wantPayment)
			}
			if row.Balance != tt.wantBalance {
				t.Errorf("Balance = %q, want %q", row.Balance, tt.wantBalance)
			}
		})
	}
}

func TestReconcile_PaymentsFormatLiteral(t *testing.T) {
	orders := table("Commande", orderCols, []any{"CMD1", "Papier", "Lyreco", 10, "V", "S"})
	invoices := table("Factures", invoiceCols,
		[]any{"CMD1", 1, ""}, []any{"CMD1", 2, ""}, []any{"CMD1", 3, ""},
	)

	got := Reconcile(orders, nil, invoices, nil, nil, Literals{PaymentsFormat: "%d payments"})
	if p := got.Rows[0].Payment; p != "3 payments" {
		t.Errorf("Payment = %q, want %q", p, "3 payments")
	}
	if b := got.Rows[0].Balance; b != "4.00" {
		t.Errorf("Balance = %q, want 4.00", b)
	}
}

// ----- Dispatch and Settlement Tests -----

func TestReconcile_Dispatch(t *testing.T) {
	orders := table("Commande", orderCols,
		[]any{"CMD1", "Papier", "Lyreco", 10, "V", "S"},
		[]any{"CMD2", "Encre", "Lyreco", 10, "V", "S"},
		[]any{"CMD3", "Toner", "Lyreco", 10, "V", "S"},
	)
	dispatch := table("Envoi BDC", dispatchCols,
		[]any{"CMD1", date(2024, 1, 15), "Dupont"},
		[]any{"CMD1", date(2024, 1, 20), "Martin"},
		[]any{"CMD2", "pas encore", "Durand"},
	)

	got := Reconcile(orders, dispatch, nil, nil, nil, DefaultLiterals())

	if d := rowByID(t, got, "CMD1").Dispatch; d != "15/01/2024 Dupont" {
		t.Errorf("CMD1 dispatch = %q, want first occurrence", d)
	}
	if d := rowByID(t, got, "CMD2").Dispatch; d != "Durand" {
		t.Errorf("CMD2 dispatch = %q, want agent only", d)
	}
	if d := rowByID(t, got, "CMD3").Dispatch; d != "" {
		t.Errorf("CMD3 dispatch = %q, want empty", d)
	}
}

func TestReconcile_Settlement(t *testing.T) {
	lit := DefaultLiterals()
	orders := table("Commande", orderCols,
		[]any{"CMD1", "Carte", lit.RegulCASupplier, 10, "V", "S"},
		[]any{"CMD2", "Carte", "  bnp paribas - Régularisation carte achat ", 10, "V", "S"},
		[]any{"AB12345", "Régul exacte", "Lyreco", 10, "V", "S"},
		[]any{"AB12399", "Régul préfixe", "Lyreco", 10, "V", "S"},
		[]any{"AB12377", "Sans marqueur", "Lyreco", 10, "V", "S"},
		[]any{"ZZ99999", "Inconnue", "Lyreco", 10, "V", "S"},
		[]any{"AB12366", "Statut vide", "Lyreco", 10, "V", "S"},
	)
	dispatch := table("Envoi BDC", dispatchCols,
		[]any{"AB12345", date(2024, 1, 15), "ss objet Régul CA"},
		[]any{"AB12399", date(2024, 1, 15), "SS OBJET REGUL CA"},
		[]any{"AB12377", date(2024, 1, 15), "Dupont"},
		[]any{"ZZ99999", date(2024, 1, 15), "ss objet régul ca"},
		[]any{"AB12366", date(2024, 1, 15), "ss objet régul ca"},
	)
	certs := table("Constatation", certCols,
		[]any{"AB12345", "AB123", "Certifié"},
		[]any{"AB12377", "AB123", "Rejeté"},
		[]any{"AB12366", "AB123", ""},
	)

	got := Reconcile(orders, dispatch, nil, nil, certs, lit)

	tests := []struct {
		id   string
		want string
	}{
		{id: "CMD1", want: lit.RegulCA},
		{id: "CMD2", want: lit.RegulCA},
		{id: "AB12345", want: "Certifié"},
		{id: "AB12399", want: "Certifié"},
		{id: "AB12377", want: lit.UnknownSF},
		{id: "ZZ99999", want: lit.UnknownSF},
		{id: "AB12366", want: lit.UnknownSF},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			if s := rowByID(t, got, tt.id).Settlement; s != tt.want {
				t.Errorf("Settlement = %q, want %q", s, tt.want)
			}
		})
	}
}

// ----- Workflow Tests -----

func TestReconcile_Workflow(t *testing.T) {
	orders := table("Commande", orderCols,
		[]any{"CMD1", "Papier", "Lyreco", 10, "V", "S"},
		[]any{"CMD2", "Encre", "Lyreco", 10, "V", "S"},
		[]any{"CMD3", "Toner", "Lyreco", 10, "V", "S"},
	)

	t.Run("date column preferred", func(t *testing.T) {
		wf := table("Workflow", []string{"N° commande", "Statut", "Date"},
			[]any{"CMD1", "Validé", date(2024, 3, 5)},
			[]any{"CMD1", "Refusé", date(2024, 3, 9)},
			[]any{"CMD2", "Validé", "12/03/2024"},
			[]any{"CMD3", "Validé", ""},
		)
		got := Reconcile(orders, nil, nil, wf, nil, DefaultLiterals())

		want := map[string]string{"CMD1": "05/03/2024", "CMD2": "12/03/2024", "CMD3": ""}
		for id, w := range want {
			if v := rowByID(t, got, id).Workflow; v != w {
				t.Errorf("%s workflow = %q, want %q", id, v, w)
			}
		}
	})

	t.Run("status column when no date", func(t *testing.T) {
		wf := table("Workflow", []string{"N° commande", "Etat"},
			[]any{"CMD1", "Validé"},
		)
		got := Reconcile(orders, nil, nil, wf, nil, DefaultLiterals())
		if v := rowByID(t, got, "CMD1").Workflow; v != "Validé" {
			t.Errorf("workflow = %q, want Validé", v)
		}
	})

	t.Run("second column as last resort", func(t *testing.T) {
		wf := table("Workflow", []string{"N° commande", "Commentaire"},
			[]any{"CMD2", "relancé"},
		)
		got := Reconcile(orders, nil, nil, wf, nil, DefaultLiterals())
		if v := rowByID(t, got, "CMD2").Workflow; v != "relancé" {
			t.Errorf("workflow = %q, want relancé", v)
		}
	})

	t.Run("no id column", func(t *testing.T) {
		wf := table("Workflow", []string{"Foo", "Bar"}, []any{"CMD1", "x"})
		got := Reconcile(orders, nil, nil, wf, nil, DefaultLiterals())
		if v := rowByID(t, got, "CMD1").Workflow; v != "" {
			t.Errorf("workflow = %q, want empty", v)
		}
	})
}

func TestWorkflowColumns(t *testing.T) {
	tests := []struct {
		name      string
		columns   []string
		wantID    string
		wantValue string
	}{
		{name: "date", columns: []string{"N° commande", "Etape", "Date"}, wantID: "N° commande", wantValue: "Date"},
		{name: "status", columns: []string{"BDC", "Statut"}, wantID: "BDC", wantValue: "Statut"},
		{name: "fallback", columns: []string{"N° commande", "Etape"}, wantID: "N° commande", wantValue: "Etape"},
		{name: "id only", columns: []string{"N° commande"}, wantID: "N° commande", wantValue: ""},
		{name: "no id", columns: []string{"Foo", "Bar"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, value := WorkflowColumns(NewTable("wf", tt.columns...))
			if id != tt.wantID || value != tt.wantValue {
				t.Errorf("WorkflowColumns() = (%q, %q), want (%q, %q)", id, value, tt.wantID, tt.wantValue)
			}
		})
	}
}

// ----- Row Shape Tests -----

func TestReconcile_Placeholders(t *testing.T) {
	orders := table("Commande", orderCols, []any{"CMD1", "", "  ", 10, "", ""})

	got := Reconcile(orders, nil, nil, nil, nil, DefaultLiterals())

	row := got.Rows[0]
	for name, v := range map[string]string{
		"label": row.Label, "supplier": row.Supplier, "visa": row.Visa, "status": row.Status,
	} {
		if v != "-" {
			t.Errorf("%s = %q, want placeholder", name, v)
		}
	}
	if row.Settlement != "Pas de SF connu" {
		t.Errorf("Settlement = %q", row.Settlement)
	}
}

func TestReconcile_Deduplication(t *testing.T) {
	orders := table("Commande", orderCols,
		[]any{"CMD1", "Papier", "Lyreco", 100, "V", "S"},
		[]any{"CMD1", "Papier", "Lyreco", 100, "V", "S"},
		[]any{"CMD1", "Papier", "Lyreco", 120, "V", "S"},
		[]any{"CMD2", "Encre", "Lyreco", 10, "V", "S"},
	)

	got := Reconcile(orders, nil, nil, nil, nil, DefaultLiterals())

	if got.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", got.Len())
	}
	seen := make(map[string]bool)
	for _, r := range got.Rows {
		if seen[r.Signature()] {
			t.Errorf("duplicate signature %q", r.Signature())
		}
		seen[r.Signature()] = true
	}
	if got.Rows[2].OrderID != "CMD2" {
		t.Error("order of first occurrences must be preserved")
	}
}

func TestReconcile_OneRowPerOrderLineAtMost(t *testing.T) {
	var rows [][]any
	for i := 0; i < 20; i++ {
		rows = append(rows, []any{fmt.Sprintf("CMD%d", i%7), "x", "y", i % 3, "v", "s"})
	}
	orders := table("Commande", orderCols, rows...)

	got := Reconcile(orders, nil, nil, nil, nil, DefaultLiterals())
	if got.Len() > orders.Len() {
		t.Errorf("Len() = %d exceeds orders %d", got.Len(), orders.Len())
	}
}

func TestReconcile_EmptyOrders(t *testing.T) {
	if got := Reconcile(nil, nil, nil, nil, nil, DefaultLiterals()); got.Len() != 0 {
		t.Errorf("nil orders: Len() = %d, want 0", got.Len())
	}
	if got := Reconcile(NewTable("Commande", orderCols...), nil, nil, nil, nil, Literals{}); got.Len() != 0 {
		t.Errorf("empty orders: Len() = %d, want 0", got.Len())
	}
}

func TestUnifiedRow_Values(t *testing.T) {
	orders := table("Commande", orderCols, []any{"CMD1", "Papier", "Lyreco", 500, "V1", "Soldée"})
	row := Reconcile(orders, nil, nil, nil, nil, DefaultLiterals()).Rows[0]

	want := []string{
		"CMD1", "Papier", "Lyreco", "500", "V1", "", "Pas de SF connu", "",
		"pas de paiement connu", "500.00", "Soldée",
	}
	if got := row.Values(); !reflect.DeepEqual(got, want) {
		t.Errorf("Values() = %v, want %v", got, want)
	}
	if len(GlobalColumns) != len(want) {
		t.Errorf("GlobalColumns has %d entries, want %d", len(GlobalColumns), len(want))
	}
}

func TestOrderPrefix(t *testing.T) {
	tests := map[string]string{
		"AB12345": "AB123",
		"AB1":     "AB1",
		"ÉT12345": "ÉT123",
		"":        "",
	}
	for in, want := range tests {
		if got := OrderPrefix(in); got != want {
			t.Errorf("OrderPrefix(%q) = %q, want %q", in, got, want)
		}
	}
}
