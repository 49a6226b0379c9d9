package core

// reconcile.go joins the canonical tables into the unified "Global" table.
//
// Four lookups are built first, all keyed on the normalized order id:
//   - dispatch: "date agent" text of the first dispatch row
//   - invoices: count and sum of every invoice row, plus the settlement date
//     while there is only one
//   - workflow: date (or status) of the first workflow row
//   - certifications: status by full id and by 5-character prefix
//
// The Orders rows are then walked in order, one unified row each, and rows
// whose rendered fields repeat an earlier row exactly are dropped.

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Canonical column names shared by the source definitions and the engine.
const (
	ColOrderID        = "N° commande"
	ColLabel          = "Libellé"
	ColSupplier       = "Fournisseur"
	ColAmount         = "Montant HT"
	ColFlowType       = "Type de flux"
	ColExpenseNature  = "Nature de dépense"
	ColStatus         = "Statut"
	ColVisa           = "Ind. Visa"
	ColAuthor         = "Auteur"
	ColCommande       = "Commande"
	ColDispatchDate   = "Date envoi"
	ColAgent          = "Agent"
	ColOrderExtract   = "extrait commande"
	ColSettlementDate = "Date de règlement"
)

// OrderPrefixLen is the length of the order id extract used as a fallback
// certification key.
const OrderPrefixLen = 5

// GlobalColumns are the unified table headers in output order.
var GlobalColumns = []string{
	"BDC", "OBJET", "FOURN.", "HT", "VISA", "ENVOYE", "SF", "WORKFLOW", "PAYE", "SOLDE", "STATUT",
}

// UnifiedRow is one reconciled order.
type UnifiedRow struct {
	OrderID    string
	Label      string
	Supplier   string
	Amount     decimal.Decimal
	Visa       string
	Dispatch   string
	Settlement string
	Workflow   string
	Payment    string
	Balance    string
	Status     string
}

// Values renders the row in GlobalColumns order.
func (r UnifiedRow) Values() []string {
	return []string{
		r.OrderID, r.Label, r.Supplier, r.Amount.String(), r.Visa, r.Dispatch,
		r.Settlement, r.Workflow, r.Payment, r.Balance, r.Status,
	}
}

// Signature is the pipe-joined rendering used for deduplication.
func (r UnifiedRow) Signature() string {
	return strings.Join(r.Values(), "|")
}

// UnifiedTable is the reconciled output, one row per distinct order line.
type UnifiedTable struct {
	Rows []UnifiedRow
}

// Len returns the number of rows.
func (u *UnifiedTable) Len() int {
	if u == nil {
		return 0
	}
	return len(u.Rows)
}

// invoiceAggregate accumulates the invoices of one order.
type invoiceAggregate struct {
	count   int
	sum     decimal.Decimal
	date    *time.Time
	rawDate string
}

// Reconcile builds the unified table from the Orders table and the optional
// dispatch, invoice, workflow and certification tables. Nil or empty tables
// are treated as absent sources.
func Reconcile(orders, dispatch, invoices, workflow, certifications *Table, lit Literals) *UnifiedTable {
	lit = lit.WithDefaults()
	out := &UnifiedTable{}
	if orders.IsEmpty() {
		return out
	}

	dispatchByID := buildDispatchLookup(dispatch)
	invoicesByID := buildInvoiceLookup(invoices)
	workflowByID := buildWorkflowLookup(workflow)
	certByID, certByPrefix := buildCertificationLookups(certifications)

	regulMarker := Normalize(lit.RegulCAMarker)

	seen := make(map[string]bool, orders.Len())
	for _, row := range orders.Rows() {
		id := row[ColOrderID].Clean()
		key := orderKey(id)
		supplier := row[ColSupplier].Clean()
		amountCell := row[ColAmount]

		u := UnifiedRow{
			OrderID:  id,
			Label:    orPlaceholder(row[ColLabel].Clean(), lit.Placeholder),
			Supplier: orPlaceholder(supplier, lit.Placeholder),
			Amount:   ToDecimal(amountCell),
			Visa:     orPlaceholder(row[ColVisa].Clean(), lit.Placeholder),
			Dispatch: dispatchByID[key],
			Workflow: workflowByID[key],
			Status:   orPlaceholder(row[ColStatus].Clean(), lit.Placeholder),
		}

		u.Settlement = lit.UnknownSF
		switch {
		case SameText(supplier, lit.RegulCASupplier):
			u.Settlement = lit.RegulCA
		case u.Dispatch != "" && strings.Contains(Normalize(u.Dispatch), regulMarker):
			status, ok := certByID[key]
			if !ok && id != "" {
				status = certByPrefix[orderKey(OrderPrefix(id))]
			}
			if status != "" {
				u.Settlement = status
			}
		}

		u.Payment = lit.NoPayment
		if agg, ok := invoicesByID[key]; ok {
			switch {
			case agg.count == 1 && agg.date != nil:
				u.Payment = FormatDate(*agg.date)
			case agg.count == 1 && agg.rawDate != "":
				u.Payment = agg.rawDate
			case agg.count == 1:
				u.Payment = lit.MissingDate
			default:
				u.Payment = fmt.Sprintf(lit.PaymentsFormat, agg.count)
			}
			u.Balance = FormatAmount(u.Amount.Sub(agg.sum))
		} else if !amountCell.IsBlank() {
			u.Balance = FormatAmount(u.Amount)
		}

		sig := u.Signature()
		if seen[sig] {
			continue
		}
		seen[sig] = true
		out.Rows = append(out.Rows, u)
	}
	return out
}

func buildDispatchLookup(t *Table) map[string]string {
	lookup := make(map[string]string)
	if t.IsEmpty() {
		return lookup
	}
	for _, row := range t.Rows() {
		key := orderKey(row[ColCommande].Clean())
		if key == "" {
			continue
		}
		var parts []string
		if d, ok := ParseDate(row[ColDispatchDate]); ok {
			parts = append(parts, FormatDate(d))
		}
		if agent := row[ColAgent].Clean(); agent != "" {
			parts = append(parts, agent)
		}
		insertIfAbsent(lookup, key, strings.TrimSpace(strings.Join(parts, " ")))
	}
	return lookup
}

func buildInvoiceLookup(t *Table) map[string]*invoiceAggregate {
	lookup := make(map[string]*invoiceAggregate)
	if t.IsEmpty() {
		return lookup
	}
	for _, row := range t.Rows() {
		key := orderKey(row[ColOrderID].Clean())
		if key == "" {
			continue
		}
		agg, ok := lookup[key]
		if !ok {
			agg = &invoiceAggregate{}
			lookup[key] = agg
		}

		agg.count++
		agg.sum = agg.sum.Add(ToDecimal(row[ColAmount]))
		if agg.count == 1 {
			if d, ok := ParseDate(row[ColSettlementDate]); ok {
				agg.date = &d
			}
			agg.rawDate = row[ColSettlementDate].Clean()
		} else {
			agg.date = nil
			agg.rawDate = ""
		}
	}
	return lookup
}

// WorkflowColumns picks the order id column and the value column of a
// workflow table: the date column, else the status column, else the second
// column. Either result may be empty.
func WorkflowColumns(t *Table) (idCol, valueCol string) {
	if t == nil {
		return "", ""
	}
	headers := t.Columns()
	idCol, ok := ResolveField(headers, FieldOrderID)
	if !ok {
		return "", ""
	}
	if col, ok := ResolveField(headers, FieldWorkflowDate); ok {
		return idCol, col
	}
	if col, ok := ResolveField(headers, FieldStatus); ok {
		return idCol, col
	}
	if len(headers) > 1 {
		return idCol, headers[1]
	}
	return idCol, ""
}

func buildWorkflowLookup(t *Table) map[string]string {
	lookup := make(map[string]string)
	if t.IsEmpty() {
		return lookup
	}
	idCol, valueCol := WorkflowColumns(t)
	if idCol == "" || valueCol == "" {
		return lookup
	}
	for _, row := range t.Rows() {
		key := orderKey(row[idCol].Clean())
		if key == "" {
			continue
		}
		if _, exists := lookup[key]; exists {
			continue
		}
		value := row[valueCol].Clean()
		if d, ok := ParseDate(row[valueCol]); ok {
			value = FormatDate(d)
		}
		if value != "" {
			lookup[key] = value
		}
	}
	return lookup
}

func buildCertificationLookups(t *Table) (byID, byPrefix map[string]string) {
	byID = make(map[string]string)
	byPrefix = make(map[string]string)
	if t.IsEmpty() {
		return byID, byPrefix
	}
	for _, row := range t.Rows() {
		status := row[ColStatus].Clean()
		if key := orderKey(row[ColCommande].Clean()); key != "" {
			insertIfAbsent(byID, key, status)
		}
		if key := orderKey(row[ColOrderExtract].Clean()); key != "" {
			insertIfAbsent(byPrefix, key, status)
		}
	}
	return byID, byPrefix
}

func orPlaceholder(s, placeholder string) string {
	if s == "" {
		return placeholder
	}
	return s
}
