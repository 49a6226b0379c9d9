package core

// Literals holds the fixed texts written into the unified table.
// Zero-valued fields fall back to DefaultLiterals.
type Literals struct {
	// RegulCASupplier is the supplier whose orders settle through card
	// regularisation.
	RegulCASupplier string
	// RegulCA is the settlement status written for those orders.
	RegulCA string
	// RegulCAMarker, found in dispatch text, sends the settlement status
	// lookup to the certification export.
	RegulCAMarker string
	UnknownSF     string
	NoPayment     string
	MissingDate   string
	// PaymentsFormat renders an invoice count of two or more.
	PaymentsFormat string
	Placeholder    string
}

// DefaultLiterals returns the texts used by the finance team's reports.
func DefaultLiterals() Literals {
	return Literals{
		RegulCASupplier: "BNP PARIBAS - REGULARISATION CARTE ACHAT",
		RegulCA:         "ss objet Régul CA",
		RegulCAMarker:   "ss objet regul ca",
		UnknownSF:       "Pas de SF connu",
		NoPayment:       "pas de paiement connu",
		MissingDate:     "date manquante",
		PaymentsFormat:  "%d paiements",
		Placeholder:     "-",
	}
}

// WithDefaults fills every empty field from DefaultLiterals.
func (l Literals) WithDefaults() Literals {
	d := DefaultLiterals()
	fill := func(v *string, def string) {
		if *v == "" {
			*v = def
		}
	}
	fill(&l.RegulCASupplier, d.RegulCASupplier)
	fill(&l.RegulCA, d.RegulCA)
	fill(&l.RegulCAMarker, d.RegulCAMarker)
	fill(&l.UnknownSF, d.UnknownSF)
	fill(&l.NoPayment, d.NoPayment)
	fill(&l.MissingDate, d.MissingDate)
	fill(&l.PaymentsFormat, d.PaymentsFormat)
	fill(&l.Placeholder, d.Placeholder)
	return l
}
