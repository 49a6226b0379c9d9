package sources

import "github.com/JonMunkholm/bdcrecon/internal/core"

func init() {
	registerInvoices()
}

func registerInvoices() {
	core.Register(core.SourceDefinition{
		Info: core.SourceInfo{
			Key:   core.SourceInvoices,
			Label: "Factures",
			Order: 4,
		},
		Extract: core.ExtractRule{SkipRows: 19},
		Fields: []core.FieldSpec{
			{Name: core.ColOrderID, Field: core.FieldOrderID},
			{Name: core.ColAmount, Field: core.FieldAmount},
			{Name: core.ColSettlementDate, Field: core.FieldSettlementDate},
		},
		Exclude: []core.Exclusion{
			{Field: core.FieldExpenseNature, Value: "MI"},
			{Field: core.FieldSupplier, Value: ExcludedSupplier},
		},
	})
}
