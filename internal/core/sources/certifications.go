package sources

import "github.com/JonMunkholm/bdcrecon/internal/core"

func init() {
	registerCertifications()
}

func registerCertifications() {
	core.Register(core.SourceDefinition{
		Info: core.SourceInfo{
			Key:   core.SourceCertifications,
			Label: "Constatation",
			Order: 3,
		},
		Extract: core.ExtractRule{SkipRows: 17},
		Fields: []core.FieldSpec{
			{Name: core.ColCommande, Field: core.FieldCertOrderID},
			{Name: core.ColOrderExtract, Derive: orderExtract},
			{Name: core.ColStatus, Field: core.FieldCertStatus},
		},
	})
}

// orderExtract derives the certification prefix key from the order id.
func orderExtract(rec core.Record) core.Cell {
	id := rec[core.ColCommande].Clean()
	if id == "" {
		return core.Cell{}
	}
	return core.TextCell(core.OrderPrefix(id))
}
