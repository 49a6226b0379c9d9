package sources

import "github.com/JonMunkholm/bdcrecon/internal/core"

func init() {
	registerOrders()
}

func registerOrders() {
	core.Register(core.SourceDefinition{
		Info: core.SourceInfo{
			Key:      core.SourceOrders,
			Label:    "Commande",
			Order:    1,
			Required: true,
		},
		Extract: core.ExtractRule{SkipRows: 20},
		Fields: []core.FieldSpec{
			{Name: core.ColOrderID, Field: core.FieldOrderID},
			{Name: core.ColLabel, Field: core.FieldLabel},
			{Name: core.ColSupplier, Field: core.FieldSupplier},
			{Name: core.ColAmount, Field: core.FieldAmount},
			{Name: core.ColFlowType, Field: core.FieldFlowType},
			{Name: core.ColExpenseNature, Field: core.FieldExpenseNature},
			{Name: core.ColStatus, Field: core.FieldStatus},
			{Name: core.ColVisa, Field: core.FieldVisa},
			{Name: core.ColAuthor, Field: core.FieldAuthor},
		},
		Exclude: []core.Exclusion{
			{Field: core.FieldSupplier, Value: ExcludedSupplier},
			{Field: core.FieldExpenseNature, Value: "mission"},
		},
	})
}
