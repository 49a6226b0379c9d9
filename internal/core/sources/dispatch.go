package sources

import "github.com/JonMunkholm/bdcrecon/internal/core"

func init() {
	registerDispatch()
}

// The dispatch export has unreliable headers; its first three columns are
// always order, date sent and agent.
func registerDispatch() {
	core.Register(core.SourceDefinition{
		Info: core.SourceInfo{
			Key:   core.SourceDispatch,
			Label: "Envoi BDC",
			Order: 2,
		},
		Fields: []core.FieldSpec{
			{Name: core.ColCommande, Position: 1},
			{Name: core.ColDispatchDate, Position: 2},
			{Name: core.ColAgent, Position: 3},
		},
	})
}
