package sources

import "github.com/JonMunkholm/bdcrecon/internal/core"

func init() {
	registerWorkflow()
}

// The workflow export keeps every column; its header sits under a
// "Liste des résultats" line whose position varies.
func registerWorkflow() {
	core.Register(core.SourceDefinition{
		Info: core.SourceInfo{
			Key:   core.SourceWorkflow,
			Label: "Workflow",
			Order: 5,
		},
		Extract: core.ExtractRule{Marker: "Liste des résultats"},
	})
}
