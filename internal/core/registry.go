package core

import (
	"fmt"
	"sort"
	"sync"
)

var (
	registry   = make(map[string]SourceDefinition)
	registryMu sync.RWMutex
)

// Register adds a source definition to the registry.
// Panics if a source with the same key is already registered or if two
// fields share an output column name.
func Register(def SourceDefinition) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if _, exists := registry[def.Info.Key]; exists {
		panic(fmt.Sprintf("source already registered: %s", def.Info.Key))
	}

	// Populate Columns from Fields if not set
	if len(def.Info.Columns) == 0 && len(def.Fields) > 0 {
		def.Info.Columns = make([]string, len(def.Fields))
		seen := make(map[string]bool, len(def.Fields))
		for i, spec := range def.Fields {
			if seen[spec.Name] {
				panic(fmt.Sprintf("source %s: duplicate column %s", def.Info.Key, spec.Name))
			}
			seen[spec.Name] = true
			def.Info.Columns[i] = spec.Name
		}
	}

	def.Info.SkipRows = def.Extract.SkipRows
	def.Info.Marker = def.Extract.Marker
	registry[def.Info.Key] = def
}

// Get returns a source definition by key.
// Returns false if not found.
func Get(key string) (SourceDefinition, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	def, ok := registry[key]
	return def, ok
}

// All returns all registered source definitions in output sheet order.
func All() []SourceDefinition {
	registryMu.RLock()
	defer registryMu.RUnlock()

	result := make([]SourceDefinition, 0, len(registry))
	for _, def := range registry {
		result = append(result, def)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Info.Order != result[j].Info.Order {
			return result[i].Info.Order < result[j].Info.Order
		}
		return result[i].Info.Key < result[j].Info.Key
	})

	return result
}

// SourceCount returns the number of registered sources.
func SourceCount() int {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return len(registry)
}

// Clear removes all registered sources.
// Primarily useful for testing.
func Clear() {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = make(map[string]SourceDefinition)
}
