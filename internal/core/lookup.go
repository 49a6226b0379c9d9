package core

// insertIfAbsent stores v under k unless k is already present.
// Every single-valued lookup keeps the first occurrence of a key.
func insertIfAbsent[K comparable, V any](m map[K]V, k K, v V) bool {
	if _, exists := m[k]; exists {
		return false
	}
	m[k] = v
	return true
}

// orderKey is the lookup key for an order id.
func orderKey(id string) string {
	return Normalize(id)
}

// OrderPrefix returns the first OrderPrefixLen characters of id, the part
// shared by the orders a single certification covers.
func OrderPrefix(id string) string {
	r := []rune(id)
	if len(r) > OrderPrefixLen {
		r = r[:OrderPrefixLen]
	}
	return string(r)
}
