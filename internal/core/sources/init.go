// Package sources registers all source export definitions with the core registry.
// Import this package to ensure all sources are registered.
package sources

// ExcludedSupplier is the travel agency whose lines are left out of both the
// orders and the invoices.
const ExcludedSupplier = "FCM 3MUNDI ESR-M"
