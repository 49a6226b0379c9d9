// Package core provides the business logic for purchase-order reconciliation.
//
// This package is the heart of the reconciler, containing all domain logic
// independent of any spreadsheet library, UI or transport layer. It can be
// used by the web shell, the CLI, or tests without modification.
//
// # Architecture
//
// The package is organized around several key concepts:
//
//   - Raw grids: [Workbook], [Sheet] and [GridCell] describe the used cells of
//     a spreadsheet as handed over by a [WorkbookProvider].
//   - Canonical tables: [BuildTable] and [FindMarker] turn a loosely
//     structured grid into a [Table] with a fixed column set.
//   - Source definitions: registered via the registry, each source declares
//     its skip rule, logical fields and exclusion filters.
//   - Reconciliation: [Reconcile] joins the canonical tables on the order id
//     into a [UnifiedTable].
//   - Service: the entry point tying provider, transforms, engine and sink.
//
// # Source Registry
//
// Sources are registered at init time using [Register]. Each
// [SourceDefinition] contains everything needed to turn one export into its
// canonical table:
//
//	core.Register(SourceDefinition{
//	    Info:    SourceInfo{Key: "invoices", Label: "Factures", Order: 4},
//	    Extract: ExtractRule{SkipRows: 19},
//	    Fields: []FieldSpec{
//	        {Name: "N° commande", Field: FieldOrderID},
//	        {Name: "Montant HT", Field: FieldAmount},
//	    },
//	})
//
// # Column Resolution
//
// Headers are matched against per-field synonym lists using [Normalize]d
// text. Exact matches always win over substring matches; see [ResolveColumn].
//
// # Error Handling
//
// Technical errors are mapped to user-friendly messages using [MapError].
// Each error category has a unique code for support reference:
//
//   - FILE001-FILE006: File errors (size, format, missing orders export or output)
//   - SRC001-SRC002: Source errors (unknown source, empty workbook)
//   - RUN001-RUN004: Run errors (busy, cancelled, timeout, output)
//   - HIS001-HIS002: Run history errors
//   - RATE001: Rate limiting
package core
