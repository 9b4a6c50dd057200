// Package catalog holds the immutable entity graph the generation engine
// runs against.
//
// A Graph is built once per generation run from a Records snapshot and is
// read-only afterwards: every resolver sees the same frozen view, which
// makes per-page resolution safe to run from any number of goroutines
// without locking.
//
// # Construction
//
// Build validates referential integrity while wiring the graph. Dangling
// references (an ID that is not present in the snapshot) are skipped and
// reported as warnings, never treated as fatal:
//
//	g, report := catalog.Build(records)
//	for _, w := range report.Warnings {
//	    log.Warn("dangling reference", "entity", w.EntityID, "field", w.Field)
//	}
//
// Build also recomputes every derived aggregate (product counts, price
// stats, pharmacy counts) from the underlying reference lists, so stored
// aggregates can never diverge from their source of truth.
//
// # Lookups
//
// The graph exposes O(1) lookups by ID and slug per entity kind, plus
// reverse indices such as products-by-strain and offers-by-pharmacy.
// Returned pointers and slices reference frozen graph data and must not
// be mutated by callers.
package catalog
