// Package ingest loads local source files and rebuilds the mappings.
//
// A local sync reads three inputs:
//
//   - the creative sheet workbook (Creatives, Copy and Lander sheets)
//   - the performance seed CSV (one row per creative with spend and revenue)
//   - the optional creative seed CSV (extra creative metadata)
//
// The performance seed has no ad-level identifiers, so each row becomes a
// simulated ad named from a template so that it parses to its creative.
// All writes and the reconciliation run share one transaction.
package ingest
