// Package reconcile rebuilds the mapping from ads to creatives.
//
// A run discards every parser- and override-sourced map, then classifies
// each ad exactly once: a manual override maps it verbatim, otherwise the
// ad name is parsed and its identifiers are checked against the known
// creatives, copy variants and landers. Ads that fail either step are
// recorded as unmapped with a stable reason so operators can fix them with
// an override.
//
// The Engine is storage-agnostic and depends on the Store interface in
// repository.go. Callers run it inside a single transaction; Service does
// that and records a run-status row for each run.
package reconcile
