// Package override manages manual ad-to-creative corrections.
//
// An override is keyed by ad ID or, when the ad ID is unknown, by ad name.
// It takes effect on the next reconciliation run, where it replaces parser
// output for the matching ad without validation against the known
// creatives. The package also exposes the unmapped-ad queue operators work
// from when writing overrides.
package override
