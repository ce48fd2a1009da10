package ingest

import "errors"

// Sentinel errors for the ingest package.
var (
	// ErrSourceMissing is returned when a required source file is absent.
	ErrSourceMissing = errors.New("source file missing")
)
