package reconcile

import "errors"

// Sentinel errors for the reconcile service layer.
var (
	// ErrRunInProgress is returned when another run holds the rebuild lock.
	ErrRunInProgress = errors.New("a reconciliation run is already in progress")
)
