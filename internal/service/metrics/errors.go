package metrics

import "errors"

// Sentinel errors for the metrics service layer.
var (
	ErrInvalidRange = errors.New("invalid date range")
	ErrNotFound     = errors.New("creative not found")
)
