package override

import "errors"

// Sentinel errors for the override service layer.
var (
	ErrKeyRequired = errors.New("adId or adName is required")
	ErrNotFound    = errors.New("override not found")
)
