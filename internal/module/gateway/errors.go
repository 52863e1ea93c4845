package gateway

import "errors"

// Module errors.
var (
	// ErrNoConfig means a region has no gateway configuration. Routing
	// fails closed on it; defaulting silently would hide a revenue
	// decision from administrators.
	ErrNoConfig      = errors.New("no gateway configuration for region")
	ErrInvalidConfig = errors.New("invalid gateway configuration")
	ErrNotCandidate  = errors.New("gateway is not a candidate for this region")
)
