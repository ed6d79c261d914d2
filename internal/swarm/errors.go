package swarm

import "errors"

var (
	// ErrResourceAllocation is returned when a texture, mesh or program could not be created.
	// The previous resources stay valid and the reset is retried on the next tick.
	ErrResourceAllocation = errors.New("gpu resource allocation failed")
	// ErrNotReady is returned by operations that need an allocated simulation.
	ErrNotReady = errors.New("simulation not ready")
)
