package domain

import "errors"

// Sentinel errors shared across packages. Concrete error types in the store
// and tvmaze packages match these through errors.Is.
var (
	// ErrStorage indicates the local store is unavailable or rejected a write
	ErrStorage = errors.New("storage error")

	// ErrTransport indicates a remote call failed at the network or decoding level
	ErrTransport = errors.New("transport error")

	// ErrShowNotFound indicates the catalog has no show with the requested id
	ErrShowNotFound = errors.New("show not found")

	// ErrInvalidShowID indicates a show id that is not a positive integer
	ErrInvalidShowID = errors.New("invalid show id")
)
