package kvengine

import "errors"

// Sentinel errors the engine returns. Callers use errors.Is to
// classify a failure; wrapped errors (%w) keep the underlying I/O or
// JSON error attached for logging.
var (
	// ErrKeyNotFound is returned by Remove when the key is absent.
	ErrKeyNotFound = errors.New("kvengine: key not found")

	// ErrUnexpectedRecord is returned when a decoded record does not
	// match the variant expected at that index location, indicating
	// divergence between the index and the on-disk log.
	ErrUnexpectedRecord = errors.New("kvengine: unexpected record variant")

	// ErrClosed names a closed engine handle. No Engine method returns
	// it: after Close, operations fail with the error from the closed
	// file handles or a missing generation reader.
	ErrClosed = errors.New("kvengine: engine is closed")
)
