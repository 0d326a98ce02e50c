package storage

import "errors"

var (
	// ErrNotFound is a definite miss: the backend answered and the key is absent.
	ErrNotFound = errors.New("storage: key not found")

	ErrPermissionDenied = errors.New("storage: permission denied")

	// ErrInvalidKey covers empty keys and path traversal.
	ErrInvalidKey = errors.New("storage: invalid key")

	// ErrUnavailable wraps transient backend failures (I/O, network, timeouts).
	ErrUnavailable = errors.New("storage: unavailable")
)
