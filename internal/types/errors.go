package types

import "errors"

var (
	// ErrHandleNotFound marks a handle that does not resolve to an identity.
	// The finalizer drops the mention and keeps going.
	ErrHandleNotFound = errors.New("handle not found")

	// ErrNoResolver is returned when mentions need resolving but no resolver was given.
	ErrNoResolver = errors.New("no handle resolver configured")
)
