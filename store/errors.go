package store

import "errors"

var (
	// ErrNamespaceRequired indicates an operation was attempted with an
	// empty namespace.
	ErrNamespaceRequired = errors.New("namespace is required")

	// ErrEmptyVector indicates a record with a zero-length vector was
	// submitted for storage.
	ErrEmptyVector = errors.New("record vector is empty")
)
