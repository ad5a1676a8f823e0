package hooks

import "errors"

// Sentinel errors for registry operations.
var (
	ErrEmptyName        = errors.New("handler name cannot be empty")
	ErrNilHandler       = errors.New("handler cannot be nil")
	ErrDuplicateHandler = errors.New("handler already registered")
	ErrDuplicateDefault = errors.New("default already registered")
)
