package settings

import "errors"

// Sentinel errors for configuration sources.
var (
	ErrInvalidAssignment = errors.New("invalid assignment, expected KEY=VALUE")
	ErrNotAMapping       = errors.New("config file is not a mapping")
)
