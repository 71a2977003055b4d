package host

import "errors"

var (
	// ErrDuplicateParameter is returned when a parameter name is registered twice.
	ErrDuplicateParameter = errors.New("parameter already registered")

	// ErrUnknownParameter is returned when no parameter is registered under a name.
	ErrUnknownParameter = errors.New("unknown parameter")
)
