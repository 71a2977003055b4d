package parameter

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument is the root of every error caused by the submitted request.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidChoice is returned when a submitted value matches none of the current choices.
	ErrInvalidChoice = fmt.Errorf("%w: illegal choice", ErrInvalidArgument)

	// ErrIllegalValueCount is returned when more than one value is submitted for a single-valued parameter.
	ErrIllegalValueCount = fmt.Errorf("%w: illegal number of parameter values", ErrInvalidArgument)

	// ErrMalformedSubmission is returned when a JSON submission cannot be bound.
	ErrMalformedSubmission = fmt.Errorf("%w: malformed submission", ErrInvalidArgument)
)

// ErrInvalidDefinition is returned when a parameter definition cannot be constructed.
var ErrInvalidDefinition = errors.New("invalid parameter definition")
