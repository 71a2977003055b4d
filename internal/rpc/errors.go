package rpc

import "errors"

// ErrMalformedPayload is returned when a request cannot be decoded into a parameter spec.
var ErrMalformedPayload = errors.New("malformed evaluator payload")
