package evaluator

import "errors"

var (
	// ErrScript is returned when a script fails to compile or run.
	ErrScript = errors.New("script evaluation failed")

	// ErrNoRemoteEvaluator is returned when a remote script is evaluated without a remote evaluator configured.
	ErrNoRemoteEvaluator = errors.New("no remote evaluator configured")

	// ErrUnknownTarget is returned for an execution target the dispatcher does not know.
	ErrUnknownTarget = errors.New("unknown execution target")
)
