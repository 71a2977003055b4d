package parameter

import (
	"context"
)

// Definition is the contract the host uses to drive a build parameter.
//
// A Definition describes itself (Spec, Descriptor), binds submitted values
// from a form (CreateValue, CreateValueFromJSON) and provides a fallback value
// when nothing was submitted (DefaultValue).
type Definition interface {
	// Spec returns the immutable definition the parameter was built from.
	Spec() Spec

	// Descriptor returns the host-facing type information for the parameter.
	Descriptor() Descriptor

	// CreateValueFromJSON binds a JSON submission into a value for this parameter.
	CreateValueFromJSON(ctx context.Context, form Form, data []byte) (Value, error)

	// CreateValue binds the raw request values submitted for this parameter.
	// When nothing was submitted the default value is returned.
	CreateValue(ctx context.Context, form Form) (Value, error)

	// DefaultValue returns the value used when no submission is present.
	// A nil Value means the parameter has no default.
	DefaultValue(ctx context.Context) Value
}

// ChoiceLister is implemented by definitions that offer a list of selectable values.
type ChoiceLister interface {
	// Choices returns the current list of selectable values in order.
	// Elements may be nil.
	Choices(ctx context.Context) []any
}

// Evaluator executes the script of a Spec and returns whatever it produced.
//
// A nil result with a nil error means the script produced nothing.
// Implementations decide where the script runs, typically based on Spec.Target.
type Evaluator interface {
	Evaluate(ctx context.Context, spec Spec) (any, error)
}

// EvaluatorFunc adapts a function into an Evaluator.
type EvaluatorFunc func(ctx context.Context, spec Spec) (any, error)

// Evaluate delegates to the underlying function.
func (fn EvaluatorFunc) Evaluate(ctx context.Context, spec Spec) (any, error) {
	return fn(ctx, spec)
}

// Defaulter supplies the value used when a parameter receives no submission.
type Defaulter interface {
	DefaultValue(ctx context.Context, spec Spec) Value
}

// Form gives a definition access to the submitted request.
type Form interface {
	// ParameterValues returns every value submitted under name, or nil when none were.
	ParameterValues(name string) []string

	// BindJSON decodes a JSON submission into v.
	BindJSON(data []byte, v any) error
}

// Descriptor provides host-facing type information for a parameter definition.
type Descriptor struct {
	// Type is the stable identifier of the parameter kind (e.g. "dynamic-choice").
	Type string

	// DisplayName is the human-readable name of the parameter kind.
	DisplayName string
}
