package parameter

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-hclog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	pkg "github.com/peteski22/dynparam/pkg/contract/parameter"
)

// Base holds what every script-backed parameter shares: its Spec and the
// Evaluator that runs its script.
// NOTE: Use NewBase to create a Base.
type Base struct {
	spec      pkg.Spec
	evaluator pkg.Evaluator
	defaulter pkg.Defaulter
	logger    hclog.Logger
	tracer    trace.Tracer

	evaluations metric.Int64Counter
	failures    metric.Int64Counter
}

// NewBase constructs a Base for spec, evaluated by evaluator.
func NewBase(spec pkg.Spec, evaluator pkg.Evaluator, opts ...Option) (*Base, error) {
	if spec.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidDefinition)
	}
	if evaluator == nil {
		return nil, fmt.Errorf("%w: parameter %s has no evaluator", ErrInvalidDefinition, spec.Name)
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	evaluations, err := o.meter.Int64Counter(
		"dynparam.parameter.evaluations",
		metric.WithDescription("Number of parameter script evaluations."),
	)
	if err != nil {
		return nil, fmt.Errorf("creating evaluation counter: %w", err)
	}

	failures, err := o.meter.Int64Counter(
		"dynparam.parameter.evaluation_failures",
		metric.WithDescription("Number of parameter script evaluations that returned an error."),
	)
	if err != nil {
		return nil, fmt.Errorf("creating failure counter: %w", err)
	}

	return &Base{
		spec:        spec,
		evaluator:   evaluator,
		defaulter:   o.defaulter,
		logger:      o.logger.Named("parameter").With("parameter", spec.Name),
		tracer:      o.tracer,
		evaluations: evaluations,
		failures:    failures,
	}, nil
}

// Spec returns the definition the parameter was built from.
func (b *Base) Spec() pkg.Spec {
	return b.spec
}

// Name returns the parameter name.
func (b *Base) Name() string {
	return b.spec.Name
}

// Description returns the parameter description.
func (b *Base) Description() string {
	return b.spec.Description
}

// Evaluate runs the parameter script and returns its result.
// Evaluator failures are logged and reported as a nil result.
func (b *Base) Evaluate(ctx context.Context) any {
	attrs := []attribute.KeyValue{
		attribute.String("parameter.name", b.spec.Name),
		attribute.String("parameter.target", string(b.spec.Target)),
	}

	ctx, span := b.tracer.Start(ctx, "parameter.evaluate", trace.WithAttributes(attrs...))
	defer span.End()

	b.evaluations.Add(ctx, 1, metric.WithAttributes(attrs...))

	value, err := b.evaluator.Evaluate(ctx, b.spec)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		b.failures.Add(ctx, 1, metric.WithAttributes(attrs...))
		b.logger.Error("script evaluation failed", "target", b.spec.Target, "error", err)
		return nil
	}

	return value
}

// DefaultValue returns the value used when nothing was submitted.
//
// A host-supplied Defaulter wins. Otherwise the script is evaluated: a list
// yields its first element, any other value its string form, and no result
// yields no default.
func (b *Base) DefaultValue(ctx context.Context) pkg.Value {
	if b.defaulter != nil {
		return b.defaulter.DefaultValue(ctx, b.spec)
	}

	value := b.Evaluate(ctx)
	if value == nil {
		return nil
	}

	if elements, ok := listElements(value); ok {
		if len(elements) == 0 {
			return nil
		}
		value = elements[0]
	}

	form, ok := StringForm(value)
	if !ok {
		return &pkg.StringValue{Name: b.spec.Name, Description: b.spec.Description}
	}
	return pkg.NewStringValue(b.spec.Name, form, b.spec.Description)
}
