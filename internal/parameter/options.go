package parameter

import (
	"github.com/hashicorp/go-hclog"
	"go.opentelemetry.io/otel/metric"
	mnop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	tnop "go.opentelemetry.io/otel/trace/noop"

	pkg "github.com/peteski22/dynparam/pkg/contract/parameter"
)

// Option configures a parameter definition.
type Option func(*options)

type options struct {
	logger    hclog.Logger
	tracer    trace.Tracer
	meter     metric.Meter
	defaulter pkg.Defaulter
}

func defaultOptions() options {
	return options{
		logger: hclog.NewNullLogger(),
		tracer: tnop.NewTracerProvider().Tracer(""),
		meter:  mnop.NewMeterProvider().Meter(""),
	}
}

// WithLogger sets the logger used to report degraded script evaluations.
func WithLogger(logger hclog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithTracer sets the tracer used to trace script evaluations.
func WithTracer(tracer trace.Tracer) Option {
	return func(o *options) {
		if tracer != nil {
			o.tracer = tracer
		}
	}
}

// WithMeter sets the meter used to count script evaluations.
func WithMeter(meter metric.Meter) Option {
	return func(o *options) {
		if meter != nil {
			o.meter = meter
		}
	}
}

// WithDefaulter replaces the script-derived default value with one supplied by the host.
func WithDefaulter(d pkg.Defaulter) Option {
	return func(o *options) {
		o.defaulter = d
	}
}
