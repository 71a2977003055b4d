package evaluator

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-hclog"

	pkg "github.com/peteski22/dynparam/pkg/contract/parameter"
)

// Ensure Dispatcher implements parameter.Evaluator.
var _ pkg.Evaluator = (*Dispatcher)(nil)

// Dispatcher routes each evaluation to the local or remote evaluator
// according to the execution target of the parameter.
// NOTE: Use NewDispatcher to create a Dispatcher.
type Dispatcher struct {
	logger hclog.Logger
	local  pkg.Evaluator
	remote pkg.Evaluator
}

// NewDispatcher constructs a Dispatcher. remote may be nil when no workers are available.
func NewDispatcher(logger hclog.Logger, local, remote pkg.Evaluator) *Dispatcher {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Dispatcher{
		logger: logger.Named("dispatcher"),
		local:  local,
		remote: remote,
	}
}

// Evaluate implements parameter.Evaluator.
func (d *Dispatcher) Evaluate(ctx context.Context, spec pkg.Spec) (any, error) {
	switch spec.Target {
	case pkg.TargetLocal, "":
		d.logger.Trace("evaluating locally", "parameter", spec.Name)
		return d.local.Evaluate(ctx, spec)
	case pkg.TargetRemote:
		if d.remote == nil {
			return nil, fmt.Errorf("%w: parameter %s", ErrNoRemoteEvaluator, spec.Name)
		}
		d.logger.Trace("evaluating remotely", "parameter", spec.Name)
		return d.remote.Evaluate(ctx, spec)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownTarget, spec.Target)
	}
}
