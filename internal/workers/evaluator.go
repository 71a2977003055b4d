package workers

import (
	"context"
	"fmt"
	"time"

	"github.com/peteski22/dynparam/internal/rpc"
	pkg "github.com/peteski22/dynparam/pkg/contract/parameter"
)

// Ensure Evaluator implements parameter.Evaluator.
var _ pkg.Evaluator = (*Evaluator)(nil)

// Source hands out workers for remote evaluations.
type Source interface {
	Next() (*Worker, error)
}

// Evaluator adapts script workers to the parameter.Evaluator interface.
type Evaluator struct {
	source  Source
	timeout time.Duration
}

// NewEvaluator creates an Evaluator that sends each evaluation to the next
// worker from source. A positive timeout bounds every call.
func NewEvaluator(source Source, timeout time.Duration) *Evaluator {
	return &Evaluator{
		source:  source,
		timeout: timeout,
	}
}

// Evaluate implements parameter.Evaluator.
func (e *Evaluator) Evaluate(ctx context.Context, spec pkg.Spec) (any, error) {
	w, err := e.source.Next()
	if err != nil {
		return nil, err
	}

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	resp, err := w.Client().Evaluate(ctx, rpc.EncodeSpec(spec))
	if err != nil {
		return nil, fmt.Errorf("worker %s: %w", w.ID(), err)
	}

	return rpc.DecodeResult(resp), nil
}
