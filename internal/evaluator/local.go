package evaluator

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/hashicorp/go-hclog"

	pkg "github.com/peteski22/dynparam/pkg/contract/parameter"
)

// Ensure Local implements parameter.Evaluator.
var _ pkg.Evaluator = (*Local)(nil)

// Local evaluates parameter scripts in-process as expr-lang expressions.
//
// Scripts see the following variables:
//   - name: the parameter name
//   - uuid: the parameter UUID
//   - env:  the process environment as a map
//
// A script that is blank, or evaluates to nil, produces no result.
type Local struct {
	logger  hclog.Logger
	environ func() []string
}

// NewLocal creates a Local evaluator.
func NewLocal(logger hclog.Logger) *Local {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Local{
		logger:  logger.Named("local-evaluator"),
		environ: os.Environ,
	}
}

// Evaluate compiles and runs the script of spec.
// Programs are compiled on every call so each evaluation sees the current environment.
func (l *Local) Evaluate(ctx context.Context, spec pkg.Spec) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if strings.TrimSpace(spec.Script) == "" {
		l.logger.Debug("empty script", "parameter", spec.Name)
		return nil, nil
	}

	env := map[string]any{
		"name": spec.Name,
		"uuid": spec.UUID,
		"env":  environMap(l.environ()),
	}

	program, err := expr.Compile(spec.Script, expr.Env(env))
	if err != nil {
		return nil, fmt.Errorf("%w: compiling script for %s: %w", ErrScript, spec.Name, err)
	}

	out, err := expr.Run(program, env)
	if err != nil {
		return nil, fmt.Errorf("%w: running script for %s: %w", ErrScript, spec.Name, err)
	}

	l.logger.Trace("script evaluated", "parameter", spec.Name, "type", fmt.Sprintf("%T", out))
	return out, nil
}

func environMap(environ []string) map[string]string {
	out := make(map[string]string, len(environ))
	for _, kv := range environ {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			continue
		}
		out[key] = value
	}
	return out
}
