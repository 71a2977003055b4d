package evaluator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	pkg "github.com/peteski22/dynparam/pkg/contract/parameter"
)

func tagged(tag string) pkg.Evaluator {
	return pkg.EvaluatorFunc(func(context.Context, pkg.Spec) (any, error) {
		return tag, nil
	})
}

func TestDispatcherRoutesByTarget(t *testing.T) {
	t.Parallel()

	d := NewDispatcher(nil, tagged("local"), tagged("remote"))
	ctx := context.Background()

	got, err := d.Evaluate(ctx, pkg.NewSpec("p", "", "", "", false))
	require.NoError(t, err)
	require.Equal(t, "local", got)

	got, err = d.Evaluate(ctx, pkg.NewSpec("p", "", "", "", true))
	require.NoError(t, err)
	require.Equal(t, "remote", got)

	got, err = d.Evaluate(ctx, pkg.Spec{Name: "p"})
	require.NoError(t, err)
	require.Equal(t, "local", got)

	_, err = d.Evaluate(ctx, pkg.Spec{Name: "p", Target: "mars"})
	require.ErrorIs(t, err, ErrUnknownTarget)
}

func TestDispatcherWithoutRemote(t *testing.T) {
	t.Parallel()

	d := NewDispatcher(nil, tagged("local"), nil)

	_, err := d.Evaluate(context.Background(), pkg.NewSpec("p", "", "", "", true))
	require.ErrorIs(t, err, ErrNoRemoteEvaluator)
}
