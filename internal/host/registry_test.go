package host

import (
	"context"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/require"

	"github.com/peteski22/dynparam/internal/parameter"
	pkg "github.com/peteski22/dynparam/pkg/contract/parameter"
)

func choiceParameter(t *testing.T, name string, result any, remote bool) *parameter.ChoiceParameter {
	t.Helper()

	p, err := parameter.NewChoiceParameter(
		pkg.NewSpec(name, "", name+" description", "", remote),
		pkg.EvaluatorFunc(func(context.Context, pkg.Spec) (any, error) {
			return result, nil
		}),
	)
	require.NoError(t, err)
	return p
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	r := NewRegistry(hclog.NewNullLogger())

	require.NoError(t, r.Register(choiceParameter(t, "B", nil, false)))
	require.NoError(t, r.Register(choiceParameter(t, "A", nil, false)))

	err := r.Register(choiceParameter(t, "A", nil, true))
	require.ErrorIs(t, err, ErrDuplicateParameter)

	def, err := r.Lookup("A")
	require.NoError(t, err)
	require.Equal(t, pkg.TargetLocal, def.Spec().Target)

	_, err = r.Lookup("missing")
	require.ErrorIs(t, err, ErrUnknownParameter)

	var names []string
	for _, d := range r.Definitions() {
		names = append(names, d.Spec().Name)
	}
	require.Equal(t, []string{"B", "A"}, names)
}
