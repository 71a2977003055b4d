package evaluator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	pkg "github.com/peteski22/dynparam/pkg/contract/parameter"
)

func newTestLocal(environ ...string) *Local {
	l := NewLocal(nil)
	l.environ = func() []string { return environ }
	return l
}

func TestLocalEvaluate(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		script string
		want   any
	}{
		"list literal":  {script: `["a", "b", nil]`, want: []any{"a", "b", nil}},
		"numbers":       {script: `[1, 2, 3]`, want: []any{1, 2, 3}},
		"split":         {script: `split("x,y", ",")`, want: []string{"x", "y"}},
		"parameter":     {script: `[name, upper(name)]`, want: []any{"branch", "BRANCH"}},
		"environment":   {script: `split(env.BRANCHES, " ")`, want: []string{"main", "dev"}},
		"scalar":        {script: `"just text"`, want: "just text"},
		"nil":           {script: `nil`, want: nil},
		"blank":         {script: "  \n", want: nil},
		"map and range": {script: `map(1..3, # * 10)`, want: []any{10, 20, 30}},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			l := newTestLocal("BRANCHES=main dev", "MALFORMED")
			got, err := l.Evaluate(context.Background(), pkg.NewSpec("branch", tc.script, "", "", false))
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestLocalEvaluateErrors(t *testing.T) {
	t.Parallel()

	l := newTestLocal()

	_, err := l.Evaluate(context.Background(), pkg.NewSpec("p", `[1, `, "", "", false))
	require.ErrorIs(t, err, ErrScript)

	_, err = l.Evaluate(context.Background(), pkg.NewSpec("p", `unknownVariable + 1`, "", "", false))
	require.ErrorIs(t, err, ErrScript)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = l.Evaluate(ctx, pkg.NewSpec("p", `[1]`, "", "", false))
	require.ErrorIs(t, err, context.Canceled)
}

func TestEnvironMap(t *testing.T) {
	t.Parallel()

	got := environMap([]string{"A=1", "B=x=y", "=hidden", "C"})
	require.Equal(t, map[string]string{"A": "1", "B": "x=y"}, got)
}
