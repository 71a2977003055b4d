package rpc

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	pkg "github.com/peteski22/dynparam/pkg/contract/parameter"
)

func dialServer(t *testing.T, evaluator pkg.Evaluator) EvaluatorClient {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer()
	RegisterEvaluatorServer(srv, NewServer(nil, evaluator))
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return NewEvaluatorClient(conn)
}

func TestServerEvaluate(t *testing.T) {
	t.Parallel()

	var seen pkg.Spec
	client := dialServer(t, pkg.EvaluatorFunc(func(_ context.Context, spec pkg.Spec) (any, error) {
		seen = spec
		return []any{"a", nil}, nil
	}))

	resp, err := client.Evaluate(context.Background(), EncodeSpec(pkg.NewSpec("P", "script", "", "id", true)))
	require.NoError(t, err)
	require.Equal(t, []any{"a", nil}, DecodeResult(resp))
	require.Equal(t, "P", seen.Name)
	require.Equal(t, pkg.TargetLocal, seen.Target)
}

func TestServerEvaluateErrors(t *testing.T) {
	t.Parallel()

	client := dialServer(t, pkg.EvaluatorFunc(func(context.Context, pkg.Spec) (any, error) {
		return nil, errors.New("syntax error")
	}))

	_, err := client.Evaluate(context.Background(), EncodeSpec(pkg.NewSpec("P", "", "", "", false)))
	require.Equal(t, codes.FailedPrecondition, status.Code(err))
	require.Contains(t, err.Error(), "syntax error")

	_, err = client.Evaluate(context.Background(), &structpb.Struct{})
	require.Equal(t, codes.InvalidArgument, status.Code(err))
}
