package rpc

import (
	"context"

	"github.com/hashicorp/go-hclog"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	pkg "github.com/peteski22/dynparam/pkg/contract/parameter"
)

// Ensure Server implements EvaluatorServer.
var _ EvaluatorServer = (*Server)(nil)

// Server exposes a parameter.Evaluator over the ScriptEvaluator service.
type Server struct {
	logger    hclog.Logger
	evaluator pkg.Evaluator
}

// NewServer creates a Server delegating to evaluator.
func NewServer(logger hclog.Logger, evaluator pkg.Evaluator) *Server {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Server{
		logger:    logger.Named("evaluator-server"),
		evaluator: evaluator,
	}
}

// Evaluate implements EvaluatorServer.
func (s *Server) Evaluate(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	spec, err := DecodeSpec(req)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	s.logger.Debug("evaluating script", "parameter", spec.Name, "uuid", spec.UUID)

	result, err := s.evaluator.Evaluate(ctx, spec)
	if err != nil {
		s.logger.Warn("script evaluation failed", "parameter", spec.Name, "error", err)
		return nil, status.Error(codes.FailedPrecondition, err.Error())
	}

	return EncodeResult(result), nil
}
