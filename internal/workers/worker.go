package workers

import (
	"github.com/peteski22/dynparam/internal/rpc"
)

// Worker represents a running script worker to the Manager.
// NOTE: Workers are created by Manager.Start.
type Worker struct {
	id     string
	path   string
	client rpc.EvaluatorClient
}

// ID returns the identifier the manager assigned to the worker.
func (w *Worker) ID() string {
	return w.id
}

// Path returns the binary the worker was started from.
func (w *Worker) Path() string {
	return w.path
}

// Client returns the gRPC client connected to the worker.
func (w *Worker) Client() rpc.EvaluatorClient {
	return w.client
}
