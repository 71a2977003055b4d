package workers

import "errors"

var (
	// ErrNoWorkers is returned when a remote evaluation is requested but no worker is running.
	ErrNoWorkers = errors.New("no script workers available")

	// ErrWorkerNotServing is returned when a worker reports that its evaluator service is not serving.
	ErrWorkerNotServing = errors.New("script worker is not serving")
)
