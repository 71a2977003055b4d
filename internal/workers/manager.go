package workers

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/peteski22/dynparam/internal/rpc"
)

// Manager manages script worker processes. It starts workers, keeps control
// of their processes, hands them out for remote evaluations and can
// force-kill them at any time. Scripts are untrusted user code.
type Manager struct {
	logger       hclog.Logger
	mu           sync.Mutex
	workers      map[string]*runningWorker
	order        []string
	next         int
	startTimeout time.Duration
	callTimeout  time.Duration
}

// runningWorker tracks a worker process and its gRPC connection.
type runningWorker struct {
	cmd     *exec.Cmd
	conn    *grpc.ClientConn
	worker  *Worker
	address string
	network string
}

// Option configures a Manager.
type Option func(*Manager)

// WithStartTimeout sets how long a worker may take to start serving.
func WithStartTimeout(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.startTimeout = d
		}
	}
}

// WithCallTimeout sets the deadline applied to each remote evaluation.
func WithCallTimeout(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.callTimeout = d
		}
	}
}

// NewManager creates a new worker manager.
func NewManager(logger hclog.Logger, opts ...Option) *Manager {
	m := &Manager{
		logger:       logger.Named("worker-manager"),
		workers:      make(map[string]*runningWorker),
		startTimeout: 10 * time.Second,
		callTimeout:  5 * time.Second,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// CallTimeout returns the deadline applied to each remote evaluation.
func (m *Manager) CallTimeout() time.Duration {
	return m.callTimeout
}

// Start launches a worker binary, connects to it and waits until its
// evaluator service reports serving.
func (m *Manager) Start(ctx context.Context, binaryPath string) (*Worker, error) {
	m.logger.Info("starting worker", "path", binaryPath)

	address, network := m.generateAddress(filepath.Base(binaryPath))
	m.logger.Debug("transport selected", "network", network, "address", address)

	cmd := exec.CommandContext(ctx, binaryPath, "--address", address, "--network", network)
	cmd.Stdout = m.logger.StandardWriter(&hclog.StandardLoggerOptions{InferLevels: true})
	cmd.Stderr = m.logger.StandardWriter(&hclog.StandardLoggerOptions{InferLevels: true})

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start process: %w", err)
	}

	m.logger.Debug("worker process started", "pid", cmd.Process.Pid, "address", address)

	dialCtx, cancel := context.WithTimeout(ctx, m.startTimeout)
	defer cancel()

	if err := m.waitForSocket(dialCtx, network, address); err != nil {
		m.kill(cmd)
		return nil, fmt.Errorf("worker didn't start in time: %w", err)
	}

	dialAddr := address
	if network == "unix" {
		dialAddr = "unix://" + address
	}

	conn, err := grpc.NewClient(dialAddr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		m.kill(cmd)
		return nil, fmt.Errorf("failed to connect to worker: %w", err)
	}

	if err := m.checkServing(dialCtx, conn); err != nil {
		if closeErr := conn.Close(); closeErr != nil {
			m.logger.Warn("failed to close connection", "error", closeErr)
		}
		m.kill(cmd)
		return nil, err
	}

	id := fmt.Sprintf("%s-%d", filepath.Base(binaryPath), cmd.Process.Pid)
	w := &Worker{
		id:     id,
		path:   binaryPath,
		client: rpc.NewEvaluatorClient(conn),
	}

	m.mu.Lock()
	m.workers[id] = &runningWorker{
		cmd:     cmd,
		conn:    conn,
		worker:  w,
		address: address,
		network: network,
	}
	m.order = append(m.order, id)
	m.mu.Unlock()

	m.logger.Info("worker started", "id", id, "pid", cmd.Process.Pid)

	return w, nil
}

// Next returns the next worker in round-robin order.
func (m *Manager) Next() (*Worker, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.order) == 0 {
		return nil, ErrNoWorkers
	}

	id := m.order[m.next%len(m.order)]
	m.next++
	return m.workers[id].worker, nil
}

// Workers returns all started workers.
func (m *Manager) Workers() []*Worker {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*Worker, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.workers[id].worker)
	}
	return out
}

// StopAll stops all running workers. Force-kills any that don't stop gracefully.
func (m *Manager) StopAll(ctx context.Context) error {
	m.mu.Lock()
	running := make([]*runningWorker, 0, len(m.order))
	for _, id := range m.order {
		running = append(running, m.workers[id])
	}
	m.workers = make(map[string]*runningWorker)
	m.order = nil
	m.next = 0
	m.mu.Unlock()

	var errs []error
	for _, rw := range running {
		if err := m.stopWorker(ctx, rw); err != nil {
			m.logger.Error("error stopping worker", "id", rw.worker.ID(), "error", err)
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func (m *Manager) stopWorker(ctx context.Context, rw *runningWorker) error {
	m.logger.Info("stopping worker", "id", rw.worker.ID())

	if err := rw.conn.Close(); err != nil {
		m.logger.Warn("error closing connection", "error", err)
	}

	if err := rw.cmd.Process.Signal(os.Interrupt); err != nil {
		m.logger.Warn("graceful stop failed, force killing", "error", err)
	}

	done := make(chan error, 1)
	go func() {
		done <- rw.cmd.Wait()
	}()

	stopCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	select {
	case <-stopCtx.Done():
		m.logger.Warn("worker didn't exit, force killing", "id", rw.worker.ID())
		if err := rw.cmd.Process.Kill(); err != nil {
			return fmt.Errorf("failed to kill process: %w", err)
		}
		<-done
	case err := <-done:
		if err != nil {
			m.logger.Debug("worker process exited with error", "error", err)
		}
	}

	if rw.network == "unix" {
		if err := os.Remove(rw.address); err != nil && !os.IsNotExist(err) {
			m.logger.Warn("failed to remove socket file", "path", rw.address, "error", err)
		}
	}

	m.logger.Info("worker stopped", "id", rw.worker.ID())
	return nil
}

func (m *Manager) kill(cmd *exec.Cmd) {
	if err := cmd.Process.Kill(); err != nil {
		m.logger.Warn("failed to kill worker process", "error", err)
	}
	_ = cmd.Wait()
}

// checkServing asks the worker's health service whether the evaluator is up.
func (m *Manager) checkServing(ctx context.Context, conn *grpc.ClientConn) error {
	resp, err := healthpb.NewHealthClient(conn).Check(ctx, &healthpb.HealthCheckRequest{
		Service: rpc.ServiceName,
	})
	if err != nil {
		return fmt.Errorf("checking worker health: %w", err)
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		return fmt.Errorf("%w: %s", ErrWorkerNotServing, resp.GetStatus())
	}
	return nil
}

func (m *Manager) generateAddress(workerName string) (address string, network string) {
	switch runtime.GOOS {
	case "windows":
		port := 50000 + (time.Now().UnixNano() % 10000)
		return fmt.Sprintf("localhost:%d", port), "tcp"
	default:
		sockPath := filepath.Join(os.TempDir(), fmt.Sprintf("dynparam-%s-%d.sock",
			strings.ReplaceAll(workerName, " ", "-"),
			time.Now().UnixNano()%1000000))
		return sockPath, "unix"
	}
}

func (m *Manager) waitForSocket(ctx context.Context, network, address string) error {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			conn, err := net.DialTimeout(network, address, 100*time.Millisecond)
			if err == nil {
				_ = conn.Close()
				return nil
			}
		}
	}
}
