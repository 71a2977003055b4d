package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/hashicorp/go-hclog"

	"github.com/peteski22/dynparam/internal/config"
	"github.com/peteski22/dynparam/internal/evaluator"
	"github.com/peteski22/dynparam/internal/host"
	"github.com/peteski22/dynparam/internal/parameter"
	"github.com/peteski22/dynparam/internal/workers"
	pkg "github.com/peteski22/dynparam/pkg/contract/parameter"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func configPath() string {
	if path := os.Getenv("DYNPARAM_CONFIG"); path != "" {
		return path
	}
	return "config.toml"
}

func workerBinaries(dir string) ([]string, error) {
	var results []string

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}

	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())

		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", entry.Name(), err)
		}

		if info.Mode()&0o111 != 0 {
			results = append(results, path)
		}
	}

	return results, nil
}

func run() error {
	cfg, err := config.Load(configPath(), config.Default())
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	logger := hclog.New(&hclog.LoggerOptions{
		Name:       "dynparam",
		Level:      hclog.LevelFromString(cfg.Log.Level),
		JSONFormat: cfg.Log.JSON,
	})

	logger.Info("starting dynparam", "parameters", len(cfg.Parameters))

	// Cancelling ctx kills worker processes outright, so it is only cancelled
	// after the deferred StopAll below has interrupted them.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := workers.NewManager(logger,
		workers.WithStartTimeout(cfg.Workers.StartTimeout),
		workers.WithCallTimeout(cfg.Workers.CallTimeout),
	)
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := manager.StopAll(shutdownCtx); err != nil {
			logger.Error("failed to stop workers", "error", err)
		}
	}()

	binaries, err := workerBinaries(cfg.Workers.Dir)
	if err != nil {
		logger.Warn("no worker binaries found, remote parameters will have no choices", "error", err)
	}

	for _, binary := range binaries {
		w, err := manager.Start(ctx, binary)
		if err != nil {
			logger.Error("failed to start worker", "path", binary, "error", err)
			continue
		}
		logger.Info("registered worker", "id", w.ID())
	}

	dispatcher := evaluator.NewDispatcher(logger,
		evaluator.NewLocal(logger),
		workers.NewEvaluator(manager, manager.CallTimeout()),
	)

	registry := host.NewRegistry(logger)
	for _, pc := range cfg.Parameters {
		spec := pkg.NewSpec(pc.Name, pc.Script, pc.Description, pc.UUID, pc.Remote)

		p, err := parameter.NewChoiceParameter(spec, dispatcher, parameter.WithLogger(logger))
		if err != nil {
			return fmt.Errorf("error creating parameter %s: %w", pc.Name, err)
		}
		if err := registry.Register(p); err != nil {
			return fmt.Errorf("error registering parameter %s: %w", pc.Name, err)
		}
		logger.Info("registered parameter", "name", spec.Name, "target", spec.Target, "uuid", spec.UUID)
	}

	handlers := host.NewHandlers(logger, registry)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(handlers.Middleware())

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"healthy"}`))
	})

	handlers.Routes(router)

	srv := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: router,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan

		logger.Info("shutting down server...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown error", "error", err)
		}
	}()

	logger.Info("server starting", "addr", cfg.Server.Address)

	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}
