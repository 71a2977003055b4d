package main

import (
	"errors"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/hashicorp/go-hclog"
	"github.com/jessevdk/go-flags"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/peteski22/dynparam/internal/evaluator"
	"github.com/peteski22/dynparam/internal/rpc"
)

// options are supplied by the host worker manager.
type options struct {
	Address  string `long:"address" description:"address to listen on" required:"true"`
	Network  string `long:"network" description:"network to listen on" default:"unix" choice:"unix" choice:"tcp"`
	LogLevel string `long:"log-level" description:"log level" default:"info" env:"DYNPARAM_WORKER_LOG_LEVEL"`
}

func main() {
	var opts options
	if _, err := flags.Parse(&opts); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if err := run(opts); err != nil {
		log.Fatal(err)
	}
}

func run(opts options) error {
	// Written to stderr, which the host pipes into its own logger.
	logger := hclog.New(&hclog.LoggerOptions{
		Name:   "script-worker",
		Level:  hclog.LevelFromString(opts.LogLevel),
		Output: os.Stderr,
	})

	lis, err := net.Listen(opts.Network, opts.Address)
	if err != nil {
		return fmt.Errorf("listening on %s %s: %w", opts.Network, opts.Address, err)
	}

	srv := grpc.NewServer()
	rpc.RegisterEvaluatorServer(srv, rpc.NewServer(logger, evaluator.NewLocal(logger)))

	healthSrv := health.NewServer()
	healthSrv.SetServingStatus(rpc.ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(srv, healthSrv)

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan

		logger.Info("script worker stopping")
		healthSrv.Shutdown()
		srv.GracefulStop()
	}()

	logger.Info("script worker serving", "network", opts.Network, "address", opts.Address)

	if err := srv.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return fmt.Errorf("serving: %w", err)
	}
	return nil
}
