package app

import (
	"context"
	"fmt"
	"log"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	progresssqlite "github.com/arxlet/paperdex/internal/services/progress/storage/sqlite"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
)

// RuntimeConfig controls progress startup, dependencies, and sweep behavior.
type RuntimeConfig struct {
	Port           int
	DBPath         string
	PollInterval   time.Duration
	ResponseWindow time.Duration
}

const (
	defaultProgressPort = 8093
	defaultProgressDB   = "data/progress.db"
)

// Run starts progress runtime dependencies and the background sweep loop.
func Run(ctx context.Context, cfg RuntimeConfig) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if cfg.Port <= 0 {
		cfg.Port = defaultProgressPort
	}
	if strings.TrimSpace(cfg.DBPath) == "" {
		cfg.DBPath = defaultProgressDB
	}

	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create progress storage dir: %w", err)
		}
	}

	progressStore, err := progresssqlite.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open progress sqlite store: %w", err)
	}
	defer func() {
		if closeErr := progressStore.Close(); closeErr != nil {
			log.Printf("close progress sqlite store: %v", closeErr)
		}
	}()

	service := NewService(progressStore, ServiceConfig{
		ResponseWindow: cfg.ResponseWindow,
	})
	scheduler := NewScheduler(service, SchedulerConfig{
		PollInterval: cfg.PollInterval,
	})

	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.Port))
	if err != nil {
		return fmt.Errorf("listen on progress port %d: %w", cfg.Port, err)
	}
	defer listener.Close()

	grpcServer := grpc.NewServer(grpc.StatsHandler(otelgrpc.NewServerHandler()))
	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus("progress.runtime", grpc_health_v1.HealthCheckResponse_SERVING)

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- grpcServer.Serve(listener)
	}()
	defer func() {
		healthServer.Shutdown()
		grpcServer.GracefulStop()
		<-serveErr
	}()

	log.Printf("progress server listening at %v", listener.Addr())
	return scheduler.Run(ctx)
}
