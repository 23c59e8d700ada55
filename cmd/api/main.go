package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"todopro/pkg/api"
	"todopro/pkg/config"
	"todopro/pkg/logger"
	"todopro/pkg/telemetry"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, relying on environment")
	}

	cfg := config.Load()

	log, err := logger.New(cfg.AppName)

	if err != nil {
		slog.Error("Failed to create logger", "error", err)
		os.Exit(1)
	}

	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	telemetryInstance, err := telemetry.InitTelemetry(telemetry.TelemetryConfig{
		ServiceName:  cfg.AppName,
		Environment:  cfg.Environment,
		OTLPEndpoint: cfg.OTLPEndpoint,
		MetricsPort:  cfg.MetricsPort,
	})

	if err != nil {
		log.Error(ctx, "Failed to initialize telemetry", zap.Error(err))
		os.Exit(1)
	}

	defer telemetryInstance.Shutdown(context.Background())

	metrics := telemetry.NewAppMetrics(telemetryInstance.PrometheusRegistry)
	metrics.StartSystemMetrics(ctx)

	if err := api.StartServer(ctx, cfg, metrics, log); err != nil {
		log.Error(ctx, "Server stopped with error", zap.Error(err))
		os.Exit(1)
	}
}
