package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"time"

	"todopro/internal/adapter/database"
	"todopro/internal/adapter/database/postgres"
	"todopro/internal/adapter/database/sqlite"
	"todopro/internal/infrastructure"
	"todopro/pkg/config"
	"todopro/pkg/logger"
	"todopro/pkg/telemetry"
)

// StartServer opens the store, builds the container and serves the API.
// DATABASE_URL selects postgres; otherwise sqlite is used.
func StartServer(ctx context.Context, cfg *config.Config, metrics *telemetry.AppMetrics, log *logger.AppLogger) error {
	db, err := openDB(cfg)

	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}

	container, err := infrastructure.NewContainer(ctx, db, cfg, log, metrics)

	if err != nil {
		return fmt.Errorf("building container: %w", err)
	}

	router := SetupRouter(HandlersConfig{
		AuthHandler:    container.AuthHandler,
		TodoHandler:    container.TodoHandler,
		PaymentHandler: container.PaymentHandler,
		GraphQLHandler: container.GraphQLHandler,
	}, metrics, log, cfg)

	slog.Info("Server starting",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"rate_limit_enabled", cfg.RateLimitEnabled)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown failed", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	return nil
}

func openDB(cfg *config.Config) (*database.DB, error) {
	if cfg.DatabaseURL != "" {
		return postgres.NewDB(cfg.DatabaseURL, migrationsPath(cfg, "postgres"))
	}

	return sqlite.NewDB(cfg.DatabasePath, migrationsPath(cfg, "sqlite"))
}

func migrationsPath(cfg *config.Config, driver string) string {
	if cfg.MigrationsPath != "" {
		return cfg.MigrationsPath
	}

	return filepath.Join("db", "migrations", driver)
}
