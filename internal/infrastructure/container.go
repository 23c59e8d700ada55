package infrastructure

import (
	"context"
	"fmt"

	"todopro/internal/adapter/database"
	"todopro/internal/adapter/database/repository"
	gqladapter "todopro/internal/adapter/graphql"
	"todopro/internal/adapter/http/handler"
	"todopro/internal/adapter/payment/stripe"
	"todopro/internal/adapter/storage"
	"todopro/internal/adapter/storage/gcs"
	"todopro/internal/adapter/storage/local"
	"todopro/internal/core/port"
	"todopro/internal/core/service"
	"todopro/pkg/config"
	"todopro/pkg/logger"
	"todopro/pkg/telemetry"
)

// Container wires repositories, services and handlers together.
type Container struct {
	AuthHandler    *handler.AuthHandler
	TodoHandler    *handler.TodoHandler
	PaymentHandler *handler.PaymentHandler
	GraphQLHandler *gqladapter.Handler
}

func NewContainer(ctx context.Context, db *database.DB, cfg *config.Config, log *logger.AppLogger, metrics *telemetry.AppMetrics) (*Container, error) {
	todoRepo := repository.NewTodoRepository(db)
	userRepo := repository.NewUserRepository(db)

	imageStore, backend, err := newImageStore(ctx, cfg)

	if err != nil {
		return nil, err
	}

	imageStore = storage.NewInstrumentedStore(imageStore, backend, metrics)

	todoService := service.NewTodoService(todoRepo, imageStore)
	userService := service.NewUserService(userRepo)
	paymentService := service.NewPaymentService(stripe.NewGateway(cfg.StripeSecretKey))

	schema, err := gqladapter.NewSchema(todoService, userService)

	if err != nil {
		return nil, fmt.Errorf("building graphql schema: %w", err)
	}

	return &Container{
		AuthHandler:    handler.NewAuthHandler(userService, metrics),
		TodoHandler:    handler.NewTodoHandler(todoService, metrics, log),
		PaymentHandler: handler.NewPaymentHandler(paymentService, metrics, log),
		GraphQLHandler: gqladapter.NewHandler(schema),
	}, nil
}

func newImageStore(ctx context.Context, cfg *config.Config) (port.ImageStore, string, error) {
	if cfg.GCSBucket != "" {
		store, err := gcs.NewStore(ctx, cfg.GCSBucket, cfg.GCSCredentialsJSON)
		return store, "gcs", err
	}

	store, err := local.NewStore(cfg.UploadsDest)

	return store, "local", err
}
