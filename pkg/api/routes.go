package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	gqladapter "todopro/internal/adapter/graphql"
	"todopro/internal/adapter/http/handler"
	"todopro/internal/adapter/http/middleware"
	"todopro/pkg/config"
	"todopro/pkg/logger"
	"todopro/pkg/telemetry"
)

type HandlersConfig struct {
	AuthHandler    *handler.AuthHandler
	TodoHandler    *handler.TodoHandler
	PaymentHandler *handler.PaymentHandler
	GraphQLHandler *gqladapter.Handler
}

func SetupRouter(handlers HandlersConfig, metrics *telemetry.AppMetrics, log *logger.AppLogger, cfg *config.Config) *gin.Engine {
	if cfg.Environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	rateLimiter := middleware.SetupGinMiddleware(router, cfg.AppName, metrics, log, cfg)

	router.Use(gin.Recovery())
	router.Use(middleware.CorsMiddleware())

	setupPublicRoutes(router, handlers, rateLimiter)
	setupProtectedRoutes(router, handlers, rateLimiter)

	return router
}

func setupPublicRoutes(router *gin.Engine, handlers HandlersConfig, rateLimiter *middleware.RateLimiter) {
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if handlers.AuthHandler != nil {
		public := router.Group("/auth")

		if rateLimiter != nil {
			public.Use(rateLimiter.RateLimitMiddleware())
		}

		{
			public.POST("/register", handlers.AuthHandler.Register)
			public.POST("/login", handlers.AuthHandler.Login)
		}
	}
}

func setupProtectedRoutes(router *gin.Engine, handlers HandlersConfig, rateLimiter *middleware.RateLimiter) {
	protected := router.Group("/")

	// jwt runs first so user-keyed rate limits see the resolved user id
	protected.Use(middleware.GinJwtMiddleware())

	if rateLimiter != nil {
		protected.Use(rateLimiter.RateLimitMiddleware())
	}

	{
		if handlers.TodoHandler != nil {
			protected.POST("/todos", handlers.TodoHandler.CreateTodo)
			protected.GET("/todos/:id", handlers.TodoHandler.GetTodo)
			protected.PUT("/todos/:id", handlers.TodoHandler.UpdateTodo)
			protected.DELETE("/todos/:id", handlers.TodoHandler.DeleteTodo)
		}

		if handlers.PaymentHandler != nil {
			protected.POST("/stripe/create-payment-intent", handlers.PaymentHandler.CreatePaymentIntent)
		}

		if handlers.GraphQLHandler != nil {
			protected.POST("/graphql", handlers.GraphQLHandler.Serve)
		}
	}
}

// SetupRouterForTests keeps the route table without the ambient
// middleware chain.
func SetupRouterForTests(handlers HandlersConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)

	router := gin.New()

	router.Use(gin.Recovery())

	setupPublicRoutes(router, handlers, nil)
	setupProtectedRoutes(router, handlers, nil)

	return router
}
