package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"todopro/pkg/auth"
	"todopro/pkg/config"
	"todopro/pkg/logger"
	"todopro/pkg/telemetry"
)

// UserIDKey is where the JWT middleware stores the authenticated user id
// in the gin context.
const UserIDKey = "x-user-id"

// GinJwtMiddleware is the auth guard: it rejects requests without a
// valid bearer token before any handler runs, and resolves the acting
// user id for the ones it lets through.
func GinJwtMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		bearer := c.GetHeader("Authorization")

		if bearer == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"message": "Unauthorized request",
			})

			c.Abort()
			return
		}

		if !strings.HasPrefix(bearer, "Bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{
				"message": "Invalid authorization format",
			})

			c.Abort()
			return
		}

		token, err := auth.VerifyJwtToken(bearer[len("Bearer "):])

		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"message": "Unauthorized request",
			})

			c.Abort()
			return
		}

		userId, ok := token["user_id"].(float64)

		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{
				"message": "Unauthorized request",
			})

			c.Abort()
			return
		}

		c.Set(UserIDKey, int(userId))
		c.Next()
	}
}

// CurrentUserID reads the identity resolved by GinJwtMiddleware.
func CurrentUserID(c *gin.Context) int {
	return c.GetInt(UserIDKey)
}

func MetricsMiddleware(metrics *telemetry.AppMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		metrics.IncrementActiveConnections(c.Request.Context())
		defer metrics.DecrementActiveConnections(c.Request.Context())

		c.Next()

		duration := time.Since(start)
		status := c.Writer.Status()

		metrics.RecordRequest(
			c.Request.Context(),
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(status),
			duration,
		)
	}
}

func LoggingMiddleware(log *logger.AppLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)

		if raw != "" {
			path = path + "?" + raw
		}

		log.Info(c.Request.Context(), "HTTP Request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
			zap.String("user_agent", c.Request.UserAgent()),
		)
	}
}

func CorsMiddleware() gin.HandlerFunc {
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}

	return cors.New(corsConfig)
}

// SetupGinMiddleware installs the ambient middleware chain: tracing,
// logging and metrics. The rate limiter is returned instead of being
// installed here, because user-keyed limits only work when the limiter
// runs after the JWT middleware has resolved the user id — the caller
// attaches it per route group. Returns nil when rate limiting is off.
func SetupGinMiddleware(router *gin.Engine, serviceName string, metrics *telemetry.AppMetrics, log *logger.AppLogger, cfg *config.Config) *RateLimiter {
	router.Use(otelgin.Middleware(serviceName))
	router.Use(LoggingMiddleware(log))
	router.Use(MetricsMiddleware(metrics))

	if !cfg.RateLimitEnabled {
		return nil
	}

	return NewRateLimiter(log.Logger.Logger, metrics)
}
