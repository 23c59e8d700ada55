package config

import (
	"log"
	"os"
	"strconv"
)

// Config holds everything the process reads from the environment.
type Config struct {
	AppName     string
	Environment string
	Port        string

	// Database. DATABASE_URL selects postgres; otherwise the sqlite file
	// at DATABASE_PATH is used.
	DatabaseURL    string
	DatabasePath   string
	MigrationsPath string

	// Secrets
	SecretKey       string // cursor signing
	JWTSecretKey    string
	StripeSecretKey string

	// Uploads. GCS_BUCKET selects Google Cloud Storage; otherwise files
	// land on local disk under UploadsDest.
	UploadsDest        string
	GCSBucket          string
	GCSCredentialsJSON string

	// Telemetry
	MetricsPort  string
	OTLPEndpoint string

	RateLimitEnabled bool
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getbool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			log.Printf("invalid boolean for %s: %v, using default %v", key, err, def)
			return def
		}
		return b
	}
	return def
}

// Load reads the environment. Defaults suit local development.
func Load() *Config {
	return &Config{
		AppName:     getenv("APP_NAME", "todopro"),
		Environment: getenv("APP_ENV", "development"),
		Port:        getenv("PORT", "8080"),

		DatabaseURL:    getenv("DATABASE_URL", ""),
		DatabasePath:   getenv("DATABASE_PATH", "database.db"),
		MigrationsPath: getenv("MIGRATIONS_PATH", ""),

		SecretKey:       getenv("SECRET_KEY", "devsecret"),
		JWTSecretKey:    getenv("JWT_SECRET_KEY", "devjwtsecret"),
		StripeSecretKey: getenv("STRIPE_SECRET_KEY", ""),

		UploadsDest:        getenv("UPLOADS_DEST", "uploads"),
		GCSBucket:          getenv("GCS_BUCKET", ""),
		GCSCredentialsJSON: getenv("GCS_CREDENTIALS_JSON", ""),

		MetricsPort:  getenv("METRICS_PORT", "9091"),
		OTLPEndpoint: getenv("OTLP_ENDPOINT", "localhost:4317"),

		RateLimitEnabled: getbool("RATE_LIMIT_ENABLED", true),
	}
}
