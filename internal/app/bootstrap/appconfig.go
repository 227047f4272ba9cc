// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like ports, TLS,
// logging level, CORS and request body limits.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Redis caches resolved file URLs. Blank address disables the cache.
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	FileURLTTL    time.Duration

	// Session management configuration
	SessionKey    string // Secret key for signing session cookies (must be strong in production)
	SessionName   string // Cookie name for sessions (default: civichub-session)
	SessionDomain string // Cookie domain (blank means current host)
	SessionMaxAge time.Duration

	// Bearer tokens for API clients. Blank secret disables bearer auth.
	JWTSecret string

	// File storage configuration
	StorageType      string // Storage backend: "local" or "s3"
	StorageLocalPath string // Local storage path (e.g., "./uploads")
	StorageLocalURL  string // URL prefix for serving local files (e.g., "/uploads")

	// S3 configuration (only used if StorageType is "s3")
	StorageS3Region    string
	StorageS3Bucket    string
	StorageS3Prefix    string
	StorageS3Endpoint  string // Custom endpoint for S3-compatible stores (MinIO, LocalStack)
	StorageS3AccessKey string
	StorageS3SecretKey string
	StorageS3URLExpiry time.Duration

	// Dashboard aggregation
	FanoutLimit int // Max groups queried concurrently per request

	// Query timeouts
	TimeoutPing   time.Duration
	TimeoutShort  time.Duration
	TimeoutMedium time.Duration

	// Rate limiting for /api. Zero requests disables it.
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// Observability
	MetricsNamespace string
	OTLPEndpoint     string // OTLP/HTTP collector (e.g., localhost:4318). Blank disables tracing.
}
