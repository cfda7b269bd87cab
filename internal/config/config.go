// Package config defines the configuration of the Fangindex service.
// Configuration is loaded once at process start and is immutable
// afterwards.
//
// Values are resolved in priority order:
//
//	OS Environment (Highest) -> Dotenv File -> Struct Defaults (Lowest)
//
// A missing required value or an invalid format fails startup.
package config

import (
	"time"

	"fangindex/internal/types"
)

// SecretString is an alias for types.SecretString so config consumers do not
// need to import types for secret fields.
type SecretString = types.SecretString

// Config is the top-level configuration. Sub-components receive only the
// subsets they need.
type Config struct {
	// System Metadata
	Environment string `envconfig:"APP_ENV" validate:"required,oneof=local dev staging prod"`
	Service     string `envconfig:"SERVICE_NAME" default:"fangindex"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`

	Server        ServerConfig
	Database      DatabaseConfig
	AWS           AWSConfig
	Weather       WeatherConfig
	WaterLevel    WaterLevelConfig
	Ranking       RankingConfig
	Security      SecurityConfig
	Observability ObservabilityConfig

	// Build Metadata (Injected via ldflags, not Env)
	Build BuildInfo
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            string        `envconfig:"PORT" default:"8080"`
	RequestTimeout  time.Duration `envconfig:"REQUEST_TIMEOUT" default:"10s"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"15s"`
}

// DatabaseConfig holds database connection and pool tuning parameters.
type DatabaseConfig struct {
	URL SecretString `envconfig:"DATABASE_URL" validate:"required,url"`

	MaxConns          int           `envconfig:"DB_MAX_CONNS" default:"10"`
	MinConns          int           `envconfig:"DB_MIN_CONNS" default:"1"`
	MaxConnLifetime   time.Duration `envconfig:"DB_MAX_CONN_LIFETIME" default:"30m"`
	AcquireTimeout    time.Duration `envconfig:"DB_ACQUIRE_TIMEOUT" default:"2s"`
	HealthCheckPeriod time.Duration `envconfig:"DB_HEALTH_CHECK_PERIOD" default:"1m"`
}

// AWSConfig holds AWS regional configuration.
type AWSConfig struct {
	Region string `envconfig:"AWS_REGION" default:"eu-central-1"`

	// LocalStack Support (Empty in Prod)
	EndpointURL string `envconfig:"AWS_ENDPOINT_URL"`
}

// WeatherConfig configures the OpenWeather provider.
type WeatherConfig struct {
	APIKey  SecretString  `envconfig:"OPENWEATHER_API_KEY" validate:"required"`
	BaseURL string        `envconfig:"OPENWEATHER_BASE_URL" default:"https://api.openweathermap.org" validate:"url"`
	Lang    string        `envconfig:"OPENWEATHER_LANG" default:"en"`
	Timeout time.Duration `envconfig:"OPENWEATHER_TIMEOUT" default:"5s"`
}

// WaterLevelConfig configures the PEGELONLINE provider.
type WaterLevelConfig struct {
	Enabled bool          `envconfig:"PEGELONLINE_ENABLED" default:"true"`
	BaseURL string        `envconfig:"PEGELONLINE_BASE_URL" default:"https://www.pegelonline.wsv.de/webservices/rest-api/v2" validate:"url"`
	Timeout time.Duration `envconfig:"PEGELONLINE_TIMEOUT" default:"5s"`
}

// RankingConfig holds the defaults applied to ranking requests.
type RankingConfig struct {
	DefaultRadiusKm float64 `envconfig:"RANKING_DEFAULT_RADIUS_KM" default:"20" validate:"gt=0,lte=500"`
	DefaultLimit    int     `envconfig:"RANKING_DEFAULT_LIMIT" default:"3" validate:"gte=1"`
	MaxLimit        int     `envconfig:"RANKING_MAX_LIMIT" default:"20" validate:"gtefield=DefaultLimit"`

	// Used when the caller sends no coordinate or location is denied.
	FallbackLatitude  float64 `envconfig:"FALLBACK_LATITUDE" default:"53.3347" validate:"gte=-90,lte=90"`
	FallbackLongitude float64 `envconfig:"FALLBACK_LONGITUDE" default:"9.9717" validate:"gte=-180,lte=180"`

	// IANA zone used for time-of-day, golden hour and weekend detection.
	Timezone string `envconfig:"FANGINDEX_TIMEZONE" default:"Europe/Berlin" validate:"required"`
}

// Fallback returns the configured fallback coordinate.
func (r RankingConfig) Fallback() types.Location {
	return types.Location{Latitude: r.FallbackLatitude, Longitude: r.FallbackLongitude}
}

// SecurityConfig holds CORS and per-IP rate limit settings.
// A RateLimitPerWindow of 0 disables rate limiting.
type SecurityConfig struct {
	CorsAllowedOrigins []string      `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
	RateLimitPerWindow int           `envconfig:"RATE_LIMIT_PER_WINDOW" default:"120" validate:"gte=0"`
	RateLimitWindow    time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"1m" validate:"gt=0"`
}

// ObservabilityConfig holds telemetry settings.
type ObservabilityConfig struct {
	MetricNamespace string `envconfig:"METRIC_NAMESPACE" default:"Fangindex"`
	EnableMetrics   bool   `envconfig:"ENABLE_METRICS" default:"false"`
}

// BuildInfo holds build-time metadata injected via ldflags.
type BuildInfo struct {
	Version   string
	Commit    string
	BuildTime string
}

// ConfigErrorType categorizes configuration loading failures.
type ConfigErrorType string

const (
	// ErrMissingEnv indicates a required environment variable was not found.
	ErrMissingEnv ConfigErrorType = "MISSING_ENV"
	// ErrValidation indicates the configuration failed struct validation rules.
	ErrValidation ConfigErrorType = "VALIDATION_FAILED"
	// ErrParsing indicates an environment value could not be parsed into its
	// target type.
	ErrParsing ConfigErrorType = "PARSING_FAILED"
)
